package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/SAP-F-2025/progress-service/internal/config"
	"github.com/SAP-F-2025/progress-service/internal/events"
	"github.com/SAP-F-2025/progress-service/internal/models"
	"github.com/SAP-F-2025/progress-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/progress-service/internal/services"
	"github.com/SAP-F-2025/progress-service/internal/utils"
	"github.com/SAP-F-2025/progress-service/internal/validator"
	"github.com/SAP-F-2025/progress-service/pkg"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// App holds what a command needs. Close releases it.
type App struct {
	DB        *gorm.DB
	Services  *services.ServiceManager
	Publisher events.EventPublisher
	Close     func()
}

// AppFactory builds the App lazily so that --help never touches the database.
type AppFactory func(ctx context.Context) (*App, error)

// DefaultAppFactory connects to the configured database and event transport.
func DefaultAppFactory(ctx context.Context) (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := utils.ToSlogLogger(utils.NewLogger(os.Stderr, cfg.IsProduction()))

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		return nil, err
	}

	return NewApp(db, publisher, logger, services.ServiceOptions{
		DefaultLanguage:     cfg.DefaultLanguage,
		SpeculativeResolver: cfg.ResolverSpeculative,
	}), nil
}

func NewApp(db *gorm.DB, publisher events.EventPublisher, logger *slog.Logger, opts services.ServiceOptions) *App {
	return &App{
		DB:        db,
		Services:  services.NewServiceManager(postgres.NewRepository(db), logger, validator.New(), opts),
		Publisher: publisher,
		Close: func() {
			_ = publisher.Close()
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		},
	}
}

// NewRootCommand builds the progressctl command tree.
func NewRootCommand(factory AppFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "progressctl",
		Short:         "Operate the progress service from the terminal",
		Long:          "progressctl queries the progression engine, exports creator dashboards and emits counter events.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("language", "", "Preferred language for localized titles")

	root.AddCommand(
		newNextLessonCmd(factory),
		newTrendCmd(factory),
		newQuizStatsCmd(factory),
		newCreatorStatsCmd(factory),
		newExportCmd(factory),
		newEmitCmd(factory),
		newMigrateCmd(factory),
	)
	return root
}

// withApp opens the App for the duration of fn.
func withApp(cmd *cobra.Command, factory AppFactory, fn func(app *App) error) error {
	app, err := factory(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func languageFlag(cmd *cobra.Command) string {
	language, _ := cmd.Flags().GetString("language")
	return language
}

// authorFlag returns nil when --author was not given.
func authorFlag(cmd *cobra.Command) *string {
	if !cmd.Flags().Changed("author") {
		return nil
	}
	author, _ := cmd.Flags().GetString("author")
	return &author
}

func newMigrateCmd(factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the service tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, factory, func(app *App) error {
				if err := models.AutoMigrate(app.DB); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrated")
				return nil
			})
		},
	}
}
