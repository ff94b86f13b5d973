package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/SAP-F-2025/progress-service/internal/events"
	"github.com/SAP-F-2025/progress-service/internal/repositories"
	"github.com/SAP-F-2025/progress-service/internal/services"
	"github.com/spf13/cobra"
)

func newNextLessonCmd(factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "next-lesson STUDENT_ID",
		Short: "Resolve the lesson a student should read next",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, factory, func(app *App) error {
				next, err := app.Services.NextLesson.ResolveNextLesson(cmd.Context(), services.NextLessonRequest{
					StudentID: args[0],
					Language:  languageFlag(cmd),
				})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), next)
			})
		},
	}
}

func newTrendCmd(factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:       "trend STUDENT_ID METRIC",
		Short:     "Show monthly started/completed counts (METRIC: course or lessonChapter)",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(repositories.MetricCourse), string(repositories.MetricLessonChapter)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, factory, func(app *App) error {
				stats, err := app.Services.Trend.GetMonthlyTrend(cmd.Context(), services.TrendRequest{
					StudentID: args[0],
					Metric:    repositories.TrendMetric(args[1]),
				})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), stats)
			})
		},
	}
}

func newQuizStatsCmd(factory AppFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz-stats [STUDENT_ID]",
		Short: "Show quiz totals for a student, or answer accuracy with --accuracy",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accuracy, _ := cmd.Flags().GetBool("accuracy")
			if !accuracy && len(args) == 0 {
				return fmt.Errorf("STUDENT_ID is required unless --accuracy is set")
			}
			return withApp(cmd, factory, func(app *App) error {
				if accuracy {
					bundle, err := app.Services.QuizStats.GetAuthorQuizAccuracy(cmd.Context(), services.QuizAccuracyRequest{
						AuthorID: authorFlag(cmd),
					})
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), bundle)
				}
				bundle, err := app.Services.QuizStats.GetQuizStats(cmd.Context(), services.QuizStatsRequest{StudentID: args[0]})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), bundle)
			})
		},
	}
	cmd.Flags().Bool("accuracy", false, "Report correct/wrong answer totals instead")
	cmd.Flags().String("author", "", "Restrict accuracy to one author's courses")
	return cmd
}

func newCreatorStatsCmd(factory AppFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "creator-stats",
		Short: "Show the creator dashboard (platform-wide without --author)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, factory, func(app *App) error {
				bundle, err := app.Services.CreatorStats.GetCreatorStats(cmd.Context(), services.CreatorStatsRequest{
					AuthorID: authorFlag(cmd),
					Language: languageFlag(cmd),
				})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), bundle)
			})
		},
	}
	cmd.Flags().String("author", "", "Author id")
	return cmd
}

func newExportCmd(factory AppFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the creator dashboard to an xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			return withApp(cmd, factory, func(app *App) error {
				data, err := app.Services.Export.ExportCreatorStats(cmd.Context(), services.CreatorStatsRequest{
					AuthorID: authorFlag(cmd),
					Language: languageFlag(cmd),
				})
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(data))
				return nil
			})
		},
	}
	cmd.Flags().String("author", "", "Author id")
	cmd.Flags().StringP("out", "o", "creator-stats.xlsx", "Output file")
	return cmd
}

func newEmitCmd(factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "emit TYPE COURSE_ID STUDENT_ID",
		Short: "Publish a counter event, e.g. course.purchased.paid",
		Args:  cobra.ExactArgs(3),
		ValidArgs: []string{
			string(events.EventCoursePurchasedFree),
			string(events.EventCoursePurchasedPaid),
			string(events.EventCoursePurchasedAfterFreemium),
			string(events.EventCourseFreemiumCompleted),
			string(events.EventCourseCompleted),
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			courseID, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil || courseID == 0 {
				return fmt.Errorf("invalid COURSE_ID %q", args[1])
			}
			event := events.NewCounterEvent(events.EventType(args[0]), uint(courseID), args[2], time.Now())
			if err := event.Validate(); err != nil {
				return err
			}
			return withApp(cmd, factory, func(app *App) error {
				if err := app.Publisher.PublishCounterEvent(cmd.Context(), event); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), event.ID)
				return nil
			})
		},
	}
}
