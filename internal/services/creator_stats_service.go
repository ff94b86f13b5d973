package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/SAP-F-2025/progress-service/internal/repositories"
	"github.com/SAP-F-2025/progress-service/internal/validator"
	"golang.org/x/sync/errgroup"
)

const (
	// TopCoursesLimit caps the popularity ranking.
	TopCoursesLimit = 5
	// StudentGrowthBuckets caps the monthly new-student series.
	StudentGrowthBuckets = 12
)

type CreatorStatsService interface {
	// GetCreatorStats aggregates platform-wide when AuthorID is nil.
	GetCreatorStats(ctx context.Context, req CreatorStatsRequest) (*CreatorStatsBundle, error)
}

type CreatorStatsRequest struct {
	AuthorID *string `json:"author_id" validate:"omitempty,not_blank,max=255"`
	Language string  `json:"language" validate:"omitempty,language_tag"`
}

func (r CreatorStatsRequest) filters() repositories.CourseStatsFilters {
	return repositories.CourseStatsFilters{AuthorID: r.AuthorID}
}

func (r CreatorStatsRequest) subject() string {
	if r.AuthorID == nil {
		return "platform"
	}
	return *r.AuthorID
}

type CreatorStatsBundle struct {
	AuthorID           *string               `json:"author_id"`
	TopCourses         []TopCourse           `json:"top_courses"`
	CompletionSummary  CompletionSummary     `json:"completion_summary"`
	FreemiumConversion FreemiumConversion    `json:"freemium_conversion"`
	StudentGrowth      []StudentGrowthBucket `json:"student_growth"`
}

type TopCourse struct {
	CourseID      uint   `json:"course_id"`
	Name          string `json:"name"`
	FreePurchased int64  `json:"free_purchased_count"`
	PaidPurchased int64  `json:"paid_purchased_count"`
	Purchases     int64  `json:"purchases"`
}

type CompletionSummary struct {
	TotalCoursesCompletion int64 `json:"total_courses_completion"`
	TotalCourses           int64 `json:"total_courses"`
	CompletionPercentage   int   `json:"completion_percentage"`
}

type FreemiumConversion struct {
	PurchasedAfterFreemium int64 `json:"purchased_after_freemium"`
	// RemainedOnFreemium is not clamped at zero.
	RemainedOnFreemium   int64 `json:"remained_on_freemium"`
	ConversionPercentage int   `json:"conversion_percentage"`
}

type StudentGrowthBucket struct {
	Year        int `json:"year"`
	Month       int `json:"month"`
	NewStudents int `json:"new_students"`
}

type creatorStatsService struct {
	repo      repositories.Repository
	localizer Localizer
	validator *validator.Validator
	logger    *ServiceLogger
}

func NewCreatorStatsService(repo repositories.Repository, localizer Localizer, validator *validator.Validator, logger *slog.Logger) CreatorStatsService {
	return &creatorStatsService{
		repo:      repo,
		localizer: localizer,
		validator: validator,
		logger: NewServiceLogger(logger, LogConfig{
			Service:   "progress-service",
			Component: "creator_stats",
		}),
	}
}

func (s *creatorStatsService) GetCreatorStats(ctx context.Context, req CreatorStatsRequest) (bundle *CreatorStatsBundle, err error) {
	req.AuthorID = normalizeAuthorID(req.AuthorID)
	op := s.logger.WithOperation(ctx, "get_creator_stats", req.subject())
	defer func() { op.LogResult(err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	filters := req.filters()
	stats := s.repo.CourseStats()

	var (
		popular []repositories.CoursePopularity
		totals  *repositories.SummaryTotals
		firsts  []repositories.StudentFirstEnrollment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		popular, err = stats.TopCoursesByPurchases(gctx, filters, TopCoursesLimit)
		return storeError("top_courses_by_purchases", err)
	})
	g.Go(func() error {
		var err error
		totals, err = stats.SummaryTotals(gctx, filters)
		return storeError("summary_totals", err)
	})
	g.Go(func() error {
		var err error
		firsts, err = stats.FirstEnrollments(gctx, filters)
		return storeError("first_enrollments", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if totals == nil {
		totals = &repositories.SummaryTotals{}
	}

	return &CreatorStatsBundle{
		AuthorID:           req.AuthorID,
		TopCourses:         s.topCourses(popular, req.Language),
		CompletionSummary:  completionSummary(*totals),
		FreemiumConversion: freemiumConversion(*totals),
		StudentGrowth:      studentGrowth(firsts),
	}, nil
}

// topCourses re-ranks by purchases descending then course id so the order does
// not depend on the store.
func (s *creatorStatsService) topCourses(popular []repositories.CoursePopularity, language string) []TopCourse {
	ranked := make([]repositories.CoursePopularity, len(popular))
	copy(ranked, popular)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Purchases() != ranked[j].Purchases() {
			return ranked[i].Purchases() > ranked[j].Purchases()
		}
		return ranked[i].CourseID < ranked[j].CourseID
	})
	if len(ranked) > TopCoursesLimit {
		ranked = ranked[:TopCoursesLimit]
	}

	courses := make([]TopCourse, 0, len(ranked))
	for _, c := range ranked {
		courses = append(courses, TopCourse{
			CourseID:      c.CourseID,
			Name:          s.localizer.Localize(c.Title, language, c.BaseLanguage),
			FreePurchased: c.FreePurchasedCount,
			PaidPurchased: c.PaidPurchasedCount,
			Purchases:     c.Purchases(),
		})
	}
	return courses
}

func completionSummary(totals repositories.SummaryTotals) CompletionSummary {
	totalCourses := totals.FreePurchased + totals.PaidPurchased
	return CompletionSummary{
		TotalCoursesCompletion: totals.CompletedCourseStudents,
		TotalCourses:           totalCourses,
		CompletionPercentage:   wholePercentage(totals.CompletedCourseStudents, totalCourses),
	}
}

func freemiumConversion(totals repositories.SummaryTotals) FreemiumConversion {
	return FreemiumConversion{
		PurchasedAfterFreemium: totals.PaidPurchasedAfterFreemium,
		RemainedOnFreemium:     totals.CompletedFreemiumStudents - totals.PaidPurchasedAfterFreemium,
		ConversionPercentage:   wholePercentage(totals.PaidPurchasedAfterFreemium, totals.CompletedFreemiumStudents),
	}
}

// studentGrowth counts each student once, in the month of their first
// enrollment in scope, most recent month first.
func studentGrowth(firsts []repositories.StudentFirstEnrollment) []StudentGrowthBucket {
	type bucketKey struct {
		year  int
		month int
	}

	counts := make(map[bucketKey]int)
	for _, f := range firsts {
		at := f.EnrolledAt.UTC()
		counts[bucketKey{year: at.Year(), month: int(at.Month())}]++
	}

	buckets := make([]StudentGrowthBucket, 0, len(counts))
	for key, n := range counts {
		buckets = append(buckets, StudentGrowthBucket{Year: key.year, Month: key.month, NewStudents: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year > buckets[j].Year
		}
		return buckets[i].Month > buckets[j].Month
	})

	if len(buckets) > StudentGrowthBuckets {
		buckets = buckets[:StudentGrowthBuckets]
	}
	return buckets
}

// normalizeAuthorID trims an optional author id; callers validate blank values.
func normalizeAuthorID(authorID *string) *string {
	if authorID == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*authorID)
	return &trimmed
}
