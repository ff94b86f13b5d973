package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/progress-service/internal/models"
	"github.com/SAP-F-2025/progress-service/internal/repositories"
	"github.com/SAP-F-2025/progress-service/internal/validator"
	"golang.org/x/sync/errgroup"
)

// NextLessonService resolves the single lesson a student should continue with.
type NextLessonService interface {
	// ResolveNextLesson returns nil without an error when there is nothing to continue.
	ResolveNextLesson(ctx context.Context, req NextLessonRequest) (*NextLesson, error)
}

type NextLessonRequest struct {
	StudentID string `json:"student_id" validate:"required,not_blank,max=255"`
	Language  string `json:"language" validate:"omitempty,language_tag"`
}

// CandidateSource tags which resolution stage produced the next lesson.
type CandidateSource string

const (
	SourceNone        CandidateSource = "none"
	SourceSameCourse  CandidateSource = "same_course"
	SourceCrossCourse CandidateSource = "cross_course"
)

type NextLesson struct {
	Source CandidateSource `json:"source"`

	CourseID          uint    `json:"course_id"`
	CourseTitle       string  `json:"course_title"`
	CourseDescription string  `json:"course_description"`
	CourseThumbnail   *string `json:"course_thumbnail"`

	LessonID           uint `json:"lesson_id"`
	LessonDisplayOrder int  `json:"lesson_display_order"`

	ChapterID            uint                         `json:"chapter_id"`
	ChapterTitle         string                       `json:"chapter_title"`
	ChapterDisplayOrder  int                          `json:"chapter_display_order"`
	ChapterStatus        models.ChapterProgressStatus `json:"chapter_status"`
	CompletedLessonCount int                          `json:"completed_lesson_count"`
	LessonCount          int                          `json:"lesson_count"`
}

// resolution is the outcome of the staged search. candidate is nil for SourceNone.
type resolution struct {
	source    CandidateSource
	candidate *repositories.LessonCandidate
}

// choose applies the precedence rule: a same-course candidate always wins.
func choose(sameCourse, crossCourse *repositories.LessonCandidate) resolution {
	switch {
	case sameCourse != nil:
		return resolution{source: SourceSameCourse, candidate: sameCourse}
	case crossCourse != nil:
		return resolution{source: SourceCrossCourse, candidate: crossCourse}
	default:
		return resolution{source: SourceNone}
	}
}

type nextLessonService struct {
	repo        repositories.Repository
	localizer   Localizer
	validator   *validator.Validator
	logger      *ServiceLogger
	speculative bool
}

// NewNextLessonService builds the resolver. With speculative set, the
// same-course and cross-course searches run concurrently.
func NewNextLessonService(repo repositories.Repository, localizer Localizer, validator *validator.Validator, logger *slog.Logger, speculative bool) NextLessonService {
	return &nextLessonService{
		repo:      repo,
		localizer: localizer,
		validator: validator,
		logger: NewServiceLogger(logger, LogConfig{
			Service:   "progress-service",
			Component: "next_lesson",
		}),
		speculative: speculative,
	}
}

func (s *nextLessonService) ResolveNextLesson(ctx context.Context, req NextLessonRequest) (result *NextLesson, err error) {
	op := s.logger.WithOperation(ctx, "resolve_next_lesson", req.StudentID)
	source := SourceNone
	defer func() {
		op.LogResult(err, slog.String("source", string(source)), slog.Bool("speculative", s.speculative))
	}()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var res resolution
	if s.speculative {
		res, err = s.resolveSpeculative(ctx, req.StudentID)
	} else {
		res, err = s.resolveStaged(ctx, req.StudentID)
	}
	if err != nil {
		return nil, err
	}
	if res.source == SourceNone {
		return nil, nil
	}

	result, err = s.assemble(ctx, req.StudentID, req.Language, res)
	if result != nil {
		source = result.Source
	}
	return result, err
}

// resolveStaged runs the cross-course search only when the same-course search is empty.
func (s *nextLessonService) resolveStaged(ctx context.Context, studentID string) (resolution, error) {
	sameCourse, err := s.sameCourseCandidate(ctx, studentID)
	if err != nil {
		return resolution{}, err
	}
	if sameCourse != nil {
		return choose(sameCourse, nil), nil
	}

	crossCourse, err := s.crossCourseCandidate(ctx, studentID)
	if err != nil {
		return resolution{}, err
	}
	return choose(nil, crossCourse), nil
}

// resolveSpeculative runs both searches at once. A cross-course failure is
// ignored when a same-course candidate exists because it would be discarded.
func (s *nextLessonService) resolveSpeculative(ctx context.Context, studentID string) (resolution, error) {
	g, gctx := errgroup.WithContext(ctx)

	var sameCourse, crossCourse *repositories.LessonCandidate
	var crossErr error

	g.Go(func() error {
		var err error
		sameCourse, err = s.sameCourseCandidate(gctx, studentID)
		return err
	})
	g.Go(func() error {
		crossCourse, crossErr = s.crossCourseCandidate(gctx, studentID)
		return nil
	})

	if err := g.Wait(); err != nil {
		return resolution{}, err
	}
	if sameCourse == nil && crossErr != nil {
		return resolution{}, crossErr
	}
	return choose(sameCourse, crossCourse), nil
}

func (s *nextLessonService) sameCourseCandidate(ctx context.Context, studentID string) (*repositories.LessonCandidate, error) {
	progress := s.repo.Progress()

	last, err := progress.LastCompletedLesson(ctx, studentID)
	if err != nil {
		return nil, storeError("last_completed_lesson", err)
	}
	if last == nil {
		return nil, nil
	}

	candidate, err := progress.NextIncompleteLessonInCourse(ctx, studentID, last.CourseID, last.Position)
	if err != nil {
		return nil, storeError("next_incomplete_lesson_in_course", err)
	}
	return candidate, nil
}

func (s *nextLessonService) crossCourseCandidate(ctx context.Context, studentID string) (*repositories.LessonCandidate, error) {
	progress := s.repo.Progress()

	courseIDs, err := progress.EnrolledCoursesWithoutCompletionHistory(ctx, studentID)
	if err != nil {
		return nil, storeError("enrolled_courses_without_completion_history", err)
	}
	if len(courseIDs) == 0 {
		return nil, nil
	}

	candidate, err := progress.FirstIncompleteLessonAcrossCourses(ctx, studentID, courseIDs)
	if err != nil {
		return nil, storeError("first_incomplete_lesson_across_courses", err)
	}
	return candidate, nil
}

func (s *nextLessonService) assemble(ctx context.Context, studentID, language string, res resolution) (*NextLesson, error) {
	progress := s.repo.Progress()
	candidate := res.candidate

	// Enrollment can change between the search and assembly.
	enrolled, err := progress.IsEnrolled(ctx, studentID, candidate.CourseID)
	if err != nil {
		return nil, storeError("is_enrolled", err)
	}
	if !enrolled {
		return nil, nil
	}

	chapterProgress, err := progress.ChapterProgressFor(ctx, studentID, candidate.ChapterID)
	if err != nil {
		return nil, storeError("chapter_progress_for", err)
	}

	completedLessons := 0
	if chapterProgress != nil {
		completedLessons = chapterProgress.CompletedLessonCount
	}

	return &NextLesson{
		Source:               res.source,
		CourseID:             candidate.CourseID,
		CourseTitle:          s.localizer.Localize(candidate.CourseTitle, language, candidate.BaseLanguage),
		CourseDescription:    s.localizer.Localize(candidate.CourseDescription, language, candidate.BaseLanguage),
		CourseThumbnail:      candidate.CourseThumbnail,
		LessonID:             candidate.LessonID,
		LessonDisplayOrder:   candidate.Position.LessonDisplayOrder,
		ChapterID:            candidate.ChapterID,
		ChapterTitle:         s.localizer.Localize(candidate.ChapterTitle, language, candidate.BaseLanguage),
		ChapterDisplayOrder:  candidate.Position.ChapterDisplayOrder,
		ChapterStatus:        chapterProgress.Status(),
		CompletedLessonCount: completedLessons,
		LessonCount:          candidate.ChapterLessonCount,
	}, nil
}
