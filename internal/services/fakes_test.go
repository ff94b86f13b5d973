package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/SAP-F-2025/progress-service/internal/models"
	"github.com/SAP-F-2025/progress-service/internal/repositories"
	"github.com/SAP-F-2025/progress-service/internal/validator"
	"github.com/stretchr/testify/mock"
)

const testStudent = "student-1"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ===== IN-MEMORY PROGRESS STORE =====

type fakeLesson struct {
	id    uint
	order int
}

type fakeChapter struct {
	id      uint
	order   int
	title   models.LocalizedText
	lessons []fakeLesson
}

type fakeCourse struct {
	id           uint
	title        models.LocalizedText
	description  models.LocalizedText
	baseLanguage string
	chapters     []fakeChapter
}

// fakeProgressStore models a single student's view of the catalog.
type fakeProgressStore struct {
	mu sync.Mutex

	courses         []fakeCourse
	enrollment      map[uint]models.EnrollmentStatus
	completed       map[uint]time.Time
	chapterProgress map[uint]*models.ChapterProgress

	errs  map[string]error
	delay map[string]time.Duration
	calls []string
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{
		enrollment:      make(map[uint]models.EnrollmentStatus),
		completed:       make(map[uint]time.Time),
		chapterProgress: make(map[uint]*models.ChapterProgress),
		errs:            make(map[string]error),
		delay:           make(map[string]time.Duration),
	}
}

// addCourse creates a course whose chapters have the given lesson counts.
// Chapter n has id courseID*100+n and display order n; lesson m of that
// chapter has id chapterID*100+m and display order m.
func (f *fakeProgressStore) addCourse(id uint, lessonsPerChapter ...int) {
	course := fakeCourse{
		id:           id,
		title:        models.LocalizedText{"en": "Course", "pl": "Kurs"},
		description:  models.LocalizedText{"en": "Description"},
		baseLanguage: "en",
	}
	for i, count := range lessonsPerChapter {
		chapter := fakeChapter{
			id:    id*100 + uint(i+1),
			order: i + 1,
			title: models.LocalizedText{"en": "Chapter", "de": "Kapitel"},
		}
		for l := 1; l <= count; l++ {
			chapter.lessons = append(chapter.lessons, fakeLesson{id: chapter.id*100 + uint(l), order: l})
		}
		course.chapters = append(course.chapters, chapter)
	}
	f.courses = append(f.courses, course)
	sort.Slice(f.courses, func(i, j int) bool { return f.courses[i].id < f.courses[j].id })
}

func (f *fakeProgressStore) enroll(courseID uint, status models.EnrollmentStatus) {
	f.enrollment[courseID] = status
}

func (f *fakeProgressStore) complete(lessonID uint, at time.Time) {
	f.completed[lessonID] = at
}

func (f *fakeProgressStore) called(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeProgressStore) enter(ctx context.Context, op string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	err := f.errs[op]
	delay := f.delay[op]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeProgressStore) isEnrolled(courseID uint) bool {
	return f.enrollment[courseID] == models.EnrollmentEnrolled
}

func (f *fakeProgressStore) candidate(course fakeCourse, chapter fakeChapter, lesson fakeLesson) *repositories.LessonCandidate {
	return &repositories.LessonCandidate{
		LessonID:           lesson.id,
		ChapterID:          chapter.id,
		Position:           repositories.LessonPosition{ChapterDisplayOrder: chapter.order, LessonDisplayOrder: lesson.order},
		ChapterTitle:       chapter.title,
		ChapterLessonCount: len(chapter.lessons),
		CourseID:           course.id,
		CourseTitle:        course.title,
		CourseDescription:  course.description,
		BaseLanguage:       course.baseLanguage,
	}
}

// positionBefore reports whether a precedes b in reading order.
func positionBefore(a, b repositories.LessonPosition) bool {
	if a.ChapterDisplayOrder != b.ChapterDisplayOrder {
		return a.ChapterDisplayOrder < b.ChapterDisplayOrder
	}
	return a.LessonDisplayOrder < b.LessonDisplayOrder
}

func (f *fakeProgressStore) firstIncomplete(studentID string, course fakeCourse, after *repositories.LessonPosition) *repositories.LessonCandidate {
	if studentID != testStudent || !f.isEnrolled(course.id) {
		return nil
	}
	for _, chapter := range course.chapters {
		for _, lesson := range chapter.lessons {
			pos := repositories.LessonPosition{ChapterDisplayOrder: chapter.order, LessonDisplayOrder: lesson.order}
			if after != nil && !positionBefore(*after, pos) {
				continue
			}
			if _, done := f.completed[lesson.id]; done {
				continue
			}
			return f.candidate(course, chapter, lesson)
		}
	}
	return nil
}

func (f *fakeProgressStore) LastCompletedLesson(ctx context.Context, studentID string) (*repositories.CompletedLesson, error) {
	if err := f.enter(ctx, "LastCompletedLesson"); err != nil {
		return nil, err
	}
	if studentID != testStudent {
		return nil, nil
	}

	var last *repositories.CompletedLesson
	for _, course := range f.courses {
		if !f.isEnrolled(course.id) {
			continue
		}
		for _, chapter := range course.chapters {
			for _, lesson := range chapter.lessons {
				at, done := f.completed[lesson.id]
				if !done {
					continue
				}
				if last == nil || at.After(last.CompletedAt) || (at.Equal(last.CompletedAt) && lesson.id > last.LessonID) {
					last = &repositories.CompletedLesson{
						LessonID:    lesson.id,
						ChapterID:   chapter.id,
						CourseID:    course.id,
						Position:    repositories.LessonPosition{ChapterDisplayOrder: chapter.order, LessonDisplayOrder: lesson.order},
						CompletedAt: at,
					}
				}
			}
		}
	}
	return last, nil
}

func (f *fakeProgressStore) NextIncompleteLessonInCourse(ctx context.Context, studentID string, courseID uint, after repositories.LessonPosition) (*repositories.LessonCandidate, error) {
	if err := f.enter(ctx, "NextIncompleteLessonInCourse"); err != nil {
		return nil, err
	}
	for _, course := range f.courses {
		if course.id == courseID {
			return f.firstIncomplete(studentID, course, &after), nil
		}
	}
	return nil, nil
}

func (f *fakeProgressStore) EnrolledCoursesWithoutCompletionHistory(ctx context.Context, studentID string) ([]uint, error) {
	if err := f.enter(ctx, "EnrolledCoursesWithoutCompletionHistory"); err != nil {
		return nil, err
	}
	if studentID != testStudent {
		return nil, nil
	}

	var ids []uint
	for _, course := range f.courses {
		if !f.isEnrolled(course.id) {
			continue
		}
		history := false
		for _, chapter := range course.chapters {
			for _, lesson := range chapter.lessons {
				if _, done := f.completed[lesson.id]; done {
					history = true
				}
			}
		}
		if !history {
			ids = append(ids, course.id)
		}
	}
	return ids, nil
}

func (f *fakeProgressStore) FirstIncompleteLessonAcrossCourses(ctx context.Context, studentID string, courseIDs []uint) (*repositories.LessonCandidate, error) {
	if err := f.enter(ctx, "FirstIncompleteLessonAcrossCourses"); err != nil {
		return nil, err
	}
	wanted := make(map[uint]bool, len(courseIDs))
	for _, id := range courseIDs {
		wanted[id] = true
	}
	for _, course := range f.courses {
		if !wanted[course.id] {
			continue
		}
		if c := f.firstIncomplete(studentID, course, nil); c != nil {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeProgressStore) ChapterProgressFor(ctx context.Context, studentID string, chapterID uint) (*models.ChapterProgress, error) {
	if err := f.enter(ctx, "ChapterProgressFor"); err != nil {
		return nil, err
	}
	if studentID != testStudent {
		return nil, nil
	}
	return f.chapterProgress[chapterID], nil
}

func (f *fakeProgressStore) IsEnrolled(ctx context.Context, studentID string, courseID uint) (bool, error) {
	if err := f.enter(ctx, "IsEnrolled"); err != nil {
		return false, err
	}
	return studentID == testStudent && f.isEnrolled(courseID), nil
}

// ===== TESTIFY MOCKS =====

type MockTrendRepository struct {
	mock.Mock
}

func (m *MockTrendRepository) StartedByMonth(ctx context.Context, studentID string, metric repositories.TrendMetric, from, to time.Time) ([]repositories.MonthlyCount, error) {
	args := m.Called(ctx, studentID, metric, from, to)
	counts, _ := args.Get(0).([]repositories.MonthlyCount)
	return counts, args.Error(1)
}

func (m *MockTrendRepository) CompletedByMonth(ctx context.Context, studentID string, metric repositories.TrendMetric, from, to time.Time) ([]repositories.MonthlyCount, error) {
	args := m.Called(ctx, studentID, metric, from, to)
	counts, _ := args.Get(0).([]repositories.MonthlyCount)
	return counts, args.Error(1)
}

type MockCourseStatsRepository struct {
	mock.Mock
}

func (m *MockCourseStatsRepository) TopCoursesByPurchases(ctx context.Context, filters repositories.CourseStatsFilters, limit int) ([]repositories.CoursePopularity, error) {
	args := m.Called(ctx, filters, limit)
	courses, _ := args.Get(0).([]repositories.CoursePopularity)
	return courses, args.Error(1)
}

func (m *MockCourseStatsRepository) SummaryTotals(ctx context.Context, filters repositories.CourseStatsFilters) (*repositories.SummaryTotals, error) {
	args := m.Called(ctx, filters)
	totals, _ := args.Get(0).(*repositories.SummaryTotals)
	return totals, args.Error(1)
}

func (m *MockCourseStatsRepository) FirstEnrollments(ctx context.Context, filters repositories.CourseStatsFilters) ([]repositories.StudentFirstEnrollment, error) {
	args := m.Called(ctx, filters)
	firsts, _ := args.Get(0).([]repositories.StudentFirstEnrollment)
	return firsts, args.Error(1)
}

type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) StudentQuizTotals(ctx context.Context, studentID string) (*repositories.QuizTotals, error) {
	args := m.Called(ctx, studentID)
	totals, _ := args.Get(0).(*repositories.QuizTotals)
	return totals, args.Error(1)
}

func (m *MockQuizRepository) AuthorQuizAccuracy(ctx context.Context, filters repositories.CourseStatsFilters) (*repositories.QuizAccuracy, error) {
	args := m.Called(ctx, filters)
	accuracy, _ := args.Get(0).(*repositories.QuizAccuracy)
	return accuracy, args.Error(1)
}

// ===== REPOSITORY COMPOSITION =====

type testRepository struct {
	progress    repositories.ProgressRepository
	trend       repositories.TrendRepository
	courseStats repositories.CourseStatsRepository
	quiz        repositories.QuizRepository
}

func (r *testRepository) Progress() repositories.ProgressRepository       { return r.progress }
func (r *testRepository) Trend() repositories.TrendRepository             { return r.trend }
func (r *testRepository) CourseStats() repositories.CourseStatsRepository { return r.courseStats }
func (r *testRepository) Quiz() repositories.QuizRepository               { return r.quiz }

func newTestValidator() *validator.Validator {
	return validator.New()
}

func strPtr(s string) *string { return &s }
