package academy

import (
	"context"
	"errors"
	"time"

	"azellar-portal/internal/domain/course"
	"azellar-portal/internal/domain/profile"
	"azellar-portal/internal/mail"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// CatalogKey caches the active course list.
const CatalogKey = "courses:active"

type CatalogCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Notifier sends enrollment mail in the background.
type Notifier interface {
	SendEnrollment(ctx context.Context, in mail.EnrollmentEmail) error
	Go(kind string, send func(ctx context.Context) error)
}

type Service struct {
	courses     course.Repository
	enrollments course.EnrollmentRepository
	cache       CatalogCache
	notifier    Notifier
	logger      *zap.Logger
}

func NewService(courses course.Repository, enrollments course.EnrollmentRepository, cache CatalogCache, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{courses: courses, enrollments: enrollments, cache: cache, notifier: notifier, logger: logger}
}

func (s *Service) ListCourses(ctx context.Context) ([]course.Course, error) {
	if s.cache != nil {
		var cached []course.Course
		hit, err := s.cache.GetJSON(ctx, CatalogKey, &cached)
		if err == nil && hit {
			s.logger.Debug("course catalog cache hit")
			return cached, nil
		}
	}

	items, err := s.courses.ListActive(ctx)
	if err != nil {
		s.logger.Error("list courses failed", zap.Error(err))
		return nil, ErrInternal
	}
	if items == nil {
		items = []course.Course{}
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, CatalogKey, items, 0); err != nil {
			s.logger.Warn("course catalog cache set failed", zap.Error(err))
		}
	}
	return items, nil
}

// InvalidateCatalog drops the cached course list.
func (s *Service) InvalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, CatalogKey); err != nil {
		s.logger.Warn("course catalog invalidation failed", zap.Error(err))
	}
}

// GetCourse hides inactive courses from everyone but admins.
func (s *Service) GetCourse(ctx context.Context, actor profile.Profile, id uuid.UUID) (course.Course, error) {
	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, ErrInternal
	}
	if !c.IsActive && actor.Role != profile.RoleAdmin {
		return course.Course{}, course.ErrNotFound
	}
	return c, nil
}

func (s *Service) Enroll(ctx context.Context, actor profile.Profile, courseID uuid.UUID) (course.Enrollment, error) {
	if courseID == uuid.Nil {
		return course.Enrollment{}, ErrInvalidInput
	}

	c, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			return course.Enrollment{}, course.ErrNotFound
		}
		return course.Enrollment{}, ErrInternal
	}
	if !c.IsActive {
		return course.Enrollment{}, course.ErrCourseInactive
	}

	e, err := s.enrollments.Enroll(ctx, actor.UserID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, course.ErrAlreadyEnrolled), errors.Is(err, course.ErrNotFound):
			return course.Enrollment{}, err
		default:
			s.logger.Error("enroll failed", zap.Stringer("course_id", courseID), zap.Error(err))
			return course.Enrollment{}, ErrInternal
		}
	}
	e.Course = &c

	s.logger.Info("student enrolled",
		zap.Stringer("user_id", actor.UserID),
		zap.Stringer("course_id", courseID),
	)

	if s.notifier != nil {
		msg := enrollmentEmail(actor, c)
		s.notifier.Go("enrollment", func(ctx context.Context) error {
			return s.notifier.SendEnrollment(ctx, msg)
		})
	}
	return e, nil
}

func (s *Service) MyEnrollments(ctx context.Context, actor profile.Profile) ([]course.Enrollment, error) {
	items, err := s.enrollments.ListByStudent(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("list enrollments failed", zap.Error(err))
		return nil, ErrInternal
	}
	if items == nil {
		items = []course.Enrollment{}
	}
	return items, nil
}

func (s *Service) IsEnrolled(ctx context.Context, actor profile.Profile, courseID uuid.UUID) (bool, error) {
	ok, err := s.enrollments.IsEnrolled(ctx, actor.UserID, courseID)
	if err != nil {
		return false, ErrInternal
	}
	return ok, nil
}

func enrollmentEmail(actor profile.Profile, c course.Course) mail.EnrollmentEmail {
	name := actor.FullName
	if name == "" {
		name = actor.Email
	}
	details := mail.CourseDetails{
		Duration:   c.Duration,
		Instructor: c.Instructor,
	}
	if c.StartDate != nil {
		details.StartDate = c.StartDate.Format("January 2, 2006")
	}
	return mail.EnrollmentEmail{
		StudentName:   name,
		StudentEmail:  actor.Email,
		CourseName:    c.Title,
		CourseDetails: details,
	}
}
