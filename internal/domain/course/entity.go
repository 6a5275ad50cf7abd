package course

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const StatusEnrolled = "enrolled"

var (
	ErrNotFound        = errors.New("course not found")
	ErrAlreadyEnrolled = errors.New("already enrolled in course")
	ErrCourseInactive  = errors.New("course inactive")
)

type Course struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Instructor   string     `json:"instructor"`
	Duration     string     `json:"duration"`
	Level        string     `json:"level"`
	Category     string     `json:"category"`
	Price        float64    `json:"price"`
	MaxStudents  int        `json:"max_students"`
	StartDate    *time.Time `json:"start_date"`
	Requirements string     `json:"requirements"`
	Benefits     string     `json:"benefits"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
}

type Enrollment struct {
	ID         uuid.UUID `json:"id"`
	StudentID  uuid.UUID `json:"student_id"`
	CourseID   uuid.UUID `json:"course_id"`
	Status     string    `json:"status"`
	EnrolledAt time.Time `json:"enrolled_at"`
	Course     *Course   `json:"course,omitempty"`
}

type Repository interface {
	ListActive(ctx context.Context) ([]Course, error)
	GetByID(ctx context.Context, id uuid.UUID) (Course, error)
	// UpsertByTitle inserts the course unless one with the same title exists.
	UpsertByTitle(ctx context.Context, c Course) (created bool, err error)
}

type EnrollmentRepository interface {
	// Enroll returns ErrAlreadyEnrolled when the pair already exists.
	Enroll(ctx context.Context, studentID, courseID uuid.UUID) (Enrollment, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]Enrollment, error)
	IsEnrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error)
}
