package postgres

import (
	"context"

	"azellar-portal/internal/database"
	"azellar-portal/internal/domain/course"

	"github.com/google/uuid"
)

const courseColumns = `id, title, description, instructor, duration, level, category, price, max_students, start_date, requirements, benefits, is_active, created_at`

type CourseRepository struct {
	db database.DB
}

var _ course.Repository = (*CourseRepository)(nil)

func NewCourseRepository(db database.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) ListActive(ctx context.Context) ([]course.Course, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE is_active = TRUE ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]course.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (course.Course, error) {
	row := r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
	return scanCourse(row)
}

func (r *CourseRepository) UpsertByTitle(ctx context.Context, c course.Course) (bool, error) {
	n, err := r.db.Exec(ctx,
		`INSERT INTO courses (title, description, instructor, duration, level, category, price, max_students, start_date, requirements, benefits, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (title) DO NOTHING`,
		c.Title, c.Description, c.Instructor, c.Duration, c.Level, c.Category,
		c.Price, c.MaxStudents, c.StartDate, c.Requirements, c.Benefits, c.IsActive,
	)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func scanCourse(row rowScanner) (course.Course, error) {
	var c course.Course
	if err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Instructor, &c.Duration, &c.Level, &c.Category,
		&c.Price, &c.MaxStudents, &c.StartDate, &c.Requirements, &c.Benefits, &c.IsActive, &c.CreatedAt,
	); err != nil {
		if database.IsNoRows(err) {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, err
	}
	return c, nil
}

type EnrollmentRepository struct {
	db database.DB
}

var _ course.EnrollmentRepository = (*EnrollmentRepository)(nil)

func NewEnrollmentRepository(db database.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) Enroll(ctx context.Context, studentID, courseID uuid.UUID) (course.Enrollment, error) {
	var e course.Enrollment
	err := r.db.QueryRow(ctx,
		`INSERT INTO enrollments (student_id, course_id, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, student_id, course_id, status, enrolled_at`,
		studentID, courseID, course.StatusEnrolled,
	).Scan(&e.ID, &e.StudentID, &e.CourseID, &e.Status, &e.EnrolledAt)
	if err != nil {
		switch {
		case database.IsUniqueViolation(err):
			return course.Enrollment{}, course.ErrAlreadyEnrolled
		case database.IsForeignKeyViolation(err):
			return course.Enrollment{}, course.ErrNotFound
		default:
			return course.Enrollment{}, err
		}
	}
	return e, nil
}

func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]course.Enrollment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT e.id, e.student_id, e.course_id, e.status, e.enrolled_at,
			c.id, c.title, c.description, c.instructor, c.duration, c.level, c.category,
			c.price, c.max_students, c.start_date, c.requirements, c.benefits, c.is_active, c.created_at
		 FROM enrollments e
		 JOIN courses c ON c.id = e.course_id
		 WHERE e.student_id = $1
		 ORDER BY e.enrolled_at DESC`,
		studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]course.Enrollment, 0)
	for rows.Next() {
		var e course.Enrollment
		var c course.Course
		if err := rows.Scan(
			&e.ID, &e.StudentID, &e.CourseID, &e.Status, &e.EnrolledAt,
			&c.ID, &c.Title, &c.Description, &c.Instructor, &c.Duration, &c.Level, &c.Category,
			&c.Price, &c.MaxStudents, &c.StartDate, &c.Requirements, &c.Benefits, &c.IsActive, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		e.Course = &c
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2)`,
		studentID, courseID,
	).Scan(&exists)
	if err != nil {
		if database.IsNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}
