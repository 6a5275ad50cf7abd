package seeder

import (
	"context"
	"fmt"

	"azellar-portal/internal/database"
)

type SampleCourse struct {
	Title        string
	Description  string
	Instructor   string
	Duration     string
	Level        string
	Category     string
	Price        float64
	MaxStudents  int
	StartDate    string
	Requirements string
	Benefits     string
}

var SampleCourses = []SampleCourse{
	{
		Title:        "Database Fundamentals",
		Description:  "Learn the basics of database design, normalization, and SQL fundamentals.",
		Instructor:   "John Smith",
		Duration:     "2 days",
		Level:        "beginner",
		Category:     "Database",
		Price:        1200,
		MaxStudents:  12,
		StartDate:    "2024-02-15",
		Requirements: "Basic computer knowledge, Basic understanding of data concepts",
		Benefits:     "Understand database fundamentals, Write efficient SQL queries, Design normalized databases, Implement basic optimization",
	},
	{
		Title:        "Performance Optimization Masterclass",
		Description:  "Deep dive into database performance tuning and optimization techniques.",
		Instructor:   "Sarah Johnson",
		Duration:     "3 days",
		Level:        "advanced",
		Category:     "Database",
		Price:        2500,
		MaxStudents:  10,
		StartDate:    "2024-02-20",
		Requirements: "Strong SQL knowledge, Database administration experience, Understanding of database internals",
		Benefits:     "Master query optimization, Implement effective indexing, Analyze performance metrics, Resolve complex issues",
	},
	{
		Title:        "Database Security & Compliance",
		Description:  "Comprehensive security practices and compliance requirements for databases.",
		Instructor:   "Mike Davis",
		Duration:     "2 days",
		Level:        "intermediate",
		Category:     "Security",
		Price:        1800,
		MaxStudents:  12,
		StartDate:    "2024-02-25",
		Requirements: "Database fundamentals, Basic security concepts, Understanding of compliance requirements",
		Benefits:     "Implement security controls, Ensure compliance requirements, Conduct security audits, Manage access permissions",
	},
}

type CoursesSeeder struct {
	Courses []SampleCourse
}

func (CoursesSeeder) Name() string { return "courses" }

func (s CoursesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "courses", "id", "title", "instructor", "start_date", "is_active"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, c := range s.Courses {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO courses (title, description, instructor, duration, level, category, price, max_students, start_date, requirements, benefits, is_active)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::date, $10, $11, TRUE)
			 ON CONFLICT (title) DO NOTHING`,
			c.Title, c.Description, c.Instructor, c.Duration, c.Level, c.Category,
			c.Price, c.MaxStudents, c.StartDate, c.Requirements, c.Benefits,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
