package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"azellar-portal/internal/database/sqldb"
	"azellar-portal/internal/domain/company"
	"azellar-portal/internal/domain/course"
	"azellar-portal/internal/domain/profile"
	"azellar-portal/internal/domain/support"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqldb.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqldb.New(db), mock
}

var profileCols = []string{"id", "user_id", "email", "full_name", "role", "company_id", "is_active", "created_at", "updated_at"}

func profileRow(id, userID uuid.UUID, name string, role profile.Role) *sqlmock.Rows {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return sqlmock.NewRows(profileCols).
		AddRow(id.String(), userID.String(), "jane@azellar.com", name, string(role), nil, true, now, now)
}

func TestProfileRepository_EnsureDefault(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	id, userID := uuid.New(), uuid.New()
	seed := profile.Seed{UserID: userID, Email: "jane@azellar.com", FullName: "Jane Doe"}

	insert := regexp.QuoteMeta(`INSERT INTO profiles (user_id, email, full_name, role, company_id)`)
	selectQ := regexp.QuoteMeta(`FROM profiles WHERE user_id = $1`)

	mock.ExpectExec(insert).
		WithArgs(userID, "jane@azellar.com", "Jane Doe", "student", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(selectQ).WithArgs(userID).WillReturnRows(profileRow(id, userID, "Jane Doe", profile.RoleStudent))

	p, created, err := repo.EnsureDefault(ctx, seed)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, profile.RoleStudent, p.Role)
	assert.Nil(t, p.CompanyID)

	// A second creation for the same identity is a no-op that returns the existing row.
	mock.ExpectExec(insert).
		WithArgs(userID, "jane@azellar.com", "Jane Doe", "student", nil).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(selectQ).WithArgs(userID).WillReturnRows(profileRow(id, userID, "Jane Doe", profile.RoleStudent))

	again, created, err := repo.EnsureDefault(ctx, seed)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, p.ID, again.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_GetByUserIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfileRepository(db)

	userID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM profiles WHERE user_id = $1`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(profileCols))

	_, err := repo.GetByUserID(context.Background(), userID)
	assert.ErrorIs(t, err, profile.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_UpdateSelf(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfileRepository(db)

	id, userID := uuid.New(), uuid.New()
	name := "Janet Doe"
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE profiles SET`)).
		WithArgs(userID, name).
		WillReturnRows(profileRow(id, userID, name, profile.RoleStudent))

	p, err := repo.UpdateSelf(context.Background(), userID, profile.Update{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, p.FullName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_AssignClearsCompany(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfileRepository(db)

	id, userID := uuid.New(), uuid.New()
	role := profile.RoleStudent
	mock.ExpectQuery(regexp.QuoteMeta(`company_id = CASE WHEN $3 THEN NULL ELSE COALESCE($4, company_id) END`)).
		WithArgs(userID, "student", true, nil, nil).
		WillReturnRows(profileRow(id, userID, "Jane", role))

	p, err := repo.Assign(context.Background(), userID, profile.Assignment{Role: &role, ClearCompany: true})
	require.NoError(t, err)
	assert.Equal(t, role, p.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_CreateDuplicateName(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCompanyRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO companies`)).
		WithArgs("TechCorp Solutions", "contact@techcorp.com", "", "", 5, nil).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), company.NewCompany{Name: "TechCorp Solutions", Email: "contact@techcorp.com"})
	assert.ErrorIs(t, err, company.ErrNameTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_ReserveSeat(t *testing.T) {
	id := uuid.New()
	reserve := regexp.QuoteMeta(`SET current_support_users = current_support_users + 1`)
	lookup := regexp.QuoteMeta(`SELECT is_active FROM companies WHERE id = $1`)

	t.Run("seat available", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(reserve).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewCompanyRepository(db).ReserveSeat(context.Background(), id))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("quota full", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(reserve).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(lookup).WithArgs(id).WillReturnRows(sqlmock.NewRows([]string{"is_active"}).AddRow(true))

		err := NewCompanyRepository(db).ReserveSeat(context.Background(), id)
		assert.ErrorIs(t, err, company.ErrSeatLimitReached)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inactive company", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(reserve).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(lookup).WithArgs(id).WillReturnRows(sqlmock.NewRows([]string{"is_active"}).AddRow(false))

		err := NewCompanyRepository(db).ReserveSeat(context.Background(), id)
		assert.ErrorIs(t, err, company.ErrCompanyInactive)
	})

	t.Run("unknown company", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(reserve).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(lookup).WithArgs(id).WillReturnRows(sqlmock.NewRows([]string{"is_active"}))

		err := NewCompanyRepository(db).ReserveSeat(context.Background(), id)
		assert.ErrorIs(t, err, company.ErrNotFound)
	})
}

func TestEnrollmentRepository_EnrollDuplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEnrollmentRepository(db)

	studentID, courseID := uuid.New(), uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO enrollments (student_id, course_id, status)`)).
		WithArgs(studentID, courseID, "enrolled").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := repo.Enroll(context.Background(), studentID, courseID)
	assert.ErrorIs(t, err, course.ErrAlreadyEnrolled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_EnrollUnknownCourse(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEnrollmentRepository(db)

	studentID, courseID := uuid.New(), uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO enrollments`)).
		WithArgs(studentID, courseID, "enrolled").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.Enroll(context.Background(), studentID, courseID)
	assert.ErrorIs(t, err, course.ErrNotFound)
}

func TestCourseRepository_UpsertByTitle(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (title) DO NOTHING`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.UpsertByTitle(context.Background(), course.Course{Title: "Database Fundamentals", IsActive: true})
	require.NoError(t, err)
	assert.False(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepository_ListFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTicketRepository(db)

	companyID := uuid.New()
	status := support.StatusOpen
	now := time.Now().UTC()
	cols := []string{"id", "title", "description", "priority", "category", "status", "company_id", "created_by", "created_at", "updated_at"}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM support_tickets WHERE company_id = $1 AND status = $2 ORDER BY created_at DESC`)).
		WithArgs(companyID, "open").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(uuid.NewString(), "Slow queries", "", "high", "performance", "open", companyID.String(), uuid.NewString(), now, now))

	got, err := repo.List(context.Background(), support.TicketFilter{CompanyID: &companyID, Status: &status})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, support.PriorityHigh, got[0].Priority)
	require.NotNil(t, got[0].CompanyID)
	assert.Equal(t, companyID, *got[0].CompanyID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepository_ListRepliesHidesInternal(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTicketRepository(db)

	ticketID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE ticket_id = $1 AND ($2 OR is_internal = FALSE)`)).
		WithArgs(ticketID, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ticket_id", "reply_text", "created_by", "is_internal", "created_at"}))

	got, err := repo.ListReplies(context.Background(), ticketID, false)
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInquiryRepository_CreateIsPending(t *testing.T) {
	db, mock := newMock(t)
	repo := NewInquiryRepository(db)

	now := time.Now().UTC()
	cols := []string{"id", "name", "email", "company_name", "phone", "subject", "message", "priority", "status", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO public_support_inquiries`)).
		WithArgs("Sarah Johnson", "sarah@newcompany.com", "New Company Inc.", "", "Need help", "Hello", "medium", "pending").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(uuid.NewString(), "Sarah Johnson", "sarah@newcompany.com", "New Company Inc.", "", "Need help", "Hello", "medium", "pending", now))

	in, err := repo.Create(context.Background(), support.Inquiry{
		Name: "Sarah Johnson", Email: "sarah@newcompany.com", CompanyName: "New Company Inc.",
		Subject: "Need help", Message: "Hello",
	})
	require.NoError(t, err)
	assert.Equal(t, support.InquiryStatusPending, in.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
