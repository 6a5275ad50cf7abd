package seeder

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"azellar-portal/internal/database/sqldb"
	"azellar-portal/internal/domain/profile"
	"azellar-portal/internal/infrastructure/authapi"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columnsQuery = regexp.QuoteMeta(`SELECT column_name FROM information_schema.columns`)

func expectColumns(mock sqlmock.Sqlmock, table string, cols ...string) {
	rows := sqlmock.NewRows([]string{"column_name"})
	for _, c := range cols {
		rows.AddRow(c)
	}
	mock.ExpectQuery(columnsQuery).WithArgs(table).WillReturnRows(rows)
}

type fakeCreator struct {
	users map[string]authapi.User
	err   map[string]error
	calls []string
}

func (f *fakeCreator) AdminCreateUser(_ context.Context, email, _ string, _ map[string]any) (authapi.User, error) {
	f.calls = append(f.calls, email)
	if err := f.err[email]; err != nil {
		return authapi.User{}, err
	}
	return f.users[email], nil
}

func TestEnsureTableColumns_MissingColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectColumns(mock, "profiles", "id", "user_id")

	err = EnsureTableColumns(context.Background(), sqldb.New(db), "profiles", "id", "role")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profiles.role")
}

func TestAccountsSeeder_CreatesAndReusesAccounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	companyID := uuid.New()
	studentID := uuid.New()
	creator := &fakeCreator{
		users: map[string]authapi.User{"student@example.com": {ID: studentID}},
		err:   map[string]error{"client@techcorp.com": authapi.ErrUserAlreadyExists},
	}
	accounts := []Account{
		{Email: "student@example.com", Password: "pw", FullName: "Jane Doe", Role: profile.RoleStudent},
		{Email: "client@techcorp.com", Password: "pw", FullName: "John Smith", Role: profile.RoleClient, Company: "TechCorp Solutions"},
	}

	expectColumns(mock, "profiles", "user_id", "email", "role", "company_id")
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO profiles`)).
		WithArgs(studentID, "student@example.com", "Jane Doe", "student", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM companies WHERE name = $1`)).
		WithArgs("TechCorp Solutions").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(companyID.String()))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE profiles SET role = $2`)).
		WithArgs("client@techcorp.com", "client", sqlmock.AnyArg(), "John Smith").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE companies SET current_support_users`)).
		WithArgs(companyID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := AccountsSeeder{Users: creator, Accounts: accounts}
	require.NoError(t, s.Run(context.Background(), sqldb.New(db)))

	assert.Equal(t, []string{"student@example.com", "client@techcorp.com"}, creator.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountsSeeder_ProviderFailureStops(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	creator := &fakeCreator{err: map[string]error{"admin@azellar.com": authapi.ErrServiceRoleRequired}}
	expectColumns(mock, "profiles", "user_id", "email", "role", "company_id")

	s := AccountsSeeder{Users: creator, Accounts: TestAccounts[:1]}
	err = s.Run(context.Background(), sqldb.New(db))

	require.Error(t, err)
	assert.True(t, errors.Is(err, authapi.ErrServiceRoleRequired))
}

func TestInquirySeeder_InsertsOnlyWhenMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectColumns(mock, "public_support_inquiries", "id", "email", "subject", "status")
	mock.ExpectExec(regexp.QuoteMeta(`WHERE NOT EXISTS`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, InquirySeeder{Inquiry: SampleInquiry}.Run(context.Background(), sqldb.New(db)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunner_WrapsSeederName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(columnsQuery).WithArgs("companies").WillReturnError(errors.New("boom"))

	err = Runner{Seeders: []Seeder{CompanySeeder{Company: SampleCompany}}}.Run(context.Background(), sqldb.New(db))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed company")
}

func TestCheck_ReportsEveryTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for _, table := range Tables {
		q := mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM ` + table + ` LIMIT 1`))
		switch table {
		case "courses":
			q.WillReturnError(errors.New(`relation "courses" does not exist`))
		case "enrollments":
			q.WillReturnError(sql.ErrNoRows)
		default:
			q.WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
		}
	}
	expectColumns(mock, "profiles", "id", "role")

	statuses, err := Check(context.Background(), sqldb.New(db))
	require.Error(t, err)
	require.Len(t, statuses, len(Tables)+1)

	for _, st := range statuses {
		if st.Table == "courses" {
			assert.Error(t, st.Err)
			continue
		}
		assert.NoError(t, st.Err, st.Table)
	}
}
