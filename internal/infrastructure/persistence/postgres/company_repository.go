package postgres

import (
	"context"

	"azellar-portal/internal/database"
	"azellar-portal/internal/domain/company"

	"github.com/google/uuid"
)

const companyColumns = `id, name, email, phone, address, max_support_users, current_support_users, is_active, created_by, created_at, updated_at`

type CompanyRepository struct {
	db database.DB
}

var _ company.Repository = (*CompanyRepository)(nil)

func NewCompanyRepository(db database.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Create(ctx context.Context, in company.NewCompany) (company.Company, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO companies (name, email, phone, address, max_support_users, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+companyColumns,
		in.Name, in.Email, in.Phone, in.Address, maxSeats(in.MaxSupportUsers), in.CreatedBy,
	)
	c, err := scanCompany(row)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return company.Company{}, company.ErrNameTaken
		}
		return company.Company{}, err
	}
	return c, nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (company.Company, error) {
	row := r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	return scanCompany(row)
}

func (r *CompanyRepository) List(ctx context.Context) ([]company.Company, error) {
	rows, err := r.db.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]company.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
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

func (r *CompanyRepository) UpsertByName(ctx context.Context, in company.NewCompany) (company.Company, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO companies (name, email, phone, address, max_support_users, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (name) DO UPDATE SET
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			max_support_users = GREATEST(EXCLUDED.max_support_users, companies.current_support_users),
			updated_at = now()
		 RETURNING `+companyColumns,
		in.Name, in.Email, in.Phone, in.Address, maxSeats(in.MaxSupportUsers), in.CreatedBy,
	)
	return scanCompany(row)
}

func (r *CompanyRepository) ReserveSeat(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`UPDATE companies
		 SET current_support_users = current_support_users + 1, updated_at = now()
		 WHERE id = $1 AND is_active = TRUE AND current_support_users < max_support_users`,
		id,
	)
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	var active bool
	if err := r.db.QueryRow(ctx, `SELECT is_active FROM companies WHERE id = $1`, id).Scan(&active); err != nil {
		if database.IsNoRows(err) {
			return company.ErrNotFound
		}
		return err
	}
	if !active {
		return company.ErrCompanyInactive
	}
	return company.ErrSeatLimitReached
}

func (r *CompanyRepository) ReleaseSeat(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`UPDATE companies
		 SET current_support_users = GREATEST(current_support_users - 1, 0), updated_at = now()
		 WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return company.ErrNotFound
	}
	return nil
}

func (r *CompanyRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM companies`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func maxSeats(n int) int {
	if n <= 0 {
		return company.DefaultMaxSupportUsers
	}
	return n
}

func scanCompany(row rowScanner) (company.Company, error) {
	var c company.Company
	if err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address,
		&c.MaxSupportUsers, &c.CurrentSupportUsers, &c.IsActive,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		if database.IsNoRows(err) {
			return company.Company{}, company.ErrNotFound
		}
		return company.Company{}, err
	}
	return c, nil
}
