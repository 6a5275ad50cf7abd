package postgres

import (
	"context"

	"azellar-portal/internal/database"
	"azellar-portal/internal/domain/profile"

	"github.com/google/uuid"
)

const profileColumns = `id, user_id, email, full_name, role, company_id, is_active, created_at, updated_at`

type ProfileRepository struct {
	db database.DB
}

var _ profile.Repository = (*ProfileRepository)(nil)

func NewProfileRepository(db database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	return scanProfile(row)
}

func (r *ProfileRepository) EnsureDefault(ctx context.Context, seed profile.Seed) (profile.Profile, bool, error) {
	role := seed.Role
	if !role.Valid() {
		role = profile.DefaultRole
	}

	n, err := r.db.Exec(ctx,
		`INSERT INTO profiles (user_id, email, full_name, role, company_id)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO NOTHING`,
		seed.UserID, seed.Email, seed.FullName, string(role), seed.CompanyID,
	)
	if err != nil {
		return profile.Profile{}, false, err
	}

	p, err := r.GetByUserID(ctx, seed.UserID)
	if err != nil {
		return profile.Profile{}, false, err
	}
	return p, n == 1, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, seed profile.Seed) (profile.Profile, error) {
	role := seed.Role
	if !role.Valid() {
		role = profile.DefaultRole
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO profiles (user_id, email, full_name, role, company_id)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email,
			full_name = CASE WHEN EXCLUDED.full_name <> '' THEN EXCLUDED.full_name ELSE profiles.full_name END,
			role = EXCLUDED.role,
			company_id = EXCLUDED.company_id,
			updated_at = now()
		 RETURNING `+profileColumns,
		seed.UserID, seed.Email, seed.FullName, string(role), seed.CompanyID,
	)
	return scanProfile(row)
}

func (r *ProfileRepository) UpdateSelf(ctx context.Context, userID uuid.UUID, u profile.Update) (profile.Profile, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE profiles SET
			full_name = COALESCE($2, full_name),
			updated_at = now()
		 WHERE user_id = $1
		 RETURNING `+profileColumns,
		userID, u.FullName,
	)
	return scanProfile(row)
}

func (r *ProfileRepository) Assign(ctx context.Context, userID uuid.UUID, a profile.Assignment) (profile.Profile, error) {
	var role *string
	if a.Role != nil {
		s := string(*a.Role)
		role = &s
	}

	row := r.db.QueryRow(ctx,
		`UPDATE profiles SET
			role = COALESCE($2, role),
			company_id = CASE WHEN $3 THEN NULL ELSE COALESCE($4, company_id) END,
			is_active = COALESCE($5, is_active),
			updated_at = now()
		 WHERE user_id = $1
		 RETURNING `+profileColumns,
		userID, role, a.ClearCompany, a.CompanyID, a.IsActive,
	)
	return scanProfile(row)
}

func (r *ProfileRepository) List(ctx context.Context) ([]profile.Profile, error) {
	rows, err := r.db.Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanProfile(row rowScanner) (profile.Profile, error) {
	var p profile.Profile
	var role string
	if err := row.Scan(&p.ID, &p.UserID, &p.Email, &p.FullName, &role, &p.CompanyID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if database.IsNoRows(err) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, err
	}
	p.Role = profile.Role(role)
	return p, nil
}
