package seeder

import (
	"context"
	"errors"
	"fmt"

	"azellar-portal/internal/database"
	"azellar-portal/internal/domain/profile"
	"azellar-portal/internal/infrastructure/authapi"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountCreator is the provider admin API.
type AccountCreator interface {
	AdminCreateUser(ctx context.Context, email, password string, metadata map[string]any) (authapi.User, error)
}

type Account struct {
	Email    string
	Password string
	FullName string
	Role     profile.Role
	// Company binds a client profile by company name.
	Company string
}

var TestAccounts = []Account{
	{Email: "admin@azellar.com", Password: "AdminPassword123!", FullName: "System Administrator", Role: profile.RoleAdmin},
	{Email: "student@example.com", Password: "StudentPassword123!", FullName: "Jane Doe", Role: profile.RoleStudent},
	{Email: "client@techcorp.com", Password: "ClientPassword123!", FullName: "John Smith", Role: profile.RoleClient, Company: SampleCompany.Name},
}

type AccountsSeeder struct {
	Users    AccountCreator
	Accounts []Account
	Logger   *zap.Logger
}

func (AccountsSeeder) Name() string { return "accounts" }

func (s AccountsSeeder) Run(ctx context.Context, db database.DB) error {
	if s.Users == nil {
		return fmt.Errorf("nil account creator")
	}
	if err := EnsureTableColumns(ctx, db, "profiles", "user_id", "email", "role", "company_id"); err != nil {
		return err
	}
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	touched := map[uuid.UUID]struct{}{}
	for _, acc := range s.Accounts {
		var companyID *uuid.UUID
		if acc.Company != "" {
			var id uuid.UUID
			if err := db.QueryRow(ctx, `SELECT id FROM companies WHERE name = $1`, acc.Company).Scan(&id); err != nil {
				return fmt.Errorf("company %q: %w", acc.Company, err)
			}
			companyID = &id
			touched[id] = struct{}{}
		}

		usr, err := s.Users.AdminCreateUser(ctx, acc.Email, acc.Password, map[string]any{"full_name": acc.FullName})
		switch {
		case errors.Is(err, authapi.ErrUserAlreadyExists):
			n, err := db.Exec(
				ctx,
				`UPDATE profiles SET role = $2, company_id = $3, full_name = $4, is_active = TRUE, updated_at = now() WHERE email = $1`,
				acc.Email, string(acc.Role), companyID, acc.FullName,
			)
			if err != nil {
				return err
			}
			if n == 0 {
				logger.Warn("account exists without profile; sign in once to create it", zap.String("email", acc.Email))
			}
		case err != nil:
			return fmt.Errorf("create %s: %w", acc.Email, err)
		default:
			if _, err := db.Exec(
				ctx,
				`INSERT INTO profiles (user_id, email, full_name, role, company_id, is_active)
				 VALUES ($1, $2, $3, $4, $5, TRUE)
				 ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, company_id = EXCLUDED.company_id,
				   full_name = EXCLUDED.full_name, updated_at = now()`,
				usr.ID, acc.Email, acc.FullName, string(acc.Role), companyID,
			); err != nil {
				return err
			}
		}
		logger.Info("account ready", zap.String("email", acc.Email), zap.String("role", acc.Role.String()))
	}

	// Seat counters follow the bound client profiles so reruns never drift.
	for id := range touched {
		if _, err := db.Exec(
			ctx,
			`UPDATE companies SET current_support_users =
			   (SELECT count(*) FROM profiles WHERE company_id = $1 AND role = 'client'), updated_at = now()
			 WHERE id = $1`,
			id,
		); err != nil {
			return err
		}
	}
	return nil
}
