package seeder

import (
	"context"

	"azellar-portal/internal/database"
)

type SampleCompanyData struct {
	Name            string
	Email           string
	Phone           string
	Address         string
	MaxSupportUsers int
}

var SampleCompany = SampleCompanyData{
	Name:            "TechCorp Solutions",
	Email:           "contact@techcorp.com",
	Phone:           "+1-555-0123",
	Address:         "123 Tech Street, San Francisco, CA 94105",
	MaxSupportUsers: 5,
}

type CompanySeeder struct {
	Company SampleCompanyData
}

func (CompanySeeder) Name() string { return "company" }

// Run upserts on the company name; the seat counter is left to the
// accounts seeder.
func (s CompanySeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "companies", "id", "name", "max_support_users", "current_support_users"); err != nil {
		return err
	}

	_, err := db.Exec(
		ctx,
		`INSERT INTO companies (name, email, phone, address, max_support_users, is_active)
		 VALUES ($1, $2, $3, $4, $5, TRUE)
		 ON CONFLICT (name) DO UPDATE SET email = EXCLUDED.email, phone = EXCLUDED.phone,
		   address = EXCLUDED.address, max_support_users = EXCLUDED.max_support_users, updated_at = now()`,
		s.Company.Name, s.Company.Email, s.Company.Phone, s.Company.Address, s.Company.MaxSupportUsers,
	)
	return err
}
