package seeder

import (
	"context"

	"azellar-portal/internal/database"
)

type SampleInquiryData struct {
	Name        string
	Email       string
	CompanyName string
	Phone       string
	Subject     string
	Message     string
	Priority    string
}

var SampleInquiry = SampleInquiryData{
	Name:        "Sarah Johnson",
	Email:       "sarah@newcompany.com",
	CompanyName: "New Company Inc",
	Phone:       "+1-555-0199",
	Subject:     "Interested in database consulting services",
	Message:     "Hi, we are a growing company and need help optimizing our database performance. Could we schedule a consultation?",
	Priority:    "medium",
}

type InquirySeeder struct {
	Inquiry SampleInquiryData
}

func (InquirySeeder) Name() string { return "inquiry" }

func (s InquirySeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "public_support_inquiries", "id", "email", "subject", "status"); err != nil {
		return err
	}

	q := s.Inquiry
	_, err := db.Exec(
		ctx,
		`INSERT INTO public_support_inquiries (name, email, company_name, phone, subject, message, priority, status)
		 SELECT $1, $2, $3, $4, $5, $6, $7, 'pending'
		 WHERE NOT EXISTS (SELECT 1 FROM public_support_inquiries WHERE email = $2 AND subject = $5)`,
		q.Name, q.Email, q.CompanyName, q.Phone, q.Subject, q.Message, q.Priority,
	)
	return err
}
