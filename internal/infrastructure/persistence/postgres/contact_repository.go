package postgres

import (
	"context"

	"azellar-portal/internal/database"
	"azellar-portal/internal/domain/contact"
)

type ContactRepository struct {
	db database.DB
}

var _ contact.Repository = (*ContactRepository)(nil)

func NewContactRepository(db database.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, s contact.Submission) (contact.Submission, error) {
	if s.InquiryType == "" {
		s.InquiryType = contact.DefaultInquiryType
	}

	var out contact.Submission
	err := r.db.QueryRow(ctx,
		`INSERT INTO contact_submissions (name, email, company, phone, inquiry_type, message)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, name, email, company, phone, inquiry_type, message, created_at`,
		s.Name, s.Email, s.Company, s.Phone, s.InquiryType, s.Message,
	).Scan(&out.ID, &out.Name, &out.Email, &out.Company, &out.Phone, &out.InquiryType, &out.Message, &out.CreatedAt)
	if err != nil {
		return contact.Submission{}, err
	}
	return out, nil
}
