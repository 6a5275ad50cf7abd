package contact

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const DefaultInquiryType = "general"

type Submission struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Company     string    `json:"company"`
	Phone       string    `json:"phone"`
	InquiryType string    `json:"inquiry_type"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, s Submission) (Submission, error)
}
