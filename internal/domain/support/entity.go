package support

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func ParsePriority(raw string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	switch p {
	case "":
		return PriorityMedium, true
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return p, true
	default:
		return "", false
	}
}

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return s, true
	default:
		return "", false
	}
}

// Pending reports whether the ticket still needs work.
func (s Status) Pending() bool {
	return s == StatusOpen || s == StatusInProgress
}

const InquiryStatusPending = "pending"

var (
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrInquiryNotFound = errors.New("inquiry not found")
)

type Ticket struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category"`
	Status      Status     `json:"status"`
	CompanyID   *uuid.UUID `json:"company_id"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Reply struct {
	ID         uuid.UUID `json:"id"`
	TicketID   uuid.UUID `json:"ticket_id"`
	ReplyText  string    `json:"reply_text"`
	CreatedBy  uuid.UUID `json:"created_by"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

type Attachment struct {
	ID         uuid.UUID `json:"id"`
	TicketID   uuid.UUID `json:"ticket_id"`
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	FileSize   int64     `json:"file_size"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

type Inquiry struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CompanyName string    `json:"company_name"`
	Phone       string    `json:"phone"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	Priority    Priority  `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type TicketFilter struct {
	CompanyID *uuid.UUID
	Status    *Status
}

type TicketStats struct {
	Total int `json:"total_tickets"`
	Open  int `json:"open_tickets"`
}

type TicketRepository interface {
	Create(ctx context.Context, t Ticket) (Ticket, error)
	GetByID(ctx context.Context, id uuid.UUID) (Ticket, error)
	List(ctx context.Context, f TicketFilter) ([]Ticket, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, s Status) (Ticket, error)
	Stats(ctx context.Context) (TicketStats, error)

	AddReply(ctx context.Context, r Reply) (Reply, error)
	ListReplies(ctx context.Context, ticketID uuid.UUID, includeInternal bool) ([]Reply, error)
	AddAttachment(ctx context.Context, a Attachment) (Attachment, error)
	ListAttachments(ctx context.Context, ticketID uuid.UUID) ([]Attachment, error)
}

type InquiryRepository interface {
	Create(ctx context.Context, in Inquiry) (Inquiry, error)
	GetByID(ctx context.Context, id uuid.UUID) (Inquiry, error)
	List(ctx context.Context) ([]Inquiry, error)
	CountPending(ctx context.Context) (int, error)
	// SeedSample inserts in unless an inquiry with the same email and subject exists.
	SeedSample(ctx context.Context, in Inquiry) (created bool, err error)
}
