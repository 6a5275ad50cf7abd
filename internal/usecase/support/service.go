package support

import (
	"context"
	"errors"
	"strings"

	"azellar-portal/internal/domain/company"
	"azellar-portal/internal/domain/profile"
	"azellar-portal/internal/domain/support"
	"azellar-portal/internal/mail"
	"azellar-portal/internal/pkg/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNoCompany = errors.New("client profile is not bound to a company")
	ErrForbidden = errors.New("forbidden")
	ErrInternal  = errors.New("internal error")
)

// ContactSender delivers a client support request through the contact mail.
type ContactSender interface {
	SendContact(ctx context.Context, in mail.ContactEmail) error
}

type Service struct {
	tickets   support.TicketRepository
	companies company.Repository
	mailer    ContactSender
	logger    *zap.Logger
}

func NewService(tickets support.TicketRepository, companies company.Repository, mailer ContactSender, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{tickets: tickets, companies: companies, mailer: mailer, logger: logger}
}

type TicketQuery struct {
	Status    string
	CompanyID *uuid.UUID
}

// ListTickets scopes clients to their own company; admins may filter freely.
func (s *Service) ListTickets(ctx context.Context, actor profile.Profile, q TicketQuery) ([]support.Ticket, error) {
	var f support.TicketFilter

	if strings.TrimSpace(q.Status) != "" {
		st, ok := support.ParseStatus(q.Status)
		if !ok {
			return nil, validation.Field("status", "status must be one of: open, in_progress, resolved, closed")
		}
		f.Status = &st
	}

	switch actor.Role {
	case profile.RoleAdmin:
		f.CompanyID = q.CompanyID
	case profile.RoleClient:
		if actor.CompanyID == nil {
			return nil, ErrNoCompany
		}
		f.CompanyID = actor.CompanyID
	default:
		return nil, ErrForbidden
	}

	items, err := s.tickets.List(ctx, f)
	if err != nil {
		s.logger.Error("list tickets failed", zap.Error(err))
		return nil, ErrInternal
	}
	if items == nil {
		items = []support.Ticket{}
	}
	return items, nil
}

// GetTicket reports a ticket outside the client's company as not found.
func (s *Service) GetTicket(ctx context.Context, actor profile.Profile, id uuid.UUID) (support.Ticket, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, support.ErrTicketNotFound) {
			return support.Ticket{}, err
		}
		return support.Ticket{}, ErrInternal
	}
	if !canSee(actor, t) {
		return support.Ticket{}, support.ErrTicketNotFound
	}
	return t, nil
}

func canSee(actor profile.Profile, t support.Ticket) bool {
	switch actor.Role {
	case profile.RoleAdmin:
		return true
	case profile.RoleClient:
		return actor.CompanyID != nil && t.CompanyID != nil && *actor.CompanyID == *t.CompanyID
	default:
		return false
	}
}

type NewTicket struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"required"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	CompanyID   *uuid.UUID `json:"company_id"`
}

func (s *Service) CreateTicket(ctx context.Context, actor profile.Profile, in NewTicket) (support.Ticket, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := validation.Struct(in); err != nil {
		return support.Ticket{}, err
	}
	prio, ok := support.ParsePriority(in.Priority)
	if !ok {
		return support.Ticket{}, validation.Field("priority", "priority must be one of: low, medium, high, urgent")
	}

	t := support.Ticket{
		Title:       in.Title,
		Description: in.Description,
		Priority:    prio,
		Category:    strings.TrimSpace(in.Category),
		Status:      support.StatusOpen,
		CreatedBy:   actor.UserID,
	}
	switch actor.Role {
	case profile.RoleClient:
		if actor.CompanyID == nil {
			return support.Ticket{}, ErrNoCompany
		}
		t.CompanyID = actor.CompanyID
	case profile.RoleAdmin:
		t.CompanyID = in.CompanyID
	default:
		return support.Ticket{}, ErrForbidden
	}
	if t.Category == "" {
		t.Category = "general"
	}

	created, err := s.tickets.Create(ctx, t)
	if err != nil {
		s.logger.Error("create ticket failed", zap.Error(err))
		return support.Ticket{}, ErrInternal
	}
	s.logger.Info("ticket created", zap.Stringer("ticket_id", created.ID), zap.String("priority", string(prio)))
	return created, nil
}

func (s *Service) UpdateStatus(ctx context.Context, actor profile.Profile, id uuid.UUID, raw string) (support.Ticket, error) {
	if actor.Role != profile.RoleAdmin {
		return support.Ticket{}, ErrForbidden
	}
	st, ok := support.ParseStatus(raw)
	if !ok {
		return support.Ticket{}, validation.Field("status", "status must be one of: open, in_progress, resolved, closed")
	}
	t, err := s.tickets.UpdateStatus(ctx, id, st)
	if err != nil {
		if errors.Is(err, support.ErrTicketNotFound) {
			return support.Ticket{}, err
		}
		return support.Ticket{}, ErrInternal
	}
	return t, nil
}

// ListReplies never returns internal replies to clients.
func (s *Service) ListReplies(ctx context.Context, actor profile.Profile, ticketID uuid.UUID) ([]support.Reply, error) {
	if _, err := s.GetTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	items, err := s.tickets.ListReplies(ctx, ticketID, actor.Role == profile.RoleAdmin)
	if err != nil {
		return nil, ErrInternal
	}
	if items == nil {
		items = []support.Reply{}
	}
	return items, nil
}

type NewReply struct {
	ReplyText  string `json:"reply_text" validate:"required"`
	IsInternal bool   `json:"is_internal"`
}

func (s *Service) AddReply(ctx context.Context, actor profile.Profile, ticketID uuid.UUID, in NewReply) (support.Reply, error) {
	in.ReplyText = strings.TrimSpace(in.ReplyText)
	if err := validation.Struct(in); err != nil {
		return support.Reply{}, err
	}
	if in.IsInternal && actor.Role != profile.RoleAdmin {
		return support.Reply{}, ErrForbidden
	}
	if _, err := s.GetTicket(ctx, actor, ticketID); err != nil {
		return support.Reply{}, err
	}

	r, err := s.tickets.AddReply(ctx, support.Reply{
		TicketID:   ticketID,
		ReplyText:  in.ReplyText,
		CreatedBy:  actor.UserID,
		IsInternal: in.IsInternal,
	})
	if err != nil {
		if errors.Is(err, support.ErrTicketNotFound) {
			return support.Reply{}, err
		}
		return support.Reply{}, ErrInternal
	}
	return r, nil
}

func (s *Service) ListAttachments(ctx context.Context, actor profile.Profile, ticketID uuid.UUID) ([]support.Attachment, error) {
	if _, err := s.GetTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	items, err := s.tickets.ListAttachments(ctx, ticketID)
	if err != nil {
		return nil, ErrInternal
	}
	if items == nil {
		items = []support.Attachment{}
	}
	return items, nil
}

type NewAttachment struct {
	FileName string `json:"file_name" validate:"required"`
	FileURL  string `json:"file_url" validate:"required,url"`
	FileSize int64  `json:"file_size" validate:"min=0"`
}

func (s *Service) AddAttachment(ctx context.Context, actor profile.Profile, ticketID uuid.UUID, in NewAttachment) (support.Attachment, error) {
	if err := validation.Struct(in); err != nil {
		return support.Attachment{}, err
	}
	if _, err := s.GetTicket(ctx, actor, ticketID); err != nil {
		return support.Attachment{}, err
	}
	a, err := s.tickets.AddAttachment(ctx, support.Attachment{
		TicketID:   ticketID,
		FileName:   strings.TrimSpace(in.FileName),
		FileURL:    strings.TrimSpace(in.FileURL),
		FileSize:   in.FileSize,
		UploadedBy: actor.UserID,
	})
	if err != nil {
		if errors.Is(err, support.ErrTicketNotFound) {
			return support.Attachment{}, err
		}
		return support.Attachment{}, ErrInternal
	}
	return a, nil
}

type SupportRequest struct {
	Category string `json:"category" validate:"required"`
	Priority string `json:"priority"`
	Subject  string `json:"subject" validate:"required"`
	Message  string `json:"message" validate:"required"`
}

// RequestSupport mails a client_support notification on behalf of a client.
func (s *Service) RequestSupport(ctx context.Context, actor profile.Profile, in SupportRequest) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	prio, ok := support.ParsePriority(in.Priority)
	if !ok {
		return validation.Field("priority", "priority must be one of: low, medium, high, urgent")
	}

	companyName := ""
	if actor.CompanyID != nil {
		c, err := s.companies.GetByID(ctx, *actor.CompanyID)
		if err != nil && !errors.Is(err, company.ErrNotFound) {
			s.logger.Warn("company lookup for support request failed", zap.Error(err))
		}
		companyName = c.Name
	}

	msg := mail.ClientSupportEmail(mail.SupportRequest{
		ClientName:  actor.FullName,
		ClientEmail: actor.Email,
		CompanyName: companyName,
		Category:    in.Category,
		Priority:    string(prio),
		Subject:     in.Subject,
		Message:     in.Message,
	})
	if err := s.mailer.SendContact(ctx, msg); err != nil {
		return err
	}
	return nil
}
