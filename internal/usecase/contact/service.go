package contact

import (
	"context"
	"errors"
	"strings"

	"azellar-portal/internal/domain/contact"
	"azellar-portal/internal/domain/support"
	"azellar-portal/internal/mail"
	"azellar-portal/internal/pkg/validation"

	"go.uber.org/zap"
)

var ErrInternal = errors.New("internal error")

const blockedDomainMessage = "Please use a real email address. Test domains like example.com are not accepted."

// Notifier sends the contact mails in the background.
type Notifier interface {
	SendContact(ctx context.Context, in mail.ContactEmail) error
	Go(kind string, send func(ctx context.Context) error)
}

type Service struct {
	submissions    contact.Repository
	inquiries      support.InquiryRepository
	notifier       Notifier
	blockedDomains []string
	logger         *zap.Logger
}

func NewService(submissions contact.Repository, inquiries support.InquiryRepository, notifier Notifier, blockedDomains []string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		submissions:    submissions,
		inquiries:      inquiries,
		notifier:       notifier,
		blockedDomains: blockedDomains,
		logger:         logger,
	}
}

type ContactInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Company     string `json:"company"`
	Phone       string `json:"phone"`
	InquiryType string `json:"inquiry_type"`
	Message     string `json:"message" validate:"required,max=5000"`
}

// SubmitContact stores the form and then mails the confirmation and the admin notice.
func (s *Service) SubmitContact(ctx context.Context, in ContactInput) (contact.Submission, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Message = strings.TrimSpace(in.Message)
	if err := validation.Struct(in); err != nil {
		return contact.Submission{}, err
	}
	if !validation.EmailDomainAllowed(in.Email, s.blockedDomains) {
		return contact.Submission{}, validation.Field("email", blockedDomainMessage)
	}
	if strings.TrimSpace(in.InquiryType) == "" {
		in.InquiryType = contact.DefaultInquiryType
	}

	sub, err := s.submissions.Create(ctx, contact.Submission{
		Name:        in.Name,
		Email:       in.Email,
		Company:     strings.TrimSpace(in.Company),
		Phone:       strings.TrimSpace(in.Phone),
		InquiryType: in.InquiryType,
		Message:     in.Message,
	})
	if err != nil {
		s.logger.Error("store contact submission failed", zap.Error(err))
		return contact.Submission{}, ErrInternal
	}

	if s.notifier != nil {
		msg := mail.ContactEmail{Name: sub.Name, Email: sub.Email, Message: sub.Message, InquiryType: sub.InquiryType}
		s.notifier.Go("contact", func(ctx context.Context) error {
			return s.notifier.SendContact(ctx, msg)
		})
	}
	return sub, nil
}

type InquiryInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
	Subject     string `json:"subject" validate:"required,max=300"`
	Message     string `json:"message" validate:"required,max=5000"`
	Priority    string `json:"priority"`
}

// SubmitInquiry records a public support inquiry as pending. It is never
// linked to a company or profile.
func (s *Service) SubmitInquiry(ctx context.Context, in InquiryInput) (support.Inquiry, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	if err := validation.Struct(in); err != nil {
		return support.Inquiry{}, err
	}
	prio, ok := support.ParsePriority(in.Priority)
	if !ok {
		return support.Inquiry{}, validation.Field("priority", "priority must be one of: low, medium, high, urgent")
	}

	inq, err := s.inquiries.Create(ctx, support.Inquiry{
		Name:        in.Name,
		Email:       in.Email,
		CompanyName: strings.TrimSpace(in.CompanyName),
		Phone:       strings.TrimSpace(in.Phone),
		Subject:     in.Subject,
		Message:     in.Message,
		Priority:    prio,
		Status:      support.InquiryStatusPending,
	})
	if err != nil {
		s.logger.Error("store support inquiry failed", zap.Error(err))
		return support.Inquiry{}, ErrInternal
	}
	s.logger.Info("support inquiry received", zap.Stringer("inquiry_id", inq.ID), zap.String("priority", string(prio)))
	return inq, nil
}
