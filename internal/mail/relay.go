package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"azellar-portal/internal/config"
	"azellar-portal/internal/pkg/validation"

	"go.uber.org/zap"
)

var ErrSendFailed = errors.New("mail send failed")

const InquiryTypeClientSupport = "client_support"

type ContactEmail struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Message     string `json:"message" validate:"required"`
	InquiryType string `json:"inquiry_type" validate:"required"`
}

type EnrollmentEmail struct {
	StudentName   string        `json:"student_name" validate:"required"`
	StudentEmail  string        `json:"student_email" validate:"required,email"`
	CourseName    string        `json:"course_name" validate:"required"`
	CourseDetails CourseDetails `json:"course_details"`
}

// Relay composes and sends the contact and enrollment mails.
type Relay struct {
	mailer Mailer
	cfg    config.MailConfig
	logger *zap.Logger
	now    func() time.Time

	wg sync.WaitGroup
}

func NewRelay(mailer Mailer, cfg config.MailConfig, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 15 * time.Second
	}
	return &Relay{mailer: mailer, cfg: cfg, logger: logger, now: time.Now}
}

// SendContact sends the sender's confirmation and then the admin notification.
func (r *Relay) SendContact(ctx context.Context, in ContactEmail) error {
	if !validation.EmailDomainAllowed(in.Email, r.cfg.BlockedDomains) {
		return fmt.Errorf("%w: recipient domain not accepted", ErrSendFailed)
	}

	userHTML, err := render(contactConfirmation(in.Name, in.InquiryType, in.Message))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	adminHTML, err := render(contactAdminNotification(in.Name, in.Email, in.InquiryType, in.Message, r.now()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	if err := r.mailer.Send(ctx, Message{
		From:    r.cfg.From,
		To:      in.Email,
		Subject: "Thank you for contacting Azellar",
		HTML:    userHTML,
	}); err != nil {
		r.logger.Error("contact confirmation failed", zap.String("to", in.Email), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	if err := r.mailer.Send(ctx, Message{
		From:    r.cfg.From,
		To:      r.cfg.AdminTo,
		ReplyTo: in.Email,
		Subject: "New Contact Form Submission - " + in.InquiryType,
		HTML:    adminHTML,
	}); err != nil {
		r.logger.Error("contact admin notification failed", zap.String("inquiry_type", in.InquiryType), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	r.logger.Info("contact emails sent", zap.String("email", in.Email), zap.String("inquiry_type", in.InquiryType))
	return nil
}

func (r *Relay) SendEnrollment(ctx context.Context, in EnrollmentEmail) error {
	html, err := render(enrollmentConfirmation(in.StudentName, in.CourseName, in.CourseDetails))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	if err := r.mailer.Send(ctx, Message{
		From:    r.cfg.EnrollmentFrom,
		To:      in.StudentEmail,
		Subject: "Enrollment Confirmation - " + in.CourseName,
		HTML:    html,
	}); err != nil {
		r.logger.Error("enrollment email failed", zap.String("to", in.StudentEmail), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	r.logger.Info("enrollment email sent", zap.String("email", in.StudentEmail), zap.String("course", in.CourseName))
	return nil
}

type SupportRequest struct {
	ClientName  string
	ClientEmail string
	CompanyName string
	Category    string
	Priority    string
	Subject     string
	Message     string
}

// ClientSupportEmail packs a client support request into the contact mail format.
func ClientSupportEmail(req SupportRequest) ContactEmail {
	company := req.CompanyName
	if strings.TrimSpace(company) == "" {
		company = "Unknown"
	}
	name := req.ClientName
	if strings.TrimSpace(name) == "" {
		name = req.ClientEmail
	}

	var b strings.Builder
	b.WriteString("CLIENT SUPPORT REQUEST\n\n")
	b.WriteString("Company: " + company + "\n")
	b.WriteString("Client: " + req.ClientName + "\n")
	b.WriteString("Category: " + req.Category + "\n")
	b.WriteString("Priority: " + req.Priority + "\n")
	b.WriteString("Subject: " + req.Subject + "\n\n")
	b.WriteString("Message:\n" + req.Message)

	return ContactEmail{
		Name:        name,
		Email:       req.ClientEmail,
		Message:     b.String(),
		InquiryType: InquiryTypeClientSupport,
	}
}

// Go sends in the background with its own timeout. Failures are logged and
// never retried.
func (r *Relay) Go(kind string, send func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.SendTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			r.logger.Warn("background mail failed", zap.String("kind", kind), zap.Error(err))
		}
	}()
}

// Wait blocks until background sends finish.
func (r *Relay) Wait() {
	r.wg.Wait()
}
