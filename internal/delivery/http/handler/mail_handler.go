package handler

import (
	"context"
	"time"

	"azellar-portal/internal/mail"
	"azellar-portal/internal/pkg/response"
	"azellar-portal/internal/pkg/validation"

	"github.com/gofiber/fiber/v3"
)

const (
	MessageSendEmailsFailed     = "Failed to send emails"
	MessageSendEnrollmentFailed = "Failed to send enrollment email"
)

type MailSender interface {
	SendContact(ctx context.Context, in mail.ContactEmail) error
	SendEnrollment(ctx context.Context, in mail.EnrollmentEmail) error
}

// relayResponse is the flat body the website's mail calls expect.
type relayResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

type MailHandler struct {
	relay MailSender
	now   func() time.Time
}

func NewMailHandler(relay MailSender) *MailHandler {
	return &MailHandler{relay: relay, now: time.Now}
}

func (h *MailHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Health)
	r.Post("/send-contact-email", h.SendContact)
	r.Post("/send-enrollment-email", h.SendEnrollment)
}

func (h *MailHandler) Health(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(relayResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}

func (h *MailHandler) SendContact(c fiber.Ctx) error {
	var req mail.ContactEmail
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	if err := h.relay.SendContact(c.Context(), req); err != nil {
		return response.Error(c, fiber.StatusInternalServerError, MessageSendEmailsFailed, nil)
	}
	return c.Status(fiber.StatusOK).JSON(relayResponse{Status: "success", Message: "Emails sent successfully"})
}

func (h *MailHandler) SendEnrollment(c fiber.Ctx) error {
	var req mail.EnrollmentEmail
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	if err := h.relay.SendEnrollment(c.Context(), req); err != nil {
		return response.Error(c, fiber.StatusInternalServerError, MessageSendEnrollmentFailed, nil)
	}
	return c.Status(fiber.StatusOK).JSON(relayResponse{Status: "success", Message: "Enrollment email sent successfully"})
}
