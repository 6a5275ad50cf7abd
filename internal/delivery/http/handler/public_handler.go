package handler

import (
	"context"

	"azellar-portal/internal/delivery/http/middleware"
	"azellar-portal/internal/domain/contact"
	"azellar-portal/internal/domain/support"
	"azellar-portal/internal/pkg/response"
	"azellar-portal/internal/pkg/validation"
	uccontact "azellar-portal/internal/usecase/contact"

	"github.com/gofiber/fiber/v3"
)

type ContactUsecase interface {
	SubmitContact(ctx context.Context, in uccontact.ContactInput) (contact.Submission, error)
	SubmitInquiry(ctx context.Context, in uccontact.InquiryInput) (support.Inquiry, error)
}

// PublicHandler serves the forms of the marketing site.
type PublicHandler struct {
	uc ContactUsecase
}

func NewPublicHandler(uc ContactUsecase) *PublicHandler {
	return &PublicHandler{uc: uc}
}

func (h *PublicHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/contact", h.SubmitContact)
	r.Post("/support-inquiries", h.SubmitInquiry)
}

func (h *PublicHandler) SubmitContact(c fiber.Ctx) error {
	var req uccontact.ContactInput
	if err := bindBody(c, &req); err != nil {
		return err
	}

	sub, err := h.uc.SubmitContact(c.Context(), req)
	if err != nil {
		return mapPublicError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Thank you! Your message has been sent successfully.", sub)
}

func (h *PublicHandler) SubmitInquiry(c fiber.Ctx) error {
	var req uccontact.InquiryInput
	if err := bindBody(c, &req); err != nil {
		return err
	}

	inq, err := h.uc.SubmitInquiry(c.Context(), req)
	if err != nil {
		return mapPublicError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Your support inquiry has been submitted. We will get back to you soon.", inq)
}

func mapPublicError(err error) error {
	if validation.IsValidationError(err) {
		return err
	}
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}
