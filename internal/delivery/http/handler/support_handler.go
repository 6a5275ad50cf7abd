package handler

import (
	"context"
	"errors"

	"azellar-portal/internal/delivery/http/middleware"
	"azellar-portal/internal/domain/profile"
	"azellar-portal/internal/domain/support"
	"azellar-portal/internal/mail"
	"azellar-portal/internal/pkg/response"
	"azellar-portal/internal/pkg/validation"
	ucsupport "azellar-portal/internal/usecase/support"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type SupportUsecase interface {
	ListTickets(ctx context.Context, actor profile.Profile, q ucsupport.TicketQuery) ([]support.Ticket, error)
	GetTicket(ctx context.Context, actor profile.Profile, id uuid.UUID) (support.Ticket, error)
	CreateTicket(ctx context.Context, actor profile.Profile, in ucsupport.NewTicket) (support.Ticket, error)
	UpdateStatus(ctx context.Context, actor profile.Profile, id uuid.UUID, status string) (support.Ticket, error)
	ListReplies(ctx context.Context, actor profile.Profile, ticketID uuid.UUID) ([]support.Reply, error)
	AddReply(ctx context.Context, actor profile.Profile, ticketID uuid.UUID, in ucsupport.NewReply) (support.Reply, error)
	ListAttachments(ctx context.Context, actor profile.Profile, ticketID uuid.UUID) ([]support.Attachment, error)
	AddAttachment(ctx context.Context, actor profile.Profile, ticketID uuid.UUID, in ucsupport.NewAttachment) (support.Attachment, error)
	RequestSupport(ctx context.Context, actor profile.Profile, in ucsupport.SupportRequest) error
}

type SupportHandler struct {
	uc SupportUsecase
}

func NewSupportHandler(uc SupportUsecase) *SupportHandler {
	return &SupportHandler{uc: uc}
}

func (h *SupportHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/tickets", h.ListTickets)
	r.Post("/tickets", h.CreateTicket)
	r.Get("/tickets/:id", h.GetTicket)
	r.Patch("/tickets/:id/status", h.UpdateStatus)
	r.Get("/tickets/:id/replies", h.ListReplies)
	r.Post("/tickets/:id/replies", h.AddReply)
	r.Get("/tickets/:id/attachments", h.ListAttachments)
	r.Post("/tickets/:id/attachments", h.AddAttachment)
	r.Post("/requests", h.RequestSupport)
}

func (h *SupportHandler) ListTickets(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	companyID, err := uuidQuery(c, "company_id")
	if err != nil {
		return err
	}

	items, err := h.uc.ListTickets(c.Context(), actor, ucsupport.TicketQuery{Status: c.Query("status"), CompanyID: companyID})
	if err != nil {
		return mapSupportError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *SupportHandler) GetTicket(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	t, err := h.uc.GetTicket(c.Context(), actor, id)
	if err != nil {
		return mapSupportError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, t)
}

func (h *SupportHandler) CreateTicket(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req ucsupport.NewTicket
	if err := bindBody(c, &req); err != nil {
		return err
	}

	t, err := h.uc.CreateTicket(c.Context(), actor, req)
	if err != nil {
		return mapSupportError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Ticket created", t)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *SupportHandler) UpdateStatus(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req updateStatusRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	t, err := h.uc.UpdateStatus(c.Context(), actor, id, req.Status)
	if err != nil {
		return mapSupportError(err)
	}
	return response.Success(c, fiber.StatusOK, "Ticket updated", t)
}

func (h *SupportHandler) ListReplies(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	items, err := h.uc.ListReplies(c.Context(), actor, id)
	if err != nil {
		return mapSupportError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *SupportHandler) AddReply(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req ucsupport.NewReply
	if err := bindBody(c, &req); err != nil {
		return err
	}

	r, err := h.uc.AddReply(c.Context(), actor, id, req)
	if err != nil {
		return mapSupportError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Reply added", r)
}

func (h *SupportHandler) ListAttachments(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	items, err := h.uc.ListAttachments(c.Context(), actor, id)
	if err != nil {
		return mapSupportError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *SupportHandler) AddAttachment(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req ucsupport.NewAttachment
	if err := bindBody(c, &req); err != nil {
		return err
	}

	a, err := h.uc.AddAttachment(c.Context(), actor, id, req)
	if err != nil {
		return mapSupportError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Attachment added", a)
}

func (h *SupportHandler) RequestSupport(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req ucsupport.SupportRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	if err := h.uc.RequestSupport(c.Context(), actor, req); err != nil {
		if errors.Is(err, mail.ErrSendFailed) || errors.Is(err, mail.ErrNotConfigured) {
			return response.Error(c, fiber.StatusInternalServerError, MessageSendEmailsFailed, nil)
		}
		return mapSupportError(err)
	}
	return response.Success(c, fiber.StatusOK, "Support request sent successfully", nil)
}

func mapSupportError(err error) error {
	if err == nil {
		return nil
	}
	if validation.IsValidationError(err) {
		return err
	}

	switch {
	case errors.Is(err, support.ErrTicketNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Ticket not found", nil, err)
	case errors.Is(err, ucsupport.ErrNoCompany):
		return middleware.NewAppError(fiber.StatusForbidden, "Your account is not linked to a company", nil, err)
	case errors.Is(err, ucsupport.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, response.MessageForbidden, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
