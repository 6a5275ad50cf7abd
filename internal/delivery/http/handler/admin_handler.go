package handler

import (
	"context"
	"errors"

	"azellar-portal/internal/delivery/http/middleware"
	"azellar-portal/internal/domain/company"
	"azellar-portal/internal/domain/profile"
	"azellar-portal/internal/domain/support"
	"azellar-portal/internal/pkg/response"
	"azellar-portal/internal/pkg/validation"
	ucadmin "azellar-portal/internal/usecase/admin"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AdminUsecase interface {
	Overview(ctx context.Context) (ucadmin.Overview, error)
	CreateCompany(ctx context.Context, actor uuid.UUID, in ucadmin.CreateCompanyInput) (company.Company, error)
	ListCompanies(ctx context.Context) ([]company.Company, error)
	CreateClientAccount(ctx context.Context, companyID uuid.UUID, in ucadmin.ClientAccountInput) (profile.Profile, error)
	AssignProfile(ctx context.Context, userID uuid.UUID, in ucadmin.AssignInput) (profile.Profile, error)
	ListProfiles(ctx context.Context) ([]profile.Profile, error)
	ListTickets(ctx context.Context) ([]support.Ticket, error)
	ListInquiries(ctx context.Context) ([]support.Inquiry, error)
	ConvertInquiry(ctx context.Context, id uuid.UUID) error
}

type AdminHandler struct {
	uc AdminUsecase
}

func NewAdminHandler(uc AdminUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

func (h *AdminHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/overview", h.Overview)
	r.Get("/companies", h.ListCompanies)
	r.Post("/companies", h.CreateCompany)
	r.Post("/companies/:companyID/clients", h.CreateClientAccount)
	r.Get("/profiles", h.ListProfiles)
	r.Patch("/profiles/:userID", h.AssignProfile)
	r.Get("/tickets", h.ListTickets)
	r.Get("/inquiries", h.ListInquiries)
	r.Post("/inquiries/:id/convert", h.ConvertInquiry)
}

func (h *AdminHandler) Overview(c fiber.Ctx) error {
	ov, err := h.uc.Overview(c.Context())
	if err != nil {
		return mapAdminError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, ov)
}

func (h *AdminHandler) ListCompanies(c fiber.Ctx) error {
	items, err := h.uc.ListCompanies(c.Context())
	if err != nil {
		return mapAdminError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *AdminHandler) CreateCompany(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req ucadmin.CreateCompanyInput
	if err := bindBody(c, &req); err != nil {
		return err
	}

	co, err := h.uc.CreateCompany(c.Context(), actor.UserID, req)
	if err != nil {
		return mapAdminError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Company created", co)
}

func (h *AdminHandler) CreateClientAccount(c fiber.Ctx) error {
	companyID, err := uuidParam(c, "companyID")
	if err != nil {
		return err
	}
	var req ucadmin.ClientAccountInput
	if err := bindBody(c, &req); err != nil {
		return err
	}

	p, err := h.uc.CreateClientAccount(c.Context(), companyID, req)
	if err != nil {
		return mapAdminError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Client account created", p)
}

func (h *AdminHandler) ListProfiles(c fiber.Ctx) error {
	items, err := h.uc.ListProfiles(c.Context())
	if err != nil {
		return mapAdminError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *AdminHandler) AssignProfile(c fiber.Ctx) error {
	userID, err := uuidParam(c, "userID")
	if err != nil {
		return err
	}
	var req ucadmin.AssignInput
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if req.Role == nil && req.CompanyID == nil && req.IsActive == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Nothing to update", nil, nil)
	}

	p, err := h.uc.AssignProfile(c.Context(), userID, req)
	if err != nil {
		return mapAdminError(err)
	}
	return response.Success(c, fiber.StatusOK, "Profile updated", p)
}

func (h *AdminHandler) ListTickets(c fiber.Ctx) error {
	items, err := h.uc.ListTickets(c.Context())
	if err != nil {
		return mapAdminError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *AdminHandler) ListInquiries(c fiber.Ctx) error {
	items, err := h.uc.ListInquiries(c.Context())
	if err != nil {
		return mapAdminError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *AdminHandler) ConvertInquiry(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	return mapAdminError(h.uc.ConvertInquiry(c.Context(), id))
}

func mapAdminError(err error) error {
	if err == nil {
		return nil
	}
	if validation.IsValidationError(err) {
		return err
	}

	switch {
	case errors.Is(err, company.ErrNameTaken):
		return middleware.NewAppError(fiber.StatusConflict, "A company with this name already exists", nil, err)
	case errors.Is(err, company.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Company not found", nil, err)
	case errors.Is(err, company.ErrCompanyInactive):
		return middleware.NewAppError(fiber.StatusConflict, "Company is inactive", nil, err)
	case errors.Is(err, company.ErrSeatLimitReached):
		return middleware.NewAppError(fiber.StatusConflict, "Company has reached its support user limit", nil, err)
	case errors.Is(err, profile.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
	case errors.Is(err, ucadmin.ErrCompanyRequired):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "A client must be assigned to a company", nil, err)
	case errors.Is(err, ucadmin.ErrCompanyNotAllowed):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Only client profiles can be assigned to a company", nil, err)
	case errors.Is(err, ucadmin.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusConflict, MessageEmailAlreadyRegistered, nil, err)
	case errors.Is(err, support.ErrInquiryNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Inquiry not found", nil, err)
	case errors.Is(err, ucadmin.ErrConvertNotImplemented):
		return middleware.NewAppError(fiber.StatusNotImplemented, "Convert inquiry feature coming soon", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
