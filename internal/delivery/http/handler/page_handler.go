package handler

import (
	"context"
	"sort"

	"azellar-portal/internal/access"
	"azellar-portal/internal/delivery/http/dto"
	"azellar-portal/internal/delivery/http/middleware"
	"azellar-portal/internal/domain/company"
	"azellar-portal/internal/domain/profile"
	"azellar-portal/internal/pkg/response"
	ucsupport "azellar-portal/internal/usecase/support"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CompanyLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (company.Company, error)
}

type pageLoader func(c fiber.Ctx, actor profile.Profile) (any, error)

// PageHandler answers page routes with a JSON view model once the guard
// lets the request through.
type PageHandler struct {
	guard     *middleware.Guard
	admin     AdminUsecase
	support   SupportUsecase
	academy   AcademyUsecase
	companies CompanyLookup
	loaders   map[string]pageLoader
}

func NewPageHandler(guard *middleware.Guard, admin AdminUsecase, support SupportUsecase, academy AcademyUsecase, companies CompanyLookup) *PageHandler {
	h := &PageHandler{guard: guard, admin: admin, support: support, academy: academy, companies: companies}
	h.loaders = map[string]pageLoader{
		"/admin":              h.adminPage,
		"/support":            h.supportPage,
		"/dashboard":          h.dashboardPage,
		"/akademy/courses":    h.coursesPage,
		"/akademy/course/:id": h.coursePage,
	}
	return h
}

// RegisterRoutes mounts every page of access.Routes behind its policy.
func (h *PageHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	paths := make([]string, 0, len(access.Routes))
	for path := range access.Routes {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		r.Get(path, h.guard.Page(access.Routes[path]), h.render(path))
	}
}

func (h *PageHandler) render(path string) fiber.Handler {
	return func(c fiber.Ctx) error {
		st := stateOf(c)

		if (path == "/login" || path == "/signup") && st.Authenticated && st.Profile != nil {
			return c.Redirect().Status(fiber.StatusFound).To(access.LandingPage(st.Profile.Role))
		}

		page := dto.PageResponse{Page: path, Session: dto.NewSessionResponse(st)}

		if load, ok := h.loaders[path]; ok {
			actor, err := actorOf(c)
			if err != nil {
				return err
			}
			data, err := load(c, actor)
			if err != nil {
				return err
			}
			page.Data = data
		}

		return response.Success(c, fiber.StatusOK, response.MessageOK, page)
	}
}

func (h *PageHandler) adminPage(c fiber.Ctx, _ profile.Profile) (any, error) {
	ov, err := h.admin.Overview(c.Context())
	if err != nil {
		return nil, mapAdminError(err)
	}
	return ov, nil
}

func (h *PageHandler) supportPage(c fiber.Ctx, actor profile.Profile) (any, error) {
	page := dto.SupportPage{}
	if actor.CompanyID != nil {
		co, err := h.companies.GetByID(c.Context(), *actor.CompanyID)
		if err == nil {
			page.Company = &co
		}
	}

	tickets, err := h.support.ListTickets(c.Context(), actor, ucsupport.TicketQuery{})
	if err != nil {
		return nil, mapSupportError(err)
	}
	page.Tickets = tickets
	return page, nil
}

func (h *PageHandler) dashboardPage(c fiber.Ctx, actor profile.Profile) (any, error) {
	enrollments, err := h.academy.MyEnrollments(c.Context(), actor)
	if err != nil {
		return nil, mapAcademyError(err)
	}
	courses, err := h.academy.ListCourses(c.Context())
	if err != nil {
		return nil, mapAcademyError(err)
	}
	return dto.DashboardPage{Enrollments: enrollments, Courses: courses}, nil
}

func (h *PageHandler) coursesPage(c fiber.Ctx, _ profile.Profile) (any, error) {
	courses, err := h.academy.ListCourses(c.Context())
	if err != nil {
		return nil, mapAcademyError(err)
	}
	return courses, nil
}

func (h *PageHandler) coursePage(c fiber.Ctx, actor profile.Profile) (any, error) {
	id, err := uuidParam(c, "id")
	if err != nil {
		return nil, err
	}
	co, err := h.academy.GetCourse(c.Context(), actor, id)
	if err != nil {
		return nil, mapAcademyError(err)
	}
	enrolled, err := h.academy.IsEnrolled(c.Context(), actor, id)
	if err != nil {
		return nil, mapAcademyError(err)
	}
	return dto.CoursePage{Course: co, Enrolled: enrolled}, nil
}
