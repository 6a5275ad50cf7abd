package handler

import (
	"context"
	"errors"

	"azellar-portal/internal/delivery/http/middleware"
	"azellar-portal/internal/domain/course"
	"azellar-portal/internal/domain/profile"
	"azellar-portal/internal/pkg/response"
	"azellar-portal/internal/pkg/validation"
	ucacademy "azellar-portal/internal/usecase/academy"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const MessageAlreadyEnrolled = "You are already enrolled in this course"

type AcademyUsecase interface {
	ListCourses(ctx context.Context) ([]course.Course, error)
	GetCourse(ctx context.Context, actor profile.Profile, id uuid.UUID) (course.Course, error)
	Enroll(ctx context.Context, actor profile.Profile, courseID uuid.UUID) (course.Enrollment, error)
	MyEnrollments(ctx context.Context, actor profile.Profile) ([]course.Enrollment, error)
	IsEnrolled(ctx context.Context, actor profile.Profile, courseID uuid.UUID) (bool, error)
}

type AcademyHandler struct {
	uc AcademyUsecase
}

func NewAcademyHandler(uc AcademyUsecase) *AcademyHandler {
	return &AcademyHandler{uc: uc}
}

func (h *AcademyHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/courses", h.ListCourses)
	r.Get("/courses/:id", h.GetCourse)
	r.Get("/courses/:id/enrollment", h.EnrollmentStatus)
	r.Post("/courses/:id/enroll", h.Enroll)
	r.Get("/enrollments", h.MyEnrollments)
}

func (h *AcademyHandler) ListCourses(c fiber.Ctx) error {
	items, err := h.uc.ListCourses(c.Context())
	if err != nil {
		return mapAcademyError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *AcademyHandler) GetCourse(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	co, err := h.uc.GetCourse(c.Context(), actor, id)
	if err != nil {
		return mapAcademyError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, co)
}

func (h *AcademyHandler) EnrollmentStatus(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	ok, err := h.uc.IsEnrolled(c.Context(), actor, id)
	if err != nil {
		return mapAcademyError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"enrolled": ok})
}

func (h *AcademyHandler) Enroll(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	e, err := h.uc.Enroll(c.Context(), actor, id)
	if err != nil {
		return mapAcademyError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Successfully enrolled! Check your email for confirmation.", e)
}

func (h *AcademyHandler) MyEnrollments(c fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}

	items, err := h.uc.MyEnrollments(c.Context(), actor)
	if err != nil {
		return mapAcademyError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func mapAcademyError(err error) error {
	if err == nil {
		return nil
	}
	if validation.IsValidationError(err) {
		return err
	}

	switch {
	case errors.Is(err, course.ErrAlreadyEnrolled):
		return middleware.NewAppError(fiber.StatusConflict, MessageAlreadyEnrolled, nil, err)
	case errors.Is(err, course.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Course not found", nil, err)
	case errors.Is(err, ucacademy.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid course id", nil, err)
	case errors.Is(err, course.ErrCourseInactive):
		return middleware.NewAppError(fiber.StatusConflict, "This course is not open for enrollment", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
