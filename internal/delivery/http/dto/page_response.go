package dto

import (
	"azellar-portal/internal/domain/company"
	"azellar-portal/internal/domain/course"
	"azellar-portal/internal/domain/support"
)

// PageResponse is the view model of a rendered page.
type PageResponse struct {
	Page    string          `json:"page"`
	Session SessionResponse `json:"session"`
	Data    any             `json:"data,omitempty"`
}

type SupportPage struct {
	Company *company.Company `json:"company,omitempty"`
	Tickets []support.Ticket `json:"tickets"`
}

type DashboardPage struct {
	Enrollments []course.Enrollment `json:"enrollments"`
	Courses     []course.Course     `json:"courses"`
}

type CoursePage struct {
	Course   course.Course `json:"course"`
	Enrolled bool          `json:"enrolled"`
}
