package admin

import (
	"context"
	"errors"
	"strings"

	"azellar-portal/internal/domain/company"
	"azellar-portal/internal/domain/profile"
	"azellar-portal/internal/domain/support"
	"azellar-portal/internal/infrastructure/authapi"
	"azellar-portal/internal/pkg/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrCompanyRequired        = errors.New("client role requires a company")
	ErrCompanyNotAllowed      = errors.New("only client profiles can be bound to a company")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrConvertNotImplemented  = errors.New("convert inquiry not implemented")
	ErrInternal               = errors.New("internal error")
)

// UserCreator provisions confirmed identities on the auth platform.
type UserCreator interface {
	AdminCreateUser(ctx context.Context, email, password string, metadata map[string]any) (authapi.User, error)
}

// ProfileInvalidator drops cached profiles after an admin change.
type ProfileInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID)
}

type Service struct {
	companies company.Repository
	profiles  profile.Repository
	tickets   support.TicketRepository
	inquiries support.InquiryRepository
	users     UserCreator
	cache     ProfileInvalidator
	logger    *zap.Logger
}

type Deps struct {
	Companies company.Repository
	Profiles  profile.Repository
	Tickets   support.TicketRepository
	Inquiries support.InquiryRepository
	Users     UserCreator
	Cache     ProfileInvalidator
	Logger    *zap.Logger
}

func NewService(d Deps) *Service {
	s := &Service{
		companies: d.Companies,
		profiles:  d.Profiles,
		tickets:   d.Tickets,
		inquiries: d.Inquiries,
		users:     d.Users,
		cache:     d.Cache,
		logger:    d.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

type Stats struct {
	TotalCompanies   int `json:"total_companies"`
	TotalTickets     int `json:"total_tickets"`
	OpenTickets      int `json:"open_tickets"`
	PendingInquiries int `json:"pending_inquiries"`
}

type Overview struct {
	Companies []company.Company `json:"companies"`
	Tickets   []support.Ticket  `json:"tickets"`
	Inquiries []support.Inquiry `json:"inquiries"`
	Stats     Stats             `json:"stats"`
}

// Overview loads the admin dashboard; any failed query fails the whole load.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	var out Overview
	var ticketStats support.TicketStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.companies.List(gctx)
		out.Companies = items
		return err
	})
	g.Go(func() error {
		items, err := s.tickets.List(gctx, support.TicketFilter{})
		out.Tickets = items
		return err
	})
	g.Go(func() error {
		items, err := s.inquiries.List(gctx)
		out.Inquiries = items
		return err
	})
	g.Go(func() error {
		st, err := s.tickets.Stats(gctx)
		ticketStats = st
		return err
	})
	g.Go(func() error {
		n, err := s.inquiries.CountPending(gctx)
		out.Stats.PendingInquiries = n
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("admin overview failed", zap.Error(err))
		return Overview{}, ErrInternal
	}

	if out.Companies == nil {
		out.Companies = []company.Company{}
	}
	if out.Tickets == nil {
		out.Tickets = []support.Ticket{}
	}
	if out.Inquiries == nil {
		out.Inquiries = []support.Inquiry{}
	}
	out.Stats.TotalCompanies = len(out.Companies)
	out.Stats.TotalTickets = ticketStats.Total
	out.Stats.OpenTickets = ticketStats.Open
	return out, nil
}

type CreateCompanyInput struct {
	Name            string `json:"name" validate:"required,max=200"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	MaxSupportUsers int    `json:"max_support_users" validate:"min=0,max=1000"`
}

func (s *Service) CreateCompany(ctx context.Context, actor uuid.UUID, in CreateCompanyInput) (company.Company, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return company.Company{}, err
	}
	if in.MaxSupportUsers == 0 {
		in.MaxSupportUsers = company.DefaultMaxSupportUsers
	}

	var createdBy *uuid.UUID
	if actor != uuid.Nil {
		createdBy = &actor
	}
	c, err := s.companies.Create(ctx, company.NewCompany{
		Name:            in.Name,
		Email:           in.Email,
		Phone:           strings.TrimSpace(in.Phone),
		Address:         strings.TrimSpace(in.Address),
		MaxSupportUsers: in.MaxSupportUsers,
		CreatedBy:       createdBy,
	})
	if err != nil {
		if errors.Is(err, company.ErrNameTaken) {
			return company.Company{}, err
		}
		s.logger.Error("create company failed", zap.Error(err))
		return company.Company{}, ErrInternal
	}
	s.logger.Info("company created", zap.Stringer("company_id", c.ID), zap.String("name", c.Name))
	return c, nil
}

func (s *Service) ListCompanies(ctx context.Context) ([]company.Company, error) {
	items, err := s.companies.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	if items == nil {
		items = []company.Company{}
	}
	return items, nil
}

type ClientAccountInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
}

// CreateClientAccount takes a support seat, provisions the identity and binds
// a client profile to the company. The seat is given back if a later step fails.
func (s *Service) CreateClientAccount(ctx context.Context, companyID uuid.UUID, in ClientAccountInput) (profile.Profile, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	if err := validation.Struct(in); err != nil {
		return profile.Profile{}, err
	}

	if err := s.companies.ReserveSeat(ctx, companyID); err != nil {
		return profile.Profile{}, s.seatError(err)
	}

	usr, err := s.users.AdminCreateUser(ctx, in.Email, in.Password, map[string]any{"full_name": in.FullName})
	if err != nil {
		s.releaseSeat(ctx, companyID)
		if errors.Is(err, authapi.ErrUserAlreadyExists) {
			return profile.Profile{}, ErrEmailAlreadyRegistered
		}
		if errors.Is(err, authapi.ErrWeakPassword) {
			return profile.Profile{}, validation.Field("password", "Password is too weak.")
		}
		s.logger.Error("provision client identity failed", zap.String("email", in.Email), zap.Error(err))
		return profile.Profile{}, ErrInternal
	}

	cid := companyID
	p, err := s.profiles.Upsert(ctx, profile.Seed{
		UserID:    usr.ID,
		Email:     in.Email,
		FullName:  in.FullName,
		Role:      profile.RoleClient,
		CompanyID: &cid,
	})
	if err != nil {
		s.releaseSeat(ctx, companyID)
		s.logger.Error("bind client profile failed", zap.Stringer("user_id", usr.ID), zap.Error(err))
		return profile.Profile{}, ErrInternal
	}
	s.invalidate(ctx, usr.ID)

	s.logger.Info("client account created", zap.Stringer("user_id", usr.ID), zap.Stringer("company_id", companyID))
	return p, nil
}

type AssignInput struct {
	Role      *string    `json:"role"`
	CompanyID *uuid.UUID `json:"company_id"`
	IsActive  *bool      `json:"is_active"`
}

// AssignProfile changes role, company binding or activation. A client keeps
// exactly one company seat; any other role is unbound.
func (s *Service) AssignProfile(ctx context.Context, userID uuid.UUID, in AssignInput) (profile.Profile, error) {
	cur, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, err
		}
		return profile.Profile{}, ErrInternal
	}

	target := cur.Role
	var rolePtr *profile.Role
	if in.Role != nil {
		r, ok := profile.ParseRole(*in.Role)
		if !ok {
			return profile.Profile{}, validation.Field("role", "role must be one of: admin, client, student")
		}
		target = r
		rolePtr = &r
	}

	var targetCompany *uuid.UUID
	if target == profile.RoleClient {
		targetCompany = in.CompanyID
		if targetCompany == nil {
			targetCompany = cur.CompanyID
		}
		if targetCompany == nil {
			return profile.Profile{}, ErrCompanyRequired
		}
	} else if in.CompanyID != nil {
		return profile.Profile{}, ErrCompanyNotAllowed
	}

	wasBound := cur.Role == profile.RoleClient && cur.CompanyID != nil
	sameSeat := wasBound && targetCompany != nil && *cur.CompanyID == *targetCompany

	reserved := false
	if targetCompany != nil && !sameSeat {
		if err := s.companies.ReserveSeat(ctx, *targetCompany); err != nil {
			return profile.Profile{}, s.seatError(err)
		}
		reserved = true
	}

	a := profile.Assignment{Role: rolePtr, IsActive: in.IsActive}
	if target == profile.RoleClient {
		a.CompanyID = targetCompany
	} else {
		a.ClearCompany = true
	}

	updated, err := s.profiles.Assign(ctx, userID, a)
	if err != nil {
		if reserved {
			s.releaseSeat(ctx, *targetCompany)
		}
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, err
		}
		s.logger.Error("assign profile failed", zap.Stringer("user_id", userID), zap.Error(err))
		return profile.Profile{}, ErrInternal
	}

	if wasBound && !sameSeat {
		s.releaseSeat(ctx, *cur.CompanyID)
	}
	s.invalidate(ctx, userID)

	s.logger.Info("profile assigned",
		zap.Stringer("user_id", userID),
		zap.String("role", string(updated.Role)),
		zap.Bool("is_active", updated.IsActive),
	)
	return updated, nil
}

func (s *Service) ListProfiles(ctx context.Context) ([]profile.Profile, error) {
	items, err := s.profiles.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	if items == nil {
		items = []profile.Profile{}
	}
	return items, nil
}

func (s *Service) ListTickets(ctx context.Context) ([]support.Ticket, error) {
	items, err := s.tickets.List(ctx, support.TicketFilter{})
	if err != nil {
		return nil, ErrInternal
	}
	if items == nil {
		items = []support.Ticket{}
	}
	return items, nil
}

func (s *Service) ListInquiries(ctx context.Context) ([]support.Inquiry, error) {
	items, err := s.inquiries.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	if items == nil {
		items = []support.Inquiry{}
	}
	return items, nil
}

// ConvertInquiry has no linking behavior yet; it only confirms the inquiry exists.
func (s *Service) ConvertInquiry(ctx context.Context, id uuid.UUID) error {
	if _, err := s.inquiries.GetByID(ctx, id); err != nil {
		if errors.Is(err, support.ErrInquiryNotFound) {
			return err
		}
		return ErrInternal
	}
	return ErrConvertNotImplemented
}

func (s *Service) seatError(err error) error {
	switch {
	case errors.Is(err, company.ErrNotFound),
		errors.Is(err, company.ErrCompanyInactive),
		errors.Is(err, company.ErrSeatLimitReached):
		return err
	default:
		s.logger.Error("reserve company seat failed", zap.Error(err))
		return ErrInternal
	}
}

func (s *Service) releaseSeat(ctx context.Context, companyID uuid.UUID) {
	if err := s.companies.ReleaseSeat(ctx, companyID); err != nil {
		s.logger.Warn("release company seat failed", zap.Stringer("company_id", companyID), zap.Error(err))
	}
}

func (s *Service) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
}
