package support

import (
	"context"
	"errors"
	"strings"
	"testing"

	"azellar-portal/internal/domain/company"
	"azellar-portal/internal/domain/profile"
	"azellar-portal/internal/domain/support"
	"azellar-portal/internal/mail"
	"azellar-portal/internal/pkg/validation"

	"github.com/google/uuid"
)

type fakeTickets struct {
	tickets     []support.Ticket
	replies     []support.Reply
	attachments []support.Attachment
	lastFilter  support.TicketFilter
}

func (f *fakeTickets) Create(_ context.Context, t support.Ticket) (support.Ticket, error) {
	t.ID = uuid.New()
	f.tickets = append(f.tickets, t)
	return t, nil
}

func (f *fakeTickets) GetByID(_ context.Context, id uuid.UUID) (support.Ticket, error) {
	for _, t := range f.tickets {
		if t.ID == id {
			return t, nil
		}
	}
	return support.Ticket{}, support.ErrTicketNotFound
}

func (f *fakeTickets) List(_ context.Context, filter support.TicketFilter) ([]support.Ticket, error) {
	f.lastFilter = filter
	var out []support.Ticket
	for _, t := range f.tickets {
		if filter.CompanyID != nil && (t.CompanyID == nil || *t.CompanyID != *filter.CompanyID) {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTickets) UpdateStatus(_ context.Context, id uuid.UUID, s support.Status) (support.Ticket, error) {
	for i, t := range f.tickets {
		if t.ID == id {
			f.tickets[i].Status = s
			return f.tickets[i], nil
		}
	}
	return support.Ticket{}, support.ErrTicketNotFound
}

func (f *fakeTickets) Stats(context.Context) (support.TicketStats, error) { return support.TicketStats{}, nil }

func (f *fakeTickets) AddReply(_ context.Context, r support.Reply) (support.Reply, error) {
	r.ID = uuid.New()
	f.replies = append(f.replies, r)
	return r, nil
}

func (f *fakeTickets) ListReplies(_ context.Context, ticketID uuid.UUID, includeInternal bool) ([]support.Reply, error) {
	var out []support.Reply
	for _, r := range f.replies {
		if r.TicketID == ticketID && (includeInternal || !r.IsInternal) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeTickets) AddAttachment(_ context.Context, a support.Attachment) (support.Attachment, error) {
	a.ID = uuid.New()
	f.attachments = append(f.attachments, a)
	return a, nil
}

func (f *fakeTickets) ListAttachments(context.Context, uuid.UUID) ([]support.Attachment, error) {
	return f.attachments, nil
}

type fakeCompanies struct {
	company.Repository
	byID map[uuid.UUID]company.Company
}

func (f fakeCompanies) GetByID(_ context.Context, id uuid.UUID) (company.Company, error) {
	c, ok := f.byID[id]
	if !ok {
		return company.Company{}, company.ErrNotFound
	}
	return c, nil
}

type captureSender struct {
	sent []mail.ContactEmail
	err  error
}

func (c *captureSender) SendContact(_ context.Context, in mail.ContactEmail) error {
	c.sent = append(c.sent, in)
	return c.err
}

func clientOf(companyID uuid.UUID) profile.Profile {
	id := companyID
	return profile.Profile{UserID: uuid.New(), Email: "chris@acme.io", FullName: "Chris", Role: profile.RoleClient, CompanyID: &id}
}

func adminProfile() profile.Profile {
	return profile.Profile{UserID: uuid.New(), Email: "admin@azellar.com", Role: profile.RoleAdmin}
}

func TestListTickets_ClientScopedToCompany(t *testing.T) {
	acme, other := uuid.New(), uuid.New()
	repo := &fakeTickets{tickets: []support.Ticket{
		{ID: uuid.New(), Title: "mine", CompanyID: &acme, Status: support.StatusOpen},
		{ID: uuid.New(), Title: "theirs", CompanyID: &other, Status: support.StatusOpen},
	}}
	svc := NewService(repo, fakeCompanies{}, &captureSender{}, nil)

	items, err := svc.ListTickets(context.Background(), clientOf(acme), TicketQuery{CompanyID: &other})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Title != "mine" {
		t.Fatalf("client saw tickets outside company: %#v", items)
	}

	all, err := svc.ListTickets(context.Background(), adminProfile(), TicketQuery{})
	if err != nil || len(all) != 2 {
		t.Fatalf("admin list: %v %v", all, err)
	}
}

func TestListTickets_ClientWithoutCompany(t *testing.T) {
	svc := NewService(&fakeTickets{}, fakeCompanies{}, &captureSender{}, nil)
	p := profile.Profile{UserID: uuid.New(), Role: profile.RoleClient}
	if _, err := svc.ListTickets(context.Background(), p, TicketQuery{}); !errors.Is(err, ErrNoCompany) {
		t.Fatalf("expected ErrNoCompany, got %v", err)
	}
}

func TestListTickets_InvalidStatus(t *testing.T) {
	svc := NewService(&fakeTickets{}, fakeCompanies{}, &captureSender{}, nil)
	_, err := svc.ListTickets(context.Background(), adminProfile(), TicketQuery{Status: "bogus"})
	if !validation.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateTicket_DefaultsAndScope(t *testing.T) {
	acme := uuid.New()
	repo := &fakeTickets{}
	svc := NewService(repo, fakeCompanies{}, &captureSender{}, nil)

	tk, err := svc.CreateTicket(context.Background(), clientOf(acme), NewTicket{Title: " Login broken ", Description: "cannot log in"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tk.Title != "Login broken" || tk.Priority != support.PriorityMedium || tk.Status != support.StatusOpen {
		t.Fatalf("unexpected ticket %#v", tk)
	}
	if tk.CompanyID == nil || *tk.CompanyID != acme {
		t.Fatalf("ticket not bound to client company")
	}

	_, err = svc.CreateTicket(context.Background(), clientOf(acme), NewTicket{Title: "x", Description: "y", Priority: "asap"})
	if !validation.IsValidationError(err) {
		t.Fatalf("expected validation error for priority, got %v", err)
	}
}

func TestReplies_InternalHiddenFromClients(t *testing.T) {
	acme := uuid.New()
	ticketID := uuid.New()
	repo := &fakeTickets{tickets: []support.Ticket{{ID: ticketID, CompanyID: &acme, Status: support.StatusOpen}}}
	svc := NewService(repo, fakeCompanies{}, &captureSender{}, nil)
	admin := adminProfile()
	client := clientOf(acme)

	if _, err := svc.AddReply(context.Background(), admin, ticketID, NewReply{ReplyText: "note", IsInternal: true}); err != nil {
		t.Fatalf("internal reply: %v", err)
	}
	if _, err := svc.AddReply(context.Background(), admin, ticketID, NewReply{ReplyText: "hello"}); err != nil {
		t.Fatalf("reply: %v", err)
	}
	if _, err := svc.AddReply(context.Background(), client, ticketID, NewReply{ReplyText: "psst", IsInternal: true}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for client internal reply, got %v", err)
	}

	seen, err := svc.ListReplies(context.Background(), client, ticketID)
	if err != nil {
		t.Fatalf("list replies: %v", err)
	}
	if len(seen) != 1 || seen[0].IsInternal {
		t.Fatalf("client saw internal replies: %#v", seen)
	}

	all, _ := svc.ListReplies(context.Background(), admin, ticketID)
	if len(all) != 2 {
		t.Fatalf("admin should see 2 replies, got %d", len(all))
	}
}

func TestGetTicket_OtherCompanyIsNotFound(t *testing.T) {
	acme, other := uuid.New(), uuid.New()
	ticketID := uuid.New()
	repo := &fakeTickets{tickets: []support.Ticket{{ID: ticketID, CompanyID: &other}}}
	svc := NewService(repo, fakeCompanies{}, &captureSender{}, nil)

	if _, err := svc.GetTicket(context.Background(), clientOf(acme), ticketID); !errors.Is(err, support.ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
	if _, err := svc.AddAttachment(context.Background(), clientOf(acme), ticketID, NewAttachment{FileName: "a.png", FileURL: "https://files.azellar.com/a.png"}); !errors.Is(err, support.ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound on attachment, got %v", err)
	}
}

func TestUpdateStatus_AdminOnly(t *testing.T) {
	acme := uuid.New()
	ticketID := uuid.New()
	repo := &fakeTickets{tickets: []support.Ticket{{ID: ticketID, CompanyID: &acme, Status: support.StatusOpen}}}
	svc := NewService(repo, fakeCompanies{}, &captureSender{}, nil)

	if _, err := svc.UpdateStatus(context.Background(), clientOf(acme), ticketID, "closed"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	tk, err := svc.UpdateStatus(context.Background(), adminProfile(), ticketID, "in_progress")
	if err != nil || tk.Status != support.StatusInProgress {
		t.Fatalf("update: %v %#v", err, tk)
	}
}

func TestRequestSupport_SendsClientSupportMail(t *testing.T) {
	acme := uuid.New()
	sender := &captureSender{}
	svc := NewService(&fakeTickets{}, fakeCompanies{byID: map[uuid.UUID]company.Company{acme: {ID: acme, Name: "Acme"}}}, sender, nil)

	err := svc.RequestSupport(context.Background(), clientOf(acme), SupportRequest{
		Category: "billing",
		Priority: "high",
		Subject:  "Invoice",
		Message:  "Please check",
	})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(sender.sent))
	}
	got := sender.sent[0]
	if got.InquiryType != mail.InquiryTypeClientSupport || got.Email != "chris@acme.io" {
		t.Fatalf("unexpected mail %#v", got)
	}
	if !strings.Contains(got.Message, "Company: Acme") || !strings.Contains(got.Message, "Priority: high") {
		t.Fatalf("unexpected body %q", got.Message)
	}
}

func TestRequestSupport_SendFailure(t *testing.T) {
	acme := uuid.New()
	sender := &captureSender{err: mail.ErrSendFailed}
	svc := NewService(&fakeTickets{}, fakeCompanies{byID: map[uuid.UUID]company.Company{}}, sender, nil)

	err := svc.RequestSupport(context.Background(), clientOf(acme), SupportRequest{Category: "c", Subject: "s", Message: "m"})
	if !errors.Is(err, mail.ErrSendFailed) {
		t.Fatalf("expected ErrSendFailed, got %v", err)
	}
}
