package contact

import (
	"context"
	"errors"
	"testing"

	"azellar-portal/internal/domain/contact"
	"azellar-portal/internal/domain/support"
	"azellar-portal/internal/mail"
	"azellar-portal/internal/pkg/validation"

	"github.com/google/uuid"
)

type fakeSubmissions struct {
	stored []contact.Submission
	err    error
}

func (f *fakeSubmissions) Create(_ context.Context, s contact.Submission) (contact.Submission, error) {
	if f.err != nil {
		return contact.Submission{}, f.err
	}
	s.ID = uuid.New()
	f.stored = append(f.stored, s)
	return s, nil
}

type fakeInquiries struct {
	support.InquiryRepository
	stored []support.Inquiry
}

func (f *fakeInquiries) Create(_ context.Context, in support.Inquiry) (support.Inquiry, error) {
	in.ID = uuid.New()
	f.stored = append(f.stored, in)
	return in, nil
}

type syncNotifier struct {
	sent []mail.ContactEmail
	err  error
}

func (n *syncNotifier) SendContact(_ context.Context, in mail.ContactEmail) error {
	n.sent = append(n.sent, in)
	return n.err
}

func (n *syncNotifier) Go(_ string, send func(ctx context.Context) error) {
	_ = send(context.Background())
}

var blocked = []string{"example.com"}

func TestSubmitContact_StoresThenNotifies(t *testing.T) {
	subs := &fakeSubmissions{}
	n := &syncNotifier{}
	svc := NewService(subs, &fakeInquiries{}, n, blocked, nil)

	sub, err := svc.SubmitContact(context.Background(), ContactInput{Name: " Sarah ", Email: "Sarah@NewCompany.com", Message: "Need a DBA"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.InquiryType != contact.DefaultInquiryType || sub.Email != "sarah@newcompany.com" || sub.Name != "Sarah" {
		t.Fatalf("unexpected submission %#v", sub)
	}
	if len(subs.stored) != 1 || len(n.sent) != 1 {
		t.Fatalf("stored=%d sent=%d", len(subs.stored), len(n.sent))
	}
}

func TestSubmitContact_MailFailureStillSucceeds(t *testing.T) {
	subs := &fakeSubmissions{}
	svc := NewService(subs, &fakeInquiries{}, &syncNotifier{err: mail.ErrSendFailed}, blocked, nil)

	if _, err := svc.SubmitContact(context.Background(), ContactInput{Name: "a", Email: "a@b.io", Message: "m"}); err != nil {
		t.Fatalf("mail failure must not fail the submission: %v", err)
	}
}

func TestSubmitContact_Validation(t *testing.T) {
	subs := &fakeSubmissions{}
	svc := NewService(subs, &fakeInquiries{}, &syncNotifier{}, blocked, nil)

	cases := []ContactInput{
		{Email: "a@b.io", Message: "m"},
		{Name: "a", Email: "not-an-email", Message: "m"},
		{Name: "a", Email: "a@b.io", Message: "   "},
		{Name: "a", Email: "someone@example.com", Message: "m"},
	}
	for i, in := range cases {
		_, err := svc.SubmitContact(context.Background(), in)
		if !validation.IsValidationError(err) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
	if len(subs.stored) != 0 {
		t.Fatalf("invalid submissions were stored")
	}

	_, err := svc.SubmitContact(context.Background(), ContactInput{Name: "a", Email: "someone@example.com", Message: "m"})
	var verr *validation.Error
	if !errors.As(err, &verr) || verr.Fields["email"] != blockedDomainMessage {
		t.Fatalf("expected blocked domain message, got %v", err)
	}
}

func TestSubmitContact_StoreFailure(t *testing.T) {
	svc := NewService(&fakeSubmissions{err: errors.New("db down")}, &fakeInquiries{}, &syncNotifier{}, blocked, nil)
	if _, err := svc.SubmitContact(context.Background(), ContactInput{Name: "a", Email: "a@b.io", Message: "m"}); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestSubmitInquiry_PendingUnlinked(t *testing.T) {
	inqs := &fakeInquiries{}
	svc := NewService(&fakeSubmissions{}, inqs, nil, blocked, nil)

	inq, err := svc.SubmitInquiry(context.Background(), InquiryInput{
		Name:        "Pat",
		Email:       "pat@globex.com",
		CompanyName: "Globex",
		Subject:     "Slow queries",
		Message:     "Our reports time out",
		Priority:    "HIGH",
	})
	if err != nil {
		t.Fatalf("submit inquiry: %v", err)
	}
	if inq.Status != support.InquiryStatusPending || inq.Priority != support.PriorityHigh {
		t.Fatalf("unexpected inquiry %#v", inq)
	}

	if _, err := svc.SubmitInquiry(context.Background(), InquiryInput{Name: "Pat", Email: "pat@globex.com", Message: "m"}); !validation.IsValidationError(err) {
		t.Fatalf("expected subject required, got %v", err)
	}
	if _, err := svc.SubmitInquiry(context.Background(), InquiryInput{Name: "Pat", Email: "pat@globex.com", Subject: "s", Message: "m", Priority: "whenever"}); !validation.IsValidationError(err) {
		t.Fatalf("expected priority validation error, got %v", err)
	}
}
