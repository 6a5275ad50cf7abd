package postgres

import (
	"context"
	"strconv"
	"strings"

	"azellar-portal/internal/database"
	"azellar-portal/internal/domain/support"

	"github.com/google/uuid"
)

const ticketColumns = `id, title, description, priority, category, status, company_id, created_by, created_at, updated_at`

type TicketRepository struct {
	db database.DB
}

var _ support.TicketRepository = (*TicketRepository)(nil)

func NewTicketRepository(db database.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, t support.Ticket) (support.Ticket, error) {
	if t.Status == "" {
		t.Status = support.StatusOpen
	}
	if t.Priority == "" {
		t.Priority = support.PriorityMedium
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO support_tickets (title, description, priority, category, status, company_id, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+ticketColumns,
		t.Title, t.Description, string(t.Priority), t.Category, string(t.Status), t.CompanyID, t.CreatedBy,
	)
	return scanTicket(row)
}

func (r *TicketRepository) GetByID(ctx context.Context, id uuid.UUID) (support.Ticket, error) {
	row := r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM support_tickets WHERE id = $1`, id)
	return scanTicket(row)
}

func (r *TicketRepository) List(ctx context.Context, f support.TicketFilter) ([]support.Ticket, error) {
	var where []string
	var args []any
	if f.CompanyID != nil {
		args = append(args, *f.CompanyID)
		where = append(where, "company_id = $"+strconv.Itoa(len(args)))
	}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}

	q := `SELECT ` + ticketColumns + ` FROM support_tickets`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]support.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TicketRepository) UpdateStatus(ctx context.Context, id uuid.UUID, s support.Status) (support.Ticket, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE support_tickets SET status = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+ticketColumns,
		id, string(s),
	)
	return scanTicket(row)
}

func (r *TicketRepository) Stats(ctx context.Context) (support.TicketStats, error) {
	var st support.TicketStats
	err := r.db.QueryRow(ctx,
		`SELECT count(*), count(*) FILTER (WHERE status IN ('open', 'in_progress')) FROM support_tickets`,
	).Scan(&st.Total, &st.Open)
	if err != nil {
		return support.TicketStats{}, err
	}
	return st, nil
}

func (r *TicketRepository) AddReply(ctx context.Context, rp support.Reply) (support.Reply, error) {
	var out support.Reply
	err := r.db.QueryRow(ctx,
		`INSERT INTO ticket_replies (ticket_id, reply_text, created_by, is_internal)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, ticket_id, reply_text, created_by, is_internal, created_at`,
		rp.TicketID, rp.ReplyText, rp.CreatedBy, rp.IsInternal,
	).Scan(&out.ID, &out.TicketID, &out.ReplyText, &out.CreatedBy, &out.IsInternal, &out.CreatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return support.Reply{}, support.ErrTicketNotFound
		}
		return support.Reply{}, err
	}
	return out, nil
}

func (r *TicketRepository) ListReplies(ctx context.Context, ticketID uuid.UUID, includeInternal bool) ([]support.Reply, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, ticket_id, reply_text, created_by, is_internal, created_at
		 FROM ticket_replies
		 WHERE ticket_id = $1 AND ($2 OR is_internal = FALSE)
		 ORDER BY created_at ASC`,
		ticketID, includeInternal,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]support.Reply, 0)
	for rows.Next() {
		var rp support.Reply
		if err := rows.Scan(&rp.ID, &rp.TicketID, &rp.ReplyText, &rp.CreatedBy, &rp.IsInternal, &rp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TicketRepository) AddAttachment(ctx context.Context, a support.Attachment) (support.Attachment, error) {
	var out support.Attachment
	err := r.db.QueryRow(ctx,
		`INSERT INTO ticket_attachments (ticket_id, file_name, file_url, file_size, uploaded_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, ticket_id, file_name, file_url, file_size, uploaded_by, created_at`,
		a.TicketID, a.FileName, a.FileURL, a.FileSize, a.UploadedBy,
	).Scan(&out.ID, &out.TicketID, &out.FileName, &out.FileURL, &out.FileSize, &out.UploadedBy, &out.CreatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return support.Attachment{}, support.ErrTicketNotFound
		}
		return support.Attachment{}, err
	}
	return out, nil
}

func (r *TicketRepository) ListAttachments(ctx context.Context, ticketID uuid.UUID) ([]support.Attachment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, ticket_id, file_name, file_url, file_size, uploaded_by, created_at
		 FROM ticket_attachments
		 WHERE ticket_id = $1
		 ORDER BY created_at ASC`,
		ticketID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]support.Attachment, 0)
	for rows.Next() {
		var a support.Attachment
		if err := rows.Scan(&a.ID, &a.TicketID, &a.FileName, &a.FileURL, &a.FileSize, &a.UploadedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanTicket(row rowScanner) (support.Ticket, error) {
	var t support.Ticket
	var priority, status string
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &priority, &t.Category, &status, &t.CompanyID, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if database.IsNoRows(err) {
			return support.Ticket{}, support.ErrTicketNotFound
		}
		return support.Ticket{}, err
	}
	t.Priority = support.Priority(priority)
	t.Status = support.Status(status)
	return t, nil
}

const inquiryColumns = `id, name, email, company_name, phone, subject, message, priority, status, created_at`

type InquiryRepository struct {
	db database.DB
}

var _ support.InquiryRepository = (*InquiryRepository)(nil)

func NewInquiryRepository(db database.DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

func (r *InquiryRepository) Create(ctx context.Context, in support.Inquiry) (support.Inquiry, error) {
	if in.Priority == "" {
		in.Priority = support.PriorityMedium
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO public_support_inquiries (name, email, company_name, phone, subject, message, priority, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+inquiryColumns,
		in.Name, in.Email, in.CompanyName, in.Phone, in.Subject, in.Message, string(in.Priority), support.InquiryStatusPending,
	)
	return scanInquiry(row)
}

func (r *InquiryRepository) GetByID(ctx context.Context, id uuid.UUID) (support.Inquiry, error) {
	row := r.db.QueryRow(ctx, `SELECT `+inquiryColumns+` FROM public_support_inquiries WHERE id = $1`, id)
	return scanInquiry(row)
}

func (r *InquiryRepository) List(ctx context.Context) ([]support.Inquiry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+inquiryColumns+` FROM public_support_inquiries ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]support.Inquiry, 0)
	for rows.Next() {
		in, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *InquiryRepository) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM public_support_inquiries WHERE status = $1`,
		support.InquiryStatusPending,
	).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *InquiryRepository) SeedSample(ctx context.Context, in support.Inquiry) (bool, error) {
	if in.Priority == "" {
		in.Priority = support.PriorityMedium
	}
	n, err := r.db.Exec(ctx,
		`INSERT INTO public_support_inquiries (name, email, company_name, phone, subject, message, priority, status)
		 SELECT $1, $2, $3, $4, $5, $6, $7, $8
		 WHERE NOT EXISTS (
			SELECT 1 FROM public_support_inquiries WHERE email = $2 AND subject = $5
		 )`,
		in.Name, in.Email, in.CompanyName, in.Phone, in.Subject, in.Message, string(in.Priority), support.InquiryStatusPending,
	)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func scanInquiry(row rowScanner) (support.Inquiry, error) {
	var in support.Inquiry
	var priority string
	if err := row.Scan(&in.ID, &in.Name, &in.Email, &in.CompanyName, &in.Phone, &in.Subject, &in.Message, &priority, &in.Status, &in.CreatedAt); err != nil {
		if database.IsNoRows(err) {
			return support.Inquiry{}, support.ErrInquiryNotFound
		}
		return support.Inquiry{}, err
	}
	in.Priority = support.Priority(priority)
	return in, nil
}
