package seeder

import (
	"context"
	"fmt"

	"azellar-portal/internal/database"
)

func EnsureTableColumns(ctx context.Context, db database.DB, table string, columns ...string) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	if table == "" {
		return fmt.Errorf("empty table")
	}
	for _, col := range columns {
		if col == "" {
			return fmt.Errorf("empty column")
		}
	}

	rows, err := db.Query(
		ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema='public' AND table_name=$1`,
		table,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		existing[c] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, col := range columns {
		if _, ok := existing[col]; !ok {
			return fmt.Errorf("schema mismatch: missing column %s.%s", table, col)
		}
	}
	return nil
}

// Tables lists every table the portal reads or writes.
var Tables = []string{
	"profiles",
	"companies",
	"courses",
	"enrollments",
	"support_tickets",
	"ticket_replies",
	"ticket_attachments",
	"public_support_inquiries",
	"contact_submissions",
}

type TableStatus struct {
	Table string
	Err   error
}

// Check probes every table and the profiles.role column. It reports each
// table instead of stopping at the first failure.
func Check(ctx context.Context, db database.DB) ([]TableStatus, error) {
	if db == nil {
		return nil, fmt.Errorf("nil db")
	}

	out := make([]TableStatus, 0, len(Tables)+1)
	var failed int
	for _, table := range Tables {
		var one int
		err := db.QueryRow(ctx, `SELECT 1 FROM `+table+` LIMIT 1`).Scan(&one)
		if database.IsNoRows(err) {
			err = nil
		}
		if err != nil {
			failed++
		}
		out = append(out, TableStatus{Table: table, Err: err})
	}

	err := EnsureTableColumns(ctx, db, "profiles", "role")
	if err != nil {
		failed++
	}
	out = append(out, TableStatus{Table: "profiles.role", Err: err})

	if failed > 0 {
		return out, fmt.Errorf("%d schema checks failed", failed)
	}
	return out, nil
}
