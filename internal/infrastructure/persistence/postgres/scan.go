package postgres

// rowScanner is satisfied by both database.Row and database.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
