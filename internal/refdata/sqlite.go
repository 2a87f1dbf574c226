package refdata

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"

	"ddscan/internal/ticker"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadSQLite reads companies from the symbol and name columns of table in
// the SQLite database at dbPath, in rowid order. The database is never
// created or written.
func LoadSQLite(ctx context.Context, dbPath, table string) ([]ticker.Company, error) {
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("invalid sqlite table name %q", table)
	}
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", dbPath, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", dbPath, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT symbol, name FROM "%s" ORDER BY rowid`, table))
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	var companies []ticker.Company
	for rows.Next() {
		var symbol, name sql.NullString
		if err := rows.Scan(&symbol, &name); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		if c, ok := clean(symbol.String, name.String); ok {
			companies = append(companies, c)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", table, err)
	}
	return companies, nil
}
