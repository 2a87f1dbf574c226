// Package refdata reads the company reference directory (symbol, name) from
// CSV, Parquet or SQLite files. Parsing and filtering of malformed rows
// happens here; the ticker engine only ever sees validated rows.
package refdata

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"ddscan/internal/config"
	"ddscan/internal/ticker"
)

// ErrUnsupportedFormat is returned for reference files that are not CSV,
// Parquet or SQLite.
var ErrUnsupportedFormat = errors.New("unsupported directory format")

// Supported formats.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
	FormatSQLite  = "sqlite"
)

// DetectFormat returns the format for path from its extension.
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".parquet":
		return FormatParquet, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads the company rows described by cfg. An empty cfg.Format is
// resolved with DetectFormat.
func Load(ctx context.Context, cfg config.Directory) ([]ticker.Company, error) {
	format := strings.ToLower(cfg.Format)
	if format == "" {
		var err error
		if format, err = DetectFormat(cfg.Path); err != nil {
			return nil, err
		}
	}

	switch format {
	case FormatCSV:
		return LoadCSV(cfg.Path)
	case FormatParquet:
		return LoadParquet(cfg.Path)
	case FormatSQLite:
		return LoadSQLite(ctx, cfg.Path, cfg.SQLiteTable)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, cfg.Format)
	}
}

// LoadDirectory reads the rows described by cfg and builds the immutable
// directory from them.
func LoadDirectory(ctx context.Context, cfg config.Directory) (*ticker.Directory, error) {
	rows, err := Load(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return ticker.LoadDirectory(rows), nil
}

// clean trims a row and reports whether it is usable.
func clean(symbol, name string) (ticker.Company, bool) {
	c := ticker.Company{
		Symbol: strings.TrimSpace(symbol),
		Name:   strings.TrimSpace(name),
	}
	return c, c.Symbol != "" && c.Name != ""
}
