package refdata

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddscan/internal/config"
	"ddscan/internal/ticker"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"ref/nasdaq.csv", FormatCSV},
		{"ref/NASDAQ.CSV", FormatCSV},
		{"ref/companies.parquet", FormatParquet},
		{"ref/companies.db", FormatSQLite},
		{"ref/companies.sqlite", FormatSQLite},
		{"ref/companies.sqlite3", FormatSQLite},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := DetectFormat("ref/companies.json")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

// ---------------------------------------------------------------------------
// CSV
// ---------------------------------------------------------------------------

func TestReadCSV(t *testing.T) {
	in := "Symbol,Name,Country\n" +
		"AAPL,Apple Inc. Common Stock,United States\n" +
		" TSLA , Tesla Inc. ,United States\r\n" +
		"\"BRK/A\",\"Berkshire Hathaway, Inc.\",United States\n" +
		"LONE\n" +
		",No Symbol Corp\n" +
		"NONAME,\n"

	got, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	want := []ticker.Company{
		{Symbol: "AAPL", Name: "Apple Inc. Common Stock"},
		{Symbol: "TSLA", Name: "Tesla Inc."},
		{Symbol: "BRK/A", Name: "Berkshire Hathaway, Inc."},
	}
	assert.Equal(t, want, got)
}

func TestReadCSVHeaderOnly(t *testing.T) {
	got, err := ReadCSV(strings.NewReader("Symbol,Name\n"))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

// ---------------------------------------------------------------------------
// Parquet
// ---------------------------------------------------------------------------

func TestLoadParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies.parquet")
	err := parquet.WriteFile(path, []CompanyRecord{
		{Symbol: "MSFT", Name: "Microsoft Corporation"},
		{Symbol: "", Name: "Orphan Name"},
		{Symbol: "ZM", Name: "Zoom Video Communications"},
	})
	require.NoError(t, err)

	got, err := LoadParquet(path)
	require.NoError(t, err)
	assert.Equal(t, []ticker.Company{
		{Symbol: "MSFT", Name: "Microsoft Corporation"},
		{Symbol: "ZM", Name: "Zoom Video Communications"},
	}, got)
}

// ---------------------------------------------------------------------------
// SQLite
// ---------------------------------------------------------------------------

func writeSQLite(t *testing.T, path string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE companies (symbol TEXT, name TEXT, sector TEXT)`)
	require.NoError(t, err)
	for _, row := range [][2]any{
		{"WMT", "Walmart Inc."},
		{"AA", "Alcoa Corporation"},
		{nil, "Null Symbol Ltd"},
		{"GME", "GameStop Corporation"},
	} {
		_, err = db.Exec(`INSERT INTO companies (symbol, name) VALUES (?, ?)`, row[0], row[1])
		require.NoError(t, err)
	}
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies.db")
	writeSQLite(t, path)

	got, err := LoadSQLite(context.Background(), path, "companies")
	require.NoError(t, err)
	assert.Equal(t, []ticker.Company{
		{Symbol: "WMT", Name: "Walmart Inc."},
		{Symbol: "AA", Name: "Alcoa Corporation"},
		{Symbol: "GME", Name: "GameStop Corporation"},
	}, got)
}

func TestLoadSQLiteErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "companies.db")
	writeSQLite(t, path)

	_, err := LoadSQLite(context.Background(), path, `companies"; DROP TABLE companies; --`)
	assert.Error(t, err)

	_, err = LoadSQLite(context.Background(), path, "missing_table")
	assert.Error(t, err)

	missing := filepath.Join(dir, "missing.db")
	_, err = LoadSQLite(context.Background(), missing, "companies")
	assert.Error(t, err)
	_, statErr := os.Stat(missing)
	assert.True(t, os.IsNotExist(statErr), "loader must not create the database")
}

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestLoadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nasdaq_screener.csv")
	csv := "Symbol,Name\nTSLA,Tesla Inc. Common Stock\nAAPL,Apple Inc. Common Stock\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	dir, err := LoadDirectory(context.Background(), config.Directory{Path: path})
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Len())

	got, ok := ticker.InferTicker("Tesla earnings beat", dir)
	assert.True(t, ok)
	assert.Equal(t, "TSLA", got)
}

func TestLoadExplicitFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies.txt")
	require.NoError(t, os.WriteFile(path, []byte("symbol,name\nZM,Zoom Video\n"), 0o644))

	_, err := Load(context.Background(), config.Directory{Path: path})
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	rows, err := Load(context.Background(), config.Directory{Path: path, Format: "CSV"})
	require.NoError(t, err)
	assert.Equal(t, []ticker.Company{{Symbol: "ZM", Name: "Zoom Video"}}, rows)

	_, err = Load(context.Background(), config.Directory{Path: path, Format: "xlsx"})
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}
