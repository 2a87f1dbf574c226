package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"ddscan/internal/ticker"
)

// LoadCSV reads companies from a CSV file whose first two columns are symbol
// and name. The file must have a header row; further columns (country,
// sector, ...) are ignored.
func LoadCSV(path string) ([]ticker.Company, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening CSV %s: %w", path, err)
	}
	defer f.Close()

	companies, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading CSV %s: %w", path, err)
	}
	return companies, nil
}

// ReadCSV is LoadCSV over an already-open reader. Values are trimmed and
// rows missing a symbol or a name are skipped.
func ReadCSV(r io.Reader) ([]ticker.Company, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return nil, nil
	}

	companies := make([]ticker.Company, 0, len(records)-1)
	for _, row := range records[1:] {
		if len(row) < 2 {
			continue
		}
		if c, ok := clean(row[0], row[1]); ok {
			companies = append(companies, c)
		}
	}
	return companies, nil
}
