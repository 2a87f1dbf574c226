package refdata

import (
	"fmt"

	"github.com/parquet-go/parquet-go"

	"ddscan/internal/ticker"
)

// CompanyRecord is the Parquet schema for directory files.
type CompanyRecord struct {
	Symbol string `parquet:"symbol"`
	Name   string `parquet:"name"`
}

// LoadParquet reads companies from a Parquet file with symbol and name
// columns, in file order.
func LoadParquet(path string) ([]ticker.Company, error) {
	records, err := parquet.ReadFile[CompanyRecord](path)
	if err != nil {
		return nil, fmt.Errorf("reading parquet %s: %w", path, err)
	}

	companies := make([]ticker.Company, 0, len(records))
	for _, r := range records {
		if c, ok := clean(r.Symbol, r.Name); ok {
			companies = append(companies, c)
		}
	}
	return companies, nil
}
