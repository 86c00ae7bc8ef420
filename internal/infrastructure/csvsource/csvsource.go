package csvsource

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"atlas-fetcher/internal/domain"
)

const idColumn = "ID"

// LoadOrderIDs reads the order export at path and returns the values of
// its ID column in file order. Blank values are skipped, and a row
// shorter than the header counts as blank. The header may carry a UTF-8
// BOM; spreadsheet exports often do.
func LoadOrderIDs(path string) ([]domain.OrderID, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csvsource: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csvsource: %s is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("csvsource: read header: %w", err)
	}

	idx := -1
	for i, col := range header {
		if strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")) == idColumn {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("csvsource: column %q not found in %s", idColumn, path)
	}

	var ids []domain.OrderID
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvsource: read row: %w", err)
		}
		if idx >= len(rec) {
			continue
		}
		id := strings.TrimSpace(rec[idx])
		if id == "" {
			continue
		}
		ids = append(ids, domain.OrderID(id))
	}
	return ids, nil
}
