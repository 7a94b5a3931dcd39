package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DecodeCSV reads a header line and returns one Row per data line. Column
// names are matched case-insensitively; order does not matter and missing
// columns read as empty.
func DecodeCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", len(rows)+2, err)
		}
		row := make(Row, len(header))
		for i, col := range header {
			if col == "" || i >= len(rec) {
				continue
			}
			row[col] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
