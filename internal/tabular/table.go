package tabular

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

// Table is a raw uploaded table: a header row plus string cells, exactly as
// they came out of the CSV. Nothing here is validated; that is the
// normalizer's job.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ReadCSV parses a CSV stream into a Table. The first record is the header.
// Short records are padded so every row has one cell per header.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return &Table{}, nil
	}

	t := &Table{Headers: recs[0]}
	for _, rec := range recs[1:] {
		row := make([]string, len(t.Headers))
		for i := range row {
			if i < len(rec) {
				row[i] = rec[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool { return t == nil || len(t.Rows) == 0 }

// Cell returns the trimmed cell at (row, col), or "" when out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}

// ParseRating attempts to coerce a cell to a numeric rating.
func ParseRating(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
