package helpers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spektr-org/spektr-scatter/engine"
)

// ============================================================================
// CSV HELPER — Parses CSV data into a Table
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, stdin, HTTP body).
// This helper converts the raw bytes into generic Records: every cell is
// kept as a trimmed string dimension, and cells that parse as numbers are
// also recorded as measures.
// ============================================================================

// Table is a loaded tabular query result.
type Table struct {
	Columns []string        `json:"columns"`
	Records []engine.Record `json:"-"`
}

// View returns a zero-copy RecordView over the table in header order.
func (t *Table) View() engine.RecordView {
	return engine.NewOrderedSliceView(t.Records, t.Columns)
}

// NewTable builds a Table from a header and string rows. Blank headers are
// named column_N and repeated headers get a _2, _3 suffix. Cells past the
// header width are dropped; missing trailing cells are absent.
func NewTable(header []string, rows [][]string) *Table {
	cols := normalizeHeader(header)
	t := &Table{Columns: cols, Records: make([]engine.Record, 0, len(rows))}

	for _, row := range rows {
		rec := engine.Record{
			Dimensions: make(map[string]string, len(cols)),
			Measures:   make(map[string]float64),
		}
		for i, val := range row {
			if i >= len(cols) {
				break
			}
			val = strings.TrimSpace(val)
			rec.Dimensions[cols[i]] = val
			if f, ok := engine.TryParseNumber(val); ok {
				rec.Measures[cols[i]] = f
			}
		}
		t.Records = append(t.Records, rec)
	}
	return t
}

func normalizeHeader(header []string) []string {
	cols := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = name + "_" + strconv.Itoa(n)
		}
		cols[i] = name
	}
	return cols
}

// ParseCSV parses comma-separated bytes. The first row is the header.
func ParseCSV(data []byte) (*Table, error) {
	return ReadDelimited(bytes.NewReader(data), ',')
}

// ReadDelimited reads delimiter-separated rows from r. Rows that fail to
// parse are skipped.
func ReadDelimited(r io.Reader, delimiter rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read CSV headers: empty input")
		}
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}

	return NewTable(headers, rows), nil
}

// ParseCSVView parses CSV into a RecordView (convenience wrapper).
func ParseCSVView(data []byte) (engine.RecordView, error) {
	t, err := ParseCSV(data)
	if err != nil {
		return nil, err
	}
	return t.View(), nil
}
