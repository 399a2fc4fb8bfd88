package lines

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Column names used from NIST ASD line tables.
const (
	ColumnWavelength = "obs_wl_vac(nm)"
	ColumnIntensity  = "intens"
)

var (
	ErrEmptyTable    = errors.New("lines: table has no header")
	ErrMissingColumn = errors.New("lines: required column missing")
)

// Table is a tab-separated record set with a header row, kept verbatim.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ParseTable reads a tab-separated table whose first line is the header.
// Rows shorter than the header are padded with empty fields; extra fields
// are kept.
func ParseTable(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var t *Table
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if t == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			t = &Table{Columns: trimFields(strings.Split(line, "\t"))}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		for len(fields) < len(t.Columns) {
			fields = append(fields, "")
		}
		t.Rows = append(t.Rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	if t == nil {
		return nil, ErrEmptyTable
	}

	// Trailing tabs in NIST output produce an empty last header field.
	for len(t.Columns) > 0 && t.Columns[len(t.Columns)-1] == "" {
		t.Columns = t.Columns[:len(t.Columns)-1]
	}

	return t, nil
}

func trimFields(fields []string) []string {
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

// WriteTSV writes the table back in the format ParseTable reads.
func (t *Table) WriteTSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(t.Columns, "\t") + "\n"); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if _, err := bw.WriteString(strings.Join(row, "\t") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ColumnIndex returns the index of the named column or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns the field at row/column, or "" when the row is short.
func (t *Table) Value(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Subset returns a new table holding only the given rows, in order.
func (t *Table) Subset(rows []int) *Table {
	out := &Table{Columns: append([]string(nil), t.Columns...), Rows: make([][]string, 0, len(rows))}
	for _, i := range rows {
		if i >= 0 && i < len(t.Rows) {
			out.Rows = append(out.Rows, t.Rows[i])
		}
	}
	return out
}
