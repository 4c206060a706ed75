package dataset

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNonNumeric is returned when a cell cannot be read as a number.
var ErrNonNumeric = errors.New("non-numeric value")

// ReadCSV reads a table whose first record is the header. A column is
// integral when every one of its cells parses as an integer.
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv has no header")
	}
	return fromRecords(records[0], records[1:])
}

// ReadXLSX reads a table from one sheet of an Excel workbook. An empty sheet
// name selects the first sheet.
func ReadXLSX(path, sheet string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header", sheet)
	}
	return fromRecords(rows[0], rows[1:])
}

func fromRecords(header []string, rows [][]string) (Table, error) {
	cols := make([]Column, len(header))
	for i := range cols {
		cols[i] = Column{Values: make([]float64, 0, len(rows)), Integral: true}
	}

	for r, row := range rows {
		if len(row) < len(header) {
			return nil, fmt.Errorf("row %d: want %d cells, got %d", r+2, len(header), len(row))
		}
		for i := range header {
			cell := strings.TrimSpace(row[i])
			if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
				cols[i].Values = append(cols[i].Values, float64(n))
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w %q", r+2, header[i], ErrNonNumeric, cell)
			}
			cols[i].Values = append(cols[i].Values, v)
			cols[i].Integral = false
		}
	}

	t := make(Table, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := t[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		t[name] = cols[i]
	}
	return t, nil
}

// QuerySQLite runs query and returns its result set as a table. A column is
// integral when every returned value is an integer.
func QuerySQLite(ctx context.Context, db *sql.DB, query string, args ...any) (Table, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	cols := make([]Column, len(names))
	for i := range cols {
		cols[i].Integral = true
	}
	raw := make([]any, len(names))
	dest := make([]any, len(names))
	for i := range raw {
		dest[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range raw {
			switch x := v.(type) {
			case int64:
				cols[i].Values = append(cols[i].Values, float64(x))
			case float64:
				cols[i].Values = append(cols[i].Values, x)
				cols[i].Integral = false
			default:
				return nil, fmt.Errorf("column %q: %w %v", names[i], ErrNonNumeric, v)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	t := make(Table, len(names))
	for i, name := range names {
		t[name] = cols[i]
	}
	return t, nil
}
