// Package csvtable parses CSV text into an ordered header list plus rows
// keyed by header name. The first non-empty record is the header row; data
// rows are padded or truncated to the header length.
package csvtable

import (
	"bufio"
	"encoding/csv"
	"io"
)

// Row maps a header name to the cell value of one data row.
type Row map[string]string

type Table struct {
	Headers []string
	Rows    []Row
}

// Parse reads the full CSV stream. Quoted fields may contain commas,
// doubled quotes and embedded newlines. Blank lines and records whose
// every field is empty are skipped.
func Parse(r io.Reader) (Table, error) {
	br := bufio.NewReader(r)
	stripBOM(br)

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, err
	}

	var t Table
	for _, record := range records {
		if isEmptyRecord(record) {
			continue
		}
		if t.Headers == nil {
			t.Headers = record
			t.Rows = []Row{}
			continue
		}
		row := make(Row, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Write re-serializes the table with standard CSV quoting, headers first.
func Write(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	record := make([]string, len(t.Headers))
	for _, row := range t.Rows {
		for i, h := range t.Headers {
			record[i] = row[h]
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func isEmptyRecord(record []string) bool {
	for _, f := range record {
		if f != "" {
			return false
		}
	}
	return true
}

func stripBOM(br *bufio.Reader) {
	bom := []byte{0xEF, 0xBB, 0xBF}
	peeked, err := br.Peek(3)
	if err != nil {
		return
	}
	if peeked[0] == bom[0] && peeked[1] == bom[1] && peeked[2] == bom[2] {
		_, _ = br.Discard(3)
	}
}
