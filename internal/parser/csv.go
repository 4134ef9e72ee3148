package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/doctransform/internal/doctree"
)

// csvRowsPerSection caps how many data rows share one section.
const csvRowsPerSection = 20

// CSVParser renders each row as a "header: value" line, grouped into
// sections of csvRowsPerSection rows.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	b := doctree.NewBuilder(titleFrom(filename), filename)
	if len(records) == 0 {
		return b.Tree(), nil
	}
	headers, rows := records[0], records[1:]

	for start := 0; start < len(rows); start += csvRowsPerSection {
		end := min(start+csvRowsPerSection, len(rows))
		lines := make([]string, 0, end-start)
		for _, row := range rows[start:end] {
			lines = append(lines, csvLine(headers, row))
		}
		// Row numbers are 1-indexed and count the header row.
		b.Section(fmt.Sprintf("Rows %d-%d", start+2, end+1), strings.Join(lines, "\n"))
	}
	return b.Tree(), nil
}

func csvLine(headers, row []string) string {
	cells := make([]string, len(row))
	for i, cell := range row {
		if i < len(headers) && headers[i] != "" {
			cells[i] = headers[i] + ": " + cell
		} else {
			cells[i] = cell
		}
	}
	return "- " + strings.Join(cells, ", ")
}
