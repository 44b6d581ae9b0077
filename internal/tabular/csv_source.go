package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const utf8BOM = "\ufeff"

// naMarkers are the cell values read as missing, matching the default
// missing-value set of common dataframe CSV readers.
var naMarkers = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

var boolLiterals = map[string]struct{}{
	"true": {}, "false": {}, "True": {}, "False": {}, "TRUE": {}, "FALSE": {},
}

// CSVSource holds a fully parsed CSV file, column-major. When a header
// name repeats, only its first column is kept.
type CSVSource struct {
	columns []string
	index   map[string]int
	cells   map[string][]Cell
	rows    int
}

// ReadCSV parses r with the first record as the header. Short records are
// padded with missing cells; records wider than the header are rejected.
func ReadCSV(r io.Reader) (*CSVSource, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no columns to parse", ErrSourceUnreadable)
		}
		return nil, fmt.Errorf("%w: %v", ErrSourceUnreadable, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	src := &CSVSource{
		columns: header,
		index:   make(map[string]int, len(header)),
		cells:   make(map[string][]Cell, len(header)),
	}
	for i, name := range header {
		if _, ok := src.index[name]; !ok {
			src.index[name] = i
			src.cells[name] = []Cell{}
		}
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceUnreadable, err)
		}
		if len(record) > len(header) {
			return nil, fmt.Errorf("%w: line %d has %d fields, expected %d",
				ErrSourceUnreadable, line, len(record), len(header))
		}

		for name, i := range src.index {
			cell := Cell{Missing: true}
			if i < len(record) && !isNAMarker(record[i]) {
				cell = Cell{Value: record[i]}
			}
			src.cells[name] = append(src.cells[name], cell)
		}
		src.rows++
	}

	return src, nil
}

func (s *CSVSource) Columns() []string {
	return append([]string(nil), s.columns...)
}

// TextColumns returns columns holding at least one value that is neither
// numeric nor a boolean literal.
func (s *CSVSource) TextColumns() []string {
	var out []string
	for i, name := range s.columns {
		if s.index[name] != i {
			continue
		}
		if isTextColumn(s.cells[name]) {
			out = append(out, name)
		}
	}
	return out
}

func (s *CSVSource) Cells(column string) ([]Cell, bool) {
	cells, ok := s.cells[column]
	return cells, ok
}

func (s *CSVSource) Len() int {
	return s.rows
}

func isNAMarker(v string) bool {
	_, ok := naMarkers[v]
	return ok
}

func isTextColumn(cells []Cell) bool {
	for _, c := range cells {
		if c.Missing {
			continue
		}
		v := strings.TrimSpace(c.Value)
		if _, ok := boolLiterals[v]; ok {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			continue
		}
		return true
	}
	return false
}
