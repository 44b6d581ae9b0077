// Package tabular turns an uploaded file into named columns of raw cells.
package tabular

import "errors"

var ErrSourceUnreadable = errors.New("could not read tabular source")

// Cell is one raw value. Missing marks an empty or absent value.
type Cell struct {
	Value   string
	Missing bool
}

type Source interface {
	Columns() []string
	// TextColumns lists text-typed columns in header order.
	TextColumns() []string
	Cells(column string) ([]Cell, bool)
	Len() int
}
