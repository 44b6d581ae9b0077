package batch

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spacesedan/reviewpulse/internal/tabular"
)

var (
	ErrColumnNotFound = errors.New("text column not found")
	ErrNoTextColumn   = errors.New("no text-like columns found")
)

var preferredColumns = []string{"reviews.text", "text", "review", "reviews", "comment", "comments"}

// SelectColumn picks the review text column. An explicit request must
// exist in the source; otherwise the first preferred name among the
// text-typed columns wins, then the first text-typed column.
func SelectColumn(src tabular.Source, requested string) (string, error) {
	textColumns := src.TextColumns()
	if len(textColumns) == 0 {
		return "", ErrNoTextColumn
	}

	if requested != "" {
		if !slices.Contains(src.Columns(), requested) {
			return "", fmt.Errorf("%w: %q", ErrColumnNotFound, requested)
		}
		return requested, nil
	}

	for _, name := range preferredColumns {
		if slices.Contains(textColumns, name) {
			return name, nil
		}
	}
	return textColumns[0], nil
}
