package sentiment

import "errors"

var (
	ErrInvalidInput = errors.New("text is required")
	ErrNotRelevant  = errors.New("text does not appear to be a smartwatch/product review")
)
