package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the computation engines. Callers are expected to test
// with errors.Is and degrade locally: a method that cannot run is skipped, a
// bad configuration fails only the computation it was given to.
var (
	// ErrInsufficientData means a series is too short for the requested method.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidConfig means a caller-supplied parameter is out of range.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// RowError records a data-quality problem on one source row. Rows with errors
// are quarantined: reported in the warning list and excluded from aggregates,
// never fatal to the load.
type RowError struct {
	File    string `json:"file"`
	Row     int    `json:"row"` // 1-based, header is row 1
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s row %d: %s: %s", e.File, e.Row, e.Field, e.Message)
	}
	return fmt.Sprintf("%s row %d: %s", e.File, e.Row, e.Message)
}
