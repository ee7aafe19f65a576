package index

import (
	"fmt"

	"github.com/hupe1980/graphgo/core"
)

// ErrDimensionMismatch is a named error type for dimension mismatch
type ErrDimensionMismatch struct {
	Expected int // Expected dimensions
	Actual   int // Actual dimensions
}

// Error returns the error message for dimension mismatch
func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ScoredResult is a ranked index hit.
type ScoredResult struct {
	// Local is the internal id of the matching document.
	Local core.LocalID

	// Score is the relevance of the hit; higher is better.
	Score float32
}

// Index is the lifecycle shared by the derived indexes.
type Index interface {
	// Remove drops every entry of the document from the index.
	Remove(local core.LocalID)

	// Len returns the number of indexed documents.
	Len() int
}
