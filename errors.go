package graphgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/graphgo/document"
	"github.com/hupe1980/graphgo/index"
	"github.com/hupe1980/graphgo/pipeline"
)

var (
	// ErrClosed is returned when operating on a closed database.
	ErrClosed = errors.New("database closed")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")
)

// ErrMalformedDocument indicates a write body that could not be interpreted
// as a document: unparsable JSON, a missing or unqualified _id in WriteJSON,
// or a reserved substructure with the wrong shape.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrMalformedDocument struct {
	Reason string
	cause  error
}

func (e *ErrMalformedDocument) Error() string {
	return fmt.Sprintf("malformed document: %s", e.Reason)
}

func (e *ErrMalformedDocument) Unwrap() error { return e.cause }

// ErrMalformedQuery indicates a query body that could not be interpreted
// as a pipeline: unparsable JSON, a missing pipeline array, or a step with
// a missing, unknown or incomplete op.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrMalformedQuery struct {
	Reason string
	cause  error
}

func (e *ErrMalformedQuery) Error() string {
	return fmt.Sprintf("malformed query: %s", e.Reason)
}

func (e *ErrMalformedQuery) Unwrap() error { return e.cause }

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrInvalidCoordinate indicates a latitude/longitude pair outside the
// valid range.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidCoordinate struct {
	Lat   float64
	Lon   float64
	cause error
}

func (e *ErrInvalidCoordinate) Error() string {
	return fmt.Sprintf("invalid coordinate: lat=%g lon=%g", e.Lat, e.Lon)
}

func (e *ErrInvalidCoordinate) Unwrap() error { return e.cause }

// ErrInvalidWeight indicates an edge weight outside [0, 1].
type ErrInvalidWeight struct {
	Weight float64
}

func (e *ErrInvalidWeight) Error() string {
	return fmt.Sprintf("invalid edge weight: %g not in [0, 1]", e.Weight)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pipeline.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}

	// Normalize subpackage errors into the public taxonomy.
	var md *document.ErrMalformedDocument
	if errors.As(err, &md) {
		return &ErrMalformedDocument{Reason: md.Reason, cause: err}
	}
	var ic *document.ErrInvalidCoordinate
	if errors.As(err, &ic) {
		return &ErrInvalidCoordinate{Lat: ic.Lat, Lon: ic.Lon, cause: err}
	}
	var dm *index.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}

	return err
}
