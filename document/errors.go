package document

import "fmt"

// ErrMalformedDocument indicates a body that could not be interpreted as a
// document: unparsable JSON, a non-object root, or a reserved substructure
// with the wrong shape.
type ErrMalformedDocument struct {
	Reason string
	cause  error
}

func (e *ErrMalformedDocument) Error() string {
	return fmt.Sprintf("malformed document: %s", e.Reason)
}

func (e *ErrMalformedDocument) Unwrap() error { return e.cause }

// ErrInvalidCoordinate indicates a latitude/longitude pair outside the valid
// range (lat in [-90,90], lon in [-180,180]).
type ErrInvalidCoordinate struct {
	Lat float64
	Lon float64
}

func (e *ErrInvalidCoordinate) Error() string {
	return fmt.Sprintf("invalid coordinate: lat=%g lon=%g", e.Lat, e.Lon)
}
