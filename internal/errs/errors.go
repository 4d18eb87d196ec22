// Package errs defines the error taxonomy shared across the grid, model,
// and position packages (§7). Each kind is a distinct exported struct
// type carrying the fields needed to act on the failure, following the
// flat-struct-per-error-type shape of internal/parser/errors.go in the
// teacher repo rather than a single generic "Error{Kind, Msg}" type.
package errs

import "fmt"

// InvalidInput covers out-of-range lat/lon/radius, unknown layer or
// attribute names, negative counts, and malformed interpolator-kind tags.
type InvalidInput struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidInput) Error() string {
	return fmt.Sprintf("invalid input: field %s value %v: %s", e.Field, e.Value, e.Reason)
}

// MalformedFile covers magic mismatches, unsupported versions, truncated
// payloads, grid-id mismatches against an external grid file, and unknown
// data-type tags.
type MalformedFile struct {
	Path   string
	Reason string
}

func (e *MalformedFile) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("malformed file %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("malformed file: %s", e.Reason)
}

// Inconsistent covers a layer referencing an undefined tessellation, a
// non-monotonic N-point profile, or a profile radius range that violates
// its layer boundary.
type Inconsistent struct {
	Reason string
}

func (e *Inconsistent) Error() string {
	return fmt.Sprintf("inconsistent model: %s", e.Reason)
}

// Unavailable covers natural-neighbor interpolation requested where
// Voronoi construction isn't supported at the query point; this is a
// fall-through-and-warn condition, not a hard failure (§7).
type Unavailable struct {
	Reason string
}

func (e *Unavailable) Error() string {
	return fmt.Sprintf("unavailable: %s", e.Reason)
}

// GeometryDegenerate covers three colinear triangle vertices during
// circumcenter computation — should never occur in a well-formed grid,
// and is treated as fatal rather than recoverable (§7).
type GeometryDegenerate struct {
	Triangle int
	Reason   string
}

func (e *GeometryDegenerate) Error() string {
	return fmt.Sprintf("degenerate geometry at triangle %d: %s", e.Triangle, e.Reason)
}
