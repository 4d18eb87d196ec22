// Package profile implements the radial-slice representation bound to each
// (vertex, layer) pair: the five variants of §3 (Empty, Thin, Constant,
// Surface, NPoint), the dense Store keyed by (vertex, layer), and the flat
// PointMap enumeration over every real point a model carries (§4.2).
//
// Like datacell, the five-variant class hierarchy of the source is replaced
// with one closed tagged struct rather than five concrete subclasses
// (Design Notes §9).
package profile

import (
	"fmt"

	"github.com/geotess/geotess-go/internal/datacell"
	"github.com/geotess/geotess-go/internal/errs"
)

// Type identifies a profile variant. The numeric values match the on-disk
// profile-type tag (§6 "Profile-type tag (u8) ∈ {NPOINT=0, CONSTANT=1,
// THIN=2, EMPTY=3, SURFACE=4}").
type Type uint8

const (
	NPoint Type = iota
	Constant
	Thin
	Empty
	Surface
)

func (t Type) String() string {
	switch t {
	case NPoint:
		return "NPOINT"
	case Constant:
		return "CONSTANT"
	case Thin:
		return "THIN"
	case Empty:
		return "EMPTY"
	case Surface:
		return "SURFACE"
	default:
		return "UNKNOWN"
	}
}

// Profile is a radial slice at one (vertex, layer). The zero value has
// kind NPoint with no radii and no cells and is not a usable profile; a
// freshly-sized Store slot holds NewEmpty(0, 0) until SetProfile.
type Profile struct {
	kind  Type
	radii []float64 // len 0 (Surface), 1 (Thin), 2 (Empty, Constant), or N>=2 (NPoint)
	cells []datacell.Cell
}

// NewEmpty builds an Empty profile: the layer's boundary radii with no data.
func NewEmpty(rBottom, rTop float64) Profile {
	return Profile{kind: Empty, radii: []float64{rBottom, rTop}}
}

// NewThin builds a Thin profile: a single radius and cell, for a
// zero-thickness layer.
func NewThin(r float64, cell datacell.Cell) Profile {
	return Profile{kind: Thin, radii: []float64{r}, cells: []datacell.Cell{cell}}
}

// NewConstant builds a Constant profile: one cell applying uniformly across
// [rBottom, rTop].
func NewConstant(rBottom, rTop float64, cell datacell.Cell) Profile {
	return Profile{kind: Constant, radii: []float64{rBottom, rTop}, cells: []datacell.Cell{cell}}
}

// NewSurface builds a Surface profile: a single cell with no associated
// radius, legal only when the grid is used as a 2D surface (§3).
func NewSurface(cell datacell.Cell) Profile {
	return Profile{kind: Surface, cells: []datacell.Cell{cell}}
}

// NewNPoint builds an N-point profile: N>=2 monotonically non-decreasing
// radii, each paired with a data cell (§3). Returns InvalidInput if fewer
// than 2 radii are given or the radii and cells lengths disagree, and
// Inconsistent if the radii are non-monotonic (§7 "an N-point profile with
// non-monotonic radii").
func NewNPoint(radii []float64, cells []datacell.Cell) (Profile, error) {
	if len(radii) < 2 {
		return Profile{}, &errs.InvalidInput{Field: "radii", Reason: "an NPoint profile needs at least 2 radii"}
	}
	if len(radii) != len(cells) {
		return Profile{}, &errs.InvalidInput{Field: "cells", Reason: fmt.Sprintf("%d radii but %d cells", len(radii), len(cells))}
	}
	for i := 1; i < len(radii); i++ {
		if radii[i] < radii[i-1] {
			return Profile{}, &errs.Inconsistent{Reason: fmt.Sprintf("NPoint radii not monotonic at index %d: %g < %g", i, radii[i], radii[i-1])}
		}
	}
	return Profile{
		kind:  NPoint,
		radii: append([]float64(nil), radii...),
		cells: append([]datacell.Cell(nil), cells...),
	}, nil
}

// Kind returns the profile's variant tag.
func (p Profile) Kind() Type { return p.kind }

// NRadii returns the number of radii the profile carries (0 for Surface).
func (p Profile) NRadii() int { return len(p.radii) }

// Radius returns the i'th radius.
func (p Profile) Radius(i int) float64 { return p.radii[i] }

// NNodes returns the number of data-bearing nodes (radii paired with
// cells); 0 for Empty, 1 for Thin/Constant/Surface, N for NPoint.
func (p Profile) NNodes() int { return len(p.cells) }

// Cell returns the i'th data cell.
func (p Profile) Cell(i int) datacell.Cell { return p.cells[i] }

// Bottom returns the radius at the bottom of the layer as represented by
// this profile. Panics for Surface, which carries no radius; callers check
// Kind() first.
func (p Profile) Bottom() float64 {
	switch p.kind {
	case Thin:
		return p.radii[0]
	default:
		return p.radii[0]
	}
}

// Top returns the radius at the top of the layer as represented by this
// profile. Panics for Surface.
func (p Profile) Top() float64 {
	switch p.kind {
	case Thin:
		return p.radii[0]
	default:
		return p.radii[len(p.radii)-1]
	}
}
