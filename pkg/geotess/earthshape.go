package geotess

import "github.com/geotess/geotess-go/internal/geo"

// EarthShape describes how geographic latitude and radius are derived
// from a unit vector (§3). Every Model carries its own; there is no
// implicit global default used by interpolation math.
type EarthShape = geo.EarthShape

// SphericalConstant is an EarthShape of fixed radius R (km).
func SphericalConstant(r float64) EarthShape { return geo.SphericalConstant{R: r} }

// WGS84Geocentric is the WGS84 ellipsoid with geocentric latitude.
func WGS84Geocentric() EarthShape { return geo.WGS84Geocentric() }

// WGS84Geographic is the WGS84 ellipsoid with geographic (geodetic)
// latitude.
func WGS84Geographic() EarthShape { return geo.WGS84Geographic() }

// IERS is the IERS 2010 Conventions ellipsoid.
func IERS() EarthShape { return geo.IERS() }

// EarthShapeByName resolves one of the four well-known shapes by the name
// recorded in a model's metadata or file header.
func EarthShapeByName(name string) (EarthShape, bool) { return geo.ByName(name) }
