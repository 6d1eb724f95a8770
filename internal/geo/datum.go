// Package geo handles geodetic datums, coordinate types and the
// transformations between geographic and UTM representations.
package geo

import (
	"fmt"
	"math"
	"strings"
)

// ErrUnknownDatum is returned when a datum identifier is not in the registry.
var ErrUnknownDatum = fmt.Errorf("unknown datum")

// Datum is an immutable reference-ellipsoid definition.
type Datum struct {
	ID   string  // canonical identifier, e.g. "WGS84"
	Name string  // short human-readable name
	A    float64 // semi-major axis in meters
	InvF float64 // inverse flattening 1/f
}

// Supported datums. NAD83 and ETRS89 both use the GRS80 ellipsoid.
var (
	WGS84  = Datum{ID: "WGS84", Name: "World Geodetic System 1984", A: 6378137.0, InvF: 298.257223563}
	NAD83  = Datum{ID: "NAD83", Name: "North American Datum 1983", A: 6378137.0, InvF: 298.257222101}
	ETRS89 = Datum{ID: "ETRS89", Name: "European Terrestrial Reference System 1989", A: 6378137.0, InvF: 298.257222101}
)

// DefaultDatum is used whenever no datum is supplied anywhere in the system.
var DefaultDatum = WGS84

var datums = map[string]Datum{
	"WGS84":  WGS84,
	"NAD83":  NAD83,
	"ETRS89": ETRS89,
}

// ResolveDatum looks up a datum by identifier, case-insensitively.
// Unknown identifiers are a configuration error, never silently defaulted.
func ResolveDatum(id string) (Datum, error) {
	d, ok := datums[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return Datum{}, fmt.Errorf("%w: %q", ErrUnknownDatum, id)
	}
	return d, nil
}

// DatumIDs returns the identifiers of all registered datums.
func DatumIDs() []string {
	return []string{WGS84.ID, NAD83.ID, ETRS89.ID}
}

// F returns the flattening of the ellipsoid.
func (d Datum) F() float64 { return 1.0 / d.InvF }

// B returns the semi-minor axis of the ellipsoid.
func (d Datum) B() float64 { return d.A * (1.0 - d.F()) }

// E2 returns the first eccentricity squared.
func (d Datum) E2() float64 {
	f := d.F()
	return f * (2.0 - f)
}

// EP2 returns the second eccentricity squared.
func (d Datum) EP2() float64 {
	e2 := d.E2()
	return e2 / (1.0 - e2)
}

// Equal reports whether two datums are the same registry entry.
func (d Datum) Equal(o Datum) bool {
	return d.ID == o.ID && d.A == o.A && d.InvF == o.InvF
}

func (d Datum) String() string {
	if d.ID == "" {
		return "unset"
	}
	return d.ID
}

// degToRad and radToDeg are shared by the projection and distance code.
func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
