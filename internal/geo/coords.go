package geo

import (
	"fmt"
	"strconv"
	"strings"
)

// Projection domain errors.
var (
	ErrOutOfRange  = fmt.Errorf("coordinate out of range")
	ErrInvalidZone = fmt.Errorf("invalid UTM zone")
)

// Geographic is a latitude/longitude pair on a datum ellipsoid.
// It is the canonical storage form for every point in the system.
type Geographic struct {
	Lat   float64 // decimal degrees, [-90, 90]
	Lon   float64 // decimal degrees, [-180, 180]
	Datum Datum
}

func (g Geographic) String() string {
	return fmt.Sprintf("%.6f, %.6f (%s)", g.Lat, g.Lon, g.Datum)
}

// Validate checks the coordinate against the data-model domain:
// latitude in [-90, 90] and longitude in [-180, 180]. The tighter UTM
// band limit is a projection concern and checked there.
func (g Geographic) Validate() error {
	if g.Lat < -90.0 || g.Lat > 90.0 {
		return fmt.Errorf("%w: latitude %.6f outside [-90, 90]", ErrOutOfRange, g.Lat)
	}
	if g.Lon < -180.0 || g.Lon > 180.0 {
		return fmt.Errorf("%w: longitude %.6f outside [-180, 180]", ErrOutOfRange, g.Lon)
	}
	return nil
}

// UTM is a projected coordinate in a Universal Transverse Mercator zone.
// It is an input/display form only; storage is always Geographic.
type UTM struct {
	Zone     int     // [1, 60]
	Band     byte    // latitude band letter C..X (I and O excluded)
	Easting  float64 // meters
	Northing float64 // meters
	Datum    Datum
}

// North reports whether the coordinate lies in the northern hemisphere.
// Band letters N and above are north of the equator.
func (u UTM) North() bool { return u.Band >= 'N' }

// ZoneLabel returns the zone in its usual compact form, e.g. "30T".
func (u UTM) ZoneLabel() string {
	return fmt.Sprintf("%d%c", u.Zone, u.Band)
}

func (u UTM) String() string {
	return fmt.Sprintf("%.2fE %.2fN %s (%s)", u.Easting, u.Northing, u.ZoneLabel(), u.Datum)
}

// bands holds the UTM latitude band letters, 8 degrees each starting at -80.
const bands = "CDEFGHJKLMNPQRSTUVWX"

// ZoneFromLon derives the natural UTM zone number for a longitude.
func ZoneFromLon(lon float64) int {
	zone := int((lon+180.0)/6.0) + 1
	if zone > 60 { // lon == 180 wraps into zone 1's range
		zone = 60
	}
	if zone < 1 {
		zone = 1
	}
	return zone
}

// BandFromLat returns the latitude band letter for a latitude within the
// UTM band. Band X is stretched to cover up to 84 degrees north, and
// latitudes between -84 and -80 fall into band C.
func BandFromLat(lat float64) byte {
	idx := int((lat + 80.0) / 8.0)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(bands) {
		idx = len(bands) - 1
	}
	return bands[idx]
}

// validBand reports whether b is a defined latitude band letter.
func validBand(b byte) bool {
	return strings.IndexByte(bands, b) >= 0
}

// ParseZoneLabel splits a compact zone label such as "30T" or "9C" into
// zone number and band letter. The band letter may be lowercase.
func ParseZoneLabel(label string) (zone int, band byte, err error) {
	label = strings.TrimSpace(label)
	if len(label) < 2 {
		return 0, 0, fmt.Errorf("%w: label %q", ErrInvalidZone, label)
	}

	band = strings.ToUpper(label[len(label)-1:])[0]
	zone, convErr := strconv.Atoi(label[:len(label)-1])
	if convErr != nil {
		return 0, 0, fmt.Errorf("%w: label %q", ErrInvalidZone, label)
	}
	if zone < 1 || zone > 60 {
		return 0, 0, fmt.Errorf("%w: zone %d not in [1, 60]", ErrInvalidZone, zone)
	}
	if !validBand(band) {
		return 0, 0, fmt.Errorf("%w: band letter %q", ErrInvalidZone, string(band))
	}

	return zone, band, nil
}
