package geo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// About 1 cm expressed in degrees of latitude.
const degTolerance = 1e-7

func TestZoneFromLon(t *testing.T) {
	cases := []struct {
		lon  float64
		zone int
	}{
		{-180.0, 1},
		{-177.0, 1},
		{-3.6531, 30},
		{0.0, 31},
		{3.0, 31},
		{179.9, 60},
		{180.0, 60},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.zone, ZoneFromLon(tc.lon), "lon %.4f", tc.lon)
	}
}

func TestBandFromLat(t *testing.T) {
	assert.Equal(t, byte('T'), BandFromLat(40.0151))
	assert.Equal(t, byte('N'), BandFromLat(0.0))
	assert.Equal(t, byte('M'), BandFromLat(-0.1))
	assert.Equal(t, byte('X'), BandFromLat(83.0))
	assert.Equal(t, byte('C'), BandFromLat(-79.0))
}

func TestParseZoneLabel(t *testing.T) {
	zone, band, err := ParseZoneLabel("30T")
	require.NoError(t, err)
	assert.Equal(t, 30, zone)
	assert.Equal(t, byte('T'), band)

	zone, band, err = ParseZoneLabel("9c")
	require.NoError(t, err)
	assert.Equal(t, 9, zone)
	assert.Equal(t, byte('C'), band)

	for _, label := range []string{"", "T", "30", "0T", "61T", "30I", "30O", "xyT"} {
		_, _, err := ParseZoneLabel(label)
		require.ErrorIs(t, err, ErrInvalidZone, "label %q", label)
	}
}

func TestGeographicValidate(t *testing.T) {
	require.NoError(t, Geographic{Lat: 40.0, Lon: -3.0, Datum: WGS84}.Validate())
	require.NoError(t, Geographic{Lat: 90.0, Lon: 180.0, Datum: WGS84}.Validate())
	require.NoError(t, Geographic{Lat: -90.0, Lon: -180.0, Datum: WGS84}.Validate())

	for _, g := range []Geographic{
		{Lat: 90.001, Lon: 0.0},
		{Lat: -95.0, Lon: 0.0},
		{Lat: 0.0, Lon: 180.001},
		{Lat: 0.0, Lon: -200.0},
		{Lat: 95.0, Lon: 200.0},
	} {
		require.ErrorIs(t, g.Validate(), ErrOutOfRange, "coordinate %v", g)
	}
}

func TestToUTMCentralMeridian(t *testing.T) {
	// Zone 30 spans -6..0 with central meridian -3: a point on it
	// projects exactly onto the false easting.
	u, err := ToUTM(Geographic{Lat: 40.0, Lon: -3.0, Datum: WGS84})
	require.NoError(t, err)
	assert.Equal(t, 30, u.Zone)
	assert.Equal(t, byte('T'), u.Band)
	assert.InDelta(t, falseEasting, u.Easting, 1e-6)
	assert.Greater(t, u.Northing, 4.0e6)
	assert.Less(t, u.Northing, 5.0e6)
}

func TestToUTMEquator(t *testing.T) {
	u, err := ToUTM(Geographic{Lat: 0.0, Lon: 3.0, Datum: WGS84})
	require.NoError(t, err)
	assert.Equal(t, 31, u.Zone)
	assert.True(t, u.North())
	assert.InDelta(t, 0.0, u.Northing, 1e-6)
	assert.InDelta(t, falseEasting, u.Easting, 1e-6)
}

func TestToUTMSouthernHemisphere(t *testing.T) {
	u, err := ToUTM(Geographic{Lat: -33.9, Lon: 18.4, Datum: WGS84})
	require.NoError(t, err)
	assert.False(t, u.North())
	// False northing keeps southern coordinates positive.
	assert.Greater(t, u.Northing, 0.0)
	assert.Less(t, u.Northing, falseNorthingSouth)
}

func TestToUTMOutOfRange(t *testing.T) {
	for _, lat := range []float64{84.001, 90.0, -84.001, -90.0} {
		_, err := ToUTM(Geographic{Lat: lat, Lon: 0.0, Datum: WGS84})
		require.ErrorIs(t, err, ErrOutOfRange, "lat %.3f", lat)
	}

	_, err := ToUTM(Geographic{Lat: 0.0, Lon: 181.0, Datum: WGS84})
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestToUTMZoneOverride(t *testing.T) {
	c := Geographic{Lat: 40.0151, Lon: -3.6531, Datum: WGS84}

	// Natural zone is 30; force the neighbor.
	u, err := ToUTMZone(c, 31)
	require.NoError(t, err)
	assert.Equal(t, 31, u.Zone)

	// The projection still inverts back to the same place.
	back, err := ToGeographic(u)
	require.NoError(t, err)
	assert.InDelta(t, c.Lat, back.Lat, degTolerance)
	assert.InDelta(t, c.Lon, back.Lon, degTolerance)

	_, err = ToUTMZone(c, 61)
	require.ErrorIs(t, err, ErrInvalidZone)
	_, err = ToUTMZone(c, -1)
	require.ErrorIs(t, err, ErrInvalidZone)
}

func TestToGeographicInvalidZone(t *testing.T) {
	for _, u := range []UTM{
		{Zone: 0, Band: 'T', Easting: 500000, Northing: 4000000, Datum: WGS84},
		{Zone: 61, Band: 'T', Easting: 500000, Northing: 4000000, Datum: WGS84},
		{Zone: 30, Band: 'I', Easting: 500000, Northing: 4000000, Datum: WGS84},
		{Zone: 30, Band: 0, Easting: 500000, Northing: 4000000, Datum: WGS84},
	} {
		_, err := ToGeographic(u)
		require.ErrorIs(t, err, ErrInvalidZone, "zone %d band %q", u.Zone, string(u.Band))
	}
}

func TestRoundTripForwardInverse(t *testing.T) {
	datums := []Datum{WGS84, NAD83, ETRS89}
	lats := []float64{-83.0, -60.0, -33.45, -0.5, 0.0, 0.5, 28.1, 40.0151, 59.93, 71.0, 83.5}
	lons := []float64{-179.0, -122.33, -58.4, -3.6531, 0.0, 2.35, 18.4, 100.5, 174.78}

	for _, datum := range datums {
		for _, lat := range lats {
			for _, lon := range lons {
				c := Geographic{Lat: lat, Lon: lon, Datum: datum}
				u, err := ToUTM(c)
				require.NoError(t, err)

				back, err := ToGeographic(u)
				require.NoError(t, err)

				name := fmt.Sprintf("%s %.4f/%.4f", datum, lat, lon)
				assert.InDelta(t, lat, back.Lat, degTolerance, name)
				assert.InDelta(t, lon, back.Lon, degTolerance, name)
			}
		}
	}
}

func TestRoundTripInverseForward(t *testing.T) {
	// Grid coordinates inside a zone's usable easting/northing range.
	eastings := []float64{250000.0, 400000.0, 500000.0, 600000.0, 750000.0}
	northings := []float64{100000.0, 2500000.0, 4430000.0, 7000000.0}

	for _, e := range eastings {
		for _, n := range northings {
			u := UTM{Zone: 30, Band: 'T', Easting: e, Northing: n, Datum: WGS84}
			c, err := ToGeographic(u)
			require.NoError(t, err)

			back, err := ToUTMZone(c, 30)
			require.NoError(t, err)

			name := fmt.Sprintf("%.0fE %.0fN", e, n)
			assert.InDelta(t, e, back.Easting, 0.01, name)
			assert.InDelta(t, n, back.Northing, 0.01, name)
		}
	}
}

func TestRoundTripFarFromCentralMeridian(t *testing.T) {
	// High latitude combined with a large offset from the central
	// meridian is where series truncation bites first: the tangent
	// powers in the higher-order terms grow fast. Keep the grid
	// round trip at millimeter level even out there.
	for _, e := range []float64{250000.0, 330000.0, 670000.0, 750000.0} {
		for _, n := range []float64{6000000.0, 7000000.0, 7800000.0} {
			u := UTM{Zone: 30, Band: 'V', Easting: e, Northing: n, Datum: WGS84}
			c, err := ToGeographic(u)
			require.NoError(t, err)

			back, err := ToUTMZone(c, 30)
			require.NoError(t, err)

			name := fmt.Sprintf("%.0fE %.0fN", e, n)
			assert.InDelta(t, e, back.Easting, 0.002, name)
			assert.InDelta(t, n, back.Northing, 0.002, name)
		}
	}
}

func TestRoundTripSouth(t *testing.T) {
	u := UTM{Zone: 34, Band: 'H', Easting: 445000.0, Northing: 6250000.0, Datum: WGS84}
	c, err := ToGeographic(u)
	require.NoError(t, err)
	assert.Less(t, c.Lat, 0.0)

	back, err := ToUTMZone(c, 34)
	require.NoError(t, err)
	assert.InDelta(t, u.Easting, back.Easting, 0.01)
	assert.InDelta(t, u.Northing, back.Northing, 0.01)
	assert.False(t, back.North())
}
