package geo

import (
	"fmt"
	"math"
)

// UTM projection constants.
const (
	scaleFactor        = 0.9996
	falseEasting       = 500000.0
	falseNorthingSouth = 10000000.0

	// MaxLatitude bounds the supported projection band. Inputs outside
	// it are rejected, never clamped.
	MaxLatitude = 84.0
	MinLatitude = -84.0
)

// ToUTM projects a geographic coordinate into its natural UTM zone,
// derived from the longitude.
func ToUTM(c Geographic) (UTM, error) {
	return ToUTMZone(c, 0)
}

// ToUTMZone projects a geographic coordinate into an explicit zone.
// Zone 0 means "use the natural zone". Forcing a neighboring zone is
// legitimate for points near zone boundaries; the projection simply
// runs with that zone's central meridian. The eighth-order Redfearn
// series keeps the round trip well under a centimeter even several
// degrees away from the central meridian.
func ToUTMZone(c Geographic, zone int) (UTM, error) {
	if c.Lat < MinLatitude || c.Lat > MaxLatitude {
		return UTM{}, fmt.Errorf("%w: latitude %.6f outside UTM band [%.0f, %.0f]",
			ErrOutOfRange, c.Lat, MinLatitude, MaxLatitude)
	}
	if c.Lon < -180.0 || c.Lon > 180.0 {
		return UTM{}, fmt.Errorf("%w: longitude %.6f outside [-180, 180]", ErrOutOfRange, c.Lon)
	}

	if zone == 0 {
		zone = ZoneFromLon(c.Lon)
	} else if zone < 1 || zone > 60 {
		return UTM{}, fmt.Errorf("%w: zone %d not in [1, 60]", ErrInvalidZone, zone)
	}

	a := c.Datum.A
	e2 := c.Datum.E2()
	ep2 := c.Datum.EP2()

	lat := degToRad(c.Lat)
	lon := degToRad(c.Lon)
	lon0 := degToRad(centralMeridian(zone))

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	tanLat := math.Tan(lat)

	n := a / math.Sqrt(1.0-e2*sinLat*sinLat)
	t := tanLat * tanLat
	cc := ep2 * cosLat * cosLat
	aa := (lon - lon0) * cosLat

	m := meridianArc(a, e2, lat)

	easting := scaleFactor*n*(aa+
		(1.0-t+cc)*aa*aa*aa/6.0+
		(5.0-18.0*t+t*t+72.0*cc-58.0*ep2)*math.Pow(aa, 5)/120.0+
		(61.0-479.0*t+179.0*t*t-t*t*t)*math.Pow(aa, 7)/5040.0) + falseEasting

	northing := scaleFactor * (m + n*tanLat*(aa*aa/2.0+
		(5.0-t+9.0*cc+4.0*cc*cc)*math.Pow(aa, 4)/24.0+
		(61.0-58.0*t+t*t+600.0*cc-330.0*ep2)*math.Pow(aa, 6)/720.0+
		(1385.0-3111.0*t+543.0*t*t-t*t*t)*math.Pow(aa, 8)/40320.0))

	if c.Lat < 0 {
		northing += falseNorthingSouth
	}

	return UTM{
		Zone:     zone,
		Band:     BandFromLat(c.Lat),
		Easting:  easting,
		Northing: northing,
		Datum:    c.Datum,
	}, nil
}

// ToGeographic inverts the UTM projection back to latitude/longitude
// on the coordinate's datum.
func ToGeographic(u UTM) (Geographic, error) {
	if u.Zone < 1 || u.Zone > 60 {
		return Geographic{}, fmt.Errorf("%w: zone %d not in [1, 60]", ErrInvalidZone, u.Zone)
	}
	if !validBand(u.Band) {
		return Geographic{}, fmt.Errorf("%w: band letter %q", ErrInvalidZone, string(u.Band))
	}

	a := u.Datum.A
	e2 := u.Datum.E2()
	ep2 := u.Datum.EP2()

	x := u.Easting - falseEasting
	y := u.Northing
	if !u.North() {
		y -= falseNorthingSouth
	}

	m := y / scaleFactor
	mu := m / (a * (1.0 - e2/4.0 - 3.0*e2*e2/64.0 - 5.0*e2*e2*e2/256.0))

	e1 := (1.0 - math.Sqrt(1.0-e2)) / (1.0 + math.Sqrt(1.0-e2))

	// Footprint latitude
	phi1 := mu +
		(3.0*e1/2.0-27.0*math.Pow(e1, 3)/32.0)*math.Sin(2.0*mu) +
		(21.0*e1*e1/16.0-55.0*math.Pow(e1, 4)/32.0)*math.Sin(4.0*mu) +
		(151.0*math.Pow(e1, 3)/96.0)*math.Sin(6.0*mu) +
		(1097.0*math.Pow(e1, 4)/512.0)*math.Sin(8.0*mu)

	sinPhi1 := math.Sin(phi1)
	cosPhi1 := math.Cos(phi1)
	tanPhi1 := math.Tan(phi1)

	c1 := ep2 * cosPhi1 * cosPhi1
	t1 := tanPhi1 * tanPhi1
	n1 := a / math.Sqrt(1.0-e2*sinPhi1*sinPhi1)
	r1 := a * (1.0 - e2) / math.Pow(1.0-e2*sinPhi1*sinPhi1, 1.5)
	d := x / (n1 * scaleFactor)

	lat := phi1 - (n1*tanPhi1/r1)*(d*d/2.0-
		(5.0+3.0*t1+10.0*c1-4.0*c1*c1-9.0*ep2)*math.Pow(d, 4)/24.0+
		(61.0+90.0*t1+298.0*c1+45.0*t1*t1-252.0*ep2-3.0*c1*c1)*math.Pow(d, 6)/720.0-
		(1385.0+3633.0*t1+4095.0*t1*t1+1575.0*t1*t1*t1)*math.Pow(d, 8)/40320.0)

	lon := degToRad(centralMeridian(u.Zone)) +
		(d-
			(1.0+2.0*t1+c1)*d*d*d/6.0+
			(5.0-2.0*c1+28.0*t1-3.0*c1*c1+8.0*ep2+24.0*t1*t1)*math.Pow(d, 5)/120.0-
			(61.0+662.0*t1+1320.0*t1*t1+720.0*t1*t1*t1)*math.Pow(d, 7)/5040.0)/cosPhi1

	return Geographic{
		Lat:   radToDeg(lat),
		Lon:   radToDeg(lon),
		Datum: u.Datum,
	}, nil
}

// centralMeridian returns the central meridian longitude of a zone.
func centralMeridian(zone int) float64 {
	return float64(zone-1)*6.0 - 180.0 + 3.0
}

// meridianArc computes the distance along the meridian from the equator
// to the given latitude (Snyder 3-21).
func meridianArc(a, e2, lat float64) float64 {
	e4 := e2 * e2
	e6 := e4 * e2

	return a * ((1.0-e2/4.0-3.0*e4/64.0-5.0*e6/256.0)*lat -
		(3.0*e2/8.0+3.0*e4/32.0+45.0*e6/1024.0)*math.Sin(2.0*lat) +
		(15.0*e4/256.0+45.0*e6/1024.0)*math.Sin(4.0*lat) -
		(35.0*e6/3072.0)*math.Sin(6.0*lat))
}
