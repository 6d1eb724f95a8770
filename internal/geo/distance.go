package geo

import "math"

// Reproject shifts a geographic coordinate onto a target datum by going
// through geocentric (ECEF) coordinates. When source and target datum
// are identical the input is returned untouched, with no numerical
// drift. The supported datums are all geocentric, so the shift is a
// pure ellipsoid change.
func Reproject(c Geographic, target Datum) Geographic {
	if c.Datum.Equal(target) {
		return c
	}

	x, y, z := toECEF(c)
	return fromECEF(x, y, z, target)
}

// toECEF converts a geographic coordinate (zero height) to earth-centered
// earth-fixed cartesian coordinates on its datum ellipsoid.
func toECEF(c Geographic) (x, y, z float64) {
	lat := degToRad(c.Lat)
	lon := degToRad(c.Lon)
	e2 := c.Datum.E2()

	sinLat := math.Sin(lat)
	n := c.Datum.A / math.Sqrt(1.0-e2*sinLat*sinLat)

	x = n * math.Cos(lat) * math.Cos(lon)
	y = n * math.Cos(lat) * math.Sin(lon)
	z = n * (1.0 - e2) * sinLat
	return x, y, z
}

// fromECEF converts cartesian coordinates back to geographic form on the
// given datum, iterating the latitude until it converges.
func fromECEF(x, y, z float64, datum Datum) Geographic {
	e2 := datum.E2()
	p := math.Hypot(x, y)
	lon := math.Atan2(y, x)

	// Start from the spherical latitude and refine.
	lat := math.Atan2(z, p*(1.0-e2))
	for i := 0; i < 10; i++ {
		sinLat := math.Sin(lat)
		n := datum.A / math.Sqrt(1.0-e2*sinLat*sinLat)
		next := math.Atan2(z+e2*n*sinLat, p)
		if math.Abs(next-lat) < 1e-14 {
			lat = next
			break
		}
		lat = next
	}

	return Geographic{Lat: radToDeg(lat), Lon: radToDeg(lon), Datum: datum}
}

// Distance returns the geodesic distance in meters between two
// geographic coordinates, computed with Vincenty's inverse formula on
// b's datum ellipsoid. If the coordinates carry different datums, a is
// reprojected onto b's datum first; this asymmetry in datum choice is
// deliberate and documented behavior.
func Distance(a, b Geographic) float64 {
	if !a.Datum.Equal(b.Datum) {
		a = Reproject(a, b.Datum)
	}
	if a.Lat == b.Lat && a.Lon == b.Lon {
		return 0.0
	}

	major := b.Datum.A
	minor := b.Datum.B()
	f := b.Datum.F()

	phi1 := degToRad(a.Lat)
	phi2 := degToRad(b.Lat)
	deltaLon := degToRad(b.Lon - a.Lon)

	u1 := math.Atan((1.0 - f) * math.Tan(phi1))
	u2 := math.Atan((1.0 - f) * math.Tan(phi2))
	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	lambda := deltaLon
	var sinSigma, cosSigma, sigma, cos2Alpha, cos2SigmaM float64

	for i := 0; i < 200; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)

		sinSigma = math.Sqrt(math.Pow(cosU2*sinLambda, 2) +
			math.Pow(cosU1*sinU2-sinU1*cosU2*cosLambda, 2))
		if sinSigma == 0 {
			return 0.0 // coincident after rounding
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)

		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cos2Alpha = 1.0 - sinAlpha*sinAlpha
		if cos2Alpha == 0 {
			cos2SigmaM = 0 // equatorial line
		} else {
			cos2SigmaM = cosSigma - 2.0*sinU1*sinU2/cos2Alpha
		}

		c := f / 16.0 * cos2Alpha * (4.0 + f*(4.0-3.0*cos2Alpha))
		prev := lambda
		lambda = deltaLon + (1.0-c)*f*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1.0+2.0*cos2SigmaM*cos2SigmaM)))

		if math.Abs(lambda-prev) < 1e-12 {
			break
		}
	}

	u2sq := cos2Alpha * (major*major - minor*minor) / (minor * minor)
	bigA := 1.0 + u2sq/16384.0*(4096.0+u2sq*(-768.0+u2sq*(320.0-175.0*u2sq)))
	bigB := u2sq / 1024.0 * (256.0 + u2sq*(-128.0+u2sq*(74.0-47.0*u2sq)))

	deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4.0*
		(cosSigma*(-1.0+2.0*cos2SigmaM*cos2SigmaM)-
			bigB/6.0*cos2SigmaM*(-3.0+4.0*sinSigma*sinSigma)*(-3.0+4.0*cos2SigmaM*cos2SigmaM)))

	return minor * bigA * (sigma - deltaSigma)
}
