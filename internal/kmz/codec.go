package kmz

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	minxml "github.com/tdewolff/minify/v2/xml"

	"github.com/sergiop90/kmzcrt/internal/document"
	"github.com/sergiop90/kmzcrt/internal/geo"
)

// Codec errors.
var (
	ErrMalformedArchive  = fmt.Errorf("not a valid kmz archive")
	ErrMissingMarkup     = fmt.Errorf("archive has no kml document")
	ErrMalformedMarkup   = fmt.Errorf("kml document does not parse")
	ErrMissingName       = fmt.Errorf("placemark has no name")
	ErrMissingCoordinate = fmt.Errorf("placemark has no point coordinates")
)

// Options control serialization.
type Options struct {
	// Minify compacts the inner KML before zipping instead of
	// pretty-printing it.
	Minify bool
	// Icon, when set, is embedded in the archive and referenced by a
	// shared placemark style.
	Icon *Icon
}

// Write serializes a document as a KMZ archive: a zip with the markup
// at its fixed internal path, plus an optional icon file. Coordinates
// are always persisted in geographic form on WGS84, the datum KML is
// defined on; UTM is purely an input/display convenience. The archive
// writer is closed on every exit path, including failure.
func Write(d *document.Document, w io.Writer, opts Options) (err error) {
	root := kml{
		Xmlns: Namespace,
		Document: kmlDocument{
			Name:       d.Name(),
			Placemarks: make([]kmlPlacemark, 0, d.Len()),
		},
	}

	if opts.Icon != nil {
		root.Document.Styles = []kmlStyle{{
			ID:        defaultStyleID,
			IconStyle: &kmlIconStyle{Icon: kmlIcon{Href: iconName}},
		}}
	}

	for _, p := range d.List() {
		c := geo.Reproject(p.Coord, geo.WGS84)

		pm := kmlPlacemark{
			Name:        p.Name,
			Description: p.Description,
			Point:       &kmlPoint{Coordinates: formatCoordinates(c, p.Altitude)},
		}
		switch {
		case p.StyleID != "":
			pm.StyleURL = "#" + p.StyleID
		case opts.Icon != nil:
			pm.StyleURL = "#" + defaultStyleID
		}
		root.Document.Placemarks = append(root.Document.Placemarks, pm)
	}

	data, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return err
	}
	data = append([]byte(xml.Header), data...)

	if opts.Minify {
		m := minify.New()
		m.AddFunc("text/xml", minxml.Minify)
		if data, err = m.Bytes("text/xml", data); err != nil {
			return err
		}
	}

	zw := zip.NewWriter(w)
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	entry, err := zw.Create(markupName)
	if err != nil {
		return err
	}
	if _, err := entry.Write(data); err != nil {
		return err
	}

	if opts.Icon != nil {
		entry, err := zw.Create(iconName)
		if err != nil {
			return err
		}
		if _, err := entry.Write(opts.Icon.PNG); err != nil {
			return err
		}
	}

	return nil
}

// WriteFile serializes a document to a KMZ file on disk.
func WriteFile(d *document.Document, path string, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Write(d, f, opts); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// SkippedPlacemark records one placemark rejected during a best-effort
// load, with its position in the markup.
type SkippedPlacemark struct {
	Index int
	Name  string
	Err   error
}

// LoadReport summarizes a deserialization: how many placemarks were
// accepted and which were skipped.
type LoadReport struct {
	Loaded  int
	Skipped []SkippedPlacemark
}

// Read deserializes a KMZ archive into a fresh document. Files this
// codec did not produce are handled best-effort: optional fields
// default, placemarks missing a name or point coordinates are skipped
// and reported, and duplicate names beyond the first are skipped so
// the registry uniqueness invariant holds. Only structural problems
// (bad zip, no markup entry, markup that does not parse) are fatal.
func Read(r io.ReaderAt, size int64) (*document.Document, *LoadReport, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedArchive, err)
	}

	var markup *zip.File
	for _, f := range zr.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".kml") {
			markup = f
			break
		}
	}
	if markup == nil {
		return nil, nil, ErrMissingMarkup
	}

	rc, err := markup.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedArchive, err)
	}
	data, err := io.ReadAll(rc)
	if closeErr := rc.Close(); closeErr != nil {
		log.Error().Err(closeErr).Str("entry", markup.Name).Msg("Failed to close archive entry")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedArchive, err)
	}

	var root kml
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedMarkup, err)
	}

	doc := document.New(root.Document.Name)
	report := &LoadReport{}

	for i, pm := range root.Document.Placemarks {
		p, err := placemarkToPoint(pm)
		if err == nil {
			err = doc.AddPoint(p)
		}
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedPlacemark{Index: i, Name: pm.Name, Err: err})
			continue
		}
		report.Loaded++
	}

	return doc, report, nil
}

// ReadFile deserializes a KMZ file from disk.
func ReadFile(path string) (*document.Document, *LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close archive")
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}

	return Read(f, info.Size())
}

// placemarkToPoint validates a placemark's required fields and converts
// it into a registry point. Name and coordinates are required, the rest
// defaults.
func placemarkToPoint(pm kmlPlacemark) (document.Point, error) {
	if pm.Name == "" {
		return document.Point{}, ErrMissingName
	}
	if pm.Point == nil {
		return document.Point{}, ErrMissingCoordinate
	}

	lon, lat, alt, err := parseCoordinates(pm.Point.Coordinates)
	if err != nil {
		return document.Point{}, err
	}

	return document.Point{
		Name:        pm.Name,
		Coord:       geo.Geographic{Lat: lat, Lon: lon, Datum: geo.WGS84},
		Altitude:    alt,
		Description: pm.Description,
		StyleID:     strings.TrimPrefix(pm.StyleURL, "#"),
	}, nil
}

// formatCoordinates renders the KML coordinate tuple "lon,lat[,alt]".
func formatCoordinates(c geo.Geographic, alt *float64) string {
	s := strconv.FormatFloat(c.Lon, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lat, 'f', -1, 64)
	if alt != nil {
		s += "," + strconv.FormatFloat(*alt, 'f', -1, 64)
	}
	return s
}

// parseCoordinates reads the first tuple of a KML coordinates string.
// A Point should carry exactly one, but foreign files sometimes pack
// whitespace-separated lists; the first tuple wins.
func parseCoordinates(raw string) (lon, lat float64, alt *float64, err error) {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) == 0 {
		return 0, 0, nil, ErrMissingCoordinate
	}

	parts := strings.Split(fields[0], ",")
	if len(parts) < 2 {
		return 0, 0, nil, fmt.Errorf("%w: tuple %q", ErrMissingCoordinate, fields[0])
	}

	lon, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%w: %v", ErrMissingCoordinate, err)
	}
	lat, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%w: %v", ErrMissingCoordinate, err)
	}

	if len(parts) >= 3 {
		if v, altErr := strconv.ParseFloat(parts[2], 64); altErr == nil {
			alt = &v // altitude is optional, a bad value just defaults away
		}
	}

	return lon, lat, alt, nil
}
