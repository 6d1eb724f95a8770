package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sergiop90/kmzcrt/internal/document"
	"github.com/sergiop90/kmzcrt/internal/geo"
	"github.com/sergiop90/kmzcrt/internal/kmz"
	"github.com/sergiop90/kmzcrt/internal/pointlist"
)

func (s *Session) needDoc() error {
	if s.doc == nil {
		return ErrNoDocument
	}
	return nil
}

// cmdCreate starts a fresh empty document, replacing any open one.
// Unsaved mutations of the previous document are discarded.
func (s *Session) cmdCreate(args []string) error {
	name := s.cfg.DocumentName
	if len(args) > 0 {
		name = strings.Join(args, " ")
	}

	if s.doc != nil && s.changed {
		log.Warn().Str("document", s.doc.Name()).Msg("Discarding unsaved changes")
	}

	s.doc = document.New(name)
	s.path = ""
	s.changed = false
	s.printf("Created empty document %q\n", name)
	return nil
}

// cmdOpen loads a KMZ file. On failure the previously open document is
// left untouched.
func (s *Session) cmdOpen(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: open <path>")
	}

	doc, report, err := kmz.ReadFile(args[0])
	if err != nil {
		return err
	}

	if s.doc != nil && s.changed {
		log.Warn().Str("document", s.doc.Name()).Msg("Discarding unsaved changes")
	}

	s.doc = doc
	s.path = args[0]
	s.changed = false

	s.printf("Opened %s: %d points\n", args[0], report.Loaded)
	for _, skip := range report.Skipped {
		log.Warn().
			Int("placemark", skip.Index+1).
			Str("name", skip.Name).
			Err(skip.Err).
			Msg("Placemark skipped")
	}
	return nil
}

// cmdSave writes the document to disk. With no argument it reuses the
// path the document was opened from or last saved to.
func (s *Session) cmdSave(args []string) error {
	if err := s.needDoc(); err != nil {
		return err
	}

	path := s.path
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("usage: save <path> (no previous path to reuse)")
	}

	opts := kmz.Options{Minify: s.cfg.Minify, Icon: s.icon}
	if err := kmz.WriteFile(s.doc, path, opts); err != nil {
		return err
	}

	s.path = path
	s.changed = false
	s.printf("Saved %d points to %s\n", s.doc.Len(), path)
	return nil
}

func (s *Session) cmdList() error {
	if err := s.needDoc(); err != nil {
		return err
	}

	points := s.doc.List()
	if len(points) == 0 {
		s.printf("Document %q is empty\n", s.doc.Name())
		return nil
	}

	s.printf("Points in %q:\n", s.doc.Name())
	for i, p := range points {
		line := fmt.Sprintf("%3d  %-20s %11.6f %12.6f", i+1, p.Name, p.Coord.Lat, p.Coord.Lon)
		// UTM display is a convenience; points outside the band just
		// show their geographic form.
		if u, err := geo.ToUTM(p.Coord); err == nil {
			line += fmt.Sprintf("  %s %.2fE %.2fN", u.ZoneLabel(), u.Easting, u.Northing)
		}
		if p.Altitude != nil {
			line += fmt.Sprintf("  alt %.1fm", *p.Altitude)
		}
		s.printf("%s\n", line)
	}
	return nil
}

func (s *Session) cmdAddLonLat(args []string) error {
	if err := s.needDoc(); err != nil {
		return err
	}
	if len(args) != 3 {
		return fmt.Errorf("usage: addlonlat <name> <lat> <lon>")
	}

	lat, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("longitude: %w", err)
	}

	coord := geo.Geographic{Lat: lat, Lon: lon, Datum: geo.DefaultDatum}
	if err := s.doc.Add(args[0], coord); err != nil {
		return err
	}

	s.markChanged()
	s.printf("Added %q at %s\n", args[0], coord)
	return nil
}

func (s *Session) cmdAddUTM(args []string) error {
	if err := s.needDoc(); err != nil {
		return err
	}
	if len(args) != 4 && len(args) != 5 {
		return fmt.Errorf("usage: addutm <name> <easting> <northing> <zone> [datum]")
	}

	easting, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("easting: %w", err)
	}
	northing, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("northing: %w", err)
	}
	zone, band, err := geo.ParseZoneLabel(args[3])
	if err != nil {
		return err
	}

	datum := s.datum
	if len(args) == 5 {
		if datum, err = geo.ResolveDatum(args[4]); err != nil {
			return err
		}
	}

	u := geo.UTM{Zone: zone, Band: band, Easting: easting, Northing: northing, Datum: datum}
	if err := s.doc.AddFromUTM(args[0], u); err != nil {
		return err
	}

	s.markChanged()
	p, _ := s.doc.Get(args[0])
	s.printf("Added %q at %s (from %s)\n", args[0], p.Coord, u)
	return nil
}

// cmdAddList bulk-imports a point list file. Bad lines and rejected
// entries are reported individually; everything valid goes in.
func (s *Session) cmdAddList(args []string) error {
	if err := s.needDoc(); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: addlist <path>")
	}

	entries, badLines, err := pointlist.ParseFile(args[0], s.datum)
	if err != nil {
		return err
	}

	report := s.doc.AddBulk(entries)
	if len(report.Added) > 0 {
		s.markChanged()
	}

	s.printf("Imported %d points from %s\n", len(report.Added), args[0])
	for _, bad := range badLines {
		log.Warn().Int("line", bad.Line).Str("text", bad.Text).Err(bad.Err).Msg("Line skipped")
	}
	for _, skip := range report.Skipped {
		log.Warn().Int("line", skip.Line).Str("name", skip.Name).Err(skip.Err).Msg("Entry skipped")
	}
	if n := len(badLines) + len(report.Skipped); n > 0 {
		s.printf("Skipped %d entries, see warnings above\n", n)
	}
	return nil
}

func (s *Session) cmdDelete(args []string) error {
	if err := s.needDoc(); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <name>")
	}

	if err := s.doc.Delete(args[0]); err != nil {
		return err
	}
	s.markChanged()
	s.printf("Deleted %q\n", args[0])
	return nil
}

// cmdModPoint handles the modpoint subcommands: rename and move.
func (s *Session) cmdModPoint(args []string) error {
	if err := s.needDoc(); err != nil {
		return err
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: modpoint rename <old> <new> | modpoint move <name> <lat> <lon>")
	}

	switch args[0] {
	case "rename":
		if len(args) != 3 {
			return fmt.Errorf("usage: modpoint rename <old> <new>")
		}
		if err := s.doc.Rename(args[1], args[2]); err != nil {
			return err
		}
		s.markChanged()
		s.printf("Renamed %q to %q\n", args[1], args[2])
		return nil

	case "move":
		if len(args) != 4 {
			return fmt.Errorf("usage: modpoint move <name> <lat> <lon>")
		}
		lat, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("latitude: %w", err)
		}
		lon, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return fmt.Errorf("longitude: %w", err)
		}
		coord := geo.Geographic{Lat: lat, Lon: lon, Datum: geo.DefaultDatum}
		if err := s.doc.Move(args[1], coord); err != nil {
			return err
		}
		s.markChanged()
		s.printf("Moved %q to %s\n", args[1], coord)
		return nil
	}

	return fmt.Errorf("unknown modpoint action %q (rename or move)", args[0])
}

func (s *Session) cmdDistance(args []string) error {
	if err := s.needDoc(); err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("usage: distance <name1> <name2>")
	}

	a, err := s.doc.Get(args[0])
	if err != nil {
		return err
	}
	b, err := s.doc.Get(args[1])
	if err != nil {
		return err
	}

	s.printf("%s -> %s: %.2f m\n", a.Name, b.Name, geo.Distance(a.Coord, b.Coord))
	return nil
}

// cmdDistances prints distances between consecutive points, or between
// every pair when all is set.
func (s *Session) cmdDistances(all bool) error {
	if err := s.needDoc(); err != nil {
		return err
	}

	points := s.doc.List()
	if len(points) < 2 {
		s.printf("Need at least two points\n")
		return nil
	}

	if all {
		for i := 0; i < len(points); i++ {
			for j := i + 1; j < len(points); j++ {
				s.printf("%s -> %s: %.2f m\n", points[i].Name, points[j].Name,
					geo.Distance(points[i].Coord, points[j].Coord))
			}
		}
		return nil
	}

	var total float64
	for i := 0; i < len(points)-1; i++ {
		d := geo.Distance(points[i].Coord, points[i+1].Coord)
		total += d
		s.printf("%s -> %s: %.2f m\n", points[i].Name, points[i+1].Name, d)
	}
	s.printf("Total along chain: %.2f m\n", total)
	return nil
}

func (s *Session) cmdSetDatum(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: setdatum <%s>", strings.Join(geo.DatumIDs(), "|"))
	}

	datum, err := geo.ResolveDatum(args[0])
	if err != nil {
		return err
	}
	s.datum = datum
	s.printf("Session datum set to %s\n", datum)
	return nil
}

func (s *Session) cmdStatus() error {
	if s.doc == nil {
		s.printf("No document open. Session datum: %s\n", s.datum)
		return nil
	}

	path := s.path
	if path == "" {
		path = "(not saved yet)"
	}
	saved := "saved"
	if s.changed {
		saved = "unsaved changes"
	}
	s.printf("Document %q: %d points, %s, file %s, session datum %s\n",
		s.doc.Name(), s.doc.Len(), saved, path, s.datum)
	return nil
}
