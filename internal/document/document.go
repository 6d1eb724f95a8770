// Package document holds the in-memory placemark registry. A Document
// owns an ordered, name-keyed collection of points; every coordinate is
// stored in its canonical geographic form.
package document

import (
	"fmt"

	"github.com/sergiop90/kmzcrt/internal/geo"
)

// Registry errors.
var (
	ErrDuplicateName = fmt.Errorf("point name already in use")
	ErrNotFound      = fmt.Errorf("point not found")
	ErrEmptyName     = fmt.Errorf("point name is empty")
)

// Point is a single named placemark. Name is its identity: case
// sensitive and unique within a Document.
type Point struct {
	Name        string
	Coord       geo.Geographic
	Altitude    *float64 // meters above the ellipsoid, nil when unknown
	Description string
	StyleID     string // reference into the document's shared styles
}

// Document is an ordered collection of points plus metadata. It is not
// safe for concurrent use; callers serialize access per session.
type Document struct {
	name   string
	points []Point
	byName map[string]int // name -> index into points
}

// New creates an empty document with the given display name.
func New(name string) *Document {
	return &Document{
		name:   name,
		byName: make(map[string]int),
	}
}

// Name returns the document display name.
func (d *Document) Name() string { return d.name }

// SetName changes the document display name.
func (d *Document) SetName(name string) { d.name = name }

// Len returns the number of points.
func (d *Document) Len() int { return len(d.points) }

// Add appends a new point at the end of the collection.
func (d *Document) Add(name string, coord geo.Geographic) error {
	return d.AddPoint(Point{Name: name, Coord: coord})
}

// AddPoint appends a fully-populated point, preserving insertion order.
// The registry state is unchanged on failure.
func (d *Document) AddPoint(p Point) error {
	if p.Name == "" {
		return ErrEmptyName
	}
	if _, exists := d.byName[p.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
	}
	if err := p.Coord.Validate(); err != nil {
		return err
	}

	d.byName[p.Name] = len(d.points)
	d.points = append(d.points, p)
	return nil
}

// AddFromUTM converts the coordinate to its canonical geographic form
// and appends it. Projection errors propagate unchanged.
func (d *Document) AddFromUTM(name string, u geo.UTM) error {
	if name == "" {
		return ErrEmptyName
	}
	if _, exists := d.byName[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	coord, err := geo.ToGeographic(u)
	if err != nil {
		return err
	}
	return d.Add(name, coord)
}

// Rename changes a point's name in place. Coordinate and position in
// the collection are untouched.
func (d *Document) Rename(oldName, newName string) error {
	idx, ok := d.byName[oldName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, oldName)
	}
	if newName == "" {
		return ErrEmptyName
	}
	if other, exists := d.byName[newName]; exists && other != idx {
		return fmt.Errorf("%w: %q", ErrDuplicateName, newName)
	}

	delete(d.byName, oldName)
	d.byName[newName] = idx
	d.points[idx].Name = newName
	return nil
}

// Move replaces a point's coordinate, leaving everything else as is.
// Like every single-point operation it is all-or-nothing: an invalid
// coordinate leaves the registry untouched.
func (d *Document) Move(name string, coord geo.Geographic) error {
	idx, ok := d.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err := coord.Validate(); err != nil {
		return err
	}
	d.points[idx].Coord = coord
	return nil
}

// Delete removes a point. All other points keep their relative order.
func (d *Document) Delete(name string) error {
	idx, ok := d.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	d.points = append(d.points[:idx], d.points[idx+1:]...)
	delete(d.byName, name)
	for i := idx; i < len(d.points); i++ {
		d.byName[d.points[i].Name] = i
	}
	return nil
}

// Get returns a copy of the named point.
func (d *Document) Get(name string) (Point, error) {
	idx, ok := d.byName[name]
	if !ok {
		return Point{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return d.points[idx], nil
}

// List returns a read-only snapshot of all points in insertion order.
func (d *Document) List() []Point {
	out := make([]Point, len(d.points))
	copy(out, d.points)
	return out
}

// BulkEntry is one parsed line of a bulk point import.
type BulkEntry struct {
	Line int // source line number, 1-based, for reporting
	Name string
	UTM  geo.UTM
}

// BulkSkip records one entry rejected during a bulk import.
type BulkSkip struct {
	Line int
	Name string
	Err  error
}

// BulkReport summarizes a bulk import: which entries made it in and
// which were skipped, in input order.
type BulkReport struct {
	Added   []string
	Skipped []BulkSkip
}

// AddBulk imports entries one at a time in input order. A failing entry
// is skipped and recorded, the remainder keeps going; already-accepted
// points stay in the document. This is deliberately not a transaction.
func (d *Document) AddBulk(entries []BulkEntry) BulkReport {
	var report BulkReport
	for _, e := range entries {
		if err := d.AddFromUTM(e.Name, e.UTM); err != nil {
			report.Skipped = append(report.Skipped, BulkSkip{Line: e.Line, Name: e.Name, Err: err})
			continue
		}
		report.Added = append(report.Added, e.Name)
	}
	return report
}
