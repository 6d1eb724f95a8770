package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergiop90/kmzcrt/internal/config"
	"github.com/sergiop90/kmzcrt/internal/document"
	"github.com/sergiop90/kmzcrt/internal/geo"
)

func newTestSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	s, err := NewSession(config.Default(), out)
	require.NoError(t, err)
	return s, out
}

// run executes a command that must succeed and not quit.
func run(t *testing.T, s *Session, line string) {
	t.Helper()
	quit, err := s.Execute(line)
	require.NoError(t, err, "command %q", line)
	require.False(t, quit, "command %q", line)
}

func TestCreateSaveOpenListScenario(t *testing.T) {
	s, out := newTestSession(t)
	path := filepath.Join(t.TempDir(), "f.kmz")

	run(t, s, "create")
	run(t, s, "addlonlat Point_1 40.0151 -3.6531")
	run(t, s, "save "+path)
	run(t, s, "open "+path)
	run(t, s, "list")

	points := s.Document().List()
	require.Len(t, points, 1)
	assert.Equal(t, "Point_1", points[0].Name)
	assert.InDelta(t, 40.0151, points[0].Coord.Lat, 1e-9)
	assert.InDelta(t, -3.6531, points[0].Coord.Lon, 1e-9)
	assert.Contains(t, out.String(), "Point_1")
	assert.False(t, s.Changed())
}

func TestAddUTMRenameScenario(t *testing.T) {
	s, _ := newTestSession(t)

	run(t, s, "create")
	run(t, s, "addutm Point_x 0 0 10T WGS84")

	before, err := s.Document().Get("Point_x")
	require.NoError(t, err)

	run(t, s, "modpoint rename Point_x Point_1")

	points := s.Document().List()
	require.Len(t, points, 1)
	assert.Equal(t, "Point_1", points[0].Name)
	// Renaming must not alter the coordinate.
	assert.Equal(t, before.Coord, points[0].Coord)

	// The stored coordinate is the geographic equivalent of the UTM input.
	u := geo.UTM{Zone: 10, Band: 'T', Easting: 0, Northing: 0, Datum: geo.WGS84}
	want, err := geo.ToGeographic(u)
	require.NoError(t, err)
	assert.InDelta(t, want.Lat, points[0].Coord.Lat, 1e-9)
	assert.InDelta(t, want.Lon, points[0].Coord.Lon, 1e-9)
}

func TestOpenFailureLeavesDocumentUntouched(t *testing.T) {
	s, _ := newTestSession(t)

	run(t, s, "create Keep Me")
	run(t, s, "addlonlat Point_1 40.0 -3.0")

	bogus := filepath.Join(t.TempDir(), "bogus.kmz")
	require.NoError(t, os.WriteFile(bogus, []byte("not a zip"), 0644))

	_, err := s.Execute("open " + bogus)
	require.Error(t, err)

	assert.Equal(t, "Keep Me", s.Document().Name())
	assert.Equal(t, 1, s.Document().Len())
}

func TestCommandsRequireOpenDocument(t *testing.T) {
	s, _ := newTestSession(t)

	for _, line := range []string{
		"list", "addlonlat P 1 2", "addutm P 1 2 30T", "delete P",
		"modpoint rename a b", "distance a b", "save x.kmz",
	} {
		_, err := s.Execute(line)
		require.ErrorIs(t, err, ErrNoDocument, "command %q", line)
	}
}

func TestAliasesResolve(t *testing.T) {
	s, out := newTestSession(t)

	run(t, s, "new")           // create
	run(t, s, "al P1 40 -3")   // addlonlat
	run(t, s, "add P2 440000 4470000 30T") // addutm
	run(t, s, "lp")            // list
	assert.Equal(t, 2, s.Document().Len())
	assert.Contains(t, out.String(), "P1")

	_, err := s.Execute("frobnicate")
	require.ErrorIs(t, err, ErrUnknownCommand)
}

func TestExitQuits(t *testing.T) {
	s, _ := newTestSession(t)
	for _, line := range []string{"exit", "quit", "q"} {
		quit, err := s.Execute(line)
		require.NoError(t, err)
		assert.True(t, quit, "command %q", line)
	}
}

func TestSessionDatumCommands(t *testing.T) {
	s, out := newTestSession(t)
	assert.True(t, s.Datum().Equal(geo.WGS84))

	run(t, s, "setdatum etrs89")
	assert.True(t, s.Datum().Equal(geo.ETRS89))

	// UTM input without an explicit datum now uses the session datum.
	run(t, s, "create")
	run(t, s, "addutm P1 440000 4470000 30T")
	p, err := s.Document().Get("P1")
	require.NoError(t, err)
	assert.True(t, p.Coord.Datum.Equal(geo.ETRS89))

	run(t, s, "resetdatum")
	assert.True(t, s.Datum().Equal(geo.WGS84))

	_, err = s.Execute("setdatum ED50")
	require.ErrorIs(t, err, geo.ErrUnknownDatum)

	run(t, s, "datum")
	assert.Contains(t, out.String(), "WGS84")
}

func TestDuplicateAndNotFoundSurface(t *testing.T) {
	s, _ := newTestSession(t)
	run(t, s, "create")
	run(t, s, "addlonlat Point_1 40 -3")

	_, err := s.Execute("addlonlat Point_1 41 -4")
	require.ErrorIs(t, err, document.ErrDuplicateName)
	assert.Equal(t, 1, s.Document().Len())

	_, err = s.Execute("delete missing")
	require.ErrorIs(t, err, document.ErrNotFound)

	_, err = s.Execute("modpoint rename missing other")
	require.ErrorIs(t, err, document.ErrNotFound)
}

func TestMoveRejectsOutOfRangeCoordinates(t *testing.T) {
	s, _ := newTestSession(t)
	run(t, s, "create")
	run(t, s, "addlonlat Point_1 40.0 -3.0")

	_, err := s.Execute("modpoint move Point_1 95 200")
	require.ErrorIs(t, err, geo.ErrOutOfRange)

	// The registry keeps the original coordinate.
	p, err := s.Document().Get("Point_1")
	require.NoError(t, err)
	assert.Equal(t, 40.0, p.Coord.Lat)
	assert.Equal(t, -3.0, p.Coord.Lon)

	_, err = s.Execute("addlonlat Bad 91 0")
	require.ErrorIs(t, err, geo.ErrOutOfRange)
	assert.Equal(t, 1, s.Document().Len())
}

func TestDistanceCommands(t *testing.T) {
	s, out := newTestSession(t)
	run(t, s, "create")
	run(t, s, "addlonlat A 40.4168 -3.7038")
	run(t, s, "addlonlat B 41.3874 2.1686")
	run(t, s, "addlonlat C 39.4699 -0.3763")

	run(t, s, "distance A B")
	run(t, s, "distances")
	run(t, s, "distancesall")

	text := out.String()
	assert.Contains(t, text, "A -> B:")
	assert.Contains(t, text, "B -> C:")
	assert.Contains(t, text, "A -> C:")
	assert.Contains(t, text, "Total along chain:")

	run(t, s, "distance A A")
	assert.Contains(t, out.String(), "A -> A: 0.00 m")
}

func TestAddListCommand(t *testing.T) {
	s, out := newTestSession(t)
	run(t, s, "create")

	lines := []string{
		"P1 500000 4649776 30T",
		"P2 500100 4649776 30T",
		"P3 500200 4649776 30T",
		"P4 500300 4649776 99Q",
		"P5 500400 4649776 30T",
		"P6 500500 4649776 30T",
		"P7 500600 4649776 30T",
		"P8 500700 4649776 30T",
		"P9 500800 4649776 30T",
		"P10 500900 4649776 30T",
	}
	path := filepath.Join(t.TempDir(), "points.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644))

	run(t, s, "addlist "+path)

	assert.Equal(t, 9, s.Document().Len())
	assert.Contains(t, out.String(), "Imported 9 points")
	assert.Contains(t, out.String(), "Skipped 1 entries")
	assert.True(t, s.Changed())
}

func TestStatusAndHelp(t *testing.T) {
	s, out := newTestSession(t)

	run(t, s, "status")
	assert.Contains(t, out.String(), "No document open")

	run(t, s, "create Survey")
	run(t, s, "addlonlat P1 40 -3")
	run(t, s, "status")
	assert.Contains(t, out.String(), "Survey")
	assert.Contains(t, out.String(), "unsaved changes")

	run(t, s, "help")
	assert.Contains(t, out.String(), "addutm")

	run(t, s, "help addutm")
	assert.Contains(t, out.String(), "addutm <name> <easting> <northing> <zone> [datum]")

	_, err := s.Execute("help frobnicate")
	require.ErrorIs(t, err, ErrUnknownCommand)
}
