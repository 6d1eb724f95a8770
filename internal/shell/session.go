// Package shell maps user commands onto the point registry, the
// distance calculator and the document codec. It owns only parsing of
// command arguments and display formatting; all real work happens in
// the core packages.
package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sergiop90/kmzcrt/internal/config"
	"github.com/sergiop90/kmzcrt/internal/document"
	"github.com/sergiop90/kmzcrt/internal/geo"
	"github.com/sergiop90/kmzcrt/internal/kmz"
)

// ErrNoDocument is returned by commands that need an open document.
var ErrNoDocument = fmt.Errorf("no document open, use create or open first")

// ErrUnknownCommand is returned for input that matches no command or alias.
var ErrUnknownCommand = fmt.Errorf("unknown command")

// Session holds the state of one interactive session: the currently
// open document, the session datum and the save path. It replaces the
// original tool's process-wide globals so sessions are independent.
type Session struct {
	cfg   *config.Config
	doc   *document.Document
	path  string // file the document was opened from or saved to
	datum geo.Datum
	icon  *kmz.Icon

	changed bool
	out     io.Writer
}

// aliases maps every accepted spelling onto the canonical command.
var aliases = map[string]string{}

func init() {
	canonical := map[string][]string{
		"exit":         {"quit", "q", "e", "x"},
		"create":       {"new", "n", "c"},
		"open":         {"load", "l", "o"},
		"save":         {"s"},
		"list":         {"sp", "points", "listpoints", "lp", "showpoints"},
		"addlonlat":    {"addlatlon", "al", "npl", "addll"},
		"addutm":       {"au", "autm", "np", "add"},
		"addlist":      {"addfile", "afl"},
		"setdatum":     {"stdt", "setdt"},
		"resetdatum":   {"rstd", "resetdt"},
		"datum":        {"dt"},
		"status":       {"stat", "st"},
		"delete":       {"del", "dp", "remove"},
		"modpoint":     {"mp", "mpoint", "modp"},
		"distancesall": {"distall", "distanceall"},
		"distances":    {"dist", "distline", "distancesline"},
		"distance":     {"d"},
		"help":         {"?"},
	}
	for cmd, alts := range canonical {
		aliases[cmd] = cmd
		for _, a := range alts {
			aliases[a] = cmd
		}
	}
}

// NewSession builds a session from configuration. The session datum
// and optional icon come from the config; a bad icon path degrades to
// no icon with a warning rather than refusing to start.
func NewSession(cfg *config.Config, out io.Writer) (*Session, error) {
	datum, err := geo.ResolveDatum(cfg.Datum)
	if err != nil {
		return nil, err
	}

	s := &Session{cfg: cfg, datum: datum, out: out}

	if cfg.Icon != "" {
		icon, err := kmz.LoadIcon(cfg.Icon)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Icon).Msg("Icon not usable, saving without it")
		} else {
			s.icon = icon
		}
	}

	return s, nil
}

// Document exposes the currently open document, nil when none is open.
func (s *Session) Document() *document.Document { return s.doc }

// Datum returns the session datum applied to UTM input without an
// explicit datum.
func (s *Session) Datum() geo.Datum { return s.datum }

// Changed reports whether the document has unsaved mutations.
func (s *Session) Changed() bool { return s.changed }

// Execute runs one command line. It returns quit=true when the session
// should end. Errors describe what went wrong with this command; the
// session state survives any of them.
func (s *Session) Execute(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	cmd, ok := aliases[strings.ToLower(fields[0])]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}
	args := fields[1:]

	switch cmd {
	case "exit":
		if s.changed {
			log.Warn().Msg("Exiting with unsaved changes")
		}
		return true, nil
	case "create":
		return false, s.cmdCreate(args)
	case "open":
		return false, s.cmdOpen(args)
	case "save":
		return false, s.cmdSave(args)
	case "list":
		return false, s.cmdList()
	case "addlonlat":
		return false, s.cmdAddLonLat(args)
	case "addutm":
		return false, s.cmdAddUTM(args)
	case "addlist":
		return false, s.cmdAddList(args)
	case "delete":
		return false, s.cmdDelete(args)
	case "modpoint":
		return false, s.cmdModPoint(args)
	case "distance":
		return false, s.cmdDistance(args)
	case "distances":
		return false, s.cmdDistances(false)
	case "distancesall":
		return false, s.cmdDistances(true)
	case "setdatum":
		return false, s.cmdSetDatum(args)
	case "resetdatum":
		s.datum = geo.DefaultDatum
		s.printf("Session datum reset to %s\n", s.datum)
		return false, nil
	case "datum":
		s.printf("Session datum: %s (available: %s)\n", s.datum, strings.Join(geo.DatumIDs(), ", "))
		return false, nil
	case "status":
		return false, s.cmdStatus()
	case "help":
		return false, s.cmdHelp(args)
	}

	return false, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// markChanged flags unsaved mutations after a successful registry call.
func (s *Session) markChanged() { s.changed = true }
