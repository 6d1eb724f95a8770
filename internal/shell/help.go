package shell

import (
	"fmt"
	"sort"
	"strings"
)

// helpEntries holds per-command usage and description, keyed by the
// canonical command name.
var helpEntries = map[string]struct {
	usage string
	desc  string
}{
	"create":       {"create [name]", "Start a new empty document, discarding the open one"},
	"open":         {"open <path>", "Open a KMZ file for editing"},
	"save":         {"save [path]", "Save the document; without a path, reuse the last one"},
	"list":         {"list", "Show all points with geographic and UTM coordinates"},
	"addlonlat":    {"addlonlat <name> <lat> <lon>", "Add a point from geographic coordinates"},
	"addutm":       {"addutm <name> <easting> <northing> <zone> [datum]", "Add a point from UTM coordinates, e.g. addutm P1 440000 4470000 30T"},
	"addlist":      {"addlist <path>", "Bulk-import points from a text file (name x y zone [datum] per line)"},
	"delete":       {"delete <name>", "Delete a point"},
	"modpoint":     {"modpoint rename <old> <new> | modpoint move <name> <lat> <lon>", "Rename or move a point"},
	"distance":     {"distance <name1> <name2>", "Geodesic distance between two points in meters"},
	"distances":    {"distances", "Distances between consecutive points (a chain)"},
	"distancesall": {"distancesall", "Distances between every pair of points"},
	"setdatum":     {"setdatum <id>", "Set the session datum for UTM input"},
	"resetdatum":   {"resetdatum", "Reset the session datum to WGS84"},
	"datum":        {"datum", "Show the session datum and the supported ones"},
	"status":       {"status", "Show document name, point count and unsaved-change state"},
	"help":         {"help [command]", "Show this overview or help for one command"},
	"exit":         {"exit", "Leave the shell (unsaved changes are lost)"},
}

func (s *Session) cmdHelp(args []string) error {
	if len(args) > 0 {
		cmd, ok := aliases[strings.ToLower(args[0])]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownCommand, args[0])
		}
		entry := helpEntries[cmd]
		s.printf("%s\n  %s\n", entry.usage, entry.desc)
		if alts := aliasesFor(cmd); len(alts) > 0 {
			s.printf("  Aliases: %s\n", strings.Join(alts, ", "))
		}
		return nil
	}

	names := make([]string, 0, len(helpEntries))
	for name := range helpEntries {
		names = append(names, name)
	}
	sort.Strings(names)

	s.printf("Commands (help <command> for details):\n")
	for _, name := range names {
		s.printf("  %-14s %s\n", name, helpEntries[name].desc)
	}
	return nil
}

// aliasesFor collects the alternate spellings of a canonical command.
func aliasesFor(cmd string) []string {
	var alts []string
	for alias, target := range aliases {
		if target == cmd && alias != cmd {
			alts = append(alts, alias)
		}
	}
	sort.Strings(alts)
	return alts
}
