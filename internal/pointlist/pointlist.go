// Package pointlist parses bulk point-list text files into import
// entries. One point per line: name, easting, northing, zone label and
// an optional datum, whitespace separated. Bad lines are reported and
// skipped, never aborting the rest of the file.
package pointlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sergiop90/kmzcrt/internal/document"
	"github.com/sergiop90/kmzcrt/internal/geo"
)

// Skipped records one input line that could not be parsed.
type Skipped struct {
	Line int
	Text string
	Err  error
}

// Parse reads point lines from r. Entries carry the given default
// datum unless the line names one explicitly. Blank lines are ignored;
// malformed lines end up in the skipped list.
func Parse(r io.Reader, defaultDatum geo.Datum) ([]document.BulkEntry, []Skipped, error) {
	var entries []document.BulkEntry
	var skipped []Skipped

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		entry, err := parseLine(text, defaultDatum)
		if err != nil {
			skipped = append(skipped, Skipped{Line: lineNo, Text: text, Err: err})
			continue
		}
		entry.Line = lineNo
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	return entries, skipped, nil
}

// ParseFile opens and parses a point-list file from disk.
func ParseFile(path string, defaultDatum geo.Datum) ([]document.BulkEntry, []Skipped, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close point list")
		}
	}()

	return Parse(f, defaultDatum)
}

// parseLine handles a single "name x y zone [datum]" record.
func parseLine(text string, defaultDatum geo.Datum) (document.BulkEntry, error) {
	parts := strings.Fields(text)
	if len(parts) != 4 && len(parts) != 5 {
		return document.BulkEntry{}, fmt.Errorf("expected 4 or 5 fields, got %d", len(parts))
	}

	easting, err := parseCoord(parts[1])
	if err != nil {
		return document.BulkEntry{}, fmt.Errorf("easting: %w", err)
	}
	northing, err := parseCoord(parts[2])
	if err != nil {
		return document.BulkEntry{}, fmt.Errorf("northing: %w", err)
	}

	zone, band, err := geo.ParseZoneLabel(parts[3])
	if err != nil {
		return document.BulkEntry{}, err
	}

	datum := defaultDatum
	if len(parts) == 5 {
		datum, err = geo.ResolveDatum(parts[4])
		if err != nil {
			return document.BulkEntry{}, err
		}
	}

	return document.BulkEntry{
		Name: parts[0],
		UTM: geo.UTM{
			Zone:     zone,
			Band:     band,
			Easting:  easting,
			Northing: northing,
			Datum:    datum,
		},
	}, nil
}

// parseCoord accepts both dot and comma decimal separators; exported
// point lists from spreadsheet tools commonly use the latter.
func parseCoord(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}
