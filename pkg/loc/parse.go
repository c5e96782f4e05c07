package loc

import (
	"strconv"
	"strings"
	"time"
)

// Column names recognised in the source header.
const (
	ColumnCommit     = "commit"
	ColumnFile       = "file"
	ColumnLine       = "line"
	ColumnLength     = "length"
	ColumnDepth      = "depth"
	ColumnDatetime   = "datetime"
	ColumnDate       = "date"
	ColumnTime       = "time"
	ColumnTimezone   = "timezone"
	ColumnAuthor     = "author"
	ColumnAuthorName = "author_name"
	ColumnType       = "type"
	ColumnURL        = "url"
)

// defaultTimeOfDay is used when a row carries a date but no time.
const defaultTimeOfDay = "00:00"

var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 -0700",
}

// datetimeLocalLayouts carry no offset and are resolved in the parser location.
var datetimeLocalLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var timeOfDayLayouts = []string{
	"15:04:05.000",
	"15:04:05",
	"15:04",
}

var offsetLayouts = []string{
	"Z07:00",
	"-07:00",
	"-0700",
	"-07",
}

// Parser converts raw source rows into line records.
// The zero value resolves offset-less timestamps in UTC.
type Parser struct {
	// Location resolves timestamps that carry no zone information.
	Location *time.Location
}

// NewParser creates a parser resolving offset-less timestamps in loc.
func NewParser(loc *time.Location) *Parser {
	return &Parser{Location: loc}
}

// ParseRow parses a row with the default parser.
func ParseRow(row map[string]string) (LineRecord, bool) {
	var p Parser

	return p.ParseRow(row)
}

// ParseRow converts a field-to-string mapping into a line record.
// It reports false when the timestamp is missing or invalid; the caller must
// then discard the row. Unparseable numeric fields become Unknown.
func (p *Parser) ParseRow(row map[string]string) (LineRecord, bool) {
	ts, ok := p.parseTimestamp(row)
	if !ok {
		return LineRecord{}, false
	}

	file := NormalizePath(field(row, ColumnFile))

	author := field(row, ColumnAuthor)
	if author == "" {
		author = field(row, ColumnAuthorName)
	}

	typ := field(row, ColumnType)
	if typ == "" {
		typ = TypeOf(file)
	}

	return LineRecord{
		CommitID:  field(row, ColumnCommit),
		File:      file,
		Line:      parseMetric(field(row, ColumnLine)),
		Length:    parseMetric(field(row, ColumnLength)),
		Depth:     parseMetric(field(row, ColumnDepth)),
		Timestamp: ts,
		Author:    author,
		Type:      typ,
		URL:       field(row, ColumnURL),
	}, true
}

// NormalizePath converts path separators to forward slashes.
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

func (p *Parser) location() *time.Location {
	if p == nil || p.Location == nil {
		return time.UTC
	}

	return p.Location
}

func (p *Parser) parseTimestamp(row map[string]string) (time.Time, bool) {
	if raw := field(row, ColumnDatetime); raw != "" {
		return p.parseDatetime(raw)
	}

	date := field(row, ColumnDate)
	if date == "" {
		return time.Time{}, false
	}

	clock := field(row, ColumnTime)
	if clock == "" {
		clock = defaultTimeOfDay
	}

	loc, ok := p.parseZone(field(row, ColumnTimezone))
	if !ok {
		return time.Time{}, false
	}

	for _, layout := range timeOfDayLayouts {
		ts, err := time.ParseInLocation("2006-01-02 "+layout, date+" "+clock, loc)
		if err == nil {
			return ts, true
		}
	}

	return time.Time{}, false
}

func (p *Parser) parseDatetime(raw string) (time.Time, bool) {
	for _, layout := range datetimeLayouts {
		ts, err := time.Parse(layout, raw)
		if err == nil {
			return ts, true
		}
	}

	for _, layout := range datetimeLocalLayouts {
		ts, err := time.ParseInLocation(layout, raw, p.location())
		if err == nil {
			return ts, true
		}
	}

	return time.Time{}, false
}

// parseZone accepts numeric offsets ("-07:00", "+0530", "Z") and IANA names.
func (p *Parser) parseZone(raw string) (*time.Location, bool) {
	if raw == "" {
		return p.location(), true
	}

	for _, layout := range offsetLayouts {
		ref, err := time.Parse(layout, raw)
		if err == nil {
			_, offset := ref.Zone()

			return time.FixedZone(raw, offset), true
		}
	}

	loc, err := time.LoadLocation(raw)
	if err != nil {
		return nil, false
	}

	return loc, true
}

func parseMetric(raw string) Metric {
	if raw == "" {
		return Unknown
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		f, floatErr := strconv.ParseFloat(raw, 64)
		if floatErr != nil || f < 0 || f != float64(int(f)) {
			return Unknown
		}

		return Metric(int(f))
	}

	return Metric(v)
}

func field(row map[string]string, name string) string {
	return strings.TrimSpace(row[name])
}
