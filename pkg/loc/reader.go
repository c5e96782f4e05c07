package loc

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// Sentinel errors for source reading.
var (
	// ErrNoHeader indicates the source has no header row.
	ErrNoHeader = errors.New("source has no header row")
	// ErrMissingColumn indicates a required column is absent from the header.
	ErrMissingColumn = errors.New("required column missing")
)

// ReadReport summarises a read pass.
type ReadReport struct {
	// Rows is the number of data rows seen.
	Rows int
	// Dropped is the number of rows discarded for an invalid timestamp.
	Dropped int
}

// Kept returns the number of rows that produced a line record.
func (r ReadReport) Kept() int {
	return r.Rows - r.Dropped
}

// Reader reads line records from a CSV source with a header row.
type Reader struct {
	parser *Parser
	csv    *csv.Reader
	header []string
	report ReadReport
}

// NewReader creates a reader over r. A nil parser uses the zero Parser.
func NewReader(r io.Reader, parser *Parser) *Reader {
	if parser == nil {
		parser = &Parser{}
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true

	return &Reader{parser: parser, csv: cr}
}

// Report returns counters for the rows consumed so far.
func (r *Reader) Report() ReadReport {
	return r.report
}

// Next returns the next valid line record, skipping rows with an invalid
// timestamp. It returns io.EOF when the source is exhausted.
func (r *Reader) Next() (LineRecord, error) {
	if r.header == nil {
		err := r.readHeader()
		if err != nil {
			return LineRecord{}, err
		}
	}

	for {
		rec, err := r.csv.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return LineRecord{}, io.EOF
			}

			return LineRecord{}, fmt.Errorf("read row %d: %w", r.report.Rows+1, err)
		}

		r.report.Rows++

		row := make(map[string]string, len(r.header))
		for i, name := range r.header {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}

		line, ok := r.parser.ParseRow(row)
		if !ok {
			r.report.Dropped++

			continue
		}

		return line, nil
	}
}

// ReadAll consumes the source and returns every valid line record.
func (r *Reader) ReadAll() ([]LineRecord, error) {
	var out []LineRecord

	for {
		line, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}

		if err != nil {
			return out, err
		}

		out = append(out, line)
	}
}

func (r *Reader) readHeader() error {
	rec, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ErrNoHeader
		}

		return fmt.Errorf("read header: %w", err)
	}

	header := make([]string, len(rec))
	for i, name := range rec {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
	}

	if !slices.Contains(header, ColumnCommit) {
		return fmt.Errorf("%w: %s", ErrMissingColumn, ColumnCommit)
	}

	if !slices.Contains(header, ColumnFile) {
		return fmt.Errorf("%w: %s", ErrMissingColumn, ColumnFile)
	}

	if !slices.Contains(header, ColumnDatetime) && !slices.Contains(header, ColumnDate) {
		return fmt.Errorf("%w: %s or %s", ErrMissingColumn, ColumnDatetime, ColumnDate)
	}

	r.header = header

	return nil
}

// ReadFile reads every valid line record from the CSV file at path.
func ReadFile(path string, parser *Parser) ([]LineRecord, ReadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadReport{}, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	reader := NewReader(f, parser)

	lines, err := reader.ReadAll()
	if err != nil {
		return nil, reader.Report(), fmt.Errorf("read %s: %w", path, err)
	}

	return lines, reader.Report(), nil
}
