package loc

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"
)

// Header is the canonical column order written by Writer.
var Header = []string{
	ColumnCommit, ColumnFile, ColumnLine, ColumnLength, ColumnDepth,
	ColumnDatetime, ColumnAuthor, ColumnType, ColumnURL,
}

// Writer writes line records as CSV with the canonical header.
type Writer struct {
	csv         *csv.Writer
	wroteHeader bool
}

// NewWriter creates a writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// Write appends one record, emitting the header first if needed.
func (w *Writer) Write(line LineRecord) error {
	if !w.wroteHeader {
		err := w.csv.Write(Header)
		if err != nil {
			return fmt.Errorf("write header: %w", err)
		}

		w.wroteHeader = true
	}

	err := w.csv.Write([]string{
		line.CommitID,
		line.File,
		line.Line.String(),
		line.Length.String(),
		line.Depth.String(),
		line.Timestamp.Format(time.RFC3339),
		line.Author,
		line.Type,
		line.URL,
	})
	if err != nil {
		return fmt.Errorf("write row: %w", err)
	}

	return nil
}

// Flush writes buffered rows to the underlying writer.
func (w *Writer) Flush() error {
	if !w.wroteHeader {
		err := w.csv.Write(Header)
		if err != nil {
			return fmt.Errorf("write header: %w", err)
		}

		w.wroteHeader = true
	}

	w.csv.Flush()

	err := w.csv.Error()
	if err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return nil
}

// WriteFile writes lines to a new CSV file at path.
func WriteFile(path string, lines []LineRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := NewWriter(f)

	for _, line := range lines {
		err = w.Write(line)
		if err != nil {
			f.Close()

			return err
		}
	}

	err = w.Flush()
	if err != nil {
		f.Close()

		return err
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	return nil
}
