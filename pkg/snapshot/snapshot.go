// Package snapshot stores aggregated commit histories as versioned JSON
// documents, optionally LZ4-framed, and validates them on read.
package snapshot

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/locmeta/pkg/commits"
)

// Version is the document version written by this package.
const Version = 1

// Sentinel errors for snapshot reading.
var (
	ErrInvalidSnapshot    = errors.New("invalid snapshot")
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)

//go:embed schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// Snapshot is a serialized commit history.
type Snapshot struct {
	Version     int               `json:"version"`
	GeneratedAt time.Time         `json:"generated_at"`
	Source      string            `json:"source,omitempty"`
	Commits     []commits.Summary `json:"commits"`
}

// New builds a snapshot of the given commits.
func New(source string, all []commits.Summary) *Snapshot {
	if all == nil {
		all = []commits.Summary{}
	}

	return &Snapshot{
		Version:     Version,
		GeneratedAt: time.Now().UTC(),
		Source:      source,
		Commits:     all,
	}
}

// Summaries re-aggregates the stored lines into sorted commit summaries.
func (s *Snapshot) Summaries() []commits.Summary {
	return commits.Aggregate(commits.Flatten(s.Commits))
}

// Write encodes the snapshot with the codec.
func Write(w io.Writer, snap *Snapshot, codec Codec) error {
	doc, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	return codec.Encode(w, doc)
}

// Read decodes and validates a snapshot.
func Read(r io.Reader, codec Codec) (*Snapshot, error) {
	doc, err := codec.Decode(r)
	if err != nil {
		return nil, err
	}

	err = Validate(doc)
	if err != nil {
		return nil, err
	}

	var snap Snapshot

	err = json.Unmarshal(doc, &snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	if snap.Version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, snap.Version)
	}

	return &snap, nil
}

// Validate checks a JSON document against the snapshot schema.
func Validate(doc []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}

	return fmt.Errorf("%w: %s", ErrInvalidSnapshot, strings.Join(msgs, "; "))
}

// WriteFile writes the snapshot to path. The codec follows the file name.
func WriteFile(path string, snap *Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}

	err = Write(f, snap, CodecFor(path))
	if err != nil {
		f.Close()

		return err
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("close snapshot file: %w", err)
	}

	return nil
}

// ReadFile reads the snapshot at path.
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer f.Close()

	snap, err := Read(f, CodecFor(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return snap, nil
}

// IsSnapshotPath reports whether path names a snapshot rather than a CSV log.
func IsSnapshotPath(path string) bool {
	lower := strings.ToLower(path)

	return strings.HasSuffix(lower, jsonExtension) || strings.HasSuffix(lower, jsonExtension+lz4Extension)
}
