// Package extract builds a per-line commit log from a git repository by
// blaming every text file of the HEAD revision.
package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/schollz/progressbar/v3"
	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/locmeta/internal/cache"
	"github.com/Sumatoshi-tech/locmeta/pkg/gitlib"
	"github.com/Sumatoshi-tech/locmeta/pkg/loc"
)

// Defaults for Options.
const (
	DefaultIndentWidth = 4
	DefaultMaxFileSize = 1 << 20
	// CommitPlaceholder is replaced by the commit id in URL templates.
	CommitPlaceholder = "{commit}"
)

// Options configures an extraction run.
type Options struct {
	// IndentWidth is the number of spaces that count as one depth level.
	IndentWidth int
	// MaxFileSize skips larger blobs.
	MaxFileSize int64
	// URLTemplate builds the commit URL; CommitPlaceholder marks the id.
	URLTemplate string
	// Progress receives a progress bar when set.
	Progress io.Writer
	Logger   *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.IndentWidth <= 0 {
		o.IndentWidth = DefaultIndentWidth
	}

	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}

	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}

	return o
}

// Report counts what a run processed.
type Report struct {
	Files   int
	Skipped int
	Lines   int
	// Reused counts files whose contents were already read under another path.
	Reused int
}

// blob is the decoded contents of one blob.
type blob struct {
	lines  []string
	binary bool
}

// Run blames every file of HEAD in the repository at repoPath and writes one
// line record per surviving line.
func Run(ctx context.Context, repoPath string, out *loc.Writer, opts Options) (Report, error) {
	opts = opts.withDefaults()

	repo, err := gitlib.OpenRepository(repoPath)
	if err != nil {
		return Report{}, err
	}
	defer repo.Free()

	head, err := repo.Head()
	if err != nil {
		return Report{}, err
	}

	files, err := repo.Files(head)
	if err != nil {
		return Report{}, err
	}

	bar := newProgressBar(len(files), opts.Progress)
	blobs := cache.New[gitlib.Hash, blob]()

	var report Report

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		n, err := extractFile(repo, head, f, blobs, out, opts)
		if err != nil {
			return report, err
		}

		if n < 0 {
			report.Skipped++
		} else {
			report.Files++
			report.Lines += n
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}

	report.Reused = int(blobs.Hits())

	opts.Logger.Info("extraction finished",
		"files", report.Files, "skipped", report.Skipped, "lines", report.Lines, "reused", report.Reused)

	return report, out.Flush()
}

// extractFile returns the number of lines written, or -1 when the file was skipped.
func extractFile(
	repo *gitlib.Repository, head gitlib.Hash, f gitlib.File,
	blobs *cache.Cache[gitlib.Hash, blob], out *loc.Writer, opts Options,
) (int, error) {
	if f.Size > opts.MaxFileSize || enry.IsVendor(f.Path) {
		opts.Logger.Debug("skip file", "path", f.Path, "size", f.Size)

		return -1, nil
	}

	contents, err := blobs.GetOrCompute(f.Hash, func() (blob, error) {
		data, readErr := repo.Contents(f.Hash)
		if readErr != nil {
			return blob{}, readErr
		}

		if enry.IsBinary(data) {
			return blob{binary: true}, nil
		}

		return blob{lines: SplitLines(string(data))}, nil
	})
	if err != nil {
		return 0, err
	}

	if contents.binary {
		opts.Logger.Debug("skip binary file", "path", f.Path)

		return -1, nil
	}

	hunks, err := repo.Blame(f.Path, head)
	if err != nil {
		return 0, err
	}

	text := contents.lines
	owners := gitlib.LineCommits(hunks)
	typ := loc.TypeOf(f.Path)
	n := min(len(text), len(owners))

	for i := range n {
		owner := owners[i]
		if owner.Commit.IsZero() {
			continue
		}

		id := owner.Commit.String()

		err := out.Write(loc.LineRecord{
			CommitID:  id,
			File:      f.Path,
			Line:      loc.Metric(i + 1),
			Length:    Length(text[i]),
			Depth:     Depth(text[i], opts.IndentWidth),
			Timestamp: owner.Author.When,
			Author:    owner.Author.Name,
			Type:      typ,
			URL:       CommitURL(opts.URLTemplate, id),
		})
		if err != nil {
			return 0, fmt.Errorf("write %s:%d: %w", f.Path, i+1, err)
		}
	}

	return n, nil
}

func newProgressBar(total int, w io.Writer) *progressbar.ProgressBar {
	if w == nil {
		return nil
	}

	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("blame"),
		progressbar.OptionThrottle(time.Second),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{Saucer: "#", SaucerPadding: " ", BarStart: "|", BarEnd: "|"}),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// SplitLines splits file contents into lines without their terminators.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	return lines
}

// Length is the number of characters of a line.
func Length(line string) loc.Metric {
	return loc.Metric(utf8.RuneCountInString(line))
}

// Depth is the indentation level of a line: each leading tab counts one,
// every indentWidth leading spaces count one.
func Depth(line string, indentWidth int) loc.Metric {
	if indentWidth <= 0 {
		indentWidth = DefaultIndentWidth
	}

	tabs, spaces := 0, 0

	for _, r := range line {
		switch r {
		case '\t':
			tabs++
		case ' ':
			spaces++
		default:
			return loc.Metric(tabs + spaces/indentWidth)
		}
	}

	return loc.Metric(tabs + spaces/indentWidth)
}

// CommitURL expands a URL template for a commit id. An empty template yields
// an empty URL.
func CommitURL(template, id string) string {
	if template == "" {
		return ""
	}

	return strings.ReplaceAll(template, CommitPlaceholder, id)
}
