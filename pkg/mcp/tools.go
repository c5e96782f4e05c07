package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/locmeta/pkg/dashboard"
	"github.com/Sumatoshi-tech/locmeta/pkg/stats"
)

// Tool name constants.
const (
	ToolNameStats   = "locmeta_stats"
	ToolNameFiles   = "locmeta_files"
	ToolNameCommits = "locmeta_commits"
)

const defaultLimit = 50

// Sentinel errors for tool input validation.
var (
	ErrConflictingFilter = errors.New("cutoff and progress are mutually exclusive")
	ErrInvalidCutoff     = errors.New("cutoff must be an RFC 3339 timestamp")
	ErrNegativeLimit     = errors.New("limit must not be negative")
)

// StatsInput is the input schema for the locmeta_stats tool.
type StatsInput struct {
	Cutoff   string   `json:"cutoff,omitempty"   jsonschema:"RFC 3339 instant; commits after it are hidden"`
	Progress *float64 `json:"progress,omitempty" jsonschema:"slider position in [0, 100] mapped onto the commit time range"`
}

// FilesInput is the input schema for the locmeta_files tool.
type FilesInput struct {
	Cutoff   string   `json:"cutoff,omitempty"   jsonschema:"RFC 3339 instant; commits after it are hidden"`
	Progress *float64 `json:"progress,omitempty" jsonschema:"slider position in [0, 100] mapped onto the commit time range"`
	Limit    int      `json:"limit,omitempty"    jsonschema:"maximum number of files (default: 50)"`
}

// CommitsInput is the input schema for the locmeta_commits tool.
type CommitsInput struct {
	Cutoff   string   `json:"cutoff,omitempty"   jsonschema:"RFC 3339 instant; commits after it are hidden"`
	Progress *float64 `json:"progress,omitempty" jsonschema:"slider position in [0, 100] mapped onto the commit time range"`
	Limit    int      `json:"limit,omitempty"    jsonschema:"maximum number of most recent commits (default: 50)"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// StatsResult is the payload of locmeta_stats.
type StatsResult struct {
	Label   string        `json:"label"`
	Total   int           `json:"total"`
	Message string        `json:"message,omitempty"`
	Stats   stats.Summary `json:"stats"`
	Cards   []stats.Card  `json:"cards"`
}

// FileResult is one entry of locmeta_files.
type FileResult struct {
	File  string   `json:"file"`
	Lines int      `json:"lines"`
	Types []string `json:"types"`
}

// CommitResult is one entry of locmeta_commits.
type CommitResult struct {
	ID           string    `json:"id"`
	Datetime     time.Time `json:"datetime"`
	Author       string    `json:"author,omitempty"`
	URL          string    `json:"url,omitempty"`
	HourFraction float64   `json:"hour_fraction"`
	TotalLines   int       `json:"total_lines"`
	Files        []string  `json:"files"`
}

func (s *Server) handleStats(
	_ context.Context, _ *mcpsdk.CallToolRequest, input StatsInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	v, err := s.view(input.Cutoff, input.Progress)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(StatsResult{
		Label:   v.Label,
		Total:   v.Total,
		Message: v.Message,
		Stats:   v.Stats,
		Cards:   v.Cards,
	})
}

func (s *Server) handleFiles(
	_ context.Context, _ *mcpsdk.CallToolRequest, input FilesInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	limit, err := resolveLimit(input.Limit)
	if err != nil {
		return errorResult(err)
	}

	v, err := s.view(input.Cutoff, input.Progress)
	if err != nil {
		return errorResult(err)
	}

	groups := v.Files[:min(limit, len(v.Files))]
	out := make([]FileResult, len(groups))

	for i, g := range groups {
		out[i] = FileResult{File: g.File, Lines: g.Count(), Types: g.Types()}
	}

	return jsonResult(out)
}

func (s *Server) handleCommits(
	_ context.Context, _ *mcpsdk.CallToolRequest, input CommitsInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	limit, err := resolveLimit(input.Limit)
	if err != nil {
		return errorResult(err)
	}

	v, err := s.view(input.Cutoff, input.Progress)
	if err != nil {
		return errorResult(err)
	}

	visible := v.Commits[max(0, len(v.Commits)-limit):]
	out := make([]CommitResult, len(visible))

	for i, c := range visible {
		out[i] = CommitResult{
			ID:           c.ID,
			Datetime:     c.Timestamp,
			Author:       c.Author,
			URL:          c.URL,
			HourFraction: c.HourFraction,
			TotalLines:   c.TotalLines,
			Files:        c.Files(),
		}
	}

	return jsonResult(out)
}

// view applies the cutoff or progress filter to a fresh controller.
func (s *Server) view(cutoff string, progress *float64) (dashboard.View, error) {
	if cutoff != "" && progress != nil {
		return dashboard.View{}, ErrConflictingFilter
	}

	ctrl := dashboard.NewController(dashboard.Options{Location: s.location})
	ctrl.Load(s.commits)

	switch {
	case cutoff != "":
		ts, err := time.Parse(time.RFC3339, cutoff)
		if err != nil {
			return dashboard.View{}, fmt.Errorf("%w: %q", ErrInvalidCutoff, cutoff)
		}

		err = ctrl.SetCutoff(ts)
		if err != nil {
			return dashboard.View{}, err
		}
	case progress != nil:
		err := ctrl.SetProgress(*progress)
		if err != nil {
			return dashboard.View{}, err
		}
	}

	return ctrl.View().Detach(), nil
}

func resolveLimit(limit int) (int, error) {
	switch {
	case limit < 0:
		return 0, fmt.Errorf("%w: %d", ErrNegativeLimit, limit)
	case limit == 0:
		return defaultLimit, nil
	default:
		return limit, nil
	}
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, ToolOutput{Data: value}, nil
}
