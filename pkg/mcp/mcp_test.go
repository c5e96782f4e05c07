package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/locmeta/pkg/commits"
	"github.com/Sumatoshi-tech/locmeta/pkg/loc"
	"github.com/Sumatoshi-tech/locmeta/pkg/mcp"
	"github.com/Sumatoshi-tech/locmeta/pkg/observability"
)

func history() []commits.Summary {
	c1 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	c2 := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

	return commits.Aggregate([]loc.LineRecord{
		{CommitID: "C1", File: "a.js", Line: 1, Timestamp: c1, Type: "js"},
		{CommitID: "C1", File: "a.js", Line: 2, Timestamp: c1, Type: "js"},
		{CommitID: "C1", File: "b.css", Line: 1, Timestamp: c1, Type: "css"},
		{CommitID: "C2", File: "a.js", Line: 3, Timestamp: c2, Type: "js"},
	})
}

func connect(t *testing.T, deps mcp.ServerDeps) *mcpsdk.ClientSession {
	t.Helper()

	srv := mcp.NewServer(deps)
	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "1.0.0"}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()

		cancel()
		<-serverDone
	})

	return session
}

func call(t *testing.T, session *mcpsdk.ClientSession, name string, args map[string]any) *mcpsdk.CallToolResult {
	t.Helper()

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)

	return result
}

func decode(t *testing.T, result *mcpsdk.CallToolResult, into any) {
	t.Helper()

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(text.Text), into))
}

func TestServer_ToolNames(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{})
	assert.Equal(t, []string{"locmeta_commits", "locmeta_files", "locmeta_stats"}, srv.ListToolNames())

	session := connect(t, mcp.ServerDeps{})

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, 3)

	for _, tool := range tools.Tools {
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
	}
}

func TestStatsTool(t *testing.T) {
	t.Parallel()

	red := newMetrics(t)
	session := connect(t, mcp.ServerDeps{Commits: history(), Metrics: red})

	result := call(t, session, mcp.ToolNameStats, map[string]any{"cutoff": "2024-01-01T23:59:00Z"})
	require.False(t, result.IsError)

	var got mcp.StatsResult

	decode(t, result, &got)
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 1, got.Stats.TotalCommits)
	assert.Equal(t, 3, got.Stats.TotalLines)
	assert.Equal(t, "a.js", got.Stats.MostActiveFile.File)
	assert.Equal(t, "January 1, 2024 at 11:59 PM", got.Label)

	result = call(t, session, mcp.ToolNameStats, map[string]any{"progress": 100})
	decode(t, result, &got)
	assert.Equal(t, 2, got.Stats.TotalCommits)
}

func TestStatsTool_EmptyPrefix(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.ServerDeps{Commits: history()})

	result := call(t, session, mcp.ToolNameStats, map[string]any{"cutoff": "2020-01-01T00:00:00Z"})
	require.False(t, result.IsError)

	var got mcp.StatsResult

	decode(t, result, &got)
	assert.Equal(t, 0, got.Stats.TotalCommits)
	assert.Contains(t, got.Message, "No commits before")
}

func TestStatsTool_InvalidInput(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.ServerDeps{Commits: history()})

	result := call(t, session, mcp.ToolNameStats, map[string]any{"cutoff": "yesterday"})
	assert.True(t, result.IsError)

	result = call(t, session, mcp.ToolNameStats, map[string]any{"cutoff": "2024-01-01T00:00:00Z", "progress": 10})
	assert.True(t, result.IsError)

	empty := connect(t, mcp.ServerDeps{})
	result = call(t, empty, mcp.ToolNameStats, map[string]any{"progress": 10})
	assert.True(t, result.IsError)
}

func TestFilesTool(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.ServerDeps{Commits: history()})

	result := call(t, session, mcp.ToolNameFiles, map[string]any{"limit": 1})
	require.False(t, result.IsError)

	var got []mcp.FileResult

	decode(t, result, &got)
	require.Len(t, got, 1)
	assert.Equal(t, mcp.FileResult{File: "a.js", Lines: 3, Types: []string{"js"}}, got[0])

	result = call(t, session, mcp.ToolNameFiles, map[string]any{"limit": -1})
	assert.True(t, result.IsError)
}

func TestCommitsTool(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.ServerDeps{Commits: history()})

	result := call(t, session, mcp.ToolNameCommits, map[string]any{"limit": 1})
	require.False(t, result.IsError)

	var got []mcp.CommitResult

	decode(t, result, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "C2", got[0].ID)
	assert.Equal(t, []string{"a.js"}, got[0].Files)
	assert.InDelta(t, 10.0, got[0].HourFraction, 1e-9)
}

func newMetrics(t *testing.T) *observability.REDMetrics {
	t.Helper()

	prom, err := observability.NewPrometheus()
	require.NoError(t, err)

	red, err := observability.NewREDMetrics(prom.Meter())
	require.NoError(t, err)

	return red
}
