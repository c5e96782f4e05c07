package timeline_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/locmeta/pkg/commits"
	"github.com/Sumatoshi-tech/locmeta/pkg/loc"
	"github.com/Sumatoshi-tech/locmeta/pkg/timeline"
)

func at(s string) time.Time {
	ts, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		panic(err)
	}

	return ts
}

func scenario() []commits.Summary {
	c1 := at("2024-01-01T09:00")
	c2 := at("2024-01-02T10:00")

	return commits.Aggregate([]loc.LineRecord{
		{CommitID: "C1", File: "a.js", Line: 1, Timestamp: c1, Type: "js"},
		{CommitID: "C1", File: "a.js", Line: 2, Timestamp: c1, Type: "js"},
		{CommitID: "C1", File: "b.css", Line: 1, Timestamp: c1, Type: "css"},
		{CommitID: "C2", File: "a.js", Line: 3, Timestamp: c2, Type: "js"},
	})
}

func ids(cs []commits.Summary) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}

	return out
}

func TestUntil_Scenario(t *testing.T) {
	t.Parallel()

	got := timeline.Until(scenario(), at("2024-01-01T23:59"))
	assert.Equal(t, []string{"C1"}, ids(got))
}

func TestUntil_Bounds(t *testing.T) {
	t.Parallel()

	all := scenario()

	assert.Empty(t, timeline.Until(all, at("2023-12-31T00:00")))
	assert.Len(t, timeline.Until(all, all[len(all)-1].Timestamp), len(all))
	assert.Len(t, timeline.Until(all, at("2030-01-01T00:00")), len(all))
	assert.Empty(t, timeline.Until(nil, at("2030-01-01T00:00")))
}

func TestUntil_InclusiveCutoff(t *testing.T) {
	t.Parallel()

	all := scenario()
	assert.Equal(t, []string{"C1"}, ids(timeline.Until(all, all[0].Timestamp)))
}

func TestUntil_Monotonic(t *testing.T) {
	t.Parallel()

	all := scenario()
	cutoffs := []time.Time{
		at("2023-01-01T00:00"), at("2024-01-01T09:00"), at("2024-01-01T12:00"),
		at("2024-01-02T10:00"), at("2025-01-01T00:00"),
	}

	for i := 1; i < len(cutoffs); i++ {
		smaller := timeline.Until(all, cutoffs[i-1])
		larger := timeline.Until(all, cutoffs[i])

		require.LessOrEqual(t, len(smaller), len(larger))
		assert.Equal(t, ids(smaller), ids(larger[:len(smaller)]))
	}
}

func TestUntil_DoesNotAllowAppendIntoSource(t *testing.T) {
	t.Parallel()

	all := scenario()
	prefix := timeline.Until(all, at("2024-01-01T23:59"))
	_ = append(prefix, commits.Summary{ID: "X"})

	assert.Equal(t, "C2", all[1].ID)
}

func TestBetween(t *testing.T) {
	t.Parallel()

	all := scenario()

	assert.Equal(t, []string{"C2"}, ids(timeline.Between(all, at("2024-01-02T00:00"), at("2024-01-03T00:00"))))
	assert.Equal(t, []string{"C1", "C2"}, ids(timeline.Between(all, at("2024-01-01T09:00"), at("2024-01-02T10:00"))))
	assert.Empty(t, timeline.Between(all, at("2024-01-03T00:00"), at("2024-01-01T00:00")))
}

func TestScale(t *testing.T) {
	t.Parallel()

	all := scenario()

	scale, err := timeline.NewScale(all)
	require.NoError(t, err)

	from, to := scale.Domain()
	assert.Equal(t, all[0].Timestamp, from)
	assert.Equal(t, all[1].Timestamp, to)

	ts, err := scale.Invert(0)
	require.NoError(t, err)
	assert.Equal(t, from, ts)

	ts, err = scale.Invert(100)
	require.NoError(t, err)
	assert.Equal(t, to, ts)

	ts, err = scale.Invert(50)
	require.NoError(t, err)
	assert.Equal(t, from.Add(to.Sub(from)/2), ts)
	assert.InDelta(t, 50.0, scale.Progress(ts), 1e-6)

	ts, err = scale.Invert(250)
	require.NoError(t, err)
	assert.Equal(t, to, ts)

	ts, err = scale.Invert(-5)
	require.NoError(t, err)
	assert.Equal(t, from, ts)

	_, err = scale.Invert(math.NaN())
	require.ErrorIs(t, err, timeline.ErrInvalidProgress)
}

func TestScale_DegenerateAndEmpty(t *testing.T) {
	t.Parallel()

	_, err := timeline.NewScale(nil)
	require.ErrorIs(t, err, timeline.ErrEmptyDomain)

	single := scenario()[:1]

	scale, err := timeline.NewScale(single)
	require.NoError(t, err)

	ts, err := scale.Invert(0)
	require.NoError(t, err)
	assert.Equal(t, single[0].Timestamp, ts)
	assert.InDelta(t, 100.0, scale.Progress(ts), 1e-9)
}

func TestSteps(t *testing.T) {
	t.Parallel()

	all := scenario()
	steps := timeline.Steps(all)

	require.Len(t, steps, 2)
	assert.Equal(t, "C1", steps[0].CommitID)
	assert.Equal(t, all[0].Timestamp, steps[0].Cutoff)
	assert.Equal(t,
		"On January 1, 2024 at 9:00 AM, I made my first commit. I edited 3 lines across 2 files.",
		steps[0].Narrative)
	assert.Contains(t, steps[1].Narrative, "another commit. I edited 1 line across 1 file.")

	step, err := timeline.StepAt(all, 1)
	require.NoError(t, err)
	assert.Equal(t, steps[1], step)

	_, err = timeline.StepAt(all, 2)
	require.ErrorIs(t, err, timeline.ErrStepOutOfRange)

	_, err = timeline.StepAt(all, -1)
	require.ErrorIs(t, err, timeline.ErrStepOutOfRange)
}

func TestLabel(t *testing.T) {
	t.Parallel()

	assert.Empty(t, timeline.Label(time.Time{}))
	assert.Equal(t, "January 2, 2024 at 10:00 AM", timeline.Label(at("2024-01-02T10:00")))
}
