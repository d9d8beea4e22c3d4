package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sprites/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	ms := time.Millisecond
	samples := []time.Duration{5 * ms, 1 * ms, 3 * ms, 2 * ms, 4 * ms}

	got := summarize(samples)
	assert.Equal(t, Timing{Mean: 3 * ms, P50: 3 * ms, P95: 4 * ms, Max: 5 * ms}, got)
	assert.Equal(t, 5*ms, samples[0], "samples are not reordered")

	assert.Zero(t, summarize(nil))
}

func TestReportRecord(t *testing.T) {
	r := &Report{Sprites: 4}
	batches := []render.Batch{{Vertices: make([]ebiten.Vertex, 18)}, {Vertices: make([]ebiten.Vertex, 6)}}

	r.record(time.Millisecond, time.Millisecond, batches)
	r.record(frameBudget, time.Millisecond, batches[:1])
	r.Finish()

	assert.Equal(t, 2, r.Frames)
	assert.Equal(t, 1, r.OverBudget)
	assert.Equal(t, 1, r.Batches, "last frame wins")
	assert.Equal(t, 18, r.Vertices)
	assert.Equal(t, time.Millisecond, r.Batch.Mean)

	r.MemStart.Mallocs, r.MemEnd.Mallocs = 100, 300
	assert.Equal(t, uint64(100), r.AllocsPerFrame())
	r.MemEnd.Mallocs = 50
	assert.Zero(t, r.AllocsPerFrame())
}

func TestRunProducesReport(t *testing.T) {
	w, err := newWorld(12000, 3)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	report := &Report{Sprites: 12000, Variants: 3}
	w.run(ctx, report)
	report.Finish()

	assert.Positive(t, report.Frames)
	assert.Len(t, report.updates, report.Frames)
	assert.Equal(t, 2, report.Batches, "12000 sprites exceed one uint16-indexed batch")
	assert.Equal(t, 12000*6, report.Vertices)
	assert.Positive(t, report.PerSprite())

	var out bytes.Buffer
	require.NoError(t, report.Generate(&out))
	assert.Contains(t, out.String(), "**Sprites:** 12000 in 3 variants")
	assert.Contains(t, out.String(), "| animate |")
	assert.NotContains(t, out.String(), "**GC:**")

	report.GCPauseMetrics = true
	out.Reset()
	require.NoError(t, report.Generate(&out))
	assert.Contains(t, out.String(), "**GC:**")
}

func TestNewWorldRejectsNoVariants(t *testing.T) {
	_, err := newWorld(10, 0)
	assert.Error(t, err)
}

func TestProfileMode(t *testing.T) {
	for _, kind := range []string{"cpu", "mem", "allocs", "trace"} {
		mode, err := profileMode(kind)
		require.NoError(t, err, kind)
		assert.NotNil(t, mode)
	}
	_, err := profileMode("block")
	assert.Error(t, err)
}
