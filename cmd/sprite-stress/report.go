package main

import (
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/sprites/render"
)

// frameBudget is one frame at 60 ticks per second.
const frameBudget = time.Second / 60

// Timing summarizes the samples of one per-frame phase.
type Timing struct {
	Mean time.Duration
	P50  time.Duration
	P95  time.Duration
	Max  time.Duration
}

func summarize(samples []time.Duration) Timing {
	if len(samples) == 0 {
		return Timing{}
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	var total time.Duration
	for _, s := range sorted {
		total += s
	}
	at := func(p float64) time.Duration {
		return sorted[int(p*float64(len(sorted)-1))]
	}
	return Timing{
		Mean: total / time.Duration(len(sorted)),
		P50:  at(0.50),
		P95:  at(0.95),
		Max:  sorted[len(sorted)-1],
	}
}

// Report collects one stress run: how long animating the row and building its
// draw batches took per frame, and what it allocated.
type Report struct {
	Sprites  int
	Variants int
	Duration time.Duration

	Frames     int
	Elapsed    time.Duration
	Update     Timing
	Batch      Timing
	Batches    int
	Vertices   int
	OverBudget int

	GCPauseMetrics bool
	MemStart       runtime.MemStats
	MemEnd         runtime.MemStats

	updates []time.Duration
	builds  []time.Duration
}

// record adds one frame. batches is the batcher output of that frame.
func (r *Report) record(update, build time.Duration, batches []render.Batch) {
	r.updates = append(r.updates, update)
	r.builds = append(r.builds, build)
	if update+build > frameBudget {
		r.OverBudget++
	}

	r.Batches = len(batches)
	r.Vertices = 0
	for _, b := range batches {
		r.Vertices += len(b.Vertices)
	}
	r.Frames++
}

// Finish summarizes the recorded frames.
func (r *Report) Finish() {
	r.Update = summarize(r.updates)
	r.Batch = summarize(r.builds)
}

// PerSprite is the mean cost of one sprite for one frame, both phases included.
func (r *Report) PerSprite() time.Duration {
	if r.Sprites == 0 {
		return 0
	}
	return (r.Update.Mean + r.Batch.Mean) / time.Duration(r.Sprites)
}

func (r *Report) perFrame(start, end uint64) uint64 {
	if r.Frames == 0 || end < start {
		return 0
	}
	return (end - start) / uint64(r.Frames)
}

func (r *Report) AllocsPerFrame() uint64 {
	return r.perFrame(r.MemStart.Mallocs, r.MemEnd.Mallocs)
}

func (r *Report) BytesPerFrame() uint64 {
	return r.perFrame(r.MemStart.TotalAlloc, r.MemEnd.TotalAlloc)
}

func (r *Report) GCCycles() uint32 {
	return r.MemEnd.NumGC - r.MemStart.NumGC
}

func (r *Report) GCPause() time.Duration {
	return time.Duration(r.MemEnd.PauseTotalNs - r.MemStart.PauseTotalNs)
}

var reportTemplate = template.Must(template.New("report").Parse(`
# Sprite Stress Report

**Sprites:** {{.Sprites}} in {{.Variants}} variants, run for {{.Duration}}

| phase | mean | p50 | p95 | max |
|---|---|---|---|---|
| animate | {{.Update.Mean}} | {{.Update.P50}} | {{.Update.P95}} | {{.Update.Max}} |
| batch | {{.Batch.Mean}} | {{.Batch.P50}} | {{.Batch.P95}} | {{.Batch.Max}} |

- **Frames:** {{.Frames}} in {{.Elapsed}}, {{.OverBudget}} over the 60 Hz budget
- **Per sprite:** {{.PerSprite}} per frame
- **Draw calls:** {{.Batches}} batches, {{.Vertices}} vertices
- **Allocations:** {{.AllocsPerFrame}} objects, {{.BytesPerFrame}} bytes per frame
{{- if .GCPauseMetrics}}
- **GC:** {{.GCCycles}} cycles, {{.GCPause}} paused
{{- end}}
`))

func (r *Report) Generate(w io.Writer) error {
	return reportTemplate.Execute(w, r)
}
