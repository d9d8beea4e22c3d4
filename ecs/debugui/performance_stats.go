package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/AllenDang/cimgui-go/implot"
	"github.com/plus3/sprites/ecs"
)

// PerformanceWindow shows frame times, storage counts and, when a scheduler
// is attached, per-system timings.
type PerformanceWindow struct {
	scheduler    *ecs.Scheduler
	timer        frameTimer
	frameHistory []float32
	frameIndex   int
	recorded     int
}

func NewPerformanceWindow(historyFrames int, scheduler *ecs.Scheduler) *PerformanceWindow {
	return &PerformanceWindow{
		scheduler:    scheduler,
		timer:        frameTimer{last: time.Now()},
		frameHistory: make([]float32, historyFrames),
	}
}

// Record adds one frame time, in seconds, to the ring buffer.
func (p *PerformanceWindow) Record(deltaTime float32) {
	p.frameHistory[p.frameIndex] = deltaTime * 1000.0
	p.frameIndex = (p.frameIndex + 1) % len(p.frameHistory)
	if p.recorded < len(p.frameHistory) {
		p.recorded++
	}
}

// AverageMillis averages the recorded frame times. Slots not yet written are
// not counted.
func (p *PerformanceWindow) AverageMillis() float32 {
	if p.recorded == 0 {
		return 0
	}
	var sum float32
	for _, ft := range p.frameHistory[:p.recorded] {
		sum += ft
	}
	return sum / float32(p.recorded)
}

func (p *PerformanceWindow) Render(storage *ecs.Storage) {
	p.Record(p.timer.delta())

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(320, 300), imgui.CondOnce)
	if !imgui.BeginV("Performance", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := storage.CollectStats()
	imgui.Text(fmt.Sprintf("Entities: %d", stats.TotalEntityCount))
	imgui.Text(fmt.Sprintf("Archetypes: %d", stats.ArchetypeCount))
	imgui.Text(fmt.Sprintf("Singletons: %d", stats.SingletonCount))

	avg := p.AverageMillis()
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}

	imgui.Separator()
	if implot.BeginPlotV("Frame Time (ms)", imgui.NewVec2(-1, 120), 0) {
		implot.SetupAxesV("Frame", "ms", 0, implot.AxisFlagsAutoFit)
		implot.PlotLineFloatPtrInt("frame", &p.frameHistory[0], int32(len(p.frameHistory)))
		implot.EndPlot()
	}

	if p.scheduler != nil && imgui.TreeNodeStr("Systems") {
		sched := p.scheduler.GetStats()
		imgui.Text(fmt.Sprintf("Frames: %d  Elapsed: %s", sched.Frames, sched.Elapsed.Truncate(time.Millisecond)))

		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Last")
			imgui.TableSetupColumn("Avg")
			imgui.TableHeadersRow()

			for _, sys := range sched.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(sys.LastDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Singletons") {
		for _, singletonType := range stats.SingletonTypes {
			imgui.BulletText(singletonType)
		}
		imgui.TreePop()
	}

	imgui.End()
}

type frameTimer struct {
	last time.Time
}

func (ft *frameTimer) delta() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.last).Seconds())
	ft.last = now
	return delta
}
