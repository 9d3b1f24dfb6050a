package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/AyanamiKaine/louds/pool"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Capacity int
	Scenario Scenario

	// Results
	TotalFrames    int64
	TotalDestroyed int64
	Snapshots      int64
	TotalTime      time.Duration
	FrameTime      Stats
	SnapshotTime   Stats
	FinalStats     pool.PoolStats
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Pool Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Pool Capacity:** {{.Capacity}}
- **Churn Mix (spawn/destroy/attach/defer):** {{.Scenario.Churn.SpawnWeight}}/{{.Scenario.Churn.DestroyWeight}}/{{.Scenario.Churn.AttachWeight}}/{{.Scenario.Churn.DeferWeight}}
- **Ops per Frame:** {{.Scenario.Churn.OpsPerFrame}}
- **Snapshot Every:** {{.Scenario.Churn.SnapshotEvery}} frames

## Performance Results
- **Total Frames:** {{.TotalFrames}}
- **Total Test Time:** {{.TotalTime}}
- **Entities Destroyed:** {{.TotalDestroyed}}
- **Frame Time:**
  - **Avg:** {{.FrameTime.Avg}}
  - **Min:** {{.FrameTime.Min}}
  - **Max:** {{.FrameTime.Max}}
{{if .Snapshots}}- **Snapshot Round-Trips:** {{.Snapshots}}
- **Snapshot Time:**
  - **Avg:** {{.SnapshotTime.Avg}}
  - **Min:** {{.SnapshotTime.Min}}
  - **Max:** {{.SnapshotTime.Max}}
{{end}}
## Final Pool State
- **Alive:** {{.FinalStats.Alive}} / {{.FinalStats.Capacity}}
- **Free Slots:** {{.FinalStats.Free}}
- **Pending Destroys:** {{.FinalStats.Pending}}
- **Hierarchy Roots:** {{.FinalStats.Roots}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
