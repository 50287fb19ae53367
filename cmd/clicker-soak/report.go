package main

import (
	"io"
	"runtime"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/plus3/circles/ecs"
	"github.com/plus3/circles/game"
)

type Report struct {
	// Configuration
	Duration   time.Duration
	Seed       uint64
	Difficulty string
	MissRate   float64

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	SimulatedTime  time.Duration
	UpdateTime     Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats

	Results   []game.Result
	Bot       *Bot
	Scheduler *ecs.SchedulerStats
	Entities  *ecs.StorageStats
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

// GameTotals sums the recorded games.
type GameTotals struct {
	Games   int
	Best    int
	Worst   int
	Score   int
	Hits    int
	Misses  int
	Expired int
}

func (r *Report) Totals() GameTotals {
	var t GameTotals
	for i, res := range r.Results {
		if i == 0 || res.Score > t.Best {
			t.Best = res.Score
		}
		if i == 0 || res.Score < t.Worst {
			t.Worst = res.Score
		}
		t.Games++
		t.Score += res.Score
		t.Hits += res.Hits
		t.Misses += res.Misses
		t.Expired += res.Expired
	}
	return t
}

const reportTemplate = `
# Circle Clicker Soak Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Seed:** {{.Seed}}
- **Difficulty:** {{.Difficulty}}
- **Bot Miss Rate:** {{printf "%.2f" .MissRate}}

## Performance Results
- **Total Updates:** {{comma .TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Simulated Time:** {{.SimulatedTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Gameplay
{{with .Totals -}}
- **Games Finished:** {{.Games}}
{{- if .Games}}
- **Best / Worst Score:** {{.Best}} / {{.Worst}}
- **Hits / Misses / Expired:** {{.Hits}} / {{.Misses}} / {{.Expired}}
{{- end}}
{{- end}}
{{- with .Bot}}
- **Bot Clicks:** {{.Clicks}} ({{.Aimed}} aimed, {{.Missed}} deliberate misses, {{.Menus}} menu presses)
{{- end}}
{{- with .Entities}}
- **Live Entities:** {{.TotalEntityCount}} in {{.ArchetypeCount}} archetypes
{{- end}}

## Systems
{{- with .Scheduler}}
| System | Runs | Avg | Max |
|---|---|---|---|
{{- range .Systems}}
| {{.Name}} | {{comma .ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} |
{{- end}}
{{- end}}

## Memory Usage
- Heap Alloc:     {{bytes .MemStatsStart.HeapAlloc}} (start) -> {{bytes .MemStatsEnd.HeapAlloc}} (end)
- Total Alloc:    {{bytes .MemStatsStart.TotalAlloc}} (start) -> {{bytes .MemStatsEnd.TotalAlloc}} (end) -> delta: {{bytes (usub64 .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc)}}
- Sys Memory:     {{bytes .MemStatsStart.Sys}} (start) -> {{bytes .MemStatsEnd.Sys}} (end)
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}`

func (r *Report) Generate(w io.Writer) error {
	fm := template.FuncMap{
		"bytes": humanize.Bytes,
		"comma": humanize.Comma,
		"usub64": func(a, b uint64) uint64 {
			if a < b {
				return 0
			}
			return a - b
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(strings.TrimLeft(reportTemplate, "\n"))
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
