package game

import "time"

// Result is what a finished run reports to a Recorder.
type Result struct {
	RunID      string
	Difficulty string
	Score      int
	Hits       int
	Misses     int
	Expired    int
	Duration   time.Duration
}

// Recorder persists finished runs and answers best-score lookups.
type Recorder interface {
	Record(result Result) error
	Best(difficulty string) (score int, ok bool, err error)
}

// MemoryRecorder keeps results in memory. It backs tests and the soak run.
type MemoryRecorder struct {
	Results []Result
}

func (m *MemoryRecorder) Record(result Result) error {
	m.Results = append(m.Results, result)
	return nil
}

func (m *MemoryRecorder) Best(difficulty string) (int, bool, error) {
	best, ok := 0, false
	for _, r := range m.Results {
		if r.Difficulty != difficulty {
			continue
		}
		if !ok || r.Score > best {
			best, ok = r.Score, true
		}
	}
	return best, ok, nil
}
