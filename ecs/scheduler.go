package ecs

import (
	"context"
	"math"
	"reflect"
	"time"
	"unsafe"
)

// storageBinder is implemented by Query and Singleton.
type storageBinder interface {
	bind(storage *Storage)
}

// SchedulerStats summarises how systems have performed so far.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Frames          int64
	Systems         []SystemStats
}

// SystemStats holds the timings of a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type registeredSystem struct {
	system System
	stats  SystemStats
}

// Scheduler runs systems sequentially, in registration order, against one
// Storage, and applies their buffered commands at the end of each pass.
type Scheduler struct {
	storage  *Storage
	systems  []*registeredSystem
	commands *Commands
	frames   int64
}

// NewScheduler creates a scheduler for storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{
		storage:  storage,
		commands: NewCommands(),
	}
}

// Storage returns the storage the scheduler drives.
func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// Register binds the system's Query and Singleton fields and appends it to
// the run order. The system is named after its type.
func (s *Scheduler) Register(system System) {
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	s.RegisterNamed(t.Name(), system)
}

// RegisterNamed is Register with an explicit name for stats.
func (s *Scheduler) RegisterNamed(name string, system System) {
	bindFields(system, s.storage)
	s.systems = append(s.systems, &registeredSystem{
		system: system,
		stats: SystemStats{
			Name:        name,
			MinDuration: time.Duration(math.MaxInt64),
		},
	})
}

func bindFields(system System, storage *Storage) {
	v := reflect.ValueOf(system)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return
	}
	v = v.Elem()
	for i := range v.NumField() {
		field := v.Field(i)
		if field.Kind() != reflect.Struct {
			continue
		}
		// NewAt reaches unexported fields too.
		addr := reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr()))
		if binder, ok := addr.Interface().(storageBinder); ok {
			binder.bind(storage)
		}
	}
}

// Once runs every system with the given delta time, then flushes commands.
func (s *Scheduler) Once(dt float64) {
	frame := &UpdateFrame{
		DeltaTime: dt,
		Commands:  s.commands,
		Storage:   s.storage,
	}

	for _, rs := range s.systems {
		start := time.Now()
		rs.system.Execute(frame)
		elapsed := time.Since(start)

		st := &rs.stats
		st.ExecutionCount++
		st.LastDuration = elapsed
		st.TotalDuration += elapsed
		st.MinDuration = min(st.MinDuration, elapsed)
		st.MaxDuration = max(st.MaxDuration, elapsed)
	}

	s.commands.Flush(s.storage)
	s.frames++
}

// Run calls Once every interval, passing the measured delta, until ctx is
// cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Once(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Stats returns a copy of the execution statistics.
func (s *Scheduler) Stats() *SchedulerStats {
	out := &SchedulerStats{
		SystemCount: len(s.systems),
		Frames:      s.frames,
		Systems:     make([]SystemStats, len(s.systems)),
	}
	for i, rs := range s.systems {
		st := rs.stats
		if st.ExecutionCount > 0 {
			st.AvgDuration = st.TotalDuration / time.Duration(st.ExecutionCount)
		} else {
			st.MinDuration = 0
		}
		out.Systems[i] = st
		out.TotalExecutions += st.ExecutionCount
	}
	return out
}
