package ecs_test

import (
	"testing"

	"github.com/plus3/circles/ecs"
)

func BenchmarkSpawnDelete(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := storage.Spawn(Position{X: 1}, Size{Scale: 1}, Decay{PerSecond: 0.5}, Target{})
		storage.Delete(id)
	}
}

func BenchmarkQueryIterate(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := range 1000 {
		storage.Spawn(Position{X: float64(i)}, Size{Scale: 1}, Decay{PerSecond: 0.5})
	}
	q := ecs.NewQuery[struct {
		*Size
		*Decay
	}](storage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for c := range q.Values() {
			c.Size.Scale *= 0.99
		}
	}
}

func BenchmarkViewIterate(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := range 1000 {
		storage.Spawn(Position{X: float64(i)}, Size{Scale: 1})
	}
	view := ecs.NewView[struct {
		*Position
		*Size
	}](storage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for c := range view.Values() {
			c.Position.X += c.Size.Scale
		}
	}
}
