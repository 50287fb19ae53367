package ecs_test

import (
	"fmt"

	"github.com/plus3/circles/ecs"
)

// Example shows a decaying circle being removed once it gets too small.
func Example() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Size](registry)
	ecs.RegisterComponent[Decay](registry)
	storage := ecs.NewStorage(registry)

	storage.Spawn(Size{Scale: 1}, Decay{PerSecond: 0.4})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		view := ecs.NewView[struct {
			ecs.EntityId
			*Size
			*Decay
		}](frame.Storage)
		for id, c := range view.Iter() {
			c.Size.Scale -= c.Decay.PerSecond * frame.DeltaTime
			if c.Size.Scale < 0.25 {
				frame.Commands.Delete(id)
			}
		}
	}))

	for tick := 1; tick <= 3; tick++ {
		scheduler.Once(1)
		fmt.Printf("tick %d: %d circle(s)\n", tick, storage.EntityCount())
	}

	// Output:
	// tick 1: 1 circle(s)
	// tick 2: 0 circle(s)
	// tick 3: 0 circle(s)
}

// ExampleNewSingleton shows world-level state shared between accessors.
func ExampleNewSingleton() {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())

	score := ecs.NewSingleton[Points](storage, 10)
	*score.Get() -= 1

	same := ecs.NewSingleton[Points](storage)
	fmt.Println(*same.Get())

	// Output:
	// 9
}

// ExampleQuery shows a cached query seeing entities spawned after creation.
func ExampleQuery() {
	storage := ecs.NewStorage(newTestRegistry())
	targets := ecs.NewQuery[struct {
		*Position
		*Target
	}](storage)

	storage.Spawn(Position{X: 1}, Target{})
	storage.Spawn(Position{X: 2})
	storage.Spawn(Position{X: 3}, Target{})

	for t := range targets.Values() {
		fmt.Println(t.Position.X)
	}

	// Output:
	// 1
	// 3
}
