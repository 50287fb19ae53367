package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/circles/ecs"
)

type spawnSystem struct{}

func (s *spawnSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.Spawn(Position{X: 1, Y: 2}, Size{Scale: 1})
	frame.Commands.Spawn(Position{X: 3, Y: 4})
}

type doubleDeleteSystem struct {
	target ecs.EntityId
}

func (s *doubleDeleteSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.Delete(s.target)
	frame.Commands.Delete(s.target)
}

func TestCommandsDeferUntilFlush(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	commands := ecs.NewCommands()

	commands.Spawn(Position{X: 1})
	if storage.EntityCount() != 0 {
		t.Fatalf("spawn applied before flush")
	}
	if commands.Pending() != 1 {
		t.Fatalf("expected 1 pending command, got %d", commands.Pending())
	}

	commands.Flush(storage)
	if storage.EntityCount() != 1 {
		t.Fatalf("expected 1 entity after flush, got %d", storage.EntityCount())
	}
	if commands.Pending() != 0 {
		t.Fatalf("buffer not reset")
	}
}

func TestCommandsThroughScheduler(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&spawnSystem{})

	scheduler.Once(0.016)

	if storage.EntityCount() != 2 {
		t.Errorf("expected 2 entities, got %d", storage.EntityCount())
	}
}

func TestCommandsDeleteTwice(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	target := storage.Spawn(Position{})
	other := storage.Spawn(Position{})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&doubleDeleteSystem{target: target})
	scheduler.Once(0.016)

	if storage.Alive(target) {
		t.Errorf("target should be deleted")
	}
	if !storage.Alive(other) {
		t.Errorf("unrelated entity was deleted")
	}
}

func TestCommandsDeletedEntityIgnoresEdits(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{}, Target{})

	commands := ecs.NewCommands()
	commands.AddComponent(id, Size{Scale: 2})
	commands.RemoveComponent(id, reflect.TypeFor[Target]())
	commands.Delete(id)

	if !commands.Deleted(id) {
		t.Fatalf("Deleted should report queued deletion")
	}

	commands.Flush(storage)

	if storage.EntityCount() != 0 {
		t.Errorf("expected no entities, got %d", storage.EntityCount())
	}
	if commands.Deleted(id) {
		t.Errorf("deleted set should reset after flush")
	}
}

func TestCommandsOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1})

	var seen int
	commands := ecs.NewCommands()
	commands.Defer(func() { seen = storage.EntityCount() })
	commands.Spawn(Position{X: 2})
	commands.AddComponent(id, Target{})

	commands.Flush(storage)

	if seen != 2 {
		t.Errorf("deferred function should observe spawns, saw %d entities", seen)
	}

	q := ecs.NewQuery[struct{ *Target }](storage)
	if q.Len() != 1 {
		t.Errorf("expected the add to be applied")
	}
}

func TestCommandsDeferQueuesForNextFlush(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	commands := ecs.NewCommands()

	commands.Defer(func() {
		commands.Spawn(Position{})
	})
	commands.Flush(storage)
	if storage.EntityCount() != 0 {
		t.Fatalf("spawn queued by a deferred function must wait for the next flush")
	}
	commands.Flush(storage)
	if storage.EntityCount() != 1 {
		t.Fatalf("expected 1 entity, got %d", storage.EntityCount())
	}
}
