package ecs

import (
	"reflect"

	"github.com/kamstrup/intmap"
)

// Commands buffers structural changes requested while systems run. The
// Scheduler flushes the buffer once every system of the frame has executed.
type Commands struct {
	spawns  [][]any
	deletes []EntityId
	deleted *intmap.Set[EntityId]
	adds    []addCommand
	removes []removeCommand
	defers  []func()
}

type addCommand struct {
	entity    EntityId
	component any
}

type removeCommand struct {
	entity EntityId
	typ    reflect.Type
}

// NewCommands returns an empty buffer.
func NewCommands() *Commands {
	return &Commands{deleted: intmap.NewSet[EntityId](16)}
}

// Spawn queues an entity spawn.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, components)
}

// Delete queues an entity deletion. Deleting the same entity twice in one
// frame queues it once.
func (c *Commands) Delete(entity EntityId) {
	if c.deleted.Has(entity) {
		return
	}
	c.deleted.Add(entity)
	c.deletes = append(c.deletes, entity)
}

// Deleted reports whether entity is already queued for deletion this frame.
func (c *Commands) Deleted(entity EntityId) bool {
	return c.deleted.Has(entity)
}

// AddComponent queues a component addition.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addCommand{entity: entity, component: component})
}

// RemoveComponent queues a component removal.
func (c *Commands) RemoveComponent(entity EntityId, t reflect.Type) {
	c.removes = append(c.removes, removeCommand{entity: entity, typ: t})
}

// Defer queues fn to run after every structural change has been applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Pending returns the number of queued operations.
func (c *Commands) Pending() int {
	return len(c.spawns) + len(c.deletes) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies deletes, removes, adds, spawns and deferred functions in that
// order, then empties the buffer. Adds and removes aimed at an entity deleted
// in the same frame are dropped.
func (c *Commands) Flush(storage *Storage) {
	for _, id := range c.deletes {
		storage.Delete(id)
	}
	for _, cmd := range c.removes {
		if !c.deleted.Has(cmd.entity) {
			storage.RemoveComponent(cmd.entity, cmd.typ)
		}
	}
	for _, cmd := range c.adds {
		if !c.deleted.Has(cmd.entity) {
			storage.AddComponent(cmd.entity, cmd.component)
		}
	}
	for _, components := range c.spawns {
		storage.Spawn(components...)
	}

	// Deferred functions may queue more work; it is kept for the next flush.
	defers := c.defers
	c.defers = nil

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.deleted.Clear()

	for _, fn := range defers {
		fn()
	}
}
