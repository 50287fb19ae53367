package ecs

import "iter"

// Query is a View whose matching entities are cached between calls and
// rebuilt only after the storage changes structurally. Systems declare
// queries as struct fields and the Scheduler binds them on Register.
type Query[T any] struct {
	view    *View[T]
	storage *Storage
	version uint64
	valid   bool
	ids     []EntityId
	items   []T
}

// NewQuery returns a query bound to storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.bind(storage)
	return q
}

func (q *Query[T]) bind(storage *Storage) {
	q.storage = storage
	q.view = NewView[T](storage)
	q.valid = false
}

func (q *Query[T]) refresh() {
	if q.storage == nil {
		panic("ecs: query used before it was bound to a storage")
	}
	if q.valid && q.version == q.storage.version {
		return
	}
	q.ids = q.ids[:0]
	q.items = q.items[:0]
	for id, item := range q.view.Iter() {
		q.ids = append(q.ids, id)
		q.items = append(q.items, item)
	}
	q.version = q.storage.version
	q.valid = true
}

// Iter yields the matching entities.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	q.refresh()
	return func(yield func(EntityId, T) bool) {
		for i := range q.ids {
			if !yield(q.ids[i], q.items[i]) {
				return
			}
		}
	}
}

// Values yields just the populated structs.
func (q *Query[T]) Values() iter.Seq[T] {
	q.refresh()
	return func(yield func(T) bool) {
		for i := range q.items {
			if !yield(q.items[i]) {
				return
			}
		}
	}
}

// Len returns the number of matching entities.
func (q *Query[T]) Len() int {
	q.refresh()
	return len(q.ids)
}

// First returns the first matching entity, if any.
func (q *Query[T]) First() (EntityId, T, bool) {
	q.refresh()
	if len(q.ids) == 0 {
		var zero T
		return 0, zero, false
	}
	return q.ids[0], q.items[0], true
}

// Get returns the populated struct for id, or nil.
func (q *Query[T]) Get(id EntityId) *T {
	if q.view == nil {
		panic("ecs: query used before it was bound to a storage")
	}
	return q.view.Get(id)
}
