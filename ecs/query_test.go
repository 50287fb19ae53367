package ecs_test

import (
	"testing"

	"github.com/plus3/circles/ecs"
	"github.com/stretchr/testify/assert"
)

func TestQueryRebuildsAfterStructuralChange(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	q := ecs.NewQuery[struct {
		ecs.EntityId
		*Position
		*Target
	}](storage)

	assert.Equal(t, 0, q.Len())

	a := storage.Spawn(Position{X: 1}, Target{})
	assert.Equal(t, 1, q.Len())

	storage.Spawn(Position{X: 2})
	assert.Equal(t, 1, q.Len())

	storage.Spawn(Position{X: 3}, Target{})
	assert.Equal(t, 2, q.Len())

	storage.Delete(a)
	assert.Equal(t, 1, q.Len())

	id, item, ok := q.First()
	assert.True(t, ok)
	assert.Equal(t, id, item.EntityId)
	assert.Equal(t, 3.0, item.Position.X)
}

func TestQueryIterStopsEarly(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := range 10 {
		storage.Spawn(Position{X: float64(i)})
	}

	q := ecs.NewQuery[struct{ *Position }](storage)
	n := 0
	for range q.Iter() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestQueryFirstEmpty(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	q := ecs.NewQuery[struct{ *Target }](storage)

	_, _, ok := q.First()
	assert.False(t, ok)
}

func TestUnboundQueryPanics(t *testing.T) {
	var q ecs.Query[struct{ *Position }]
	assert.Panics(t, func() { q.Len() })
}
