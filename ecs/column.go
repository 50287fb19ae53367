package ecs

import (
	"iter"
	"unsafe"
)

// column stores every value of one component type for a single archetype.
type column interface {
	insert(value any) (int, bool)
	remove(slot int)
	get(slot int) any
	ptr(slot int) unsafe.Pointer
	live(slot int) bool
	len() int
	slots() iter.Seq[int]
}

const chunkSize = 128

type chunk[T any] struct {
	values [chunkSize]T
	used   [chunkSize]bool
}

// chunkedColumn keeps values in fixed-size chunks so that growing the column
// never moves values already handed out as pointers.
type chunkedColumn[T any] struct {
	chunks []*chunk[T]
	free   []int
	high   int
	count  int
}

func newChunkedColumn[T any]() column {
	return &chunkedColumn[T]{}
}

func (c *chunkedColumn[T]) insert(value any) (int, bool) {
	var v T
	switch typed := value.(type) {
	case T:
		v = typed
	case *T:
		if typed == nil {
			return -1, false
		}
		v = *typed
	default:
		return -1, false
	}

	var slot int
	if n := len(c.free); n > 0 {
		slot = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		slot = c.high
		c.high++
		if slot/chunkSize >= len(c.chunks) {
			c.chunks = append(c.chunks, new(chunk[T]))
		}
	}

	ch := c.chunks[slot/chunkSize]
	ch.values[slot%chunkSize] = v
	ch.used[slot%chunkSize] = true
	c.count++
	return slot, true
}

func (c *chunkedColumn[T]) at(slot int) (*chunk[T], int, bool) {
	if slot < 0 || slot >= c.high {
		return nil, 0, false
	}
	ch := c.chunks[slot/chunkSize]
	off := slot % chunkSize
	return ch, off, ch.used[off]
}

func (c *chunkedColumn[T]) remove(slot int) {
	ch, off, ok := c.at(slot)
	if !ok {
		return
	}
	var zero T
	ch.values[off] = zero
	ch.used[off] = false
	c.free = append(c.free, slot)
	c.count--
}

func (c *chunkedColumn[T]) get(slot int) any {
	ch, off, ok := c.at(slot)
	if !ok {
		return nil
	}
	return &ch.values[off]
}

func (c *chunkedColumn[T]) ptr(slot int) unsafe.Pointer {
	ch, off, ok := c.at(slot)
	if !ok {
		return nil
	}
	return unsafe.Pointer(&ch.values[off])
}

func (c *chunkedColumn[T]) live(slot int) bool {
	_, _, ok := c.at(slot)
	return ok
}

func (c *chunkedColumn[T]) len() int {
	return c.count
}

func (c *chunkedColumn[T]) slots() iter.Seq[int] {
	return func(yield func(int) bool) {
		for slot := 0; slot < c.high; slot++ {
			if !c.chunks[slot/chunkSize].used[slot%chunkSize] {
				continue
			}
			if !yield(slot) {
				return
			}
		}
	}
}
