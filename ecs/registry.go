package ecs

import "reflect"

// ComponentRegistry records which component types a Storage may hold and how
// to build their columns. Registries are per storage so independent worlds can
// coexist in one process.
type ComponentRegistry struct {
	factories map[reflect.Type]func() column
}

// NewComponentRegistry returns an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() column),
	}
}

// RegisterComponent makes T spawnable in storages built from r.
// Registering the same type twice is a no-op.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = newChunkedColumn[T]
}

// Registered reports whether t has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) newColumn(t reflect.Type) column {
	factory, ok := r.factories[t]
	if !ok {
		panic("ecs: component type " + t.String() + " not registered")
	}
	return factory()
}
