package ecs

import "reflect"

// Singleton gives typed access to a component that belongs to the world
// rather than to an entity: session state, settings, input snapshots.
type Singleton[T any] struct {
	storage *Storage
	value   *T
}

// NewSingleton returns an accessor for the T singleton, creating it from
// initializer (or the zero value) when the storage does not hold one yet.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	t := reflect.TypeFor[T]()
	if _, ok := storage.singletons[t]; !ok {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(value)
	}

	s := &Singleton[T]{}
	s.bind(storage)
	return s
}

func (s *Singleton[T]) bind(storage *Storage) {
	s.storage = storage
	s.value = nil
	if p, ok := storage.singletons[reflect.TypeFor[T]()]; ok {
		s.value = (*T)(p)
	}
}

// Get returns the singleton, or nil when it has not been added.
func (s *Singleton[T]) Get() *T {
	if s.value == nil && s.storage != nil {
		s.bind(s.storage)
	}
	return s.value
}

// Exists reports whether the singleton is present in storage.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

// AddSingleton stores value as the singleton for its type, replacing any
// previous one. Accessors obtained earlier keep pointing at the old value.
func (s *Storage) AddSingleton(value any) {
	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		v := reflect.New(t.Elem())
		v.Elem().Set(reflect.ValueOf(value).Elem())
		s.singletons[t.Elem()] = v.UnsafePointer()
		return
	}
	v := reflect.New(t)
	v.Elem().Set(reflect.ValueOf(value))
	s.singletons[t] = v.UnsafePointer()
}

// ReadSingleton sets *out (out must be a **T) to the stored T singleton and
// reports whether one exists.
func (s *Storage) ReadSingleton(out any) bool {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Pointer {
		panic("ecs: ReadSingleton needs a pointer to a pointer")
	}
	p, ok := s.singletons[rv.Elem().Type().Elem()]
	if !ok {
		return false
	}
	rv.Elem().Set(reflect.NewAt(rv.Elem().Type().Elem(), p))
	return true
}
