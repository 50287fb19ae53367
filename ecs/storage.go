package ecs

import (
	"reflect"
	"slices"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// Storage holds every archetype and singleton of one world.
type Storage struct {
	registry   *ComponentRegistry
	archetypes *intmap.Map[uint32, *Archetype]
	byKey      map[string]uint32
	nextId     uint32
	singletons map[reflect.Type]unsafe.Pointer
	// version changes on every structural edit so cached queries know when
	// to rebuild.
	version uint64
}

// NewStorage creates an empty world backed by registry.
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:   registry,
		archetypes: intmap.New[uint32, *Archetype](32),
		byKey:      make(map[string]uint32),
		nextId:     1,
		singletons: make(map[reflect.Type]unsafe.Pointer),
	}
}

// Registry returns the registry the storage was created with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// Version returns the structural version counter.
func (s *Storage) Version() uint64 {
	return s.version
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	key := archetypeKey(types)
	if id, ok := s.byKey[key]; ok {
		a, _ := s.archetypes.Get(id)
		return a
	}
	if s.nextId > MaxArchetypes {
		panic("ecs: too many archetypes")
	}
	a := newArchetype(s.nextId, types, s.registry)
	s.byKey[key] = a.id
	s.archetypes.Put(a.id, a)
	s.nextId++
	s.version++
	return a
}

func (s *Storage) archetype(id uint32) *Archetype {
	a, ok := s.archetypes.Get(id)
	if !ok {
		return nil
	}
	return a
}

// Spawn creates an entity from the given component values (or pointers to
// them) and returns its id.
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("ecs: cannot spawn entity without components")
	}
	types := make([]reflect.Type, len(components))
	for i, c := range components {
		types[i] = componentType(c)
	}
	sortTypes(types)
	for i := 1; i < len(types); i++ {
		if types[i] == types[i-1] {
			panic("ecs: duplicate component " + types[i].String())
		}
	}

	a := s.archetypeFor(types)
	slot := a.spawn(components)
	s.version++
	return a.idAt(slot)
}

// Alive reports whether id names a live entity. Ids of deleted entities stay
// dead even after their slot is reused.
func (s *Storage) Alive(id EntityId) bool {
	a := s.archetype(id.ArchetypeId())
	return a != nil && a.alive(id)
}

// Delete removes the entity and all of its components and invalidates any
// EntityRef pointing at it. Unknown or already deleted ids are ignored.
func (s *Storage) Delete(id EntityId) {
	a := s.archetype(id.ArchetypeId())
	if a == nil || !a.alive(id) {
		return
	}
	if ref := a.takeRef(id); ref != nil {
		ref.Id = 0
	}
	a.remove(id)
	s.version++
}

// CreateEntityRef returns the ref tracking id, creating it on first use. It
// returns nil when id is not alive.
func (s *Storage) CreateEntityRef(id EntityId) *EntityRef {
	a := s.archetype(id.ArchetypeId())
	if a == nil || !a.alive(id) {
		return nil
	}
	if ref := a.ref(id); ref != nil {
		return ref
	}
	ref := &EntityRef{Id: id}
	a.putRef(ref)
	return ref
}

// ResolveEntityRef returns the current id of the referenced entity, or false
// once it has been deleted.
func (s *Storage) ResolveEntityRef(ref *EntityRef) (EntityId, bool) {
	if ref == nil || ref.Id == 0 {
		return 0, false
	}
	return ref.Id, true
}

// InvalidateEntityRef detaches ref from its entity without deleting the
// entity. It reports whether ref was still valid.
func (s *Storage) InvalidateEntityRef(ref *EntityRef) bool {
	if ref == nil || ref.Id == 0 {
		return false
	}
	if a := s.archetype(ref.Id.ArchetypeId()); a != nil && a.ref(ref.Id) == ref {
		a.refs.Del(ref.Id)
	}
	ref.Id = 0
	return true
}

// AddComponent moves the entity to the archetype that also holds component's
// type and returns the entity's new id. If the entity already has that type,
// the value is overwritten in place and the id is unchanged.
func (s *Storage) AddComponent(id EntityId, component any) EntityId {
	old := s.archetype(id.ArchetypeId())
	if old == nil || !old.alive(id) {
		return 0
	}

	t := componentType(component)
	if old.Has(t) {
		dst := reflect.ValueOf(old.component(id, t)).Elem()
		src := reflect.ValueOf(component)
		if src.Kind() == reflect.Pointer {
			src = src.Elem()
		}
		dst.Set(src)
		return id
	}

	types := append(slices.Clone(old.types), t)
	sortTypes(types)
	return s.move(id, old, types, component)
}

// RemoveComponent moves the entity to the archetype without t and returns its
// new id. Removing the last component deletes the entity and returns 0.
func (s *Storage) RemoveComponent(id EntityId, t reflect.Type) EntityId {
	old := s.archetype(id.ArchetypeId())
	if old == nil || !old.alive(id) {
		return 0
	}
	if !old.Has(t) {
		return id
	}

	types := make([]reflect.Type, 0, len(old.types)-1)
	for _, ot := range old.types {
		if ot != t {
			types = append(types, ot)
		}
	}
	if len(types) == 0 {
		s.Delete(id)
		return 0
	}
	return s.move(id, old, types, nil)
}

func (s *Storage) move(id EntityId, old *Archetype, types []reflect.Type, extra any) EntityId {
	values := make([]any, 0, len(types))
	for _, t := range types {
		if v := old.component(id, t); v != nil {
			values = append(values, v)
		}
	}
	if extra != nil {
		values = append(values, extra)
	}

	dst := s.archetypeFor(types)
	moved := dst.idAt(dst.spawn(values))
	if ref := old.takeRef(id); ref != nil {
		ref.Id = moved
		dst.putRef(ref)
	}
	old.remove(id)
	s.version++
	return moved
}

// GetComponent returns a pointer (as any) to the entity's component of type t,
// or nil.
func (s *Storage) GetComponent(id EntityId, t reflect.Type) any {
	a := s.archetype(id.ArchetypeId())
	if a == nil {
		return nil
	}
	return a.component(id, t)
}

// HasComponent reports whether the live entity has component type t.
func (s *Storage) HasComponent(id EntityId, t reflect.Type) bool {
	a := s.archetype(id.ArchetypeId())
	return a != nil && a.alive(id) && a.Has(t)
}

// Archetypes returns every archetype in id order.
func (s *Storage) Archetypes() []*Archetype {
	out := make([]*Archetype, 0, s.archetypes.Len())
	s.archetypes.ForEach(func(_ uint32, a *Archetype) bool {
		out = append(out, a)
		return true
	})
	slices.SortFunc(out, func(a, b *Archetype) int {
		return int(a.id) - int(b.id)
	})
	return out
}

// EntityCount returns the number of live entities.
func (s *Storage) EntityCount() int {
	n := 0
	s.archetypes.ForEach(func(_ uint32, a *Archetype) bool {
		n += a.Len()
		return true
	})
	return n
}

// ComponentReader is anything that can resolve an entity's component.
type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's T component or nil.
func ReadComponent[T any](reader ComponentReader, id EntityId) *T {
	v, _ := reader.GetComponent(id, reflect.TypeFor[T]()).(*T)
	return v
}
