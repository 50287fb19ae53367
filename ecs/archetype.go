package ecs

import (
	"iter"
	"reflect"
	"slices"
	"strings"
	"weak"

	"github.com/kamstrup/intmap"
)

// Archetype owns every entity that has exactly one particular set of
// component types. Each type gets its own column; an entity's slot is the same
// in every column.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []column
	lookup  map[reflect.Type]int
	// gens holds the current generation of every slot ever used.
	gens []uint16
	// refs maps live ids to the EntityRefs handed out for them. Allocated on
	// first use.
	refs *intmap.Map[EntityId, weak.Pointer[EntityRef]]
}

func newArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]column, len(types)),
		lookup:  make(map[reflect.Type]int, len(types)),
	}
	for i, t := range types {
		a.columns[i] = registry.newColumn(t)
		a.lookup[t] = i
	}
	return a
}

// spawn inserts one value per column. components must hold exactly one value
// for every type of the archetype.
func (a *Archetype) spawn(components []any) uint32 {
	slot := -1
	for _, c := range components {
		idx, ok := a.lookup[componentType(c)]
		if !ok {
			panic("ecs: component " + componentType(c).String() + " does not belong to archetype")
		}
		s, ok := a.columns[idx].insert(c)
		if !ok {
			panic("ecs: cannot store component " + componentType(c).String())
		}
		if slot != -1 && s != slot {
			panic("ecs: archetype columns out of step")
		}
		slot = s
	}
	for len(a.gens) <= slot {
		a.gens = append(a.gens, 0)
	}
	return uint32(slot)
}

// idAt returns the id of whatever currently occupies slot.
func (a *Archetype) idAt(slot uint32) EntityId {
	return NewEntityId(a.id, a.gens[slot], slot)
}

// remove frees the entity's slot and bumps its generation. id must be alive.
func (a *Archetype) remove(id EntityId) {
	slot := id.Index()
	for _, col := range a.columns {
		col.remove(int(slot))
	}
	a.gens[slot]++
}

// alive reports whether id names the entity occupying its slot right now.
func (a *Archetype) alive(id EntityId) bool {
	slot := id.Index()
	if len(a.columns) == 0 || int(slot) >= len(a.gens) {
		return false
	}
	return a.gens[slot] == id.Generation() && a.columns[0].live(int(slot))
}

// component returns a pointer (as any) to the value of type t stored for id,
// or nil when the archetype lacks t or id is stale.
func (a *Archetype) component(id EntityId, t reflect.Type) any {
	idx, ok := a.lookup[t]
	if !ok || !a.alive(id) {
		return nil
	}
	return a.columns[idx].get(int(id.Index()))
}

func (a *Archetype) ref(id EntityId) *EntityRef {
	if a.refs == nil {
		return nil
	}
	wp, ok := a.refs.Get(id)
	if !ok {
		return nil
	}
	if ref := wp.Value(); ref != nil {
		return ref
	}
	a.refs.Del(id)
	return nil
}

func (a *Archetype) putRef(ref *EntityRef) {
	if a.refs == nil {
		a.refs = intmap.New[EntityId, weak.Pointer[EntityRef]](16)
	}
	a.refs.Put(ref.Id, weak.Make(ref))
}

// takeRef detaches the ref held for id, if any.
func (a *Archetype) takeRef(id EntityId) *EntityRef {
	ref := a.ref(id)
	if ref != nil {
		a.refs.Del(id)
	}
	return ref
}

// ID returns the archetype's identifier.
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the archetype's component types in canonical order.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Has reports whether the archetype stores component type t.
func (a *Archetype) Has(t reflect.Type) bool {
	_, ok := a.lookup[t]
	return ok
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	if len(a.columns) == 0 {
		return 0
	}
	return a.columns[0].len()
}

// Iter yields the ids of every live entity in the archetype.
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		if len(a.columns) == 0 {
			return
		}
		for slot := range a.columns[0].slots() {
			if !yield(a.idAt(uint32(slot))) {
				return
			}
		}
	}
}

// componentType returns the dereferenced type of a component value. Pointer,
// map, channel and function kinds are rejected.
func componentType(c any) reflect.Type {
	if c == nil {
		panic("ecs: nil component")
	}
	t := reflect.TypeOf(c)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func:
		panic("ecs: components cannot be pointers, maps, channels, or functions")
	}
	return t
}

func typeName(t reflect.Type) string {
	return t.PkgPath() + "." + t.String()
}

func sortTypes(types []reflect.Type) {
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return strings.Compare(typeName(a), typeName(b))
	})
}

func archetypeKey(types []reflect.Type) string {
	var b strings.Builder
	for i, t := range types {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(typeName(t))
	}
	return b.String()
}
