package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

var entityIdType = reflect.TypeFor[EntityId]()

type viewField struct {
	typ      reflect.Type
	offset   uintptr
	optional bool
}

// View reads entities through a struct of component pointers.
//
//	type movers struct {
//		ecs.EntityId
//		*Position
//		Velocity *Velocity `ecs:"optional"`
//	}
//
// Embedded pointer fields are required. Named pointer fields may carry the
// `ecs:"optional"` tag and are nil when the entity lacks them. A field of type
// EntityId receives the entity's id.
type View[T any] struct {
	storage  *Storage
	fields   []viewField
	idOffset uintptr
	hasId    bool
}

// NewView builds a view over storage. It panics if T is not a struct of
// component pointers.
func NewView[T any](storage *Storage) *View[T] {
	v := &View[T]{storage: storage}
	v.parse()
	return v
}

func (v *View[T]) parse() {
	st := reflect.TypeFor[T]()
	if st.Kind() != reflect.Struct {
		panic("ecs: view type must be a struct, got " + st.String())
	}

	for i := range st.NumField() {
		f := st.Field(i)
		if f.Type == entityIdType {
			v.idOffset = f.Offset
			v.hasId = true
			continue
		}
		if f.Type.Kind() != reflect.Pointer {
			panic("ecs: view field " + f.Name + " must be a component pointer")
		}

		optional := false
		if tag, ok := f.Tag.Lookup("ecs"); ok {
			if tag != "optional" || f.Anonymous {
				panic("ecs: invalid ecs tag " + `"` + tag + `"` + " on field " + f.Name)
			}
			optional = true
		}
		v.fields = append(v.fields, viewField{
			typ:      f.Type.Elem(),
			offset:   f.Offset,
			optional: optional,
		})
	}
}

func (v *View[T]) matches(a *Archetype) bool {
	for _, f := range v.fields {
		if !f.optional && !a.Has(f.typ) {
			return false
		}
	}
	return true
}

// columnsFor resolves, per view field, the archetype column index or -1.
func (v *View[T]) columnsFor(a *Archetype) []int {
	cols := make([]int, len(v.fields))
	for i, f := range v.fields {
		idx, ok := a.lookup[f.typ]
		if !ok {
			idx = -1
		}
		cols[i] = idx
	}
	return cols
}

func (v *View[T]) fill(dst unsafe.Pointer, a *Archetype, slot uint32, cols []int) bool {
	for i, f := range v.fields {
		field := (*unsafe.Pointer)(unsafe.Add(dst, f.offset))
		var p unsafe.Pointer
		if cols[i] >= 0 {
			p = a.columns[cols[i]].ptr(int(slot))
		}
		if p == nil && !f.optional {
			return false
		}
		*field = p
	}
	if v.hasId {
		*(*EntityId)(unsafe.Add(dst, v.idOffset)) = a.idAt(slot)
	}
	return true
}

// Fill populates out for id and reports whether every required component was
// present.
func (v *View[T]) Fill(id EntityId, out *T) bool {
	a := v.storage.archetype(id.ArchetypeId())
	if a == nil || !a.alive(id) || !v.matches(a) {
		return false
	}
	return v.fill(unsafe.Pointer(out), a, id.Index(), v.columnsFor(a))
}

// Get returns a populated struct for id, or nil.
func (v *View[T]) Get(id EntityId) *T {
	var out T
	if !v.Fill(id, &out) {
		return nil
	}
	return &out
}

// Iter yields every matching entity. Archetypes are visited in id order.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, a := range v.storage.Archetypes() {
			if !v.matches(a) {
				continue
			}
			for id, item := range v.iterArchetype(a) {
				if !yield(id, item) {
					return
				}
			}
		}
	}
}

func (v *View[T]) iterArchetype(a *Archetype) iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		if len(a.columns) == 0 {
			return
		}
		cols := v.columnsFor(a)
		var item T
		for slot := range a.columns[0].slots() {
			if !v.fill(unsafe.Pointer(&item), a, uint32(slot), cols) {
				continue
			}
			if !yield(a.idAt(uint32(slot)), item) {
				return
			}
		}
	}
}

// Values yields just the populated structs.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range v.Iter() {
			if !yield(item) {
				return
			}
		}
	}
}

// Spawn creates an entity from the non-nil component pointers in data.
func (v *View[T]) Spawn(data T) EntityId {
	base := unsafe.Pointer(&data)
	components := make([]any, 0, len(v.fields))
	for _, f := range v.fields {
		p := *(*unsafe.Pointer)(unsafe.Add(base, f.offset))
		if p == nil {
			if !f.optional {
				panic("ecs: required component " + f.typ.String() + " is nil in View.Spawn")
			}
			continue
		}
		components = append(components, reflect.NewAt(f.typ, p).Elem().Interface())
	}
	return v.storage.Spawn(components...)
}
