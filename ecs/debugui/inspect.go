package debugui

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/plus3/circles/ecs"
)

// EntityInfo is one row of the entity browser.
type EntityInfo struct {
	ID             ecs.EntityId
	ArchetypeID    uint32
	ComponentTypes []string
}

// CollectEntities lists every live entity in archetype order.
func CollectEntities(storage *ecs.Storage) []EntityInfo {
	var out []EntityInfo
	for _, a := range storage.Archetypes() {
		names := make([]string, len(a.Types()))
		for i, t := range a.Types() {
			names[i] = t.String()
		}
		for id := range a.Iter() {
			out = append(out, EntityInfo{ID: id, ArchetypeID: a.ID(), ComponentTypes: names})
		}
	}
	return out
}

// SortEntities orders rows by column: 0 id, 1 archetype, 2 components,
// 3 component count.
func SortEntities(rows []EntityInfo, column int, ascending bool) {
	slices.SortStableFunc(rows, func(a, b EntityInfo) int {
		var c int
		switch column {
		case 1:
			c = cmp.Compare(a.ArchetypeID, b.ArchetypeID)
		case 2:
			c = strings.Compare(strings.Join(a.ComponentTypes, ","), strings.Join(b.ComponentTypes, ","))
		case 3:
			c = cmp.Compare(len(a.ComponentTypes), len(b.ComponentTypes))
		default:
			c = cmp.Compare(a.ID, b.ID)
		}
		if !ascending {
			c = -c
		}
		return c
	})
}

// FilterEntities keeps rows whose id, hex archetype id or component names
// contain filter, case-insensitively.
func FilterEntities(rows []EntityInfo, filter string) []EntityInfo {
	if filter == "" {
		return rows
	}
	filter = strings.ToLower(filter)
	out := make([]EntityInfo, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(fmt.Sprintf("%d", row.ID), filter) ||
			strings.Contains(fmt.Sprintf("0x%x", row.ArchetypeID), filter) ||
			strings.Contains(strings.ToLower(strings.Join(row.ComponentTypes, " ")), filter) {
			out = append(out, row)
		}
	}
	return out
}

// Field is one editable leaf of a component.
type Field struct {
	Path  string
	Value reflect.Value
}

var fieldCache sync.Map

func exportedFields(t reflect.Type) []reflect.StructField {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]reflect.StructField)
	}
	var fields []reflect.StructField
	for i := range t.NumField() {
		if f := t.Field(i); f.IsExported() {
			fields = append(fields, f)
		}
	}
	fieldCache.Store(t, fields)
	return fields
}

// Fields flattens a component pointer into its exported leaves. Nested
// structs get dotted paths. The values are addressable when component is a
// pointer, so editing them edits the component.
func Fields(component any) []Field {
	v := reflect.ValueOf(component)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	var out []Field
	collectFields(v, "", &out)
	return out
}

func collectFields(v reflect.Value, prefix string, out *[]Field) {
	if v.Kind() != reflect.Struct {
		*out = append(*out, Field{Path: prefix, Value: v})
		return
	}
	for _, f := range exportedFields(v.Type()) {
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}
		fv := v.FieldByIndex(f.Index)
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				*out = append(*out, Field{Path: path, Value: fv})
				continue
			}
			fv = fv.Elem()
		}
		collectFields(fv, path, out)
	}
}

// SetField assigns value to an addressable field, converting between
// numeric kinds. It reports whether the assignment happened.
func SetField(field reflect.Value, value any) bool {
	if !field.CanSet() {
		return false
	}
	v := reflect.ValueOf(value)
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !numeric(v) {
			return false
		}
		field.SetInt(toInt(v))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := toInt(v)
		if !numeric(v) || n < 0 {
			return false
		}
		field.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		switch {
		case v.CanFloat():
			field.SetFloat(v.Float())
		case numeric(v):
			field.SetFloat(float64(toInt(v)))
		default:
			return false
		}
	case reflect.Bool:
		if v.Kind() != reflect.Bool {
			return false
		}
		field.SetBool(v.Bool())
	case reflect.String:
		if v.Kind() != reflect.String {
			return false
		}
		field.SetString(v.String())
	default:
		return false
	}
	return true
}

func numeric(v reflect.Value) bool {
	return v.CanInt() || v.CanUint() || v.CanFloat()
}

func toInt(v reflect.Value) int64 {
	switch {
	case v.CanInt():
		return v.Int()
	case v.CanUint():
		return int64(v.Uint())
	case v.CanFloat():
		return int64(v.Float())
	}
	return 0
}
