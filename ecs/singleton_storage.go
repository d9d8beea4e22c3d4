package ecs

import (
	"reflect"
	"unsafe"
)

type singletonEntry struct {
	typ     reflect.Type
	value   reflect.Value
	dataPtr unsafe.Pointer
}

// AddSingleton stores component as the single instance of its type,
// replacing any previous value in place so existing Singleton accessors
// keep pointing at it.
func (s *Storage) AddSingleton(component any) {
	typ := componentType(component)

	value := reflect.ValueOf(component)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}

	if entry, ok := s.singletons[typ]; ok {
		entry.value.Set(value)
		return
	}

	holder := reflect.New(typ)
	holder.Elem().Set(value)
	s.singletons[typ] = &singletonEntry{
		typ:     typ,
		value:   holder.Elem(),
		dataPtr: holder.UnsafePointer(),
	}
}

func (s *Storage) getSingletonEntry(typ reflect.Type) *singletonEntry {
	return s.singletons[typ]
}

// RemoveSingleton drops the singleton of compType. Accessors created before
// the call keep the old value.
func (s *Storage) RemoveSingleton(compType reflect.Type) {
	delete(s.singletons, compType)
}

// ReadSingleton sets *out to the stored singleton of type T and reports
// whether it exists.
//
//	var cam *scene.Camera
//	if storage.ReadSingleton(&cam) { ... }
func (s *Storage) ReadSingleton(out any) bool {
	target := reflect.ValueOf(out)
	if target.Kind() != reflect.Ptr || target.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton expects a pointer to a pointer")
	}

	entry := s.singletons[target.Elem().Type().Elem()]
	if entry == nil {
		return false
	}
	target.Elem().Set(reflect.NewAt(entry.typ, entry.dataPtr))
	return true
}
