package ecs

import (
	"reflect"
	"slices"
	"weak"

	"github.com/kamstrup/intmap"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Archetype holds every entity sharing one exact set of component types.
// Column i of storages holds components of types[i]; an entity's index is
// its slot in every column.
type Archetype struct {
	id       uint32
	types    []reflect.Type
	storages []iComponentStorage
	refs     *intmap.Map[EntityId, weak.Pointer[EntityRef]]
}

// NewArchetype creates an archetype for sorted types. Every type must be
// registered in registry.
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:       id,
		types:    types,
		storages: make([]iComponentStorage, len(types)),
		refs:     intmap.New[EntityId, weak.Pointer[EntityRef]](64),
	}

	for idx, typ := range types {
		factory := registry.getFactory(typ)
		if factory == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.storages[idx] = factory()
	}

	return a
}

func (a *Archetype) column(compType reflect.Type) int {
	return slices.Index(a.types, compType)
}

// Spawn appends components to their columns and returns the new entity index.
func (a *Archetype) Spawn(components []any) uint32 {
	var index int
	for _, comp := range components {
		if col := a.column(componentType(comp)); col >= 0 {
			index = a.storages[col].Append(comp)
		}
	}
	return uint32(index)
}

// GetComponent returns a pointer to the component of compType at entityIndex.
func (a *Archetype) GetComponent(entityIndex uint32, compType reflect.Type) any {
	col := a.column(compType)
	if col < 0 {
		return nil
	}
	return a.storages[col].Get(int(entityIndex))
}

// Delete frees the entity's slot and clears any ref pointing at it. Other
// indices are unaffected.
func (a *Archetype) Delete(entityIndex uint32) {
	entityId := NewEntityId(a.id, entityIndex)

	if weakPtr, ok := a.refs.Get(entityId); ok {
		if ref := weakPtr.Value(); ref != nil {
			ref.Id = 0
			ref.Archetype = nil
		}
		a.refs.Del(entityId)
	}

	a.storagesDelete(entityIndex)
}

func (a *Archetype) storagesDelete(entityIndex uint32) {
	for _, storage := range a.storages {
		storage.Delete(int(entityIndex))
	}
}

func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return a.column(compType) >= 0
}

func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	if len(a.storages) == 0 {
		return 0
	}
	return a.storages[0].Len()
}

// Compact removes empty slots from every column. Live refs are moved to the
// new indices and dead weak pointers are dropped.
func (a *Archetype) Compact() {
	if len(a.storages) == 0 {
		return
	}

	indexMap := a.storages[0].Compact()
	for _, storage := range a.storages[1:] {
		storage.Compact()
	}

	moved := intmap.New[EntityId, weak.Pointer[EntityRef]](a.refs.Len())
	for oldIdx, newIdx := range indexMap {
		weakPtr, ok := a.refs.Get(NewEntityId(a.id, uint32(oldIdx)))
		if !ok {
			continue
		}
		if ref := weakPtr.Value(); ref != nil {
			newId := NewEntityId(a.id, uint32(newIdx))
			ref.Id = newId
			moved.Put(newId, weakPtr)
		}
	}
	a.refs = moved
}

// Iter yields the id of every live entity in index order.
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		if len(a.storages) == 0 {
			return
		}

		for index := range a.storages[0].Iter() {
			if !yield(NewEntityId(a.id, uint32(index))) {
				return
			}
		}
	}
}
