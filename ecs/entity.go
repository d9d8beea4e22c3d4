package ecs

import (
	"fmt"
	"unsafe"
)

// EntityId packs the archetype id into the upper 32 bits and the index
// within that archetype into the lower 32. Ids change when an entity moves
// between archetypes; hold an EntityRef to follow it.
type EntityId uint64

func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// String formats the id as archetype:index.
func (e EntityId) String() string {
	return fmt.Sprintf("%08x:%d", e.ArchetypeId(), e.Index())
}

// EntityRef is a stable handle to an entity. Storage updates Id when the
// entity moves and clears Archetype when it is deleted.
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}

// eface is the runtime layout of an interface value.
type eface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// dataPointer returns the data word of v. For a pointer held in an
// interface this is the pointer itself.
func dataPointer(v any) unsafe.Pointer {
	return (*eface)(unsafe.Pointer(&v)).data
}
