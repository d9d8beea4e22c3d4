package ecs

import (
	"iter"
	"reflect"
)

// ComponentRegistry maps component types to their storage factories. Each
// Storage is bound to one registry, so independent worlds can register
// different component sets.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
}

func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentStorage),
	}
}

// RegisterComponent makes T usable as a component in storages bound to r.
// Registering twice is harmless.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() iComponentStorage {
		return &genericComponentStorage[T]{}
	}
}

// Registered reports whether t has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentStorage {
	return r.factories[t]
}

const genericBlockSize = 64

// genericComponentStorage keeps components of type T in fixed-size blocks
// with a free list, so indices stay stable across deletes.
type genericComponentStorage[T any] struct {
	blocks    [][genericBlockSize]T
	filled    [][genericBlockSize]bool
	freeSlots []int
	nextIndex int
}

func locate(index int) (block, slot int) {
	return index / genericBlockSize, index % genericBlockSize
}

func (cs *genericComponentStorage[T]) inRange(index int) bool {
	return index >= 0 && index/genericBlockSize < len(cs.blocks)
}

// Append stores item, a T or *T, and returns its index. Any other type
// returns -1.
func (cs *genericComponentStorage[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		return -1
	}

	var index int
	if n := len(cs.freeSlots); n > 0 {
		index = cs.freeSlots[n-1]
		cs.freeSlots = cs.freeSlots[:n-1]
	} else {
		index = cs.nextIndex
		cs.nextIndex++
		if block, _ := locate(index); block >= len(cs.blocks) {
			cs.blocks = append(cs.blocks, [genericBlockSize]T{})
			cs.filled = append(cs.filled, [genericBlockSize]bool{})
		}
	}

	block, slot := locate(index)
	cs.blocks[block][slot] = value
	cs.filled[block][slot] = true
	return index
}

// Get returns a *T for the occupied slot at index, or nil.
func (cs *genericComponentStorage[T]) Get(index int) any {
	if !cs.Has(index) {
		return nil
	}
	block, slot := locate(index)
	return &cs.blocks[block][slot]
}

// Delete zeroes the slot and puts it on the free list.
func (cs *genericComponentStorage[T]) Delete(index int) {
	if !cs.Has(index) {
		return
	}
	block, slot := locate(index)
	var zero T
	cs.filled[block][slot] = false
	cs.blocks[block][slot] = zero
	cs.freeSlots = append(cs.freeSlots, index)
}

func (cs *genericComponentStorage[T]) Has(index int) bool {
	if !cs.inRange(index) {
		return false
	}
	block, slot := locate(index)
	return cs.filled[block][slot]
}

// Compact packs occupied slots to the front, preserving their order, and
// returns the old-to-new index mapping.
func (cs *genericComponentStorage[T]) Compact() map[int]int {
	indexMap := make(map[int]int)

	total := cs.Len()
	if total == 0 {
		cs.blocks = make([][genericBlockSize]T, 1)
		cs.filled = make([][genericBlockSize]bool, 1)
		cs.freeSlots = nil
		cs.nextIndex = 0
		return indexMap
	}

	numBlocks := (total + genericBlockSize - 1) / genericBlockSize
	blocks := make([][genericBlockSize]T, numBlocks)
	filled := make([][genericBlockSize]bool, numBlocks)

	writePos := 0
	for readPos := range cs.Iter() {
		rb, rs := locate(readPos)
		wb, ws := locate(writePos)
		blocks[wb][ws] = cs.blocks[rb][rs]
		filled[wb][ws] = true
		indexMap[readPos] = writePos
		writePos++
	}

	cs.blocks = blocks
	cs.filled = filled
	cs.freeSlots = nil
	cs.nextIndex = writePos

	return indexMap
}

// Iter yields occupied indices in ascending order.
func (cs *genericComponentStorage[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range cs.nextIndex {
			block, slot := locate(i)
			if cs.filled[block][slot] && !yield(i) {
				return
			}
		}
	}
}

// Len returns the number of occupied slots.
func (cs *genericComponentStorage[T]) Len() int {
	return cs.nextIndex - len(cs.freeSlots)
}
