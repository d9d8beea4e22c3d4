package ecs

import "reflect"

// Commands buffers structural changes made while systems run. The scheduler
// flushes them after the last system of the frame, in this order: deletes,
// component removals, component additions, spawns, deferred funcs.
type Commands struct {
	spawns  [][]any
	deletes []EntityId
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType reflect.Type
}

// Defer queues fn to run after every structural change of the frame.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, components)
}

func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addComponentCommand{entity: entity, component: component})
}

func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{entity: entity, compType: compType})
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.deletes) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies the queue to storage and empties it. Additions and removals
// aimed at an entity deleted in the same flush are dropped.
func (c *Commands) Flush(storage *Storage) {
	deleted := make(map[EntityId]struct{}, len(c.deletes))

	for _, id := range c.deletes {
		storage.Delete(id)
		deleted[id] = struct{}{}
	}

	for _, cmd := range c.removes {
		if _, gone := deleted[cmd.entity]; !gone {
			storage.RemoveComponent(cmd.entity, cmd.compType)
		}
	}

	for _, cmd := range c.adds {
		if _, gone := deleted[cmd.entity]; !gone {
			storage.AddComponent(cmd.entity, cmd.component)
		}
	}

	for _, components := range c.spawns {
		storage.Spawn(components...)
	}

	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
