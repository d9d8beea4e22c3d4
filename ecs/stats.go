package ecs

import (
	"cmp"
	"maps"
	"slices"
)

// StorageStats is a snapshot of storage occupancy.
type StorageStats struct {
	TotalEntityCount   int
	ArchetypeCount     int
	SingletonCount     int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

type ArchetypeStats struct {
	ID             uint32
	ComponentTypes []string
	EntityCount    int
}

// CollectStats walks every archetype and singleton. Breakdown entries are
// ordered by id.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		ArchetypeCount: len(s.archetypes),
		SingletonCount: len(s.singletons),
	}

	for _, archetype := range s.GetArchetypes() {
		names := make([]string, len(archetype.types))
		for i, typ := range archetype.types {
			names[i] = typ.String()
		}

		count := archetype.Len()
		stats.TotalEntityCount += count
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             archetype.id,
			ComponentTypes: names,
			EntityCount:    count,
		})
	}

	for typ := range s.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, typ.String())
	}
	slices.Sort(stats.SingletonTypes)

	return stats
}

// GetArchetypes returns every archetype ordered by id.
func (s *Storage) GetArchetypes() []*Archetype {
	return slices.SortedFunc(maps.Values(s.archetypes), func(a, b *Archetype) int {
		return cmp.Compare(a.id, b.id)
	})
}

func (s *Storage) GetArchetypeById(id uint32) *Archetype {
	return s.archetypes[id]
}
