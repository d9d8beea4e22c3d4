package debugui

import (
	"reflect"
	"sync"
)

// fieldInfo describes one exported field of a component struct.
type fieldInfo struct {
	Name  string
	Index int
	Type  reflect.Type
	// Shared fields point at data owned by something else, such as a sprite
	// sheet or mesh used by every sprite. They are shown but never edited.
	Shared bool
}

type fieldCache struct {
	mu     sync.RWMutex
	fields map[reflect.Type][]fieldInfo
}

func newFieldCache() *fieldCache {
	return &fieldCache{fields: make(map[reflect.Type][]fieldInfo)}
}

func (c *fieldCache) get(t reflect.Type) []fieldInfo {
	c.mu.RLock()
	cached, ok := c.fields[t]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.fields[t]; ok {
		return cached
	}

	var fields []fieldInfo
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			kind := f.Type.Kind()
			fields = append(fields, fieldInfo{
				Name:   f.Name,
				Index:  i,
				Type:   f.Type,
				Shared: kind == reflect.Pointer || kind == reflect.Slice || kind == reflect.Map || kind == reflect.Func,
			})
		}
	}

	c.fields[t] = fields
	return fields
}

var componentFields = newFieldCache()
