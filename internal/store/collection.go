package store

import (
	"encoding/json"
	"fmt"

	"casa/internal/core"
)

// collection keeps one kind of entity in insertion order. It is not safe for
// concurrent use; Store serializes access.
type collection[T core.Entity] struct {
	kind     core.Kind
	unscoped bool
	order    []string
	items    map[string]T
}

func newCollection[T core.Entity](kind core.Kind) *collection[T] {
	return &collection[T]{
		kind:     kind,
		unscoped: kind == core.KindHousehold,
		items:    make(map[string]T),
	}
}

// entries is the type-erased view used by kind-generic callers (HTTP CRUD,
// persistence, seeding). Stampable values handed out are always *T.
type entries interface {
	Kind() core.Kind
	Len() int
	decode(body []byte) (core.Stampable, error)
	getEntity(id string) (core.Stampable, bool)
	listEntities(scope string) []core.Entity
	prepare(e core.Entity) (stored any, body []byte, err error)
	commit(stored any)
	remove(id string) bool
}

func (c *collection[T]) Kind() core.Kind { return c.kind }
func (c *collection[T]) Len() int        { return len(c.order) }

// list returns the stored values, filtered by scope. The values share slices
// with the store and must be treated as read-only.
func (c *collection[T]) list(scope string) []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		v := c.items[id]
		if scope != "" && !c.unscoped && v.ScopeID() != scope {
			continue
		}
		out = append(out, v)
	}
	return out
}

// get returns a deep copy the caller may mutate freely.
func (c *collection[T]) get(id string) (T, bool) {
	v, ok := c.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	cp, err := clone(v)
	if err != nil {
		return v, true
	}
	return cp, true
}

func (c *collection[T]) put(v T) {
	id := v.EntityID()
	if _, exists := c.items[id]; !exists {
		c.order = append(c.order, id)
	}
	c.items[id] = v
}

func (c *collection[T]) remove(id string) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *collection[T]) decode(body []byte) (core.Stampable, error) {
	v := new(T)
	if err := json.Unmarshal(body, v); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, c.kind, err)
	}
	s, ok := any(v).(core.Stampable)
	if !ok {
		return nil, fmt.Errorf("%s: entity type has no metadata", c.kind)
	}
	return s, nil
}

func (c *collection[T]) getEntity(id string) (core.Stampable, bool) {
	v, ok := c.get(id)
	if !ok {
		return nil, false
	}
	s, ok := any(&v).(core.Stampable)
	return s, ok
}

func (c *collection[T]) listEntities(scope string) []core.Entity {
	items := c.list(scope)
	out := make([]core.Entity, len(items))
	for i, v := range items {
		out[i] = v
	}
	return out
}

// prepare deep-copies e and encodes it for persistence without touching the
// collection.
func (c *collection[T]) prepare(e core.Entity) (any, []byte, error) {
	var v T
	switch x := any(e).(type) {
	case T:
		v = x
	case *T:
		v = *x
	default:
		return nil, nil, fmt.Errorf("%s: unexpected entity type %T", c.kind, e)
	}
	body, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("encode %s: %w", c.kind, err)
	}
	var stored T
	if err := json.Unmarshal(body, &stored); err != nil {
		return nil, nil, fmt.Errorf("copy %s: %w", c.kind, err)
	}
	return stored, body, nil
}

func (c *collection[T]) commit(stored any) {
	c.put(stored.(T))
}

func clone[T any](v T) (T, error) {
	var out T
	b, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(b, &out)
	return out, err
}
