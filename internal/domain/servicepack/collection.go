package servicepack

import (
	"iter"
	"slices"
	"strings"

	"github.com/erp/servicepack/internal/domain/shared"
)

// Collection is the editor for one ingredient kind. It keeps entries in
// insertion order and stamps ids from the owning session's sequence.
type Collection[T entryOf[T]] struct {
	items  []T
	nextID func() EntryID
	// uniqueKey, when set, returns the key that must be unique within the collection
	uniqueKey func(T) string
}

func newCollection[T entryOf[T]](nextID func() EntryID, uniqueKey func(T) string) *Collection[T] {
	return &Collection[T]{nextID: nextID, uniqueKey: uniqueKey}
}

// Add validates e, assigns a fresh id and appends it. The stored entry is returned.
func (c *Collection[T]) Add(e T) (T, error) {
	var zero T
	if err := ValidateEntry(e); err != nil {
		return zero, err
	}
	if err := c.checkUnique(e, 0); err != nil {
		return zero, err
	}
	stored := e.clone().withID(c.nextID())
	c.items = append(c.items, stored)
	return stored.clone(), nil
}

// Update merges patch into the entry with the given id, re-validates and
// replaces it in place.
func (c *Collection[T]) Update(id EntryID, patch Patch[T]) (T, error) {
	var zero T
	idx := c.indexOf(id)
	if idx < 0 {
		return zero, c.notFound(id)
	}
	updated := patch.Apply(c.items[idx].clone()).withID(id)
	if err := ValidateEntry(updated); err != nil {
		return zero, err
	}
	if err := c.checkUnique(updated, id); err != nil {
		return zero, err
	}
	c.items[idx] = updated
	return updated.clone(), nil
}

// Remove deletes the entry with the given id. Nested data (subtasks, steps,
// checklist items) lives inside the entry and goes with it.
func (c *Collection[T]) Remove(id EntryID) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return c.notFound(id)
	}
	c.items = slices.Delete(c.items, idx, idx+1)
	return nil
}

// Get returns a copy of the entry with the given id
func (c *Collection[T]) Get(id EntryID) (T, error) {
	idx := c.indexOf(id)
	if idx < 0 {
		var zero T
		return zero, c.notFound(id)
	}
	return c.items[idx].clone(), nil
}

// List returns the entries in insertion order. The sequence is lazy and can be
// ranged over repeatedly; each pass sees the collection as it is at that time.
func (c *Collection[T]) List() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range c.items {
			if !yield(item.clone()) {
				return
			}
		}
	}
}

// Len returns the number of entries
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// snapshot deep-copies the entries
func (c *Collection[T]) snapshot() []T {
	return slices.Collect(c.List())
}

// load replaces the contents with already-identified entries
func (c *Collection[T]) load(items []T) {
	c.items = make([]T, 0, len(items))
	for _, item := range items {
		c.items = append(c.items, item.clone())
	}
}

func (c *Collection[T]) maxID() EntryID {
	var highest EntryID
	for _, item := range c.items {
		highest = max(highest, item.EntryID())
	}
	return highest
}

func (c *Collection[T]) indexOf(id EntryID) int {
	return slices.IndexFunc(c.items, func(item T) bool { return item.EntryID() == id })
}

// checkUnique rejects e when another entry (id != self) holds the same unique key
func (c *Collection[T]) checkUnique(e T, self EntryID) error {
	if c.uniqueKey == nil {
		return nil
	}
	key := c.uniqueKey(e)
	for _, item := range c.items {
		if item.EntryID() != self && c.uniqueKey(item) == key {
			return shared.NewDuplicateKeyError("%s %q already exists in this package", e.Kind().Label(), key)
		}
	}
	return nil
}

func (c *Collection[T]) notFound(id EntryID) error {
	var zero T
	return shared.NewNotFoundError("%s %d not found", zero.Kind().Label(), id)
}

// bomPartKey normalizes part numbers so "eng-001" and "ENG-001 " collide
func bomPartKey(b BOMItem) string {
	return strings.ToUpper(strings.TrimSpace(b.PartNumber))
}
