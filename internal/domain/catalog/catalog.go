// Package catalog provides the read-only lists of predefined entries that
// feed quick-insert into a service package composition.
package catalog

import (
	"iter"
	"slices"

	"github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/erp/servicepack/internal/domain/shared"
)

// Provider exposes predefined entries per kind
type Provider interface {
	// ListPredefined returns the entries of kind k in catalog order
	ListPredefined(k servicepack.Kind) iter.Seq[servicepack.Entry]
	// Lookup returns the entry of kind k at the given catalog index
	Lookup(k servicepack.Kind, index int) (servicepack.Entry, error)
}

// Catalog is an immutable set of predefined entries, one ordered list per kind
type Catalog struct {
	tasks              []servicepack.Task
	skills             []servicepack.Skill
	bomItems           []servicepack.BOMItem
	tools              []servicepack.Tool
	sops               []servicepack.SOP
	safetyInstructions []servicepack.SafetyInstruction
}

// New creates a catalog from the given composition. Entry ids are cleared,
// since ids are assigned when an entry is inserted into a session.
func New(c servicepack.Composition) *Catalog {
	c = c.Clone()
	for i := range c.Tasks {
		c.Tasks[i].ID = 0
	}
	for i := range c.Skills {
		c.Skills[i].ID = 0
	}
	for i := range c.BOMItems {
		c.BOMItems[i].ID = 0
	}
	for i := range c.Tools {
		c.Tools[i].ID = 0
	}
	for i := range c.SOPs {
		c.SOPs[i].ID = 0
	}
	for i := range c.SafetyInstructions {
		c.SafetyInstructions[i].ID = 0
	}
	return &Catalog{
		tasks:              c.Tasks,
		skills:             c.Skills,
		bomItems:           c.BOMItems,
		tools:              c.Tools,
		sops:               c.SOPs,
		safetyInstructions: c.SafetyInstructions,
	}
}

// ListPredefined returns the entries of kind k in catalog order. Every pass
// yields fresh copies, so callers cannot modify the catalog.
func (c *Catalog) ListPredefined(k servicepack.Kind) iter.Seq[servicepack.Entry] {
	return func(yield func(servicepack.Entry) bool) {
		for i := range c.Len(k) {
			e, _ := c.Lookup(k, i)
			if !yield(e) {
				return
			}
		}
	}
}

// Lookup returns the entry of kind k at index
func (c *Catalog) Lookup(k servicepack.Kind, index int) (servicepack.Entry, error) {
	if !k.IsValid() {
		return nil, shared.NewValidationError("unknown entry kind %q", k)
	}
	if index < 0 || index >= c.Len(k) {
		return nil, shared.NewNotFoundError("%s catalog has no entry at index %d", k.Label(), index)
	}
	switch k {
	case servicepack.KindTask:
		e := c.tasks[index]
		e.Subtasks = slices.Clone(e.Subtasks)
		return e, nil
	case servicepack.KindSkill:
		return c.skills[index], nil
	case servicepack.KindBOM:
		return c.bomItems[index], nil
	case servicepack.KindTool:
		return c.tools[index], nil
	case servicepack.KindSOP:
		e := c.sops[index]
		e.Steps = slices.Clone(e.Steps)
		return e, nil
	case servicepack.KindSafety:
		e := c.safetyInstructions[index]
		e.Checklist = slices.Clone(e.Checklist)
		return e, nil
	}
	return nil, shared.NewValidationError("unknown entry kind %q", k)
}

// Len returns the number of predefined entries of kind k
func (c *Catalog) Len(k servicepack.Kind) int {
	switch k {
	case servicepack.KindTask:
		return len(c.tasks)
	case servicepack.KindSkill:
		return len(c.skills)
	case servicepack.KindBOM:
		return len(c.bomItems)
	case servicepack.KindTool:
		return len(c.tools)
	case servicepack.KindSOP:
		return len(c.sops)
	case servicepack.KindSafety:
		return len(c.safetyInstructions)
	}
	return 0
}

// Composition returns a deep copy of the whole catalog
func (c *Catalog) Composition() servicepack.Composition {
	return servicepack.Composition{
		Tasks:              c.tasks,
		Skills:             c.skills,
		BOMItems:           c.bomItems,
		Tools:              c.tools,
		SOPs:               c.sops,
		SafetyInstructions: c.safetyInstructions,
	}.Clone()
}
