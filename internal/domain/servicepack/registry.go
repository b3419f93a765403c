package servicepack

import (
	"fmt"
	"slices"
	"time"

	"github.com/erp/servicepack/internal/domain/shared"
	"github.com/google/uuid"
)

// Copy suffixes applied by Clone
const (
	CopyCodeSuffix = "-COPY"
	CopyNameSuffix = " (Copy)"
)

// record is a persisted row keyed by code
type record[T any] interface {
	Template | ServiceBundle
	recordID() uuid.UUID
	recordCode() string
	// adopt carries identity and creation metadata of prev over to the receiver
	adopt(prev T, now time.Time) T
}

func (t Template) recordID() uuid.UUID { return t.ID }
func (t Template) recordCode() string { return t.Code }

func (t Template) adopt(prev Template, now time.Time) Template {
	t.ID = prev.ID
	t.CreatedAt = prev.CreatedAt
	t.CreatedBy = prev.CreatedBy
	t.UpdatedAt = now
	return t
}

func (b ServiceBundle) recordID() uuid.UUID { return b.ID }
func (b ServiceBundle) recordCode() string { return b.Code }

func (b ServiceBundle) adopt(prev ServiceBundle, now time.Time) ServiceBundle {
	b.ID = prev.ID
	b.CreatedAt = prev.CreatedAt
	b.CreatedBy = prev.CreatedBy
	b.UpdatedAt = now
	return b
}

// UpsertTemplate places t into templates and returns the new list and the
// stored template. With a non-nil editing id the template at that id is
// replaced; otherwise an existing template with the same code is overwritten
// in place, and t is appended when the code is new.
func UpsertTemplate(templates []Template, t Template, editing uuid.UUID, now time.Time) ([]Template, Template, error) {
	return upsert(templates, t, editing, now, "Service package")
}

// UpsertBundle applies the same rules as UpsertTemplate to bundles
func UpsertBundle(bundles []ServiceBundle, b ServiceBundle, editing uuid.UUID, now time.Time) ([]ServiceBundle, ServiceBundle, error) {
	return upsert(bundles, b, editing, now, "Service bundle")
}

func upsert[T record[T]](items []T, item T, editing uuid.UUID, now time.Time, label string) ([]T, T, error) {
	out := slices.Clone(items)
	byCode := slices.IndexFunc(out, func(r T) bool { return r.recordCode() == item.recordCode() })

	if editing != uuid.Nil {
		if idx := slices.IndexFunc(out, func(r T) bool { return r.recordID() == editing }); idx >= 0 {
			if byCode >= 0 && byCode != idx {
				var zero T
				return nil, zero, shared.NewDuplicateKeyError("%s code %q is already used by another record", label, item.recordCode())
			}
			stored := item.adopt(out[idx], now)
			out[idx] = stored
			return out, stored, nil
		}
		// the edited record is gone; fall back to the code key
	}

	if byCode >= 0 {
		stored := item.adopt(out[byCode], now)
		out[byCode] = stored
		return out, stored, nil
	}
	return append(out, item), item, nil
}

// FindTemplate returns the template with the given id
func FindTemplate(templates []Template, id uuid.UUID) (Template, error) {
	idx := slices.IndexFunc(templates, func(t Template) bool { return t.ID == id })
	if idx < 0 {
		return Template{}, shared.NewNotFoundError("template %s not found", id)
	}
	return templates[idx].Clone(), nil
}

// FindBundle returns the bundle with the given id
func FindBundle(bundles []ServiceBundle, id uuid.UUID) (ServiceBundle, error) {
	idx := slices.IndexFunc(bundles, func(b ServiceBundle) bool { return b.ID == id })
	if idx < 0 {
		return ServiceBundle{}, shared.NewNotFoundError("service bundle %s not found", id)
	}
	return bundles[idx].Clone(), nil
}

// DeleteTemplate removes the template with the given id and every bundle whose
// snapshot was derived from it. It returns the remaining lists and the number
// of bundles removed.
func DeleteTemplate(templates []Template, bundles []ServiceBundle, id uuid.UUID) ([]Template, []ServiceBundle, int, error) {
	idx := slices.IndexFunc(templates, func(t Template) bool { return t.ID == id })
	if idx < 0 {
		return nil, nil, 0, shared.NewNotFoundError("template %s not found", id)
	}
	remainingTemplates := slices.Delete(slices.Clone(templates), idx, idx+1)
	remainingBundles := slices.DeleteFunc(slices.Clone(bundles), func(b ServiceBundle) bool {
		return b.TemplateID() == id
	})
	return remainingTemplates, remainingBundles, len(bundles) - len(remainingBundles), nil
}

// DeleteBundle removes a single bundle and leaves its template in place
func DeleteBundle(bundles []ServiceBundle, id uuid.UUID) ([]ServiceBundle, error) {
	idx := slices.IndexFunc(bundles, func(b ServiceBundle) bool { return b.ID == id })
	if idx < 0 {
		return nil, shared.NewNotFoundError("service bundle %s not found", id)
	}
	return slices.Delete(slices.Clone(bundles), idx, idx+1), nil
}

// CopyCode returns the first of code-COPY, code-COPY-2, code-COPY-3, ...
// that is free as a template code and whose bundle code is free too
func CopyCode(code string, templates []Template, bundles []ServiceBundle) string {
	taken := make(map[string]bool, len(templates)+len(bundles))
	for _, t := range templates {
		taken[t.Code] = true
	}
	for _, b := range bundles {
		taken[b.Code] = true
	}
	base := NormalizeCode(code) + CopyCodeSuffix
	candidate := base
	for n := 2; taken[candidate] || taken[BundleCode(candidate)]; n++ {
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return candidate
}

// CloneTemplate deep-copies t under a new id with a free copy code and a
// suffixed name, and appends it to templates
func CloneTemplate(t Template, templates []Template, bundles []ServiceBundle, createdBy string, now time.Time) ([]Template, Template) {
	c := t.Clone()
	c.BaseEntity = shared.NewBaseEntityAt(now)
	c.Code = CopyCode(t.Code, templates, bundles)
	c.Name = t.Name + CopyNameSuffix
	c.CreatedBy = createdBy
	return append(slices.Clone(templates), c), c
}

// CloneBundle copies b together with its template snapshot. The template copy
// gets a new id and a free copy code, and the bundle code is derived from it,
// so the new pair is independent of the source. Both are appended.
func CloneBundle(b ServiceBundle, templates []Template, bundles []ServiceBundle, createdBy string, now time.Time) ([]Template, []ServiceBundle, ServiceBundle) {
	tpl := b.Template.Clone()
	tpl.BaseEntity = shared.NewBaseEntityAt(now)
	tpl.Code = CopyCode(b.Template.Code, templates, bundles)
	tpl.Name = b.Template.Name + CopyNameSuffix
	tpl.CreatedBy = createdBy

	c := b.Clone()
	c.BaseEntity = shared.NewBaseEntityAt(now)
	c.Code = BundleCode(tpl.Code)
	c.Name = b.Name + CopyNameSuffix
	c.Template = tpl
	c.CreatedBy = createdBy
	return append(slices.Clone(templates), tpl), append(slices.Clone(bundles), c), c
}
