package servicepack

import (
	"testing"
	"time"

	"github.com/erp/servicepack/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
)

func mustTemplate(t *testing.T, code string, c Composition) Template {
	t.Helper()
	tpl, err := NewTemplate(TemplateFields{Code: code, Name: "Oil service", Description: "Full service"}, c, "alice", t0)
	require.NoError(t, err)
	return *tpl
}

func TestNewTemplate(t *testing.T) {
	t.Run("normalizes code and derives hours", func(t *testing.T) {
		tpl := mustTemplate(t, "  oil-svc ", sampleComposition(t))
		assert.Equal(t, "OIL-SVC", tpl.Code)
		assert.Equal(t, TemplateStatusActive, tpl.Status)
		assert.Equal(t, "alice", tpl.CreatedBy)
		assert.Equal(t, t0, tpl.CreatedAt)
		assert.NotEqual(t, uuid.Nil, tpl.ID)
		assert.True(t, tpl.TotalHours.Equal(decimal.NewFromInt(2)))
	})

	t.Run("fails with blank code or name", func(t *testing.T) {
		_, err := NewTemplate(TemplateFields{Code: " ", Name: "x"}, Composition{}, "", t0)
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Contains(t, err.Error(), "code: This field is required")

		_, err = NewTemplate(TemplateFields{Code: "X"}, Composition{}, "", t0)
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Contains(t, err.Error(), "name: This field is required")
	})
}

func TestDeriveBundle(t *testing.T) {
	t.Run("prices the template and links back to it", func(t *testing.T) {
		tpl := mustTemplate(t, "OIL-SVC", sampleComposition(t))

		b := DeriveBundle(tpl, decimal.NewFromInt(75), t0)
		assert.Equal(t, "OIL-SVC-BUNDLE", b.Code)
		assert.Equal(t, BundleTypeServicePackage, b.Type)
		assert.Equal(t, "Engine", b.Category)
		assert.Equal(t, tpl.ID, b.TemplateID())
		assert.NotEqual(t, tpl.ID, b.ID)
		assert.Equal(t, BundleStatusActive, b.Status)
		// 2 * 10 + 1 * 5 + 2h * 75
		assert.True(t, b.EstimatedCost.Equal(decimal.NewFromInt(175)), "got %s", b.EstimatedCost)
		assert.True(t, b.MaterialCost.Equal(decimal.NewFromInt(25)))
		assert.True(t, b.LaborCost.Equal(decimal.NewFromInt(150)))
	})

	t.Run("defaults category when there are no tasks", func(t *testing.T) {
		tpl := mustTemplate(t, "EMPTY", Composition{})
		b := DeriveBundle(tpl, DefaultLaborRatePerHour, t0)
		assert.Equal(t, DefaultBundleCategory, b.Category)
		assert.True(t, b.EstimatedCost.IsZero())
	})

	t.Run("snapshot is independent from the template", func(t *testing.T) {
		tpl := mustTemplate(t, "OIL-SVC", sampleComposition(t))
		b := DeriveBundle(tpl, DefaultLaborRatePerHour, t0)

		tpl.Composition.Tasks[0].Subtasks[0] = "changed"
		assert.Equal(t, "Warm engine", b.Template.Composition.Tasks[0].Subtasks[0])
	})
}

func TestUpsertTemplate(t *testing.T) {
	t.Run("appends a new code", func(t *testing.T) {
		tpl := mustTemplate(t, "A", Composition{})

		list, stored, err := UpsertTemplate(nil, tpl, uuid.Nil, t1)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, tpl.ID, stored.ID)
	})

	t.Run("same code twice yields exactly one record", func(t *testing.T) {
		first := mustTemplate(t, "A", sampleComposition(t))
		list, _, err := UpsertTemplate(nil, first, uuid.Nil, t0)
		require.NoError(t, err)

		second := mustTemplate(t, "a", sampleComposition(t))
		list, stored, err := UpsertTemplate(list, second, uuid.Nil, t1)
		require.NoError(t, err)

		require.Len(t, list, 1)
		assert.Equal(t, first.ID, stored.ID)
		assert.Equal(t, first.CreatedAt, stored.CreatedAt)
		assert.Equal(t, t1, stored.UpdatedAt)
	})

	t.Run("editing replaces by id even when the code changes", func(t *testing.T) {
		original := mustTemplate(t, "A", Composition{})
		other := mustTemplate(t, "B", Composition{})
		list := []Template{original, other}

		renamed := mustTemplate(t, "A2", Composition{})
		list, stored, err := UpsertTemplate(list, renamed, original.ID, t1)
		require.NoError(t, err)

		require.Len(t, list, 2)
		assert.Equal(t, original.ID, stored.ID)
		assert.Equal(t, "A2", list[0].Code)
		assert.Equal(t, "B", list[1].Code)
	})

	t.Run("editing onto a code held by another template fails", func(t *testing.T) {
		original := mustTemplate(t, "A", Composition{})
		other := mustTemplate(t, "B", Composition{})
		list := []Template{original, other}

		clash := mustTemplate(t, "B", Composition{})
		_, _, err := UpsertTemplate(list, clash, original.ID, t1)
		assert.ErrorIs(t, err, shared.ErrDuplicateKey)
	})

	t.Run("does not mutate the input list", func(t *testing.T) {
		first := mustTemplate(t, "A", Composition{})
		list := []Template{first}

		second := mustTemplate(t, "A", sampleComposition(t))
		_, _, err := UpsertTemplate(list, second, uuid.Nil, t1)
		require.NoError(t, err)
		assert.True(t, list[0].Composition.IsEmpty())
	})
}

func TestUpsertBundle(t *testing.T) {
	tpl := mustTemplate(t, "A", Composition{})
	first := *DeriveBundle(tpl, DefaultLaborRatePerHour, t0)
	list, _, err := UpsertBundle(nil, first, uuid.Nil, t0)
	require.NoError(t, err)

	second := *DeriveBundle(tpl, DefaultLaborRatePerHour, t1)
	list, stored, err := UpsertBundle(list, second, uuid.Nil, t1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, stored.ID)
}

func TestDeleteTemplate(t *testing.T) {
	t.Run("cascades to every bundle derived from the template", func(t *testing.T) {
		keep := mustTemplate(t, "KEEP", Composition{})
		drop := mustTemplate(t, "DROP", Composition{})
		dropBundle := *DeriveBundle(drop, DefaultLaborRatePerHour, t0)
		dropAgain := *DeriveBundle(drop, DefaultLaborRatePerHour, t1)
		keepBundle := *DeriveBundle(keep, DefaultLaborRatePerHour, t0)

		templates, bundles, removed, err := DeleteTemplate(
			[]Template{keep, drop},
			[]ServiceBundle{dropBundle, keepBundle, dropAgain},
			drop.ID,
		)
		require.NoError(t, err)
		assert.Equal(t, 2, removed)
		require.Len(t, templates, 1)
		assert.Equal(t, keep.ID, templates[0].ID)
		require.Len(t, bundles, 1)
		assert.Equal(t, keepBundle.ID, bundles[0].ID)
	})

	t.Run("fails with not found for unknown id", func(t *testing.T) {
		_, _, _, err := DeleteTemplate(nil, nil, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestDeleteBundle(t *testing.T) {
	tpl := mustTemplate(t, "A", Composition{})
	b := *DeriveBundle(tpl, DefaultLaborRatePerHour, t0)

	remaining, err := DeleteBundle([]ServiceBundle{b}, b.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	_, err = DeleteBundle(remaining, b.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCopyCode(t *testing.T) {
	tpl := mustTemplate(t, "OIL-SVC", Composition{})

	assert.Equal(t, "OIL-SVC-COPY", CopyCode("oil-svc", nil, nil))

	first := tpl
	first.Code = "OIL-SVC-COPY"
	assert.Equal(t, "OIL-SVC-COPY-2", CopyCode("OIL-SVC", []Template{tpl, first}, nil))

	orphan := *DeriveBundle(tpl, DefaultLaborRatePerHour, t0)
	orphan.Code = "OIL-SVC-COPY-2-BUNDLE"
	assert.Equal(t, "OIL-SVC-COPY-3", CopyCode("OIL-SVC", []Template{tpl, first}, []ServiceBundle{orphan}),
		"a candidate whose bundle code is taken is skipped")
}

func TestClone(t *testing.T) {
	t.Run("template copy gets new identity and suffixes", func(t *testing.T) {
		tpl := mustTemplate(t, "OIL-SVC", sampleComposition(t))

		list, c := CloneTemplate(tpl, []Template{tpl}, nil, "bob", t1)
		require.Len(t, list, 2)
		assert.Equal(t, c.ID, list[1].ID)
		assert.NotEqual(t, tpl.ID, c.ID)
		assert.Equal(t, "OIL-SVC-COPY", c.Code)
		assert.Equal(t, "Oil service (Copy)", c.Name)
		assert.Equal(t, "bob", c.CreatedBy)
		assert.Equal(t, t1, c.CreatedAt)

		c.Composition.Tasks[0].Name = "changed"
		assert.Equal(t, "Drain oil", tpl.Composition.Tasks[0].Name)
	})

	t.Run("cloning twice appends a second copy", func(t *testing.T) {
		tpl := mustTemplate(t, "OIL-SVC", Composition{})

		list, first := CloneTemplate(tpl, []Template{tpl}, nil, "bob", t1)
		list, second := CloneTemplate(tpl, list, nil, "bob", t1)
		require.Len(t, list, 3)
		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, "OIL-SVC-COPY-2", second.Code)
	})

	t.Run("bundle copy gets its own template", func(t *testing.T) {
		tpl := mustTemplate(t, "OIL-SVC", sampleComposition(t))
		b := *DeriveBundle(tpl, DefaultLaborRatePerHour, t0)

		templates, bundles, c := CloneBundle(b, []Template{tpl}, []ServiceBundle{b}, "bob", t1)
		require.Len(t, templates, 2)
		require.Len(t, bundles, 2)
		assert.NotEqual(t, b.ID, c.ID)
		assert.NotEqual(t, tpl.ID, c.TemplateID())
		assert.Equal(t, templates[1].ID, c.TemplateID())
		assert.Equal(t, "OIL-SVC-COPY", c.Template.Code)
		assert.Equal(t, BundleCode(c.Template.Code), c.Code)
		assert.Equal(t, "Oil service (Copy)", c.Name)
		assert.True(t, c.EstimatedCost.Equal(b.EstimatedCost))

		c.Template.Composition.Tasks[0].Name = "changed"
		assert.Equal(t, "Drain oil", b.Template.Composition.Tasks[0].Name)

		_, remaining, removed, err := DeleteTemplate(templates, bundles, tpl.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
		require.Len(t, remaining, 1)
		assert.Equal(t, c.ID, remaining[0].ID)
	})
}
