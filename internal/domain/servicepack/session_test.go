package servicepack

import (
	"encoding/json"
	"testing"

	"github.com/erp/servicepack/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleComposition(t *testing.T) Composition {
	t.Helper()
	s := NewSession()
	_, err := s.Tasks.Add(newTask("Drain oil", 1, "Warm engine", "Remove plug"))
	require.NoError(t, err)
	_, err = s.Tasks.Add(newTask("Replace filter", 1))
	require.NoError(t, err)
	_, err = s.Skills.Add(Skill{Name: "ASE A1", Level: SkillLevelAdvanced, Type: SkillTypeCertification, Required: true})
	require.NoError(t, err)
	_, err = s.BOMItems.Add(newBOMItem("OIL-5W30", 2, 10))
	require.NoError(t, err)
	_, err = s.BOMItems.Add(newBOMItem("FLT-001", 1, 5))
	require.NoError(t, err)
	_, err = s.Tools.Add(Tool{Name: "Filter wrench", Specification: "76mm", Required: true})
	require.NoError(t, err)
	_, err = s.SOPs.Add(SOP{Title: "Oil change", Steps: []string{"Drain", "Fill"}})
	require.NoError(t, err)
	_, err = s.SafetyInstructions.Add(SafetyInstruction{
		Title: "Hot oil", Priority: PriorityHigh, Warning: "Burn hazard", Checklist: []string{"Gloves"},
	})
	require.NoError(t, err)
	return s.Snapshot()
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestSession_Snapshot(t *testing.T) {
	t.Run("empty session snapshots to empty, non-nil collections", func(t *testing.T) {
		snap := NewSession().Snapshot()
		assert.True(t, snap.IsEmpty())
		assert.JSONEq(t, `{"tasks":[],"skills":[],"bom_items":[],"tools":[],"sops":[],"safety_instructions":[]}`, mustJSON(t, snap))
	})

	t.Run("snapshot is a deep copy", func(t *testing.T) {
		s := NewSessionFromComposition(sampleComposition(t))
		snap := s.Snapshot()
		snap.Tasks[0].Subtasks[0] = "changed"
		snap.SOPs[0].Steps = nil

		again := s.Snapshot()
		assert.Equal(t, "Warm engine", again.Tasks[0].Subtasks[0])
		assert.Equal(t, []string{"Drain", "Fill"}, again.SOPs[0].Steps)
	})

	t.Run("load then snapshot round trips content and order", func(t *testing.T) {
		original := sampleComposition(t)
		s := NewSessionFromComposition(original)

		var decoded Composition
		require.NoError(t, json.Unmarshal([]byte(mustJSON(t, s.Snapshot())), &decoded))
		assert.JSONEq(t, mustJSON(t, original), mustJSON(t, NewSessionFromComposition(decoded).Snapshot()))
	})
}

func TestSession_Load(t *testing.T) {
	t.Run("id sequence resumes after loaded ids", func(t *testing.T) {
		c := sampleComposition(t)
		highest := c.SafetyInstructions[0].ID

		s := NewSessionFromComposition(c)
		task, err := s.Tasks.Add(newTask("Extra", 1))
		require.NoError(t, err)
		assert.Greater(t, task.ID, highest)
	})

	t.Run("loaded entries keep their ids", func(t *testing.T) {
		c := sampleComposition(t)
		s := NewSessionFromComposition(c)

		got, err := s.BOMItems.Get(c.BOMItems[1].ID)
		require.NoError(t, err)
		assert.Equal(t, "FLT-001", got.PartNumber)
	})
}

func TestSession_AddRemove(t *testing.T) {
	s := NewSession()

	e, err := s.Add(Tool{Name: "Jack"})
	require.NoError(t, err)
	assert.Equal(t, KindTool, e.Kind())
	assert.Equal(t, 1, s.Len(KindTool))

	_, err = s.Add(newBOMItem("ENG-001", 1, 1))
	require.NoError(t, err)
	_, err = s.Add(newBOMItem("ENG-001", 1, 1))
	assert.ErrorIs(t, err, shared.ErrDuplicateKey)
	assert.Equal(t, 1, s.Len(KindBOM))

	require.NoError(t, s.Remove(KindTool, e.EntryID()))
	assert.Equal(t, 0, s.Len(KindTool))
	assert.ErrorIs(t, s.Remove(KindTool, e.EntryID()), shared.ErrNotFound)
	assert.ErrorIs(t, s.Remove(Kind("widget"), 1), shared.ErrValidation)
}

func TestSession_EditingAndSaving(t *testing.T) {
	s := NewSession()
	assert.False(t, s.IsEditing())

	templateID, bundleID := uuid.New(), uuid.New()
	s.MarkEditing(templateID, bundleID)
	gotTemplate, ok := s.EditingTemplateID()
	require.True(t, ok)
	assert.Equal(t, templateID, gotTemplate)
	gotBundle, ok := s.EditingBundleID()
	require.True(t, ok)
	assert.Equal(t, bundleID, gotBundle)

	assert.True(t, s.BeginSave())
	assert.False(t, s.BeginSave())
	assert.True(t, s.IsSaving())

	_, _ = s.Tasks.Add(newTask("A", 1))
	s.Reset()
	assert.False(t, s.IsEditing())
	assert.False(t, s.IsSaving())
	assert.True(t, s.IsEmpty())
}

func TestSession_Summary(t *testing.T) {
	s := NewSessionFromComposition(sampleComposition(t))

	sum := s.Summary()
	assert.Equal(t, 2, sum.Counts[KindTask])
	assert.Equal(t, 2, sum.Counts[KindBOM])
	assert.Equal(t, 1, sum.Counts[KindSafety])
	assert.True(t, sum.TotalHours.Equal(decimal.NewFromInt(2)))
	assert.True(t, sum.MaterialCost.Equal(decimal.NewFromInt(25)))
	assert.False(t, sum.Editing)
}
