package servicepack

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Patch is a typed partial update for one entry kind. Nil fields are left unchanged.
type Patch[T any] interface {
	Apply(T) T
}

// TaskPatch updates a Task
type TaskPatch struct {
	Name           *string
	Category       *string
	EstimatedHours *decimal.Decimal
	Description    *string
	Subtasks       *[]string
}

// Apply returns a copy of t with the patch merged in
func (p TaskPatch) Apply(t Task) Task {
	t = t.clone()
	setIf(&t.Name, p.Name)
	setIf(&t.Category, p.Category)
	setIf(&t.EstimatedHours, p.EstimatedHours)
	setIf(&t.Description, p.Description)
	if p.Subtasks != nil {
		t.Subtasks = slices.Clone(*p.Subtasks)
	}
	return t
}

// SkillPatch updates a Skill
type SkillPatch struct {
	Name     *string
	Level    *SkillLevel
	Type     *SkillType
	Required *bool
}

// Apply returns a copy of s with the patch merged in
func (p SkillPatch) Apply(s Skill) Skill {
	setIf(&s.Name, p.Name)
	setIf(&s.Level, p.Level)
	setIf(&s.Type, p.Type)
	setIf(&s.Required, p.Required)
	return s
}

// BOMItemPatch updates a BOMItem
type BOMItemPatch struct {
	PartNumber  *string
	Description *string
	Category    *string
	Quantity    *decimal.Decimal
	Unit        *string
	UnitCost    *decimal.Decimal
}

// Apply returns a copy of b with the patch merged in
func (p BOMItemPatch) Apply(b BOMItem) BOMItem {
	setIf(&b.PartNumber, p.PartNumber)
	setIf(&b.Description, p.Description)
	setIf(&b.Category, p.Category)
	setIf(&b.Quantity, p.Quantity)
	setIf(&b.Unit, p.Unit)
	setIf(&b.UnitCost, p.UnitCost)
	return b
}

// ToolPatch updates a Tool
type ToolPatch struct {
	Name          *string
	Specification *string
	Category      *string
	Required      *bool
}

// Apply returns a copy of t with the patch merged in
func (p ToolPatch) Apply(t Tool) Tool {
	setIf(&t.Name, p.Name)
	setIf(&t.Specification, p.Specification)
	setIf(&t.Category, p.Category)
	setIf(&t.Required, p.Required)
	return t
}

// SOPPatch updates a SOP
type SOPPatch struct {
	Title    *string
	Category *string
	Steps    *[]string
}

// Apply returns a copy of s with the patch merged in
func (p SOPPatch) Apply(s SOP) SOP {
	s = s.clone()
	setIf(&s.Title, p.Title)
	setIf(&s.Category, p.Category)
	if p.Steps != nil {
		s.Steps = slices.Clone(*p.Steps)
	}
	return s
}

// SafetyInstructionPatch updates a SafetyInstruction
type SafetyInstructionPatch struct {
	Title     *string
	Priority  *Priority
	Category  *string
	Warning   *string
	Checklist *[]string
}

// Apply returns a copy of s with the patch merged in
func (p SafetyInstructionPatch) Apply(s SafetyInstruction) SafetyInstruction {
	s = s.clone()
	setIf(&s.Title, p.Title)
	setIf(&s.Priority, p.Priority)
	setIf(&s.Category, p.Category)
	setIf(&s.Warning, p.Warning)
	if p.Checklist != nil {
		s.Checklist = slices.Clone(*p.Checklist)
	}
	return s
}

func setIf[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}
