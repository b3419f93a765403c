package servicepack

import (
	"slices"

	"github.com/shopspring/decimal"
)

// EntryID identifies an entry within its collection. IDs come from a
// per-session sequence and are never reused.
type EntryID int64

// Entry is the sealed sum type over the six ingredient kinds.
// Implementations: Task, Skill, BOMItem, Tool, SOP, SafetyInstruction.
type Entry interface {
	Kind() Kind
	EntryID() EntryID
	sealed()
}

// entryOf lets generic collections stamp ids and deep-copy a concrete kind
type entryOf[T any] interface {
	Entry
	withID(id EntryID) T
	clone() T
}

// SkillLevel is the proficiency required for a skill
type SkillLevel string

const (
	SkillLevelBeginner     SkillLevel = "Beginner"
	SkillLevelIntermediate SkillLevel = "Intermediate"
	SkillLevelAdvanced     SkillLevel = "Advanced"
	SkillLevelExpert       SkillLevel = "Expert"
)

// SkillType classifies a skill
type SkillType string

const (
	SkillTypeTechnical     SkillType = "Technical"
	SkillTypeCertification SkillType = "Certification"
	SkillTypeSafety        SkillType = "Safety"
	SkillTypeOperational   SkillType = "Operational"
)

// Priority ranks a safety instruction
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Task is a unit of labor with an hour estimate and ordered subtasks
type Task struct {
	ID             EntryID         `json:"id"`
	Name           string          `json:"name" yaml:"name" validate:"notblank"`
	Category       string          `json:"category" yaml:"category" validate:"notblank"`
	EstimatedHours decimal.Decimal `json:"estimated_hours" yaml:"estimated_hours" validate:"dgt0"`
	Description    string          `json:"description" yaml:"description"`
	Subtasks       []string        `json:"subtasks" yaml:"subtasks" validate:"dive,notblank"`
}

func (Task) Kind() Kind { return KindTask }
func (t Task) EntryID() EntryID { return t.ID }
func (Task) sealed() {}
func (t Task) withID(id EntryID) Task { t.ID = id; return t }

func (t Task) clone() Task {
	t.Subtasks = slices.Clone(t.Subtasks)
	return t
}

// Skill is a competency the technician must hold
type Skill struct {
	ID       EntryID    `json:"id"`
	Name     string     `json:"name" yaml:"name" validate:"notblank"`
	Level    SkillLevel `json:"level" yaml:"level" validate:"oneof=Beginner Intermediate Advanced Expert"`
	Type     SkillType  `json:"type" yaml:"type" validate:"oneof=Technical Certification Safety Operational"`
	Required bool       `json:"required" yaml:"required"`
}

func (Skill) Kind() Kind { return KindSkill }
func (s Skill) EntryID() EntryID { return s.ID }
func (Skill) sealed() {}
func (s Skill) withID(id EntryID) Skill { s.ID = id; return s }
func (s Skill) clone() Skill { return s }

// BOMItem is a bill-of-materials line. PartNumber is unique within a session.
type BOMItem struct {
	ID          EntryID         `json:"id"`
	PartNumber  string          `json:"part_number" yaml:"part_number" validate:"notblank"`
	Description string          `json:"description" yaml:"description" validate:"notblank"`
	Category    string          `json:"category" yaml:"category"`
	Quantity    decimal.Decimal `json:"quantity" yaml:"quantity" validate:"dgt0"`
	Unit        string          `json:"unit" yaml:"unit" validate:"notblank"`
	UnitCost    decimal.Decimal `json:"unit_cost" yaml:"unit_cost" validate:"dgte0"`
}

func (BOMItem) Kind() Kind { return KindBOM }
func (b BOMItem) EntryID() EntryID { return b.ID }
func (BOMItem) sealed() {}
func (b BOMItem) withID(id EntryID) BOMItem { b.ID = id; return b }
func (b BOMItem) clone() BOMItem { return b }

// LineCost returns quantity * unit cost
func (b BOMItem) LineCost() decimal.Decimal {
	return b.Quantity.Mul(b.UnitCost)
}

// Tool is a piece of equipment used on the job
type Tool struct {
	ID            EntryID `json:"id"`
	Name          string  `json:"name" yaml:"name" validate:"notblank"`
	Specification string  `json:"specification" yaml:"specification"`
	Category      string  `json:"category" yaml:"category"`
	Required      bool    `json:"required" yaml:"required"`
}

func (Tool) Kind() Kind { return KindTool }
func (t Tool) EntryID() EntryID { return t.ID }
func (Tool) sealed() {}
func (t Tool) withID(id EntryID) Tool { t.ID = id; return t }
func (t Tool) clone() Tool { return t }

// SOP is a standard operating procedure with ordered steps
type SOP struct {
	ID       EntryID  `json:"id"`
	Title    string   `json:"title" yaml:"title" validate:"notblank"`
	Category string   `json:"category" yaml:"category"`
	Steps    []string `json:"steps" yaml:"steps" validate:"min=1,dive,notblank"`
}

func (SOP) Kind() Kind { return KindSOP }
func (s SOP) EntryID() EntryID { return s.ID }
func (SOP) sealed() {}
func (s SOP) withID(id EntryID) SOP { s.ID = id; return s }

func (s SOP) clone() SOP {
	s.Steps = slices.Clone(s.Steps)
	return s
}

// SafetyInstruction is a prioritized warning with an ordered checklist
type SafetyInstruction struct {
	ID        EntryID  `json:"id"`
	Title     string   `json:"title" yaml:"title" validate:"notblank"`
	Priority  Priority `json:"priority" yaml:"priority" validate:"oneof=low medium high"`
	Category  string   `json:"category" yaml:"category"`
	Warning   string   `json:"warning" yaml:"warning"`
	Checklist []string `json:"checklist" yaml:"checklist" validate:"min=1,dive,notblank"`
}

func (SafetyInstruction) Kind() Kind { return KindSafety }
func (s SafetyInstruction) EntryID() EntryID { return s.ID }
func (SafetyInstruction) sealed() {}

func (s SafetyInstruction) withID(id EntryID) SafetyInstruction {
	s.ID = id
	return s
}

func (s SafetyInstruction) clone() SafetyInstruction {
	s.Checklist = slices.Clone(s.Checklist)
	return s
}
