package servicepack

import (
	"github.com/erp/servicepack/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session is the live, editable composition. Exactly one is active per
// editing flow; it is replaced wholesale when a new composition or an edit
// starts and reset after a successful save or a cancel.
type Session struct {
	Tasks              *Collection[Task]
	Skills             *Collection[Skill]
	BOMItems           *Collection[BOMItem]
	Tools              *Collection[Tool]
	SOPs               *Collection[SOP]
	SafetyInstructions *Collection[SafetyInstruction]

	id                uuid.UUID
	lastID            EntryID
	editingTemplateID *uuid.UUID
	editingBundleID   *uuid.UUID
	saving            bool
}

// NewSession creates an empty session
func NewSession() *Session {
	s := &Session{id: uuid.New()}
	s.init()
	return s
}

// NewSessionFromComposition creates a session holding a deep copy of c. Entry
// ids are kept and the id sequence resumes after the highest one.
func NewSessionFromComposition(c Composition) *Session {
	s := NewSession()
	s.Load(c)
	return s
}

func (s *Session) init() {
	s.Tasks = newCollection[Task](s.nextID, nil)
	s.Skills = newCollection[Skill](s.nextID, nil)
	s.BOMItems = newCollection[BOMItem](s.nextID, bomPartKey)
	s.Tools = newCollection[Tool](s.nextID, nil)
	s.SOPs = newCollection[SOP](s.nextID, nil)
	s.SafetyInstructions = newCollection[SafetyInstruction](s.nextID, nil)
}

func (s *Session) nextID() EntryID {
	s.lastID++
	return s.lastID
}

// ID returns the session handle, used to correlate log lines
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Load replaces the six collections with a deep copy of c
func (s *Session) Load(c Composition) {
	s.Tasks.load(c.Tasks)
	s.Skills.load(c.Skills)
	s.BOMItems.load(c.BOMItems)
	s.Tools.load(c.Tools)
	s.SOPs.load(c.SOPs)
	s.SafetyInstructions.load(c.SafetyInstructions)
	s.lastID = max(s.lastID,
		s.Tasks.maxID(), s.Skills.maxID(), s.BOMItems.maxID(),
		s.Tools.maxID(), s.SOPs.maxID(), s.SafetyInstructions.maxID())
}

// Snapshot returns a deep copy of the six collections
func (s *Session) Snapshot() Composition {
	return Composition{
		Tasks:              s.Tasks.snapshot(),
		Skills:             s.Skills.snapshot(),
		BOMItems:           s.BOMItems.snapshot(),
		Tools:              s.Tools.snapshot(),
		SOPs:               s.SOPs.snapshot(),
		SafetyInstructions: s.SafetyInstructions.snapshot(),
	}.normalized()
}

// IsEmpty reports whether all six collections are empty
func (s *Session) IsEmpty() bool {
	return s.Tasks.Len() == 0 &&
		s.Skills.Len() == 0 &&
		s.BOMItems.Len() == 0 &&
		s.Tools.Len() == 0 &&
		s.SOPs.Len() == 0 &&
		s.SafetyInstructions.Len() == 0
}

// MarkEditing records the persisted template/bundle pair this session modifies
func (s *Session) MarkEditing(templateID, bundleID uuid.UUID) {
	s.editingTemplateID = &templateID
	s.editingBundleID = &bundleID
}

// EditingTemplateID returns the template being edited, if any
func (s *Session) EditingTemplateID() (uuid.UUID, bool) {
	if s.editingTemplateID == nil {
		return uuid.Nil, false
	}
	return *s.editingTemplateID, true
}

// EditingBundleID returns the bundle being edited, if any
func (s *Session) EditingBundleID() (uuid.UUID, bool) {
	if s.editingBundleID == nil {
		return uuid.Nil, false
	}
	return *s.editingBundleID, true
}

// IsEditing reports whether the session modifies a previously saved bundle
func (s *Session) IsEditing() bool {
	return s.editingBundleID != nil || s.editingTemplateID != nil
}

// IsSaving reports whether a save is in flight. Callers must not mutate the
// session while it is.
func (s *Session) IsSaving() bool {
	return s.saving
}

// BeginSave sets the saving guard. It returns false when a save is already in flight.
func (s *Session) BeginSave() bool {
	if s.saving {
		return false
	}
	s.saving = true
	return true
}

// EndSave clears the saving guard
func (s *Session) EndSave() {
	s.saving = false
}

// Reset empties the collections, clears edit markers and the saving guard.
// The id sequence keeps counting so ids are not reused.
func (s *Session) Reset() {
	s.init()
	s.editingTemplateID = nil
	s.editingBundleID = nil
	s.saving = false
}

// Add dispatches e to the collection of its kind
func (s *Session) Add(e Entry) (Entry, error) {
	switch v := e.(type) {
	case Task:
		return added(s.Tasks.Add(v))
	case Skill:
		return added(s.Skills.Add(v))
	case BOMItem:
		return added(s.BOMItems.Add(v))
	case Tool:
		return added(s.Tools.Add(v))
	case SOP:
		return added(s.SOPs.Add(v))
	case SafetyInstruction:
		return added(s.SafetyInstructions.Add(v))
	}
	return nil, shared.NewValidationError("unsupported entry type %T", e)
}

func added[T Entry](e T, err error) (Entry, error) {
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Remove deletes the entry with the given id from the collection of kind k
func (s *Session) Remove(k Kind, id EntryID) error {
	switch k {
	case KindTask:
		return s.Tasks.Remove(id)
	case KindSkill:
		return s.Skills.Remove(id)
	case KindBOM:
		return s.BOMItems.Remove(id)
	case KindTool:
		return s.Tools.Remove(id)
	case KindSOP:
		return s.SOPs.Remove(id)
	case KindSafety:
		return s.SafetyInstructions.Remove(id)
	}
	return shared.NewValidationError("unknown entry kind %q", k)
}

// Len returns the number of entries of kind k
func (s *Session) Len(k Kind) int {
	switch k {
	case KindTask:
		return s.Tasks.Len()
	case KindSkill:
		return s.Skills.Len()
	case KindBOM:
		return s.BOMItems.Len()
	case KindTool:
		return s.Tools.Len()
	case KindSOP:
		return s.SOPs.Len()
	case KindSafety:
		return s.SafetyInstructions.Len()
	}
	return 0
}

// Summary is a display digest of the session
type Summary struct {
	Counts       map[Kind]int    `json:"counts"`
	TotalHours   decimal.Decimal `json:"total_hours"`
	MaterialCost decimal.Decimal `json:"material_cost"`
	Editing      bool            `json:"editing"`
}

// Summary returns per-kind counts, total hours and material cost
func (s *Session) Summary() Summary {
	snap := s.Snapshot()
	return Summary{
		Counts:       snap.Counts(),
		TotalHours:   snap.TotalHours(),
		MaterialCost: snap.MaterialCost(),
		Editing:      s.IsEditing(),
	}
}
