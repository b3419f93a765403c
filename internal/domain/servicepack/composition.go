package servicepack

import "github.com/shopspring/decimal"

// Composition is the value snapshot of the six ordered collections. It is what
// templates persist and what bundles carry inside their template snapshot.
type Composition struct {
	Tasks              []Task              `json:"tasks"`
	Skills             []Skill             `json:"skills"`
	BOMItems           []BOMItem           `json:"bom_items"`
	Tools              []Tool              `json:"tools"`
	SOPs               []SOP               `json:"sops"`
	SafetyInstructions []SafetyInstruction `json:"safety_instructions"`
}

// Clone returns a deep copy
func (c Composition) Clone() Composition {
	return Composition{
		Tasks:              cloneAll(c.Tasks),
		Skills:             cloneAll(c.Skills),
		BOMItems:           cloneAll(c.BOMItems),
		Tools:              cloneAll(c.Tools),
		SOPs:               cloneAll(c.SOPs),
		SafetyInstructions: cloneAll(c.SafetyInstructions),
	}
}

// IsEmpty reports whether all six collections are empty
func (c Composition) IsEmpty() bool {
	return len(c.Tasks) == 0 &&
		len(c.Skills) == 0 &&
		len(c.BOMItems) == 0 &&
		len(c.Tools) == 0 &&
		len(c.SOPs) == 0 &&
		len(c.SafetyInstructions) == 0
}

// Counts returns the number of entries per kind
func (c Composition) Counts() map[Kind]int {
	return map[Kind]int{
		KindTask:   len(c.Tasks),
		KindSkill:  len(c.Skills),
		KindBOM:    len(c.BOMItems),
		KindTool:   len(c.Tools),
		KindSOP:    len(c.SOPs),
		KindSafety: len(c.SafetyInstructions),
	}
}

// TotalHours sums the estimated hours of all tasks
func (c Composition) TotalHours() decimal.Decimal {
	total := decimal.Zero
	for _, t := range c.Tasks {
		total = total.Add(t.EstimatedHours)
	}
	return total
}

// MaterialCost sums quantity * unit cost over the BOM
func (c Composition) MaterialCost() decimal.Decimal {
	total := decimal.Zero
	for _, b := range c.BOMItems {
		total = total.Add(b.LineCost())
	}
	return total
}

// normalized replaces nil slices with empty ones so JSON round trips compare equal
func (c Composition) normalized() Composition {
	c = c.Clone()
	if c.Tasks == nil {
		c.Tasks = []Task{}
	}
	if c.Skills == nil {
		c.Skills = []Skill{}
	}
	if c.BOMItems == nil {
		c.BOMItems = []BOMItem{}
	}
	if c.Tools == nil {
		c.Tools = []Tool{}
	}
	if c.SOPs == nil {
		c.SOPs = []SOP{}
	}
	if c.SafetyInstructions == nil {
		c.SafetyInstructions = []SafetyInstruction{}
	}
	return c
}

func cloneAll[T entryOf[T]](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = item.clone()
	}
	return out
}
