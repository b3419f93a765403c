// Package servicepack holds the service package composition domain: the six
// entry kinds, the editable composition session, templates and the priced
// service bundles derived from them.
package servicepack

import (
	"strings"

	"github.com/erp/servicepack/internal/domain/shared"
)

// Kind discriminates the six ingredient collections of a service package
type Kind string

const (
	KindTask   Kind = "task"
	KindSkill  Kind = "skill"
	KindBOM    Kind = "bom"
	KindTool   Kind = "tool"
	KindSOP    Kind = "sop"
	KindSafety Kind = "safety"
)

// AllKinds returns every kind in display order
func AllKinds() []Kind {
	return []Kind{KindTask, KindSkill, KindBOM, KindTool, KindSOP, KindSafety}
}

// IsValid checks if the kind is one of the six known kinds
func (k Kind) IsValid() bool {
	switch k {
	case KindTask, KindSkill, KindBOM, KindTool, KindSOP, KindSafety:
		return true
	}
	return false
}

// Label returns a human readable name for the kind
func (k Kind) Label() string {
	switch k {
	case KindTask:
		return "Task"
	case KindSkill:
		return "Skill"
	case KindBOM:
		return "BOM item"
	case KindTool:
		return "Tool"
	case KindSOP:
		return "SOP"
	case KindSafety:
		return "Safety instruction"
	}
	return string(k)
}

// ParseKind converts a token such as "bom" or "Safety" into a Kind
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", shared.NewValidationError("unknown entry kind %q", s)
	}
	return k, nil
}
