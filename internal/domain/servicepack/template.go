package servicepack

import (
	"strings"
	"time"

	"github.com/erp/servicepack/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TemplateStatus represents the lifecycle status of a template
type TemplateStatus string

const (
	TemplateStatusActive   TemplateStatus = "active"
	TemplateStatusArchived TemplateStatus = "archived"
)

// Template is a persisted, named composition that can be reused as a job template
type Template struct {
	shared.BaseEntity
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	TotalHours  decimal.Decimal `json:"total_hours"`
	Composition Composition     `json:"composition"`
	CreatedBy   string          `json:"created_by"`
	Status      TemplateStatus  `json:"status"`
}

// TemplateFields are the operator-entered header fields of a save
type TemplateFields struct {
	Code        string `json:"code" validate:"notblank"`
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description"`
}

// Validate checks that code and name are present
func (f TemplateFields) Validate() error {
	return ValidateStruct("Service package", f)
}

// NormalizeCode trims and upper-cases a template code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewTemplate builds a template snapshot of c stamped at now
func NewTemplate(fields TemplateFields, c Composition, createdBy string, now time.Time) (*Template, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	snap := c.normalized()
	return &Template{
		BaseEntity:  shared.NewBaseEntityAt(now),
		Code:        NormalizeCode(fields.Code),
		Name:        strings.TrimSpace(fields.Name),
		Description: strings.TrimSpace(fields.Description),
		TotalHours:  snap.TotalHours(),
		Composition: snap,
		CreatedBy:   createdBy,
		Status:      TemplateStatusActive,
	}, nil
}

// Clone returns a deep copy
func (t Template) Clone() Template {
	t.Composition = t.Composition.Clone()
	return t
}
