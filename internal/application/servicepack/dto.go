package servicepack

import (
	"time"

	"github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaveRequest carries the header fields entered when saving a composition
type SaveRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r SaveRequest) fields() servicepack.TemplateFields {
	return servicepack.TemplateFields{
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
	}
}

// SaveResult reports the outcome of a save
type SaveResult struct {
	// Ignored is set when the call arrived while another save was in flight
	Ignored bool `json:"ignored"`
	// SampleLoaded is set when an empty session was filled with sample data
	SampleLoaded  bool            `json:"sample_loaded"`
	TemplateID    uuid.UUID       `json:"template_id"`
	BundleID      uuid.UUID       `json:"bundle_id"`
	Code          string          `json:"code"`
	BundleCode    string          `json:"bundle_code"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Updated       bool            `json:"updated"`
}

// CloneTarget names the kind of record a clone copied
type CloneTarget string

const (
	CloneTargetTemplate CloneTarget = "template"
	CloneTargetBundle   CloneTarget = "bundle"
)

// CloneResult reports the copy created by Clone
type CloneResult struct {
	Target   CloneTarget `json:"target"`
	SourceID uuid.UUID   `json:"source_id"`
	ID       uuid.UUID   `json:"id"`
	// TemplateID is the copied template, or the template of the copied bundle
	TemplateID uuid.UUID `json:"template_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
}

// DeleteResult reports the outcome of Delete and DeleteBundle
type DeleteResult struct {
	// Deleted is false when the operator declined the confirmation
	Deleted         bool      `json:"deleted"`
	ID              uuid.UUID `json:"id"`
	CascadedBundles int       `json:"cascaded_bundles"`
}

// TemplateResponse is the list view of a template
type TemplateResponse struct {
	ID         uuid.UUID                `json:"id"`
	Code       string                   `json:"code"`
	Name       string                   `json:"name"`
	TotalHours decimal.Decimal          `json:"total_hours"`
	Counts     map[servicepack.Kind]int `json:"counts"`
	CreatedBy  string                   `json:"created_by"`
	CreatedAt  time.Time                `json:"created_at"`
	UpdatedAt  time.Time                `json:"updated_at"`
}

// ToTemplateResponse converts a domain Template to its list view
func ToTemplateResponse(t servicepack.Template) TemplateResponse {
	return TemplateResponse{
		ID:         t.ID,
		Code:       t.Code,
		Name:       t.Name,
		TotalHours: t.TotalHours,
		Counts:     t.Composition.Counts(),
		CreatedBy:  t.CreatedBy,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// BundleResponse is the list view of a service bundle
type BundleResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	TemplateID    uuid.UUID       `json:"template_id"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	MaterialCost  decimal.Decimal `json:"material_cost"`
	LaborCost     decimal.Decimal `json:"labor_cost"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToBundleResponse converts a domain ServiceBundle to its list view
func ToBundleResponse(b servicepack.ServiceBundle) BundleResponse {
	return BundleResponse{
		ID:            b.ID,
		Code:          b.Code,
		Name:          b.Name,
		Category:      b.Category,
		TemplateID:    b.TemplateID(),
		TotalHours:    b.TotalHours,
		MaterialCost:  b.MaterialCost,
		LaborCost:     b.LaborCost,
		EstimatedCost: b.EstimatedCost,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
