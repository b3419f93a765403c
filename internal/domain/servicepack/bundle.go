package servicepack

import (
	"time"

	"github.com/erp/servicepack/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BundleCodeSuffix is appended to a template code to form its bundle code
const BundleCodeSuffix = "-BUNDLE"

// BundleTypeServicePackage is the type of every bundle derived from a template
const BundleTypeServicePackage = "service_package"

// DefaultBundleCategory is used when the template has no tasks
const DefaultBundleCategory = "General"

// BundleStatus represents the lifecycle status of a service bundle
type BundleStatus string

const (
	BundleStatusActive   BundleStatus = "active"
	BundleStatusInactive BundleStatus = "inactive"
)

// ServiceBundle is the priced record derived 1:1 from a saved template
type ServiceBundle struct {
	shared.BaseEntity
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Type             string          `json:"type"`
	Category         string          `json:"category"`
	TotalHours       decimal.Decimal `json:"total_hours"`
	LaborRatePerHour decimal.Decimal `json:"labor_rate_per_hour"`
	MaterialCost     decimal.Decimal `json:"material_cost"`
	LaborCost        decimal.Decimal `json:"labor_cost"`
	EstimatedCost    decimal.Decimal `json:"estimated_cost"`
	Template         Template        `json:"template"`
	CreatedBy        string          `json:"created_by"`
	Status           BundleStatus    `json:"status"`
}

// BundleCode derives the bundle code for a template code
func BundleCode(templateCode string) string {
	return NormalizeCode(templateCode) + BundleCodeSuffix
}

// DeriveBundle prices t at laborRatePerHour and wraps a snapshot of it in a new bundle
func DeriveBundle(t Template, laborRatePerHour decimal.Decimal, now time.Time) *ServiceBundle {
	cost := PriceComposition(t.Composition, laborRatePerHour)
	return &ServiceBundle{
		BaseEntity:       shared.NewBaseEntityAt(now),
		Code:             BundleCode(t.Code),
		Name:             t.Name,
		Description:      t.Description,
		Type:             BundleTypeServicePackage,
		Category:         bundleCategory(t.Composition),
		TotalHours:       cost.TotalHours,
		LaborRatePerHour: cost.LaborRatePerHour,
		MaterialCost:     cost.MaterialCost,
		LaborCost:        cost.LaborCost,
		EstimatedCost:    cost.EstimatedCost,
		Template:         t.Clone(),
		CreatedBy:        t.CreatedBy,
		Status:           BundleStatusActive,
	}
}

// TemplateID returns the id of the template the bundle was derived from
func (b ServiceBundle) TemplateID() uuid.UUID {
	return b.Template.ID
}

// Clone returns a deep copy
func (b ServiceBundle) Clone() ServiceBundle {
	b.Template = b.Template.Clone()
	return b
}

func bundleCategory(c Composition) string {
	for _, t := range c.Tasks {
		if t.Category != "" {
			return t.Category
		}
	}
	return DefaultBundleCategory
}
