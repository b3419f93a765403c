package servicepack

import (
	"github.com/erp/servicepack/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultLaborRatePerHour is the standard labor rate applied when none is configured
var DefaultLaborRatePerHour = decimal.NewFromInt(75)

// CostBreakdown is the derived pricing of a composition
type CostBreakdown struct {
	TotalHours       decimal.Decimal `json:"total_hours"`
	LaborRatePerHour decimal.Decimal `json:"labor_rate_per_hour"`
	MaterialCost     decimal.Decimal `json:"material_cost"`
	LaborCost        decimal.Decimal `json:"labor_cost"`
	EstimatedCost    decimal.Decimal `json:"estimated_cost"`
}

// ComputeTotalHours sums estimated hours over the task collection; 0 when empty
func ComputeTotalHours(c Composition) decimal.Decimal {
	return c.TotalHours()
}

// ComputeEstimatedCost returns sum(unitCost * quantity) over the BOM plus
// totalHours * laborRatePerHour.
func ComputeEstimatedCost(c Composition, laborRatePerHour decimal.Decimal) decimal.Decimal {
	return PriceComposition(c, laborRatePerHour).EstimatedCost
}

// PriceComposition derives the full cost breakdown of a composition
func PriceComposition(c Composition, laborRatePerHour decimal.Decimal) CostBreakdown {
	hours := c.TotalHours()
	material := c.MaterialCost()
	labor := hours.Mul(laborRatePerHour)
	return CostBreakdown{
		TotalHours:       hours,
		LaborRatePerHour: laborRatePerHour,
		MaterialCost:     material,
		LaborCost:        labor,
		EstimatedCost:    material.Add(labor),
	}
}

// ValidateLaborRate rejects negative labor rates
func ValidateLaborRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewValidationError("labor rate per hour cannot be negative")
	}
	return nil
}
