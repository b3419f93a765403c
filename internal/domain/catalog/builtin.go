package catalog

import (
	sp "github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/shopspring/decimal"
)

func hours(s string) decimal.Decimal { return decimal.RequireFromString(s) }
func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Builtin returns the catalog shipped with the service package builder
func Builtin() *Catalog {
	return New(builtinComposition())
}

func builtinComposition() sp.Composition {
	return sp.Composition{
		Tasks: []sp.Task{
			{Name: "Engine oil change and filter replacement", Category: "Engine", EstimatedHours: hours("2.0"),
				Subtasks: []string{"Warm up engine", "Drain engine oil", "Replace oil filter", "Refill and check level"}},
			{Name: "Brake system inspection and adjustment", Category: "Brakes", EstimatedHours: hours("1.5"),
				Subtasks: []string{"Measure pad thickness", "Inspect discs", "Adjust parking brake"}},
			{Name: "Hydraulic fluid level check and top-up", Category: "Hydraulics", EstimatedHours: hours("0.5")},
			{Name: "Transmission service and fluid change", Category: "Transmission", EstimatedHours: hours("3.0"),
				Subtasks: []string{"Drain transmission fluid", "Replace strainer", "Refill to specification"}},
			{Name: "Air filter replacement", Category: "Engine", EstimatedHours: hours("0.5")},
			{Name: "Coolant system flush and refill", Category: "Cooling", EstimatedHours: hours("2.5"),
				Subtasks: []string{"Drain coolant", "Flush radiator", "Refill and bleed air"}},
			{Name: "Electrical system diagnostic scan", Category: "Electrical", EstimatedHours: hours("1.0")},
			{Name: "Hydraulic hose inspection and replacement", Category: "Hydraulics", EstimatedHours: hours("2.0")},
			{Name: "Track tension adjustment", Category: "Undercarriage", EstimatedHours: hours("1.5")},
			{Name: "Turbocharger inspection and service", Category: "Engine", EstimatedHours: hours("4.0")},
		},
		Skills: []sp.Skill{
			{Name: "ASE Master", Level: sp.SkillLevelExpert, Type: sp.SkillTypeCertification, Required: true},
			{Name: "ASE Certified", Level: sp.SkillLevelAdvanced, Type: sp.SkillTypeCertification, Required: true},
			{Name: "Hydraulic systems", Level: sp.SkillLevelIntermediate, Type: sp.SkillTypeTechnical, Required: true},
			{Name: "Electrical diagnostics", Level: sp.SkillLevelAdvanced, Type: sp.SkillTypeTechnical},
			{Name: "Emissions Specialist", Level: sp.SkillLevelAdvanced, Type: sp.SkillTypeCertification},
			{Name: "Lockout/tagout", Level: sp.SkillLevelBeginner, Type: sp.SkillTypeSafety, Required: true},
			{Name: "Forklift operation", Level: sp.SkillLevelIntermediate, Type: sp.SkillTypeOperational},
		},
		BOMItems: []sp.BOMItem{
			{PartNumber: "ENG001", Description: "Engine Oil Filter - Heavy Duty", Category: "Engine", Quantity: decimal.NewFromInt(1), Unit: "each", UnitCost: money("24.50")},
			{PartNumber: "ENG002", Description: "Engine Air Filter - Primary", Category: "Engine", Quantity: decimal.NewFromInt(1), Unit: "each", UnitCost: money("38.00")},
			{PartNumber: "ENG003", Description: "Engine Fuel Filter - Water Separator", Category: "Engine", Quantity: decimal.NewFromInt(1), Unit: "each", UnitCost: money("42.75")},
			{PartNumber: "ENG-OIL-15W40", Description: "Engine Oil 15W-40", Category: "Fluids", Quantity: decimal.NewFromInt(12), Unit: "liter", UnitCost: money("6.20")},
			{PartNumber: "HYD001", Description: "Hydraulic Oil Filter - Return", Category: "Hydraulics", Quantity: decimal.NewFromInt(1), Unit: "each", UnitCost: money("55.00")},
			{PartNumber: "HYD002", Description: "Hydraulic Hose - High Pressure", Category: "Hydraulics", Quantity: decimal.NewFromInt(1), Unit: "meter", UnitCost: money("31.40")},
			{PartNumber: "BRK001", Description: "Brake Pad Set - Front", Category: "Brakes", Quantity: decimal.NewFromInt(1), Unit: "set", UnitCost: money("89.90")},
			{PartNumber: "BRK004", Description: "Brake Fluid - DOT 4", Category: "Fluids", Quantity: decimal.NewFromInt(1), Unit: "liter", UnitCost: money("12.00")},
			{PartNumber: "ELE002", Description: "Battery - Heavy Duty 12V", Category: "Electrical", Quantity: decimal.NewFromInt(1), Unit: "each", UnitCost: money("189.00")},
			{PartNumber: "CAB001", Description: "Cabin Air Filter", Category: "Cab", Quantity: decimal.NewFromInt(1), Unit: "each", UnitCost: money("19.95")},
		},
		Tools: []sp.Tool{
			{Name: "Oil filter wrench", Specification: "Adjustable 60-120 mm", Category: "Hand tools", Required: true},
			{Name: "Torque wrench", Specification: "40-200 Nm, 1/2 in drive", Category: "Hand tools", Required: true},
			{Name: "Drain pan", Specification: "20 liter", Category: "Shop equipment", Required: true},
			{Name: "Diagnostic scanner", Specification: "J1939 / OBD-II", Category: "Diagnostics"},
			{Name: "Hydraulic pressure gauge kit", Specification: "0-600 bar", Category: "Diagnostics"},
			{Name: "Coolant pressure tester", Category: "Diagnostics"},
		},
		SOPs: []sp.SOP{
			{Title: "Engine oil change", Category: "Engine", Steps: []string{
				"Park machine on level ground and lower attachments",
				"Warm engine to operating temperature",
				"Drain oil into approved container",
				"Replace filter and torque drain plug to specification",
				"Refill with specified grade and verify level",
			}},
			{Title: "Hydraulic system inspection", Category: "Hydraulics", Steps: []string{
				"Relieve hydraulic pressure",
				"Inspect hoses and fittings for leaks",
				"Check fluid level and condition",
			}},
			{Title: "Brake inspection", Category: "Brakes", Steps: []string{
				"Chock wheels",
				"Remove wheels and measure pad thickness",
				"Inspect discs and calipers",
				"Reassemble and road test",
			}},
		},
		SafetyInstructions: []sp.SafetyInstruction{
			{Title: "Lockout/tagout", Priority: sp.PriorityHigh, Category: "Energy isolation",
				Warning:   "Machine must be isolated before service",
				Checklist: []string{"Engine off and key removed", "Battery disconnected", "Lock and tag applied"}},
			{Title: "Hot fluids", Priority: sp.PriorityHigh, Category: "Burns",
				Warning:   "Oil and coolant may exceed 90 C",
				Checklist: []string{"Heat resistant gloves worn", "Allow cool down before opening caps"}},
			{Title: "Hydraulic pressure", Priority: sp.PriorityMedium, Category: "Hydraulics",
				Warning:   "Pinhole leaks can inject fluid under the skin",
				Checklist: []string{"Pressure relieved", "Use cardboard to locate leaks"}},
			{Title: "Personal protective equipment", Priority: sp.PriorityLow, Category: "PPE",
				Checklist: []string{"Safety glasses", "Steel toe boots", "Gloves"}},
		},
	}
}

// SampleComposition returns the sample data offered when an empty
// composition is saved
func SampleComposition() sp.Composition {
	return sp.Composition{
		Tasks: []sp.Task{
			{Name: "Engine oil change and filter replacement", Category: "Engine", EstimatedHours: hours("2.0"),
				Description: "Scheduled 500 hour engine service",
				Subtasks:    []string{"Drain engine oil", "Replace oil filter", "Refill and check level"}},
			{Name: "Air filter replacement", Category: "Engine", EstimatedHours: hours("0.5")},
		},
		Skills: []sp.Skill{
			{Name: "ASE Certified", Level: sp.SkillLevelAdvanced, Type: sp.SkillTypeCertification, Required: true},
		},
		BOMItems: []sp.BOMItem{
			{PartNumber: "ENG001", Description: "Engine Oil Filter - Heavy Duty", Category: "Engine", Quantity: decimal.NewFromInt(1), Unit: "each", UnitCost: money("24.50")},
			{PartNumber: "ENG002", Description: "Engine Air Filter - Primary", Category: "Engine", Quantity: decimal.NewFromInt(1), Unit: "each", UnitCost: money("38.00")},
			{PartNumber: "ENG-OIL-15W40", Description: "Engine Oil 15W-40", Category: "Fluids", Quantity: decimal.NewFromInt(12), Unit: "liter", UnitCost: money("6.20")},
		},
		Tools: []sp.Tool{
			{Name: "Oil filter wrench", Specification: "Adjustable 60-120 mm", Category: "Hand tools", Required: true},
			{Name: "Drain pan", Specification: "20 liter", Category: "Shop equipment", Required: true},
		},
		SOPs: []sp.SOP{
			{Title: "Engine oil change", Category: "Engine", Steps: []string{
				"Warm engine to operating temperature",
				"Drain oil into approved container",
				"Replace filter and refill",
			}},
		},
		SafetyInstructions: []sp.SafetyInstruction{
			{Title: "Hot fluids", Priority: sp.PriorityHigh, Category: "Burns",
				Warning:   "Oil may exceed 90 C",
				Checklist: []string{"Heat resistant gloves worn"}},
		},
	}
}
