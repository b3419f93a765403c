package formatter

import (
	"fmt"
	"strconv"
	"strings"

	appservicepack "github.com/erp/servicepack/internal/application/servicepack"
	"github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/shopspring/decimal"
)

// Money renders a currency amount with two decimals
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Hours renders an hour total
func Hours(d decimal.Decimal) string {
	return d.String() + "h"
}

// ShortID returns the first block of a uuid string
func ShortID(id fmt.Stringer) string {
	s := id.String()
	if i := strings.IndexByte(s, '-'); i > 0 {
		return s[:i]
	}
	return s
}

// FormatTemplateList renders saved templates
func FormatTemplateList(templates []servicepack.Template) string {
	if len(templates) == 0 {
		return Dim("No service packages saved yet.") + "\n"
	}
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		counts := t.Composition.Counts()
		rows = append(rows, []string{
			ShortID(t.ID),
			t.Code,
			t.Name,
			Hours(t.TotalHours),
			strconv.Itoa(counts[servicepack.KindTask]),
			strconv.Itoa(counts[servicepack.KindBOM]),
			t.CreatedBy,
			t.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	return Header("Service packages") + "\n" +
		RenderTable([]string{"ID", "CODE", "NAME", "HOURS", "TASKS", "PARTS", "CREATED BY", "UPDATED"}, rows)
}

// FormatBundleList renders priced bundles
func FormatBundleList(bundles []servicepack.ServiceBundle) string {
	if len(bundles) == 0 {
		return Dim("No service bundles saved yet.") + "\n"
	}
	rows := make([][]string, 0, len(bundles))
	for _, b := range bundles {
		rows = append(rows, []string{
			ShortID(b.ID),
			b.Code,
			b.Name,
			b.Category,
			Hours(b.TotalHours),
			Money(b.MaterialCost),
			Money(b.LaborCost),
			StyleGreen.Render(Money(b.EstimatedCost)),
		})
	}
	return Header("Service bundles") + "\n" +
		RenderTable([]string{"ID", "CODE", "NAME", "CATEGORY", "HOURS", "MATERIAL", "LABOR", "ESTIMATE"}, rows)
}

// FormatBundle renders one bundle with its full composition
func FormatBundle(b servicepack.ServiceBundle) string {
	var sb strings.Builder
	sb.WriteString(Header(b.Code) + "\n")
	field := func(label, value string) {
		fmt.Fprintf(&sb, "%s %s\n", Dim(fmt.Sprintf("%-14s", label)), value)
	}
	field("ID", b.ID.String())
	field("Name", Bold(b.Name))
	if b.Description != "" {
		field("Description", b.Description)
	}
	field("Category", b.Category)
	field("Template", fmt.Sprintf("%s (%s)", b.Template.Code, b.TemplateID()))
	field("Status", string(b.Status))
	field("Created by", b.CreatedBy)
	sb.WriteString("\n")
	sb.WriteString(FormatComposition(b.Template.Composition))
	sb.WriteString("\n")
	sb.WriteString(FormatPrice(servicepack.CostBreakdown{
		TotalHours:       b.TotalHours,
		LaborRatePerHour: b.LaborRatePerHour,
		MaterialCost:     b.MaterialCost,
		LaborCost:        b.LaborCost,
		EstimatedCost:    b.EstimatedCost,
	}))
	return sb.String()
}

// FormatComposition renders every non-empty collection of c
func FormatComposition(c servicepack.Composition) string {
	var sb strings.Builder
	for _, k := range servicepack.AllKinds() {
		headers, rows := compositionRows(c, k, false)
		if len(rows) == 0 {
			continue
		}
		sb.WriteString(StyleBold.Render(k.Label()+"s") + "\n")
		sb.WriteString(RenderTable(headers, rows))
		sb.WriteString("\n")
	}
	if sb.Len() == 0 {
		return Dim("Empty service package.") + "\n"
	}
	return sb.String()
}

// FormatCatalog renders the predefined entries of the given kinds with the
// index used to insert them
func FormatCatalog(c servicepack.Composition, kinds ...servicepack.Kind) string {
	if len(kinds) == 0 {
		kinds = servicepack.AllKinds()
	}
	var sb strings.Builder
	for i, k := range kinds {
		if i > 0 {
			sb.WriteString("\n")
		}
		headers, rows := compositionRows(c, k, true)
		sb.WriteString(Header(k.Label()+" catalog") + "\n")
		if len(rows) == 0 {
			sb.WriteString(Dim("No entries.") + "\n")
			continue
		}
		sb.WriteString(RenderTable(headers, rows))
	}
	return sb.String()
}

func compositionRows(c servicepack.Composition, k servicepack.Kind, indexed bool) ([]string, [][]string) {
	var headers []string
	var rows [][]string
	switch k {
	case servicepack.KindTask:
		headers = []string{"NAME", "CATEGORY", "HOURS", "SUBTASKS"}
		for _, t := range c.Tasks {
			rows = append(rows, []string{t.Name, t.Category, Hours(t.EstimatedHours), strconv.Itoa(len(t.Subtasks))})
		}
	case servicepack.KindSkill:
		headers = []string{"NAME", "LEVEL", "TYPE", "REQUIRED"}
		for _, s := range c.Skills {
			rows = append(rows, []string{s.Name, string(s.Level), string(s.Type), yesNo(s.Required)})
		}
	case servicepack.KindBOM:
		headers = []string{"PART", "DESCRIPTION", "QTY", "UNIT", "UNIT COST", "LINE"}
		for _, b := range c.BOMItems {
			rows = append(rows, []string{b.PartNumber, b.Description, b.Quantity.String(), b.Unit, Money(b.UnitCost), Money(b.LineCost())})
		}
	case servicepack.KindTool:
		headers = []string{"NAME", "SPECIFICATION", "CATEGORY", "REQUIRED"}
		for _, t := range c.Tools {
			rows = append(rows, []string{t.Name, t.Specification, t.Category, yesNo(t.Required)})
		}
	case servicepack.KindSOP:
		headers = []string{"TITLE", "CATEGORY", "STEPS"}
		for _, s := range c.SOPs {
			rows = append(rows, []string{s.Title, s.Category, strconv.Itoa(len(s.Steps))})
		}
	case servicepack.KindSafety:
		headers = []string{"TITLE", "PRIORITY", "CATEGORY", "CHECKLIST"}
		for _, s := range c.SafetyInstructions {
			rows = append(rows, []string{s.Title, priority(s.Priority), s.Category, strconv.Itoa(len(s.Checklist))})
		}
	}
	if indexed {
		headers = append([]string{"#"}, headers...)
		for i := range rows {
			rows[i] = append([]string{strconv.Itoa(i)}, rows[i]...)
		}
	}
	return headers, rows
}

func priority(p servicepack.Priority) string {
	switch p {
	case servicepack.PriorityHigh:
		return StyleRed.Render(string(p))
	case servicepack.PriorityMedium:
		return StyleYellow.Render(string(p))
	}
	return string(p)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// FormatPrice renders a cost breakdown
func FormatPrice(p servicepack.CostBreakdown) string {
	rows := [][]string{
		{"Labor", fmt.Sprintf("%s x %s", Hours(p.TotalHours), Money(p.LaborRatePerHour)), Money(p.LaborCost)},
		{"Material", "", Money(p.MaterialCost)},
		{Bold("Estimated cost"), "", StyleGreen.Render(Money(p.EstimatedCost))},
	}
	return RenderTable([]string{"COST", "BASIS", "AMOUNT"}, rows)
}

// FormatSaveResult renders the outcome of a save
func FormatSaveResult(r *appservicepack.SaveResult) string {
	if r.Ignored {
		return StyleYellow.Render("Save ignored: another save is in progress.") + "\n"
	}
	verb := "Created"
	if r.Updated {
		verb = "Updated"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s and %s\n", verb, Bold(r.Code), Bold(r.BundleCode))
	if r.SampleLoaded {
		sb.WriteString(Dim("Sample data was loaded into the empty package.") + "\n")
	}
	fmt.Fprintf(&sb, "%s %s   %s %s\n",
		Dim("hours"), Hours(r.TotalHours),
		Dim("estimate"), StyleGreen.Render(Money(r.EstimatedCost)))
	fmt.Fprintf(&sb, "%s %s   %s %s\n",
		Dim("template"), r.TemplateID, Dim("bundle"), r.BundleID)
	return sb.String()
}

// FormatSummary renders per-kind counts and running totals of a session
func FormatSummary(s servicepack.Summary, laborRate decimal.Decimal) string {
	parts := make([]string, 0, len(s.Counts))
	for _, k := range servicepack.AllKinds() {
		parts = append(parts, fmt.Sprintf("%s %d", strings.ToLower(k.Label())+"s", s.Counts[k]))
	}
	estimate := s.MaterialCost.Add(s.TotalHours.Mul(laborRate))
	return fmt.Sprintf("%s\n%s %s   %s %s   %s %s\n",
		strings.Join(parts, ", "),
		Dim("hours"), Hours(s.TotalHours),
		Dim("material"), Money(s.MaterialCost),
		Dim("estimate"), StyleGreen.Render(Money(estimate)))
}
