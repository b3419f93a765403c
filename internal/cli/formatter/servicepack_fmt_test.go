package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	appservicepack "github.com/erp/servicepack/internal/application/servicepack"
	"github.com/erp/servicepack/internal/domain/catalog"
	"github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func sampleBundle(t *testing.T) servicepack.ServiceBundle {
	t.Helper()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tpl, err := servicepack.NewTemplate(servicepack.TemplateFields{Code: "pm-500", Name: "500 hour service"},
		catalog.SampleComposition(), "tester", now)
	require.NoError(t, err)
	return *servicepack.DeriveBundle(*tpl, decimal.NewFromInt(75), now)
}

func TestRenderTable(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "LONG HEADER"}, [][]string{
		{"wide cell", "x"},
		{"y"},
	}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "A          LONG HEADER", lines[0])
	assert.Equal(t, "─────────  ───────────", lines[1])
	assert.Equal(t, "wide cell  x", lines[2])
	assert.Equal(t, "y          ", lines[3])

	assert.Empty(t, RenderTable(nil, nil))
}

func TestFormatBundleList(t *testing.T) {
	b := sampleBundle(t)
	out := stripANSI(FormatBundleList([]servicepack.ServiceBundle{b}))

	assert.Contains(t, out, "SERVICE BUNDLES")
	assert.Contains(t, out, "PM-500-BUNDLE")
	assert.Contains(t, out, "2.5h")
	assert.Contains(t, out, "136.90")
	assert.Contains(t, out, "187.50")
	assert.Contains(t, out, "324.40")
	assert.Contains(t, out, ShortID(b.ID))

	assert.Contains(t, FormatBundleList(nil), "No service bundles")
}

func TestFormatTemplateList(t *testing.T) {
	b := sampleBundle(t)
	out := stripANSI(FormatTemplateList([]servicepack.Template{b.Template}))

	assert.Contains(t, out, "SERVICE PACKAGES")
	assert.Contains(t, out, "PM-500")
	assert.Contains(t, out, "tester")
	assert.Contains(t, out, "2026-03-01 09:00")
	assert.Contains(t, FormatTemplateList(nil), "No service packages")
}

func TestFormatBundle(t *testing.T) {
	out := stripANSI(FormatBundle(sampleBundle(t)))

	assert.Contains(t, out, "PM-500-BUNDLE")
	assert.Contains(t, out, "Tasks")
	assert.Contains(t, out, "BOM items")
	assert.Contains(t, out, "ENG-OIL-15W40")
	assert.Contains(t, out, "74.40")
	assert.Contains(t, out, "Safety instructions")
	assert.Contains(t, out, "Estimated cost")
	assert.Contains(t, out, "2.5h x 75.00")
}

func TestFormatCatalog(t *testing.T) {
	c := catalog.Builtin().Composition()

	out := stripANSI(FormatCatalog(c, servicepack.KindBOM))
	assert.Contains(t, out, "BOM ITEM CATALOG")
	assert.Regexp(t, `(?m)^0\s+ENG001`, out)
	assert.NotContains(t, out, "TASK CATALOG")

	all := stripANSI(FormatCatalog(c))
	for _, k := range servicepack.AllKinds() {
		assert.Contains(t, all, strings.ToUpper(k.Label())+" CATALOG")
	}

	empty := stripANSI(FormatCatalog(servicepack.Composition{}, servicepack.KindTool))
	assert.Contains(t, empty, "No entries.")
}

func TestFormatComposition_Empty(t *testing.T) {
	assert.Contains(t, FormatComposition(servicepack.Composition{}), "Empty service package.")
}

func TestFormatSaveResult(t *testing.T) {
	r := &appservicepack.SaveResult{
		TemplateID:    uuid.New(),
		BundleID:      uuid.New(),
		Code:          "PM-500",
		BundleCode:    "PM-500-BUNDLE",
		TotalHours:    decimal.RequireFromString("2.5"),
		EstimatedCost: decimal.RequireFromString("324.4"),
		SampleLoaded:  true,
		Updated:       true,
	}
	out := stripANSI(FormatSaveResult(r))

	assert.Contains(t, out, "Updated PM-500 and PM-500-BUNDLE")
	assert.Contains(t, out, "Sample data was loaded")
	assert.Contains(t, out, "324.40")

	ignored := stripANSI(FormatSaveResult(&appservicepack.SaveResult{Ignored: true}))
	assert.Contains(t, ignored, "Save ignored")
}

func TestFormatSummary(t *testing.T) {
	s := servicepack.NewSessionFromComposition(catalog.SampleComposition())
	out := stripANSI(FormatSummary(s.Summary(), decimal.NewFromInt(75)))

	assert.Contains(t, out, "tasks 2, skills 1, bom items 3")
	assert.Contains(t, out, "324.40")
}

func TestShortID(t *testing.T) {
	id := uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")
	assert.Equal(t, "7d444840", ShortID(id))
}
