package servicepack

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// listStore is a non-atomic in-memory store with injectable write failures
type listStore struct {
	mu              sync.Mutex
	templates       []servicepack.Template
	bundles         []servicepack.ServiceBundle
	templateWrites  int
	bundleWrites    int
	saveBundlesErr  error
	saveTemplateErr error
}

func (s *listStore) LoadTemplates(context.Context) ([]servicepack.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]servicepack.Template, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (s *listStore) SaveTemplates(_ context.Context, templates []servicepack.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveTemplateErr != nil {
		return s.saveTemplateErr
	}
	s.templateWrites++
	s.templates = slices.Clone(templates)
	return nil
}

func (s *listStore) LoadBundles(context.Context) ([]servicepack.ServiceBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]servicepack.ServiceBundle, 0, len(s.bundles))
	for _, b := range s.bundles {
		out = append(out, b.Clone())
	}
	return out, nil
}

func (s *listStore) SaveBundles(_ context.Context, bundles []servicepack.ServiceBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveBundlesErr != nil {
		return s.saveBundlesErr
	}
	s.bundleWrites++
	s.bundles = slices.Clone(bundles)
	return nil
}

// atomicListStore adds ReplaceAll on top of listStore
type atomicListStore struct {
	listStore
	replaceErr error
	replaces   int
}

func (s *atomicListStore) ReplaceAll(_ context.Context, templates []servicepack.Template, bundles []servicepack.ServiceBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.replaces++
	s.templates = slices.Clone(templates)
	s.bundles = slices.Clone(bundles)
	return nil
}

// MockStore is a mock implementation of servicepack.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) LoadTemplates(ctx context.Context) ([]servicepack.Template, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]servicepack.Template), args.Error(1)
}

func (m *MockStore) SaveTemplates(ctx context.Context, templates []servicepack.Template) error {
	args := m.Called(ctx, templates)
	return args.Error(0)
}

func (m *MockStore) LoadBundles(ctx context.Context) ([]servicepack.ServiceBundle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]servicepack.ServiceBundle), args.Error(1)
}

func (m *MockStore) SaveBundles(ctx context.Context, bundles []servicepack.ServiceBundle) error {
	args := m.Called(ctx, bundles)
	return args.Error(0)
}

// scriptedConfirmer answers prompts in order and records them. Prompts past
// the script are answered with fallback.
type scriptedConfirmer struct {
	answers  []bool
	fallback bool
	prompts  []string
	onPrompt func(ctx context.Context, message string)
}

func (c *scriptedConfirmer) Confirm(ctx context.Context, message string) bool {
	c.prompts = append(c.prompts, message)
	if c.onPrompt != nil {
		c.onPrompt(ctx, message)
	}
	if len(c.answers) == 0 {
		return c.fallback
	}
	answer := c.answers[0]
	c.answers = c.answers[1:]
	return answer
}

type notice struct {
	message string
	level   Level
}

type recordingNotifier struct {
	notices []notice
}

func (n *recordingNotifier) Notify(message string, level Level) {
	n.notices = append(n.notices, notice{message: message, level: level})
}

func (n *recordingNotifier) levels() []Level {
	out := make([]Level, 0, len(n.notices))
	for _, x := range n.notices {
		out = append(out, x.level)
	}
	return out
}

type recordingMetrics struct {
	inserts  []servicepack.Kind
	rejected []string
	saves    []bool
	clones   []string
	cascaded []int
	failures []string
}

func (m *recordingMetrics) RecordInsert(_ context.Context, kind servicepack.Kind, _ Source) {
	m.inserts = append(m.inserts, kind)
}

func (m *recordingMetrics) RecordInsertRejected(_ context.Context, _ servicepack.Kind, code string) {
	m.rejected = append(m.rejected, code)
}

func (m *recordingMetrics) RecordSave(_ context.Context, editing bool, _, _ decimal.Decimal) {
	m.saves = append(m.saves, editing)
}

func (m *recordingMetrics) RecordClone(_ context.Context, target string) {
	m.clones = append(m.clones, target)
}

func (m *recordingMetrics) RecordDelete(_ context.Context, cascadedBundles int) {
	m.cascaded = append(m.cascaded, cascadedBundles)
}

func (m *recordingMetrics) RecordPersistenceFailure(_ context.Context, op string) {
	m.failures = append(m.failures, op)
}

type builderFixture struct {
	builder   *Builder
	store     servicepack.Store
	confirmer *scriptedConfirmer
	notifier  *recordingNotifier
	metrics   *recordingMetrics
}

func newBuilderFixture(t *testing.T, store servicepack.Store, opts ...Option) *builderFixture {
	t.Helper()
	f := &builderFixture{
		store:     store,
		confirmer: &scriptedConfirmer{fallback: true},
		notifier:  &recordingNotifier{},
		metrics:   &recordingMetrics{},
	}
	opts = append([]Option{
		WithClock(fixedClock),
		WithOperator("tester"),
		WithMetrics(f.metrics),
	}, opts...)
	b, err := NewBuilder(store, f.confirmer, f.notifier, opts...)
	require.NoError(t, err)
	f.builder = b
	return f
}

func oilChangeTask() servicepack.Task {
	return servicepack.Task{
		Name:           "Engine oil change",
		Category:       "Engine",
		EstimatedHours: decimal.RequireFromString("2.0"),
		Subtasks:       []string{"Drain oil", "Replace filter"},
	}
}

func oilFilter() servicepack.BOMItem {
	return servicepack.BOMItem{
		PartNumber:  "ENG001",
		Description: "Engine Oil Filter",
		Category:    "Engine",
		Quantity:    decimal.NewFromInt(2),
		Unit:        "each",
		UnitCost:    decimal.RequireFromString("24.50"),
	}
}

// composedSession returns a session holding one task and one BOM line
func composedSession(t *testing.T) *servicepack.Session {
	t.Helper()
	s := servicepack.NewSession()
	_, err := s.Add(oilChangeTask())
	require.NoError(t, err)
	_, err = s.Add(oilFilter())
	require.NoError(t, err)
	return s
}

// saveComposed saves a composed session under code and returns the result
func saveComposed(t *testing.T, f *builderFixture, code string) *SaveResult {
	t.Helper()
	res, err := f.builder.Save(context.Background(), composedSession(t), SaveRequest{Code: code, Name: "Service " + code})
	require.NoError(t, err)
	require.False(t, res.Ignored)
	return res
}
