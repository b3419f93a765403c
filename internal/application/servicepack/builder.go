package servicepack

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/servicepack/internal/domain/catalog"
	"github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/erp/servicepack/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Prompts shown through the Confirmer
const (
	PromptLoadSample     = "This service package is empty. Load sample data before saving?"
	promptDeleteTemplate = "Delete service package %s (%s) and its %d bundle(s)?"
	promptDeleteBundle   = "Delete service bundle %s (%s)?"
)

// Builder is the derivation and persistence engine. It turns a composition
// session into a template and its priced bundle, and manages the persisted
// records. Sessions are passed in explicitly; the builder holds no session state.
type Builder struct {
	store     servicepack.Store
	confirmer Confirmer
	notifier  Notifier
	logger    *zap.Logger
	metrics   Metrics
	now       func() time.Time
	laborRate decimal.Decimal
	operator  string
	sample    func() servicepack.Composition
}

// Option configures a Builder
type Option func(*Builder)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(m Metrics) Option {
	return func(b *Builder) {
		if m != nil {
			b.metrics = m
		}
	}
}

// WithClock sets the time source used for creation and update stamps
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithLaborRate sets the labor rate per hour used to price bundles
func WithLaborRate(rate decimal.Decimal) Option {
	return func(b *Builder) {
		b.laborRate = rate
	}
}

// WithOperator sets the name stamped as created_by on new records
func WithOperator(operator string) Option {
	return func(b *Builder) {
		b.operator = operator
	}
}

// WithSampleComposition replaces the sample data offered for empty sessions
func WithSampleComposition(sample func() servicepack.Composition) Option {
	return func(b *Builder) {
		if sample != nil {
			b.sample = sample
		}
	}
}

// NewBuilder creates a Builder over store
func NewBuilder(store servicepack.Store, confirmer Confirmer, notifier Notifier, opts ...Option) (*Builder, error) {
	if store == nil {
		return nil, shared.NewValidationError("builder requires a store")
	}
	b := &Builder{
		store:     store,
		confirmer: confirmer,
		notifier:  notifier,
		logger:    zap.NewNop(),
		metrics:   noopMetrics{},
		now:       time.Now,
		laborRate: servicepack.DefaultLaborRatePerHour,
		operator:  "system",
		sample:    catalog.SampleComposition,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.confirmer == nil {
		b.confirmer = ConfirmFunc(func(context.Context, string) bool { return false })
	}
	if b.notifier == nil {
		b.notifier = NotifyFunc(func(string, Level) {})
	}
	if err := servicepack.ValidateLaborRate(b.laborRate); err != nil {
		return nil, err
	}
	return b, nil
}

// LaborRate returns the labor rate per hour used for pricing
func (b *Builder) LaborRate() decimal.Decimal {
	return b.laborRate
}

// StartNew returns a fresh, empty session
func (b *Builder) StartNew() *servicepack.Session {
	s := servicepack.NewSession()
	b.logger.Debug("composition started", zap.String("session_id", s.ID().String()))
	return s
}

// ComputeTotalHours returns the labor hours of the session
func (b *Builder) ComputeTotalHours(s *servicepack.Session) decimal.Decimal {
	return servicepack.ComputeTotalHours(s.Snapshot())
}

// ComputeEstimatedCost returns the bundle cost of the session at laborRatePerHour
func (b *Builder) ComputeEstimatedCost(s *servicepack.Session, laborRatePerHour decimal.Decimal) decimal.Decimal {
	return servicepack.ComputeEstimatedCost(s.Snapshot(), laborRatePerHour)
}

// Price returns the cost breakdown of the session at the configured labor rate
func (b *Builder) Price(s *servicepack.Session) servicepack.CostBreakdown {
	return servicepack.PriceComposition(s.Snapshot(), b.laborRate)
}

// Save persists the session as a template and derives its bundle. A call made
// while another save on the same session is in flight is ignored. On success
// the session is reset; on failure it is left as it was, including when the
// sample data was accepted.
func (b *Builder) Save(ctx context.Context, s *servicepack.Session, req SaveRequest) (_ *SaveResult, err error) {
	fields := req.fields()
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	log := b.sessionLog(ctx, s)
	if !s.BeginSave() {
		log.Debug("save ignored, another save is in flight",
			zap.String("code", req.Code))
		return &SaveResult{Ignored: true}, nil
	}
	defer s.EndSave()

	sampleLoaded := false
	if s.IsEmpty() {
		if b.confirmer.Confirm(ctx, PromptLoadSample) {
			if err := populate(s, b.sample()); err != nil {
				s.Load(servicepack.Composition{})
				return nil, fmt.Errorf("load sample data: %w", err)
			}
			sampleLoaded = true
			defer func() {
				if err != nil {
					s.Load(servicepack.Composition{})
				}
			}()
		} else {
			log.Warn("sample data declined, saving empty service package",
				zap.String("code", servicepack.NormalizeCode(req.Code)))
		}
	}

	now := b.now()
	tpl, err := servicepack.NewTemplate(fields, s.Snapshot(), b.operator, now)
	if err != nil {
		return nil, err
	}

	templates, err := b.store.LoadTemplates(ctx)
	if err != nil {
		return nil, b.persistenceFailure(ctx, "load templates", err)
	}
	bundles, err := b.store.LoadBundles(ctx)
	if err != nil {
		return nil, b.persistenceFailure(ctx, "load bundles", err)
	}

	editingTemplate, _ := s.EditingTemplateID()
	editingBundle, _ := s.EditingBundleID()

	newTemplates, storedTemplate, err := servicepack.UpsertTemplate(templates, *tpl, editingTemplate, now)
	if err != nil {
		return nil, err
	}
	bundle := servicepack.DeriveBundle(storedTemplate, b.laborRate, now)
	newBundles, storedBundle, err := servicepack.UpsertBundle(bundles, *bundle, editingBundle, now)
	if err != nil {
		return nil, err
	}

	if err := b.replace(ctx, templates, newTemplates, newBundles); err != nil {
		return nil, err
	}

	editing := s.IsEditing()
	s.Reset()

	updated := storedTemplate.ID != tpl.ID
	b.metrics.RecordSave(ctx, editing, storedBundle.TotalHours, storedBundle.EstimatedCost)
	log.Info("service package saved",
		zap.String("code", storedTemplate.Code),
		zap.String("template_id", storedTemplate.ID.String()),
		zap.String("bundle_id", storedBundle.ID.String()),
		zap.String("total_hours", storedBundle.TotalHours.String()),
		zap.String("estimated_cost", storedBundle.EstimatedCost.StringFixed(2)),
		zap.Bool("editing", editing),
		zap.Bool("updated", updated))
	b.notifier.Notify(fmt.Sprintf("Service package %s saved (estimated cost %s)",
		storedTemplate.Code, storedBundle.EstimatedCost.StringFixed(2)), LevelSuccess)

	return &SaveResult{
		SampleLoaded:  sampleLoaded,
		TemplateID:    storedTemplate.ID,
		BundleID:      storedBundle.ID,
		Code:          storedTemplate.Code,
		BundleCode:    storedBundle.Code,
		TotalHours:    storedBundle.TotalHours,
		EstimatedCost: storedBundle.EstimatedCost,
		Updated:       updated,
	}, nil
}

// StartEdit loads the bundle's template snapshot into a fresh session marked
// as editing that bundle and its template
func (b *Builder) StartEdit(ctx context.Context, bundleID uuid.UUID) (*servicepack.Session, error) {
	bundles, err := b.store.LoadBundles(ctx)
	if err != nil {
		return nil, b.persistenceFailure(ctx, "load bundles", err)
	}
	bundle, err := servicepack.FindBundle(bundles, bundleID)
	if err != nil {
		return nil, err
	}

	s := servicepack.NewSessionFromComposition(bundle.Template.Composition)
	s.MarkEditing(bundle.TemplateID(), bundle.ID)

	b.sessionLog(ctx, s).Info("editing service bundle",
		zap.String("bundle_id", bundle.ID.String()),
		zap.String("template_id", bundle.TemplateID().String()),
		zap.String("code", bundle.Template.Code))
	return s, nil
}

// CancelEdit discards the session's edits and clears its edit markers.
// Persisted records are not touched.
func (b *Builder) CancelEdit(s *servicepack.Session) {
	bundleID, editing := s.EditingBundleID()
	s.Reset()
	if editing {
		b.logger.Info("edit cancelled",
			zap.String("session_id", s.ID().String()),
			zap.String("bundle_id", bundleID.String()))
	}
}

// Clone copies the template or bundle with the given id under the first free
// copy code and a suffixed name. Templates are looked up first. A bundle is
// copied together with its template so the copy can be edited on its own.
func (b *Builder) Clone(ctx context.Context, id uuid.UUID) (*CloneResult, error) {
	templates, err := b.store.LoadTemplates(ctx)
	if err != nil {
		return nil, b.persistenceFailure(ctx, "load templates", err)
	}
	bundles, err := b.store.LoadBundles(ctx)
	if err != nil {
		return nil, b.persistenceFailure(ctx, "load bundles", err)
	}
	now := b.now()

	if source, findErr := servicepack.FindTemplate(templates, id); findErr == nil {
		updated, cp := servicepack.CloneTemplate(source, templates, bundles, b.operator, now)
		if err := b.store.SaveTemplates(ctx, updated); err != nil {
			return nil, b.persistenceFailure(ctx, "save templates", err)
		}
		return b.cloned(ctx, &CloneResult{
			Target:     CloneTargetTemplate,
			SourceID:   source.ID,
			ID:         cp.ID,
			TemplateID: cp.ID,
			Code:       cp.Code,
			Name:       cp.Name,
		}), nil
	}

	source, err := servicepack.FindBundle(bundles, id)
	if err != nil {
		return nil, shared.NewNotFoundError("no template or service bundle with id %s", id)
	}
	newTemplates, newBundles, cp := servicepack.CloneBundle(source, templates, bundles, b.operator, now)
	if err := b.replace(ctx, templates, newTemplates, newBundles); err != nil {
		return nil, err
	}
	return b.cloned(ctx, &CloneResult{
		Target:     CloneTargetBundle,
		SourceID:   source.ID,
		ID:         cp.ID,
		TemplateID: cp.TemplateID(),
		Code:       cp.Code,
		Name:       cp.Name,
	}), nil
}

func (b *Builder) cloned(ctx context.Context, res *CloneResult) *CloneResult {
	b.metrics.RecordClone(ctx, string(res.Target))
	b.log(ctx).Info("service package cloned",
		zap.String("target", string(res.Target)),
		zap.String("source_id", res.SourceID.String()),
		zap.String("id", res.ID.String()),
		zap.String("code", res.Code))
	b.notifier.Notify(fmt.Sprintf("Copied to %s", res.Code), LevelSuccess)
	return res
}
// Delete removes a template and every bundle derived from it, after the
// operator confirms
func (b *Builder) Delete(ctx context.Context, templateID uuid.UUID) (*DeleteResult, error) {
	templates, err := b.store.LoadTemplates(ctx)
	if err != nil {
		return nil, b.persistenceFailure(ctx, "load templates", err)
	}
	bundles, err := b.store.LoadBundles(ctx)
	if err != nil {
		return nil, b.persistenceFailure(ctx, "load bundles", err)
	}

	tpl, err := servicepack.FindTemplate(templates, templateID)
	if err != nil {
		return nil, err
	}
	remainingTemplates, remainingBundles, cascaded, err := servicepack.DeleteTemplate(templates, bundles, templateID)
	if err != nil {
		return nil, err
	}

	if !b.confirmer.Confirm(ctx, fmt.Sprintf(promptDeleteTemplate, tpl.Code, tpl.Name, cascaded)) {
		b.log(ctx).Warn("delete declined", zap.String("template_id", templateID.String()))
		return &DeleteResult{Deleted: false, ID: templateID}, nil
	}

	if err := b.replace(ctx, templates, remainingTemplates, remainingBundles); err != nil {
		return nil, err
	}

	b.metrics.RecordDelete(ctx, cascaded)
	b.log(ctx).Info("service package deleted",
		zap.String("template_id", templateID.String()),
		zap.String("code", tpl.Code),
		zap.Int("cascaded_bundles", cascaded))
	b.notifier.Notify(fmt.Sprintf("Service package %s deleted", tpl.Code), LevelSuccess)
	return &DeleteResult{Deleted: true, ID: templateID, CascadedBundles: cascaded}, nil
}

// DeleteBundle removes one bundle and keeps its template, after the operator confirms
func (b *Builder) DeleteBundle(ctx context.Context, bundleID uuid.UUID) (*DeleteResult, error) {
	bundles, err := b.store.LoadBundles(ctx)
	if err != nil {
		return nil, b.persistenceFailure(ctx, "load bundles", err)
	}
	bundle, err := servicepack.FindBundle(bundles, bundleID)
	if err != nil {
		return nil, err
	}
	remaining, err := servicepack.DeleteBundle(bundles, bundleID)
	if err != nil {
		return nil, err
	}

	if !b.confirmer.Confirm(ctx, fmt.Sprintf(promptDeleteBundle, bundle.Code, bundle.Name)) {
		b.log(ctx).Warn("delete declined", zap.String("bundle_id", bundleID.String()))
		return &DeleteResult{Deleted: false, ID: bundleID}, nil
	}
	if err := b.store.SaveBundles(ctx, remaining); err != nil {
		return nil, b.persistenceFailure(ctx, "save bundles", err)
	}

	b.metrics.RecordDelete(ctx, 0)
	b.log(ctx).Info("service bundle deleted",
		zap.String("bundle_id", bundleID.String()),
		zap.String("code", bundle.Code))
	b.notifier.Notify(fmt.Sprintf("Service bundle %s deleted", bundle.Code), LevelSuccess)
	return &DeleteResult{Deleted: true, ID: bundleID}, nil
}

// ListTemplates returns the persisted templates in store order
func (b *Builder) ListTemplates(ctx context.Context) ([]servicepack.Template, error) {
	templates, err := b.store.LoadTemplates(ctx)
	if err != nil {
		return nil, b.persistenceFailure(ctx, "load templates", err)
	}
	return templates, nil
}

// ListBundles returns the persisted bundles in store order
func (b *Builder) ListBundles(ctx context.Context) ([]servicepack.ServiceBundle, error) {
	bundles, err := b.store.LoadBundles(ctx)
	if err != nil {
		return nil, b.persistenceFailure(ctx, "load bundles", err)
	}
	return bundles, nil
}

// GetBundle returns the persisted bundle with the given id
func (b *Builder) GetBundle(ctx context.Context, id uuid.UUID) (*servicepack.ServiceBundle, error) {
	bundles, err := b.ListBundles(ctx)
	if err != nil {
		return nil, err
	}
	bundle, err := servicepack.FindBundle(bundles, id)
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

// replace writes both lists. Stores that support it do so atomically;
// otherwise templates are written first and restored if the bundle write fails.
func (b *Builder) replace(ctx context.Context, previousTemplates, templates []servicepack.Template, bundles []servicepack.ServiceBundle) error {
	if atomic, ok := b.store.(servicepack.AtomicStore); ok {
		if err := atomic.ReplaceAll(ctx, templates, bundles); err != nil {
			return b.persistenceFailure(ctx, "replace all", err)
		}
		return nil
	}

	if err := b.store.SaveTemplates(ctx, templates); err != nil {
		return b.persistenceFailure(ctx, "save templates", err)
	}
	if err := b.store.SaveBundles(ctx, bundles); err != nil {
		if rbErr := b.store.SaveTemplates(ctx, previousTemplates); rbErr != nil {
			b.log(ctx).Error("failed to restore templates after bundle write failure",
				zap.Error(rbErr))
		}
		return b.persistenceFailure(ctx, "save bundles", err)
	}
	return nil
}

func (b *Builder) log(ctx context.Context) *zap.Logger {
	return contextLogger(ctx, b.logger, nil)
}

func (b *Builder) sessionLog(ctx context.Context, s *servicepack.Session) *zap.Logger {
	return contextLogger(ctx, b.logger, s)
}

func (b *Builder) persistenceFailure(ctx context.Context, op string, err error) error {
	b.metrics.RecordPersistenceFailure(ctx, op)
	b.log(ctx).Error("persistence store failure", zap.String("op", op), zap.Error(err))
	b.notifier.Notify("Service package storage is unavailable: "+op+" failed", LevelError)
	return shared.NewPersistenceError(op, err)
}

// populate inserts every entry of c into s
func populate(s *servicepack.Session, c servicepack.Composition) error {
	entries := make([]servicepack.Entry, 0)
	for _, e := range c.Tasks {
		entries = append(entries, e)
	}
	for _, e := range c.Skills {
		entries = append(entries, e)
	}
	for _, e := range c.BOMItems {
		entries = append(entries, e)
	}
	for _, e := range c.Tools {
		entries = append(entries, e)
	}
	for _, e := range c.SOPs {
		entries = append(entries, e)
	}
	for _, e := range c.SafetyInstructions {
		entries = append(entries, e)
	}
	for _, e := range entries {
		if _, err := s.Add(e); err != nil {
			return err
		}
	}
	return nil
}
