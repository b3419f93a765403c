package servicepack

import (
	"context"
	"errors"

	"github.com/erp/servicepack/internal/domain/catalog"
	"github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/erp/servicepack/internal/domain/shared"
	"go.uber.org/zap"
)

// Source identifies how an insertion was requested
type Source string

const (
	SourceManual       Source = "manual-form"
	SourceCatalogClick Source = "catalog-click"
	SourceCatalogDrag  Source = "catalog-drag"
)

// IsValid checks if the source is known
func (s Source) IsValid() bool {
	switch s {
	case SourceManual, SourceCatalogClick, SourceCatalogDrag:
		return true
	}
	return false
}

// IsCatalog reports whether the payload is a catalog index
func (s Source) IsCatalog() bool {
	return s == SourceCatalogClick || s == SourceCatalogDrag
}

// Intent is a request to insert one entry into a session
type Intent struct {
	// Kind is the kind of the payload
	Kind   servicepack.Kind
	Source Source
	// Entry carries the operator-entered fields for SourceManual
	Entry servicepack.Entry
	// CatalogIndex points into the catalog list of Kind for catalog sources
	CatalogIndex int
	// DropTarget is the kind accepted by the drop zone for SourceCatalogDrag
	DropTarget servicepack.Kind
}

// InsertionRouter resolves insertion intents and delegates to the session's
// collection editors
type InsertionRouter struct {
	catalog catalog.Provider
	logger  *zap.Logger
	metrics Metrics
}

// NewInsertionRouter creates a router over the given catalog
func NewInsertionRouter(provider catalog.Provider, logger *zap.Logger, metrics Metrics) *InsertionRouter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &InsertionRouter{
		catalog: provider,
		logger:  logger,
		metrics: metrics,
	}
}

// Insert applies intent to s and returns the stored entry. A rejected intent
// leaves s unchanged.
func (r *InsertionRouter) Insert(ctx context.Context, s *servicepack.Session, intent Intent) (servicepack.Entry, error) {
	log := contextLogger(ctx, r.logger, s)
	entry, err := r.insert(s, intent)
	if err != nil {
		var de *shared.DomainError
		code := "UNKNOWN"
		if errors.As(err, &de) {
			code = de.Code
		}
		r.metrics.RecordInsertRejected(ctx, intent.Kind, code)
		log.Debug("insertion rejected",
			zap.String("kind", string(intent.Kind)),
			zap.String("source", string(intent.Source)),
			zap.String("code", code),
			zap.Error(err))
		return nil, err
	}

	r.metrics.RecordInsert(ctx, intent.Kind, intent.Source)
	log.Debug("entry inserted",
		zap.String("kind", string(intent.Kind)),
		zap.String("source", string(intent.Source)),
		zap.Int64("entry_id", int64(entry.EntryID())))
	return entry, nil
}

func (r *InsertionRouter) insert(s *servicepack.Session, intent Intent) (servicepack.Entry, error) {
	if !intent.Kind.IsValid() {
		return nil, shared.NewValidationError("unknown entry kind %q", intent.Kind)
	}
	if !intent.Source.IsValid() {
		return nil, shared.NewValidationError("unknown insertion source %q", intent.Source)
	}
	if s.IsSaving() {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Cannot modify the package while it is being saved")
	}
	if intent.Source == SourceCatalogDrag && intent.DropTarget != intent.Kind {
		return nil, shared.NewTypeMismatchError("%s cannot be dropped on the %s list",
			intent.Kind.Label(), intent.DropTarget.Label())
	}

	var payload servicepack.Entry
	if intent.Source.IsCatalog() {
		e, err := r.catalog.Lookup(intent.Kind, intent.CatalogIndex)
		if err != nil {
			return nil, err
		}
		payload = e
	} else {
		if intent.Entry == nil {
			return nil, shared.NewValidationError("%s: entry fields are required", intent.Kind.Label())
		}
		if intent.Entry.Kind() != intent.Kind {
			return nil, shared.NewValidationError("%s form cannot submit a %s",
				intent.Kind.Label(), intent.Entry.Kind().Label())
		}
		payload = intent.Entry
	}
	return s.Add(payload)
}

// DragState is the lifecycle state of a catalog drag
type DragState string

const (
	DragIdle     DragState = "idle"
	DragDragging DragState = "dragging"
)

// DragController tracks the single active catalog drag. It moves
// idle -> dragging -> idle; a drop or a cancel always ends the drag.
type DragController struct {
	router *InsertionRouter
	state  DragState
	kind   servicepack.Kind
	index  int
}

// NewDragController creates an idle drag controller
func NewDragController(router *InsertionRouter) *DragController {
	return &DragController{router: router, state: DragIdle}
}

// State returns the current drag state
func (d *DragController) State() DragState {
	return d.state
}

// CanStart reports whether a new drag may begin
func (d *DragController) CanStart() bool {
	return d.state == DragIdle
}

// Start begins dragging the catalog entry of kind k at index
func (d *DragController) Start(k servicepack.Kind, index int) error {
	if !d.CanStart() {
		return shared.NewDomainError(shared.CodeInvalidState, "Another drag is already in progress")
	}
	if _, err := d.router.catalog.Lookup(k, index); err != nil {
		return err
	}
	d.state = DragDragging
	d.kind = k
	d.index = index
	return nil
}

// Dragging returns the kind and catalog index being dragged
func (d *DragController) Dragging() (servicepack.Kind, int, bool) {
	if d.state != DragDragging {
		return "", 0, false
	}
	return d.kind, d.index, true
}

// Accepts reports whether the active drag may be dropped on target
func (d *DragController) Accepts(target servicepack.Kind) bool {
	return d.state == DragDragging && d.kind == target
}

// Drop inserts the dragged entry into the collection accepted by target. The
// controller returns to idle whether or not the drop succeeds.
func (d *DragController) Drop(ctx context.Context, s *servicepack.Session, target servicepack.Kind) (servicepack.Entry, error) {
	if d.state != DragDragging {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "No drag in progress")
	}
	intent := Intent{
		Kind:         d.kind,
		Source:       SourceCatalogDrag,
		CatalogIndex: d.index,
		DropTarget:   target,
	}
	d.reset()
	return d.router.Insert(ctx, s, intent)
}

// Cancel abandons the active drag, if any
func (d *DragController) Cancel() {
	d.reset()
}

func (d *DragController) reset() {
	d.state = DragIdle
	d.kind = ""
	d.index = 0
}
