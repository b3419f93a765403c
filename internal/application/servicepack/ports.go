// Package servicepack implements the service package builder: routing of
// insertions into a composition session and the save, edit, clone and delete
// flows that persist templates and their derived bundles.
package servicepack

import (
	"context"

	"github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/shopspring/decimal"
)

// Level is the severity of a user-facing notice
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Confirmer asks the operator a yes/no question. Cancelling the prompt is
// reported as false.
type Confirmer interface {
	Confirm(ctx context.Context, message string) bool
}

// Notifier delivers fire-and-forget notices to the operator
type Notifier interface {
	Notify(message string, level Level)
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, message string) bool

// Confirm calls f
func (f ConfirmFunc) Confirm(ctx context.Context, message string) bool {
	return f(ctx, message)
}

// NotifyFunc adapts a function to Notifier
type NotifyFunc func(message string, level Level)

// Notify calls f
func (f NotifyFunc) Notify(message string, level Level) {
	f(message, level)
}

// Metrics records builder activity
type Metrics interface {
	RecordInsert(ctx context.Context, kind servicepack.Kind, source Source)
	RecordInsertRejected(ctx context.Context, kind servicepack.Kind, code string)
	RecordSave(ctx context.Context, editing bool, totalHours, estimatedCost decimal.Decimal)
	RecordClone(ctx context.Context, target string)
	RecordDelete(ctx context.Context, cascadedBundles int)
	RecordPersistenceFailure(ctx context.Context, op string)
}

type noopMetrics struct{}

func (noopMetrics) RecordInsert(context.Context, servicepack.Kind, Source) {}
func (noopMetrics) RecordInsertRejected(context.Context, servicepack.Kind, string) {}
func (noopMetrics) RecordSave(context.Context, bool, decimal.Decimal, decimal.Decimal) {}
func (noopMetrics) RecordClone(context.Context, string) {}
func (noopMetrics) RecordDelete(context.Context, int) {}
func (noopMetrics) RecordPersistenceFailure(context.Context, string) {}
