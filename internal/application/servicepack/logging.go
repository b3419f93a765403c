package servicepack

import (
	"context"

	"github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/erp/servicepack/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// contextLogger tags base with the operator and session id carried by ctx.
// When s is given its id is used as the session id.
func contextLogger(ctx context.Context, base *zap.Logger, s *servicepack.Session) *zap.Logger {
	fields := make([]zap.Field, 0, 2)
	if op := logger.GetOperator(ctx); op != "" {
		fields = append(fields, zap.String("operator", op))
	}
	sessionID := logger.GetSessionID(ctx)
	if s != nil {
		sessionID = s.ID().String()
	}
	if sessionID != "" {
		fields = append(fields, zap.String("session_id", sessionID))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
