package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("matches sentinel by code", func(t *testing.T) {
		err := NewNotFoundError("service bundle %s not found", "PM-500-BUNDLE")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrValidation)
		assert.Equal(t, "service bundle PM-500-BUNDLE not found", err.Error())
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("add BOM item #0: %w", NewDuplicateKeyError("part %q already exists", "ENG001"))

		assert.ErrorIs(t, err, ErrDuplicateKey)

		var de *DomainError
		assert.True(t, errors.As(err, &de))
		assert.Equal(t, CodeDuplicateKey, de.Code)
	})

	t.Run("plain errors never match", func(t *testing.T) {
		assert.NotErrorIs(t, errors.New("NOT_FOUND"), ErrNotFound)
	})
}

func TestNewPersistenceError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, NewPersistenceError("save templates", nil))
	})

	t.Run("wraps cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewPersistenceError("save templates", cause)

		assert.ErrorIs(t, err, ErrPersistence)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "persistence: save templates: connection refused", err.Error())
	})

	t.Run("does not double wrap", func(t *testing.T) {
		inner := NewPersistenceError("load bundles", errors.New("timeout"))
		err := NewPersistenceError("save", inner)

		var pe *PersistenceError
		assert.True(t, errors.As(err, &pe))
		assert.Equal(t, "load bundles", pe.Op)
	})

	t.Run("without cause", func(t *testing.T) {
		assert.Equal(t, "persistence: store failed", ErrPersistence.Error())
	})
}
