package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/erp/servicepack/internal/domain/shared"
	"github.com/google/uuid"
)

// resolveRef matches input against ids and codes: exact uuid first, then
// code (case-insensitive), then a unique uuid prefix
func resolveRef[T any](items []T, input, label string, id func(T) uuid.UUID, code func(T) string) (uuid.UUID, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return uuid.Nil, shared.NewValidationError("%s id or code is required", label)
	}

	if parsed, err := uuid.Parse(input); err == nil {
		for _, item := range items {
			if id(item) == parsed {
				return parsed, nil
			}
		}
		return uuid.Nil, shared.NewNotFoundError("%s %s not found", label, parsed)
	}

	normalized := servicepack.NormalizeCode(input)
	for _, item := range items {
		if code(item) == normalized {
			return id(item), nil
		}
	}

	var matches []uuid.UUID
	lower := strings.ToLower(input)
	for _, item := range items {
		if strings.HasPrefix(id(item).String(), lower) {
			matches = append(matches, id(item))
		}
	}
	switch len(matches) {
	case 0:
		return uuid.Nil, shared.NewNotFoundError("%s not found: %q", label, input)
	case 1:
		return matches[0], nil
	}
	return uuid.Nil, shared.NewValidationError("%s id prefix %q is ambiguous (%d matches)", label, input, len(matches))
}

func resolveTemplateID(ctx context.Context, app *App, input string) (uuid.UUID, error) {
	templates, err := app.Builder.ListTemplates(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return resolveRef(templates, input, "service package",
		func(t servicepack.Template) uuid.UUID { return t.ID },
		func(t servicepack.Template) string { return t.Code })
}

func resolveBundleID(ctx context.Context, app *App, input string) (uuid.UUID, error) {
	bundles, err := app.Builder.ListBundles(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return resolveRef(bundles, input, "service bundle",
		func(b servicepack.ServiceBundle) uuid.UUID { return b.ID },
		func(b servicepack.ServiceBundle) string { return b.Code })
}

// resolveAnyID resolves input as a template first and as a bundle second
func resolveAnyID(ctx context.Context, app *App, input string) (uuid.UUID, error) {
	id, err := resolveTemplateID(ctx, app, input)
	if err == nil {
		return id, nil
	}
	if !isNotFound(err) {
		return uuid.Nil, err
	}
	id, bundleErr := resolveBundleID(ctx, app, input)
	if bundleErr != nil {
		if isNotFound(bundleErr) {
			return uuid.Nil, shared.NewNotFoundError("no service package or bundle matches %q", input)
		}
		return uuid.Nil, bundleErr
	}
	return id, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
