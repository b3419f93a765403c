package servicepack

import "context"

// Store persists templates and bundles as whole lists. Implementations replace
// the full list on save; upsert and cascade decisions are made by the caller.
type Store interface {
	LoadTemplates(ctx context.Context) ([]Template, error)
	SaveTemplates(ctx context.Context, templates []Template) error
	LoadBundles(ctx context.Context) ([]ServiceBundle, error)
	SaveBundles(ctx context.Context, bundles []ServiceBundle) error
}

// AtomicStore is implemented by stores that can replace both lists in one
// all-or-nothing write.
type AtomicStore interface {
	Store
	ReplaceAll(ctx context.Context, templates []Template, bundles []ServiceBundle) error
}
