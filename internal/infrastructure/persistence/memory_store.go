package persistence

import (
	"context"
	"sync"

	"github.com/erp/servicepack/internal/domain/servicepack"
)

// MemoryStore keeps templates and bundles in process memory. Lists are deep
// copied on the way in and out.
type MemoryStore struct {
	mu        sync.RWMutex
	templates []servicepack.Template
	bundles   []servicepack.ServiceBundle
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// LoadTemplates returns a copy of the stored templates
func (s *MemoryStore) LoadTemplates(context.Context) ([]servicepack.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTemplates(s.templates), nil
}

// LoadBundles returns a copy of the stored bundles
func (s *MemoryStore) LoadBundles(context.Context) ([]servicepack.ServiceBundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneBundles(s.bundles), nil
}

// SaveTemplates replaces the stored templates
func (s *MemoryStore) SaveTemplates(_ context.Context, templates []servicepack.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates = cloneTemplates(templates)
	return nil
}

// SaveBundles replaces the stored bundles
func (s *MemoryStore) SaveBundles(_ context.Context, bundles []servicepack.ServiceBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundles = cloneBundles(bundles)
	return nil
}

// ReplaceAll replaces both lists under one lock
func (s *MemoryStore) ReplaceAll(_ context.Context, templates []servicepack.Template, bundles []servicepack.ServiceBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates = cloneTemplates(templates)
	s.bundles = cloneBundles(bundles)
	return nil
}

func cloneTemplates(in []servicepack.Template) []servicepack.Template {
	out := make([]servicepack.Template, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}

func cloneBundles(in []servicepack.ServiceBundle) []servicepack.ServiceBundle {
	out := make([]servicepack.ServiceBundle, len(in))
	for i, b := range in {
		out[i] = b.Clone()
	}
	return out
}

var _ servicepack.AtomicStore = (*MemoryStore)(nil)
