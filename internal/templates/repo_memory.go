package templates

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo for local development and tests.
type MemoryRepo struct {
	mu        sync.RWMutex
	templates map[string]Template
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{templates: make(map[string]Template)}
}

func (r *MemoryRepo) Create(_ context.Context, tmpl Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tmpl.Type == "" {
		tmpl.Type = "other"
	}
	r.templates[tmpl.ID] = tmpl
	return nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tmpl, ok := r.templates[id]
	if !ok {
		return Template{}, ErrNotFound
	}
	return tmpl, nil
}

func (r *MemoryRepo) ListActive(_ context.Context, templateType string) ([]Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Template
	for _, tmpl := range r.templates {
		if !tmpl.Active {
			continue
		}
		if templateType != "" && tmpl.Type != templateType {
			continue
		}
		out = append(out, tmpl)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MemoryRepo) ReplaceFile(_ context.Context, id, fileKey, previewFileKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tmpl, ok := r.templates[id]
	if !ok {
		return ErrNotFound
	}
	tmpl.FileKey = fileKey
	tmpl.PreviewFileKey = previewFileKey
	r.templates[id] = tmpl
	return nil
}
