package instances

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for local development and tests.
type MemoryRepo struct {
	mu        sync.RWMutex
	instances map[string]Instance
	previews  map[string]Preview
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		instances: make(map[string]Instance),
		previews:  make(map[string]Preview),
	}
}

func (r *MemoryRepo) Create(_ context.Context, inst Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances[inst.ID] = cloneInstance(inst)
	return nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.instances[id]
	if !ok {
		return Instance{}, ErrNotFound
	}
	return cloneInstance(inst), nil
}

func (r *MemoryRepo) GetBySessionRef(_ context.Context, sessionID string) (Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, inst := range r.instances {
		if inst.CheckoutSessionID == sessionID && sessionID != "" {
			return cloneInstance(inst), nil
		}
	}
	return Instance{}, ErrNotFound
}

func (r *MemoryRepo) SetSessionRef(_ context.Context, id, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[id]
	if !ok {
		return ErrNotFound
	}
	inst.CheckoutSessionID = sessionID
	inst.UpdatedAt = time.Now().UTC()
	r.instances[id] = inst
	return nil
}

func (r *MemoryRepo) MarkPaid(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[id]
	if !ok {
		return ErrNotFound
	}
	if inst.Paid {
		return nil
	}
	inst.Paid = true
	inst.UpdatedAt = time.Now().UTC()
	r.instances[id] = inst
	return nil
}

func (r *MemoryRepo) CreatePreview(_ context.Context, p Preview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.previews[p.ID] = p
	return nil
}

func (r *MemoryRepo) GetPreview(_ context.Context, id string) (Preview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.previews[id]
	if !ok {
		return Preview{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) DeletePreview(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.previews, id)
	return nil
}

func cloneInstance(inst Instance) Instance {
	if inst.Data != nil {
		data := make(map[string]string, len(inst.Data))
		for k, v := range inst.Data {
			data[k] = v
		}
		inst.Data = data
	}
	return inst
}
