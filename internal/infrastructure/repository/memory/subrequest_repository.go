package memory

import (
	"context"
	"sync"

	"github.com/dvhl/club-portal/internal/domain/subrequest"
)

type SubRequestRepository struct {
	mu     sync.RWMutex
	items  map[string]subrequest.Request
	orders []string
}

func NewSubRequestRepository() *SubRequestRepository {
	return &SubRequestRepository{items: make(map[string]subrequest.Request)}
}

func (r *SubRequestRepository) GetByID(_ context.Context, requestID string) (subrequest.Request, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.items[requestID]
	return req, ok, nil
}

func (r *SubRequestRepository) ListBySeason(_ context.Context, seasonID string) ([]subrequest.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []subrequest.Request
	for _, id := range r.orders {
		if req, ok := r.items[id]; ok && req.SeasonID == seasonID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *SubRequestRepository) Insert(_ context.Context, request subrequest.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[request.ID]; !exists {
		r.orders = append(r.orders, request.ID)
	}
	r.items[request.ID] = request
	return nil
}

func (r *SubRequestRepository) Update(_ context.Context, request subrequest.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[request.ID] = request
	return nil
}
