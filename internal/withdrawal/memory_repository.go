package withdrawal

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryRepository struct {
	mu       sync.RWMutex
	methods  map[string]Method
	requests map[string]Request
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		methods:  make(map[string]Method),
		requests: make(map[string]Request),
	}
}

func (r *memoryRepository) CreateMethod(_ context.Context, method Method) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[method.ID] = method
	return nil
}

func (r *memoryRepository) MethodsByUser(_ context.Context, userID string) ([]Method, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Method
	for _, m := range r.methods {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepository) MethodByID(_ context.Context, id string) (Method, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.methods[id]
	if !ok {
		return Method{}, ErrMethodNotFound
	}
	return m, nil
}

func (r *memoryRepository) SetDefaultMethod(_ context.Context, userID, methodID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.methods[methodID]
	if !ok || target.UserID != userID {
		return ErrMethodNotFound
	}
	for id, m := range r.methods {
		if m.UserID != userID {
			continue
		}
		m.IsDefault = id == methodID
		r.methods[id] = m
	}
	return nil
}

func (r *memoryRepository) DeleteMethod(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.methods[id]; !ok {
		return ErrMethodNotFound
	}
	delete(r.methods, id)
	return nil
}

func (r *memoryRepository) UpdateMethodVerification(_ context.Context, id string, status VerificationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.methods[id]
	if !ok {
		return ErrMethodNotFound
	}
	m.VerificationStatus = status
	m.IsVerified = status == VerificationVerified
	r.methods[id] = m
	return nil
}

func (r *memoryRepository) CreateRequest(_ context.Context, request Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[request.ID] = request
	return nil
}

func (r *memoryRepository) RequestByID(_ context.Context, id string) (Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.requests[id]
	if !ok {
		return Request{}, ErrRequestNotFound
	}
	return req, nil
}

func (r *memoryRepository) RequestsByUser(_ context.Context, userID string, offset, limit int) ([]Request, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []Request
	for _, req := range r.requests {
		if req.UserID == userID {
			all = append(all, req)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *memoryRepository) UpdateRequestStatus(_ context.Context, id string, status Status, failureReason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return ErrRequestNotFound
	}
	req.Status = status
	req.FailureReason = failureReason
	req.UpdatedAt = time.Now().UTC()
	r.requests[id] = req
	return nil
}
