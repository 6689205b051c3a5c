package authz

import (
	"context"
	"sync"
)

// InMemoryAllowlist keeps the verifier set in memory. The initial subjects
// are seeded from deployment configuration.
type InMemoryAllowlist struct {
	mu       sync.RWMutex
	subjects map[string]struct{}
}

func NewInMemoryAllowlist(subjects []string) *InMemoryAllowlist {
	set := make(map[string]struct{}, len(subjects))
	for _, s := range subjects {
		if s != "" {
			set[s] = struct{}{}
		}
	}
	return &InMemoryAllowlist{subjects: set}
}

func (a *InMemoryAllowlist) IsVerifier(_ context.Context, subject string) (bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.subjects[subject]
	return ok, nil
}

// Grant adds a subject to the verifier set.
func (a *InMemoryAllowlist) Grant(subject string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subjects[subject] = struct{}{}
}

// Revoke removes a subject from the verifier set.
func (a *InMemoryAllowlist) Revoke(subject string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.subjects, subject)
}
