// Package memory holds in-process repository implementations.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RMahshie/spectra/internal/repository"
	"github.com/RMahshie/spectra/pkg/models"
)

// SessionRepository implements repository.SessionRepository in memory
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*models.Session
}

// NewSessionRepository creates an empty session repository
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[uuid.UUID]*models.Session)}
}

// Create inserts a new session
func (r *SessionRepository) Create(_ context.Context, s *models.Session) error {
	id, err := uuid.Parse(s.ID)
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", s.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; ok {
		return fmt.Errorf("session %s already exists", id)
	}
	cp := *s
	r.sessions[id] = &cp
	return nil
}

// GetByID returns a copy of the session
func (r *SessionRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, repository.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

// BeginSelection records a new selection and returns its generation
func (r *SessionRepository) BeginSelection(_ context.Context, id uuid.UUID, e models.Element) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return 0, fmt.Errorf("session %s: %w", id, repository.ErrNotFound)
	}
	el := e
	s.Generation++
	s.Element = &el
	s.Status = models.StatusPending
	s.Error = ""
	s.Result = nil
	s.CompletedAt = nil
	s.UpdatedAt = time.Now()
	return s.Generation, nil
}

// UpdateStatus sets the status if generation is still current
func (r *SessionRepository) UpdateStatus(_ context.Context, id uuid.UUID, generation uint64, status string) (bool, error) {
	return r.update(id, generation, func(s *models.Session) {
		s.Status = status
	})
}

// StoreResult completes the selection if generation is still current
func (r *SessionRepository) StoreResult(_ context.Context, id uuid.UUID, generation uint64, result *models.ElementSpectrum) (bool, error) {
	return r.update(id, generation, func(s *models.Session) {
		now := time.Now()
		s.Status = models.StatusCompleted
		s.Result = result
		s.CompletedAt = &now
	})
}

// UpdateError fails the selection if generation is still current
func (r *SessionRepository) UpdateError(_ context.Context, id uuid.UUID, generation uint64, errorMsg string) (bool, error) {
	return r.update(id, generation, func(s *models.Session) {
		s.Status = models.StatusFailed
		s.Error = errorMsg
	})
}

func (r *SessionRepository) update(id uuid.UUID, generation uint64, apply func(*models.Session)) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return false, fmt.Errorf("session %s: %w", id, repository.ErrNotFound)
	}
	if s.Generation != generation {
		return false, nil
	}
	apply(s)
	s.UpdatedAt = time.Now()
	return true, nil
}
