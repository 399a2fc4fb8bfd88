package processing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/spectra/internal/repository"
	"github.com/RMahshie/spectra/pkg/models"
)

// ErrRunnerClosed is returned by Select once Shutdown has been called.
var ErrRunnerClosed = errors.New("session runner is shut down")

type job struct {
	generation uint64
	cancel     context.CancelFunc
}

// SessionRunner computes element spectra off the request path. Each
// session keeps at most one computation in flight: a new selection
// cancels the previous one, and a result is stored only while its
// selection is still the latest.
type SessionRunner struct {
	repo     repository.SessionRepository
	elements ElementService

	mu       sync.Mutex
	inflight map[uuid.UUID]job
	closed   bool

	base context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup
}

// NewSessionRunner creates a new session runner
func NewSessionRunner(repo repository.SessionRepository, elements ElementService) *SessionRunner {
	base, stop := context.WithCancel(context.Background())
	return &SessionRunner{
		repo:     repo,
		elements: elements,
		inflight: make(map[uuid.UUID]job),
		base:     base,
		stop:     stop,
	}
}

// Create starts a session with no selection
func (r *SessionRunner) Create(ctx context.Context) (*models.Session, error) {
	now := time.Now()
	s := &models.Session{
		ID:        uuid.New().String(),
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	s.Message = statusMessage(s)
	log.Info().Str("sessionID", s.ID).Msg("Session created")
	return s, nil
}

// Get returns the session with a human-readable status message
func (r *SessionRunner) Get(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	s, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Message = statusMessage(s)
	return s, nil
}

// Select records e as the session's latest selection and starts computing
// it in the background, cancelling any earlier computation.
func (r *SessionRunner) Select(ctx context.Context, id uuid.UUID, e models.Element) (uint64, error) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return 0, ErrRunnerClosed
	}

	generation, err := r.repo.BeginSelection(ctx, id, e)
	if err != nil {
		return 0, err
	}

	jobCtx, cancel := context.WithCancel(r.base)

	r.mu.Lock()
	// wg.Add must not race with the Wait in Shutdown.
	if r.closed {
		r.mu.Unlock()
		cancel()
		return 0, ErrRunnerClosed
	}
	if prev, ok := r.inflight[id]; ok {
		if prev.generation > generation {
			// A later selection registered first; this one is already stale.
			r.mu.Unlock()
			cancel()
			return generation, nil
		}
		prev.cancel()
	}
	r.inflight[id] = job{generation: generation, cancel: cancel}
	r.wg.Add(1)
	r.mu.Unlock()

	log.Info().Str("sessionID", id.String()).Str("element", e.Key()).Uint64("generation", generation).Msg("Selection started")
	go r.run(jobCtx, id, generation, e)

	return generation, nil
}

func (r *SessionRunner) run(ctx context.Context, id uuid.UUID, generation uint64, e models.Element) {
	defer r.wg.Done()
	defer r.finish(id, generation)

	logger := log.With().Str("sessionID", id.String()).Str("element", e.Key()).Uint64("generation", generation).Logger()

	// Writes use a fresh context so a stale write is rejected by the
	// generation check rather than by cancellation.
	store := context.Background()

	if ok, err := r.repo.UpdateStatus(store, id, generation, models.StatusProcessing); err != nil || !ok {
		if err != nil {
			logger.Error().Err(err).Msg("Failed to update session status")
		}
		return
	}

	result, err := r.elements.Render(ctx, e)
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			logger.Debug().Msg("Selection superseded")
			return
		}
		logger.Warn().Err(err).Msg("Selection failed")
		if _, uerr := r.repo.UpdateError(store, id, generation, fmt.Sprintf("Rendering failed: %v", err)); uerr != nil {
			logger.Error().Err(uerr).Msg("Failed to record session error")
		}
		return
	}

	ok, err := r.repo.StoreResult(store, id, generation, result)
	switch {
	case err != nil:
		logger.Error().Err(err).Msg("Failed to store session result")
	case !ok:
		logger.Debug().Msg("Discarding stale result")
	default:
		logger.Info().Float64("peak_nm", result.Peak.Wavelength).Msg("Selection completed")
	}
}

func (r *SessionRunner) finish(id uuid.UUID, generation uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.inflight[id]; ok && j.generation == generation {
		j.cancel()
		delete(r.inflight, id)
	}
}

// Shutdown cancels every computation and waits for them to return.
// Later selections fail with ErrRunnerClosed.
func (r *SessionRunner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.stop()
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// statusMessage creates a human-readable status message
func statusMessage(s *models.Session) string {
	switch s.Status {
	case models.StatusPending:
		if s.Element == nil {
			return "Select an element to begin."
		}
		return "Selection queued..."
	case models.StatusProcessing:
		return "Synthesizing spectrum..."
	case models.StatusCompleted:
		return "Spectrum ready."
	case models.StatusFailed:
		return "Rendering failed. Please try another element."
	default:
		return "Unknown status"
	}
}
