package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/RMahshie/spectra/internal/repository"
	"github.com/RMahshie/spectra/pkg/models"
)

// SessionRepository implements repository.SessionRepository for PostgreSQL
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session record
func (r *SessionRepository) Create(ctx context.Context, s *models.Session) error {
	query := `
		INSERT INTO sessions (id, status, generation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Status,
		int64(s.Generation),
		s.CreatedAt,
		s.UpdatedAt)

	return err
}

// GetByID retrieves a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	query := `
		SELECT id, status, atomic_number, generation, error_message, result, created_at, updated_at, completed_at
		FROM sessions
		WHERE id = $1`

	var s models.Session
	var number sql.NullInt64
	var generation int64
	var errorMsg sql.NullString
	var result []byte
	var completedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&s.Status,
		&number,
		&generation,
		&errorMsg,
		&result,
		&s.CreatedAt,
		&s.UpdatedAt,
		&completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	s.Generation = uint64(generation)
	if number.Valid {
		e, err := models.ElementByNumber(int(number.Int64))
		if err != nil {
			return nil, err
		}
		s.Element = &e
	}
	if errorMsg.Valid {
		s.Error = errorMsg.String
	}
	if result != nil {
		var spectrum models.ElementSpectrum
		if err := json.Unmarshal(result, &spectrum); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
		s.Result = &spectrum
	}
	if completedAt.Valid {
		s.CompletedAt = &completedAt.Time
	}

	return &s, nil
}

// BeginSelection bumps the generation and resets the selection state
func (r *SessionRepository) BeginSelection(ctx context.Context, id uuid.UUID, e models.Element) (uint64, error) {
	query := `
		UPDATE sessions
		SET generation = generation + 1, atomic_number = $1, status = 'pending',
		    error_message = NULL, result = NULL, completed_at = NULL, updated_at = NOW()
		WHERE id = $2
		RETURNING generation`

	var generation int64
	err := r.db.QueryRowContext(ctx, query, e.Number, id).Scan(&generation)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("session %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	return uint64(generation), nil
}

// UpdateStatus updates the status while generation is current
func (r *SessionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, generation uint64, status string) (bool, error) {
	query := `
		UPDATE sessions
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND generation = $3`

	res, err := r.db.ExecContext(ctx, query, status, id, int64(generation))
	return r.applied(ctx, id, res, err)
}

// StoreResult stores the result and completes the session while generation is current
func (r *SessionRepository) StoreResult(ctx context.Context, id uuid.UUID, generation uint64, result *models.ElementSpectrum) (bool, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return false, fmt.Errorf("failed to marshal result: %w", err)
	}

	query := `
		UPDATE sessions
		SET status = 'completed', result = $1, updated_at = NOW(), completed_at = NOW()
		WHERE id = $2 AND generation = $3`

	res, err := r.db.ExecContext(ctx, query, string(data), id, int64(generation))
	return r.applied(ctx, id, res, err)
}

// UpdateError marks the session failed while generation is current
func (r *SessionRepository) UpdateError(ctx context.Context, id uuid.UUID, generation uint64, errorMsg string) (bool, error) {
	query := `
		UPDATE sessions
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2 AND generation = $3`

	res, err := r.db.ExecContext(ctx, query, errorMsg, id, int64(generation))
	return r.applied(ctx, id, res, err)
}

// applied distinguishes a stale generation from a missing session when an
// update touched no rows.
func (r *SessionRepository) applied(ctx context.Context, id uuid.UUID, res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, fmt.Errorf("session %s: %w", id, repository.ErrNotFound)
	}
	return false, nil
}
