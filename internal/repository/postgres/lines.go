package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/RMahshie/spectra/internal/lines"
	"github.com/RMahshie/spectra/internal/repository"
	"github.com/RMahshie/spectra/pkg/models"
)

// LineRepository implements repository.LineRepository for PostgreSQL
type LineRepository struct {
	db *sql.DB
}

// NewLineRepository creates a new PostgreSQL line table repository
func NewLineRepository(db *sql.DB) *LineRepository {
	return &LineRepository{db: db}
}

// ListElements returns the elements with a stored table
func (r *LineRepository) ListElements(ctx context.Context) ([]models.Element, error) {
	query := `
		SELECT atomic_number
		FROM element_lines
		ORDER BY atomic_number`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Element
	for rows.Next() {
		var z int
		if err := rows.Scan(&z); err != nil {
			return nil, err
		}
		e, err := models.ElementByNumber(z)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

// GetTable retrieves the stored table of an element
func (r *LineRepository) GetTable(ctx context.Context, e models.Element) (*lines.Table, error) {
	query := `
		SELECT header, records
		FROM element_lines
		WHERE atomic_number = $1`

	var header, records []byte
	err := r.db.QueryRowContext(ctx, query, e.Number).Scan(&header, &records)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("element %s: %w", e.Key(), repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	var t lines.Table
	if err := json.Unmarshal(header, &t.Columns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal header: %w", err)
	}
	if err := json.Unmarshal(records, &t.Rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal records: %w", err)
	}

	return &t, nil
}

// Exists reports whether a table is stored for e
func (r *LineRepository) Exists(ctx context.Context, e models.Element) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM element_lines WHERE atomic_number = $1)`, e.Number).Scan(&ok)
	return ok, err
}

// SaveTable inserts or replaces the table of an element
func (r *LineRepository) SaveTable(ctx context.Context, e models.Element, t *lines.Table) error {
	header, err := json.Marshal(t.Columns)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	records, err := json.Marshal(t.Rows)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	query := `
		INSERT INTO element_lines (id, atomic_number, symbol, header, records, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (atomic_number) DO UPDATE
		SET header = EXCLUDED.header, records = EXCLUDED.records, updated_at = NOW()`

	_, err = r.db.ExecContext(ctx, query,
		uuid.New(),
		e.Number,
		e.Symbol,
		string(header),
		string(records))

	return err
}
