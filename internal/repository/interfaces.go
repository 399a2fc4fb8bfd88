package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/RMahshie/spectra/internal/filters"
	"github.com/RMahshie/spectra/internal/lines"
	"github.com/RMahshie/spectra/pkg/models"
)

// ErrNotFound is returned for an unknown element table, filter or session.
var ErrNotFound = errors.New("not found")

// LineRepository defines the interface for element line table operations
type LineRepository interface {
	// ListElements returns the elements with a stored table in atomic number order.
	ListElements(ctx context.Context) ([]models.Element, error)
	GetTable(ctx context.Context, e models.Element) (*lines.Table, error)
	Exists(ctx context.Context, e models.Element) (bool, error)
	SaveTable(ctx context.Context, e models.Element, t *lines.Table) error
}

// FilterRepository defines the interface for filter curve lookups
type FilterRepository interface {
	ListFilters(ctx context.Context) ([]string, error)
	GetFilter(ctx context.Context, name string) (*filters.Curve, error)
}

// SessionRepository stores viewer sessions. Every write made on behalf of
// a selection carries that selection's generation and is applied only
// while it is still the latest one; the returned bool reports whether the
// write was applied.
type SessionRepository interface {
	Create(ctx context.Context, s *models.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	// BeginSelection records a new selection and returns its generation.
	BeginSelection(ctx context.Context, id uuid.UUID, e models.Element) (uint64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, generation uint64, status string) (bool, error)
	StoreResult(ctx context.Context, id uuid.UUID, generation uint64, result *models.ElementSpectrum) (bool, error)
	UpdateError(ctx context.Context, id uuid.UUID, generation uint64, errorMsg string) (bool, error)
}

const tableSuffix = "-lines.tsv"

// TableFileName returns the stored file name of an element table, e.g.
// "26-Fe-lines.tsv".
func TableFileName(e models.Element) string {
	return e.Key() + tableSuffix
}

// ParseTableFileName reverses TableFileName. Names that do not follow the
// layout or name an unknown element are rejected.
func ParseTableFileName(name string) (models.Element, bool) {
	key, ok := strings.CutSuffix(name, tableSuffix)
	if !ok {
		return models.Element{}, false
	}
	e, err := models.ParseElementKey(key)
	if err != nil {
		return models.Element{}, false
	}
	return e, true
}
