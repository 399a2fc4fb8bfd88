// Package objectstore keeps element line tables as TSV objects in a
// storage.ObjectStore.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/RMahshie/spectra/internal/lines"
	"github.com/RMahshie/spectra/internal/repository"
	"github.com/RMahshie/spectra/internal/storage"
	"github.com/RMahshie/spectra/pkg/models"
)

const contentType = "text/tab-separated-values"

// LineRepository implements repository.LineRepository on an object store
type LineRepository struct {
	store  storage.ObjectStore
	prefix string
}

// NewLineRepository stores tables under prefix ("" for the store root).
func NewLineRepository(store storage.ObjectStore, prefix string) *LineRepository {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &LineRepository{store: store, prefix: prefix}
}

func (r *LineRepository) key(e models.Element) string {
	return r.prefix + repository.TableFileName(e)
}

// ListElements returns the elements with a stored table
func (r *LineRepository) ListElements(ctx context.Context) ([]models.Element, error) {
	keys, err := r.store.List(ctx, r.prefix)
	if err != nil {
		return nil, err
	}

	var out []models.Element
	for _, k := range keys {
		rel := strings.TrimPrefix(k, r.prefix)
		if strings.Contains(rel, "/") {
			continue
		}
		if e, ok := repository.ParseTableFileName(path.Base(rel)); ok {
			out = append(out, e)
		}
	}
	models.SortElements(out)
	return out, nil
}

// GetTable loads and parses the stored table of e
func (r *LineRepository) GetTable(ctx context.Context, e models.Element) (*lines.Table, error) {
	data, err := r.store.Get(ctx, r.key(e))
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, fmt.Errorf("element %s: %w", e.Key(), repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	t, err := lines.ParseTable(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse table for %s: %w", e.Key(), err)
	}
	return t, nil
}

// Exists reports whether a table is stored for e
func (r *LineRepository) Exists(ctx context.Context, e models.Element) (bool, error) {
	return r.store.Exists(ctx, r.key(e))
}

// SaveTable stores t verbatim as TSV
func (r *LineRepository) SaveTable(ctx context.Context, e models.Element, t *lines.Table) error {
	var buf bytes.Buffer
	if err := t.WriteTSV(&buf); err != nil {
		return fmt.Errorf("failed to serialize table for %s: %w", e.Key(), err)
	}
	return r.store.Put(ctx, r.key(e), buf.Bytes(), contentType)
}
