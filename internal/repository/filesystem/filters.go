// Package filesystem serves filter curves and element tables from local
// directories.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/spectra/internal/filters"
	"github.com/RMahshie/spectra/internal/repository"
	"github.com/RMahshie/spectra/internal/repository/objectstore"
	"github.com/RMahshie/spectra/internal/storage"
)

const filterExt = ".dat"

// FilterRepository indexes every *.dat file below a root directory. The
// filter name is the file name without its final extension, so dotted
// names such as "Bessel.U.dat" stay distinct from "Bessel.V.dat".
type FilterRepository struct {
	root  string
	paths map[string]string
	names []string
}

// NewFilterRepository walks root once and builds the name index. When two
// files share a name the lexically first path wins.
func NewFilterRepository(root string) (*FilterRepository, error) {
	var found []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), filterExt) {
			found = append(found, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to index filters under %s: %w", root, err)
	}
	sort.Strings(found)

	r := &FilterRepository{root: root, paths: make(map[string]string, len(found))}
	for _, p := range found {
		name := filterName(p)
		if prev, ok := r.paths[name]; ok {
			log.Warn().Str("filter", name).Str("kept", prev).Str("ignored", p).Msg("Duplicate filter name")
			continue
		}
		r.paths[name] = p
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)

	log.Info().Str("root", root).Int("filters", len(r.names)).Msg("Indexed filter curves")
	return r, nil
}

func filterName(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ListFilters returns every indexed filter name
func (r *FilterRepository) ListFilters(_ context.Context) ([]string, error) {
	return append([]string(nil), r.names...), nil
}

// GetFilter parses the named filter curve
func (r *FilterRepository) GetFilter(_ context.Context, name string) (*filters.Curve, error) {
	p, ok := r.paths[name]
	if !ok {
		return nil, fmt.Errorf("filter %q: %w", name, repository.ErrNotFound)
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open filter %q: %w", name, err)
	}
	defer f.Close()

	return filters.Parse(name, f)
}

// NewLineRepository serves element tables stored as <Z>-<Sym>-lines.tsv
// files directly inside dir.
func NewLineRepository(dir string) (*objectstore.LineRepository, error) {
	store, err := storage.NewLocalStore(dir)
	if err != nil {
		return nil, err
	}
	return objectstore.NewLineRepository(store, ""), nil
}
