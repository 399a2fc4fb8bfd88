package processing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/spectra/internal/lines"
	"github.com/RMahshie/spectra/internal/repository"
	"github.com/RMahshie/spectra/internal/synth"
	"github.com/RMahshie/spectra/pkg/models"
)

// ElementService renders the synthetic spectrum of an element
type ElementService interface {
	Render(ctx context.Context, e models.Element) (*models.ElementSpectrum, error)
}

type elementService struct {
	repo   repository.LineRepository
	grid   []float64
	params synth.Params
}

// NewElementService creates a renderer over repo. The grid is copied.
func NewElementService(repo repository.LineRepository, grid []float64, params synth.Params) ElementService {
	return &elementService{
		repo:   repo,
		grid:   append([]float64(nil), grid...),
		params: params,
	}
}

// Render loads the element table, selects visible lines, synthesizes the
// 2D frame and recovers its trace. Every call recomputes from the stored
// table.
func (s *elementService) Render(ctx context.Context, e models.Element) (*models.ElementSpectrum, error) {
	// Step 1: Load the stored table
	table, err := s.repo.GetTable(ctx, e)
	if err != nil {
		return nil, err
	}

	// Step 2: Select visible lines
	sel, err := lines.Select(table)
	if err != nil {
		return nil, fmt.Errorf("failed to select lines for %s: %w", e.Key(), err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 3: Synthesize
	spec, err := synth.Spectrum1D(sel.Lines, s.grid, s.params.SpectralSigma)
	if err != nil {
		return nil, err
	}
	frame, err := synth.Frame(spec, s.params)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 4: Recover the trace
	trace := frame.ColumnSums()
	peak := synth.ArgMax(trace)

	log.Debug().
		Str("element", e.Key()).
		Int("rows", len(table.Rows)).
		Int("lines", len(sel.Lines)).
		Float64("peak_nm", s.grid[peak]).
		Msg("Rendered element spectrum")

	return &models.ElementSpectrum{
		Element:  e,
		Lines:    sel.Lines,
		Table:    table.Subset(sel.Rows),
		Grid:     s.grid,
		Spectrum: spec,
		Trace:    trace,
		Peak:     models.SpectrumPoint{Wavelength: s.grid[peak], Value: trace[peak]},
		Frame:    frame,
	}, nil
}
