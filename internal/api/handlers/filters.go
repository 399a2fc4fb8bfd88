package handlers

import (
	"bytes"
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/spectra/internal/filters"
	"github.com/RMahshie/spectra/internal/render"
	"github.com/RMahshie/spectra/internal/repository"
	"github.com/RMahshie/spectra/pkg/models"
)

// FilterHandler handles filter curve requests
type FilterHandler struct {
	repo  repository.FilterRepository
	gamma float64
}

// NewFilterHandler creates a new filter handler. gamma is used for curve
// colors.
func NewFilterHandler(repo repository.FilterRepository, gamma float64) *FilterHandler {
	return &FilterHandler{repo: repo, gamma: gamma}
}

// ListFilters returns every discovered filter name
func (h *FilterHandler) ListFilters(ctx context.Context, _ *struct{}) (*models.ListFiltersResponse, error) {
	names, err := h.repo.ListFilters(ctx)
	if err != nil {
		return nil, toHumaError("Failed to list filters", err)
	}

	resp := &models.ListFiltersResponse{}
	resp.Body.Filters = names
	return resp, nil
}

// GetFilter returns one filter curve with its peak and color
func (h *FilterHandler) GetFilter(ctx context.Context, req *models.GetFilterRequest) (*models.GetFilterResponse, error) {
	curve, err := h.repo.GetFilter(ctx, req.Name)
	if err != nil {
		return nil, toHumaError("Filter not available", err)
	}

	peak, err := curve.Peak()
	if err != nil {
		return nil, toHumaError("Filter has no samples", err)
	}
	color, err := curve.Color(h.gamma)
	if err != nil {
		return nil, toHumaError("Filter has no samples", err)
	}

	return &models.GetFilterResponse{
		Body: models.FilterDetail{Curve: curve, Peak: peak, Color: color},
	}, nil
}

// PlotFilters draws the named filters into one PNG
func (h *FilterHandler) PlotFilters(ctx context.Context, req *models.FilterPlotRequest) (*models.ImageResponse, error) {
	var curves []*filters.Curve
	for _, name := range strings.Split(req.Names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		curve, err := h.repo.GetFilter(ctx, name)
		if err != nil {
			return nil, toHumaError("Filter not available", err)
		}
		curves = append(curves, curve)
	}
	if len(curves) == 0 {
		return nil, huma.Error400BadRequest("No filter names given")
	}

	var buf bytes.Buffer
	err := render.FilterPlot(&buf, curves, render.FilterPlotOptions{
		Size:  render.Size{Width: req.Width, Height: req.Height},
		Fill:  req.Fill,
		Gamma: h.gamma,
	})
	if err != nil {
		return nil, toHumaError("Failed to draw filters", err)
	}

	log.Debug().Int("filters", len(curves)).Int("bytes", buf.Len()).Msg("Filter plot rendered")
	return &models.ImageResponse{ContentType: "image/png", Body: buf.Bytes()}, nil
}
