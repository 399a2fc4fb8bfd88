package handlers

import (
	"bytes"
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/spectra/internal/colormap"
	"github.com/RMahshie/spectra/internal/lines"
	"github.com/RMahshie/spectra/internal/processing"
	"github.com/RMahshie/spectra/internal/render"
	"github.com/RMahshie/spectra/internal/repository"
	"github.com/RMahshie/spectra/pkg/models"
)

// Element plot kinds
const (
	PlotLines     = "lines"
	PlotIntensity = "intensity"
	PlotColor     = "color"
	PlotTrace     = "trace"
)

// ElementHandler handles element line and spectrum requests
type ElementHandler struct {
	repo     repository.LineRepository
	service  processing.ElementService
	spectral *colormap.Spectral
}

// NewElementHandler creates a new element handler
func NewElementHandler(repo repository.LineRepository, service processing.ElementService, spectral *colormap.Spectral) *ElementHandler {
	return &ElementHandler{repo: repo, service: service, spectral: spectral}
}

// ListElements returns the elements that have a stored line table
func (h *ElementHandler) ListElements(ctx context.Context, _ *struct{}) (*models.ListElementsResponse, error) {
	es, err := h.repo.ListElements(ctx)
	if err != nil {
		return nil, toHumaError("Failed to list elements", err)
	}

	resp := &models.ListElementsResponse{}
	resp.Body.Elements = es
	return resp, nil
}

// GetLines returns the visible lines of an element
func (h *ElementHandler) GetLines(ctx context.Context, req *models.ElementRequest) (*models.ElementLinesResponse, error) {
	e, err := models.LookupElement(req.Element)
	if err != nil {
		return nil, toHumaError("Unknown element", err)
	}

	table, sel, err := h.selectLines(ctx, e)
	if err != nil {
		return nil, err
	}

	resp := &models.ElementLinesResponse{}
	resp.Body.Element = e
	resp.Body.Lines = sel.Lines
	resp.Body.Table = table.Subset(sel.Rows)
	return resp, nil
}

// GetSpectrum synthesizes the spectrum of an element
func (h *ElementHandler) GetSpectrum(ctx context.Context, req *models.ElementSpectrumRequest) (*models.ElementSpectrumResponse, error) {
	e, err := models.LookupElement(req.Element)
	if err != nil {
		return nil, toHumaError("Unknown element", err)
	}

	result, err := h.service.Render(ctx, e)
	if err != nil {
		return nil, toHumaError("Failed to render spectrum", err)
	}
	if req.Image && result.Frame != nil {
		result.Image = result.Frame.Matrix()
	}

	return &models.ElementSpectrumResponse{Body: result}, nil
}

// PlotElement draws one of the element renderings as a PNG
func (h *ElementHandler) PlotElement(ctx context.Context, req *models.ElementPlotRequest) (*models.ImageResponse, error) {
	e, err := models.LookupElement(req.Element)
	if err != nil {
		return nil, toHumaError("Unknown element", err)
	}
	size := render.Size{Width: req.Width, Height: req.Height}

	var buf bytes.Buffer
	switch req.Kind {
	case PlotLines, "":
		_, sel, err := h.selectLines(ctx, e)
		if err != nil {
			return nil, err
		}
		err = render.LinePlot(&buf, sel.Lines, h.spectral, req.White, size)
		if err != nil {
			return nil, toHumaError("Failed to draw lines", err)
		}

	case PlotIntensity, PlotColor, PlotTrace:
		result, err := h.service.Render(ctx, e)
		if err != nil {
			return nil, toHumaError("Failed to render spectrum", err)
		}
		if req.Kind == PlotTrace {
			err = render.TracePlot(&buf, result.Grid, result.Trace, result.Lines, size)
		} else {
			err = render.SpectrumImage(&buf, result.Frame, result.Grid, h.spectral, req.Kind == PlotColor, size)
		}
		if err != nil {
			return nil, toHumaError("Failed to draw spectrum", err)
		}

	default:
		return nil, huma.Error400BadRequest("Unknown plot kind: " + req.Kind)
	}

	log.Debug().Str("element", e.Key()).Str("kind", req.Kind).Int("bytes", buf.Len()).Msg("Element plot rendered")
	return &models.ImageResponse{ContentType: "image/png", Body: buf.Bytes()}, nil
}

func (h *ElementHandler) selectLines(ctx context.Context, e models.Element) (*lines.Table, lines.Selection, error) {
	table, err := h.repo.GetTable(ctx, e)
	if err != nil {
		return nil, lines.Selection{}, toHumaError("Element not available", err)
	}
	sel, err := lines.Select(table)
	if err != nil {
		return nil, lines.Selection{}, toHumaError("Element table is unusable", err)
	}
	return table, sel, nil
}
