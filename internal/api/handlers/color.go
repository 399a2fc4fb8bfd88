package handlers

import (
	"context"

	"github.com/RMahshie/spectra/internal/colormap"
	"github.com/RMahshie/spectra/pkg/models"
)

// GetColor maps a wavelength to its display color
func GetColor(ctx context.Context, req *models.ColorRequest) (*models.ColorResponse, error) {
	c := colormap.WavelengthToColor(req.Wavelength, req.Gamma)
	r, g, b, a := c.Float()

	resp := &models.ColorResponse{}
	resp.Body.Wavelength = req.Wavelength
	resp.Body.Visible = colormap.InVisibleRange(req.Wavelength)
	resp.Body.Color = c
	resp.Body.Float = [4]float64{r, g, b, a}
	resp.Body.Hex = c.Hex()
	return resp, nil
}
