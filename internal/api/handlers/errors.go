package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/spectra/internal/filters"
	"github.com/RMahshie/spectra/internal/lines"
	"github.com/RMahshie/spectra/internal/processing"
	"github.com/RMahshie/spectra/internal/render"
	"github.com/RMahshie/spectra/internal/repository"
	"github.com/RMahshie/spectra/internal/synth"
	"github.com/RMahshie/spectra/pkg/models"
)

// toHumaError maps domain errors onto HTTP status codes.
func toHumaError(msg string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, models.ErrUnknownElement):
		return huma.Error404NotFound(msg, err)
	case errors.Is(err, synth.ErrInvalidParameter), errors.Is(err, render.ErrInvalidSize):
		return huma.Error400BadRequest(msg, err)
	case errors.Is(err, render.ErrNothingToDraw),
		errors.Is(err, lines.ErrMissingColumn),
		errors.Is(err, filters.ErrEmptyCurve):
		return huma.Error422UnprocessableEntity(msg, err)
	case errors.Is(err, processing.ErrRunnerClosed):
		return huma.Error503ServiceUnavailable(msg, err)
	default:
		log.Error().Err(err).Msg(msg)
		return huma.Error500InternalServerError(msg, err)
	}
}
