package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RMahshie/spectra/internal/api/handlers"
	"github.com/RMahshie/spectra/internal/colormap"
	"github.com/RMahshie/spectra/internal/processing"
	"github.com/RMahshie/spectra/internal/repository"
)

// Deps are the services the API is built on
type Deps struct {
	Lines      repository.LineRepository
	Filters    repository.FilterRepository
	Elements   processing.ElementService
	Sessions   handlers.SessionService
	Spectral   *colormap.Spectral
	ColorGamma float64
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, deps Deps) {
	filterHandler := handlers.NewFilterHandler(deps.Filters, deps.ColorGamma)
	elementHandler := handlers.NewElementHandler(deps.Lines, deps.Elements, deps.Spectral)
	sessionHandler := handlers.NewSessionHandler(deps.Sessions, deps.Lines)

	// Color routes
	huma.Register(api, huma.Operation{
		OperationID: "getColor",
		Method:      http.MethodGet,
		Path:        "/api/color",
		Summary:     "Map a wavelength to a color",
		Description: "Returns the display color of a wavelength in nm. Wavelengths outside [380, 750] are clamped and dimmed.",
		Tags:        []string{"Color"},
	}, handlers.GetColor)

	// Filter routes
	huma.Register(api, huma.Operation{
		OperationID: "listFilters",
		Method:      http.MethodGet,
		Path:        "/api/filters",
		Summary:     "List filters",
		Tags:        []string{"Filters"},
	}, filterHandler.ListFilters)

	huma.Register(api, huma.Operation{
		OperationID: "plotFilters",
		Method:      http.MethodGet,
		Path:        "/api/filters/plot",
		Summary:     "Plot filters",
		Description: "Draws the throughput of the named filters as a PNG",
		Tags:        []string{"Filters"},
		Responses: map[string]*huma.Response{
			"200": {Content: map[string]*huma.MediaType{"image/png": {}}},
		},
	}, filterHandler.PlotFilters)

	huma.Register(api, huma.Operation{
		OperationID: "getFilter",
		Method:      http.MethodGet,
		Path:        "/api/filters/{name}",
		Summary:     "Get a filter curve",
		Tags:        []string{"Filters"},
	}, filterHandler.GetFilter)

	// Element routes
	huma.Register(api, huma.Operation{
		OperationID: "listElements",
		Method:      http.MethodGet,
		Path:        "/api/elements",
		Summary:     "List elements",
		Description: "Returns the elements with a stored line table",
		Tags:        []string{"Elements"},
	}, elementHandler.ListElements)

	huma.Register(api, huma.Operation{
		OperationID: "getElementLines",
		Method:      http.MethodGet,
		Path:        "/api/elements/{element}/lines",
		Summary:     "Get visible lines",
		Description: "Returns the lines inside [380, 750] nm with at least 1% of the strongest intensity",
		Tags:        []string{"Elements"},
	}, elementHandler.GetLines)

	huma.Register(api, huma.Operation{
		OperationID: "getElementSpectrum",
		Method:      http.MethodGet,
		Path:        "/api/elements/{element}/spectrum",
		Summary:     "Synthesize a spectrum",
		Description: "Synthesizes the 2D detector frame of an element and returns the recovered trace",
		Tags:        []string{"Elements"},
	}, elementHandler.GetSpectrum)

	huma.Register(api, huma.Operation{
		OperationID: "plotElement",
		Method:      http.MethodGet,
		Path:        "/api/elements/{element}/plot",
		Summary:     "Plot an element",
		Description: "Draws the line plot, synthetic frame or recovered trace of an element as a PNG",
		Tags:        []string{"Elements"},
		Responses: map[string]*huma.Response{
			"200": {Content: map[string]*huma.MediaType{"image/png": {}}},
		},
	}, elementHandler.PlotElement)

	// Session routes
	huma.Register(api, huma.Operation{
		OperationID: "createSession",
		Method:      http.MethodPost,
		Path:        "/api/sessions",
		Summary:     "Create a viewer session",
		Tags:        []string{"Sessions"},
	}, sessionHandler.CreateSession)

	huma.Register(api, huma.Operation{
		OperationID: "selectElement",
		Method:      http.MethodPost,
		Path:        "/api/sessions/{id}/select",
		Summary:     "Select an element",
		Description: "Starts synthesizing the element in the background. Only the latest selection's result is kept.",
		Tags:        []string{"Sessions"},
	}, sessionHandler.SelectElement)

	huma.Register(api, huma.Operation{
		OperationID: "getSession",
		Method:      http.MethodGet,
		Path:        "/api/sessions/{id}",
		Summary:     "Get session state",
		Tags:        []string{"Sessions"},
	}, sessionHandler.GetSession)
}
