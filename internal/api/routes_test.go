package api

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/spectra/internal/colormap"
	"github.com/RMahshie/spectra/internal/processing"
	"github.com/RMahshie/spectra/internal/repository/filesystem"
	"github.com/RMahshie/spectra/internal/repository/memory"
	"github.com/RMahshie/spectra/internal/synth"
	"github.com/RMahshie/spectra/pkg/models"
)

const hydrogenTSV = "obs_wl_vac(nm)\tintens\tAki(s^-1)\n" +
	"121.567\t1000\t4.7e8\n" +
	"434.0462\t90\t2.5e6\n" +
	"486.1288\t180\t8.4e6\n" +
	"656.2819\t500\t4.4e7\n"

func newTestRouter(t *testing.T) (http.Handler, *processing.SessionRunner) {
	t.Helper()
	root := t.TempDir()

	linesDir := filepath.Join(root, "lines")
	require.NoError(t, os.MkdirAll(linesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(linesDir, "1-H-lines.tsv"), []byte(hydrogenTSV), 0o644))

	filtersDir := filepath.Join(root, "filters", "observatories", "sloan")
	require.NoError(t, os.MkdirAll(filtersDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(filtersDir, "g.dat"), []byte("400 0.1\n470 0.8\n550 0.2\n"), 0o644))

	lineRepo, err := filesystem.NewLineRepository(linesDir)
	require.NoError(t, err)
	filterRepo, err := filesystem.NewFilterRepository(filepath.Join(root, "filters"))
	require.NoError(t, err)

	params := synth.DefaultParams()
	params.SpatialHeight = 12
	params.PSFSize = 4
	elements := processing.NewElementService(lineRepo, synth.Linspace(380, 750, 200), params)
	runner := processing.NewSessionRunner(memory.NewSessionRepository(), elements)

	router, _ := NewRouter([]string{"http://localhost:5173"}, Deps{
		Lines:      lineRepo,
		Filters:    filterRepo,
		Elements:   elements,
		Sessions:   runner,
		Spectral:   colormap.NewSpectral(colormap.SpectralGamma),
		ColorGamma: colormap.DefaultGamma,
	})
	return router, runner
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
}

func TestColorRoute(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/color?wavelength=440", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Visible bool   `json:"visible"`
		Hex     string `json:"hex"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Visible)
	assert.Equal(t, "#0000ff", body.Hex)

	rec = do(t, router, http.MethodGet, "/api/color", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestFilterRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/filters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var filtersResp models.ListFiltersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filtersResp.Body))
	assert.Equal(t, []string{"g"}, filtersResp.Body.Filters)

	rec = do(t, router, http.MethodGet, "/api/filters/g", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"wavelength":470`)

	rec = do(t, router, http.MethodGet, "/api/filters/r", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/filters/plot?names=g&fill=true&width=300&height=200", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
}

func TestElementRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/elements", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var elementsResp models.ListElementsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &elementsResp.Body))
	assert.Equal(t, []models.Element{{Number: 1, Symbol: "H"}}, elementsResp.Body.Elements)

	rec = do(t, router, http.MethodGet, "/api/elements/H/lines", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var linesBody models.ElementSpectrum
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &linesBody))
	assert.Len(t, linesBody.Lines, 3)

	rec = do(t, router, http.MethodGet, "/api/elements/1-H/spectrum?image=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var spec models.ElementSpectrum
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	assert.Len(t, spec.Grid, 200)
	assert.Len(t, spec.Image, 12)
	assert.InDelta(t, 656.28, spec.Peak.Wavelength, 4)

	rec = do(t, router, http.MethodGet, "/api/elements/Fe/spectrum", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	for _, kind := range []string{"lines", "intensity", "color", "trace"} {
		rec = do(t, router, http.MethodGet, "/api/elements/1/plot?kind="+kind+"&width=200&height=120", "")
		require.Equal(t, http.StatusOK, rec.Code, kind)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	}
}

func TestSessionRoutes(t *testing.T) {
	router, runner := newTestRouter(t)
	t.Cleanup(func() { _ = runner.Shutdown(t.Context()) })

	rec := do(t, router, http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var created models.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, models.StatusPending, created.Status)

	rec = do(t, router, http.MethodPost, "/api/sessions/"+created.ID+"/select", `{"element":"Fe"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/sessions/"+created.ID+"/select", `{"element":"H"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Eventually(t, func() bool {
		rec := do(t, router, http.MethodGet, "/api/sessions/"+created.ID, "")
		var s models.Session
		if rec.Code != http.StatusOK || json.Unmarshal(rec.Body.Bytes(), &s) != nil {
			return false
		}
		return s.Status == models.StatusCompleted && s.Result != nil && s.Result.Element.Symbol == "H"
	}, 5*time.Second, 10*time.Millisecond)

	rec = do(t, router, http.MethodGet, "/api/sessions/00000000-0000-0000-0000-000000000000", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
