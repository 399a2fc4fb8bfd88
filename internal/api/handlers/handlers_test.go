package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/spectra/internal/colormap"
	"github.com/RMahshie/spectra/internal/filters"
	"github.com/RMahshie/spectra/internal/lines"
	"github.com/RMahshie/spectra/internal/repository"
	"github.com/RMahshie/spectra/internal/synth"
	"github.com/RMahshie/spectra/pkg/models"
)

// MockLineRepository implements repository.LineRepository for testing
type MockLineRepository struct {
	mock.Mock
}

func (m *MockLineRepository) ListElements(ctx context.Context) ([]models.Element, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Element), args.Error(1)
}

func (m *MockLineRepository) GetTable(ctx context.Context, e models.Element) (*lines.Table, error) {
	args := m.Called(ctx, e)
	t, _ := args.Get(0).(*lines.Table)
	return t, args.Error(1)
}

func (m *MockLineRepository) Exists(ctx context.Context, e models.Element) (bool, error) {
	args := m.Called(ctx, e)
	return args.Bool(0), args.Error(1)
}

func (m *MockLineRepository) SaveTable(ctx context.Context, e models.Element, t *lines.Table) error {
	args := m.Called(ctx, e, t)
	return args.Error(0)
}

// MockFilterRepository implements repository.FilterRepository for testing
type MockFilterRepository struct {
	mock.Mock
}

func (m *MockFilterRepository) ListFilters(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFilterRepository) GetFilter(ctx context.Context, name string) (*filters.Curve, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(*filters.Curve)
	return c, args.Error(1)
}

// MockElementService implements processing.ElementService for testing
type MockElementService struct {
	mock.Mock
}

func (m *MockElementService) Render(ctx context.Context, e models.Element) (*models.ElementSpectrum, error) {
	args := m.Called(ctx, e)
	s, _ := args.Get(0).(*models.ElementSpectrum)
	return s, args.Error(1)
}

// MockSessionService implements SessionService for testing
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Create(ctx context.Context) (*models.Session, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*models.Session)
	return s, args.Error(1)
}

func (m *MockSessionService) Get(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.Session)
	return s, args.Error(1)
}

func (m *MockSessionService) Select(ctx context.Context, id uuid.UUID, e models.Element) (uint64, error) {
	args := m.Called(ctx, id, e)
	return args.Get(0).(uint64), args.Error(1)
}

var (
	hydrogen = models.Element{Number: 1, Symbol: "H"}
	iron     = models.Element{Number: 26, Symbol: "Fe"}
)

func hydrogenTable() *lines.Table {
	return &lines.Table{
		Columns: []string{lines.ColumnWavelength, lines.ColumnIntensity},
		Rows: [][]string{
			{"121.567", "1000"},
			{"434.0462", "90"},
			{"486.1288", "180"},
			{"656.2819", "500"},
			{"656.4", "2"},
		},
	}
}

func testCurve(name string) *filters.Curve {
	return &filters.Curve{Name: name, Wavelengths: []float64{400, 450, 500}, Throughput: []float64{0.2, 0.9, 0.3}}
}

func testSpectrum(t *testing.T) *models.ElementSpectrum {
	t.Helper()
	grid := synth.Linspace(380, 750, 120)
	ls := []lines.SpectralLine{{Wavelength: 656.28, Intensity: 1}}
	p := synth.Params{SpatialHeight: 10, SpectralSigma: 2, SpatialSigma: 3, PSFSize: 3, PSFSigma: 2}
	frame, err := synth.Synthesize(ls, grid, p)
	require.NoError(t, err)
	trace := frame.ColumnSums()
	peak := synth.ArgMax(trace)
	return &models.ElementSpectrum{
		Element: hydrogen,
		Lines:   ls,
		Grid:    grid,
		Trace:   trace,
		Peak:    models.SpectrumPoint{Wavelength: grid[peak], Value: trace[peak]},
		Frame:   frame,
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	return se.GetStatus()
}

func TestToHumaError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", repository.ErrNotFound), 404},
		{models.ErrUnknownElement, 404},
		{fmt.Errorf("sigma: %w", synth.ErrInvalidParameter), 400},
		{lines.ErrMissingColumn, 422},
		{filters.ErrEmptyCurve, 422},
		{errors.New("disk on fire"), 500},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusOf(t, toHumaError("msg", tt.err)))
		})
	}
}

func TestGetColor(t *testing.T) {
	resp, err := GetColor(context.Background(), &models.ColorRequest{Wavelength: 440, Gamma: 0.8})
	require.NoError(t, err)
	assert.True(t, resp.Body.Visible)
	assert.Equal(t, colormap.Color{R: 0, G: 0, B: 255, A: 255}, resp.Body.Color)
	assert.Equal(t, [4]float64{0, 0, 1, 1}, resp.Body.Float)
	assert.Equal(t, "#0000ff", resp.Body.Hex)

	resp, err = GetColor(context.Background(), &models.ColorRequest{Wavelength: 1000, Gamma: 0.8})
	require.NoError(t, err)
	assert.False(t, resp.Body.Visible)
	assert.InDelta(t, 255*colormap.OutOfRangeAlpha, resp.Body.Color.A, 1e-9)
}

func TestGetFilter(t *testing.T) {
	tests := []struct {
		name       string
		mockSetup  func(*MockFilterRepository)
		wantStatus int
	}{
		{
			name: "found",
			mockSetup: func(m *MockFilterRepository) {
				m.On("GetFilter", mock.Anything, "B").Return(testCurve("B"), nil)
			},
		},
		{
			name: "missing",
			mockSetup: func(m *MockFilterRepository) {
				m.On("GetFilter", mock.Anything, "B").Return(nil, fmt.Errorf("filter B: %w", repository.ErrNotFound))
			},
			wantStatus: 404,
		},
		{
			name: "empty curve",
			mockSetup: func(m *MockFilterRepository) {
				m.On("GetFilter", mock.Anything, "B").Return(&filters.Curve{Name: "B"}, nil)
			},
			wantStatus: 422,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockFilterRepository{}
			tt.mockSetup(repo)
			handler := NewFilterHandler(repo, colormap.DefaultGamma)

			resp, err := handler.GetFilter(context.Background(), &models.GetFilterRequest{Name: "B"})
			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, statusOf(t, err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, filters.Peak{Index: 1, Wavelength: 450, Throughput: 0.9}, resp.Body.Peak)
				assert.Equal(t, colormap.WavelengthToColor(450, colormap.DefaultGamma), resp.Body.Color)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestPlotFilters(t *testing.T) {
	repo := &MockFilterRepository{}
	repo.On("GetFilter", mock.Anything, "B").Return(testCurve("B"), nil)
	repo.On("GetFilter", mock.Anything, "V").Return(testCurve("V"), nil)
	handler := NewFilterHandler(repo, colormap.DefaultGamma)

	resp, err := handler.PlotFilters(context.Background(), &models.FilterPlotRequest{Names: "B, V,", Fill: true, Width: 300, Height: 200})
	require.NoError(t, err)
	assert.Equal(t, "image/png", resp.ContentType)

	cfg, err := png.DecodeConfig(bytes.NewReader(resp.Body))
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
	repo.AssertExpectations(t)

	_, err = handler.PlotFilters(context.Background(), &models.FilterPlotRequest{Names: " , "})
	assert.Equal(t, 400, statusOf(t, err))
}

func TestGetLines(t *testing.T) {
	repo := &MockLineRepository{}
	repo.On("GetTable", mock.Anything, hydrogen).Return(hydrogenTable(), nil)
	handler := NewElementHandler(repo, &MockElementService{}, colormap.NewSpectral(colormap.SpectralGamma))

	resp, err := handler.GetLines(context.Background(), &models.ElementRequest{Element: "h"})
	require.NoError(t, err)
	assert.Equal(t, hydrogen, resp.Body.Element)
	require.Len(t, resp.Body.Lines, 3)
	assert.Equal(t, 656.2819, resp.Body.Lines[2].Wavelength)
	assert.Equal(t, 1.0, resp.Body.Lines[2].Intensity)
	assert.Len(t, resp.Body.Table.Rows, 3)

	_, err = handler.GetLines(context.Background(), &models.ElementRequest{Element: "Xx"})
	assert.Equal(t, 404, statusOf(t, err))
	repo.AssertExpectations(t)
}

func TestGetSpectrum(t *testing.T) {
	svc := &MockElementService{}
	svc.On("Render", mock.Anything, hydrogen).Return(testSpectrum(t), nil).Twice()
	svc.On("Render", mock.Anything, iron).Return(nil, fmt.Errorf("table 26-Fe: %w", repository.ErrNotFound))
	handler := NewElementHandler(&MockLineRepository{}, svc, colormap.NewSpectral(colormap.SpectralGamma))

	resp, err := handler.GetSpectrum(context.Background(), &models.ElementSpectrumRequest{Element: "1-H"})
	require.NoError(t, err)
	assert.Nil(t, resp.Body.Image)
	assert.InDelta(t, 656.28, resp.Body.Peak.Wavelength, 4)

	resp, err = handler.GetSpectrum(context.Background(), &models.ElementSpectrumRequest{Element: "1", Image: true})
	require.NoError(t, err)
	require.Len(t, resp.Body.Image, 10)
	assert.Len(t, resp.Body.Image[0], 120)

	_, err = handler.GetSpectrum(context.Background(), &models.ElementSpectrumRequest{Element: "Fe"})
	assert.Equal(t, 404, statusOf(t, err))
	svc.AssertExpectations(t)
}

func TestPlotElement(t *testing.T) {
	tests := []struct {
		kind      string
		mockSetup func(*MockLineRepository, *MockElementService)
	}{
		{
			kind: PlotLines,
			mockSetup: func(repo *MockLineRepository, _ *MockElementService) {
				repo.On("GetTable", mock.Anything, hydrogen).Return(hydrogenTable(), nil)
			},
		},
		{
			kind: PlotIntensity,
			mockSetup: func(_ *MockLineRepository, svc *MockElementService) {
				svc.On("Render", mock.Anything, hydrogen).Return(testSpectrum(t), nil)
			},
		},
		{
			kind: PlotColor,
			mockSetup: func(_ *MockLineRepository, svc *MockElementService) {
				svc.On("Render", mock.Anything, hydrogen).Return(testSpectrum(t), nil)
			},
		},
		{
			kind: PlotTrace,
			mockSetup: func(_ *MockLineRepository, svc *MockElementService) {
				svc.On("Render", mock.Anything, hydrogen).Return(testSpectrum(t), nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			repo := &MockLineRepository{}
			svc := &MockElementService{}
			tt.mockSetup(repo, svc)
			handler := NewElementHandler(repo, svc, colormap.NewSpectral(colormap.SpectralGamma))

			resp, err := handler.PlotElement(context.Background(), &models.ElementPlotRequest{
				Element: "1-H", Kind: tt.kind, Width: 240, Height: 160,
			})
			require.NoError(t, err)

			cfg, err := png.DecodeConfig(bytes.NewReader(resp.Body))
			require.NoError(t, err)
			assert.Equal(t, 240, cfg.Width)
			assert.Equal(t, 160, cfg.Height)

			repo.AssertExpectations(t)
			svc.AssertExpectations(t)
		})
	}
}

func TestPlotElementErrors(t *testing.T) {
	repo := &MockLineRepository{}
	repo.On("GetTable", mock.Anything, iron).Return(&lines.Table{Columns: []string{"ritz_wl_vac(nm)"}}, nil)
	repo.On("GetTable", mock.Anything, hydrogen).Return(hydrogenTable(), nil)
	handler := NewElementHandler(repo, &MockElementService{}, colormap.NewSpectral(colormap.SpectralGamma))

	_, err := handler.PlotElement(context.Background(), &models.ElementPlotRequest{Element: "Fe", Kind: PlotLines})
	assert.Equal(t, 422, statusOf(t, err))

	_, err = handler.PlotElement(context.Background(), &models.ElementPlotRequest{Element: "Fe", Kind: "sketch"})
	assert.Equal(t, 400, statusOf(t, err))

	_, err = handler.PlotElement(context.Background(), &models.ElementPlotRequest{Element: "H", Kind: PlotLines, Width: 10, Height: 10})
	assert.Equal(t, 400, statusOf(t, err))
}

func TestSelectElement(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		id         string
		element    string
		mockSetup  func(*MockSessionService, *MockLineRepository)
		wantStatus int
	}{
		{
			name:    "selects element",
			id:      id.String(),
			element: "Fe",
			mockSetup: func(s *MockSessionService, repo *MockLineRepository) {
				repo.On("Exists", mock.Anything, iron).Return(true, nil)
				s.On("Select", mock.Anything, id, iron).Return(uint64(3), nil)
				s.On("Get", mock.Anything, id).Return(&models.Session{ID: id.String(), Status: models.StatusProcessing, Generation: 3, Element: &iron}, nil)
			},
		},
		{
			name:       "invalid session id",
			id:         "not-a-uuid",
			element:    "Fe",
			mockSetup:  func(*MockSessionService, *MockLineRepository) {},
			wantStatus: 400,
		},
		{
			name:       "unknown element",
			id:         id.String(),
			element:    "Unobtainium",
			mockSetup:  func(*MockSessionService, *MockLineRepository) {},
			wantStatus: 404,
		},
		{
			name:    "element without table",
			id:      id.String(),
			element: "26",
			mockSetup: func(s *MockSessionService, repo *MockLineRepository) {
				repo.On("Exists", mock.Anything, iron).Return(false, nil)
			},
			wantStatus: 404,
		},
		{
			name:    "unknown session",
			id:      id.String(),
			element: "26-Fe",
			mockSetup: func(s *MockSessionService, repo *MockLineRepository) {
				repo.On("Exists", mock.Anything, iron).Return(true, nil)
				s.On("Select", mock.Anything, id, iron).Return(uint64(0), fmt.Errorf("session: %w", repository.ErrNotFound))
			},
			wantStatus: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &MockSessionService{}
			repo := &MockLineRepository{}
			tt.mockSetup(sessions, repo)
			handler := NewSessionHandler(sessions, repo)

			req := &models.SelectElementRequest{ID: tt.id}
			req.Body.Element = tt.element
			resp, err := handler.SelectElement(context.Background(), req)

			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, statusOf(t, err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, uint64(3), resp.Body.Generation)
				assert.Equal(t, &iron, resp.Body.Element)
			}
			sessions.AssertExpectations(t)
			repo.AssertExpectations(t)
		})
	}
}

func TestCreateAndGetSession(t *testing.T) {
	id := uuid.New()
	sessions := &MockSessionService{}
	sessions.On("Create", mock.Anything).Return(&models.Session{ID: id.String(), Status: models.StatusPending}, nil)
	sessions.On("Get", mock.Anything, id).Return(&models.Session{ID: id.String(), Status: models.StatusPending}, nil)
	handler := NewSessionHandler(sessions, &MockLineRepository{})

	created, err := handler.CreateSession(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, id.String(), created.Body.ID)

	got, err := handler.GetSession(context.Background(), &models.GetSessionRequest{ID: strings.ToUpper(id.String())})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Body.Status)

	_, err = handler.GetSession(context.Background(), &models.GetSessionRequest{ID: "42"})
	assert.Equal(t, 400, statusOf(t, err))
	sessions.AssertExpectations(t)
}
