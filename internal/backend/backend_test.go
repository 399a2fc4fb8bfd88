package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/spectra/internal/config"
	"github.com/RMahshie/spectra/internal/lines"
	"github.com/RMahshie/spectra/internal/repository/memory"
	"github.com/RMahshie/spectra/pkg/models"
)

func TestOpenFileBackend(t *testing.T) {
	cfg := &config.Config{
		Lines:    config.LinesConfig{Backend: config.BackendFile, Dir: t.TempDir()},
		Sessions: config.SessionsConfig{Backend: config.BackendMemory},
	}

	b, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer b.Close()

	assert.IsType(t, &memory.SessionRepository{}, b.Sessions)

	ctx := context.Background()
	he := models.Element{Number: 2, Symbol: "He"}
	table := &lines.Table{Columns: []string{lines.ColumnWavelength, lines.ColumnIntensity}, Rows: [][]string{{"587.5621", "500"}}}
	require.NoError(t, b.Lines.SaveTable(ctx, he, table))

	es, err := b.Lines.ListElements(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Element{he}, es)
}

func TestOpenUnknownBackend(t *testing.T) {
	cfg := &config.Config{Lines: config.LinesConfig{Backend: "tape"}}
	_, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}

func TestOpenUnreachableDatabase(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{URL: "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1"},
		Lines:    config.LinesConfig{Backend: config.BackendPostgres},
	}
	_, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}
