// Package backend opens the repositories selected by configuration.
package backend

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/spectra/internal/config"
	"github.com/RMahshie/spectra/internal/repository"
	"github.com/RMahshie/spectra/internal/repository/filesystem"
	"github.com/RMahshie/spectra/internal/repository/memory"
	"github.com/RMahshie/spectra/internal/repository/objectstore"
	"github.com/RMahshie/spectra/internal/repository/postgres"
	"github.com/RMahshie/spectra/internal/storage"
)

// Backends holds the opened repositories and the resources behind them.
type Backends struct {
	Lines    repository.LineRepository
	Sessions repository.SessionRepository

	db *sql.DB
}

// Open connects the line and session repositories named by cfg. The
// database is opened once and shared when both use Postgres.
func Open(ctx context.Context, cfg *config.Config) (*Backends, error) {
	b := &Backends{}

	lines, err := b.openLines(ctx, cfg)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.Lines = lines

	switch cfg.Sessions.Backend {
	case config.BackendPostgres:
		db, err := b.database(ctx, cfg.Database.URL)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.Sessions = postgres.NewSessionRepository(db)
	default:
		b.Sessions = memory.NewSessionRepository()
	}

	log.Info().
		Str("lines", cfg.Lines.Backend).
		Str("sessions", cfg.Sessions.Backend).
		Msg("Backends ready")
	return b, nil
}

func (b *Backends) openLines(ctx context.Context, cfg *config.Config) (repository.LineRepository, error) {
	switch cfg.Lines.Backend {
	case config.BackendFile:
		return filesystem.NewLineRepository(cfg.Lines.Dir)

	case config.BackendS3:
		store, err := storage.NewS3Store(ctx, cfg.AWS.S3())
		if err != nil {
			return nil, err
		}
		return objectstore.NewLineRepository(store, cfg.Lines.Prefix), nil

	case config.BackendMinio:
		store, err := storage.NewMinioStore(ctx, cfg.AWS.S3())
		if err != nil {
			return nil, err
		}
		return objectstore.NewLineRepository(store, cfg.Lines.Prefix), nil

	case config.BackendPostgres:
		db, err := b.database(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		return postgres.NewLineRepository(db), nil

	default:
		return nil, fmt.Errorf("unknown line backend %q", cfg.Lines.Backend)
	}
}

func (b *Backends) database(ctx context.Context, url string) (*sql.DB, error) {
	if b.db != nil {
		return b.db, nil
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info().Msg("Connected to database")

	b.db = db
	return db, nil
}

// Close releases the database connection, if any.
func (b *Backends) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}
