// Package ingest downloads element line tables and stores them in a line
// repository, one element at a time.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/spectra/internal/lines"
	"github.com/RMahshie/spectra/internal/nist"
	"github.com/RMahshie/spectra/internal/repository"
	"github.com/RMahshie/spectra/pkg/models"
)

var (
	ErrElementUnavailable = errors.New("element not in NIST database")
	ErrNoIntensities      = errors.New("element has no intensity information")
)

// minColumns is the narrowest table ASD returns for a known element; the
// "unknown element" page parses to fewer.
const minColumns = 3

// Fetcher returns the raw line table response for an element symbol
type Fetcher interface {
	FetchLines(ctx context.Context, symbol string) (string, error)
}

// Outcome values recorded per element
const (
	OutcomeSaved   = "saved"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Result is the outcome for one element
type Result struct {
	Element models.Element `json:"element"`
	Outcome string         `json:"outcome"`
	Rows    int            `json:"rows,omitempty"`
	Error   string         `json:"error,omitempty"`
	Err     error          `json:"-"`
}

// Report summarizes a batch
type Report struct {
	Results  []Result      `json:"results"`
	Saved    int           `json:"saved"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
	switch res.Outcome {
	case OutcomeSaved:
		r.Saved++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
}

// Service runs ingestion batches
type Service struct {
	fetcher Fetcher
	repo    repository.LineRepository
}

// NewService creates a new ingestion service
func NewService(fetcher Fetcher, repo repository.LineRepository) *Service {
	return &Service{fetcher: fetcher, repo: repo}
}

// Run ingests elements in order. Elements already stored are skipped and
// a failing element never stops the batch; only context cancellation
// does, in which case the partial report is returned with the context
// error.
func (s *Service) Run(ctx context.Context, elements []models.Element) (Report, error) {
	start := time.Now()
	var report Report

	for _, e := range elements {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}

		res := s.ingest(ctx, e)
		report.add(res)

		switch res.Outcome {
		case OutcomeSaved:
			log.Info().Str("element", e.Key()).Int("rows", res.Rows).Msg("Saved line table")
		case OutcomeSkipped:
			log.Debug().Str("element", e.Key()).Msg("Line table already stored, skipping")
		case OutcomeFailed:
			log.Warn().Str("element", e.Key()).Err(res.Err).Msg("Failed to ingest element")
		}
	}

	report.Duration = time.Since(start)
	log.Info().
		Int("saved", report.Saved).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Dur("duration", report.Duration).
		Msg("Ingestion finished")

	return report, ctx.Err()
}

func (s *Service) ingest(ctx context.Context, e models.Element) Result {
	res := Result{Element: e}
	fail := func(err error) Result {
		res.Outcome = OutcomeFailed
		res.Err = err
		res.Error = err.Error()
		return res
	}

	exists, err := s.repo.Exists(ctx, e)
	if err != nil {
		return fail(fmt.Errorf("failed to check existing table: %w", err))
	}
	if exists {
		res.Outcome = OutcomeSkipped
		return res
	}

	log.Debug().Str("element", e.Key()).Msg("Pulling line table")
	raw, err := s.fetcher.FetchLines(ctx, e.Symbol)
	if err != nil {
		return fail(err)
	}

	table, err := ParsePayload(raw)
	if err != nil {
		return fail(err)
	}

	if err := s.repo.SaveTable(ctx, e, table); err != nil {
		return fail(fmt.Errorf("failed to save table: %w", err))
	}

	res.Outcome = OutcomeSaved
	res.Rows = len(table.Rows)
	return res
}

// ParsePayload cleans and validates a raw ASD response.
func ParsePayload(raw string) (*lines.Table, error) {
	table, err := lines.ParseTable(strings.NewReader(nist.CleanPayload(raw)))
	if errors.Is(err, lines.ErrEmptyTable) {
		return nil, ErrElementUnavailable
	}
	if err != nil {
		return nil, err
	}
	if len(table.Columns) < minColumns {
		return nil, ErrElementUnavailable
	}
	if !lines.HasIntensities(table) {
		return nil, ErrNoIntensities
	}
	return table, nil
}
