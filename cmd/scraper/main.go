// Command scraper downloads element line tables from the NIST atomic
// spectra database into the configured line backend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RMahshie/spectra/internal/backend"
	"github.com/RMahshie/spectra/internal/config"
	"github.com/RMahshie/spectra/internal/ingest"
	"github.com/RMahshie/spectra/internal/nist"
	"github.com/RMahshie/spectra/pkg/models"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	flags := pflag.NewFlagSet("scraper", pflag.ExitOnError)
	flags.String("elements", "", "comma separated element keys, symbols or atomic numbers (default: all 118)")
	flags.Duration("timeout", 60*time.Second, "per-request timeout")
	flags.String("backend", config.BackendFile, "line backend: file, s3, minio or postgres")
	flags.String("dir", "data/elements", "output directory for the file backend")
	flags.Bool("verbose", false, "log every skipped element")
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("Failed to parse flags")
	}

	v := viper.GetViper()
	for key, flag := range map[string]string{
		"FETCH_TIMEOUT": "timeout",
		"LINES_BACKEND": "backend",
		"LINES_DIR":     "dir",
		"ELEMENTS":      "elements",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			log.Fatal().Err(err).Str("flag", flag).Msg("Failed to bind flag")
		}
	}

	cfg, err := config.LoadFrom(v)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	elements, err := parseElements(v.GetString("ELEMENTS"))
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid --elements")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backends, err := backend.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open backends")
	}
	defer backends.Close()

	client := nist.NewClient(cfg.NIST.URL, cfg.NIST.FetchTimeout)
	report, err := ingest.NewService(client, backends.Lines).Run(ctx, elements)
	if err != nil {
		log.Error().Err(err).Int("completed", len(report.Results)).Int("requested", len(elements)).Msg("Scrape interrupted")
		backends.Close()
		os.Exit(1)
	}
	for _, res := range report.Results {
		if res.Outcome == ingest.OutcomeFailed {
			log.Warn().Str("element", res.Element.Key()).Str("error", res.Error).Msg("Element not ingested")
		}
	}
}

// parseElements resolves a comma separated list. An empty list selects
// the full catalogue.
func parseElements(s string) ([]models.Element, error) {
	if strings.TrimSpace(s) == "" {
		return models.Elements(), nil
	}

	var out []models.Element
	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		e, err := models.LookupElement(part)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", part, err)
		}
		if !seen[e.Number] {
			seen[e.Number] = true
			out = append(out, e)
		}
	}
	models.SortElements(out)
	return out, nil
}
