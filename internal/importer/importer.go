// Package importer runs source documents through extraction, parsing and
// reconciliation against the inventory store.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"labinventory-backend/internal/extract"
	"labinventory-backend/internal/metrics"
	"labinventory-backend/internal/model"
	"labinventory-backend/internal/parse"
)

// Store is the subset of the inventory store an import needs.
type Store interface {
	UpsertLab(ctx context.Context, lab *model.Lab) error
	UpsertAsset(ctx context.Context, asset *model.Asset) error
	FindLabByCode(ctx context.Context, code string) (*model.Lab, error)
}

// Summary reports the outcome of one import run. Counts are records
// written, whether inserted or updated.
type Summary struct {
	LabsImported   int      `json:"labsImported"`
	AssetsImported int      `json:"assetsImported"`
	Errors         []string `json:"errors,omitempty"`
}

// Service imports documents into a Store.
type Service struct {
	store Store
}

// NewService creates an import service over the given store.
func NewService(s Store) *Service {
	return &Service{store: s}
}

// ImportFile opens path and imports it.
func (s *Service) ImportFile(ctx context.Context, path string, layout parse.Layout) (*Summary, error) {
	f, err := extract.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s.Import(ctx, f, filepath.Base(path), layout)
}

// Import reads one document and reconciles its candidates in order. Per
// record failures end up in Summary.Errors; only unreadable input, an
// unusable format or an unreachable store fail the run.
func (s *Service) Import(ctx context.Context, r io.Reader, filename string, layout parse.Layout) (*Summary, error) {
	logger := log.With().
		Str("run_id", uuid.NewString()).
		Str("layout", string(layout)).
		Str("file", filename).
		Logger()

	start := time.Now()
	summary, err := s.run(ctx, r, filename, layout)
	metrics.ImportDuration.WithLabelValues(string(layout)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ImportRuns.WithLabelValues(string(layout), "failed").Inc()
		logger.Error().Err(err).Msg("import failed")
		return nil, err
	}

	metrics.ImportRuns.WithLabelValues(string(layout), "ok").Inc()
	logger.Info().
		Int("labs", summary.LabsImported).
		Int("assets", summary.AssetsImported).
		Int("errors", len(summary.Errors)).
		Dur("took", time.Since(start)).
		Msg("import completed")
	return summary, nil
}

func (s *Service) run(ctx context.Context, r io.Reader, filename string, layout parse.Layout) (*Summary, error) {
	parser, err := parse.For(layout)
	if err != nil {
		return nil, err
	}
	ex, err := extractorFor(layout, filename)
	if err != nil {
		return nil, err
	}

	doc, err := ex.Extract(r)
	if err != nil {
		return nil, err
	}
	batch := parser.Parse(doc)
	log.Debug().Int("labs", len(batch.Labs)).Int("assets", len(batch.Assets)).Str("file", filename).Msg("parsed document")

	rec := &reconciler{store: s.store}
	for _, c := range batch.Labs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := rec.lab(ctx, c); err != nil {
			return nil, fmt.Errorf("lab %s: %w", c.Code, err)
		}
	}
	for _, c := range batch.Assets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := rec.asset(ctx, c); err != nil {
			return nil, fmt.Errorf("asset %s: %w", c.AssetTag, err)
		}
	}
	return &rec.summary, nil
}

// extractorFor pairs a layout with its extractor. Spreadsheet layouts are
// read as workbooks whatever the file is called.
func extractorFor(layout parse.Layout, filename string) (extract.Extractor, error) {
	if layout.Spreadsheet() {
		return extract.Spreadsheet{}, nil
	}
	ex, err := extract.ForFile(filename)
	if err != nil {
		return nil, err
	}
	if _, ok := ex.(extract.Spreadsheet); ok {
		return nil, fmt.Errorf("%w: layout %s expects a text document", extract.ErrFormat, layout)
	}
	return ex, nil
}

// IsInputError reports whether err was caused by the submitted document
// rather than by the server.
func IsInputError(err error) bool {
	return errors.Is(err, extract.ErrFormat) || errors.Is(err, extract.ErrIO)
}
