// Package inbox imports documents dropped into a directory.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"labinventory-backend/config"
	"labinventory-backend/internal/importer"
	"labinventory-backend/internal/parse"
	"labinventory-backend/internal/store"
)

// Importer imports one file.
type Importer interface {
	ImportFile(ctx context.Context, path string, layout parse.Layout) (*importer.Summary, error)
}

type rule struct {
	pattern string
	layout  parse.Layout
}

// Watcher polls the inbox directory and imports what it finds, one file
// at a time.
type Watcher struct {
	cfg      config.InboxConfig
	importer Importer
	rules    []rule
}

// NewWatcher creates a watcher. Rules naming an unknown layout are
// dropped with a warning; processed and failed directories default to
// subdirectories of the inbox.
func NewWatcher(cfg config.InboxConfig, imp Importer) *Watcher {
	if cfg.ProcessedDir == "" {
		cfg.ProcessedDir = filepath.Join(cfg.Dir, "processed")
	}
	if cfg.FailedDir == "" {
		cfg.FailedDir = filepath.Join(cfg.Dir, "failed")
	}

	w := &Watcher{cfg: cfg, importer: imp}
	for _, r := range cfg.Rules {
		layout, err := parse.ParseLayout(r.Layout)
		if err != nil {
			log.Warn().Err(err).Str("pattern", r.Pattern).Msg("ignoring inbox rule")
			continue
		}
		w.rules = append(w.rules, rule{pattern: strings.ToLower(r.Pattern), layout: layout})
	}
	return w
}

// Run scans the inbox immediately and then every configured interval
// until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	if !w.cfg.Enabled {
		log.Info().Msg("inbox watcher is disabled")
		return
	}
	log.Info().Str("dir", w.cfg.Dir).Dur("interval", w.cfg.Interval).Msg("starting inbox watcher")

	w.ScanOnce(ctx)

	timer := time.NewTimer(w.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("inbox watcher shutting down")
			return
		case <-timer.C:
			w.ScanOnce(ctx)
			timer.Reset(w.cfg.Interval)
		}
	}
}

// LayoutFor picks the layout for a file name: the first matching rule,
// else a default by extension.
func (w *Watcher) LayoutFor(name string) (parse.Layout, bool) {
	base := strings.ToLower(filepath.Base(name))
	for _, r := range w.rules {
		if ok, _ := filepath.Match(r.pattern, base); ok {
			return r.layout, true
		}
	}
	switch filepath.Ext(base) {
	case ".xlsx":
		return parse.LayoutWorkbook, true
	case ".docx", ".txt":
		return parse.LayoutDoc, true
	}
	return "", false
}

// ScanOnce imports every file currently in the inbox.
func (w *Watcher) ScanOnce(ctx context.Context) {
	entries, err := os.ReadDir(w.cfg.Dir)
	if err != nil {
		log.Error().Err(err).Str("dir", w.cfg.Dir).Msg("failed to list inbox")
		return
	}

	for _, e := range entries {
		if ctx.Err() != nil {
			return
		}
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			continue
		}

		layout, ok := w.LayoutFor(name)
		if !ok {
			log.Warn().Str("file", name).Msg("no layout for inbox file, leaving it in place")
			continue
		}
		w.process(ctx, filepath.Join(w.cfg.Dir, name), layout)
	}
}

func (w *Watcher) process(ctx context.Context, path string, layout parse.Layout) {
	summary, err := w.importer.ImportFile(ctx, path, layout)
	switch {
	case errors.Is(err, store.ErrUnavailable), errors.Is(err, context.Canceled):
		log.Warn().Err(err).Str("file", path).Msg("import interrupted, will retry")
		return
	case err != nil:
		log.Error().Err(err).Str("file", path).Str("layout", string(layout)).Msg("inbox import failed")
		w.move(path, w.cfg.FailedDir)
		return
	}

	for _, e := range summary.Errors {
		log.Warn().Str("file", path).Msg(e)
	}
	w.move(path, w.cfg.ProcessedDir)
}

// move relocates path into dir, prefixing a timestamp when the name is
// already taken.
func (w *Watcher) move(path, dir string) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Error().Err(err).Str("dir", dir).Msg("failed to create inbox directory")
		return
	}
	target := filepath.Join(dir, filepath.Base(path))
	if _, err := os.Stat(target); err == nil {
		target = filepath.Join(dir, fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102T150405"), filepath.Base(path)))
	}
	if err := os.Rename(path, target); err != nil {
		log.Error().Err(err).Str("file", path).Str("target", target).Msg("failed to move inbox file")
	}
}
