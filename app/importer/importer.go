package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"newsriver/app/classify"
	"newsriver/app/database"
	"newsriver/app/opml"
)

// SyncScheduler enqueues downstream sync work for newly processed
// sources. Implemented by the task scheduler; nil disables enqueueing
// (import-only runs).
type SyncScheduler interface {
	EnqueueSourceSync(source database.Source, delay time.Duration) error
}

// Stats aggregates record outcomes over one import run.
type Stats struct {
	Files      int
	Processed  int
	Duplicate  int
	Skipped    int
	FileErrors int
}

func (s *Stats) addOutcome(outcome Outcome) {
	switch outcome {
	case OutcomeProcessed:
		s.Processed++
	case OutcomeDuplicate:
		s.Duplicate++
	case OutcomeSkipped:
		s.Skipped++
	}
}

func (s *Stats) merge(other Stats) {
	s.Files += other.Files
	s.Processed += other.Processed
	s.Duplicate += other.Duplicate
	s.Skipped += other.Skipped
	s.FileErrors += other.FileErrors
}

// Importer drives one import run: discover OPML files, parse them,
// validate and classify each record, resolve the publisher, upsert the
// source and enqueue downstream syncs.
type Importer struct {
	parser    *opml.Parser
	fetcher   *opml.Fetcher
	attrs     opml.AttributeMap
	resolver  *PublisherResolver
	upserter  *SourceUpserter
	syncs     SyncScheduler
	path      string
	extension string
	delayStep time.Duration
}

func NewImporter(parser *opml.Parser, fetcher *opml.Fetcher, attrs opml.AttributeMap,
	resolver *PublisherResolver, upserter *SourceUpserter, syncs SyncScheduler,
	path, extension string, delayStep time.Duration) *Importer {
	return &Importer{
		parser:    parser,
		fetcher:   fetcher,
		attrs:     attrs,
		resolver:  resolver,
		upserter:  upserter,
		syncs:     syncs,
		path:      path,
		extension: extension,
		delayStep: delayStep,
	}
}

// Run executes one import over the configured directory. File-level
// failures (unreadable file, malformed XML) are logged and counted but
// do not abort the run; only an invalid scan directory does, before any
// file is touched.
func (imp *Importer) Run(ctx context.Context, force bool) (*Stats, error) {
	info, err := os.Stat(imp.path)
	if err != nil {
		return nil, fmt.Errorf("invalid import path %q: %w", imp.path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("import path %q is not a directory", imp.path)
	}

	files, err := imp.discoverFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to discover import files: %w", err)
	}

	stats := &Stats{}
	if len(files) == 0 {
		slog.Info("No import files found", "path", imp.path, "extension", imp.extension)
		return stats, nil
	}

	syncOffset := 0
	for _, file := range files {
		fileStats := imp.runFile(ctx, file, force, &syncOffset)
		stats.merge(fileStats)

		slog.Info("Imported file",
			"file", filepath.Base(file),
			"processed", fileStats.Processed,
			"duplicate", fileStats.Duplicate,
			"skipped", fileStats.Skipped)
	}

	slog.Info("Import run complete",
		"files", stats.Files,
		"file_errors", stats.FileErrors,
		"processed", stats.Processed,
		"duplicate", stats.Duplicate,
		"skipped", stats.Skipped)

	return stats, nil
}

// discoverFiles lists files matching the configured extension in sorted
// order, falling back to extensionless files when none match.
func (imp *Importer) discoverFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(imp.path, "*."+imp.extension))
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		entries, err := os.ReadDir(imp.path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() || strings.Contains(entry.Name(), ".") {
				continue
			}
			files = append(files, filepath.Join(imp.path, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

func (imp *Importer) runFile(ctx context.Context, file string, force bool, syncOffset *int) Stats {
	stats := Stats{Files: 1}

	data, err := imp.fetcher.Run(ctx, file)
	if err != nil {
		slog.Error("Failed to read import file", "file", file, "error", err)
		stats.FileErrors++
		return stats
	}

	doc, err := imp.parser.Run(data, imp.attrs)
	if err != nil {
		slog.Error("Failed to parse import file", "file", file, "error", err)
		stats.FileErrors++
		return stats
	}

	for rec, ok := doc.Next(); ok; rec, ok = doc.Next() {
		outcome := imp.runRecord(rec, force, syncOffset)
		stats.addOutcome(outcome)
	}

	return stats
}

func (imp *Importer) runRecord(rec opml.Record, force bool, syncOffset *int) Outcome {
	if err := validateRecord(rec); err != nil {
		slog.Warn("Skipping invalid record", "title", rec.Get("title"), "error", err)
		return OutcomeSkipped
	}

	title := strings.TrimSpace(rec.Get("title"))
	feedURL := strings.TrimSpace(rec.Get("xml_url"))
	sourceType := classify.Classify(feedURL)

	publisher, err := imp.resolver.Resolve(title)
	if err != nil {
		slog.Error("Failed to resolve publisher", "title", title, "error", err)
		return OutcomeSkipped
	}

	outcome, source, err := imp.upserter.Upsert(publisher, feedURL, sourceType, force)
	if err != nil {
		slog.Error("Failed to upsert source", "url", feedURL, "error", err)
		return OutcomeSkipped
	}

	if outcome == OutcomeProcessed && source != nil && imp.syncs != nil {
		*syncOffset++
		delay := time.Duration(*syncOffset) * imp.delayStep
		if err := imp.syncs.EnqueueSourceSync(*source, delay); err != nil {
			slog.Warn("Failed to enqueue source sync", "url", source.URL, "error", err)
		}
	}

	return outcome
}
