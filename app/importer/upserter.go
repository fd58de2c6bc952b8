package importer

import (
	"fmt"
	"log/slog"

	"newsriver/app/classify"
	"newsriver/app/database"
)

// SourceUpserter decides, per validated feed record, whether to create,
// update or leave alone the source for a feed URL.
type SourceUpserter struct {
	sources database.SourceRepository
}

func NewSourceUpserter(sources database.SourceRepository) *SourceUpserter {
	return &SourceUpserter{sources: sources}
}

// Upsert applies the dedup decision for one feed URL. The returned
// source is non-nil exactly when the outcome is OutcomeProcessed, i.e.
// when a downstream sync should be enqueued.
func (u *SourceUpserter) Upsert(publisher *database.Publisher, url string, sourceType classify.SourceType, force bool) (Outcome, *database.Source, error) {
	// Global lookup by URL alone: the URL is the idempotency key,
	// independent of which publisher currently owns it.
	existing, err := u.sources.GetByURL(url)
	if err != nil {
		return OutcomeSkipped, nil, fmt.Errorf("failed to look up source by URL: %w", err)
	}

	if existing != nil {
		if !force {
			return OutcomeDuplicate, nil, nil
		}

		// Force mode reassigns ownership in place. The feed URL keeps
		// its identity; publisher and type follow the current import.
		if existing.PublisherID != publisher.ID {
			slog.Info("Reassigning source publisher",
				"url", url,
				"old_publisher_id", existing.PublisherID,
				"new_publisher_id", publisher.ID)
		}
		if err := u.sources.UpdateOwnership(existing.ID, publisher.ID, sourceType); err != nil {
			return OutcomeSkipped, nil, fmt.Errorf("failed to force-update source: %w", err)
		}

		updated := *existing
		updated.PublisherID = publisher.ID
		updated.Type = sourceType
		return OutcomeProcessed, &updated, nil
	}

	// A prior force run may have moved the row under another publisher
	// and back; the scoped pair check catches leftovers the global
	// lookup missed.
	scoped, err := u.sources.GetByPublisherAndURL(publisher.ID, url)
	if err != nil {
		return OutcomeSkipped, nil, fmt.Errorf("failed to look up source by publisher and URL: %w", err)
	}
	if scoped != nil {
		return OutcomeDuplicate, nil, nil
	}

	created, err := u.sources.Create(publisher.ID, url, sourceType)
	if err != nil {
		// Lost a race with a concurrent import; the unique constraint
		// means the source exists now, which is a duplicate, not a crash.
		if database.IsUniqueViolation(err) {
			return OutcomeDuplicate, nil, nil
		}
		return OutcomeSkipped, nil, fmt.Errorf("failed to create source: %w", err)
	}

	return OutcomeProcessed, created, nil
}
