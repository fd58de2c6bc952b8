package database

import (
	"time"

	"newsriver/app/classify"
)

// Publisher is the organizational identity owning one or more sources.
// Identity is the globally unique slug derived from the feed title.
type Publisher struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Source is one subscribed feed. URL is the idempotency key for import
// re-runs; Tracked controls periodic sync eligibility.
type Source struct {
	ID           int64
	PublisherID  int64
	URL          string
	Type         classify.SourceType
	Tracked      bool
	LastSyncedAt *time.Time
	NextSyncAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Article is one synced feed item belonging to a source.
type Article struct {
	ID               int64
	SourceID         int64
	GUID             string
	URL              string
	Title            string
	Description      string
	Content          string
	ImageURL         string
	Authors          []string
	Categories       []string
	PublishedAt      *time.Time
	ContentHash      string
	ExtractionStatus string // pending, success, failed, skipped
	ExtractedAt      *time.Time
	CreatedAt        time.Time
}
