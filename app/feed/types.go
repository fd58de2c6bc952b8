package feed

import (
	"time"
)

// Metadata describes the feed itself, as opposed to its items.
type Metadata struct {
	Title       string
	Link        string
	Description string
	ImageURL    string
	Language    string
	PublishedAt *time.Time
	UpdatedAt   *time.Time
}

type Item struct {
	GUID        string
	Title       string
	Link        string
	Description string
	Content     string
	ImageURL    string
	PublishedAt *time.Time
	UpdatedAt   *time.Time
	Authors     []string // "email (name)" or "name"
	Categories  []string

	ContentHash string

	// Media attachment, present for podcast and video feeds.
	EnclosureURL    string
	EnclosureType   string
	EnclosureLength int64
}
