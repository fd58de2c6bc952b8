package database

import (
	"time"

	"newsriver/app/classify"
)

type PublisherRepository interface {
	GetBySlug(slug string) (*Publisher, error)
	Create(name, slug string) (*Publisher, error)
	GetPublisherCount() (int, error)
	GetAll() ([]Publisher, error)
}

type SourceRepository interface {
	GetByID(id int64) (*Source, error)
	GetByURL(url string) (*Source, error)
	GetByPublisherAndURL(publisherID int64, url string) (*Source, error)
	Create(publisherID int64, url string, sourceType classify.SourceType) (*Source, error)
	UpdateOwnership(sourceID, publisherID int64, sourceType classify.SourceType) error
	SetTracked(sourceID int64, tracked bool) error
	GetDueForSync(limit int) ([]Source, error)
	ScheduleNextSync(sourceID int64, nextSync time.Time) error
	UpdateSyncTimes(sourceID int64, lastSynced, nextSync time.Time) error
	GetSourceCount() (int, error)
	GetSourceCountByType() (map[classify.SourceType]int, error)
	GetAll() ([]Source, error)
}

// ArticleItem is the normalized input for article upserts, produced by
// the feed sync pipeline.
type ArticleItem struct {
	GUID        string
	URL         string
	Title       string
	Description string
	Content     string
	ImageURL    string
	Authors     []string
	Categories  []string
	PublishedAt *time.Time
	ContentHash string
}

type ArticleRepository interface {
	UpsertArticle(sourceID int64, item ArticleItem) error
	CheckDuplicate(sourceID int64, contentHash string) (bool, error)
	GetArticlesForExtraction(sourceID int64, limit int) ([]Article, error)
	UpdateExtractedContent(articleID int64, content, status string, extractedAt *time.Time, errorMsg string) error
	GetArticleCount() (int, error)
}
