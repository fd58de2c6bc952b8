package tasks

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"newsriver/app/database"
	"newsriver/app/feed"
)

// SyncSourceTask fetches one source's feed, drops items already seen
// and upserts the rest as articles.
type SyncSourceTask struct {
	Task
	Source       database.Source
	httpClient   *http.Client
	parser       *feed.Parser
	sourceRepo   database.SourceRepository
	articleRepo  database.ArticleRepository
	userAgent    string
	fetchTimeout time.Duration
	syncInterval time.Duration
}

func NewSyncSourceTask(source database.Source, httpClient *http.Client, parser *feed.Parser,
	sourceRepo database.SourceRepository, articleRepo database.ArticleRepository,
	userAgent string, fetchTimeout, syncInterval time.Duration) *SyncSourceTask {
	return &SyncSourceTask{
		Task:         NewTask(TaskTypeSyncSource, source.URL),
		Source:       source,
		httpClient:   httpClient,
		parser:       parser,
		sourceRepo:   sourceRepo,
		articleRepo:  articleRepo,
		userAgent:    userAgent,
		fetchTimeout: fetchTimeout,
		syncInterval: syncInterval,
	}
}

func (t *SyncSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	data, err := t.fetchFeed(ctx, t.Source.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	_, items, err := t.parser.Run(data)
	if err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}

	duplicateCount := 0
	newCount := 0

	for _, item := range items {
		isDuplicate, err := t.articleRepo.CheckDuplicate(t.Source.ID, item.ContentHash)
		if err != nil {
			return fmt.Errorf("failed to check for duplicates: %w", err)
		}
		if isDuplicate {
			duplicateCount++
			continue
		}

		if err := t.articleRepo.UpsertArticle(t.Source.ID, t.toArticleItem(item)); err != nil {
			return fmt.Errorf("failed to upsert article: %w", err)
		}
		newCount++
	}

	now := time.Now().UTC()
	if err := t.sourceRepo.UpdateSyncTimes(t.Source.ID, now, now.Add(t.syncInterval)); err != nil {
		return fmt.Errorf("failed to update sync times: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.Source.URL,
		"duration", t.GetDuration(),
		"total", len(items),
		"duplicates", duplicateCount,
		"new", newCount)

	return nil
}

// toArticleItem maps a parsed feed item onto the article upsert shape.
// Podcast and video items often carry the media URL only as an
// enclosure, so it serves as the link fallback.
func (t *SyncSourceTask) toArticleItem(item feed.Item) database.ArticleItem {
	return database.ArticleItem{
		GUID:        item.GUID,
		URL:         cmp.Or(item.Link, item.EnclosureURL),
		Title:       item.Title,
		Description: item.Description,
		Content:     item.Content,
		ImageURL:    item.ImageURL,
		Authors:     item.Authors,
		Categories:  item.Categories,
		PublishedAt: item.PublishedAt,
		ContentHash: item.ContentHash,
	}
}

func (t *SyncSourceTask) fetchFeed(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, t.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
