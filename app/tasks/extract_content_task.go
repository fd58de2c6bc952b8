package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"newsriver/app/database"
	"newsriver/app/feed"
)

// extractionBatchSize caps how many articles one task attempts, so a
// source with a large backlog cannot occupy a worker indefinitely.
const extractionBatchSize = 10

// ExtractContentTask fetches the HTML pages behind a source's pending
// articles and stores the readable content. Only article sources are
// scheduled for extraction; media feeds carry their payload inline.
type ExtractContentTask struct {
	Task
	Source           database.Source
	httpClient       *http.Client
	contentExtractor *feed.ContentExtractor
	articleRepo      database.ArticleRepository
	userAgent        string
	fetchTimeout     time.Duration
}

func NewExtractContentTask(source database.Source, httpClient *http.Client,
	contentExtractor *feed.ContentExtractor, articleRepo database.ArticleRepository,
	userAgent string, fetchTimeout time.Duration) *ExtractContentTask {
	return &ExtractContentTask{
		Task:             NewTask(TaskTypeExtractContent, source.URL),
		Source:           source,
		httpClient:       httpClient,
		contentExtractor: contentExtractor,
		articleRepo:      articleRepo,
		userAgent:        userAgent,
		fetchTimeout:     fetchTimeout,
	}
}

func (t *ExtractContentTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	articles, err := t.articleRepo.GetArticlesForExtraction(t.Source.ID, extractionBatchSize)
	if err != nil {
		return fmt.Errorf("failed to get articles for content extraction: %w", err)
	}

	if len(articles) == 0 {
		slog.Debug("No articles need content extraction", "source", t.Source.URL)
		return nil
	}

	successCount := 0
	errorCount := 0

	for _, article := range articles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := t.extractContentForArticle(ctx, article)
		if err != nil {
			slog.Error("Failed to extract content for article", "article_id", article.ID, "url", article.URL, "error", err)
			errorCount++

			now := time.Now().UTC()
			err = t.articleRepo.UpdateExtractedContent(article.ID, "", "failed", &now, err.Error())
			if err != nil {
				slog.Error("Failed to update content extraction status", "article_id", article.ID, "error", err)
			}
		} else {
			successCount++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.Source.URL,
		"duration", t.GetDuration(),
		"success", successCount,
		"errors", errorCount)

	return nil
}

func (t *ExtractContentTask) extractContentForArticle(ctx context.Context, article database.Article) error {
	if article.URL == "" {
		return fmt.Errorf("article has no URL")
	}

	data, err := t.fetchArticlePage(ctx, article.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch article page: %w", err)
	}

	extractedContent, err := t.contentExtractor.Run(data)
	if err != nil {
		return fmt.Errorf("failed to extract content: %w", err)
	}

	now := time.Now().UTC()
	err = t.articleRepo.UpdateExtractedContent(article.ID, extractedContent, "success", &now, "")
	if err != nil {
		return fmt.Errorf("failed to update extracted content: %w", err)
	}

	slog.Debug("Content extracted successfully", "article_id", article.ID, "url", article.URL, "content_length", len(extractedContent))
	return nil
}

func (t *ExtractContentTask) fetchArticlePage(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, t.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("content type is not HTML: %s", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
