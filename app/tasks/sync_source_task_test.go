package tasks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"newsriver/app/classify"
	"newsriver/app/database"
	"newsriver/app/feed"
)

type mockSourceRepo struct {
	syncTimes map[int64]time.Time
}

func (m *mockSourceRepo) GetByID(id int64) (*database.Source, error)    { return nil, nil }
func (m *mockSourceRepo) GetByURL(url string) (*database.Source, error) { return nil, nil }
func (m *mockSourceRepo) GetByPublisherAndURL(publisherID int64, url string) (*database.Source, error) {
	return nil, nil
}
func (m *mockSourceRepo) Create(publisherID int64, url string, sourceType classify.SourceType) (*database.Source, error) {
	return nil, nil
}
func (m *mockSourceRepo) UpdateOwnership(sourceID, publisherID int64, sourceType classify.SourceType) error {
	return nil
}
func (m *mockSourceRepo) SetTracked(sourceID int64, tracked bool) error       { return nil }
func (m *mockSourceRepo) GetDueForSync(limit int) ([]database.Source, error)  { return nil, nil }
func (m *mockSourceRepo) ScheduleNextSync(id int64, nextSync time.Time) error { return nil }

func (m *mockSourceRepo) UpdateSyncTimes(sourceID int64, lastSynced, nextSync time.Time) error {
	if m.syncTimes == nil {
		m.syncTimes = make(map[int64]time.Time)
	}
	m.syncTimes[sourceID] = nextSync
	return nil
}

func (m *mockSourceRepo) GetSourceCount() (int, error) { return 0, nil }
func (m *mockSourceRepo) GetSourceCountByType() (map[classify.SourceType]int, error) {
	return nil, nil
}
func (m *mockSourceRepo) GetAll() ([]database.Source, error) { return nil, nil }

type mockArticleRepo struct {
	upserted []database.ArticleItem
	hashes   map[string]bool
}

func (m *mockArticleRepo) UpsertArticle(sourceID int64, item database.ArticleItem) error {
	if m.hashes == nil {
		m.hashes = make(map[string]bool)
	}
	m.upserted = append(m.upserted, item)
	m.hashes[item.ContentHash] = true
	return nil
}

func (m *mockArticleRepo) CheckDuplicate(sourceID int64, contentHash string) (bool, error) {
	return m.hashes[contentHash], nil
}

func (m *mockArticleRepo) GetArticlesForExtraction(sourceID int64, limit int) ([]database.Article, error) {
	return nil, nil
}

func (m *mockArticleRepo) UpdateExtractedContent(articleID int64, content, status string, extractedAt *time.Time, errorMsg string) error {
	return nil
}

func (m *mockArticleRepo) GetArticleCount() (int, error) { return len(m.upserted), nil }

const testFeed = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <item>
      <title>First</title>
      <link>https://example.com/first</link>
      <guid>first</guid>
    </item>
    <item>
      <title>Second</title>
      <link>https://example.com/second</link>
      <guid>second</guid>
    </item>
  </channel>
</rss>`

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testFeed))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSyncSourceStoresArticles(t *testing.T) {
	server := newFeedServer(t)

	sourceRepo := &mockSourceRepo{}
	articleRepo := &mockArticleRepo{}
	source := database.Source{ID: 1, URL: server.URL, Type: classify.SourceTypeArticle}

	task := NewSyncSourceTask(source, server.Client(), feed.NewParser(), sourceRepo, articleRepo,
		"test-agent", 10*time.Second, time.Hour)

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(articleRepo.upserted) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(articleRepo.upserted))
	}
	if articleRepo.upserted[0].GUID != "first" {
		t.Errorf("Expected GUID 'first', got %q", articleRepo.upserted[0].GUID)
	}

	nextSync, ok := sourceRepo.syncTimes[1]
	if !ok {
		t.Fatal("Expected sync times to be updated")
	}
	if !nextSync.After(time.Now().UTC().Add(50 * time.Minute)) {
		t.Errorf("Expected next sync about an hour out, got %v", nextSync)
	}
}

func TestSyncSourceSkipsDuplicates(t *testing.T) {
	server := newFeedServer(t)

	sourceRepo := &mockSourceRepo{}
	articleRepo := &mockArticleRepo{}
	source := database.Source{ID: 1, URL: server.URL, Type: classify.SourceTypeArticle}

	task := NewSyncSourceTask(source, server.Client(), feed.NewParser(), sourceRepo, articleRepo,
		"test-agent", 10*time.Second, time.Hour)

	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(articleRepo.upserted) != 2 {
		t.Errorf("Expected repeat sync to skip known articles, got %d upserts", len(articleRepo.upserted))
	}
}

func TestSyncSourceFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sourceRepo := &mockSourceRepo{}
	articleRepo := &mockArticleRepo{}
	source := database.Source{ID: 1, URL: server.URL, Type: classify.SourceTypeArticle}

	task := NewSyncSourceTask(source, server.Client(), feed.NewParser(), sourceRepo, articleRepo,
		"test-agent", 10*time.Second, time.Hour)

	if err := task.Execute(context.Background()); err == nil {
		t.Error("Expected error for failing feed fetch")
	}

	if len(sourceRepo.syncTimes) != 0 {
		t.Error("Failed sync must not update sync times")
	}
}

func TestSyncSourcePodcastEnclosureFallback(t *testing.T) {
	podcastFeed := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Podcast</title>
    <item>
      <title>Episode 1</title>
      <guid>ep1</guid>
      <enclosure url="https://example.com/ep1.mp3" length="1000" type="audio/mpeg"/>
    </item>
  </channel>
</rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(podcastFeed))
	}))
	defer server.Close()

	articleRepo := &mockArticleRepo{}
	source := database.Source{ID: 1, URL: server.URL, Type: classify.SourceTypePodcast}

	task := NewSyncSourceTask(source, server.Client(), feed.NewParser(), &mockSourceRepo{}, articleRepo,
		"test-agent", 10*time.Second, time.Hour)

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(articleRepo.upserted) != 1 {
		t.Fatalf("Expected 1 article, got %d", len(articleRepo.upserted))
	}
	if articleRepo.upserted[0].URL != "https://example.com/ep1.mp3" {
		t.Errorf("Expected enclosure URL fallback, got %q", articleRepo.upserted[0].URL)
	}
}
