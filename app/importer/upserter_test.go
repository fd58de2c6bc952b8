package importer

import (
	"testing"

	"newsriver/app/classify"
	"newsriver/app/database"
)

func TestUpsertCreatesSource(t *testing.T) {
	repo := &mockSourceRepo{}
	upserter := NewSourceUpserter(repo)
	publisher := &database.Publisher{ID: 1, Name: "Blog", Slug: "blog"}

	outcome, source, err := upserter.Upsert(publisher, "https://blog.example.com/feed", classify.SourceTypeArticle, false)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if outcome != OutcomeProcessed {
		t.Errorf("Expected processed, got %s", outcome)
	}
	if source == nil {
		t.Fatal("Expected created source to be returned")
	}
	if source.PublisherID != 1 || source.Type != classify.SourceTypeArticle {
		t.Errorf("Unexpected source: %+v", source)
	}
}

func TestUpsertDuplicateWithoutForce(t *testing.T) {
	repo := &mockSourceRepo{}
	upserter := NewSourceUpserter(repo)
	publisher := &database.Publisher{ID: 1}

	if _, _, err := upserter.Upsert(publisher, "https://blog.example.com/feed", classify.SourceTypeArticle, false); err != nil {
		t.Fatal(err)
	}

	outcome, source, err := upserter.Upsert(publisher, "https://blog.example.com/feed", classify.SourceTypeArticle, false)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if outcome != OutcomeDuplicate {
		t.Errorf("Expected duplicate, got %s", outcome)
	}
	if source != nil {
		t.Error("Duplicate outcome must not return a source for sync")
	}
	if repo.updates != 0 {
		t.Error("Duplicate outcome must not mutate the existing source")
	}
}

func TestUpsertForceUpdatesInPlace(t *testing.T) {
	repo := &mockSourceRepo{}
	upserter := NewSourceUpserter(repo)
	original := &database.Publisher{ID: 1}
	replacement := &database.Publisher{ID: 2}

	if _, _, err := upserter.Upsert(original, "https://blog.example.com/feed", classify.SourceTypeArticle, false); err != nil {
		t.Fatal(err)
	}

	outcome, source, err := upserter.Upsert(replacement, "https://blog.example.com/feed", classify.SourceTypePodcast, true)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if outcome != OutcomeProcessed {
		t.Errorf("Expected processed, got %s", outcome)
	}
	if source == nil {
		t.Fatal("Force update should return the source for sync")
	}
	if source.PublisherID != 2 {
		t.Errorf("Expected publisher reassigned to 2, got %d", source.PublisherID)
	}
	if source.Type != classify.SourceTypePodcast {
		t.Errorf("Expected type podcast, got %q", source.Type)
	}
	if len(repo.sources) != 1 {
		t.Errorf("Force mode must update in place, got %d sources", len(repo.sources))
	}
}

func TestUpsertScopedDuplicate(t *testing.T) {
	repo := &mockSourceRepo{}
	upserter := NewSourceUpserter(repo)
	publisher := &database.Publisher{ID: 1}

	// Simulate a row the global URL lookup misses (a prior force run
	// shuffled ownership); the scoped pair check still catches it.
	repo.sources = append(repo.sources, &database.Source{
		ID:          7,
		PublisherID: 1,
		URL:         "https://blog.example.com/feed",
	})
	repo.globalMiss = map[string]bool{"https://blog.example.com/feed": true}

	outcome, _, err := upserter.Upsert(publisher, "https://blog.example.com/feed", classify.SourceTypeArticle, false)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if outcome != OutcomeDuplicate {
		t.Errorf("Expected duplicate, got %s", outcome)
	}
}
