package importer

import (
	"fmt"
	"time"

	"newsriver/app/classify"
	"newsriver/app/database"
)

// In-memory repository fakes for unit tests. The end-to-end import test
// runs against a real sqlite database instead; see importer_test.go.

type mockPublisherRepo struct {
	publishers []*database.Publisher
	nextID     int64
	lookupErr  error
}

func (m *mockPublisherRepo) GetBySlug(slug string) (*database.Publisher, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	for _, p := range m.publishers {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPublisherRepo) Create(name, slug string) (*database.Publisher, error) {
	for _, p := range m.publishers {
		if p.Slug == slug {
			return nil, fmt.Errorf("UNIQUE constraint failed: publishers.slug")
		}
	}
	m.nextID++
	publisher := &database.Publisher{ID: m.nextID, Name: name, Slug: slug, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.publishers = append(m.publishers, publisher)
	return publisher, nil
}

func (m *mockPublisherRepo) GetPublisherCount() (int, error) {
	return len(m.publishers), nil
}

func (m *mockPublisherRepo) GetAll() ([]database.Publisher, error) {
	out := make([]database.Publisher, 0, len(m.publishers))
	for _, p := range m.publishers {
		out = append(out, *p)
	}
	return out, nil
}

type mockSourceRepo struct {
	sources []*database.Source
	nextID  int64
	updates int

	// URLs the global lookup pretends not to see, to exercise the
	// scoped (publisher, url) fallback check.
	globalMiss map[string]bool
}

func (m *mockSourceRepo) GetByID(id int64) (*database.Source, error) {
	for _, s := range m.sources {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockSourceRepo) GetByURL(url string) (*database.Source, error) {
	if m.globalMiss[url] {
		return nil, nil
	}
	for _, s := range m.sources {
		if s.URL == url {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockSourceRepo) GetByPublisherAndURL(publisherID int64, url string) (*database.Source, error) {
	for _, s := range m.sources {
		if s.PublisherID == publisherID && s.URL == url {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockSourceRepo) Create(publisherID int64, url string, sourceType classify.SourceType) (*database.Source, error) {
	m.nextID++
	source := &database.Source{
		ID:          m.nextID,
		PublisherID: publisherID,
		URL:         url,
		Type:        sourceType,
		Tracked:     true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	m.sources = append(m.sources, source)
	return source, nil
}

func (m *mockSourceRepo) UpdateOwnership(sourceID, publisherID int64, sourceType classify.SourceType) error {
	for _, s := range m.sources {
		if s.ID == sourceID {
			s.PublisherID = publisherID
			s.Type = sourceType
			m.updates++
			return nil
		}
	}
	return fmt.Errorf("source %d not found", sourceID)
}

func (m *mockSourceRepo) SetTracked(sourceID int64, tracked bool) error {
	return nil
}

func (m *mockSourceRepo) GetDueForSync(limit int) ([]database.Source, error) {
	return nil, nil
}

func (m *mockSourceRepo) ScheduleNextSync(sourceID int64, nextSync time.Time) error {
	return nil
}

func (m *mockSourceRepo) UpdateSyncTimes(sourceID int64, lastSynced, nextSync time.Time) error {
	return nil
}

func (m *mockSourceRepo) GetSourceCount() (int, error) {
	return len(m.sources), nil
}

func (m *mockSourceRepo) GetSourceCountByType() (map[classify.SourceType]int, error) {
	counts := make(map[classify.SourceType]int)
	for _, s := range m.sources {
		counts[s.Type]++
	}
	return counts, nil
}

func (m *mockSourceRepo) GetAll() ([]database.Source, error) {
	out := make([]database.Source, 0, len(m.sources))
	for _, s := range m.sources {
		out = append(out, *s)
	}
	return out, nil
}

type mockSyncScheduler struct {
	enqueued []database.Source
	delays   []time.Duration
}

func (m *mockSyncScheduler) EnqueueSourceSync(source database.Source, delay time.Duration) error {
	m.enqueued = append(m.enqueued, source)
	m.delays = append(m.delays, delay)
	return nil
}
