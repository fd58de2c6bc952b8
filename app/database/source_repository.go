package database

import (
	"database/sql"
	"fmt"
	"time"

	"newsriver/app/classify"
)

// SourceRepo handles database operations for sources.
type SourceRepo struct {
	db *DB
}

var _ SourceRepository = (*SourceRepo)(nil)

func NewSourceRepository(db *DB) *SourceRepo {
	return &SourceRepo{db: db}
}

const sourceColumns = `id, publisher_id, url, type, tracked, last_synced_at, next_sync_at, created_at, updated_at`

func (r *SourceRepo) scanSource(row *sql.Row) (*Source, error) {
	var source Source
	err := row.Scan(
		&source.ID, &source.PublisherID, &source.URL, &source.Type, &source.Tracked,
		&source.LastSyncedAt, &source.NextSyncAt, &source.CreatedAt, &source.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &source, nil
}

// GetByURL retrieves a source by feed URL alone. The URL is globally
// unique, independent of publisher.
func (r *SourceRepo) GetByURL(url string) (*Source, error) {
	source, err := r.scanSource(r.db.QueryRow(`
		SELECT `+sourceColumns+`
		FROM sources
		WHERE url = ?
	`, url))
	if err != nil {
		return nil, fmt.Errorf("failed to get source by URL: %w", err)
	}
	return source, nil
}

// GetByPublisherAndURL retrieves a source scoped to one publisher.
func (r *SourceRepo) GetByPublisherAndURL(publisherID int64, url string) (*Source, error) {
	source, err := r.scanSource(r.db.QueryRow(`
		SELECT `+sourceColumns+`
		FROM sources
		WHERE publisher_id = ? AND url = ?
	`, publisherID, url))
	if err != nil {
		return nil, fmt.Errorf("failed to get source by publisher and URL: %w", err)
	}
	return source, nil
}

// Create inserts a new tracked source due for immediate sync.
func (r *SourceRepo) Create(publisherID int64, url string, sourceType classify.SourceType) (*Source, error) {
	result, err := r.db.Exec(`
		INSERT INTO sources (publisher_id, url, type, tracked, next_sync_at)
		VALUES (?, ?, ?, 1, CURRENT_TIMESTAMP)
	`, publisherID, url, string(sourceType))
	if err != nil {
		// Unique violations propagate unwrapped so callers can map them
		// to a duplicate outcome.
		if IsUniqueViolation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create source: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get source id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID retrieves a source by primary key.
func (r *SourceRepo) GetByID(id int64) (*Source, error) {
	source, err := r.scanSource(r.db.QueryRow(`
		SELECT `+sourceColumns+`
		FROM sources
		WHERE id = ?
	`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get source by id: %w", err)
	}
	return source, nil
}

// UpdateOwnership rewrites a source's publisher reference and type in
// place. Used by force-mode imports; the URL and identity never change.
func (r *SourceRepo) UpdateOwnership(sourceID, publisherID int64, sourceType classify.SourceType) error {
	_, err := r.db.Exec(`
		UPDATE sources
		SET publisher_id = ?, type = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, publisherID, string(sourceType), sourceID)
	if err != nil {
		return fmt.Errorf("failed to update source ownership: %w", err)
	}
	return nil
}

// SetTracked flips a source's sync eligibility.
func (r *SourceRepo) SetTracked(sourceID int64, tracked bool) error {
	_, err := r.db.Exec(`
		UPDATE sources
		SET tracked = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, tracked, sourceID)
	if err != nil {
		return fmt.Errorf("failed to set source tracked status: %w", err)
	}
	return nil
}

// GetDueForSync returns tracked sources whose next sync time has passed.
func (r *SourceRepo) GetDueForSync(limit int) ([]Source, error) {
	rows, err := r.db.Query(`
		SELECT `+sourceColumns+`
		FROM sources
		WHERE tracked = 1
		  AND (next_sync_at IS NULL OR next_sync_at <= CURRENT_TIMESTAMP)
		ORDER BY COALESCE(next_sync_at, '1970-01-01')
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get sources due for sync: %w", err)
	}
	defer rows.Close()

	return r.collectSources(rows)
}

// GetAll returns every source ordered by creation time.
func (r *SourceRepo) GetAll() ([]Source, error) {
	rows, err := r.db.Query(`
		SELECT ` + sourceColumns + `
		FROM sources
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get sources: %w", err)
	}
	defer rows.Close()

	return r.collectSources(rows)
}

func (r *SourceRepo) collectSources(rows *sql.Rows) ([]Source, error) {
	var sources []Source
	for rows.Next() {
		var source Source
		err := rows.Scan(
			&source.ID, &source.PublisherID, &source.URL, &source.Type, &source.Tracked,
			&source.LastSyncedAt, &source.NextSyncAt, &source.CreatedAt, &source.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source rows: %w", err)
	}

	return sources, nil
}

// ScheduleNextSync moves a source's next sync time without marking a
// sync as completed. Used to stagger initial syncs after an import.
func (r *SourceRepo) ScheduleNextSync(sourceID int64, nextSync time.Time) error {
	_, err := r.db.Exec(`
		UPDATE sources
		SET next_sync_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, nextSync, sourceID)
	if err != nil {
		return fmt.Errorf("failed to schedule source sync: %w", err)
	}
	return nil
}

// UpdateSyncTimes records a completed sync and schedules the next one.
func (r *SourceRepo) UpdateSyncTimes(sourceID int64, lastSynced, nextSync time.Time) error {
	_, err := r.db.Exec(`
		UPDATE sources
		SET last_synced_at = ?, next_sync_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, lastSynced, nextSync, sourceID)
	if err != nil {
		return fmt.Errorf("failed to update source sync times: %w", err)
	}
	return nil
}

// GetSourceCount returns the total number of sources.
func (r *SourceRepo) GetSourceCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM sources").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get source count: %w", err)
	}
	return count, nil
}

// GetSourceCountByType returns source counts keyed by type.
func (r *SourceRepo) GetSourceCountByType() (map[classify.SourceType]int, error) {
	rows, err := r.db.Query("SELECT type, COUNT(*) FROM sources GROUP BY type")
	if err != nil {
		return nil, fmt.Errorf("failed to get source counts by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[classify.SourceType]int)
	for rows.Next() {
		var typ string
		var count int
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, fmt.Errorf("failed to scan source count row: %w", err)
		}
		counts[classify.SourceType(typ)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source count rows: %w", err)
	}

	return counts, nil
}
