package database

import (
	"database/sql"
	"fmt"
)

// PublisherRepo handles database operations for publishers.
type PublisherRepo struct {
	db *DB
}

var _ PublisherRepository = (*PublisherRepo)(nil)

func NewPublisherRepository(db *DB) *PublisherRepo {
	return &PublisherRepo{db: db}
}

// GetBySlug retrieves a publisher by its unique slug. Returns nil
// without an error when no publisher matches.
func (r *PublisherRepo) GetBySlug(slug string) (*Publisher, error) {
	var publisher Publisher
	err := r.db.QueryRow(`
		SELECT id, name, slug, created_at, updated_at
		FROM publishers
		WHERE slug = ?
	`, slug).Scan(
		&publisher.ID, &publisher.Name, &publisher.Slug,
		&publisher.CreatedAt, &publisher.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get publisher by slug: %w", err)
	}

	return &publisher, nil
}

// Create inserts a new publisher. The slug's UNIQUE constraint is the
// authority on uniqueness; callers detect races via IsUniqueViolation.
func (r *PublisherRepo) Create(name, slug string) (*Publisher, error) {
	result, err := r.db.Exec(`
		INSERT INTO publishers (name, slug)
		VALUES (?, ?)
	`, name, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get publisher id: %w", err)
	}

	return r.getByID(id)
}

func (r *PublisherRepo) getByID(id int64) (*Publisher, error) {
	var publisher Publisher
	err := r.db.QueryRow(`
		SELECT id, name, slug, created_at, updated_at
		FROM publishers
		WHERE id = ?
	`, id).Scan(
		&publisher.ID, &publisher.Name, &publisher.Slug,
		&publisher.CreatedAt, &publisher.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get publisher by id: %w", err)
	}

	return &publisher, nil
}

// GetAll returns every publisher ordered by name.
func (r *PublisherRepo) GetAll() ([]Publisher, error) {
	rows, err := r.db.Query(`
		SELECT id, name, slug, created_at, updated_at
		FROM publishers
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get publishers: %w", err)
	}
	defer rows.Close()

	var publishers []Publisher
	for rows.Next() {
		var publisher Publisher
		err := rows.Scan(
			&publisher.ID, &publisher.Name, &publisher.Slug,
			&publisher.CreatedAt, &publisher.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan publisher row: %w", err)
		}
		publishers = append(publishers, publisher)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating publisher rows: %w", err)
	}

	return publishers, nil
}

// GetPublisherCount returns the total number of publishers.
func (r *PublisherRepo) GetPublisherCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM publishers").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get publisher count: %w", err)
	}
	return count, nil
}
