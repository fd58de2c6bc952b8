package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// ArticleRepo handles database operations for articles.
type ArticleRepo struct {
	db *DB
}

var _ ArticleRepository = (*ArticleRepo)(nil)

func NewArticleRepository(db *DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

// UpsertArticle stores a synced article, updating mutable fields when
// the (source_id, guid) pair already exists.
func (r *ArticleRepo) UpsertArticle(sourceID int64, item ArticleItem) error {
	authors, err := encodeStrings(item.Authors)
	if err != nil {
		return fmt.Errorf("failed to encode authors: %w", err)
	}
	categories, err := encodeStrings(item.Categories)
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO articles (
			source_id, guid, url, title, description, content,
			image_url, authors, categories, published_at, content_hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (source_id, guid) DO UPDATE SET
			url = excluded.url,
			title = excluded.title,
			description = excluded.description,
			content = excluded.content,
			image_url = excluded.image_url,
			authors = excluded.authors,
			categories = excluded.categories,
			published_at = excluded.published_at,
			content_hash = excluded.content_hash
	`, sourceID, item.GUID, item.URL, item.Title, item.Description, item.Content,
		item.ImageURL, authors, categories, item.PublishedAt, item.ContentHash)

	if err != nil {
		return fmt.Errorf("failed to upsert article: %w", err)
	}

	return nil
}

// CheckDuplicate reports whether a source already holds an article with
// the given content hash.
func (r *ArticleRepo) CheckDuplicate(sourceID int64, contentHash string) (bool, error) {
	var id int64
	err := r.db.QueryRow(`
		SELECT id FROM articles WHERE source_id = ? AND content_hash = ? LIMIT 1
	`, sourceID, contentHash).Scan(&id)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate article: %w", err)
	}

	return true, nil
}

// GetArticlesForExtraction returns articles still awaiting full-content
// extraction for a source.
func (r *ArticleRepo) GetArticlesForExtraction(sourceID int64, limit int) ([]Article, error) {
	rows, err := r.db.Query(`
		SELECT id, source_id, guid, COALESCE(url, ''), COALESCE(title, ''),
		       COALESCE(content, ''), extraction_status, created_at
		FROM articles
		WHERE source_id = ?
		  AND extraction_status = 'pending'
		ORDER BY created_at
		LIMIT ?
	`, sourceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles for extraction: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var article Article
		err := rows.Scan(
			&article.ID, &article.SourceID, &article.GUID, &article.URL,
			&article.Title, &article.Content, &article.ExtractionStatus, &article.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

// UpdateExtractedContent stores extraction results for an article.
func (r *ArticleRepo) UpdateExtractedContent(articleID int64, content, status string, extractedAt *time.Time, errorMsg string) error {
	var err error
	if content != "" {
		_, err = r.db.Exec(`
			UPDATE articles
			SET content = ?, extraction_status = ?, extracted_at = ?, extraction_error = ?
			WHERE id = ?
		`, content, status, extractedAt, errorMsg, articleID)
	} else {
		_, err = r.db.Exec(`
			UPDATE articles
			SET extraction_status = ?, extracted_at = ?, extraction_error = ?
			WHERE id = ?
		`, status, extractedAt, errorMsg, articleID)
	}

	if err != nil {
		return fmt.Errorf("failed to update extracted content: %w", err)
	}

	return nil
}

// GetArticleCount returns the total number of stored articles.
func (r *ArticleRepo) GetArticleCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get article count: %w", err)
	}
	return count, nil
}

func encodeStrings(values []string) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
