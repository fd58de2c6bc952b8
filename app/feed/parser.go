package feed

import (
	"bytes"
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Parser normalizes RSS, Atom and JSON feeds into a uniform item shape.
// Format detection is delegated to gofeed.
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(data []byte) (*Metadata, []Item, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title:       feed.Title,
		Link:        feed.Link,
		Description: feed.Description,
		Language:    feed.Language,
	}

	if feed.Image != nil {
		metadata.ImageURL = feed.Image.URL
	}
	metadata.PublishedAt = feed.PublishedParsed
	metadata.UpdatedAt = feed.UpdatedParsed

	items := make([]Item, 0, len(feed.Items))
	for _, item := range feed.Items {
		normalized := p.normalizeItem(item)
		normalized.ContentHash = p.generateContentHash(normalized)
		items = append(items, normalized)
	}

	return metadata, items, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Item {
	link := p.normalizeURL(item.Link)

	normalized := Item{
		GUID:        cmp.Or(item.GUID, link),
		Title:       item.Title,
		Link:        link,
		Description: item.Description,
		Content:     item.Content,
		PublishedAt: item.PublishedParsed,
		UpdatedAt:   item.UpdatedParsed,
	}

	if item.Image != nil {
		normalized.ImageURL = item.Image.URL
	}

	normalized.Authors = p.extractAuthors(item)

	if item.Categories != nil {
		normalized.Categories = item.Categories
	}

	// First enclosure only; RSS 2.0 allows one per item.
	if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
		enclosure := item.Enclosures[0]
		normalized.EnclosureURL = enclosure.URL
		normalized.EnclosureType = enclosure.Type

		if enclosure.Length != "" {
			if length, err := strconv.ParseInt(enclosure.Length, 10, 64); err == nil {
				normalized.EnclosureLength = length
			}
		}
	}

	return normalized
}

// trackingParams are query parameters that vary per campaign without
// changing the target page. Stripping them keeps content hashes stable
// across fetches of the same article.
var trackingParams = map[string]bool{
	"fbclid":  true,
	"gclid":   true,
	"msclkid": true,
	"igshid":  true,
	"mc_cid":  true,
	"mc_eid":  true,
	"ref":     true,
}

func (p *Parser) normalizeURL(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	query := parsed.Query()
	changed := false
	for key := range query {
		if trackingParams[key] || strings.HasPrefix(key, "utm_") {
			query.Del(key)
			changed = true
		}
	}

	if !changed {
		return rawURL
	}

	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// generateContentHash keys duplicate detection on title and link, the
// two fields feeds rarely rewrite between fetches.
func (p *Parser) generateContentHash(item Item) string {
	content := fmt.Sprintf("%s|%s",
		item.Title,
		item.Link)

	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

func (p *Parser) extractAuthors(item *gofeed.Item) []string {
	var authors []string

	if len(item.Authors) > 0 {
		for _, author := range item.Authors {
			if author != nil {
				authorStr := p.formatAuthor(author.Name, author.Email)
				if authorStr != "" {
					authors = append(authors, authorStr)
				}
			}
		}
	} else if item.Author != nil {
		authorStr := p.formatAuthor(item.Author.Name, item.Author.Email)
		if authorStr != "" {
			authors = append(authors, authorStr)
		}
	}

	return authors
}

func (p *Parser) formatAuthor(name, email string) string {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name != "" && email != "" {
		return fmt.Sprintf("%s (%s)", email, name)
	} else if name != "" {
		return name
	} else if email != "" {
		return email
	}

	return ""
}
