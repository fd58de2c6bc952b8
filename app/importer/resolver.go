package importer

import (
	"fmt"

	"newsriver/app/database"
)

// PublisherResolver finds or creates the publisher identity for a feed
// title. Resolution converges on the same publisher for the same title
// across import runs; two different titles that happen to slugify
// identically get distinct publishers with suffixed slugs.
type PublisherResolver struct {
	publishers database.PublisherRepository
}

func NewPublisherResolver(publishers database.PublisherRepository) *PublisherResolver {
	return &PublisherResolver{publishers: publishers}
}

// Resolve returns the publisher for title, creating it with the first
// free slug (base, base-1, base-2, ...) when no existing publisher
// carries the title.
func (r *PublisherResolver) Resolve(title string) (*database.Publisher, error) {
	base := Slugify(title)
	if base == "" {
		base = "untitled"
	}

	// A concurrent import may win the slug between our lookup and the
	// insert; the unique constraint catches that and we retry.
	for attempt := 0; attempt < 3; attempt++ {
		slug := base
		for n := 1; ; n++ {
			existing, err := r.publishers.GetBySlug(slug)
			if err != nil {
				return nil, fmt.Errorf("failed to look up publisher slug %q: %w", slug, err)
			}
			if existing == nil {
				break
			}
			if existing.Name == title {
				return existing, nil
			}
			slug = fmt.Sprintf("%s-%d", base, n)
		}

		publisher, err := r.publishers.Create(title, slug)
		if err != nil {
			if database.IsUniqueViolation(err) {
				continue
			}
			return nil, fmt.Errorf("failed to create publisher %q: %w", title, err)
		}
		return publisher, nil
	}

	return nil, fmt.Errorf("failed to resolve publisher %q: slug contention", title)
}
