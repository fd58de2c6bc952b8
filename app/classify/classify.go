package classify

import (
	"strings"
)

// SourceType is the closed set of feed source kinds.
type SourceType string

const (
	SourceTypeArticle SourceType = "article"
	SourceTypeYoutube SourceType = "youtube"
	SourceTypePodcast SourceType = "podcast"
)

func (t SourceType) Valid() bool {
	switch t {
	case SourceTypeArticle, SourceTypeYoutube, SourceTypePodcast:
		return true
	}
	return false
}

// youtubeIndicators are checked before any podcast rule; a URL that
// mentions YouTube is a video source no matter what else it matches.
var youtubeIndicators = []string{
	"youtube.com",
	"youtu.be",
}

// podcastIndicators are known podcast hosting domains.
var podcastIndicators = []string{
	"anchor.fm",
	"libsyn.com",
	"buzzsprout.com",
	"podbean.com",
	"spreaker.com",
	"soundcloud.com",
	"transistor.fm",
	"simplecast.com",
	"megaphone.fm",
	"audioboom.com",
	"captivate.fm",
	"podcasts.apple.com",
	"spotify.com/show",
	"blubrry.com",
	"fireside.fm",
	"acast.com",
	"castos.com",
	"redcircle.com",
	"omny.fm",
	"podtrac.com",
}

// podcastPatterns are path and extension hints used by self-hosted shows.
var podcastPatterns = []string{
	"/podcast",
	"/podcasts",
	".mp3",
	"podcast.rss",
	"podcast.xml",
}

// Classify maps a feed URL to a source type. Pure string matching, rules
// applied in order, first match wins.
func Classify(rawURL string) SourceType {
	url := strings.ToLower(rawURL)

	for _, indicator := range youtubeIndicators {
		if strings.Contains(url, indicator) {
			return SourceTypeYoutube
		}
	}
	if strings.Contains(url, "feeds.feedburner.com/") && strings.Contains(url, "youtube") {
		return SourceTypeYoutube
	}

	for _, indicator := range podcastIndicators {
		if strings.Contains(url, indicator) {
			return SourceTypePodcast
		}
	}
	for _, pattern := range podcastPatterns {
		if strings.Contains(url, pattern) {
			return SourceTypePodcast
		}
	}

	return SourceTypeArticle
}
