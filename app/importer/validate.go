package importer

import (
	"fmt"
	"net/url"
	"strings"

	"newsriver/app/opml"
)

// ValidationError names the record field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record: %s %s", e.Field, e.Reason)
}

// validateRecord checks the required fields of a parsed outline record:
// a non-blank title and a syntactically valid xml_url.
func validateRecord(rec opml.Record) error {
	if strings.TrimSpace(rec.Get("title")) == "" {
		return &ValidationError{Field: "title", Reason: "is missing or blank"}
	}

	feedURL := strings.TrimSpace(rec.Get("xml_url"))
	if feedURL == "" {
		return &ValidationError{Field: "xml_url", Reason: "is missing or blank"}
	}

	parsed, err := url.ParseRequestURI(feedURL)
	if err != nil {
		return &ValidationError{Field: "xml_url", Reason: fmt.Sprintf("is not a valid URL: %v", err)}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &ValidationError{Field: "xml_url", Reason: fmt.Sprintf("has unsupported scheme %q", parsed.Scheme)}
	}
	if parsed.Host == "" {
		return &ValidationError{Field: "xml_url", Reason: "has no host"}
	}

	return nil
}
