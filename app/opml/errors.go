package opml

import (
	"fmt"
)

// ParseError reports a malformed OPML document. The whole document is
// rejected; no partial record sequence is returned alongside it.
type ParseError struct {
	Line int64
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("opml parse error on line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("opml parse error: %s", e.Msg)
}

// FetchError reports a failure to retrieve an OPML document, either over
// HTTP (transport error, timeout, non-2xx status) or from the local
// filesystem. It is distinct from ParseError so callers can tell "could
// not get the bytes" from "the bytes were not OPML".
type FetchError struct {
	Location   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("opml fetch failed for %s: HTTP %d", e.Location, e.StatusCode)
	}
	return fmt.Sprintf("opml fetch failed for %s: %v", e.Location, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
