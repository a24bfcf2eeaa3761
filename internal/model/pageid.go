package model

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// PageID errors.
var (
	// ErrInvalidPageID is returned when no Notion page id can be extracted
	// from the input string.
	ErrInvalidPageID = errors.New("invalid notion page id")
	// ErrEmptyPageID is returned when the input is empty.
	ErrEmptyPageID = errors.New("notion page id cannot be empty")
)

// Patterns for the two wire forms a Notion id appears in: the canonical
// hyphenated UUID and the bare 32-hex form embedded in share URLs.
var (
	uuid36Pattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
	uuid32Pattern = regexp.MustCompile(`[0-9a-fA-F]{32}`)
)

// shortIDLength is the number of leading hex characters used as the
// filename uniqueness fragment.
const shortIDLength = 10

// PageID is an immutable value object holding the canonical identity of a
// Notion page, database, or block: 36 characters, lowercase, hyphenated
// 8-4-4-4-12. Equality is value-based.
type PageID string

// ParsePageID extracts and canonicalizes a Notion id from an arbitrary
// string. Accepted inputs:
//   - a full Notion URL containing the id
//   - a bare 32-hex id
//   - an already-hyphenated 36-character id
//
// A direct 36-character hyphenated match wins; otherwise hyphens are
// stripped and exactly 32 hex characters must remain. Returns
// ErrInvalidPageID when neither form is found.
func ParsePageID(value string) (PageID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrEmptyPageID
	}

	if m := uuid36Pattern.FindString(value); m != "" {
		return PageID(strings.ToLower(m)), nil
	}

	m := uuid32Pattern.FindString(strings.ReplaceAll(value, "-", ""))
	if m == "" {
		return "", ErrInvalidPageID
	}

	// uuid.Parse accepts the bare 32-hex form and String() emits the
	// canonical lowercase hyphenated representation.
	id, err := uuid.Parse(m)
	if err != nil {
		return "", ErrInvalidPageID
	}
	return PageID(id.String()), nil
}

// MustParsePageID parses a known-valid page id or panics.
// Use only in tests or static initialization.
func MustParsePageID(value string) PageID {
	id, err := ParsePageID(value)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the canonical hyphenated form.
func (p PageID) String() string {
	return string(p)
}

// Compact returns the 32-hex form without hyphens, as used in notion.so URLs.
func (p PageID) Compact() string {
	return strings.ReplaceAll(string(p), "-", "")
}

// Short returns the leading hex characters used as a filename fragment.
func (p PageID) Short() string {
	compact := p.Compact()
	if len(compact) < shortIDLength {
		return compact
	}
	return compact[:shortIDLength]
}

// RemoteURL returns the notion.so URL for the page. This is the fallback
// link target for pages that were not exported locally.
func (p PageID) RemoteURL() string {
	return "https://www.notion.so/" + p.Compact()
}
