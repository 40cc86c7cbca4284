package parser

import (
	"fmt"
	"strconv"
	"strings"

	"hn-sort-checker/models"
)

// timestampField is the position of the epoch value inside an age title.
// The listing renders titles as "2025-10-19T08:12:03 1760861523".
const timestampField = 1

// ParseError reports an age title whose timestamp token could not be read
type ParseError struct {
	Title  string // raw attribute value
	Token  string // token that failed to convert, empty if missing
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("failed to parse timestamp from %q: %s", e.Title, e.Reason)
	}
	return fmt.Sprintf("failed to parse timestamp token %q from %q: %s", e.Token, e.Title, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseTimestamp extracts the epoch timestamp from an age element's title.
// The title is split on whitespace and the second token must be an integer.
func ParseTimestamp(title string) (models.Timestamp, error) {
	fields := strings.Fields(title)
	if len(fields) <= timestampField {
		return 0, &ParseError{
			Title:  title,
			Reason: fmt.Sprintf("expected at least %d space-separated tokens, got %d", timestampField+1, len(fields)),
		}
	}

	token := fields[timestampField]
	value, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, &ParseError{
			Title:  title,
			Token:  token,
			Reason: "not an integer",
			Err:    err,
		}
	}

	return models.Timestamp(value), nil
}
