package models

import (
	"fmt"
	"time"
)

// Timestamp is the submission time of a listed article, in seconds since epoch
type Timestamp int64

// Time converts the timestamp to a UTC time.Time
func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// String formats the timestamp as RFC 3339 followed by the raw epoch value
func (t Timestamp) String() string {
	return fmt.Sprintf("%s (%d)", t.Time().Format(time.RFC3339), int64(t))
}

// Sequence is an ordered list of timestamps in page display order.
// Index 0 is the first article shown on the first page.
type Sequence []Timestamp

// Newest returns the first timestamp and false if the sequence is empty
func (s Sequence) Newest() (Timestamp, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return s[0], true
}

// Oldest returns the last timestamp and false if the sequence is empty
func (s Sequence) Oldest() (Timestamp, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1], true
}

// Span returns the time covered between the first and last article
func (s Sequence) Span() time.Duration {
	newest, ok := s.Newest()
	if !ok {
		return 0
	}
	oldest, _ := s.Oldest()
	return newest.Time().Sub(oldest.Time())
}
