package fetcher

import (
	"fmt"
	"time"
)

// Supported fetcher kinds
const (
	KindRod   = "rod"
	KindColly = "colly"
)

// Element is a single node on a loaded page
type Element interface {
	// Attribute returns the named attribute, or nil if the element does not have it
	Attribute(name string) (*string, error)
}

// Page is one isolated browsing context holding a single loaded document.
// Calls block until complete and must not be made concurrently.
type Page interface {
	// Navigate loads url and waits for the page to settle
	Navigate(url string) error
	// Elements returns all elements matching selector in document order
	Elements(selector string) ([]Element, error)
	// Visible reports whether the first element matching selector is present and interactable
	Visible(selector string) (bool, error)
	// Click activates the first element matching selector
	Click(selector string) error
	// WaitIdle blocks until the navigation triggered by the last Click has settled
	WaitIdle() error
	// Close disposes the browsing context
	Close() error
}

// Fetcher interface defines the contract for browsing implementations
type Fetcher interface {
	// NewPage opens a fresh, isolated browsing context
	NewPage() (Page, error)
	// Close releases the underlying browser or client
	Close() error
}

// New creates the fetcher implementation named by kind
func New(kind string, settleTimeout time.Duration) (Fetcher, error) {
	switch kind {
	case KindRod:
		return NewRodFetcher(settleTimeout)
	case KindColly:
		return NewCollyFetcher(settleTimeout), nil
	case "":
		return nil, fmt.Errorf("fetcher kind is required")
	default:
		return nil, fmt.Errorf("unknown fetcher: %s", kind)
	}
}
