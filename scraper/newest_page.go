package scraper

import (
	"fmt"
	"log"

	"hn-sort-checker/fetcher"
	"hn-sort-checker/models"
	"hn-sort-checker/parser"
)

// NewestURL is the listing of the most recently submitted articles
const NewestURL = "https://news.ycombinator.com/newest"

const (
	ageSelector  = "span.age"
	moreSelector = "a.morelink"
	titleAttr    = "title"
)

// NewestPage reads article timestamps from the "newest" listing, following
// the "More" link until enough articles have been seen.
type NewestPage struct {
	page   fetcher.Page
	url    string
	logger *log.Logger
}

// NewNewestPage creates a NewestPage driving page. The page is borrowed:
// closing it stays with the caller.
func NewNewestPage(page fetcher.Page, url string) *NewestPage {
	return &NewestPage{
		page:   page,
		url:    url,
		logger: log.Default(),
	}
}

// SetLogger replaces the logger used for progress and warnings
func (np *NewestPage) SetLogger(logger *log.Logger) {
	np.logger = logger
}

// Goto navigates to the listing and waits for it to settle
func (np *NewestPage) Goto() error {
	np.logger.Printf("Opening %s\n", np.url)
	return np.page.Navigate(np.url)
}

// TimestampsForFirst collects the timestamps of the first count articles in
// display order. If the listing runs out of pages first, the articles found so
// far are returned with a warning and no error.
func (np *NewestPage) TimestampsForFirst(count int) (models.Sequence, error) {
	if count <= 0 {
		return nil, fmt.Errorf("article count must be positive, got %d", count)
	}

	timestamps := make(models.Sequence, 0, count)
	pageNumber := 1

	for len(timestamps) < count {
		elements, err := np.page.Elements(ageSelector)
		if err != nil {
			return nil, fmt.Errorf("failed to read articles on page %d: %w", pageNumber, err)
		}

		for i, el := range elements {
			title, err := el.Attribute(titleAttr)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s of article %d on page %d: %w", titleAttr, i, pageNumber, err)
			}

			if title == nil || *title == "" {
				np.logger.Printf("Warning: Found an age element with no %s attribute (page %d, element %d)\n", titleAttr, pageNumber, i)
				continue
			}

			ts, err := parser.ParseTimestamp(*title)
			if err != nil {
				return nil, fmt.Errorf("article %d on page %d: %w", i, pageNumber, err)
			}
			timestamps = append(timestamps, ts)

			if len(timestamps) == count {
				break
			}
		}

		np.logger.Printf("Scanned page %d: %d/%d articles\n", pageNumber, len(timestamps), count)

		if len(timestamps) == count {
			break
		}

		more, err := np.page.Visible(moreSelector)
		if err != nil {
			return nil, fmt.Errorf("failed to check for the 'More' link on page %d: %w", pageNumber, err)
		}
		if !more {
			np.logger.Printf("Warning: Could not find the 'More' link. Validating with the %d articles found.\n", len(timestamps))
			break
		}

		if err := np.page.Click(moreSelector); err != nil {
			return nil, fmt.Errorf("failed to open page %d: %w", pageNumber+1, err)
		}
		if err := np.page.WaitIdle(); err != nil {
			return nil, fmt.Errorf("failed to load page %d: %w", pageNumber+1, err)
		}
		pageNumber++
	}

	return timestamps, nil
}
