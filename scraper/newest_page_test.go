package scraper

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hn-sort-checker/fetcher"
	"hn-sort-checker/models"
	"hn-sort-checker/parser"
)

// fakeElement records how often its attribute was read
type fakeElement struct {
	title *string
	reads *int
}

func (e fakeElement) Attribute(name string) (*string, error) {
	*e.reads++
	if name != titleAttr {
		return nil, nil
	}
	return e.title, nil
}

// fakePage serves a fixed set of listing pages; the "More" link is shown on
// every page except the last unless hideMore is set
type fakePage struct {
	pages    [][]*string
	current  int
	hideMore bool

	navigated []string
	clicks    int
	reads     int

	clickErr error
	waitErr  error
	elemErr  error
}

func (p *fakePage) Navigate(url string) error {
	p.navigated = append(p.navigated, url)
	return nil
}

func (p *fakePage) Elements(selector string) ([]fetcher.Element, error) {
	if p.elemErr != nil {
		return nil, p.elemErr
	}
	if selector != ageSelector {
		return nil, fmt.Errorf("unexpected selector %q", selector)
	}
	var elements []fetcher.Element
	for _, title := range p.pages[p.current] {
		elements = append(elements, fakeElement{title: title, reads: &p.reads})
	}
	return elements, nil
}

func (p *fakePage) Visible(selector string) (bool, error) {
	if selector != moreSelector {
		return false, fmt.Errorf("unexpected selector %q", selector)
	}
	return !p.hideMore && p.current < len(p.pages)-1, nil
}

func (p *fakePage) Click(selector string) error {
	if p.clickErr != nil {
		return p.clickErr
	}
	p.clicks++
	p.current++
	return nil
}

func (p *fakePage) WaitIdle() error {
	return p.waitErr
}

func (p *fakePage) Close() error {
	return nil
}

func title(ts int64) *string {
	s := fmt.Sprintf("2025-10-19T08:12:03 %d", ts)
	return &s
}

// listing builds pages of perPage descending timestamps starting at start
func listing(pages, perPage int, start int64) [][]*string {
	out := make([][]*string, pages)
	ts := start
	for i := range out {
		for j := 0; j < perPage; j++ {
			out[i] = append(out[i], title(ts))
			ts -= 60
		}
	}
	return out
}

func newTestPage(page fetcher.Page) (*NewestPage, *bytes.Buffer) {
	var buf bytes.Buffer
	np := NewNewestPage(page, NewestURL)
	np.SetLogger(log.New(&buf, "", 0))
	return np, &buf
}

func TestGotoNavigatesToListing(t *testing.T) {
	page := &fakePage{pages: listing(1, 1, 1000)}
	np, _ := newTestPage(page)

	require.NoError(t, np.Goto())
	assert.Equal(t, []string{NewestURL}, page.navigated)
}

func TestTimestampsForFirstPaginates(t *testing.T) {
	page := &fakePage{pages: listing(4, 30, 1760861523)}
	np, _ := newTestPage(page)

	timestamps, err := np.TimestampsForFirst(100)
	require.NoError(t, err)

	require.Len(t, timestamps, 100)
	assert.Equal(t, 3, page.clicks)
	assert.Equal(t, models.Timestamp(1760861523), timestamps[0])
	assert.Equal(t, models.Timestamp(1760861523-99*60), timestamps[99])
}

func TestTimestampsForFirstStopsAtCount(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		wantReads  int
		wantClicks int
	}{
		{"within first page", 5, 5, 0},
		{"exactly one page", 30, 30, 0},
		{"into second page", 31, 31, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &fakePage{pages: listing(3, 30, 1000000)}
			np, _ := newTestPage(page)

			timestamps, err := np.TimestampsForFirst(tt.count)
			require.NoError(t, err)
			assert.Len(t, timestamps, tt.count)
			assert.Equal(t, tt.wantReads, page.reads)
			assert.Equal(t, tt.wantClicks, page.clicks)
		})
	}
}

func TestTimestampsForFirstSkipsMissingTitles(t *testing.T) {
	empty := ""
	page := &fakePage{pages: [][]*string{
		{title(900), nil, title(800), &empty, title(700)},
		{nil, title(600)},
	}}
	np, logs := newTestPage(page)

	timestamps, err := np.TimestampsForFirst(4)
	require.NoError(t, err)

	assert.Equal(t, models.Sequence{900, 800, 700, 600}, timestamps)
	assert.Equal(t, 1, page.clicks)
	assert.Contains(t, logs.String(), "Warning: Found an age element with no title attribute (page 1, element 1)")
	assert.Contains(t, logs.String(), "(page 1, element 3)")
	assert.Contains(t, logs.String(), "(page 2, element 0)")
}

func TestTimestampsForFirstExhaustedSource(t *testing.T) {
	page := &fakePage{pages: listing(2, 21, 5000)}
	np, logs := newTestPage(page)

	timestamps, err := np.TimestampsForFirst(100)
	require.NoError(t, err)

	assert.Len(t, timestamps, 42)
	assert.Equal(t, 1, page.clicks)
	assert.Contains(t, logs.String(), "Warning: Could not find the 'More' link. Validating with the 42 articles found.")
}

func TestTimestampsForFirstHiddenMoreLink(t *testing.T) {
	page := &fakePage{pages: listing(3, 10, 5000), hideMore: true}
	np, logs := newTestPage(page)

	timestamps, err := np.TimestampsForFirst(25)
	require.NoError(t, err)

	assert.Len(t, timestamps, 10)
	assert.Zero(t, page.clicks)
	assert.Contains(t, logs.String(), "Could not find the 'More' link")
}

func TestTimestampsForFirstKeepsDisplayOrder(t *testing.T) {
	// The collector must not sort; ordering is checked later
	page := &fakePage{pages: [][]*string{{title(100), title(300), title(200)}}}
	np, _ := newTestPage(page)

	timestamps, err := np.TimestampsForFirst(3)
	require.NoError(t, err)
	assert.Equal(t, models.Sequence{100, 300, 200}, timestamps)
}

func TestTimestampsForFirstParseError(t *testing.T) {
	bad := "2025-10-19T08:12:03 soon"
	page := &fakePage{pages: [][]*string{{title(900), &bad, title(800)}}}
	np, _ := newTestPage(page)

	timestamps, err := np.TimestampsForFirst(3)
	require.Error(t, err)
	assert.Nil(t, timestamps)

	var perr *parser.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, bad, perr.Title)
	assert.Contains(t, err.Error(), "article 1 on page 1")
}

func TestTimestampsForFirstNavigationFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name string
		page *fakePage
		want string
	}{
		{"elements", &fakePage{pages: listing(2, 1, 10), elemErr: boom}, "failed to read articles on page 1"},
		{"click", &fakePage{pages: listing(2, 1, 10), clickErr: boom}, "failed to open page 2"},
		{"wait", &fakePage{pages: listing(2, 1, 10), waitErr: boom}, "failed to load page 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			np, _ := newTestPage(tt.page)

			_, err := np.TimestampsForFirst(2)
			require.Error(t, err)
			assert.ErrorIs(t, err, boom)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTimestampsForFirstRejectsNonPositiveCount(t *testing.T) {
	for _, count := range []int{0, -1} {
		page := &fakePage{pages: listing(1, 1, 10)}
		np, _ := newTestPage(page)

		_, err := np.TimestampsForFirst(count)
		assert.Error(t, err)
		assert.Zero(t, page.reads)
	}
}
