package fetcher

import (
	"bytes"
	"fmt"
	"log"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// CollyFetcher implements the Fetcher interface using colly.
// It only works for server-rendered listings since no JavaScript is executed.
type CollyFetcher struct {
	requestTimeout time.Duration
}

// NewCollyFetcher creates a new CollyFetcher instance
func NewCollyFetcher(requestTimeout time.Duration) *CollyFetcher {
	return &CollyFetcher{
		requestTimeout: requestTimeout,
	}
}

// Close is a no-op; every page owns its own collector
func (cf *CollyFetcher) Close() error {
	return nil
}

// NewPage creates a page backed by a fresh collector with its own cookie jar
func (cf *CollyFetcher) NewPage() (Page, error) {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
	)
	if cf.requestTimeout > 0 {
		c.SetRequestTimeout(cf.requestTimeout)
	}

	p := &collyPage{collector: c}

	c.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			p.loadErr = fmt.Errorf("failed to parse HTML from %s: %w", r.Request.URL, err)
			return
		}
		p.doc = doc
		p.request = r.Request
		log.Printf("Fetched %s (%d bytes)\n", r.Request.URL, len(r.Body))
	})

	c.OnError(func(r *colly.Response, err error) {
		log.Printf("Error fetching %s: %v\n", r.Request.URL, err)
	})

	return p, nil
}

type collyPage struct {
	collector *colly.Collector
	doc       *goquery.Document
	request   *colly.Request

	loadErr error
	// navErr holds the outcome of the visit started by Click until WaitIdle reports it
	navErr error
}

func (p *collyPage) Navigate(url string) error {
	if err := p.visit(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (p *collyPage) visit(url string) error {
	p.loadErr = nil
	if err := p.collector.Visit(url); err != nil {
		return err
	}
	p.collector.Wait()
	return p.loadErr
}

func (p *collyPage) Elements(selector string) ([]Element, error) {
	if p.doc == nil {
		return nil, fmt.Errorf("failed to query %q: no page loaded", selector)
	}

	var elements []Element
	p.doc.Find(selector).Each(func(i int, s *goquery.Selection) {
		elements = append(elements, collyElement{sel: s})
	})
	return elements, nil
}

// Visible reports whether the control exists and links somewhere
func (p *collyPage) Visible(selector string) (bool, error) {
	if p.doc == nil {
		return false, fmt.Errorf("failed to look up %q: no page loaded", selector)
	}

	href, ok := p.doc.Find(selector).First().Attr("href")
	return ok && href != "", nil
}

func (p *collyPage) Click(selector string) error {
	if p.doc == nil {
		return fmt.Errorf("failed to click %q: no page loaded", selector)
	}

	href, ok := p.doc.Find(selector).First().Attr("href")
	if !ok || href == "" {
		return fmt.Errorf("no link matches %q", selector)
	}

	next := p.request.AbsoluteURL(href)
	if next == "" {
		return fmt.Errorf("failed to resolve link %q", href)
	}

	if err := p.visit(next); err != nil {
		p.navErr = fmt.Errorf("failed to load %s: %w", next, err)
	}
	return nil
}

func (p *collyPage) WaitIdle() error {
	err := p.navErr
	p.navErr = nil
	return err
}

func (p *collyPage) Close() error {
	p.doc = nil
	p.request = nil
	return nil
}

type collyElement struct {
	sel *goquery.Selection
}

func (e collyElement) Attribute(name string) (*string, error) {
	value, ok := e.sel.Attr(name)
	if !ok {
		return nil, nil
	}
	return &value, nil
}
