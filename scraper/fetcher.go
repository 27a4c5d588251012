package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly"
)

// Fetcher retrieves the raw content of one catalogue page
type Fetcher interface {
	Fetch(ctx context.Context, page int) ([]byte, error)
}

// CollyFetcher fetches pages with a fresh colly collector per request
type CollyFetcher struct {
	urlTemplate string
	userAgent   string
	timeout     time.Duration
}

// NewCollyFetcher creates a fetcher for urlTemplate, which takes the page number as its only %d verb
func NewCollyFetcher(urlTemplate, userAgent string, timeout time.Duration) *CollyFetcher {
	return &CollyFetcher{
		urlTemplate: urlTemplate,
		userAgent:   userAgent,
		timeout:     timeout,
	}
}

// PageURL returns the URL for a page number
func (f *CollyFetcher) PageURL(page int) string {
	return fmt.Sprintf(f.urlTemplate, page)
}

// Fetch downloads one page. Every failure is wrapped in ErrNetwork.
func (f *CollyFetcher) Fetch(ctx context.Context, page int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: page %d: %v", ErrNetwork, page, err)
	}

	c := colly.NewCollector(
		colly.UserAgent(f.userAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(f.timeout)

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	if err := c.Visit(f.PageURL(page)); err != nil {
		return nil, fmt.Errorf("%w: page %d: %v", ErrNetwork, page, err)
	}
	if body == nil {
		return nil, fmt.Errorf("%w: page %d: empty response", ErrNetwork, page)
	}

	return body, nil
}
