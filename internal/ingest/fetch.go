package ingest

import (
	"context"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"
)

// Scraper downloads a single web page and extracts its readable article.
type Scraper interface {
	Scrape(url string, timeout time.Duration) (*readability.Article, error)
}

type DefaultScraper struct{}

func (s *DefaultScraper) Scrape(url string, timeout time.Duration) (*readability.Article, error) {
	art, err := readability.FromURL(url, timeout)
	return &art, err
}

// FeedFetcher downloads and parses an RSS, Atom or JSON feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (*gofeed.Feed, error)
}

type DefaultFeedFetcher struct {
	parser *gofeed.Parser
}

func NewFeedFetcher() *DefaultFeedFetcher {
	return &DefaultFeedFetcher{parser: gofeed.NewParser()}
}

func (f *DefaultFeedFetcher) Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	return f.parser.ParseURLWithContext(url, ctx)
}
