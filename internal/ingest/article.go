package ingest

import (
	"cmp"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"newsdesk/internal/model"
)

const maxExcerpt = 280

// articleID is stable per URL so re-ingesting the same link is detected as a duplicate.
func articleID(link string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).String()
}

func fromPage(link string, page *readability.Article, now time.Time) model.Article {
	return model.Article{
		ID:            articleID(link),
		Title:         clean(cmp.Or(page.Title, link)),
		Excerpt:       truncate(clean(page.Excerpt), maxExcerpt),
		Source:        host(link),
		URL:           link,
		IngestionTime: now,
		ContentType:   model.ContentArticle,
		SafetyScore:   model.DefaultSafetyScore,
		Tags:          []string{},
		SubType:       []string{},
		Status:        model.StatusPending,
	}
}

func fromFeedItem(feed *gofeed.Feed, item *gofeed.Item, now time.Time) model.Article {
	link := cmp.Or(item.Link, item.GUID)
	a := model.Article{
		ID:            articleID(link),
		Title:         clean(cmp.Or(item.Title, link)),
		Excerpt:       truncate(clean(item.Description), maxExcerpt),
		Source:        cmp.Or(clean(feed.Title), host(link)),
		URL:           link,
		IngestionTime: now,
		ContentType:   model.ContentArticle,
		SafetyScore:   model.DefaultSafetyScore,
		Tags:          []string{},
		SubType:       []string{},
		Status:        model.StatusPending,
	}
	if len(item.Enclosures) > 0 && item.Enclosures[0] != nil && strings.HasPrefix(item.Enclosures[0].Type, "video/") {
		a.ContentType = model.ContentVideo
	}
	for _, c := range item.Categories {
		c = clean(c)
		if c == "" {
			continue
		}
		if a.NewsType == "" {
			a.NewsType = c
		}
		tag := strings.ToLower(c)
		if len(a.Tags) < model.MaxTags && !slices.Contains(a.Tags, tag) {
			a.Tags = append(a.Tags, tag)
		}
	}
	return a
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}

func host(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return link
	}
	return strings.TrimPrefix(u.Host, "www.")
}
