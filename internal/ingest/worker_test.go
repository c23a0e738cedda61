package ingest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"newsdesk/internal/model"
	"newsdesk/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockScraper struct {
	MockTitle  string
	ShouldFail bool
}

func (m *MockScraper) Scrape(url string, timeout time.Duration) (*readability.Article, error) {
	if m.ShouldFail {
		return nil, fmt.Errorf("simulated 404 error")
	}
	return &readability.Article{
		Title:   m.MockTitle,
		Content: "<p>This is fake content</p>",
		Excerpt: "  A short\n summary ",
	}, nil
}

type staticFeed struct {
	body string
}

func (f staticFeed) Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	return gofeed.NewParser().ParseString(f.body)
}

type storeSink struct {
	store *store.MemoryStore
}

func (s storeSink) Ingest(_ context.Context, a model.Article) error {
	return s.store.InsertArticle(a)
}

const rss = `<?xml version="1.0"?>
<rss version="2.0"><channel>
<title>Daily Wire</title>
<link>https://wire.example.com</link>
<item>
  <title>Polls open in the north</title>
  <link>https://wire.example.com/polls</link>
  <description>Voting began at 7am.</description>
  <category>Politics</category>
  <category>Election</category>
</item>
<item>
  <title>Match highlights</title>
  <link>https://wire.example.com/match</link>
  <enclosure url="https://wire.example.com/match.mp4" type="video/mp4" length="1024"/>
</item>
<item>
  <title>No link at all</title>
</item>
</channel></rss>`

var fixed = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestWorker(t *testing.T, q Queue) (*Worker, *store.MemoryStore) {
	t.Helper()
	st, err := store.NewMemoryStore(nil, nil, nil)
	require.NoError(t, err)
	w := NewWorker(q, storeSink{store: st}, zap.NewNop(), time.Second)
	w.now = func() time.Time { return fixed }
	return w, st
}

func TestWorker_ProcessPageJob(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	q, err := NewRedisQueue(mr.Addr())
	require.NoError(t, err)
	defer q.Close()

	w, st := newTestWorker(t, q)
	w.scraper = &MockScraper{MockTitle: "Mocked Title"}

	require.NoError(t, q.Push(context.Background(), Job{Kind: JobPage, URL: "https://www.fake-url.com/story"}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.Eventually(t, func() bool { return len(st.Articles()) == 1 }, 2*time.Second, 10*time.Millisecond)

	a := st.Articles()[0]
	assert.Equal(t, "Mocked Title", a.Title)
	assert.Equal(t, "A short summary", a.Excerpt)
	assert.Equal(t, "fake-url.com", a.Source)
	assert.Equal(t, model.StatusPending, a.Status)
	assert.Equal(t, model.DefaultSafetyScore, a.SafetyScore)
	assert.Equal(t, fixed, a.IngestionTime)
	assert.Equal(t, articleID("https://www.fake-url.com/story"), a.ID)
}

func TestWorker_ScrapeFailureAddsNothing(t *testing.T) {
	w, st := newTestWorker(t, NewChanQueue(1))
	w.scraper = &MockScraper{ShouldFail: true}

	w.processJob(context.Background(), Job{Kind: JobPage, URL: "https://fake-url.com/404"})

	assert.Empty(t, st.Articles())
}

func TestWorker_ProcessFeedJob(t *testing.T) {
	w, st := newTestWorker(t, NewChanQueue(1))
	w.feeds = staticFeed{body: rss}

	w.processJob(context.Background(), Job{Kind: JobFeed, URL: "https://wire.example.com/rss"})

	got := st.Articles()
	require.Len(t, got, 2)
	assert.Equal(t, "Polls open in the north", got[0].Title)
	assert.Equal(t, "Daily Wire", got[0].Source)
	assert.Equal(t, "Politics", got[0].NewsType)
	assert.Equal(t, []string{"politics", "election"}, got[0].Tags)
	assert.Equal(t, model.ContentArticle, got[0].ContentType)
	assert.Equal(t, model.ContentVideo, got[1].ContentType)
}

func TestWorker_DuplicateFeedItemsSkipped(t *testing.T) {
	w, st := newTestWorker(t, NewChanQueue(1))
	w.feeds = staticFeed{body: rss}
	job := Job{Kind: JobFeed, URL: "https://wire.example.com/rss"}

	w.processJob(context.Background(), job)
	w.processJob(context.Background(), job)

	assert.Len(t, st.Articles(), 2)
}

func TestWorker_StopsOnCancel(t *testing.T) {
	w, _ := newTestWorker(t, NewChanQueue(1))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc…", truncate("abcdef", 3))
}

func TestFromFeedItem_SkipsBlankCategories(t *testing.T) {
	feed := &gofeed.Feed{Title: "Wire"}
	item := &gofeed.Item{
		Title:      "Cabinet reshuffle",
		Link:       "https://example.com/reshuffle",
		Categories: []string{"  ", "Politics", "politics", "Cabinet"},
	}

	a := fromFeedItem(feed, item, time.Now())

	assert.Equal(t, "Politics", a.NewsType)
	assert.Equal(t, []string{"politics", "cabinet"}, a.Tags)
}

func TestFromFeedItem_CapsTags(t *testing.T) {
	item := &gofeed.Item{Link: "https://example.com/many"}
	for i := range model.MaxTags + 3 {
		item.Categories = append(item.Categories, fmt.Sprintf("Tag%d", i))
	}

	a := fromFeedItem(&gofeed.Feed{}, item, time.Now())

	assert.Len(t, a.Tags, model.MaxTags)
	assert.Equal(t, "Tag0", a.NewsType)
	assert.Equal(t, "example.com", a.Source)
}
