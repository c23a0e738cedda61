package filter

import (
	"testing"
	"time"

	"newsdesk/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestEligible(t *testing.T) {
	now := base
	fresh := model.Article{Status: model.StatusPublished, PublishStatus: model.PublishLive, IngestionTime: now.Add(-23 * time.Hour)}
	edge := model.Article{Status: model.StatusPublished, PublishStatus: model.PublishLive, IngestionTime: now.Add(-24 * time.Hour)}
	stale := model.Article{Status: model.StatusPublished, PublishStatus: model.PublishLive, IngestionTime: now.Add(-25 * time.Hour)}
	pending := model.Article{Status: model.StatusPending, IngestionTime: now}

	assert.True(t, Eligible(fresh, now))
	assert.True(t, Eligible(edge, now))
	assert.False(t, Eligible(stale, now))
	assert.False(t, Eligible(pending, now))
}

func TestCandidates(t *testing.T) {
	articles := []model.Article{
		{ID: "c1", Title: "Budget", Status: model.StatusPublished, PublishStatus: model.PublishLive, NewsType: "Business", SafetyScore: 5, IngestionTime: base.Add(-time.Hour)},
		{ID: "c2", Title: "Goal!", Status: model.StatusPublished, PublishStatus: model.PublishLive, NewsType: "Sports", ContentType: model.ContentVideo, SafetyScore: 2, IngestionTime: base.Add(-2 * time.Hour)},
		{ID: "c3", Title: "Quake", Status: model.StatusPublished, PublishStatus: model.PublishLive, NewsType: "World", IsBreaking: true, SafetyScore: 3, Tags: []string{"disaster"}, IngestionTime: base.Add(-3 * time.Hour)},
		{ID: "old", Title: "Old", Status: model.StatusPublished, PublishStatus: model.PublishLive, NewsType: "Business", IngestionTime: base.Add(-48 * time.Hour)},
		{ID: "pend", Title: "Pending", Status: model.StatusPending, NewsType: "Business", IngestionTime: base},
	}

	assert.Equal(t, []string{"c1", "c2", "c3"}, ids(Candidates(articles, base, CandidateQuery{})))
	assert.Equal(t, []string{"c1"}, ids(Candidates(articles, base, CandidateQuery{Category: "business"})))
	assert.Equal(t, []string{"c2", "c3"}, ids(Candidates(articles, base, CandidateQuery{QuickFilters: []string{"video", "breaking"}})))
	assert.Equal(t, []string{"c1"}, ids(Candidates(articles, base, CandidateQuery{QuickFilters: []string{"high-safety"}})))
	assert.Equal(t, []string{"c3"}, ids(Candidates(articles, base, CandidateQuery{QuickFilters: []string{"disaster"}})))
	assert.Equal(t, []string{"c3", "c2", "c1"}, ids(Candidates(articles, base, CandidateQuery{Sort: SortIngestionAsc})))
}

func TestFilterCollections(t *testing.T) {
	list := []model.Collection{
		{ID: "r1", Title: "Morning brief", Status: model.CollectionLive},
		{ID: "r2", Title: "Evening brief", Status: model.CollectionPaused, Tags: []string{"Markets"}},
		{ID: "r3", Title: "Weekly", Status: model.CollectionLive},
	}

	var got []string
	for _, c := range FilterCollections(list, "live", "") {
		got = append(got, c.ID)
	}
	assert.Equal(t, []string{"r1", "r3"}, got)

	got = nil
	for _, c := range FilterCollections(list, All, "markets") {
		got = append(got, c.ID)
	}
	assert.Equal(t, []string{"r2"}, got)

	counts := CountCollections(list)
	assert.Equal(t, 2, counts[model.CollectionLive])
	assert.Equal(t, 0, counts[model.CollectionArchived])
}

func TestPublishedMembers(t *testing.T) {
	articles := []model.Article{
		{ID: "a", Status: model.StatusPublished, PublishStatus: model.PublishLive},
		{ID: "b", Status: model.StatusRejected},
		{ID: "c", Status: model.StatusPublished, PublishStatus: model.PublishExpired},
	}
	c := model.Collection{ArticleIDs: []string{"c", "b", "a", "gone"}}

	assert.Equal(t, []string{"c", "a"}, ids(PublishedMembers(c, articles)))
}
