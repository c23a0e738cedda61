package dashboard

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"newsdesk/internal/event"
	"newsdesk/internal/filter"
	"newsdesk/internal/model"
	"newsdesk/internal/notify"
	"newsdesk/internal/prefs"
	"newsdesk/internal/store"
	"newsdesk/internal/workflow"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

var now = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func article(id, title string, status model.ArticleStatus, age time.Duration, score int, tags ...string) model.Article {
	a := model.Article{
		ID:            id,
		Title:         title,
		Source:        "Wire",
		IngestionTime: now.Add(-age),
		ContentType:   model.ContentArticle,
		SafetyScore:   score,
		Tags:          tags,
		Status:        status,
	}
	if status == model.StatusPublished {
		a.PublishStatus = model.PublishLive
	}
	return a
}

func fixture() ([]model.Article, []model.Collection, []model.Collection) {
	articles := []model.Article{
		article("p1", "Election results awaited", model.StatusPending, time.Hour, 4),
		article("p2", "Budget session opens", model.StatusPending, 2*time.Hour, 3, "election"),
		article("p3", "Rain alert for the coast", model.StatusPending, 3*time.Hour, 5),
		article("p4", "Election commission notice", model.StatusPending, 30*time.Minute, 2),
		article("p5", "Tech expo opens", model.StatusPending, 5*time.Hour, 3),
		article("r1", "Election debate recap", model.StatusReview, time.Hour, 3),
		article("j1", "Fake poll numbers", model.StatusRejected, 2*time.Hour, 1),
		article("pub1", "Election day live", model.StatusPublished, time.Hour, 4),
		article("pub2", "Metro opens", model.StatusPublished, 2*time.Hour, 4),
		article("pub3", "Heatwave warning", model.StatusPublished, 3*time.Hour, 5),
		article("pub4", "Squad announced", model.StatusPublished, 4*time.Hour, 3),
		article("pub5", "Shipments rebound", model.StatusPublished, 5*time.Hour, 4),
	}
	roundups := []model.Collection{{
		ID: "roundup-1", Kind: model.KindRoundup, Title: "Morning Brief", Status: model.CollectionLive,
		ArticleIDs: []string{"pub2", "pub3"},
	}}
	stories := []model.Collection{{
		ID: "story-1", Kind: model.KindStory, Title: "Polls", Status: model.CollectionExpired,
		ArticleIDs: []string{"pub1"},
	}}
	return articles, roundups, stories
}

type DashboardSuite struct {
	suite.Suite

	ctx     context.Context
	store   *store.MemoryStore
	notices *notify.Recorder
	events  *event.Memory
	flags   *prefs.BadgerFlags
	dash    *Dashboard
}

func TestDashboardSuite(t *testing.T) {
	suite.Run(t, new(DashboardSuite))
}

func (s *DashboardSuite) SetupTest() {
	s.ctx = context.Background()
	articles, roundups, stories := fixture()
	var err error
	s.store, err = store.NewMemoryStore(articles, roundups, stories)
	s.Require().NoError(err)
	s.flags, err = prefs.OpenBadger("")
	s.Require().NoError(err)
	s.notices = notify.NewRecorder()
	s.events = &event.Memory{}

	s.dash, err = New(Options{
		Store:    s.store,
		Notifier: s.notices,
		Events:   s.events,
		Flags:    s.flags,
		Logger:   zap.NewNop(),
		Clock:    func() time.Time { return now },
		Display:  workflow.Display{Location: time.UTC, Label: "UTC"},
	})
	s.Require().NoError(err)
}

func (s *DashboardSuite) TearDownTest() {
	s.flags.Close()
}

func (s *DashboardSuite) lastNotice() notify.Notice {
	n, ok := s.notices.Last()
	s.Require().True(ok, "expected a notice")
	return n
}

func ids(articles []model.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.ID
	}
	return out
}

func (s *DashboardSuite) TestInitialView() {
	v := s.dash.View()

	s.Equal(TabPublishing, v.Tab)
	s.Equal("pending", v.Subtab)
	s.Equal(5, v.Counts[model.StatusPending])
	s.Equal([]string{"p4", "p1", "p2", "p3", "p5"}, ids(v.Articles))
	s.Require().NotNil(v.Focused)
	s.Equal("p4", v.Focused.ID, "first record of the view is focused")
	s.Equal([]string{"p4"}, v.Viewed)
	s.True(v.OnboardingPending)
	s.Require().Len(v.Groups, 1)
	s.Equal("Today", v.Groups[0].Label)
}

func (s *DashboardSuite) TestSearchElectionInPending() {
	q := filter.DefaultQuery()
	q.Search = "ELECTION"

	s.Require().NoError(s.dash.SetQuery(s.ctx, q))

	v := s.dash.View()
	if diff := cmp.Diff([]string{"p4", "p1", "p2"}, ids(v.Articles)); diff != "" {
		s.Failf("unexpected view", "(-want +got):\n%s", diff)
	}
	for _, a := range v.Articles {
		s.Equal(model.StatusPending, a.Status)
	}
}

func (s *DashboardSuite) TestSetQueryKeepsVisibleFocus() {
	s.Require().NoError(s.dash.Focus(s.ctx, "p2"))

	q := filter.DefaultQuery()
	q.Sort = filter.SortTitleAsc
	s.Require().NoError(s.dash.SetQuery(s.ctx, q))
	s.Equal("p2", s.dash.View().Focused.ID, "sort change keeps the focused article")

	q.Search = "election"
	s.Require().NoError(s.dash.SetQuery(s.ctx, q))
	s.Equal("p2", s.dash.View().Focused.ID, "search still lists the focused article")

	q.Search = "rain"
	s.Require().NoError(s.dash.SetQuery(s.ctx, q))
	s.Equal("p3", s.dash.View().Focused.ID, "focus moves when the article drops out")

	q.Search = ""
	q.StatusBucket = "review"
	s.Require().NoError(s.dash.SetQuery(s.ctx, q))
	s.Equal("r1", s.dash.View().Focused.ID)
}

func (s *DashboardSuite) TestSetQueryRejectsUnknownSort() {
	q := filter.DefaultQuery()
	q.Sort = "random"

	err := s.dash.SetQuery(s.ctx, q)

	s.ErrorIs(err, model.ErrValidation)
	s.Equal(filter.SortIngestionDesc, s.dash.View().Query.Sort)
	s.Equal(notify.LevelError, s.lastNotice().Level)
}

func (s *DashboardSuite) TestSelectionCapacityWarns() {
	s.Require().NoError(s.dash.SetSubtab(s.ctx, filter.All))
	for _, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		_, err := s.dash.ToggleSelect(s.ctx, id)
		s.Require().NoError(err)
	}

	_, err := s.dash.ToggleSelect(s.ctx, "r1")

	s.ErrorIs(err, model.ErrCapacity)
	s.Equal([]string{"p1", "p2", "p3", "p4", "p5"}, s.dash.View().Selection.SelectedIDs)
	n := s.lastNotice()
	s.Equal(notify.LevelWarning, n.Level)
	s.Equal("Selection limit reached", n.Title)
}

func (s *DashboardSuite) TestToggleSelectOutsideView() {
	_, err := s.dash.ToggleSelect(s.ctx, "pub1")

	s.ErrorIs(err, model.ErrValidation)
	s.Empty(s.dash.View().Selection.SelectedIDs)
}

func (s *DashboardSuite) TestSubtabChangeClearsSelection() {
	_, err := s.dash.ToggleSelect(s.ctx, "p1")
	s.Require().NoError(err)

	s.Require().NoError(s.dash.SetSubtab(s.ctx, "review"))

	v := s.dash.View()
	s.Empty(v.Selection.SelectedIDs)
	s.False(v.Selection.BulkMode)
	s.Equal("r1", v.Focused.ID)
}

func (s *DashboardSuite) TestSuggestAndApplyBulk() {
	suggested, err := s.dash.SuggestBulk(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"p3", "p1", "p2", "p5", "p4"}, suggested)
	sel := s.dash.View().Selection
	s.True(sel.SuggestMode)
	s.True(sel.BulkMode)

	res, err := s.dash.ApplyBulk(s.ctx, workflow.ActionReview)

	s.Require().NoError(err)
	s.Len(res.Applied, 5)
	s.Empty(res.Skipped)
	v := s.dash.View()
	s.Empty(v.Selection.SelectedIDs)
	s.Equal(6, v.Counts[model.StatusReview])
	s.Equal("5 articles moved to review", s.lastNotice().Title)
	s.Len(s.events.Events(), 5)
}

func (s *DashboardSuite) TestSuggestInsufficient() {
	s.Require().NoError(s.dash.SetSubtab(s.ctx, "rejected"))

	_, err := s.dash.SuggestBulk(s.ctx)

	s.ErrorIs(err, model.ErrInsufficient)
	s.Equal("Insufficient articles for bulk suggestion", s.lastNotice().Title)
	s.False(s.dash.View().Selection.SuggestMode)
}

func (s *DashboardSuite) TestApplyBulkSkipsStaleSelection() {
	for _, id := range []string{"p1", "p2"} {
		_, err := s.dash.ToggleSelect(s.ctx, id)
		s.Require().NoError(err)
	}
	_, err := s.dash.ArticleAction(s.ctx, "p2", 0, workflow.ActionPublish)
	s.Require().NoError(err)
	s.Equal([]string{"p1", "p2"}, s.dash.View().Selection.SelectedIDs, "stale ids are not evicted")

	res, err := s.dash.ApplyBulk(s.ctx, workflow.ActionReject)

	s.Require().NoError(err)
	s.Equal([]string{"p1"}, res.Applied)
	s.Equal([]string{"p2"}, res.Skipped)
	s.Contains(s.lastNotice().Description, "1 skipped")
}

func (s *DashboardSuite) TestApplyBulkEmptySelection() {
	_, err := s.dash.ApplyBulk(s.ctx, workflow.ActionPublish)

	s.ErrorIs(err, model.ErrInsufficient)
	n := s.lastNotice()
	s.Equal("No articles selected", n.Title)
	s.Equal(notify.LevelWarning, n.Level)
}

func (s *DashboardSuite) TestArticleActionEmitsEvent() {
	a, err := s.dash.ArticleAction(s.ctx, "p4", 1, workflow.ActionPublish)

	s.Require().NoError(err)
	s.Equal(model.StatusPublished, a.Status)
	s.Equal(model.PublishLive, a.PublishStatus)
	s.Equal([]string{event.ArticleStatusChanged}, s.events.Names())
	change := s.events.Events()[0].Payload.(StatusChange)
	s.Equal(model.StatusPending, change.From)
	s.Equal(model.StatusPublished, change.To)
	s.Equal("p1", s.dash.View().Focused.ID, "focus moves off an article that left the view")
}

func (s *DashboardSuite) TestArticleActionVersionConflict() {
	_, err := s.dash.ArticleAction(s.ctx, "p1", 7, workflow.ActionReject)

	s.ErrorIs(err, model.ErrConflict)
	a, _ := s.store.Article("p1")
	s.Equal(model.StatusPending, a.Status)
	s.Empty(s.events.Events())
}

func (s *DashboardSuite) TestArticleActionInvalidTransition() {
	_, err := s.dash.ArticleAction(s.ctx, "j1", 0, workflow.ActionPublish)

	s.ErrorIs(err, model.ErrInvalidTransition)
	s.Equal(notify.LevelError, s.lastNotice().Level)
}

func (s *DashboardSuite) TestEditArticle() {
	title := "Election results expected tonight"
	tags := []string{"Election", "Results"}

	a, err := s.dash.EditArticle(s.ctx, "p1", 0, model.ArticlePatch{Title: &title, Tags: &tags})

	s.Require().NoError(err)
	s.Equal(title, a.Title)
	s.Equal([]string{"election", "results"}, a.Tags)
	s.Equal(int64(2), a.Version)
}

func (s *DashboardSuite) TestEditLockedArticle() {
	title := "New"

	_, err := s.dash.EditArticle(s.ctx, "pub2", 0, model.ArticlePatch{Title: &title})

	s.ErrorIs(err, model.ErrValidation)
	s.Equal("Article is locked", s.lastNotice().Title)
}

func (s *DashboardSuite) TestOverrideSafety() {
	a, err := s.dash.OverrideSafety(s.ctx, "p1", 0, 2)
	s.Require().NoError(err)
	s.Equal(2, a.SafetyScore)
	s.Equal(4, a.OriginalSafetyScore)
	s.Equal("Tier changed from 4 to 2.", s.lastNotice().Description)

	a, err = s.dash.OverrideSafety(s.ctx, "p1", 0, 5)
	s.Require().NoError(err)
	s.Equal(4, a.OriginalSafetyScore)
	s.Equal("Tier changed from 2 to 5.", s.lastNotice().Description, "reports the tier just replaced")

	_, err = s.dash.OverrideSafety(s.ctx, "p1", 0, 9)
	s.ErrorIs(err, model.ErrValidation)
}

func (s *DashboardSuite) TestCurationEndToEnd() {
	k := model.KindRoundup
	s.Require().NoError(s.dash.BeginCuration(s.ctx, k, model.Draft{}))
	s.Require().NoError(s.dash.SubmitDraft(s.ctx, k, model.Draft{Title: "Evening Brief", Description: "Wrap", Type: "daily"}))

	v := s.dash.View()
	s.Require().NotNil(v.Curation)
	s.Equal(workflow.PhaseSelecting, v.Curation.Phase)
	s.Equal([]string{"pub1", "pub2", "pub3", "pub4", "pub5"}, ids(v.Curation.Candidates))

	for _, id := range []string{"pub1", "pub2", "pub3", "pub4"} {
		_, err := s.dash.CurationToggle(s.ctx, k, id)
		s.Require().NoError(err)
	}
	_, err := s.dash.ContinueCuration(s.ctx, k)
	s.ErrorIs(err, model.ErrInsufficient)
	s.Equal("Minimum 5 articles required", s.lastNotice().Title)

	added, err := s.dash.CurationDrop(s.ctx, k, "pub5")
	s.Require().NoError(err)
	s.True(added)
	added, err = s.dash.CurationDrop(s.ctx, k, "pub5")
	s.Require().NoError(err)
	s.False(added)
	s.Equal(notify.LevelInfo, s.lastNotice().Level)

	snap, err := s.dash.ContinueCuration(s.ctx, k)
	s.Require().NoError(err)
	s.Require().NoError(s.dash.EditCuration(s.ctx, k))
	s.Equal(snap, s.dash.View().Curation.Selected)
	_, err = s.dash.ContinueCuration(s.ctx, k)
	s.Require().NoError(err)

	settings := model.DefaultPublishSettings()
	settings.Targeting = map[string][]string{
		"experiments": {"a"}, "oems": {"b"}, "segments": {"c"}, "regions": {"d"},
	}
	col, err := s.dash.PublishCuration(s.ctx, k, settings)
	s.Require().NoError(err)

	v = s.dash.View()
	s.Nil(v.Curation)
	s.Equal(TabRoundups, v.Tab)
	s.Equal("live", v.Subtab)
	s.Equal(col.ID, v.Collections[0].ID, "new roundups are prepended")
	s.Require().NotNil(v.Collection)
	s.Equal(col.ID, v.Collection.ID)
	s.Len(v.Collection.Members, 5)
	s.Equal(int64(1), col.Version)
	s.Equal([]string{event.RoundupPublished}, s.events.Names())
	s.Equal("Roundup published", s.lastNotice().Title)
}

func (s *DashboardSuite) TestCurationArchive() {
	k := model.KindStory
	s.Require().NoError(s.dash.BeginCuration(s.ctx, k, model.Draft{}))
	s.Require().NoError(s.dash.SubmitDraft(s.ctx, k, model.Draft{Title: "Polls", Description: "Live", Type: "Politics", Subtype: "Elections"}))
	for _, id := range []string{"pub1", "pub2", "pub3", "pub4", "pub5"} {
		_, err := s.dash.CurationToggle(s.ctx, k, id)
		s.Require().NoError(err)
	}
	_, err := s.dash.ContinueCuration(s.ctx, k)
	s.Require().NoError(err)

	s.Require().NoError(s.dash.ArchiveDraft(s.ctx, k, "duplicate"))

	s.Nil(s.dash.View().Curation)
	s.Equal([]string{event.DraftArchived}, s.events.Names())
	payload := s.events.Events()[0].Payload.(DraftArchive)
	s.Equal("duplicate", payload.Reason)
	s.Len(payload.ArticleIDs, 5)
	s.Len(s.store.Collections(k), 1, "archiving a draft creates no record")
}

func (s *DashboardSuite) TestOnlyOneCurationAtATime() {
	s.Require().NoError(s.dash.BeginCuration(s.ctx, model.KindRoundup, model.Draft{}))

	err := s.dash.BeginCuration(s.ctx, model.KindStory, model.Draft{})

	s.ErrorIs(err, model.ErrInvalidTransition)
	s.Require().NoError(s.dash.SetTab(s.ctx, TabStories))
	s.Equal(workflow.PhaseCreating, s.dash.View().Curation.Phase, "tab change keeps the draft")
}

func (s *DashboardSuite) TestCollectionAction() {
	c, err := s.dash.CollectionAction(s.ctx, model.KindStory, "story-1", 0, workflow.CollectionArchive)
	s.Require().NoError(err)
	s.Equal(model.CollectionArchived, c.Status)
	s.Equal(now, c.UpdatedAt)

	_, err = s.dash.CollectionAction(s.ctx, model.KindStory, "story-1", 0, workflow.CollectionPause)
	s.ErrorIs(err, model.ErrInvalidTransition)

	s.Equal([]string{event.CollectionStatusChanged}, s.events.Names())
	a, _ := s.store.Article("pub1")
	s.Equal(model.StatusPublished, a.Status, "articles are untouched")
}

func (s *DashboardSuite) TestCollectionTabView() {
	s.Require().NoError(s.dash.SetTab(s.ctx, TabStories))
	s.Require().NoError(s.dash.SetSubtab(s.ctx, "expired"))

	v := s.dash.View()
	s.Require().Len(v.Collections, 1)
	s.Require().NotNil(v.Collection)
	s.Equal("story-1", v.Collection.ID)
	s.Equal(1, v.StoryCounts[model.CollectionExpired])
	s.Nil(v.Articles)
}

func (s *DashboardSuite) TestDismissOnboardingPersists() {
	s.Require().NoError(s.dash.DismissOnboarding(s.ctx))
	s.False(s.dash.View().OnboardingPending)

	again, err := New(Options{Store: s.store, Flags: s.flags})
	s.Require().NoError(err)
	s.False(again.View().OnboardingPending)
}

func (s *DashboardSuite) TestIngest() {
	a := article("new", "Fresh wire copy", model.StatusPending, 0, model.DefaultSafetyScore)

	s.Require().NoError(s.dash.Ingest(s.ctx, a))

	s.Equal(6, s.dash.View().Counts[model.StatusPending])
	s.Equal("New article ingested", s.lastNotice().Title)
	s.ErrorIs(s.dash.Ingest(s.ctx, a), model.ErrDuplicate)
}

func (s *DashboardSuite) TestConcurrentToggleRespectsCapacity() {
	s.Require().NoError(s.dash.SetSubtab(s.ctx, filter.All))
	var wg sync.WaitGroup
	for _, a := range s.store.Articles() {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, _ = s.dash.ToggleSelect(s.ctx, id)
		}(a.ID)
	}
	wg.Wait()

	s.Len(s.dash.View().Selection.SelectedIDs, 5)
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(Options{})
	if err == nil {
		t.Fatal("expected an error without a store")
	}
}

func TestActionTitle(t *testing.T) {
	for action, want := range map[workflow.ArticleAction]string{
		workflow.ActionPublish: "Article published",
		workflow.ActionReview:  "Article moved to review",
	} {
		if got := actionTitle(action, 1); got != want {
			t.Errorf("actionTitle(%s) = %q, want %q", action, got, want)
		}
	}
	if got := actionTitle(workflow.ActionReject, 3); got != fmt.Sprintf("3 articles %s", "rejected") {
		t.Errorf("plural title = %q", got)
	}
}
