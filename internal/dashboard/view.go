package dashboard

import (
	"slices"
	"time"

	"newsdesk/internal/filter"
	"newsdesk/internal/model"
	"newsdesk/internal/selection"
	"newsdesk/internal/workflow"
)

// View is a consistent snapshot of everything the UI renders.
type View struct {
	Now    time.Time    `json:"now"`
	Tab    Tab          `json:"tab"`
	Subtab string       `json:"subtab"`
	Query  filter.Query `json:"query"`

	Counts   map[model.ArticleStatus]int `json:"counts"`
	Articles []model.Article             `json:"articles"`
	Groups   []filter.DateGroup          `json:"groups"`
	Focused  *ArticleDetail              `json:"focused,omitempty"`
	Viewed   []string                    `json:"viewed"`

	Selection selection.State `json:"selection"`

	RoundupCounts map[model.CollectionStatus]int `json:"roundup_counts"`
	StoryCounts   map[model.CollectionStatus]int `json:"story_counts"`
	Collections   []model.Collection             `json:"collections,omitempty"`
	Collection    *CollectionDetail              `json:"collection,omitempty"`

	Curation *CurationView `json:"curation,omitempty"`

	OnboardingPending bool `json:"onboarding_pending"`
}

type ArticleDetail struct {
	model.Article
	Locked bool `json:"locked"`
}

// CollectionDetail is a roundup or story with its currently published members.
type CollectionDetail struct {
	model.Collection
	Members []model.Article `json:"members"`
}

type CurationView struct {
	workflow.Snapshot
	CandidateQuery filter.CandidateQuery `json:"candidate_query"`
	Candidates     []model.Article       `json:"candidates,omitempty"`
	SelectedItems  []model.Article       `json:"selected_items,omitempty"`
}

func (d *Dashboard) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewLocked(d.clock())
}

func (d *Dashboard) viewLocked(now time.Time) View {
	articles := d.store.Articles()
	roundups := d.store.Collections(model.KindRoundup)
	stories := d.store.Collections(model.KindStory)

	v := View{
		Now:               now,
		Tab:               d.tab,
		Subtab:            d.subtab(),
		Query:             d.query,
		Counts:            filter.CountByStatus(articles),
		Viewed:            slices.Clone(d.viewed),
		Selection:         d.selection.State(),
		RoundupCounts:     filter.CountCollections(roundups),
		StoryCounts:       filter.CountCollections(stories),
		OnboardingPending: d.onboardingPending,
	}

	switch d.tab {
	case TabPublishing:
		v.Articles = filter.FilterAndSort(articles, d.query)
		v.Groups = filter.GroupByDateLabel(v.Articles, now.In(d.location()))
		if d.focused != "" {
			if a, err := d.store.Article(d.focused); err == nil {
				v.Focused = &ArticleDetail{Article: a, Locked: lockedBy(a.ID, roundups)}
			}
		}
	default:
		kind, _ := d.tab.kind()
		list := roundups
		if kind == model.KindStory {
			list = stories
		}
		v.Collections = filter.FilterCollections(list, d.subtab(), d.query.Search)
		if id := d.focusedCollection[kind]; id != "" {
			if c, err := d.store.Collection(kind, id); err == nil {
				v.Collection = &CollectionDetail{Collection: c, Members: filter.PublishedMembers(c, articles)}
			}
		}
	}

	if c := d.activeCuration(); c != nil {
		v.Curation = d.curationView(c, articles, now)
	}
	return v
}

func (d *Dashboard) curationView(c *workflow.Curation, articles []model.Article, now time.Time) *CurationView {
	cv := &CurationView{Snapshot: c.Snapshot(), CandidateQuery: d.candidate}
	if cv.Phase == workflow.PhaseSelecting {
		cv.Candidates = filter.Candidates(articles, now, d.candidate)
	}
	for _, id := range cv.Selected {
		if i := slices.IndexFunc(articles, func(a model.Article) bool { return a.ID == id }); i >= 0 {
			cv.SelectedItems = append(cv.SelectedItems, articles[i])
		}
	}
	return cv
}

// subtab is the status bucket of the active tab.
func (d *Dashboard) subtab() string {
	if d.tab == TabPublishing {
		return d.query.StatusBucket
	}
	return d.subtabs[d.tab]
}

func (d *Dashboard) location() *time.Location {
	if d.display.Location == nil {
		return time.UTC
	}
	return d.display.Location
}

// activeCuration returns the curation in progress, if any.
func (d *Dashboard) activeCuration() *workflow.Curation {
	for _, kind := range []model.Kind{model.KindRoundup, model.KindStory} {
		if c := d.curations[kind]; c.Active() {
			return c
		}
	}
	return nil
}

// refocus points the detail pane at the first record of the current view.
func (d *Dashboard) refocus() {
	switch d.tab {
	case TabPublishing:
		d.focused = ""
		view := filter.FilterAndSort(d.store.Articles(), d.query)
		if len(view) > 0 {
			d.markFocused(view[0].ID)
		}
	default:
		kind, _ := d.tab.kind()
		list := filter.FilterCollections(d.store.Collections(kind), d.subtab(), d.query.Search)
		d.focusedCollection[kind] = ""
		if len(list) > 0 {
			d.focusedCollection[kind] = list[0].ID
		}
	}
}

// focusVisible reports whether the focused record of the active tab is in its filtered list.
func (d *Dashboard) focusVisible() bool {
	if d.tab == TabPublishing {
		return d.focused != "" && d.inView(d.focused)
	}
	kind, _ := d.tab.kind()
	id := d.focusedCollection[kind]
	if id == "" {
		return false
	}
	list := filter.FilterCollections(d.store.Collections(kind), d.subtab(), d.query.Search)
	return slices.ContainsFunc(list, func(c model.Collection) bool { return c.ID == id })
}

func (d *Dashboard) markFocused(id string) {
	d.focused = id
	if !slices.Contains(d.viewed, id) {
		d.viewed = append(d.viewed, id)
	}
}

// lockedBy reports whether any roundup references the article.
func lockedBy(id string, roundups []model.Collection) bool {
	for _, r := range roundups {
		if slices.Contains(r.ArticleIDs, id) {
			return true
		}
	}
	return false
}
