package filter

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"newsdesk/internal/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterAndSort returns the articles matching every predicate of q, ordered by
// q.Sort. Records with equal sort keys keep their input order.
func FilterAndSort(articles []model.Article, q Query) []model.Article {
	q = q.Normalize()

	out := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		if q.matches(a) {
			out = append(out, a)
		}
	}
	SortArticles(out, q.Sort)
	return out
}

func (q Query) matches(a model.Article) bool {
	if q.StatusBucket != All && string(a.Status) != q.StatusBucket {
		return false
	}
	if q.Date != "" && !q.onDate(a) {
		return false
	}
	if q.Search != "" && !MatchesSearch(a, q.Search) {
		return false
	}
	if q.Source != All && !containsFold(a.Source, q.Source) {
		return false
	}
	if len(q.QuickFilters) > 0 && !q.matchesQuickFilters(a) {
		return false
	}
	return true
}

func (q Query) onDate(a model.Article) bool {
	loc := q.Location
	if loc == nil {
		loc = time.UTC
	}
	return a.IngestionTime.In(loc).Format(DateLayout) == q.Date
}

// The published tab filters on publish sub-state; every other tab matches the
// filters against category, tags and sub-categories.
func (q Query) matchesQuickFilters(a model.Article) bool {
	if q.StatusBucket == string(model.StatusPublished) {
		return slices.Contains(q.QuickFilters, string(a.PublishStatus))
	}
	for _, f := range q.QuickFilters {
		if containsFold(a.NewsType, f) || anyContainsFold(a.Tags, f) || anyContainsFold(a.SubType, f) {
			return true
		}
	}
	return false
}

// MatchesSearch reports whether term occurs in the title, excerpt, source or any tag.
func MatchesSearch(a model.Article, term string) bool {
	return containsFold(a.Title, term) ||
		containsFold(a.Excerpt, term) ||
		containsFold(a.Source, term) ||
		anyContainsFold(a.Tags, term)
}

// SortArticles orders articles in place with a stable sort.
func SortArticles(articles []model.Article, key SortKey) {
	col := collate.New(language.English)

	slices.SortStableFunc(articles, func(a, b model.Article) int {
		switch key {
		case SortIngestionAsc:
			return a.IngestionTime.Compare(b.IngestionTime)
		case SortSafetyDesc:
			return cmp.Compare(b.SafetyScore, a.SafetyScore)
		case SortSafetyAsc:
			return cmp.Compare(a.SafetyScore, b.SafetyScore)
		case SortTitleAsc:
			return col.CompareString(a.Title, b.Title)
		case SortTitleDesc:
			return col.CompareString(b.Title, a.Title)
		default:
			return b.IngestionTime.Compare(a.IngestionTime)
		}
	})
}

// CountByStatus returns how many articles sit in each status tab.
func CountByStatus(articles []model.Article) map[model.ArticleStatus]int {
	counts := make(map[model.ArticleStatus]int, len(model.ArticleStatuses))
	for _, s := range model.ArticleStatuses {
		counts[s] = 0
	}
	for _, a := range articles {
		counts[a.Status]++
	}
	return counts
}

func containsFold(value, term string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(term))
}

func anyContainsFold(values []string, term string) bool {
	return slices.ContainsFunc(values, func(v string) bool { return containsFold(v, term) })
}
