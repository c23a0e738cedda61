package filter

import (
	"slices"
	"strings"
	"time"

	"newsdesk/internal/model"
)

// EligibilityWindow is how recent a published article must be to join a roundup or story.
const EligibilityWindow = 24 * time.Hour

// HighSafetyTier is the minimum tier matched by the "high-safety" candidate filter.
const HighSafetyTier = 4

// CandidateQuery narrows the eligible list while a roundup or story is being assembled.
type CandidateQuery struct {
	Search       string   `json:"search"`
	Category     string   `json:"category"`
	QuickFilters []string `json:"quick_filters"`
	Sort         SortKey  `json:"sort"`
}

// Eligible reports whether a can be picked for a collection at time now.
func Eligible(a model.Article, now time.Time) bool {
	if a.Status != model.StatusPublished {
		return false
	}
	return !a.IngestionTime.Before(now.Add(-EligibilityWindow))
}

// Candidates returns the eligible articles matching q, sorted.
func Candidates(articles []model.Article, now time.Time, q CandidateQuery) []model.Article {
	out := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		if !Eligible(a, now) {
			continue
		}
		if q.Search != "" && !MatchesSearch(a, q.Search) {
			continue
		}
		if q.Category != "" && q.Category != All && !strings.EqualFold(a.NewsType, q.Category) {
			continue
		}
		if len(q.QuickFilters) > 0 && !slices.ContainsFunc(q.QuickFilters, func(f string) bool { return candidateFilter(a, f) }) {
			continue
		}
		out = append(out, a)
	}
	SortArticles(out, q.Sort)
	return out
}

func candidateFilter(a model.Article, f string) bool {
	switch f {
	case "breaking":
		return a.IsBreaking
	case "video":
		return a.ContentType == model.ContentVideo
	case "high-safety":
		return a.SafetyScore >= HighSafetyTier
	}
	return slices.Contains(a.Tags, f) || strings.ToLower(a.NewsType) == f
}
