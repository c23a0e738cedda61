package selection

import (
	"cmp"
	"fmt"
	"slices"

	"newsdesk/internal/model"
)

const (
	MinSuggested = 3
	MaxSuggested = MaxSelected
)

// Rank orders articles by safety tier, highest first, then by ingestion time,
// newest first. The input is not modified.
func Rank(view []model.Article) []model.Article {
	ranked := slices.Clone(view)
	slices.SortStableFunc(ranked, func(a, b model.Article) int {
		if c := cmp.Compare(b.SafetyScore, a.SafetyScore); c != 0 {
			return c
		}
		return b.IngestionTime.Compare(a.IngestionTime)
	})
	return ranked
}

// Suggest picks the top min(5, n) ids of the view, or rejects when fewer than
// three articles are visible.
func Suggest(view []model.Article) ([]string, error) {
	n := len(view)
	if n == 0 {
		return nil, model.Reject(model.ErrInsufficient, "No articles available",
			"No articles found in the current view.")
	}
	if n < MinSuggested {
		return nil, model.Reject(model.ErrInsufficient, "Insufficient articles for bulk suggestion",
			fmt.Sprintf("Need at least %d articles in current view for bulk suggestion.", MinSuggested))
	}

	top := Rank(view)[:min(MaxSuggested, n)]
	ids := make([]string, len(top))
	for i, a := range top {
		ids[i] = a.ID
	}
	return ids, nil
}
