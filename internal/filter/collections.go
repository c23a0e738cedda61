package filter

import (
	"slices"

	"newsdesk/internal/model"
)

// FilterCollections keeps collections in the given status bucket ("all" for
// every status) whose title, subtitle, type or tags contain search. Order is
// preserved, so the most recently published stays first.
func FilterCollections(list []model.Collection, bucket, search string) []model.Collection {
	out := make([]model.Collection, 0, len(list))
	for _, c := range list {
		if bucket != "" && bucket != All && string(c.Status) != bucket {
			continue
		}
		if search != "" && !containsFold(c.Title, search) && !containsFold(c.Subtitle, search) &&
			!containsFold(c.Type, search) && !anyContainsFold(c.Tags, search) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func CountCollections(list []model.Collection) map[model.CollectionStatus]int {
	counts := make(map[model.CollectionStatus]int, len(model.CollectionStatuses))
	for _, s := range model.CollectionStatuses {
		counts[s] = 0
	}
	for _, c := range list {
		counts[c.Status]++
	}
	return counts
}

// PublishedMembers resolves a collection's references, keeping only articles
// that are still published. Articles may change status after being referenced.
func PublishedMembers(c model.Collection, articles []model.Article) []model.Article {
	out := make([]model.Article, 0, len(c.ArticleIDs))
	for _, id := range c.ArticleIDs {
		i := slices.IndexFunc(articles, func(a model.Article) bool { return a.ID == id })
		if i >= 0 && articles[i].Status == model.StatusPublished {
			out = append(out, articles[i])
		}
	}
	return out
}
