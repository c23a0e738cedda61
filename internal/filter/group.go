package filter

import (
	"time"

	"newsdesk/internal/model"
)

// DateGroup is one day header of the article list.
type DateGroup struct {
	Label    string          `json:"label"`
	Articles []model.Article `json:"articles"`
}

// DateLabel names the calendar day of t relative to now, in now's location:
// "Today", "Yesterday" or e.g. "Mon, 22 Jan".
func DateLabel(t, now time.Time) string {
	t = t.In(now.Location())
	if sameDay(t, now) {
		return "Today"
	}
	if sameDay(t, now.AddDate(0, 0, -1)) {
		return "Yesterday"
	}
	return t.Format("Mon, 2 Jan")
}

// GroupByDateLabel buckets articles by DateLabel. Groups appear in the order
// their first article appears in the input and articles keep their input order
// inside a group, so a list sorted newest-first yields newest day first.
func GroupByDateLabel(articles []model.Article, now time.Time) []DateGroup {
	var groups []DateGroup
	index := make(map[string]int)

	for _, a := range articles {
		label := DateLabel(a.IngestionTime, now)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, DateGroup{Label: label})
		}
		groups[i].Articles = append(groups[i].Articles, a)
	}
	return groups
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
