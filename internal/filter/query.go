// Package filter derives the visible lists of the dashboard from the record
// collections. Every function here is pure: same records and query in, same
// ordered view out.
package filter

import (
	"fmt"
	"slices"
	"time"

	"newsdesk/internal/model"
)

type SortKey string

const (
	SortIngestionDesc SortKey = "ingestion-desc"
	SortIngestionAsc  SortKey = "ingestion-asc"
	SortSafetyDesc    SortKey = "safety-desc"
	SortSafetyAsc     SortKey = "safety-asc"
	SortTitleAsc      SortKey = "title-asc"
	SortTitleDesc     SortKey = "title-desc"
)

var SortKeys = []SortKey{SortIngestionDesc, SortIngestionAsc, SortSafetyDesc, SortSafetyAsc, SortTitleAsc, SortTitleDesc}

// All matches every status bucket or every source.
const All = "all"

// DateLayout is the format of Query.Date.
const DateLayout = "2006-01-02"

// Query is the full set of predicates applied to the article list.
type Query struct {
	StatusBucket string   `json:"status_bucket"`
	Search       string   `json:"search"`
	Source       string   `json:"source"`
	QuickFilters []string `json:"quick_filters"`
	Date         string   `json:"date,omitempty"`
	Sort         SortKey  `json:"sort"`

	// Location is the calendar used for Date; nil means UTC.
	Location *time.Location `json:"-"`
}

// DefaultQuery is the pending tab with nothing else applied.
func DefaultQuery() Query {
	return Query{
		StatusBucket: string(model.StatusPending),
		Source:       All,
		Sort:         SortIngestionDesc,
	}
}

// Normalize fills empty fields with their defaults.
func (q Query) Normalize() Query {
	if q.StatusBucket == "" {
		q.StatusBucket = All
	}
	if q.Source == "" {
		q.Source = All
	}
	if q.Sort == "" {
		q.Sort = SortIngestionDesc
	}
	return q
}

func (q Query) Validate() error {
	q = q.Normalize()
	if q.StatusBucket != All && !slices.Contains(model.ArticleStatuses, model.ArticleStatus(q.StatusBucket)) {
		return model.Reject(model.ErrValidation, "Unknown status bucket", fmt.Sprintf("%q is not a status tab.", q.StatusBucket))
	}
	if !slices.Contains(SortKeys, q.Sort) {
		return model.Reject(model.ErrValidation, "Unknown sort order", fmt.Sprintf("%q is not a sort option.", q.Sort))
	}
	if q.Date != "" {
		if _, err := time.Parse(DateLayout, q.Date); err != nil {
			return model.Reject(model.ErrValidation, "Invalid date filter", fmt.Sprintf("%q is not a YYYY-MM-DD date.", q.Date))
		}
	}
	return nil
}
