package model

import (
	"slices"
	"time"
)

type ArticleStatus string

const (
	StatusPending   ArticleStatus = "pending"
	StatusReview    ArticleStatus = "review"
	StatusRejected  ArticleStatus = "rejected"
	StatusPublished ArticleStatus = "published"
)

// ArticleStatuses lists the article buckets in tab order.
var ArticleStatuses = []ArticleStatus{StatusPending, StatusReview, StatusRejected, StatusPublished}

// PublishStatus is only meaningful while an article is published.
type PublishStatus string

const (
	PublishLive    PublishStatus = "live"
	PublishPaused  PublishStatus = "paused"
	PublishExpired PublishStatus = "expired"
)

type ContentType string

const (
	ContentArticle ContentType = "article"
	ContentVideo   ContentType = "video"
)

const (
	MinSafetyScore = 1
	MaxSafetyScore = 5
	// DefaultSafetyScore is the tier auto-assigned to freshly ingested articles.
	DefaultSafetyScore = 3
	MaxTags            = 10
)

// Article is an incoming piece of content awaiting moderation or already published.
type Article struct {
	ID                  string        `json:"id"`
	Title               string        `json:"title"`
	Excerpt             string        `json:"excerpt"`
	Source              string        `json:"source"`
	URL                 string        `json:"url,omitempty"`
	IngestionTime       time.Time     `json:"ingestion_time"`
	ContentType         ContentType   `json:"content_type"`
	SafetyScore         int           `json:"safety_score"`
	OriginalSafetyScore int           `json:"original_safety_score,omitempty"`
	NewsType            string        `json:"news_type"`
	SubType             []string      `json:"sub_type"`
	Tags                []string      `json:"tags"`
	Status              ArticleStatus `json:"status"`
	PublishStatus       PublishStatus `json:"publish_status,omitempty"`
	IsBreaking          bool          `json:"is_breaking"`
	Version             int64         `json:"version"`
}

// Clone returns a deep copy so callers never share slices with the store.
func (a Article) Clone() Article {
	a.SubType = slices.Clone(a.SubType)
	a.Tags = slices.Clone(a.Tags)
	return a
}

// Overridden reports whether a human has changed the auto-assigned tier.
func (a Article) Overridden() bool {
	return a.OriginalSafetyScore != 0
}

// ValidStatus reports whether Status and PublishStatus form a legal combination.
func (a Article) ValidStatus() bool {
	if a.Status == StatusPublished {
		switch a.PublishStatus {
		case PublishLive, PublishPaused, PublishExpired:
			return true
		}
		return false
	}
	return a.PublishStatus == ""
}

// ArticlePatch carries a partial edit; nil fields are left untouched.
type ArticlePatch struct {
	Title      *string   `json:"title,omitempty"`
	Excerpt    *string   `json:"excerpt,omitempty"`
	NewsType   *string   `json:"news_type,omitempty"`
	SubType    *[]string `json:"sub_type,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
	IsBreaking *bool     `json:"is_breaking,omitempty"`
}

func (p ArticlePatch) Empty() bool {
	return p.Title == nil && p.Excerpt == nil && p.NewsType == nil &&
		p.SubType == nil && p.Tags == nil && p.IsBreaking == nil
}
