package model

import (
	"slices"
	"time"
)

// Kind distinguishes the two curated collection types.
type Kind string

const (
	KindRoundup Kind = "roundup"
	KindStory   Kind = "story"
)

func (k Kind) Valid() bool {
	return k == KindRoundup || k == KindStory
}

// Label is the human name used in notices.
func (k Kind) Label() string {
	if k == KindStory {
		return "Story"
	}
	return "Roundup"
}

type CollectionStatus string

const (
	CollectionLive     CollectionStatus = "live"
	CollectionPaused   CollectionStatus = "paused"
	CollectionExpired  CollectionStatus = "expired"
	CollectionArchived CollectionStatus = "archived"
)

var CollectionStatuses = []CollectionStatus{CollectionLive, CollectionPaused, CollectionExpired, CollectionArchived}

// Schedule holds the publish window plus the display strings derived from it once at creation.
type Schedule struct {
	PublishAt         time.Time `json:"publish_at"`
	ExpireAt          time.Time `json:"expire_at"`
	PublishedTime     string    `json:"published_time"`
	PublishedDate     string    `json:"published_date"`
	PublishedTimezone string    `json:"published_timezone"`
	ExpiresTime       string    `json:"expires_time"`
	ExpiresDate       string    `json:"expires_date"`
	ExpiresTimezone   string    `json:"expires_timezone"`
}

// Collection is a Roundup or a Story. ArticleIDs are references: archiving a
// collection never touches the articles themselves.
type Collection struct {
	ID          string              `json:"id"`
	Kind        Kind                `json:"kind"`
	Title       string              `json:"title"`
	Subtitle    string              `json:"subtitle"`
	Type        string              `json:"type"`
	Status      CollectionStatus    `json:"status"`
	Tags        []string            `json:"tags"`
	ArticleIDs  []string            `json:"article_ids"`
	IsBreaking  bool                `json:"is_breaking"`
	Targeting   map[string][]string `json:"targeting,omitempty"`
	EventCount  int                 `json:"event_count,omitempty"`
	LastEventAt *time.Time          `json:"last_event_at,omitempty"`
	Schedule
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

func (c Collection) Clone() Collection {
	c.Tags = slices.Clone(c.Tags)
	c.ArticleIDs = slices.Clone(c.ArticleIDs)
	if c.Targeting != nil {
		t := make(map[string][]string, len(c.Targeting))
		for k, v := range c.Targeting {
			t[k] = slices.Clone(v)
		}
		c.Targeting = t
	}
	if c.LastEventAt != nil {
		at := *c.LastEventAt
		c.LastEventAt = &at
	}
	return c
}

// Draft is the pending data of a roundup or story under construction.
// For roundups Type is the roundup type; for stories Type is the category and
// Subtype the sub-category.
type Draft struct {
	Kind        Kind     `json:"kind"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Subtype     string   `json:"subtype,omitempty"`
	Tags        []string `json:"tags"`
}

func (d Draft) Clone() Draft {
	d.Tags = slices.Clone(d.Tags)
	return d
}
