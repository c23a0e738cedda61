// Package seed loads the initial dataset the dashboard starts with.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"newsdesk/internal/model"
	"newsdesk/internal/workflow"
)

//go:embed seed.yaml
var embedded []byte

type Data struct {
	Articles []model.Article
	Roundups []model.Collection
	Stories  []model.Collection
}

type file struct {
	Articles []articleEntry    `yaml:"articles"`
	Roundups []collectionEntry `yaml:"roundups"`
	Stories  []collectionEntry `yaml:"stories"`
}

type articleEntry struct {
	ID            string   `yaml:"id"`
	Title         string   `yaml:"title"`
	Excerpt       string   `yaml:"excerpt"`
	Source        string   `yaml:"source"`
	URL           string   `yaml:"url"`
	IngestedAgo   string   `yaml:"ingested_ago"`
	ContentType   string   `yaml:"content_type"`
	SafetyScore   int      `yaml:"safety_score"`
	NewsType      string   `yaml:"news_type"`
	SubType       []string `yaml:"sub_type"`
	Tags          []string `yaml:"tags"`
	Status        string   `yaml:"status"`
	PublishStatus string   `yaml:"publish_status"`
	IsBreaking    bool     `yaml:"is_breaking"`
}

type collectionEntry struct {
	ID           string   `yaml:"id"`
	Title        string   `yaml:"title"`
	Subtitle     string   `yaml:"subtitle"`
	Type         string   `yaml:"type"`
	Status       string   `yaml:"status"`
	Tags         []string `yaml:"tags"`
	ArticleIDs   []string `yaml:"article_ids"`
	IsBreaking   bool     `yaml:"is_breaking"`
	PublishedAgo string   `yaml:"published_ago"`
	Duration     string   `yaml:"duration"`
}

// Default returns the embedded dataset anchored at now.
func Default(now time.Time, display workflow.Display) (Data, error) {
	return Parse(embedded, now, display)
}

// LoadFile reads a dataset in the embedded format from disk.
func LoadFile(path string, now time.Time, display workflow.Display) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw, now, display)
}

func Parse(raw []byte, now time.Time, display workflow.Display) (Data, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Data{}, fmt.Errorf("parse seed: %w", err)
	}

	var out Data
	for _, e := range f.Articles {
		a, err := e.article(now)
		if err != nil {
			return Data{}, err
		}
		out.Articles = append(out.Articles, a)
	}
	for _, e := range f.Roundups {
		c, err := e.collection(model.KindRoundup, now, display)
		if err != nil {
			return Data{}, err
		}
		out.Roundups = append(out.Roundups, c)
	}
	for _, e := range f.Stories {
		c, err := e.collection(model.KindStory, now, display)
		if err != nil {
			return Data{}, err
		}
		out.Stories = append(out.Stories, c)
	}
	return out, nil
}

func (e articleEntry) article(now time.Time) (model.Article, error) {
	ago, err := time.ParseDuration(e.IngestedAgo)
	if err != nil {
		return model.Article{}, fmt.Errorf("article %s: ingested_ago: %w", e.ID, err)
	}
	if e.SafetyScore < model.MinSafetyScore || e.SafetyScore > model.MaxSafetyScore {
		return model.Article{}, fmt.Errorf("article %s: safety_score %d out of range", e.ID, e.SafetyScore)
	}
	a := model.Article{
		ID:            e.ID,
		Title:         e.Title,
		Excerpt:       e.Excerpt,
		Source:        e.Source,
		URL:           e.URL,
		IngestionTime: now.Add(-ago),
		ContentType:   model.ContentType(e.ContentType),
		SafetyScore:   e.SafetyScore,
		NewsType:      e.NewsType,
		SubType:       nonNil(e.SubType),
		Tags:          workflow.NormalizeTags(e.Tags),
		Status:        model.ArticleStatus(e.Status),
		PublishStatus: model.PublishStatus(e.PublishStatus),
		IsBreaking:    e.IsBreaking,
	}
	if a.ContentType == "" {
		a.ContentType = model.ContentArticle
	}
	if !a.ValidStatus() {
		return model.Article{}, fmt.Errorf("article %s: status %q with publish status %q: %w", e.ID, e.Status, e.PublishStatus, model.ErrValidation)
	}
	return a, nil
}

func (e collectionEntry) collection(kind model.Kind, now time.Time, display workflow.Display) (model.Collection, error) {
	ago, err := time.ParseDuration(e.PublishedAgo)
	if err != nil {
		return model.Collection{}, fmt.Errorf("%s %s: published_ago: %w", kind, e.ID, err)
	}
	dur, err := time.ParseDuration(e.Duration)
	if err != nil {
		return model.Collection{}, fmt.Errorf("%s %s: duration: %w", kind, e.ID, err)
	}
	status := model.CollectionStatus(e.Status)
	known := false
	for _, s := range model.CollectionStatuses {
		known = known || s == status
	}
	if !known {
		return model.Collection{}, fmt.Errorf("%s %s: unknown status %q", kind, e.ID, e.Status)
	}

	start := now.Add(-ago)
	c := model.Collection{
		ID:         e.ID,
		Kind:       kind,
		Title:      e.Title,
		Subtitle:   e.Subtitle,
		Type:       e.Type,
		Status:     status,
		Tags:       workflow.NormalizeTags(e.Tags),
		ArticleIDs: nonNil(e.ArticleIDs),
		IsBreaking: e.IsBreaking,
		Schedule:   workflow.Window(start, start.Add(dur), display),
		CreatedAt:  start,
		UpdatedAt:  start,
	}
	if kind == model.KindStory {
		c.EventCount = len(c.ArticleIDs)
		last := start
		c.LastEventAt = &last
	}
	return c, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
