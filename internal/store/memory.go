package store

import (
	"fmt"
	"slices"
	"sync"

	"newsdesk/internal/model"
)

// MemoryStore keeps records in insertion order with an id index per collection.
type MemoryStore struct {
	mu          sync.RWMutex
	articles    []model.Article
	collections map[model.Kind][]model.Collection
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore seeds the store. Records keep the order they are given in.
func NewMemoryStore(articles []model.Article, roundups, stories []model.Collection) (*MemoryStore, error) {
	s := &MemoryStore{
		collections: map[model.Kind][]model.Collection{
			model.KindRoundup: {},
			model.KindStory:   {},
		},
	}
	for _, a := range articles {
		if err := s.InsertArticle(a); err != nil {
			return nil, err
		}
	}
	for _, c := range slices.Concat(roundups, stories) {
		if !c.Kind.Valid() {
			return nil, fmt.Errorf("collection %s: unknown kind %q", c.ID, c.Kind)
		}
		if s.collectionIndex(c.Kind, c.ID) >= 0 {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, c.ID)
		}
		if c.Version == 0 {
			c.Version = 1
		}
		s.collections[c.Kind] = append(s.collections[c.Kind], c.Clone())
	}
	return s, nil
}

func (s *MemoryStore) Articles() []model.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Article, len(s.articles))
	for i, a := range s.articles {
		out[i] = a.Clone()
	}
	return out
}

func (s *MemoryStore) Article(id string) (model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.articleIndex(id)
	if i < 0 {
		return model.Article{}, fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	return s.articles[i].Clone(), nil
}

// InsertArticle appends a new article.
func (s *MemoryStore) InsertArticle(a model.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		return fmt.Errorf("article without id: %w", model.ErrValidation)
	}
	if s.articleIndex(a.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicate, a.ID)
	}
	if !a.ValidStatus() {
		return fmt.Errorf("article %s: status %q with publish status %q: %w", a.ID, a.Status, a.PublishStatus, model.ErrValidation)
	}
	if a.Version == 0 {
		a.Version = 1
	}
	s.articles = append(s.articles, a.Clone())
	return nil
}

func (s *MemoryStore) UpdateArticle(id string, expectVersion int64, fn func(*model.Article) error) (model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.articleIndex(id)
	if i < 0 {
		return model.Article{}, fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	current := s.articles[i]
	if expectVersion != 0 && current.Version != expectVersion {
		return model.Article{}, fmt.Errorf("article %s at version %d, expected %d: %w", id, current.Version, expectVersion, model.ErrConflict)
	}

	next := current.Clone()
	if err := fn(&next); err != nil {
		return model.Article{}, err
	}
	if !next.ValidStatus() {
		return model.Article{}, fmt.Errorf("article %s: status %q with publish status %q: %w", id, next.Status, next.PublishStatus, model.ErrValidation)
	}
	next.ID = current.ID
	next.Version = current.Version + 1
	s.articles[i] = next
	return next.Clone(), nil
}

func (s *MemoryStore) Collections(kind model.Kind) []model.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.collections[kind]
	out := make([]model.Collection, len(src))
	for i, c := range src {
		out[i] = c.Clone()
	}
	return out
}

func (s *MemoryStore) Collection(kind model.Kind, id string) (model.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.collectionIndex(kind, id)
	if i < 0 {
		return model.Collection{}, fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return s.collections[kind][i].Clone(), nil
}

// PrependCollection puts a newly published collection at the front of its list.
func (s *MemoryStore) PrependCollection(c model.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !c.Kind.Valid() {
		return fmt.Errorf("collection %s: unknown kind %q: %w", c.ID, c.Kind, model.ErrValidation)
	}
	if s.collectionIndex(c.Kind, c.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicate, c.ID)
	}
	for _, id := range c.ArticleIDs {
		if s.articleIndex(id) < 0 {
			return fmt.Errorf("%s %s references article %s: %w", c.Kind, c.ID, id, ErrNotFound)
		}
	}
	if c.Version == 0 {
		c.Version = 1
	}
	s.collections[c.Kind] = slices.Insert(s.collections[c.Kind], 0, c.Clone())
	return nil
}

func (s *MemoryStore) UpdateCollection(kind model.Kind, id string, expectVersion int64, fn func(*model.Collection) error) (model.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.collectionIndex(kind, id)
	if i < 0 {
		return model.Collection{}, fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	current := s.collections[kind][i]
	if expectVersion != 0 && current.Version != expectVersion {
		return model.Collection{}, fmt.Errorf("%s %s at version %d, expected %d: %w", kind, id, current.Version, expectVersion, model.ErrConflict)
	}

	next := current.Clone()
	if err := fn(&next); err != nil {
		return model.Collection{}, err
	}
	next.ID, next.Kind = current.ID, current.Kind
	next.Version = current.Version + 1
	s.collections[kind][i] = next
	return next.Clone(), nil
}

func (s *MemoryStore) articleIndex(id string) int {
	return slices.IndexFunc(s.articles, func(a model.Article) bool { return a.ID == id })
}

func (s *MemoryStore) collectionIndex(kind model.Kind, id string) int {
	return slices.IndexFunc(s.collections[kind], func(c model.Collection) bool { return c.ID == id })
}
