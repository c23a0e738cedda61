package store

import (
	"newsdesk/internal/model"
)

var (
	ErrNotFound  = model.ErrNotFound
	ErrDuplicate = model.ErrDuplicate
)

// Store holds the three record collections. Reads return copies; writes go
// through Update* so a record is never half-modified.
type Store interface {
	Articles() []model.Article
	Article(id string) (model.Article, error)
	InsertArticle(a model.Article) error
	// UpdateArticle applies fn to a copy of the article and stores it only if fn
	// succeeds. expectVersion 0 skips the optimistic version check.
	UpdateArticle(id string, expectVersion int64, fn func(*model.Article) error) (model.Article, error)

	Collections(kind model.Kind) []model.Collection
	Collection(kind model.Kind, id string) (model.Collection, error)
	PrependCollection(c model.Collection) error
	UpdateCollection(kind model.Kind, id string, expectVersion int64, fn func(*model.Collection) error) (model.Collection, error)
}
