package workflow

import (
	"fmt"
	"slices"

	"newsdesk/internal/model"
)

type ArticleAction string

const (
	ActionPublish ArticleAction = "publish"
	ActionReject  ArticleAction = "reject"
	ActionReview  ArticleAction = "review"
	ActionPause   ArticleAction = "pause"
	ActionResume  ArticleAction = "resume"
	ActionEnd     ArticleAction = "end"
)

type articleTransition struct {
	from   []model.ArticleStatus
	fromPS []model.PublishStatus
	to     model.ArticleStatus
	toPS   model.PublishStatus
}

// No action leads back to pending.
var articleTransitions = map[ArticleAction]articleTransition{
	ActionPublish: {from: []model.ArticleStatus{model.StatusPending, model.StatusReview}, to: model.StatusPublished, toPS: model.PublishLive},
	ActionReject:  {from: []model.ArticleStatus{model.StatusPending, model.StatusReview}, to: model.StatusRejected},
	ActionReview:  {from: []model.ArticleStatus{model.StatusPending, model.StatusRejected}, to: model.StatusReview},
	ActionPause:   {fromPS: []model.PublishStatus{model.PublishLive}, to: model.StatusPublished, toPS: model.PublishPaused},
	ActionResume:  {fromPS: []model.PublishStatus{model.PublishPaused}, to: model.StatusPublished, toPS: model.PublishLive},
	ActionEnd:     {fromPS: []model.PublishStatus{model.PublishLive, model.PublishPaused}, to: model.StatusPublished, toPS: model.PublishExpired},
}

func (a ArticleAction) Valid() bool {
	_, ok := articleTransitions[a]
	return ok
}

// Allows reports whether the action is legal for the article's current status.
func (a ArticleAction) Allows(art model.Article) bool {
	t, ok := articleTransitions[a]
	if !ok {
		return false
	}
	if t.fromPS != nil {
		return art.Status == model.StatusPublished && slices.Contains(t.fromPS, art.PublishStatus)
	}
	return slices.Contains(t.from, art.Status)
}

// Apply moves the article to the action's target status.
func (a ArticleAction) Apply(art *model.Article) error {
	if !a.Valid() {
		return model.Reject(model.ErrValidation, "Unknown action", fmt.Sprintf("%q is not an article action.", a))
	}
	if !a.Allows(*art) {
		state := string(art.Status)
		if art.PublishStatus != "" {
			state += "/" + string(art.PublishStatus)
		}
		return model.Reject(model.ErrInvalidTransition, "Action not available",
			fmt.Sprintf("Cannot %s an article that is %s.", a, state))
	}
	t := articleTransitions[a]
	art.Status = t.to
	art.PublishStatus = t.toPS
	return nil
}

type CollectionAction string

const (
	CollectionPause   CollectionAction = "pause"
	CollectionEnd     CollectionAction = "end"
	CollectionResume  CollectionAction = "resume"
	CollectionArchive CollectionAction = "archive"
	CollectionExtend  CollectionAction = "extend"
	CollectionRestore CollectionAction = "restore"
)

type collectionTransition struct {
	from []model.CollectionStatus
	to   model.CollectionStatus
}

var collectionTransitions = map[CollectionAction]collectionTransition{
	CollectionPause:   {from: []model.CollectionStatus{model.CollectionLive}, to: model.CollectionPaused},
	CollectionEnd:     {from: []model.CollectionStatus{model.CollectionLive, model.CollectionPaused}, to: model.CollectionExpired},
	CollectionResume:  {from: []model.CollectionStatus{model.CollectionPaused}, to: model.CollectionLive},
	CollectionArchive: {from: []model.CollectionStatus{model.CollectionExpired}, to: model.CollectionArchived},
	CollectionExtend:  {from: []model.CollectionStatus{model.CollectionExpired}, to: model.CollectionLive},
	CollectionRestore: {from: []model.CollectionStatus{model.CollectionArchived}, to: model.CollectionPaused},
}

func (a CollectionAction) Valid() bool {
	_, ok := collectionTransitions[a]
	return ok
}

// Apply moves the collection to the action's target status.
func (a CollectionAction) Apply(c *model.Collection) error {
	t, ok := collectionTransitions[a]
	if !ok {
		return model.Reject(model.ErrValidation, "Unknown action", fmt.Sprintf("%q is not a %s action.", a, c.Kind))
	}
	if !slices.Contains(t.from, c.Status) {
		return model.Reject(model.ErrInvalidTransition, "Action not available",
			fmt.Sprintf("Cannot %s a %s %s.", a, c.Status, c.Kind))
	}
	c.Status = t.to
	return nil
}
