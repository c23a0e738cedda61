package dashboard

import (
	"context"
	"fmt"
	"slices"
	"time"

	"newsdesk/internal/event"
	"newsdesk/internal/filter"
	"newsdesk/internal/model"
	"newsdesk/internal/notify"
	"newsdesk/internal/workflow"
)

// SetQuery replaces the publishing query. Moving to another status bucket
// behaves like a sub-tab change; otherwise the focused record keeps focus while
// it is still listed.
func (d *Dashboard) SetQuery(ctx context.Context, q filter.Query) error {
	return d.do(ctx, "set-query", func(time.Time, *outbox) error {
		q = q.Normalize()
		if err := q.Validate(); err != nil {
			return err
		}
		q.Location = d.display.Location
		bucketChanged := q.StatusBucket != d.query.StatusBucket
		d.query = q
		if bucketChanged {
			d.selection.Clear()
		}
		if bucketChanged || !d.focusVisible() {
			d.refocus()
		}
		return nil
	})
}

// SetTab switches the top-level tab. Bulk selection never survives a tab
// change; a curation in progress does.
func (d *Dashboard) SetTab(ctx context.Context, tab Tab) error {
	return d.do(ctx, "set-tab", func(time.Time, *outbox) error {
		if !tab.Valid() {
			return model.Reject(model.ErrValidation, "Unknown tab", fmt.Sprintf("%q is not a tab.", tab))
		}
		d.tab = tab
		d.selection.Clear()
		d.refocus()
		return nil
	})
}

// SetSubtab switches the status bucket of the active tab.
func (d *Dashboard) SetSubtab(ctx context.Context, bucket string) error {
	return d.do(ctx, "set-subtab", func(time.Time, *outbox) error {
		if d.tab == TabPublishing {
			q := d.query
			q.StatusBucket = bucket
			if err := q.Validate(); err != nil {
				return err
			}
			d.query.StatusBucket = q.Normalize().StatusBucket
		} else {
			if bucket != filter.All && !slices.Contains(model.CollectionStatuses, model.CollectionStatus(bucket)) {
				return model.Reject(model.ErrValidation, "Unknown status bucket", fmt.Sprintf("%q is not a status tab.", bucket))
			}
			d.subtabs[d.tab] = bucket
		}
		d.selection.Clear()
		d.refocus()
		return nil
	})
}

// Focus opens an article in the detail pane and marks it viewed.
func (d *Dashboard) Focus(ctx context.Context, id string) error {
	return d.do(ctx, "focus", func(time.Time, *outbox) error {
		if _, err := d.store.Article(id); err != nil {
			return err
		}
		d.markFocused(id)
		return nil
	})
}

// FocusCollection opens a roundup or story in the detail pane.
func (d *Dashboard) FocusCollection(ctx context.Context, kind model.Kind, id string) error {
	return d.do(ctx, "focus-collection", func(time.Time, *outbox) error {
		if _, err := d.store.Collection(kind, id); err != nil {
			return err
		}
		d.focusedCollection[kind] = id
		return nil
	})
}

// EditArticle applies a metadata patch. expectVersion 0 skips the version check.
func (d *Dashboard) EditArticle(ctx context.Context, id string, expectVersion int64, p model.ArticlePatch) (model.Article, error) {
	var out model.Article
	err := d.do(ctx, "edit-article", func(now time.Time, o *outbox) error {
		locked := lockedBy(id, d.store.Collections(model.KindRoundup))
		a, err := d.store.UpdateArticle(id, expectVersion, func(a *model.Article) error {
			return workflow.ApplyPatch(a, p, locked)
		})
		if err != nil {
			return err
		}
		out = a
		o.notice(notify.Success("Article updated", a.Title, now))
		return nil
	})
	return out, err
}

// OverrideSafety sets a human safety tier on an article.
func (d *Dashboard) OverrideSafety(ctx context.Context, id string, expectVersion int64, score int) (model.Article, error) {
	var out model.Article
	err := d.do(ctx, "override-safety", func(now time.Time, o *outbox) error {
		var previous int
		a, err := d.store.UpdateArticle(id, expectVersion, func(a *model.Article) error {
			previous = a.SafetyScore
			return workflow.OverrideSafety(a, score)
		})
		if err != nil {
			return err
		}
		out = a
		o.notice(notify.Success("Safety score updated",
			fmt.Sprintf("Tier changed from %d to %d.", previous, a.SafetyScore), now))
		return nil
	})
	return out, err
}

// StatusChange is the payload of article.status_changed.
type StatusChange struct {
	ArticleID         string              `json:"article_id"`
	Action            string              `json:"action"`
	From              model.ArticleStatus `json:"from"`
	FromPublishStatus model.PublishStatus `json:"from_publish_status,omitempty"`
	To                model.ArticleStatus `json:"to"`
	ToPublishStatus   model.PublishStatus `json:"to_publish_status,omitempty"`
}

// ArticleAction moves one article through its lifecycle.
func (d *Dashboard) ArticleAction(ctx context.Context, id string, expectVersion int64, action workflow.ArticleAction) (model.Article, error) {
	var out model.Article
	err := d.do(ctx, "article-action", func(now time.Time, o *outbox) error {
		a, change, err := d.applyArticleAction(id, expectVersion, action)
		if err != nil {
			return err
		}
		out = a
		o.emit(event.ArticleStatusChanged, a.ID, now, change)
		o.notice(notify.Success(actionTitle(action, 1), a.Title, now))
		if d.focused == id && !slices.ContainsFunc(filter.FilterAndSort(d.store.Articles(), d.query), func(x model.Article) bool { return x.ID == id }) {
			d.refocus()
		}
		return nil
	})
	return out, err
}

func (d *Dashboard) applyArticleAction(id string, expectVersion int64, action workflow.ArticleAction) (model.Article, StatusChange, error) {
	var change StatusChange
	a, err := d.store.UpdateArticle(id, expectVersion, func(a *model.Article) error {
		change = StatusChange{ArticleID: a.ID, Action: string(action), From: a.Status, FromPublishStatus: a.PublishStatus}
		if err := action.Apply(a); err != nil {
			return err
		}
		change.To, change.ToPublishStatus = a.Status, a.PublishStatus
		return nil
	})
	return a, change, err
}

var actionPastTense = map[workflow.ArticleAction]string{
	workflow.ActionPublish: "published",
	workflow.ActionReject:  "rejected",
	workflow.ActionReview:  "moved to review",
	workflow.ActionPause:   "paused",
	workflow.ActionResume:  "resumed",
	workflow.ActionEnd:     "ended",
}

func actionTitle(action workflow.ArticleAction, n int) string {
	if n == 1 {
		return "Article " + actionPastTense[action]
	}
	return fmt.Sprintf("%d articles %s", n, actionPastTense[action])
}
