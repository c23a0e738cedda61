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
	"newsdesk/internal/selection"
	"newsdesk/internal/workflow"
)

// BulkActions are the lifecycle actions available on a bulk selection.
var BulkActions = []workflow.ArticleAction{workflow.ActionReject, workflow.ActionReview, workflow.ActionPublish}

// ToggleSelect adds an article of the current view to the bulk selection, or removes it.
func (d *Dashboard) ToggleSelect(ctx context.Context, id string) (bool, error) {
	var selected bool
	err := d.do(ctx, "toggle-select", func(time.Time, *outbox) error {
		if !d.selection.Contains(id) && !d.inView(id) {
			return model.Reject(model.ErrValidation, "Article not in view",
				"Only articles in the current list can be selected.")
		}
		var err error
		selected, err = d.selection.Toggle(id)
		return err
	})
	return selected, err
}

func (d *Dashboard) ToggleBulkMode(ctx context.Context) (bool, error) {
	var on bool
	err := d.do(ctx, "toggle-bulk-mode", func(time.Time, *outbox) error {
		on = d.selection.ToggleBulkMode()
		return nil
	})
	return on, err
}

func (d *Dashboard) ClearSelection(ctx context.Context) error {
	return d.do(ctx, "clear-selection", func(time.Time, *outbox) error {
		d.selection.Clear()
		return nil
	})
}

// SuggestBulk ranks the current view and selects the top 3 to 5 articles.
func (d *Dashboard) SuggestBulk(ctx context.Context) ([]string, error) {
	var ids []string
	err := d.do(ctx, "suggest-bulk", func(now time.Time, o *outbox) error {
		if d.tab != TabPublishing {
			return model.Reject(model.ErrInvalidTransition, "Suggestions unavailable",
				"Bulk suggestions only apply to the publishing list.")
		}
		var err error
		ids, err = selection.Suggest(filter.FilterAndSort(d.store.Articles(), d.query))
		if err != nil {
			return err
		}
		d.selection.ApplySuggestion(ids)
		o.notice(notify.Success(fmt.Sprintf("%d articles suggested", len(ids)),
			"Ranked by safety tier, then most recent.", now))
		return nil
	})
	return ids, err
}

type BulkResult struct {
	Applied []string `json:"applied"`
	Skipped []string `json:"skipped"`
}

// ApplyBulk runs action over the selection. Selected ids whose current status
// does not allow the action are skipped; they are not evicted beforehand.
func (d *Dashboard) ApplyBulk(ctx context.Context, action workflow.ArticleAction) (BulkResult, error) {
	var res BulkResult
	err := d.do(ctx, "apply-bulk", func(now time.Time, o *outbox) error {
		if !slices.Contains(BulkActions, action) {
			return model.Reject(model.ErrValidation, "Unknown bulk action", fmt.Sprintf("%q cannot be applied in bulk.", action))
		}
		ids := d.selection.Selected()
		if len(ids) == 0 {
			return model.Reject(model.ErrInsufficient, "No articles selected",
				"Please select at least one article.")
		}

		var targets []string
		for _, id := range ids {
			a, err := d.store.Article(id)
			if err != nil || !action.Allows(a) {
				res.Skipped = append(res.Skipped, id)
				continue
			}
			targets = append(targets, id)
		}
		if len(targets) == 0 {
			return model.Reject(model.ErrInvalidTransition, "Action not available",
				fmt.Sprintf("None of the selected articles can be %s.", actionPastTense[action]))
		}

		for _, id := range targets {
			_, change, err := d.applyArticleAction(id, 0, action)
			if err != nil {
				return fmt.Errorf("bulk %s %s: %w", action, id, err)
			}
			res.Applied = append(res.Applied, id)
			o.emit(event.ArticleStatusChanged, id, now, change)
		}

		d.selection.Clear()
		d.refocus()
		desc := ""
		if len(res.Skipped) > 0 {
			desc = fmt.Sprintf("%d skipped: status no longer allows this action.", len(res.Skipped))
		}
		o.notice(notify.Success(actionTitle(action, len(res.Applied)), desc, now))
		return nil
	})
	return res, err
}

func (d *Dashboard) inView(id string) bool {
	if d.tab != TabPublishing {
		return false
	}
	return slices.ContainsFunc(filter.FilterAndSort(d.store.Articles(), d.query), func(a model.Article) bool {
		return a.ID == id
	})
}
