package dashboard

import (
	"context"
	"fmt"
	"time"

	"newsdesk/internal/event"
	"newsdesk/internal/filter"
	"newsdesk/internal/model"
	"newsdesk/internal/notify"
	"newsdesk/internal/workflow"
)

// curation returns the machine for kind. Starting a flow is refused while the
// other kind has one in progress.
func (d *Dashboard) curation(kind model.Kind) (*workflow.Curation, error) {
	if !kind.Valid() {
		return nil, model.Reject(model.ErrValidation, "Unknown collection kind", fmt.Sprintf("%q is not a roundup or story.", kind))
	}
	return d.curations[kind], nil
}

func (d *Dashboard) BeginCuration(ctx context.Context, kind model.Kind, initial model.Draft) error {
	return d.do(ctx, "begin-curation", func(time.Time, *outbox) error {
		c, err := d.curation(kind)
		if err != nil {
			return err
		}
		if other := d.activeCuration(); other != nil && other != c {
			return model.Reject(model.ErrInvalidTransition, "Another draft is in progress",
				fmt.Sprintf("Finish or cancel the %s first.", other.Kind()))
		}
		return c.Begin(initial)
	})
}

func (d *Dashboard) SubmitDraft(ctx context.Context, kind model.Kind, draft model.Draft) error {
	return d.do(ctx, "submit-draft", func(time.Time, *outbox) error {
		c, err := d.curation(kind)
		if err != nil {
			return err
		}
		if err := c.Submit(draft); err != nil {
			return err
		}
		d.candidate = filter.CandidateQuery{Sort: filter.SortIngestionDesc}
		return nil
	})
}

func (d *Dashboard) CancelCuration(ctx context.Context, kind model.Kind) error {
	return d.do(ctx, "cancel-curation", func(time.Time, *outbox) error {
		c, err := d.curation(kind)
		if err != nil {
			return err
		}
		return c.Cancel()
	})
}

// SetCandidateQuery narrows the eligible list shown while selecting.
func (d *Dashboard) SetCandidateQuery(ctx context.Context, q filter.CandidateQuery) error {
	return d.do(ctx, "set-candidate-query", func(time.Time, *outbox) error {
		if q.Sort == "" {
			q.Sort = filter.SortIngestionDesc
		}
		probe := filter.Query{Sort: q.Sort}
		if err := probe.Validate(); err != nil {
			return err
		}
		d.candidate = q
		return nil
	})
}

// CurationToggle checks or unchecks an article in the selection step.
func (d *Dashboard) CurationToggle(ctx context.Context, kind model.Kind, id string) (bool, error) {
	var selected bool
	err := d.do(ctx, "curation-toggle", func(now time.Time, _ *outbox) error {
		c, err := d.curation(kind)
		if err != nil {
			return err
		}
		a, err := d.store.Article(id)
		if err != nil {
			return err
		}
		selected, err = c.Toggle(a, now)
		return err
	})
	return selected, err
}

// CurationDrop adds a dragged article to the selection step.
func (d *Dashboard) CurationDrop(ctx context.Context, kind model.Kind, id string) (bool, error) {
	var added bool
	err := d.do(ctx, "curation-drop", func(now time.Time, o *outbox) error {
		c, err := d.curation(kind)
		if err != nil {
			return err
		}
		a, err := d.store.Article(id)
		if err != nil {
			return err
		}
		added, err = c.Drop(a, now)
		if err != nil {
			return err
		}
		if !added {
			o.notice(notify.Info("Already selected", a.Title, now))
		}
		return nil
	})
	return added, err
}

func (d *Dashboard) CurationRemove(ctx context.Context, kind model.Kind, id string) error {
	return d.do(ctx, "curation-remove", func(time.Time, *outbox) error {
		c, err := d.curation(kind)
		if err != nil {
			return err
		}
		return c.Remove(id)
	})
}

// ContinueCuration moves to the preview with a snapshot of the selection.
func (d *Dashboard) ContinueCuration(ctx context.Context, kind model.Kind) ([]string, error) {
	var ids []string
	err := d.do(ctx, "continue-curation", func(time.Time, *outbox) error {
		c, err := d.curation(kind)
		if err != nil {
			return err
		}
		ids, err = c.Continue()
		return err
	})
	return ids, err
}

// EditCuration returns from the preview to selection.
func (d *Dashboard) EditCuration(ctx context.Context, kind model.Kind) error {
	return d.do(ctx, "edit-curation", func(time.Time, *outbox) error {
		c, err := d.curation(kind)
		if err != nil {
			return err
		}
		return c.Edit()
	})
}

// DraftArchive is the payload of draft.archived.
type DraftArchive struct {
	Draft      model.Draft `json:"draft"`
	ArticleIDs []string    `json:"article_ids"`
	Reason     string      `json:"reason"`
}

// ArchiveDraft discards the previewed draft with a reason.
func (d *Dashboard) ArchiveDraft(ctx context.Context, kind model.Kind, reason string) error {
	return d.do(ctx, "archive-draft", func(now time.Time, o *outbox) error {
		c, err := d.curation(kind)
		if err != nil {
			return err
		}
		selected := c.Snapshot().Selected
		draft, err := c.Archive(reason)
		if err != nil {
			return err
		}
		o.emit(event.DraftArchived, draft.Title, now, DraftArchive{Draft: draft, ArticleIDs: selected, Reason: reason})
		o.notice(notify.Success(kind.Label()+" archived", draft.Title, now))
		return nil
	})
}

// PublishCuration publishes the previewed draft, prepends the new record and
// shows it.
func (d *Dashboard) PublishCuration(ctx context.Context, kind model.Kind, settings model.PublishSettings) (model.Collection, error) {
	var out model.Collection
	err := d.do(ctx, "publish-curation", func(now time.Time, o *outbox) error {
		c, err := d.curation(kind)
		if err != nil {
			return err
		}
		col, err := c.Publish(settings, now, d.display, d.store.PrependCollection)
		if err != nil {
			return err
		}
		out = col
		if stored, err := d.store.Collection(kind, col.ID); err == nil {
			out = stored
		}

		d.tab = tabFor(kind)
		d.subtabs[d.tab] = string(model.CollectionLive)
		d.selection.Clear()
		d.focusedCollection[kind] = col.ID

		name := event.RoundupPublished
		if kind == model.KindStory {
			name = event.StoryPublished
		}
		o.emit(name, col.ID, now, out)
		if settings.StartMode == model.StartCustom {
			o.notice(notify.Success(kind.Label()+" scheduled",
				fmt.Sprintf("%s goes live %s at %s %s.", col.Title, col.PublishedDate, col.PublishedTime, col.PublishedTimezone), now))
		} else {
			o.notice(notify.Success(kind.Label()+" published", col.Title, now))
		}
		return nil
	})
	return out, err
}
