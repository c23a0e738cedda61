package dashboard

import (
	"context"
	"time"

	"newsdesk/internal/event"
	"newsdesk/internal/model"
	"newsdesk/internal/notify"
	"newsdesk/internal/workflow"
)

// CollectionChange is the payload of collection.status_changed.
type CollectionChange struct {
	ID     string                 `json:"id"`
	Kind   model.Kind             `json:"kind"`
	Action string                 `json:"action"`
	From   model.CollectionStatus `json:"from"`
	To     model.CollectionStatus `json:"to"`
}

var collectionPastTense = map[workflow.CollectionAction]string{
	workflow.CollectionPause:   "paused",
	workflow.CollectionEnd:     "ended",
	workflow.CollectionResume:  "resumed",
	workflow.CollectionArchive: "archived",
	workflow.CollectionExtend:  "extended",
	workflow.CollectionRestore: "restored",
}

// CollectionAction moves a published roundup or story through its lifecycle.
// Referenced articles are never touched.
func (d *Dashboard) CollectionAction(ctx context.Context, kind model.Kind, id string, expectVersion int64, action workflow.CollectionAction) (model.Collection, error) {
	var out model.Collection
	err := d.do(ctx, "collection-action", func(now time.Time, o *outbox) error {
		if _, err := d.curation(kind); err != nil {
			return err
		}
		var change CollectionChange
		c, err := d.store.UpdateCollection(kind, id, expectVersion, func(c *model.Collection) error {
			change = CollectionChange{ID: c.ID, Kind: kind, Action: string(action), From: c.Status}
			if err := action.Apply(c); err != nil {
				return err
			}
			c.UpdatedAt = now
			change.To = c.Status
			return nil
		})
		if err != nil {
			return err
		}
		out = c
		o.emit(event.CollectionStatusChanged, c.ID, now, change)
		o.notice(notify.Success(kind.Label()+" "+collectionPastTense[action], c.Title, now))
		return nil
	})
	return out, err
}
