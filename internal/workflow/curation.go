package workflow

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"newsdesk/internal/filter"
	"newsdesk/internal/model"
)

const (
	MinCurated = 5
	MaxCurated = 8
)

// Curation drives one roundup or story from creation form to publish or archive.
type Curation struct {
	kind  model.Kind
	state State
}

func NewCuration(kind model.Kind) *Curation {
	return &Curation{kind: kind, state: Idle{}}
}

func (c *Curation) Kind() model.Kind { return c.kind }

func (c *Curation) State() State { return c.state }

func (c *Curation) Snapshot() Snapshot { return snapshot(c.kind, c.state) }

// Active reports whether a draft is somewhere between creation and its final step.
func (c *Curation) Active() bool {
	switch c.state.(type) {
	case Creating, Selecting, PrePublish:
		return true
	}
	return false
}

// Begin opens the creation form. Terminal states may start over.
func (c *Curation) Begin(initial model.Draft) error {
	if c.Active() {
		return c.invalid("start a new draft")
	}
	initial.Kind = c.kind
	c.state = Creating{Initial: initial.Clone()}
	return nil
}

// Submit validates the form and moves to article selection. A rejected form
// keeps the machine in Creating.
func (c *Curation) Submit(d model.Draft) error {
	if _, ok := c.state.(Creating); !ok {
		return c.invalid("submit the draft form")
	}
	d, err := NormalizeDraft(c.kind, d)
	if err != nil {
		return err
	}
	c.state = Selecting{Draft: d}
	return nil
}

// Cancel abandons the draft from the form or from selection.
func (c *Curation) Cancel() error {
	switch c.state.(type) {
	case Creating, Selecting:
		c.state = Idle{}
		return nil
	}
	return c.invalid("cancel")
}

// Toggle adds or removes an article from the selection (checkbox semantics).
func (c *Curation) Toggle(a model.Article, now time.Time) (selected bool, err error) {
	st, ok := c.state.(Selecting)
	if !ok {
		return false, c.invalid("select articles")
	}
	if i := slices.Index(st.Selected, a.ID); i >= 0 {
		st.Selected = slices.Delete(slices.Clone(st.Selected), i, i+1)
		c.state = st
		return false, nil
	}
	if err := c.canAdd(st, a, now); err != nil {
		return false, err
	}
	st.Selected = append(slices.Clone(st.Selected), a.ID)
	c.state = st
	return true, nil
}

// Drop adds an article dragged into the selection. Dropping an article that is
// already selected is a no-op and reports added=false.
func (c *Curation) Drop(a model.Article, now time.Time) (added bool, err error) {
	st, ok := c.state.(Selecting)
	if !ok {
		return false, c.invalid("select articles")
	}
	if slices.Contains(st.Selected, a.ID) {
		return false, nil
	}
	if err := c.canAdd(st, a, now); err != nil {
		return false, err
	}
	st.Selected = append(slices.Clone(st.Selected), a.ID)
	c.state = st
	return true, nil
}

func (c *Curation) Remove(id string) error {
	st, ok := c.state.(Selecting)
	if !ok {
		return c.invalid("remove articles")
	}
	st.Selected = slices.DeleteFunc(slices.Clone(st.Selected), func(s string) bool { return s == id })
	c.state = st
	return nil
}

// Continue snapshots the selection and moves to the preview.
func (c *Curation) Continue() ([]string, error) {
	st, ok := c.state.(Selecting)
	if !ok {
		return nil, c.invalid("continue to preview")
	}
	if len(st.Selected) < MinCurated {
		return nil, model.Reject(model.ErrInsufficient, fmt.Sprintf("Minimum %d articles required", MinCurated),
			fmt.Sprintf("Please select at least %d articles for the %s.", MinCurated, c.noun()))
	}
	selected := slices.Clone(st.Selected)
	c.state = PrePublish{Draft: st.Draft, Selected: selected}
	return slices.Clone(selected), nil
}

// Edit returns from the preview to selection with the snapshotted ids restored.
func (c *Curation) Edit() error {
	st, ok := c.state.(PrePublish)
	if !ok {
		return c.invalid("edit the selection")
	}
	c.state = Selecting{Draft: st.Draft, Selected: slices.Clone(st.Selected)}
	return nil
}

// Archive discards the previewed draft. The returned draft is what was archived.
func (c *Curation) Archive(reason string) (model.Draft, error) {
	st, ok := c.state.(PrePublish)
	if !ok {
		return model.Draft{}, c.invalid("archive")
	}
	c.state = Archived{Title: st.Draft.Title, Reason: strings.TrimSpace(reason)}
	return st.Draft, nil
}

// Publish validates settings, builds the collection and hands it to commit.
// The machine only reaches Published when commit succeeds.
func (c *Curation) Publish(settings model.PublishSettings, now time.Time, display Display, commit func(model.Collection) error) (model.Collection, error) {
	st, ok := c.state.(PrePublish)
	if !ok {
		return model.Collection{}, c.invalid("publish")
	}
	col, err := BuildCollection(st.Draft, st.Selected, settings, now, display)
	if err != nil {
		return model.Collection{}, err
	}
	if err := commit(col); err != nil {
		return model.Collection{}, err
	}
	c.state = Published{RecordID: col.ID}
	return col, nil
}

func (c *Curation) canAdd(st Selecting, a model.Article, now time.Time) error {
	if len(st.Selected) >= MaxCurated {
		return model.Reject(model.ErrCapacity, fmt.Sprintf("Maximum %d articles allowed", MaxCurated),
			fmt.Sprintf("You can select up to %d articles for a %s.", MaxCurated, c.noun()))
	}
	if !filter.Eligible(a, now) {
		return model.Reject(model.ErrValidation, "Article not eligible",
			"Only articles published within the last 24 hours can be added.")
	}
	return nil
}

func (c *Curation) invalid(action string) error {
	return model.Reject(model.ErrInvalidTransition, "Action not available",
		fmt.Sprintf("Cannot %s while the %s is %s.", action, c.noun(), c.state.Phase()))
}

func (c *Curation) noun() string {
	return strings.ToLower(c.kind.Label())
}

// NormalizeDraft trims the fields, lowercases tags and checks the required ones.
func NormalizeDraft(kind model.Kind, d model.Draft) (model.Draft, error) {
	d.Kind = kind
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Type = strings.TrimSpace(d.Type)
	d.Subtype = strings.TrimSpace(d.Subtype)
	d.Tags = NormalizeTags(d.Tags)

	required := []struct {
		value, message string
	}{
		{d.Title, "Please enter a roundup name"},
		{d.Description, "Please enter a description"},
		{d.Type, "Please select a roundup type"},
	}
	if kind == model.KindStory {
		required = []struct {
			value, message string
		}{
			{d.Title, "Please enter a headline"},
			{d.Description, "Please enter a description"},
			{d.Type, "Please select a category"},
			{d.Subtype, "Please select a sub-category"},
		}
	}
	for _, r := range required {
		if r.value == "" {
			return model.Draft{}, model.Reject(model.ErrValidation, r.message, "")
		}
	}
	return d, nil
}

// NormalizeTags trims, lowercases and de-duplicates tags, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
