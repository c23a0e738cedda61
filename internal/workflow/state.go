// Package workflow holds the state machines of the dashboard: the curation
// flow that assembles a roundup or story, and the lifecycles of individual
// articles and published collections.
package workflow

import (
	"slices"

	"newsdesk/internal/model"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseCreating   Phase = "creating"
	PhaseSelecting  Phase = "selecting"
	PhasePrePublish Phase = "pre_publish"
	PhasePublished  Phase = "published"
	PhaseArchived   Phase = "archived"
)

// State is one position of a curation flow. Each phase carries exactly the
// data valid in it, so a draft without a phase or a selection without a draft
// cannot be expressed.
type State interface {
	Phase() Phase
	isState()
}

type Idle struct{}

// Creating is the open creation form, optionally prefilled.
type Creating struct {
	Initial model.Draft
}

// Selecting is article picking for a submitted draft.
type Selecting struct {
	Draft    model.Draft
	Selected []string
}

// PrePublish is the read-only preview of the draft and its snapshotted selection.
type PrePublish struct {
	Draft    model.Draft
	Selected []string
}

type Published struct {
	RecordID string
}

type Archived struct {
	Title  string
	Reason string
}

func (Idle) Phase() Phase       { return PhaseIdle }
func (Creating) Phase() Phase   { return PhaseCreating }
func (Selecting) Phase() Phase  { return PhaseSelecting }
func (PrePublish) Phase() Phase { return PhasePrePublish }
func (Published) Phase() Phase  { return PhasePublished }
func (Archived) Phase() Phase   { return PhaseArchived }

func (Idle) isState()       {}
func (Creating) isState()   {}
func (Selecting) isState()  {}
func (PrePublish) isState() {}
func (Published) isState()  {}
func (Archived) isState()   {}

// Snapshot is the serialisable form of a State.
type Snapshot struct {
	Kind     model.Kind   `json:"kind"`
	Phase    Phase        `json:"phase"`
	Draft    *model.Draft `json:"draft,omitempty"`
	Selected []string     `json:"selected,omitempty"`
	RecordID string       `json:"record_id,omitempty"`
	Reason   string       `json:"reason,omitempty"`
}

func snapshot(kind model.Kind, s State) Snapshot {
	out := Snapshot{Kind: kind, Phase: s.Phase()}
	switch st := s.(type) {
	case Creating:
		d := st.Initial.Clone()
		out.Draft = &d
	case Selecting:
		d := st.Draft.Clone()
		out.Draft = &d
		out.Selected = slices.Clone(st.Selected)
	case PrePublish:
		d := st.Draft.Clone()
		out.Draft = &d
		out.Selected = slices.Clone(st.Selected)
	case Published:
		out.RecordID = st.RecordID
	case Archived:
		out.Reason = st.Reason
	}
	return out
}
