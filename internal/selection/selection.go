// Package selection tracks the bulk-action selection and ranks suggestions for it.
package selection

import (
	"fmt"
	"slices"

	"newsdesk/internal/model"
)

// MaxSelected is the largest bulk selection allowed.
const MaxSelected = 5

// State is a read-only snapshot of the manager.
type State struct {
	SelectedIDs []string `json:"selected_ids"`
	BulkMode    bool     `json:"bulk_mode"`
	SuggestMode bool     `json:"suggest_mode"`
}

// Manager owns the selected ids and the two mode flags. It never touches records;
// ids may go stale when the article they name changes status elsewhere.
type Manager struct {
	selected    []string
	bulkMode    bool
	suggestMode bool
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) State() State {
	return State{
		SelectedIDs: slices.Clone(m.selected),
		BulkMode:    m.bulkMode,
		SuggestMode: m.suggestMode,
	}
}

func (m *Manager) Selected() []string {
	return slices.Clone(m.selected)
}

func (m *Manager) Contains(id string) bool {
	return slices.Contains(m.selected, id)
}

func (m *Manager) BulkMode() bool {
	return m.bulkMode
}

// Toggle removes id when selected and appends it otherwise. Any manual edit
// drops the suggestion framing. Selecting while bulk mode is off turns it on.
func (m *Manager) Toggle(id string) (selected bool, err error) {
	if i := slices.Index(m.selected, id); i >= 0 {
		m.selected = slices.Delete(m.selected, i, i+1)
		m.suggestMode = false
		return false, nil
	}
	if len(m.selected) >= MaxSelected {
		return false, model.Reject(model.ErrCapacity, "Selection limit reached",
			fmt.Sprintf("You can select up to %d articles at a time.", MaxSelected))
	}
	m.selected = append(m.selected, id)
	m.bulkMode = true
	m.suggestMode = false
	return true, nil
}

// ToggleBulkMode flips bulk mode and reports the new value. Leaving bulk mode
// drops the selection.
func (m *Manager) ToggleBulkMode() bool {
	if m.bulkMode {
		m.Clear()
		return false
	}
	m.bulkMode = true
	m.suggestMode = false
	return true
}

// ApplySuggestion replaces the selection with a ranked suggestion.
func (m *Manager) ApplySuggestion(ids []string) {
	m.selected = slices.Clone(ids)
	m.bulkMode = true
	m.suggestMode = true
}

func (m *Manager) Clear() {
	m.selected = nil
	m.bulkMode = false
	m.suggestMode = false
}
