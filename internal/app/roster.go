package app

import (
	"strings"

	"github.com/joelklabo/scriptshelf/internal/execx"
	"github.com/joelklabo/scriptshelf/internal/store"
)

// Roster is the front-end view model: the listed scripts plus the operator's
// current selection. It is built from store.List and handed to the run
// handler explicitly.
type Roster struct {
	Entries  []store.ListEntry
	selected int
}

func NewRoster(entries []store.ListEntry) *Roster {
	return &Roster{Entries: entries, selected: -1}
}

func (r *Roster) Len() int { return len(r.Entries) }

// Select marks the i-th entry (zero-based). Out of range clears the selection.
func (r *Roster) Select(i int) bool {
	if i < 0 || i >= len(r.Entries) {
		r.selected = -1
		return false
	}
	r.selected = i
	return true
}

// SelectName selects the entry with exactly this name.
func (r *Roster) SelectName(name string) bool {
	for i, e := range r.Entries {
		if e.Name == name {
			r.selected = i
			return true
		}
	}
	r.selected = -1
	return false
}

func (r *Roster) Clear() { r.selected = -1 }

func (r *Roster) Selected() (store.ListEntry, bool) {
	if r.selected < 0 || r.selected >= len(r.Entries) {
		return store.ListEntry{}, false
	}
	return r.Entries[r.selected], true
}

// Description is the readout for the current selection, empty when nothing is
// selected.
func (r *Roster) Description() string {
	e, ok := r.Selected()
	if !ok {
		return ""
	}
	return e.Description
}

func (r *Roster) Names() []string {
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Name
	}
	return out
}

// Filter returns a new roster holding the entries whose name or description
// contains q, case-insensitively. Order is preserved.
func (r *Roster) Filter(q string) *Roster {
	q = strings.TrimSpace(q)
	if q == "" {
		return NewRoster(r.Entries)
	}
	var out []store.ListEntry
	for _, e := range r.Entries {
		if execx.ContainsFold(e.Name, q) || execx.ContainsFold(e.Description, q) {
			out = append(out, e)
		}
	}
	return NewRoster(out)
}

func loadRoster(dbPath string) (*Roster, error) {
	var entries []store.ListEntry
	err := store.WithDB(dbPath, func(db *store.DB) error {
		var err error
		entries, err = db.List()
		return err
	})
	if err != nil {
		return nil, err
	}
	return NewRoster(entries), nil
}
