// Package merger combines the owned and participant reservation snapshots of
// one session into a single date-ordered list with one entry per id.
package merger

import (
	"sort"

	"golfmaster/pkg/model"
)

// Side identifies which live query a snapshot came from.
type Side int

const (
	SideOwned Side = iota
	SideParticipant
)

func (s Side) String() string {
	switch s {
	case SideOwned:
		return "owned"
	case SideParticipant:
		return "participant"
	default:
		return "unknown"
	}
}

func (s Side) other() Side {
	if s == SideOwned {
		return SideParticipant
	}
	return SideOwned
}

// Merger is not safe for concurrent use. The view-model drives it from a
// single goroutine.
type Merger struct {
	latest [2]map[string]struct{}
	merged map[string]*model.Reservation
}

func New() *Merger {
	return &Merger{
		latest: [2]map[string]struct{}{{}, {}},
		merged: make(map[string]*model.Reservation),
	}
}

// Apply records snapshot as the latest full result of side and returns the
// merged list. Entries the side reported before are kept only while the
// other side still reports them, so a deleted reservation lingers until
// every side that reported it delivers a snapshot without it.
func (m *Merger) Apply(side Side, snapshot []*model.Reservation) []*model.Reservation {
	if side != SideOwned && side != SideParticipant {
		return m.List()
	}

	other := m.latest[side.other()]
	for id := range m.latest[side] {
		if _, kept := other[id]; !kept {
			delete(m.merged, id)
		}
	}

	current := make(map[string]struct{}, len(snapshot))
	for _, r := range snapshot {
		if r == nil || r.ID == "" {
			continue
		}
		current[r.ID] = struct{}{}
		m.merged[r.ID] = r
	}
	m.latest[side] = current

	return m.List()
}

// List returns the merged reservations ordered by date, then id. The
// returned slice is owned by the caller.
func (m *Merger) List() []*model.Reservation {
	out := make([]*model.Reservation, 0, len(m.merged))
	for _, r := range m.merged {
		out = append(out, r)
	}
	sortByDate(out)
	return out
}

func (m *Merger) Len() int {
	return len(m.merged)
}

// Reset forgets both sides.
func (m *Merger) Reset() {
	m.latest = [2]map[string]struct{}{{}, {}}
	m.merged = make(map[string]*model.Reservation)
}

// Merge is the one-shot form used when both snapshots are already at hand.
func Merge(owned, participant []*model.Reservation) []*model.Reservation {
	m := New()
	m.Apply(SideOwned, owned)
	return m.Apply(SideParticipant, participant)
}

func sortByDate(rs []*model.Reservation) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].Date.Equal(rs[j].Date) {
			return rs[i].Date.Before(rs[j].Date)
		}
		return rs[i].ID < rs[j].ID
	})
}
