// Package store owns the board's client-side state: the full loaded job
// set, the derived visible subset, the selection cursor, the bulk-selection
// set and the mutation lock. All mutations go through its methods so the
// state is constructible and testable per test case instead of living in
// package-level variables.
package store

import (
	"sync"
	"time"

	"github.com/zenseeker0/jobscraps-frontend/internal/board/domain"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/filter"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/model"
)

// Store holds board state. The zero value is not usable; call New.
type Store struct {
	mu sync.Mutex

	full      []model.Job
	visible   []model.Job
	matched   int
	truncated bool

	// Cursor identity is the job id; the index is always re-derived from
	// it because the visible set can shrink or reorder between renders.
	selectedIndex int
	selectedJobID string

	bulk map[string]struct{}

	updating bool
}

// New creates an empty store.
func New() *Store {
	return &Store{
		selectedIndex: -1,
		bulk:          make(map[string]struct{}),
	}
}

// ReplaceFullSet replaces the full set wholesale, used after a fresh load
// or a server-delegated filter fetch. The visible set is stale afterwards
// until SetVisible is called.
func (s *Store) ReplaceFullSet(jobs []model.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.full = append([]model.Job(nil), jobs...)
}

// Full returns a copy of the full set.
func (s *Store) Full() []model.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Job(nil), s.full...)
}

// FullLen returns the size of the full set.
func (s *Store) FullLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.full)
}

// SetVisible installs a freshly derived visible set. When resetSelection
// is true the cursor and the bulk selection are cleared; otherwise the
// cursor is relocated to the previously selected id's new position, or
// cleared when that id is gone. A stale index never survives.
func (s *Store) SetVisible(res filter.Result, resetSelection bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.visible = res.Visible
	s.matched = res.Matched
	s.truncated = res.Truncated

	if resetSelection {
		s.selectedIndex = -1
		s.selectedJobID = ""
		s.bulk = make(map[string]struct{})
		return
	}

	s.selectedIndex = filter.Relocate(s.visible, s.selectedJobID)
	if s.selectedIndex < 0 {
		s.selectedJobID = ""
	}
}

// Visible returns a copy of the visible set.
func (s *Store) Visible() []model.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Job(nil), s.visible...)
}

// Matched returns how many jobs matched the active filter before the
// display cap.
func (s *Store) Matched() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matched
}

// Truncated reports whether the visible set was cut to the display cap.
func (s *Store) Truncated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.truncated
}

// ApplyStatusChange merges a confirmed status change into the full set
// entry. Setting the exclusion sentinel sets the whole exclusion
// sub-record and removes the job from both sets, clearing the cursor if
// it pointed at the removed job; any other status clears the sub-record.
// Returns whether the job was found and whether it was removed.
func (s *Store) ApplyStatusChange(id, status string, now time.Time) (found, removed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.full, id)
	if i < 0 {
		return false, false
	}

	job := &s.full[i]
	job.Status = status
	job.Reviewed = true
	if status == domain.StatusIrrelevant {
		reason := domain.StatusIrrelevant
		appliedAt := now.UTC()
		job.Excluded = true
		job.ExclusionReason = &reason
		job.ExclusionSources = []string{"manual"}
		job.ExclusionAppliedAt = &appliedAt
	} else {
		job.Excluded = false
		job.ExclusionReason = nil
		job.ExclusionSources = []string{}
		job.ExclusionAppliedAt = nil
	}

	if !job.Excluded {
		return true, false
	}

	s.full = append(s.full[:i], s.full[i+1:]...)
	if vi := indexOf(s.visible, id); vi >= 0 {
		s.visible = append(s.visible[:vi], s.visible[vi+1:]...)
	}
	delete(s.bulk, id)

	if s.selectedJobID == id {
		s.selectedIndex = -1
		s.selectedJobID = ""
	} else {
		s.selectedIndex = filter.Relocate(s.visible, s.selectedJobID)
	}

	return true, true
}

// ApplyNotes merges a confirmed notes edit into the full set entry.
func (s *Store) ApplyNotes(id, notes string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.full, id)
	if i < 0 {
		return false
	}
	s.full[i].UserNotes = notes
	s.full[i].Reviewed = true
	if vi := indexOf(s.visible, id); vi >= 0 {
		s.visible[vi].UserNotes = notes
		s.visible[vi].Reviewed = true
	}
	return true
}

// Select moves the cursor to a position in the visible set.
func (s *Store) Select(index int) (model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.visible) {
		return model.Job{}, domain.ErrJobNotFound
	}
	s.selectedIndex = index
	s.selectedJobID = s.visible[index].ID
	return s.visible[index], nil
}

// Selection returns the cursor as (index, id). Index is -1 when nothing
// is selected.
func (s *Store) Selection() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedIndex, s.selectedJobID
}

// RestoreSelection re-selects a job id if it is still visible, for session
// restore. Returns whether the id was found.
func (s *Store) RestoreSelection(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := filter.Relocate(s.visible, id)
	if i < 0 {
		return false
	}
	s.selectedIndex = i
	s.selectedJobID = id
	return true
}

// ToggleBulk flips a job's membership in the bulk-selection set and
// reports the new membership.
func (s *Store) ToggleBulk(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bulk[id]; ok {
		delete(s.bulk, id)
		return false
	}
	s.bulk[id] = struct{}{}
	return true
}

// SelectAllVisible adds every visible job to the bulk selection and
// returns how many are now selected.
func (s *Store) SelectAllVisible() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.visible {
		s.bulk[s.visible[i].ID] = struct{}{}
	}
	return len(s.bulk)
}

// ClearBulk empties the bulk selection.
func (s *Store) ClearBulk() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bulk = make(map[string]struct{})
}

// BulkSelected returns the ids in the bulk selection, in visible-set order
// first and then any remaining ids.
func (s *Store) BulkSelected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.bulk))
	seen := make(map[string]struct{}, len(s.bulk))
	for i := range s.visible {
		id := s.visible[i].ID
		if _, ok := s.bulk[id]; ok {
			out = append(out, id)
			seen[id] = struct{}{}
		}
	}
	for id := range s.bulk {
		if _, ok := seen[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// BulkCount returns the bulk selection size.
func (s *Store) BulkCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bulk)
}

// TryBeginUpdate acquires the mutation lock. At most one metadata mutation
// runs at a time; a second request while the lock is held is dropped by
// the caller, not queued.
func (s *Store) TryBeginUpdate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.updating {
		return false
	}
	s.updating = true
	return true
}

// EndUpdate releases the mutation lock.
func (s *Store) EndUpdate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updating = false
}

// Updating reports whether a mutation is in flight.
func (s *Store) Updating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updating
}

func indexOf(jobs []model.Job, id string) int {
	for i := range jobs {
		if jobs[i].ID == id {
			return i
		}
	}
	return -1
}
