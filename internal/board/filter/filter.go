// Package filter derives the visible job subset from the full loaded set.
// It is a pure function of its inputs; callers own the state it reads.
package filter

import (
	"strings"

	"github.com/zenseeker0/jobscraps-frontend/internal/board/domain"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/model"
)

// Params are the active filter inputs.
type Params struct {
	Search     string // free-text term; exact id match wins, then substring over title/company/location
	Status     string // status facet; "unreviewed" has falsy-status semantics
	DisplayCap int    // max rows shown for the empty-filter case; 0 disables the cap
}

// Empty reports whether no search term and no status facet are active.
func (p Params) Empty() bool {
	return strings.TrimSpace(p.Search) == "" && p.Status == ""
}

// Result is the derived visible subset.
type Result struct {
	Visible   []model.Job
	Matched   int  // rows that matched before the display cap
	Truncated bool // Visible was cut to DisplayCap; display policy, not a filter
}

// NeedsServerFilter reports whether filtering should be delegated to the
// gateway: the full set is past the large-dataset threshold and a search
// term or status facet is active.
func NeedsServerFilter(fullLen, threshold int, p Params) bool {
	return fullLen > threshold && !p.Empty()
}

// Apply derives the visible set. Excluded jobs never appear, whatever the
// other inputs. The display cap only applies to the empty-filter case, so
// re-deriving with the same inputs always reproduces the same first-N
// slice (the full set is ordered by scrape date descending upstream).
func Apply(full []model.Job, p Params) Result {
	term := strings.ToLower(strings.TrimSpace(p.Search))

	visible := make([]model.Job, 0, len(full))
	for _, job := range full {
		if job.Excluded {
			continue
		}
		if term != "" && !matchesSearch(&job, term) {
			continue
		}
		if p.Status != "" && !matchesStatus(&job, p.Status) {
			continue
		}
		visible = append(visible, job)
	}

	res := Result{Visible: visible, Matched: len(visible)}

	if p.Empty() && p.DisplayCap > 0 && len(visible) > p.DisplayCap {
		res.Visible = visible[:p.DisplayCap]
		res.Truncated = true
	}

	return res
}

func matchesSearch(job *model.Job, term string) bool {
	if strings.ToLower(job.ID) == term {
		return true
	}
	return strings.Contains(strings.ToLower(job.Title), term) ||
		strings.Contains(strings.ToLower(job.Company), term) ||
		strings.Contains(strings.ToLower(job.Location), term)
}

// matchesStatus implements the facet semantics: "unreviewed" matches a
// falsy status (empty or the literal "unreviewed") on a job that is not
// marked reviewed; any other facet matches by exact equality.
func matchesStatus(job *model.Job, facet string) bool {
	if facet == domain.StatusUnreviewed {
		unset := job.Status == "" || job.Status == domain.StatusUnreviewed
		return unset && !job.Reviewed
	}
	return job.Status == facet
}

// Relocate finds id's position in visible, or -1 when absent. Used to
// re-derive the selection cursor after the visible set changes.
func Relocate(visible []model.Job, id string) int {
	if id == "" {
		return -1
	}
	for i := range visible {
		if visible[i].ID == id {
			return i
		}
	}
	return -1
}
