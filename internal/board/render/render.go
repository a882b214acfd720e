// Package render derives the view model sent to the page. Every state
// mutation ends with a full re-derivation: the rendered rows always match
// the visible set in content and order, and the detail panel falls back to
// an empty selection when its job is no longer present.
package render

import (
	"fmt"

	"github.com/zenseeker0/jobscraps-frontend/internal/board/model"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/store"
)

// View is the full board snapshot for one render cycle.
type View struct {
	Rows             []model.Job       `json:"rows"`
	Total            int               `json:"total"`
	Filtered         int               `json:"filtered"`
	SelectedIndex    int               `json:"selected_index"`
	SelectedJobID    string            `json:"selected_job_id,omitempty"`
	BulkSelected     int               `json:"bulk_selected"`
	TruncationNotice string            `json:"truncation_notice,omitempty"`
	Detail           *model.JobDetails `json:"detail,omitempty"`
}

// Build derives a View from the store and the last fetched detail record.
// displayCap bounds the rendered rows even for filtered results; the
// truncation notice distinguishes the unfiltered first-N case from a
// capped filtered result.
func Build(st *store.Store, detail *model.JobDetails, displayCap int) View {
	rows := st.Visible()
	matched := st.Matched()

	notice := ""
	switch {
	case st.Truncated():
		notice = fmt.Sprintf("Showing first %d of %d jobs. Use search or filters to narrow results.",
			len(rows), matched)
	case displayCap > 0 && len(rows) > displayCap:
		rows = rows[:displayCap]
		notice = fmt.Sprintf("Showing %d of %d filtered jobs. Use more specific search terms to see all results.",
			displayCap, matched)
	}

	index, id := st.Selection()

	// The detail panel only survives if its job is still the selection.
	if detail != nil && (id == "" || detail.ID != id) {
		detail = nil
	}

	return View{
		Rows:             rows,
		Total:            st.FullLen(),
		Filtered:         matched,
		SelectedIndex:    index,
		SelectedJobID:    id,
		BulkSelected:     st.BulkCount(),
		TruncationNotice: notice,
		Detail:           detail,
	}
}
