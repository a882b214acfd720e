// Package export turns export rows into downloadable artifacts: a CSV of
// the filtered jobs and a JSON workflow-state file. Filenames are derived
// deterministically from the current date and the active filters.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/zenseeker0/jobscraps-frontend/internal/board/model"
)

// columns is the CSV header, in the order the export view presents its
// fields.
var columns = []string{
	"id", "title", "company", "location", "is_remote",
	"status", "reviewed", "min_amount", "max_amount", "currency",
	"date_posted", "date_scraped", "user_notes",
	"excluded", "exclusion_reason",
	"description", "skills", "job_url", "job_url_direct",
	"company_industry", "job_type", "job_level", "job_role", "location_scope",
}

// WriteCSV writes the export rows as CSV: a header row of field names,
// then one record per job. Embedded quotes are escaped by doubling, per
// the CSV quoting rules.
func WriteCSV(w io.Writer, rows []model.JobDetails) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range rows {
		if err := cw.Write(values(&rows[i])); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

func values(d *model.JobDetails) []string {
	return []string{
		d.ID, d.Title, d.Company, d.Location, strconv.FormatBool(d.IsRemote),
		d.Status, strconv.FormatBool(d.Reviewed), amount(d.MinAmount), amount(d.MaxAmount), d.Currency,
		d.DatePosted, d.DateScraped, d.UserNotes,
		strconv.FormatBool(d.Excluded), strPtr(d.ExclusionReason),
		d.Description, d.Skills, d.JobURL, d.JobURLDirect,
		d.CompanyIndustry, d.JobType, d.JobLevel, d.JobRole, d.LocationScope,
	}
}

func amount(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func strPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Filename builds the CSV download name from the current date and the
// active filters, e.g. jobs_export_2025-06-01_applied_search_remote.csv.
// A truncated export gets a firstN marker so partial files are obvious.
func Filename(now time.Time, search, status, view, defaultView string, filtered, cap int) string {
	var b strings.Builder
	b.WriteString("jobs_export_")
	b.WriteString(now.Format("2006-01-02"))

	if status != "" {
		b.WriteString("_" + status)
	}
	if search != "" {
		b.WriteString("_search")
	}
	if view != "" && view != defaultView {
		b.WriteString("_" + strings.TrimPrefix(view, "job_board_"))
	}
	if cap > 0 && filtered > cap {
		b.WriteString(fmt.Sprintf("_first%d", cap))
	}

	b.WriteString(".csv")
	return b.String()
}

// WorkflowState is the JSON session/analytics export: current selections,
// mode and filters at a point in time.
type WorkflowState struct {
	Selections []string  `json:"selections"`
	Mode       string    `json:"workflow_mode"`
	Search     string    `json:"search"`
	Status     string    `json:"status"`
	View       string    `json:"view"`
	Timestamp  time.Time `json:"timestamp"`
}

// WriteWorkflowState writes the state as indented JSON.
func WriteWorkflowState(w io.Writer, state WorkflowState) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		return fmt.Errorf("failed to encode workflow state: %w", err)
	}
	return nil
}

// WorkflowFilename names the JSON workflow-state download for a given day.
func WorkflowFilename(now time.Time) string {
	return "workflow_state_" + now.Format("2006-01-02") + ".json"
}
