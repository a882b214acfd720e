package model

import (
	"time"

	"github.com/zenseeker0/jobscraps-frontend/internal/board/domain"
)

// Job is one row of a job-board view. Field names follow the PostgREST
// column names so the struct round-trips the wire format unchanged.
// Dates stay strings because the backing views mix date and timestamp
// columns; ordering is done server-side.
type Job struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Company            string     `json:"company"`
	Location           string     `json:"location"`
	IsRemote           bool       `json:"is_remote"`
	Status             string     `json:"status"`
	Reviewed           bool       `json:"reviewed"`
	MinAmount          *float64   `json:"min_amount"`
	MaxAmount          *float64   `json:"max_amount"`
	Currency           string     `json:"currency"`
	DatePosted         string     `json:"date_posted"`
	DateScraped        string     `json:"date_scraped"`
	UserNotes          string     `json:"user_notes"`
	Excluded           bool       `json:"excluded"`
	ExclusionReason    *string    `json:"exclusion_reason"`
	ExclusionSources   []string   `json:"exclusion_sources"`
	ExclusionAppliedAt *time.Time `json:"exclusion_applied_at"`
}

// JobDetails is the enriched record served by the job_details view.
type JobDetails struct {
	Job
	Description     string `json:"description"`
	Skills          string `json:"skills"`
	JobURL          string `json:"job_url"`
	JobURLDirect    string `json:"job_url_direct"`
	CompanyIndustry string `json:"company_industry"`
	JobType         string `json:"job_type"`
	JobLevel        string `json:"job_level"`
	JobRole         string `json:"job_role"`
	LocationScope   string `json:"location_scope"`
}

// ApplicationRecord is one entry of a company's append-only application
// history.
type ApplicationRecord struct {
	Date     string `json:"date"`
	Position string `json:"position"`
	Status   string `json:"status"`
}

// CompanyMetadata is the user-maintained record for a company, keyed by
// company name. It does not exist until the user first annotates the
// company.
type CompanyMetadata struct {
	CompanyName        string              `json:"company_name"`
	Status             string              `json:"status"`
	AppealFactors      string              `json:"appeal_factors"`
	Notes              string              `json:"notes"`
	ApplicationHistory []ApplicationRecord `json:"application_history"`
	CreatedAt          *time.Time          `json:"created_at,omitempty"`
	UpdatedAt          *time.Time          `json:"updated_at,omitempty"`
}

// Fields is a partial wire payload for a merge-patch against a PostgREST
// resource. Keys are column names.
type Fields map[string]any

// With returns a copy of f with an extra key set, leaving f untouched.
// Used to add the primary key when a patch falls back to a create.
func (f Fields) With(key string, value any) Fields {
	out := make(Fields, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	out[key] = value
	return out
}

// StatusChangeFields builds the job_user_metadata payload for a status
// change. The exclusion sub-record is set or cleared in the same payload:
// the exclusion sentinel sets all four fields, every other status clears
// them. A job must never be excluded without an exclusion reason.
func StatusChangeFields(status string, now time.Time) Fields {
	f := Fields{
		"status":   status,
		"reviewed": true,
	}
	if status == domain.StatusIrrelevant {
		f["excluded"] = true
		f["exclusion_reason"] = domain.StatusIrrelevant
		f["exclusion_sources"] = []string{"manual"}
		f["exclusion_applied_at"] = now.UTC().Format(time.RFC3339)
	} else {
		f["excluded"] = false
		f["exclusion_reason"] = nil
		f["exclusion_sources"] = []string{}
		f["exclusion_applied_at"] = nil
	}
	return f
}

// NotesFields builds the job_user_metadata payload for a notes edit.
// Editing notes marks the job reviewed, matching the status path.
func NotesFields(notes string) Fields {
	return Fields{
		"user_notes": notes,
		"reviewed":   true,
	}
}

// CompanyFields builds the company_user_metadata payload for a merge-patch.
// Empty strings are stored as nulls so an untouched field stays unset.
func CompanyFields(meta *CompanyMetadata, now time.Time) Fields {
	f := Fields{
		"status":         nullIfEmpty(meta.Status),
		"appeal_factors": nullIfEmpty(meta.AppealFactors),
		"notes":          nullIfEmpty(meta.Notes),
		"updated_at":     now.UTC().Format(time.RFC3339),
	}
	if meta.ApplicationHistory != nil {
		f["application_history"] = meta.ApplicationHistory
	}
	return f
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
