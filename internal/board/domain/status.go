package domain

// Job review statuses. An empty string means the job has not been triaged.
const (
	StatusInterested = "interested"
	StatusApplied    = "applied"
	StatusFollowedUp = "followed-up"
	StatusRejected   = "rejected"
	StatusIrrelevant = "irrelevant"
)

// StatusUnreviewed is a filter facet, not a stored status: it matches jobs
// whose status is unset and whose reviewed flag is false.
const StatusUnreviewed = "unreviewed"

// JobStatuses lists every status a job can be set to.
var JobStatuses = []string{
	StatusInterested,
	StatusApplied,
	StatusFollowedUp,
	StatusRejected,
	StatusIrrelevant,
}

// Company review statuses.
const (
	CompanyStatusTarget   = "target"
	CompanyStatusApplied  = "applied"
	CompanyStatusRejected = "rejected"
	CompanyStatusAvoid    = "avoid"
)

// Workflow modes for the session.
const (
	ModeReview = "review"
	ModeTriage = "triage"
)

// ValidJobStatus reports whether status is settable on a job. The empty
// string is allowed and clears the status.
func ValidJobStatus(status string) bool {
	if status == "" {
		return true
	}
	for _, s := range JobStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ValidCompanyStatus reports whether status is settable on a company record.
func ValidCompanyStatus(status string) bool {
	switch status {
	case "", CompanyStatusTarget, CompanyStatusApplied, CompanyStatusRejected, CompanyStatusAvoid:
		return true
	}
	return false
}
