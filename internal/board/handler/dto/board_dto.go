package dto

// SearchRequest carries the search term and status facet.
type SearchRequest struct {
	Search string `form:"search"`
	Status string `form:"status"`
}

// ViewRequest switches the active jobs view.
type ViewRequest struct {
	View string `json:"view" binding:"required"`
}

// SelectRequest moves the cursor to an index in the visible set.
type SelectRequest struct {
	Index int `json:"index"`
}

// StatusUpdateRequest sets a job's review status. An empty status clears
// it.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// NotesUpdateRequest saves a job's free-text notes.
type NotesUpdateRequest struct {
	Notes string `json:"notes"`
}

// ModeRequest switches the workflow mode.
type ModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// CompanyUpdateRequest merge-patches a company's metadata.
type CompanyUpdateRequest struct {
	Status        string `json:"status"`
	AppealFactors string `json:"appeal_factors"`
	Notes         string `json:"notes"`
}

// ApplicationRequest appends an application history entry.
type ApplicationRequest struct {
	Position string `json:"position" binding:"required"`
	Status   string `json:"status" binding:"required"`
}
