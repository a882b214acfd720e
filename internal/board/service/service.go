// Package service orchestrates the board: it is the only writer of the
// state store, and every operation ends with a re-derivation of the
// visible set so the rendered view never drifts from the data.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/zenseeker0/jobscraps-frontend/internal/board/domain"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/export"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/filter"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/gateway"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/model"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/render"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/session"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/store"
	"github.com/zenseeker0/jobscraps-frontend/shared/postgrest"
)

// Gateway is the remote data surface the service depends on.
type Gateway interface {
	ListJobs(ctx context.Context, view string, f gateway.Filters) ([]model.Job, error)
	GetJobDetails(ctx context.Context, id string) (*model.JobDetails, error)
	UpsertJobMetadata(ctx context.Context, id string, fields model.Fields) (postgrest.UpsertResult, error)
	UpsertCompanyMetadata(ctx context.Context, name string, fields model.Fields) (postgrest.UpsertResult, error)
	GetCompanyMetadata(ctx context.Context, name string) (*model.CompanyMetadata, error)
	ExportBatch(ctx context.Context, ids []string) ([]model.JobDetails, error)
}

// Config holds the board tunables the service consumes.
type Config struct {
	DefaultView           string
	AvailableViews        []string
	MaxVisibleJobs        int
	LargeDatasetThreshold int
	MaxExportSize         int
	SearchDebounce        time.Duration
}

// Service is the board orchestrator.
type Service struct {
	gw      Gateway
	store   *store.Store
	config  Config
	logger  *slog.Logger
	session *session.Manager
	clock   func() time.Time

	searchDebounce *Debouncer

	mu           sync.Mutex
	pendingSelID string
	pendingBulk  []string
	searchTerm   string
	statusFacet  string
	view         string
	mode         string
	detail       *model.JobDetails
	searchSeq    uint64
	companyCache map[string]*model.CompanyMetadata
}

// New creates a board service. sessions may be nil to disable persistence.
func New(gw Gateway, st *store.Store, cfg Config, sessions *session.Manager, logger *slog.Logger) *Service {
	return &Service{
		gw:             gw,
		store:          st,
		config:         cfg,
		logger:         logger,
		session:        sessions,
		clock:          time.Now,
		searchDebounce: NewDebouncer(cfg.SearchDebounce),
		view:           cfg.DefaultView,
		mode:           domain.ModeReview,
		companyCache:   make(map[string]*model.CompanyMetadata),
	}
}

// Load fetches the current view from the gateway and replaces the full
// set. On failure the store is left untouched.
func (s *Service) Load(ctx context.Context) error {
	view := s.CurrentView()

	jobs, err := s.gw.ListJobs(ctx, view, gateway.Filters{})
	if err != nil {
		return fmt.Errorf("failed to load jobs: %w", err)
	}

	s.store.ReplaceFullSet(jobs)
	s.refilter(false)
	s.applyPendingRestore()

	s.logger.Info("Jobs loaded",
		slog.String("view", view),
		slog.Int("count", len(jobs)),
	)

	return nil
}

// Search applies a search term and status facet. Past the large-dataset
// threshold, filtering is delegated to the gateway and the result becomes
// both the full and the visible set; a delegated fetch whose result
// arrives after a newer search began is discarded (supersession). Local
// filtering resets the selection, matching a user-initiated filter change.
func (s *Service) Search(ctx context.Context, term, status string) error {
	s.mu.Lock()
	s.searchTerm = term
	s.statusFacet = status
	s.searchSeq++
	seq := s.searchSeq
	view := s.view
	s.mu.Unlock()

	params := s.filterParams()

	if filter.NeedsServerFilter(s.store.FullLen(), s.config.LargeDatasetThreshold, params) {
		jobs, err := s.gw.ListJobs(ctx, view, gateway.Filters{Search: term, Status: status})
		if err != nil {
			s.logger.Warn("Server-side filtering failed, falling back to local filter",
				slog.String("error", err.Error()),
			)
			s.refilter(true)
			return nil
		}

		if s.superseded(seq) {
			s.logger.Debug("Discarding stale filtered fetch",
				slog.Uint64("seq", seq),
				slog.String("search", term),
			)
			return nil
		}

		s.store.ReplaceFullSet(jobs)
		s.store.SetVisible(filter.Result{Visible: jobs, Matched: len(jobs)}, true)
		return nil
	}

	s.refilter(true)
	return nil
}

// SearchDebounced coalesces rapid search input into one Search cycle.
func (s *Service) SearchDebounced(term, status string) {
	s.searchDebounce.Trigger(func() {
		if err := s.Search(context.Background(), term, status); err != nil {
			s.logger.Error("Debounced search failed",
				slog.String("error", err.Error()),
			)
		}
	})
}

// SetView switches the active jobs view and reloads.
func (s *Service) SetView(ctx context.Context, view string) error {
	if len(s.config.AvailableViews) > 0 {
		if !s.knownView(view) {
			return fmt.Errorf("unknown view %q", view)
		}
	}

	s.mu.Lock()
	s.view = view
	s.detail = nil
	s.mu.Unlock()

	return s.Load(ctx)
}

// applyPendingRestore replays a restored session's selection against
// freshly loaded data. Ids that no longer exist are dropped silently.
func (s *Service) applyPendingRestore() {
	s.mu.Lock()
	selID := s.pendingSelID
	bulk := s.pendingBulk
	s.pendingSelID = ""
	s.pendingBulk = nil
	s.mu.Unlock()

	visible := make(map[string]struct{})
	for _, j := range s.store.Visible() {
		visible[j.ID] = struct{}{}
	}
	for _, id := range bulk {
		if _, ok := visible[id]; ok {
			s.store.ToggleBulk(id)
		}
	}
	if selID != "" {
		s.store.RestoreSelection(selID)
	}
}

func (s *Service) knownView(view string) bool {
	for _, v := range s.config.AvailableViews {
		if v == view {
			return true
		}
	}
	return false
}

// Select moves the cursor to an index in the visible set and lazily loads
// the job's details. A failed or timed-out detail fetch leaves an empty
// detail panel and reports the error; the selection itself sticks.
func (s *Service) Select(ctx context.Context, index int) error {
	job, err := s.store.Select(index)
	if err != nil {
		return err
	}

	detail, err := s.gw.GetJobDetails(ctx, job.ID)
	s.mu.Lock()
	s.detail = detail
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to load job details: %w", err)
	}
	return nil
}

// UpdateStatus sets a job's review status. The store is only touched
// after the gateway confirms the write, and the exclusion sub-record is
// set or cleared in the same step as the status. While another mutation
// is in flight the request is dropped: no network call, no state change.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	if !domain.ValidJobStatus(status) {
		return fmt.Errorf("invalid status %q", status)
	}

	if !s.store.TryBeginUpdate() {
		s.logger.Debug("Dropping status update, another mutation is in flight",
			slog.String("job_id", id),
		)
		return domain.ErrUpdateInFlight
	}
	defer s.store.EndUpdate()

	now := s.clock()

	result, err := s.gw.UpsertJobMetadata(ctx, id, model.StatusChangeFields(status, now))
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	found, removed := s.store.ApplyStatusChange(id, status, now)
	if !found {
		s.logger.Warn("Status updated for a job not in the loaded set",
			slog.String("job_id", id),
		)
	}

	s.mu.Lock()
	if s.detail != nil && s.detail.ID == id {
		if removed {
			s.detail = nil
		} else {
			s.detail.Status = status
			s.detail.Reviewed = true
		}
	}
	s.mu.Unlock()

	if !removed {
		s.refilter(false)
	}

	s.logger.Info("Job status updated",
		slog.String("job_id", id),
		slog.String("status", status),
		slog.Bool("created", result.Created),
		slog.Bool("removed_from_view", removed),
	)

	return nil
}

// UpdateNotes saves a job's free-text notes, marking it reviewed. Same
// apply-after-confirm and mutation-lock contract as UpdateStatus.
func (s *Service) UpdateNotes(ctx context.Context, id, notes string) error {
	if !s.store.TryBeginUpdate() {
		s.logger.Debug("Dropping notes update, another mutation is in flight",
			slog.String("job_id", id),
		)
		return domain.ErrUpdateInFlight
	}
	defer s.store.EndUpdate()

	if _, err := s.gw.UpsertJobMetadata(ctx, id, model.NotesFields(notes)); err != nil {
		return fmt.Errorf("failed to save notes: %w", err)
	}

	s.store.ApplyNotes(id, notes)

	s.mu.Lock()
	if s.detail != nil && s.detail.ID == id {
		s.detail.UserNotes = notes
		s.detail.Reviewed = true
	}
	s.mu.Unlock()

	s.refilter(false)
	return nil
}

// Company returns a company's metadata, serving repeat lookups from an
// in-process cache. A company with no record yet returns nil.
func (s *Service) Company(ctx context.Context, name string) (*model.CompanyMetadata, error) {
	s.mu.Lock()
	cached, ok := s.companyCache[name]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	meta, err := s.gw.GetCompanyMetadata(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load company metadata: %w", err)
	}
	if meta != nil {
		s.mu.Lock()
		s.companyCache[name] = meta
		s.mu.Unlock()
	}
	return meta, nil
}

// SaveCompany merge-patches a company's metadata, creating the record on
// first edit. The cache is refreshed after the gateway confirms.
func (s *Service) SaveCompany(ctx context.Context, name string, meta *model.CompanyMetadata) error {
	if !domain.ValidCompanyStatus(meta.Status) {
		return fmt.Errorf("invalid company status %q", meta.Status)
	}

	result, err := s.gw.UpsertCompanyMetadata(ctx, name, model.CompanyFields(meta, s.clock()))
	if err != nil {
		return fmt.Errorf("failed to save company metadata: %w", err)
	}

	meta.CompanyName = name
	s.mu.Lock()
	s.companyCache[name] = meta
	s.mu.Unlock()

	s.logger.Info("Company metadata saved",
		slog.String("company", name),
		slog.Bool("created", result.Created),
	)

	return nil
}

// AddApplication appends an entry to a company's application history,
// dated today. The history is append-only; existing entries are never
// rewritten.
func (s *Service) AddApplication(ctx context.Context, name, position, status string) error {
	meta, err := s.Company(ctx, name)
	if err != nil {
		return err
	}
	if meta == nil {
		meta = &model.CompanyMetadata{CompanyName: name}
	}

	meta.ApplicationHistory = append(meta.ApplicationHistory, model.ApplicationRecord{
		Date:     s.clock().Format("2006-01-02"),
		Position: position,
		Status:   status,
	})

	return s.SaveCompany(ctx, name, meta)
}

// ToggleBulk flips a job's bulk-selection membership.
func (s *Service) ToggleBulk(id string) bool {
	return s.store.ToggleBulk(id)
}

// SelectAllVisible adds every visible job to the bulk selection.
func (s *Service) SelectAllVisible() int {
	return s.store.SelectAllVisible()
}

// ClearSelections empties the bulk selection.
func (s *Service) ClearSelections() {
	s.store.ClearBulk()
}

// View derives the current render snapshot.
func (s *Service) View() render.View {
	s.mu.Lock()
	detail := s.detail
	s.mu.Unlock()
	return render.Build(s.store, detail, s.config.MaxVisibleJobs)
}

// ExportCSV fetches full export rows for the visible jobs and writes them
// as CSV. A failed batch aborts the export: nothing is written to w, and
// the error names the batch. Returns the download filename and row count.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) (string, int, error) {
	visible := s.store.Visible()
	if len(visible) == 0 {
		return "", 0, domain.ErrNoJobsToExport
	}

	limit := len(visible)
	if s.config.MaxVisibleJobs > 0 && limit > s.config.MaxVisibleJobs {
		limit = s.config.MaxVisibleJobs
	}

	ids := make([]string, limit)
	for i := 0; i < limit; i++ {
		ids[i] = visible[i].ID
	}

	rows, err := s.gw.ExportBatch(ctx, ids)
	if err != nil {
		return "", 0, err
	}
	if len(rows) == 0 {
		return "", 0, domain.ErrNoJobsToExport
	}

	if err := export.WriteCSV(w, rows); err != nil {
		return "", 0, err
	}

	term, status := s.Filters()
	filename := export.Filename(s.clock(), term, status, s.CurrentView(), s.config.DefaultView,
		s.store.Matched(), s.config.MaxVisibleJobs)

	s.logger.Info("CSV export completed",
		slog.Int("rows", len(rows)),
		slog.String("filename", filename),
	)

	return filename, len(rows), nil
}

// ExportWorkflowState writes the JSON session/analytics export.
func (s *Service) ExportWorkflowState(w io.Writer) (string, error) {
	s.mu.Lock()
	state := export.WorkflowState{
		Selections: s.store.BulkSelected(),
		Mode:       s.mode,
		Search:     s.searchTerm,
		Status:     s.statusFacet,
		View:       s.view,
		Timestamp:  s.clock().UTC(),
	}
	s.mu.Unlock()

	if err := export.WriteWorkflowState(w, state); err != nil {
		return "", err
	}
	return export.WorkflowFilename(s.clock()), nil
}

// SetMode switches the workflow mode (review or triage).
func (s *Service) SetMode(mode string) error {
	if mode != domain.ModeReview && mode != domain.ModeTriage {
		return fmt.Errorf("invalid workflow mode %q", mode)
	}
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
	return nil
}

// Mode returns the current workflow mode.
func (s *Service) Mode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Filters returns the active search term and status facet.
func (s *Service) Filters() (term, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchTerm, s.statusFacet
}

// CurrentView returns the active jobs view name.
func (s *Service) CurrentView() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// SaveSession persists the current filters, selection and mode.
// Best-effort: an error is returned for logging but nothing depends on it.
func (s *Service) SaveSession() error {
	if s.session == nil {
		return nil
	}

	_, selectedID := s.store.Selection()

	s.mu.Lock()
	snap := session.Snapshot{
		Search:        s.searchTerm,
		Status:        s.statusFacet,
		View:          s.view,
		Mode:          s.mode,
		SelectedJobID: selectedID,
		BulkSelected:  s.store.BulkSelected(),
	}
	s.mu.Unlock()

	return s.session.Save(snap)
}

// RestoreSession reapplies a previously saved session: filters, view and
// mode take effect immediately, while the cursor and bulk selection are
// held until the next Load, once there is data to relocate them in.
func (s *Service) RestoreSession() {
	if s.session == nil {
		return
	}
	snap := s.session.Load()
	if snap == nil {
		return
	}

	s.mu.Lock()
	s.searchTerm = snap.Search
	s.statusFacet = snap.Status
	if snap.Mode != "" {
		s.mode = snap.Mode
	}
	if s.knownView(snap.View) {
		s.view = snap.View
	}
	s.pendingSelID = snap.SelectedJobID
	s.pendingBulk = snap.BulkSelected
	s.mu.Unlock()

	s.logger.Info("Previous session restored",
		slog.String("search", snap.Search),
		slog.String("status", snap.Status),
		slog.Int("bulk_selected", len(snap.BulkSelected)),
	)
}

// refilter re-derives the visible set from the full set and the active
// filters. Every mutation path funnels through here.
func (s *Service) refilter(resetSelection bool) {
	res := filter.Apply(s.store.Full(), s.filterParams())
	s.store.SetVisible(res, resetSelection)
}

func (s *Service) filterParams() filter.Params {
	term, status := s.Filters()
	return filter.Params{
		Search:     term,
		Status:     status,
		DisplayCap: s.config.MaxVisibleJobs,
	}
}

func (s *Service) superseded(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq != s.searchSeq
}
