// Package gateway wraps all PostgREST access for the board. Operations
// return data or fail; none of them touches board state.
package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/zenseeker0/jobscraps-frontend/internal/board/domain"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/model"
	"github.com/zenseeker0/jobscraps-frontend/shared/postgrest"
)

// Resource names on the PostgREST side. The jobs view is configurable;
// these are fixed.
const (
	detailsResource = "job_details"
	jobMetaResource = "job_user_metadata"
	companyResource = "company_user_metadata"
	exportResource  = "job_board_export"
)

// Config holds gateway tunables.
type Config struct {
	RowLimit        int           // cap on list reads
	ExportBatchSize int           // ids per export batch, bounds URL length
	DetailTimeout   time.Duration // client-side deadline for detail fetches
}

// Filters are the server-side filter inputs for a delegated list read.
type Filters struct {
	Search string
	Status string
}

// Gateway is the remote data gateway over PostgREST.
type Gateway struct {
	client *postgrest.Client
	config Config
	logger *slog.Logger
}

// New creates a gateway over an existing PostgREST client.
func New(client *postgrest.Client, config Config, logger *slog.Logger) *Gateway {
	if config.DetailTimeout <= 0 {
		config.DetailTimeout = 30 * time.Second
	}
	if config.ExportBatchSize <= 0 {
		config.ExportBatchSize = 1000
	}
	return &Gateway{client: client, config: config, logger: logger}
}

// listQuery builds the shared read shape: exclusion predicates always on,
// newest scrape first, capped rows.
func (g *Gateway) listQuery(view string) *postgrest.Query {
	return postgrest.NewQuery(view).
		Order("date_scraped", false).
		Limit(g.config.RowLimit).
		Or("excluded.is.null", "excluded.eq.false").
		IsNull("exclusion_reason")
}

// ListJobs reads the named jobs view. Filters, when present, are
// translated into server-side predicates: the search term matches title or
// company, the "unreviewed" facet matches a null or empty status on an
// unreviewed row, any other facet matches by equality.
func (g *Gateway) ListJobs(ctx context.Context, view string, f Filters) ([]model.Job, error) {
	q := g.listQuery(view)

	if f.Search != "" {
		q.Or(
			postgrest.IlikeContains("title", f.Search),
			postgrest.IlikeContains("company", f.Search),
		)
	}

	switch f.Status {
	case "":
	case domain.StatusUnreviewed:
		q.Or("status.is.null", "status.eq.").NotEq("reviewed", "true")
	default:
		q.Eq("status", f.Status)
	}

	var jobs []model.Job
	if err := g.client.Get(ctx, q, &jobs); err != nil {
		return nil, err
	}

	g.logger.Debug("Loaded jobs from view",
		slog.String("view", view),
		slog.Int("count", len(jobs)),
		slog.String("search", f.Search),
		slog.String("status", f.Status),
	)

	return jobs, nil
}

// GetJobDetails fetches one enriched record under a client-side deadline;
// detail payloads can be large. Zero rows is a valid outcome and returns
// nil, not an error.
func (g *Gateway) GetJobDetails(ctx context.Context, id string) (*model.JobDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, g.config.DetailTimeout)
	defer cancel()

	q := postgrest.NewQuery(detailsResource).Eq("id", id)

	var details []model.JobDetails
	if err := g.client.Get(ctx, q, &details); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, nil
	}
	return &details[0], nil
}

// UpsertJobMetadata patch-or-creates the user metadata row for a job.
func (g *Gateway) UpsertJobMetadata(ctx context.Context, id string, fields model.Fields) (postgrest.UpsertResult, error) {
	return g.client.Upsert(ctx, jobMetaResource, "job_id", id,
		fields, fields.With("job_id", id))
}

// UpsertCompanyMetadata patch-or-creates the user metadata row for a
// company, keyed by company name. The create path stamps created_at, as a
// company record only comes into being on first edit.
func (g *Gateway) UpsertCompanyMetadata(ctx context.Context, name string, fields model.Fields) (postgrest.UpsertResult, error) {
	create := fields.
		With("company_name", name).
		With("created_at", time.Now().UTC().Format(time.RFC3339))
	return g.client.Upsert(ctx, companyResource, "company_name", name, fields, create)
}

// GetCompanyMetadata fetches a company's user metadata. Zero rows returns
// nil: the record does not exist until the user annotates the company.
func (g *Gateway) GetCompanyMetadata(ctx context.Context, name string) (*model.CompanyMetadata, error) {
	q := postgrest.NewQuery(companyResource).Eq("company_name", name)

	var records []model.CompanyMetadata
	if err := g.client.Get(ctx, q, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// ExportBatch fetches full export rows for the given ids in fixed-size
// batches, concatenated in batch order. A failed batch aborts the whole
// export with a BatchError naming the 1-based batch index; no partial data
// is returned.
func (g *Gateway) ExportBatch(ctx context.Context, ids []string) ([]model.JobDetails, error) {
	size := g.config.ExportBatchSize
	var rows []model.JobDetails

	for i, batchNum := 0, 1; i < len(ids); i, batchNum = i+size, batchNum+1 {
		end := i + size
		if end > len(ids) {
			end = len(ids)
		}

		q := postgrest.NewQuery(exportResource).
			In("id", ids[i:end]).
			Or("excluded.is.null", "excluded.eq.false")

		var batch []model.JobDetails
		if err := g.client.Get(ctx, q, &batch); err != nil {
			g.logger.Error("Export batch failed",
				slog.Int("batch", batchNum),
				slog.Int("batch_size", end-i),
				slog.String("error", err.Error()),
			)
			return nil, &domain.BatchError{Batch: batchNum, Err: err}
		}
		rows = append(rows, batch...)
	}

	return rows, nil
}
