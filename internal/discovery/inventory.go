// Package discovery inventories the backing database and PostgREST API:
// which tables and views exist, their columns, row counts, exclusion
// stats, and which endpoints actually answer. The report drives board
// configuration against an unfamiliar backend.
package discovery

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/zenseeker0/jobscraps-frontend/shared/postgresql"
)

// Column describes one column of a table or view.
type Column struct {
	Name     string `db:"column_name"`
	DataType string `db:"data_type"`
	Nullable string `db:"is_nullable"`
}

// Relation is a table or view with its columns.
type Relation struct {
	Name    string `db:"table_name"`
	Type    string `db:"table_type"`
	Columns []Column
}

// EndpointProbe records whether a PostgREST endpoint answered.
type EndpointProbe struct {
	Name       string
	Reachable  bool
	StatusCode int
}

// Report is the full inventory.
type Report struct {
	PostgresVersion string
	DatabaseSize    string
	TotalJobs       int64
	ExcludedJobs    int64
	Relations       []Relation
	Endpoints       []EndpointProbe
	GeneratedAt     time.Time
}

// Inventory runs the discovery queries and probes.
type Inventory struct {
	db      *postgresql.Client
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates an inventory over an existing database client and a
// PostgREST base URL.
func New(db *postgresql.Client, postgrestBaseURL string, logger *slog.Logger) *Inventory {
	return &Inventory{
		db:      db,
		baseURL: strings.TrimRight(postgrestBaseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
		logger:  logger,
	}
}

// Run executes the full inventory. Individual probes may fail softly
// (logged, zero value kept); only schema queries are fatal.
func (inv *Inventory) Run(ctx context.Context) (*Report, error) {
	report := &Report{GeneratedAt: time.Now().UTC()}

	if err := inv.db.GetContext(ctx, &report.PostgresVersion, "SELECT version()"); err != nil {
		return nil, fmt.Errorf("failed to query server version: %w", err)
	}

	if err := inv.db.GetContext(ctx, &report.DatabaseSize,
		"SELECT pg_size_pretty(pg_database_size(current_database()))"); err != nil {
		return nil, fmt.Errorf("failed to query database size: %w", err)
	}

	// Row counts are best-effort; the tables may not exist yet.
	if err := inv.db.GetContext(ctx, &report.TotalJobs,
		"SELECT COUNT(*) FROM scraped_jobs"); err != nil {
		inv.logger.Warn("Could not count scraped_jobs", slog.String("error", err.Error()))
	}
	if err := inv.db.GetContext(ctx, &report.ExcludedJobs,
		"SELECT COUNT(*) FROM job_user_metadata WHERE excluded = true"); err != nil {
		inv.logger.Warn("Could not count excluded jobs", slog.String("error", err.Error()))
	}

	relations, err := inv.relations(ctx)
	if err != nil {
		return nil, err
	}
	report.Relations = relations

	report.Endpoints = inv.probeEndpoints(ctx, relations)

	return report, nil
}

func (inv *Inventory) relations(ctx context.Context) ([]Relation, error) {
	var relations []Relation
	err := inv.db.SelectContext(ctx, &relations, `
		SELECT table_name, table_type
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_type, table_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables and views: %w", err)
	}

	for i := range relations {
		err := inv.db.SelectContext(ctx, &relations[i].Columns, `
			SELECT column_name, data_type, is_nullable
			FROM information_schema.columns
			WHERE table_schema = 'public' AND table_name = $1
			ORDER BY ordinal_position
		`, relations[i].Name)
		if err != nil {
			return nil, fmt.Errorf("failed to list columns for %s: %w", relations[i].Name, err)
		}
	}

	return relations, nil
}

// probeEndpoints checks which views PostgREST actually serves. Only views
// are probed: PostgREST exposes tables too, but the board reads views.
func (inv *Inventory) probeEndpoints(ctx context.Context, relations []Relation) []EndpointProbe {
	var probes []EndpointProbe

	for _, rel := range relations {
		if rel.Type != "VIEW" {
			continue
		}

		probe := EndpointProbe{Name: rel.Name}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			fmt.Sprintf("%s/%s?limit=1", inv.baseURL, rel.Name), nil)
		if err == nil {
			if resp, err := inv.http.Do(req); err == nil {
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				probe.StatusCode = resp.StatusCode
				probe.Reachable = resp.StatusCode == http.StatusOK
			}
		}

		if !probe.Reachable {
			inv.logger.Warn("PostgREST endpoint not reachable",
				slog.String("endpoint", rel.Name),
				slog.Int("status", probe.StatusCode),
			)
		}

		probes = append(probes, probe)
	}

	return probes
}

// BoardViews returns the reachable job_board_* views, the candidates for
// the board's available_views config, sorted with job_board_main first.
func (r *Report) BoardViews() []string {
	var views []string
	for _, p := range r.Endpoints {
		if p.Reachable && strings.HasPrefix(p.Name, "job_board_") {
			views = append(views, p.Name)
		}
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i] == "job_board_main" {
			return true
		}
		if views[j] == "job_board_main" {
			return false
		}
		return views[i] < views[j]
	})
	return views
}

// Write renders the report as a human-readable summary.
func (r *Report) Write(w io.Writer) {
	fmt.Fprintln(w, "=== DATABASE OVERVIEW ===")
	fmt.Fprintf(w, "PostgreSQL: %s\n", firstSegment(r.PostgresVersion))
	fmt.Fprintf(w, "Database size: %s\n", r.DatabaseSize)
	fmt.Fprintf(w, "Total jobs: %d\n", r.TotalJobs)
	fmt.Fprintf(w, "Excluded jobs: %d\n", r.ExcludedJobs)

	fmt.Fprintln(w, "\n=== TABLES & VIEWS ===")
	for _, rel := range r.Relations {
		fmt.Fprintf(w, "%s (%s)\n", rel.Name, rel.Type)
		for _, col := range rel.Columns {
			nullable := "NOT NULL"
			if col.Nullable == "YES" {
				nullable = "NULL"
			}
			fmt.Fprintf(w, "  %-32s %-24s %s\n", col.Name, col.DataType, nullable)
		}
	}

	fmt.Fprintln(w, "\n=== POSTGREST ENDPOINTS ===")
	for _, p := range r.Endpoints {
		mark := "FAIL"
		if p.Reachable {
			mark = "OK"
		}
		fmt.Fprintf(w, "%-4s %s (HTTP %d)\n", mark, p.Name, p.StatusCode)
	}

	if views := r.BoardViews(); len(views) > 0 {
		fmt.Fprintln(w, "\n=== SUGGESTED BOARD VIEWS ===")
		for _, v := range views {
			fmt.Fprintf(w, "- %s\n", v)
		}
	}
}

func firstSegment(version string) string {
	if i := strings.Index(version, ","); i > 0 {
		return version[:i]
	}
	return version
}
