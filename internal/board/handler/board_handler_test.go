package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenseeker0/jobscraps-frontend/internal/board/domain"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/gateway"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/model"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/service"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/store"
	"github.com/zenseeker0/jobscraps-frontend/shared/logger"
	"github.com/zenseeker0/jobscraps-frontend/shared/postgrest"
)

// stubGateway serves a fixed job set and scripted mutation outcomes.
type stubGateway struct {
	jobs      []model.Job
	upsertErr error
}

func (s *stubGateway) ListJobs(context.Context, string, gateway.Filters) ([]model.Job, error) {
	return s.jobs, nil
}

func (s *stubGateway) GetJobDetails(_ context.Context, id string) (*model.JobDetails, error) {
	return &model.JobDetails{Job: model.Job{ID: id}}, nil
}

func (s *stubGateway) UpsertJobMetadata(context.Context, string, model.Fields) (postgrest.UpsertResult, error) {
	return postgrest.UpsertResult{}, s.upsertErr
}

func (s *stubGateway) UpsertCompanyMetadata(context.Context, string, model.Fields) (postgrest.UpsertResult, error) {
	return postgrest.UpsertResult{}, nil
}

func (s *stubGateway) GetCompanyMetadata(context.Context, string) (*model.CompanyMetadata, error) {
	return nil, nil
}

func (s *stubGateway) ExportBatch(_ context.Context, ids []string) ([]model.JobDetails, error) {
	rows := make([]model.JobDetails, len(ids))
	for i, id := range ids {
		rows[i] = model.JobDetails{Job: model.Job{ID: id}}
	}
	return rows, nil
}

func newTestHandler(t *testing.T, gw *stubGateway) (*store.Store, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New()
	svc := service.New(gw, st, service.Config{
		DefaultView:           "job_board_main",
		MaxVisibleJobs:        500,
		LargeDatasetThreshold: 1000,
	}, nil, logger.NewDefault().Logger)
	require.NoError(t, svc.Load(context.Background()))

	h := NewBoardHandler(&Dependencies{
		Logger: logger.NewDefault().Logger,
		Board:  svc,
	})

	r := gin.New()
	r.GET("/board", h.GetBoard)
	r.POST("/board/select", h.SelectJob)
	r.PATCH("/jobs/:job_id/status", h.UpdateStatus)
	r.GET("/export/csv", h.ExportCSV)

	return st, r
}

func TestGetBoard(t *testing.T) {
	_, r := newTestHandler(t, &stubGateway{jobs: []model.Job{{ID: "j-1"}, {ID: "j-2"}}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/board", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)
}

func TestUpdateStatus_ErrorMapping(t *testing.T) {
	t.Run("mutation in flight maps to 409", func(t *testing.T) {
		st, r := newTestHandler(t, &stubGateway{jobs: []model.Job{{ID: "j-1"}}})

		require.True(t, st.TryBeginUpdate())
		defer st.EndUpdate()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/jobs/j-1/status",
			strings.NewReader(`{"status":"applied"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("backend failure maps to 502", func(t *testing.T) {
		gw := &stubGateway{
			jobs:      []model.Job{{ID: "j-1"}},
			upsertErr: &domain.TransportError{Op: "PATCH job_user_metadata", StatusCode: 500},
		}
		_, r := newTestHandler(t, gw)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/jobs/j-1/status",
			strings.NewReader(`{"status":"applied"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestSelectJob_InvalidIndex(t *testing.T) {
	_, r := newTestHandler(t, &stubGateway{jobs: []model.Job{{ID: "j-1"}}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/board/select",
		strings.NewReader(`{"index":9}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportCSV(t *testing.T) {
	t.Run("serves a csv attachment", func(t *testing.T) {
		_, r := newTestHandler(t, &stubGateway{jobs: []model.Job{{ID: "j-1"}}})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export/csv", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "jobs_export_")
		assert.True(t, strings.HasPrefix(w.Body.String(), "id,title"))
	})

	t.Run("nothing visible maps to 400", func(t *testing.T) {
		_, r := newTestHandler(t, &stubGateway{})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export/csv", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
