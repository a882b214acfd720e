package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/handler/dto"
)

// GetBoard handles GET /api/v1/board
// Returns the current render snapshot.
func (h *BoardHandler) GetBoard(c *gin.Context) {
	c.JSON(http.StatusOK, h.board.View())
}

// Reload handles POST /api/v1/board/reload
// Re-fetches the active view from the backend.
func (h *BoardHandler) Reload(c *gin.Context) {
	if err := h.board.Load(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.board.View())
}

// SetView handles PUT /api/v1/board/view
// Switches the active jobs view and reloads it.
func (h *BoardHandler) SetView(c *gin.Context) {
	var req dto.ViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.board.SetView(c.Request.Context(), req.View); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.board.View())
}

// Search handles GET /api/v1/jobs
// Applies the search term and status facet, then returns the snapshot.
func (h *BoardHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	if err := h.board.Search(c.Request.Context(), req.Search, req.Status); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.board.View())
}

// SelectJob handles POST /api/v1/board/select
// Moves the cursor and lazily loads the selected job's details.
func (h *BoardHandler) SelectJob(c *gin.Context) {
	var req dto.SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.board.Select(c.Request.Context(), req.Index); err != nil {
		// The selection may have stuck even if the detail fetch failed;
		// surface the error but include the snapshot so the page stays
		// consistent.
		h.logger.Warn("Job selection completed with error",
			slog.Int("index", req.Index),
			slog.String("error", err.Error()),
		)
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.board.View())
}

// UpdateStatus handles PATCH /api/v1/jobs/:job_id/status
func (h *BoardHandler) UpdateStatus(c *gin.Context) {
	jobID := c.Param("job_id")
	if jobID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id is required"})
		return
	}

	var req dto.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.board.UpdateStatus(c.Request.Context(), jobID, req.Status); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.board.View())
}

// UpdateNotes handles PATCH /api/v1/jobs/:job_id/notes
func (h *BoardHandler) UpdateNotes(c *gin.Context) {
	jobID := c.Param("job_id")
	if jobID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id is required"})
		return
	}

	var req dto.NotesUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.board.UpdateNotes(c.Request.Context(), jobID, req.Notes); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.board.View())
}

// ToggleSelection handles POST /api/v1/jobs/:job_id/select
// Flips a job's bulk-selection membership.
func (h *BoardHandler) ToggleSelection(c *gin.Context) {
	jobID := c.Param("job_id")
	if jobID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id is required"})
		return
	}

	selected := h.board.ToggleBulk(jobID)
	c.JSON(http.StatusOK, gin.H{
		"job_id":   jobID,
		"selected": selected,
	})
}

// SelectAllVisible handles POST /api/v1/selection/all
func (h *BoardHandler) SelectAllVisible(c *gin.Context) {
	count := h.board.SelectAllVisible()
	c.JSON(http.StatusOK, gin.H{"selected": count})
}

// ClearSelections handles POST /api/v1/selection/clear
func (h *BoardHandler) ClearSelections(c *gin.Context) {
	h.board.ClearSelections()
	c.JSON(http.StatusOK, gin.H{"selected": 0})
}

// SetMode handles PUT /api/v1/board/mode
func (h *BoardHandler) SetMode(c *gin.Context) {
	var req dto.ModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.board.SetMode(req.Mode); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mode": req.Mode})
}

// ExportCSV handles GET /api/v1/export/csv
// Streams the filtered jobs as a CSV download. The CSV is assembled in
// full before any byte is sent, so a failed export never yields a partial
// file.
func (h *BoardHandler) ExportCSV(c *gin.Context) {
	var buf bytes.Buffer

	filename, rows, err := h.board.ExportCSV(c.Request.Context(), &buf)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("Serving CSV export",
		slog.String("filename", filename),
		slog.Int("rows", rows),
	)

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportWorkflowState handles GET /api/v1/export/session
// Serves the JSON workflow-state download.
func (h *BoardHandler) ExportWorkflowState(c *gin.Context) {
	var buf bytes.Buffer

	filename, err := h.board.ExportWorkflowState(&buf)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/json", buf.Bytes())
}
