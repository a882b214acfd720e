package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/handler/dto"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/model"
)

// GetCompany handles GET /api/v1/companies/:name
// A company with no record yet returns 200 with a null body rather than
// 404: absence is a normal state, not an error.
func (h *BoardHandler) GetCompany(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company name is required"})
		return
	}

	meta, err := h.board.Company(c.Request.Context(), name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

// SaveCompany handles PUT /api/v1/companies/:name
func (h *BoardHandler) SaveCompany(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company name is required"})
		return
	}

	var req dto.CompanyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// Preserve existing application history on a plain field edit.
	existing, err := h.board.Company(c.Request.Context(), name)
	if err != nil {
		h.respondError(c, err)
		return
	}

	meta := &model.CompanyMetadata{
		CompanyName:   name,
		Status:        req.Status,
		AppealFactors: req.AppealFactors,
		Notes:         req.Notes,
	}
	if existing != nil {
		meta.ApplicationHistory = existing.ApplicationHistory
	}

	if err := h.board.SaveCompany(c.Request.Context(), name, meta); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

// AddApplication handles POST /api/v1/companies/:name/applications
func (h *BoardHandler) AddApplication(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company name is required"})
		return
	}

	var req dto.ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.board.AddApplication(c.Request.Context(), name, req.Position, req.Status); err != nil {
		h.respondError(c, err)
		return
	}

	meta, err := h.board.Company(c.Request.Context(), name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}
