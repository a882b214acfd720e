package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/domain"
	"github.com/zenseeker0/jobscraps-frontend/internal/board/service"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger *slog.Logger
	Board  *service.Service
}

// BoardHandler handles board-related HTTP requests
type BoardHandler struct {
	logger *slog.Logger
	board  *service.Service
}

// NewBoardHandler creates a new BoardHandler instance
func NewBoardHandler(deps *Dependencies) *BoardHandler {
	return &BoardHandler{
		logger: deps.Logger,
		board:  deps.Board,
	}
}

// respondError maps domain errors onto HTTP statuses. Write failures are
// never swallowed: the client always gets a visible error message.
func (h *BoardHandler) respondError(c *gin.Context, err error) {
	var (
		transportErr *domain.TransportError
		timeoutErr   *domain.TimeoutError
		batchErr     *domain.BatchError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUpdateInFlight):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrJobNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNoJobsToExport):
		status = http.StatusBadRequest
	case errors.As(err, &timeoutErr):
		status = http.StatusGatewayTimeout
	case errors.As(err, &batchErr), errors.As(err, &transportErr):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", slog.String("error", err.Error()))
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
