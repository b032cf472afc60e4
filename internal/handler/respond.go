package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type conflictResponse struct {
	Error     string         `json:"error"`
	Conflicts []conflictItem `json:"conflicts"`
}

type conflictItem struct {
	Category string `json:"category"`
	Reason   string `json:"reason"`
}

func respondError(c *gin.Context, err error) {
	var invalid *domain.InvalidFormatError
	var oor *domain.OutOfRangeError
	var persistence *domain.PersistenceError

	switch {
	case errors.As(err, &invalid),
		errors.As(err, &oor),
		errors.Is(err, domain.ErrEmptyPatch),
		errors.Is(err, domain.ErrUnsupportedFrequency):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "validation_error", Message: err.Error()})
	case errors.Is(err, domain.ErrUnknownCategory):
		c.JSON(http.StatusNotFound, errorResponse{Error: "unknown_category", Message: err.Error()})
	case errors.As(err, &persistence):
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "persistence_error", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "processing_error", Message: err.Error()})
	}
}

func respondConflicts(c *gin.Context, conflicts []*domain.ConflictError) {
	items := make([]conflictItem, 0, len(conflicts))
	for _, conflict := range conflicts {
		items = append(items, conflictItem{
			Category: string(conflict.Category),
			Reason:   conflict.Reason,
		})
	}
	c.JSON(http.StatusConflict, conflictResponse{
		Error:     "schedule_conflict",
		Conflicts: items,
	})
}
