package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/domain"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/service/preferences"
)

type PreferencesHandler struct {
	prefsService *preferences.Service
}

func NewPreferencesHandler(prefsService *preferences.Service) *PreferencesHandler {
	return &PreferencesHandler{
		prefsService: prefsService,
	}
}

// HandleGetPreferences returns the full aggregate for the settings
// screen.
func (h *PreferencesHandler) HandleGetPreferences(c *gin.Context) {
	prefs, err := h.prefsService.Load(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// HandleGetCategory returns one category's sub-config.
func (h *PreferencesHandler) HandleGetCategory(c *gin.Context) {
	category, err := domain.ParseCategory(c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}

	prefs, err := h.prefsService.Load(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, categoryView(prefs, category))
}

// HandlePatchCategory applies a partial update from an edit modal.
// Soft schedule conflicts come back as 409 until the client repeats the
// request with override=true.
func (h *PreferencesHandler) HandlePatchCategory(c *gin.Context) {
	ctx := c.Request.Context()

	category, err := domain.ParseCategory(c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}

	var patch domain.CategoryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	override, _ := strconv.ParseBool(c.Query("override"))

	updated, conflicts, err := h.prefsService.UpdateConfig(ctx, category, &patch, override)
	if err != nil {
		slog.WarnContext(ctx, "preference update rejected",
			slog.String("category", string(category)),
			slog.String("error", err.Error()),
		)
		respondError(c, err)
		return
	}
	if len(conflicts) > 0 {
		respondConflicts(c, conflicts)
		return
	}

	slog.InfoContext(ctx, "preferences updated",
		slog.String("category", string(category)),
		slog.Bool("override", override),
	)

	c.JSON(http.StatusOK, categoryView(updated, category))
}

type toggleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// HandleToggleCategory flips one category's master switch.
func (h *PreferencesHandler) HandleToggleCategory(c *gin.Context) {
	ctx := c.Request.Context()

	category, err := domain.ParseCategory(c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	updated, err := h.prefsService.ToggleCategory(ctx, category, *req.Enabled)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.InfoContext(ctx, "category toggled",
		slog.String("category", string(category)),
		slog.Bool("enabled", *req.Enabled),
	)

	c.JSON(http.StatusOK, categoryView(updated, category))
}

// categoryView slices the aggregate down to the requested category so
// responses match what the edit modal displays.
func categoryView(prefs *domain.NotificationPreferences, category domain.Category) gin.H {
	switch category {
	case domain.CategoryWater:
		return gin.H{"water": prefs.Water}
	case domain.CategoryWorkout:
		return gin.H{"workout": prefs.Workout}
	case domain.CategoryMeals:
		return gin.H{"meals": prefs.Meals}
	case domain.CategorySleep:
		return gin.H{"sleep": prefs.Sleep}
	case domain.CategoryProgress:
		return gin.H{"progress": prefs.Progress}
	}
	return gin.H{}
}
