package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/service/pending"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/service/preferences"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/service/schedule"
)

type ScheduleHandler struct {
	prefsService *preferences.Service
	reporter     *pending.Reporter
}

func NewScheduleHandler(prefsService *preferences.Service, reporter *pending.Reporter) *ScheduleHandler {
	return &ScheduleHandler{
		prefsService: prefsService,
		reporter:     reporter,
	}
}

type scheduledCountResponse struct {
	Count      int      `json:"count"`
	SinkOnline bool     `json:"sink_online"`
	Degraded   []string `json:"degraded,omitempty"`
}

// HandleScheduledCount reports how many reminders the sink actually
// holds, for the settings screen footer.
func (h *ScheduleHandler) HandleScheduledCount(c *gin.Context) {
	report, err := h.reporter.ScheduledCount(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	degraded := make([]string, 0, len(report.Degraded))
	for _, category := range report.Degraded {
		degraded = append(degraded, string(category))
	}

	c.JSON(http.StatusOK, scheduledCountResponse{
		Count:      report.Count,
		SinkOnline: report.SinkOnline,
		Degraded:   degraded,
	})
}

// HandleResync reconciles the sink with the stored preferences, the
// same pass that runs at startup.
func (h *ScheduleHandler) HandleResync(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.prefsService.Resync(ctx); err != nil {
		slog.WarnContext(ctx, "resync finished with failures",
			slog.String("error", err.Error()),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "resynced"})
}

type waterFrequencyResponse struct {
	ReminderCount  int    `json:"reminder_count"`
	FrequencyLabel string `json:"frequency_label"`
}

// HandleWaterFrequency returns the derived daily reminder count and its
// display label for the water settings modal.
func (h *ScheduleHandler) HandleWaterFrequency(c *gin.Context) {
	prefs, err := h.prefsService.Load(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, waterFrequencyResponse{
		ReminderCount:  schedule.WaterReminderCount(prefs.Water.DailyGoalLiters),
		FrequencyLabel: schedule.FrequencyLabel(&prefs.Water),
	})
}
