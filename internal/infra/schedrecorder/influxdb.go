package schedrecorder

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/domain"
)

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

// NewRecorder returns an InfluxDB-backed reschedule recorder, or a noop
// recorder when recording is disabled or unconfigured.
func NewRecorder(ctx context.Context, cfg *Config) (domain.RescheduleRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "reschedule result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, reschedule result recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "reschedule result recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func (r *influxDBRecorder) RecordReschedule(ctx context.Context, record domain.RescheduleRecord) error {
	point := influxdb2.NewPoint(
		"reschedule_result",
		map[string]string{
			"category":    record.Category.String(),
			"trigger":     record.Trigger,
			"degraded":    strconv.FormatBool(record.Degraded),
			"sink_online": strconv.FormatBool(record.SinkOnline),
		},
		map[string]any{
			"cancelled_count":  record.Cancelled,
			"submitted_count":  record.Submitted,
			"rejected_count":   record.Rejected,
			"duration_seconds": record.Duration.Seconds(),
		},
		time.Now(),
	)

	if err := r.writeAPI.WritePoint(ctx, point); err != nil {
		slog.WarnContext(ctx, "failed to write reschedule result to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("category", record.Category.String()),
		)
	}

	return nil
}

func (r *influxDBRecorder) Flush(ctx context.Context) error {
	return r.writeAPI.Flush(ctx)
}

func (r *influxDBRecorder) Close() error {
	r.client.Close()
	return nil
}
