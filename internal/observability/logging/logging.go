package logging

import (
	"context"
	"io"
	"log/slog"
)

// Environment selects the log output format.
type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

// Module tags every log line with the subsystem that emitted it.
type Module string

// ServiceInfo is attached to every log record.
type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

// NewHandler builds the process-wide slog handler: human-readable text
// in dev, JSON elsewhere.
func NewHandler(w io.Writer, level slog.Level, env Environment, info ServiceInfo, module Module) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	var inner slog.Handler
	if env == EnvDev {
		inner = slog.NewTextHandler(w, opts)
	} else {
		inner = slog.NewJSONHandler(w, opts)
	}

	attrs := []slog.Attr{
		slog.String("service", info.Name),
		slog.String("version", info.Version),
		slog.String("module", string(module)),
	}
	if info.Revision != "" {
		attrs = append(attrs, slog.String("revision", info.Revision))
	}

	return &contextHandler{Handler: inner.WithAttrs(attrs)}
}

// contextHandler enriches records with platform trace attributes when
// the deployment target provides them.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, record slog.Record) error {
	if attrs := gcpTraceAttrs(ctx, ""); len(attrs) > 0 {
		record.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, record)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}
