package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/observability/logging"
)

func testConfig() Config {
	return Config{
		ServiceInfo: logging.ServiceInfo{
			Name:    "reminder-scheduling-test",
			Version: "test",
		},
		Environment:   logging.EnvDev,
		DefaultModule: logging.Module("test"),
	}
}

func TestInit_WithoutEndpointStaysNoop(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	res, err := Init(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if res.Logger() == nil {
		t.Error("Init() returned no logger")
	}
	if res.meterProvider != nil || res.tracerProvider != nil {
		t.Error("providers were built without an OTLP endpoint")
	}
	if err := res.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error: %v", err)
	}
}

func TestInit_WithEndpointInstallsProviders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", srv.URL)

	res, err := Init(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if res.meterProvider == nil {
		t.Error("meter provider was not built")
	}
	if res.tracerProvider == nil {
		t.Fatal("tracer provider was not built")
	}
	if otel.GetTracerProvider() != res.tracerProvider {
		t.Error("global tracer provider was not installed")
	}

	// A span recorded through the global provider must be the real thing,
	// not the no-op fallback.
	_, span := otel.Tracer("test").Start(context.Background(), "reschedule.water")
	if !span.IsRecording() {
		t.Error("span from global provider is not recording")
	}
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := res.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error: %v", err)
	}
}
