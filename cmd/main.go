package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/config"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/domain"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/handler"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/health"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/infra/notifysink"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/infra/repository"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/infra/schedrecorder"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/infra/workoutplan"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/observability"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/observability/logging"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/observability/metrics"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/observability/middleware"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/service/pending"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/service/preferences"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/service/reschedule"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/service/schedule"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/service/validate"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:    serviceName(),
			Version: Version,
		},
		Environment:   env,
		LogLevel:      cfg.LogLevel,
		DefaultModule: logging.Module("reminder-scheduling"),
	})
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	schedulerMetrics, err := metrics.NewSchedulerMetrics()
	if err != nil {
		slog.Error("failed to initialize scheduler metrics", slog.String("error", err.Error()))
		return 1
	}

	// Reschedule result recorder (InfluxDB, noop when disabled)
	recorderCfg := schedrecorder.LoadConfig()
	recorder, err := schedrecorder.NewRecorder(ctx, recorderCfg)
	if err != nil {
		slog.Error("failed to initialize reschedule result recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			slog.Warn("failed to close reschedule result recorder", slog.String("error", err.Error()))
		}
	}()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	prefsRepo := repository.NewPreferencesRepository(redisClient)

	var sink notifysink.Sink
	if cfg.Sink.GatewayURL != "" {
		sink = notifysink.NewGatewayClient(cfg.Sink.GatewayURL, cfg.Sink.MaxRetries)
	} else {
		slog.Warn("NOTIFY_GATEWAY_URL not set, running in configuration-only mode")
		sink = notifysink.NewOfflineSink()
	}

	var workouts workoutplan.Repository
	if cfg.WorkoutPlanURL != "" {
		workouts = workoutplan.NewClient(cfg.WorkoutPlanURL)
	} else {
		slog.Warn("WORKOUT_PLAN_URL not set, workout reminders disabled")
	}

	progressTime := domain.MustTimeOfDay(cfg.Schedule.ProgressTime)
	computer := schedule.NewComputer(schedule.Options{
		HorizonDays:     cfg.Schedule.HorizonDays,
		ProgressWeekday: cfg.Schedule.ProgressWeekday,
		ProgressTime:    progressTime,
		WaterFrontLoad:  cfg.Schedule.WaterFrontLoad,
	})

	rescheduler := reschedule.NewRescheduler(computer, workouts, sink, recorder, schedulerMetrics)
	debouncer := reschedule.NewDebouncer(cfg.Schedule.RescheduleDebounce)
	defer debouncer.Stop()

	prefsService := preferences.NewService(prefsRepo, validate.NewValidator(), rescheduler, debouncer)
	reporter := pending.NewReporter(sink, rescheduler)

	// Startup reconciliation: a killed process must not leave stale
	// reminders pending in the sink.
	if err := prefsService.Resync(ctx); err != nil {
		slog.Warn("startup resync finished with failures", slog.String("error", err.Error()))
	}

	// The horizon is finite, so the sink must be topped up before it
	// drains. Half the horizon keeps at least a day of reminders pending.
	resyncInterval := time.Duration(cfg.Schedule.HorizonDays) * 24 * time.Hour / 2
	go prefsService.RunPeriodicResync(ctx, resyncInterval)

	prefsHandler := handler.NewPreferencesHandler(prefsService)
	scheduleHandler := handler.NewScheduleHandler(prefsService, reporter)

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
		Module:      logging.Module("reminder-scheduling"),
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	healthChecker := health.NewChecker(redisClient, sink, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/preferences", prefsHandler.HandleGetPreferences)
		v1.GET("/preferences/:category", prefsHandler.HandleGetCategory)
		v1.PATCH("/preferences/:category", prefsHandler.HandlePatchCategory)
		v1.POST("/preferences/:category/toggle", prefsHandler.HandleToggleCategory)
		v1.GET("/schedule/count", scheduleHandler.HandleScheduledCount)
		v1.POST("/schedule/resync", scheduleHandler.HandleResync)
		v1.GET("/schedule/water/frequency", scheduleHandler.HandleWaterFrequency)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Int("horizon_days", cfg.Schedule.HorizonDays),
			slog.Duration("reschedule_debounce", cfg.Schedule.RescheduleDebounce),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

func serviceName() string {
	if name := os.Getenv("SERVICE_NAME"); name != "" {
		return name
	}
	return "reminder-scheduling"
}
