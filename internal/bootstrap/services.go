package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/reportd/config"
	redisadapter "github.com/target/reportd/internal/adapters/redis"
	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/data"
	"github.com/target/reportd/internal/domain/model"
	"github.com/target/reportd/internal/observability/notify/pagerduty"
	"github.com/target/reportd/internal/observability/notify/slack"
	"github.com/target/reportd/internal/observability/statsd"
	"github.com/target/reportd/internal/render/markup"
	"github.com/target/reportd/internal/render/pdf"
	"github.com/target/reportd/internal/service"
	"github.com/target/reportd/internal/service/failurenotifier"
	"github.com/target/reportd/internal/service/reportdata"
)

// KindServices groups the per-kind services.
type KindServices[K model.Kind] struct {
	Jobs      *service.ReportJobService[K]
	Logs      *data.ExecutionLogRepo[K]
	Executor  *service.ReportExecutor[K]
	Scheduler *service.SchedulerService[K]
}

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Personal      KindServices[model.Personal]
	Project       KindServices[model.Project]
	Subscribers   *service.SubscriberService
	Artifacts     *data.FileArtifactStore
	Observability ObservabilityContainer

	converter *pdf.ChromeConverter
}

// Close releases the browser and the metrics client.
func (c *ServiceContainer) Close() {
	if c.converter != nil {
		c.converter.Close()
	}
	if c.Observability.MetricsSink != nil {
		_ = c.Observability.MetricsSink.Close()
	}
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink     *statsd.Client
	MetricsConfig   config.ObservabilityMetricsConfig
	FailureNotifier *failurenotifier.Service
	NotifierConfig  config.ObservabilityNotificationsConfig
}

// Sink returns the metrics sink, or nil when metrics are disabled.
//
//nolint:ireturn // a nil interface is how callers detect disabled metrics.
func (o ObservabilityContainer) Sink() statsd.Sink {
	if o.MetricsSink == nil {
		return nil
	}
	return o.MetricsSink
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	subscribers *data.SubscriberRepo
	activity    *data.ActivityRepo
	cache       *data.RedisCacheRepo
	artifacts   *data.FileArtifactStore
}

// sharedPipeline is the kind-independent part of the executor pipeline.
type sharedPipeline struct {
	markup        *markup.Renderer
	documents     *pdf.Renderer
	artifacts     *data.FileArtifactStore
	notifications core.NotificationPublisher
	views         *core.SubscriberViewCache
}

// buildObservability configures metrics and notification adapters.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  "reportd",
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:     metricsSink,
		MetricsConfig:   cfg.Metrics,
		FailureNotifier: buildFailureNotifier(obsLogger, cfg.Notifications),
		NotifierConfig:  cfg.Notifications,
	}
}

func buildFailureNotifier(logger *slog.Logger, cfg config.ObservabilityNotificationsConfig) *failurenotifier.Service {
	baseLogger := logger.With("component", "failure_notifier")
	if !cfg.Enabled {
		return failurenotifier.NewService(failurenotifier.Options{Logger: baseLogger})
	}

	sinks := make([]failurenotifier.SinkRegistration, 0, 2)

	if cfg.Slack.Enabled {
		client, err := slack.NewClient(slack.Config{
			WebhookURL:   cfg.Slack.WebhookURL,
			Channel:      cfg.Slack.Channel,
			Username:     cfg.Slack.Username,
			Timeout:      cfg.Timeout,
			RetryLimit:   cfg.RetryLimit,
			JobURLPrefix: cfg.Slack.JobURLPrefix,
		})
		if err != nil {
			logger.Error("failed to initialise slack notifier", "error", err)
		} else {
			sinks = append(sinks, failurenotifier.SinkRegistration{Name: "slack", Sink: client})
		}
	}

	if cfg.PagerDuty.Enabled {
		client, err := pagerduty.NewClient(pagerduty.Config{
			RoutingKey: cfg.PagerDuty.RoutingKey,
			Source:     cfg.PagerDuty.Source,
			Component:  cfg.PagerDuty.Component,
			Timeout:    cfg.Timeout,
			RetryLimit: cfg.RetryLimit,
		})
		if err != nil {
			logger.Error("failed to initialise pagerduty notifier", "error", err)
		} else {
			sinks = append(sinks, failurenotifier.SinkRegistration{Name: "pagerduty", Sink: client})
		}
	}

	return failurenotifier.NewService(failurenotifier.Options{
		Logger:          baseLogger,
		Sinks:           sinks,
		DeliveryTimeout: cfg.Timeout * time.Duration(cfg.RetryLimit+1),
		Cooldown:        cfg.Cooldown,
	})
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(deps *ServiceDeps) (*serviceRepositories, error) {
	artifacts, err := data.NewFileArtifactStore(deps.Config.Storage.ArtifactDir)
	if err != nil {
		return nil, fmt.Errorf("open artifact store: %w", err)
	}
	repos := &serviceRepositories{
		subscribers: data.NewSubscriberRepo(deps.DB),
		activity:    data.NewActivityRepo(deps.DB),
		artifacts:   artifacts,
	}
	if deps.RedisClient != nil && deps.Config.Cache.Enabled {
		repos.cache = data.NewRedisCacheRepo(deps.RedisClient)
	}
	return repos, nil
}

func buildSharedPipeline(
	deps *ServiceDeps,
	repos *serviceRepositories,
	logger *slog.Logger,
) (sharedPipeline, *pdf.ChromeConverter, error) {
	markupRenderer, err := markup.New()
	if err != nil {
		return sharedPipeline{}, nil, fmt.Errorf("load report templates: %w", err)
	}

	converter, err := pdf.NewChromeConverter(pdf.ChromeOptions{
		ExecPath:  deps.Config.Renderer.ChromePath,
		Timeout:   deps.Config.Renderer.Timeout,
		PaperSize: deps.Config.Renderer.PaperSize,
	})
	if err != nil {
		return sharedPipeline{}, nil, fmt.Errorf("create pdf converter: %w", err)
	}
	documents, err := pdf.NewRenderer(pdf.RendererOptions{Converter: converter, Store: repos.artifacts})
	if err != nil {
		converter.Close()
		return sharedPipeline{}, nil, err
	}

	var views *core.SubscriberViewCache
	cacheCfg := core.SubscriberViewCacheConfig{TTL: deps.Config.Cache.SubscriberViewTTL}
	opts := core.SubscriberViewCacheOptions{Subscribers: repos.subscribers, Config: cacheCfg, Logger: logger}
	if repos.cache != nil {
		opts.Cache = repos.cache
	}
	views = core.NewSubscriberViewCache(opts)

	pipeline := sharedPipeline{
		markup:    markupRenderer,
		documents: documents,
		artifacts: repos.artifacts,
		views:     views,
	}

	if deps.RedisClient != nil {
		publisher, err := redisadapter.NewNotificationPublisher(redisadapter.NotificationPublisherOptions{
			Client: deps.RedisClient,
			Stream: deps.Config.Notifications.Stream,
			MaxLen: deps.Config.Notifications.MaxLen,
		})
		if err != nil {
			converter.Close()
			return sharedPipeline{}, nil, fmt.Errorf("create notification publisher: %w", err)
		}
		pipeline.notifications = publisher
	} else {
		logger.Warn("redis unavailable; report notifications are disabled")
	}

	return pipeline, converter, nil
}

type kindDeps[K model.Kind] struct {
	db            *sql.DB
	cfg           *config.AppConfig
	repos         *serviceRepositories
	pipeline      sharedPipeline
	provider      core.ReportDataProvider[K]
	observability ObservabilityContainer
	logger        *slog.Logger
}

func buildKindServices[K model.Kind](d kindDeps[K]) (KindServices[K], error) {
	jobsRepo := data.NewJobRepo[K](d.db)
	logsRepo := data.NewExecutionLogRepo[K](d.db)

	jobs, err := service.NewReportJobService(service.ReportJobServiceOptions[K]{Jobs: jobsRepo, Logger: d.logger})
	if err != nil {
		return KindServices[K]{}, err
	}

	executor, err := service.NewReportExecutor(service.ReportExecutorOptions[K]{
		Stores: service.ExecutorStores[K]{
			Jobs:        jobsRepo,
			Logs:        logsRepo,
			Subscribers: d.repos.subscribers,
			ViewCache:   d.pipeline.views,
		},
		Pipeline: service.ExecutorPipeline[K]{
			Data:      d.provider,
			Markup:    d.pipeline.markup,
			Documents: d.pipeline.documents,
			Artifacts: d.pipeline.artifacts,
		},
		Observers: service.ExecutorObservers{
			Notifications: d.pipeline.notifications,
			Failures:      d.observability.FailureNotifier,
			Metrics:       d.observability.Sink(),
			Logger:        d.logger,
		},
	})
	if err != nil {
		return KindServices[K]{}, fmt.Errorf("create %s executor: %w", model.KindOf[K](), err)
	}

	schedCfg := core.SchedulerConfig{
		BatchSize:        d.cfg.Scheduler.BatchSize,
		MisfirePolicy:    d.cfg.Scheduler.MisfirePolicy,
		MisfireThreshold: d.cfg.Scheduler.MisfireThreshold,
	}
	scheduler, err := service.NewSchedulerService(service.SchedulerServiceOptions[K]{
		Store:  data.NewScheduleRepo[K](d.db),
		Config: &schedCfg,
		Logger: d.logger,
	})
	if err != nil {
		return KindServices[K]{}, err
	}

	return KindServices[K]{Jobs: jobs, Logs: logsRepo, Executor: executor, Scheduler: scheduler}, nil
}

// NewServices wires every service from the given dependencies.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	if deps == nil || deps.Config == nil || deps.DB == nil {
		return nil, errors.New("config and database are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	observability := buildObservability(logger, deps.Config.Observability)
	repos, err := buildRepositories(deps)
	if err != nil {
		return nil, err
	}
	pipeline, converter, err := buildSharedPipeline(deps, repos, logger)
	if err != nil {
		return nil, err
	}
	container := &ServiceContainer{
		Artifacts:     repos.artifacts,
		Observability: observability,
		converter:     converter,
	}

	providerOpts := reportdata.Options{Activity: repos.activity, Logger: logger}
	personalData, err := reportdata.NewPersonalProvider(providerOpts)
	if err != nil {
		container.Close()
		return nil, err
	}
	projectData, err := reportdata.NewProjectProvider(providerOpts)
	if err != nil {
		container.Close()
		return nil, err
	}

	container.Personal, err = buildKindServices(kindDeps[model.Personal]{
		db: deps.DB, cfg: deps.Config, repos: repos, pipeline: pipeline,
		provider: personalData, observability: observability, logger: logger,
	})
	if err != nil {
		container.Close()
		return nil, err
	}
	container.Project, err = buildKindServices(kindDeps[model.Project]{
		db: deps.DB, cfg: deps.Config, repos: repos, pipeline: pipeline,
		provider: projectData, observability: observability, logger: logger,
	})
	if err != nil {
		container.Close()
		return nil, err
	}

	container.Subscribers, err = service.NewSubscriberService(service.SubscriberServiceOptions{
		Subscribers: repos.subscribers,
		Views:       pipeline.views,
		Logger:      logger,
	})
	if err != nil {
		container.Close()
		return nil, err
	}
	return container, nil
}

// Executor returns the executor for kind.
//
//nolint:ireturn // callers dispatch on kind at runtime.
func (c *ServiceContainer) Executor(kind model.ReportKind) (core.ReportExecutor, error) {
	switch kind {
	case model.ReportKindPersonal:
		return c.Personal.Executor, nil
	case model.ReportKindProject:
		return c.Project.Executor, nil
	default:
		return nil, fmt.Errorf("unknown report kind %q", kind)
	}
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	DB       *sql.DB
	Logger   *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 60 * time.Second
)

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case deps.errCh <- errMsg:
			case <-ctx.Done():
			default:
				deps.logger.WarnContext(ctx, "dropping background service error",
					"service", descriptor.name, "error", errMsg)
			}
		}
	}()

	deps.logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)
	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))
	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}
		handles = append(handles, backgroundServiceHandle{mode: svc.mode, name: svc.name, done: done})
	}
	return handles
}

func newSchedulerBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeScheduler,
		name: "scheduler",
		start: func(ctx context.Context) error {
			return RunScheduler(ctx, SchedulerConfig{
				Services: deps.cfg.Services,
				Config:   deps.cfg.Config.Scheduler,
				Logger:   deps.logger,
			})
		},
	}
}

func newReaperBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeReaper,
		name: "reaper",
		start: func(ctx context.Context) error {
			return RunReaper(ctx, ReaperConfig{
				DB:        deps.cfg.DB,
				Artifacts: deps.cfg.Services.Artifacts,
				Logger:    deps.logger,
				Config:    deps.cfg.Config.Reaper,
				Metrics:   deps.cfg.Services.Observability.Sink(),
			})
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	if deps == nil {
		return nil
	}
	return []backgroundService{
		newSchedulerBackgroundService(deps),
		newReaperBackgroundService(deps),
	}
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil || cfg.Services == nil {
		return errors.New("service orchestration config is incomplete")
	}
	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	deps := &serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	}
	backgrounds := startBackgroundServices(deps, buildBackgroundServices(deps))

	return waitForShutdown(shutdownConfig{
		cancel:      cancel,
		errCh:       errCh,
		logger:      logger,
		backgrounds: backgrounds,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	count := 0
	for _, mode := range config.ValidServiceModes() {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	return errorChannelCapacity(enabled) + 1
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	cancel      context.CancelFunc
	errCh       <-chan error
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel()
		gracefulStop(cfg)
		return nil
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel()
		gracefulStop(cfg)
		return err
	}
}

// gracefulStop waits for background services; the scheduler drains in-flight executions.
func gracefulStop(cfg shutdownConfig) {
	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
