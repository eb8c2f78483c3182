// Package mocks provides gomock implementations of the ports in internal/core.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	logs := mocks.NewMockExecutionLogStore[model.Personal](ctrl)
//	logs.EXPECT().CreateInProgress(gomock.Any(), gomock.Any()).Return(log, nil)
package mocks

// Stores.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_store_mock.go github.com/target/reportd/internal/core JobStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=execution_log_store_mock.go github.com/target/reportd/internal/core ExecutionLogStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=execution_log_reaper_mock.go github.com/target/reportd/internal/core ExecutionLogReaper
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=schedule_store_mock.go github.com/target/reportd/internal/core ScheduleStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=subscriber_store_mock.go github.com/target/reportd/internal/core SubscriberStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=activity_reader_mock.go github.com/target/reportd/internal/core ActivityReader
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/target/reportd/internal/core CacheRepository

// Pipeline stages and collaborators.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=report_data_provider_mock.go github.com/target/reportd/internal/core ReportDataProvider
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=markup_renderer_mock.go github.com/target/reportd/internal/core MarkupRenderer
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=document_renderer_mock.go github.com/target/reportd/internal/core DocumentRenderer
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=artifact_store_mock.go github.com/target/reportd/internal/core ArtifactStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=notification_publisher_mock.go github.com/target/reportd/internal/core NotificationPublisher

// Trigger side.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=report_executor_mock.go github.com/target/reportd/internal/core ReportExecutor
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=report_scheduler_mock.go github.com/target/reportd/internal/core ReportScheduler
