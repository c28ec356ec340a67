//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"rwd/internal"
	"rwd/internal/catalog"
	"rwd/internal/controllers"
	"rwd/internal/mailbox"
	"rwd/internal/notify"
	"rwd/internal/providers"
	"rwd/internal/report"
	"rwd/internal/services"
	"rwd/internal/structures"
	"rwd/internal/watcher"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewCacheProvider,
		providers.NewMetricsProvider,

		services.NewRegistryService,
		services.NewSubscriberService,

		watcher.NewZstdCompressor,
		watcher.NewFileManager,

		catalog.NewClient,
		mailbox.NewClient,
		notify.NewTelegramSender,

		watcher.NewDetector,
		watcher.NewIngester,
		watcher.NewFanout,
		watcher.NewScheduler,

		report.NewService,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
