package internal

import (
	"net/http"
	"rwd/internal/controllers"
	"rwd/internal/providers"
	"rwd/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/subscribe", http.HandlerFunc(apiController.Subscribe))
	routers.Post("/unsubscribe", http.HandlerFunc(apiController.Unsubscribe))
	routers.Get("/subscribers", http.HandlerFunc(apiController.GetSubscribers))
	routers.Post("/check", http.HandlerFunc(apiController.Check))
	routers.Post("/interval", http.HandlerFunc(apiController.SetInterval))
	routers.Get("/report", http.HandlerFunc(apiController.GetReport))
	routers.Get("/releases", http.HandlerFunc(apiController.GetReleases))
	routers.Get("/mail", http.HandlerFunc(apiController.GetMailLog))
	return routers
}
