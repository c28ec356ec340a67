package controllers

import (
	json "github.com/goccy/go-json"
	"net/http"
	"rwd/internal/providers"
	"rwd/internal/report"
	"rwd/internal/services"
	"rwd/internal/watcher/interfaces"
	"time"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const subscribersCacheKey = "subscribers"

type ApiController struct {
	logger      providers.Logger
	scheduler   interfaces.SchedulerInterface
	registry    services.RegistryServiceInterface
	subscribers services.SubscriberServiceInterface
	reports     report.ServiceInterface
	cache       providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, scheduler interfaces.SchedulerInterface, registry services.RegistryServiceInterface, subscribers services.SubscriberServiceInterface, reports report.ServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:      logger,
		scheduler:   scheduler,
		registry:    registry,
		subscribers: subscribers,
		reports:     reports,
		cache:       cache,
	}
}

type subscriberPayload struct {
	ID int64 `json:"id"`
}

type intervalPayload struct {
	Seconds int64 `json:"seconds"`
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, status int, body any) {
	gson, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) Subscribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload subscriberPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.ID == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := ac.subscribers.Subscribe(payload.ID); err != nil {
		ac.logger.Errorf(providers.TypePost, "Subscribe %d failed: %s", payload.ID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.cache.Del(subscribersCacheKey)
	w.WriteHeader(http.StatusCreated)
}

func (ac *ApiController) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload subscriberPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.ID == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	removed, err := ac.subscribers.Unsubscribe(payload.ID)
	if err != nil {
		ac.logger.Errorf(providers.TypePost, "Unsubscribe %d failed: %s", payload.ID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.cache.Del(subscribersCacheKey)
	ac.writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (ac *ApiController) GetSubscribers(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, subscribersCacheKey, func() (any, error) {
		return ac.subscribers.List(), nil
	})
}

// Check runs the pipeline once, synchronously. The response separates
// "check failed" from "no changes found": a collaborator failure is a 502
// with the error text, an empty result is a 200 with changes=false.
func (ac *ApiController) Check(w http.ResponseWriter, r *http.Request) {
	result, err := ac.scheduler.RunOnce()
	if err != nil {
		ac.logger.Errorf(providers.TypePost, "On-demand check failed: %s", err)
		ac.writeJSON(w, http.StatusBadGateway, map[string]any{
			"status": "failed",
			"error":  err.Error(),
		})
		return
	}

	ac.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"changes": !result.Empty(),
		"deltas":  result.Deltas,
		"mail":    result.Mail,
	})
}

func (ac *ApiController) SetInterval(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload intervalPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Seconds < 1 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ac.scheduler.SetInterval(time.Duration(payload.Seconds))
	ac.writeJSON(w, http.StatusOK, map[string]int64{"seconds": payload.Seconds})
}

func (ac *ApiController) GetReport(w http.ResponseWriter, r *http.Request) {
	summary, err := ac.reports.Generate(r.URL.Query().Get("kind"))
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Report generation failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.writeJSON(w, http.StatusOK, summary)
}

func (ac *ApiController) GetReleases(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "releases", func() (any, error) {
		return ac.registry.GetReleases(), nil
	})
}

func (ac *ApiController) GetMailLog(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "maillog", func() (any, error) {
		return ac.registry.GetMailLog(), nil
	})
}
