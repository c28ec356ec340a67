package watcher

import (
	"fmt"
	"rwd/internal/models"
	"rwd/internal/providers"
	"rwd/internal/services"
	"rwd/internal/structures"
	"rwd/internal/watcher/interfaces"
	"strings"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

// Scheduler drives the two detectors. The repeating context runs on a
// runtime-mutable interval and never dies on a collaborator failure; the
// on-demand context (RunOnce) surfaces failures to its caller instead.
// Both serialize through opsMu, so a run is never concurrent with itself.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	detector    *Detector
	ingester    *Ingester
	fanout      *Fanout
	subscribers services.SubscriberServiceInterface
	fileManager *FileManager
	cron        *gron.Cron
	opsMu       sync.Mutex
	cronMu      sync.Mutex
	interval    time.Duration
}

func NewScheduler(config *structures.Config, logger providers.Logger, detector *Detector, ingester *Ingester, fanout *Fanout, subscribers services.SubscriberServiceInterface, fileManager *FileManager) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		detector:    detector,
		ingester:    ingester,
		fanout:      fanout,
		subscribers: subscribers,
		fileManager: fileManager,
		interval:    config.Watcher.Interval,
	}
}

func (s *Scheduler) Init() {
	s.cronMu.Lock()
	defer s.cronMu.Unlock()

	s.startLocked()
}

// startLocked builds and starts a fresh cron. Caller must hold cronMu.
func (s *Scheduler) startLocked() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.interval*time.Second), func() {
		s.runScheduled()
	})

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval*time.Second), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
			return
		}
		s.logger.Debugf(providers.TypeApp, "Persisted registry to file %s", s.config.Persistence.FilePath)
	})

	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Scheduler started, check interval %ds", s.interval)
}

func (s *Scheduler) Stop() {
	s.cronMu.Lock()
	defer s.cronMu.Unlock()

	if s.cron != nil {
		s.cron.Stop()
	}
}

// SetInterval changes the repeating interval. The change applies from the
// next scheduling decision: the running cron is replaced, not interrupted.
func (s *Scheduler) SetInterval(interval time.Duration) {
	s.cronMu.Lock()
	defer s.cronMu.Unlock()

	s.interval = interval
	if s.cron == nil {
		return
	}
	s.cron.Stop()
	s.startLocked()
	s.logger.Infof(providers.TypeApp, "Check interval changed to %ds", interval)
}

func (s *Scheduler) GetInterval() time.Duration {
	s.cronMu.Lock()
	defer s.cronMu.Unlock()

	return s.interval
}

// runScheduled is the repeating context. Every failure is contained here:
// the loop must survive a bad run and fire again after the interval.
func (s *Scheduler) runScheduled() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	result, err := s.run()
	if err != nil {
		s.logger.Errorf(providers.TypeWatch, "Scheduled check failed: %s", err)
	}
	if result.Empty() {
		s.logger.Infof(providers.TypeWatch, "Scheduled check found no changes")
		return
	}

	s.fanout.Notify(s.subscribers.List(), BuildMessage(result))
}

// RunOnce is the on-demand context: the same pipeline including fanout, but
// collaborator errors propagate to the caller so the command surface can
// report "check failed" instead of "no changes found".
func (s *Scheduler) RunOnce() (*models.RunResult, error) {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	result, err := s.run()
	if !result.Empty() {
		s.fanout.Notify(s.subscribers.List(), BuildMessage(result))
	}
	return result, err
}

// run executes one pipeline pass: catalog first, then mail. The two sources
// are independent: a catalog failure never blocks mail ingestion.
func (s *Scheduler) run() (*models.RunResult, error) {
	deltas, err := s.detector.DetectAndApply()
	records := s.ingester.IngestAll()

	return &models.RunResult{
		Deltas: deltas,
		Mail:   records,
	}, err
}

func (s *Scheduler) Restore() error {
	return s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting registry to file...")
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

// BuildMessage renders a run result as the human-readable notification text.
func BuildMessage(result *models.RunResult) string {
	var b strings.Builder

	if len(result.Deltas) > 0 {
		b.WriteString("Release updates:\n")
		for _, d := range result.Deltas {
			fmt.Fprintf(&b, "%s: %s -> %s\n", d.Name, d.OldVersion, d.NewVersion)
		}
	}

	for _, rec := range result.Mail {
		if !rec.Flagged() {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Attention: message %q was flagged", rec.Subject)
		if rec.HasError {
			b.WriteString(" (error)")
		} else if rec.HasWarning {
			b.WriteString(" (warning)")
		}
		if rec.UpdateCount != nil {
			fmt.Fprintf(&b, ", reported updates: %d", *rec.UpdateCount)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
