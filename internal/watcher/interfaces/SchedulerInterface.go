package interfaces

import (
	"rwd/internal/models"
	"time"
)

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
	RunOnce() (*models.RunResult, error)
	SetInterval(interval time.Duration)
	GetInterval() time.Duration
}
