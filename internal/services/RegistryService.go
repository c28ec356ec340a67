package services

import (
	"rwd/internal/models"
	"rwd/internal/structures"
	"sync"
)

// RegistryServiceInterface is the in-memory half of the version store.
// It owns all Release records and the mail log; durability is handled by
// the watcher's FileManager, which is the only component that reads the
// snapshot out or puts a loaded snapshot back in.
type RegistryServiceInterface interface {
	GetReleases() map[string]*models.Release
	GetRelease(name string) (*models.Release, bool)
	ApplyDeltas(deltas []models.Delta)
	AppendMailRecords(records []*models.MailRecord)
	GetMailLog() []*models.MailRecord
	GetSnapshot() *models.Storage
	PutSnapshot(storage *models.Storage)
	Seed(items []structures.TrackedItem)
	Counts() (releases int, mailLog int)
}

type RegistryService struct {
	mu      sync.RWMutex
	storage *models.Storage
}

func NewRegistryService() RegistryServiceInterface {
	return &RegistryService{
		storage: &models.Storage{
			Version:  models.SchemaVersion,
			Releases: make(map[string]*models.Release),
		},
	}
}

func (rs *RegistryService) GetReleases() map[string]*models.Release {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	copyMap := make(map[string]*models.Release, len(rs.storage.Releases))
	for k, v := range rs.storage.Releases {
		rel := *v
		copyMap[k] = &rel
	}
	return copyMap
}

func (rs *RegistryService) GetRelease(name string) (*models.Release, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	val, ok := rs.storage.Releases[name]
	if !ok {
		return nil, false
	}
	rel := *val
	return &rel, true
}

func (rs *RegistryService) ApplyDeltas(deltas []models.Delta) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	for _, d := range deltas {
		if rel, ok := rs.storage.Releases[d.Name]; ok {
			rel.Version = d.NewVersion
		}
	}
}

func (rs *RegistryService) AppendMailRecords(records []*models.MailRecord) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.storage.MailLog = append(rs.storage.MailLog, records...)
}

func (rs *RegistryService) GetMailLog() []*models.MailRecord {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	log := make([]*models.MailRecord, len(rs.storage.MailLog))
	copy(log, rs.storage.MailLog)
	return log
}

func (rs *RegistryService) GetSnapshot() *models.Storage {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	releases := make(map[string]*models.Release, len(rs.storage.Releases))
	for k, v := range rs.storage.Releases {
		rel := *v
		releases[k] = &rel
	}
	mailLog := make([]*models.MailRecord, len(rs.storage.MailLog))
	copy(mailLog, rs.storage.MailLog)

	return &models.Storage{
		Version:  models.SchemaVersion,
		Releases: releases,
		MailLog:  mailLog,
	}
}

func (rs *RegistryService) PutSnapshot(storage *models.Storage) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if storage.Releases == nil {
		storage.Releases = make(map[string]*models.Release)
	}
	storage.Version = models.SchemaVersion
	rs.storage = storage
}

// Seed creates one Release record per tracked item that does not exist yet.
// Seeded records start at version "0" so the first detector run picks up
// the real catalog version as a delta. Existing records are left untouched.
func (rs *RegistryService) Seed(items []structures.TrackedItem) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	slot := len(rs.storage.Releases)
	for _, item := range items {
		if _, ok := rs.storage.Releases[item.Name]; ok {
			continue
		}
		rs.storage.Releases[item.Name] = &models.Release{
			Name:    item.Name,
			Version: "0",
			Kind:    item.Kind,
			Slot:    slot,
		}
		slot++
	}
}

func (rs *RegistryService) Counts() (int, int) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	return len(rs.storage.Releases), len(rs.storage.MailLog)
}
