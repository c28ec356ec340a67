package watcher

import (
	"fmt"
	"os"
	"rwd/internal/models"
	"rwd/internal/providers"
	"rwd/internal/services"
	"rwd/internal/structures"
	"rwd/internal/watcher/interfaces"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// FileManager is the persistence adapter under the registry: a single
// zstd-compressed JSON file rewritten in full on every commit. All loads
// and commits serialize through storeMu, so concurrent background and
// on-demand runs each see a consistent snapshot. Writes go through a tmp
// file with fsync and rename, so a crash mid-write leaves either the old
// or the new file, never a mix.
type FileManager struct {
	storeMu    sync.Mutex
	config     *structures.Config
	registry   services.RegistryServiceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewFileManager(conf *structures.Config, registry services.RegistryServiceInterface, compressor interfaces.CompressorInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *FileManager {
	return &FileManager{
		config:     conf,
		registry:   registry,
		compressor: compressor,
		logger:     logger,
		metrics:    metrics,
	}
}

// LoadFromFile reads the backing store into the registry. A missing file is
// not an error: the registry is seeded from the configured tracked items and
// records get real versions on the first detector run.
func (f *FileManager) LoadFromFile(fileName string) error {
	f.storeMu.Lock()
	defer f.storeMu.Unlock()

	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			f.registry.Seed(f.config.Catalog.Tracked)
			f.logger.Infof(providers.TypeApp, "No store file at %s, seeded %d tracked releases", fileName, len(f.config.Catalog.Tracked))
			return nil
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return fmt.Errorf("%w: decompress: %v", ErrStoreCorrupt, err)
	}

	var storage models.Storage
	if err := json.Unmarshal(decompressed, &storage); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrStoreCorrupt, err)
	}
	if storage.Version != models.SchemaVersion {
		return fmt.Errorf("%w: schema marker missing (got %d, want %d)", ErrStoreCorrupt, storage.Version, models.SchemaVersion)
	}

	f.registry.PutSnapshot(&storage)
	f.registry.Seed(f.config.Catalog.Tracked)
	return nil
}

// SaveToFile flushes the registry snapshot to the backing store.
func (f *FileManager) SaveToFile(fileName string) error {
	f.storeMu.Lock()
	defer f.storeMu.Unlock()

	return f.writeSnapshot(f.registry.GetSnapshot(), fileName)
}

// CommitUpdates applies the deltas and flushes the whole store as one
// atomic write. On failure the in-memory registry is left untouched, so
// the commit is all-or-nothing from the caller's point of view.
func (f *FileManager) CommitUpdates(deltas []models.Delta) error {
	if len(deltas) == 0 {
		return nil
	}

	f.storeMu.Lock()
	defer f.storeMu.Unlock()

	snapshot := f.registry.GetSnapshot()
	for _, d := range deltas {
		if rel, ok := snapshot.Releases[d.Name]; ok {
			rel.Version = d.NewVersion
		}
	}

	if err := f.writeSnapshot(snapshot, f.config.Persistence.FilePath); err != nil {
		return err
	}
	f.registry.ApplyDeltas(deltas)
	return nil
}

// AppendMailRecords appends to the mail log and flushes, under the same
// exclusive section as every other store operation.
func (f *FileManager) AppendMailRecords(records []*models.MailRecord) error {
	if len(records) == 0 {
		return nil
	}

	f.storeMu.Lock()
	defer f.storeMu.Unlock()

	snapshot := f.registry.GetSnapshot()
	snapshot.MailLog = append(snapshot.MailLog, records...)

	if err := f.writeSnapshot(snapshot, f.config.Persistence.FilePath); err != nil {
		return err
	}
	f.registry.AppendMailRecords(records)
	return nil
}

func (f *FileManager) writeSnapshot(storage *models.Storage, fileName string) error {
	start := time.Now()

	jsonData, err := json.Marshal(storage)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrStoreUnavailable, err)
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return fmt.Errorf("%w: compress: %v", ErrStoreUnavailable, err)
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err = os.Rename(tmpFile, fileName); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	f.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}
