package watcher

import (
	"fmt"
	"rwd/internal/models"
	"rwd/internal/providers"
	"rwd/internal/services"
)

// CatalogSourceInterface produces one ordered snapshot of the published
// catalog. Authentication and page retrieval are its problem; a failure
// surfaces as ErrRetrievalFailed.
type CatalogSourceInterface interface {
	Snapshot() ([]models.CatalogRow, error)
}

// Detector compares a catalog snapshot against the registry and commits
// accepted version changes in a single store write per run.
type Detector struct {
	source      CatalogSourceInterface
	registry    services.RegistryServiceInterface
	fileManager *FileManager
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
}

func NewDetector(source CatalogSourceInterface, registry services.RegistryServiceInterface, fileManager *FileManager, logger providers.Logger, metrics providers.MetricsProviderInterface) *Detector {
	return &Detector{
		source:      source,
		registry:    registry,
		fileManager: fileManager,
		logger:      logger,
		metrics:     metrics,
	}
}

// DetectAndApply fetches the catalog, collects deltas for tracked releases
// whose published version orders after the stored one, and commits them all
// at once. Catalog rows without a matching registry record are ignored;
// the catalog lists plenty of items outside the tracked set. A retrieval
// failure aborts the run before any state change.
func (d *Detector) DetectAndApply() ([]models.Delta, error) {
	rows, err := d.source.Snapshot()
	if err != nil {
		d.metrics.IncChecksTotal("catalog", "failed")
		return nil, fmt.Errorf("catalog snapshot: %w", err)
	}

	releases := d.registry.GetReleases()
	var deltas []models.Delta

	for _, row := range rows {
		version := FirstVersionToken(row.RawVersion)
		if version == "" {
			continue
		}
		rel, ok := releases[row.Name]
		if !ok {
			continue
		}

		newer, err := IsNewer(rel.Version, version)
		if err != nil {
			d.logger.Warnf(providers.TypeWatch, "Version comparison skipped for %s: %s", row.Name, err)
			continue
		}
		if newer {
			deltas = append(deltas, models.Delta{
				Name:       row.Name,
				OldVersion: rel.Version,
				NewVersion: version,
			})
		}
	}

	if err := d.fileManager.CommitUpdates(deltas); err != nil {
		d.metrics.IncChecksTotal("catalog", "failed")
		return nil, err
	}

	d.metrics.IncChecksTotal("catalog", "ok")
	d.metrics.AddDeltas(len(deltas))
	if len(deltas) > 0 {
		d.logger.Infof(providers.TypeWatch, "Committed %d version updates", len(deltas))
	}
	return deltas, nil
}
