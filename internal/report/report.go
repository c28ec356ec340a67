// Package report renders the current registry state into an on-demand
// change report: a row per tracked release plus mail-log totals, written
// to a timestamped CSV file for download.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"rwd/internal/providers"
	"rwd/internal/services"
	"rwd/internal/structures"
	"sort"
	"strconv"
	"time"
)

type Row struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Version string `json:"version"`
}

type Summary struct {
	GeneratedAt  time.Time `json:"generated_at"`
	Filter       string    `json:"filter"`
	Rows         []Row     `json:"rows"`
	MailTotal    int       `json:"mail_total"`
	MailWarnings int       `json:"mail_warnings"`
	MailErrors   int       `json:"mail_errors"`
	Path         string    `json:"path"`
}

type ServiceInterface interface {
	Generate(filterKey string) (*Summary, error)
}

type Service struct {
	config   *structures.Config
	registry services.RegistryServiceInterface
	logger   providers.Logger
}

func NewService(conf *structures.Config, registry services.RegistryServiceInterface, logger providers.Logger) ServiceInterface {
	return &Service{
		config:   conf,
		registry: registry,
		logger:   logger,
	}
}

// Generate builds a report over the registry snapshot. filterKey narrows the
// release rows by kind; "" or "all" includes everything. The CSV file lands
// in the configured report directory and its path is part of the summary.
func (s *Service) Generate(filterKey string) (*Summary, error) {
	releases := s.registry.GetReleases()

	rows := make([]Row, 0, len(releases))
	for _, rel := range releases {
		if filterKey != "" && filterKey != "all" && rel.Kind != filterKey {
			continue
		}
		rows = append(rows, Row{
			Name:    rel.Name,
			Kind:    rel.Kind,
			Version: rel.Version,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

	summary := &Summary{
		GeneratedAt: time.Now(),
		Filter:      filterKey,
		Rows:        rows,
	}
	for _, rec := range s.registry.GetMailLog() {
		summary.MailTotal++
		if rec.HasWarning {
			summary.MailWarnings++
		}
		if rec.HasError {
			summary.MailErrors++
		}
	}

	path, err := s.writeFile(summary)
	if err != nil {
		return nil, err
	}
	summary.Path = path

	s.logger.Infof(providers.TypeApp, "Report generated: %s (%d rows)", path, len(rows))
	return summary, nil
}

func (s *Service) writeFile(summary *Summary) (string, error) {
	if err := os.MkdirAll(s.config.Report.Dir, 0755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	name := fmt.Sprintf("report_%s.csv", summary.GeneratedAt.Format("20060102_1504"))
	path := filepath.Join(s.config.Report.Dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"name", "kind", "version"}); err != nil {
		return "", err
	}
	for _, row := range summary.Rows {
		if err := w.Write([]string{row.Name, row.Kind, row.Version}); err != nil {
			return "", err
		}
	}
	if err := w.Write([]string{}); err != nil {
		return "", err
	}
	if err := w.Write([]string{"mail_total", strconv.Itoa(summary.MailTotal)}); err != nil {
		return "", err
	}
	if err := w.Write([]string{"mail_warnings", strconv.Itoa(summary.MailWarnings)}); err != nil {
		return "", err
	}
	if err := w.Write([]string{"mail_errors", strconv.Itoa(summary.MailErrors)}); err != nil {
		return "", err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}
