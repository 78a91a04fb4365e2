package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"clinic-booking/config"
	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var reportHeader = []string{"metric", "value"}

// ReportExporter persists a report so it can be handed out as a download.
type ReportExporter interface {
	Export(ctx context.Context, rows []entity.ReportRow) (string, error)
}

type csvReportExporter struct {
	dir string
	log *logrus.Logger
	now func() time.Time
}

func NewReportExporter(cfg config.ReportConfig, log *logrus.Logger) ReportExporter {
	return &csvReportExporter{
		dir: cfg.Dir,
		log: log,
		now: time.Now,
	}
}

// Export writes rows as metric,value CSV into the report directory and
// returns the path of the new file.
func (e *csvReportExporter) Export(ctx context.Context, rows []entity.ReportRow) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	name := fmt.Sprintf("report_%s_%s.csv", e.now().UTC().Format("20060102T150405"), uuid.NewString()[:8])
	path := filepath.Join(e.dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(reportHeader); err != nil {
		return "", fmt.Errorf("write report header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write([]string{row.Metric, row.Value}); err != nil {
			return "", fmt.Errorf("write report row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush report: %w", err)
	}

	e.log.WithField("path", path).Info("Report exported")
	return path, nil
}
