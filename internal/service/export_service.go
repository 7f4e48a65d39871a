package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spockey4711/trainingbuilder/internal/domain"
)

var ErrExportUnavailable = errors.New("report storage is not configured")

// AnalyticsReport is the document written by an export
type AnalyticsReport struct {
	UserID       string                      `json:"user_id"`
	GeneratedAt  time.Time                   `json:"generated_at"`
	Start        string                      `json:"start,omitempty"`
	End          string                      `json:"end,omitempty"`
	Volume       *domain.VolumeAnalytics     `json:"volume"`
	TrainingLoad *domain.TrainingLoadMetrics `json:"training_load"`
}

// ExportResult points at the stored report
type ExportResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type ExportService struct {
	analytics *AnalyticsService
	files     domain.FileRepository
	now       func() time.Time
}

func NewExportService(analytics *AnalyticsService, files domain.FileRepository) *ExportService {
	return &ExportService{
		analytics: analytics,
		files:     files,
		now:       time.Now,
	}
}

// ExportReport renders volume and load analytics for the range as JSON and
// stores it under reports/{userID}/{ulid}.json.
func (s *ExportService) ExportReport(ctx context.Context, userID string, dateRange domain.DateRange, loadDays int) (*ExportResult, error) {
	if s.files == nil {
		return nil, ErrExportUnavailable
	}

	volume, err := s.analytics.Volume(ctx, userID, dateRange)
	if err != nil {
		return nil, err
	}
	load, err := s.analytics.TrainingLoad(ctx, userID, loadDays)
	if err != nil {
		return nil, err
	}

	report := AnalyticsReport{
		UserID:       userID,
		GeneratedAt:  s.now().UTC(),
		Volume:       volume,
		TrainingLoad: load,
	}
	if dateRange.Start != nil {
		report.Start = domain.DateKey(*dateRange.Start)
	}
	if dateRange.End != nil {
		report.End = domain.DateKey(*dateRange.End)
	}

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	key := fmt.Sprintf("reports/%s/%s.json", userID, generateULID())
	url, err := s.files.Upload(ctx, body, key, "application/json")
	if err != nil {
		return nil, domain.StoreError("upload report", err)
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "key": key}).Info("exported analytics report")
	return &ExportResult{Key: key, URL: url}, nil
}
