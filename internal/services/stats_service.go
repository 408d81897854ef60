package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/civicwatch/infra-report-api/internal/models"
	"github.com/civicwatch/infra-report-api/internal/repository"
)

// Overview aggregates the system-wide counters shown on the admin
// statistics screen. Grouped maps are sparse: a status, type or severity
// with no reports has no entry.
type Overview struct {
	TotalUsers   int64                         `json:"total_users"`
	TotalReports int64                         `json:"total_reports"`
	ByStatus     map[models.ReportStatus]int64 `json:"by_status"`
	ByType       map[string]int64              `json:"by_type"`
	BySeverity   map[models.Severity]int64     `json:"by_severity"`
}

// StatsService computes aggregate report statistics.
type StatsService struct {
	reportRepo repository.ReportRepository
	userRepo   repository.UserRepository
	logger     *zap.Logger
	timeout    time.Duration
	windowDays int
}

// NewStatsService creates a new StatsService. windowDays is the default
// trailing window for daily counts.
func NewStatsService(
	reportRepo repository.ReportRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
	timeout time.Duration,
	windowDays int,
) *StatsService {
	return &StatsService{
		reportRepo: reportRepo,
		userRepo:   userRepo,
		logger:     logger,
		timeout:    timeout,
		windowDays: windowDays,
	}
}

// GetOverview returns totals and grouped counts over all reports.
func (s *StatsService) GetOverview(ctx context.Context) (*Overview, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	totalReports, err := s.reportRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	byStatus, err := s.reportRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports by status: %w", err)
	}
	byType, err := s.reportRepo.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports by type: %w", err)
	}
	bySeverity, err := s.reportRepo.CountBySeverity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports by severity: %w", err)
	}

	return &Overview{
		TotalUsers:   totalUsers,
		TotalReports: totalReports,
		ByStatus:     byStatus,
		ByType:       byType,
		BySeverity:   bySeverity,
	}, nil
}

// DailyCounts returns reports created per calendar day within the trailing
// window, ascending by date. Days with zero reports are omitted.
func (s *StatsService) DailyCounts(ctx context.Context, windowDays int) ([]repository.DailyCount, error) {
	if windowDays <= 0 {
		windowDays = s.windowDays
	}

	now := time.Now()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -(windowDays - 1))

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	counts, err := s.reportRepo.CountByDay(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports by day: %w", err)
	}

	s.logger.Debug("daily counts computed",
		zap.Int("window_days", windowDays),
		zap.Int("days_with_reports", len(counts)),
	)
	return counts, nil
}

func (s *StatsService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, s.timeout)
}
