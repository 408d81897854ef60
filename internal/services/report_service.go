package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/civicwatch/infra-report-api/internal/models"
	"github.com/civicwatch/infra-report-api/internal/repository"
)

var (
	ErrReportNotFound      = errors.New("report not found")
	ErrIssueTypeRequired   = errors.New("issue type is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrLocationRequired    = errors.New("location is required")
	ErrInvalidSeverity     = errors.New("invalid severity")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidDateRange    = errors.New("invalid date range")
)

const dateLayout = "2006-01-02"

// ReportService owns the report lifecycle: submission, visibility-checked
// retrieval, filtered listing and status updates with their audit trail.
type ReportService struct {
	reportRepo    repository.ReportRepository
	actionRepo    repository.AdminActionRepository
	issueTypeRepo repository.IssueTypeRepository
	logger        *zap.Logger
	timeout       time.Duration
}

// NewReportService creates a new ReportService.
func NewReportService(
	reportRepo repository.ReportRepository,
	actionRepo repository.AdminActionRepository,
	issueTypeRepo repository.IssueTypeRepository,
	logger *zap.Logger,
	timeout time.Duration,
) *ReportService {
	return &ReportService{
		reportRepo:    reportRepo,
		actionRepo:    actionRepo,
		issueTypeRepo: issueTypeRepo,
		logger:        logger,
		timeout:       timeout,
	}
}

// SubmitInput represents a new issue report.
type SubmitInput struct {
	ReporterID  uint64
	IssueType   string
	Severity    models.Severity
	Description string
	Location    string
	Latitude    *float64
	Longitude   *float64
}

// Submit validates and stores a new report. Status always starts Pending.
func (s *ReportService) Submit(ctx context.Context, input SubmitInput) (*models.Report, error) {
	if strings.TrimSpace(input.IssueType) == "" {
		return nil, ErrIssueTypeRequired
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrDescriptionRequired
	}
	if strings.TrimSpace(input.Location) == "" {
		return nil, ErrLocationRequired
	}

	severity := input.Severity
	if severity == "" {
		severity = models.SeverityMedium
	}
	if !severity.Valid() {
		return nil, ErrInvalidSeverity
	}

	report := &models.Report{
		UserID:      input.ReporterID,
		IssueType:   strings.TrimSpace(input.IssueType),
		Severity:    severity,
		Description: input.Description,
		Location:    input.Location,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Status:      models.StatusPending,
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	s.logger.Info("report submitted",
		zap.Uint64("report_id", report.ID),
		zap.Uint64("user_id", report.UserID),
		zap.String("issue_type", report.IssueType),
		zap.String("severity", string(report.Severity)),
	)

	return s.reportRepo.FindByID(ctx, report.ID, "Reporter")
}

// Get returns a report visible to the actor. A report is visible to its
// owner or to any admin; everyone else gets the same not-found as a
// missing id, so existence is never leaked.
func (s *ReportService) Get(ctx context.Context, reportID uint64, actor *models.User) (*models.Report, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	report, err := s.reportRepo.FindByID(ctx, reportID, "Reporter")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to find report: %w", err)
	}

	if !actor.IsAdmin() && report.UserID != actor.ID {
		return nil, ErrReportNotFound
	}

	return report, nil
}

// ListInput represents filters for listing reports. Empty fields impose no
// constraint.
type ListInput struct {
	Actor *models.User

	Status           string
	IssueType        string
	OwnerID          *uint64
	ReporterContains string
	LocationContains string
	StartDate        string
	EndDate          string

	Page     int
	PageSize int
}

// List returns reports matching the filters, most recent first, plus the
// total match count. Non-admin actors only ever see their own reports.
func (s *ReportService) List(ctx context.Context, input ListInput) ([]models.Report, int64, error) {
	filter := repository.ReportFilter{
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	if input.Status != "" {
		status := models.ReportStatus(input.Status)
		if !status.Valid() {
			return nil, 0, ErrInvalidStatus
		}
		filter.Status = &status
	}
	if input.IssueType != "" {
		filter.IssueType = &input.IssueType
	}
	if input.LocationContains != "" {
		filter.LocationContains = &input.LocationContains
	}

	if input.Actor.IsAdmin() {
		filter.OwnerID = input.OwnerID
		if input.ReporterContains != "" {
			filter.ReporterContains = &input.ReporterContains
		}
	} else {
		// Owners only see their own reports regardless of requested filters.
		filter.OwnerID = &input.Actor.ID
	}

	from, before, err := parseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, 0, err
	}
	filter.CreatedFrom = from
	filter.CreatedBefore = before

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	reports, total, err := s.reportRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, total, nil
}

// UpdateStatus moves a report to a new status and records the change in the
// admin action log. Any valid status may be set from any other; the audit
// append and the status write commit together or not at all.
func (s *ReportService) UpdateStatus(ctx context.Context, reportID uint64, newStatus models.ReportStatus, actingAdmin *models.User) (*models.Report, error) {
	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	report, err := s.reportRepo.UpdateStatusWithAudit(ctx, reportID, newStatus, actingAdmin.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to update report status: %w", err)
	}

	s.logger.Info("report status updated",
		zap.Uint64("report_id", report.ID),
		zap.String("status", string(report.Status)),
		zap.Uint64("admin_id", actingAdmin.ID),
	)
	return report, nil
}

// ListActions returns the audit trail for a report, newest first.
func (s *ReportService) ListActions(ctx context.Context, reportID uint64) ([]models.AdminAction, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if _, err := s.reportRepo.FindByID(ctx, reportID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to find report: %w", err)
	}

	actions, err := s.actionRepo.ListByReport(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin actions: %w", err)
	}
	return actions, nil
}

// ListIssueTypes returns the seeded issue type reference data.
func (s *ReportService) ListIssueTypes(ctx context.Context) ([]models.IssueType, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	types, err := s.issueTypeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list issue types: %w", err)
	}
	return types, nil
}

// parseDateRange converts inclusive calendar-date bounds into half-open
// timestamp bounds. Both ends must be present or absent together.
func parseDateRange(startDate, endDate string) (*time.Time, *time.Time, error) {
	if startDate == "" && endDate == "" {
		return nil, nil, nil
	}
	if startDate == "" || endDate == "" {
		return nil, nil, ErrInvalidDateRange
	}

	start, err := time.ParseInLocation(dateLayout, startDate, time.Local)
	if err != nil {
		return nil, nil, ErrInvalidDateRange
	}
	end, err := time.ParseInLocation(dateLayout, endDate, time.Local)
	if err != nil {
		return nil, nil, ErrInvalidDateRange
	}
	if end.Before(start) {
		return nil, nil, ErrInvalidDateRange
	}

	// End bound is exclusive midnight of the following day so the whole end
	// date is included.
	before := end.Add(24 * time.Hour)
	return &start, &before, nil
}

func (s *ReportService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, s.timeout)
}
