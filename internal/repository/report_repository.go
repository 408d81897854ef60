package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/civicwatch/infra-report-api/internal/models"
)

// GormReportRepository is a GORM implementation of ReportRepository
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &GormReportRepository{db: db}
}

// Create inserts a new report
func (r *GormReportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// FindByID finds a report by ID with optional preloading
func (r *GormReportRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Report, error) {
	var report models.Report
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&report, id).Error; err != nil {
		return nil, err
	}

	return &report, nil
}

// List retrieves reports matching the filter, most recent first
func (r *GormReportRepository) List(ctx context.Context, filter ReportFilter) ([]models.Report, int64, error) {
	var reports []models.Report

	query := r.db.WithContext(ctx).Model(&models.Report{})

	if filter.Status != nil {
		query = query.Where("reports.status = ?", *filter.Status)
	}
	if filter.IssueType != nil {
		query = query.Where("reports.issue_type = ?", *filter.IssueType)
	}
	if filter.OwnerID != nil {
		query = query.Where("reports.user_id = ?", *filter.OwnerID)
	}
	if filter.ReporterContains != nil {
		reporterSubQuery := r.db.Model(&models.User{}).
			Select("1").
			Where("users.id = reports.user_id").
			Where("users.username LIKE ?", "%"+*filter.ReporterContains+"%")
		query = query.Where("EXISTS (?)", reporterSubQuery)
	}
	if filter.LocationContains != nil {
		query = query.Where("reports.location LIKE ?", "%"+*filter.LocationContains+"%")
	}
	if filter.CreatedFrom != nil {
		query = query.Where("reports.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("reports.created_at < ?", *filter.CreatedBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("reports.created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	if err := listQuery.Preload("Reporter").Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

// UpdateStatusWithAudit sets the status and appends the audit record
// atomically. Either both rows change or neither does.
func (r *GormReportRepository) UpdateStatusWithAudit(ctx context.Context, reportID uint64, status models.ReportStatus, adminID uint64) (*models.Report, error) {
	var report models.Report

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&report, reportID).Error; err != nil {
			return err
		}

		previous := report.Status
		now := time.Now()

		err := tx.Model(&models.Report{}).
			Where("id = ?", report.ID).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": now,
			}).Error
		if err != nil {
			return err
		}

		action := &models.AdminAction{
			AdminID:    adminID,
			ReportID:   report.ID,
			ActionType: models.ActionStatusChange,
			Details:    fmt.Sprintf("Status changed from %s to %s", previous, status),
		}
		if err := tx.Create(action).Error; err != nil {
			return err
		}

		report.Status = status
		report.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &report, nil
}

type statusCount struct {
	Status models.ReportStatus
	Count  int64
}

// CountByStatus returns grouped report counts per status
func (r *GormReportRepository) CountByStatus(ctx context.Context) (map[models.ReportStatus]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&models.Report{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.ReportStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

type typeCount struct {
	IssueType string
	Count     int64
}

// CountByType returns grouped report counts per issue type
func (r *GormReportRepository) CountByType(ctx context.Context) (map[string]int64, error) {
	var rows []typeCount
	err := r.db.WithContext(ctx).Model(&models.Report{}).
		Select("issue_type, COUNT(*) AS count").
		Group("issue_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.IssueType] = row.Count
	}
	return counts, nil
}

type severityCount struct {
	Severity models.Severity
	Count    int64
}

// CountBySeverity returns grouped report counts per severity
func (r *GormReportRepository) CountBySeverity(ctx context.Context) (map[models.Severity]int64, error) {
	var rows []severityCount
	err := r.db.WithContext(ctx).Model(&models.Report{}).
		Select("severity, COUNT(*) AS count").
		Group("severity").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.Severity]int64, len(rows))
	for _, row := range rows {
		counts[row.Severity] = row.Count
	}
	return counts, nil
}

// CountByDay returns per-calendar-day creation counts since the given time.
// Days without reports are omitted.
func (r *GormReportRepository) CountByDay(ctx context.Context, since time.Time) ([]DailyCount, error) {
	var rows []DailyCount
	err := r.db.WithContext(ctx).Model(&models.Report{}).
		Select("DATE(created_at) AS date, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the total number of reports
func (r *GormReportRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Report{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
