package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/civicwatch/infra-report-api/internal/models"
)

// GormAdminActionRepository is a GORM implementation of AdminActionRepository
type GormAdminActionRepository struct {
	db *gorm.DB
}

// NewAdminActionRepository creates a new AdminActionRepository
func NewAdminActionRepository(db *gorm.DB) AdminActionRepository {
	return &GormAdminActionRepository{db: db}
}

// Append inserts one audit record
func (r *GormAdminActionRepository) Append(ctx context.Context, action *models.AdminAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

// ListByReport returns the audit trail for a report, newest first
func (r *GormAdminActionRepository) ListByReport(ctx context.Context, reportID uint64) ([]models.AdminAction, error) {
	var actions []models.AdminAction
	err := r.db.WithContext(ctx).
		Preload("Admin").
		Where("report_id = ?", reportID).
		Order("created_at DESC").
		Find(&actions).Error
	if err != nil {
		return nil, err
	}
	return actions, nil
}
