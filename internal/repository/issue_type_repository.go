package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/civicwatch/infra-report-api/internal/models"
)

// GormIssueTypeRepository is a GORM implementation of IssueTypeRepository
type GormIssueTypeRepository struct {
	db *gorm.DB
}

// NewIssueTypeRepository creates a new IssueTypeRepository
func NewIssueTypeRepository(db *gorm.DB) IssueTypeRepository {
	return &GormIssueTypeRepository{db: db}
}

// List returns all issue types ordered by name
func (r *GormIssueTypeRepository) List(ctx context.Context) ([]models.IssueType, error) {
	var types []models.IssueType
	if err := r.db.WithContext(ctx).Order("type_name ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}
