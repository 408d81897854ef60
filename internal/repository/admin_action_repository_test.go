package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/civicwatch/infra-report-api/internal/models"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Report{}, &models.AdminAction{})
	require.NoError(t, err)
	return db
}

func TestAppendAndListByReport(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewAdminActionRepository(db)

	admin := &models.User{Username: "boss", PasswordHash: "hash", Role: models.RoleAdmin}
	require.NoError(t, db.Create(admin).Error)

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	for i, details := range []string{"first", "second", "third"} {
		action := &models.AdminAction{
			AdminID:    admin.ID,
			ReportID:   7,
			ActionType: models.ActionStatusChange,
			Details:    details,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Append(context.Background(), action))
	}

	actions, err := repo.ListByReport(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, actions, 3)

	// Newest first, admin preloaded
	assert.Equal(t, "third", actions[0].Details)
	assert.Equal(t, "first", actions[2].Details)
	assert.Equal(t, "boss", actions[0].Admin.Username)

	other, err := repo.ListByReport(context.Background(), 8)
	require.NoError(t, err)
	assert.Empty(t, other)
}
