package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB opens a gorm handle over a sqlmock connection so that driver
// level failures can be injected.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func timeMustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func TestList_CountErrorPropagates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	dbErr := errors.New("connection lost")
	mock.ExpectQuery("SELECT count").WillReturnError(dbErr)

	_, _, err := repo.List(context.Background(), ReportFilter{})
	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `reports`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByStatus_ErrorPropagates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	dbErr := errors.New("connection lost")
	mock.ExpectQuery("SELECT (.+) FROM `reports`").WillReturnError(dbErr)

	_, err := repo.CountByStatus(context.Background())
	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByDay_ScansRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"date", "count"}).
		AddRow("2024-01-05", 2).
		AddRow("2024-01-07", 1)
	mock.ExpectQuery("SELECT DATE\\(created_at\\)").WillReturnRows(rows)

	counts, err := repo.CountByDay(context.Background(), timeMustParse(t, "2024-01-01"))
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "2024-01-05", counts[0].Date)
	assert.EqualValues(t, 2, counts[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusWithAudit_MissingReportRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reports`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.UpdateStatusWithAudit(context.Background(), 42, "Resolved", 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
