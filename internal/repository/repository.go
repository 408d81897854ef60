package repository

import (
	"context"
	"time"

	"github.com/civicwatch/infra-report-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user. The database unique index on username is
	// the source of truth for uniqueness; a lost race surfaces as
	// gorm.ErrDuplicatedKey.
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdatePassword overwrites the stored credential for a user
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error

	// List returns all users ordered by creation time
	List(ctx context.Context) ([]models.User, error)

	// Count returns the total number of users
	Count(ctx context.Context) (int64, error)
}

// ReportFilter holds filtering options for listing reports. Nil fields
// impose no constraint; provided fields are ANDed together.
type ReportFilter struct {
	Status           *models.ReportStatus
	IssueType        *string
	OwnerID          *uint64
	ReporterContains *string
	LocationContains *string

	// CreatedFrom is inclusive, CreatedBefore exclusive. Callers filtering
	// on calendar dates normalize to midnight bounds before passing them.
	CreatedFrom   *time.Time
	CreatedBefore *time.Time

	Page     int
	PageSize int
}

// DailyCount is the number of reports created on one calendar day.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	// Create inserts a new report
	Create(ctx context.Context, report *models.Report) error

	// FindByID finds a report by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Report, error)

	// List retrieves reports matching the filter, most recent first,
	// along with the total match count
	List(ctx context.Context, filter ReportFilter) ([]models.Report, int64, error)

	// UpdateStatusWithAudit sets the report status, refreshes updated_at and
	// appends the Status Change audit record in a single transaction.
	UpdateStatusWithAudit(ctx context.Context, reportID uint64, status models.ReportStatus, adminID uint64) (*models.Report, error)

	// CountByStatus returns grouped report counts per status; statuses with
	// no reports are absent from the map
	CountByStatus(ctx context.Context) (map[models.ReportStatus]int64, error)

	// CountByType returns grouped report counts per issue type
	CountByType(ctx context.Context) (map[string]int64, error)

	// CountBySeverity returns grouped report counts per severity
	CountBySeverity(ctx context.Context) (map[models.Severity]int64, error)

	// CountByDay returns per-calendar-day creation counts since the given
	// time, ascending by date, omitting days with no reports
	CountByDay(ctx context.Context, since time.Time) ([]DailyCount, error)

	// Count returns the total number of reports
	Count(ctx context.Context) (int64, error)
}

// IssueTypeRepository defines the interface for issue type reference data
type IssueTypeRepository interface {
	// List returns all issue types ordered by name
	List(ctx context.Context) ([]models.IssueType, error)
}

// AdminActionRepository defines the interface for the audit log
type AdminActionRepository interface {
	// Append inserts one audit record
	Append(ctx context.Context, action *models.AdminAction) error

	// ListByReport returns the audit trail for a report, newest first
	ListByReport(ctx context.Context, reportID uint64) ([]models.AdminAction, error)
}
