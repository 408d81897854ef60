package dto

import (
	"time"

	"github.com/civicwatch/infra-report-api/internal/models"
	"github.com/civicwatch/infra-report-api/internal/utils"
)

// ReportDTO represents a report in API responses
type ReportDTO struct {
	ID          uint64              `json:"id"`
	IssueType   string              `json:"issue_type"`
	Severity    models.Severity     `json:"severity"`
	Description string              `json:"description"`
	Location    string              `json:"location"`
	Latitude    *float64            `json:"latitude,omitempty"`
	Longitude   *float64            `json:"longitude,omitempty"`
	Status      models.ReportStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Reporter    *UserDTO            `json:"reporter,omitempty"`
}

// ReportListResponse represents a paginated list of reports
type ReportListResponse struct {
	Reports    []ReportDTO              `json:"reports"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// AdminActionDTO represents one audit record in API responses
type AdminActionDTO struct {
	ActionID   uint64            `json:"action_id"`
	ReportID   uint64            `json:"report_id"`
	ActionType models.ActionType `json:"action_type"`
	Details    string            `json:"details"`
	CreatedAt  time.Time         `json:"created_at"`
	Admin      *UserDTO          `json:"admin,omitempty"`
}

// ToReportDTO converts a Report model to ReportDTO
func ToReportDTO(report models.Report) ReportDTO {
	dto := ReportDTO{
		ID:          report.ID,
		IssueType:   report.IssueType,
		Severity:    report.Severity,
		Description: report.Description,
		Location:    report.Location,
		Latitude:    report.Latitude,
		Longitude:   report.Longitude,
		Status:      report.Status,
		CreatedAt:   report.CreatedAt,
		UpdatedAt:   report.UpdatedAt,
	}

	// Include reporter if preloaded
	if report.Reporter.ID != 0 {
		reporter := ToUserDTO(report.Reporter)
		dto.Reporter = &reporter
	}

	return dto
}

// ToReportListResponse converts a slice of reports to ReportListResponse
func ToReportListResponse(reports []models.Report, page, limit int, total int64) ReportListResponse {
	items := make([]ReportDTO, len(reports))
	for i, report := range reports {
		items[i] = ToReportDTO(report)
	}

	return ReportListResponse{
		Reports: items,
		Pagination: utils.PaginationResponse{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	}
}

// ToAdminActionDTO converts an AdminAction model to AdminActionDTO
func ToAdminActionDTO(action models.AdminAction) AdminActionDTO {
	dto := AdminActionDTO{
		ActionID:   action.ActionID,
		ReportID:   action.ReportID,
		ActionType: action.ActionType,
		Details:    action.Details,
		CreatedAt:  action.CreatedAt,
	}

	if action.Admin.ID != 0 {
		admin := ToUserDTO(action.Admin)
		dto.Admin = &admin
	}

	return dto
}

// ToAdminActionDTOs converts a slice of audit records
func ToAdminActionDTOs(actions []models.AdminAction) []AdminActionDTO {
	dtos := make([]AdminActionDTO, len(actions))
	for i, action := range actions {
		dtos[i] = ToAdminActionDTO(action)
	}
	return dtos
}
