package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/civicwatch/infra-report-api/internal/dto"
	apierrors "github.com/civicwatch/infra-report-api/internal/errors"
	"github.com/civicwatch/infra-report-api/internal/middleware"
	"github.com/civicwatch/infra-report-api/internal/models"
	"github.com/civicwatch/infra-report-api/internal/services"
	"github.com/civicwatch/infra-report-api/internal/utils"
)

// ReportHandler coordinates report submission and retrieval.
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// CreateReport submits a new infrastructure issue report.
func (h *ReportHandler) CreateReport(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateReportRequest struct {
		IssueType   string   `json:"issue_type" binding:"required"`
		Severity    string   `json:"severity"`
		Description string   `json:"description" binding:"required"`
		Location    string   `json:"location" binding:"required"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
	}

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	report, err := h.reportService.Submit(c.Request.Context(), services.SubmitInput{
		ReporterID:  user.ID,
		IssueType:   req.IssueType,
		Severity:    models.Severity(req.Severity),
		Description: req.Description,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToReportDTO(*report))
}

// GetReport returns one report if the caller may see it.
func (h *ReportHandler) GetReport(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	reportID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid report ID")
		return
	}

	report, err := h.reportService.Get(c.Request.Context(), reportID, user)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReportDTO(*report))
}

// ListReports returns reports visible to the caller, filtered and paginated.
// Non-admin callers only see their own submissions.
func (h *ReportHandler) ListReports(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListInput{
		Actor:            user,
		Status:           c.Query("status"),
		IssueType:        c.Query("issue_type"),
		ReporterContains: c.Query("reporter"),
		LocationContains: c.Query("location"),
		StartDate:        c.Query("start_date"),
		EndDate:          c.Query("end_date"),
		Page:             params.Page,
		PageSize:         params.Limit,
	}

	if ownerStr := c.Query("owner_id"); ownerStr != "" {
		ownerID, err := strconv.ParseUint(ownerStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid owner_id")
			return
		}
		input.OwnerID = &ownerID
	}

	reports, total, err := h.reportService.List(c.Request.Context(), input)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReportListResponse(reports, params.Page, params.Limit, total))
}

// ListIssueTypes returns the issue type reference data.
func (h *ReportHandler) ListIssueTypes(c *gin.Context) {
	types, err := h.reportService.ListIssueTypes(c.Request.Context())
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"issue_types": types})
}

func respondReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrIssueTypeRequired),
		errors.Is(err, services.ErrDescriptionRequired),
		errors.Is(err, services.ErrLocationRequired),
		errors.Is(err, services.ErrInvalidSeverity),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidDateRange):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrReportNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		apierrors.Timeout(c, "")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
