package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/civicwatch/infra-report-api/internal/dto"
	apierrors "github.com/civicwatch/infra-report-api/internal/errors"
	"github.com/civicwatch/infra-report-api/internal/middleware"
	"github.com/civicwatch/infra-report-api/internal/models"
	"github.com/civicwatch/infra-report-api/internal/services"
)

// AdminHandler coordinates triage and account management endpoints. All
// routes using it sit behind the admin middleware.
type AdminHandler struct {
	reportService *services.ReportService
	authService   *services.AuthService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(reportService *services.ReportService, authService *services.AuthService) *AdminHandler {
	return &AdminHandler{
		reportService: reportService,
		authService:   authService,
	}
}

// UpdateReportStatus moves a report to a new status and records the change
// in the audit log.
func (h *AdminHandler) UpdateReportStatus(c *gin.Context) {
	admin, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	reportID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid report ID")
		return
	}

	type UpdateStatusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	report, err := h.reportService.UpdateStatus(c.Request.Context(), reportID, models.ReportStatus(req.Status), admin)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToReportDTO(*report))
}

// ListReportActions returns the audit trail for a report.
func (h *AdminHandler) ListReportActions(c *gin.Context) {
	reportID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid report ID")
		return
	}

	actions, err := h.reportService.ListActions(c.Request.Context(), reportID)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"actions": dto.ToAdminActionDTOs(actions)})
}

// ListUsers returns all accounts.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserDTOs(users)})
}

// CreateUser registers an account with an explicit role.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// ResetPassword overwrites the credential for the named account.
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	username := c.Param("username")

	type ResetPasswordRequest struct {
		NewPassword string `json:"new_password" binding:"required"`
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), username, req.NewPassword); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password reset successfully",
	})
}
