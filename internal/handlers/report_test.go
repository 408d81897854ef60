package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/civicwatch/infra-report-api/internal/constants"
	"github.com/civicwatch/infra-report-api/internal/database"
	"github.com/civicwatch/infra-report-api/internal/models"
	"github.com/civicwatch/infra-report-api/internal/repository"
	"github.com/civicwatch/infra-report-api/internal/services"
)

// ReportHandlerTestSuite defines the test suite for ReportHandler
type ReportHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *ReportHandler
}

// SetupTest runs before each test
func (suite *ReportHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Migrate also seeds the issue type reference data
	err = database.Migrate(suite.db, zap.NewNop())
	suite.Require().NoError(err)

	reportService := services.NewReportService(
		repository.NewReportRepository(suite.db),
		repository.NewAdminActionRepository(suite.db),
		repository.NewIssueTypeRepository(suite.db),
		zap.NewNop(),
		5*time.Second,
	)
	suite.handler = NewReportHandler(reportService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *ReportHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *ReportHandlerTestSuite) createTestUser(username string, role models.Role) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	suite.db.Create(user)
	return user
}

func (suite *ReportHandlerTestSuite) createTestReport(userID uint64, status models.ReportStatus) *models.Report {
	report := &models.Report{
		UserID:      userID,
		IssueType:   "Road Damage",
		Severity:    models.SeverityMedium,
		Description: "Large pothole",
		Location:    "5th Avenue",
		Status:      status,
	}
	suite.db.Create(report)
	return report
}

// Helper function to create an authenticated context
func (suite *ReportHandlerTestSuite) createAuthContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if user != nil {
		c.Set(constants.ContextKeyUser, user)
	}

	return c, w
}

// TestCreateReport_Success tests successful report submission
func (suite *ReportHandlerTestSuite) TestCreateReport_Success() {
	user := suite.createTestUser("alice", models.RoleUser)

	requestBody := map[string]interface{}{
		"issue_type":  "Water Issue",
		"description": "Burst pipe on the corner",
		"location":    "Oak Street",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/reports", body, user)

	suite.handler.CreateReport(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Water Issue", response["issue_type"])
	assert.Equal(suite.T(), "Pending", response["status"])
	assert.Equal(suite.T(), "Medium", response["severity"])

	reporter := response["reporter"].(map[string]interface{})
	assert.Equal(suite.T(), "alice", reporter["username"])
}

// TestCreateReport_WithCoordinates tests submission with optional coordinates
func (suite *ReportHandlerTestSuite) TestCreateReport_WithCoordinates() {
	user := suite.createTestUser("alice", models.RoleUser)

	requestBody := map[string]interface{}{
		"issue_type":  "Traffic Signal Problem",
		"severity":    "High",
		"description": "Signal stuck on red",
		"location":    "Main & 3rd",
		"latitude":    40.7128,
		"longitude":   -74.0060,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/reports", body, user)

	suite.handler.CreateReport(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "High", response["severity"])
	assert.InDelta(suite.T(), 40.7128, response["latitude"].(float64), 0.0001)
}

// TestCreateReport_MissingFields tests submission with a missing required field
func (suite *ReportHandlerTestSuite) TestCreateReport_MissingFields() {
	user := suite.createTestUser("alice", models.RoleUser)

	requestBody := map[string]interface{}{
		"issue_type": "Water Issue",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/reports", body, user)

	suite.handler.CreateReport(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateReport_InvalidSeverity tests submission with an unknown severity
func (suite *ReportHandlerTestSuite) TestCreateReport_InvalidSeverity() {
	user := suite.createTestUser("alice", models.RoleUser)

	requestBody := map[string]interface{}{
		"issue_type":  "Water Issue",
		"severity":    "Catastrophic",
		"description": "desc",
		"location":    "loc",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/reports", body, user)

	suite.handler.CreateReport(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateReport_Unauthorized tests submission without authentication
func (suite *ReportHandlerTestSuite) TestCreateReport_Unauthorized() {
	requestBody := map[string]interface{}{
		"issue_type":  "Water Issue",
		"description": "desc",
		"location":    "loc",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/reports", body, nil)

	suite.handler.CreateReport(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestGetReport_Success tests retrieval by the owner
func (suite *ReportHandlerTestSuite) TestGetReport_Success() {
	user := suite.createTestUser("alice", models.RoleUser)
	report := suite.createTestReport(user.ID, models.StatusPending)

	c, w := suite.createAuthContext("GET", "/api/reports/1", nil, user)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.GetReport(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.EqualValues(suite.T(), report.ID, response["id"])
}

// TestGetReport_OtherUsersReport tests that foreign reports read as missing
func (suite *ReportHandlerTestSuite) TestGetReport_OtherUsersReport() {
	owner := suite.createTestUser("alice", models.RoleUser)
	other := suite.createTestUser("bob", models.RoleUser)
	suite.createTestReport(owner.ID, models.StatusPending)

	c, w := suite.createAuthContext("GET", "/api/reports/1", nil, other)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.GetReport(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestGetReport_AdminSeesAll tests admin visibility
func (suite *ReportHandlerTestSuite) TestGetReport_AdminSeesAll() {
	owner := suite.createTestUser("alice", models.RoleUser)
	admin := suite.createTestUser("boss", models.RoleAdmin)
	suite.createTestReport(owner.ID, models.StatusPending)

	c, w := suite.createAuthContext("GET", "/api/reports/1", nil, admin)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.GetReport(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// TestGetReport_InvalidID tests retrieval with a malformed id
func (suite *ReportHandlerTestSuite) TestGetReport_InvalidID() {
	user := suite.createTestUser("alice", models.RoleUser)

	c, w := suite.createAuthContext("GET", "/api/reports/abc", nil, user)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	suite.handler.GetReport(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestListReports_OwnerScoped tests that regular users only see their own
func (suite *ReportHandlerTestSuite) TestListReports_OwnerScoped() {
	alice := suite.createTestUser("alice", models.RoleUser)
	bob := suite.createTestUser("bob", models.RoleUser)
	suite.createTestReport(alice.ID, models.StatusPending)
	suite.createTestReport(alice.ID, models.StatusResolved)
	suite.createTestReport(bob.ID, models.StatusPending)

	c, w := suite.createAuthContext("GET", "/api/reports", nil, alice)

	suite.handler.ListReports(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	reports := response["reports"].([]interface{})
	assert.Len(suite.T(), reports, 2)

	pagination := response["pagination"].(map[string]interface{})
	assert.EqualValues(suite.T(), 2, pagination["total"])
}

// TestListReports_StatusFilter tests filtering by status
func (suite *ReportHandlerTestSuite) TestListReports_StatusFilter() {
	alice := suite.createTestUser("alice", models.RoleUser)
	suite.createTestReport(alice.ID, models.StatusPending)
	suite.createTestReport(alice.ID, models.StatusResolved)

	c, w := suite.createAuthContext("GET", "/api/reports", nil, alice)
	c.Request.URL.RawQuery = "status=Resolved"

	suite.handler.ListReports(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	reports := response["reports"].([]interface{})
	assert.Len(suite.T(), reports, 1)
}

// TestListReports_InvalidStatus tests filtering by an unknown status
func (suite *ReportHandlerTestSuite) TestListReports_InvalidStatus() {
	alice := suite.createTestUser("alice", models.RoleUser)

	c, w := suite.createAuthContext("GET", "/api/reports", nil, alice)
	c.Request.URL.RawQuery = "status=Closed"

	suite.handler.ListReports(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestListReports_InvalidDateRange tests a one-sided date range
func (suite *ReportHandlerTestSuite) TestListReports_InvalidDateRange() {
	alice := suite.createTestUser("alice", models.RoleUser)

	c, w := suite.createAuthContext("GET", "/api/reports", nil, alice)
	c.Request.URL.RawQuery = "start_date=2024-01-01"

	suite.handler.ListReports(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestListIssueTypes tests the seeded reference data endpoint
func (suite *ReportHandlerTestSuite) TestListIssueTypes() {
	user := suite.createTestUser("alice", models.RoleUser)

	c, w := suite.createAuthContext("GET", "/api/issue-types", nil, user)

	suite.handler.ListIssueTypes(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	types := response["issue_types"].([]interface{})
	assert.Len(suite.T(), types, 6)
}

// TestSuite runs the test suite
func TestReportHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ReportHandlerTestSuite))
}
