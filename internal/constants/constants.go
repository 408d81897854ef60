package constants

// Session and context keys
const (
	SessionCookieName = "report_session"
	ContextKeyUserID  = "user_id"
	ContextKeyUser    = "current_user"
)

// Account rules
const (
	MinPasswordLength = 8
	MaxUsernameLength = 50
)

// Pagination
const (
	MinPage         = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Statistics
const (
	DefaultStatsWindowDays = 30
)
