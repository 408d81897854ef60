package models

import (
	"time"
)

type ReportStatus string

const (
	StatusPending    ReportStatus = "Pending"
	StatusInProgress ReportStatus = "In Progress"
	StatusResolved   ReportStatus = "Resolved"
	StatusRejected   ReportStatus = "Rejected"
)

// Valid reports whether s is a known report status. Transitions between
// valid statuses are deliberately unrestricted; membership is the only check.
func (s ReportStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Valid reports whether s is a known severity level.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

type Report struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	UserID      uint64       `gorm:"not null;index" json:"user_id"`
	IssueType   string       `gorm:"type:varchar(100);not null;index" json:"issue_type"`
	Severity    Severity     `gorm:"type:varchar(10);not null;default:'Medium';index" json:"severity"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Location    string       `gorm:"type:varchar(255);not null" json:"location"`
	Latitude    *float64     `json:"latitude,omitempty"`
	Longitude   *float64     `json:"longitude,omitempty"`
	Status      ReportStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	CreatedAt   time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	Reporter User `gorm:"foreignKey:UserID" json:"reporter,omitempty"`
}
