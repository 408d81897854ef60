package models

import (
	"time"
)

type ActionType string

const (
	ActionStatusChange   ActionType = "Status Change"
	ActionPriorityUpdate ActionType = "Priority Update"
	ActionComment        ActionType = "Comment"
)

// AdminAction is an append-only audit record of an administrative
// mutation against a report. Rows are never updated or deleted.
type AdminAction struct {
	ActionID   uint64     `gorm:"column:action_id;primarykey" json:"action_id"`
	AdminID    uint64     `gorm:"not null;index" json:"admin_id"`
	ReportID   uint64     `gorm:"not null;index" json:"report_id"`
	ActionType ActionType `gorm:"type:varchar(20);not null" json:"action_type"`
	Details    string     `gorm:"type:text" json:"details"`
	CreatedAt  time.Time  `json:"created_at"`

	// Relations
	Admin User `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
}
