package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateRequest    = "CREATE_REQUEST"
	ActionApproveRequest   = "APPROVE_REQUEST"
	ActionRejectRequest    = "REJECT_REQUEST"
	ActionDeleteRequest    = "DELETE_REQUEST"
	ActionRecordCompletion = "RECORD_COMPLETION"
	ActionDeleteTask       = "DELETE_TASK"
	ActionDeleteTaskDate   = "DELETE_TASK_DATE"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nil when the caller is unauthenticated
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"` // serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
