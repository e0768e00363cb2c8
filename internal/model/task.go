package model

import (
	"time"

	"github.com/google/uuid"
)

// Task is the materialized work item created when a request is decided.
// One task per request decision — a rejected request still produces a task
// carrying the rejection comment so the decision is visible in listings.
type Task struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestedName string       `gorm:"type:varchar(255);not null" json:"requestedName"`
	Email         string       `gorm:"type:varchar(255);not null;index" json:"email"`
	TaskName      string       `gorm:"type:varchar(255);not null" json:"taskName"`
	Hours         float64      `gorm:"not null" json:"hours"`
	ProjectCode   string       `gorm:"type:varchar(50)" json:"projectCode"`
	Project       string       `gorm:"type:varchar(255);not null;index" json:"project"`
	Requester     string       `gorm:"type:varchar(255);not null" json:"requester"`
	Department    string       `gorm:"type:varchar(50);not null" json:"department"`
	Date          time.Time    `json:"date"`
	Notes         string       `gorm:"type:text" json:"notes"`
	Status        string       `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	ApprovedHours float64      `json:"approvedHours"`
	WeekHours     WeekHourList `gorm:"type:jsonb" json:"weekHours"`
	Comment       string       `gorm:"type:text" json:"comment"` // rejection comment
	CreatedAt     time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}
