package model

import (
	"time"

	"github.com/google/uuid"
)

// Request/Task status enum constants. Transitions are one-shot:
// Pending -> Approved or Pending -> Rejected, never back.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// Request represents a submitted, not-yet-decided work-item ask.
// Approving or rejecting it materializes a Task; the request itself is kept
// for audit with the decision recorded on it.
type Request struct {
	ID              uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestedName   string       `gorm:"type:varchar(255);not null" json:"requestedName"`
	Email           string       `gorm:"type:varchar(255);not null;index" json:"email"`
	TaskName        string       `gorm:"type:varchar(255);not null" json:"taskName"`
	Hours           float64      `gorm:"not null" json:"hours"`
	ProjectCode     string       `gorm:"type:varchar(50);default:''" json:"projectCode"`
	Project         string       `gorm:"type:varchar(255);not null;index" json:"project"`
	Requester       string       `gorm:"type:varchar(255);not null" json:"requester"`
	Department      string       `gorm:"type:varchar(50);not null" json:"department"`
	Notes           string       `gorm:"type:text;default:''" json:"notes"`
	Status          string       `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	ApprovedHours   float64      `gorm:"default:0" json:"approvedHours"`
	TimeSlot        string       `gorm:"type:varchar(100);default:''" json:"timeSlot"`
	Comment         string       `gorm:"type:text;default:''" json:"comment"`
	Date            time.Time    `json:"date"`
	IsCustomProject bool         `gorm:"default:false" json:"isCustomProject"`
	WeekHours       WeekHourList `gorm:"type:jsonb" json:"weekHours,omitempty"`
	CreatedAt       time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}
