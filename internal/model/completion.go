package model

import (
	"time"

	"github.com/google/uuid"
)

// Completion records the daily actuals for one task + calendar day.
// The (task_id, date) pair is unique and is the upsert key; once Locked is
// set the record may not be written again.
type Completion struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TaskID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_completions_task_date" json:"task"`
	Task        *Task     `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"taskRef,omitempty"`
	Date        time.Time `gorm:"not null;uniqueIndex:idx_completions_task_date;index" json:"date"`
	ActualHours float64   `gorm:"not null" json:"actualHours"`
	Completed   bool      `gorm:"default:false" json:"completed"`
	Locked      bool      `gorm:"not null;default:false" json:"locked"`
	UserEmail   string    `gorm:"type:varchar(255);not null;index" json:"userEmail"`
	Project     string    `gorm:"type:varchar(255);not null" json:"project"`
	TaskTitle   string    `gorm:"type:varchar(255);not null" json:"taskTitle"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
