package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Department enum constants
const (
	DeptLEED  = "LEED"
	DeptBIM   = "BIM"
	DeptMEP   = "MEP"
	DeptAdmin = "ADMIN"
)

// Member is a roster entry for a firm employee
type Member struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	Email        string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	JobTitle     string          `gorm:"type:varchar(255);not null" json:"jobTitle"`
	Discipline   string          `gorm:"type:varchar(255);not null" json:"discipline"`
	Department   string          `gorm:"type:varchar(20);not null" json:"department"` // LEED, BIM, MEP, ADMIN
	BillableRate decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"billableRate"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
