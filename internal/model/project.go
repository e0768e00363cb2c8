package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Project lifecycle stages, in delivery order
var ProjectStages = []string{
	"Preparation and Brief",
	"Survey",
	"Concept Design",
	"Detailed Design",
	"Final EA Report",
	"Technical Design",
	"Construction",
	"Handover and Close Out",
	"Completed",
	"Cancelled",
	"On Hold",
}

// Project is a reference entity; requests and tasks point at it by name/code
// without a foreign key, since custom (ad hoc) projects are allowed.
type Project struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code        string          `gorm:"type:varchar(50);not null;index" json:"code"` // repeats across departments
	Name        string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Department  string          `gorm:"type:varchar(20);not null" json:"department"` // LEED, BIM, MEP
	Budget      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"budget"`
	Hours       float64         `gorm:"not null" json:"hours"`
	TeamLeader  string          `gorm:"type:varchar(255);not null" json:"teamLeader"`
	Director    string          `gorm:"type:varchar(255);not null" json:"director"`
	Stage       string          `gorm:"type:varchar(50);not null" json:"stage"`
	HoursLogged float64         `gorm:"default:0" json:"hoursLogged"`
	Spent       decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"spent"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ValidStage reports whether stage is a known lifecycle phase
func ValidStage(stage string) bool {
	for _, s := range ProjectStages {
		if s == stage {
			return true
		}
	}
	return false
}

// ValidProjectDepartment reports whether dept can own projects (ADMIN cannot)
func ValidProjectDepartment(dept string) bool {
	return dept == DeptLEED || dept == DeptBIM || dept == DeptMEP
}
