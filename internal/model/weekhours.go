package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// WeekHour is one scheduled day inside a task's weekly breakdown.
// ActualHours/Completed are filled in by the completion ledger.
type WeekHour struct {
	Day         string    `json:"day"`
	Date        time.Time `json:"date"`
	Hours       float64   `json:"hours"`
	ActualHours float64   `json:"actualHours"`
	Completed   bool      `json:"completed"`
}

// WeekHourList stores a weekly breakdown as a jsonb column, keeping the
// document shape the schedule is edited in.
type WeekHourList []WeekHour

// Value implements driver.Valuer for jsonb storage
func (w WeekHourList) Value() (driver.Value, error) {
	if w == nil {
		return "[]", nil
	}
	b, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for jsonb storage
func (w *WeekHourList) Scan(value interface{}) error {
	if value == nil {
		*w = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for WeekHourList: %T", value)
	}
	return json.Unmarshal(data, w)
}

// TotalHours sums the scheduled hours across all entries
func (w WeekHourList) TotalHours() float64 {
	var total float64
	for _, wh := range w {
		total += wh.Hours
	}
	return total
}
