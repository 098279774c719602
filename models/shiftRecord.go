package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShiftRecord is one rostered shift. EmployeeId is nullable: an unresolved employee
// reference is a data-quality condition the DataQuality check reports, not a reason
// to reject the row at ingestion.
type ShiftRecord struct {
	ID             int    `gorm:"primary_key" json:"id"`
	OrganizationId string `gorm:"index;not null" json:"organization_id"`
	RosterId       int    `gorm:"index;not null" json:"roster_id"`
	EmployeeId     *int   `gorm:"index" json:"employee_id"`

	ShiftDate time.Time `gorm:"not null;type:date" json:"shift_date" binding:"required"`
	// Times of day in "15:04". An end time at or before the start time denotes an
	// overnight shift finishing the next calendar day; Span resolves that once so
	// the wraparound check is not repeated across rules.
	StartTime string `gorm:"size:5;not null" json:"start_time" binding:"required"`
	EndTime   string `gorm:"size:5;not null" json:"end_time" binding:"required"`

	HasMealBreak    *bool `gorm:"not null;default:false" json:"has_meal_break"`
	BreakMinutes    int   `gorm:"default:0" json:"break_minutes"`
	IsPublicHoliday *bool `gorm:"not null;default:false" json:"is_public_holiday"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s ShiftRecord) GetId() int {
	return s.ID
}

// Span resolves the shift into concrete start/end instants, applying the overnight
// wrap. ok is false when either time of day fails to parse; callers skip the shift
// (data quality) rather than erroring out.
func (s ShiftRecord) Span() (start time.Time, end time.Time, ok bool) {
	startOfDay, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	endOfDay, err := time.Parse("15:04", s.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	date := time.Date(s.ShiftDate.Year(), s.ShiftDate.Month(), s.ShiftDate.Day(), 0, 0, 0, 0, time.UTC)
	start = date.Add(time.Duration(startOfDay.Hour())*time.Hour + time.Duration(startOfDay.Minute())*time.Minute)
	end = date.Add(time.Duration(endOfDay.Hour())*time.Hour + time.Duration(endOfDay.Minute())*time.Minute)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, true
}

// DurationMinutes is the rostered span in minutes, before breaks.
func (s ShiftRecord) DurationMinutes() (int, bool) {
	start, end, ok := s.Span()
	if !ok {
		return 0, false
	}
	return int(end.Sub(start).Minutes()), true
}

// NetHours is the worked time excluding breaks, as decimal hours.
func (s ShiftRecord) NetHours() (decimal.Decimal, bool) {
	minutes, ok := s.DurationMinutes()
	if !ok {
		return decimal.Zero, false
	}
	net := minutes - s.BreakMinutes
	if net < 0 {
		net = 0
	}
	return decimal.NewFromInt(int64(net)).Div(decimal.NewFromInt(60)), true
}
