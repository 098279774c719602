package models

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PayRecord is one payslip row under validation. Rows are created when a batch is
// ingested for a run and are never mutated by rules afterwards.
type PayRecord struct {
	ID              int            `gorm:"primary_key" json:"id"`
	OrganizationId  string         `gorm:"index;not null" json:"organization_id"`
	ValidationRunId int            `gorm:"index;not null" json:"validation_run_id"`
	EmployeeId      int            `gorm:"index;not null" json:"employee_id"`
	PeriodStart     time.Time      `gorm:"not null;type:date" json:"period_start"`
	PeriodEnd       time.Time      `gorm:"not null;type:date" json:"period_end"`
	Classification  string         `gorm:"size:255" json:"classification"`
	EmploymentType  EmploymentType `gorm:"type:enum('FullTime','PartTime','Casual','FixedTerm');not null" json:"employment_type"`

	OrdinaryHours      decimal.Decimal `gorm:"type:decimal(8,2);default:0" json:"ordinary_hours"`
	SaturdayHours      decimal.Decimal `gorm:"type:decimal(8,2);default:0" json:"saturday_hours"`
	SundayHours        decimal.Decimal `gorm:"type:decimal(8,2);default:0" json:"sunday_hours"`
	PublicHolidayHours decimal.Decimal `gorm:"type:decimal(8,2);default:0" json:"public_holiday_hours"`

	OrdinaryPay      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"ordinary_pay"`
	SaturdayPay      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"saturday_pay"`
	SundayPay        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sunday_pay"`
	PublicHolidayPay decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"public_holiday_pay"`

	SuperannuationPaid   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"superannuation_paid"`
	GrossPay             decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"gross_pay"`
	ConfiguredHourlyRate decimal.Decimal `gorm:"type:decimal(12,4);default:0" json:"configured_hourly_rate"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r PayRecord) GetId() int {
	return r.ID
}

// ActualOrdinaryRate derives the effective hourly rate actually paid for ordinary
// hours. Zero when no ordinary hours were worked.
func (r PayRecord) ActualOrdinaryRate() decimal.Decimal {
	if !r.OrdinaryHours.IsPositive() {
		return decimal.Zero
	}
	return r.OrdinaryPay.Div(r.OrdinaryHours)
}

var classificationLevelPattern = regexp.MustCompile(`(?i)level\s*(\d+)`)

// ParseClassificationLevel extracts the numeric award level from a free-text
// classification ("Retail Employee Level 2", "Level 4", or a bare "3").
// Returns 0 when the level cannot be determined; rules treat 0 as "cannot
// evaluate, skip".
func ParseClassificationLevel(classification string) int {
	s := strings.TrimSpace(classification)
	if s == "" {
		return 0
	}
	if m := classificationLevelPattern.FindStringSubmatch(s); len(m) == 2 {
		level, err := strconv.Atoi(m[1])
		if err != nil {
			return 0
		}
		return level
	}
	if level, err := strconv.Atoi(s); err == nil && level > 0 {
		return level
	}
	return 0
}
