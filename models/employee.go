package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Employee struct {
	ID             int            `gorm:"primary_key" json:"id"`
	OrganizationId string         `gorm:"index;not null;uniqueIndex:idx_org_employee_number,priority:1" json:"organization_id" binding:"required"`
	EmployeeNumber string         `gorm:"size:64;not null;uniqueIndex:idx_org_employee_number,priority:2" json:"employee_number" binding:"required"`
	FirstName      string         `gorm:"size:255" json:"first_name"`
	LastName       string         `gorm:"size:255" json:"last_name"`
	EmploymentType EmploymentType `gorm:"type:enum('FullTime','PartTime','Casual','FixedTerm');not null" json:"employment_type" binding:"required"`
	Classification string         `gorm:"size:255" json:"classification"`
	// GuaranteedWeeklyHours is the contracted weekly hours for part-time employees.
	// Nil means the organization has not configured it, which WeeklyHours checks
	// surface as a data-quality warning rather than skipping silently.
	GuaranteedWeeklyHours *decimal.Decimal `gorm:"type:decimal(6,2)" json:"guaranteed_weekly_hours"`
	IsActive              *bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt             time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e Employee) FullName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

func (e Employee) GetId() int {
	return e.ID
}

// UpsertEmployeesByNumber creates or updates employees keyed by their external
// employee number, inside the caller's transaction. Payroll files are the system of
// record for employment type and classification, so an existing row is updated
// in place.
func UpsertEmployeesByNumber(tx *gorm.DB, organizationId string, employees []*Employee) error {
	for _, emp := range employees {
		emp.OrganizationId = organizationId
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "organization_id"}, {Name: "employee_number"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"first_name", "last_name", "employment_type", "classification", "guaranteed_weekly_hours", "updated_at",
			}),
		}).Create(emp).Error; err != nil {
			return err
		}
		if emp.ID == 0 {
			// MySQL upsert does not always backfill the PK on conflict; reload it.
			var existing Employee
			if err := tx.Where("organization_id = ? AND employee_number = ?", organizationId, emp.EmployeeNumber).
				First(&existing).Error; err != nil {
				return err
			}
			emp.ID = existing.ID
		}
	}
	return nil
}

// MapEmployeesById loads the given employees into a lookup map for rule context.
func MapEmployeesById(tx *gorm.DB, organizationId string, ids []int) (map[int]*Employee, error) {
	result := make(map[int]*Employee)
	if len(ids) == 0 {
		return result, nil
	}
	var employees []*Employee
	if err := tx.Where("organization_id = ? AND id IN ?", organizationId, ids).
		Find(&employees).Error; err != nil {
		return nil, err
	}
	for _, emp := range employees {
		result[emp.ID] = emp
	}
	return result, nil
}
