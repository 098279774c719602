package models

import (
	"context"
	"time"

	"github.com/fairworkhq/compliance_backend/config"
	"github.com/fairworkhq/compliance_backend/utils"
	"gorm.io/gorm"
)

type Roster struct {
	ID             int            `gorm:"primary_key" json:"id"`
	OrganizationId string         `gorm:"index;not null" json:"organization_id" binding:"required"`
	Name           string         `gorm:"size:255;not null" json:"name" binding:"required"`
	WeekStart      time.Time      `gorm:"not null;type:date" json:"week_start" binding:"required"`
	WeekEnd        time.Time      `gorm:"not null;type:date" json:"week_end" binding:"required"`
	Award          Award          `gorm:"size:64;not null;default:'GeneralRetail'" json:"award"`
	Shifts         []*ShiftRecord `gorm:"foreignKey:RosterId" json:"shifts"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r Roster) GetId() int {
	return r.ID
}

// GetRosterWithShifts loads a roster and its shifts for validation.
// may return RecordNotFound error
func GetRosterWithShifts(ctx context.Context, tx *gorm.DB, organizationId string, rosterId int) (*Roster, error) {
	if tx == nil {
		tx = config.GetDB()
	}
	var roster Roster
	err := tx.WithContext(ctx).
		Preload("Shifts").
		Where("organization_id = ? AND id = ?", organizationId, rosterId).
		First(&roster).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &roster, nil
}
