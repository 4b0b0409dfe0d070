package model

import "time"

// Lab represents a laboratory or department facility that owns assets.
type Lab struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Code       string    `gorm:"uniqueIndex;size:128;not null" json:"code" binding:"required"`
	Name       string    `gorm:"size:256;not null" json:"name" binding:"required"`
	Department string    `gorm:"size:128;not null" json:"department" binding:"required"`
	Location   *string   `gorm:"size:256" json:"location"`
	Remarks    *string   `json:"remarks"`
	CreatedAt  time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	Assets []Asset `gorm:"foreignKey:LabID" json:"-"`
}
