package model

import (
	"time"

	"gorm.io/datatypes"
)

// AssetStatus is the lifecycle state of a physical asset.
type AssetStatus string

const (
	StatusWorking     AssetStatus = "WORKING"
	StatusUnderRepair AssetStatus = "UNDER_REPAIR"
	StatusScrapped    AssetStatus = "SCRAPPED"
	StatusLost        AssetStatus = "LOST"
)

// Valid reports whether s is one of the known statuses.
func (s AssetStatus) Valid() bool {
	switch s {
	case StatusWorking, StatusUnderRepair, StatusScrapped, StatusLost:
		return true
	}
	return false
}

// AssetModel describes the make of an asset.
type AssetModel struct {
	Name         *string `gorm:"size:256" json:"name"`
	Manufacturer *string `gorm:"size:256" json:"manufacturer"`
}

// Asset represents a single tracked piece of equipment.
type Asset struct {
	ID             int64           `gorm:"primaryKey" json:"id"`
	AssetTag       string          `gorm:"uniqueIndex;size:128;not null" json:"assetTag"`
	LabID          int64           `gorm:"index;not null" json:"labId"`
	Status         AssetStatus     `gorm:"size:32;not null;default:WORKING" json:"status"`
	Model          AssetModel      `gorm:"embedded;embeddedPrefix:model_" json:"model"`
	SerialNumber   *string         `gorm:"size:128" json:"serialNumber"`
	PurchaseDate   *datatypes.Date `json:"purchaseDate"`
	WarrantyExpiry *datatypes.Date `json:"warrantyExpiry"`
	Remarks        *string         `json:"remarks"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`

	// Associations
	Lab *Lab `gorm:"constraint:OnDelete:RESTRICT" json:"lab,omitempty"`
}
