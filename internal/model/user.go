package model

import "time"

// User is an operator allowed to mutate inventory.
type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:256;not null" json:"email"`
	Name         string    `gorm:"size:256;not null" json:"name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"size:64;not null;default:staff" json:"role"`
	Department   string    `gorm:"size:128" json:"department"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
}
