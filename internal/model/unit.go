package model

import "time"

// Unit represents a hospital bed unit (ICU, ward, ...).
type Unit struct {
	ID           int64     `gorm:"primaryKey"`
	Name         string    `gorm:"uniqueIndex;size:128;not null"`
	Icon         string    `gorm:"size:32"`
	Position     int       `gorm:"not null"`
	TotalBeds    int       `gorm:"not null"`
	OccupiedBeds int       `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

// AvailableBeds is the number of free beds in the unit.
func (u Unit) AvailableBeds() int {
	return u.TotalBeds - u.OccupiedBeds
}
