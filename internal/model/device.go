package model

import "time"

// DeviceStatus tells whether an invasive device is still in place.
type DeviceStatus string

const (
	DeviceActive  DeviceStatus = "active"
	DeviceRemoved DeviceStatus = "removed"
)

func (s DeviceStatus) Valid() bool {
	return s == DeviceActive || s == DeviceRemoved
}

// Label returns the Portuguese badge text.
func (s DeviceStatus) Label() string {
	if s == DeviceActive {
		return "Ativo"
	}
	return "Retirado"
}

// Device represents an invasive device (catheter, probe, ...) installed on a patient.
type Device struct {
	PatientID       string       `gorm:"primaryKey;size:64"`
	Code            string       `gorm:"primaryKey;size:32"` // Short code, e.g. "PICC"
	Position        int          `gorm:"not null"`
	Name            string       `gorm:"size:256;not null"`
	Location        string       `gorm:"size:256"`
	InstallDate     time.Time    `gorm:"not null"`
	ExpectedRemoval time.Time    `gorm:"not null"`
	Status          DeviceStatus `gorm:"size:16;not null"`
	Justification   string
	Observation     string
}
