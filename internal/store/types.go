package store

import (
	"errors"

	"bedboard-backend/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Census is a complete, validated snapshot of the static hospital data.
type Census struct {
	Units             []model.Unit
	Patients          []model.Patient
	Exams             []model.Exam
	Devices           []model.Device
	IsolationProfiles []model.IsolationProfile
}
