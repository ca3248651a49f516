package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"bedboard-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	ReplaceCensus(ctx context.Context, census *Census) error
	ListUnits(ctx context.Context) ([]model.Unit, error)
	GetUnit(ctx context.Context, name string) (*model.Unit, error)
	ListPatients(ctx context.Context, unitName string) ([]model.Patient, error)
	GetPatient(ctx context.Context, unitName, patientID string) (*model.Patient, error)
	ListExams(ctx context.Context, patientID string) ([]model.Exam, error)
	ListDevices(ctx context.Context, patientID string) ([]model.Device, error)
	GetDevice(ctx context.Context, patientID, code string) (*model.Device, error)
	ListIsolationProfiles(ctx context.Context) ([]model.IsolationProfile, error)
	GetIsolationProfile(ctx context.Context, t model.IsolationType) (*model.IsolationProfile, error)
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// ReplaceCensus swaps the stored snapshot for census in one transaction.
func (s *gormStore) ReplaceCensus(ctx context.Context, census *Census) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Children first.
		for _, m := range []any{&model.Device{}, &model.Exam{}, &model.Patient{}, &model.Unit{}, &model.IsolationProfile{}} {
			if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
				return fmt.Errorf("failed to clear %T: %w", m, err)
			}
		}

		if len(census.IsolationProfiles) > 0 {
			if err := tx.Create(&census.IsolationProfiles).Error; err != nil {
				return fmt.Errorf("failed to insert isolation profiles: %w", err)
			}
		}
		if len(census.Units) > 0 {
			if err := tx.Create(&census.Units).Error; err != nil {
				return fmt.Errorf("failed to insert units: %w", err)
			}
		}
		if len(census.Patients) > 0 {
			if err := tx.Create(&census.Patients).Error; err != nil {
				return fmt.Errorf("failed to insert patients: %w", err)
			}
		}
		if len(census.Exams) > 0 {
			if err := tx.Create(&census.Exams).Error; err != nil {
				return fmt.Errorf("failed to insert exams: %w", err)
			}
		}
		if len(census.Devices) > 0 {
			if err := tx.Create(&census.Devices).Error; err != nil {
				return fmt.Errorf("failed to insert devices: %w", err)
			}
		}
		return nil
	})
}

func (s *gormStore) ListUnits(ctx context.Context) ([]model.Unit, error) {
	var units []model.Unit
	if err := s.db.WithContext(ctx).Order("position").Find(&units).Error; err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	return units, nil
}

func (s *gormStore) GetUnit(ctx context.Context, name string) (*model.Unit, error) {
	var unit model.Unit
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&unit).Error; err != nil {
		return nil, notFound(err, "unit %q", name)
	}
	return &unit, nil
}

// ListPatients returns the patients of a unit ordered by bed.
func (s *gormStore) ListPatients(ctx context.Context, unitName string) ([]model.Patient, error) {
	var patients []model.Patient
	if err := s.db.WithContext(ctx).
		Where("unit_name = ?", unitName).
		Order("bed_number").Order("bed_wing").
		Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("failed to list patients of unit %q: %w", unitName, err)
	}
	return patients, nil
}

// GetPatient returns a patient only if it belongs to the given unit.
func (s *gormStore) GetPatient(ctx context.Context, unitName, patientID string) (*model.Patient, error) {
	var patient model.Patient
	if err := s.db.WithContext(ctx).
		Where("id = ? AND unit_name = ?", patientID, unitName).
		First(&patient).Error; err != nil {
		return nil, notFound(err, "patient %q in unit %q", patientID, unitName)
	}
	return &patient, nil
}

func (s *gormStore) ListExams(ctx context.Context, patientID string) ([]model.Exam, error) {
	var exams []model.Exam
	if err := s.db.WithContext(ctx).Where("patient_id = ?", patientID).Order("position").Find(&exams).Error; err != nil {
		return nil, fmt.Errorf("failed to list exams of patient %q: %w", patientID, err)
	}
	return exams, nil
}

func (s *gormStore) ListDevices(ctx context.Context, patientID string) ([]model.Device, error) {
	var devices []model.Device
	if err := s.db.WithContext(ctx).Where("patient_id = ?", patientID).Order("position").Find(&devices).Error; err != nil {
		return nil, fmt.Errorf("failed to list devices of patient %q: %w", patientID, err)
	}
	return devices, nil
}

func (s *gormStore) GetDevice(ctx context.Context, patientID, code string) (*model.Device, error) {
	var device model.Device
	if err := s.db.WithContext(ctx).
		Where("patient_id = ? AND code = ?", patientID, code).
		First(&device).Error; err != nil {
		return nil, notFound(err, "device %q of patient %q", code, patientID)
	}
	return &device, nil
}

func (s *gormStore) ListIsolationProfiles(ctx context.Context) ([]model.IsolationProfile, error) {
	var profiles []model.IsolationProfile
	if err := s.db.WithContext(ctx).Order("type").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list isolation profiles: %w", err)
	}
	return profiles, nil
}

func (s *gormStore) GetIsolationProfile(ctx context.Context, t model.IsolationType) (*model.IsolationProfile, error) {
	var profile model.IsolationProfile
	if err := s.db.WithContext(ctx).Where("type = ?", t).First(&profile).Error; err != nil {
		return nil, notFound(err, "isolation profile %q", t)
	}
	return &profile, nil
}

// notFound maps gorm's missing-row error to ErrNotFound and wraps everything else.
func notFound(err error, format string, args ...any) error {
	what := fmt.Sprintf(format, args...)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to fetch %s: %w", what, err)
}
