package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"bedboard-backend/internal/model"
)

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// newSQLiteDB opens a private in-memory database with all tables migrated.
func newSQLiteDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.Unit{}, &model.Patient{}, &model.Exam{}, &model.Device{}, &model.IsolationProfile{},
	))
	return db
}

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func testCensus() *Census {
	return &Census{
		Units: []model.Unit{
			{Name: "UTI Adulto", Position: 0, TotalBeds: 24, OccupiedBeds: 22},
			{Name: "UTI NEO", Position: 1, TotalBeds: 16, OccupiedBeds: 12},
		},
		Patients: []model.Patient{
			{ID: "2", UnitName: "UTI Adulto", Name: "João Carlos Oliveira", Bed: "02B", BedNumber: 2, BedWing: "B", Isolation: model.IsolationNone},
			{
				ID: "1", UnitName: "UTI Adulto", Name: "Maria Silva Santos", Bed: "01A", BedNumber: 1, BedWing: "A",
				Isolation:   model.IsolationContact,
				RiskFactors: []string{"Diabetes", "Hipertensão"},
				Fever:       model.Fever{Present: true, Value: 38.5},
				Scores:      []model.RiskScore{{Name: "SOFA", Value: "8", Interpretation: "Disfunção orgânica moderada"}},
			},
			{ID: "9", UnitName: "UTI NEO", Name: "Bebê de Ana", Bed: "01", BedNumber: 1, Isolation: model.IsolationNone},
		},
		Exams: []model.Exam{
			{PatientID: "1", ID: "1", Position: 0, Type: "Hemograma Completo", Date: date("2024-08-20"), Time: "08:30", Status: model.ExamCompleted, PDFURL: "/exams/hemograma.pdf"},
			{PatientID: "1", ID: "2", Position: 1, Type: "Procalcitonina", Date: date("2024-08-20"), Time: "14:30", Status: model.ExamPending},
		},
		Devices: []model.Device{
			{PatientID: "1", Code: "AVP", Position: 0, Name: "Acesso Venoso Periférico", InstallDate: date("2024-01-15"), ExpectedRemoval: date("2024-01-22"), Status: model.DeviceActive},
		},
		IsolationProfiles: []model.IsolationProfile{
			{Type: model.IsolationContact, Title: "Isolamento de Contato", Description: "Contato", Organisms: []string{"MRSA"}, Severity: "warning"},
		},
	}
}

func TestGormStore_ReplaceCensusAndQueries(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(newSQLiteDB(t))

	require.NoError(t, s.ReplaceCensus(ctx, testCensus()))

	units, err := s.ListUnits(ctx)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "UTI Adulto", units[0].Name)
	assert.Equal(t, "UTI NEO", units[1].Name)

	unit, err := s.GetUnit(ctx, "UTI NEO")
	require.NoError(t, err)
	assert.Equal(t, 16, unit.TotalBeds)

	patients, err := s.ListPatients(ctx, "UTI Adulto")
	require.NoError(t, err)
	require.Len(t, patients, 2)
	assert.Equal(t, "1", patients[0].ID, "patients are ordered by bed")
	assert.Equal(t, "2", patients[1].ID)

	patient, err := s.GetPatient(ctx, "UTI Adulto", "1")
	require.NoError(t, err)
	assert.Equal(t, model.IsolationContact, patient.Isolation)
	assert.Equal(t, []string{"Diabetes", "Hipertensão"}, patient.RiskFactors)
	assert.Equal(t, 38.5, patient.Fever.Value)
	require.Len(t, patient.Scores, 1)
	assert.Equal(t, "SOFA", patient.Scores[0].Name)

	exams, err := s.ListExams(ctx, "1")
	require.NoError(t, err)
	require.Len(t, exams, 2)
	assert.Equal(t, "/exams/hemograma.pdf", exams[0].PDFURL)
	assert.Equal(t, model.ExamPending, exams[1].Status)

	devices, err := s.ListDevices(ctx, "1")
	require.NoError(t, err)
	require.Len(t, devices, 1)

	device, err := s.GetDevice(ctx, "1", "AVP")
	require.NoError(t, err)
	assert.True(t, device.ExpectedRemoval.Equal(date("2024-01-22")))

	profile, err := s.GetIsolationProfile(ctx, model.IsolationContact)
	require.NoError(t, err)
	assert.Equal(t, []string{"MRSA"}, profile.Organisms)

	profiles, err := s.ListIsolationProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestGormStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(newSQLiteDB(t))
	require.NoError(t, s.ReplaceCensus(ctx, testCensus()))

	_, err := s.GetUnit(ctx, "Pediatria")
	assert.ErrorIs(t, err, ErrNotFound)

	// Patient 9 exists, but not in this unit.
	_, err = s.GetPatient(ctx, "UTI Adulto", "9")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetDevice(ctx, "1", "PICC")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetIsolationProfile(ctx, model.IsolationAirborne)
	assert.ErrorIs(t, err, ErrNotFound)

	patients, err := s.ListPatients(ctx, "Pediatria")
	require.NoError(t, err)
	assert.Empty(t, patients)
}

func TestGormStore_ReplaceCensusDropsOldSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(newSQLiteDB(t))
	require.NoError(t, s.ReplaceCensus(ctx, testCensus()))

	next := &Census{
		Units: []model.Unit{{Name: "Enfermaria", TotalBeds: 32, OccupiedBeds: 18}},
	}
	require.NoError(t, s.ReplaceCensus(ctx, next))

	units, err := s.ListUnits(ctx)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "Enfermaria", units[0].Name)

	exams, err := s.ListExams(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, exams)

	_, err = s.GetPatient(ctx, "UTI Adulto", "1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_ListUnits_Postgres(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "units" ORDER BY position`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "position", "total_beds", "occupied_beds"}).
			AddRow(1, "UTI Adulto", 0, 24, 22).
			AddRow(2, "UTI NEO", 1, 16, 12))

	units, err := s.ListUnits(context.Background())
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "UTI NEO", units[1].Name)
	assert.Equal(t, 12, units[1].OccupiedBeds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_DatabaseErrors(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)
	dbErr := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "units"`)).WillReturnError(dbErr)
	_, err := s.ListUnits(context.Background())
	assert.ErrorIs(t, err, dbErr)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "units" WHERE name = $1`)).
		WithArgs("UTI Adulto", Any{}).
		WillReturnError(dbErr)
	_, err = s.GetUnit(context.Background(), "UTI Adulto")
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrNotFound)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "units" WHERE name = $1`)).
		WithArgs("Pediatria", Any{}).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	_, err = s.GetUnit(context.Background(), "Pediatria")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}
