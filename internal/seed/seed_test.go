package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bedboard-backend/internal/cohort"
	"bedboard-backend/internal/dates"
	"bedboard-backend/internal/model"
	"bedboard-backend/internal/occupancy"
)

func TestDefault(t *testing.T) {
	census, err := Default()
	require.NoError(t, err)

	require.Len(t, census.Units, 4)
	assert.Equal(t, "UTI Adulto", census.Units[0].Name)
	assert.Equal(t, 3, census.Units[3].Position)

	s, err := cohort.Summarize(census.Units)
	require.NoError(t, err)
	assert.Equal(t, 117, s.TotalBeds)
	assert.Equal(t, 83, s.OccupiedBeds)
	assert.Equal(t, 70.9, occupancy.Round1(s.Rate))

	require.Len(t, census.Patients, 5)
	maria := census.Patients[0]
	assert.Equal(t, model.IsolationContact, maria.Isolation)
	assert.Equal(t, 1, maria.BedNumber)
	assert.Equal(t, "A", maria.BedWing)
	require.NotNil(t, maria.EvolutionDate)
	assert.Len(t, maria.Labs.Hemogram, 5)
	assert.Len(t, maria.Scores, 4)
	assert.Equal(t, "8", maria.Scores[0].Value)
	assert.Equal(t, "1.020", maria.Labs.Urine[0].Value)
	assert.Equal(t, model.IsolationNone, census.Patients[1].Isolation)

	assert.Equal(t, cohort.IsolationCounts{None: 2, Contact: 1, Droplet: 1, Airborne: 1}, cohort.CountIsolation(census.Patients))
	assert.Equal(t, cohort.ExamCounts{Completed: 5, Processing: 1, Pending: 1, Total: 7}, cohort.CountExams(census.Exams))

	require.Len(t, census.Devices, 3)
	avp := census.Devices[0]
	assert.Equal(t, "AVP", avp.Code)
	assert.Equal(t, 7, dates.DaysBetween(avp.InstallDate, avp.ExpectedRemoval))
	assert.Equal(t, model.DeviceRemoved, census.Devices[2].Status)

	assert.Len(t, census.IsolationProfiles, 3)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "census.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
units:
  - {name: Pediatria, totalBeds: 10, occupiedBeds: 9}
patients:
  - {id: p1, unit: Pediatria, name: Lucas, bed: "1", isolation: false}
`), 0o600))

	census, err := Load(path)
	require.NoError(t, err)
	require.Len(t, census.Units, 1)
	assert.Equal(t, "Pediatria", census.Units[0].Name)
	assert.Equal(t, model.IsolationNone, census.Patients[0].Isolation)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	census, err = Load("")
	require.NoError(t, err)
	assert.Len(t, census.Units, 4)
}

func TestParse_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "unknown field",
			doc:     "units:\n  - {name: A, beds: 3}\n",
			wantErr: "field beds not found",
		},
		{
			name:    "occupied above total",
			doc:     "units:\n  - {name: A, totalBeds: 3, occupiedBeds: 4}\n",
			wantErr: `unit "A": occupiedBeds 4 outside 0..3`,
		},
		{
			name:    "duplicate unit",
			doc:     "units:\n  - {name: A, totalBeds: 3}\n  - {name: A, totalBeds: 4}\n",
			wantErr: `duplicate unit "A"`,
		},
		{
			name:    "isolation type without isolation",
			doc:     "units:\n  - {name: A, totalBeds: 3}\npatients:\n  - {id: '1', unit: A, bed: 01A, isolation: false, isolationType: contact}\n",
			wantErr: `isolationType "contact" set on a patient without isolation`,
		},
		{
			name:    "isolation without type",
			doc:     "units:\n  - {name: A, totalBeds: 3}\npatients:\n  - {id: '1', unit: A, bed: 01A, isolation: true}\n",
			wantErr: "isolation requires an isolationType",
		},
		{
			name:    "unknown isolation type",
			doc:     "units:\n  - {name: A, totalBeds: 3}\npatients:\n  - {id: '1', unit: A, bed: 01A, isolation: true, isolationType: protective}\n",
			wantErr: `unknown isolationType "protective"`,
		},
		{
			name:    "patient in unknown unit",
			doc:     "patients:\n  - {id: '1', unit: B, bed: 01A}\n",
			wantErr: `unknown unit "B"`,
		},
		{
			name:    "bad bed code",
			doc:     "units:\n  - {name: A, totalBeds: 3}\npatients:\n  - {id: '1', unit: A, bed: corredor}\n",
			wantErr: "unable to parse bed code",
		},
		{
			name:    "pdf on pending exam",
			doc:     "units:\n  - {name: A, totalBeds: 3}\npatients:\n  - {id: '1', unit: A, bed: 01A}\nexams:\n  - {patient: '1', id: '7', date: '2024-08-20', status: pending, pdfUrl: /x.pdf}\n",
			wantErr: "pdfUrl is only allowed on completed exams",
		},
		{
			name:    "unknown exam status",
			doc:     "units:\n  - {name: A, totalBeds: 3}\npatients:\n  - {id: '1', unit: A, bed: 01A}\nexams:\n  - {patient: '1', id: '7', date: '2024-08-20', status: cancelled}\n",
			wantErr: `unknown status "cancelled"`,
		},
		{
			name:    "bad device date",
			doc:     "units:\n  - {name: A, totalBeds: 3}\npatients:\n  - {id: '1', unit: A, bed: 01A}\ndevices:\n  - {patient: '1', code: AVP, installDate: 15/01/2024, expectedRemoval: '2024-01-22', status: active}\n",
			wantErr: "installDate",
		},
		{
			name:    "device for unknown patient",
			doc:     "devices:\n  - {patient: '9', code: AVP, installDate: '2024-01-15', expectedRemoval: '2024-01-22', status: active}\n",
			wantErr: `unknown patient "9"`,
		},
		{
			name:    "profile for none",
			doc:     "isolationProfiles:\n  - {type: none, title: Nada}\n",
			wantErr: `unknown isolation type "none"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestParse_ReportsEveryViolation(t *testing.T) {
	_, err := Parse([]byte(`
units:
  - {name: A, totalBeds: 3, occupiedBeds: 5}
patients:
  - {id: '1', unit: Z, bed: 01A}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unit "A"`)
	assert.Contains(t, err.Error(), `unknown unit "Z"`)
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(nil)
	assert.Error(t, err)
}
