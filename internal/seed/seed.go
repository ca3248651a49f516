package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"bedboard-backend/internal/dates"
	"bedboard-backend/internal/model"
	"bedboard-backend/internal/parse"
	"bedboard-backend/internal/store"
)

//go:embed census.yaml
var defaultCensus []byte

// Fixture mirrors the census file: one list per record kind.
type Fixture struct {
	Units             []UnitRecord             `yaml:"units"`
	Patients          []PatientRecord          `yaml:"patients"`
	Exams             []ExamRecord             `yaml:"exams"`
	Devices           []DeviceRecord           `yaml:"devices"`
	IsolationProfiles []IsolationProfileRecord `yaml:"isolationProfiles"`
}

type UnitRecord struct {
	Name         string `yaml:"name"`
	Icon         string `yaml:"icon"`
	TotalBeds    int    `yaml:"totalBeds"`
	OccupiedBeds int    `yaml:"occupiedBeds"`
}

// PatientRecord keeps the isolation flag and the optional type separate, as
// upstream systems send them; Census folds them into model.IsolationType.
type PatientRecord struct {
	ID                string            `yaml:"id"`
	Unit              string            `yaml:"unit"`
	Name              string            `yaml:"name"`
	Record            string            `yaml:"record"`
	Attendance        string            `yaml:"attendance"`
	Age               int               `yaml:"age"`
	Bed               string            `yaml:"bed"`
	Isolation         bool              `yaml:"isolation"`
	IsolationType     string            `yaml:"isolationType"`
	EvolutionDate     string            `yaml:"evolutionDate"`
	RiskFactors       []string          `yaml:"riskFactors"`
	Fever             model.Fever       `yaml:"fever"`
	Devices           []string          `yaml:"devices"`
	Antibiotics       []string          `yaml:"antibiotics"`
	Surgery           model.Surgery     `yaml:"surgery"`
	Secretion         model.Secretion   `yaml:"secretion"`
	EvolutionSummary  string            `yaml:"evolutionSummary"`
	AnnotationSummary string            `yaml:"annotationSummary"`
	Labs              model.LabResults  `yaml:"labs"`
	Scores            []model.RiskScore `yaml:"scores"`
}

type ExamRecord struct {
	Patient     string `yaml:"patient"`
	ID          string `yaml:"id"`
	Type        string `yaml:"type"`
	Date        string `yaml:"date"`
	Time        string `yaml:"time"`
	Status      string `yaml:"status"`
	PDFURL      string `yaml:"pdfUrl"`
	Description string `yaml:"description"`
}

type DeviceRecord struct {
	Patient         string `yaml:"patient"`
	Code            string `yaml:"code"`
	Name            string `yaml:"name"`
	Location        string `yaml:"location"`
	InstallDate     string `yaml:"installDate"`
	ExpectedRemoval string `yaml:"expectedRemoval"`
	Status          string `yaml:"status"`
	Justification   string `yaml:"justification"`
	Observation     string `yaml:"observation"`
}

type IsolationProfileRecord struct {
	Type        string   `yaml:"type"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Severity    string   `yaml:"severity"`
	Organisms   []string `yaml:"organisms"`
	Precautions []string `yaml:"precautions"`
}

// Default returns the built-in census.
func Default() (*store.Census, error) {
	return Parse(defaultCensus)
}

// Load reads a census file. An empty path selects the built-in census.
func Load(path string) (*store.Census, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read census file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a census document.
func Parse(data []byte) (*store.Census, error) {
	var f Fixture
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode census: %w", err)
	}
	return f.Census()
}

// Census validates the fixture and converts it into model values. Every
// violation found is reported in the returned error.
func (f *Fixture) Census() (*store.Census, error) {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	census := &store.Census{}

	units := make(map[string]bool, len(f.Units))
	for i, u := range f.Units {
		switch {
		case u.Name == "":
			fail("units[%d]: name is required", i)
			continue
		case units[u.Name]:
			fail("units[%d]: duplicate unit %q", i, u.Name)
			continue
		case u.TotalBeds < 0:
			fail("unit %q: totalBeds must not be negative", u.Name)
		case u.OccupiedBeds < 0 || u.OccupiedBeds > u.TotalBeds:
			fail("unit %q: occupiedBeds %d outside 0..%d", u.Name, u.OccupiedBeds, u.TotalBeds)
		}
		units[u.Name] = true
		census.Units = append(census.Units, model.Unit{
			Name:         u.Name,
			Icon:         u.Icon,
			Position:     i,
			TotalBeds:    u.TotalBeds,
			OccupiedBeds: u.OccupiedBeds,
		})
	}

	patients := make(map[string]bool, len(f.Patients))
	for i, p := range f.Patients {
		if p.ID == "" {
			fail("patients[%d]: id is required", i)
			continue
		}
		if patients[p.ID] {
			fail("patients[%d]: duplicate patient id %q", i, p.ID)
			continue
		}
		patients[p.ID] = true

		if !units[p.Unit] {
			fail("patient %q: unknown unit %q", p.ID, p.Unit)
		}
		if p.Age < 0 {
			fail("patient %q: age must not be negative", p.ID)
		}
		isolation, err := isolationOf(p.Isolation, p.IsolationType)
		if err != nil {
			fail("patient %q: %w", p.ID, err)
		}
		bed, err := parse.ParseBed(p.Bed)
		if err != nil {
			fail("patient %q: %w", p.ID, err)
		}

		patient := model.Patient{
			ID:                p.ID,
			UnitName:          p.Unit,
			Name:              p.Name,
			Record:            p.Record,
			Attendance:        p.Attendance,
			Age:               p.Age,
			Bed:               p.Bed,
			BedNumber:         bed.Number,
			BedWing:           bed.Wing,
			Isolation:         isolation,
			RiskFactors:       p.RiskFactors,
			Fever:             p.Fever,
			Devices:           p.Devices,
			Antibiotics:       p.Antibiotics,
			Surgery:           p.Surgery,
			Secretion:         p.Secretion,
			EvolutionSummary:  p.EvolutionSummary,
			AnnotationSummary: p.AnnotationSummary,
			Labs:              p.Labs,
			Scores:            p.Scores,
		}
		if p.EvolutionDate != "" {
			d, err := dates.ParseDate(p.EvolutionDate)
			if err != nil {
				fail("patient %q: evolutionDate: %w", p.ID, err)
			} else {
				patient.EvolutionDate = &d
			}
		}
		census.Patients = append(census.Patients, patient)
	}

	type childKey struct{ patient, id string }

	exams := make(map[childKey]bool, len(f.Exams))
	for i, e := range f.Exams {
		key := childKey{e.Patient, e.ID}
		switch {
		case e.ID == "":
			fail("exams[%d]: id is required", i)
			continue
		case !patients[e.Patient]:
			fail("exam %q: unknown patient %q", e.ID, e.Patient)
			continue
		case exams[key]:
			fail("exam %q: duplicate for patient %q", e.ID, e.Patient)
			continue
		}
		exams[key] = true

		status := model.ExamStatus(e.Status)
		if !status.Valid() {
			fail("exam %q of patient %q: unknown status %q", e.ID, e.Patient, e.Status)
		}
		if e.PDFURL != "" && status != model.ExamCompleted {
			fail("exam %q of patient %q: pdfUrl is only allowed on completed exams", e.ID, e.Patient)
		}
		d, err := dates.ParseDate(e.Date)
		if err != nil {
			fail("exam %q of patient %q: %w", e.ID, e.Patient, err)
		}
		census.Exams = append(census.Exams, model.Exam{
			PatientID:   e.Patient,
			ID:          e.ID,
			Position:    i,
			Type:        e.Type,
			Date:        d,
			Time:        e.Time,
			Status:      status,
			PDFURL:      e.PDFURL,
			Description: e.Description,
		})
	}

	devices := make(map[childKey]bool, len(f.Devices))
	for i, d := range f.Devices {
		key := childKey{d.Patient, d.Code}
		switch {
		case d.Code == "":
			fail("devices[%d]: code is required", i)
			continue
		case !patients[d.Patient]:
			fail("device %q: unknown patient %q", d.Code, d.Patient)
			continue
		case devices[key]:
			fail("device %q: duplicate for patient %q", d.Code, d.Patient)
			continue
		}
		devices[key] = true

		status := model.DeviceStatus(d.Status)
		if !status.Valid() {
			fail("device %q of patient %q: unknown status %q", d.Code, d.Patient, d.Status)
		}
		installed, err := dates.ParseDate(d.InstallDate)
		if err != nil {
			fail("device %q of patient %q: installDate: %w", d.Code, d.Patient, err)
		}
		removal, err := dates.ParseDate(d.ExpectedRemoval)
		if err != nil {
			fail("device %q of patient %q: expectedRemoval: %w", d.Code, d.Patient, err)
		}
		census.Devices = append(census.Devices, model.Device{
			PatientID:       d.Patient,
			Code:            d.Code,
			Position:        i,
			Name:            d.Name,
			Location:        d.Location,
			InstallDate:     installed,
			ExpectedRemoval: removal,
			Status:          status,
			Justification:   d.Justification,
			Observation:     d.Observation,
		})
	}

	profiles := make(map[model.IsolationType]bool, len(f.IsolationProfiles))
	for i, p := range f.IsolationProfiles {
		t := model.IsolationType(p.Type)
		if !slices.Contains(model.PrecautionTypes, t) {
			fail("isolationProfiles[%d]: unknown isolation type %q", i, p.Type)
			continue
		}
		if profiles[t] {
			fail("isolationProfiles[%d]: duplicate profile %q", i, p.Type)
			continue
		}
		profiles[t] = true
		census.IsolationProfiles = append(census.IsolationProfiles, model.IsolationProfile{
			Type:        t,
			Title:       p.Title,
			Description: p.Description,
			Organisms:   p.Organisms,
			Precautions: p.Precautions,
			Severity:    p.Severity,
		})
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid census: %w", errors.Join(errs...))
	}
	return census, nil
}

func isolationOf(isolated bool, raw string) (model.IsolationType, error) {
	t := model.IsolationType(raw)
	if raw == "" {
		t = model.IsolationNone
	}

	switch {
	case !t.Valid():
		return "", fmt.Errorf("unknown isolationType %q", raw)
	case !isolated && t != model.IsolationNone:
		return "", fmt.Errorf("isolationType %q set on a patient without isolation", raw)
	case isolated && t == model.IsolationNone:
		return "", errors.New("isolation requires an isolationType")
	}
	return t, nil
}
