package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bedboard-backend/internal/cohort"
	"bedboard-backend/internal/dates"
	"bedboard-backend/internal/model"
)

type patientRow struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Record         string              `json:"record"`
	Attendance     string              `json:"attendance"`
	Age            int                 `json:"age"`
	Bed            string              `json:"bed"`
	Isolation      bool                `json:"isolation"`
	IsolationType  model.IsolationType `json:"isolationType,omitempty"`
	IsolationLabel string              `json:"isolationLabel"`
}

func newPatientRow(p model.Patient) patientRow {
	row := patientRow{
		ID:             p.ID,
		Name:           p.Name,
		Record:         p.Record,
		Attendance:     p.Attendance,
		Age:            p.Age,
		Bed:            p.Bed,
		Isolation:      p.InIsolation(),
		IsolationLabel: p.Isolation.Label(),
	}
	if row.Isolation {
		row.IsolationType = p.Isolation
	}
	return row
}

type patientsResponse struct {
	Unit      string                 `json:"unit"`
	Patients  []patientRow           `json:"patients"`
	Isolation cohort.IsolationCounts `json:"isolation"`
}

// ListPatients handles GET /api/units/{unit}/patients. The optional
// isolation query narrows the list; the counts always cover the whole unit.
func (h *Handler) ListPatients(c *gin.Context) {
	filter := model.IsolationType(c.Query("isolation"))
	if filter != "" && !filter.Valid() {
		badRequest(c, "invalid isolation type")
		return
	}

	ctx := c.Request.Context()
	unit, err := h.store.GetUnit(ctx, c.Param("unit"))
	if err != nil {
		h.fail(c, err, "unit")
		return
	}
	patients, err := h.store.ListPatients(ctx, unit.Name)
	if err != nil {
		h.fail(c, err, "patients")
		return
	}

	resp := patientsResponse{
		Unit:      unit.Name,
		Patients:  make([]patientRow, 0, len(patients)),
		Isolation: cohort.CountIsolation(patients),
	}
	for _, p := range patients {
		if filter != "" && p.Isolation != filter {
			continue
		}
		resp.Patients = append(resp.Patients, newPatientRow(p))
	}
	c.JSON(http.StatusOK, resp)
}

type patientDetail struct {
	patientRow
	Unit              string            `json:"unit"`
	BedNumber         int               `json:"bedNumber"`
	BedWing           string            `json:"bedWing,omitempty"`
	EvolutionDate     string            `json:"evolutionDate,omitempty"`
	RiskFactors       []string          `json:"riskFactors"`
	Fever             model.Fever       `json:"fever"`
	Devices           []string          `json:"devices"`
	Antibiotics       []string          `json:"antibiotics"`
	Surgery           model.Surgery     `json:"surgery"`
	Secretion         model.Secretion   `json:"secretion"`
	EvolutionSummary  string            `json:"evolutionSummary,omitempty"`
	AnnotationSummary string            `json:"annotationSummary,omitempty"`
	Labs              labResults        `json:"labs"`
	Scores            []model.RiskScore `json:"scores"`
}

type cultureRow struct {
	model.Culture
	Positive bool `json:"positive"`
}

type labResults struct {
	Hemogram []model.LabValue `json:"hemogram,omitempty"`
	Urine    []model.LabValue `json:"urine,omitempty"`
	Cultures []cultureRow     `json:"cultures,omitempty"`
}

func newLabResults(l model.LabResults) labResults {
	out := labResults{Hemogram: l.Hemogram, Urine: l.Urine}
	for _, c := range l.Cultures {
		out.Cultures = append(out.Cultures, cultureRow{Culture: c, Positive: c.Positive()})
	}
	return out
}

// GetPatient handles GET /api/units/{unit}/patients/{patient_id}.
func (h *Handler) GetPatient(c *gin.Context) {
	p, err := h.store.GetPatient(c.Request.Context(), c.Param("unit"), c.Param("patient_id"))
	if err != nil {
		h.fail(c, err, "patient")
		return
	}

	detail := patientDetail{
		patientRow:        newPatientRow(*p),
		Unit:              p.UnitName,
		BedNumber:         p.BedNumber,
		BedWing:           p.BedWing,
		RiskFactors:       nonNil(p.RiskFactors),
		Fever:             p.Fever,
		Devices:           nonNil(p.Devices),
		Antibiotics:       nonNil(p.Antibiotics),
		Surgery:           p.Surgery,
		Secretion:         p.Secretion,
		EvolutionSummary:  p.EvolutionSummary,
		AnnotationSummary: p.AnnotationSummary,
		Labs:              newLabResults(p.Labs),
		Scores:            nonNil(p.Scores),
	}
	if p.EvolutionDate != nil {
		detail.EvolutionDate = p.EvolutionDate.Format(dates.Layout)
	}
	c.JSON(http.StatusOK, detail)
}

type examRow struct {
	ID          string           `json:"id"`
	Type        string           `json:"type"`
	Date        string           `json:"date"`
	Time        string           `json:"time"`
	Status      model.ExamStatus `json:"status"`
	StatusLabel string           `json:"statusLabel"`
	Variant     string           `json:"variant"`
	PDFURL      string           `json:"pdfUrl,omitempty"`
	Description string           `json:"description"`
}

type examsResponse struct {
	Exams  []examRow         `json:"exams"`
	Counts cohort.ExamCounts `json:"counts"`
}

// ListExams handles GET /api/units/{unit}/patients/{patient_id}/exams.
func (h *Handler) ListExams(c *gin.Context) {
	filter := model.ExamStatus(c.Query("status"))
	if filter != "" && !filter.Valid() {
		badRequest(c, "invalid exam status")
		return
	}

	ctx := c.Request.Context()
	p, err := h.store.GetPatient(ctx, c.Param("unit"), c.Param("patient_id"))
	if err != nil {
		h.fail(c, err, "patient")
		return
	}
	exams, err := h.store.ListExams(ctx, p.ID)
	if err != nil {
		h.fail(c, err, "exams")
		return
	}

	resp := examsResponse{
		Exams:  make([]examRow, 0, len(exams)),
		Counts: cohort.CountExams(exams),
	}
	for _, e := range exams {
		if filter != "" && e.Status != filter {
			continue
		}
		row := examRow{
			ID:          e.ID,
			Type:        e.Type,
			Date:        e.Date.Format(dates.Layout),
			Time:        e.Time,
			Status:      e.Status,
			StatusLabel: e.Status.Label(),
			Variant:     e.Status.Variant(),
			Description: e.Description,
		}
		if url, ok := e.Report(); ok {
			row.PDFURL = url
		}
		resp.Exams = append(resp.Exams, row)
	}
	c.JSON(http.StatusOK, resp)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
