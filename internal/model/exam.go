package model

import "time"

// ExamStatus is the processing state of an exam.
type ExamStatus string

const (
	ExamCompleted  ExamStatus = "completed"
	ExamProcessing ExamStatus = "processing"
	ExamPending    ExamStatus = "pending"
)

func (s ExamStatus) Valid() bool {
	switch s {
	case ExamCompleted, ExamProcessing, ExamPending:
		return true
	}
	return false
}

// Label returns the Portuguese badge text.
func (s ExamStatus) Label() string {
	switch s {
	case ExamCompleted:
		return "Concluído"
	case ExamProcessing:
		return "Processando"
	case ExamPending:
		return "Pendente"
	}
	return string(s)
}

// Variant returns the badge treatment for the status.
func (s ExamStatus) Variant() string {
	switch s {
	case ExamCompleted:
		return "success"
	case ExamProcessing:
		return "warning"
	}
	return "outline"
}

// Exam is a lab or imaging exam requested for a patient. PDFURL is only
// ever set on completed exams.
type Exam struct {
	PatientID   string     `gorm:"primaryKey;size:64"`
	ID          string     `gorm:"primaryKey;size:64"`
	Position    int        `gorm:"not null"`
	Type        string     `gorm:"size:128;not null"`
	Date        time.Time  `gorm:"not null"`
	Time        string     `gorm:"size:5"`
	Status      ExamStatus `gorm:"size:16;not null"`
	PDFURL      string     `gorm:"column:pdf_url"`
	Description string
}

// Report returns the report location, if the exam has one.
func (e Exam) Report() (string, bool) {
	if e.Status != ExamCompleted || e.PDFURL == "" {
		return "", false
	}
	return e.PDFURL, true
}
