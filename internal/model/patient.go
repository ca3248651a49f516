package model

import "time"

// Patient represents an inpatient occupying a bed in a unit.
type Patient struct {
	ID         string        `gorm:"primaryKey;size:64"`
	UnitName   string        `gorm:"index;size:128;not null"`
	Name       string        `gorm:"size:256;not null"`
	Record     string        `gorm:"size:32"`
	Attendance string        `gorm:"size:32"`
	Age        int
	Bed        string        `gorm:"size:16"`
	BedNumber  int           `gorm:"index"`
	BedWing    string        `gorm:"size:8"`
	Isolation  IsolationType `gorm:"size:16;not null"`

	// Clinical detail
	EvolutionDate     *time.Time
	RiskFactors       []string    `gorm:"serializer:json"`
	Fever             Fever       `gorm:"serializer:json"`
	Devices           []string    `gorm:"serializer:json"`
	Antibiotics       []string    `gorm:"serializer:json"`
	Surgery           Surgery     `gorm:"serializer:json"`
	Secretion         Secretion   `gorm:"serializer:json"`
	EvolutionSummary  string
	AnnotationSummary string
	Labs              LabResults  `gorm:"serializer:json"`
	Scores            []RiskScore `gorm:"serializer:json"`
}

// InIsolation reports whether the patient is under any isolation precaution.
func (p Patient) InIsolation() bool {
	return p.Isolation != IsolationNone
}

type Fever struct {
	Present bool    `json:"present"`
	Value   float64 `json:"value,omitempty"`
}

type Surgery struct {
	Performed bool   `json:"performed"`
	Type      string `json:"type,omitempty"`
}

type Secretion struct {
	Observed bool   `json:"observed"`
	Type     string `json:"type,omitempty"`
	Location string `json:"location,omitempty"`
}

// LabResults holds the latest lab panels shown on the patient screen.
type LabResults struct {
	Hemogram []LabValue `json:"hemogram,omitempty"`
	Urine    []LabValue `json:"urine,omitempty"`
	Cultures []Culture  `json:"cultures,omitempty"`
}

type LabValue struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

type Culture struct {
	Type        string `json:"type"`
	Result      string `json:"result"`
	Sensitivity string `json:"sensitivity"`
}

// Positive reports whether the culture grew an organism.
func (c Culture) Positive() bool {
	return c.Result != "" && c.Result != "Negativa"
}

// RiskScore is a clinical severity score (SOFA, APACHE II, ...). Value is a
// string because some scores are qualitative.
type RiskScore struct {
	Name           string `json:"name"`
	Value          string `json:"value"`
	Interpretation string `json:"interpretation"`
}
