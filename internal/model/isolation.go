package model

// IsolationType is the infection-control precaution a patient is under.
// IsolationNone is an explicit value, so a patient can never carry a
// precaution type while not being isolated.
type IsolationType string

const (
	IsolationNone     IsolationType = "none"
	IsolationContact  IsolationType = "contact"
	IsolationDroplet  IsolationType = "droplet"
	IsolationAirborne IsolationType = "airborne"
)

// PrecautionTypes lists the isolation types that carry precautions.
var PrecautionTypes = []IsolationType{IsolationContact, IsolationDroplet, IsolationAirborne}

// Valid reports whether t is one of the known isolation types.
func (t IsolationType) Valid() bool {
	switch t {
	case IsolationNone, IsolationContact, IsolationDroplet, IsolationAirborne:
		return true
	}
	return false
}

// Label returns the Portuguese badge text.
func (t IsolationType) Label() string {
	switch t {
	case IsolationContact:
		return "Isolamento de Contato"
	case IsolationDroplet:
		return "Isolamento por Gotículas"
	case IsolationAirborne:
		return "Isolamento Aéreo"
	}
	return "Sem Isolamento"
}

// IsolationProfile describes the precautions and typical organisms of an
// isolation type.
type IsolationProfile struct {
	Type        IsolationType `gorm:"primaryKey;size:16"`
	Title       string        `gorm:"size:128;not null"`
	Description string        `gorm:"not null"`
	Organisms   []string      `gorm:"serializer:json"`
	Precautions []string      `gorm:"serializer:json"`
	Severity    string        `gorm:"size:32"`
}
