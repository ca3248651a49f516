package cohort

import (
	"bedboard-backend/internal/model"
	"bedboard-backend/internal/occupancy"
)

// CountBy returns how many records satisfy pred.
func CountBy[T any](records []T, pred func(T) bool) int {
	n := 0
	for _, r := range records {
		if pred(r) {
			n++
		}
	}
	return n
}

// Sum adds up field over all records.
func Sum[T any](records []T, field func(T) int) int {
	total := 0
	for _, r := range records {
		total += field(r)
	}
	return total
}

// Totals returns the summed total and occupied beds of the units.
func Totals(units []model.Unit) (totalBeds, occupiedBeds int) {
	totalBeds = Sum(units, func(u model.Unit) int { return u.TotalBeds })
	occupiedBeds = Sum(units, func(u model.Unit) int { return u.OccupiedBeds })
	return totalBeds, occupiedBeds
}

// Summary is the hospital-wide occupancy across a set of units.
type Summary struct {
	TotalBeds    int
	OccupiedBeds int
	occupancy.Classification
}

// AvailableBeds is the number of free beds across all units.
func (s Summary) AvailableBeds() int {
	return s.TotalBeds - s.OccupiedBeds
}

// Summarize computes the global occupancy of units. The totals are always
// filled in; the error is occupancy.ErrUndefinedRate when there are no beds.
func Summarize(units []model.Unit) (Summary, error) {
	total, occupied := Totals(units)
	s := Summary{TotalBeds: total, OccupiedBeds: occupied}
	c, err := occupancy.Classify(total, occupied)
	if err != nil {
		return s, err
	}
	s.Classification = c
	return s, nil
}

// IsolationCounts is the number of patients under each isolation type.
type IsolationCounts struct {
	None     int `json:"none"`
	Contact  int `json:"contact"`
	Droplet  int `json:"droplet"`
	Airborne int `json:"airborne"`
}

func CountIsolation(patients []model.Patient) IsolationCounts {
	of := func(t model.IsolationType) int {
		return CountBy(patients, func(p model.Patient) bool { return p.Isolation == t })
	}
	return IsolationCounts{
		None:     CountBy(patients, func(p model.Patient) bool { return !p.InIsolation() }),
		Contact:  of(model.IsolationContact),
		Droplet:  of(model.IsolationDroplet),
		Airborne: of(model.IsolationAirborne),
	}
}

// ExamCounts is the number of exams in each status.
type ExamCounts struct {
	Completed  int `json:"completed"`
	Processing int `json:"processing"`
	Pending    int `json:"pending"`
	Total      int `json:"total"`
}

func CountExams(exams []model.Exam) ExamCounts {
	of := func(s model.ExamStatus) int {
		return CountBy(exams, func(e model.Exam) bool { return e.Status == s })
	}
	return ExamCounts{
		Completed:  of(model.ExamCompleted),
		Processing: of(model.ExamProcessing),
		Pending:    of(model.ExamPending),
		Total:      len(exams),
	}
}
