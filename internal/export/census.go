package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"bedboard-backend/internal/cohort"
	"bedboard-backend/internal/model"
	"bedboard-backend/internal/occupancy"
)

const (
	OccupancySheet = "Ocupação"
	PatientsSheet  = "Pacientes"
)

var (
	occupancyHeaders = []string{"Unidade", "Leitos", "Ocupados", "Disponíveis", "Ocupação (%)", "Nível"}
	patientHeaders   = []string{"Unidade", "Leito", "Nome", "Prontuário", "Atendimento", "Idade", "Isolamento"}
)

// WriteCensus writes the occupancy and patient sheets as an xlsx workbook.
func WriteCensus(w io.Writer, units []model.Unit, patients []model.Patient) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", OccupancySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(PatientsSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	rows := make([][]any, 0, len(units)+1)
	for _, u := range units {
		row, err := occupancyRow(cohort.Summarize([]model.Unit{u}))
		if err != nil {
			return fmt.Errorf("unit %q: %w", u.Name, err)
		}
		rows = append(rows, append([]any{u.Name}, row...))
	}
	total, err := occupancyRow(cohort.Summarize(units))
	if err != nil {
		return err
	}
	rows = append(rows, append([]any{"Total"}, total...))
	if err := writeSheet(f, OccupancySheet, occupancyHeaders, rows, headerStyle); err != nil {
		return err
	}

	rows = rows[:0]
	for _, p := range patients {
		rows = append(rows, []any{p.UnitName, p.Bed, p.Name, p.Record, p.Attendance, p.Age, p.Isolation.Label()})
	}
	if err := writeSheet(f, PatientsSheet, patientHeaders, rows, headerStyle); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// occupancyRow leaves the rate and tier cells empty when the unit has no beds.
func occupancyRow(s cohort.Summary, err error) ([]any, error) {
	row := []any{s.TotalBeds, s.OccupiedBeds, s.AvailableBeds(), nil, nil}
	switch {
	case errors.Is(err, occupancy.ErrUndefinedRate):
		return row, nil
	case err != nil:
		return nil, err
	}
	row[3] = occupancy.Round1(s.Rate)
	row[4] = string(s.Tier)
	return row, nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any, headerStyle int) error {
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for i, row := range rows {
		for col, value := range row {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to set cell %s on %s: %w", cell, sheet, err)
			}
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
