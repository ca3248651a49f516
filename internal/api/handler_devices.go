package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bedboard-backend/internal/dates"
	"bedboard-backend/internal/model"
)

// deviceRow carries the dwell figures of a device. DaysRemaining is only
// set while the device is active and goes negative once it is overdue.
type deviceRow struct {
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	Location        string             `json:"location"`
	InstallDate     string             `json:"installDate"`
	ExpectedRemoval string             `json:"expectedRemoval"`
	Status          model.DeviceStatus `json:"status"`
	StatusLabel     string             `json:"statusLabel"`
	DwellDays       int                `json:"dwellDays"`
	DaysRemaining   *int               `json:"daysRemaining,omitempty"`
	Overdue         bool               `json:"overdue"`
}

func newDeviceRow(d model.Device, today time.Time) deviceRow {
	row := deviceRow{
		Code:            d.Code,
		Name:            d.Name,
		Location:        d.Location,
		InstallDate:     d.InstallDate.Format(dates.Layout),
		ExpectedRemoval: d.ExpectedRemoval.Format(dates.Layout),
		Status:          d.Status,
		StatusLabel:     d.Status.Label(),
		DwellDays:       dates.DaysBetween(d.InstallDate, d.ExpectedRemoval),
	}
	if d.Status == model.DeviceActive {
		remaining := dates.DaysBetween(today, d.ExpectedRemoval)
		row.DaysRemaining = &remaining
		row.Overdue = remaining < 0
	}
	return row
}

// ListDevices handles GET /api/units/{unit}/patients/{patient_id}/devices.
func (h *Handler) ListDevices(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.store.GetPatient(ctx, c.Param("unit"), c.Param("patient_id"))
	if err != nil {
		h.fail(c, err, "patient")
		return
	}
	devices, err := h.store.ListDevices(ctx, p.ID)
	if err != nil {
		h.fail(c, err, "devices")
		return
	}

	today := h.today()
	rows := make([]deviceRow, 0, len(devices))
	for _, d := range devices {
		rows = append(rows, newDeviceRow(d, today))
	}
	c.JSON(http.StatusOK, gin.H{"devices": rows})
}

type deviceDetail struct {
	deviceRow
	Justification string `json:"justification"`
	Observation   string `json:"observation"`
}

// GetDevice handles GET /api/units/{unit}/patients/{patient_id}/devices/{device_code}.
func (h *Handler) GetDevice(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.store.GetPatient(ctx, c.Param("unit"), c.Param("patient_id"))
	if err != nil {
		h.fail(c, err, "patient")
		return
	}
	d, err := h.store.GetDevice(ctx, p.ID, c.Param("device_code"))
	if err != nil {
		h.fail(c, err, "device")
		return
	}

	c.JSON(http.StatusOK, deviceDetail{
		deviceRow:     newDeviceRow(*d, h.today()),
		Justification: d.Justification,
		Observation:   d.Observation,
	})
}
