package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"bedboard-backend/internal/dates"
	"bedboard-backend/internal/export"
	"bedboard-backend/internal/model"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportCensus handles GET /api/export/census.xlsx.
func (h *Handler) ExportCensus(c *gin.Context) {
	ctx := c.Request.Context()
	units, err := h.store.ListUnits(ctx)
	if err != nil {
		h.fail(c, err, "units")
		return
	}

	var patients []model.Patient
	for _, u := range units {
		ps, err := h.store.ListPatients(ctx, u.Name)
		if err != nil {
			h.fail(c, err, "patients")
			return
		}
		patients = append(patients, ps...)
	}

	var buf bytes.Buffer
	if err := export.WriteCensus(&buf, units, patients); err != nil {
		h.fail(c, err, "census export")
		return
	}

	filename := fmt.Sprintf("censo-%s.xlsx", h.today().Format(dates.Layout))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
