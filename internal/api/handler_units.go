package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bedboard-backend/internal/cohort"
	"bedboard-backend/internal/model"
	"bedboard-backend/internal/occupancy"
)

// occupancyView is the occupancy block shared by unit cards and the summary.
// OccupancyRate is null and Tier empty for a unit without beds.
type occupancyView struct {
	TotalBeds      int            `json:"totalBeds"`
	OccupiedBeds   int            `json:"occupiedBeds"`
	AvailableBeds  int            `json:"availableBeds"`
	OccupancyRate  *float64       `json:"occupancyRate"`
	OccupancyLabel string         `json:"occupancyLabel,omitempty"`
	Tier           occupancy.Tier `json:"tier,omitempty"`
	Variant        string         `json:"variant"`
}

func newOccupancyView(s cohort.Summary, err error) (occupancyView, error) {
	v := occupancyView{
		TotalBeds:     s.TotalBeds,
		OccupiedBeds:  s.OccupiedBeds,
		AvailableBeds: s.AvailableBeds(),
		Variant:       "secondary",
	}
	switch {
	case errors.Is(err, occupancy.ErrUndefinedRate):
		return v, nil
	case err != nil:
		return v, err
	}

	rate := occupancy.Round1(s.Rate)
	v.OccupancyRate = &rate
	v.OccupancyLabel = occupancy.Label(s.Rate)
	v.Tier = s.Tier
	v.Variant = s.Tier.Variant()
	return v, nil
}

type unitCard struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
	occupancyView
}

func newUnitCard(u model.Unit) (unitCard, error) {
	v, err := newOccupancyView(cohort.Summarize([]model.Unit{u}))
	if err != nil {
		return unitCard{}, err
	}
	return unitCard{Name: u.Name, Icon: u.Icon, occupancyView: v}, nil
}

type unitsResponse struct {
	Units   []unitCard    `json:"units"`
	Summary occupancyView `json:"summary"`
}

// GetUnits handles GET /api/units.
func (h *Handler) GetUnits(c *gin.Context) {
	units, err := h.store.ListUnits(c.Request.Context())
	if err != nil {
		h.fail(c, err, "units")
		return
	}

	resp := unitsResponse{Units: make([]unitCard, 0, len(units))}
	for _, u := range units {
		card, err := newUnitCard(u)
		if err != nil {
			h.fail(c, err, "units")
			return
		}
		resp.Units = append(resp.Units, card)
	}
	if resp.Summary, err = newOccupancyView(cohort.Summarize(units)); err != nil {
		h.fail(c, err, "units")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetSummary handles GET /api/summary.
func (h *Handler) GetSummary(c *gin.Context) {
	units, err := h.store.ListUnits(c.Request.Context())
	if err != nil {
		h.fail(c, err, "summary")
		return
	}
	summary, err := newOccupancyView(cohort.Summarize(units))
	if err != nil {
		h.fail(c, err, "summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetUnit handles GET /api/units/{unit}.
func (h *Handler) GetUnit(c *gin.Context) {
	unit, err := h.store.GetUnit(c.Request.Context(), c.Param("unit"))
	if err != nil {
		h.fail(c, err, "unit")
		return
	}
	card, err := newUnitCard(*unit)
	if err != nil {
		h.fail(c, err, "unit")
		return
	}
	c.JSON(http.StatusOK, card)
}
