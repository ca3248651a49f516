package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bedboard-backend/internal/model"
)

type isolationProfile struct {
	Type        model.IsolationType `json:"type"`
	Label       string              `json:"label"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Severity    string              `json:"severity"`
	Organisms   []string            `json:"organisms"`
	Precautions []string            `json:"precautions"`
}

func newIsolationProfile(p model.IsolationProfile) isolationProfile {
	return isolationProfile{
		Type:        p.Type,
		Label:       p.Type.Label(),
		Title:       p.Title,
		Description: p.Description,
		Severity:    p.Severity,
		Organisms:   nonNil(p.Organisms),
		Precautions: nonNil(p.Precautions),
	}
}

// ListIsolationProfiles handles GET /api/isolation-profiles.
func (h *Handler) ListIsolationProfiles(c *gin.Context) {
	profiles, err := h.store.ListIsolationProfiles(c.Request.Context())
	if err != nil {
		h.fail(c, err, "isolation profiles")
		return
	}

	resp := make([]isolationProfile, 0, len(profiles))
	for _, p := range profiles {
		resp = append(resp, newIsolationProfile(p))
	}
	c.JSON(http.StatusOK, gin.H{"profiles": resp})
}

// GetIsolationProfile handles GET /api/isolation-profiles/{type}.
func (h *Handler) GetIsolationProfile(c *gin.Context) {
	t := model.IsolationType(c.Param("type"))
	if !t.Valid() {
		badRequest(c, "invalid isolation type")
		return
	}

	p, err := h.store.GetIsolationProfile(c.Request.Context(), t)
	if err != nil {
		h.fail(c, err, "isolation profile")
		return
	}
	c.JSON(http.StatusOK, newIsolationProfile(*p))
}
