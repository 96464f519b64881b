package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lithium-edu/exam-rooms-api/internal/service"
	appErrors "github.com/lithium-edu/exam-rooms-api/pkg/errors"
	"github.com/lithium-edu/exam-rooms-api/pkg/response"
)

// VenueHandler serves the venue read API and the capability override.
type VenueHandler struct {
	venues *service.VenueService
}

// NewVenueHandler constructs a VenueHandler.
func NewVenueHandler(venues *service.VenueService) *VenueHandler {
	return &VenueHandler{venues: venues}
}

// List returns every venue with its exam bindings.
func (h *VenueHandler) List(c *gin.Context) {
	venues, err := h.venues.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, venues, map[string]interface{}{"count": len(venues)})
}

// Get returns one venue by name.
func (h *VenueHandler) Get(c *gin.Context) {
	venue, err := h.venues.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, venue)
}

type capabilitiesRequest struct {
	Capabilities []string `json:"capabilities" binding:"required,dive,capability"`
}

// SetCapabilities replaces a venue's provision capabilities. Shrinking the
// list is allowed here, unlike ingest which only ever grows it.
func (h *VenueHandler) SetCapabilities(c *gin.Context) {
	var req capabilitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	venue, err := h.venues.SetCapabilities(c.Request.Context(), c.Param("name"), req.Capabilities)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, venue)
}
