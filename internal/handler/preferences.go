package handler

import (
	"net/http"

	"github.com/pedroaraujox/Viza-Stock/internal/apierror"
	"github.com/pedroaraujox/Viza-Stock/internal/dto"
	"github.com/pedroaraujox/Viza-Stock/internal/middleware"
	"github.com/pedroaraujox/Viza-Stock/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PreferencesHandler struct{ svc service.PreferenceService }

func NewPreferencesHandler(svc service.PreferenceService) *PreferencesHandler {
	return &PreferencesHandler{svc: svc}
}

func (h *PreferencesHandler) callerID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("authentication required"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("authentication required"))
		return uuid.Nil, false
	}
	return id, true
}

// GetMine returns the calling user's preferences.
func (h *PreferencesHandler) GetMine(c *gin.Context) {
	id, ok := h.callerID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetUserPreference(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SaveMine upserts the calling user's preferences.
func (h *PreferencesHandler) SaveMine(c *gin.Context) {
	id, ok := h.callerID(c)
	if !ok {
		return
	}
	var req dto.PreferenceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SaveUserPreference(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PreferencesHandler) GetSystem(c *gin.Context) {
	resp, err := h.svc.GetSystemPreference(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PreferencesHandler) SaveSystem(c *gin.Context) {
	var req dto.PreferenceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SaveSystemPreference(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
