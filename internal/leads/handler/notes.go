package handler

import (
	"net/http"

	"lead_dashboard_backend/internal/leads/transport"
	"lead_dashboard_backend/platform/httpkit"
	"lead_dashboard_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListNotes(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	notes, err := h.mgmt.ListNotes(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, notes)
}

func (h *Handler) AddNote(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	note, err := h.mgmt.AddNote(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, note)
}
