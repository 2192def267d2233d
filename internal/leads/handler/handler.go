package handler

import (
	"net/http"

	"lead_dashboard_backend/internal/leads/domain"
	"lead_dashboard_backend/internal/leads/export"
	"lead_dashboard_backend/internal/leads/management"
	"lead_dashboard_backend/internal/leads/reporting"
	"lead_dashboard_backend/internal/leads/transport"
	"lead_dashboard_backend/platform/httpkit"
	"lead_dashboard_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	mgmt    *management.Service
	reports *reporting.Service
	exports *export.Service
	val     *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(mgmt *management.Service, reports *reporting.Service, exports *export.Service, val *validator.Validator) *Handler {
	return &Handler{mgmt: mgmt, reports: reports, exports: exports, val: val}
}

// RegisterRoutes mounts the lead collection routes on the /leads group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/board", h.Board)
	rg.GET("/follow-ups", h.FollowUps)
	rg.GET("/export", h.ExportCSV)
	rg.POST("/export/archive", h.ExportArchive)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id/status", h.UpdateStatus)
	rg.GET("/:id/notes", h.ListNotes)
	rg.POST("/:id/notes", h.AddNote)
}

// RegisterReportRoutes mounts the dashboard and report routes on the API root group.
func (h *Handler) RegisterReportRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)
	rg.GET("/reports", h.Report)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	lead, err := h.mgmt.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, lead)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	lead, err := h.mgmt.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.mgmt.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	lead, err := h.mgmt.UpdateStatus(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) Board(c *gin.Context) {
	httpkit.OK(c, gin.H{"columns": h.mgmt.Board(c.Request.Context())})
}

func (h *Handler) FollowUps(c *gin.Context) {
	httpkit.OK(c, gin.H{"items": h.mgmt.FollowUps(c.Request.Context())})
}

func parseLeadID(c *gin.Context) (domain.LeadID, bool) {
	id := domain.NewLeadID(c.Param("id"))
	if id.IsZero() {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return "", false
	}
	return id, true
}
