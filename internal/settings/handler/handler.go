package handler

import (
	"net/http"

	"lead_dashboard_backend/internal/settings/service"
	"lead_dashboard_backend/internal/settings/transport"
	"lead_dashboard_backend/platform/httpkit"
	"lead_dashboard_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Get)
	rg.PUT("", h.Update)
	rg.DELETE("", h.Reset)
}

func (h *Handler) Get(c *gin.Context) {
	settings, err := h.svc.Get(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, settings)
}

func (h *Handler) Update(c *gin.Context) {
	var req transport.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", validator.FieldErrors(err))
		return
	}

	settings, err := h.svc.Update(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, settings)
}

func (h *Handler) Reset(c *gin.Context) {
	settings, err := h.svc.Reset(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, settings)
}
