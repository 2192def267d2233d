package handler

import (
	"fmt"
	"net/http"

	"lead_dashboard_backend/internal/leads/export"
	"lead_dashboard_backend/internal/leads/transport"
	"lead_dashboard_backend/platform/httpkit"
	"lead_dashboard_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Dashboard(c *gin.Context) {
	httpkit.OK(c, h.reports.Dashboard(c.Request.Context()))
}

func (h *Handler) Report(c *gin.Context) {
	var req transport.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	report, err := h.reports.Report(c.Request.Context(), req.Days)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, report)
}

// ExportCSV streams the filtered table as a CSV attachment.
func (h *Handler) ExportCSV(c *gin.Context) {
	req, ok := h.bindExport(c)
	if !ok {
		return
	}

	exp, err := h.exports.CSV(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.FileName))
	c.Data(http.StatusOK, export.ContentType, exp.Content)
}

func (h *Handler) ExportArchive(c *gin.Context) {
	req, ok := h.bindExport(c)
	if !ok {
		return
	}

	archive, err := h.exports.Archive(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, archive)
}

func (h *Handler) bindExport(c *gin.Context) (transport.ExportLeadsRequest, bool) {
	var req transport.ExportLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return req, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return req, false
	}
	return req, true
}
