package handler

import (
	"net/http"

	"batchtrace/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reports service.ReportService
}

func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Get godoc
// @Summary  Get a trace report's status
// @Tags     reports
// @Produce  json
// @Param    id path string true "report id"
// @Success  200 {object} dto.ReportResponse
// @Router   /reports/{id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.reports.Get(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Download godoc
// @Summary  Download a finished trace report PDF
// @Tags     reports
// @Produce  application/pdf
// @Param    id path string true "report id"
// @Success  200 {file} binary
// @Router   /reports/{id}/pdf [get]
func (h *ReportHandler) Download(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	path, err := h.reports.FilePath(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=trace-report-"+id.String()+".pdf")
	c.File(path)
}
