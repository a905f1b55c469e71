package handler

import (
	"net/http"

	"batchtrace/internal/dto"
	"batchtrace/internal/middleware"
	"batchtrace/internal/service"

	"github.com/gin-gonic/gin"
)

type BatchHandler struct {
	batches   service.BatchService
	positions service.PositionService
	lineage   service.LineageService
	reports   service.ReportService
}

func NewBatchHandler(
	batches service.BatchService,
	positions service.PositionService,
	lineage service.LineageService,
	reports service.ReportService,
) *BatchHandler {
	return &BatchHandler{batches: batches, positions: positions, lineage: lineage, reports: reports}
}

// Create godoc
// @Summary  Register a new batch
// @Tags     batches
// @Accept   json
// @Produce  json
// @Param    request body dto.CreateBatchRequest true "batch data"
// @Success  201 {object} dto.BatchResponse
// @Router   /batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	var req dto.CreateBatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.batches.Create(c.Request.Context(), req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary  Get a batch by id
// @Tags     batches
// @Produce  json
// @Param    id path string true "batch id"
// @Success  200 {object} dto.BatchResponse
// @Router   /batches/{id} [get]
func (h *BatchHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.batches.Get(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByNumber godoc
// @Summary  Get a batch by its batch number
// @Tags     batches
// @Produce  json
// @Param    number path string true "batch number"
// @Success  200 {object} dto.BatchResponse
// @Router   /batches/number/{number} [get]
func (h *BatchHandler) GetByNumber(c *gin.Context) {
	resp, err := h.batches.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Search godoc
// @Summary  Search batches
// @Tags     batches
// @Produce  json
// @Param    batch_number query string false "substring match"
// @Param    product_id   query string false "product filter"
// @Param    status       query string false "status filter"
// @Success  200 {object} dto.BatchListResponse
// @Router   /batches [get]
func (h *BatchHandler) Search(c *gin.Context) {
	var filter dto.BatchFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.batches.Search(c.Request.Context(), filter)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetStatus godoc
// @Summary  Change batch status
// @Tags     batches
// @Accept   json
// @Produce  json
// @Param    id path string true "batch id"
// @Param    request body dto.SetBatchStatusRequest true "new status"
// @Success  200 {object} dto.BatchResponse
// @Router   /batches/{id}/status [put]
func (h *BatchHandler) SetStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.SetBatchStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.batches.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Position godoc
// @Summary  Current stock position per warehouse and location
// @Tags     batches
// @Produce  json
// @Param    id path string true "batch id"
// @Success  200 {object} dto.StockPositionResponse
// @Router   /batches/{id}/position [get]
func (h *BatchHandler) Position(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.positions.Compute(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TraceForward godoc
// @Summary  One-hop forward trace (where did this batch go)
// @Tags     lineage
// @Produce  json
// @Param    id path string true "batch id"
// @Success  200 {object} dto.TraceForwardResponse
// @Router   /batches/{id}/trace/forward [get]
func (h *BatchHandler) TraceForward(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.lineage.TraceForward(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TraceBackward godoc
// @Summary  One-hop backward trace (what went into this batch)
// @Tags     lineage
// @Produce  json
// @Param    id path string true "batch id"
// @Success  200 {object} dto.TraceBackwardResponse
// @Router   /batches/{id}/trace/backward [get]
func (h *BatchHandler) TraceBackward(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.lineage.TraceBackward(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RequestReport godoc
// @Summary  Queue a trace report PDF for a batch
// @Tags     reports
// @Accept   json
// @Produce  json
// @Param    id path string true "batch id"
// @Param    request body dto.CreateReportRequest true "trace direction"
// @Success  202 {object} dto.ReportResponse
// @Router   /batches/{id}/reports [post]
func (h *BatchHandler) RequestReport(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateReportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.reports.Request(c.Request.Context(), id, req.Direction, middleware.CallerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

// ListReports godoc
// @Summary  List trace reports for a batch
// @Tags     reports
// @Produce  json
// @Param    id path string true "batch id"
// @Success  200 {array} dto.ReportResponse
// @Router   /batches/{id}/reports [get]
func (h *BatchHandler) ListReports(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.reports.ListByBatch(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
