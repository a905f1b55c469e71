package handler

import (
	"net/http"

	"batchtrace/internal/dto"
	"batchtrace/internal/middleware"
	"batchtrace/internal/service"

	"github.com/gin-gonic/gin"
)

type LineageHandler struct {
	lineage service.LineageService
}

func NewLineageHandler(lineage service.LineageService) *LineageHandler {
	return &LineageHandler{lineage: lineage}
}

// Link godoc
// @Summary  Record that a source batch fed a destination batch
// @Tags     lineage
// @Accept   json
// @Produce  json
// @Param    request body dto.LinkBatchesRequest true "link data"
// @Success  201 {object} dto.LineageLinkResponse
// @Router   /lineage [post]
func (h *LineageHandler) Link(c *gin.Context) {
	var req dto.LinkBatchesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.lineage.Link(c.Request.Context(), req, middleware.CallerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
