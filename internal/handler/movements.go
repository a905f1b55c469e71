package handler

import (
	"net/http"

	"batchtrace/internal/dto"
	"batchtrace/internal/middleware"
	"batchtrace/internal/service"

	"github.com/gin-gonic/gin"
)

type MovementHandler struct {
	movements service.MovementService
}

func NewMovementHandler(movements service.MovementService) *MovementHandler {
	return &MovementHandler{movements: movements}
}

// Post godoc
// @Summary  Append a movement to the ledger
// @Tags     movements
// @Accept   json
// @Produce  json
// @Param    request body dto.PostMovementRequest true "movement data"
// @Success  201 {object} dto.MovementResponse
// @Router   /movements [post]
func (h *MovementHandler) Post(c *gin.Context) {
	var req dto.PostMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.movements.Post(c.Request.Context(), req, middleware.CallerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary  Get one movement entry
// @Tags     movements
// @Produce  json
// @Param    id path string true "movement id"
// @Success  200 {object} dto.MovementResponse
// @Router   /movements/{id} [get]
func (h *MovementHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.movements.Get(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary  List movements in insertion order
// @Tags     movements
// @Produce  json
// @Param    batch_id     query string false "batch filter"
// @Param    warehouse_id query string false "warehouse filter"
// @Success  200 {object} dto.MovementListResponse
// @Router   /movements [get]
func (h *MovementHandler) List(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.movements.List(c.Request.Context(), filter)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
