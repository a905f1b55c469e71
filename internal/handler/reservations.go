package handler

import (
	"net/http"

	"batchtrace/internal/dto"
	"batchtrace/internal/service"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	reservations service.ReservationService
}

func NewReservationHandler(reservations service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

// Create godoc
// @Summary  Reserve quantity against a batch
// @Tags     reservations
// @Accept   json
// @Produce  json
// @Param    request body dto.CreateReservationRequest true "reservation data"
// @Success  201 {object} dto.ReservationResponse
// @Failure  409 {object} apierror.APIError "insufficient stock"
// @Router   /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	var req dto.CreateReservationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.reservations.Create(c.Request.Context(), req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary  Change a reservation's quantity or status
// @Tags     reservations
// @Accept   json
// @Produce  json
// @Param    id path string true "reservation id"
// @Param    request body dto.UpdateReservationRequest true "changes"
// @Success  200 {object} dto.ReservationResponse
// @Router   /reservations/{id} [patch]
func (h *ReservationHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateReservationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.reservations.Update(c.Request.Context(), id, req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary  Get one reservation
// @Tags     reservations
// @Produce  json
// @Param    id path string true "reservation id"
// @Success  200 {object} dto.ReservationResponse
// @Router   /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.reservations.Get(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary  List reservations
// @Tags     reservations
// @Produce  json
// @Param    batch_id query string false "batch filter"
// @Param    status   query string false "status filter"
// @Success  200 {object} dto.ReservationListResponse
// @Router   /reservations [get]
func (h *ReservationHandler) List(c *gin.Context) {
	var filter dto.ReservationFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.reservations.List(c.Request.Context(), filter)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
