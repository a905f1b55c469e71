package handler

import (
	"net/http"

	"batchtrace/internal/service"

	"github.com/gin-gonic/gin"
)

type MasterDataHandler struct {
	masterData service.MasterDataService
}

func NewMasterDataHandler(masterData service.MasterDataService) *MasterDataHandler {
	return &MasterDataHandler{masterData: masterData}
}

// ListProducts godoc
// @Summary  List active products
// @Tags     masterdata
// @Produce  json
// @Success  200 {array} dto.ProductResponse
// @Router   /products [get]
func (h *MasterDataHandler) ListProducts(c *gin.Context) {
	resp, err := h.masterData.ListProducts(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListSuppliers godoc
// @Summary  List active suppliers
// @Tags     masterdata
// @Produce  json
// @Success  200 {array} dto.SupplierResponse
// @Router   /suppliers [get]
func (h *MasterDataHandler) ListSuppliers(c *gin.Context) {
	resp, err := h.masterData.ListSuppliers(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListWarehouses godoc
// @Summary  List active warehouses with their storage locations
// @Tags     masterdata
// @Produce  json
// @Success  200 {array} dto.WarehouseResponse
// @Router   /warehouses [get]
func (h *MasterDataHandler) ListWarehouses(c *gin.Context) {
	resp, err := h.masterData.ListWarehouses(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListUnits godoc
// @Summary  List measurement units
// @Tags     masterdata
// @Produce  json
// @Success  200 {array} dto.UnitResponse
// @Router   /units [get]
func (h *MasterDataHandler) ListUnits(c *gin.Context) {
	resp, err := h.masterData.ListUnits(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
