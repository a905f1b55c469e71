package dto

import "github.com/shopspring/decimal"

type CreateReservationRequest struct {
	BatchID     string          `json:"batch_id"     validate:"required,uuid"`
	WarehouseID string          `json:"warehouse_id" validate:"required,uuid"`
	LocationID  string          `json:"location_id"  validate:"required,uuid"`
	Quantity    decimal.Decimal `json:"quantity"     validate:"required"`
	UnitID      string          `json:"unit_id"      validate:"required,uuid"`
}

type UpdateReservationRequest struct {
	Quantity *decimal.Decimal `json:"quantity"`
	Status   *string          `json:"status" validate:"omitempty,oneof=active released fulfilled"`
}

type ReservationFilter struct {
	BatchID     string `form:"batch_id"     validate:"omitempty,uuid"`
	WarehouseID string `form:"warehouse_id" validate:"omitempty,uuid"`
	Status      string `form:"status"       validate:"omitempty,oneof=active released fulfilled"`
	Page        int    `form:"page,default=1"    validate:"min=1"`
	Limit       int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type ReservationResponse struct {
	ID          string          `json:"id"`
	BatchID     string          `json:"batch_id"`
	WarehouseID string          `json:"warehouse_id"`
	LocationID  string          `json:"location_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitID      string          `json:"unit_id"`
	Status      string          `json:"status"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"modified_at"`
}

type ReservationListResponse struct {
	Data  []ReservationResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
