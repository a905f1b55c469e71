package dto

import "github.com/shopspring/decimal"

type PostMovementRequest struct {
	BatchID     string          `json:"batch_id"     validate:"required,uuid"`
	WarehouseID string          `json:"warehouse_id" validate:"required,uuid"`
	LocationID  string          `json:"location_id"  validate:"required,uuid"`
	Type        string          `json:"movement_type" validate:"required,oneof=receipt issue transfer"`
	Quantity    decimal.Decimal `json:"quantity"     validate:"required"`
	UnitID      string          `json:"unit_id"      validate:"required,uuid"`
	// Required iff movement_type == transfer.
	TargetWarehouseID *string `json:"target_warehouse_id" validate:"omitempty,uuid"`
	TargetLocationID  *string `json:"target_location_id"  validate:"omitempty,uuid"`
	ReferenceType     *string `json:"reference_type"`
	ReferenceID       *string `json:"reference_id" validate:"omitempty,uuid"`
}

type MovementFilter struct {
	BatchID     string `form:"batch_id"     validate:"omitempty,uuid"`
	WarehouseID string `form:"warehouse_id" validate:"omitempty,uuid"`
	Type        string `form:"movement_type"`
	Page        int    `form:"page,default=1"    validate:"min=1"`
	Limit       int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type MovementResponse struct {
	ID                string          `json:"id"`
	BatchID           string          `json:"batch_id"`
	BatchNumber       string          `json:"batch_number,omitempty"`
	WarehouseID       string          `json:"warehouse_id"`
	LocationID        string          `json:"location_id"`
	Type              string          `json:"movement_type"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitID            string          `json:"unit_id"`
	TargetWarehouseID *string         `json:"target_warehouse_id"`
	TargetLocationID  *string         `json:"target_location_id"`
	ReferenceType     *string         `json:"reference_type"`
	ReferenceID       *string         `json:"reference_id"`
	CreatedAt         string          `json:"created_at"`
	CreatedBy         *string         `json:"created_by"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
