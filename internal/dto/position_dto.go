package dto

import "github.com/shopspring/decimal"

// StockPosition is a derived figure, never persisted: recomputed from the
// movement ledger and active reservations on every read.
type StockPosition struct {
	WarehouseID   string          `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name,omitempty"`
	LocationID    string          `json:"location_id"`
	LocationName  string          `json:"location_name,omitempty"`
	OnHand        decimal.Decimal `json:"on_hand"`
	Reserved      decimal.Decimal `json:"reserved"`
	Available     decimal.Decimal `json:"available"`
}

type StockPositionResponse struct {
	BatchID   string          `json:"batch_id"`
	Positions []StockPosition `json:"positions"`
}
