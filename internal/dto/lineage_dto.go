package dto

import "github.com/shopspring/decimal"

type LinkBatchesRequest struct {
	SourceBatchID      string          `json:"source_batch_id"      validate:"required,uuid"`
	DestinationBatchID string          `json:"destination_batch_id" validate:"required,uuid"`
	ProcessType        string          `json:"process_type"         validate:"required,oneof=production blend repack split"`
	ProcessReferenceID *string         `json:"process_reference_id" validate:"omitempty,uuid"`
	Quantity           decimal.Decimal `json:"quantity"             validate:"required"`
	UnitID             string          `json:"unit_id"              validate:"required,uuid"`
}

type LineageLinkResponse struct {
	ID                 string          `json:"id"`
	SourceBatchID      string          `json:"source_batch_id"`
	DestinationBatchID string          `json:"destination_batch_id"`
	ProcessType        string          `json:"process_type"`
	ProcessReferenceID *string         `json:"process_reference_id"`
	Quantity           decimal.Decimal `json:"quantity"`
	UnitID             string          `json:"unit_id"`
	CreatedAt          string          `json:"created_at"`
}

// BatchRef is the enriched batch summary embedded in trace responses.
type BatchRef struct {
	ID          string `json:"id"`
	BatchNumber string `json:"batch_number"`
	ProductName string `json:"product_name"`
}

// TraceUsage is one forward hop: a link to a destination batch, flagged with
// whether that batch has further forward links of its own. Callers recurse
// explicitly by re-invoking the trace with the destination batch id.
type TraceUsage struct {
	LinkID          string          `json:"id"`
	ProcessType     string          `json:"process_type"`
	Date            string          `json:"date"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitID          string          `json:"unit_id"`
	Destination     BatchRef        `json:"destination_batch"`
	HasFurtherUsage bool            `json:"has_further_usage"`
}

// TraceComponent is one backward hop, symmetric to TraceUsage.
type TraceComponent struct {
	LinkID               string          `json:"id"`
	ProcessType          string          `json:"process_type"`
	Date                 string          `json:"date"`
	Quantity             decimal.Decimal `json:"quantity"`
	UnitID               string          `json:"unit_id"`
	Source               BatchRef        `json:"source_batch"`
	HasFurtherComponents bool            `json:"has_further_components"`
}

type TraceForwardResponse struct {
	Batch  BatchRef     `json:"batch"`
	Usages []TraceUsage `json:"usages"`
}

type TraceBackwardResponse struct {
	Batch      BatchRef         `json:"batch"`
	Components []TraceComponent `json:"components"`
}
