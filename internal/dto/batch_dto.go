package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateBatchRequest struct {
	ProductID           string  `json:"product_id"            validate:"required,uuid"`
	Kind                string  `json:"kind"                  validate:"omitempty,oneof=incoming production blend"`
	SupplierID          *string `json:"supplier_id"           validate:"omitempty,uuid"`
	SupplierBatchNumber *string `json:"supplier_batch_number" validate:"omitempty,max=64"`
	ProductionDate      *string `json:"production_date"       validate:"omitempty,datetime=2006-01-02"`
	BestBeforeDate      *string `json:"best_before_date"      validate:"omitempty,datetime=2006-01-02"`
}

type SetBatchStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new released blocked consumed"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type BatchFilter struct {
	BatchNumber string `form:"batch_number"`
	ProductID   string `form:"product_id"`
	SupplierID  string `form:"supplier_id"`
	Status      string `form:"status"`
	DateFrom    string `form:"date_from"`
	DateTo      string `form:"date_to"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type BatchResponse struct {
	ID                  string  `json:"id"`
	BatchNumber         string  `json:"batch_number"`
	ProductID           string  `json:"product_id"`
	ProductName         string  `json:"product_name,omitempty"`
	SupplierID          *string `json:"supplier_id"`
	SupplierName        string  `json:"supplier_name,omitempty"`
	SupplierBatchNumber *string `json:"supplier_batch_number"`
	Status              string  `json:"status"`
	Kind                string  `json:"kind"`
	ProductionDate      *string `json:"production_date"`
	BestBeforeDate      *string `json:"best_before_date"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"modified_at"`
}

type BatchListResponse struct {
	Data  []BatchResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
