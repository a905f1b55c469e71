package dto

type CreateReportRequest struct {
	Direction string `json:"direction" validate:"required,oneof=forward backward"`
}

type ReportResponse struct {
	ID          string  `json:"id"`
	BatchID     string  `json:"batch_id"`
	Direction   string  `json:"direction"`
	Status      string  `json:"status"`
	PDFUrl      *string `json:"pdf_url"`
	LastError   *string `json:"last_error"`
	CreatedAt   string  `json:"created_at"`
}
