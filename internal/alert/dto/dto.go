package dto

type EvaluateInput struct {
	TenantID     string
	ProductID    string
	ProductName  string
	NewQuantity  int64
	ReorderPoint int64
}

type AlertFilters struct {
	TenantID   string
	ProductID  string
	AlertType  string
	UnreadOnly bool
	Page       int
	PageSize   int
}
