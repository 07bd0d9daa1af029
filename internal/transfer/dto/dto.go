package dto

type TransferFilters struct {
	TenantID string
	Status   string
	Page     int
	PageSize int
}
