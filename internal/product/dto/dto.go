package dto

type ProductFilters struct {
	TenantID    string
	IsActive    *bool
	SearchQuery string // Matches name, sku, barcode
	Page        int
	PageSize    int
}
