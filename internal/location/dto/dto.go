package dto

type CreateLocationInput struct {
	TenantID  string
	Name      string
	IsPrimary bool
}

type UpdateLocationInput struct {
	ID        string
	TenantID  string
	Name      string
	IsPrimary bool
	IsActive  bool
}

type LocationFilters struct {
	TenantID string
	IsActive *bool
	Page     int
	PageSize int
}
