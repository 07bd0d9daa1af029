package dto

type CreateProductInput struct {
	TenantID            string
	SKU                 string
	Barcode             string
	Name                string
	Description         string
	UnitCost            float64
	SellingPrice        float64
	UnitOfMeasure       string
	DefaultReorderPoint *int64
}

type UpdateProductInput struct {
	ID                  string
	TenantID            string
	SKU                 string
	Barcode             string
	Name                string
	Description         string
	UnitCost            float64
	SellingPrice        float64
	UnitOfMeasure       string
	DefaultReorderPoint *int64
	IsActive            bool
}
