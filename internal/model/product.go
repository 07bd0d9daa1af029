package model

type Product struct {
	BaseModel
	TenantID            string   `db:"tenant_id" json:"tenant_id"`
	SKU                 string   `db:"sku" json:"sku"`
	Barcode             *string  `db:"barcode" json:"barcode"` // Nullable
	Name                string   `db:"name" json:"name"`
	Description         *string  `db:"description" json:"description"`
	UnitCost            float64  `db:"unit_cost" json:"unit_cost"`
	SellingPrice        float64  `db:"selling_price" json:"selling_price"`
	UnitOfMeasure       string   `db:"unit_of_measure" json:"unit_of_measure"`
	DefaultReorderPoint *int64   `db:"default_reorder_point" json:"default_reorder_point"`
	IsActive            bool     `db:"is_active" json:"is_active"`
}

type Location struct {
	BaseModel
	TenantID  string `db:"tenant_id" json:"tenant_id"`
	Name      string `db:"name" json:"name"`
	IsPrimary bool   `db:"is_primary" json:"is_primary"`
	IsActive  bool   `db:"is_active" json:"is_active"`
}
