package model

type Sale struct {
	BaseModel
	TenantID      string     `db:"tenant_id" json:"tenant_id"`
	SaleNumber    string     `db:"sale_number" json:"sale_number"`
	CustomerID    *string    `db:"customer_id" json:"customer_id"`
	Subtotal      float64    `db:"subtotal" json:"subtotal"`
	DiscountTotal float64    `db:"discount_total" json:"discount_total"`
	Total         float64    `db:"total" json:"total"`
	Notes         string     `db:"notes" json:"notes"`
	CreatedBy     *string    `db:"created_by" json:"created_by"`
	Items         []SaleItem `db:"-" json:"items"`
}

type SaleItem struct {
	ID        string  `db:"id" json:"id"`
	SaleID    string  `db:"sale_id" json:"sale_id"`
	ProductID string  `db:"product_id" json:"product_id"`
	Quantity  int64   `db:"quantity" json:"quantity"`
	UnitPrice float64 `db:"unit_price" json:"unit_price"`
	Discount  float64 `db:"discount" json:"discount"`
	LineTotal float64 `db:"line_total" json:"line_total"`
}
