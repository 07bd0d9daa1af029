package dto

// Manual adjustment change types.
const (
	ChangeAdd     = "add"
	ChangeRemove  = "remove"
	ChangeRestock = "restock"
)

type AdjustInput struct {
	TenantID       string
	ProductID      string
	LocationID     *string
	QuantityChange int64 // Magnitude; sign comes from ChangeType
	ChangeType     string
	Note           string
	ActorID        string
}

type SellItemInput struct {
	ProductID string  `json:"product_id"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Discount  float64 `json:"discount"`
}

type SellInput struct {
	TenantID   string
	Items      []SellItemInput
	CustomerID string
	Notes      string
	ActorID    string
}
