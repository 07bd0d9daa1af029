package dto

type ApplyDeltaInput struct {
	TenantID      string
	ProductID     string
	LocationID    *string
	Delta         int64
	EventType     string
	ReferenceType string // 'sale', 'transfer', 'purchase_order', 'manual'
	ReferenceID   string
	ActorID       string
	Note          string
}
