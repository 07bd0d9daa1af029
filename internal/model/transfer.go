package model

type TransferStatus string

const (
	TransferPending   TransferStatus = "PENDING"
	TransferInTransit TransferStatus = "IN_TRANSIT"
	TransferCompleted TransferStatus = "COMPLETED"
	TransferCancelled TransferStatus = "CANCELLED"
)

// transferTransitions is the full lifecycle. COMPLETED and CANCELLED are
// terminal.
var transferTransitions = map[TransferStatus][]TransferStatus{
	TransferPending:   {TransferInTransit, TransferCancelled},
	TransferInTransit: {TransferCompleted, TransferCancelled},
}

// CanTransitionTo reports whether a status change is legal.
func (s TransferStatus) CanTransitionTo(next TransferStatus) bool {
	for _, allowed := range transferTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s TransferStatus) IsTerminal() bool {
	return len(transferTransitions[s]) == 0
}

func (s TransferStatus) Valid() bool {
	switch s {
	case TransferPending, TransferInTransit, TransferCompleted, TransferCancelled:
		return true
	}
	return false
}

// StockTransfer is a declared movement of stock between two locations. Stock
// only moves when the transfer completes; until then it is a declaration.
type StockTransfer struct {
	BaseModel
	TenantID       string         `db:"tenant_id" json:"tenant_id"`
	FromLocationID string         `db:"from_location_id" json:"from_location_id"`
	ToLocationID   string         `db:"to_location_id" json:"to_location_id"`
	Status         TransferStatus `db:"status" json:"status"`
	RequestedBy    string         `db:"requested_by" json:"requested_by"`
	Notes          string         `db:"notes" json:"notes"`
	Items          []TransferItem `db:"-" json:"items"`
}

// TransferItem rows are fixed at creation; adjust by cancel-and-recreate.
type TransferItem struct {
	ID         string `db:"id" json:"id"`
	TransferID string `db:"transfer_id" json:"transfer_id"`
	ProductID  string `db:"product_id" json:"product_id"`
	Quantity   int64  `db:"quantity" json:"quantity"`
}
