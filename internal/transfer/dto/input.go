package dto

import "github.com/stocknest/inventory-service/internal/model"

type TransferItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type CreateTransferInput struct {
	TenantID       string
	FromLocationID string
	ToLocationID   string
	RequestedBy    string
	Notes          string
	Items          []TransferItemInput
}

type UpdateStatusInput struct {
	TenantID   string
	TransferID string
	Status     model.TransferStatus
	ActorID    string
}
