package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stocknest/inventory-service/internal/sales"
	"github.com/stocknest/inventory-service/internal/sales/dto"
	"github.com/stocknest/inventory-service/pkg/broker"
	"github.com/stocknest/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

// SalesListener consumes POS order events and records them as sales, which
// deducts stock through the sale processor.
type SalesListener struct {
	consumer *broker.KafkaConsumer
	uc       sales.UseCase
	logger   logger.ZapLogger
}

func NewSalesListener(consumer *broker.KafkaConsumer, uc sales.UseCase, log logger.ZapLogger) *SalesListener {
	return &SalesListener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
	}
}

func (l *SalesListener) Start(ctx context.Context) {
	l.logger.Info("starting sales kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping sales kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID         string             `json:"id"`
	TenantID   string             `json:"tenant_id"`
	CustomerID string             `json:"customer_id"`
	Notes      string             `json:"notes"`
	Items      []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductID string  `json:"product_id"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Discount  float64 `json:"discount"`
}

func (l *SalesListener) processMessage(ctx context.Context, value []byte) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "OrderCreated" {
		return
	}

	l.logger.Info("processing OrderCreated event", zap.String("order_id", event.Payload.ID))

	input := &dto.SellInput{
		TenantID:   event.Payload.TenantID,
		CustomerID: event.Payload.CustomerID,
		Notes:      event.Payload.Notes,
		ActorID:    "system",
	}
	for _, item := range event.Payload.Items {
		input.Items = append(input.Items, dto.SellItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
		})
	}

	if _, err := l.uc.Sell(ctx, input); err != nil {
		l.logger.Error("failed to record sale for order",
			zap.String("order_id", event.Payload.ID),
			zap.Error(err),
		)
	}
}
