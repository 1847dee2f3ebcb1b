// Package events publishes pharmacy inventory events to the message broker.
package events

import (
	"context"

	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/domain"
	"github.com/pharmatrack/pharmatrack-backend/pkg/logger"
	"github.com/pharmatrack/pharmatrack-backend/pkg/messaging"
)

// PharmacyEventPublisher publishes inventory and sales events. A nil
// publisher is valid and drops everything, so the broker stays optional.
type PharmacyEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewPharmacyEventPublisher creates a new pharmacy event publisher
func NewPharmacyEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*PharmacyEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangePharmacyEvents, "pharmacy-service", log)
	if err != nil {
		return nil, err
	}

	return &PharmacyEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishSaleRecorded publishes a sale recorded event
func (p *PharmacyEventPublisher) PublishSaleRecorded(ctx context.Context, sale *domain.Sale) {
	if p == nil {
		return
	}

	data := messaging.SaleRecordedEvent{
		SaleID:       sale.ID,
		MedicineID:   sale.MedicineID,
		BatchID:      sale.BatchID,
		QuantitySold: sale.QuantitySold,
		SalePrice:    sale.SalePrice,
		SaleDate:     sale.SaleDate,
	}

	if err := p.publisher.Publish(ctx, messaging.EventSaleRecorded, data); err != nil {
		p.logger.Error().Err(err).Str("sale_id", sale.ID).Msg("failed to publish sale recorded event")
	}
}

// PublishStockReceived publishes a stock received event
func (p *PharmacyEventPublisher) PublishStockReceived(ctx context.Context, batch *domain.StockBatch) {
	if p == nil {
		return
	}

	data := messaging.StockReceivedEvent{
		BatchID:    batch.ID,
		MedicineID: batch.MedicineID,
		BatchCode:  batch.BatchCode,
		Quantity:   batch.Quantity,
		ExpiryDate: batch.ExpiryDate,
	}

	if err := p.publisher.Publish(ctx, messaging.EventStockReceived, data); err != nil {
		p.logger.Error().Err(err).Str("batch_id", batch.ID).Msg("failed to publish stock received event")
	}
}

// PublishStockAdjusted publishes a stock adjusted event
func (p *PharmacyEventPublisher) PublishStockAdjusted(ctx context.Context, batch *domain.StockBatch, adjustment int, reason string) {
	if p == nil {
		return
	}

	data := messaging.StockAdjustedEvent{
		BatchID:     batch.ID,
		MedicineID:  batch.MedicineID,
		Adjustment:  adjustment,
		NewQuantity: batch.Quantity,
		Reason:      reason,
	}

	if err := p.publisher.Publish(ctx, messaging.EventStockAdjusted, data); err != nil {
		p.logger.Error().Err(err).Str("batch_id", batch.ID).Msg("failed to publish stock adjusted event")
	}
}

// PublishLowStockAlert publishes an alert generated event for a low stock
// condition.
func (p *PharmacyEventPublisher) PublishLowStockAlert(ctx context.Context, alert domain.LowStockAlert) {
	if p == nil {
		return
	}

	data := messaging.AlertGeneratedEvent{
		AlertType:  "low_stock",
		Severity:   alert.Urgency,
		Message:    alert.MedicineName + " is below its reorder level",
		MedicineID: alert.MedicineID,
	}

	if err := p.publisher.Publish(ctx, messaging.EventAlertGenerated, data); err != nil {
		p.logger.Error().Err(err).Str("medicine_id", alert.MedicineID).Msg("failed to publish alert generated event")
	}
}
