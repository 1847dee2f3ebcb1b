package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Exchange names
const (
	ExchangePharmacyEvents = "pharmacy.events"
)

// Event types (used as routing keys on the topic exchange)
const (
	EventSaleRecorded   = "sale.recorded"
	EventStockReceived  = "stock.received"
	EventStockAdjusted  = "stock.adjusted"
	EventAlertGenerated = "alert.generated"
)

// Event is the envelope shared by all published messages
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates an event envelope around the given payload
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Source:        source,
		CorrelationID: correlationID,
		OccurredAt:    time.Now().UTC(),
		Data:          raw,
	}, nil
}

// SaleRecordedEvent is published after a sale allocation commits
type SaleRecordedEvent struct {
	SaleID       string          `json:"sale_id"`
	MedicineID   string          `json:"medicine_id"`
	BatchID      string          `json:"batch_id"`
	QuantitySold int             `json:"quantity_sold"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	SaleDate     time.Time       `json:"sale_date"`
}

// StockReceivedEvent is published when a new stock batch is created
type StockReceivedEvent struct {
	BatchID    string    `json:"batch_id"`
	MedicineID string    `json:"medicine_id"`
	BatchCode  string    `json:"batch_code"`
	Quantity   int       `json:"quantity"`
	ExpiryDate time.Time `json:"expiry_date"`
}

// StockAdjustedEvent is published when a batch quantity is corrected
type StockAdjustedEvent struct {
	BatchID     string `json:"batch_id"`
	MedicineID  string `json:"medicine_id"`
	Adjustment  int    `json:"adjustment"`
	NewQuantity int    `json:"new_quantity"`
	Reason      string `json:"reason,omitempty"`
}

// AlertGeneratedEvent is published when a derived alert fires
type AlertGeneratedEvent struct {
	AlertType  string `json:"alert_type"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	MedicineID string `json:"medicine_id"`
	BatchID    string `json:"batch_id,omitempty"`
}
