package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Envelope is the inbound message shape: a routing pattern plus the order.
type Envelope struct {
	Pattern string       `json:"pattern"`
	Data    OrderRequest `json:"data"`
}

type OrderRequest struct {
	ClientID int64           `json:"clientId"`
	Items    []OrderLineItem `json:"items"`
}

// OrderLineItem is one requested product. UnitPrice is informational; the
// product's own price is authoritative. It is re-emitted in normalized decimal
// form, so 19.90 comes back as 19.9.
type OrderLineItem struct {
	ProductID int64               `json:"productId"`
	Quantity  int                 `json:"quantity"`
	UnitPrice decimal.NullDecimal `json:"unitPrice"`
}

// ErrorEvent is published to the error topic for every rejected order.
type ErrorEvent struct {
	ErrorKind    ErrorKind    `json:"errorKind"`
	Message      string       `json:"message"`
	OrderRequest OrderRequest `json:"orderRequest"`
	Timestamp    time.Time    `json:"timestamp"`
}
