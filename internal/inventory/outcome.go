package inventory

import "fmt"

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusError   Status = "ERROR"
)

type ErrorKind string

const (
	KindProductNotFound   ErrorKind = "PRODUCT_NOT_FOUND"
	KindInsufficientStock ErrorKind = "INSUFFICIENT_STOCK"
	KindValidationError   ErrorKind = "VALIDATION_ERROR"
	KindGenericError      ErrorKind = "GENERIC_ERROR"
)

// Outcome is the result of validating an item or a whole order. It doubles
// as the reply value; Kind is only meaningful on errors and is not serialized.
type Outcome struct {
	Status  Status    `json:"status"`
	Message string    `json:"message"`
	Data    *Product  `json:"data"`
	Kind    ErrorKind `json:"-"`
}

func (o Outcome) Failed() bool { return o.Status == StatusError }

func succeeded(message string, data *Product) Outcome {
	return Outcome{Status: StatusSuccess, Message: message, Data: data}
}

func failed(kind ErrorKind, message string) Outcome {
	return Outcome{Status: StatusError, Message: message, Kind: kind}
}

const orderValidatedMessage = "all order items validated successfully"

func productNotFoundMessage(productID int64) string {
	return fmt.Sprintf("product with id %d not found", productID)
}

func insufficientStockMessage(productID int64, requested, available int) string {
	return fmt.Sprintf("insufficient stock for product id %d: requested quantity %d, available quantity %d",
		productID, requested, available)
}

func itemValidatedMessage(productID int64) string {
	return fmt.Sprintf("product id %d validated successfully", productID)
}

func genericFailureMessage(cause any) string {
	return fmt.Sprintf("unable to process the order right now, try again later: %v", cause)
}
