package inventory

import (
	"context"
	"errors"
	"fmt"

	"inventoryservice/internal/platform/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// OrderValidator checks order line items against the store. It never
// reserves or decrements stock.
type OrderValidator struct {
	store  Store
	logger observability.Logger
	tracer observability.Tracer
}

func NewOrderValidator(store Store, logger observability.Logger, tracer observability.Tracer) *OrderValidator {
	return &OrderValidator{
		store:  store,
		logger: logger,
		tracer: tracer,
	}
}

// ValidateOrderItem decides a single item. The returned error is non-nil only
// for unexpected store failures; missing products and short stock are
// reported as ERROR outcomes.
func (v *OrderValidator) ValidateOrderItem(ctx context.Context, item OrderLineItem) (Outcome, error) {
	product, err := v.store.FindByID(ctx, item.ProductID)
	if errors.Is(err, ErrProductNotFound) {
		return failed(KindProductNotFound, productNotFoundMessage(item.ProductID)), nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("look up product %d: %w", item.ProductID, err)
	}

	if item.Quantity > product.AvailableQuantity {
		return failed(KindInsufficientStock,
			insufficientStockMessage(item.ProductID, item.Quantity, product.AvailableQuantity)), nil
	}

	return succeeded(itemValidatedMessage(item.ProductID), product), nil
}

// ValidateOrder evaluates items in list order and stops at the first ERROR.
// It always returns an outcome: store failures and panics become
// GENERIC_ERROR outcomes.
func (v *OrderValidator) ValidateOrder(ctx context.Context, order OrderRequest) (outcome Outcome) {
	ctx, span := v.tracer.Start(ctx, "order_validation")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order.client_id", order.ClientID),
		attribute.Int("order.item_count", len(order.Items)),
		attribute.String("inventory.operation", "stock_check"),
	)

	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("❌ Panic while validating order",
				zap.Any("panic", r),
				zap.Int64("order_client_id", order.ClientID),
			)
			outcome = failed(KindGenericError, genericFailureMessage(r))
		}
		if outcome.Failed() {
			span.SetAttributes(attribute.String("inventory.error_kind", string(outcome.Kind)))
			span.SetStatus(codes.Error, outcome.Message)
		} else {
			span.SetStatus(codes.Ok, outcome.Message)
		}
	}()

	for i, item := range order.Items {
		result, err := v.ValidateOrderItem(ctx, item)
		if err != nil {
			v.logger.Error("❌ Failed to validate order item",
				zap.Error(err),
				zap.Int("item_index", i),
				zap.Int64("product_id", item.ProductID),
			)
			span.RecordError(err)
			return failed(KindGenericError, genericFailureMessage(err))
		}
		if result.Failed() {
			span.SetAttributes(attribute.Int("inventory.failed_item_index", i))
			v.logger.Info("🚫 Order item rejected",
				zap.Int64("order_client_id", order.ClientID),
				zap.Int64("product_id", item.ProductID),
				zap.String("error_kind", string(result.Kind)),
				zap.String("reason", result.Message),
			)
			return result
		}
	}

	v.logger.Info("✅ Order validated",
		zap.Int64("order_client_id", order.ClientID),
		zap.Int("item_count", len(order.Items)),
	)
	return succeeded(orderValidatedMessage, nil)
}
