package inventory

import (
	"context"
	"time"

	"inventoryservice/internal/platform/observability"

	"go.uber.org/zap"
)

// Ledger owns the product mutation rules. Every operation loads and writes a
// single row through the store.
type Ledger struct {
	store      Store
	validation *Validation
	logger     observability.Logger
	now        func() time.Time
}

func NewLedger(store Store, validation *Validation, logger observability.Logger) *Ledger {
	return &Ledger{
		store:      store,
		validation: validation,
		logger:     logger,
		now:        time.Now,
	}
}

// Create stores a new product. The quantity must be positive.
func (l *Ledger) Create(ctx context.Context, req NewProduct) (*Product, error) {
	if err := l.validation.ValidateNewProduct(req); err != nil {
		return nil, err
	}

	p := &Product{
		Name:              req.Name,
		Description:       req.Description,
		AvailableQuantity: req.AvailableQuantity,
		Price:             req.Price,
		CreatedAt:         l.now().UTC(),
	}
	if err := l.store.Create(ctx, p); err != nil {
		l.logger.Error("❌ Failed to create product", zap.Error(err), zap.String("name", req.Name))
		return nil, err
	}

	l.logger.Info("✅ Product created",
		zap.Int64("product_id", p.ID),
		zap.Int("available_quantity", p.AvailableQuantity),
	)
	return p, nil
}

// ReplaceFields overwrites the supplied descriptive fields. Quantity is kept.
func (l *Ledger) ReplaceFields(ctx context.Context, id int64, update ProductUpdate) (*Product, error) {
	p, err := l.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := l.validation.ValidateProductUpdate(update); err != nil {
		return nil, err
	}

	update.apply(p)
	if err := l.store.Update(ctx, p); err != nil {
		l.logger.Error("❌ Failed to update product", zap.Error(err), zap.Int64("product_id", id))
		return nil, err
	}
	return p, nil
}

// SetQuantity sets the stock level. A nil or non-positive quantity is
// rejected with ErrInvalidQuantity.
func (l *Ledger) SetQuantity(ctx context.Context, id int64, quantity *int) (*Product, error) {
	p, err := l.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quantity == nil || *quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	p.AvailableQuantity = *quantity
	if err := l.store.Update(ctx, p); err != nil {
		l.logger.Error("❌ Failed to set product quantity", zap.Error(err), zap.Int64("product_id", id))
		return nil, err
	}

	l.logger.Info("📦 Product quantity set",
		zap.Int64("product_id", id),
		zap.Int("available_quantity", p.AvailableQuantity),
	)
	return p, nil
}

func (l *Ledger) Delete(ctx context.Context, id int64) error {
	if _, err := l.store.FindByID(ctx, id); err != nil {
		return err
	}
	if err := l.store.Delete(ctx, id); err != nil {
		l.logger.Error("❌ Failed to delete product", zap.Error(err), zap.Int64("product_id", id))
		return err
	}
	return nil
}

func (l *Ledger) FindByID(ctx context.Context, id int64) (*Product, error) {
	return l.store.FindByID(ctx, id)
}

// ListAll returns a page of products, newest first unless spec says otherwise.
func (l *Ledger) ListAll(ctx context.Context, spec PageSpec) (Page, error) {
	return l.store.List(ctx, spec.Normalize())
}
