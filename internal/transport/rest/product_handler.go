package rest

import (
	"context"
	"net/http"
	"strconv"

	"inventoryservice/internal/inventory"
	"inventoryservice/internal/platform/observability"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductLedger is the product use case served over HTTP.
type ProductLedger interface {
	Create(ctx context.Context, req inventory.NewProduct) (*inventory.Product, error)
	ReplaceFields(ctx context.Context, id int64, update inventory.ProductUpdate) (*inventory.Product, error)
	SetQuantity(ctx context.Context, id int64, quantity *int) (*inventory.Product, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*inventory.Product, error)
	ListAll(ctx context.Context, spec inventory.PageSpec) (inventory.Page, error)
}

type ProductHandler struct {
	ledger ProductLedger
	logger observability.Logger
}

func NewProductHandler(ledger ProductLedger, logger observability.Logger) *ProductHandler {
	return &ProductHandler{ledger: ledger, logger: logger}
}

type quantityRequest struct {
	AvailableQuantity *int `json:"availableQuantity"`
}

func (h *ProductHandler) List(c *gin.Context) {
	spec, err := pageSpecFromQuery(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	page, err := h.ledger.ListAll(c.Request.Context(), spec)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if len(page.Content) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := h.ledger.FindByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req inventory.NewProduct
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.ledger.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.logger.Info("✅ Product created via API", zap.Int64("product_id", product.ID))
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Replace(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var update inventory.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.ledger.ReplaceFields(c.Request.Context(), id, update)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) SetQuantity(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.ledger.SetQuantity(c.Request.Context(), id, req.AvailableQuantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	if err := h.ledger.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	h.logger.Info("🗑️ Product deleted via API", zap.Int64("product_id", id))
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, http.StatusBadRequest, "product id must be a positive integer")
		return 0, false
	}
	return id, true
}

func pageSpecFromQuery(c *gin.Context) (inventory.PageSpec, error) {
	spec := inventory.DefaultPageSpec()

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return spec, inventory.ValidationErrors{{Field: "page", Message: "must be a non-negative integer"}}
		}
		spec.Page = page
	}
	if raw := c.Query("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return spec, inventory.ValidationErrors{{Field: "size", Message: "must be a positive integer"}}
		}
		spec.Size = size
	}
	if raw := c.Query("sort"); raw != "" {
		field, desc, err := inventory.ParseSort(raw)
		if err != nil {
			return spec, err
		}
		spec.Sort, spec.Desc = field, desc
	}

	return spec.Normalize(), nil
}
