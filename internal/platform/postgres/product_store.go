package postgres

import (
	"context"
	"errors"
	"fmt"

	"inventoryservice/internal/inventory"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const schema = `
CREATE TABLE IF NOT EXISTS tb_products (
	id                 BIGSERIAL PRIMARY KEY,
	name               TEXT           NOT NULL,
	description        TEXT           NOT NULL,
	available_quantity INTEGER        NOT NULL CHECK (available_quantity >= 0),
	price              NUMERIC(14, 2) NOT NULL CHECK (price >= 0),
	created_at         TIMESTAMPTZ    NOT NULL
)`

const selectColumns = `id, name, description, available_quantity, price::text, created_at`

// DB is the subset of *pgxpool.Pool used by the store.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProductStore implements inventory.Store on PostgreSQL. Each call is a
// single statement, so row updates are atomic without explicit transactions.
type ProductStore struct {
	db DB
}

func NewProductStore(db DB) *ProductStore {
	return &ProductStore{db: db}
}

// EnsureSchema creates the products table when it does not exist.
func (s *ProductStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}
	return nil
}

func (s *ProductStore) FindByID(ctx context.Context, id int64) (*inventory.Product, error) {
	row := s.db.QueryRow(ctx, `SELECT `+selectColumns+` FROM tb_products WHERE id = $1`, id)

	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", inventory.ErrProductNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return p, nil
}

func (s *ProductStore) List(ctx context.Context, spec inventory.PageSpec) (inventory.Page, error) {
	spec = spec.Normalize()

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM tb_products`).Scan(&total); err != nil {
		return inventory.Page{}, fmt.Errorf("failed to count products: %w", err)
	}

	query := `SELECT ` + selectColumns + ` FROM tb_products ORDER BY ` + orderClause(spec) + ` LIMIT $1 OFFSET $2`
	rows, err := s.db.Query(ctx, query, spec.Size, spec.Offset())
	if err != nil {
		return inventory.Page{}, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []inventory.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return inventory.Page{}, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return inventory.Page{}, fmt.Errorf("failed to list products: %w", err)
	}

	return inventory.NewPage(products, spec, total), nil
}

func (s *ProductStore) Create(ctx context.Context, p *inventory.Product) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO tb_products (name, description, available_quantity, price, created_at)
		VALUES ($1, $2, $3, $4::numeric, $5)
		RETURNING id
	`, p.Name, p.Description, p.AvailableQuantity, p.Price.String(), p.CreatedAt).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (s *ProductStore) Update(ctx context.Context, p *inventory.Product) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE tb_products
		SET name = $2, description = $3, available_quantity = $4, price = $5::numeric
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.AvailableQuantity, p.Price.String())
	if err != nil {
		return fmt.Errorf("failed to update product %d: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", inventory.ErrProductNotFound, p.ID)
	}
	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tb_products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", inventory.ErrProductNotFound, id)
	}
	return nil
}

func scanProduct(row pgx.Row) (*inventory.Product, error) {
	var (
		p     inventory.Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.AvailableQuantity, &price, &p.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", price, err)
	}
	p.Price = parsed
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

var sortColumns = map[inventory.SortField]string{
	inventory.SortByID:                "id",
	inventory.SortByName:              "name",
	inventory.SortByAvailableQuantity: "available_quantity",
	inventory.SortByPrice:             "price",
	inventory.SortByCreatedAt:         "created_at",
}

// orderClause only emits whitelisted column names.
func orderClause(spec inventory.PageSpec) string {
	column, ok := sortColumns[spec.Sort]
	if !ok {
		column = "created_at"
	}
	dir := "ASC"
	if spec.Desc {
		dir = "DESC"
	}
	if column == "id" {
		return "id " + dir
	}
	return column + " " + dir + ", id " + dir
}
