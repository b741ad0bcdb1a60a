package orders

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/order"
)

// ErrDuplicateNumber means the generated order number is already taken.
var ErrDuplicateNumber = errors.New("order number already used")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Create stores the order and its items in one transaction.
func (r *Repo) Create(ctx context.Context, o order.Order) (order.Order, error) {
	var addr []byte
	if o.ShippingAddress != nil {
		b, err := json.Marshal(o.ShippingAddress)
		if err != nil {
			return order.Order{}, err
		}
		addr = b
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return order.Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (order_number, user_id, total, discount, shipping_cost, status, payment_method, shipping_address)
		VALUES ($1,$2,$3::numeric,$4::numeric,$5::numeric,$6,$7,$8)
		RETURNING id, created_at
	`, o.Number, o.UserID, o.Total.StringFixed(2), o.Discount.StringFixed(2), o.ShippingCost.StringFixed(2),
		string(o.Status), o.PaymentMethod, addr,
	).Scan(&o.ID, &o.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return order.Order{}, ErrDuplicateNumber
	}
	if err != nil {
		return order.Order{}, err
	}

	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, size, color, unit_price, total_price)
			VALUES ($1,$2,$3,NULLIF($4,''),NULLIF($5,''),$6::numeric,$7::numeric)
			RETURNING id
		`, o.ID, it.ProductID, it.Quantity, it.Size, it.Color,
			it.UnitPrice.StringFixed(2), it.TotalPrice.StringFixed(2),
		).Scan(&it.ID)
		if err != nil {
			return order.Order{}, err
		}
		if _, err := tx.Exec(ctx, `UPDATE products SET stock = GREATEST(stock - $1, 0) WHERE id = $2`,
			it.Quantity, it.ProductID); err != nil {
			return order.Order{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return order.Order{}, err
	}
	return o, nil
}
