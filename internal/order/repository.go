package order

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	ListByStatus(ctx context.Context, statuses []Status) ([]*Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*Order, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]*Order, error)

	// UpdateStatus commits a transition with a compare-and-swap on the
	// order's current status. A stale expected status yields
	// ErrConflict; a missing order yields ErrOrderNotFound.
	UpdateStatus(ctx context.Context, o *Order, expected Status) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Insert order
	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, customer_id, restaurant_id, restaurant_name, dasher_id,
			order_time, status, total_amount, payment_status,
			payment_method_id, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		o.ID,
		o.CustomerID,
		o.RestaurantID,
		o.RestaurantName,
		o.DasherID,
		o.OrderTime,
		o.Status,
		int64(o.TotalAmount),
		o.PaymentStatus,
		o.PaymentMethodID,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	// 2. Insert order items
	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, menu_item_id, name, quantity, unit_price
			) VALUES ($1,$2,$3,$4,$5)
		`,
			o.ID,
			item.MenuItemID,
			item.Name,
			item.Quantity,
			int64(item.UnitPrice),
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *repository) GetByID(ctx context.Context, orderID string) (*Order, error) {
	query := `
		SELECT id, customer_id, restaurant_id, restaurant_name, dasher_id,
		       order_time, status, total_amount, payment_status,
		       payment_method_id, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var o Order
	err := r.db.QueryRowContext(ctx, query, orderID).Scan(
		&o.ID,
		&o.CustomerID,
		&o.RestaurantID,
		&o.RestaurantName,
		&o.DasherID,
		&o.OrderTime,
		&o.Status,
		&o.TotalAmount,
		&o.PaymentStatus,
		&o.PaymentMethodID,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.fetchItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

func (r *repository) ListByStatus(ctx context.Context, statuses []Status) ([]*Order, error) {
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}

	query := `
		SELECT id, customer_id, restaurant_id, restaurant_name, dasher_id,
		       order_time, status, total_amount, payment_status,
		       payment_method_id, created_at, updated_at
		FROM orders
		WHERE status = ANY($1)
		ORDER BY created_at DESC
	`

	return r.list(ctx, query, pq.Array(values))
}

func (r *repository) ListByCustomer(ctx context.Context, customerID string) ([]*Order, error) {
	query := `
		SELECT id, customer_id, restaurant_id, restaurant_name, dasher_id,
		       order_time, status, total_amount, payment_status,
		       payment_method_id, created_at, updated_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`

	return r.list(ctx, query, customerID)
}

func (r *repository) ListByRestaurant(ctx context.Context, restaurantID string) ([]*Order, error) {
	query := `
		SELECT id, customer_id, restaurant_id, restaurant_name, dasher_id,
		       order_time, status, total_amount, payment_status,
		       payment_method_id, created_at, updated_at
		FROM orders
		WHERE restaurant_id = $1
		ORDER BY created_at DESC
	`

	return r.list(ctx, query, restaurantID)
}

func (r *repository) list(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		err := rows.Scan(
			&o.ID,
			&o.CustomerID,
			&o.RestaurantID,
			&o.RestaurantName,
			&o.DasherID,
			&o.OrderTime,
			&o.Status,
			&o.TotalAmount,
			&o.PaymentStatus,
			&o.PaymentMethodID,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}

	return orders, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, o *Order, expected Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, payment_status = $2, updated_at = $3
		WHERE id = $4 AND status = $5
	`,
		o.Status,
		o.PaymentStatus,
		o.UpdatedAt,
		o.ID,
		expected,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Distinguish a vanished order from a concurrent transition.
	var current Status
	err = r.db.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1`, o.ID).Scan(&current)
	if err == sql.ErrNoRows {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	return ErrConflict
}

func (r *repository) fetchItems(ctx context.Context, orderID string) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT menu_item_id, name, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.MenuItemID, &item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
