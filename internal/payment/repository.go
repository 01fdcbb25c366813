package payment

import (
	"context"
	"database/sql"
)

type Repository interface {
	SavePayment(ctx context.Context, p *Payment) error
	UpdateStatus(ctx context.Context, providerPaymentID, status string) error
	GetByOrder(ctx context.Context, orderID string) (*Payment, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SavePayment(ctx context.Context, p *Payment) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO payments (
			order_id, provider_payment_id, idempotency_key,
			amount, status, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
		RETURNING id
	`,
		p.OrderID,
		p.ProviderPaymentID,
		p.IdempotencyKey,
		int64(p.Amount),
		p.Status,
	).Scan(&p.ID)
}

func (r *repository) UpdateStatus(ctx context.Context, providerPaymentID, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = $1, updated_at = NOW()
		WHERE provider_payment_id = $2
	`, status, providerPaymentID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repository) GetByOrder(ctx context.Context, orderID string) (*Payment, error) {
	var p Payment
	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, provider_payment_id, idempotency_key,
		       amount, status, created_at, updated_at
		FROM payments
		WHERE order_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, orderID).Scan(
		&p.ID,
		&p.OrderID,
		&p.ProviderPaymentID,
		&p.IdempotencyKey,
		&p.Amount,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
