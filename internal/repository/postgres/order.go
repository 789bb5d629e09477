package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cobsari123-dotcom/marcket-app2/pkg/database"
	apperrors "github.com/cobsari123-dotcom/marcket-app2/pkg/errors"
)

const applyPaymentSQL = `
	UPDATE orders
	SET status = $1, payment_id = $2, payment_method = $3, updated_at = $4
	WHERE id = $5`

// OrderRepository updates orders in PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
	now  func() time.Time
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool, now: func() time.Time { return time.Now().UTC() }}
}

// ApplyPayment overwrites status, payment_id and payment_method. Applying
// the same payment twice leaves the row unchanged apart from updated_at.
func (r *OrderRepository) ApplyPayment(ctx context.Context, orderID, status string, paymentID int64, method string) (err error) {
	ctx, end := database.TraceQuery(ctx, "ApplyOrderPayment", applyPaymentSQL)
	defer func() { end(err) }()

	ct, err := r.pool.Exec(ctx, applyPaymentSQL, status, paymentID, method, r.now(), orderID)
	if err != nil {
		return fmt.Errorf("apply payment to order %s: %w", orderID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", orderID)
	}
	return nil
}
