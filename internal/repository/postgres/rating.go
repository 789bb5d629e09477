package postgres

import (
	"context"
	"fmt"

	"github.com/cobsari123-dotcom/marcket-app2/internal/domain"
	"github.com/cobsari123-dotcom/marcket-app2/pkg/database"
)

const upsertRatingSQL = `
	INSERT INTO product_ratings (seller_id, product_id, average_rating, review_count, updated_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (seller_id, product_id) DO UPDATE
	SET average_rating = EXCLUDED.average_rating,
	    review_count = EXCLUDED.review_count,
	    updated_at = EXCLUDED.updated_at`

// RatingRepository writes rating aggregates to PostgreSQL.
type RatingRepository struct {
	pool database.DBTX
}

// NewRatingRepository creates a new PostgreSQL-backed rating repository.
func NewRatingRepository(pool database.DBTX) *RatingRepository {
	return &RatingRepository{pool: pool}
}

// Upsert overwrites the aggregate for (seller, product). Concurrent writers
// race; the last write wins.
func (r *RatingRepository) Upsert(ctx context.Context, rating *domain.ProductRating) (err error) {
	ctx, end := database.TraceQuery(ctx, "UpsertProductRating", upsertRatingSQL)
	defer func() { end(err) }()

	_, err = r.pool.Exec(ctx, upsertRatingSQL,
		rating.SellerID,
		rating.ProductID,
		rating.AverageRating,
		rating.ReviewCount,
		rating.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert rating for %s/%s: %w", rating.SellerID, rating.ProductID, err)
	}
	return nil
}
