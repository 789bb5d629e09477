package postgres

import (
	"context"
	"fmt"

	"github.com/cobsari123-dotcom/marcket-app2/internal/domain"
	"github.com/cobsari123-dotcom/marcket-app2/pkg/database"
)

const listReviewsByProductSQL = `
	SELECT id, product_id, seller_id, user_id, rating, comment, created_at
	FROM reviews
	WHERE product_id = $1`

// The seller of the newest review wins, ties broken by review id.
const listReviewedProductsSQL = `
	SELECT DISTINCT ON (product_id) product_id, seller_id
	FROM reviews
	WHERE seller_id IS NOT NULL AND seller_id <> ''
	ORDER BY product_id, created_at DESC, id DESC`

// ReviewRepository reads reviews from PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// ListByProduct returns all reviews of a product in one read.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) (_ []domain.Review, err error) {
	ctx, end := database.TraceQuery(ctx, "ListReviewsByProduct", listReviewsByProductSQL)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, listReviewsByProductSQL, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews for product %s: %w", productID, err)
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var (
			rv                      domain.Review
			sellerID, userID, body *string
		)
		if err := rows.Scan(&rv.ID, &rv.ProductID, &sellerID, &userID, &rv.Rating, &body, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		rv.SellerID = deref(sellerID)
		rv.UserID = deref(userID)
		rv.Comment = deref(body)
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, nil
}

// ListReviewedProducts returns every product that has at least one review
// carrying a seller.
func (r *ReviewRepository) ListReviewedProducts(ctx context.Context) (_ []domain.ProductRef, err error) {
	ctx, end := database.TraceQuery(ctx, "ListReviewedProducts", listReviewedProductsSQL)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, listReviewedProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("list reviewed products: %w", err)
	}
	defer rows.Close()

	refs := make([]domain.ProductRef, 0)
	for rows.Next() {
		var ref domain.ProductRef
		if err := rows.Scan(&ref.ProductID, &ref.SellerID); err != nil {
			return nil, fmt.Errorf("scan product ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product refs: %w", err)
	}

	return refs, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
