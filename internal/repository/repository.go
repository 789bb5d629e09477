package repository

import (
	"context"

	"github.com/cobsari123-dotcom/marcket-app2/internal/domain"
)

// ReviewRepository reads the review log.
type ReviewRepository interface {
	// ListByProduct returns every review of productID, regardless of seller.
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)

	// ListReviewedProducts returns one entry per reviewed product, with the
	// seller of its most recent review.
	ListReviewedProducts(ctx context.Context) ([]domain.ProductRef, error)
}

// RatingRepository stores product rating aggregates.
type RatingRepository interface {
	// Upsert replaces the aggregate keyed by (SellerID, ProductID).
	Upsert(ctx context.Context, rating *domain.ProductRating) error
}

// OrderRepository applies payment outcomes to orders.
type OrderRepository interface {
	// ApplyPayment overwrites the order's status and payment fields.
	// Returns a not-found error when the order does not exist.
	ApplyPayment(ctx context.Context, orderID, status string, paymentID int64, method string) error
}

// ChatRoomRepository reads chat room membership.
type ChatRoomRepository interface {
	// GetParticipants returns the room's participants in join order.
	// Returns a not-found error when the room does not exist.
	GetParticipants(ctx context.Context, roomID string) ([]string, error)
}

// UserRepository reads user profile fields. Each getter returns "" when
// the field is unset and a not-found error when the user does not exist.
type UserRepository interface {
	GetFCMToken(ctx context.Context, userID string) (string, error)
	GetFullName(ctx context.Context, userID string) (string, error)
	GetEmail(ctx context.Context, userID string) (string, error)
}
