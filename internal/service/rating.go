package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cobsari123-dotcom/marcket-app2/internal/domain"
	"github.com/cobsari123-dotcom/marcket-app2/internal/repository"
)

// RatingService keeps product rating aggregates in line with the review log.
type RatingService struct {
	reviews repository.ReviewRepository
	ratings repository.RatingRepository
	logger  *slog.Logger
	now     func() time.Time
}

// NewRatingService creates a new rating service.
func NewRatingService(reviews repository.ReviewRepository, ratings repository.RatingRepository, logger *slog.Logger) *RatingService {
	return &RatingService{
		reviews: reviews,
		ratings: ratings,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// OnReviewCreated recomputes the aggregate of productID under the seller of
// the triggering review. It never returns an error: failures are logged and
// reported as OutcomeFailed.
func (s *RatingService) OnReviewCreated(ctx context.Context, productID, reviewID string, review *domain.Review) domain.Outcome {
	l := ctxLogger(ctx, s.logger).With(slog.String("product_id", productID), slog.String("review_id", reviewID))

	if review == nil || review.SellerID == "" {
		l.ErrorContext(ctx, "review is missing a sellerId")
		return recordOutcome(handlerRatingAggregator, domain.OutcomeSkipped)
	}

	rating, err := s.Recompute(ctx, review.SellerID, productID)
	if err != nil {
		l.ErrorContext(ctx, "failed to update product rating",
			slog.String("seller_id", review.SellerID),
			slog.String("error", err.Error()),
		)
		return recordOutcome(handlerRatingAggregator, domain.OutcomeFailed)
	}
	if rating == nil {
		l.WarnContext(ctx, "no reviews found for product")
		return recordOutcome(handlerRatingAggregator, domain.OutcomeSkipped)
	}

	l.InfoContext(ctx, "product rating updated",
		slog.String("seller_id", rating.SellerID),
		slog.Float64("average_rating", rating.AverageRating),
		slog.Int("review_count", rating.ReviewCount),
	)
	return recordOutcome(handlerRatingAggregator, domain.OutcomeUpdated)
}

// Recompute reads every review of productID and overwrites the aggregate
// at (sellerID, productID). It returns nil without writing when the
// product has no reviews.
func (s *RatingService) Recompute(ctx context.Context, sellerID, productID string) (*domain.ProductRating, error) {
	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("read reviews: %w", err)
	}

	avg, count, ok := domain.ComputeRating(reviews)
	if !ok {
		return nil, nil
	}

	rating := &domain.ProductRating{
		SellerID:      sellerID,
		ProductID:     productID,
		AverageRating: avg,
		ReviewCount:   count,
		UpdatedAt:     s.now(),
	}
	if err := s.ratings.Upsert(ctx, rating); err != nil {
		return nil, fmt.Errorf("write rating: %w", err)
	}
	return rating, nil
}

// BackfillResult summarizes a Backfill run.
type BackfillResult struct {
	Updated int
	Skipped int
	Failed  int
}

// Backfill recomputes the aggregate of every reviewed product, keyed by the
// seller of its most recent review. A failing product is logged and does
// not stop the run.
func (s *RatingService) Backfill(ctx context.Context) (*BackfillResult, error) {
	refs, err := s.reviews.ListReviewedProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviewed products: %w", err)
	}

	res := &BackfillResult{}
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if ref.SellerID == "" {
			res.Skipped++
			s.logger.WarnContext(ctx, "latest review of product has no sellerId",
				slog.String("product_id", ref.ProductID),
			)
			continue
		}
		rating, err := s.Recompute(ctx, ref.SellerID, ref.ProductID)
		switch {
		case err != nil:
			res.Failed++
			s.logger.ErrorContext(ctx, "backfill failed for product",
				slog.String("product_id", ref.ProductID),
				slog.String("seller_id", ref.SellerID),
				slog.String("error", err.Error()),
			)
		case rating == nil:
			res.Skipped++
		default:
			res.Updated++
		}
	}

	s.logger.InfoContext(ctx, "rating backfill finished",
		slog.Int("products", len(refs)),
		slog.Int("updated", res.Updated),
		slog.Int("skipped", res.Skipped),
		slog.Int("failed", res.Failed),
	)
	return res, nil
}
