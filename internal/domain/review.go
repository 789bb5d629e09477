package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Review is one buyer review of a product. Reviews are immutable once
// written.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	SellerID  string    `json:"sellerId"`
	UserID    string    `json:"userId,omitempty"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductRating is the aggregate rating of a product under one seller. It
// is always rebuilt from the full review set.
type ProductRating struct {
	SellerID      string    `json:"seller_id"`
	ProductID     string    `json:"product_id"`
	AverageRating float64   `json:"averageRating"`
	ReviewCount   int       `json:"reviewCount"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProductRef identifies a reviewed product and the seller its aggregate is
// stored under.
type ProductRef struct {
	ProductID string `json:"product_id"`
	SellerID  string `json:"seller_id"`
}

// RatingPrecision is the number of decimal places kept in AverageRating.
const RatingPrecision = 2

// ComputeRating returns the mean rating of reviews rounded half away from
// zero to RatingPrecision places, and the review count. It returns ok=false
// for an empty set.
func ComputeRating(reviews []Review) (average float64, count int, ok bool) {
	if len(reviews) == 0 {
		return 0, 0, false
	}

	sum := decimal.Zero
	for _, r := range reviews {
		sum = sum.Add(decimal.NewFromFloat(r.Rating))
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(reviews)))).Round(RatingPrecision)
	return avg.InexactFloat64(), len(reviews), true
}
