package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cobsari123-dotcom/marcket-app2/internal/domain"
	"github.com/cobsari123-dotcom/marcket-app2/internal/service"
)

type ratingBackfiller interface {
	Recompute(ctx context.Context, sellerID, productID string) (*domain.ProductRating, error)
	Backfill(ctx context.Context) (*service.BackfillResult, error)
}

type openFunc func(ctx context.Context) (ratingBackfiller, func(), error)

func backfillCmd(open openFunc) *cobra.Command {
	var productID, sellerID string

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Recompute rating aggregates from the review log",
		Long: `Recompute product rating aggregates from the review log.

Without flags every reviewed product is recomputed under the seller of its
most recent review. With --product and --seller only that aggregate is
rewritten.

Examples:
  ratings backfill
  ratings backfill --product p-123 --seller s-9`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (productID == "") != (sellerID == "") {
				return errors.New("--product and --seller must be given together")
			}

			svc, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			if productID != "" {
				rating, err := svc.Recompute(cmd.Context(), sellerID, productID)
				if err != nil {
					return fmt.Errorf("recompute %s: %w", productID, err)
				}
				if rating == nil {
					fmt.Fprintf(out, "product %s has no reviews, nothing written\n", productID)
					return nil
				}
				fmt.Fprintf(out, "product %s: average %.2f over %d reviews\n",
					productID, rating.AverageRating, rating.ReviewCount)
				return nil
			}

			res, err := svc.Backfill(cmd.Context())
			if res != nil {
				fmt.Fprintf(out, "updated=%d skipped=%d failed=%d\n", res.Updated, res.Skipped, res.Failed)
			}
			if err != nil {
				return fmt.Errorf("backfill: %w", err)
			}
			if res.Failed > 0 {
				return fmt.Errorf("%d products failed", res.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "recompute a single product")
	cmd.Flags().StringVar(&sellerID, "seller", "", "seller that owns --product")

	return cmd
}
