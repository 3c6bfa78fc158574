package worker

// lowstock_cron.go
// Background goroutine that periodically sweeps the ledger for products
// at or below their minimum and enqueues a digest alert. Catches
// products that fell below minimum through manual issues or while the
// worker pool was down.

import (
	"context"
	"time"

	"github.com/pedroaraujox/Viza-Stock/internal/repository"

	"github.com/rs/zerolog/log"
)

const sweepInterval = 15 * time.Minute

// LowStockCronConfig holds the dependencies for the sweep goroutine.
type LowStockCronConfig struct {
	Products   repository.ProductRepository
	Dispatcher *Dispatcher
}

// StartLowStockCron launches a background goroutine that ticks every
// sweepInterval, queries products below minimum, and enqueues a single
// digest job. It respects the context for graceful shutdown.
func StartLowStockCron(ctx context.Context, cfg LowStockCronConfig) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		log.Info().Msg("lowstock_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("lowstock_cron: shutting down")
				return
			case <-ticker.C:
				sweep(ctx, cfg)
			}
		}
	}()
}

func sweep(ctx context.Context, cfg LowStockCronConfig) {
	products, err := cfg.Products.ListBelowMinimum(ctx)
	if err != nil {
		log.Error().Err(err).Msg("lowstock_cron: failed to query products below minimum")
		return
	}
	if len(products) == 0 {
		return
	}

	digest := LowStockDigestPayload{Products: make([]LowStockPayload, 0, len(products))}
	for i := range products {
		p := &products[i]
		digest.Products = append(digest.Products, LowStockPayload{
			ProductCode: p.ID,
			ProductName: p.Name,
			Quantity:    p.Quantity.String(),
			MinQuantity: p.MinQuantity.String(),
			Unit:        p.Unit,
		})
	}

	if err := cfg.Dispatcher.EnqueueLowStockDigest(ctx, digest); err != nil {
		log.Error().Err(err).Msg("lowstock_cron: failed to enqueue digest")
		return
	}
	log.Info().Int("count", len(digest.Products)).Msg("lowstock_cron: digest enqueued")
}
