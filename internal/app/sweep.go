package app

import (
	"context"
	"time"

	"github.com/colonyops/extguard/internal/core/logging"
	datastores "github.com/colonyops/extguard/internal/data/stores"
)

// Sweep periodically deletes expired KV entries until ctx is cancelled.
func Sweep(ctx context.Context, kv *datastores.KVStore, interval time.Duration) {
	log := logging.Component("sweep")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := kv.SweepExpired(ctx)
			if err != nil {
				log.Debug().Err(err).Msg("kv sweep failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("removed", n).Msg("swept expired entries")
			}
		}
	}
}
