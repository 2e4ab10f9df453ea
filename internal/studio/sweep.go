package studio

import (
	"context"
	"time"
)

// RunSweeper evicts devices that have gone silent. It ticks every interval,
// removes records older than maxAge, and broadcasts a refreshed roster only
// when something was actually removed. Blocks until ctx is cancelled.
func (s *Service) RunSweeper(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.registry.SweepStale(maxAge); len(removed) > 0 {
				s.BroadcastDeviceList()
			}
		}
	}
}
