package finance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"portfolioStatsBot/internal/analytics"
)

// maxConcurrentFetches bounds parallel requests to Yahoo
const maxConcurrentFetches = 3

// MarketData is what one run needs from the provider.
type MarketData struct {
	Prices   analytics.PriceStore
	Metadata map[string]analytics.Metadata
}

// fetchPortfolioAssets fetches daily prices for every symbol plus the
// benchmark, and metadata for the held symbols. Any symbol without prices
// fails the whole fetch; missing metadata is only logged.
func (p *Provider) fetchPortfolioAssets(ctx context.Context, symbols []string, benchmark string, start, end time.Time) (*MarketData, error) {
	want := make([]string, 0, len(symbols)+1)
	seen := map[string]bool{}
	for _, s := range append(append([]string{}, symbols...), benchmark) {
		if !seen[s] {
			seen[s] = true
			want = append(want, s)
		}
	}

	data := &MarketData{
		Prices:   make(analytics.PriceStore, len(want)),
		Metadata: make(map[string]analytics.Metadata, len(symbols)),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for _, sym := range want {
		g.Go(func() error {
			s, err := p.FetchDaily(gctx, sym, start, end)
			if err != nil {
				return fmt.Errorf("failed to fetch %s: %w", sym, err)
			}
			mu.Lock()
			data.Prices[sym] = s
			mu.Unlock()
			zap.L().Debug("yahoo: fetched daily bars", zap.String("symbol", sym), zap.Int("points", len(s)))
			return nil
		})
	}
	for _, sym := range symbols {
		g.Go(func() error {
			meta, err := p.FetchMetadata(gctx, sym)
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				zap.L().Warn("yahoo: metadata unavailable", zap.String("symbol", sym), zap.Error(err))
				return nil
			}
			mu.Lock()
			data.Metadata[sym] = meta
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}
