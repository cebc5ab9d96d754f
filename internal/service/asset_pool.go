// Package service provides the visualizer logic: asset pool, frame renderer,
// transition clock, render loop and interaction controller.
package service

import (
	"context"
	"image"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/tejashwikalptaru/apparition/internal/domain"
	"github.com/tejashwikalptaru/apparition/internal/ports"
)

// AssetPool is a fixed, load-once registry of decorative images.
//
// Every asset resolves independently to ready or failed. Once all of them have
// resolved the pool reports ready; readiness never reverts.
//
// Thread-safety: all methods are safe for concurrent use.
type AssetPool struct {
	// Dependencies (injected)
	logger *slog.Logger
	loader ports.AssetLoader
	bus    ports.EventBus

	// When true PickRandom only returns assets that loaded successfully
	skipFailed bool

	mu       sync.RWMutex
	assets   []domain.DecorativeAsset
	started  bool
	resolved int
	failed   int

	ready atomic.Bool
	wg    sync.WaitGroup
}

// NewAssetPool creates an empty asset pool.
func NewAssetPool(logger *slog.Logger, loader ports.AssetLoader, bus ports.EventBus) *AssetPool {
	return &AssetPool{
		logger: logger,
		loader: loader,
		bus:    bus,
	}
}

// SetSkipFailed restricts PickRandom to successfully loaded assets.
// By default failed assets can be picked as well; drawing them is a no-op.
func (p *AssetPool) SetSkipFailed(skip bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.skipFailed = skip
}

// Load begins asynchronous loading of every named asset, exactly once per pool.
// It returns immediately; load failures are logged and published, never returned.
//
// An empty name list leaves the pool permanently not ready.
func (p *AssetPool) Load(ctx context.Context, names []string) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return domain.ErrAssetsAlreadyLoaded
	}
	p.started = true
	p.assets = make([]domain.DecorativeAsset, len(names))
	for i, name := range names {
		p.assets[i] = domain.DecorativeAsset{Name: name, State: domain.AssetPending}
	}
	p.mu.Unlock()

	if len(names) == 0 {
		p.logger.Warn("no decorative assets configured; decorations stay disabled")
		return nil
	}

	p.logger.Debug("loading decorative assets", slog.Int("count", len(names)))

	p.wg.Add(len(names))
	for i, name := range names {
		go func() {
			defer p.wg.Done()
			img, err := p.loader.Load(ctx, name)
			p.resolve(i, img, err)
		}()
	}

	return nil
}

// resolve records the outcome of one asset load.
func (p *AssetPool) resolve(index int, img image.Image, err error) {
	p.mu.Lock()
	asset := &p.assets[index]
	if err != nil {
		asset.State = domain.AssetFailed
		asset.Err = err
		p.failed++
	} else {
		asset.State = domain.AssetReady
		asset.Image = img
	}
	p.resolved++
	name := asset.Name
	done := p.resolved == len(p.assets)
	loaded, failed := p.resolved-p.failed, p.failed
	p.mu.Unlock()

	if err != nil {
		p.logger.Warn("could not load decorative asset", slog.String("name", name), slog.Any("error", err))
		p.bus.Publish(domain.NewAssetFailedEvent(name, err))
	} else {
		p.bus.Publish(domain.NewAssetLoadedEvent(name))
	}

	if done {
		p.ready.Store(true)
		p.logger.Info("decorative assets resolved", slog.Int("loaded", loaded), slog.Int("failed", failed))
		p.bus.Publish(domain.NewAssetsReadyEvent(loaded, failed))
	}
}

// IsReady reports whether every asset has resolved. It never blocks.
func (p *AssetPool) IsReady() bool {
	return p.ready.Load()
}

// Wait blocks until every started load has finished or ctx is done.
func (p *AssetPool) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PickRandom returns a uniformly chosen asset.
// Unless SetSkipFailed(true) was called, failed assets are candidates too.
// The second result is false when there is nothing to pick.
func (p *AssetPool) PickRandom(rng *rand.Rand) (*domain.DecorativeAsset, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.skipFailed {
		if len(p.assets) == 0 {
			return nil, false
		}
		asset := p.assets[rng.IntN(len(p.assets))]
		return &asset, true
	}

	ready := make([]int, 0, len(p.assets))
	for i := range p.assets {
		if p.assets[i].State == domain.AssetReady {
			ready = append(ready, i)
		}
	}
	if len(ready) == 0 {
		return nil, false
	}
	asset := p.assets[ready[rng.IntN(len(ready))]]
	return &asset, true
}

// Assets returns a snapshot of all assets in load order.
func (p *AssetPool) Assets() []domain.DecorativeAsset {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]domain.DecorativeAsset(nil), p.assets...)
}
