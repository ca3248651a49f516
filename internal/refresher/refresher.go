package refresher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"bedboard-backend/config"
	"bedboard-backend/internal/occupancy"
	"bedboard-backend/internal/seed"
	"bedboard-backend/internal/store"
)

// Invalidator drops cached responses after the census changes.
type Invalidator interface {
	Flush(ctx context.Context) error
}

// TierChange records a unit whose occupancy tier moved between two loads.
// An empty tier stands for a unit without beds.
type TierChange struct {
	Unit string
	From occupancy.Tier
	To   occupancy.Tier
}

// Service loads the census into the store, once at startup and then on
// every reload interval.
type Service struct {
	cfg    *config.CensusConfig
	store  store.Store
	cache  Invalidator
	logger *zap.Logger
	load   func(path string) (*store.Census, error)

	mu    sync.Mutex
	tiers map[string]occupancy.Tier
}

// NewService creates a refresher reading the census file named in cfg.
func NewService(cfg *config.CensusConfig, s store.Store, cache Invalidator, log *zap.Logger) *Service {
	return &Service{
		cfg:    cfg,
		store:  s,
		cache:  cache,
		logger: log,
		load:   seed.Load,
	}
}

// Run reloads the census on a timer until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	if s.cfg.ReloadInterval <= 0 {
		s.logger.Info("census reloading is disabled")
		return
	}
	s.logger.Info("starting census refresher", zap.Duration("interval", s.cfg.ReloadInterval))

	timer := time.NewTimer(s.cfg.ReloadInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("census refresher shutting down")
			return
		case <-timer.C:
			// Failures are logged by RefreshOnce; the previous census stays in place.
			_, _ = s.RefreshOnce(ctx)
			timer.Reset(s.cfg.ReloadInterval)
		}
	}
}

// RefreshOnce loads the census, replaces the stored snapshot and flushes
// cached responses. It returns the units whose tier changed since the
// previous successful load.
func (s *Service) RefreshOnce(ctx context.Context) ([]TierChange, error) {
	source := s.cfg.Path
	if source == "" {
		source = "built-in"
	}

	census, err := s.load(s.cfg.Path)
	if err != nil {
		s.logger.Error("census load failed, keeping previous snapshot", zap.String("source", source), zap.Error(err))
		return nil, fmt.Errorf("failed to load census: %w", err)
	}

	tiers := make(map[string]occupancy.Tier, len(census.Units))
	for _, u := range census.Units {
		c, err := occupancy.Classify(u.TotalBeds, u.OccupiedBeds)
		if err != nil && !errors.Is(err, occupancy.ErrUndefinedRate) {
			s.logger.Error("census rejected", zap.String("unit", u.Name), zap.Error(err))
			return nil, fmt.Errorf("unit %q: %w", u.Name, err)
		}
		tiers[u.Name] = c.Tier
	}

	if err := s.store.ReplaceCensus(ctx, census); err != nil {
		s.logger.Error("census store failed, keeping previous snapshot", zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Flush(ctx); err != nil {
			s.logger.Warn("failed to flush response cache", zap.Error(err))
		}
	}

	changes := s.swapTiers(tiers)
	for _, ch := range changes {
		fields := []zap.Field{zap.String("unit", ch.Unit), zap.String("from", string(ch.From)), zap.String("to", string(ch.To))}
		if ch.To == occupancy.TierHigh {
			s.logger.Warn("unit occupancy escalated to HIGH", fields...)
		} else {
			s.logger.Info("unit occupancy tier changed", fields...)
		}
	}

	s.logger.Info("census loaded",
		zap.String("source", source),
		zap.Int("units", len(census.Units)),
		zap.Int("patients", len(census.Patients)),
		zap.Int("tier_changes", len(changes)),
	)
	return changes, nil
}

// swapTiers installs next and reports the units whose tier differs from the
// previous load. Units seen for the first time are not reported.
func (s *Service) swapTiers(next map[string]occupancy.Tier) []TierChange {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changes []TierChange
	for unit, tier := range next {
		prev, known := s.tiers[unit]
		if known && prev != tier {
			changes = append(changes, TierChange{Unit: unit, From: prev, To: tier})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Unit < changes[j].Unit })
	s.tiers = next
	return changes
}
