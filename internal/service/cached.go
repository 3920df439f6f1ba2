package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// CachedJSON returns the cached payload for key, or renders a fresh one with
// build and stores it. Cache failures are logged and treated as misses so a
// broken cache never takes reads down with it.
func (s *DashboardService) CachedJSON(ctx context.Context, key string, build func() (interface{}, error)) ([]byte, error) {
	payload, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("dashboard: cache get failed")
	}
	if ok {
		s.metrics.CacheHit()
		return payload, nil
	}
	s.metrics.CacheMiss()

	value, err := build()
	if err != nil {
		return nil, err
	}
	payload, err = json.Marshal(value)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, payload); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("dashboard: cache set failed")
	}
	return payload, nil
}
