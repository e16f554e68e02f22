// Copyright 2024 steamrec Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cache holds the process-wide snapshot of the peer group's play
// records. Collecting the snapshot costs one paced Steam API call per
// roster member, so it is amortized over many requests with a TTL.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kgtkgtkg/steamrec/base/log"
	"github.com/kgtkgtkg/steamrec/dataset"
	"github.com/kgtkgtkg/steamrec/steam"
)

// GroupCache caches the union of every roster member's play records.
// The snapshot is replaced wholesale; readers observe either the old or
// the new snapshot, never a partial rebuild.
type GroupCache struct {
	fetcher steam.Fetcher
	ttl     time.Duration

	mu      sync.RWMutex
	records []dataset.PlayRecord
	builtAt time.Time

	flight singleflight.Group
}

// NewGroupCache creates a group cache refreshed at most once per ttl.
func NewGroupCache(fetcher steam.Fetcher, ttl time.Duration) *GroupCache {
	return &GroupCache{
		fetcher: fetcher,
		ttl:     ttl,
	}
}

// PeerRecords returns the cached records of all roster members except
// exclude, refreshing the snapshot first if it expired. Concurrent callers
// hitting an expired snapshot share a single in-flight refresh.
func (c *GroupCache) PeerRecords(ctx context.Context, members []string, exclude string) ([]dataset.PlayRecord, error) {
	c.mu.RLock()
	expired := c.builtAt.IsZero() || time.Since(c.builtAt) >= c.ttl
	c.mu.RUnlock()
	if expired {
		if _, err, _ := c.flight.Do("refresh", func() (interface{}, error) {
			return nil, c.refresh(ctx, members)
		}); err != nil {
			return nil, errors.Trace(err)
		}
	} else {
		GroupCacheHitTotal.Inc()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return lo.Filter(c.records, func(record dataset.PlayRecord, _ int) bool {
		return record.SteamId != exclude
	}), nil
}

// refresh rebuilds the snapshot from scratch. A failing member contributes
// zero records and does not abort the rebuild; only cancellation does.
func (c *GroupCache) refresh(ctx context.Context, members []string) error {
	start := time.Now()
	next := make([]dataset.PlayRecord, 0, len(c.records))
	for _, steamId := range members {
		records, err := c.fetcher.GetOwnedGames(ctx, steamId)
		if err != nil {
			if ctx.Err() != nil {
				return errors.Trace(ctx.Err())
			}
			FetchFailureTotal.Inc()
			log.Logger().Warn("no games found for user",
				zap.String("steam_id", steamId), zap.Error(err))
			continue
		}
		next = append(next, records...)
	}
	c.mu.Lock()
	c.records = next
	c.builtAt = time.Now()
	c.mu.Unlock()
	GroupCacheRefreshTotal.Inc()
	GroupCacheRefreshSeconds.Observe(time.Since(start).Seconds())
	log.Logger().Info("refreshed group cache",
		zap.Int("n_users", len(members)), zap.Int("n_records", len(next)))
	return nil
}

// BuiltAt returns the time of the last successful refresh.
func (c *GroupCache) BuiltAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.builtAt
}
