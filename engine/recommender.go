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

// Package engine runs one recommendation request end to end: roster
// bookkeeping, cached peer records plus a fresh fetch of the target's own
// records, then the matrix pipeline.
package engine

import (
	"context"

	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/kgtkgtkg/steamrec/base/log"
	"github.com/kgtkgtkg/steamrec/cache"
	"github.com/kgtkgtkg/steamrec/config"
	"github.com/kgtkgtkg/steamrec/dataset"
	"github.com/kgtkgtkg/steamrec/logics"
	"github.com/kgtkgtkg/steamrec/steam"
	"github.com/kgtkgtkg/steamrec/storage/roster"
)

// Recommender recommends unplayed games by comparing a user's playtime
// profile against the peer group.
type Recommender struct {
	cfg     *config.Config
	fetcher steam.Fetcher
	roster  roster.Database
	cache   *cache.GroupCache
}

// NewRecommender wires a recommender from its collaborators.
func NewRecommender(cfg *config.Config, fetcher steam.Fetcher, rosterDB roster.Database, groupCache *cache.GroupCache) *Recommender {
	return &Recommender{
		cfg:     cfg,
		fetcher: fetcher,
		roster:  rosterDB,
		cache:   groupCache,
	}
}

// Recommend returns the top n games the user has never played, ranked by
// predicted preference. n <= 0 selects the configured default. The id is
// validated before any roster or network activity. The user's own records
// are always fetched fresh; only peers are served from the cache.
func (r *Recommender) Recommend(ctx context.Context, steamId string, n int) ([]logics.Score, error) {
	if err := steam.ValidateId(steamId); err != nil {
		return nil, errors.Trace(err)
	}
	if n <= 0 {
		n = r.cfg.Recommend.DefaultN
	}
	members, err := roster.Ensure(ctx, r.roster, steamId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	records, err := r.cache.PeerRecords(ctx, members, steamId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	own, err := r.fetcher.GetOwnedGames(ctx, steamId)
	if err != nil {
		// same swallow-and-continue policy as the group refresh: the user
		// simply contributes zero records
		log.Logger().Warn("no games found for user",
			zap.String("steam_id", steamId), zap.Error(err))
	} else {
		records = append(records, own...)
	}
	// zero-usage records carry no preference signal
	records = lo.Filter(records, func(record dataset.PlayRecord, _ int) bool {
		return record.Hours > 0
	})
	matrix := dataset.BuildMatrix(records)
	matrix.Normalize()
	sim, err := logics.CosineSimilarities(matrix)
	if err != nil {
		return nil, errors.Trace(err)
	}
	scores, err := logics.Rank(steamId, matrix, sim, n)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return scores, nil
}
