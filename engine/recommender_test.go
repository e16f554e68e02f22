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

package engine

import (
	"context"
	"math"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kgtkgtkg/steamrec/cache"
	"github.com/kgtkgtkg/steamrec/config"
	"github.com/kgtkgtkg/steamrec/dataset"
	"github.com/kgtkgtkg/steamrec/logics"
	"github.com/kgtkgtkg/steamrec/storage/roster"
)

const (
	userA = "76561197960435530"
	userB = "76561197960435531"
	userC = "76561197960435532"
)

type mockFetcher struct {
	records map[string][]dataset.PlayRecord
	calls   int32
}

func (f *mockFetcher) GetOwnedGames(_ context.Context, steamId string) ([]dataset.PlayRecord, error) {
	atomic.AddInt32(&f.calls, 1)
	records, ok := f.records[steamId]
	if !ok {
		return nil, errors.NotFoundf("owned games")
	}
	return records, nil
}

func newTestRecommender(t *testing.T, fetcher *mockFetcher, seed []string) *Recommender {
	t.Helper()
	cfg := config.GetDefaultConfig()
	rosterDB, err := roster.Open(filepath.Join(t.TempDir(), "steamids.txt"))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, rosterDB.Close())
	})
	if len(seed) > 0 {
		require.NoError(t, rosterDB.Save(context.Background(), seed))
	}
	return NewRecommender(cfg, fetcher, rosterDB, cache.NewGroupCache(fetcher, time.Hour))
}

// raw hours {A: {x:10, y:0}, B: {x:20, y:5}, C: {x:0, y:15}} from the
// provider; zero-usage entries are dropped before the matrix.
func newFixtureFetcher() *mockFetcher {
	return &mockFetcher{
		records: map[string][]dataset.PlayRecord{
			userA: {
				{AppId: 1, Name: "x", Hours: 10, SteamId: userA},
				{AppId: 2, Name: "y", Hours: 0, SteamId: userA},
			},
			userB: {
				{AppId: 1, Name: "x", Hours: 20, SteamId: userB},
				{AppId: 2, Name: "y", Hours: 5, SteamId: userB},
			},
			userC: {
				{AppId: 1, Name: "x", Hours: 0, SteamId: userC},
				{AppId: 2, Name: "y", Hours: 15, SteamId: userC},
			},
		},
	}
}

func TestRecommend(t *testing.T) {
	fetcher := newFixtureFetcher()
	r := newTestRecommender(t, fetcher, []string{userA, userB, userC})
	scores, err := r.Recommend(context.Background(), userA, 5)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "y", scores[0].Name)
	assert.InDelta(t, 2*math.Log(5), scores[0].Score, 1e-4)
}

func TestRecommendAppendsRoster(t *testing.T) {
	fetcher := newFixtureFetcher()
	r := newTestRecommender(t, fetcher, []string{userB, userC})
	_, err := r.Recommend(context.Background(), userA, 5)
	require.NoError(t, err)
	members, err := r.roster.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{userB, userC, userA}, members)
}

func TestRecommendFreshOwnRecords(t *testing.T) {
	fetcher := newFixtureFetcher()
	r := newTestRecommender(t, fetcher, []string{userA, userB, userC})
	_, err := r.Recommend(context.Background(), userA, 5)
	require.NoError(t, err)

	// the cached copy of A goes stale: A has now played y
	fetcher.records[userA] = []dataset.PlayRecord{
		{AppId: 1, Name: "x", Hours: 10, SteamId: userA},
		{AppId: 2, Name: "y", Hours: 30, SteamId: userA},
	}
	scores, err := r.Recommend(context.Background(), userA, 5)
	require.NoError(t, err)
	// the fresh fetch replaces the stale snapshot entry, leaving nothing
	// unplayed for A
	assert.Empty(t, scores)
}

func TestRecommendInvalidId(t *testing.T) {
	fetcher := newFixtureFetcher()
	r := newTestRecommender(t, fetcher, nil)
	_, err := r.Recommend(context.Background(), "123", 5)
	assert.True(t, errors.IsBadRequest(errors.Cause(err)))
	// rejected before any side effect
	assert.Zero(t, atomic.LoadInt32(&fetcher.calls))
	members, err := r.roster.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestRecommendDegenerate(t *testing.T) {
	fetcher := newFixtureFetcher()
	// roster contains only the target
	r := newTestRecommender(t, fetcher, nil)
	_, err := r.Recommend(context.Background(), userA, 5)
	assert.Equal(t, logics.ErrDegenerateNeighborhood, errors.Cause(err))
}

func TestRecommendOwnFetchFailure(t *testing.T) {
	fetcher := newFixtureFetcher()
	delete(fetcher.records, userA)
	r := newTestRecommender(t, fetcher, []string{userA, userB, userC})
	// A's fetch fails and nothing of A is cached, so A has no row
	_, err := r.Recommend(context.Background(), userA, 5)
	assert.True(t, errors.IsNotFound(errors.Cause(err)))
}

func TestRecommendDefaultN(t *testing.T) {
	fetcher := &mockFetcher{records: map[string][]dataset.PlayRecord{
		userA: {{AppId: 1, Name: "x", Hours: 10, SteamId: userA}},
		userB: {
			{AppId: 1, Name: "x", Hours: 20, SteamId: userB},
			{AppId: 2, Name: "a", Hours: 1, SteamId: userB},
			{AppId: 3, Name: "b", Hours: 2, SteamId: userB},
			{AppId: 4, Name: "c", Hours: 3, SteamId: userB},
			{AppId: 5, Name: "d", Hours: 4, SteamId: userB},
			{AppId: 6, Name: "e", Hours: 5, SteamId: userB},
			{AppId: 7, Name: "f", Hours: 6, SteamId: userB},
		},
	}}
	r := newTestRecommender(t, fetcher, []string{userA, userB})
	scores, err := r.Recommend(context.Background(), userA, 0)
	require.NoError(t, err)
	// six unplayed games, default n is five
	assert.Len(t, scores, 5)
}
