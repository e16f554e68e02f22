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

package steam

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/juju/errors"
	"github.com/juju/ratelimit"
	"github.com/samber/lo"

	"github.com/kgtkgtkg/steamrec/config"
	"github.com/kgtkgtkg/steamrec/dataset"
)

// IdLength is the length of a well-formed SteamID.
const IdLength = 17

// ErrNoGames is returned when an account owns no games or keeps its game
// list private.
var ErrNoGames = errors.NotFoundf("owned games")

// ValidateId checks the SteamID format precondition.
func ValidateId(steamId string) error {
	if len(steamId) != IdLength {
		return errors.BadRequestf("steam id must be exactly %d characters", IdLength)
	}
	return nil
}

// Fetcher fetches the games owned by a user together with their playtime.
type Fetcher interface {
	GetOwnedGames(ctx context.Context, steamId string) ([]dataset.PlayRecord, error)
}

// Client is a Steam Web API client. Outbound calls are paced by a token
// bucket so a roster-wide refresh respects the API rate limits.
type Client struct {
	endpoint   string
	apiKey     string
	maxRetries uint
	httpClient http.Client
	limiter    *ratelimit.Bucket
}

// NewClient creates a Steam Web API client from the configuration.
func NewClient(cfg config.SteamConfig) *Client {
	return &Client{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		httpClient: http.Client{Timeout: cfg.Timeout},
		limiter:    ratelimit.NewBucket(cfg.FetchInterval, 1),
	}
}

// GetOwnedGames fetches the owned games of a user. Playtime is converted
// from the API's minutes to hours. Transient upstream failures are retried
// with exponential backoff.
func (c *Client) GetOwnedGames(ctx context.Context, steamId string) ([]dataset.PlayRecord, error) {
	time.Sleep(c.limiter.Take(1))
	result, err := backoff.Retry(ctx, func() (*ownedGamesResponse, error) {
		return c.getOwnedGames(ctx, steamId)
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(c.maxRetries))
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(result.Response.Games) == 0 {
		return nil, errors.Trace(ErrNoGames)
	}
	return lo.Map(result.Response.Games, func(game Game, _ int) dataset.PlayRecord {
		return dataset.PlayRecord{
			AppId:   game.AppId,
			Name:    game.Name,
			Hours:   float32(game.PlaytimeForever) / 60,
			SteamId: steamId,
		}
	}), nil
}

func (c *Client) getOwnedGames(ctx context.Context, steamId string) (*ownedGamesResponse, error) {
	values := url.Values{}
	values.Set("key", c.apiKey)
	values.Set("steamid", steamId)
	values.Set("include_appinfo", "true")
	values.Set("include_played_free_games", "true")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.endpoint+"/IPlayerService/GetOwnedGames/v1/?"+values.Encode(), nil)
	if err != nil {
		return nil, backoff.Permanent(errors.Trace(err))
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("steam api status %s", resp.Status)
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}
	var result ownedGamesResponse
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, backoff.Permanent(errors.Trace(err))
	}
	return &result, nil
}
