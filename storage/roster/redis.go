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

package roster

import (
	"context"

	"github.com/juju/errors"
	"github.com/redis/go-redis/v9"
)

const redisKey = "steamrec:roster"

// redisDatabase keeps the roster as a Redis list, preserving insertion
// order. Save replaces the list atomically in a transaction.
type redisDatabase struct {
	client *redis.Client
}

func openRedis(path string) (Database, error) {
	opts, err := redis.ParseURL(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &redisDatabase{client: redis.NewClient(opts)}, nil
}

func (db *redisDatabase) Load(ctx context.Context) ([]string, error) {
	ids, err := db.client.LRange(ctx, redisKey, 0, -1).Result()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return ids, nil
}

func (db *redisDatabase) Save(ctx context.Context, ids []string) error {
	_, err := db.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, redisKey)
		if len(ids) > 0 {
			values := make([]interface{}, len(ids))
			for i, id := range ids {
				values[i] = id
			}
			pipe.RPush(ctx, redisKey, values...)
		}
		return nil
	})
	return errors.Trace(err)
}

func (db *redisDatabase) Close() error {
	return db.client.Close()
}
