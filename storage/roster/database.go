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

// Package roster persists the list of known SteamIDs. The store works on
// the whole list at a time: callers load it, check membership, append and
// save it back. Any persistent store fits behind this interface.
package roster

import (
	"context"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
)

// Database stores the ordered list of known SteamIDs.
type Database interface {
	// Load reads the whole roster. A store that was never written is an
	// empty roster, not an error.
	Load(ctx context.Context) ([]string, error)
	// Save rewrites the whole roster.
	Save(ctx context.Context, ids []string) error
	Close() error
}

const redisPrefix = "redis://"

// Open a roster store. A redis:// address selects the Redis store, any
// other path selects the flat-file store.
func Open(path string) (Database, error) {
	if path == "" {
		return nil, errors.NotValidf("empty roster store path")
	}
	if strings.HasPrefix(path, redisPrefix) {
		return openRedis(path)
	}
	return &fileDatabase{path: path}, nil
}

// Ensure loads the roster and appends the id if it is absent, persisting
// the extended list. It returns the roster including the id. The membership
// check is idempotent and keeps insertion order.
func Ensure(ctx context.Context, db Database, steamId string) ([]string, error) {
	members, err := db.Load(ctx)
	if err != nil {
		return nil, errors.Annotate(err, "load roster")
	}
	if mapset.NewThreadUnsafeSet(members...).Contains(steamId) {
		return members, nil
	}
	members = append(members, steamId)
	if err = db.Save(ctx, members); err != nil {
		return nil, errors.Annotate(err, "save roster")
	}
	return members, nil
}
