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
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/samber/lo"
)

// fileDatabase keeps the roster as one SteamID per line. Reads and writes
// are whole-file.
type fileDatabase struct {
	path string
}

func (db *fileDatabase) Load(_ context.Context) ([]string, error) {
	data, err := os.ReadFile(db.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Trace(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	return lo.FilterMap(lines, func(line string, _ int) (string, bool) {
		id := strings.TrimSpace(line)
		return id, id != ""
	}), nil
}

func (db *fileDatabase) Save(_ context.Context, ids []string) error {
	var builder strings.Builder
	for _, id := range ids {
		builder.WriteString(id)
		builder.WriteByte('\n')
	}
	if err := os.WriteFile(db.path, []byte(builder.String()), 0644); err != nil {
		return errors.Trace(err)
	}
	return nil
}

func (db *fileDatabase) Close() error {
	return nil
}
