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

package logics

import (
	"sort"

	"github.com/juju/errors"
	"github.com/kgtkgtkg/steamrec/common/floats"
	"github.com/kgtkgtkg/steamrec/dataset"
)

// ErrUserNotFound is returned when the target user has no row in the matrix,
// which happens when their own fetch failed and nothing was cached.
var ErrUserNotFound = errors.NotFoundf("usage records for user")

// Score is one ranked recommendation. Scores are unbounded weighted playtime
// mass, only the relative order is meaningful.
type Score struct {
	Name  string
	Score float64
}

// Rank predicts preference scores for every game the target has never
// played and returns the top n, sorted by score descending. Ties keep the
// games' column (first appearance) order. The target's similarity row minus
// the self entry is normalized to a weight vector summing to one; a zero
// similarity sum means no usable neighborhood.
func Rank(target string, m *dataset.Matrix, sim [][]float32, n int) ([]Score, error) {
	t := m.UserIndex(target)
	if t < 0 {
		return nil, errors.Trace(ErrUserNotFound)
	}
	// neighbor weights over all peers
	weights := make([]float32, 0, len(m.UserIds)-1)
	peers := make([]int, 0, len(m.UserIds)-1)
	for i := range m.UserIds {
		if i != t {
			weights = append(weights, sim[t][i])
			peers = append(peers, i)
		}
	}
	weightSum := floats.Sum(weights)
	if weightSum == 0 {
		return nil, errors.Trace(ErrDegenerateNeighborhood)
	}
	floats.MulConst(weights, 1/weightSum)
	// weighted average of peer preference mass on unplayed games
	scores := make([]Score, 0, len(m.Games))
	for j, game := range m.Games {
		if m.Values[t][j] != 0 {
			continue
		}
		var predicted float32
		for k, i := range peers {
			predicted += weights[k] * m.Values[i][j]
		}
		scores = append(scores, Score{Name: game, Score: float64(predicted)})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	if len(scores) > n {
		scores = scores[:n]
	}
	return scores, nil
}
