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
	"github.com/juju/errors"
	"github.com/kgtkgtkg/steamrec/common/floats"
	"github.com/kgtkgtkg/steamrec/dataset"
)

// ErrDegenerateNeighborhood is returned when the peer group is too small or
// too dissimilar to weight neighbors.
var ErrDegenerateNeighborhood = errors.New("cannot generate recommendations: not enough comparable users")

// CosineSimilarities computes the symmetric user-to-user cosine similarity
// matrix over the normalized playtime matrix. A zero-norm row is treated as
// orthogonal to everything instead of producing NaN.
func CosineSimilarities(m *dataset.Matrix) ([][]float32, error) {
	if len(m.UserIds) < 2 {
		return nil, errors.Trace(ErrDegenerateNeighborhood)
	}
	norms := make([]float32, len(m.Values))
	for i, row := range m.Values {
		norms[i] = floats.Norm(row)
	}
	sim := make([][]float32, len(m.Values))
	for i := range sim {
		sim[i] = make([]float32, len(m.Values))
		sim[i][i] = 1
	}
	for i := range m.Values {
		for j := i + 1; j < len(m.Values); j++ {
			var s float32
			if norms[i] > 0 && norms[j] > 0 {
				s = floats.Dot(m.Values[i], m.Values[j]) / (norms[i] * norms[j])
			}
			sim[i][j] = s
			sim[j][i] = s
		}
	}
	return sim, nil
}
