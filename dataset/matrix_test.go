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

package dataset

import (
	"math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

const epsilon = 1e-5

var records = []PlayRecord{
	{AppId: 10, Name: "Counter-Strike", Hours: 10, SteamId: "76561197960435530"},
	{AppId: 10, Name: "Counter-Strike", Hours: 20, SteamId: "76561197960435531"},
	{AppId: 70, Name: "Half-Life", Hours: 5, SteamId: "76561197960435531"},
	{AppId: 70, Name: "Half-Life", Hours: 15, SteamId: "76561197960435532"},
}

func TestBuildMatrix(t *testing.T) {
	m := BuildMatrix(records)
	assert.Equal(t, []string{"76561197960435530", "76561197960435531", "76561197960435532"}, m.UserIds)
	assert.Equal(t, []string{"Counter-Strike", "Half-Life"}, m.Games)
	assert.Equal(t, float32(10), m.Values[0][0])
	assert.True(t, math32.IsNaN(m.Values[0][1]))
	assert.Equal(t, float32(20), m.Values[1][0])
	assert.Equal(t, float32(5), m.Values[1][1])
	assert.True(t, math32.IsNaN(m.Values[2][0]))
	assert.Equal(t, float32(15), m.Values[2][1])
	assert.Equal(t, 1, m.UserIndex("76561197960435531"))
	assert.Equal(t, -1, m.UserIndex("76561197960435599"))
}

func TestNormalize(t *testing.T) {
	m := BuildMatrix(records)
	m.Normalize()
	// global minimum is ln(5), shift is |ln(5)|
	shift := math.Log(5)
	assert.InDelta(t, math.Log(10)+shift, m.Values[0][0], epsilon)
	assert.InDelta(t, math.Log(20)+shift, m.Values[1][0], epsilon)
	assert.InDelta(t, 2*math.Log(5), m.Values[1][1], epsilon)
	assert.InDelta(t, math.Log(15)+shift, m.Values[2][1], epsilon)
	// missing cells are filled with zero after the shift
	assert.Zero(t, m.Values[0][1])
	assert.Zero(t, m.Values[2][0])
	// all defined values are non-negative
	for i := range m.Values {
		for j := range m.Values[i] {
			assert.GreaterOrEqual(t, m.Values[i][j], float32(0))
		}
	}
}

func TestNormalizeNegativeMinimum(t *testing.T) {
	// hours below 1 drive the log negative, the shift zeroes the minimum
	m := BuildMatrix([]PlayRecord{
		{Name: "a", Hours: 0.5, SteamId: "u1"},
		{Name: "b", Hours: 2, SteamId: "u2"},
	})
	m.Normalize()
	assert.InDelta(t, 0, m.Values[0][0], epsilon)
	assert.InDelta(t, math.Log(2)-math.Log(0.5), m.Values[1][1], epsilon)
}

func TestNormalizeDeterministic(t *testing.T) {
	a := BuildMatrix(records)
	b := BuildMatrix(records)
	a.Normalize()
	b.Normalize()
	assert.Equal(t, a.Values, b.Values)
}

func TestNormalizeEmpty(t *testing.T) {
	m := BuildMatrix(nil)
	m.Normalize()
	assert.Empty(t, m.UserIds)
	assert.Empty(t, m.Games)
}

func TestBuildMatrixSingleUser(t *testing.T) {
	m := BuildMatrix([]PlayRecord{{Name: "a", Hours: 3, SteamId: "u1"}})
	m.Normalize()
	// single user, positive minimum: the unconditional shift doubles it
	assert.InDelta(t, 2*math.Log(3), m.Values[0][0], epsilon)
}
