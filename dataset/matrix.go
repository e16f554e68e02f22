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
	"github.com/chewxy/math32"
)

// PlayRecord is one (user, game) playtime observation fetched from the Steam
// Web API. Records are immutable after creation.
type PlayRecord struct {
	AppId   int64
	Name    string
	Hours   float32
	SteamId string
}

// Matrix is a dense user-by-game playtime matrix. Rows are users, columns
// are games, both in first-appearance order of the source records. Cells
// without an observed record hold NaN until Normalize fills them.
type Matrix struct {
	UserIds []string
	Games   []string

	userIndex map[string]int
	gameIndex map[string]int
	Values    [][]float32
}

// BuildMatrix builds a user-by-game matrix from a flat record set. Records
// must be pre-filtered to hours > 0. Each (user, game) pair is expected at
// most once; a duplicate overwrites the earlier cell.
func BuildMatrix(records []PlayRecord) *Matrix {
	m := &Matrix{
		userIndex: make(map[string]int),
		gameIndex: make(map[string]int),
	}
	for _, record := range records {
		if _, ok := m.userIndex[record.SteamId]; !ok {
			m.userIndex[record.SteamId] = len(m.UserIds)
			m.UserIds = append(m.UserIds, record.SteamId)
		}
		if _, ok := m.gameIndex[record.Name]; !ok {
			m.gameIndex[record.Name] = len(m.Games)
			m.Games = append(m.Games, record.Name)
		}
	}
	m.Values = make([][]float32, len(m.UserIds))
	for i := range m.Values {
		m.Values[i] = make([]float32, len(m.Games))
		for j := range m.Values[i] {
			m.Values[i][j] = math32.NaN()
		}
	}
	for _, record := range records {
		m.Values[m.userIndex[record.SteamId]][m.gameIndex[record.Name]] = record.Hours
	}
	return m
}

// UserIndex returns the row of a user, or -1 if the user has no row.
func (m *Matrix) UserIndex(steamId string) int {
	if i, ok := m.userIndex[steamId]; ok {
		return i
	}
	return -1
}

// Normalize rescales the matrix in place: natural log on every observed
// cell, then a uniform shift by the absolute value of the global minimum,
// then zero-fill of unobserved cells. Playtime distributions are heavy
// tailed; the log keeps a handful of thousand-hour games from dominating
// the similarity, and the shift keeps every component non-negative so
// cosine similarity never reads opposing preference into observed playtime.
func (m *Matrix) Normalize() {
	globalMin := math32.Inf(1)
	for i := range m.Values {
		for j := range m.Values[i] {
			if !math32.IsNaN(m.Values[i][j]) {
				m.Values[i][j] = math32.Log(m.Values[i][j])
				if m.Values[i][j] < globalMin {
					globalMin = m.Values[i][j]
				}
			}
		}
	}
	shift := float32(0)
	if !math32.IsInf(globalMin, 1) {
		shift = math32.Abs(globalMin)
	}
	for i := range m.Values {
		for j := range m.Values[i] {
			if math32.IsNaN(m.Values[i][j]) {
				m.Values[i][j] = 0
			} else {
				m.Values[i][j] += shift
			}
		}
	}
}
