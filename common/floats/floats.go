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

package floats

import (
	"github.com/chewxy/math32"
)

// Dot returns the dot product of two vectors. Panics if lengths mismatch.
func Dot(a, b []float32) (ret float32) {
	if len(a) != len(b) {
		panic("floats: vector lengths mismatch")
	}
	for i := range a {
		ret += a[i] * b[i]
	}
	return
}

// Norm returns the Euclidean norm of a vector.
func Norm(a []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * a[i]
	}
	return math32.Sqrt(sum)
}

// Sum returns the sum of all elements.
func Sum(a []float32) (ret float32) {
	for i := range a {
		ret += a[i]
	}
	return
}

// AddConst adds a constant to every element in place.
func AddConst(a []float32, c float32) {
	for i := range a {
		a[i] += c
	}
}

// MulConst multiplies every element by a constant in place.
func MulConst(a []float32, c float32) {
	for i := range a {
		a[i] *= c
	}
}

// MulConstAdd computes dst += a * c element-wise.
func MulConstAdd(a []float32, c float32, dst []float32) {
	for i := range a {
		dst[i] += a[i] * c
	}
}
