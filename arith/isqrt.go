// Copyright © 2020 AMIS Technologies
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package arith

import "math"

// ISqrt returns floor(sqrt(x)), the integer square root Fermat
// factorization probes with on every candidate a.
func ISqrt[T Uint](x T) T {
	if x == 0 {
		return 0
	}
	guess := T(math.Sqrt(float64(x)))
	if guess == 0 {
		guess = 1
	}
	for guess > 0 && !squareLE(guess, x) {
		guess--
	}
	for squareLE(guess+1, x) {
		guess++
	}
	return guess
}

// squareLE reports whether g*g <= x without ever forming a product that
// could overflow T: g <= x/g (integer division) already implies g*g <= x.
func squareLE[T Uint](g, x T) bool {
	if g == 0 {
		return true
	}
	q := x / g
	if g != q {
		return g < q
	}
	return g*g <= x
}
