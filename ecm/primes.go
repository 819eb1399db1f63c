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

// Package ecm implements the Lenstra elliptic-curve factorization step: one
// random curve over Z/nZ, one B-smooth scalar multiplication, with the
// result folded to the three-way outcome the factor engine's worker pool
// consumes (see MaybeFactor/MaybeFactor128).
package ecm

// stage1Bound is the smoothness bound B1 for the single-phase scalar: every
// point is multiplied by p^e for each prime p <= stage1Bound, e the largest
// power with p^e <= stage1Bound. This is the textbook ECM stage-1 schedule;
// no stage 2 is implemented.
const stage1Bound = 2000

// stage1Primes holds every prime up to stage1Bound, computed once at
// package init via a sieve.
var stage1Primes []int

func init() {
	sieve := make([]bool, stage1Bound+1)
	for i := 2; i <= stage1Bound; i++ {
		if sieve[i] {
			continue
		}
		stage1Primes = append(stage1Primes, i)
		for j := i * i; j <= stage1Bound; j += i {
			sieve[j] = true
		}
	}
}

// primePower returns the largest power of p not exceeding stage1Bound.
func primePower(p int) int {
	pw := p
	for pw*p <= stage1Bound {
		pw *= p
	}
	return pw
}
