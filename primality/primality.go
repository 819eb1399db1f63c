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

// Package primality implements the primality oracle: deterministic
// Miller-Rabin below 2^64 and strong Baillie-PSW above it, dispatched by
// magnitude per the engine's native-width and 128-bit pipelines.
package primality

import "github.com/getamis/modsolve/arith"

// smallOddPrimes are the first seventeen odd primes, used to settle
// anything below the Miller-Rabin threshold by trial division.
var smallOddPrimes = [17]uint64{
	3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61,
}

// mrBasesU32 are deterministic Miller-Rabin witnesses sufficient for every
// n <= 2^32.
var mrBasesU32 = [3]uint64{2, 7, 61}

// mrBasesU64 are deterministic Miller-Rabin witnesses sufficient for every
// n <= 2^64.
var mrBasesU64 = [7]uint64{2, 325, 9375, 28178, 450775, 9780504, 1795265022}

// IsOddPrime decides primality for the native-width pipeline (n fits in
// uint64). As the name says, 2 is reported composite: callers dispatch the
// even prime separately, and the quadratic solver's power-of-two case never
// consults this oracle.
func IsOddPrime[T arith.Uint](num T) bool {
	if num <= 1 || num&1 == 0 {
		return false
	}
	if small, ok := isSureOddSmallPrime(uint64(num)); ok {
		return small
	}
	if num < 67 {
		return false
	}
	n64 := uint64(num)
	if n64 <= 1<<32-1 {
		return isPrimeMR(n64, mrBasesU32[:])
	}
	return isPrimeMR(n64, mrBasesU64[:])
}

// isSureOddSmallPrime resolves n against the small-prime table. The second
// return value is false when none of the trial primes were decisive — n is
// too large for this table alone.
func isSureOddSmallPrime(num uint64) (bool, bool) {
	for _, p := range smallOddPrimes {
		if p > num/p {
			return true, true
		}
		if num%p == 0 {
			return false, true
		}
	}
	return false, false
}

func isPrimeMR(num uint64, bases []uint64) bool {
	one := uint64(1)
	numEven := num - one
	pow := trailingZerosU64(numEven)
	numOdd := numEven >> pow

	for _, base := range bases {
		base %= num
		if base == 0 {
			continue
		}
		q := arith.ExpMod(base, numOdd, num)
		if q == one || q == numEven {
			continue
		}
		jump := false
		for i := uint64(1); i < pow; i++ {
			q = arith.MultMod(q, q, num)
			if q == numEven {
				jump = true
				break
			}
		}
		if jump {
			continue
		}
		return false
	}
	return true
}

func trailingZerosU64(x uint64) uint64 {
	var n uint64
	for x&1 == 0 {
		x >>= 1
		n++
	}
	return n
}
