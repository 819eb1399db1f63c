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

package quadratic

import (
	"github.com/getamis/modsolve/arith"
	"github.com/getamis/modsolve/combin"
	"github.com/getamis/modsolve/linear"
)

// solveQuadModTwoPow solves a*x^2 + b*x = d (mod 2^m). The ring Z/2^mZ has
// no odd prime structure to lean on: 2 is never invertible, so completing
// the square is unavailable and every case runs on parity analysis instead.
func (e Eq[T]) solveQuadModTwoPow(m uint) ([]T, bool) {
	if m == 0 {
		return []T{0}, true
	}

	modu := T(1) << m
	a, b, d := e.A%modu, e.B%modu, e.D%modu

	switch {
	case a == 0 && b == 0 && d == 0:
		all := make([]T, modu)
		for i := T(0); i < modu; i++ {
			all[i] = i
		}
		return all, true
	case a == 0 && b == 0:
		return nil, false
	case a == 0:
		return linear.Eq[T]{A: b, C: d, Modu: modu}.Solve()
	}

	// moduli 2 and 4 are settled by direct polynomial testing, which is the
	// m = 1 enumeration and exactly reproduces the parity table for m = 2
	if m <= 2 {
		return solveByEnumeration(a, b, d, modu)
	}

	if b == 0 {
		return solvePureQuadTwoPow(a, d, m)
	}
	return solveMixedQuadTwoPow(a, b, d, m)
}

// solveByEnumeration tests every residue of a small modulus against the
// polynomial.
func solveByEnumeration[T arith.Uint](a, b, d, modu T) ([]T, bool) {
	var sols []T
	for x := T(0); x < modu; x++ {
		ax := arith.MultModUnsafe(a, arith.MultModUnsafe(x, x, modu), modu)
		bx := arith.MultModUnsafe(b, x, modu)
		if arith.AddModUnsafe(ax, bx, modu) == d {
			sols = append(sols, x)
		}
	}
	if len(sols) == 0 {
		return nil, false
	}
	return sols, true
}

// solvePureQuadTwoPow solves a*x^2 = d (mod 2^m) for m >= 3. An odd a is
// inverted away, leaving x^2 = d'; an even a shares a power of two with d
// and the modulus, which is peeled off, solved at the reduced modulus and
// scaled back.
func solvePureQuadTwoPow[T arith.Uint](a, d T, m uint) ([]T, bool) {
	modu := T(1) << m

	if a&1 == 1 {
		dPrime := arith.MultModUnsafe(arith.Inverse(a, modu), d, modu)
		return squareRootsModTwoPow(dPrime, m)
	}

	// a even with an odd d leaves no even left side to reach it
	if d&1 == 1 {
		return nil, false
	}

	t := combin.LargestCommonDividingPowerOfTwo(uint64(a), uint64(modu), uint64(d))
	sub, ok := solvePureQuadReduced(a>>t, d>>t, m-t)
	if !ok {
		return nil, false
	}
	return rescaleByPowerOfTwo(sub, m, t), true
}

// solvePureQuadReduced continues a*x^2 = d after a common power of two has
// been removed, at which point a or d is odd (or the modulus is exhausted).
func solvePureQuadReduced[T arith.Uint](a, d T, m uint) ([]T, bool) {
	if m == 0 {
		return []T{0}, true
	}
	modu := T(1) << m
	a, d = a%modu, d%modu

	switch {
	case a == 0 && d == 0:
		all := make([]T, modu)
		for i := T(0); i < modu; i++ {
			all[i] = i
		}
		return all, true
	case a == 0:
		return nil, false
	case m <= 2:
		return solveByEnumeration(a, 0, d, modu)
	}
	return solvePureQuadTwoPow(a, d, m)
}

// squareRootsModTwoPow solves x^2 = d (mod 2^m) for m >= 3. Zero targets
// are hit exactly by the multiples of 2^ceil(m/2). Otherwise the 2-adic
// valuation v of d must be even and the odd part must be a square modulo
// the reduced modulus 2^(m-v); the roots of the odd part are scaled by
// 2^(v/2) and then replicated across the lost headroom.
func squareRootsModTwoPow[T arith.Uint](d T, m uint) ([]T, bool) {
	modu := T(1) << m

	if d == 0 {
		step := T(1) << ((m + 1) / 2)
		var sols []T
		for x := T(0); x < modu; x += step {
			sols = append(sols, x)
		}
		return sols, true
	}

	v := trailingZerosT(d)
	if v&1 == 1 {
		return nil, false
	}

	ys, ok := oddSquareRootsModTwoPow(d>>v, m-v)
	if !ok {
		return nil, false
	}

	half := v / 2
	baseMod := m - half
	var sols []T
	for _, y := range ys {
		base := y << half
		for r := T(0); r < T(1)<<half; r++ {
			sols = append(sols, base+r<<baseMod)
		}
	}
	return sortAndDedup(sols), true
}

// oddSquareRootsModTwoPow solves y^2 = u (mod 2^k) for odd u. Odd squares
// are 1 mod 8, so for k >= 3 solvability demands u = 1 (mod 8) and yields
// exactly four roots, found by running the bit-by-bit lift on the two
// branches s = 1 and s = 3 and negating each.
func oddSquareRootsModTwoPow[T arith.Uint](u T, k uint) ([]T, bool) {
	switch {
	case k == 1:
		return []T{1}, true
	case k == 2:
		if u&3 != 1 {
			return nil, false
		}
		return []T{1, 3}, true
	case u&7 != 1:
		return nil, false
	}

	modu := T(1) << k
	var ys []T
	for _, s0 := range [2]T{1, 3} {
		s := s0
		for j := uint(3); j < k; j++ {
			diff := arith.SubModUnsafe(arith.MultModUnsafe(s, s, modu), u, modu)
			if (diff>>j)&1 == 1 {
				s += T(1) << (j - 1)
			}
		}
		ys = append(ys, s, modu-s)
	}
	return sortAndDedup(ys), true
}

// solveMixedQuadTwoPow solves a*x^2 + b*x = d (mod 2^m) with a, b nonzero
// and m >= 3: remove the power of two the three terms share, reject on
// parity mismatch, seed from the roots modulo 2 and lift them bit by bit
// (the set may branch or vanish at each level), then scale back.
func solveMixedQuadTwoPow[T arith.Uint](a, b, d T, m uint) ([]T, bool) {
	t := combin.LargestCommonDividingPowerOfTwo(uint64(a), uint64(b), uint64(d))
	a, b, d = a>>t, b>>t, d>>t
	mRed := m - t
	modu := T(1) << mRed

	a, b, d = a%modu, b%modu, d%modu

	// (a + b)*x = d (mod 2) screens the two parity candidates
	var cur []T
	for x := T(0); x < 2 && x < modu; x++ {
		if ((a+b)*x)&1 == d&1 {
			cur = append(cur, x)
		}
	}
	if len(cur) == 0 {
		return nil, false
	}

	for j := uint(1); j < mRed; j++ {
		levelModu := T(1) << (j + 1)
		var next []T
		for _, x := range cur {
			for _, cand := range [2]T{x, x + T(1)<<j} {
				ax := arith.MultModUnsafe(a%levelModu, arith.MultModUnsafe(cand, cand, levelModu), levelModu)
				bx := arith.MultModUnsafe(b%levelModu, cand, levelModu)
				if arith.AddModUnsafe(ax, bx, levelModu) == d%levelModu {
					next = append(next, cand)
				}
			}
		}
		if len(next) == 0 {
			return nil, false
		}
		cur = next
	}

	return rescaleByPowerOfTwo(sortAndDedup(cur), m, t), true
}

// rescaleByPowerOfTwo expands solutions of the reduced equation mod 2^(m-t)
// back to mod 2^m: each residue s stands for every s + r*2^(m-t).
func rescaleByPowerOfTwo[T arith.Uint](sub []T, m, t uint) []T {
	if t == 0 {
		return sub
	}
	step := T(1) << (m - t)
	sols := make([]T, 0, len(sub)<<t)
	for r := T(0); r < T(1)<<t; r++ {
		for _, s := range sub {
			sols = append(sols, s+r*step)
		}
	}
	return sortAndDedup(sols)
}
