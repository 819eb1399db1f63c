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

// solveQuadModTwoPow128 mirrors solveQuadModTwoPow for moduli 2^m with m up
// to 127.
func (e Eq128) solveQuadModTwoPow128(m uint) ([]arith.Uint128, bool) {
	if m == 0 {
		return []arith.Uint128{u128Zero}, true
	}

	modu := u128One.Shl(m)
	a, b, d := e.A.Mod(modu), e.B.Mod(modu), e.D.Mod(modu)

	switch {
	case a.IsZero() && b.IsZero() && d.IsZero():
		var all []arith.Uint128
		for i := u128Zero; i.Less(modu); i = i.Add(u128One) {
			all = append(all, i)
		}
		return all, true
	case a.IsZero() && b.IsZero():
		return nil, false
	case a.IsZero():
		return linear.Eq128{A: b, C: d, Modu: modu}.Solve()
	}

	if m <= 2 {
		return solveByEnumeration128(a, b, d, modu)
	}

	if b.IsZero() {
		return solvePureQuadTwoPow128(a, d, m)
	}
	return solveMixedQuadTwoPow128(a, b, d, m)
}

func solveByEnumeration128(a, b, d, modu arith.Uint128) ([]arith.Uint128, bool) {
	var sols []arith.Uint128
	for x := u128Zero; x.Less(modu); x = x.Add(u128One) {
		ax := arith.MultModUnsafe128(a, arith.MultModUnsafe128(x, x, modu), modu)
		bx := arith.MultModUnsafe128(b, x, modu)
		if arith.AddModUnsafe128(ax, bx, modu).Equal(d) {
			sols = append(sols, x)
		}
	}
	if len(sols) == 0 {
		return nil, false
	}
	return sols, true
}

func solvePureQuadTwoPow128(a, d arith.Uint128, m uint) ([]arith.Uint128, bool) {
	modu := u128One.Shl(m)

	if a.And1() == 1 {
		dPrime := arith.MultModUnsafe128(arith.Inverse128(a, modu), d, modu)
		return squareRootsModTwoPow128(dPrime, m)
	}

	if d.And1() == 1 {
		return nil, false
	}

	t := combin.LargestCommonDividingPowerOfTwo128(a, modu, d)
	sub, ok := solvePureQuadReduced128(a.Shr(t), d.Shr(t), m-t)
	if !ok {
		return nil, false
	}
	return rescaleByPowerOfTwo128(sub, m, t), true
}

func solvePureQuadReduced128(a, d arith.Uint128, m uint) ([]arith.Uint128, bool) {
	if m == 0 {
		return []arith.Uint128{u128Zero}, true
	}
	modu := u128One.Shl(m)
	a, d = a.Mod(modu), d.Mod(modu)

	switch {
	case a.IsZero() && d.IsZero():
		var all []arith.Uint128
		for i := u128Zero; i.Less(modu); i = i.Add(u128One) {
			all = append(all, i)
		}
		return all, true
	case a.IsZero():
		return nil, false
	case m <= 2:
		return solveByEnumeration128(a, u128Zero, d, modu)
	}
	return solvePureQuadTwoPow128(a, d, m)
}

func squareRootsModTwoPow128(d arith.Uint128, m uint) ([]arith.Uint128, bool) {
	modu := u128One.Shl(m)

	if d.IsZero() {
		step := u128One.Shl((m + 1) / 2)
		var sols []arith.Uint128
		for x := u128Zero; x.Less(modu); x = x.Add(step) {
			sols = append(sols, x)
		}
		return sols, true
	}

	v := d.TrailingZeros()
	if v&1 == 1 {
		return nil, false
	}

	ys, ok := oddSquareRootsModTwoPow128(d.Shr(v), m-v)
	if !ok {
		return nil, false
	}

	half := v / 2
	baseMod := m - half
	step := u128One.Shl(baseMod)
	count := u128One.Shl(half)
	var sols []arith.Uint128
	for _, y := range ys {
		base := y.Shl(half)
		x := base
		for r := u128Zero; r.Less(count); r = r.Add(u128One) {
			sols = append(sols, x)
			x = x.Add(step)
		}
	}
	return sortAndDedup128(sols), true
}

func oddSquareRootsModTwoPow128(u arith.Uint128, k uint) ([]arith.Uint128, bool) {
	switch {
	case k == 1:
		return []arith.Uint128{u128One}, true
	case k == 2:
		if u.And3() != 1 {
			return nil, false
		}
		return []arith.Uint128{u128One, arith.Uint128FromUint64(3)}, true
	case u.And7() != 1:
		return nil, false
	}

	modu := u128One.Shl(k)
	var ys []arith.Uint128
	for _, s0 := range [2]uint64{1, 3} {
		s := arith.Uint128FromUint64(s0)
		for j := uint(3); j < k; j++ {
			diff := arith.SubModUnsafe128(arith.MultModUnsafe128(s, s, modu), u, modu)
			if diff.Shr(j).And1() == 1 {
				s = s.Add(u128One.Shl(j - 1))
			}
		}
		ys = append(ys, s, modu.Sub(s))
	}
	return sortAndDedup128(ys), true
}

func solveMixedQuadTwoPow128(a, b, d arith.Uint128, m uint) ([]arith.Uint128, bool) {
	t := combin.LargestCommonDividingPowerOfTwo128(a, b, d)
	a, b, d = a.Shr(t), b.Shr(t), d.Shr(t)
	mRed := m - t

	// (a + b)*x = d (mod 2) screens the two parity candidates
	var cur []arith.Uint128
	ab := (a.Lo + b.Lo) & 1
	for x := uint64(0); x < 2; x++ {
		if (ab*x)&1 == d.And1() {
			cur = append(cur, arith.Uint128FromUint64(x))
		}
	}
	if len(cur) == 0 {
		return nil, false
	}

	for j := uint(1); j < mRed; j++ {
		levelModu := u128One.Shl(j + 1)
		var next []arith.Uint128
		for _, x := range cur {
			for _, cand := range [2]arith.Uint128{x, x.Add(u128One.Shl(j))} {
				ax := arith.MultModUnsafe128(a.Mod(levelModu), arith.MultModUnsafe128(cand, cand, levelModu), levelModu)
				bx := arith.MultModUnsafe128(b.Mod(levelModu), cand, levelModu)
				if arith.AddModUnsafe128(ax, bx, levelModu).Equal(d.Mod(levelModu)) {
					next = append(next, cand)
				}
			}
		}
		if len(next) == 0 {
			return nil, false
		}
		cur = next
	}

	return rescaleByPowerOfTwo128(sortAndDedup128(cur), m, t), true
}

func rescaleByPowerOfTwo128(sub []arith.Uint128, m, t uint) []arith.Uint128 {
	if t == 0 {
		return sub
	}
	step := u128One.Shl(m - t)
	count := u128One.Shl(t)
	var sols []arith.Uint128
	for r := u128Zero; r.Less(count); r = r.Add(u128One) {
		offset := arith.MultModUnsafe128(r, step, u128One.Shl(m))
		for _, s := range sub {
			sols = append(sols, s.Add(offset))
		}
	}
	return sortAndDedup128(sols)
}
