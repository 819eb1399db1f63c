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
	"sort"

	"github.com/getamis/modsolve/arith"
	"github.com/getamis/modsolve/combin"
	"github.com/getamis/modsolve/factor"
	"github.com/getamis/modsolve/linear"
	"github.com/getamis/modsolve/primality"
)

var (
	u128Zero = arith.Uint128{}
	u128One  = arith.Uint128FromUint64(1)
	u128Two  = arith.Uint128FromUint64(2)
	u128Four = arith.Uint128FromUint64(4)
)

// Eq128 is the Uint128 counterpart of Eq, serving moduli beyond 64 bits.
type Eq128 struct {
	A, B, C, D, Modu arith.Uint128
}

// Solve mirrors Eq.Solve for 128-bit operands.
func (e Eq128) Solve() ([]arith.Uint128, bool) {
	return e.SolveWithOptions(factor.DefaultOptions())
}

// SolveWithOptions is Solve with explicit factor-engine options.
func (e Eq128) SolveWithOptions(opts factor.Options) ([]arith.Uint128, bool) {
	if e.Modu.Cmp(u128One) <= 0 {
		return nil, false
	}

	q := e
	q.A = q.A.Mod(q.Modu)
	q.B = q.B.Mod(q.Modu)
	q.C = q.C.Mod(q.Modu)
	q.D = q.D.Mod(q.Modu)

	if !q.C.IsZero() {
		q.D = arith.SubModUnsafe128(q.D, q.C, q.Modu)
		q.C = u128Zero
	}

	switch {
	case q.A.IsZero() && q.B.IsZero():
		return nil, false
	case q.A.IsZero():
		return linear.Eq128{A: q.B, C: q.D, Modu: q.Modu}.Solve()
	}

	if primality.IsOddPrime128(q.Modu) {
		if q.A.Equal(u128One) && q.B.IsZero() {
			return q.solveQuadResidueOddPrimeMod()
		}
		b2 := arith.MultMod128(q.B, q.B, q.Modu)
		ad := arith.MultMod128(u128Four.Mod(q.Modu), arith.MultMod128(q.A, q.D, q.Modu), q.Modu)
		q.D = arith.AddModUnsafe128(b2, ad, q.Modu)

		return q.solveQuadSimple()
	}

	factors := factor.New128(q.Modu)
	factors.Factorize(opts)

	return q.solveQuadCompositeMod(factors.PrimeFactorRepr(), opts)
}

func (e Eq128) solveQuadSimple() ([]arith.Uint128, bool) {
	z, ok := e.solveQuadResidueOddPrimeMod()
	if !ok || len(z) == 0 {
		return nil, false
	}

	linEq := linear.Eq128{
		A:    arith.MultMod128(u128Two, e.A, e.Modu),
		B:    e.B,
		C:    z[0],
		Modu: e.Modu,
	}

	xSols, ok := linEq.Solve()
	if !ok {
		return nil, false
	}

	if z[0].IsZero() || len(z) == 1 {
		return xSols, true
	}

	linEq.C = z[1]

	xSols2, ok := linEq.Solve()
	if !ok {
		return xSols, true
	}

	xSols = append(xSols, xSols2...)
	return sortAndDedup128(xSols), true
}

func (e Eq128) solveQuadResidueOddPrimeMod() ([]arith.Uint128, bool) {
	if e.D.IsZero() {
		return []arith.Uint128{e.D}, true
	}

	moduHalf := e.Modu.Sub(u128One).Shr1()
	if !arith.ExpMod128(e.D, moduHalf, e.Modu).Equal(u128One) {
		return nil, false
	}

	x, ok := tonelliShanks128(e.D, e.Modu)
	if !ok {
		return nil, false
	}
	if x.IsZero() {
		return []arith.Uint128{x}, true
	}

	xSols := []arith.Uint128{x, arith.SubModUnsafe128(u128Zero, x, e.Modu)}
	return sortAndDedup128(xSols), true
}

func tonelliShanks128(q, modu arith.Uint128) (arith.Uint128, bool) {
	moduHalf := modu.Sub(u128One).Shr1()

	nonResid := u128Zero
	for b := u128Two; b.Less(modu); b = b.Add(u128One) {
		if !arith.ExpModUnsafe128(b, moduHalf, modu).Equal(u128One) {
			nonResid = b
			break
		}
	}
	if nonResid.IsZero() {
		return u128Zero, false
	}

	moduEven := modu.Sub(u128One)
	pow := moduEven.TrailingZeros()
	moduOdd := moduEven.Shr(pow)

	parC := arith.ExpModUnsafe128(nonResid, moduOdd, modu)
	parT := arith.ExpMod128(q, moduOdd, modu)
	res := arith.ExpMod128(q, moduOdd.Add(u128One).Shr1(), modu)

	m := pow

	for {
		if parT.IsZero() {
			return parT, true
		}
		if parT.Equal(u128One) {
			return res, true
		}

		leastI := uint(0)
		for powI := uint(1); powI < m; powI++ {
			ex := u128One.Shl(powI)
			if arith.ExpModUnsafe128(parT, ex, modu).Equal(u128One) {
				leastI = powI
				break
			}
		}

		if leastI == 0 {
			return u128Zero, false
		}

		parB := arith.ExpModUnsafe128(parC, u128One.Shl(m-leastI-1), modu)

		m = leastI
		parC = arith.MultModUnsafe128(parB, parB, modu)
		parT = arith.MultModUnsafe128(parT, parC, modu)
		res = arith.MultModUnsafe128(res, parB, modu)
	}
}

func (e Eq128) solveQuadCompositeMod(factorRepr []factor.PrimePower128, opts factor.Options) ([]arith.Uint128, bool) {
	subSols := make([][]arith.Uint128, 0, len(factorRepr))
	subModuli := make([]arith.Uint128, 0, len(factorRepr))

	// an incomplete factorization (the engine's pool disconnecting early)
	// must surface as absence, never as a wrong recombination
	residual := e.Modu
	for _, pp := range factorRepr {
		residual, _ = residual.DivMod(pow128(pp.Prime, pp.Exp))
	}
	if !residual.Equal(u128One) {
		return nil, false
	}

	for _, pp := range factorRepr {
		primePow := pow128(pp.Prime, pp.Exp)

		var sols []arith.Uint128
		var ok bool
		if pp.Prime.Cmp(u128Two) > 0 {
			sols, ok = e.solveQuadOddPrimePower(pp.Prime, pp.Exp)
		} else {
			sols, ok = e.solveQuadModTwoPow128(uint(pp.Exp))
		}
		if !ok || len(sols) == 0 {
			return nil, false
		}

		subSols = append(subSols, sols)
		subModuli = append(subModuli, primePow)
	}

	if len(factorRepr) == 1 {
		return subSols[0], true
	}
	return combineCRT128(subSols, subModuli, e.Modu)
}

func (e Eq128) solveQuadOddPrimePower(p arith.Uint128, k uint8) ([]arith.Uint128, bool) {
	roots, ok := e.solveModOddPrime(p)
	if !ok || len(roots) == 0 {
		return nil, false
	}
	if k <= 1 {
		return roots, true
	}

	lifted := e.liftWithHenselMethod(roots, p, k)
	if len(lifted) == 0 {
		return nil, false
	}
	return sortAndDedup128(lifted), true
}

func (e Eq128) solveModOddPrime(p arith.Uint128) ([]arith.Uint128, bool) {
	aP, bP, dP := e.A.Mod(p), e.B.Mod(p), e.D.Mod(p)

	switch {
	case aP.IsZero() && bP.IsZero() && dP.IsZero():
		var all []arith.Uint128
		for i := u128Zero; i.Less(p); i = i.Add(u128One) {
			all = append(all, i)
		}
		return all, true
	case aP.IsZero() && bP.IsZero():
		return nil, false
	case aP.IsZero():
		return linear.Eq128{A: bP, C: dP, Modu: p}.Solve()
	}

	sub := Eq128{A: aP, B: bP, D: dP, Modu: p}
	if aP.Equal(u128One) && bP.IsZero() {
		return sub.solveQuadResidueOddPrimeMod()
	}

	b2 := arith.MultMod128(bP, bP, p)
	ad := arith.MultMod128(u128Four.Mod(p), arith.MultMod128(aP, dP, p), p)
	sub.D = arith.AddModUnsafe128(b2, ad, p)

	return sub.solveQuadSimple()
}

func (e Eq128) liftWithHenselMethod(subSols []arith.Uint128, p arith.Uint128, k uint8) []arith.Uint128 {
	var sols []arith.Uint128

	for _, subSol := range subSols {
		dx := arith.AddMod128(arith.MultMod128(u128Two, arith.MultMod128(e.A, subSol, p), p), e.B, p)

		if dx.IsZero() {
			sols = append(sols, e.liftSingularRoot(subSol, p, k)...)
			continue
		}

		t := arith.Inverse128(dx, p)
		modu := p
		lifted := subSol

		for lv := uint8(1); lv < k; lv++ {
			_, modu = modu.Mul(p)
			poly := e.evalPoly(lifted, modu)
			lifted = arith.SubModUnsafe128(lifted, arith.MultModUnsafe128(poly, t, modu), modu)
		}

		sols = append(sols, lifted)
	}

	return sols
}

func (e Eq128) liftSingularRoot(root, p arith.Uint128, k uint8) []arith.Uint128 {
	cur := []arith.Uint128{root}
	prevModu := p

	for lv := uint8(2); lv <= k; lv++ {
		_, modu := prevModu.Mul(p)
		var next []arith.Uint128
		for _, x := range cur {
			cand := x
			for j := u128Zero; j.Less(p); j = j.Add(u128One) {
				if e.evalPoly(cand, modu).IsZero() {
					next = append(next, cand)
				}
				cand = cand.Add(prevModu)
			}
		}
		if len(next) == 0 {
			return nil
		}
		cur = next
		prevModu = modu
	}
	return cur
}

func (e Eq128) evalPoly(x, modu arith.Uint128) arith.Uint128 {
	ax := arith.MultMod128(e.A, arith.MultMod128(x, x, modu), modu)
	bx := arith.MultMod128(e.B, x, modu)
	cx := arith.SubMod128(u128Zero, e.D, modu)
	return arith.AddModUnsafe128(arith.AddModUnsafe128(ax, bx, modu), cx, modu)
}

func combineCRT128(subSols [][]arith.Uint128, subModuli []arith.Uint128, modu arith.Uint128) ([]arith.Uint128, bool) {
	bounds := make([]int, len(subSols))
	for i := range subSols {
		bounds[i] = len(subSols[i])
	}

	tuples, ok := combin.IndexCombinations(bounds)
	if !ok {
		return nil, false
	}

	coefs := make([]arith.Uint128, len(subModuli))
	for i, mi := range subModuli {
		ni, _ := modu.DivMod(mi)
		inv := arith.Inverse128(ni.Mod(mi), mi)
		coefs[i] = arith.MultMod128(ni, inv, modu)
	}

	sols := make([]arith.Uint128, 0, len(tuples))
	for _, tuple := range tuples {
		x := u128Zero
		for i, idx := range tuple {
			x = arith.AddModUnsafe128(x, arith.MultMod128(coefs[i], subSols[i][idx], modu), modu)
		}
		sols = append(sols, x)
	}

	return sortAndDedup128(sols), true
}

func pow128(base arith.Uint128, exp uint8) arith.Uint128 {
	res := u128One
	for i := uint8(0); i < exp; i++ {
		_, res = res.Mul(base)
	}
	return res
}

func sortAndDedup128(xs []arith.Uint128) []arith.Uint128 {
	if len(xs) < 2 {
		return xs
	}
	sort.Slice(xs, func(i, j int) bool { return xs[i].Less(xs[j]) })
	out := xs[:1]
	for _, x := range xs[1:] {
		if !x.Equal(out[len(out)-1]) {
			out = append(out, x)
		}
	}
	return out
}
