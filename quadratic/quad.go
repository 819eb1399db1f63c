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

// Package quadratic solves quadratic modular equations a*x^2 + b*x + c = d
// (mod n) for arbitrary n: directly over odd prime moduli with Euler's
// criterion and Tonelli-Shanks, and over composites by factoring n, solving
// per prime-power factor (Hensel lifting odd prime powers, a dedicated
// pipeline for powers of two), and recombining with the Chinese Remainder
// Theorem.
package quadratic

import (
	"sort"

	"github.com/getamis/modsolve/arith"
	"github.com/getamis/modsolve/combin"
	"github.com/getamis/modsolve/factor"
	"github.com/getamis/modsolve/linear"
	"github.com/getamis/modsolve/primality"
)

// Eq is a quadratic modular equation a*x^2 + b*x + c = d (mod modu) with
// unsigned terms.
type Eq[T arith.Uint] struct {
	A, B, C, D, Modu T
}

// Solve returns the sorted, deduplicated solution set, or (nil, false) when
// modu < 2 or no solution exists. Composite moduli are factored with the
// default factor-engine options; use SolveWithOptions to tune the ECM pool.
func (e Eq[T]) Solve() ([]T, bool) {
	return e.SolveWithOptions(factor.DefaultOptions())
}

// SolveWithOptions is Solve with explicit factor-engine options.
func (e Eq[T]) SolveWithOptions(opts factor.Options) ([]T, bool) {
	if e.Modu <= 1 {
		return nil, false
	}

	q := e
	q.A %= q.Modu
	q.B %= q.Modu
	q.C %= q.Modu
	q.D %= q.Modu

	if q.C > 0 {
		q.D = arith.SubModUnsafe(q.D, q.C, q.Modu)
		q.C = 0
	}

	switch {
	case q.A == 0 && q.B == 0:
		return nil, false
	case q.A == 0:
		return linear.Eq[T]{A: q.B, C: q.D, Modu: q.Modu}.Solve()
	}

	if primality.IsOddPrime(q.Modu) {
		if q.A == 1 && q.B == 0 {
			return q.solveQuadResidueOddPrimeMod()
		}
		// modify to (2ax + b)^2 = b^2 + 4ad' (mod modu), d' = d - c
		b2 := arith.MultMod(q.B, q.B, q.Modu)
		ad := arith.MultMod(T(4)%q.Modu, arith.MultMod(q.A, q.D, q.Modu), q.Modu)
		q.D = arith.AddModUnsafe(b2, ad, q.Modu)

		return q.solveQuadSimple()
	}

	factors := factor.New(q.Modu)
	factors.Factorize(opts)

	return q.solveQuadCompositeMod(factors.PrimeFactorRepr(), opts)
}

// solveQuadSimple solves (2ax + b)^2 = d (mod modu) for an odd prime modu:
// first z^2 = d (mod modu), then the linear 2ax + b = z (mod modu) for each
// root z.
func (e Eq[T]) solveQuadSimple() ([]T, bool) {
	z, ok := e.solveQuadResidueOddPrimeMod()
	if !ok || len(z) == 0 {
		return nil, false
	}

	linEq := linear.Eq[T]{
		A:    arith.MultMod(T(2)%e.Modu, e.A, e.Modu),
		B:    e.B,
		C:    z[0],
		Modu: e.Modu,
	}

	xSols, ok := linEq.Solve()
	if !ok {
		return nil, false
	}

	if z[0] == 0 || len(z) == 1 {
		// z^2 = d (mod modu) has only one root
		return xSols, true
	}

	linEq.C = z[1]

	xSols2, ok := linEq.Solve()
	if !ok {
		// shouldn't go here as the first linear eq had solutions
		return xSols, true
	}

	xSols = append(xSols, xSols2...)
	return sortAndDedup(xSols), true
}

// solveQuadResidueOddPrimeMod solves x^2 = d (mod modu) for an odd prime
// modu. There will be 0-2 roots.
func (e Eq[T]) solveQuadResidueOddPrimeMod() ([]T, bool) {
	if e.D == 0 {
		return []T{0}, true
	}

	if arith.ExpMod(e.D, (e.Modu-1)/2, e.Modu) != 1 {
		// doesn't satisfy Euler's criterion
		return nil, false
	}

	x, ok := tonelliShanks(e.D, e.Modu)
	if !ok {
		return nil, false
	}
	if x == 0 {
		return []T{x}, true
	}

	xSols := []T{x, arith.SubModUnsafe(0, x, e.Modu)}
	return sortAndDedup(xSols), true
}

// tonelliShanks returns a square root of q modulo the odd prime modu, or
// ok=false when q is a non-residue after all.
func tonelliShanks[T arith.Uint](q, modu T) (T, bool) {
	moduHalf := (modu - 1) / 2

	var nonResid T
	for b := T(2); b < modu; b++ {
		if arith.ExpModUnsafe(b, moduHalf, modu) != 1 {
			nonResid = b
			break
		}
	}
	if nonResid == 0 {
		return 0, false
	}

	moduEven := modu - 1
	pow := trailingZerosT(moduEven)
	moduOdd := moduEven >> pow

	parC := arith.ExpModUnsafe(nonResid, moduOdd, modu)
	parT := arith.ExpMod(q, moduOdd, modu)
	res := arith.ExpMod(q, (moduOdd+1)/2, modu)

	m := pow

	for {
		if parT == 0 {
			return parT, true
		}
		if parT == 1 {
			return res, true
		}

		// least i in (0, m) with parT^(2^i) = 1; the exponent 2^i is a
		// bit-width quantity, hence the fixed-128-bit-exponent variant.
		leastI := uint(0)
		for powI := uint(1); powI < m; powI++ {
			ex := arith.Uint128FromUint64(1).Shl(powI)
			if arith.ExpModUnsafeUint128Exp(parT, ex, modu) == 1 {
				leastI = powI
				break
			}
		}

		if leastI == 0 {
			// q isn't a quadratic residue
			return 0, false
		}

		ex := arith.Uint128FromUint64(1).Shl(m - leastI - 1)
		parB := arith.ExpModUnsafeUint128Exp(parC, ex, modu)

		m = leastI
		parC = arith.MultModUnsafe(parB, parB, modu)
		parT = arith.MultModUnsafe(parT, parC, modu)
		res = arith.MultModUnsafe(res, parB, modu)
	}
}

// solveQuadCompositeMod solves a*x^2 + b*x = d (mod modu) for composite
// modu given its prime factorization: per-prime-power sub-solutions, then
// CRT recombination.
func (e Eq[T]) solveQuadCompositeMod(factorRepr []factor.PrimePower[T], opts factor.Options) ([]T, bool) {
	subSols := make([][]T, 0, len(factorRepr))
	subModuli := make([]T, 0, len(factorRepr))

	// an incomplete factorization (the engine's pool disconnecting early)
	// must surface as absence, never as a wrong recombination
	residual := e.Modu
	for _, pp := range factorRepr {
		residual /= powT(pp.Prime, pp.Exp)
	}
	if residual != 1 {
		return nil, false
	}

	for _, pp := range factorRepr {
		primePow := powT(pp.Prime, pp.Exp)

		var sols []T
		var ok bool
		if pp.Prime > 2 {
			sols, ok = e.solveQuadOddPrimePower(pp.Prime, pp.Exp)
		} else {
			sols, ok = e.solveQuadModTwoPow(uint(pp.Exp))
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
	return combineCRT(subSols, subModuli, e.Modu)
}

// solveQuadOddPrimePower solves a*x^2 + b*x = d (mod p^k) for an odd prime
// p: the roots modulo p first, then Hensel lifting when k > 1.
func (e Eq[T]) solveQuadOddPrimePower(p T, k uint8) ([]T, bool) {
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
	return sortAndDedup(lifted), true
}

// solveModOddPrime solves the equation reduced modulo the odd prime p. The
// leading coefficient may vanish mod p even when it doesn't mod the full
// modulus, degrading the equation to a linear or constant one.
func (e Eq[T]) solveModOddPrime(p T) ([]T, bool) {
	aP, bP, dP := e.A%p, e.B%p, e.D%p

	switch {
	case aP == 0 && bP == 0 && dP == 0:
		all := make([]T, p)
		for i := T(0); i < p; i++ {
			all[i] = i
		}
		return all, true
	case aP == 0 && bP == 0:
		return nil, false
	case aP == 0:
		return linear.Eq[T]{A: bP, C: dP, Modu: p}.Solve()
	}

	sub := Eq[T]{A: aP, B: bP, D: dP, Modu: p}
	if aP == 1 && bP == 0 {
		return sub.solveQuadResidueOddPrimeMod()
	}

	b2 := arith.MultMod(bP, bP, p)
	ad := arith.MultMod(T(4)%p, arith.MultMod(aP, dP, p), p)
	sub.D = arith.AddModUnsafe(b2, ad, p)

	return sub.solveQuadSimple()
}

// liftWithHenselMethod lifts each root of f(x) = a*x^2 + b*x - d modulo p to
// a root modulo p^k. A root with invertible derivative lifts uniquely by
// Newton iteration with the inverse precomputed mod p; a singular root is
// lifted level by level, enumerating every candidate x + j*p^(level-1) and
// keeping the ones that still satisfy f — the set may branch or vanish.
func (e Eq[T]) liftWithHenselMethod(subSols []T, p T, k uint8) []T {
	var sols []T

	for _, subSol := range subSols {
		dx := arith.AddMod(arith.MultMod(T(2)%p, arith.MultMod(e.A, subSol, p), p), e.B, p)

		if dx == 0 {
			sols = append(sols, e.liftSingularRoot(subSol, p, k)...)
			continue
		}

		t := arith.Inverse(dx, p)
		modu := p
		lifted := subSol

		for lv := uint8(1); lv < k; lv++ {
			modu *= p
			poly := e.evalPoly(lifted, modu)
			lifted = arith.SubModUnsafe(lifted, arith.MultModUnsafe(poly, t, modu), modu)
		}

		sols = append(sols, lifted)
	}

	return sols
}

// liftSingularRoot walks a singular root up one prime power at a time,
// testing all p lifts at each level.
func (e Eq[T]) liftSingularRoot(root T, p T, k uint8) []T {
	cur := []T{root}
	prevModu := p

	for lv := uint8(2); lv <= k; lv++ {
		modu := prevModu * p
		var next []T
		for _, x := range cur {
			for j, cand := T(0), x; j < p; j, cand = j+1, cand+prevModu {
				if e.evalPoly(cand, modu) == 0 {
					next = append(next, cand)
				}
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

// evalPoly returns a*x^2 + b*x - d (mod modu).
func (e Eq[T]) evalPoly(x, modu T) T {
	ax := arith.MultMod(e.A, arith.MultMod(x, x, modu), modu)
	bx := arith.MultMod(e.B, x, modu)
	cx := arith.SubMod(0, e.D, modu)
	return arith.AddModUnsafe(arith.AddModUnsafe(ax, bx, modu), cx, modu)
}

// combineCRT stitches the per-prime-power sub-solution lists into solutions
// modulo the full modu, one combined residue per element of the index cross
// product.
func combineCRT[T arith.Uint](subSols [][]T, subModuli []T, modu T) ([]T, bool) {
	bounds := make([]int, len(subSols))
	for i := range subSols {
		bounds[i] = len(subSols[i])
	}

	tuples, ok := combin.IndexCombinations(bounds)
	if !ok {
		return nil, false
	}

	// coef_i = (modu / m_i) * ((modu / m_i)^-1 mod m_i), fixed per factor
	coefs := make([]T, len(subModuli))
	for i, mi := range subModuli {
		ni := modu / mi
		inv := arith.Inverse(ni%mi, mi)
		coefs[i] = arith.MultMod(ni, inv, modu)
	}

	sols := make([]T, 0, len(tuples))
	for _, tuple := range tuples {
		var x T
		for i, idx := range tuple {
			x = arith.AddModUnsafe(x, arith.MultMod(coefs[i], subSols[i][idx], modu), modu)
		}
		sols = append(sols, x)
	}

	return sortAndDedup(sols), true
}

func powT[T arith.Uint](base T, exp uint8) T {
	res := T(1)
	for i := uint8(0); i < exp; i++ {
		res *= base
	}
	return res
}

func sortAndDedup[T arith.Uint](xs []T) []T {
	if len(xs) < 2 {
		return xs
	}
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	out := xs[:1]
	for _, x := range xs[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

func trailingZerosT[T arith.Uint](x T) uint {
	var n uint
	for x&1 == 0 {
		x >>= 1
		n++
	}
	return n
}
