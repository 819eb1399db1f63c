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

package primality

import "github.com/getamis/modsolve/arith"

var (
	u128Zero   = arith.Uint128{}
	u128One    = arith.Uint128FromUint64(1)
	u128Two    = arith.Uint128FromUint64(2)
	u128Five   = arith.Uint128FromUint64(5)
	u128SixtySeven = arith.Uint128FromUint64(67)
)

// maxU64AsU128 is 2^64-1, the boundary below which the native uint64 path
// is equivalent and reused directly.
var maxU64AsU128 = arith.Uint128{Hi: 0, Lo: ^uint64(0)}

// mersenne127 is 2^127-1, a known prime short-circuited the same way the
// original strong-BPSW routine short-circuits it.
var mersenne127 = arith.Uint128{Hi: 0x7fffffffffffffff, Lo: ^uint64(0)}

// smallOddPrimes128 mirrors smallOddPrimes widened to Uint128.
var smallOddPrimes128 [17]arith.Uint128

func init() {
	for i, p := range smallOddPrimes {
		smallOddPrimes128[i] = arith.Uint128FromUint64(p)
	}
}

// IsOddPrime128 decides primality for the 128-bit pipeline: deterministic
// Miller-Rabin below 2^64 (delegated to the native-width path) and strong
// Baillie-PSW above it.
func IsOddPrime128(num arith.Uint128) bool {
	if num.Cmp(u128One) <= 0 || num.And1() == 0 {
		return false
	}
	if small, ok := isSureOddSmallPrime128(num); ok {
		return small
	}
	if num.Less(u128SixtySeven) {
		return false
	}
	if num.Cmp(maxU64AsU128) <= 0 {
		return IsOddPrime(num.Lo)
	}
	return isPrimeStrongBPSW(num)
}

func isSureOddSmallPrime128(num arith.Uint128) (bool, bool) {
	for _, p := range smallOddPrimes128 {
		q, r := num.DivMod(p)
		if p.Cmp(q) > 0 {
			return true, true
		}
		if r.IsZero() {
			return false, true
		}
	}
	return false, false
}

func isPrimeMR128(num arith.Uint128, bases []arith.Uint128) bool {
	numEven := num.Sub(u128One)
	pow := numEven.TrailingZeros()
	numOdd := numEven.Shr(pow)

	for _, base := range bases {
		b := base
		if !b.Less(num) {
			b = b.Mod(num)
		}
		if b.IsZero() {
			continue
		}
		q := arith.ExpMod128(b, numOdd, num)
		if q.Equal(u128One) || q.Equal(numEven) {
			continue
		}
		jump := false
		for i := uint(1); i < pow; i++ {
			q = arith.MultMod128(q, q, num)
			if q.Equal(numEven) {
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

func isPrimeStrongBPSW(num arith.Uint128) bool {
	if !isPrimeMR128(num, []arith.Uint128{u128Two}) {
		return false
	}
	if num.Equal(mersenne127) {
		return true
	}
	params, ok := selectLucasParams(num)
	if !ok {
		return false
	}
	return passStrongLucasTest(num, params)
}

// lucasParams128 is the (D, P, Q) triple selected for the strong Lucas test.
type lucasParams128 struct {
	D, P, Q arith.Uint128
}

// selectLucasParams searches D = 5, -7, 9, -11, ... for the first value
// whose Jacobi symbol against num is -1, deriving the matching (P, Q) pair.
// It reports false when num is recognized as composite along the way (a
// zero Jacobi symbol on a non-divisor, or a perfect square at the 10th try).
func selectLucasParams(num arith.Uint128) (lucasParams128, bool) {
	dPos := u128Five
	for i := 0; ; i++ {
		d := dPos
		if i&1 == 1 {
			d = num.Sub(dPos.Mod(num))
		}
		jac := arith.JacobiSymbol128(d, num)
		if jac == -1 {
			var p, q arith.Uint128
			switch {
			case i&1 == 1:
				p = u128One
				q = u128One.Add(dPos).Shr(2)
			case dPos.Equal(u128Five):
				p = u128Five
				q = u128Five
			default:
				p = u128One
				qTemp := dPos.Sub(u128One).Shr(2)
				q = num.Sub(qTemp.Mod(num))
			}
			return lucasParams128{D: d, P: p, Q: q}, true
		}
		if jac == 0 && (dPos.Less(num) || !dPos.Mod(num).IsZero()) {
			return lucasParams128{}, false
		}
		if i == 10 {
			root := num.Sqrt()
			if root.TruncSquare().Equal(num) {
				return lucasParams128{}, false
			}
		}
		dPos = dPos.Add(u128Two)
	}
}

// passStrongLucasTest runs the strong Lucas probable-prime test plus the
// Euler criterion it is layered with, combining to the full strong BPSW
// witness.
func passStrongLucasTest(num arith.Uint128, params lucasParams128) bool {
	numEven := num.Add(u128One)
	pow := numEven.TrailingZeros()
	numOdd := numEven.Shr(pow)
	bitsToCheck := numEven.BitLen()
	eulerCheckRound := numEven.Shr1()

	lucU, lucV, lucW := u128Zero, u128Two, u128One
	round := u128Zero
	isSlprp, passEulerCrit := false, false

	for bit := uint(0); bit < bitsToCheck; bit++ {
		if bit > 0 {
			updateLucasNormalUVQ(num, &lucU, &lucV, &lucW)
			round = round.Shl1()
		}

		if !isSlprp && lucV.IsZero() && round.Cmp(numOdd) > 0 && bit < bitsToCheck-1 {
			isSlprp = true
		}

		if numEven.Bit(bitsToCheck-1-bit) == 1 {
			updateLucasOddBitUVQ(num, params, &lucU, &lucV, &lucW)
			round = round.Add(u128One)
		}

		if round.Equal(numOdd) && (lucU.IsZero() || lucV.IsZero()) {
			isSlprp = true
		}

		if round.Equal(eulerCheckRound) {
			var lucQJac arith.Uint128
			switch jac := arith.JacobiSymbol128(params.Q, num); {
			case jac == 0:
				lucQJac = u128Zero
			case jac > 0:
				lucQJac = num.Sub(params.Q.Mod(num))
			default:
				lucQJac = params.Q
			}
			if arith.AddMod128(lucW, lucQJac, num).IsZero() {
				passEulerCrit = true
			}
		}
	}

	if !lucU.IsZero() || !isSlprp || !passEulerCrit {
		return false
	}
	if !arith.MultMod128(u128Two, params.Q, num).Equal(lucV.Mod(num)) {
		return false
	}
	return true
}

func updateLucasNormalUVQ(num arith.Uint128, u, v, w *arith.Uint128) {
	newU := arith.MultMod128(*u, *v, num)
	newV := arith.AddMod128(
		arith.MultMod128(*v, *v, num),
		arith.MultMod128(num.Sub(u128Two), *w, num),
		num,
	)
	newW := arith.MultMod128(*w, *w, num)
	*u, *v, *w = newU, newV, newW
}

// modifyLucasCoef halves (xLeft+xRight) mod num, routing around the parity
// trap of halving an odd sum by decomposing both operands as 2k+1 first.
func modifyLucasCoef(xLeft, xRight, num arith.Uint128) arith.Uint128 {
	numer := arith.AddMod128(xLeft, xRight, num)
	if numer.And1() == 1 {
		return arith.AddMod128(numer.Sub(u128One).Shr1(), num.Sub(u128One).Shr1().Add(u128One), num)
	}
	return numer.Shr1()
}

func updateLucasOddBitUVQ(num arith.Uint128, params lucasParams128, u, v, w *arith.Uint128) {
	d, p, q := params.D, params.P, params.Q
	newU := modifyLucasCoef(arith.MultMod128(p, *u, num), *v, num)
	newV := modifyLucasCoef(arith.MultMod128(d, *u, num), arith.MultMod128(p, *v, num), num)
	*u = newU
	*v = newV
	*w = arith.MultMod128(q, *w, num)
}
