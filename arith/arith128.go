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

// This file mirrors arith.go's generic kernel one-for-one over Uint128,
// which Go's generics cannot reach since it is a hand-built struct rather
// than a native integer kind.

// AddModUnsafe128 returns (x+y) mod modu assuming x, y < modu.
func AddModUnsafe128(x, y, modu Uint128) Uint128 {
	if x.Less(modu.Sub(y)) {
		return x.Add(y)
	}
	if x.Less(y) {
		return x.Sub(modu.Sub(y))
	}
	return y.Sub(modu.Sub(x))
}

// SubModUnsafe128 returns (x-y) mod modu assuming x, y < modu.
func SubModUnsafe128(x, y, modu Uint128) Uint128 {
	if !x.Less(y) {
		return x.Sub(y)
	}
	return modu.Sub(y.Sub(x))
}

// MultModUnsafe128 returns (x*y) mod modu assuming x, y < modu, via
// doubling-and-addition.
func MultModUnsafe128(x, y, modu Uint128) Uint128 {
	if x.IsZero() || y.IsZero() {
		return Uint128{}
	}
	var res Uint128
	for !y.IsZero() {
		if y.And1() == 1 {
			res = AddModUnsafe128(res, x, modu)
		}
		y = y.Shr1()
		x = AddModUnsafe128(x, x, modu)
	}
	return res
}

// ExpModUnsafe128 returns base^ex mod modu assuming base < modu.
func ExpModUnsafe128(base, ex, modu Uint128) Uint128 {
	if base.IsZero() {
		return Uint128{}
	}
	res := Uint128FromUint64(1)
	for !ex.IsZero() {
		if ex.And1() == 1 {
			res = MultModUnsafe128(res, base, modu)
		}
		ex = ex.Shr1()
		base = MultModUnsafe128(base, base, modu)
	}
	return res
}

// AddMod128 reduces its operands before delegating to AddModUnsafe128.
func AddMod128(x, y, modu Uint128) Uint128 {
	if x.Less(modu) && y.Less(modu) {
		return AddModUnsafe128(x, y, modu)
	}
	return AddModUnsafe128(x.Mod(modu), y.Mod(modu), modu)
}

// SubMod128 reduces its operands before delegating to SubModUnsafe128.
func SubMod128(x, y, modu Uint128) Uint128 {
	if x.Less(modu) && y.Less(modu) {
		return SubModUnsafe128(x, y, modu)
	}
	return SubModUnsafe128(x.Mod(modu), y.Mod(modu), modu)
}

// MultMod128 reduces its operands before delegating to MultModUnsafe128.
func MultMod128(x, y, modu Uint128) Uint128 {
	if x.Less(modu) && y.Less(modu) {
		return MultModUnsafe128(x, y, modu)
	}
	return MultModUnsafe128(x.Mod(modu), y.Mod(modu), modu)
}

// ExpMod128 reduces the base before delegating to ExpModUnsafe128.
func ExpMod128(base, ex, modu Uint128) Uint128 {
	if base.Less(modu) {
		return ExpModUnsafe128(base, ex, modu)
	}
	return ExpModUnsafe128(base.Mod(modu), ex, modu)
}

// GCD128 returns the greatest common divisor of x and y via the binary
// (Stein) algorithm.
func GCD128(x, y Uint128) Uint128 {
	if x.IsZero() || y.IsZero() {
		if x.IsZero() {
			return y
		}
		return x
	}
	shift := orTrailingZeros(x, y)
	x = x.Shr(x.TrailingZeros())
	for {
		y = y.Shr(y.TrailingZeros())
		if x.Cmp(y) > 0 {
			x, y = y, x
		}
		y = y.Sub(x)
		if y.IsZero() {
			return x.Shl(shift)
		}
	}
}

func orTrailingZeros(x, y Uint128) uint {
	or := Uint128{Hi: x.Hi | y.Hi, Lo: x.Lo | y.Lo}
	return or.TrailingZeros()
}

// Inverse128 returns x^-1 mod modu via the extended Euclidean algorithm, or
// zero (the "no inverse" sentinel) when gcd(x, modu) > 1.
func Inverse128(x, modu Uint128) Uint128 {
	if !x.Less(modu) {
		x = x.Mod(modu)
	}
	rem, remNew := modu, x
	one := Uint128FromUint64(1)
	inv, invNew := Uint128{}, one
	for !remNew.IsZero() {
		quo, newRem := rem.DivMod(remNew)
		rem, remNew = remNew, newRem
		inv, invNew = invNew, SubModUnsafe128(inv, MultModUnsafe128(quo.Mod(modu), invNew, modu), modu)
	}
	if rem.Cmp(one) > 0 {
		return Uint128{}
	}
	return inv
}

// JacobiSymbol128 returns the Jacobi symbol (x|n) for odd n, one of -1, 0, 1.
func JacobiSymbol128(x, n Uint128) int {
	if !x.Less(n) {
		x = x.Mod(n)
	}
	t := 1
	for !x.IsZero() {
		for x.And1() == 0 {
			x = x.Shr1()
			r := n.And7()
			if r == 3 || r == 5 {
				t = -t
			}
		}
		x, n = n, x
		if x.And3() == 3 && n.And3() == 3 {
			t = -t
		}
		x = x.Mod(n)
	}
	if n.Cmp(Uint128FromUint64(1)) == 0 {
		return t
	}
	return 0
}
