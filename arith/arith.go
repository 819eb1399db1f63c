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

// Package arith implements overflow-safe modular arithmetic over the
// native unsigned integer widths (8, 16, 32, 64 bits). Every identity here
// mirrors the dedicated Uint128 kernel in arith128.go bit for bit; the two
// live apart because Go generics cannot abstract over a hand-built 128-bit
// type and the machine unsigned kinds at once.
//
// Functions named *Unsafe assume their operands already lie in [0, modu);
// callers that cannot prove this must use the reducing variants instead.
package arith

// Uint is the set of native unsigned widths the kernel is instantiated over.
// The equation package serves widths 8, 16 and 32 through the uint64
// instantiation: every identity below holds for any modulus that fits in the
// concrete type, regardless of how much headroom that type leaves below its
// own top.
type Uint interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// AddModUnsafe returns (x+y) mod modu assuming x, y < modu. It never forms
// x+y directly, so it cannot overflow T even when modu is within one of
// T's maximum value.
func AddModUnsafe[T Uint](x, y, modu T) T {
	if x < modu-y {
		return x + y
	}
	if x < y {
		return x - (modu - y)
	}
	return y - (modu - x)
}

// SubModUnsafe returns (x-y) mod modu assuming x, y < modu.
func SubModUnsafe[T Uint](x, y, modu T) T {
	if x >= y {
		return x - y
	}
	return modu - (y - x)
}

// MultModUnsafe returns (x*y) mod modu assuming x, y < modu, via
// Russian-peasant doubling-and-addition. The running sum and the doubled
// operand are both kept reduced by AddModUnsafe, so the product is formed
// without ever needing more than T's own width.
func MultModUnsafe[T Uint](x, y, modu T) T {
	if x == 0 || y == 0 {
		return 0
	}
	var res T
	for y > 0 {
		if y&1 == 1 {
			res = AddModUnsafe(res, x, modu)
		}
		y >>= 1
		x = AddModUnsafe(x, x, modu)
	}
	return res
}

// ExpModUnsafe returns base^ex mod modu assuming base < modu, via
// square-and-multiply.
func ExpModUnsafe[T Uint](base, ex, modu T) T {
	if base == 0 {
		return 0
	}
	res := T(1)
	for ex > 0 {
		if ex&1 == 1 {
			res = MultModUnsafe(res, base, modu)
		}
		ex >>= 1
		base = MultModUnsafe(base, base, modu)
	}
	return res
}

// ExpModUnsafeUint128Exp is the fixed-128-bit-exponent variant of
// ExpModUnsafe, needed when an exponent is computed as a bit-width quantity
// (e.g. n+1's bit length) independent of T's own width.
func ExpModUnsafeUint128Exp[T Uint](base T, ex Uint128, modu T) T {
	if base == 0 {
		return 0
	}
	res := T(1)
	for !ex.IsZero() {
		if ex.Lo&1 == 1 {
			res = MultModUnsafe(res, base, modu)
		}
		ex = ex.Shr1()
		base = MultModUnsafe(base, base, modu)
	}
	return res
}

// AddMod reduces its operands before delegating to AddModUnsafe.
func AddMod[T Uint](x, y, modu T) T {
	if x < modu && y < modu {
		return AddModUnsafe(x, y, modu)
	}
	return AddModUnsafe(x%modu, y%modu, modu)
}

// SubMod reduces its operands before delegating to SubModUnsafe.
func SubMod[T Uint](x, y, modu T) T {
	if x < modu && y < modu {
		return SubModUnsafe(x, y, modu)
	}
	return SubModUnsafe(x%modu, y%modu, modu)
}

// MultMod reduces its operands before delegating to MultModUnsafe.
func MultMod[T Uint](x, y, modu T) T {
	if x < modu && y < modu {
		return MultModUnsafe(x, y, modu)
	}
	return MultModUnsafe(x%modu, y%modu, modu)
}

// ExpMod reduces the base before delegating to ExpModUnsafe. The exponent
// is never reduced: Euler's theorem doesn't hold for composite modu.
func ExpMod[T Uint](base, ex, modu T) T {
	if base < modu {
		return ExpModUnsafe(base, ex, modu)
	}
	return ExpModUnsafe(base%modu, ex, modu)
}

// GCD returns the greatest common divisor of x and y via the binary
// (Stein) algorithm.
func GCD[T Uint](x, y T) T {
	if x == 0 || y == 0 {
		return x | y
	}
	shift := trailingZeros(x | y)
	x >>= trailingZeros(x)
	for {
		y >>= trailingZeros(y)
		if x > y {
			x, y = y, x
		}
		y -= x
		if y == 0 {
			return x << shift
		}
	}
}

// Inverse returns x^-1 mod modu via the extended Euclidean algorithm, or
// zero when gcd(x, modu) > 1 — the sentinel for "no inverse". The zero
// residue is never itself a valid inverse, so the sentinel is unambiguous.
func Inverse[T Uint](x, modu T) T {
	if x >= modu {
		x %= modu
	}
	rem, remNew := modu, x
	inv, invNew := T(0), T(1)
	for remNew > 0 {
		quo := rem / remNew
		rem, remNew = remNew, rem-quo*remNew
		inv, invNew = invNew, SubModUnsafe(inv, MultModUnsafe(quo%modu, invNew, modu), modu)
	}
	if rem > 1 {
		return 0
	}
	return inv
}

// JacobiSymbol returns the Jacobi symbol (x|n) for odd n, one of -1, 0, 1.
func JacobiSymbol[T Uint](x, n T) int {
	if x >= n {
		x %= n
	}
	t := 1
	for x > 0 {
		for x&1 == 0 {
			x >>= 1
			r := n & 7
			if r == 3 || r == 5 {
				t = -t
			}
		}
		x, n = n, x
		if x&3 == 3 && n&3 == 3 {
			t = -t
		}
		x %= n
	}
	if n == 1 {
		return t
	}
	return 0
}

// TruncSquare returns x*x, or zero if that product would overflow T. It is
// used to cheaply probe whether a value is a perfect square candidate
// during Fermat factorization.
func TruncSquare[T Uint](x T) T {
	if x == 0 {
		return 0
	}
	if x < maxValue[T]()/x {
		return x * x
	}
	return 0
}

func maxValue[T Uint]() T {
	var zero T
	return zero - 1
}

func trailingZeros[T Uint](x T) T {
	if x == 0 {
		// Width of T in bits, matching the semantics of the host
		// language's trailing_zeros on an all-zero value.
		var zero T
		bits := T(0)
		for v := ^zero; v != 0; v >>= 1 {
			bits++
		}
		return bits
	}
	var n T
	for x&1 == 0 {
		x >>= 1
		n++
	}
	return n
}
