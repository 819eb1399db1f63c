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

package ecm

import (
	"crypto/rand"

	"github.com/getamis/sirius/log"
	"golang.org/x/crypto/blake2b"

	"github.com/getamis/modsolve/arith"
)

var (
	u128One   = arith.Uint128FromUint64(1)
	u128Two   = arith.Uint128FromUint64(2)
	u128Three = arith.Uint128FromUint64(3)
)

// MaybeFactor128 draws one pseudo-random Weierstrass curve y^2 = x^3 + A*x + B
// over Z/nZ, scalar-multiplies a point on it by a B-smooth product of small
// prime powers, and folds the result to the contract the factor engine
// expects: 1 (retry this curve failed), a value strictly between 1 and n (a
// genuine proper factor), or n itself (this curve found nothing, n looks
// prime from here).
func MaybeFactor128(n arith.Uint128) arith.Uint128 {
	a, x, y, err := randomCurveParams128(n)
	if err != nil {
		log.Warn("ecm: failed to draw curve parameters", "err", err)
		return u128One
	}

	for _, p := range stage1Primes {
		nx, ny, factor, aborted := scalarMul128(x, y, a, n, primePower(p))
		if aborted {
			if factor.Equal(n) {
				return u128One
			}
			return factor
		}
		x, y = nx, ny
	}
	return n
}

// randomCurveParams128 draws (A, x0, y0) mod n. B is never materialized: it
// is implied by y0^2 = x0^3 + A*x0 + B, so the constructed point is on the
// curve by definition and never needs an explicit check.
func randomCurveParams128(n arith.Uint128) (a, x0, y0 arith.Uint128, err error) {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return arith.Uint128{}, arith.Uint128{}, arith.Uint128{}, err
	}
	digest := blake2b.Sum512(seed)

	a = u128FromBytes(digest[0:16]).Mod(n)
	x0 = u128FromBytes(digest[16:32]).Mod(n)
	y0 = u128FromBytes(digest[32:48]).Mod(n)
	return a, x0, y0, nil
}

func u128FromBytes(b []byte) arith.Uint128 {
	var hi, lo uint64
	for i := 0; i < 8; i++ {
		hi = hi<<8 | uint64(b[i])
	}
	for i := 8; i < 16; i++ {
		lo = lo<<8 | uint64(b[i])
	}
	return arith.Uint128{Hi: hi, Lo: lo}
}

// scalarMul128 computes k*(x,y) on the curve (a, n) via double-and-add,
// aborting as soon as any point operation's denominator fails to invert.
func scalarMul128(x, y, a, n arith.Uint128, k int) (rx, ry, factor arith.Uint128, aborted bool) {
	haveResult := false
	cx, cy := x, y

	for k > 0 {
		if k&1 == 1 {
			if !haveResult {
				rx, ry = cx, cy
				haveResult = true
			} else {
				nx, ny, f, failed := addPoints128(rx, ry, cx, cy, a, n)
				if failed {
					return arith.Uint128{}, arith.Uint128{}, f, true
				}
				rx, ry = nx, ny
			}
		}
		k >>= 1
		if k > 0 {
			nx, ny, f, failed := doublePoint128(cx, cy, a, n)
			if failed {
				return arith.Uint128{}, arith.Uint128{}, f, true
			}
			cx, cy = nx, ny
		}
	}
	return rx, ry, arith.Uint128{}, false
}

func addPoints128(x1, y1, x2, y2, a, n arith.Uint128) (x3, y3, factor arith.Uint128, failed bool) {
	if x1.Equal(x2) {
		// delta == 0 exactly: either P == -Q (true point at infinity) or a
		// degenerate duplicate. Either way this curve attempt is abandoned,
		// per the maybe_factor contract's "equals n, curve failed" branch.
		return arith.Uint128{}, arith.Uint128{}, n, true
	}
	deltaX := arith.SubMod128(x2, x1, n)
	inv, ok, f := invOrFactor128(deltaX, n)
	if !ok {
		return arith.Uint128{}, arith.Uint128{}, f, true
	}
	lambda := arith.MultMod128(arith.SubMod128(y2, y1, n), inv, n)
	x3 = arith.SubMod128(arith.SubMod128(arith.MultMod128(lambda, lambda, n), x1, n), x2, n)
	y3 = arith.SubMod128(arith.MultMod128(lambda, arith.SubMod128(x1, x3, n), n), y1, n)
	return x3, y3, arith.Uint128{}, false
}

func doublePoint128(x1, y1, a, n arith.Uint128) (x3, y3, factor arith.Uint128, failed bool) {
	deltaY := arith.MultMod128(u128Two, y1, n)
	inv, ok, f := invOrFactor128(deltaY, n)
	if !ok {
		return arith.Uint128{}, arith.Uint128{}, f, true
	}
	num := arith.AddMod128(arith.MultMod128(u128Three, arith.MultMod128(x1, x1, n), n), a, n)
	lambda := arith.MultMod128(num, inv, n)
	x3 = arith.SubMod128(arith.MultMod128(lambda, lambda, n), arith.MultMod128(u128Two, x1, n), n)
	y3 = arith.SubMod128(arith.MultMod128(lambda, arith.SubMod128(x1, x3, n), n), y1, n)
	return x3, y3, arith.Uint128{}, false
}

// invOrFactor128 returns the modular inverse of delta mod n, or reports the
// gcd that blocked it — which is exactly the factoring signal ECM is built
// around.
func invOrFactor128(delta, n arith.Uint128) (inv arith.Uint128, ok bool, factor arith.Uint128) {
	if delta.IsZero() {
		return arith.Uint128{}, false, n
	}
	g := arith.GCD128(delta, n)
	if g.Equal(u128One) {
		return arith.Inverse128(delta, n), true, arith.Uint128{}
	}
	return arith.Uint128{}, false, g
}
