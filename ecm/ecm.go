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
	"encoding/binary"

	"github.com/getamis/sirius/log"
	"golang.org/x/crypto/blake2b"

	"github.com/getamis/modsolve/arith"
)

// MaybeFactor is the native-width mirror of MaybeFactor128, used whenever
// the residual modulus fits in T.
func MaybeFactor[T arith.Uint](n T) T {
	a, x, y, err := randomCurveParams[T](n)
	if err != nil {
		log.Warn("ecm: failed to draw curve parameters", "err", err)
		return 1
	}

	for _, p := range stage1Primes {
		nx, ny, factor, aborted := scalarMul(x, y, a, n, primePower(p))
		if aborted {
			if factor == n {
				return 1
			}
			return factor
		}
		x, y = nx, ny
	}
	return n
}

func randomCurveParams[T arith.Uint](n T) (a, x0, y0 T, err error) {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return 0, 0, 0, err
	}
	digest := blake2b.Sum512(seed)

	a = T(binary.BigEndian.Uint64(digest[0:8])) % n
	x0 = T(binary.BigEndian.Uint64(digest[8:16])) % n
	y0 = T(binary.BigEndian.Uint64(digest[16:24])) % n
	return a, x0, y0, nil
}

func scalarMul[T arith.Uint](x, y, a, n T, k int) (rx, ry, factor T, aborted bool) {
	haveResult := false
	cx, cy := x, y

	for k > 0 {
		if k&1 == 1 {
			if !haveResult {
				rx, ry = cx, cy
				haveResult = true
			} else {
				nx, ny, f, failed := addPoints(rx, ry, cx, cy, a, n)
				if failed {
					return 0, 0, f, true
				}
				rx, ry = nx, ny
			}
		}
		k >>= 1
		if k > 0 {
			nx, ny, f, failed := doublePoint(cx, cy, a, n)
			if failed {
				return 0, 0, f, true
			}
			cx, cy = nx, ny
		}
	}
	return rx, ry, 0, false
}

func addPoints[T arith.Uint](x1, y1, x2, y2, a, n T) (x3, y3, factor T, failed bool) {
	if x1 == x2 {
		return 0, 0, n, true
	}
	deltaX := arith.SubMod(x2, x1, n)
	inv, ok, f := invOrFactor(deltaX, n)
	if !ok {
		return 0, 0, f, true
	}
	lambda := arith.MultMod(arith.SubMod(y2, y1, n), inv, n)
	x3 = arith.SubMod(arith.SubMod(arith.MultMod(lambda, lambda, n), x1, n), x2, n)
	y3 = arith.SubMod(arith.MultMod(lambda, arith.SubMod(x1, x3, n), n), y1, n)
	return x3, y3, 0, false
}

func doublePoint[T arith.Uint](x1, y1, a, n T) (x3, y3, factor T, failed bool) {
	deltaY := arith.MultMod(2, y1, n)
	inv, ok, f := invOrFactor(deltaY, n)
	if !ok {
		return 0, 0, f, true
	}
	num := arith.AddMod(arith.MultMod(3, arith.MultMod(x1, x1, n), n), a, n)
	lambda := arith.MultMod(num, inv, n)
	x3 = arith.SubMod(arith.MultMod(lambda, lambda, n), arith.MultMod(2, x1, n), n)
	y3 = arith.SubMod(arith.MultMod(lambda, arith.SubMod(x1, x3, n), n), y1, n)
	return x3, y3, 0, false
}

func invOrFactor[T arith.Uint](delta, n T) (inv T, ok bool, factor T) {
	if delta == 0 {
		return 0, false, n
	}
	g := arith.GCD(delta, n)
	if g == 1 {
		return arith.Inverse(delta, n), true, 0
	}
	return 0, false, g
}
