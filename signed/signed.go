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

// Package signed adapts signed equation coefficients to their non-negative
// class representatives, so the unsigned solvers in linear and quadratic
// never need to know a caller ever held a signed value.
package signed

import "github.com/getamis/modsolve/arith"

// CastCoefficients casts every signed coefficient in xs to its residue
// mod modu. It reports ok=false as soon as any coefficient is the signed
// minimum (no absolute value to cast), at which point the partial results
// slice must not be used.
func CastCoefficients[T arith.Uint](modu T, xs ...int64) ([]T, bool) {
	out := make([]T, len(xs))
	for i, x := range xs {
		v, ok := arith.CastToUnsigned(x, modu)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// CastCoefficients128 is the Uint128/Int128 counterpart of CastCoefficients.
func CastCoefficients128(modu arith.Uint128, xs ...arith.Int128) ([]arith.Uint128, bool) {
	out := make([]arith.Uint128, len(xs))
	for i, x := range xs {
		v, ok := arith.CastToUnsigned128(x, modu)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
