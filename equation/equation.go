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

// Package equation is the public solving surface. Equations carry 128-bit
// fields; Solve picks the native 64-bit pipeline whenever every operand
// fits, falling back to the dedicated 128-bit kernel otherwise. The width
// split is invisible to callers: results always come back as Uint128
// residues in ascending order, and absence uniformly means "no solution"
// whether the cause was mathematical or a degenerate input.
package equation

import (
	"github.com/getamis/modsolve/arith"
	"github.com/getamis/modsolve/factor"
	"github.com/getamis/modsolve/linear"
	"github.com/getamis/modsolve/quadratic"
	"github.com/getamis/modsolve/signed"
)

// maxInt64Mag is the largest signed magnitude the 64-bit pipeline accepts.
// The 64-bit signed minimum itself is routed to the 128-bit pipeline, where
// it is an ordinary value with an absolute value.
var maxInt64Mag = arith.Uint128{Lo: 1<<63 - 1}

// LinEq is a linear modular equation a*x + b = c (mod modu) with unsigned
// terms.
type LinEq struct {
	A, B, C, Modu arith.Uint128
}

// Solve returns the ascending solution set, or (nil, false) when there is
// no solution.
func (e LinEq) Solve() ([]arith.Uint128, bool) {
	if fitsUint64(e.A, e.B, e.C, e.Modu) {
		sols, ok := linear.Eq[uint64]{A: e.A.Lo, B: e.B.Lo, C: e.C.Lo, Modu: e.Modu.Lo}.Solve()
		return widen(sols), ok
	}
	return linear.Eq128{A: e.A, B: e.B, C: e.C, Modu: e.Modu}.Solve()
}

// LinEqSigned is a linear modular equation with signed terms and an
// unsigned modulus.
type LinEqSigned struct {
	A, B, C arith.Int128
	Modu    arith.Uint128
}

// Solve normalizes the signed terms to their class representatives and
// delegates to the unsigned solver.
func (e LinEqSigned) Solve() ([]arith.Uint128, bool) {
	if e.Modu.Cmp(u128Two) < 0 {
		return nil, false
	}

	if e.Modu.Hi == 0 && fitsInt64(e.A, e.B, e.C) {
		coefs, ok := signed.CastCoefficients(e.Modu.Lo, toInt64(e.A), toInt64(e.B), toInt64(e.C))
		if !ok {
			return nil, false
		}
		sols, ok := linear.Eq[uint64]{A: coefs[0], B: coefs[1], C: coefs[2], Modu: e.Modu.Lo}.Solve()
		return widen(sols), ok
	}

	coefs, ok := signed.CastCoefficients128(e.Modu, e.A, e.B, e.C)
	if !ok {
		return nil, false
	}
	return linear.Eq128{A: coefs[0], B: coefs[1], C: coefs[2], Modu: e.Modu}.Solve()
}

// QuadEq is a quadratic modular equation a*x^2 + b*x + c = d (mod modu)
// with unsigned terms.
type QuadEq struct {
	A, B, C, D, Modu arith.Uint128
}

// Solve returns the ascending solution set, or (nil, false) when there is
// no solution. Composite moduli are factored with the default engine
// options.
func (e QuadEq) Solve() ([]arith.Uint128, bool) {
	return e.SolveWithOptions(factor.DefaultOptions())
}

// SolveWithOptions is Solve with explicit factor-engine options.
func (e QuadEq) SolveWithOptions(opts factor.Options) ([]arith.Uint128, bool) {
	if fitsUint64(e.A, e.B, e.C, e.D, e.Modu) {
		sols, ok := quadratic.Eq[uint64]{
			A: e.A.Lo, B: e.B.Lo, C: e.C.Lo, D: e.D.Lo, Modu: e.Modu.Lo,
		}.SolveWithOptions(opts)
		return widen(sols), ok
	}
	return quadratic.Eq128{A: e.A, B: e.B, C: e.C, D: e.D, Modu: e.Modu}.SolveWithOptions(opts)
}

// QuadEqSigned is a quadratic modular equation with signed terms and an
// unsigned modulus.
type QuadEqSigned struct {
	A, B, C, D arith.Int128
	Modu       arith.Uint128
}

// Solve normalizes the signed terms to their class representatives and
// delegates to the unsigned solver.
func (e QuadEqSigned) Solve() ([]arith.Uint128, bool) {
	return e.SolveWithOptions(factor.DefaultOptions())
}

// SolveWithOptions is Solve with explicit factor-engine options.
func (e QuadEqSigned) SolveWithOptions(opts factor.Options) ([]arith.Uint128, bool) {
	if e.Modu.Cmp(u128Two) < 0 {
		return nil, false
	}

	if e.Modu.Hi == 0 && fitsInt64(e.A, e.B, e.C, e.D) {
		coefs, ok := signed.CastCoefficients(e.Modu.Lo, toInt64(e.A), toInt64(e.B), toInt64(e.C), toInt64(e.D))
		if !ok {
			return nil, false
		}
		sols, ok := quadratic.Eq[uint64]{
			A: coefs[0], B: coefs[1], C: coefs[2], D: coefs[3], Modu: e.Modu.Lo,
		}.SolveWithOptions(opts)
		return widen(sols), ok
	}

	coefs, ok := signed.CastCoefficients128(e.Modu, e.A, e.B, e.C, e.D)
	if !ok {
		return nil, false
	}
	return quadratic.Eq128{
		A: coefs[0], B: coefs[1], C: coefs[2], D: coefs[3], Modu: e.Modu,
	}.SolveWithOptions(opts)
}

var u128Two = arith.Uint128FromUint64(2)

func fitsUint64(xs ...arith.Uint128) bool {
	for _, x := range xs {
		if x.Hi != 0 {
			return false
		}
	}
	return true
}

func fitsInt64(xs ...arith.Int128) bool {
	for _, x := range xs {
		if x.Mag.Cmp(maxInt64Mag) > 0 {
			return false
		}
	}
	return true
}

func toInt64(x arith.Int128) int64 {
	if x.Neg {
		return -int64(x.Mag.Lo)
	}
	return int64(x.Mag.Lo)
}

func widen(xs []uint64) []arith.Uint128 {
	if xs == nil {
		return nil
	}
	out := make([]arith.Uint128, len(xs))
	for i, x := range xs {
		out[i] = arith.Uint128FromUint64(x)
	}
	return out
}
