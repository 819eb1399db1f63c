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

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/getamis/modsolve/arith"
	"github.com/getamis/modsolve/equation"
	"github.com/getamis/modsolve/factor"
)

var errModulusSigned = errors.New("the modulus must be a positive integer")

// parsedEq is either a linear or a quadratic equation, already split into
// signed coefficients and an unsigned modulus.
type parsedEq struct {
	coefs []arith.Int128
	n     arith.Uint128
}

func (e parsedEq) modu() arith.Uint128 {
	return e.n
}

func (e parsedEq) solve(opts factor.Options) ([]arith.Uint128, bool) {
	if len(e.coefs) == 3 {
		return equation.LinEqSigned{
			A: e.coefs[0], B: e.coefs[1], C: e.coefs[2], Modu: e.n,
		}.Solve()
	}
	return equation.QuadEqSigned{
		A: e.coefs[0], B: e.coefs[1], C: e.coefs[2], D: e.coefs[3], Modu: e.n,
	}.SolveWithOptions(opts)
}

// parseEquation splits args into coefficients and modulus. Underscore digit
// separators are stripped before parsing, so 1_000_003 reads naturally.
func parseEquation(args []string) (parsedEq, error) {
	last := len(args) - 1

	modu, err := parseToNumber(args[last])
	if err != nil {
		return parsedEq{}, fmt.Errorf("bad modulus %q: %w", args[last], err)
	}
	if modu.Neg {
		return parsedEq{}, errModulusSigned
	}

	coefs := make([]arith.Int128, last)
	for i, arg := range args[:last] {
		c, err := parseToNumber(arg)
		if err != nil {
			return parsedEq{}, fmt.Errorf("bad coefficient %q: %w", arg, err)
		}
		coefs[i] = c
	}

	return parsedEq{coefs: coefs, n: modu.Mag}, nil
}

func parseToNumber(arg string) (arith.Int128, error) {
	n, err := arith.ParseInt128(arg)
	if err == nil {
		return n, nil
	}
	return arith.ParseInt128(strings.ReplaceAll(arg, "_", ""))
}

// printSolution renders the solution set, one residue per line, or the
// no-solution notice.
func printSolution(sols []arith.Uint128, modu arith.Uint128) {
	if len(sols) == 0 {
		fmt.Printf("There is no solution in Z/%sZ\n", modu.String())
		return
	}

	fmt.Printf("Solutions x in Z/%sZ\n", modu.String())
	for j, x := range sols {
		fmt.Printf("x_%d: %s\n", j+1, x.String())
	}
}
