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

// Package linear solves linear modular equations a*x + b = c (mod n),
// both directly and as the subroutine the quadratic solver reduces to
// after substituting y = 2a*x + b.
package linear

import "github.com/getamis/modsolve/arith"

// Eq is a linear modular equation a*x + b = c (mod modu).
type Eq[T arith.Uint] struct {
	A, B, C, Modu T
}

// Solve returns the sorted, deduplicated solution set, or (nil, false) when
// modu < 2 or no solution exists.
func (e Eq[T]) Solve() ([]T, bool) {
	if e.Modu <= 1 {
		return nil, false
	}

	c := e.C
	if e.B > 0 {
		c = arith.SubMod(e.C, e.B, e.Modu)
	}

	g := arith.GCD(e.A, e.Modu)
	if c%g > 0 {
		return nil, false
	}

	if g == 1 {
		return []T{solveUnique(e.A, c, e.Modu)}, true
	}

	newModu := e.Modu / g
	base := solveUnique(e.A/g, c/g, newModu)

	sols := make([]T, 0, e.Modu/newModu)
	for x := base; x < e.Modu; x += newModu {
		sols = append(sols, x)
		if x >= e.Modu-newModu {
			// the next step would pass modu and could wrap around T
			break
		}
	}
	return sols, true
}

func solveUnique[T arith.Uint](a, c, modu T) T {
	return arith.MultMod(arith.Inverse(a, modu), c, modu)
}
