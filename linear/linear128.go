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

package linear

import "github.com/getamis/modsolve/arith"

// Eq128 is the Uint128 counterpart of Eq.
type Eq128 struct {
	A, B, C, Modu arith.Uint128
}

// Solve mirrors Eq.Solve for 128-bit operands.
func (e Eq128) Solve() ([]arith.Uint128, bool) {
	one := arith.Uint128FromUint64(1)
	if e.Modu.Cmp(one) <= 0 {
		return nil, false
	}

	c := e.C
	if !e.B.IsZero() {
		c = arith.SubMod128(e.C, e.B, e.Modu)
	}

	g := arith.GCD128(e.A, e.Modu)
	if !c.Mod(g).IsZero() {
		return nil, false
	}

	if g.Equal(one) {
		return []arith.Uint128{solveUnique128(e.A, c, e.Modu)}, true
	}

	newModu, _ := e.Modu.DivMod(g)
	aOverG, _ := e.A.DivMod(g)
	cOverG, _ := c.DivMod(g)
	base := solveUnique128(aOverG, cOverG, newModu)

	var sols []arith.Uint128
	for x := base; x.Less(e.Modu); x = x.Add(newModu) {
		sols = append(sols, x)
		if !x.Less(e.Modu.Sub(newModu)) {
			// the next step would pass modu and could wrap around 2^128
			break
		}
	}
	return sols, true
}

func solveUnique128(a, c, modu arith.Uint128) arith.Uint128 {
	return arith.MultMod128(arith.Inverse128(a, modu), c, modu)
}
