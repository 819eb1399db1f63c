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
package equation

import (
	"testing"

	"github.com/getamis/modsolve/arith"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestEquation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Equation Suite")
}

func u128(v uint64) arith.Uint128 {
	return arith.Uint128FromUint64(v)
}

func i128(v int64) arith.Int128 {
	if v < 0 {
		return arith.Int128{Neg: true, Mag: u128(uint64(-v))}
	}
	return arith.Int128{Mag: u128(uint64(v))}
}

func mustU128(s string) arith.Uint128 {
	v, err := arith.ParseUint128(s)
	if err != nil {
		panic(err)
	}
	return v
}

var _ = Describe("linear surface", func() {
	It("solves a unique equation", func() {
		sols, ok := LinEq{A: u128(13), B: u128(17), C: u128(5), Modu: u128(29)}.Solve()
		Expect(ok).Should(BeTrue())
		Expect(sols).Should(Equal([]arith.Uint128{u128(8)}))
	})

	It("reports absence for a signed equation without solutions", func() {
		_, ok := LinEqSigned{A: i128(-3), B: i128(-1), C: i128(3), Modu: u128(9)}.Solve()
		Expect(ok).Should(BeFalse())
	})

	It("finds every residue of a multi-solution equation", func() {
		sols, ok := LinEq{A: u128(3), B: u128(1), C: u128(250), Modu: u128(255)}.Solve()
		Expect(ok).Should(BeTrue())
		Expect(sols).Should(Equal([]arith.Uint128{u128(83), u128(168), u128(253)}))
	})

	It("rejects a modulus below two", func() {
		_, ok := LinEqSigned{A: i128(1), C: i128(1), Modu: u128(1)}.Solve()
		Expect(ok).Should(BeFalse())
	})
})

var _ = Describe("quadratic surface", func() {
	It("solves over an odd prime", func() {
		sols, ok := QuadEq{A: u128(1), B: u128(1), C: u128(3), D: u128(11), Modu: u128(41)}.Solve()
		Expect(ok).Should(BeTrue())
		Expect(sols).Should(Equal([]arith.Uint128{u128(9), u128(31)}))
	})

	It("solves over a large composite modulus beyond 64 bits", func() {
		sols, ok := QuadEq{
			A: u128(1), B: u128(1), D: u128(1),
			Modu: mustU128("416997623116370028124580469121"),
		}.Solve()
		Expect(ok).Should(BeTrue())
		Expect(sols).Should(HaveLen(2))
		Expect(sols[0].String()).Should(Equal("137307780239429241193741330788"))
		Expect(sols[1].String()).Should(Equal("279689842876940786930839138332"))
	})

	It("solves a signed equation over a modulus just above 64 bits of headroom", func() {
		sols, ok := QuadEqSigned{
			A: i128(-11), B: i128(99), C: i128(0), D: i128(-110),
			Modu: mustU128("20871587710370244961"),
		}.Solve()
		Expect(ok).Should(BeTrue())
		Expect(sols).Should(HaveLen(4))
		Expect(sols[0].String()).Should(Equal("10"))
		Expect(sols[1].String()).Should(Equal("7399711637570012490"))
		Expect(sols[2].String()).Should(Equal("13471876072800232480"))
		Expect(sols[3].String()).Should(Equal("20871587710370244960"))
	})

	It("solves modulo 2^127", func() {
		sols, ok := QuadEq{
			A: u128(1), D: u128(1),
			Modu: arith.Uint128{Hi: 1 << 63},
		}.Solve()
		Expect(ok).Should(BeTrue())
		Expect(sols).Should(HaveLen(4))
		Expect(sols[0]).Should(Equal(u128(1)))
		Expect(sols[1].String()).Should(Equal("85070591730234615865843651857942052863"))
		Expect(sols[2].String()).Should(Equal("85070591730234615865843651857942052865"))
		Expect(sols[3].String()).Should(Equal("170141183460469231731687303715884105727"))
	})

	It("finds all 512 roots of unity modulo 2^128 - 1", func() {
		n := arith.Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}
		sols, ok := QuadEqSigned{
			A: i128(1), C: i128(-1), Modu: n,
		}.Solve()
		Expect(ok).Should(BeTrue())
		Expect(sols).Should(HaveLen(512))

		contains := func(want arith.Uint128) bool {
			for _, x := range sols {
				if x.Equal(want) {
					return true
				}
			}
			return false
		}
		Expect(contains(u128(1))).Should(BeTrue())
		Expect(contains(arith.Uint128{Hi: 1})).Should(BeTrue())
		Expect(contains(n.Sub(u128(1)))).Should(BeTrue())

		for i := 1; i < len(sols); i++ {
			Expect(sols[i-1].Less(sols[i])).Should(BeTrue())
		}
	})

	It("rejects the 128-bit signed minimum coefficient", func() {
		min := arith.Int128{Neg: true, Mag: arith.Uint128{Hi: 1 << 63}}
		_, ok := QuadEqSigned{A: min, B: i128(1), Modu: u128(7)}.Solve()
		Expect(ok).Should(BeFalse())
	})

	It("routes the 64-bit signed minimum through the wide pipeline", func() {
		// -2^63 has no two's-complement absolute value at 64 bits, but as a
		// 128-bit value it is ordinary: -2^63 = 1 (mod 3), so x^2 = 1.
		min64 := arith.Int128{Neg: true, Mag: arith.Uint128{Lo: 1 << 63}}
		sols, ok := QuadEqSigned{A: i128(1), D: min64, Modu: u128(3)}.Solve()
		Expect(ok).Should(BeTrue())
		Expect(sols).Should(Equal([]arith.Uint128{u128(1), u128(2)}))
	})
})
