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
package quadratic

import (
	"testing"

	"github.com/getamis/modsolve/arith"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

func TestQuadratic(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Quadratic Suite")
}

var _ = Describe("Eq over odd prime moduli", func() {
	DescribeTable("solves with 0-2 roots", func(a, b, c, d, modu uint64, want []uint64) {
		sols, ok := Eq[uint64]{A: a, B: b, C: c, D: d, Modu: modu}.Solve()
		if want == nil {
			Expect(ok).Should(BeFalse())
			return
		}
		Expect(ok).Should(BeTrue())
		Expect(sols).Should(Equal(want))
	},
		Entry("general quadratic", uint64(1), uint64(1), uint64(3), uint64(11), uint64(41), []uint64{9, 31}),
		Entry("pure residue", uint64(1), uint64(0), uint64(0), uint64(4), uint64(7), []uint64{2, 5}),
		Entry("zero target has one root", uint64(1), uint64(0), uint64(0), uint64(0), uint64(13), []uint64{0}),
		Entry("c folded into d", uint64(1), uint64(1), uint64(1), uint64(0), uint64(7), []uint64{2, 4}),
		Entry("non-residue target", uint64(1), uint64(0), uint64(0), uint64(3), uint64(5), nil),
	)

	It("rejects modu below two", func() {
		_, ok := Eq[uint64]{A: 1, D: 1, Modu: 1}.Solve()
		Expect(ok).Should(BeFalse())
	})

	It("rejects when both leading coefficients vanish", func() {
		_, ok := Eq[uint64]{A: 41, B: 82, D: 3, Modu: 41}.Solve()
		Expect(ok).Should(BeFalse())
	})

	It("degrades to the linear solver when only a vanishes", func() {
		sols, ok := Eq[uint64]{A: 41, B: 2, D: 6, Modu: 41}.Solve()
		Expect(ok).Should(BeTrue())
		Expect(sols).Should(Equal([]uint64{3}))
	})
})

var _ = Describe("Eq over composite moduli", func() {
	DescribeTable("prime power and CRT combinations", func(a, b, d, modu uint64, want []uint64) {
		sols, ok := Eq[uint64]{A: a, B: b, D: d, Modu: modu}.Solve()
		if want == nil {
			Expect(ok).Should(BeFalse())
			return
		}
		Expect(ok).Should(BeTrue())
		Expect(sols).Should(Equal(want))
	},
		Entry("square modulus via Hensel", uint64(1), uint64(1), uint64(1), uint64(5041), []uint64{1783, 3257}),
		Entry("two odd primes via CRT", uint64(1), uint64(0), uint64(1), uint64(15), []uint64{1, 4, 11, 14}),
		Entry("CRT with both factors contributing", uint64(5), uint64(3), uint64(2), uint64(77), []uint64{62, 76}),
		Entry("one factor empty kills the product", uint64(5), uint64(3), uint64(1), uint64(77), nil),
		Entry("singular roots all lift", uint64(3), uint64(0), uint64(3), uint64(9), []uint64{1, 2, 4, 5, 7, 8}),
		Entry("zero target over an odd prime power", uint64(1), uint64(0), uint64(0), uint64(27), []uint64{0, 9, 18}),
		Entry("mixed 2^k and odd factors", uint64(1), uint64(3), uint64(10), uint64(24), []uint64{2, 10, 11, 19}),
		Entry("2^2 and 5^2 factors", uint64(7), uint64(2), uint64(5), uint64(100), []uint64{15, 49, 65, 99}),
		Entry("no solution mod 45", uint64(2), uint64(3), uint64(4), uint64(45), nil),
	)

	It("returns solutions that satisfy the equation and stay in range", func() {
		e := Eq[uint64]{A: 3, B: 7, C: 4, D: 20, Modu: 360}
		sols, ok := e.Solve()
		if !ok {
			return
		}
		for i, x := range sols {
			Expect(x).Should(BeNumerically("<", e.Modu))
			lhs := arith.AddMod(
				arith.AddMod(arith.MultMod(e.A, arith.MultMod(x, x, e.Modu), e.Modu), arith.MultMod(e.B, x, e.Modu), e.Modu),
				e.C, e.Modu,
			)
			Expect(lhs).Should(Equal(e.D % e.Modu))
			if i > 0 {
				Expect(sols[i-1]).Should(BeNumerically("<", x))
			}
		}
	})
})

var _ = Describe("Eq128", func() {
	mustU128 := func(s string) arith.Uint128 {
		v, err := arith.ParseUint128(s)
		Expect(err).Should(BeNil())
		return v
	}

	It("matches the native-width result for a small composite", func() {
		e := Eq128{
			A:    arith.Uint128FromUint64(1),
			D:    arith.Uint128FromUint64(1),
			Modu: arith.Uint128FromUint64(15),
		}
		sols, ok := e.Solve()
		Expect(ok).Should(BeTrue())
		Expect(sols).Should(HaveLen(4))
		Expect(sols[0].Lo).Should(Equal(uint64(1)))
		Expect(sols[3].Lo).Should(Equal(uint64(14)))
	})

	It("lifts sixteen levels of an odd prime power", func() {
		e := Eq128{
			A:    arith.Uint128FromUint64(1),
			B:    arith.Uint128FromUint64(1),
			D:    arith.Uint128FromUint64(1),
			Modu: mustU128("416997623116370028124580469121"), // 71^16
		}
		sols, ok := e.Solve()
		Expect(ok).Should(BeTrue())
		Expect(sols).Should(HaveLen(2))
		Expect(sols[0].String()).Should(Equal("137307780239429241193741330788"))
		Expect(sols[1].String()).Should(Equal("279689842876940786930839138332"))
	})

	It("solves modulo 2^127", func() {
		e := Eq128{
			A:    arith.Uint128FromUint64(1),
			D:    arith.Uint128FromUint64(1),
			Modu: arith.Uint128{Hi: 1 << 63},
		}
		sols, ok := e.Solve()
		Expect(ok).Should(BeTrue())
		Expect(sols).Should(HaveLen(4))
		Expect(sols[0].String()).Should(Equal("1"))
		Expect(sols[1].String()).Should(Equal("85070591730234615865843651857942052863"))
		Expect(sols[2].String()).Should(Equal("85070591730234615865843651857942052865"))
		Expect(sols[3].String()).Should(Equal("170141183460469231731687303715884105727"))
	})

	It("solves over a Hensel-lifted pair of large odd prime powers", func() {
		e := Eq128{
			A:    mustU128("20871587710370244950"), // -11 mod n
			B:    arith.Uint128FromUint64(99),
			D:    mustU128("20871587710370244851"), // -110 mod n
			Modu: mustU128("20871587710370244961"), // 257^4 * 263^4
		}
		sols, ok := e.Solve()
		Expect(ok).Should(BeTrue())
		Expect(sols).Should(HaveLen(4))
		Expect(sols[0].String()).Should(Equal("10"))
		Expect(sols[1].String()).Should(Equal("7399711637570012490"))
		Expect(sols[2].String()).Should(Equal("13471876072800232480"))
		Expect(sols[3].String()).Should(Equal("20871587710370244960"))
	})
})
