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
	"github.com/getamis/modsolve/arith"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

// bruteForceTwoPow is the reference oracle: test every residue of 2^m
// against a*x^2 + b*x - d.
func bruteForceTwoPow(a, b, d uint64, m uint) []uint64 {
	modu := uint64(1) << m
	var sols []uint64
	for x := uint64(0); x < modu; x++ {
		ax := arith.MultMod(a, arith.MultMod(x, x, modu), modu)
		bx := arith.MultMod(b, x, modu)
		if arith.AddMod(ax, bx, modu) == d%modu {
			sols = append(sols, x)
		}
	}
	return sols
}

var _ = Describe("power-of-two pipeline", func() {
	// every parity combination of (a, b, d) mod 2^m is covered for m <= 5,
	// so the dense case split is checked branch by branch against the oracle
	It("agrees with exhaustive enumeration for every (a, b, d, 2^m) with m <= 5", func() {
		for m := uint(1); m <= 5; m++ {
			modu := uint64(1) << m
			for a := uint64(0); a < modu; a++ {
				for b := uint64(0); b < modu; b++ {
					for d := uint64(0); d < modu; d++ {
						e := Eq[uint64]{A: a, B: b, D: d, Modu: modu}
						got, ok := e.solveQuadModTwoPow(m)
						want := bruteForceTwoPow(a, b, d, m)
						if len(want) == 0 {
							Expect(ok).Should(BeFalse(),
								"a=%d b=%d d=%d m=%d returned %v", a, b, d, m, got)
							continue
						}
						Expect(ok).Should(BeTrue(), "a=%d b=%d d=%d m=%d", a, b, d, m)
						Expect(got).Should(Equal(want), "a=%d b=%d d=%d m=%d", a, b, d, m)
					}
				}
			}
		}
	})

	DescribeTable("spot checks at larger m", func(a, b, d uint64, m uint, want []uint64) {
		got, ok := Eq[uint64]{A: a, B: b, D: d, Modu: uint64(1) << m}.solveQuadModTwoPow(m)
		if want == nil {
			Expect(ok).Should(BeFalse())
			return
		}
		Expect(ok).Should(BeTrue())
		Expect(got).Should(Equal(want))
	},
		Entry("odd square target", uint64(1), uint64(0), uint64(1), uint(5), []uint64{1, 15, 17, 31}),
		Entry("even square target", uint64(1), uint64(0), uint64(4), uint(5), []uint64{2, 6, 10, 14, 18, 22, 26, 30}),
		Entry("2 is not a square mod 8", uint64(1), uint64(0), uint64(2), uint(3), nil),
		Entry("shared power of two rescaled", uint64(4), uint64(0), uint64(0), uint(3), []uint64{0, 2, 4, 6}),
		Entry("mixed terms branch and lift", uint64(1), uint64(2), uint64(3), uint(4), []uint64{1, 5, 9, 13}),
	)

	It("the zero target yields exactly the multiples of 2^ceil(m/2)", func() {
		got, ok := Eq[uint64]{A: 1, Modu: 1 << 7}.solveQuadModTwoPow(7)
		Expect(ok).Should(BeTrue())
		var want []uint64
		for x := uint64(0); x < 1<<7; x += 1 << 4 {
			want = append(want, x)
		}
		Expect(got).Should(Equal(want))
	})

	It("the 128-bit pipeline matches the native one for small powers", func() {
		for m := uint(1); m <= 5; m++ {
			modu := uint64(1) << m
			for a := uint64(0); a < modu; a += 3 {
				for b := uint64(0); b < modu; b += 2 {
					for d := uint64(0); d < modu; d++ {
						native, okN := Eq[uint64]{A: a, B: b, D: d, Modu: modu}.solveQuadModTwoPow(m)
						wide, okW := Eq128{
							A:    arith.Uint128FromUint64(a),
							B:    arith.Uint128FromUint64(b),
							D:    arith.Uint128FromUint64(d),
							Modu: arith.Uint128FromUint64(modu),
						}.solveQuadModTwoPow128(m)
						Expect(okW).Should(Equal(okN), "a=%d b=%d d=%d m=%d", a, b, d, m)
						Expect(len(wide)).Should(Equal(len(native)))
						for i := range wide {
							Expect(wide[i].Lo).Should(Equal(native[i]))
						}
					}
				}
			}
		}
	})
})
