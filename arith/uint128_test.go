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
package arith

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Uint128", func() {
	It("parses and renders round trip", func() {
		s := "170141183460469231731687303715884105728" // 2^127
		v, err := ParseUint128(s)
		Expect(err).Should(BeNil())
		Expect(v.String()).Should(Equal(s))
		Expect(v).Should(Equal(Uint128{Hi: 1 << 63, Lo: 0}))
	})

	It("adds and subtracts across the limb boundary", func() {
		maxLo := Uint128{Hi: 0, Lo: ^uint64(0)}
		one := Uint128FromUint64(1)
		sum := maxLo.Add(one)
		Expect(sum).Should(Equal(Uint128{Hi: 1, Lo: 0}))
		Expect(sum.Sub(one)).Should(Equal(maxLo))
	})

	It("DivMod agrees with decimal arithmetic", func() {
		a, _ := ParseUint128("100000000000000000000000")
		b, _ := ParseUint128("7")
		q, r := a.DivMod(b)
		Expect(q.String()).Should(Equal("14285714285714285714285"))
		Expect(r.String()).Should(Equal("5"))
	})

	It("Mul produces the correct 256-bit product", func() {
		// (2^64-1)^2 = 2^128 - 2^65 + 1 still fits in the low 128 bits
		a := Uint128{Hi: 0, Lo: ^uint64(0)}
		hi, lo := a.Mul(a)
		Expect(hi.IsZero()).Should(BeTrue())
		Expect(lo).Should(Equal(Uint128{Hi: ^uint64(0) - 1, Lo: 1}))

		// 2^64 squared lands exactly on the high half's lowest bit
		b := Uint128{Hi: 1, Lo: 0}
		hi, lo = b.Mul(b)
		Expect(hi).Should(Equal(Uint128FromUint64(1)))
		Expect(lo.IsZero()).Should(BeTrue())
	})

	It("Sqrt matches known perfect squares", func() {
		n, _ := ParseUint128("416997623116370028124580469121")
		root := n.Sqrt()
		Expect(squareCmp(root, n)).Should(Equal(0))
	})

	It("TruncSquare flags overflow", func() {
		big, _ := ParseUint128("18446744073709551616") // 2^64
		Expect(big.TruncSquare().IsZero()).Should(BeTrue())
	})
})
