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
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

func TestArith(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Arith Suite")
}

var _ = Describe("native-width kernel", func() {
	DescribeTable("AddMod/SubMod/MultMod round trip", func(x, y, modu uint64) {
		sum := AddMod(x, y, modu)
		Expect(sum).Should(BeNumerically("<", modu))
		Expect(SubMod(sum, y, modu)).Should(Equal(x % modu))

		prod := MultMod(x, y, modu)
		Expect(prod).Should(BeNumerically("<", modu))
	},
		Entry("small", uint64(3), uint64(5), uint64(7)),
		Entry("near top of uint8 range as uint64", uint64(250), uint64(251), uint64(255)),
		Entry("near top of uint64", uint64(1<<63), uint64(1<<63-1), uint64(1<<63+1)),
	)

	It("ExpMod matches repeated multiplication for small cases", func() {
		Expect(ExpMod[uint64](3, 4, 7)).Should(Equal(uint64(4))) // 3^4=81=11*7+4
	})

	It("GCD matches the textbook cases", func() {
		Expect(GCD[uint64](54, 24)).Should(Equal(uint64(6)))
		Expect(GCD[uint64](17, 5)).Should(Equal(uint64(1)))
		Expect(GCD[uint64](0, 9)).Should(Equal(uint64(9)))
	})

	It("Inverse returns the sentinel zero when no inverse exists", func() {
		Expect(Inverse[uint64](2, 4)).Should(Equal(uint64(0)))
	})

	It("Inverse satisfies x*inv = 1 mod n when it exists", func() {
		inv := Inverse[uint64](13, 29)
		Expect(inv).ShouldNot(Equal(uint64(0)))
		Expect(MultMod(uint64(13), inv, uint64(29))).Should(Equal(uint64(1)))
	})

	DescribeTable("JacobiSymbol matches known values", func(x, n uint64, want int) {
		Expect(JacobiSymbol(x, n)).Should(Equal(want))
	},
		Entry("(1|3)", uint64(1), uint64(3), 1),
		Entry("(2|3)", uint64(2), uint64(3), -1),
		Entry("(0|9)", uint64(0), uint64(9), 0),
	)

	It("TruncSquare returns zero on overflow", func() {
		Expect(TruncSquare[uint8](200)).Should(Equal(uint8(0)))
		Expect(TruncSquare[uint8](10)).Should(Equal(uint8(100)))
	})

	DescribeTable("CastToUnsigned matches the sign-cast identity", func(x int64, modu uint64, want uint64, ok bool) {
		got, gotOK := CastToUnsigned(x, modu)
		Expect(gotOK).Should(Equal(ok))
		if ok {
			Expect(got).Should(Equal(want))
		}
	},
		Entry("positive reduces", int64(31), uint64(29), uint64(2), true),
		Entry("negative maps to class representative", int64(-3), uint64(9), uint64(6), true),
		Entry("negative exactly divisible", int64(-9), uint64(9), uint64(0), true),
	)
})
