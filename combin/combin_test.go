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

package combin

import (
	"testing"

	"github.com/getamis/modsolve/arith"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

func TestCombin(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Combin Suite")
}

var _ = Describe("IndexCombinations", func() {
	It("rejects an empty bound list", func() {
		_, ok := IndexCombinations(nil)
		Expect(ok).Should(BeFalse())
	})

	It("rejects a zero bound", func() {
		_, ok := IndexCombinations([]int{1, 1, 2, 0})
		Expect(ok).Should(BeFalse())
	})

	It("enumerates the singleton case", func() {
		combs, ok := IndexCombinations([]int{1, 1})
		Expect(ok).Should(BeTrue())
		Expect(combs).Should(Equal([][]int{{0, 0}}))
	})

	It("enumerates [2,2] in lexicographic order", func() {
		combs, ok := IndexCombinations([]int{2, 2})
		Expect(ok).Should(BeTrue())
		Expect(combs).Should(Equal([][]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}))
	})

	It("enumerates a mixed-radix bound [4,2]", func() {
		combs, ok := IndexCombinations([]int{4, 2})
		Expect(ok).Should(BeTrue())
		Expect(combs).Should(Equal([][]int{
			{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 0}, {2, 1}, {3, 0}, {3, 1},
		}))
	})
})

var _ = Describe("LargestCommonDividingPowerOfTwo", func() {
	DescribeTable("matches the known table", func(x, y, z uint64, want uint) {
		Expect(LargestCommonDividingPowerOfTwo(x, y, z)).Should(Equal(want))
	},
		Entry("odd x", uint64(3), uint64(8), uint64(4), uint(0)),
		Entry("z smaller", uint64(12), uint64(16), uint64(1), uint(0)),
		Entry("y zero", uint64(4), uint64(0), uint64(4), uint(0)),
		Entry("z zero ignored", uint64(4), uint64(4), uint64(0), uint(2)),
		Entry("mixed", uint64(12), uint64(16), uint64(16), uint(2)),
		Entry("z dominates low", uint64(2), uint64(16), uint64(2), uint(1)),
		Entry("x and y equal, z lower", uint64(64), uint64(64), uint64(32), uint(5)),
	)

	It("the 128-bit variant handles the top of the range", func() {
		large, _ := arith.ParseUint128("170141183460469231731687303715884105728") // 2^127
		Expect(LargestCommonDividingPowerOfTwo128(large, large, large)).Should(Equal(uint(127)))
	})
})
