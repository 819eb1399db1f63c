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
package signed

import (
	"math"
	"testing"

	"github.com/getamis/modsolve/arith"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestSigned(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Signed Suite")
}

var _ = Describe("CastCoefficients", func() {
	It("maps every coefficient to its class representative", func() {
		out, ok := CastCoefficients(uint64(9), -3, -1, 3, -9)
		Expect(ok).Should(BeTrue())
		Expect(out).Should(Equal([]uint64{6, 8, 3, 0}))
	})

	It("fails as a whole on the signed minimum", func() {
		_, ok := CastCoefficients(uint64(9), 1, math.MinInt64)
		Expect(ok).Should(BeFalse())
	})
})

var _ = Describe("CastCoefficients128", func() {
	It("mirrors the native behavior", func() {
		minus3 := arith.Int128{Neg: true, Mag: arith.Uint128FromUint64(3)}
		out, ok := CastCoefficients128(arith.Uint128FromUint64(9), minus3)
		Expect(ok).Should(BeTrue())
		Expect(out[0].Lo).Should(Equal(uint64(6)))
	})

	It("rejects the 128-bit signed minimum", func() {
		min := arith.Int128{Neg: true, Mag: arith.Uint128{Hi: 1 << 63}}
		_, ok := CastCoefficients128(arith.Uint128FromUint64(9), min)
		Expect(ok).Should(BeFalse())
	})
})
