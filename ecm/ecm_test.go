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

package ecm

import (
	"testing"

	"github.com/getamis/modsolve/arith"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestECM(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ECM Suite")
}

var _ = Describe("MaybeFactor", func() {
	It("always returns a value in {1} union (1,n) union {n}", func() {
		n := uint64(589) // 19 * 31
		for i := 0; i < 20; i++ {
			f := MaybeFactor(n)
			Expect(f == 1 || (f > 1 && f < n) || f == n).Should(BeTrue())
			if f > 1 && f < n {
				Expect(n % f).Should(Equal(uint64(0)))
			}
		}
	})
})

var _ = Describe("MaybeFactor128", func() {
	It("always returns a value in {1} union (1,n) union {n}", func() {
		n := arith.Uint128FromUint64(589)
		for i := 0; i < 20; i++ {
			f := MaybeFactor128(n)
			inRange := f.Equal(arith.Uint128FromUint64(1)) ||
				(f.Cmp(arith.Uint128FromUint64(1)) > 0 && f.Less(n)) ||
				f.Equal(n)
			Expect(inRange).Should(BeTrue())
			if f.Cmp(arith.Uint128FromUint64(1)) > 0 && f.Less(n) {
				Expect(n.Mod(f).IsZero()).Should(BeTrue())
			}
		}
	})
})
