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

import "github.com/getamis/modsolve/arith"

// LargestCommonDividingPowerOfTwo128 mirrors LargestCommonDividingPowerOfTwo
// for operands that may occupy the full 128-bit width, needed when the
// mod-2^m solver runs at m up to 128.
func LargestCommonDividingPowerOfTwo128(x, y, z arith.Uint128) uint {
	if x.And1() != 0 || y.And1() != 0 || z.And1() != 0 {
		return 0
	}
	if x.IsZero() || y.IsZero() {
		return 0
	}

	min := x.TrailingZeros()
	if yz := y.TrailingZeros(); yz < min {
		min = yz
	}
	if z.IsZero() {
		return min
	}
	if zz := z.TrailingZeros(); zz < min {
		min = zz
	}
	return min
}
