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

import "math"

// CastToUnsigned maps a signed coefficient x to the smallest nonnegative
// member of its residue class modulo modu. It returns ok=false only for
// math.MinInt64, which has no two's-complement absolute value.
func CastToUnsigned[T Uint](x int64, modu T) (T, bool) {
	m64 := uint64(modu)
	if x >= 0 {
		return T(uint64(x) % m64), true
	}
	if x == math.MinInt64 {
		return 0, false
	}
	xAbs := uint64(-x)
	r := xAbs % m64
	if r == 0 {
		return 0, true
	}
	return T(m64 - r), true
}
