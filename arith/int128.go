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

import "strings"

// Int128 is a sign-magnitude 128-bit signed integer. It exists solely to
// carry a signed coefficient up to the point it is cast to its residue
// class; no arithmetic is ever performed on it directly.
type Int128 struct {
	Neg bool
	Mag Uint128
}

// minInt128Mag is the magnitude of -2^127, the one Int128 value with no
// symmetric positive counterpart — mirroring a two's-complement minimum's
// lack of an absolute value.
var minInt128Mag = Uint128{Hi: 0x8000000000000000, Lo: 0}

// IsMinInt128 reports whether x is the signed minimum of the 128-bit range.
func (x Int128) IsMinInt128() bool {
	return x.Neg && x.Mag.Equal(minInt128Mag)
}

// ParseInt128 parses an optionally "-"-prefixed decimal literal.
func ParseInt128(s string) (Int128, error) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	mag, err := ParseUint128(s)
	if err != nil {
		return Int128{}, err
	}
	return Int128{Neg: neg && !mag.IsZero(), Mag: mag}, nil
}

// String renders x in decimal.
func (x Int128) String() string {
	if x.Neg {
		return "-" + x.Mag.String()
	}
	return x.Mag.String()
}

// CastToUnsigned128 maps a signed coefficient to the smallest nonnegative
// member of its residue class modulo modu. It returns ok=false only for
// the signed minimum, which has no absolute value to cast.
func CastToUnsigned128(x Int128, modu Uint128) (Uint128, bool) {
	if x.IsMinInt128() {
		return Uint128{}, false
	}
	if !x.Neg {
		return x.Mag.Mod(modu), true
	}
	r := x.Mag.Mod(modu)
	if r.IsZero() {
		return Uint128{}, true
	}
	return modu.Sub(r), true
}
