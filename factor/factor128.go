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

package factor

import (
	"sort"
	"sync"

	"github.com/getamis/sirius/log"

	"github.com/getamis/modsolve/arith"
	"github.com/getamis/modsolve/ecm"
	"github.com/getamis/modsolve/primality"
)

// PrimePower128 is the Uint128 counterpart of PrimePower.
type PrimePower128 struct {
	Prime arith.Uint128
	Exp   uint8
}

type entry128 struct {
	Factor    arith.Uint128
	SurePrime bool
}

// Factors128 is the Uint128 counterpart of Factors.
type Factors128 struct {
	Num     arith.Uint128
	Factors []arith.Uint128
}

// New128 returns a Factors128 ready for Factorize; num must be at least 2.
func New128(num arith.Uint128) *Factors128 {
	return &Factors128{Num: num}
}

var one128 = arith.Uint128FromUint64(1)

// Factorize computes the prime factorization of f.Num, smallest factor
// first (with multiplicity).
func (f *Factors128) Factorize(opts Options) {
	if f.Num.Cmp(one128) <= 0 {
		panic("factor: cannot factorize a value smaller than two")
	}
	f.Factors = f.Factors[:0]

	num := f.factorizeTrial(f.Num)
	f.factorizeUntilCompleted(num, opts)
	f.pruneDuplicateFactors()
}

// PrimeFactorRepr collapses the flat factor list into (prime, exponent)
// pairs, ascending by prime. Call only after Factorize.
func (f *Factors128) PrimeFactorRepr() []PrimePower128 {
	var repr []PrimePower128
	k := f.Num
	var count uint8
	var prevFactor arith.Uint128

	for i := len(f.Factors) - 1; i >= 0; i-- {
		currFactor := f.Factors[i]

		if !currFactor.Equal(prevFactor) && count > 0 {
			repr = append(repr, PrimePower128{Prime: prevFactor, Exp: count})
			count = 0
		}

		count++
		k, _ = k.DivMod(currFactor)
		prevFactor = currFactor

		if k.Equal(one128) {
			repr = append(repr, PrimePower128{Prime: prevFactor, Exp: count})
			break
		}
	}

	for i, j := 0, len(repr)-1; i < j; i, j = i+1, j-1 {
		repr[i], repr[j] = repr[j], repr[i]
	}
	return repr
}

var trialPrimes128 [54]arith.Uint128

func init() {
	for i, p := range trialPrimes {
		trialPrimes128[i] = arith.Uint128FromUint64(uint64(p))
	}
}

func (f *Factors128) factorizeTrial(num arith.Uint128) arith.Uint128 {
	for _, p := range trialPrimes128 {
		for {
			q, r := num.DivMod(p)
			if !r.IsZero() {
				break
			}
			f.Factors = append(f.Factors, p)
			num = q
		}
		if num.Equal(one128) {
			break
		}
	}
	return num
}

func (f *Factors128) factorizeUntilCompleted(num arith.Uint128, opts Options) {
	for num.Cmp(one128) > 0 {
		num = f.factorizeFermat(num, 2)
		if num.Equal(one128) {
			break
		}
		if primality.IsOddPrime128(num) {
			f.Factors = append(f.Factors, num)
			break
		}
		num = f.factorizeElliptic(num, opts)
	}
}

func (f *Factors128) factorizeFermat(num arith.Uint128, level int) arith.Uint128 {
	a := num.Sqrt()
	aSquare := a.TruncSquare()

	if aSquare.Equal(num) {
		if primality.IsOddPrime128(a) {
			for i := 0; i < level; i++ {
				f.Factors = append(f.Factors, a)
			}
			return one128
		}
		numBack := f.factorizeFermat(a, level<<1)
		if numBack.Cmp(one128) > 0 {
			numBack = num
		}
		return numBack
	}

	a = a.Add(one128)
	aSquare = a.TruncSquare()
	if aSquare.IsZero() {
		return num
	}

	for i := 0; i < 10; i++ {
		bSquare := aSquare.Sub(num)
		b := bSquare.Sqrt()

		if b.TruncSquare().Equal(bSquare) {
			rounds := level >> 1
			for r := 0; r < rounds; r++ {
				f.Factors = append(f.Factors, a.Sub(b))
				f.Factors = append(f.Factors, a.Add(b))
			}
			return one128
		}

		a = a.Add(one128)
		aSquare = a.TruncSquare()
		if aSquare.IsZero() {
			return num
		}
	}

	return num
}

func (f *Factors128) factorizeElliptic(num arith.Uint128, opts Options) arith.Uint128 {
	var ecFactors []entry128
	num = f.spawnWorkers(num, opts, &ecFactors)

	for _, e := range ecFactors {
		if e.SurePrime || primality.IsOddPrime128(e.Factor) {
			f.Factors = append(f.Factors, e.Factor)
			continue
		}
		inner := New128(e.Factor)
		inner.factorizeUntilCompleted(e.Factor, opts)
		f.Factors = append(f.Factors, inner.Factors...)
	}
	return num
}

type factorState128 struct {
	mu      sync.Mutex
	num     arith.Uint128
	factors []entry128
}

func (f *Factors128) spawnWorkers(num arith.Uint128, opts Options, out *[]entry128) arith.Uint128 {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	done := make(chan bool, workers)
	state := &factorState128{num: num}

	for w := 0; w < workers; w++ {
		worker := w
		go func() {
			if worker == 0 {
				wheelWorker128(state, num, done)
			} else {
				ecmWorker128(state, num, opts.CurveLimit, done)
			}
		}()
	}

	completed, ok := <-done
	if !ok {
		log.Warn("factor: all workers disconnected before completion")
		state.mu.Lock()
		defer state.mu.Unlock()
		*out = append(*out, state.factors...)
		return state.num
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	*out = append(*out, state.factors...)
	if completed {
		return one128
	}
	return state.num
}

func wheelWorker128(state *factorState128, num arith.Uint128, done chan<- bool) {
	wheelInc := [48]uint8{
		2, 4, 2, 4, 6, 2, 6, 4, 2, 4, 6, 6, 2, 6, 4, 2, 6, 4, 6, 8, 4, 2, 4, 2, 4, 8, 6, 4, 6,
		2, 4, 6, 2, 6, 6, 4, 2, 4, 6, 2, 6, 4, 2, 4, 2, 10, 2, 10,
	}

	k := arith.Uint128FromUint64(221)

	for i := 0; ; i = (i + 1) % len(wheelInc) {
		k = k.Add(arith.Uint128FromUint64(uint64(wheelInc[i])))

		q, _ := num.DivMod(k)
		if k.Cmp(q) > 0 {
			state.mu.Lock()
			state.factors = append(state.factors, entry128{Factor: num, SurePrime: false})
			num = one128
			state.num = num
			state.mu.Unlock()
			break
		}

		if _, r := num.DivMod(k); r.IsZero() {
			state.mu.Lock()
			if k.Cmp(state.num) > 0 || hasFactor128(state.factors, k) {
				num = state.num
				state.mu.Unlock()
				break
			}
			for {
				num, _ = num.DivMod(k)
				state.num = num
				state.factors = append(state.factors, entry128{Factor: k, SurePrime: true})
				if _, r := num.DivMod(k); !r.IsZero() {
					break
				}
			}
			state.mu.Unlock()
		}
	}

	done <- num.Equal(one128)
}

func ecmWorker128(state *factorState128, num arith.Uint128, curveLimit int, done chan<- bool) {
	for curveCount := 1; num.Cmp(one128) > 0 && curveCount <= curveLimit; curveCount++ {
		maybeFactor := ecm.MaybeFactor128(num)

		switch {
		case maybeFactor.Cmp(one128) > 0 && maybeFactor.Less(num):
			state.mu.Lock()
			if maybeFactor.Cmp(state.num) > 0 {
				num = state.num
			} else {
				num, _ = num.DivMod(maybeFactor)
				state.num = num
				state.factors = append(state.factors, entry128{Factor: maybeFactor, SurePrime: false})
				if primality.IsOddPrime128(num) {
					state.factors = append(state.factors, entry128{Factor: num, SurePrime: true})
					num = one128
					state.num = num
				}
			}
			state.mu.Unlock()
		case maybeFactor.Equal(num) && primality.IsOddPrime128(maybeFactor):
			state.mu.Lock()
			if maybeFactor.Equal(state.num) {
				num = one128
				state.num = num
				state.factors = append(state.factors, entry128{Factor: maybeFactor, SurePrime: true})
			} else {
				num = state.num
			}
			state.mu.Unlock()
		case curveCount&31 == 0:
			state.mu.Lock()
			num = state.num
			state.mu.Unlock()
		}
	}

	done <- num.Equal(one128)
}

func hasFactor128(factors []entry128, k arith.Uint128) bool {
	for _, e := range factors {
		if e.Factor.Equal(k) {
			return true
		}
	}
	return false
}

func (f *Factors128) pruneDuplicateFactors() {
	sort.Slice(f.Factors, func(i, j int) bool { return f.Factors[i].Less(f.Factors[j]) })

	var unique []arith.Uint128
	k := f.Num
	for i := len(f.Factors) - 1; i >= 0; i-- {
		factor := f.Factors[i]
		if _, r := k.DivMod(factor); r.IsZero() {
			unique = append(unique, factor)
			k, _ = k.DivMod(factor)
		}
	}

	for i, j := 0, len(unique)-1; i < j; i, j = i+1, j-1 {
		unique[i], unique[j] = unique[j], unique[i]
	}
	f.Factors = unique
}
