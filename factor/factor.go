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

// Package factor implements the threaded factor engine: trial division,
// recursive Fermat, and a worker pool racing a wheel divisor against
// repeated Lenstra ECM curves, until the modulus is fully factored into
// primes with multiplicities.
package factor

import (
	"sort"
	"sync"

	"github.com/getamis/sirius/log"

	"github.com/getamis/modsolve/arith"
	"github.com/getamis/modsolve/ecm"
	"github.com/getamis/modsolve/primality"
)

// Options tunes the ECM racing stage. The config package clamps Workers to
// [3,6] for the CLI; the engine itself only raises a value below 1 to 1.
// CurveLimit bounds how many curves a single ECM worker tries per activation.
type Options struct {
	Workers    int
	CurveLimit int
}

// DefaultOptions is the pool size and per-activation curve cap the engine
// runs with unless a caller tunes them.
func DefaultOptions() Options {
	return Options{Workers: 4, CurveLimit: 125}
}

// PrimePower is one (prime, exponent) term of a factorization.
type PrimePower[T arith.Uint] struct {
	Prime T
	Exp   uint8
}

// entry is a factor discovered during the ECM/wheel race, tagged with
// whether the discovering worker already proved it prime.
type entry[T arith.Uint] struct {
	Factor    T
	SurePrime bool
}

// Factors holds the prime factorization of Num, smallest factor first,
// once Factorize has run.
type Factors[T arith.Uint] struct {
	Num     T
	Factors []T
}

// New returns a Factors ready for Factorize; num must be at least 2.
func New[T arith.Uint](num T) *Factors[T] {
	return &Factors[T]{Num: num}
}

// Factorize computes the prime factorization of f.Num, smallest factor
// first (with multiplicity). It panics if Num < 2, mirroring a caller
// invariant rather than a reachable runtime condition.
func (f *Factors[T]) Factorize(opts Options) {
	if f.Num <= 1 {
		panic("factor: cannot factorize a value smaller than two")
	}
	f.Factors = f.Factors[:0]

	num := f.factorizeTrial(f.Num)
	f.factorizeUntilCompleted(num, opts)
	f.pruneDuplicateFactors()
}

// PrimeFactorRepr collapses the flat factor list into (prime, exponent)
// pairs, ascending by prime. Call only after Factorize.
func (f *Factors[T]) PrimeFactorRepr() []PrimePower[T] {
	var repr []PrimePower[T]
	k := f.Num
	var count uint8
	var prevFactor T

	for i := len(f.Factors) - 1; i >= 0; i-- {
		currFactor := f.Factors[i]

		if currFactor != prevFactor && count > 0 {
			repr = append(repr, PrimePower[T]{Prime: prevFactor, Exp: count})
			count = 0
		}

		count++
		k /= currFactor
		prevFactor = currFactor

		if k == 1 {
			repr = append(repr, PrimePower[T]{Prime: prevFactor, Exp: count})
			break
		}
	}

	for i, j := 0, len(repr)-1; i < j; i, j = i+1, j-1 {
		repr[i], repr[j] = repr[j], repr[i]
	}
	return repr
}

var trialPrimes = [54]uint16{
	2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71, 73, 79, 83,
	89, 97, 101, 103, 107, 109, 113, 127, 131, 137, 139, 149, 151, 157, 163, 167, 173, 179,
	181, 191, 193, 197, 199, 211, 223, 227, 229, 233, 239, 241, 251,
}

func (f *Factors[T]) factorizeTrial(num T) T {
	for _, p16 := range trialPrimes {
		p := T(p16)
		for num%p == 0 {
			f.Factors = append(f.Factors, p)
			num /= p
		}
		if num == 1 {
			break
		}
	}
	return num
}

func (f *Factors[T]) factorizeUntilCompleted(num T, opts Options) {
	for num > 1 {
		num = f.factorizeFermat(num, 2)
		if num == 1 {
			break
		}
		if primality.IsOddPrime(num) {
			f.Factors = append(f.Factors, num)
			break
		}
		num = f.factorizeElliptic(num, opts)
	}
}

func (f *Factors[T]) factorizeFermat(num T, level int) T {
	a := arith.ISqrt(num)
	aSquare := arith.TruncSquare(a)

	if aSquare == num {
		if primality.IsOddPrime(a) {
			for i := 0; i < level; i++ {
				f.Factors = append(f.Factors, a)
			}
			return 1
		}
		numBack := f.factorizeFermat(a, level<<1)
		if numBack > 1 {
			numBack = num
		}
		return numBack
	}

	a++
	aSquare = arith.TruncSquare(a)
	if aSquare == 0 {
		return num
	}

	for i := 0; i < 10; i++ {
		bSquare := aSquare - num
		b := arith.ISqrt(bSquare)

		if arith.TruncSquare(b) == bSquare {
			rounds := level >> 1
			for r := 0; r < rounds; r++ {
				f.Factors = append(f.Factors, a-b)
				f.Factors = append(f.Factors, a+b)
			}
			return 1
		}

		a++
		aSquare = arith.TruncSquare(a)
		if aSquare == 0 {
			return num
		}
	}

	return num
}

func (f *Factors[T]) factorizeElliptic(num T, opts Options) T {
	var ecFactors []entry[T]
	num = f.spawnWorkers(num, opts, &ecFactors)

	for _, e := range ecFactors {
		if e.SurePrime || primality.IsOddPrime(e.Factor) {
			f.Factors = append(f.Factors, e.Factor)
			continue
		}
		inner := New(e.Factor)
		inner.factorizeUntilCompleted(e.Factor, opts)
		f.Factors = append(f.Factors, inner.Factors...)
	}
	return num
}

// factorState is the single mutable record the worker pool shares. One
// mutex guards it; workers never hold the lock across a curve computation.
type factorState[T arith.Uint] struct {
	mu      sync.Mutex
	num     T
	factors []entry[T]
}

func (f *Factors[T]) spawnWorkers(num T, opts Options, out *[]entry[T]) T {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	done := make(chan bool, workers)
	state := &factorState[T]{num: num}

	for w := 0; w < workers; w++ {
		worker := w
		go func() {
			if worker == 0 {
				wheelWorker(state, num, done)
			} else {
				ecmWorker(state, num, opts.CurveLimit, done)
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
		return 1
	}
	return state.num
}

func wheelWorker[T arith.Uint](state *factorState[T], num T, done chan<- bool) {
	wheelInc := [48]uint8{
		2, 4, 2, 4, 6, 2, 6, 4, 2, 4, 6, 6, 2, 6, 4, 2, 6, 4, 6, 8, 4, 2, 4, 2, 4, 8, 6, 4, 6,
		2, 4, 6, 2, 6, 6, 4, 2, 4, 6, 2, 6, 4, 2, 4, 2, 10, 2, 10,
	}

	k := T(221) // 48th prime 223 is 221 plus the first wheel increment

	for i := 0; ; i = (i + 1) % len(wheelInc) {
		k += T(wheelInc[i])

		if k > num/k {
			state.mu.Lock()
			state.factors = append(state.factors, entry[T]{Factor: num, SurePrime: false})
			num = 1
			state.num = num
			state.mu.Unlock()
			break
		}

		if num%k == 0 {
			state.mu.Lock()
			if k > state.num || hasFactor(state.factors, k) {
				num = state.num
				state.mu.Unlock()
				break
			}
			for {
				num /= k
				state.num = num
				state.factors = append(state.factors, entry[T]{Factor: k, SurePrime: true})
				if num%k != 0 {
					break
				}
			}
			state.mu.Unlock()
		}
	}

	done <- num == 1
}

func ecmWorker[T arith.Uint](state *factorState[T], num T, curveLimit int, done chan<- bool) {
	for curveCount := 1; num > 1 && curveCount <= curveLimit; curveCount++ {
		maybeFactor := ecm.MaybeFactor(num)

		switch {
		case maybeFactor > 1 && maybeFactor < num:
			state.mu.Lock()
			if maybeFactor > state.num {
				num = state.num
			} else {
				num /= maybeFactor
				state.num = num
				state.factors = append(state.factors, entry[T]{Factor: maybeFactor, SurePrime: false})
				if primality.IsOddPrime(num) {
					state.factors = append(state.factors, entry[T]{Factor: num, SurePrime: true})
					num = 1
					state.num = num
				}
			}
			state.mu.Unlock()
		case maybeFactor == num && primality.IsOddPrime(maybeFactor):
			state.mu.Lock()
			if maybeFactor == state.num {
				num = 1
				state.num = num
				state.factors = append(state.factors, entry[T]{Factor: maybeFactor, SurePrime: true})
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

	done <- num == 1
}

func hasFactor[T arith.Uint](factors []entry[T], k T) bool {
	for _, e := range factors {
		if e.Factor == k {
			return true
		}
	}
	return false
}

func (f *Factors[T]) pruneDuplicateFactors() {
	sort.Slice(f.Factors, func(i, j int) bool { return f.Factors[i] < f.Factors[j] })

	var unique []T
	k := f.Num
	for i := len(f.Factors) - 1; i >= 0; i-- {
		factor := f.Factors[i]
		if k%factor == 0 {
			unique = append(unique, factor)
			k /= factor
		}
	}

	for i, j := 0, len(unique)-1; i < j; i, j = i+1, j-1 {
		unique[i], unique[j] = unique[j], unique[i]
	}
	f.Factors = unique
}
