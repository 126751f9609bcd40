// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"errors"
	"testing"
)

func TestSplitMix32KnownSequence(t *testing.T) {
	cases := []struct {
		seed int64
		want []uint32
	}{
		{seed: 3010397292, want: []uint32{2153260277, 895516167, 709382367}},
		{seed: 0, want: []uint32{1684164658, 3653269916, 2939563536}},
		// 只取低 32 bit
		{seed: 1<<32 + 0, want: []uint32{1684164658, 3653269916, 2939563536}},
	}
	for _, tc := range cases {
		r := NewSplitMix32(tc.seed)
		for i, w := range tc.want {
			if got := r.Uint32(); got != w {
				t.Fatalf("seed=%d step=%d: got %d want %d", tc.seed, i, got, w)
			}
		}
	}
}

func TestCoreDeterminism(t *testing.T) {
	for _, name := range []string{RNGSplitMix32, RNGPCG32, RNGPCG64} {
		f, err := FactoryByName(name)
		if err != nil {
			t.Fatalf("factory %s: %v", name, err)
		}
		c1 := New(f.New(7))
		c2 := New(f.New(7))
		for i := 0; i < 32; i++ {
			if c1.Float64() != c2.Float64() {
				t.Fatalf("%s: Float64 mismatch at %d", name, i)
			}
		}
		if c1.IntN(10) != c2.IntN(10) {
			t.Fatalf("%s: IntN mismatch", name)
		}
	}
}

func TestSkipEqualsDiscardedDraws(t *testing.T) {
	f := Default()
	for _, n := range []int{0, 1, 5, 37} {
		a := New(f.New(99)).Skip(n)
		b := New(f.New(99))
		for i := 0; i < n; i++ {
			b.Float64()
		}
		for i := 0; i < 8; i++ {
			if a.Float64() != b.Float64() {
				t.Fatalf("skip(%d) diverged at draw %d", n, i)
			}
		}
	}
}

func TestFloat64Range(t *testing.T) {
	c := New(Default().New(1))
	for i := 0; i < 10000; i++ {
		v := c.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64 out of [0,1): %v", v)
		}
	}
}

func TestIntNSingleDraw(t *testing.T) {
	a := New(Default().New(5))
	b := New(Default().New(5))
	_ = a.IntN(1000)
	b.Float64()
	if a.Float64() != b.Float64() {
		t.Fatalf("IntN must consume exactly one draw")
	}
	if got := a.IntN(0); got != -1 {
		t.Fatalf("IntN(0) expected -1, got %d", got)
	}
}

func TestPickAndOffset(t *testing.T) {
	c := New(Default().New(9))
	if _, ok := Pick[string](c, nil); ok {
		t.Fatalf("expected ok=false for empty pick")
	}
	src := []string{"a", "b", "c"}
	for i := 0; i < 100; i++ {
		v, ok := Pick(c, src)
		if !ok || (v != "a" && v != "b" && v != "c") {
			t.Fatalf("unexpected pick %q", v)
		}
		if o := c.Offset(10); o < 1 || o > 10 {
			t.Fatalf("offset out of range: %d", o)
		}
	}
}

func TestSnapshotRestore(t *testing.T) {
	for _, name := range []string{RNGSplitMix32, RNGPCG32, RNGPCG64} {
		f, _ := FactoryByName(name)
		r := f.New(123)
		r.Float64()
		snap, err := r.Snapshot()
		if err != nil {
			t.Fatalf("%s snapshot: %v", name, err)
		}
		want := r.Float64()
		if err := r.Restore(snap); err != nil {
			t.Fatalf("%s restore: %v", name, err)
		}
		if got := r.Float64(); got != want {
			t.Fatalf("%s: restore mismatch %v != %v", name, got, want)
		}
	}
}

func TestFactoryByNameUnknown(t *testing.T) {
	if _, err := FactoryByName("mt19937"); !errors.Is(err, ErrUnknownRNG) {
		t.Fatalf("expected ErrUnknownRNG, got %v", err)
	}
	f, err := FactoryByName("")
	if err != nil || f.Name() != RNGSplitMix32 {
		t.Fatalf("empty name should resolve to default")
	}
}
