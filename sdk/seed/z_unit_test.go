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

package seed

import (
	"sync"
	"testing"

	"github.com/zintix-labs/patternlab/sdk/core"
)

type countingResetter struct {
	calls []int
}

func (c *countingResetter) Reset(skip int) { c.calls = append(c.calls, skip) }

func TestSetSeedSameValueIsNoop(t *testing.T) {
	r := New(42, nil)
	g := &countingResetter{}
	r.SetActive(g)
	notified := 0
	r.OnSeedChange(func(int64) { notified++ })

	if changed := r.SetSeed(42); changed {
		t.Fatalf("same seed reported as changed")
	}
	if len(g.calls) != 1 {
		t.Fatalf("expected only the SetActive reset, got %v", g.calls)
	}
	if notified != 0 {
		t.Fatalf("observer notified on same seed")
	}
}

func TestSetSeedResetsThenNotifies(t *testing.T) {
	r := New(1, nil)
	g := &countingResetter{}
	r.SetActive(g)

	var order []string
	r.OnSeedChange(func(s int64) {
		if s != 2 {
			t.Fatalf("observer got seed %d", s)
		}
		if len(g.calls) != 2 {
			t.Fatalf("active generator must be reset before observers run")
		}
		order = append(order, "observer")
	})

	if !r.SetSeed(2) {
		t.Fatalf("seed change not reported")
	}
	if r.Seed() != 2 {
		t.Fatalf("seed=%d", r.Seed())
	}
	if len(order) != 1 {
		t.Fatalf("observer calls=%d", len(order))
	}
	if g.calls[1] != 0 {
		t.Fatalf("seed reset must use skip 0, got %d", g.calls[1])
	}
}

func TestSetSeedWithoutActive(t *testing.T) {
	r := New(1, nil)
	if !r.SetSeed(5) {
		t.Fatalf("expected change")
	}
}

func TestStreamSkipAndIndependence(t *testing.T) {
	r := New(3010397292, nil)
	a := r.Stream(0)
	a.Float64()
	a.Float64()
	want := a.Float64()

	if got := r.Stream(2).Float64(); got != want {
		t.Fatalf("Stream(2) should equal two discarded draws")
	}
	// 取用一條流不影響下一條
	s1 := r.Stream(0).Float64()
	s2 := r.Stream(0).Float64()
	if s1 != s2 {
		t.Fatalf("streams must be independent and fresh")
	}
}

func TestSetFactoryResets(t *testing.T) {
	r := New(7, nil)
	g := &countingResetter{}
	r.SetActive(g)
	before := r.Stream(0).Float64()
	f, _ := core.FactoryByName(core.RNGPCG64)
	r.SetFactory(f)
	if len(g.calls) != 2 {
		t.Fatalf("factory change must reset active generator")
	}
	if r.Stream(0).Float64() == before {
		t.Fatalf("different algorithm should yield a different stream")
	}
}

func TestMakerConcurrentUnique(t *testing.T) {
	m := NewMaker(99)
	const n = 4
	const per = 500
	var mu sync.Mutex
	seen := make(map[int64]struct{}, n*per)
	var wg sync.WaitGroup
	for w := 0; w < n; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, per)
			for i := 0; i < per; i++ {
				local = append(local, m.Next())
			}
			mu.Lock()
			for _, v := range local {
				seen[v] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()
	// 截成 32 bit 理論上可能碰撞，但 2000 個值幾乎不會
	if len(seen) < n*per-2 {
		t.Fatalf("too many duplicate seeds: %d unique of %d", len(seen), n*per)
	}
	for v := range seen {
		if v < 0 || v > int64(mask32) {
			t.Fatalf("seed out of 32-bit range: %d", v)
		}
	}
}

func TestMakerDeterministic(t *testing.T) {
	a, b := NewMaker(5), NewMaker(5)
	for i := 0; i < 10; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("maker not deterministic at %d", i)
		}
	}
	if s := NewRandomSeed(); s < 0 || s > int64(mask32) {
		t.Fatalf("random seed out of range: %d", s)
	}
}
