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

package patternlab

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"

	"github.com/zintix-labs/patternlab/catalog"
	"github.com/zintix-labs/patternlab/dto"
	"github.com/zintix-labs/patternlab/presets"
	"github.com/zintix-labs/patternlab/sdk/core"
	"github.com/zintix-labs/patternlab/sdk/gen"
	"github.com/zintix-labs/patternlab/sdk/geom"
	"github.com/zintix-labs/patternlab/sharecode"
)

func newTestLab(t *testing.T) *Patternlab {
	t.Helper()
	lab, err := NewDefault()
	if err != nil {
		t.Fatalf("new default: %v", err)
	}
	lab.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return lab
}

func mustStudio(t *testing.T, lab *Patternlab, name string) *Studio {
	t.Helper()
	st, err := lab.NewStudioByName(name)
	if err != nil {
		t.Fatalf("new studio %s: %v", name, err)
	}
	return st
}

func mustGenerate(t *testing.T, st *Studio) []gen.Figure {
	t.Helper()
	figs, err := st.Generate()
	if err != nil {
		t.Fatalf("generate %s: %v", st.Name(), err)
	}
	return figs
}

func TestNewDefaultPresets(t *testing.T) {
	lab := newTestLab(t)
	sum, err := lab.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	names := make([]string, len(sum))
	for i, s := range sum {
		names[i] = s.Name
	}
	want := []string{"scatter", "tiles", "confetti", "stipple"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("preset names=%v want %v", names, want)
	}
	if len(lab.Distributions()) != 3 {
		t.Fatalf("distributions=%v", lab.Distributions())
	}

	unfrozen, err := New(nil, Configs(presets.FS))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := unfrozen.Summary(); !errors.Is(err, ErrNotFrozen) {
		t.Fatalf("expected ErrNotFrozen, got %v", err)
	}
}

func TestStudioDeterminism(t *testing.T) {
	lab := newTestLab(t)
	for _, name := range []string{"scatter", "tiles", "confetti", "stipple"} {
		a := mustGenerate(t, mustStudio(t, lab, name))
		st := mustStudio(t, lab, name)
		b := mustGenerate(t, st)
		if len(a) == 0 || !reflect.DeepEqual(a, b) {
			t.Fatalf("%s: same seed must give same layout (len %d vs %d)", name, len(a), len(b))
		}
		// 連續呼叫也一樣（每次都從種子重新派生）
		if c := mustGenerate(t, st); !reflect.DeepEqual(a, c) {
			t.Fatalf("%s: repeated Generate differs", name)
		}
	}
}

func TestStudioSeed(t *testing.T) {
	lab := newTestLab(t)
	st := mustStudio(t, lab, "scatter")
	base := mustGenerate(t, st)
	seed0 := st.Seed()

	if st.SetSeed(seed0) {
		t.Fatalf("same seed must be a no-op")
	}
	if !st.SetSeed(seed0 + 1) {
		t.Fatalf("new seed must report change")
	}
	other := mustGenerate(t, st)
	if reflect.DeepEqual(base, other) {
		t.Fatalf("different seed produced identical layout")
	}
	if st.Setting().SeedValue() != seed0+1 {
		t.Fatalf("setting seed not synced")
	}
	st.SetSeed(seed0)
	if back := mustGenerate(t, st); !reflect.DeepEqual(base, back) {
		t.Fatalf("restoring the seed must restore the layout")
	}

	v := st.RandomSeed()
	if v < 0 || v > 0xFFFFFFFF || st.Seed() != v {
		t.Fatalf("random seed=%d current=%d", v, st.Seed())
	}

	seeded, err := lab.NewStudioWithSeed(1, seed0+1)
	if err != nil {
		t.Fatalf("with seed: %v", err)
	}
	if got := mustGenerate(t, seeded); !reflect.DeepEqual(got, other) {
		t.Fatalf("NewStudioWithSeed differs from SetSeed")
	}
}

func TestStudioSwitchDistributionAndRNG(t *testing.T) {
	lab := newTestLab(t)
	st := mustStudio(t, lab, "scatter")

	if err := st.SetDistribution(gen.DistGrid); err != nil {
		t.Fatalf("set grid: %v", err)
	}
	figs := mustGenerate(t, st)
	if len(figs) != 28 || !figs[0].Position.Equal(geom.V(100, 100)) {
		t.Fatalf("grid on 800x500 must give 28 figures from (100,100), got %d", len(figs))
	}
	if st.Distribution() != gen.DistGrid {
		t.Fatalf("distribution not updated")
	}
	if err := st.SetDistribution("spiral"); !errors.Is(err, gen.ErrUnknownDistribution) {
		t.Fatalf("expected ErrUnknownDistribution, got %v", err)
	}

	before := mustGenerate(t, st)
	if err := st.SetRNG("pcg64"); err != nil {
		t.Fatalf("set rng: %v", err)
	}
	after := mustGenerate(t, st)
	if reflect.DeepEqual(before, after) {
		t.Fatalf("switching rng must change the sequence")
	}
	if err := st.SetRNG("mt19937"); !errors.Is(err, core.ErrUnknownRNG) {
		t.Fatalf("expected ErrUnknownRNG, got %v", err)
	}
}

func TestStudioGenerateDTOShareCode(t *testing.T) {
	lab := newTestLab(t)
	st := mustStudio(t, lab, "confetti")
	st.SetSeed(777)
	pr, err := st.GenerateDTO()
	if err != nil {
		t.Fatalf("generate dto: %v", err)
	}
	if pr.Count != 400 || pr.Seed != 777 || pr.RNG != "pcg32" || len(pr.Usage) != 4 {
		t.Fatalf("dto header=%+v usage=%v", pr.Name, pr.Usage)
	}
	used := 0
	for _, u := range pr.Usage {
		used += u.Used
	}
	if used != 400 {
		t.Fatalf("usage sum=%d", used)
	}

	ps, err := sharecode.Decode(pr.Share)
	if err != nil {
		t.Fatalf("decode share: %v", err)
	}
	replay, err := lab.NewStudioBySetting(ps)
	if err != nil {
		t.Fatalf("studio by setting: %v", err)
	}
	again, err := replay.GenerateDTO()
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !reflect.DeepEqual(pr.Figures, again.Figures) {
		t.Fatalf("share code must reproduce the pattern")
	}
}

func TestStudioBlueNoisePoints(t *testing.T) {
	lab := newTestLab(t)
	st := mustStudio(t, lab, "stipple")
	figs := mustGenerate(t, st)
	pts := st.Points()
	if len(pts) == 0 || len(pts) != len(figs) {
		t.Fatalf("points=%d figures=%d", len(pts), len(figs))
	}
	if mustStudio(t, lab, "tiles").Points() != nil {
		t.Fatalf("non blue-noise studio has no points")
	}
}

func TestSweepIndependentOfWorkers(t *testing.T) {
	lab := newTestLab(t)
	ps, err := lab.SettingByName("confetti")
	if err != nil {
		t.Fatalf("setting: %v", err)
	}
	sw, err := lab.NewSweeper(ps)
	if err != nil {
		t.Fatalf("sweeper: %v", err)
	}
	one, _, err := sw.Sweep(context.Background(), SweepOptions{Layouts: 12, Workers: 1})
	if err != nil {
		t.Fatalf("sweep 1: %v", err)
	}
	many, _, err := sw.Sweep(context.Background(), SweepOptions{Layouts: 12, Workers: 5})
	if err != nil {
		t.Fatalf("sweep 5: %v", err)
	}
	if one.Summary.Figures != 12*400 || one.Summary.Layouts != 12 {
		t.Fatalf("summary=%+v", one.Summary)
	}
	if !reflect.DeepEqual(one.Shapes.Counts, many.Shapes.Counts) || !reflect.DeepEqual(one.Colors.Counts, many.Colors.Counts) {
		t.Fatalf("worker count changed the result: %v vs %v", one.Shapes.Counts, many.Shapes.Counts)
	}
	if !reflect.DeepEqual(one.Spacing.Collect, many.Spacing.Collect) {
		t.Fatalf("spacing buckets differ")
	}

	seq := sw.Seeds(3, true)
	if seq[0] != sw.BaseSeed() || seq[2] != sw.BaseSeed()+2 {
		t.Fatalf("sequential seeds=%v", seq)
	}
}

func TestSweepErrors(t *testing.T) {
	lab := newTestLab(t)
	ps, _ := lab.SettingByName("stipple")
	sw, err := lab.NewSweeper(ps)
	if err != nil {
		t.Fatalf("sweeper: %v", err)
	}
	if _, _, err := sw.Sweep(context.Background(), SweepOptions{Layouts: 0, Workers: 1}); err == nil {
		t.Fatalf("layouts=0 must fail")
	}
	if _, _, err := sw.Sweep(context.Background(), SweepOptions{Layouts: 1, Workers: 0}); err == nil {
		t.Fatalf("workers=0 must fail")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := sw.Sweep(ctx, SweepOptions{Layouts: 10, Workers: 2}); err == nil {
		t.Fatalf("canceled context must fail")
	}
}

func TestStudioPoolConcurrent(t *testing.T) {
	lab := newTestLab(t)
	ps, _ := lab.SettingByName("scatter")
	pool, err := newStudioPool(3, ps, lab.reg, lab.log)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	ref, err := lab.NewStudioWithSeed(1, 42)
	if err != nil {
		t.Fatalf("ref studio: %v", err)
	}
	want := mustGenerate(t, ref)

	var wg sync.WaitGroup
	errCh := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seed := int64(42)
			pr, err := pool.Generate(context.Background(), &seed)
			if err != nil {
				errCh <- err
				return
			}
			if pr.Count != len(want) || pr.Figures[0].X != want[0].Position.X {
				errCh <- errors.New("pooled studio output differs")
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatal(err)
	}
	m := pool.Metrics()
	if m.Inflight != 0 || m.Available != 3 || m.Rebuild != 0 {
		t.Fatalf("metrics=%+v", m)
	}

	pool.Close()
	if _, err := pool.Generate(context.Background(), nil); err == nil {
		t.Fatalf("closed pool must refuse")
	}
}

func TestRuntimeGenerate(t *testing.T) {
	lab := newTestLab(t)
	rt, err := lab.NewRuntime(2)
	if err != nil {
		t.Fatalf("runtime: %v", err)
	}
	defer rt.Close()

	seed := int64(5)
	pooled, err := rt.Generate(context.Background(), &dto.PatternRequest{Name: "tiles", Seed: &seed})
	if err != nil {
		t.Fatalf("pooled: %v", err)
	}
	if pooled.Seed != 5 || pooled.Distribution != "grid" {
		t.Fatalf("pooled=%+v", pooled.Name)
	}

	amount := 10
	custom, err := rt.Generate(context.Background(), &dto.PatternRequest{ID: 1, Amount: &amount, Distribution: "blue_noise"})
	if err != nil {
		t.Fatalf("custom: %v", err)
	}
	if custom.Distribution != "blue_noise" {
		t.Fatalf("override not applied: %s", custom.Distribution)
	}

	if _, err := rt.Generate(context.Background(), &dto.PatternRequest{Name: "nope"}); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(rt.Metrics()) != 4 {
		t.Fatalf("metrics=%d", len(rt.Metrics()))
	}

	rt.Close()
	if _, err := rt.Generate(context.Background(), &dto.PatternRequest{ID: 1}); err == nil || !rt.Closed() {
		t.Fatalf("closed runtime must refuse")
	}
}
