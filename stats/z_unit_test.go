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

package stats_test

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/zintix-labs/patternlab/sdk/geom"
	"github.com/zintix-labs/patternlab/stats"
)

// buildLayoutReport 以固定計數建立報表，方便檢查 Done 之後的衍生欄位。
func buildLayoutReport(counts []int, weights []int) *stats.LayoutReport {
	total := 0
	for _, c := range counts {
		total += c
	}
	ids := make([]string, len(counts))
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}
	r := &stats.LayoutReport{
		Summary: &stats.SummaryReport{
			Pattern:      "test",
			Distribution: "random",
			RNG:          "splitmix32",
			CanvasW:      100,
			CanvasH:      100,
			Layouts:      2,
			Figures:      total,
			MinFigures:   total / 2,
			MaxFigures:   total - total/2,
			ScaleSum:     float64(total),
			ScaleSqSum:   float64(total),
			AreaSum:      5000,
		},
		Shapes: &stats.ShapeReport{IDs: ids, Weights: weights, Counts: counts},
		Spacing: &stats.SpacingReport{
			Buckets: stats.SpacingBucketStr(),
			Collect: make([]int, len(stats.SpacingBucketStr())),
		},
		Colors: &stats.ColorReport{Colors: []string{"#fff", "#000"}, Counts: []int{3, 1}},
	}
	r.Done()
	return r
}

func TestLayoutReportDone(t *testing.T) {
	r := buildLayoutReport([]int{100, 100, 100, 100, 100}, []int{20, 20, 20, 20, 20})
	s := r.Summary
	if s.MeanFigures != 250 {
		t.Fatalf("mean figures=%v", s.MeanFigures)
	}
	if s.MeanScale != 1 || s.StdScale != 0 {
		t.Fatalf("scale mean/std=%v/%v", s.MeanScale, s.StdScale)
	}
	if math.Abs(s.Coverage-0.25) > 1e-12 {
		t.Fatalf("coverage=%v", s.Coverage)
	}
	if r.Shapes.ChiSquare != 0 || r.Shapes.DoF != 4 || math.Abs(r.Shapes.PValue-1) > 1e-9 {
		t.Fatalf("perfect fit expected: x2=%v dof=%d p=%v", r.Shapes.ChiSquare, r.Shapes.DoF, r.Shapes.PValue)
	}
	if r.Colors.Share[0] != 0.75 {
		t.Fatalf("color share=%v", r.Colors.Share)
	}

	// Done 可重複呼叫
	r.Shapes.Counts[0] = 0
	r.Done()
	if r.Shapes.ChiSquare != 0 {
		t.Fatalf("second Done must not recompute")
	}
}

func TestChiSquareFit(t *testing.T) {
	// 明顯偏離 50/50
	x2, dof, p := stats.ChiSquareFit([]int{90, 10}, []float64{0.5, 0.5})
	if dof != 1 || math.Abs(x2-64) > 1e-9 || p > 1e-6 {
		t.Fatalf("x2=%v dof=%d p=%v", x2, dof, p)
	}
	// 期望為 0 的類別出現樣本 => p = 0
	if _, _, p := stats.ChiSquareFit([]int{5, 5, 1}, []float64{0.5, 0.5, 0}); p != 0 {
		t.Fatalf("impossible category must yield p=0, got %v", p)
	}
	// 沒有樣本
	if _, _, p := stats.ChiSquareFit([]int{0, 0}, []float64{0.5, 0.5}); p != 1 {
		t.Fatalf("empty sample p=%v", p)
	}
}

func TestProportionCI(t *testing.T) {
	p, ci := stats.ProportionCI(50, 100, stats.Confidence)
	if p != 0.5 || !(ci.Lo < 0.5 && ci.Hi > 0.5) || ci.Lo < 0.39 || ci.Hi > 0.61 {
		t.Fatalf("p=%v ci=%+v", p, ci)
	}
	if _, ci := stats.ProportionCI(0, 10, stats.Confidence); ci.Lo != 0 {
		t.Fatalf("k=0 lower bound must be 0")
	}
	if _, ci := stats.ProportionCI(10, 10, stats.Confidence); ci.Hi != 1 {
		t.Fatalf("k=n upper bound must be 1")
	}
}

func TestNearestNeighbors(t *testing.T) {
	pts := []geom.Vec2{geom.V(0, 0), geom.V(3, 4), geom.V(100, 100), geom.V(103, 100)}
	nn := stats.NearestNeighbors(pts)
	want := []float64{5, 5, 3, 3}
	for i := range want {
		if math.Abs(nn[i]-want[i]) > 1e-9 {
			t.Fatalf("nn[%d]=%v want %v", i, nn[i], want[i])
		}
	}
	if stats.NearestNeighbors(pts[:1]) != nil {
		t.Fatalf("single point has no neighbour")
	}

	// 與暴力法比對
	grid := make([]geom.Vec2, 0, 64)
	for i := 0; i < 64; i++ {
		grid = append(grid, geom.V(float64(i%8)*10+float64(i%3), float64(i/8)*10+float64(i%5)))
	}
	got := stats.NearestNeighbors(grid)
	for i, p := range grid {
		best := math.Inf(1)
		for j, q := range grid {
			if i != j {
				best = math.Min(best, geom.Distance(p, q))
			}
		}
		if math.Abs(got[i]-best) > 1e-9 {
			t.Fatalf("point %d: kd=%v brute=%v", i, got[i], best)
		}
	}
}

func TestSpacingIndexAndSummary(t *testing.T) {
	cases := []struct {
		d, ref float64
		want   int
	}{
		{0, 10, 0}, {4.9, 10, 0}, {5, 10, 1}, {9.99, 10, 2}, {10, 10, 3}, {29, 10, 6}, {30, 10, 7}, {1, 0, 7},
	}
	for _, tc := range cases {
		if got := stats.SpacingIndex(tc.d, tc.ref); got != tc.want {
			t.Fatalf("SpacingIndex(%v,%v)=%d want %d", tc.d, tc.ref, got, tc.want)
		}
	}
	minV, mean, std, p05 := stats.SpacingSummary([]float64{4, 2, 6})
	if minV != 2 || mean != 4 || math.Abs(std-2) > 1e-12 || p05 != 2 {
		t.Fatalf("summary=%v %v %v %v", minV, mean, std, p05)
	}
	if e := stats.ExpectedSpacing(100, 10000); math.Abs(e-5) > 1e-12 {
		t.Fatalf("expected spacing=%v", e)
	}
}

func TestRenders(t *testing.T) {
	r := buildLayoutReport([]int{60, 40}, []int{50, 50})

	var buf bytes.Buffer
	if err := r.WriteWith(&buf, stats.RenderByName("json")); err != nil {
		t.Fatalf("json: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("json output invalid: %v", err)
	}
	if _, ok := back["Shapes"]; !ok {
		t.Fatalf("json missing Shapes")
	}

	buf.Reset()
	if err := r.WriteWith(&buf, stats.RenderByName("yaml")); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(buf.String(), "counts: [60, 40]") {
		t.Fatalf("yaml inner lists should be flow style:\n%s", buf.String())
	}

	table := r.Table(0)
	if !strings.Contains(table, "Pattern") || !strings.Contains(table, "Shapes") {
		t.Fatalf("table missing sections:\n%s", table)
	}
}
