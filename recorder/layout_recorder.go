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

package recorder

import (
	"math"

	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/sdk/gen"
	"github.com/zintix-labs/patternlab/sdk/geom"
	"github.com/zintix-labs/patternlab/setting"
	"github.com/zintix-labs/patternlab/stats"
)

// MaxSpacingSamples 保留做分位數的最近鄰樣本上限；超過後只累加串流統計。
const MaxSpacingSamples = 1 << 20

var (
	ErrNilSetting      = errs.NewFatal("layout recorder: setting is nil or not initialized")
	ErrMergeEmpty      = errs.NewFatal("merge layout record err : empty recorder list")
	ErrMergeMismatched = errs.NewFatal("merge layout record err : different pattern")
)

// LayoutRecorder 圖樣紀錄員
//
// LayoutRecorder 逐張累加 layout 的統計，並透過 Done 輸出報表。
// 不做併發保護；多 worker 時各自持有一份，最後以 MergeLayoutRecorder 合併。
type LayoutRecorder struct {
	Pattern      string
	PatternID    setting.PID
	Distribution gen.Distribution
	RNG          string
	Canvas       geom.Vec2
	ShapeIDs     []string
	Weights      []int
	Colors       []string
	Reference    float64
	Basic        *BasicRecord
	Spacing      *SpacingRecord

	shapeIndex map[string]int
	colorIndex map[string]int
}

// BasicRecord 基本資料紀錄
type BasicRecord struct {
	Layouts     int
	Figures     int
	Dots        int
	MinFigures  int
	MaxFigures  int
	ScaleSum    float64
	ScaleSqSum  float64 // 平方和
	AreaSum     float64
	ShapeCounts []int
	ColorCounts []int
}

// SpacingRecord 最近鄰距離紀錄
type SpacingRecord struct {
	Collect   []int
	Count     int
	Sum       float64
	SqSum     float64 // 平方和
	Min       float64
	Violation int
	Samples   []float64
}

func NewLayoutRecorder(ps *setting.PatternSetting) (*LayoutRecorder, error) {
	if ps == nil || ps.Distribution == "" || ps.Factory == nil {
		return nil, ErrNilSetting
	}
	r := &LayoutRecorder{
		Pattern:      ps.Name,
		PatternID:    ps.ID,
		Distribution: ps.Distribution,
		RNG:          ps.Factory.Name(),
		Canvas:       ps.Canvas.Vec(),
		Weights:      append([]int(nil), ps.Ratio...),
		Colors:       append([]string(nil), ps.Colors...),
	}
	r.ShapeIDs = make([]string, len(ps.Shapes))
	for i, s := range ps.Shapes {
		r.ShapeIDs[i] = s.ID
	}
	r.Reference = reference(ps)
	r.init()
	return r, nil
}

// MergeLayoutRecorder 合併多個 worker 的紀錄；圖樣不同時回傳錯誤。
func MergeLayoutRecorder(rs []*LayoutRecorder) (*LayoutRecorder, error) {
	if len(rs) == 0 {
		return nil, ErrMergeEmpty
	}
	r0 := rs[0]
	m := &LayoutRecorder{
		Pattern:      r0.Pattern,
		PatternID:    r0.PatternID,
		Distribution: r0.Distribution,
		RNG:          r0.RNG,
		Canvas:       r0.Canvas,
		ShapeIDs:     r0.ShapeIDs,
		Weights:      r0.Weights,
		Colors:       r0.Colors,
		Reference:    r0.Reference,
	}
	m.init()
	for _, v := range rs {
		if !v.samePattern(r0) {
			return nil, ErrMergeMismatched.With("pattern=%s other=%s", r0.Pattern, v.Pattern)
		}
		b := v.Basic
		if b.Layouts > 0 {
			if m.Basic.Layouts == 0 || b.MinFigures < m.Basic.MinFigures {
				m.Basic.MinFigures = b.MinFigures
			}
			m.Basic.MaxFigures = max(m.Basic.MaxFigures, b.MaxFigures)
		}
		m.Basic.Layouts += b.Layouts
		m.Basic.Figures += b.Figures
		m.Basic.Dots += b.Dots
		m.Basic.ScaleSum += b.ScaleSum
		m.Basic.ScaleSqSum += b.ScaleSqSum
		m.Basic.AreaSum += b.AreaSum
		for i, c := range b.ShapeCounts {
			m.Basic.ShapeCounts[i] += c
		}
		for i, c := range b.ColorCounts {
			m.Basic.ColorCounts[i] += c
		}

		// 整合 Spacing
		sp := v.Spacing
		for i, c := range sp.Collect {
			m.Spacing.Collect[i] += c
		}
		if sp.Count > 0 {
			if m.Spacing.Count == 0 || sp.Min < m.Spacing.Min {
				m.Spacing.Min = sp.Min
			}
		}
		m.Spacing.Count += sp.Count
		m.Spacing.Sum += sp.Sum
		m.Spacing.SqSum += sp.SqSum
		m.Spacing.Violation += sp.Violation
		m.Spacing.keep(sp.Samples)
	}
	return m, nil
}

// Record 以一張 layout 的輸出更新統計。
func (r *LayoutRecorder) Record(figs []gen.Figure) {
	r.recordBasic(figs)
	r.recordSpacing(figs)
}

// Done 輸出報表（已呼叫 LayoutReport.Done）。
func (r *LayoutRecorder) Done() *stats.LayoutReport {
	b := r.Basic
	sp := r.Spacing
	report := &stats.LayoutReport{
		Summary: &stats.SummaryReport{
			Pattern:      r.Pattern,
			PatternID:    uint(r.PatternID),
			Distribution: string(r.Distribution),
			RNG:          r.RNG,
			CanvasW:      r.Canvas.X,
			CanvasH:      r.Canvas.Y,
			Layouts:      b.Layouts,
			Figures:      b.Figures,
			Dots:         b.Dots,
			MinFigures:   b.MinFigures,
			MaxFigures:   b.MaxFigures,
			ScaleSum:     b.ScaleSum,
			ScaleSqSum:   b.ScaleSqSum,
			AreaSum:      b.AreaSum,
		},
		Shapes: &stats.ShapeReport{
			IDs:     r.ShapeIDs,
			Weights: r.Weights,
			Counts:  append([]int(nil), b.ShapeCounts...),
		},
		Spacing: &stats.SpacingReport{
			Reference: r.Reference,
			Samples:   sp.Count,
			Min:       sp.Min,
			Buckets:   stats.SpacingBucketStr(),
			Collect:   append([]int(nil), sp.Collect...),
			Violation: sp.Violation,
		},
	}
	if sp.Count > 0 {
		n := float64(sp.Count)
		report.Spacing.Mean = sp.Sum / n
		if sp.Count > 1 {
			report.Spacing.Std = math.Sqrt(max((sp.SqSum-sp.Sum*sp.Sum/n)/(n-1), 0))
		}
		_, _, _, report.Spacing.P05 = stats.SpacingSummary(sp.Samples)
	}
	if len(r.Colors) > 0 {
		report.Colors = &stats.ColorReport{
			Colors: r.Colors,
			Counts: append([]int(nil), b.ColorCounts...),
		}
	}
	report.Done()
	return report
}

func (r *LayoutRecorder) init() {
	r.shapeIndex = make(map[string]int, len(r.ShapeIDs))
	for i, id := range r.ShapeIDs {
		r.shapeIndex[id] = i
	}
	r.colorIndex = make(map[string]int, len(r.Colors))
	for i, c := range r.Colors {
		if _, ok := r.colorIndex[c]; !ok {
			r.colorIndex[c] = i
		}
	}
	r.Basic = &BasicRecord{
		ShapeCounts: make([]int, len(r.ShapeIDs)),
		ColorCounts: make([]int, len(r.Colors)),
	}
	r.Spacing = &SpacingRecord{Collect: make([]int, len(stats.SpacingBucketStr()))}
}

func (r *LayoutRecorder) samePattern(o *LayoutRecorder) bool {
	if r.Pattern != o.Pattern || r.PatternID != o.PatternID || r.Distribution != o.Distribution {
		return false
	}
	if len(r.ShapeIDs) != len(o.ShapeIDs) || len(r.Colors) != len(o.Colors) {
		return false
	}
	for i := range r.ShapeIDs {
		if r.ShapeIDs[i] != o.ShapeIDs[i] {
			return false
		}
	}
	return true
}

func (r *LayoutRecorder) recordBasic(figs []gen.Figure) {
	b := r.Basic
	n := len(figs)
	if b.Layouts == 0 || n < b.MinFigures {
		b.MinFigures = n
	}
	b.MaxFigures = max(b.MaxFigures, n)
	b.Layouts++
	b.Figures += n

	for i := range figs {
		f := &figs[i]
		b.AreaSum += f.Size.Area() * f.Scale * f.Scale
		if f.Kind == gen.KindDot {
			b.Dots++
		} else {
			b.ScaleSum += f.Scale
			b.ScaleSqSum += f.Scale * f.Scale
			if idx, ok := r.shapeIndex[f.Shape]; ok {
				b.ShapeCounts[idx]++
			}
		}
		if idx, ok := r.colorIndex[f.Color]; ok {
			b.ColorCounts[idx]++
		}
	}
}

func (r *LayoutRecorder) recordSpacing(figs []gen.Figure) {
	if len(figs) < 2 {
		return
	}
	pts := make([]geom.Vec2, len(figs))
	for i := range figs {
		pts[i] = figs[i].Position
	}
	nn := stats.NearestNeighbors(pts)

	sp := r.Spacing
	blue := r.Distribution == gen.DistBlueNoise
	for _, d := range nn {
		if sp.Count == 0 || d < sp.Min {
			sp.Min = d
		}
		sp.Count++
		sp.Sum += d
		sp.SqSum += d * d
		sp.Collect[stats.SpacingIndex(d, r.Reference)]++
		// 浮點誤差容忍
		if blue && d < r.Reference-1e-9 {
			sp.Violation++
		}
	}
	sp.keep(nn)
}

func (sp *SpacingRecord) keep(nn []float64) {
	room := MaxSpacingSamples - len(sp.Samples)
	if room <= 0 {
		return
	}
	if len(nn) > room {
		nn = nn[:room]
	}
	sp.Samples = append(sp.Samples, nn...)
}

// reference 間距分桶的基準：blue noise 為最小距離，grid 為較短的格距，
// random 為均勻撒點的理論平均最近鄰距離。
func reference(ps *setting.PatternSetting) float64 {
	switch ps.Distribution {
	case gen.DistBlueNoise:
		return ps.BlueNoise.MinimalDistance
	case gen.DistGrid:
		return math.Min(ps.Grid.Width, ps.Grid.Height)
	default:
		return stats.ExpectedSpacing(ps.Amount, ps.Canvas.Width*ps.Canvas.Height)
	}
}
