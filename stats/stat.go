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

// Package stats 是圖樣的統計報表：形狀比例擬合、最近鄰間距、顏色分佈與文字渲染。
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// LayoutReport 一個或多個 layout 的統計報告
type LayoutReport struct {
	Summary *SummaryReport `json:"Summary"`
	Shapes  *ShapeReport   `json:"Shapes"`
	Spacing *SpacingReport `json:"Spacing"`
	Colors  *ColorReport   `json:"Colors"`
	isDone  bool
}

type SummaryReport struct {
	Pattern      string  `json:"Pattern"`
	PatternID    uint    `json:"PatternID"`
	Distribution string  `json:"Distribution"`
	RNG          string  `json:"RNG"`
	CanvasW      float64 `json:"CanvasW"`
	CanvasH      float64 `json:"CanvasH"`
	Layouts      int     `json:"Layouts"`
	Figures      int     `json:"Figures"`
	Dots         int     `json:"Dots"`
	MinFigures   int     `json:"MinFigures"`
	MaxFigures   int     `json:"MaxFigures"`
	MeanFigures  float64 `json:"MeanFigures"`
	ScaleSum     float64 `json:"ScaleSum"`
	ScaleSqSum   float64 `json:"ScaleSqSum"` // 平方和
	MeanScale    float64 `json:"MeanScale"`
	StdScale     float64 `json:"StdScale"`
	AreaSum      float64 `json:"AreaSum"`
	Coverage     float64 `json:"Coverage"` // 平均每張圖的 (Σ 縮放後面積) / 畫布面積
}

// ShapeReport 形狀比例擬合
type ShapeReport struct {
	IDs       []string  `json:"IDs"`
	Weights   []int     `json:"Weights"`
	Counts    []int     `json:"Counts"`
	Share     []float64 `json:"Share"`
	ShareCI   []CI      `json:"ShareCI"`
	Expected  []float64 `json:"Expected"`
	ChiSquare float64   `json:"ChiSquare"`
	DoF       int       `json:"DoF"`
	PValue    float64   `json:"PValue"`
}

// SpacingReport 最近鄰距離統計
type SpacingReport struct {
	Reference float64   `json:"Reference"` // 分桶基準（blue noise 為最小距離，其他為格距或理論平均間距）
	Samples   int       `json:"Samples"`
	Min       float64   `json:"Min"`
	Mean      float64   `json:"Mean"`
	Std       float64   `json:"Std"`
	P05       float64   `json:"P05"`
	Buckets   []string  `json:"Buckets"`
	Collect   []int     `json:"Collect"`
	Dist      []float64 `json:"Dist"`
	Violation int       `json:"Violation"` // 小於 Reference 的樣本數（只對 blue noise 有意義）
}

// ColorReport 顏色分佈
type ColorReport struct {
	Colors []string  `json:"Colors"`
	Counts []int     `json:"Counts"`
	Share  []float64 `json:"Share"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 把累積計數轉換為最終統計結果並鎖定 isDone 標記。
//
// 紀錄過程只累加計數；請在紀錄完成後呼叫 Done 一次性計算。
func (r *LayoutReport) Done() {
	if r.isDone {
		return
	}
	s := r.Summary
	if s.Layouts > 0 {
		s.MeanFigures = float64(s.Figures) / float64(s.Layouts)
		if area := s.CanvasW * s.CanvasH; area > 0 {
			s.Coverage = s.AreaSum / area / float64(s.Layouts)
		}
	}
	s.MeanScale, s.StdScale = meanStd(s.ScaleSum, s.ScaleSqSum, s.Figures-s.Dots)

	if r.Shapes != nil {
		r.Shapes.fit()
	}
	if r.Colors != nil {
		total := 0
		for _, c := range r.Colors.Counts {
			total += c
		}
		r.Colors.Share = shares(r.Colors.Counts, total)
	}
	if r.Spacing != nil {
		total := 0
		for _, c := range r.Spacing.Collect {
			total += c
		}
		r.Spacing.Dist = shares(r.Spacing.Collect, total)
	}
	r.isDone = true
}

func (r *LayoutReport) WriteWith(w io.Writer, rep LayoutReportRender) error {
	r.Done()
	return rep.Write(w, r)
}

// StdOut 以表格輸出摘要；ut 為耗時（<= 0 時不輸出速度）。
func (r *LayoutReport) StdOut(ut time.Duration) {
	fmt.Print(r.Table(ut))
}

// Table 回傳 StdOut 的字串內容。
func (r *LayoutReport) Table(ut time.Duration) string {
	r.Done()
	var sb strings.Builder
	if ut > 0 {
		sb.WriteString(formatDuration(ut, r.Summary.Layouts))
	}
	keys, basic := r.fmtBasic()
	sb.WriteString(fmtTable(r.Summary.Pattern, keys, basic))
	if r.Shapes != nil && len(r.Shapes.IDs) > 0 {
		keys, rows := r.fmtShapes()
		sb.WriteString(fmtTable("Shapes", keys, rows))
	}
	return sb.String()
}

// ============================================================
// ** 內部方法 **
// ============================================================

func meanStd(sum, sqSum float64, n int) (float64, float64) {
	if n <= 0 {
		return 0, 0
	}
	mean := sum / float64(n)
	if n < 2 {
		return mean, 0
	}
	variance := (sqSum - sum*sum/float64(n)) / float64(n-1)
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

func shares(counts []int, total int) []float64 {
	out := make([]float64, len(counts))
	if total == 0 {
		return out
	}
	for i, c := range counts {
		out[i] = float64(c) / float64(total)
	}
	return out
}

func formatDuration(d time.Duration, layouts int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	lps := int(float64(layouts) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\nlps : %d layouts/sec\n", sec, lps)
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\nlps : %d layouts/sec\n", m, s, lps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\nlps : %d layouts/sec\n", h, m, s, lps)
}

func (r *LayoutReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	s := r.Summary
	basic := map[string]string{
		"Pattern":      p.Sprintf("%s", s.Pattern),
		"Pattern ID":   fmt.Sprintf("%d", s.PatternID),
		"Distribution": s.Distribution,
		"RNG":          s.RNG,
		"Canvas":       p.Sprintf("%.0f x %.0f", s.CanvasW, s.CanvasH),
		"Layouts":      p.Sprintf("%d", s.Layouts),
		"Figures":      p.Sprintf("%d", s.Figures),
		"Figures/Run":  p.Sprintf("%.1f [%d,%d]", s.MeanFigures, s.MinFigures, s.MaxFigures),
		"Dots":         p.Sprintf("%d", s.Dots),
		"Scale":        p.Sprintf("%.3f ± %.3f", s.MeanScale, s.StdScale),
		"Coverage":     p.Sprintf("%.2f %%", 100*s.Coverage),
	}
	keys := []string{"Pattern", "Pattern ID", "Distribution", "RNG", "Canvas", "Layouts", "Figures", "Figures/Run", "Dots", "Scale", "Coverage"}
	if sp := r.Spacing; sp != nil && sp.Samples > 0 {
		basic["NN Min"] = p.Sprintf("%.2f", sp.Min)
		basic["NN Mean"] = p.Sprintf("%.2f ± %.2f", sp.Mean, sp.Std)
		basic["NN P05"] = p.Sprintf("%.2f", sp.P05)
		keys = append(keys, "NN Min", "NN Mean", "NN P05")
	}
	if sh := r.Shapes; sh != nil && sh.DoF > 0 {
		basic["Ratio χ²"] = p.Sprintf("%.3f (dof %d, p=%.4f)", sh.ChiSquare, sh.DoF, sh.PValue)
		keys = append(keys, "Ratio χ²")
	}
	return keys, basic
}

func (r *LayoutReport) fmtShapes() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	sh := r.Shapes
	rows := make(map[string]string, len(sh.IDs))
	keys := make([]string, 0, len(sh.IDs))
	for i, id := range sh.IDs {
		keys = append(keys, id)
		rows[id] = p.Sprintf("%d  %.2f%% [%.2f%%,%.2f%%] / %.2f%%",
			sh.Counts[i], 100*sh.Share[i], 100*sh.ShareCI[i].Lo, 100*sh.ShareCI[i].Hi, 100*sh.Expected[i])
	}
	return keys, rows
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	left := max((totalInner-titleW)/2, 0)
	right := max(totalInner-titleW-left, 0)

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString(p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right)))
	sb.WriteString(divider)
	for _, k := range keys {
		sb.WriteString(p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k]))))
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
