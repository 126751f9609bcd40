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

package stats

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// Confidence 報表使用的信賴水準
const Confidence = 0.95

// fit 計算形狀佔比、Clopper–Pearson 區間與對設定比例的卡方適合度檢定。
func (s *ShapeReport) fit() {
	n := 0
	for _, c := range s.Counts {
		n += c
	}
	s.Share = make([]float64, len(s.Counts))
	s.ShareCI = make([]CI, len(s.Counts))
	for i, c := range s.Counts {
		s.Share[i], s.ShareCI[i] = ProportionCI(c, n, Confidence)
	}
	s.Expected = expectedShares(s.Weights, len(s.Counts))
	s.ChiSquare, s.DoF, s.PValue = ChiSquareFit(s.Counts, s.Expected)
}

// expectedShares 把百分比權重正規化為期望佔比；權重全為 0 時視為均分。
func expectedShares(weights []int, n int) []float64 {
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	sum := 0
	for i := 0; i < n && i < len(weights); i++ {
		sum += weights[i]
	}
	for i := range out {
		if sum == 0 {
			out[i] = 1 / float64(n)
			continue
		}
		if i < len(weights) {
			out[i] = float64(weights[i]) / float64(sum)
		}
	}
	return out
}

// ChiSquareFit 回傳 Pearson 卡方統計量、自由度與 p 值。
// 期望值為 0 的類別不計入；若這些類別實際出現，p 值直接為 0。
func ChiSquareFit(counts []int, expected []float64) (x2 float64, dof int, p float64) {
	n := 0
	for _, c := range counts {
		n += c
	}
	if n == 0 {
		return 0, 0, 1
	}
	k := 0
	impossible := false
	for i, c := range counts {
		e := 0.0
		if i < len(expected) {
			e = expected[i] * float64(n)
		}
		if e <= 0 {
			if c > 0 {
				impossible = true
			}
			continue
		}
		d := float64(c) - e
		x2 += d * d / e
		k++
	}
	dof = k - 1
	if impossible {
		return x2, max(dof, 0), 0
	}
	if dof < 1 {
		return x2, 0, 1
	}
	return x2, dof, distuv.ChiSquared{K: float64(dof)}.Survival(x2)
}

// ProportionCI Clopper–Pearson exact CI（k successes out of n）
func ProportionCI(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	// Beta PPF 映射，處理邊界
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}
