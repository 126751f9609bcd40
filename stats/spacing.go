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
	"math"
	"slices"

	"github.com/zintix-labs/patternlab/sdk/geom"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/stat"
)

// NearestNeighbors 回傳每個點到其最近鄰的距離（少於兩點時回傳 nil）。
func NearestNeighbors(points []geom.Vec2) []float64 {
	if len(points) < 2 {
		return nil
	}
	pts := make(kdtree.Points, len(points))
	for i, p := range points {
		pts[i] = kdtree.Point{p.X, p.Y}
	}
	tree := kdtree.New(slices.Clone(pts), false)

	out := make([]float64, len(points))
	for i, q := range pts {
		// 自己一定是最近的一個（距離 0），取第二近
		k := kdtree.NewNKeeper(2)
		tree.NearestSet(k, q)
		out[i] = math.Sqrt(secondSmallest(k.Heap))
	}
	return out
}

// secondSmallest 從 keeper 的堆中取出第二小的平方距離（堆內含自身）。
func secondSmallest(h kdtree.Heap) float64 {
	ds := make([]float64, 0, len(h))
	for _, c := range h {
		if c.Comparable != nil {
			ds = append(ds, c.Dist)
		}
	}
	if len(ds) < 2 {
		return math.Inf(1)
	}
	slices.Sort(ds)
	return ds[1]
}

// SpacingBuckets 最近鄰距離以 Reference 為單位的分桶邊界：
// [0,0.5), [0.5,0.75), [0.75,1), [1,1.25), [1.25,1.5), [1.5,2), [2,3), [3,+inf)
var SpacingBuckets = []float64{0.5, 0.75, 1, 1.25, 1.5, 2, 3}

var spacingBucketStr = []string{"[0,0.5)", "[0.5,0.75)", "[0.75,1)", "[1,1.25)", "[1.25,1.5)", "[1.5,2)", "[2,3)", "[3,+inf)"}

// SpacingBucketStr 分桶標籤
func SpacingBucketStr() []string { return slices.Clone(spacingBucketStr) }

// SpacingIndex 回傳距離 d 以 ref 為單位落在哪個分桶。
func SpacingIndex(d, ref float64) int {
	if ref <= 0 {
		return len(SpacingBuckets)
	}
	r := d / ref
	i, _ := slices.BinarySearch(SpacingBuckets, r)
	// BinarySearch 回傳第一個 >= r 的位置；剛好等於邊界時屬於右側區間
	if i < len(SpacingBuckets) && SpacingBuckets[i] == r {
		i++
	}
	return i
}

// SpacingSummary 由全部最近鄰樣本計算 min / mean / std / p05。
func SpacingSummary(nn []float64) (minV, mean, std, p05 float64) {
	if len(nn) == 0 {
		return 0, 0, 0, 0
	}
	sorted := slices.Clone(nn)
	slices.Sort(sorted)
	mean, std = stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		std = 0
	}
	p05 = stat.Quantile(0.05, stat.Empirical, sorted, nil)
	return sorted[0], mean, std, p05
}

// ExpectedSpacing 為 n 個點均勻撒在面積 area 上時最近鄰距離的理論平均 0.5/sqrt(n/area)。
func ExpectedSpacing(n int, area float64) float64 {
	if n <= 0 || area <= 0 {
		return 0
	}
	return 0.5 / math.Sqrt(float64(n)/area)
}
