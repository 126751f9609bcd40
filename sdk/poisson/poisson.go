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

// Package poisson 實作 Bridson poisson-disk 取樣，產生 blue-noise 分佈的點集。
package poisson

import (
	"math"

	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/sdk/core"
	"github.com/zintix-labs/patternlab/sdk/geom"
)

// DefaultRetries 每個 active 點最多嘗試的候選數。
const DefaultRetries = 50

var (
	ErrMinDistance = errs.NewWarn("poisson: minimal distance must be > 0")
	ErrRetries     = errs.NewWarn("poisson: retries must be > 0")
	ErrExtent      = errs.NewWarn("poisson: canvas extent must be positive")
)

// grid 為均勻空間格，每格保存落在其中的點索引。
//
// cell = floor(r/√2) 時一格理論上最多一點，但 cell 被 max(1, ·) 與 floor 截斷後
// 不一定成立，所以用 slice 保存並依 ceil(r/cell) 決定鄰域半徑。
type grid struct {
	cell   float64
	cols   int
	rows   int
	span   int
	bucket [][]int32
}

func newGrid(extent geom.Vec2, minDist float64) *grid {
	cell := math.Max(math.Floor(minDist/math.Sqrt2), 1)
	cols := int(math.Ceil(extent.X/cell)) + 1
	rows := int(math.Ceil(extent.Y/cell)) + 1
	return &grid{
		cell:   cell,
		cols:   cols,
		rows:   rows,
		span:   int(math.Ceil(minDist / cell)),
		bucket: make([][]int32, cols*rows),
	}
}

func (g *grid) coord(p geom.Vec2) (int, int) {
	return int(p.X / g.cell), int(p.Y / g.cell)
}

func (g *grid) insert(p geom.Vec2, idx int) {
	x, y := g.coord(p)
	k := y*g.cols + x
	g.bucket[k] = append(g.bucket[k], int32(idx))
}

// free 回報 p 周圍 r 內是否沒有任何既有點（以平方距離比較）。
func (g *grid) free(points []geom.Vec2, p geom.Vec2, r2 float64) bool {
	x, y := g.coord(p)
	x0, x1 := max(x-g.span, 0), min(x+g.span, g.cols-1)
	y0, y1 := max(y-g.span, 0), min(y+g.span, g.rows-1)
	for j := y0; j <= y1; j++ {
		row := j * g.cols
		for i := x0; i <= x1; i++ {
			for _, idx := range g.bucket[row+i] {
				if geom.DistanceSquared(points[idx], p) < r2 {
					return false
				}
			}
		}
	}
	return true
}

// Sample 在 [0,W)×[0,H) 內產生點集，任兩點距離皆 >= minDist。
//
// 亂數消耗順序固定：起始點 x、y；之後每輪先抽 active 索引，
// 每個候選再依序抽角度與半徑。相同 rng 狀態必得相同輸出。
func Sample(minDist float64, retries int, extent geom.Vec2, rng *core.Core) ([]geom.Vec2, error) {
	if !(minDist > 0) || math.IsInf(minDist, 0) {
		return nil, ErrMinDistance.With("min_distance=%v", minDist)
	}
	if retries <= 0 {
		return nil, ErrRetries.With("retries=%d", retries)
	}
	if !extent.Positive() || !extent.Finite() {
		return nil, ErrExtent.With("extent=%vx%v", extent.X, extent.Y)
	}

	g := newGrid(extent, minDist)
	r2 := minDist * minDist

	p0 := geom.V(rng.Float64()*extent.X, rng.Float64()*extent.Y)
	points := []geom.Vec2{p0}
	active := []int{0}
	g.insert(p0, 0)

	for len(active) > 0 {
		ai := rng.IntN(len(active))
		p := points[active[ai]]

		found := false
		for try := 0; try < retries; try++ {
			theta := geom.DegToRad(rng.Float64() * 360)
			radius := minDist + rng.Float64()*minDist
			cand := p.Add(geom.Polar(theta, radius))

			if !extent.Contains(cand) || !g.free(points, cand, r2) {
				continue
			}
			idx := len(points)
			points = append(points, cand)
			active = append(active, idx)
			g.insert(cand, idx)
			found = true
			break
		}

		if !found {
			active = append(active[:ai], active[ai+1:]...)
		}
	}
	return points, nil
}
