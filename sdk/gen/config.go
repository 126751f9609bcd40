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

package gen

import (
	"math"

	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/sdk/geom"
	"github.com/zintix-labs/patternlab/sdk/poisson"
	"github.com/zintix-labs/patternlab/sdk/sampler"
)

var (
	ErrInvalidCanvas   = errs.NewWarn("invalid canvas extent")
	ErrInvalidGridCell = errs.NewWarn("invalid grid cell size")
	ErrInvalidScale    = errs.NewWarn("invalid scale range")
	ErrInvalidAmount   = errs.NewWarn("invalid amount")
	ErrInvalidRatio    = errs.NewWarn("invalid shape ratio")
	ErrInvalidColors   = errs.NewWarn("invalid color weights")
	ErrInvalidShape    = errs.NewWarn("invalid shape metadata")
	ErrInvalidRotation = errs.NewWarn("invalid rotation")
	ErrInvalidHeight   = errs.NewWarn("invalid base height")
)

// maxWeight 單一權重上限；讓權重總和與配額計算 w*T 不會溢位。
const maxWeight = math.MaxInt32

// Shape 是形狀登錄表中的一筆：id 與原生尺寸。
type Shape struct {
	ID     string
	Width  float64
	Height float64
}

// Config 是單次產生所需的全部參數。角度以「度」表示，輸出時轉為弧度。
type Config struct {
	Canvas         geom.Vec2
	Amount         int
	BaseHeight     float64
	ScaleMin       float64
	ScaleMax       float64
	BaseRotation   float64
	RotationRandom float64
	// Ratio 與 Shapes 一一對應，以百分比解讀；缺少的視為 0。
	Ratio        []int
	Shapes       []Shape
	Colors       []string
	ColorWeights []int
	GridCell     geom.Vec2
	MinDistance  float64
	Retries      int
	ShapePick    sampler.CandidateMode
}

// DefaultConfig 對應預設圖樣：800×500、250 個、五種形狀各 20%。
func DefaultConfig() *Config {
	return &Config{
		Canvas:     geom.V(800, 500),
		Amount:     250,
		BaseHeight: 30,
		ScaleMin:   0.25,
		ScaleMax:   2,
		Ratio:      []int{20, 20, 20, 20, 20},
		GridCell:   geom.V(100, 100),
		// blue noise 預設距離與 grid cell 同量級
		MinDistance: 40,
		Retries:     poisson.DefaultRetries,
	}
}

// Validate 依分佈方式檢查設定；錯誤一律為 errs.Warn 等級。
func (c *Config) Validate(d Distribution) error {
	if !c.Canvas.Positive() || !c.Canvas.Finite() {
		return ErrInvalidCanvas.With("canvas=%vx%v", c.Canvas.X, c.Canvas.Y)
	}
	if !geom.Finite(c.ScaleMin, c.ScaleMax) || c.ScaleMin <= 0 || c.ScaleMin > c.ScaleMax {
		return ErrInvalidScale.With("min=%v max=%v", c.ScaleMin, c.ScaleMax)
	}
	if !geom.Finite(c.BaseRotation, c.RotationRandom) {
		return ErrInvalidRotation.With("base=%v random=%v", c.BaseRotation, c.RotationRandom)
	}
	if !geom.Finite(c.BaseHeight) {
		return ErrInvalidHeight.With("base_height=%v", c.BaseHeight)
	}
	// grid 的 amount 超出 (0, capacity] 時取滿，不視為錯誤
	if c.Amount < 0 && d != DistGrid {
		return ErrInvalidAmount.With("amount=%d", c.Amount)
	}
	for i, w := range c.Ratio {
		if w < 0 || w > maxWeight {
			return ErrInvalidRatio.With("ratio[%d]=%d", i, w)
		}
	}
	for _, s := range c.Shapes {
		if s.ID == "" || s.Width < 0 || s.Height < 0 || !geom.Finite(s.Width, s.Height) {
			return ErrInvalidShape.With("shape=%q %vx%v", s.ID, s.Width, s.Height)
		}
	}
	if len(c.ColorWeights) > 0 {
		if len(c.ColorWeights) != len(c.Colors) {
			return ErrInvalidColors.With("colors=%d weights=%d", len(c.Colors), len(c.ColorWeights))
		}
		sum := 0
		for _, w := range c.ColorWeights {
			if w < 0 || w > maxWeight {
				return ErrInvalidColors.With("weight %d out of range", w)
			}
			sum += w
		}
		if sum == 0 {
			return ErrInvalidColors.With("all weights are zero")
		}
	}

	switch d {
	case DistGrid:
		if !c.GridCell.Positive() || !c.GridCell.Finite() {
			return ErrInvalidGridCell.With("cell=%vx%v", c.GridCell.X, c.GridCell.Y)
		}
	case DistBlueNoise:
		if !(c.MinDistance > 0) || math.IsInf(c.MinDistance, 0) {
			return poisson.ErrMinDistance.With("min_distance=%v", c.MinDistance)
		}
		if c.Retries < 0 {
			return poisson.ErrRetries.With("retries=%d", c.Retries)
		}
	}
	return nil
}

// weights 回傳與 Shapes 等長的權重：缺少補 0，多餘捨棄。
func (c *Config) weights() []int {
	w := make([]int, len(c.Shapes))
	copy(w, c.Ratio)
	return w
}

func (c *Config) retries() int {
	if c.Retries <= 0 {
		return poisson.DefaultRetries
	}
	return c.Retries
}

// shapeSize 以 BaseHeight 等比例縮放形狀原生尺寸；沒有足夠資訊時回傳 false。
func (c *Config) shapeSize(i int) (geom.Vec2, bool) {
	if c.BaseHeight <= 0 || i < 0 || i >= len(c.Shapes) {
		return geom.Vec2{}, false
	}
	s := c.Shapes[i]
	if s.Width <= 0 || s.Height <= 0 {
		return geom.Vec2{}, false
	}
	k := c.BaseHeight / s.Height
	return geom.V(s.Width*k, c.BaseHeight), true
}

// GridDims 回傳格線的欄數與列數（四周各內縮一格）。
func (c *Config) GridDims() (cols, rows int) {
	if !c.GridCell.Positive() {
		return 0, 0
	}
	cols = int(math.Floor((c.Canvas.X - c.GridCell.X) / c.GridCell.X))
	rows = int(math.Floor((c.Canvas.Y - c.GridCell.Y) / c.GridCell.Y))
	return max(cols, 0), max(rows, 0)
}

// GridCount 回傳 grid 分佈的輸出數量：amount 在 (0, capacity] 內取 amount，否則取滿。
func (c *Config) GridCount() int {
	cols, rows := c.GridDims()
	capacity := cols * rows
	if c.Amount > 0 && c.Amount <= capacity {
		return c.Amount
	}
	return capacity
}
