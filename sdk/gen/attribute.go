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
	"slices"

	"github.com/zintix-labs/patternlab/sdk/core"
	"github.com/zintix-labs/patternlab/sdk/geom"
	"github.com/zintix-labs/patternlab/sdk/sampler"
)

// attribute 是屬性產生器的共同骨架：一條由 skip 派生的亂數流。
type attribute struct {
	Base
	rng *core.Core
}

func (a *attribute) init(s Streams) {
	a.streams = s
	a.onReset = func(skip int) { a.rng = a.streams.Stream(skip) }
	a.rng = s.Stream(0)
}

func (a *attribute) Result(*Config) ([]Figure, error) { return nil, nil }

// ScaleGenerator : [ScaleMin, ScaleMax] 內均勻取值。
type ScaleGenerator struct{ attribute }

func NewScaleGenerator(s Streams) *ScaleGenerator {
	g := &ScaleGenerator{}
	g.init(s)
	return g
}

func (g *ScaleGenerator) Next(cfg *Config) (Fragment, bool) {
	g.nextIndex()
	lo, hi := cfg.ScaleMin, cfg.ScaleMax
	v := geom.Clamp(g.rng.Range(lo, hi), lo, hi)
	return Fragment{Fields: FieldScale, Value: Figure{Scale: v}}, true
}

// ColorGenerator : 從色盤均勻抽色；設定 ColorWeights 時改用 alias table 加權抽樣。
type ColorGenerator struct {
	attribute
	weights []int
	table   *sampler.AliasTable
}

func NewColorGenerator(s Streams) *ColorGenerator {
	g := &ColorGenerator{}
	g.init(s)
	return g
}

func (g *ColorGenerator) Next(cfg *Config) (Fragment, bool) {
	g.nextIndex()
	if len(cfg.Colors) == 0 {
		return Fragment{}, true
	}
	var idx int
	if len(cfg.ColorWeights) == len(cfg.Colors) {
		if g.table == nil || !slices.Equal(g.weights, cfg.ColorWeights) {
			g.weights = slices.Clone(cfg.ColorWeights)
			g.table = sampler.BuildAliasTable(g.weights)
		}
		idx = g.table.Pick(g.rng)
	} else {
		idx = g.rng.IntN(len(cfg.Colors))
	}
	return Fragment{Fields: FieldColor, Value: Figure{Color: cfg.Colors[idx]}}, true
}

// ShapeGenerator : 依 Ratio 的累積權重抽形狀（不受配額限制）；
// BaseHeight 有效時一併給出尺寸。
type ShapeGenerator struct {
	attribute
	weights []int
	picker  *sampler.Weighted
}

func NewShapeGenerator(s Streams) *ShapeGenerator {
	g := &ShapeGenerator{}
	g.init(s)
	return g
}

func (g *ShapeGenerator) Next(cfg *Config) (Fragment, bool) {
	g.nextIndex()
	n := len(cfg.Shapes)
	if n == 0 {
		return Fragment{}, true
	}
	w := cfg.weights()
	if !slices.Equal(g.weights, w) {
		g.weights = w
		g.picker = nil
		if sum(w) > 0 {
			g.picker = sampler.NewWeighted(w)
		}
	}
	var idx int
	if g.picker != nil {
		idx = g.picker.Pick(g.rng)
	} else {
		idx = g.rng.IntN(n)
	}

	frag := Fragment{Fields: FieldShape, Value: Figure{Shape: cfg.Shapes[idx].ID}}
	if size, ok := cfg.shapeSize(idx); ok {
		frag.Fields |= FieldSize
		frag.Value.Size = size
	}
	return frag, true
}

// RotationGenerator : BaseRotation ± RotationRandom（度），輸出弧度。
type RotationGenerator struct{ attribute }

func NewRotationGenerator(s Streams) *RotationGenerator {
	g := &RotationGenerator{}
	g.init(s)
	return g
}

func (g *RotationGenerator) Next(cfg *Config) (Fragment, bool) {
	g.nextIndex()
	return Fragment{Fields: FieldRotation, Value: Figure{Rotation: rotationPtr(rotation(cfg, g.rng))}}, true
}

func rotation(cfg *Config, rng *core.Core) float64 {
	return geom.DegToRad(cfg.BaseRotation + cfg.RotationRandom*rng.Signed())
}

func sum(w []int) int {
	s := 0
	for _, v := range w {
		s += v
	}
	return s
}
