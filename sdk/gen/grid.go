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
	"log/slog"

	"github.com/zintix-labs/patternlab/sdk/geom"
)

// Grid 依列優先（row-major）把圖形放在等距格點上，四周內縮一格。
// 顏色、縮放、形狀、旋轉全部來自子產生器。
type Grid struct {
	Composite
}

func NewGrid(s Streams, log *slog.Logger) *Grid {
	g := &Grid{}
	g.init(s, log)
	g.Add(FieldColor, NewColorGenerator(s)).
		Add(FieldScale, NewScaleGenerator(s)).
		Add(FieldShape, NewShapeGenerator(s)).
		Add(FieldRotation, NewRotationGenerator(s))
	g.Reset(0)
	return g
}

func (g *Grid) Next(cfg *Config) (Fragment, bool) {
	cols, _ := cfg.GridDims()
	if cols == 0 || g.Index() >= cfg.GridCount() {
		return Fragment{}, false
	}
	fig := g.compose(cfg)
	k := fig.Index
	fig.Position = geom.V(
		float64(k%cols+1)*cfg.GridCell.X,
		float64(k/cols+1)*cfg.GridCell.Y,
	)
	if len(cfg.Shapes) == 0 {
		fig.Kind = KindDot
		fig.Rotation = nil
	}
	return Fragment{Fields: FieldAll, Value: fig}, true
}

func (g *Grid) Result(cfg *Config) ([]Figure, error) {
	if err := cfg.Validate(DistGrid); err != nil {
		return nil, err
	}
	return drain(cfg, g.Next, cfg.GridCount()-g.Index())
}
