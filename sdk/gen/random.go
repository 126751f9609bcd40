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

	"github.com/zintix-labs/patternlab/sdk/core"
	"github.com/zintix-labs/patternlab/sdk/geom"
)

// Random 在畫布上均勻撒點；形狀以配額策略對整批 Amount 做上限控制。
//
// 每個 Figure 的亂數消耗順序：子產生器（color, scale）→ 位置 x, y → 形狀 id → 旋轉。
type Random struct {
	Composite
	quotaShapes
	position *core.Core
}

func NewRandom(s Streams, log *slog.Logger) *Random {
	r := &Random{}
	r.init(s, log)
	r.Add(FieldColor, NewColorGenerator(s)).
		Add(FieldScale, NewScaleGenerator(s))
	r.afterChildren = r.deriveStreams
	r.Reset(0)
	return r
}

func (r *Random) deriveStreams() {
	r.id = r.derive()
	r.position = r.derive()
	r.rotation = r.derive()
	r.quota = nil
}

func (r *Random) Next(cfg *Config) (Fragment, bool) {
	if r.Index() >= cfg.Amount {
		return Fragment{}, false
	}
	if r.quota == nil {
		r.begin(cfg, cfg.Amount)
	}
	fig := r.compose(cfg)
	fig.Position = geom.V(r.position.Float64()*cfg.Canvas.X, r.position.Float64()*cfg.Canvas.Y)
	r.decorate(cfg, &fig)
	return Fragment{Fields: FieldAll, Value: fig}, true
}

func (r *Random) Result(cfg *Config) ([]Figure, error) {
	if err := cfg.Validate(DistRandom); err != nil {
		return nil, err
	}
	r.begin(cfg, cfg.Amount)
	return drain(cfg, r.Next, cfg.Amount-r.Index())
}
