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
	"github.com/zintix-labs/patternlab/sdk/poisson"
)

// BlueNoise 以 poisson-disk 取樣決定位置，輸出數量等於取樣點數（不看 Amount）。
// 形狀配額依點數計算。
type BlueNoise struct {
	Composite
	quotaShapes
	sampling *core.Core
	points   []geom.Vec2
}

func NewBlueNoise(s Streams, log *slog.Logger) *BlueNoise {
	b := &BlueNoise{}
	b.init(s, log)
	b.Add(FieldColor, NewColorGenerator(s)).
		Add(FieldScale, NewScaleGenerator(s))
	b.afterChildren = b.deriveStreams
	b.Reset(0)
	return b
}

func (b *BlueNoise) deriveStreams() {
	b.id = b.derive()
	b.rotation = b.derive()
	b.sampling = b.derive()
	b.points = nil
	b.quota = nil
}

// sample 只在本批第一次需要時取樣，並以點數開始配額批次。
func (b *BlueNoise) sample(cfg *Config) error {
	if b.points != nil {
		return nil
	}
	pts, err := poisson.Sample(cfg.MinDistance, cfg.retries(), cfg.Canvas, b.sampling)
	if err != nil {
		return err
	}
	b.points = pts
	b.begin(cfg, len(pts))
	return nil
}

// Points 回傳本批的取樣點（尚未取樣時為 nil）。
func (b *BlueNoise) Points() []geom.Vec2 { return b.points }

func (b *BlueNoise) Next(cfg *Config) (Fragment, bool) {
	if err := b.sample(cfg); err != nil {
		b.log.Warn("blue noise sampling failed", slog.Any("err", err))
		return Fragment{}, false
	}
	if b.Index() >= len(b.points) {
		return Fragment{}, false
	}
	fig := b.compose(cfg)
	fig.Position = b.points[fig.Index]
	b.decorate(cfg, &fig)
	return Fragment{Fields: FieldAll, Value: fig}, true
}

func (b *BlueNoise) Result(cfg *Config) ([]Figure, error) {
	if err := cfg.Validate(DistBlueNoise); err != nil {
		return nil, err
	}
	if err := b.sample(cfg); err != nil {
		return nil, err
	}
	return drain(cfg, b.Next, len(b.points)-b.Index())
}
