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
	"github.com/zintix-labs/patternlab/sdk/core"
	"github.com/zintix-labs/patternlab/sdk/sampler"
)

// quotaShapes 是 random 與 blue noise 共用的形狀／旋轉決策：
// 形狀走配額策略（整批共享計數），旋轉為 base ± spread。
type quotaShapes struct {
	id       *core.Core
	rotation *core.Core
	quota    *sampler.Quota
}

// begin 開始新的一批：以 total 計算配額並清空計數。
func (q *quotaShapes) begin(cfg *Config, total int) {
	q.quota = sampler.NewQuota(cfg.weights(), cfg.ShapePick)
	q.quota.Begin(total)
}

// decorate 補上形狀、尺寸、旋轉；沒有登錄形狀時降為 Dot 且不消耗亂數。
// 固定順序：先形狀 id，再旋轉。
func (q *quotaShapes) decorate(cfg *Config, fig *Figure) {
	if len(cfg.Shapes) == 0 {
		fig.Kind = KindDot
		return
	}
	idx := q.quota.Pick(q.id)
	fig.Kind = KindShape
	fig.Shape = cfg.Shapes[idx].ID
	fig.Rotation = rotationPtr(rotation(cfg, q.rotation))
	if size, ok := cfg.shapeSize(idx); ok {
		fig.Size = size
	}
}

// Usage 回傳目前批次各形狀的使用次數與配額；尚未開始時回傳 nil。
func (q *quotaShapes) Usage() (usage, quota []int) {
	if q.quota == nil {
		return nil, nil
	}
	return q.quota.Usage(), q.quota.Quotas()
}

// drain 反覆呼叫 next 直到本批結束。
func drain(cfg *Config, next func(*Config) (Fragment, bool), hint int) ([]Figure, error) {
	out := make([]Figure, 0, max(hint, 0))
	for {
		frag, ok := next(cfg)
		if !ok {
			return out, nil
		}
		if err := frag.Value.Valid(); err != nil {
			return nil, err
		}
		out = append(out, frag.Value)
	}
}
