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

package sampler

import (
	"slices"

	"github.com/zintix-labs/patternlab/sdk/core"
	"github.com/zintix-labs/patternlab/sdk/geom"
)

// Quota 依百分比權重限制每個形狀在一批輸出中的使用次數。
//
//	quota[i] = floor(w[i] * T / 100)
//
// 每次 Pick 先抽一個候選（Uniform 或 Cumulative），若該形狀已達配額則往後線性探測
// （mod n）；繞回起點仍找不到時接受原候選，因此總數 T 超過配額和時仍能輸出。
type Quota struct {
	weights []int
	mode    CandidateMode
	picker  *Weighted
	quota   []int
	usage   []int
}

// NewQuota 建立配額選擇器。weights 需為非負值；總和為 0 時 Cumulative 退化為 Uniform。
func NewQuota(weights []int, mode CandidateMode) *Quota {
	q := &Quota{
		weights: slices.Clone(weights),
		mode:    mode,
		quota:   make([]int, len(weights)),
		usage:   make([]int, len(weights)),
	}
	sum := 0
	for _, w := range weights {
		sum += w
	}
	if mode == Cumulative && sum > 0 {
		q.picker = NewWeighted(weights)
	}
	return q
}

// Begin 開始新的一批輸出：依總數 total 重算配額並清空計數。
func (q *Quota) Begin(total int) {
	total = max(total, 0)
	for i, w := range q.weights {
		q.quota[i] = w * total / 100
		q.usage[i] = 0
	}
}

// Pick 回傳形狀索引並累加使用次數；沒有任何形狀時回傳 -1。
// 只消耗一次取樣。
func (q *Quota) Pick(c *core.Core) int {
	n := len(q.weights)
	if n == 0 {
		return -1
	}

	start := q.candidate(c)
	i := start
	for q.usage[i] >= q.quota[i] {
		i = geom.WrapIndex(i+1, n)
		if i == start {
			break
		}
	}
	q.usage[i]++
	return i
}

func (q *Quota) candidate(c *core.Core) int {
	if q.picker != nil {
		return q.picker.Pick(c)
	}
	return c.IntN(len(q.weights))
}

func (q *Quota) Mode() CandidateMode { return q.mode }

// Quotas 回傳目前批次的配額（複本）。
func (q *Quota) Quotas() []int { return slices.Clone(q.quota) }

// Usage 回傳目前批次的使用次數（複本）。
func (q *Quota) Usage() []int { return slices.Clone(q.usage) }
