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
	"math"
	"sort"

	"github.com/zintix-labs/patternlab/sdk/core"
)

// Weighted 依非負整數權重抽索引。
//
// 總和不超過 maxLUTCap 時展開成 LUT；更大的總和改在累積權重上二分搜尋。
// 兩條路徑對同一個亂數給出同一個索引，且都只取樣一次。
type Weighted struct {
	lut   LUT
	cum   []int
	total int
}

// NewWeighted 建立權重選擇器；負權重或總和溢位會 panic，呼叫端應先驗證。
// 總和為 0 時 Pick 一律回傳 -1。
func NewWeighted(weights []int) *Weighted {
	w := &Weighted{cum: make([]int, len(weights))}
	for i, v := range weights {
		if v < 0 {
			panic("weighted: negative weight")
		}
		if w.total > math.MaxInt-v {
			panic("weighted: total weight overflow")
		}
		w.total += v
		w.cum[i] = w.total
	}
	if w.total > 0 && uint64(w.total) <= maxLUTCap {
		w.lut = BuildLUT(weights)
		w.cum = nil
	}
	return w
}

// Pick 回傳索引；總和為 0 時回傳 -1。
func (w *Weighted) Pick(c *core.Core) int {
	if w.total == 0 {
		return -1
	}
	if w.lut != nil {
		return w.lut.Pick(c)
	}
	r := c.IntN(w.total)
	return sort.Search(len(w.cum), func(i int) bool { return w.cum[i] > r })
}

// Total 回傳權重總和。
func (w *Weighted) Total() int { return w.total }

// Expanded 是否使用 LUT。
func (w *Weighted) Expanded() bool { return w.lut != nil }
