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
	"fmt"
	"math"

	"github.com/zintix-labs/patternlab/sdk/core"
)

// ratio 以百分比表示，總和遠小於上限；上限只是防止誤設巨大權重。
const maxLUTCap uint64 = 1_000_000

// LUT 將權重展開成索引表，例如 [3,5,0] -> [0,0,0,1,1,1,1,1]。
//
// lut[floor(u*total)] 等同於在累積權重上做線性搜尋（找第一個 cum[i] > u*total 的 i），
// 但只需 O(1)；兩者消耗的亂數次數也相同（一次）。
type LUT []int

// BuildLUT 根據非負整數權重建立查找表。負權重、全零或總和超過上限會 panic，
// 呼叫端（setting 驗證）應先擋下。
func BuildLUT[T Integers](src []T) LUT {
	if len(src) == 0 {
		return LUT{}
	}

	acc := uint64(0)
	for _, v := range src {
		if v < 0 {
			panic("lut: negative weight")
		}
		uv := uint64(v)
		if acc > math.MaxUint64-uv {
			panic("lut: total weight overflow")
		}
		acc += uv
	}
	if acc == 0 {
		panic("lut: all weights are zero")
	}
	if acc > maxLUTCap {
		panic(fmt.Sprintf("lut: total weight %d exceeds limit %d", acc, maxLUTCap))
	}

	lut := make(LUT, 0, int(acc))
	for i, v := range src {
		for j := T(0); j < v; j++ {
			lut = append(lut, i)
		}
	}
	return lut
}

// Pick 以一次取樣回傳索引，空表回傳 -1。
func (l LUT) Pick(c *core.Core) int {
	v, ok := core.Pick(c, l)
	if !ok {
		return -1
	}
	return v
}

// Total 回傳權重總和（即表長）。
func (l LUT) Total() int { return len(l) }
