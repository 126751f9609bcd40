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
	"math/bits"

	"github.com/zintix-labs/patternlab/sdk/core"
)

// AliasTable : Vose alias method 的整數版本，用於加權顏色抽樣。
//
// 每個槽位只有「自己」與「別名」兩個選項。Prob[i] = w[i]*Size 做整數 scaling，
// 抽樣固定消耗 2 次取樣：先選槽位，再以 IntN(Total) < Prob[idx] 決定是否改用別名。
type AliasTable struct {
	Prob    []int
	Aliases []int
	Size    int
	Total   int
}

// BuildAliasTable 根據非負權重建表；負權重、全零、溢位會 panic。
func BuildAliasTable(weights []int) *AliasTable {
	n := len(weights)
	if n == 0 {
		return &AliasTable{Prob: []int{}, Aliases: []int{}}
	}

	total := uint64(0)
	for _, w := range weights {
		if w < 0 {
			panic("alias: negative weight")
		}
		if total > uint64(math.MaxInt)-uint64(w) {
			panic("alias: total weight overflow")
		}
		total += uint64(w)
	}
	if total == 0 {
		panic("alias: all weights are zero")
	}
	if hi, lo := bits.Mul64(total, uint64(n)); hi != 0 || lo > math.MaxInt64 {
		panic("alias: weights too large")
	}

	t := int(total)
	prob := make([]int, n)
	aliases := make([]int, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)

	for i, w := range weights {
		prob[i] = w * n
		if prob[i] < t {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		// s 不足的部分由 l 補上，sum(prob) = total*n 不變
		aliases[s] = l
		prob[l] = prob[l] + prob[s] - t
		if prob[l] < t {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}

	return &AliasTable{Prob: prob, Aliases: aliases, Size: n, Total: t}
}

// Pick 抽出一個索引，空表回傳 -1。
func (at *AliasTable) Pick(c *core.Core) int {
	if at.Size == 0 {
		return -1
	}
	idx := c.IntN(at.Size)
	if c.IntN(at.Total) < at.Prob[idx] {
		return idx
	}
	return at.Aliases[idx]
}
