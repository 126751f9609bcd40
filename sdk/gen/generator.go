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

// Package gen 是圖樣產生核心：屬性產生器、組合產生器，以及三種分佈方式
// （random / grid / blue noise）。
//
// 所有亂數都由 Streams 依 (seed, skip) 重新派生，產生器本身不保存種子；
// Reset 之後以相同 Config 呼叫 Result 必得相同輸出。
package gen

import "github.com/zintix-labs/patternlab/sdk/core"

// Streams 提供由目前種子派生的全新亂數流（seed.Registry 實作此介面）。
type Streams interface {
	Stream(skip int) *core.Core
}

// Generator 是所有產生器的共同能力。
//
//   - Next：產生下一個 Fragment；第二個回傳值為 false 表示本批已結束。
//     屬性產生器永遠回傳 true。
//   - Reset：依 skip 重新派生亂數流並清空內部計數。
//   - Result：產生完整一批 Figure；屬性產生器回傳 nil, nil（只透過組合使用）。
type Generator interface {
	Next(cfg *Config) (Fragment, bool)
	Reset(skip int)
	Result(cfg *Config) ([]Figure, error)
}

// Base 實作 template-method 式的 Reset：
// 先執行共同的 resetInternal（索引歸零），再呼叫子型別透過 onReset 掛上的邏輯。
// 子型別不覆寫 Reset，因此共同重置不會被遺漏。
type Base struct {
	streams Streams
	index   int
	onReset func(skip int)
}

func (b *Base) Reset(skip int) {
	b.resetInternal()
	if b.onReset != nil {
		b.onReset(skip)
	}
}

func (b *Base) resetInternal() {
	b.index = 0
}

// Index 回傳本批已產出的數量（下一個 Figure 的索引）。
func (b *Base) Index() int { return b.index }

func (b *Base) nextIndex() int {
	i := b.index
	b.index++
	return i
}
