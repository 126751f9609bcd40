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

package core

import (
	"math"

	"github.com/zintix-labs/patternlab/errs"
)

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	Snapshot() ([]byte, error)
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
//
// 圖樣產生只依賴 Float64：所有整數索引都由 floor(Float64()*n) 得到，
// 保證「一次取樣 = 一次狀態前進」，Skip 才能與逐次抽取等價。
type RAND interface {
	// Uint32 回傳原生輸出寬度的 32-bit 亂數（一次前進）。
	Uint32() uint32
	// Float64 回傳 [0,1) 的浮點亂數（一次前進）。
	Float64() float64
}

type PRNGFactory interface {
	// New 以指定 seed 建立新的 PRNG。
	//
	// 同一個實作與版本下，New(seed) 必須是決定性的：
	// 相同的 seed 產生相同的輸出序列，圖樣才能被重現。
	New(int64) PRNG
	// Name 回傳演算法名稱，對應設定檔的 rng 欄位。
	Name() string
}

var ErrUnknownRNG = errs.NewWarn("unknown rng algorithm")

const (
	RNGSplitMix32 = "splitmix32"
	RNGPCG32      = "pcg32"
	RNGPCG64      = "pcg64"
)

type factory struct {
	name string
	fn   func(int64) PRNG
}

func (f *factory) New(seed int64) PRNG { return f.fn(seed) }
func (f *factory) Name() string        { return f.name }

var factories = map[string]*factory{
	RNGSplitMix32: {name: RNGSplitMix32, fn: func(s int64) PRNG { return NewSplitMix32(s) }},
	RNGPCG32:      {name: RNGPCG32, fn: func(s int64) PRNG { return newPCG32WithSeed(s) }},
	RNGPCG64:      {name: RNGPCG64, fn: func(s int64) PRNG { return newPCG64WithSeed(s) }},
}

// Default 回傳預設的 splitmix32 工廠。
func Default() PRNGFactory {
	return factories[RNGSplitMix32]
}

// FactoryByName 依名稱取得 PRNG 工廠；空字串回傳預設值。
func FactoryByName(name string) (PRNGFactory, error) {
	if name == "" {
		return Default(), nil
	}
	f, ok := factories[name]
	if !ok {
		return nil, ErrUnknownRNG.With("rng=%q", name)
	}
	return f, nil
}

// Core 封裝 PRNG，並提供圖樣產生常用的取樣工具。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// Skip 丟棄 n 次輸出並回傳自身，n <= 0 時不動作。
func (c *Core) Skip(n int) *Core {
	for i := 0; i < n; i++ {
		c.Float64()
	}
	return c
}

// IntN 回傳 floor(Float64()*n)，n <= 0 回傳 -1。
// 只消耗一次取樣。
func (c *Core) IntN(n int) int {
	if n <= 0 {
		return -1
	}
	return int(math.Floor(c.Float64() * float64(n)))
}

// Range 回傳 [min,max) 的均勻亂數。
func (c *Core) Range(min, max float64) float64 {
	return min + c.Float64()*(max-min)
}

// Signed 回傳 [-1,1) 的均勻亂數。
func (c *Core) Signed() float64 {
	return c.Float64()*2 - 1
}

// Offset 回傳 1 + floor(u*spread)，用於替子產生器錯開亂數流。
func (c *Core) Offset(spread int) int {
	if spread <= 0 {
		return 1
	}
	return 1 + c.IntN(spread)
}

// Pick 從列表中隨機選取一個元素，列表為空時 ok = false。
func Pick[T any](c *Core, src []T) (v T, ok bool) {
	if len(src) == 0 {
		return v, false
	}
	return src[c.IntN(len(src))], true
}
