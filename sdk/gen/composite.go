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

// offsetSpread 控制子產生器 skip 偏移的隨機幅度：offset += 1 + floor(u*offsetSpread)
const offsetSpread = 10

// mergeExempt 子產生器可覆寫而不告警的欄位
const mergeExempt = FieldScale | FieldSize

// skeletonFields 是骨架預設就擁有的欄位
const skeletonFields = FieldIndex | FieldKind | FieldPosition | FieldSize | FieldScale

type child struct {
	field Field
	gen   Generator
}

// Composite 依註冊順序組合多個屬性產生器。
//
// Reset(skip) 以 Stream(skip) 建立一條本地流，依序替每個子產生器抽出遞增的偏移
// （offset += 1 + floor(u*10)）後重置之；layout 再從同一條本地流接續派生自己的亂數流。
// 偏移只依賴 (seed, 註冊位置)，因此結果可完整重現，且各子流彼此錯開。
type Composite struct {
	Base
	children      []child
	log           *slog.Logger
	local         *core.Core
	offset        int
	afterChildren func()
}

// NewComposite 建立獨立使用的組合產生器；log 為 nil 時使用 slog.Default()。
func NewComposite(s Streams, log *slog.Logger) *Composite {
	c := &Composite{}
	c.init(s, log)
	return c
}

func (c *Composite) init(s Streams, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	c.streams = s
	c.log = log
	c.onReset = c.resetChildren
}

// Add 註冊子產生器；field 只作為名稱與診斷用途。
func (c *Composite) Add(field Field, g Generator) *Composite {
	c.children = append(c.children, child{field: field, gen: g})
	return c
}

// Children 依註冊順序回傳子產生器的名稱。
func (c *Composite) Children() []Field {
	out := make([]Field, len(c.children))
	for i, ch := range c.children {
		out[i] = ch.field
	}
	return out
}

func (c *Composite) resetChildren(skip int) {
	c.local = c.streams.Stream(skip)
	c.offset = 0
	for _, ch := range c.children {
		ch.gen.Reset(c.nextOffset())
	}
	if c.afterChildren != nil {
		c.afterChildren()
	}
}

func (c *Composite) nextOffset() int {
	c.offset += c.local.Offset(offsetSpread)
	return c.offset
}

// derive 接續偏移序列，派生一條 layout 專用的亂數流。
func (c *Composite) derive() *core.Core {
	return c.streams.Stream(c.nextOffset())
}

// compose 由骨架開始，依序合併每個子產生器的 Fragment。
// 非豁免欄位重複時只記錄 WARN，不中斷。
func (c *Composite) compose(cfg *Config) Figure {
	fig := Figure{
		Index: c.nextIndex(),
		Kind:  KindShape,
		Size:  geom.V(1, 1),
		Scale: 1,
	}
	present := skeletonFields
	for _, ch := range c.children {
		frag, _ := ch.gen.Next(cfg)
		if clash := frag.Fields & present &^ mergeExempt; clash != 0 {
			c.log.Warn("composite field collision",
				slog.String("child", ch.field.String()),
				slog.String("fields", clash.String()),
				slog.Int("index", fig.Index),
			)
		}
		frag.apply(&fig)
		present |= frag.Fields
	}
	return fig
}

func (c *Composite) Next(cfg *Config) (Fragment, bool) {
	return Fragment{Fields: FieldAll, Value: c.compose(cfg)}, true
}

func (c *Composite) Result(*Config) ([]Figure, error) { return nil, nil }
