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

// Package seed 管理圖樣產生的種子狀態：目前種子、作用中的產生器，以及由種子派生的亂數流。
package seed

import (
	"github.com/zintix-labs/patternlab/sdk/core"
)

// Resetter 為可被種子變更重置的對象（通常是作用中的 layout 產生器）。
type Resetter interface {
	Reset(skip int)
}

// Observer 在種子實際變更後被同步呼叫。
type Observer func(seed int64)

// Registry 是顯式傳遞的種子上下文（非全域），每個 Studio / 測試各持有一份。
//
// 不做併發保護；由持有者（Studio）負責加鎖。
type Registry struct {
	seed      int64
	factory   core.PRNGFactory
	active    Resetter
	observers []Observer
}

// New 建立 Registry；factory 為 nil 時使用 core.Default()。
func New(seed int64, factory core.PRNGFactory) *Registry {
	if factory == nil {
		factory = core.Default()
	}
	return &Registry{seed: seed, factory: factory}
}

func (r *Registry) Seed() int64 { return r.seed }

func (r *Registry) Factory() core.PRNGFactory { return r.factory }

// SetSeed 設定種子。值未變時不做任何事（不重置、不通知）並回傳 false；
// 否則先重置作用中的產生器，再依註冊順序通知觀察者。
func (r *Registry) SetSeed(v int64) bool {
	if v == r.seed {
		return false
	}
	r.seed = v
	r.ResetActive()
	for _, fn := range r.observers {
		fn(v)
	}
	return true
}

// SetFactory 切換亂數演算法，等同換了一條序列，因此同樣重置作用中的產生器。
func (r *Registry) SetFactory(f core.PRNGFactory) {
	if f == nil {
		return
	}
	r.factory = f
	r.ResetActive()
}

// SetActive 替換作用中的產生器並立即重置。
func (r *Registry) SetActive(g Resetter) {
	r.active = g
	r.ResetActive()
}

func (r *Registry) Active() Resetter { return r.active }

// ResetActive 以 skip = 0 重置作用中的產生器；沒有作用中的產生器時不動作。
func (r *Registry) ResetActive() {
	if r.active != nil {
		r.active.Reset(0)
	}
}

// OnSeedChange 註冊種子變更觀察者。
func (r *Registry) OnSeedChange(fn Observer) {
	if fn != nil {
		r.observers = append(r.observers, fn)
	}
}

// Stream 由目前種子建立全新的亂數流，並預先前進 skip 次。
// 每次呼叫都互相獨立，不影響 Registry 本身。
func (r *Registry) Stream(skip int) *core.Core {
	return core.New(r.factory.New(r.seed)).Skip(skip)
}
