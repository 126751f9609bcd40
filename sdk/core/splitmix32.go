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
	"encoding/binary"

	"github.com/zintix-labs/patternlab/errs"
)

const splitmix32FloatUnit = 1.0 / (1 << 32)

// SplitMix32 為 32-bit 狀態的 splitmix 產生器。
// 與瀏覽器版本的輸出逐位元一致：seed 截為低 32 bit 後作為初始狀態。
type SplitMix32 struct {
	state uint32
}

func NewSplitMix32(seed int64) *SplitMix32 {
	return &SplitMix32{state: uint32(seed)}
}

func (r *SplitMix32) Uint32() uint32 {
	r.state += 0x9e3779b9
	t := r.state ^ (r.state >> 16)
	t *= 0x21f0aaad
	t ^= t >> 15
	t *= 0x735a2d97
	t ^= t >> 15
	return t
}

// Float64 回傳 [0,1) 的浮點亂數（32-bit 精度）。
func (r *SplitMix32) Float64() float64 {
	return float64(r.Uint32()) * splitmix32FloatUnit
}

func (r *SplitMix32) Snapshot() ([]byte, error) {
	return binary.BigEndian.AppendUint32(make([]byte, 0, 4), r.state), nil
}

func (r *SplitMix32) Restore(data []byte) error {
	if len(data) != 4 {
		return errs.Warnf("splitmix32: snapshot must be 4 bytes, got %d", len(data))
	}
	r.state = binary.BigEndian.Uint32(data)
	return nil
}
