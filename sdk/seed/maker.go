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

package seed

import (
	"crypto/rand"
	"encoding/binary"
	"sync/atomic"
)

const (
	mask63 = (uint64(1) << 63) - 1
	mask32 = (uint64(1) << 32) - 1
)

// NewRandomSeed 以加密亂數產生 32-bit 種子（與 splitmix32 的有效位數一致）。
func NewRandomSeed() int64 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand 在支援的平台上不會失敗
		panic(err)
	}
	return int64(binary.BigEndian.Uint32(b[:]))
}

// Maker 由一個基準種子派生出不重複的子種子序列，供併發 sweep 使用。
type Maker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func NewMaker(base int64) *Maker {
	m := &Maker{}
	m.state.Store(uint64(base) & mask63)
	return m
}

// Next 可被多個 goroutine 同時呼叫：state 以 CAS 推進 full-period LCG，
// 再經可逆 mix63 打散，最後截為 32 bit。
func (m *Maker) Next() int64 {
	for {
		old := m.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63
		if m.state.CompareAndSwap(old, next) {
			return int64(mix63(next) & mask32)
		}
	}
}

// mix63 只用可逆的 bit 操作與乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
