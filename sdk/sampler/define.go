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

// Package sampler 提供加權抽樣工具：LUT、Alias Table 與配額（quota）選擇器。
package sampler

import "github.com/zintix-labs/patternlab/errs"

type Integers interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// CandidateMode 決定配額選擇器如何抽出第一個候選。
type CandidateMode uint8

const (
	// Uniform : floor(u*n)，不看權重。
	Uniform CandidateMode = iota
	// Cumulative : 依累積權重抽樣。
	Cumulative
)

var ErrCandidateMode = errs.NewWarn("unknown shape pick mode")

var candidateModeNames = map[string]CandidateMode{
	"":           Uniform,
	"uniform":    Uniform,
	"cumulative": Cumulative,
}

func (m CandidateMode) String() string {
	if m == Cumulative {
		return "cumulative"
	}
	return "uniform"
}

func ParseCandidateMode(s string) (CandidateMode, error) {
	m, ok := candidateModeNames[s]
	if !ok {
		return Uniform, ErrCandidateMode.With("shape_pick=%q", s)
	}
	return m, nil
}
