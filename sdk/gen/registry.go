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
	"slices"

	"github.com/zintix-labs/patternlab/errs"
)

// Distribution 分佈方式
type Distribution string

const (
	DistRandom    Distribution = "random"
	DistGrid      Distribution = "grid"
	DistBlueNoise Distribution = "blue_noise"
)

var (
	ErrUnknownDistribution   = errs.NewWarn("unknown distribution")
	ErrDuplicateDistribution = errs.NewFatal("duplicate distribution builder")
)

// Builder 建立一個綁定 Streams 的 layout 產生器。
type Builder func(s Streams, log *slog.Logger) Generator

// Registry 保存分佈名稱到 Builder 的對應。
type Registry struct {
	builders map[Distribution]Builder
}

// NewRegistry 建立已登錄三種內建分佈的 Registry。
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	_ = r.Register(DistRandom, func(s Streams, l *slog.Logger) Generator { return NewRandom(s, l) })
	_ = r.Register(DistGrid, func(s Streams, l *slog.Logger) Generator { return NewGrid(s, l) })
	_ = r.Register(DistBlueNoise, func(s Streams, l *slog.Logger) Generator { return NewBlueNoise(s, l) })
	return r
}

func NewEmptyRegistry() *Registry {
	return &Registry{builders: make(map[Distribution]Builder, 8)}
}

func (r *Registry) Register(d Distribution, b Builder) error {
	if b == nil {
		return errs.NewFatal("nil distribution builder")
	}
	if _, ok := r.builders[d]; ok {
		return ErrDuplicateDistribution.With("distribution=%s", d)
	}
	r.builders[d] = b
	return nil
}

func (r *Registry) Build(d Distribution, s Streams, log *slog.Logger) (Generator, error) {
	b, ok := r.builders[d]
	if !ok {
		return nil, ErrUnknownDistribution.With("distribution=%q", d)
	}
	return b(s, log), nil
}

func (r *Registry) IsExist(d Distribution) bool {
	_, ok := r.builders[d]
	return ok
}

// Names 依字母序回傳已登錄的分佈。
func (r *Registry) Names() []Distribution {
	out := make([]Distribution, 0, len(r.builders))
	for d := range r.builders {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}
