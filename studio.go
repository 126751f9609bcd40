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

package patternlab

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/zintix-labs/patternlab/dto"
	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/sdk/core"
	"github.com/zintix-labs/patternlab/sdk/gen"
	"github.com/zintix-labs/patternlab/sdk/geom"
	"github.com/zintix-labs/patternlab/sdk/seed"
	"github.com/zintix-labs/patternlab/setting"
	"github.com/zintix-labs/patternlab/sharecode"
)

// Studio 封裝一份圖樣設定與其作用中的 layout 產生器。
//
// Studio 是對外提供 Generate 的最小單位：
//   - 對外：Generate / GenerateDTO，以及切換種子、分佈方式與亂數演算法。
//   - 對內：持有 seed.Registry（種子上下文）與作用中的產生器；每次 Generate 都從目前種子重新派生。
//
// 並發語意：所有公開方法都以 mu 保護，同一個 Studio 可以被多個 goroutine 共用，但會被序列化。
// 要真正平行產生，請用 StudioPool 或 Sweeper（每個 worker 一個 Studio）。
type Studio struct {
	name     string                  // 圖樣名稱（觀測/日誌）
	id       setting.PID             // 圖樣 ID
	ps       *setting.PatternSetting // 私有副本，與種子/分佈/演算法同步
	cfg      *gen.Config             // 由 ps 轉換，產生器只讀
	reg      *gen.Registry           // 分佈 builders
	seeds    *seed.Registry          // 種子上下文（非全域）
	g        gen.Generator           // 作用中的 layout 產生器
	log      *slog.Logger            //
	initSeed int64                   // 出生種子（便於追溯）
	mu       sync.Mutex
}

// usageReporter 由 random / blue noise 實作。
type usageReporter interface {
	Usage() (usage, quota []int)
}

func newStudio(ps *setting.PatternSetting, reg *gen.Registry, log *slog.Logger) (*Studio, error) {
	if ps == nil {
		return nil, errs.NewWarn("pattern setting is nil")
	}
	if err := ps.Init(); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = gen.NewRegistry()
	}
	if log == nil {
		log = slog.Default()
	}
	ps = ps.Clone()
	s := &Studio{
		name:     ps.Name,
		id:       ps.ID,
		ps:       ps,
		cfg:      ps.Config(),
		reg:      reg,
		log:      log,
		initSeed: ps.SeedValue(),
	}
	s.seeds = seed.New(ps.SeedValue(), ps.Factory)
	s.seeds.OnSeedChange(func(v int64) {
		s.ps.SetSeed(v)
		s.log.Debug("seed changed", slog.String("pattern", s.name), slog.Int64("seed", v))
	})
	if err := s.build(ps.Distribution); err != nil {
		return nil, err
	}
	return s, nil
}

// build 以目前種子建立指定分佈的產生器並設為作用中（SetActive 會立即重置）。
func (s *Studio) build(d gen.Distribution) error {
	if err := s.cfg.Validate(d); err != nil {
		return err
	}
	g, err := s.reg.Build(d, s.seeds, s.log)
	if err != nil {
		return err
	}
	s.g = g
	s.seeds.SetActive(g)
	return nil
}

// Generate 從目前種子重新產生一整批 Figure；同種子同設定必得相同輸出。
func (s *Studio) Generate() ([]gen.Figure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generate()
}

func (s *Studio) generate() ([]gen.Figure, error) {
	s.seeds.ResetActive()
	return s.g.Result(s.cfg)
}

// GenerateDTO 產生並轉為對外輸出的 DTO（含配額使用量與可重現本圖樣的分享碼）。
func (s *Studio) GenerateDTO() (dto.PatternResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	figs, err := s.generate()
	if err != nil {
		return dto.PatternResult{}, err
	}
	pr, err := dto.NewPatternResult(s.ps, s.seeds.Seed(), figs)
	if err != nil {
		return dto.PatternResult{}, err
	}
	if u, ok := s.g.(usageReporter); ok {
		usage, quota := u.Usage()
		pr.SetUsage(s.shapeIDs(), usage, quota)
	}
	code, err := sharecode.Encode(s.ps)
	if err != nil {
		return dto.PatternResult{}, err
	}
	pr.Share = code
	return pr, nil
}

// Seed 回傳目前種子。
func (s *Studio) Seed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seeds.Seed()
}

func (s *Studio) InitSeed() int64 { return s.initSeed }

// SetSeed 切換種子；值相同時不做任何事並回傳 false。
func (s *Studio) SetSeed(v int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seeds.SetSeed(v)
}

// RandomSeed 以加密亂數產生新的 32-bit 種子並套用，回傳新種子。
func (s *Studio) RandomSeed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := seed.NewRandomSeed()
	s.seeds.SetSeed(v)
	return v
}

// SetDistribution 切換分佈方式並以目前種子重建產生器。
func (s *Studio) SetDistribution(d gen.Distribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d = gen.Distribution(strings.ToLower(strings.TrimSpace(string(d))))
	if !s.reg.IsExist(d) {
		return gen.ErrUnknownDistribution.With("distribution=%q", d)
	}
	if err := s.build(d); err != nil {
		return err
	}
	s.ps.DistributionStr = string(d)
	s.ps.Distribution = d
	return nil
}

// SetRNG 切換亂數演算法（等同換一條序列，會重置產生器）。
func (s *Studio) SetRNG(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := core.FactoryByName(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return err
	}
	s.seeds.SetFactory(f)
	s.ps.RNG = f.Name()
	s.ps.Factory = f
	return nil
}

func (s *Studio) Name() string { return s.name }

func (s *Studio) ID() setting.PID { return s.id }

func (s *Studio) Distribution() gen.Distribution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ps.Distribution
}

// Setting 回傳目前設定的副本（種子、分佈、演算法皆為目前值）。
func (s *Studio) Setting() *setting.PatternSetting {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ps.Clone()
}

// Points 回傳 blue noise 最近一次取樣的點；其他分佈回傳 nil。
func (s *Studio) Points() []geom.Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.g.(*gen.BlueNoise); ok {
		return append([]geom.Vec2(nil), b.Points()...)
	}
	return nil
}

func (s *Studio) shapeIDs() []string {
	ids := make([]string, len(s.cfg.Shapes))
	for i, sh := range s.cfg.Shapes {
		ids[i] = sh.ID
	}
	return ids
}
