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

// Package setting 定義圖樣設定檔（YAML / JSON / TOML）與其初始化、檢查，
// 並轉換為 gen.Config。
package setting

import (
	"strings"

	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/sdk/core"
	"github.com/zintix-labs/patternlab/sdk/gen"
	"github.com/zintix-labs/patternlab/sdk/geom"
	"github.com/zintix-labs/patternlab/sdk/poisson"
	"github.com/zintix-labs/patternlab/sdk/sampler"
)

// PID 圖樣設定的編號
type PID uint

// DefaultSeed 預設種子
const DefaultSeed int64 = 3010397292

var ErrUnknownDistribution = gen.ErrUnknownDistribution

// Extent 寬高設定
type Extent struct {
	Width  float64 `yaml:"width"  json:"width"  toml:"width"`
	Height float64 `yaml:"height" json:"height" toml:"height"`
}

func (e Extent) Vec() geom.Vec2 { return geom.V(e.Width, e.Height) }

func (e Extent) isZero() bool { return e.Width == 0 && e.Height == 0 }

// ScaleRandom 縮放範圍
type ScaleRandom struct {
	Min float64 `yaml:"min" json:"min" toml:"min"`
	Max float64 `yaml:"max" json:"max" toml:"max"`
}

// ShapeSetting 形狀登錄：id 與原生尺寸（尺寸可省略）
type ShapeSetting struct {
	ID     string  `yaml:"id"     json:"id"     toml:"id"`
	Width  float64 `yaml:"width"  json:"width"  toml:"width"`
	Height float64 `yaml:"height" json:"height" toml:"height"`
}

// BlueNoiseSetting poisson-disk 取樣參數
type BlueNoiseSetting struct {
	MinimalDistance float64 `yaml:"minimal_distance" json:"minimal_distance" toml:"minimal_distance"`
	Retries         int     `yaml:"retries"          json:"retries"          toml:"retries"`
}

// DebugSetting 只是隨輸出帶出的顯示旗標，產生器本身不使用。
type DebugSetting struct {
	ShowIDs       bool `yaml:"show_ids"       json:"show_ids"       toml:"show_ids"`
	ShowPositions bool `yaml:"show_positions" json:"show_positions" toml:"show_positions"`
	ShowBounding  bool `yaml:"show_bounding"  json:"show_bounding"  toml:"show_bounding"`
}

// PatternSetting 一份圖樣設定檔
type PatternSetting struct {
	ID              PID              `yaml:"id"              json:"id"              toml:"id"`
	Name            string           `yaml:"name"            json:"name"            toml:"name"`
	Canvas          Extent           `yaml:"canvas"          json:"canvas"          toml:"canvas"`
	Amount          int              `yaml:"amount"          json:"amount"          toml:"amount"`
	BaseHeight      float64          `yaml:"base_height"     json:"base_height"     toml:"base_height"`
	ScaleRandom     ScaleRandom      `yaml:"scale_random"    json:"scale_random"    toml:"scale_random"`
	BaseRotation    float64          `yaml:"base_rotation"   json:"base_rotation"   toml:"base_rotation"`
	RotationRandom  float64          `yaml:"rotation_random" json:"rotation_random" toml:"rotation_random"`
	Ratio           Ratio            `yaml:"ratio"           json:"ratio"           toml:"ratio"`
	Shapes          []ShapeSetting   `yaml:"shapes"          json:"shapes"          toml:"shapes"`
	Colors          []string         `yaml:"colors"          json:"colors"          toml:"colors"`
	ColorWeights    []int            `yaml:"color_weights"   json:"color_weights"   toml:"color_weights"`
	DistributionStr string           `yaml:"distribution"    json:"distribution"    toml:"distribution"`
	ShapePickStr    string           `yaml:"shape_pick"      json:"shape_pick"      toml:"shape_pick"`
	Grid            Extent           `yaml:"grid"            json:"grid"            toml:"grid"`
	BlueNoise       BlueNoiseSetting `yaml:"blue_noise"      json:"blue_noise"      toml:"blue_noise"`
	Seed            *int64           `yaml:"seed"            json:"seed"            toml:"seed"`
	RNG             string           `yaml:"rng"             json:"rng"             toml:"rng"`
	Debug           DebugSetting     `yaml:"debug"           json:"debug"           toml:"debug"`

	Distribution gen.Distribution      `yaml:"-" json:"-" toml:"-"`
	ShapePick    sampler.CandidateMode `yaml:"-" json:"-" toml:"-"`
	Factory      core.PRNGFactory      `yaml:"-" json:"-" toml:"-"`
	initFlag     bool
}

// Default 回傳預設圖樣設定（800×500、250 個、五種形狀各 20%）。
func Default() *PatternSetting {
	seed := DefaultSeed
	ps := &PatternSetting{
		Name:            "default",
		Canvas:          Extent{Width: 800, Height: 500},
		Amount:          250,
		BaseHeight:      30,
		ScaleRandom:     ScaleRandom{Min: 0.25, Max: 2},
		Ratio:           Ratio{20, 20, 20, 20, 20},
		DistributionStr: string(gen.DistRandom),
		Grid:            Extent{Width: 100, Height: 100},
		BlueNoise:       BlueNoiseSetting{MinimalDistance: 40, Retries: poisson.DefaultRetries},
		Seed:            &seed,
	}
	return ps
}

// Init 補上省略的預設值、解析字串欄位並執行基本檢查；重複呼叫不會重做。
func (ps *PatternSetting) Init() error {
	if ps.initFlag {
		return nil
	}
	ps.applyDefaults()

	// 1. distribution
	d := gen.Distribution(strings.ToLower(strings.TrimSpace(ps.DistributionStr)))
	if d == "" {
		d = gen.DistRandom
	}
	switch d {
	case gen.DistRandom, gen.DistGrid, gen.DistBlueNoise:
	default:
		return ErrUnknownDistribution.With("name=%s distribution=%q", ps.Name, ps.DistributionStr)
	}
	ps.Distribution = d

	// 2. shape pick
	m, err := sampler.ParseCandidateMode(strings.ToLower(strings.TrimSpace(ps.ShapePickStr)))
	if err != nil {
		return err
	}
	ps.ShapePick = m

	// 3. rng
	f, err := core.FactoryByName(strings.ToLower(strings.TrimSpace(ps.RNG)))
	if err != nil {
		return err
	}
	ps.Factory = f

	if err := ps.valid(); err != nil {
		return err
	}
	ps.initFlag = true
	return nil
}

// applyDefaults 只補「整個區塊被省略」的情況；寫錯的值留給 valid 報錯。
func (ps *PatternSetting) applyDefaults() {
	def := Default()
	if ps.Canvas.isZero() {
		ps.Canvas = def.Canvas
	}
	if ps.ScaleRandom == (ScaleRandom{}) {
		ps.ScaleRandom = def.ScaleRandom
	}
	if ps.Grid.isZero() {
		ps.Grid = def.Grid
	}
	if ps.BlueNoise.MinimalDistance == 0 {
		ps.BlueNoise.MinimalDistance = def.BlueNoise.MinimalDistance
	}
	if ps.BlueNoise.Retries == 0 {
		ps.BlueNoise.Retries = def.BlueNoise.Retries
	}
	if ps.Seed == nil {
		ps.Seed = def.Seed
	}
	// 沒寫比例時平均分配
	if len(ps.Ratio) == 0 && len(ps.Shapes) > 0 {
		ps.Ratio = make(Ratio, len(ps.Shapes))
		for i := range ps.Ratio {
			ps.Ratio[i] = 100 / len(ps.Shapes)
		}
	}
	ps.Ratio = ps.Ratio.Normalize(len(ps.Shapes))
}

func (ps *PatternSetting) valid() error {
	seen := make(map[string]struct{}, len(ps.Shapes))
	for i, s := range ps.Shapes {
		if strings.TrimSpace(s.ID) == "" {
			return gen.ErrInvalidShape.With("name=%s shapes[%d] missing id", ps.Name, i)
		}
		if _, ok := seen[s.ID]; ok {
			return gen.ErrInvalidShape.With("name=%s duplicate shape id %q", ps.Name, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	if err := ps.Config().Validate(ps.Distribution); err != nil {
		return errs.Wrap(err, "pattern "+ps.Name)
	}
	return nil
}

// SeedValue 回傳設定的種子（未設定時為 DefaultSeed）。
func (ps *PatternSetting) SeedValue() int64 {
	if ps.Seed == nil {
		return DefaultSeed
	}
	return *ps.Seed
}

// SetSeed 覆寫種子。
func (ps *PatternSetting) SetSeed(v int64) { ps.Seed = &v }

// Config 轉換為產生器使用的 gen.Config（每次回傳新的副本）。
func (ps *PatternSetting) Config() *gen.Config {
	cfg := &gen.Config{
		Canvas:         ps.Canvas.Vec(),
		Amount:         ps.Amount,
		BaseHeight:     ps.BaseHeight,
		ScaleMin:       ps.ScaleRandom.Min,
		ScaleMax:       ps.ScaleRandom.Max,
		BaseRotation:   ps.BaseRotation,
		RotationRandom: ps.RotationRandom,
		Ratio:          append([]int(nil), ps.Ratio...),
		Colors:         append([]string(nil), ps.Colors...),
		ColorWeights:   append([]int(nil), ps.ColorWeights...),
		GridCell:       ps.Grid.Vec(),
		MinDistance:    ps.BlueNoise.MinimalDistance,
		Retries:        ps.BlueNoise.Retries,
		ShapePick:      ps.ShapePick,
	}
	cfg.Shapes = make([]gen.Shape, len(ps.Shapes))
	for i, s := range ps.Shapes {
		cfg.Shapes[i] = gen.Shape{ID: s.ID, Width: s.Width, Height: s.Height}
	}
	return cfg
}

// Clone 深拷貝；用於在不影響目錄中原始設定的情況下套用覆寫。
func (ps *PatternSetting) Clone() *PatternSetting {
	c := *ps
	c.Ratio = append(Ratio(nil), ps.Ratio...)
	c.Shapes = append([]ShapeSetting(nil), ps.Shapes...)
	c.Colors = append([]string(nil), ps.Colors...)
	c.ColorWeights = append([]int(nil), ps.ColorWeights...)
	if ps.Seed != nil {
		v := *ps.Seed
		c.Seed = &v
	}
	return &c
}

// Reinit 在覆寫欄位後重新解析與檢查。
func (ps *PatternSetting) Reinit() error {
	ps.initFlag = false
	return ps.Init()
}
