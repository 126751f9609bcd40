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

// Package patternlab 提供圖樣產生引擎的「組裝入口（assembler）」與「運行入口（runtime entry）」。
//
// Patternlab 把兩個地基組裝在一起，並提供建立 Studio 的入口：
//  1. Catalog：圖樣目錄，定義有哪些預設圖樣、各自對應的設定檔名稱（ConfigName）。
//  2. gen.Registry：分佈方式註冊表，提供「如何依分佈名稱建出 layout 產生器」的 builders。
//
// 設定檔來源一律以 fs.FS 注入（go:embed 或 os.DirFS），Patternlab 不處理路徑。
//
// 典型使用情境：
//   - 後端服務（HTTP）：由 Patternlab 建立 Runtime，每個圖樣一個 StudioPool。
//   - 統計（sweep）：由 Patternlab 建立 Sweeper，大量產生 layout 並輸出報表。
//   - 單次產生（CLI）：NewStudio(...).Generate()。
package patternlab

import (
	"io/fs"
	"log/slog"

	"github.com/zintix-labs/patternlab/catalog"
	"github.com/zintix-labs/patternlab/dto"
	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/presets"
	"github.com/zintix-labs/patternlab/sdk/gen"
	"github.com/zintix-labs/patternlab/setting"
)

var ErrNotFrozen = errs.NewFatal("catalog is not frozen yet")

// Configs 用來把一或多個設定檔來源（fs.FS）打包成 New() 需要的參數。
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Patternlab 是組裝器與運行入口。
//
// 使用流程分成兩階段：
//   - 註冊階段：建立 catalog、登錄設定檔。
//   - 執行階段：Freeze 之後依圖樣 ID / 名稱建立 Studio、Sweeper 或 Runtime。
//
// runtime 開始後不再變更 Catalog / Registry。
//
//	lab, _ := patternlab.NewDefault()
//	st, _ := lab.NewStudioByName("scatter")
//	figs, _ := st.Generate()
type Patternlab struct {
	cat *catalog.Catalog
	reg *gen.Registry
	log *slog.Logger
	sum []catalog.Summary
}

// New 建立一個 Patternlab instance（註冊階段）。reg 為 nil 時使用內建三種分佈。
func New(reg *gen.Registry, cfgs []fs.FS) (*Patternlab, error) {
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	if reg == nil {
		reg = gen.NewRegistry()
	}
	cata, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	return &Patternlab{cat: cata, reg: reg, log: slog.Default()}, nil
}

// NewAuto 建立一個直接進入執行階段的 Patternlab instance。
func NewAuto(reg *gen.Registry, cfgs []fs.FS) (*Patternlab, error) {
	lab, err := New(reg, cfgs)
	if err != nil {
		return nil, err
	}
	if err := lab.RegisterAll(); err != nil {
		return nil, err
	}
	lab.Freeze()
	return lab, nil
}

// NewDefault 以內建預設集（presets）與內建分佈建立 Patternlab。
func NewDefault() (*Patternlab, error) {
	return NewAuto(nil, Configs(presets.FS))
}

// SetLogger 設定產生器與 Studio 使用的 logger；nil 不動作。
func (p *Patternlab) SetLogger(log *slog.Logger) {
	if log != nil {
		p.log = log
	}
}

func (p *Patternlab) Logger() *slog.Logger { return p.log }

func (p *Patternlab) Register(ents ...catalog.Entry) error {
	return p.cat.Register(ents...)
}

// RegisterAll 掃描全部設定檔來源並一次性登錄（fail-fast、原子性）。
func (p *Patternlab) RegisterAll() error {
	return p.cat.RegisterAll()
}

func (p *Patternlab) Freeze() {
	p.cat.Freeze()
}

func (p *Patternlab) EntryByID(id setting.PID) (catalog.Entry, bool) {
	return p.cat.GetByID(id)
}

func (p *Patternlab) EntryByName(name string) (catalog.Entry, bool) {
	return p.cat.GetByName(name)
}

func (p *Patternlab) IDs() []setting.PID {
	return p.cat.IDs()
}

func (p *Patternlab) All() []catalog.Entry {
	return p.cat.All()
}

// Distributions 列出已登錄的分佈方式。
func (p *Patternlab) Distributions() []gen.Distribution {
	return p.reg.Names()
}

func (p *Patternlab) Summary() ([]catalog.Summary, error) {
	if !p.cat.IsFrozen() {
		return nil, ErrNotFrozen
	}
	if p.sum != nil {
		return p.sum, nil
	}
	sum, err := p.cat.Summary()
	if err != nil {
		return nil, err
	}
	p.sum = sum
	return p.sum, nil
}

// SettingByID 回傳目錄中圖樣設定的新副本。
func (p *Patternlab) SettingByID(id setting.PID) (*setting.PatternSetting, error) {
	if !p.cat.IsFrozen() {
		return nil, ErrNotFrozen
	}
	return p.cat.SettingByID(id)
}

func (p *Patternlab) SettingByName(name string) (*setting.PatternSetting, error) {
	if !p.cat.IsFrozen() {
		return nil, ErrNotFrozen
	}
	return p.cat.SettingByName(name)
}

// Resolve 依請求取得設定：自帶設定優先，其次名稱，最後 id；再套用覆寫欄位。
func (p *Patternlab) Resolve(req *dto.PatternRequest) (*setting.PatternSetting, error) {
	if req == nil {
		return nil, errs.NewWarn("nil pattern request")
	}
	var (
		ps  *setting.PatternSetting
		err error
	)
	switch {
	case req.HasInline():
		ps, err = req.Inline()
	case req.Name != "":
		ps, err = p.SettingByName(req.Name)
	default:
		ps, err = p.SettingByID(setting.PID(req.ID))
	}
	if err != nil {
		return nil, err
	}
	if err := req.Apply(ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// NewStudio 依據目錄內的圖樣 ID 建立一個 Studio，種子取自設定檔。
func (p *Patternlab) NewStudio(id setting.PID) (*Studio, error) {
	ps, err := p.SettingByID(id)
	if err != nil {
		return nil, err
	}
	return newStudio(ps, p.reg, p.log)
}

func (p *Patternlab) NewStudioByName(name string) (*Studio, error) {
	ps, err := p.SettingByName(name)
	if err != nil {
		return nil, err
	}
	return newStudio(ps, p.reg, p.log)
}

// NewStudioWithSeed 與 NewStudio 相同，但由呼叫端指定種子。
func (p *Patternlab) NewStudioWithSeed(id setting.PID, seed int64) (*Studio, error) {
	ps, err := p.SettingByID(id)
	if err != nil {
		return nil, err
	}
	ps.SetSeed(seed)
	return newStudio(ps, p.reg, p.log)
}

// NewStudioBySetting 以外部設定（例如 HTTP 自帶、分享碼）建立 Studio；設定必須已 Init。
func (p *Patternlab) NewStudioBySetting(ps *setting.PatternSetting) (*Studio, error) {
	return newStudio(ps, p.reg, p.log)
}

// NewSweeper 建立統計用的 Sweeper。
func (p *Patternlab) NewSweeper(ps *setting.PatternSetting) (*Sweeper, error) {
	return newSweeper(ps, p.reg, p.log)
}

// NewRuntime 為目錄中的每個圖樣建立大小為 n 的 StudioPool。
func (p *Patternlab) NewRuntime(n int) (*Runtime, error) {
	if !p.cat.IsFrozen() {
		return nil, ErrNotFrozen
	}
	return newRuntime(p, n)
}
