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

package dto

import (
	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/sdk/gen"
	"github.com/zintix-labs/patternlab/setting"
)

// PatternResult 為對外輸出的一張圖樣。
type PatternResult struct {
	ID           uint         `json:"id"`              // 圖樣設定編號
	Name         string       `json:"name"`            // 圖樣名稱
	Seed         int64        `json:"seed"`            // 本次使用的種子
	Distribution string       `json:"distribution"`    // 分佈方式
	RNG          string       `json:"rng"`             // 亂數演算法
	Canvas       CanvasDTO    `json:"canvas"`          // 畫布
	Count        int          `json:"count"`           // 圖形數量
	Figures      []FigureDTO  `json:"figures"`         // 圖形列表
	Usage        []ShapeUsage `json:"usage,omitempty"` // 形狀配額使用量（random / blue noise）
	Debug        *DebugDTO    `json:"debug,omitempty"` // 顯示旗標，有任何一個開啟時才輸出
	Share        string       `json:"share,omitempty"` // 可重現本圖樣的分享碼
}

type CanvasDTO struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FigureDTO 一個圖形；rotation 為弧度，dot 沒有 rotation 與 shape。
type FigureDTO struct {
	Index    int      `json:"index"`
	Kind     string   `json:"kind"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	W        float64  `json:"w"`
	H        float64  `json:"h"`
	Scale    float64  `json:"scale"`
	Color    string   `json:"color,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	Shape    string   `json:"shape,omitempty"`
}

type ShapeUsage struct {
	Shape string `json:"shape"`
	Used  int    `json:"used"`
	Quota int    `json:"quota"`
}

type DebugDTO struct {
	ShowIDs       bool `json:"show_ids"`
	ShowPositions bool `json:"show_positions"`
	ShowBounding  bool `json:"show_bounding"`
}

// NewPatternResult 把產生結果轉為 DTO；任何不完整的 shape 圖形都會被拒絕。
func NewPatternResult(ps *setting.PatternSetting, seed int64, figs []gen.Figure) (PatternResult, error) {
	if ps == nil {
		return PatternResult{}, errs.NewWarn("pattern setting is nil")
	}
	pr := PatternResult{
		ID:           uint(ps.ID),
		Name:         ps.Name,
		Seed:         seed,
		Distribution: string(ps.Distribution),
		Canvas:       CanvasDTO{Width: ps.Canvas.Width, Height: ps.Canvas.Height},
		Count:        len(figs),
		Figures:      make([]FigureDTO, len(figs)),
	}
	if ps.Factory != nil {
		pr.RNG = ps.Factory.Name()
	}
	for i := range figs {
		f := &figs[i]
		if err := f.Valid(); err != nil {
			return PatternResult{}, err
		}
		pr.Figures[i] = FigureDTO{
			Index:    f.Index,
			Kind:     f.Kind.String(),
			X:        f.Position.X,
			Y:        f.Position.Y,
			W:        f.Size.X,
			H:        f.Size.Y,
			Scale:    f.Scale,
			Color:    f.Color,
			Rotation: f.Rotation,
			Shape:    f.Shape,
		}
	}
	if d := ps.Debug; d.ShowIDs || d.ShowPositions || d.ShowBounding {
		pr.Debug = &DebugDTO{ShowIDs: d.ShowIDs, ShowPositions: d.ShowPositions, ShowBounding: d.ShowBounding}
	}
	return pr, nil
}

// SetUsage 帶入形狀配額使用量；ids / usage / quota 以索引對應。
func (pr *PatternResult) SetUsage(ids []string, usage, quota []int) {
	if len(usage) == 0 {
		pr.Usage = nil
		return
	}
	pr.Usage = make([]ShapeUsage, len(ids))
	for i, id := range ids {
		pr.Usage[i].Shape = id
		if i < len(usage) {
			pr.Usage[i].Used = usage[i]
		}
		if i < len(quota) {
			pr.Usage[i].Quota = quota[i]
		}
	}
}
