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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/setting"
	"github.com/zintix-labs/patternlab/sharecode"
)

// MaxLayouts 單次統計請求允許的 layout 數上限
const MaxLayouts = 100_000

type PatternRequest struct {
	ID           uint            `json:"id,omitempty"`           // 目錄中的圖樣編號
	Name         string          `json:"name,omitempty"`         // 目錄中的圖樣名稱（與 id 擇一）
	Seed         *int64          `json:"seed,omitempty"`         // 覆寫種子
	Distribution string          `json:"distribution,omitempty"` // 覆寫分佈方式
	RNG          string          `json:"rng,omitempty"`          // 覆寫亂數演算法
	Amount       *int            `json:"amount,omitempty"`       // 覆寫數量
	Setting      json.RawMessage `json:"setting,omitempty"`      // 直接帶入完整設定（JSON）
	Share        string          `json:"share,omitempty"`        // 以分享碼帶入設定
	Layouts      int             `json:"layouts,omitempty"`      // 統計用：要產生幾張
}

// DecodePatternRequest 會把 HTTP 請求解碼成 PatternRequest。
//
// 支援：
//   - GET：從 query string 讀取參數（id/name/seed/distribution/rng/amount/share/layouts）。
//     完整設定（setting）只能用 POST 帶入。
//   - POST：從 JSON body 反序列化。
//
// 注意：
//   - 這裡只負責解碼與型別轉換；圖樣是否存在由上層決定。
//   - POST 會對 body 做大小限制（1MiB），並開啟 DisallowUnknownFields()。
func DecodePatternRequest(r *http.Request) (*PatternRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}

	req := new(PatternRequest)

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Name = q.Get("name")
		req.Distribution = q.Get("distribution")
		req.RNG = q.Get("rng")
		req.Share = q.Get("share")

		if s := q.Get("id"); s != "" {
			u, err := strconv.ParseUint(s, 10, 0)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid id: %v", err))
			}
			req.ID = uint(u)
		}

		if s := q.Get("seed"); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid seed: %v", err))
			}
			req.Seed = &v
		}

		if s := q.Get("amount"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid amount: %v", err))
			}
			req.Amount = &v
		}

		if s := q.Get("layouts"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid layouts: %v", err))
			}
			req.Layouts = v
		}

	case http.MethodPost:
		// 防止 body 過大（1MiB）
		const maxBody = 1 << 20
		body := io.LimitReader(r.Body, maxBody)
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(req); err != nil {
			return nil, errs.NewWarn("invalid json: " + err.Error())
		}

	default:
		return nil, errs.NewWarn("method not allowed")
	}

	if req.Layouts < 0 || req.Layouts > MaxLayouts {
		return nil, errs.NewWarn(fmt.Sprintf("layouts must be in [0,%d], got %d", MaxLayouts, req.Layouts))
	}
	if len(req.Setting) != 0 && req.Share != "" {
		return nil, errs.NewWarn("setting and share are mutually exclusive")
	}
	return req, nil
}

// HasInline 表示請求自帶設定，不需要查目錄。
func (pr *PatternRequest) HasInline() bool {
	return len(pr.Setting) != 0 || pr.Share != ""
}

// Inline 解出請求自帶的設定；沒有時回傳 nil, nil。
func (pr *PatternRequest) Inline() (*setting.PatternSetting, error) {
	switch {
	case len(pr.Setting) != 0:
		return setting.ByJSON(pr.Setting)
	case pr.Share != "":
		return sharecode.Decode(pr.Share)
	default:
		return nil, nil
	}
}

// Apply 把覆寫欄位套用到 ps 並重新檢查；ps 應為副本。
func (pr *PatternRequest) Apply(ps *setting.PatternSetting) error {
	changed := false
	if pr.Seed != nil {
		ps.SetSeed(*pr.Seed)
	}
	if d := strings.TrimSpace(pr.Distribution); d != "" {
		ps.DistributionStr = d
		changed = true
	}
	if rng := strings.TrimSpace(pr.RNG); rng != "" {
		ps.RNG = rng
		changed = true
	}
	if pr.Amount != nil {
		ps.Amount = *pr.Amount
		changed = true
	}
	if !changed {
		return nil
	}
	return ps.Reinit()
}
