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

// Package v1 圖樣服務的 v1 HTTP handlers。
package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/zintix-labs/patternlab"
	"github.com/zintix-labs/patternlab/dto"
	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/server/httperr"
	"github.com/zintix-labs/patternlab/sharecode"
	"github.com/zintix-labs/patternlab/stats"
)

// DefaultLayouts /v1/stat 未指定 layouts 時產生的張數
const DefaultLayouts = 1000

// Options Handler 的執行參數
type Options struct {
	RequestTimeout time.Duration
	SweepTimeout   time.Duration
	SweepWorkers   int
}

type Handler struct {
	lab *patternlab.Patternlab
	rt  *patternlab.Runtime
	log *slog.Logger
	opt Options
}

func NewHandler(lab *patternlab.Patternlab, rt *patternlab.Runtime, log *slog.Logger, opt Options) (*Handler, error) {
	if lab == nil || rt == nil {
		return nil, errs.NewFatal("patternlab and runtime are required")
	}
	if log == nil {
		log = slog.Default()
	}
	opt.SweepWorkers = max(1, opt.SweepWorkers)
	if opt.RequestTimeout <= 0 {
		opt.RequestTimeout = 5 * time.Second
	}
	if opt.SweepTimeout <= 0 {
		opt.SweepTimeout = 30 * time.Second
	}
	return &Handler{lab: lab, rt: rt, log: log, opt: opt}, nil
}

// Patterns GET /v1/patterns：目錄摘要
func (h *Handler) Patterns(w http.ResponseWriter, r *http.Request) {
	sum, err := h.lab.Summary()
	if err != nil {
		h.fail(w, r, "list patterns failed", err)
		return
	}
	writeJSON(w, r, sum)
}

// Pattern GET|POST /v1/pattern：產生一張圖樣
func (h *Handler) Pattern(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodePatternRequest(r)
	if err != nil {
		h.fail(w, r, "decode pattern request failed", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.opt.RequestTimeout)
	defer cancel()

	res, err := h.rt.Generate(ctx, req)
	if err != nil {
		h.fail(w, r, "generate failed", ctxErr(ctx, err))
		return
	}
	writeJSON(w, r, res)
}

// StatResponse /v1/stat 的 JSON 回應
type StatResponse struct {
	Stats    *stats.LayoutReport `json:"stats"`
	Layouts  int                 `json:"layouts"`
	BaseSeed int64               `json:"base_seed"`
	UsedMS   int64               `json:"used_ms"`
}

// Stat GET|POST /v1/stat：以同一設定產生多張 layout 並回傳統計。
// query 的 format=yaml|table 可改變輸出格式，預設 json。
func (h *Handler) Stat(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	req, err := dto.DecodePatternRequest(r)
	if err != nil {
		h.fail(w, r, "decode stat request failed", err)
		return
	}
	ps, err := h.lab.Resolve(req)
	if err != nil {
		h.fail(w, r, "resolve pattern failed", err)
		return
	}
	sw, err := h.lab.NewSweeper(ps)
	if err != nil {
		h.fail(w, r, "build sweeper failed", err)
		return
	}
	layouts := req.Layouts
	if layouts == 0 {
		layouts = DefaultLayouts
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.opt.SweepTimeout)
	defer cancel()
	rep, used, err := sw.Sweep(ctx, patternlab.SweepOptions{
		Layouts: layouts,
		Workers: h.opt.SweepWorkers,
	})
	if err != nil {
		h.fail(w, r, "sweep failed", ctxErr(ctx, err))
		return
	}

	switch format {
	case "yaml", "yml", "table":
		var buf bytes.Buffer
		if err := rep.WriteWith(&buf, stats.RenderByName(format)); err != nil {
			h.fail(w, r, "render stat failed", err)
			return
		}
		if format == "table" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		} else {
			w.Header().Set("Content-Type", "application/yaml")
		}
		_, _ = w.Write(buf.Bytes())
	default:
		rep.Done()
		writeJSON(w, r, StatResponse{
			Stats:    rep,
			Layouts:  layouts,
			BaseSeed: sw.BaseSeed(),
			UsedMS:   used.Milliseconds(),
		})
	}
}

// Share GET /v1/share?code=...：解開分享碼，回傳完整設定
func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		h.fail(w, r, "decode share failed", errs.NewWarn("code is required"))
		return
	}
	ps, err := sharecode.Decode(code)
	if err != nil {
		h.fail(w, r, "decode share failed", err)
		return
	}
	writeJSON(w, r, ps)
}

// Metrics GET /v1/metrics：每個圖樣池的觀測快照
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.rt.Metrics())
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	httperr.Log(h.log, msg, err)
	httperr.Write(w, r, err)
}

// ctxErr 逾時或取消時改回傳 ctx 的錯誤，讓狀態碼對應到 504/408。
func ctxErr(ctx context.Context, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return errs.Wrap(cerr, err.Error())
	}
	return err
}

// writeJSON 先編碼到 buffer，確保不會寫到一半才失敗。
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		httperr.Write(w, r, errs.Wrap(err, "encode response failed"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}
