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

package api

import (
	"log/slog"
	"net/http"

	v1 "github.com/zintix-labs/patternlab/server/api/v1"
	"github.com/zintix-labs/patternlab/server/netsvr"
	"github.com/zintix-labs/patternlab/server/netsvr/middleware"
)

// RegisterRoutes 註冊 middleware、主頁與 v1 api。
func RegisterRoutes(svr netsvr.NetRouter, log *slog.Logger, h *v1.Handler) {
	registerMiddleware(svr, log)
	svr.Get("/", index)
	registerV1API(svr, h)
}

// 順序：request id → access log → recover → 壓縮
func registerMiddleware(svr netsvr.NetRouter, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover(log))
	svr.Use(middleware.Compression)
}

func registerV1API(svr netsvr.NetRouter, h *v1.Handler) {
	svr.Group("/v1", func(r netsvr.NetRouter) {
		r.Get("/patterns", h.Patterns)
		r.Get("/pattern", h.Pattern)
		r.Post("/pattern", h.Pattern)
		r.Get("/stat", h.Stat)
		r.Post("/stat", h.Stat)
		r.Get("/share", h.Share)
		r.Get("/metrics", h.Metrics)
	})
}

const indexText = `patternlab

GET  /v1/patterns
GET  /v1/pattern?id=1&seed=42
POST /v1/pattern   {"name":"scatter","seed":42}
GET  /v1/stat?name=scatter&layouts=1000&format=table
POST /v1/stat      {"setting":{...},"layouts":1000}
GET  /v1/share?code=pl1.xxx
GET  /v1/metrics
`

func index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(indexText))
}
