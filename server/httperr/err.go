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

// Package httperr 把 errs 的分級錯誤映射到 HTTP 狀態碼與 JSON 錯誤回應。
package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/patternlab/catalog"
	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/server/netsvr/middleware"
)

// Body 錯誤回應內容
type Body struct {
	Error     string `json:"error"`
	Level     string `json:"level"`
	RequestID string `json:"request_id,omitempty"`
}

// StatusCode 將錯誤映射成 HTTP status code：
//   - ctx timeout/cancel → 504/408
//   - 圖樣不存在        → 404
//   - errs.Warn         → 400
//   - 其他（含 Fatal）  → 500
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	}
	if errs.LevelOf(err) == errs.Warn {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Write 以 JSON 寫回錯誤；err 為 nil 時不動作。
func Write(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}
	status := StatusCode(err)
	body := Body{Error: err.Error(), Level: errs.ErrLv(errs.LevelOf(err))}
	if r != nil {
		body.RequestID = middleware.GetReqID(r)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Log 只記錄值得關注的錯誤：5xx 為 error，逾時/取消為 warn，其餘 4xx 不記。
func Log(log *slog.Logger, msg string, err error) {
	if err == nil || log == nil {
		return
	}
	switch status := StatusCode(err); {
	case status >= 500:
		log.Error(msg, slog.Int("status", status), slog.Any("err", err))
	case status == http.StatusRequestTimeout:
		log.Warn(msg, slog.Int("status", status), slog.Any("err", err))
	}
}
