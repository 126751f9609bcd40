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

// Package sharecode 把一份圖樣設定壓成可放進 URL 的短字串，並能還原回設定。
//
//	code := "pl1." + base64url(zstd(json(setting)))
//
// 設定（含種子）本身就能完整重現圖樣，因此分享設定等同分享圖樣。
package sharecode

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/setting"
)

// Prefix 版本前綴；格式有不相容的變更時遞增。
const Prefix = "pl1."

// MaxDecoded 解壓後 JSON 的上限，避免不受信任的輸入造成大量配置。
const MaxDecoded = 1 << 20

var (
	ErrBadPrefix = errs.NewWarn("share code: unknown version prefix")
	ErrBadCode   = errs.NewWarn("share code: malformed payload")
	ErrTooLarge  = errs.NewWarn("share code: payload exceeds limit")
)

// Encode 將設定編碼為分享碼。
func Encode(ps *setting.PatternSetting) (string, error) {
	if ps == nil {
		return "", errs.NewWarn("share code: nil setting")
	}
	raw, err := json.Marshal(ps)
	if err != nil {
		return "", errs.Wrap(err, "share code: marshal setting json")
	}

	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return "", errs.Wrap(err, "share code: create zstd writer")
	}
	if _, err := zw.Write(raw); err != nil {
		_ = zw.Close()
		return "", errs.Wrap(err, "share code: write zstd")
	}
	if err := zw.Close(); err != nil {
		return "", errs.Wrap(err, "share code: close zstd writer")
	}
	return Prefix + EncodeBase64URL(buf.Bytes()), nil
}

// Decode 還原分享碼並執行與設定檔相同的嚴格解碼與檢查。
func Decode(code string) (*setting.PatternSetting, error) {
	code = strings.TrimSpace(code)
	body, ok := strings.CutPrefix(code, Prefix)
	if !ok {
		return nil, ErrBadPrefix.With("code=%.8q", code)
	}
	compressed, err := DecodeBase64URL(body)
	if err != nil {
		return nil, errs.Wrap(ErrBadCode, err.Error())
	}

	zr, err := zstd.NewReader(bytes.NewReader(compressed), zstd.WithDecoderMaxMemory(MaxDecoded))
	if err != nil {
		return nil, errs.Wrap(err, "share code: create zstd reader")
	}
	defer zr.Close()

	raw, err := io.ReadAll(io.LimitReader(zr, MaxDecoded+1))
	if err != nil {
		return nil, errs.Wrap(ErrBadCode, err.Error())
	}
	if len(raw) > MaxDecoded {
		return nil, ErrTooLarge.With("limit=%d", MaxDecoded)
	}
	return setting.ByJSON(raw)
}

func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func DecodeBase64URL(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.Wrap(err, "decode base64url failed")
	}
	return b, nil
}
