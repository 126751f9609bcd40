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

package sharecode

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/zintix-labs/patternlab/sdk/gen"
	"github.com/zintix-labs/patternlab/setting"
)

func TestEncodeDecode(t *testing.T) {
	ps := setting.Default()
	ps.Name = "shared"
	ps.DistributionStr = string(gen.DistBlueNoise)
	ps.Shapes = []setting.ShapeSetting{{ID: "star", Width: 10, Height: 10}, {ID: "ring"}}
	ps.Ratio = setting.Ratio{70, 30}
	ps.Colors = []string{"#112233"}
	ps.SetSeed(12345)
	if err := ps.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	code, err := Encode(ps)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(code, Prefix) || strings.ContainsAny(code, "+/=") {
		t.Fatalf("code must be url safe with prefix: %q", code)
	}

	back, err := Decode(code)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.SeedValue() != 12345 || back.Distribution != gen.DistBlueNoise {
		t.Fatalf("decoded setting differs: seed=%d dist=%s", back.SeedValue(), back.Distribution)
	}
	if !reflect.DeepEqual(back.Config(), ps.Config()) {
		t.Fatalf("config mismatch:\n got %+v\nwant %+v", back.Config(), ps.Config())
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode("xx." + EncodeBase64URL([]byte("abc"))); !errors.Is(err, ErrBadPrefix) {
		t.Fatalf("expected ErrBadPrefix, got %v", err)
	}
	if _, err := Decode(Prefix + "!!not-base64!!"); !errors.Is(err, ErrBadCode) {
		t.Fatalf("expected ErrBadCode, got %v", err)
	}
	// 合法 base64 但不是 zstd
	if _, err := Decode(Prefix + EncodeBase64URL([]byte("plain text"))); err == nil {
		t.Fatalf("expected error for non-zstd payload")
	}
}

func TestDecodeRejectsInvalidSetting(t *testing.T) {
	ps := setting.Default()
	if err := ps.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	// 繞過 Init 直接寫入非法值，編碼端不做檢查
	ps.Amount = -1
	code, err := Encode(ps)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := Decode(code); !errors.Is(err, gen.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
