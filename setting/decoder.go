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

package setting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/zintix-labs/patternlab/errs"
	"gopkg.in/yaml.v3"
)

// Exts 支援的設定檔副檔名
var Exts = []string{".yaml", ".yml", ".json", ".toml"}

// IsConfigFile 檢查檔名是否為支援的設定檔格式（大小寫不敏感）。
func IsConfigFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// ByYAML
// 讀取 YAML 設定、初始化並執行基本檢查後回傳
func ByYAML(data []byte) (*PatternSetting, error) {
	ps := &PatternSetting{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 嚴格檢查：多寫/拼錯欄位就報錯
	if err := dec.Decode(ps); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshal yaml")
	}
	return initSetting(ps)
}

// ByJSON
// 讀取 JSON 設定、初始化並執行基本檢查後回傳
func ByJSON(data []byte) (*PatternSetting, error) {
	ps := &PatternSetting{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(ps); err != nil {
		return nil, errs.Wrap(err, "can not unmarshal json byte")
	}
	return initSetting(ps)
}

// ByTOML
// 讀取 TOML 設定、初始化並執行基本檢查後回傳
func ByTOML(data []byte) (*PatternSetting, error) {
	ps := &PatternSetting{}
	md, err := toml.Decode(string(data), ps)
	if err != nil {
		return nil, errs.Wrap(err, "failed to unmarshal toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.NewFatal(fmt.Sprintf("unknown toml keys: %v", undecoded))
	}
	return initSetting(ps)
}

// ByExt 依副檔名選擇解碼器。
func ByExt(filename string, raw []byte) (*PatternSetting, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return ByYAML(raw)
	case ".json":
		return ByJSON(raw)
	case ".toml":
		return ByTOML(raw)
	default:
		return nil, errs.NewFatal(fmt.Sprintf("unsupported config format: %q", filename))
	}
}

func initSetting(ps *PatternSetting) (*PatternSetting, error) {
	// 設定檔初始化
	if err := ps.Init(); err != nil {
		return nil, errs.Wrap(err, "pattern setting initialized err")
	}
	return ps, nil
}
