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
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/zintix-labs/patternlab/errs"
	"gopkg.in/yaml.v3"
)

var ErrInvalidRatio = errs.NewWarn("invalid ratio token")

// Ratio 形狀比例（百分比）。設定檔中可寫成整數列表，或 "20:20:20" / "20,20,20" 字串。
type Ratio []int

// ParseRatio 解析以 ':' 或 ',' 分隔的比例字串。
// 任何非整數或負值 token 都直接回傳錯誤，不會被當成 0。
func ParseRatio(s string) (Ratio, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ratio{}, nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ':' || r == ',' })
	if len(fields) == 0 {
		return nil, ErrInvalidRatio.With("ratio=%q", s)
	}
	out := make(Ratio, 0, len(fields))
	for i, f := range fields {
		f = strings.TrimSpace(f)
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, ErrInvalidRatio.With("ratio=%q token[%d]=%q", s, i, f)
		}
		if v < 0 {
			return nil, ErrInvalidRatio.With("ratio=%q token[%d]=%d is negative", s, i, v)
		}
		out = append(out, v)
	}
	return out, nil
}

func (r Ratio) String() string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ":")
}

// Normalize 調整為 n 個元素：缺少補 0，多餘捨棄。
func (r Ratio) Normalize(n int) Ratio {
	out := make(Ratio, max(n, 0))
	copy(out, r)
	return out
}

func (r Ratio) Sum() int {
	s := 0
	for _, v := range r {
		s += v
	}
	return s
}

func (r *Ratio) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		v, err := ParseRatio(node.Value)
		if err != nil {
			return err
		}
		*r = v
		return nil
	case yaml.SequenceNode:
		var list []int
		if err := node.Decode(&list); err != nil {
			return errs.Wrap(err, "ratio list decode failed")
		}
		return r.set(list)
	default:
		return ErrInvalidRatio.With("unsupported yaml node at line %d", node.Line)
	}
}

func (r *Ratio) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := ParseRatio(s)
		if err != nil {
			return err
		}
		*r = v
		return nil
	}
	var list []int
	if err := json.Unmarshal(b, &list); err != nil {
		return ErrInvalidRatio.With("json=%s", string(b))
	}
	return r.set(list)
}

// UnmarshalTOML 對應 BurntSushi/toml 的 Unmarshaler：字串或整數陣列。
func (r *Ratio) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		p, err := ParseRatio(v)
		if err != nil {
			return err
		}
		*r = p
		return nil
	case []any:
		list := make([]int, len(v))
		for i, x := range v {
			n, ok := x.(int64)
			if !ok {
				return ErrInvalidRatio.With("toml ratio[%d]=%v", i, x)
			}
			list[i] = int(n)
		}
		return r.set(list)
	default:
		return ErrInvalidRatio.With("toml ratio type %s", fmt.Sprintf("%T", data))
	}
}

func (r *Ratio) set(list []int) error {
	for i, v := range list {
		if v < 0 {
			return ErrInvalidRatio.With("ratio[%d]=%d is negative", i, v)
		}
	}
	*r = Ratio(list)
	return nil
}
