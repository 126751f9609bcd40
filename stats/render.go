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

package stats

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

type LayoutReportRender interface {
	Write(w io.Writer, r *LayoutReport) error
}

// Json渲染
type JsonLayoutReportRender struct{}

func (jr *JsonLayoutReportRender) Write(w io.Writer, r *LayoutReport) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLLayoutReportRender struct{}

func (yr *YAMLLayoutReportRender) Write(w io.Writer, r *LayoutReport) error {
	// 最內層的一維陣列輸出成 flow style：[..., ...]，其餘維持展開
	return forceReadableList(w, r)
}

// TableLayoutReportRender 與 StdOut 相同的表格輸出
type TableLayoutReportRender struct{}

func (tr *TableLayoutReportRender) Write(w io.Writer, r *LayoutReport) error {
	_, err := io.WriteString(w, r.Table(0))
	return err
}

// RenderByName 依名稱取得渲染器：json / yaml / table（預設 table）。
func RenderByName(name string) LayoutReportRender {
	switch name {
	case "json":
		return &JsonLayoutReportRender{}
	case "yaml", "yml":
		return &YAMLLayoutReportRender{}
	default:
		return &TableLayoutReportRender{}
	}
}

// YAML 內層方法
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
	case yaml.SequenceNode:
		// 內含 mapping 或 sequence 的是外層維度，維持 block
		nested := false
		for _, c := range n.Content {
			if c != nil && (c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode) {
				nested = true
			}
			styleReadableSequences(c)
		}
		if !nested {
			n.Style = yaml.FlowStyle
		}
	}
}
