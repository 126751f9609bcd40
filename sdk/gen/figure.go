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

package gen

import (
	"strings"

	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/sdk/geom"
)

// Kind 圖形種類
type Kind uint8

const (
	KindDot Kind = iota
	KindShape
)

func (k Kind) String() string {
	if k == KindShape {
		return "shape"
	}
	return "dot"
}

// Field 以 bitmask 標示 Figure 的欄位，Fragment 用它表示自己「擁有」哪些欄位。
type Field uint16

const (
	FieldIndex Field = 1 << iota
	FieldKind
	FieldPosition
	FieldSize
	FieldScale
	FieldColor
	FieldRotation
	FieldShape

	FieldNone Field = 0
	FieldAll        = FieldIndex | FieldKind | FieldPosition | FieldSize | FieldScale | FieldColor | FieldRotation | FieldShape
)

var fieldNames = [...]string{"index", "kind", "position", "size", "scale", "color", "rotation", "shape"}

func (f Field) String() string {
	if f == FieldNone {
		return "none"
	}
	parts := make([]string, 0, len(fieldNames))
	for i, name := range fieldNames {
		if f&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

func (f Field) Has(o Field) bool { return f&o == o }

// Figure 是一個被放置的圖形實例。
//
// Kind == KindShape 時，輸出前必須帶有 Shape 與 Rotation；
// 只有在產生流程內部才允許不完整的 Figure。
type Figure struct {
	Index    int
	Kind     Kind
	Position geom.Vec2
	Size     geom.Vec2
	Scale    float64
	Color    string
	Rotation *float64
	Shape    string
}

var ErrIncompleteFigure = errs.NewFatal("figure: shape instance missing shape id or rotation")

// Valid 檢查輸出邊界的不變量。
func (f *Figure) Valid() error {
	if f.Kind == KindShape && (f.Shape == "" || f.Rotation == nil) {
		return ErrIncompleteFigure.With("index=%d", f.Index)
	}
	return nil
}

// Fragment 是子產生器產出的部分 Figure；只有 Fields 標示的欄位有意義。
type Fragment struct {
	Fields Field
	Value  Figure
}

// apply 把 Fragment 擁有的欄位覆寫到 dst。
func (f *Fragment) apply(dst *Figure) {
	v := &f.Value
	if f.Fields&FieldIndex != 0 {
		dst.Index = v.Index
	}
	if f.Fields&FieldKind != 0 {
		dst.Kind = v.Kind
	}
	if f.Fields&FieldPosition != 0 {
		dst.Position = v.Position
	}
	if f.Fields&FieldSize != 0 {
		dst.Size = v.Size
	}
	if f.Fields&FieldScale != 0 {
		dst.Scale = v.Scale
	}
	if f.Fields&FieldColor != 0 {
		dst.Color = v.Color
	}
	if f.Fields&FieldRotation != 0 {
		dst.Rotation = v.Rotation
	}
	if f.Fields&FieldShape != 0 {
		dst.Shape = v.Shape
	}
}

func rotationPtr(rad float64) *float64 { return &rad }
