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

// Package geom 提供圖樣產生所需的最小 2D 幾何工具。
package geom

import "math"

// Vec2 為 2D 座標或尺寸（x = 寬，y = 高）。
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec2) Area() float64        { return v.X * v.Y }
func (v Vec2) Positive() bool       { return v.X > 0 && v.Y > 0 }
func (v Vec2) Contains(p Vec2) bool { return p.X >= 0 && p.Y >= 0 && p.X < v.X && p.Y < v.Y }
func (v Vec2) Equal(o Vec2) bool    { return v.X == o.X && v.Y == o.Y }

// Finite 兩個分量都不是 NaN 或 ±Inf。
func (v Vec2) Finite() bool { return Finite(v.X, v.Y) }

// Finite 回報所有值都不是 NaN 或 ±Inf。
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func Distance(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// DistanceSquared 避免開根號，熱路徑（poisson 鄰域檢查）使用。
func DistanceSquared(a, b Vec2) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// Polar 以角度（弧度）與半徑建立向量。
func Polar(angle, radius float64) Vec2 {
	return Vec2{X: math.Cos(angle) * radius, Y: math.Sin(angle) * radius}
}

// WrapIndex 將任意整數折回 [0,n)；n < 1 視為 1。
//
//	WrapIndex(i, n) == ((i % n) + n) % n
func WrapIndex(i, n int) int {
	n = max(1, n)
	return ((i % n) + n) % n
}

func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Clamp 將 v 限制在 [lo,hi]。
func Clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
