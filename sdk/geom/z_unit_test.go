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

package geom

import (
	"math"
	"testing"
)

func TestWrapIndex(t *testing.T) {
	cases := []struct{ i, n, want int }{
		{0, 5, 0},
		{4, 5, 4},
		{5, 5, 0},
		{-1, 5, 4},
		{-6, 5, 4},
		{12, 5, 2},
		{3, 0, 0},
		{-3, -2, 0},
	}
	for _, tc := range cases {
		if got := WrapIndex(tc.i, tc.n); got != tc.want {
			t.Fatalf("WrapIndex(%d,%d)=%d want %d", tc.i, tc.n, got, tc.want)
		}
	}
}

func TestWrapIndexLaw(t *testing.T) {
	for n := 1; n <= 7; n++ {
		for i := -50; i <= 50; i++ {
			want := ((i % n) + n) % n
			if got := WrapIndex(i, n); got != want {
				t.Fatalf("WrapIndex(%d,%d)=%d want %d", i, n, got, want)
			}
			if got := WrapIndex(i, n); got < 0 || got >= n {
				t.Fatalf("WrapIndex out of range: %d", got)
			}
		}
	}
}

func TestDistance(t *testing.T) {
	a, b := V(0, 0), V(3, 4)
	if d := Distance(a, b); d != 5 {
		t.Fatalf("distance=%v want 5", d)
	}
	if d := DistanceSquared(a, b); d != 25 {
		t.Fatalf("distance2=%v want 25", d)
	}
	if l := b.Sub(a).Len(); l != 5 {
		t.Fatalf("len=%v want 5", l)
	}
}

func TestAngleAndClamp(t *testing.T) {
	if math.Abs(DegToRad(180)-math.Pi) > 1e-12 {
		t.Fatalf("DegToRad(180) != pi")
	}
	if math.Abs(RadToDeg(DegToRad(37))-37) > 1e-9 {
		t.Fatalf("round trip degrees")
	}
	if Clamp(3, 0.25, 2) != 2 || Clamp(0.1, 0.25, 2) != 0.25 || Clamp(1, 0.25, 2) != 1 {
		t.Fatalf("clamp mismatch")
	}
	p := Polar(0, 10)
	if math.Abs(p.X-10) > 1e-12 || math.Abs(p.Y) > 1e-12 {
		t.Fatalf("polar mismatch: %+v", p)
	}
}

func TestContains(t *testing.T) {
	ext := V(800, 500)
	if !ext.Contains(V(0, 0)) || ext.Contains(V(800, 10)) || ext.Contains(V(-1, 10)) {
		t.Fatalf("contains boundary mismatch")
	}
}

func TestFinite(t *testing.T) {
	if !Finite(1, -2, 0) || !V(3, 4).Finite() {
		t.Fatalf("finite values rejected")
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if Finite(1, v) || V(v, 1).Finite() {
			t.Fatalf("%v accepted", v)
		}
	}
}
