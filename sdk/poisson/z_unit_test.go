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

package poisson

import (
	"errors"
	"math"
	"testing"

	"github.com/zintix-labs/patternlab/sdk/core"
	"github.com/zintix-labs/patternlab/sdk/geom"
)

func rng(seed int64) *core.Core {
	return core.New(core.Default().New(seed))
}

func assertMinDistance(t *testing.T, pts []geom.Vec2, r float64) {
	t.Helper()
	const eps = 1e-9
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			if d := geom.Distance(pts[i], pts[j]); d+eps < r {
				t.Fatalf("points %d and %d too close: %v < %v", i, j, d, r)
			}
		}
	}
}

func TestSampleMinDistance(t *testing.T) {
	cases := []struct {
		name string
		r    float64
		ext  geom.Vec2
	}{
		{"default", 40, geom.V(800, 500)},
		{"small-radius", 3, geom.V(120, 80)},
		// r/√2 < 1 ⇒ cell 被夾到 1，鄰域需擴大
		{"sub-cell", 1.2, geom.V(40, 30)},
		{"non-integer", 17.3, geom.V(300, 300)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for seed := int64(1); seed <= 3; seed++ {
				pts, err := Sample(tc.r, DefaultRetries, tc.ext, rng(seed))
				if err != nil {
					t.Fatalf("sample: %v", err)
				}
				if len(pts) < 2 {
					t.Fatalf("expected multiple points, got %d", len(pts))
				}
				assertMinDistance(t, pts, tc.r)
			}
		})
	}
}

func TestSampleInBounds(t *testing.T) {
	ext := geom.V(800, 500)
	pts, err := Sample(25, DefaultRetries, ext, rng(3010397292))
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	for i, p := range pts {
		if !ext.Contains(p) {
			t.Fatalf("point %d out of bounds: %+v", i, p)
		}
	}
}

func TestSampleDeterministic(t *testing.T) {
	ext := geom.V(400, 300)
	a, _ := Sample(20, DefaultRetries, ext, rng(42))
	b, _ := Sample(20, DefaultRetries, ext, rng(42))
	if len(a) != len(b) {
		t.Fatalf("length mismatch %d != %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("point %d differs", i)
		}
	}
	c, _ := Sample(20, DefaultRetries, ext, rng(43))
	if len(c) == len(a) && c[0].Equal(a[0]) {
		t.Fatalf("different seeds should give different layouts")
	}
}

func TestSampleCoverage(t *testing.T) {
	// 最大填充下，點數應接近 area / (r^2) 量級，而不是只有少數幾點
	ext := geom.V(800, 500)
	pts, _ := Sample(40, DefaultRetries, ext, rng(7))
	if len(pts) < 100 {
		t.Fatalf("unexpectedly sparse sampling: %d points", len(pts))
	}
}

func TestSampleErrors(t *testing.T) {
	ext := geom.V(100, 100)
	if _, err := Sample(0, DefaultRetries, ext, rng(1)); !errors.Is(err, ErrMinDistance) {
		t.Fatalf("expected ErrMinDistance, got %v", err)
	}
	if _, err := Sample(-5, DefaultRetries, ext, rng(1)); !errors.Is(err, ErrMinDistance) {
		t.Fatalf("expected ErrMinDistance, got %v", err)
	}
	if _, err := Sample(5, 0, ext, rng(1)); !errors.Is(err, ErrRetries) {
		t.Fatalf("expected ErrRetries, got %v", err)
	}
	for _, ext := range []geom.Vec2{geom.V(0, 100), geom.V(math.Inf(1), 100), geom.V(100, math.NaN())} {
		if _, err := Sample(5, DefaultRetries, ext, rng(1)); !errors.Is(err, ErrExtent) {
			t.Fatalf("extent %v: expected ErrExtent, got %v", ext, err)
		}
	}
}
