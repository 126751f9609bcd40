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

package recorder

import (
	"errors"
	"math"
	"testing"

	"github.com/zintix-labs/patternlab/sdk/gen"
	"github.com/zintix-labs/patternlab/sdk/geom"
	"github.com/zintix-labs/patternlab/setting"
)

const gridYAML = `
id: 9
name: tiles
canvas: {width: 400, height: 300}
amount: 4
base_height: 10
scale_random: {min: 1, max: 1}
ratio: "50:50"
shapes:
  - {id: a, width: 10, height: 10}
  - {id: b, width: 20, height: 10}
colors: ["red", "blue"]
distribution: grid
grid: {width: 100, height: 100}
`

func mustSetting(t *testing.T, src string) *setting.PatternSetting {
	t.Helper()
	ps, err := setting.ByYAML([]byte(src))
	if err != nil {
		t.Fatalf("setting: %v", err)
	}
	return ps
}

func shape(i int, x, y float64, id, color string) gen.Figure {
	rot := 0.0
	return gen.Figure{
		Index:    i,
		Kind:     gen.KindShape,
		Position: geom.V(x, y),
		Size:     geom.V(10, 10),
		Scale:    1,
		Color:    color,
		Rotation: &rot,
		Shape:    id,
	}
}

// 2x2 格點，間距 100
func gridLayout() []gen.Figure {
	return []gen.Figure{
		shape(0, 100, 100, "a", "red"),
		shape(1, 200, 100, "b", "red"),
		shape(2, 100, 200, "a", "blue"),
		shape(3, 200, 200, "b", "red"),
	}
}

func TestNewLayoutRecorderRejectsNil(t *testing.T) {
	if _, err := NewLayoutRecorder(nil); !errors.Is(err, ErrNilSetting) {
		t.Fatalf("expected ErrNilSetting, got %v", err)
	}
	if _, err := NewLayoutRecorder(&setting.PatternSetting{}); !errors.Is(err, ErrNilSetting) {
		t.Fatalf("uninitialized setting must be rejected, got %v", err)
	}
}

func TestRecordAndDone(t *testing.T) {
	r, err := NewLayoutRecorder(mustSetting(t, gridYAML))
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	if r.Reference != 100 {
		t.Fatalf("grid reference=%v", r.Reference)
	}

	r.Record(gridLayout())
	dot := gen.Figure{Index: 0, Kind: gen.KindDot, Position: geom.V(50, 50), Size: geom.V(1, 1), Scale: 1}
	r.Record([]gen.Figure{dot})

	rep := r.Done()
	s := rep.Summary
	if s.Layouts != 2 || s.Figures != 5 || s.Dots != 1 || s.MinFigures != 1 || s.MaxFigures != 4 {
		t.Fatalf("summary=%+v", s)
	}
	if s.MeanScale != 1 || s.StdScale != 0 {
		t.Fatalf("scale=%v±%v", s.MeanScale, s.StdScale)
	}
	if want := (400.0 + 1) / (400 * 300) / 2; math.Abs(s.Coverage-want) > 1e-12 {
		t.Fatalf("coverage=%v want %v", s.Coverage, want)
	}
	if rep.Shapes.Counts[0] != 2 || rep.Shapes.Counts[1] != 2 {
		t.Fatalf("shape counts=%v", rep.Shapes.Counts)
	}
	if rep.Colors.Counts[0] != 3 || rep.Colors.Counts[1] != 1 {
		t.Fatalf("color counts=%v", rep.Colors.Counts)
	}

	sp := rep.Spacing
	if sp.Samples != 4 || sp.Min != 100 || sp.Mean != 100 || sp.Std != 0 {
		t.Fatalf("spacing=%+v", sp)
	}
	// d == reference 落在 [1,1.25)
	if sp.Collect[3] != 4 {
		t.Fatalf("collect=%v", sp.Collect)
	}
	if sp.Violation != 0 {
		t.Fatalf("grid never counts violations")
	}
}

func TestBlueNoiseViolation(t *testing.T) {
	ps := mustSetting(t, `
name: stipple
distribution: blue_noise
blue_noise: {minimal_distance: 150}
`)
	r, err := NewLayoutRecorder(ps)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	r.Record(gridLayout())
	if r.Spacing.Violation != 4 {
		t.Fatalf("violation=%d", r.Spacing.Violation)
	}
}

func TestMergeLayoutRecorder(t *testing.T) {
	ps := mustSetting(t, gridYAML)
	a, _ := NewLayoutRecorder(ps)
	b, _ := NewLayoutRecorder(ps)
	a.Record(gridLayout())
	b.Record(gridLayout()[:3])
	b.Record(gridLayout())

	m, err := MergeLayoutRecorder([]*LayoutRecorder{a, b})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if m.Basic.Layouts != 3 || m.Basic.Figures != 11 || m.Basic.MinFigures != 3 || m.Basic.MaxFigures != 4 {
		t.Fatalf("merged basic=%+v", m.Basic)
	}
	if m.Spacing.Count != 11 || len(m.Spacing.Samples) != 11 {
		t.Fatalf("merged spacing count=%d samples=%d", m.Spacing.Count, len(m.Spacing.Samples))
	}
	if m.Basic.ShapeCounts[0] != 6 {
		t.Fatalf("merged shape counts=%v", m.Basic.ShapeCounts)
	}

	other := mustSetting(t, "name: other\n")
	c, _ := NewLayoutRecorder(other)
	if _, err := MergeLayoutRecorder([]*LayoutRecorder{a, c}); !errors.Is(err, ErrMergeMismatched) {
		t.Fatalf("expected ErrMergeMismatched, got %v", err)
	}
	if _, err := MergeLayoutRecorder(nil); !errors.Is(err, ErrMergeEmpty) {
		t.Fatalf("expected ErrMergeEmpty, got %v", err)
	}
}

func TestReferenceRandom(t *testing.T) {
	r, err := NewLayoutRecorder(mustSetting(t, "name: scatter\namount: 100\ncanvas: {width: 100, height: 100}\n"))
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	if math.Abs(r.Reference-5) > 1e-12 {
		t.Fatalf("random reference=%v", r.Reference)
	}
}
