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

package catalog

import (
	"errors"
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/patternlab/setting"
)

func file(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"dots.yaml":    file("id: 2\nname: Dots\ndistribution: grid\n"),
		"scatter.json": file(`{"id": 1, "name": "scatter", "amount": 80, "shapes": [{"id": "a"}, {"id": "b"}]}`),
		"noise.toml":   file("id = 3\nname = \"noise\"\ndistribution = \"blue_noise\"\n"),
		"README.md":    file("ignored"),
	}
}

func TestNewAutoRegistersAll(t *testing.T) {
	c, err := NewAuto(testFS())
	if err != nil {
		t.Fatalf("new auto: %v", err)
	}
	if !c.IsFrozen() {
		t.Fatalf("catalog must be frozen")
	}
	if got := c.IDs(); !reflect.DeepEqual(got, []setting.PID{1, 2, 3}) {
		t.Fatalf("ids=%v", got)
	}
	e, ok := c.GetByName("  DOTS ")
	if !ok || e.ID != 2 || e.ConfigName != "dots.yaml" {
		t.Fatalf("lookup by name failed: %+v", e)
	}
	ps, err := c.SettingByID(3)
	if err != nil || ps.Name != "noise" {
		t.Fatalf("setting by id: %v %+v", err, ps)
	}

	sum, err := c.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(sum) != 3 || sum[0].Name != "scatter" || sum[0].Amount != 80 || sum[0].Shapes != 2 {
		t.Fatalf("summary=%+v", sum)
	}
	if sum[1].Distribution != "grid" || sum[2].Distribution != "blue_noise" {
		t.Fatalf("distribution summary=%+v", sum)
	}
}

func TestSettingIsFreshCopy(t *testing.T) {
	c, err := NewAuto(testFS())
	if err != nil {
		t.Fatalf("new auto: %v", err)
	}
	a, _ := c.SettingByName("scatter")
	a.Amount = 1
	b, _ := c.SettingByName("scatter")
	if b.Amount != 80 {
		t.Fatalf("mutation leaked between lookups")
	}
}

func TestRegisterErrors(t *testing.T) {
	c, err := New(testFS())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := c.Register(Entry{ID: 1, Name: "a", ConfigName: "missing.yaml"}); err == nil {
		t.Fatalf("missing config must fail")
	}
	if err := c.Register(Entry{ID: 1, Name: "a", ConfigName: "../dots.yaml"}); err == nil {
		t.Fatalf("path in config name must fail")
	}
	err = c.Register(
		Entry{ID: 1, Name: "a", ConfigName: "dots.yaml"},
		Entry{ID: 1, Name: "b", ConfigName: "noise.toml"},
	)
	if !errors.Is(err, ErrDupID) {
		t.Fatalf("expected ErrDupID, got %v", err)
	}
	// 原子性：失敗的批次不應留下任何紀錄
	if len(c.IDs()) != 0 {
		t.Fatalf("failed batch must not register anything")
	}
	if err := c.Register(Entry{ID: 1, Name: "A", ConfigName: "dots.yaml"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := c.Register(Entry{ID: 2, Name: "a ", ConfigName: "noise.toml"}); !errors.Is(err, ErrDupName) {
		t.Fatalf("expected ErrDupName, got %v", err)
	}
	c.Freeze()
	if err := c.Register(Entry{ID: 9, Name: "z", ConfigName: "noise.toml"}); !errors.Is(err, ErrFrozen) {
		t.Fatalf("expected ErrFrozen, got %v", err)
	}
	if _, err := c.SettingByID(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMultiFS(t *testing.T) {
	other := fstest.MapFS{"extra.yaml": file("id: 9\nname: extra\n")}
	c, err := NewAuto(testFS(), other)
	if err != nil {
		t.Fatalf("new auto: %v", err)
	}
	if _, ok := c.GetByID(9); !ok {
		t.Fatalf("second fs not indexed")
	}

	if _, err := New(testFS(), fstest.MapFS{"dots.yaml": file("id: 5\nname: x\n")}); err == nil {
		t.Fatalf("duplicate file across fs must fail")
	}
	if _, err := New(fstest.MapFS{"sub/a.yaml": file("id: 1\nname: a\n")}); err == nil {
		t.Fatalf("nested fs must fail")
	}
	if _, err := New(); err == nil {
		t.Fatalf("no fs must fail")
	}
}

func TestRegisterAllFailFast(t *testing.T) {
	fsys := testFS()
	fsys["broken.yaml"] = file("id: 4\nname: broken\nratio: \"1:x\"\nshapes: [{id: a}, {id: b}]\n")
	c, err := New(fsys)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := c.RegisterAll(); !errors.Is(err, setting.ErrInvalidRatio) {
		t.Fatalf("expected ErrInvalidRatio, got %v", err)
	}
	if len(c.IDs()) != 0 {
		t.Fatalf("nothing should be registered after a failed scan")
	}
}
