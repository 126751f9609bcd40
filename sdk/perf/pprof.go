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

// Package perf 以 runtime/pprof 包裝一段工作，產出 cpu / heap / allocs profile。
//
//	patternlab sweep scatter --layouts 100000 --pprof cpu
//	go tool pprof build/profiling/cpu.pprof
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/patternlab/errs"
)

// DefaultDir pprof 檔案預設寫入路徑
const DefaultDir = "build/profiling"

const (
	ModeNone   = ""
	ModeCPU    = "cpu"
	ModeHeap   = "heap"
	ModeAllocs = "allocs"
)

var ErrUnknownMode = errs.NewWarn("unknown pprof mode")

// Modes 支援的 profile 種類
func Modes() []string { return []string{ModeCPU, ModeHeap, ModeAllocs} }

// Run 依 mode 執行 exe 並寫出 profile，回傳寫出的檔案路徑（ModeNone 時為空）。
// exe 的錯誤優先回傳；此時不寫 heap / allocs 快照。
func Run(mode, dir string, exe func() error) (string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	switch mode {
	case ModeNone:
		return "", exe()
	case ModeCPU, ModeHeap, ModeAllocs:
	default:
		return "", ErrUnknownMode.With("mode=%q", mode)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.Wrap(err, "create pprof dir failed")
	}
	path := filepath.Join(dir, mode+".pprof")
	f, err := os.Create(path)
	if err != nil {
		return "", errs.Wrap(err, "create pprof file failed")
	}
	defer f.Close()

	if mode == ModeCPU {
		if err := pprof.StartCPUProfile(f); err != nil {
			return "", errs.Wrap(err, "start cpu profile failed")
		}
		err := exe()
		pprof.StopCPUProfile()
		return path, err
	}

	if err := exe(); err != nil {
		return "", err
	}
	if mode == ModeHeap {
		// 快照前先 GC，讓 in-use 視圖貼近存活物件
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return "", errs.Wrap(err, "write heap profile failed")
		}
		return path, nil
	}
	// allocs 是累積配置，不需要 GC
	if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
		return "", errs.Wrap(err, "write allocs profile failed")
	}
	return path, nil
}
