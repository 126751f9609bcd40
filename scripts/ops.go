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

// ops 是開發用的任務入口，取代 Makefile：
//
//	go run ./scripts test          # 只印 ok / FAIL
//	go run ./scripts test-detail   # verbose，略過沒有測試的套件
//	go run ./scripts profile       # 以 cpu profile 跑一次大量 sweep
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const (
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

func paint(color, msg string) {
	fmt.Printf("%s%s%s\n", color, msg, colorReset)
}

// lineFilter 回傳 false 表示該行不輸出
type lineFilter func(line string) bool

var tasks = map[string]func() error{
	"test": func() error {
		return goCmd(func(l string) bool {
			return strings.HasPrefix(l, "ok") || strings.HasPrefix(l, "FAIL") ||
				strings.Contains(l, "build failed") || strings.Contains(l, "setup failed")
		}, "test", "./...", "-cover", "-count=1")
	},
	"test-detail": func() error {
		return goCmd(func(l string) bool {
			return !strings.Contains(l, "[no test files]")
		}, "test", "./...", "-v", "-count=1")
	},
	"profile": func() error {
		return goCmd(nil, "run", "./cmd/patternlab", "--log-mode", "silence",
			"sweep", "confetti", "--layouts", "200000", "--pprof", "cpu")
	},
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: go run ./scripts [test|test-detail|profile]")
		os.Exit(1)
	}
	task, ok := tasks[os.Args[1]]
	if !ok {
		paint(colorYellow, "unknown task: "+os.Args[1])
		os.Exit(1)
	}
	if err := task(); err != nil {
		paint(colorRed, err.Error())
		os.Exit(1)
	}
}

// goCmd 執行 go 子命令，合併 stdout/stderr 後逐行上色輸出。
func goCmd(keep lineFilter, args ...string) error {
	paint(colorGreen, "go "+strings.Join(args, " "))
	cmd := exec.Command("go", args...)
	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return err
	}
	sc := bufio.NewScanner(pipe)
	for sc.Scan() {
		line := sc.Text()
		if keep != nil && !keep(line) {
			continue
		}
		switch {
		case strings.HasPrefix(line, "ok"):
			paint(colorGreen, line)
		case strings.HasPrefix(line, "FAIL"):
			paint(colorRed, line)
		default:
			fmt.Println(line)
		}
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("go %s: %w", args[0], err)
	}
	return nil
}
