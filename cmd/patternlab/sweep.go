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

package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/zintix-labs/patternlab"
	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/sdk/perf"
	"github.com/zintix-labs/patternlab/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	green = "\033[1;32m"
	reset = "\033[0m"
)

func newSweepCmd(g *globals) *cobra.Command {
	var (
		pf       patternFlags
		opt      = patternlab.SweepOptions{Layouts: 10000, Workers: runtime.NumCPU(), ShowProgress: true}
		format   string
		pprof    string
		pprofDir string
	)
	cmd := &cobra.Command{
		Use:     "sweep [id|name]",
		Aliases: []string{"stat"},
		Short:   "Generate many layouts and report their statistics",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opt.Layouts < 1 {
				return errs.NewWarn("layouts must > 0")
			}
			if opt.Workers < 1 {
				return errs.NewWarn("workers must > 0")
			}
			lab, err := g.lab()
			if err != nil {
				return err
			}
			req, err := pf.request(cmd, args)
			if err != nil {
				return err
			}
			ps, err := pf.resolve(lab, req)
			if err != nil {
				return err
			}
			sw, err := lab.NewSweeper(ps)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "table" {
				p := message.NewPrinter(language.English)
				p.Fprintf(out, "%s[PATTERN:%s] [DIST:%s] [LAYOUTS:%d] [WORKERS:%d] [SEED:%d]%s\n",
					green, sw.Name, ps.Distribution, opt.Layouts, opt.Workers, sw.BaseSeed(), reset)
			}

			var (
				rep  *stats.LayoutReport
				used time.Duration
			)
			path, err := perf.Run(pprof, pprofDir, func() error {
				var err error
				rep, used, err = sw.Sweep(cmd.Context(), opt)
				return err
			})
			if err != nil {
				return err
			}
			if path != "" {
				g.log.Info("profile written", "path", path)
			}
			if format == "table" {
				_, err := fmt.Fprint(out, rep.Table(used))
				return err
			}
			return rep.WriteWith(out, stats.RenderByName(format))
		},
	}
	pf.bind(cmd)
	f := cmd.Flags()
	f.IntVarP(&opt.Layouts, "layouts", "n", opt.Layouts, "number of layouts")
	f.IntVarP(&opt.Workers, "workers", "w", opt.Workers, "number of workers")
	f.BoolVar(&opt.Sequential, "sequential", false, "layout i uses seed base+i instead of derived seeds")
	f.BoolVar(&opt.ShowProgress, "progress", opt.ShowProgress, "show a progress bar")
	f.StringVarP(&format, "format", "f", "table", "output format: table|json|yaml")
	f.StringVar(&pprof, "pprof", "", "profile the sweep: cpu|heap|allocs")
	f.StringVar(&pprofDir, "pprof-dir", perf.DefaultDir, "directory for profile files")
	return cmd
}
