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
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/zintix-labs/patternlab"
	"github.com/zintix-labs/patternlab/dto"
	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/presets"
	"github.com/zintix-labs/patternlab/server/logger"
	"github.com/zintix-labs/patternlab/setting"
)

// globals 所有子命令共用的旗標
type globals struct {
	logMode   string
	configDir string
	log       *slog.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	g := new(globals)
	root := &cobra.Command{
		Use:           "patternlab",
		Short:         "Procedural figure pattern generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			mode, err := logger.ParseMode(g.logMode)
			if err != nil {
				return err
			}
			g.log = logger.New(mode, errOut)
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&g.logMode, "log-mode", "dev", "log mode: dev|prod|silence")
	root.PersistentFlags().StringVar(&g.configDir, "config-dir", "", "extra directory of pattern settings (yaml/json/toml)")

	root.AddCommand(newListCmd(g))
	root.AddCommand(newGenerateCmd(g))
	root.AddCommand(newSweepCmd(g))
	root.AddCommand(newShareCmd(g))
	root.AddCommand(newServeCmd(g))
	return root
}

// lab 以內建預設集（加上 --config-dir）建立 Patternlab。
func (g *globals) lab() (*patternlab.Patternlab, error) {
	cfgs := patternlab.Configs(presets.FS)
	if g.configDir != "" {
		cfgs = append(cfgs, os.DirFS(g.configDir))
	}
	lab, err := patternlab.NewAuto(nil, cfgs)
	if err != nil {
		return nil, err
	}
	lab.SetLogger(g.log)
	return lab, nil
}

// patternFlags generate / sweep 共用的覆寫旗標
type patternFlags struct {
	seed         int64
	distribution string
	rng          string
	amount       int
	file         string
	share        string
}

func (pf *patternFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int64Var(&pf.seed, "seed", 0, "override seed")
	f.StringVar(&pf.distribution, "distribution", "", "override distribution: random|grid|blue_noise")
	f.StringVar(&pf.rng, "rng", "", "override rng: splitmix32|pcg32|pcg64")
	f.IntVar(&pf.amount, "amount", 0, "override amount")
	f.StringVar(&pf.file, "file", "", "read the pattern setting from a file instead of the catalog")
	f.StringVar(&pf.share, "share", "", "read the pattern setting from a share code")
}

// request 把旗標與位置參數（id 或名稱）轉成 PatternRequest。
func (pf *patternFlags) request(cmd *cobra.Command, args []string) (*dto.PatternRequest, error) {
	req := &dto.PatternRequest{
		Distribution: pf.distribution,
		RNG:          pf.rng,
		Share:        pf.share,
	}
	if cmd.Flags().Changed("seed") {
		v := pf.seed
		req.Seed = &v
	}
	if cmd.Flags().Changed("amount") {
		v := pf.amount
		req.Amount = &v
	}
	if len(args) > 0 {
		req.ID, req.Name = parseRef(args[0])
	}
	if len(args) == 0 && pf.file == "" && pf.share == "" {
		return nil, errs.NewWarn("pattern id or name required (or --file / --share)")
	}
	return req, nil
}

// resolve 依來源取得設定：--file 優先，其餘交給 Patternlab.Resolve。
func (pf *patternFlags) resolve(lab *patternlab.Patternlab, req *dto.PatternRequest) (*setting.PatternSetting, error) {
	if pf.file == "" {
		return lab.Resolve(req)
	}
	if pf.share != "" {
		return nil, errs.NewWarn("--file and --share are mutually exclusive")
	}
	raw, err := os.ReadFile(pf.file)
	if err != nil {
		return nil, errs.Wrap(err, "read setting file failed")
	}
	ps, err := setting.ByExt(pf.file, raw)
	if err != nil {
		return nil, err
	}
	if err := req.Apply(ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// parseRef 數字視為 id，其餘視為名稱。
func parseRef(arg string) (uint, string) {
	if id, err := strconv.ParseUint(arg, 10, 0); err == nil {
		return uint(id), ""
	}
	return 0, arg
}

func catalogRequest(arg string) *dto.PatternRequest {
	req := new(dto.PatternRequest)
	req.ID, req.Name = parseRef(arg)
	return req
}
