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
	"os"

	"github.com/spf13/cobra"
	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/setting"
	"github.com/zintix-labs/patternlab/sharecode"
	"gopkg.in/yaml.v3"
)

func newShareCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Encode or decode pattern share codes",
	}

	var seed int64
	encode := &cobra.Command{
		Use:   "encode [id|name|file]",
		Short: "Print the share code of a catalog pattern or a setting file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := loadSetting(g, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				ps.SetSeed(seed)
			}
			code, err := sharecode.Encode(ps)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), code)
			return err
		},
	}
	encode.Flags().Int64Var(&seed, "seed", 0, "override seed before encoding")

	decode := &cobra.Command{
		Use:   "decode <code>",
		Short: "Print the setting behind a share code as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := sharecode.Decode(args[0])
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(ps)
		},
	}

	cmd.AddCommand(encode, decode)
	return cmd
}

// loadSetting 參數是設定檔就讀檔，否則當作目錄中的 id 或名稱。
func loadSetting(g *globals, arg string) (*setting.PatternSetting, error) {
	if setting.IsConfigFile(arg) {
		if _, err := os.Stat(arg); err == nil {
			raw, err := os.ReadFile(arg)
			if err != nil {
				return nil, errs.Wrap(err, "read setting file failed")
			}
			return setting.ByExt(arg, raw)
		}
	}
	lab, err := g.lab()
	if err != nil {
		return nil, err
	}
	return lab.Resolve(catalogRequest(arg))
}
