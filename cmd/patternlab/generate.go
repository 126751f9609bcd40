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
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"github.com/zintix-labs/patternlab/errs"
)

func newGenerateCmd(g *globals) *cobra.Command {
	var (
		pf         patternFlags
		randomSeed bool
		output     string
		compact    bool
	)
	cmd := &cobra.Command{
		Use:   "generate [id|name]",
		Short: "Generate one layout and print it as json",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if randomSeed && cmd.Flags().Changed("seed") {
				return errs.NewWarn("--seed and --random-seed are mutually exclusive")
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
			st, err := lab.NewStudioBySetting(ps)
			if err != nil {
				return err
			}
			if randomSeed {
				st.RandomSeed()
			}
			res, err := st.GenerateDTO()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return errs.Wrap(err, "create output failed")
				}
				defer f.Close()
				w = f
			}
			enc := json.NewEncoder(w)
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(res)
		},
	}
	pf.bind(cmd)
	cmd.Flags().BoolVar(&randomSeed, "random-seed", false, "use a fresh random seed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&compact, "compact", false, "single-line json")
	return cmd
}
