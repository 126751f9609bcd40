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
	"fmt"
	"io"
	"strconv"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"github.com/zintix-labs/patternlab/catalog"
)

func newListCmd(g *globals) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lab, err := g.lab()
			if err != nil {
				return err
			}
			sum, err := lab.Summary()
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(sum)
			}
			return writeSummary(cmd.OutOrStdout(), sum)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as json")
	return cmd
}

// writeSummary 以等寬欄位輸出目錄（名稱可能含全形字）。
func writeSummary(w io.Writer, sum []catalog.Summary) error {
	header := []string{"ID", "NAME", "DISTRIBUTION", "AMOUNT", "SHAPES", "CONFIG"}
	rows := [][]string{header}
	for _, s := range sum {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(s.ID), 10),
			s.Name,
			s.Distribution,
			strconv.Itoa(s.Amount),
			strconv.Itoa(s.Shapes),
			s.Config,
		})
	}
	widths := make([]int, len(header))
	for _, r := range rows {
		for i, c := range r {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}
	for _, r := range rows {
		line := ""
		for i, c := range r {
			if i == len(r)-1 {
				line += c
				break
			}
			line += runewidth.FillRight(c, widths[i]+2)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
