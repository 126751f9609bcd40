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
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/zintix-labs/patternlab/server"
	"github.com/zintix-labs/patternlab/server/logger"
	"github.com/zintix-labs/patternlab/server/netsvr"
	"github.com/zintix-labs/patternlab/server/svrcfg"
)

func newServeCmd(g *globals) *cobra.Command {
	cfg := svrcfg.SvrCfg{
		Addr:           netsvr.DefaultAddr,
		PoolSize:       3,
		SweepWorkers:   runtime.NumCPU(),
		RequestTimeout: 5 * time.Second,
		SweepTimeout:   30 * time.Second,
	}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve patterns over http",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := logger.ParseMode(g.logMode)
			if err != nil {
				return err
			}
			// 服務端走非阻塞 logger，結束前清空緩衝
			log, ah := logger.NewAsync(4096, mode)
			defer ah.Close()
			g.log = log

			lab, err := g.lab()
			if err != nil {
				return err
			}
			cfg.Log = log
			cfg.Lab = lab
			return server.Run(cmd.Context(), &cfg)
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	f.IntVar(&cfg.PoolSize, "pool", cfg.PoolSize, "studios per pattern (1-10)")
	f.IntVar(&cfg.SweepWorkers, "workers", cfg.SweepWorkers, "workers per /v1/stat request")
	f.DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "timeout of one /v1/pattern request")
	f.DurationVar(&cfg.SweepTimeout, "sweep-timeout", cfg.SweepTimeout, "timeout of one /v1/stat request")
	return cmd
}
