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

// Package server 組裝 patternlab 的 HTTP 服務：Runtime、路由、middleware 與生命週期。
package server

import (
	"context"
	"log/slog"

	"github.com/zintix-labs/patternlab"
	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/server/api"
	v1 "github.com/zintix-labs/patternlab/server/api/v1"
	"github.com/zintix-labs/patternlab/server/app"
	"github.com/zintix-labs/patternlab/server/netsvr"
	"github.com/zintix-labs/patternlab/server/svrcfg"
)

// Build 驗證設定、建立 Runtime 並把路由掛到 svr 上；呼叫端負責 rt.Close()。
func Build(sCfg *svrcfg.SvrCfg, svr netsvr.NetRouter) (*patternlab.Runtime, error) {
	if sCfg == nil {
		return nil, errs.NewFatal("server config is nil")
	}
	if err := sCfg.Valid(); err != nil {
		return nil, err
	}
	if svr == nil {
		return nil, errs.NewFatal("svr is required")
	}
	rt, err := sCfg.Lab.NewRuntime(sCfg.PoolSize)
	if err != nil {
		return nil, errs.Wrap(err, "build pattern runtime failed")
	}
	h, err := v1.NewHandler(sCfg.Lab, rt, sCfg.Log, v1.Options{
		RequestTimeout: sCfg.RequestTimeout,
		SweepTimeout:   sCfg.SweepTimeout,
		SweepWorkers:   sCfg.SweepWorkers,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}
	api.RegisterRoutes(svr, sCfg.Log, h)
	return rt, nil
}

// Run 以內建的 chi server 啟動服務，阻塞直到 ctx 結束、收到終止信號或 server 出錯。
func Run(ctx context.Context, sCfg *svrcfg.SvrCfg) error {
	if sCfg == nil {
		return errs.NewFatal("server config is nil")
	}
	if err := sCfg.Valid(); err != nil {
		return err
	}
	return RunWithSvr(ctx, sCfg, netsvr.NewChiServer(sCfg.Addr, netsvr.Timeouts{}))
}

// RunWithSvr 與 Run 相同，但使用呼叫端提供的 NetSvr。
func RunWithSvr(ctx context.Context, sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	if svr == nil {
		return errs.NewFatal("svr is required")
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		return errs.NewFatal("chi server is not ready")
	}
	rt, err := Build(sCfg, svr)
	if err != nil {
		return err
	}
	defer rt.Close()

	a := app.NewWith(sCfg.Log, svr)
	if s, ok := svr.(*netsvr.ChiAdapter); ok {
		sCfg.Log.Info("listening", slog.String("addr", s.Address()), slog.Int("patterns", len(sCfg.Lab.IDs())))
	}
	return a.Run(ctx)
}
