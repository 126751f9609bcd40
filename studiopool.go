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

package patternlab

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/patternlab/dto"
	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/sdk/gen"
	"github.com/zintix-labs/patternlab/setting"
)

// brokenCap broken 通道容量；滿了代表連續故障，整個池進入關閉狀態。
const brokenCap = 100

// StudioPool 管理「某一個圖樣」的所有 Studio 實例。
// 它透過兩個通道管理 Studio 生命週期：
//  1. pool：健康且可用的 Studio，供 Generate() 借出 / 歸還。
//  2. broken：發生 panic 或 fatal error 的 Studio，送往此通道後丟棄並補上一台新的。
//
// 借出的 Studio 會先切到請求指定的種子；未指定種子時沿用 Studio 目前的種子。
type StudioPool struct {
	name        string
	id          setting.PID
	ps          *setting.PatternSetting
	reg         *gen.Registry
	log         *slog.Logger
	pool        chan *Studio  // 可用 Studio
	broken      chan *Studio  // 壞掉的 Studio
	done        chan struct{} // 關閉訊號
	closeOnce   sync.Once
	poolsize    int
	rebuild     atomic.Int32 // 補建次數
	inflight    atomic.Int32 // 使用中
	panics      atomic.Int32 // panic 次數
	fatals      atomic.Int32 // fatal 次數
	closeReason atomic.Value // string
}

// newStudioPool 建立指定圖樣的 Studio 池（n 至少為 1），並預先建立 n 個 Studio。
func newStudioPool(n int, ps *setting.PatternSetting, reg *gen.Registry, log *slog.Logger) (*StudioPool, error) {
	if ps == nil {
		return nil, errs.NewFatal("pattern setting is nil")
	}
	n = max(1, n)
	p := &StudioPool{
		name:     ps.Name,
		id:       ps.ID,
		ps:       ps,
		reg:      reg,
		log:      log,
		pool:     make(chan *Studio, n),
		broken:   make(chan *Studio, brokenCap),
		done:     make(chan struct{}),
		poolsize: n,
	}
	p.closeReason.Store("")

	for i := 0; i < n; i++ {
		s, err := newStudio(ps, reg, log)
		if err != nil {
			return nil, err
		}
		p.pool <- s
	}
	return p, nil
}

func (p *StudioPool) Close() {
	p.closeWithReason("closed")
}

func (p *StudioPool) Closed() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *StudioPool) closeWithReason(reason string) {
	p.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		p.closeReason.Store(reason)
		close(p.done)
	})
}

// isFatalErr 只有錯誤本身宣告 Fatal 時才淘汰 Studio；設定類錯誤（Warn）不影響健康狀態。
func isFatalErr(err error) bool {
	return err != nil && errs.LevelOf(err) == errs.Fatal
}

// Generate 借出一個 Studio，套用 seed（nil 表示沿用）並產生 DTO。
func (p *StudioPool) Generate(ctx context.Context, seed *int64) (out dto.PatternResult, err error) {
	var s *Studio
	select {
	case <-p.done:
		return out, errs.NewFatal("studio pool closed: " + p.ClosedReason())
	case <-ctx.Done():
		return out, errs.NewWarn("generate canceled/timeout: " + ctx.Err().Error())
	case s = <-p.pool:
		p.inflight.Add(1)
	}
	if s == nil {
		return out, errs.NewFatal("studio pool got nil studio")
	}

	var isPanic bool
	defer func() {
		p.inflight.Add(-1)
		if r := recover(); r != nil {
			isPanic = true
			p.panics.Add(1)
			err = errs.NewFatal(fmt.Sprintf("studio %s panic : %v", p.name, r))
		}
		if p.Closed() {
			return
		}
		if isPanic || isFatalErr(err) {
			if !isPanic {
				p.fatals.Add(1)
			}
			p.log.Error("studio broken", slog.String("pattern", p.name), slog.Any("err", err))
			select {
			case p.broken <- s:
			default:
				p.closeWithReason("overwhelmed_by_failures")
				return
			}
			ns, buildErr := newStudio(p.ps, p.reg, p.log)
			p.rebuild.Add(1)
			if buildErr != nil {
				err = errs.Wrap(buildErr, fmt.Sprintf("studio %s can not rebuild", p.name))
				p.closeWithReason("rebuild_failed")
				return
			}
			select {
			case <-p.done:
			case p.pool <- ns:
			}
			return
		}
		select {
		case <-p.done:
		case p.pool <- s:
		}
	}()

	if seed != nil {
		s.SetSeed(*seed)
	}
	return s.GenerateDTO()
}

func (p *StudioPool) PoolSize() int { return p.poolsize }

func (p *StudioPool) Inflight() int { return int(p.inflight.Load()) }

func (p *StudioPool) ReBuild() int { return int(p.rebuild.Load()) }

func (p *StudioPool) Panics() int { return int(p.panics.Load()) }

func (p *StudioPool) Fatals() int { return int(p.fatals.Load()) }

func (p *StudioPool) ClosedReason() string {
	if v := p.closeReason.Load(); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// StudioPoolMetrics 拉取式觀測快照；Available / BrokenBacklog 來自 len(chan)，高併發下為近似值。
type StudioPoolMetrics struct {
	Pattern       string      `json:"pattern"`
	ID            setting.PID `json:"id"`
	PoolSize      int         `json:"pool_size"`
	Available     int         `json:"available"`
	Inflight      int         `json:"inflight"`
	BrokenBacklog int         `json:"broken_backlog"`
	Rebuild       int         `json:"rebuild"`
	Panics        int         `json:"panics"`
	Fatals        int         `json:"fatals"`
	Closed        bool        `json:"closed"`
	CloseReason   string      `json:"close_reason"`
}

func (p *StudioPool) Metrics() StudioPoolMetrics {
	return StudioPoolMetrics{
		Pattern:       p.name,
		ID:            p.id,
		PoolSize:      p.poolsize,
		Available:     len(p.pool),
		Inflight:      int(p.inflight.Load()),
		BrokenBacklog: len(p.broken),
		Rebuild:       int(p.rebuild.Load()),
		Panics:        int(p.panics.Load()),
		Fatals:        int(p.fatals.Load()),
		Closed:        p.Closed(),
		CloseReason:   p.ClosedReason(),
	}
}
