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
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/patternlab/catalog"
	"github.com/zintix-labs/patternlab/dto"
	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/setting"
)

// Runtime 是服務端的 data-plane：目錄中每個圖樣一個 StudioPool。
//
// 只帶覆寫種子的請求走池；自帶設定或覆寫分佈/演算法/數量的請求每次建立一個新的 Studio。
type Runtime struct {
	lab *Patternlab

	pools map[setting.PID]*StudioPool
	ids   []setting.PID

	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	reason    atomic.Value // string

	poolSize int
}

func newRuntime(lab *Patternlab, n int) (*Runtime, error) {
	n = max(1, n)
	rt := &Runtime{
		lab:      lab,
		pools:    make(map[setting.PID]*StudioPool, len(lab.IDs())),
		ids:      lab.IDs(),
		done:     make(chan struct{}),
		poolSize: n,
	}
	rt.reason.Store("")
	for _, id := range rt.ids {
		ps, err := lab.SettingByID(id)
		if err != nil {
			return nil, err
		}
		p, err := newStudioPool(n, ps, lab.reg, lab.log)
		if err != nil {
			return nil, err
		}
		rt.pools[id] = p
	}
	return rt, nil
}

// Generate 依請求產生一張圖樣。
func (rt *Runtime) Generate(ctx context.Context, req *dto.PatternRequest) (dto.PatternResult, error) {
	select {
	case <-ctx.Done():
		return dto.PatternResult{}, errs.NewWarn("generate canceled/timeout: " + ctx.Err().Error())
	case <-rt.done:
		rt.closed.Store(true)
		return dto.PatternResult{}, errs.NewFatal("pattern runtime closed: " + rt.ClosedReason())
	default:
	}
	if req == nil {
		return dto.PatternResult{}, errs.NewWarn("nil pattern request")
	}

	if p, ok := rt.pooled(req); ok {
		return p.Generate(ctx, req.Seed)
	}

	ps, err := rt.lab.Resolve(req)
	if err != nil {
		return dto.PatternResult{}, err
	}
	s, err := rt.lab.NewStudioBySetting(ps)
	if err != nil {
		return dto.PatternResult{}, err
	}
	return s.GenerateDTO()
}

// pooled 判斷請求是否可以直接走池（只查目錄、最多覆寫種子）。
func (rt *Runtime) pooled(req *dto.PatternRequest) (*StudioPool, bool) {
	if req.HasInline() || req.Distribution != "" || req.RNG != "" || req.Amount != nil {
		return nil, false
	}
	var (
		e  catalog.Entry
		ok bool
	)
	if req.Name != "" {
		e, ok = rt.lab.EntryByName(req.Name)
	} else {
		e, ok = rt.lab.EntryByID(setting.PID(req.ID))
	}
	if !ok {
		return nil, false
	}
	p, ok := rt.pools[e.ID]
	return p, ok
}

// Metrics 依目錄順序回傳每個池的觀測快照。
func (rt *Runtime) Metrics() []StudioPoolMetrics {
	out := make([]StudioPoolMetrics, 0, len(rt.ids))
	for _, id := range rt.ids {
		out = append(out, rt.pools[id].Metrics())
	}
	return out
}

func (rt *Runtime) PoolSize() int { return rt.poolSize }

// Close 關閉 runtime 與所有池；可重複呼叫。
func (rt *Runtime) Close() {
	rt.closeWithReason("closed")
}

func (rt *Runtime) closeWithReason(reason string) {
	rt.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		rt.reason.Store(reason)
		rt.closed.Store(true)
		close(rt.done)
		for _, p := range rt.pools {
			p.Close()
		}
	})
}

func (rt *Runtime) Closed() bool {
	return rt.closed.Load()
}

func (rt *Runtime) ClosedReason() string {
	if v := rt.reason.Load(); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
