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
	"io"
	"log/slog"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/recorder"
	"github.com/zintix-labs/patternlab/sdk/gen"
	"github.com/zintix-labs/patternlab/sdk/seed"
	"github.com/zintix-labs/patternlab/setting"
	"github.com/zintix-labs/patternlab/stats"
	"golang.org/x/sync/errgroup"
)

// SweepOptions 一次 sweep 的參數。
type SweepOptions struct {
	Layouts      int  // 總共產生幾張 layout
	Workers      int  // 併發 worker 數（至少 1，超過 Layouts 時取 Layouts）
	Sequential   bool // true：第 i 張用 base+i；false：由 seed.Maker 派生
	ShowProgress bool // 顯示進度條
}

// Sweeper 以多個種子大量產生同一圖樣的 layout，並合併成一份統計報表。
//
// 第 i 張 layout 的種子只由 (base seed, i) 決定，與 worker 數無關，因此報表可重現。
type Sweeper struct {
	Name     string
	ID       setting.PID
	ps       *setting.PatternSetting
	reg      *gen.Registry
	log      *slog.Logger
	baseSeed int64
}

func newSweeper(ps *setting.PatternSetting, reg *gen.Registry, log *slog.Logger) (*Sweeper, error) {
	if ps == nil {
		return nil, errs.NewWarn("pattern setting is nil")
	}
	if err := ps.Init(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Sweeper{
		Name:     ps.Name,
		ID:       ps.ID,
		ps:       ps.Clone(),
		reg:      reg,
		log:      log,
		baseSeed: ps.SeedValue(),
	}, nil
}

func (s *Sweeper) BaseSeed() int64 { return s.baseSeed }

// SetBaseSeed 覆寫基準種子。
func (s *Sweeper) SetBaseSeed(v int64) { s.baseSeed = v }

// Seeds 回傳前 n 張 layout 使用的種子。
func (s *Sweeper) Seeds(n int, sequential bool) []int64 {
	out := make([]int64, n)
	if sequential {
		for i := range out {
			out[i] = s.baseSeed + int64(i)
		}
		return out
	}
	m := seed.NewMaker(s.baseSeed)
	for i := range out {
		out[i] = m.Next()
	}
	return out
}

// Sweep 平行產生 opt.Layouts 張 layout，合併統計後回傳報表與用時。
// ctx 取消時盡快停止並回傳錯誤。
func (s *Sweeper) Sweep(ctx context.Context, opt SweepOptions) (*stats.LayoutReport, time.Duration, error) {
	if opt.Layouts < 1 {
		return nil, 0, errs.NewWarn("layouts must > 0")
	}
	if opt.Workers < 1 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	workers := min(opt.Workers, opt.Layouts)
	seeds := s.Seeds(opt.Layouts, opt.Sequential)

	// 每個 worker 各自持有 Studio 與紀錄員，結束後再合併
	studios := make([]*Studio, workers)
	recs := make([]*recorder.LayoutRecorder, workers)
	for w := range workers {
		st, err := newStudio(s.ps, s.reg, s.log)
		if err != nil {
			return nil, 0, err
		}
		rec, err := recorder.NewLayoutRecorder(s.ps)
		if err != nil {
			return nil, 0, err
		}
		studios[w], recs[w] = st, rec
	}

	bar := pb.StartNew(opt.Layouts)
	if !opt.ShowProgress {
		bar.SetWriter(io.Discard)
	}
	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			st, rec := studios[w], recs[w]
			for i := w; i < len(seeds); i += workers {
				if err := gctx.Err(); err != nil {
					return errs.NewWarn("sweep canceled: " + err.Error())
				}
				st.SetSeed(seeds[i])
				figs, err := st.Generate()
				if err != nil {
					return errs.Wrap(err, "sweep generate failed")
				}
				rec.Record(figs)
				bar.Increment()
			}
			return nil
		})
	}
	err := g.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	if err != nil {
		return nil, used, err
	}

	merged, err := recorder.MergeLayoutRecorder(recs)
	if err != nil {
		return nil, used, err
	}
	report := merged.Done()
	s.log.Info("sweep done",
		slog.String("pattern", s.Name),
		slog.Int("layouts", opt.Layouts),
		slog.Int("workers", workers),
		slog.Duration("used", used),
	)
	return report, used, nil
}
