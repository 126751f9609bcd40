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

package svrcfg

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/zintix-labs/patternlab"
	"github.com/zintix-labs/patternlab/errs"
	"github.com/zintix-labs/patternlab/server/logger"
)

type SvrCfg struct {
	Log            *slog.Logger
	Addr           string        // 監聽位址，空字串用 netsvr.DefaultAddr
	PoolSize       int           // 每個圖樣的 Studio 數，限制在 [1,10]
	SweepWorkers   int           // /v1/stat 的 worker 數，<= 0 時用 NumCPU
	RequestTimeout time.Duration // 單次產生的逾時，<= 0 時 5s
	SweepTimeout   time.Duration // 單次統計的逾時，<= 0 時 30s
	Lab            *patternlab.Patternlab
}

// Valid 檢查必要依賴並補上預設值。
func (sc *SvrCfg) Valid() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("async log handler is not ready")
		}
	} else {
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}
	sc.PoolSize = min(10, max(1, sc.PoolSize))
	if sc.SweepWorkers <= 0 {
		sc.SweepWorkers = runtime.NumCPU()
	}
	if sc.RequestTimeout <= 0 {
		sc.RequestTimeout = 5 * time.Second
	}
	if sc.SweepTimeout <= 0 {
		sc.SweepTimeout = 30 * time.Second
	}
	if sc.Lab == nil {
		return errs.NewFatal("patternlab is required")
	}
	return nil
}
