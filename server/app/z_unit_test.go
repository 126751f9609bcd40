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

package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

type comp struct {
	RunFn      func() error
	ShutdownFn func(ctx context.Context) error
}

func (c comp) Run() error {
	if c.RunFn == nil {
		return nil
	}
	return c.RunFn()
}

func (c comp) Shutdown(ctx context.Context) error {
	if c.ShutdownFn == nil {
		return nil
	}
	return c.ShutdownFn(ctx)
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRunStopsWhenComponentExits(t *testing.T) {
	block := make(chan struct{})
	var order []string
	a := NewWith(quiet(),
		comp{
			RunFn:      func() error { <-block; return nil },
			ShutdownFn: func(context.Context) error { order = append(order, "first"); close(block); return nil },
		},
		comp{
			ShutdownFn: func(context.Context) error { order = append(order, "second"); return nil },
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	// 第二個元件的 Run 立即回傳 nil，App 應隨之關閉
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run err: %v", err)
		}
	case <-time.After(2 * time.Second):
		cancel()
		t.Fatalf("Run did not return")
	}
	cancel()
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Fatalf("shutdown order=%v", order)
	}
}

func TestRunReturnsComponentError(t *testing.T) {
	boom := errors.New("boom")
	a := NewWith(quiet(), comp{RunFn: func() error { return boom }})
	if err := a.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
}

func TestRunCanceledContext(t *testing.T) {
	stop := make(chan struct{})
	a := NewWith(quiet(), comp{
		RunFn:      func() error { <-stop; return nil },
		ShutdownFn: func(context.Context) error { close(stop); return nil },
	})
	a.SetShutdownTimeout(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run err: %v", err)
	}
}
