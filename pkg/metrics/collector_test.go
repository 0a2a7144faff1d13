// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-passkey.
//
// go-passkey is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectOnce(t *testing.T) {
	Enable()

	CollectOnce()

	if testutil.CollectAndCount(Goroutines) == 0 {
		t.Error("Expected goroutine gauge to be collected")
	}
	if testutil.CollectAndCount(MemoryAllocBytes) == 0 {
		t.Error("Expected memory alloc gauge to be collected")
	}
	if testutil.CollectAndCount(MemorySysBytes) == 0 {
		t.Error("Expected memory sys gauge to be collected")
	}

	if v := testutil.ToFloat64(Goroutines); v <= 0 {
		t.Errorf("Expected positive goroutine count, got %f", v)
	}
}

func TestResourceCollector_StartStop(t *testing.T) {
	Enable()

	collector := NewResourceCollector(context.Background(), 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		collector.Start()
		close(done)
	}()

	// Let it collect at least once
	time.Sleep(30 * time.Millisecond)
	collector.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Collector did not stop after Stop()")
	}

	if testutil.CollectAndCount(ServerUptime) == 0 {
		t.Error("Expected uptime gauge to be collected")
	}
}

func TestResourceCollector_ParentContextCancel(t *testing.T) {
	Enable()

	ctx, cancel := context.WithCancel(context.Background())
	collector := StartResourceCollector(ctx, 10*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	cancel()

	// Stop is idempotent after parent cancellation.
	collector.Stop()
}
