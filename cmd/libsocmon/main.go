// Command libsocmon builds the C shared library:
//
//	go build -buildmode=c-shared -o libsocmon.so ./cmd/libsocmon
//
// socmon_snapshot_json returns one JSON sample in a malloc'd buffer that the
// caller must release with socmon_free_string exactly once.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"unsafe"

	"github.com/Dicklesworthstone/socmon/internal/config"
	"github.com/Dicklesworthstone/socmon/internal/model"
	"github.com/Dicklesworthstone/socmon/internal/sampler"
	"github.com/Dicklesworthstone/socmon/internal/snapshot"
)

// exporter caches one collector across calls so delta-based sources stay
// primed between them.
type exporter struct {
	mu        sync.Mutex
	build     func() snapshot.Collector
	window    time.Duration
	collector snapshot.Collector
}

var lib = &exporter{build: defaultCollector, window: snapshot.DefaultWindow}

func defaultCollector() snapshot.Collector {
	cfg := config.Default()
	c, err := sampler.NewCollector(cfg.Sensors, cfg.ReadTimeout)
	if err != nil {
		slog.Warn("sensor table rejected", "error", err)
		c, _ = sampler.NewCollector(nil, cfg.ReadTimeout)
	}
	return c
}

// JSON never fails: internal errors degrade to an all-absent record.
// Only the first call waits a window to prime delta-based sources.
func (e *exporter) JSON() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx := context.Background()
	var s model.Sample
	if e.collector == nil {
		e.collector = e.build()
		s = snapshot.Take(ctx, e.collector, e.window)
	} else {
		s = e.collector.Collect(ctx)
	}
	b, err := snapshot.Marshal(s)
	if err != nil {
		slog.Warn("marshal snapshot", "error", err)
		b, _ = snapshot.Marshal(model.Zero())
	}
	return b
}

//export socmon_snapshot_json
func socmon_snapshot_json() *C.char {
	return C.CString(string(lib.JSON()))
}

//export socmon_free_string
func socmon_free_string(s *C.char) {
	if s == nil {
		return
	}
	C.free(unsafe.Pointer(s))
}

func main() {}
