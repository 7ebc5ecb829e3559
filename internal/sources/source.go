// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources wraps the external data providers the discovery pipeline
// fans out to. Each adapter queries one provider with a small fixed set of
// topical searches, respects that provider's rate limit between sequential
// requests, and normalizes responses into types.ResearchItem. A provider
// failure is contained at the adapter boundary and contributes zero results.
package sources

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pdiddy/laborwatch/pkg/types"
)

// Source is one external data provider.
type Source interface {
	Name() string
	Kind() types.SourceKind

	// Enabled reports whether the adapter has the credentials it needs.
	// Disabled adapters are skipped without logging: absence of an
	// optional key is normal operation, not an error.
	Enabled() bool

	// Discover returns up to limit normalized items. Transient failures
	// are returned as errors and contained by the caller.
	Discover(ctx context.Context, limit int) ([]types.ResearchItem, error)
}

// FanOutResult holds the settled output of one discovery fan-out.
type FanOutResult struct {
	Items []types.ResearchItem

	// Queried counts enabled sources that were invoked; Errors holds one
	// message per failed source.
	Queried int
	Errors  []string
}

// AllFailed reports whether every queried source errored, which callers
// surface as total upstream unavailability.
func (r FanOutResult) AllFailed() bool {
	return r.Queried > 0 && len(r.Errors) == r.Queried
}

// DiscoverAll invokes every enabled source concurrently and waits for all of
// them to settle. Each call runs under its own timeout so a hung provider
// cannot stall the join. A failing source logs a warning to w and
// contributes nothing; siblings are never cancelled. There is no retry
// within a run.
func DiscoverAll(ctx context.Context, srcs []Source, limit int, timeout time.Duration, w io.Writer) FanOutResult {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	type settled struct {
		name  string
		items []types.ResearchItem
		err   error
	}

	var enabled []Source
	for _, s := range srcs {
		if s.Enabled() {
			enabled = append(enabled, s)
		}
	}

	ch := make(chan settled, len(enabled))
	var wg sync.WaitGroup
	for _, s := range enabled {
		wg.Add(1)
		go func(s Source) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			items, err := s.Discover(callCtx, limit)
			ch <- settled{name: s.Name(), items: items, err: err}
		}(s)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	out := FanOutResult{Queried: len(enabled)}
	for st := range ch {
		if st.err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("%s: %v", st.name, st.err))
			fmt.Fprintf(w, "warning: source %s failed: %v\n", st.name, st.err)
			continue
		}
		out.Items = append(out.Items, st.items...)
	}
	return out
}
