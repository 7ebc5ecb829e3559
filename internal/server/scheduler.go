// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gorhill/cronexpr"

	"github.com/pdiddy/laborwatch/internal/digest"
)

// schedulerPoll is how often the scheduler checks whether the cron
// expression has come due. Runs are keyed to the minute, so one-minute
// resolution is enough.
const schedulerPoll = time.Minute

// Scheduler runs digest batches on a cron schedule and writes each result
// as a snapshot. A run that fails is logged and retried at the next firing;
// the scheduler itself never stops on error.
type Scheduler struct {
	assembler *digest.Assembler
	digestDir string
	expr      *cronexpr.Expression
	w         io.Writer
	stop      chan struct{}
}

// NewScheduler parses the cron spec and prepares a scheduler. An empty spec
// returns (nil, nil): scheduling disabled.
func NewScheduler(assembler *digest.Assembler, digestDir, cronSpec string, w io.Writer) (*Scheduler, error) {
	if cronSpec == "" {
		return nil, nil
	}
	expr, err := cronexpr.Parse(cronSpec)
	if err != nil {
		return nil, fmt.Errorf("parsing digest cron %q: %w", cronSpec, err)
	}
	if w == nil {
		w = io.Discard
	}
	return &Scheduler{
		assembler: assembler,
		digestDir: digestDir,
		expr:      expr,
		w:         w,
		stop:      make(chan struct{}),
	}, nil
}

// Start launches the scheduling loop in a goroutine.
func (s *Scheduler) Start() {
	go s.loop()
}

// Stop halts the loop. A digest run already in flight completes.
func (s *Scheduler) Stop() {
	close(s.stop)
}

func (s *Scheduler) loop() {
	next := s.expr.Next(time.Now())
	ticker := time.NewTicker(schedulerPoll)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			if now.Before(next) {
				continue
			}
			s.runOnce()
			next = s.expr.Next(now)
		}
	}
}

func (s *Scheduler) runOnce() {
	d, err := s.assembler.Run(context.Background())
	if err != nil {
		fmt.Fprintf(s.w, "warning: scheduled digest run failed: %v\n", err)
		return
	}
	path, err := digest.WriteSnapshot(s.digestDir, d)
	if err != nil {
		fmt.Fprintf(s.w, "warning: writing scheduled digest snapshot: %v\n", err)
		return
	}
	fmt.Fprintf(s.w, "digest %s written to %s (%d papers)\n", d.Week, path, len(d.Papers))
}
