package main

import (
	"context"
	"fmt"
	"time"
)

// Scheduler drives an App the way the framework's main loop does: Init
// once, Run on every tick until the app writes a command, then Clean.  The
// app never owns the cadence.
type Scheduler struct {
	Interval time.Duration
	MaxPolls int // 0 runs until a command or cancellation
	Events   *EventLogger

	sleep func(ctx context.Context, d time.Duration) error
}

// NewScheduler returns a scheduler polling at interval.
func NewScheduler(interval time.Duration, events *EventLogger) *Scheduler {
	return &Scheduler{Interval: interval, Events: events, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run executes the app lifecycle on h and returns the command that ended it.
// It returns CommandNone when MaxPolls is reached or ctx is cancelled between
// cycles.  A cycle in progress, including a demo, is never interrupted.
func (s *Scheduler) Run(ctx context.Context, app App, h Host) Command {
	sleep := s.sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	h.SetCommand(CommandNone)
	app.Init(h)
	defer app.Clean(h)
	s.Events.Log(EventApp, "started")

	for n := 0; s.MaxPolls == 0 || n < s.MaxPolls; n++ {
		h.SetCommand(CommandNone)
		app.Run(h)
		if cmd := h.Command(); cmd != CommandNone {
			s.Events.Log(EventApp, "finished with %s after %d cycles; %s", cmd, n+1, s.summary())
			return cmd
		}
		if err := sleep(ctx, s.Interval); err != nil {
			s.Events.Log(EventApp, "stopped: %v; %s", err, s.summary())
			return CommandNone
		}
	}
	s.Events.Log(EventApp, "stopped after %d cycles; %s", s.MaxPolls, s.summary())
	return CommandNone
}

// summary reports the events counted during the run.
func (s *Scheduler) summary() string {
	return fmt.Sprintf("%d menu events, %d demos, %d failed readings",
		s.Events.Count(EventMenu), s.Events.Count(EventDemo), s.Events.Count(EventSensor))
}
