//go:build linux

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/aamcrae/pru"
)

// pru.DefaultConfig routes system events 18 to 25 through channels 2 to 9 to
// the host.  The ranging firmware raises 19 (PRU0_ARM_INTERRUPT).
const (
	firstHostEvent = 18
	lastHostEvent  = 25
)

type eventSource interface {
	SetHandler(func())
}

// PRUSS sequences PRU0 through github.com/aamcrae/pru.  The library owns the
// uio mapping and the interrupt controller.
type PRUSS struct {
	event int

	close   func()
	lookup  func(id int) eventSource
	ram     []byte
	run     func(file string) error
	running func() bool

	source eventSource
	fired  chan struct{}
}

// NewPRUSS returns a driver waiting on the given system event.
func NewPRUSS(event int) *PRUSS {
	return &PRUSS{event: event}
}

func (s *PRUSS) Init() error {
	p, err := pru.Open(pru.DefaultConfig)
	if err != nil {
		return err
	}
	u := p.Unit(0)
	s.close = func() { p.Close() }
	s.lookup = func(id int) eventSource {
		if e := p.Event(id); e != nil {
			return e
		}
		return nil
	}
	s.ram = u.Ram
	s.run = u.LoadAndRunFile
	s.running = u.IsRunning
	s.fired = make(chan struct{}, 1)
	return nil
}

func (s *PRUSS) OpenEvent() error {
	if s.event < firstHostEvent || s.event > lastHostEvent {
		return fmt.Errorf("system event %d is not routed to the host", s.event)
	}
	s.source = s.lookup(s.event)
	if s.source == nil {
		return fmt.Errorf("system event %d unavailable", s.event)
	}
	return nil
}

// InitInterrupts installs the handler that WaitEvent listens to.  The
// library has already programmed the interrupt controller in Init.
func (s *PRUSS) InitInterrupts() error {
	if s.source == nil {
		return errors.New("no event open")
	}
	fired := s.fired
	s.source.SetHandler(func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	return nil
}

func (s *PRUSS) DataRAM() ([]byte, error) {
	if s.ram == nil {
		return nil, errors.New("PRU0 data RAM not mapped")
	}
	return s.ram, nil
}

func (s *PRUSS) Exec(firmware string) error {
	return s.run(firmware)
}

// WaitEvent blocks until the firmware raises the event.  A zero timeout
// waits forever.
func (s *PRUSS) WaitEvent(timeout time.Duration) error {
	if timeout <= 0 {
		<-s.fired
		return nil
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-s.fired:
		return nil
	case <-t.C:
		return fmt.Errorf("no event %d within %v", s.event, timeout)
	}
}

// ClearEvent drops a pending notification.  The library acknowledges the
// event in the interrupt controller before calling the handler.
func (s *PRUSS) ClearEvent() error {
	select {
	case <-s.fired:
	default:
	}
	return nil
}

// Disable checks that PRU0 has halted.  The firmware halts itself after
// raising the event; Exit stops the unit in any case.
func (s *PRUSS) Disable() error {
	if s.running != nil && s.running() {
		return errors.New("PRU0 still running")
	}
	return nil
}

func (s *PRUSS) Exit() error {
	if s.close == nil {
		return nil
	}
	s.close()
	*s = PRUSS{event: s.event}
	return nil
}
