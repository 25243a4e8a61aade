package main

import (
	"fmt"
	"time"
)

// Clock is a monotonic time source.
type Clock interface {
	Now() time.Duration
}

type monotonicClock struct{ start time.Time }

func (c monotonicClock) Now() time.Duration { return time.Since(c.start) }

// Controller is the peripheral demo app.  All state lives here and is reset
// by Init; the host is passed into every lifecycle call.
type Controller struct {
	ranger Ranger
	clock  Clock
	events *EventLogger

	menuPin Pin
	execPin Pin
	pwm1    Pin
	pwm2    Pin

	idleMax     uint
	minAction   time.Duration
	samples     int
	maxDistance float64

	menuButton Level
	execButton Level
	idleCount  uint
	menuIndex  MenuEntry
	inMenu     bool
	lastAction time.Duration
	acted      bool
}

// NewController builds the app from cfg.  ranger supplies the distance shown
// on the status screen; events may be nil.
func NewController(cfg Config, ranger Ranger, events *EventLogger) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pins := make([]Pin, 4)
	for i, name := range []string{cfg.Pins.MenuButton, cfg.Pins.ExecButton, cfg.Pins.PWM1, cfg.Pins.PWM2} {
		p, err := ParsePin(name)
		if err != nil {
			return nil, err
		}
		pins[i] = p
	}
	return &Controller{
		ranger:      ranger,
		clock:       monotonicClock{start: time.Now()},
		events:      events,
		menuPin:     pins[0],
		execPin:     pins[1],
		pwm1:        pins[2],
		pwm2:        pins[3],
		idleMax:     cfg.Timing.IdleMax,
		minAction:   time.Duration(cfg.Timing.MinActionInterval) * time.Millisecond,
		samples:     cfg.Ranger.Samples,
		maxDistance: cfg.Ranger.MaxDistanceCM,
		menuIndex:   MenuSystem,
	}, nil
}

// Init prepares the PWM pins, latches the current button levels and shows
// the status screen.  If the menu button is still held from the previous
// app, Init waits for it to be released so the press is not taken as a menu
// request.
func (c *Controller) Init(h Host) {
	h.PinMux(c.pwm1.Bank, c.pwm1.Num, Mode4, PullDown, Low)
	h.PinMux(c.pwm2.Bank, c.pwm2.Num, Mode4, PullDown, Low)

	c.menuButton = h.DigitalRead(c.menuPin.Bank, c.menuPin.Num)
	c.execButton = h.DigitalRead(c.execPin.Bank, c.execPin.Num)
	c.idleCount = 0
	c.menuIndex = MenuSystem
	c.inMenu = false
	c.lastAction = 0
	c.acted = false

	for c.menuButton == High {
		h.Sleep(100, 0)
		c.menuButton = h.DigitalRead(c.menuPin.Bank, c.menuPin.Num)
	}

	c.showStatus(h)
}

// Clean has nothing to release.
func (c *Controller) Clean(h Host) {}

// Run performs one poll cycle: sample both buttons, count idle cycles and
// act on the menu.  The host inspects its command field afterwards.
func (c *Controller) Run(h Host) {
	c.menuButton = c.debounce(h, c.menuPin, c.menuButton)
	c.execButton = c.debounce(h, c.execPin, c.execButton)

	if c.menuButton != High && c.execButton != High {
		c.idleCount++
		if c.idleCount > c.idleMax {
			if c.idleCount == c.idleMax+1 {
				c.events.Log(EventApp, "idle for %d cycles, handing off", c.idleCount)
			}
			h.SetCommand(CommandIdleTimeout)
		}
		return
	}

	if c.menuButton == High {
		if c.inMenu {
			if c.canAction() {
				c.menuIndex = c.menuIndex.next()
				c.showMenu(h)
			}
		} else {
			c.inMenu = true
			c.showMenu(h)
			c.canAction()
			c.events.Log(EventMenu, "opened")
		}
	}

	if c.execButton == High && c.inMenu && c.canAction() {
		c.execute(h)
	}
}

// execute dispatches on the highlighted entry.
func (c *Controller) execute(h Host) {
	entry := c.menuIndex
	c.events.Log(EventMenu, "select %q", entry)
	switch entry {
	case MenuNextApp:
		h.SetCommand(CommandNextApp)
	case MenuSystem:
		h.SetCommand(CommandSystemMenu)
	case MenuUpdateInfo, MenuExit:
		c.inMenu = false
		c.showStatus(h)
	case MenuPWM1:
		c.inMenu = false
		c.pulseLED(h)
		c.showStatus(h)
	case MenuPWM2:
		c.inMenu = false
		c.sweepServo(h)
		c.showStatus(h)
	}
}

// debounce samples pin and returns the new debounced level.  The level only
// changes on an edge, and an edge counts as activity.
func (c *Controller) debounce(h Host, p Pin, state Level) Level {
	sample := h.DigitalRead(p.Bank, p.Num)
	if sample != state {
		c.idleCount = 0
		return sample
	}
	return state
}

// canAction rate limits menu actions.  An action is allowed once more than
// minAction has passed since the last allowed one; allowing it moves the
// baseline to now.
func (c *Controller) canAction() bool {
	now := c.clock.Now()
	if c.acted && now-c.lastAction <= c.minAction {
		return false
	}
	c.lastAction = now
	c.acted = true
	return true
}

// State is a snapshot of the controller for diagnostics and tests.
type State struct {
	MenuButton Level
	ExecButton Level
	IdleCount  uint
	MenuIndex  MenuEntry
	InMenu     bool
}

func (s State) String() string {
	return fmt.Sprintf("menu=%s exec=%s idle=%d index=%d in_menu=%t",
		s.MenuButton, s.ExecButton, s.IdleCount, int(s.MenuIndex), s.InMenu)
}

// State returns the current controller state.
func (c *Controller) State() State {
	return State{
		MenuButton: c.menuButton,
		ExecButton: c.execButton,
		IdleCount:  c.idleCount,
		MenuIndex:  c.menuIndex,
		InMenu:     c.inMenu,
	}
}
