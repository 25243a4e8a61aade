//go:build !linux || !arm || disablegpio

// This file provides a desktop Host: the display is printed to standard
// output as ASCII art, buttons read LOW and analog inputs read 0.  It lets
// the app and its scheduler run without BeagleBone hardware.

package main

import (
	"log"
	"os"
)

// StubHost is the desktop binding.
type StubHost struct {
	*Framebuffer
	commandField
}

func newHost(cfg Config) (HostCloser, error) {
	var panel Panel
	if cfg.Display.Enabled {
		panel = TextPanel{W: os.Stdout}
	}
	return &StubHost{Framebuffer: NewFramebuffer(panel)}, nil
}

func (h *StubHost) DigitalRead(bank Bank, pin int) Level { return Low }

func (h *StubHost) AnalogRead(ch AnalogChannel) int { return 0 }

func (h *StubHost) AnalogWrite(bank Bank, pin int, duty int) {
	log.Printf("pwm %s high %v of %v", Pin{Bank: bank, Num: pin}, permilleDuty(analogPeriod, duty), analogPeriod)
}

func (h *StubHost) ServoWrite(bank Bank, pin int, degrees int) {
	log.Printf("servo %s at %d degrees (%v pulse)", Pin{Bank: bank, Num: pin}, degrees, servoPulse(degrees))
}

func (h *StubHost) PinMux(bank Bank, pin int, mode PinMode, pull Pull, level Level) {
	p := Pin{Bank: bank, Num: pin}
	log.Printf("pinmux %s %s %s %s", p, mode, pull, level)
	if pullMismatch(mode, pull) {
		log.Printf("pinmux %s: the board would keep its device tree pull", p)
	}
}

func (h *StubHost) Sleep(ms, ns int) { sleepFor(ms, ns) }

func (h *StubHost) Close() error { return nil }
