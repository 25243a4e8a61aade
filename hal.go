package main

import "time"

// This file defines the hardware abstraction the controller is driven
// through.  Two bindings exist: hal_bbb.go talks to a BeagleBone Black via
// periph.io and sysfs, and hal_stub.go renders to a terminal so the app can
// be exercised on a desktop machine.  The build tag "disablegpio" forces the
// stub on the board as well.

// Display is the drawing surface of the host.  Coordinates are pixels with
// the origin at the top left; WriteString honours embedded newlines.
type Display interface {
	ClearDisplay()
	SetCursor(x, y int)
	WriteString(s string)
	DrawLine(x0, y0, x1, y1 int, on bool)
	UpdateDisplay()
}

// Host is everything an app may use: display, pin I/O, cooperative sleep and
// the next-command field read by the scheduler after each Run.  I/O calls do
// not report errors; bindings log failures and carry on.
type Host interface {
	Display

	DigitalRead(bank Bank, pin int) Level
	AnalogRead(ch AnalogChannel) int
	// AnalogWrite sets the PWM duty in thousandths of the period.
	AnalogWrite(bank Bank, pin int, duty int)
	ServoWrite(bank Bank, pin int, degrees int)
	PinMux(bank Bank, pin int, mode PinMode, pull Pull, level Level)

	Sleep(ms, ns int)

	SetCommand(cmd Command)
	Command() Command
}

// App is the lifecycle contract the scheduler drives.
type App interface {
	Init(h Host)
	Run(h Host)
	Clean(h Host)
}

// HostCloser is a Host that owns hardware handles.
type HostCloser interface {
	Host
	Close() error
}

// commandField is the next-command slot shared by the bindings.
type commandField struct {
	cmd Command
}

func (f *commandField) SetCommand(cmd Command) { f.cmd = cmd }
func (f *commandField) Command() Command       { return f.cmd }

// sleepFor is the cooperative sleep both bindings use.
func sleepFor(ms, ns int) {
	time.Sleep(time.Duration(ms)*time.Millisecond + time.Duration(ns))
}
