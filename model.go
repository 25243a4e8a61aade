package main

import "fmt"

// Level is the logic level of a digital pin.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "HIGH"
	}
	return "LOW"
}

// Bank identifies one of the two expansion headers on the BeagleBone Black.
type Bank int

const (
	P8 Bank = 8
	P9 Bank = 9
)

// Pin is a physical header pin.  Pins are addressed by bank and position,
// e.g. {P8, 13} is the pin printed as P8_13 on the board.
type Pin struct {
	Bank Bank
	Num  int
}

// String returns the header name used by the pinmux helper and config file.
func (p Pin) String() string {
	return fmt.Sprintf("P%d_%d", int(p.Bank), p.Num)
}

// ParsePin parses a header name such as "P8_13".
func ParsePin(name string) (Pin, error) {
	var bank, num int
	if _, err := fmt.Sscanf(name, "P%d_%d", &bank, &num); err != nil {
		return Pin{}, fmt.Errorf("invalid pin name %q: %w", name, err)
	}
	if bank != int(P8) && bank != int(P9) {
		return Pin{}, fmt.Errorf("invalid pin name %q: unknown header P%d", name, bank)
	}
	if num < 1 || num > 46 {
		return Pin{}, fmt.Errorf("invalid pin name %q: position out of range", name)
	}
	return Pin{Bank: Bank(bank), Num: num}, nil
}

// PinMode is the AM335x pad mux mode.  Only the modes this app asks for are
// named; mode 4 routes P8_13 and P8_19 to the EHRPWM2 outputs.
type PinMode int

const (
	Mode0 PinMode = 0
	Mode4 PinMode = 4
	Mode7 PinMode = 7 // GPIO
)

func (m PinMode) String() string { return fmt.Sprintf("mode%d", int(m)) }

// Pull selects the internal pull resistor of a pad.
type Pull int

const (
	PullNone Pull = iota
	PullDown
	PullUp
)

func (p Pull) String() string {
	switch p {
	case PullNone:
		return "no-pull"
	case PullDown:
		return "pull-down"
	case PullUp:
		return "pull-up"
	default:
		return fmt.Sprintf("pull(%d)", int(p))
	}
}

// AnalogChannel is one of the AIN inputs of the on-chip ADC.
type AnalogChannel int

const (
	A0 AnalogChannel = iota
	A1
	A2
	A3
)

// AnalogMax is the full-scale reading of the 12-bit ADC.
const AnalogMax = 4095

// Command is written into the host's next-command field by Run.  The numeric
// values are the ones the framework scheduler understands.
type Command int

const (
	CommandNone        Command = 0
	CommandSystemMenu  Command = 1
	CommandIdleTimeout Command = 2
	CommandNextApp     Command = 6
)

func (c Command) String() string {
	switch c {
	case CommandNone:
		return "none"
	case CommandSystemMenu:
		return "system-menu"
	case CommandIdleTimeout:
		return "idle-timeout"
	case CommandNextApp:
		return "next-app"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// Handoff reports whether the command passes control to another app.
func (c Command) Handoff() bool {
	return c == CommandIdleTimeout || c == CommandNextApp
}

// Process exit statuses.  Commands are offset so they never collide with
// ExitError, which is what a failed start-up or reading exits with.
const (
	ExitOK          = 0
	ExitError       = 1
	exitCommandBase = 10
)

// ExitCode returns the process exit status that reports c to the launcher:
// 0 for none, 10 plus the command code otherwise (11 system menu, 12 idle
// timeout, 16 next app).
func (c Command) ExitCode() int {
	if c == CommandNone {
		return ExitOK
	}
	return exitCommandBase + int(c)
}

// MenuEntry indexes the six entries of the app menu.
type MenuEntry int

const (
	MenuNextApp MenuEntry = iota
	MenuSystem
	MenuUpdateInfo
	MenuPWM1
	MenuPWM2
	MenuExit

	menuEntryCount
)

var menuLabels = [menuEntryCount]string{
	MenuNextApp:    "SPARK CORE APP",
	MenuSystem:     "SYSTEM UTILS",
	MenuUpdateInfo: "UPDATE INFO",
	MenuPWM1:       "P8:13 PWM(LED)",
	MenuPWM2:       "P8:19 PWM(SERVO)",
	MenuExit:       "EXIT MENU",
}

func (m MenuEntry) String() string {
	if m < 0 || m >= menuEntryCount {
		return fmt.Sprintf("entry(%d)", int(m))
	}
	return menuLabels[m]
}

// next advances the entry, wrapping after the last one.
func (m MenuEntry) next() MenuEntry {
	return (m + 1) % menuEntryCount
}
