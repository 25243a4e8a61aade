//go:build linux && arm && !disablegpio

// This file binds Host to a BeagleBone Black: buttons through periph.io
// GPIO, the OLED through periph.io I2C and the ssd1306 driver, PWM through
// go-bbhw and the cape manager, the ADC through sysfs.  Build with the tag
// "disablegpio" to use hal_stub.go on the board instead.

package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/btittelbach/go-bbhw"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"
)

// pwmOverlay enables the AM335x PWM subsystem; each pin then needs its own
// bone_pwm_<pin> overlay.
const pwmOverlay = "am33xx_pwm"

// BBBHost is the hardware binding.
type BBBHost struct {
	*Framebuffer
	commandField

	cfg    Config
	bus    i2c.BusCloser
	oled   *ssd1306.Dev
	inputs map[Pin]gpio.PinIO
	pwms   map[Pin]*bbhw.PWMLine
}

// newHost initialises periph and opens the display.  A display that cannot
// be opened is logged and the framebuffer is kept in memory only.
func newHost(cfg Config) (HostCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	h := &BBBHost{
		cfg:    cfg,
		inputs: make(map[Pin]gpio.PinIO),
		pwms:   make(map[Pin]*bbhw.PWMLine),
	}
	var panel Panel
	if cfg.Display.Enabled {
		bus, err := i2creg.Open(cfg.Display.I2CBus)
		if err != nil {
			log.Printf("display disabled: i2c bus %q: %v", cfg.Display.I2CBus, err)
		} else {
			dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
			if err != nil {
				log.Printf("display disabled: ssd1306: %v", err)
				bus.Close()
			} else {
				h.bus = bus
				h.oled = dev
				panel = dev
			}
		}
	}
	h.Framebuffer = NewFramebuffer(panel)
	return h, nil
}

// input returns the periph pin for a button, configured as an input on
// first use.  Unknown pins are logged and read as LOW.
func (h *BBBHost) input(p Pin) gpio.PinIO {
	if in, ok := h.inputs[p]; ok {
		return in
	}
	var in gpio.PinIO
	name, err := gpioName(p)
	if err == nil {
		if in = gpioreg.ByName(name); in == nil {
			err = fmt.Errorf("%s: %s not registered", p, name)
		} else if err = in.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			in = nil
		}
	}
	if err != nil {
		log.Printf("digital read: %v", err)
	}
	h.inputs[p] = in
	return in
}

func (h *BBBHost) DigitalRead(bank Bank, pin int) Level {
	in := h.input(Pin{Bank: bank, Num: pin})
	if in == nil {
		return Low
	}
	return Level(in.Read() == gpio.High)
}

func (h *BBBHost) AnalogRead(ch AnalogChannel) int {
	v, err := ReadADC(h.cfg.Paths.ADC, ch)
	if err != nil {
		log.Printf("analog read AIN%d: %v", int(ch), err)
		return 0
	}
	return v
}

// loadOverlay adds a device tree overlay through the cape manager unless the
// slots file already lists it.
func loadOverlay(dto string) error {
	slots, err := bbhw.FindSlotsFile()
	if err != nil {
		return err
	}
	b, err := os.ReadFile(slots)
	if err != nil {
		return err
	}
	if bytes.Contains(b, []byte(dto)) {
		return nil
	}
	if err := bbhw.AddDeviceTreeOverlay(dto); err != nil {
		return fmt.Errorf("overlay %s: %w", dto, err)
	}
	// The pwm_test device appears shortly after the overlay is applied.
	time.Sleep(100 * time.Millisecond)
	return nil
}

// pwm returns the PWM line behind p, loading its overlays on first use.
func (h *BBBHost) pwm(p Pin) (*bbhw.PWMLine, error) {
	if l, ok := h.pwms[p]; ok {
		return l, nil
	}
	for _, dto := range []string{pwmOverlay, "bone_pwm_" + p.String()} {
		if err := loadOverlay(dto); err != nil {
			return nil, err
		}
	}
	l, err := bbhw.NewBBBPWM(p.String())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	l.SetPolarity(true)
	h.pwms[p] = l
	return l, nil
}

func (h *BBBHost) AnalogWrite(bank Bank, pin int, duty int) {
	p := Pin{Bank: bank, Num: pin}
	l, err := h.pwm(p)
	if err != nil {
		log.Printf("analog write %s: %v", p, err)
		return
	}
	l.SetPWM(analogPeriod, permilleDuty(analogPeriod, duty))
}

func (h *BBBHost) ServoWrite(bank Bank, pin int, degrees int) {
	p := Pin{Bank: bank, Num: pin}
	l, err := h.pwm(p)
	if err != nil {
		log.Printf("servo write %s: %v", p, err)
		return
	}
	l.SetPWM(servoPeriod, servoPulse(degrees))
}

// PinMux sets the pad function.  Mode 4 loads the pin's PWM overlay and
// starts it at zero duty; mode 7 drives the pad as a GPIO output at level.
// Pulls come from the device tree; a request it cannot honour is logged.
func (h *BBBHost) PinMux(bank Bank, pin int, mode PinMode, pull Pull, level Level) {
	p := Pin{Bank: bank, Num: pin}
	if pullMismatch(mode, pull) {
		log.Printf("pinmux %s: %s pads keep their device tree pull, %s ignored", p, mode, pull)
	}
	switch mode {
	case Mode4:
		l, err := h.pwm(p)
		if err != nil {
			log.Printf("pinmux %s: %v", p, err)
			return
		}
		l.SetPWM(analogPeriod, 0)
	case Mode7:
		name, err := gpioName(p)
		if err != nil {
			log.Printf("pinmux %v", err)
			return
		}
		out := gpioreg.ByName(name)
		if out == nil {
			log.Printf("pinmux %s: %s not registered", p, name)
			return
		}
		l := gpio.Low
		if level == High {
			l = gpio.High
		}
		if err := out.Out(l); err != nil {
			log.Printf("pinmux %s: %v", p, err)
		}
	default:
		log.Printf("pinmux %s: %s not supported", p, mode)
	}
}

func (h *BBBHost) Sleep(ms, ns int) { sleepFor(ms, ns) }

// Close stops the PWM outputs and blanks the display.
func (h *BBBHost) Close() error {
	for _, l := range h.pwms {
		l.DisablePWM()
	}
	if h.oled != nil {
		if err := h.oled.Halt(); err != nil {
			log.Printf("display halt: %v", err)
		}
	}
	if h.bus != nil {
		return h.bus.Close()
	}
	return nil
}
