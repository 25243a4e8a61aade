package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"time"
)

// Failure classes of a distance measurement.  Errors returned by
// PRURanger.Distance wrap exactly one of these.
var (
	ErrDriverInit    = errors.New("pru driver init failed")
	ErrEventOpen     = errors.New("pru event open failed")
	ErrInterruptInit = errors.New("pru interrupt controller init failed")
	ErrExec          = errors.New("pru firmware exec failed")
	ErrWait          = errors.New("pru event wait failed")
	ErrTeardown      = errors.New("pru teardown failed")
)

// Ranger measures a distance in centimetres.
type Ranger interface {
	Distance() (float64, error)
}

// PRUDriver is the co-processor subsystem as the ranger uses it: one
// method per driver step, in call order.
type PRUDriver interface {
	Init() error
	OpenEvent() error
	InitInterrupts() error
	// DataRAM returns PRU0 data RAM; valid until Exit.
	DataRAM() ([]byte, error)
	Exec(firmware string) error
	WaitEvent(timeout time.Duration) error
	ClearEvent() error
	Disable() error
	Exit() error
}

// echoCountToCM converts the HC-SR04 echo count stored by the firmware (in
// microseconds of round trip) to centimetres: half the round trip at
// 29.1 us/cm.
func echoCountToCM(count uint32) float64 {
	return float64(count) / 2.0 / 29.1
}

// PRURanger takes one HC-SR04 reading per call by running the ranging
// firmware on PRU0.  The subsystem is brought up and torn down on every
// call; nothing persists between readings.
type PRURanger struct {
	Driver   PRUDriver
	Firmware string
	Timeout  time.Duration
}

// NewPRURanger returns a ranger for the given driver and firmware image.
func NewPRURanger(drv PRUDriver, firmware string, timeout time.Duration) *PRURanger {
	return &PRURanger{Driver: drv, Firmware: firmware, Timeout: timeout}
}

// Distance runs the firmware once and returns the measured distance.  On a
// setup or wait failure it returns 0 and the wrapped cause.  Teardown
// failures are reported with ErrTeardown alongside the valid reading.
func (r *PRURanger) Distance() (float64, error) {
	d := r.Driver
	if err := d.Init(); err != nil {
		return r.fail(ErrDriverInit, err, false)
	}
	if err := d.OpenEvent(); err != nil {
		return r.fail(ErrEventOpen, err, true)
	}
	if err := d.InitInterrupts(); err != nil {
		return r.fail(ErrInterruptInit, err, true)
	}
	ram, err := d.DataRAM()
	if err != nil {
		return r.fail(ErrDriverInit, err, true)
	}
	if len(ram) < 4 {
		return r.fail(ErrDriverInit, fmt.Errorf("data RAM is %d bytes", len(ram)), true)
	}
	if err := d.Exec(r.Firmware); err != nil {
		return r.fail(ErrExec, err, true)
	}
	if err := d.WaitEvent(r.Timeout); err != nil {
		if derr := d.Disable(); derr != nil {
			log.Printf("pru disable failed: %v", derr)
		}
		return r.fail(ErrWait, err, true)
	}

	var teardown []error
	if err := d.ClearEvent(); err != nil {
		log.Printf("pru clear event failed: %v", err)
		teardown = append(teardown, err)
	}
	dist := echoCountToCM(binary.LittleEndian.Uint32(ram[0:4]))
	if err := d.Disable(); err != nil {
		log.Printf("pru disable failed: %v", err)
		teardown = append(teardown, err)
	}
	if err := d.Exit(); err != nil {
		log.Printf("pru exit failed: %v", err)
		teardown = append(teardown, err)
	}
	if len(teardown) > 0 {
		return dist, fmt.Errorf("%w: %w", ErrTeardown, errors.Join(teardown...))
	}
	return dist, nil
}

// fail logs the failed step and releases the driver if it was initialised.
func (r *PRURanger) fail(kind, cause error, release bool) (float64, error) {
	log.Printf("%v: %v", kind, cause)
	if release {
		if err := r.Driver.Exit(); err != nil {
			log.Printf("pru exit failed: %v", err)
		}
	}
	return 0, fmt.Errorf("%w: %w", kind, cause)
}

// usableReading reports whether a Distance result carries a measurement.
// Teardown failures happen after the firmware has written its result.
func usableReading(err error) bool {
	return err == nil || errors.Is(err, ErrTeardown)
}
