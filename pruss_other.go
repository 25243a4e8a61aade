//go:build !linux

package main

import (
	"errors"
	"time"
)

var errNoPRUSS = errors.New("PRU subsystem is only available on linux")

// PRUSS is unavailable off linux; every step fails at Init.
type PRUSS struct{}

func NewPRUSS(event int) *PRUSS { return &PRUSS{} }

func (*PRUSS) Init() error                   { return errNoPRUSS }
func (*PRUSS) OpenEvent() error              { return errNoPRUSS }
func (*PRUSS) InitInterrupts() error         { return errNoPRUSS }
func (*PRUSS) DataRAM() ([]byte, error)      { return nil, errNoPRUSS }
func (*PRUSS) Exec(string) error             { return errNoPRUSS }
func (*PRUSS) WaitEvent(time.Duration) error { return errNoPRUSS }
func (*PRUSS) ClearEvent() error             { return errNoPRUSS }
func (*PRUSS) Disable() error                { return errNoPRUSS }
func (*PRUSS) Exit() error                   { return nil }
