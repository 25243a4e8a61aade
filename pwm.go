package main

import "time"

// Servo timing for hobby servos: 50 Hz frame, 0.5 ms to 2.5 ms pulse for 0
// to 180 degrees.
const (
	servoPeriod   = 20 * time.Millisecond
	servoMinPulse = 500 * time.Microsecond
	servoMaxPulse = 2500 * time.Microsecond
)

// analogPeriod is the PWM period used by AnalogWrite.  P8_13 and P8_19 are
// the two outputs of EHRPWM2 and share its time base, so the LED runs at the
// servo frame rate.
const analogPeriod = servoPeriod

// servoPulse converts an angle to a pulse width, clamping to [0, 180].
func servoPulse(degrees int) time.Duration {
	if degrees < 0 {
		degrees = 0
	}
	if degrees > 180 {
		degrees = 180
	}
	return servoMinPulse + (servoMaxPulse-servoMinPulse)*time.Duration(degrees)/180
}

// permilleDuty converts a duty in thousandths to a high time within period,
// clamping to [0, period].
func permilleDuty(period time.Duration, permille int) time.Duration {
	if permille < 0 {
		permille = 0
	}
	if permille > 1000 {
		permille = 1000
	}
	return period * time.Duration(permille) / 1000
}

// pullMismatch reports whether pull differs from what the board's device tree
// applies to a pad in mode.  The bone_pwm overlays configure their pads as
// mode 4 with pull-down; GPIO pads keep the pull of the loaded overlay, which
// cannot be changed at run time.
func pullMismatch(mode PinMode, pull Pull) bool {
	switch mode {
	case Mode4:
		return pull != PullDown
	default:
		return pull != PullNone
	}
}
