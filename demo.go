package main

// LED pulse parameters: duty is in thousandths of the PWM period.
const (
	pulseResolution = 1000
	pulseCount      = 10
	pulseSteps      = 10
	pulseStepMS     = 80
)

// pulseLED fades the LED on PWM1 up and down pulseCount times, then turns it
// off.  It blocks for the whole animation.
func (c *Controller) pulseLED(h Host) {
	h.ClearDisplay()
	h.SetCursor(0, 3*fontHeight)
	h.WriteString("    PWM ON P8:13")
	h.SetCursor(0, 4*fontHeight+2)
	h.WriteString("    PULSING LED")
	h.UpdateDisplay()

	c.events.Log(EventDemo, "LED pulse on %s", c.pwm1)
	delta := pulseResolution / pulseSteps
	for j := 0; j < pulseCount; j++ {
		for i := 0; i < pulseSteps; i++ {
			h.AnalogWrite(c.pwm1.Bank, c.pwm1.Num, delta*(i+1))
			h.Sleep(pulseStepMS, 0)
		}
		for i := 0; i < pulseSteps; i++ {
			h.AnalogWrite(c.pwm1.Bank, c.pwm1.Num, pulseResolution-delta*(i+1))
			h.Sleep(pulseStepMS, 0)
		}
	}
	h.AnalogWrite(c.pwm1.Bank, c.pwm1.Num, 0)
	h.Sleep(100, 0)
}

// servoStep is one set-point of the servo choreography.
type servoStep struct {
	degrees int
	holdMS  int
}

var (
	servoSettle = []servoStep{{82, 800}, {30, 800}, {150, 800}, {0, 500}}
	servoFinale = []servoStep{{0, 800}, {180, 800}, {82, 800}, {0, 500}}
)

// sweepServo runs the servo on PWM2 through a fixed routine: three set-points,
// a rest at 0, a slow sweep to 180 in 2 degree steps, then the extremes.  It
// blocks for the whole routine.
func (c *Controller) sweepServo(h Host) {
	h.ClearDisplay()
	h.SetCursor(0, 3*fontHeight)
	h.WriteString("    PWM ON P8:19")
	h.SetCursor(0, 4*fontHeight+2)
	h.WriteString("    SERVO CONTRL")
	h.UpdateDisplay()

	c.events.Log(EventDemo, "servo sweep on %s", c.pwm2)
	c.servoSteps(h, servoSettle)
	for deg := 0; deg <= 180; deg += 2 {
		h.ServoWrite(c.pwm2.Bank, c.pwm2.Num, deg)
		h.Sleep(20, 0)
	}
	c.servoSteps(h, servoFinale)
}

func (c *Controller) servoSteps(h Host, steps []servoStep) {
	for _, s := range steps {
		h.ServoWrite(c.pwm2.Bank, c.pwm2.Num, s.degrees)
		h.Sleep(s.holdMS, 0)
	}
}
