package main

import "fmt"

// showStatus draws the info screen: the HC-SR04 distance and the four
// analog inputs.
func (c *Controller) showStatus(h Host) {
	h.ClearDisplay()
	h.SetCursor(3*fontWidth, 0)
	h.WriteString("PERIPHERAL DRV.\n")

	h.SetCursor(0, fontHeight+8)

	dist := c.averageDistance()
	if dist > c.maxDistance {
		h.WriteString(fmt.Sprintf("DIST(HCSR04): >%1.1fm\n", c.maxDistance/100.0))
	} else {
		h.WriteString(fmt.Sprintf("DIST(HCSR04): %2.1fcm\n", dist))
	}

	h.WriteString(fmt.Sprintf("A0: %04d/4095\n", h.AnalogRead(A0)))
	h.WriteString(fmt.Sprintf("A1: %04d/4095 (T)\n", h.AnalogRead(A1)))
	h.WriteString(fmt.Sprintf("A2: %04d/4095\n", h.AnalogRead(A2)))
	h.WriteString(fmt.Sprintf("A3: %04d/4095\n", h.AnalogRead(A3)))

	h.UpdateDisplay()
}

// averageDistance takes c.samples readings.  A failed reading counts as 0 cm.
func (c *Controller) averageDistance() float64 {
	if c.ranger == nil || c.samples < 1 {
		return 0
	}
	var sum float64
	for i := 0; i < c.samples; i++ {
		d, err := c.ranger.Distance()
		if !usableReading(err) {
			c.events.Log(EventSensor, "distance unavailable: %v", err)
			d = 0
		}
		sum += d
	}
	return sum / float64(c.samples)
}
