package main

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeHost records every call and returns scripted input levels.
type fakeHost struct {
	commandField

	calls   []string
	levels  map[Pin]Level
	queued  map[Pin][]Level
	analog  [4]int
	duties  []int
	angles  []int
	sleptMS int
	text    strings.Builder
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		levels: make(map[Pin]Level),
		queued: make(map[Pin][]Level),
	}
}

func (h *fakeHost) record(format string, args ...any) {
	h.calls = append(h.calls, fmt.Sprintf(format, args...))
}

// set changes the level a pin reads from now on.
func (h *fakeHost) set(p Pin, l Level) { h.levels[p] = l }

// queue makes the next reads of p return ls, one per read, before falling
// back to the level set with set.
func (h *fakeHost) queue(p Pin, ls ...Level) { h.queued[p] = append(h.queued[p], ls...) }

// displayCalls returns the recorded calls that touch the display.
func (h *fakeHost) displayCalls() []string {
	var out []string
	for _, c := range h.calls {
		if !strings.HasPrefix(c, "DigitalRead") {
			out = append(out, c)
		}
	}
	return out
}

func (h *fakeHost) reset() {
	h.calls = nil
	h.duties = nil
	h.angles = nil
	h.sleptMS = 0
	h.text.Reset()
}

func (h *fakeHost) ClearDisplay()      { h.record("ClearDisplay") }
func (h *fakeHost) SetCursor(x, y int) { h.record("SetCursor(%d,%d)", x, y) }
func (h *fakeHost) WriteString(s string) {
	h.record("WriteString(%q)", s)
	h.text.WriteString(s)
}
func (h *fakeHost) DrawLine(x0, y0, x1, y1 int, on bool) {
	h.record("DrawLine(%d,%d,%d,%d,%t)", x0, y0, x1, y1, on)
}
func (h *fakeHost) UpdateDisplay() { h.record("UpdateDisplay") }

func (h *fakeHost) DigitalRead(bank Bank, pin int) Level {
	p := Pin{Bank: bank, Num: pin}
	h.record("DigitalRead(%s)", p)
	if q := h.queued[p]; len(q) > 0 {
		h.queued[p] = q[1:]
		return q[0]
	}
	return h.levels[p]
}

func (h *fakeHost) AnalogRead(ch AnalogChannel) int {
	h.record("AnalogRead(%d)", int(ch))
	return h.analog[ch]
}

func (h *fakeHost) AnalogWrite(bank Bank, pin int, duty int) {
	h.record("AnalogWrite(%s,%d)", Pin{Bank: bank, Num: pin}, duty)
	h.duties = append(h.duties, duty)
}

func (h *fakeHost) ServoWrite(bank Bank, pin int, degrees int) {
	h.record("ServoWrite(%s,%d)", Pin{Bank: bank, Num: pin}, degrees)
	h.angles = append(h.angles, degrees)
}

func (h *fakeHost) PinMux(bank Bank, pin int, mode PinMode, pull Pull, level Level) {
	h.record("PinMux(%s,%d,%d,%s)", Pin{Bank: bank, Num: pin}, int(mode), int(pull), level)
}

func (h *fakeHost) Sleep(ms, ns int) {
	h.record("Sleep(%d)", ms)
	h.sleptMS += ms
}

// fakeClock is advanced by hand.
type fakeClock struct{ now time.Duration }

func (c *fakeClock) Now() time.Duration      { return c.now }
func (c *fakeClock) advance(d time.Duration) { c.now += d }
func (c *fakeClock) set(ms int)              { c.now = time.Duration(ms) * time.Millisecond }

// fakeRanger returns scripted readings in order, repeating the last one.
type fakeRanger struct {
	readings []float64
	err      error
	calls    int
}

func (r *fakeRanger) Distance() (float64, error) {
	r.calls++
	if r.err != nil {
		return 0, r.err
	}
	if len(r.readings) == 0 {
		return 0, nil
	}
	i := r.calls - 1
	if i >= len(r.readings) {
		i = len(r.readings) - 1
	}
	return r.readings[i], nil
}

// testEnv is a controller wired to fakes, with the default pin layout.
type testEnv struct {
	ctrl   *Controller
	host   *fakeHost
	clock  *fakeClock
	ranger *fakeRanger
	menu   Pin
	exec   Pin
}

func newTestEnv(t *testing.T, mutate ...func(*Config)) *testEnv {
	t.Helper()
	cfg := DefaultConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	ranger := &fakeRanger{readings: []float64{42.0}}
	ctrl, err := NewController(cfg, ranger, nil)
	require.NoError(t, err)
	clock := &fakeClock{now: time.Second}
	ctrl.clock = clock
	return &testEnv{
		ctrl:   ctrl,
		host:   newFakeHost(),
		clock:  clock,
		ranger: ranger,
		menu:   Pin{Bank: P9, Num: 12},
		exec:   Pin{Bank: P9, Num: 15},
	}
}

// hold sets p HIGH, lets enough time pass for the action gate and runs one
// cycle.
func (e *testEnv) hold(p Pin) {
	e.host.set(p, High)
	e.clock.advance(250 * time.Millisecond)
	e.ctrl.Run(e.host)
}

// release sets p LOW and runs one cycle.
func (e *testEnv) release(p Pin) {
	e.host.set(p, Low)
	e.ctrl.Run(e.host)
}

func (e *testEnv) press(p Pin) {
	e.hold(p)
	e.release(p)
}

// openMenuAt enters the menu and advances until index is highlighted.
func (e *testEnv) openMenuAt(t *testing.T, index MenuEntry) {
	t.Helper()
	e.press(e.menu)
	require.True(t, e.ctrl.State().InMenu)
	for e.ctrl.State().MenuIndex != index {
		e.press(e.menu)
	}
}
