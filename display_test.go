package main

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPanel struct {
	frames []image.Rectangle
	lit    int
}

func (p *recordingPanel) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	p.frames = append(p.frames, r)
	p.lit = 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if r, _, _, _ := src.At(x, y).RGBA(); r != 0 {
				p.lit++
			}
		}
	}
	return nil
}

func litIn(fb *Framebuffer, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if fb.Pixel(x, y) {
				n++
			}
		}
	}
	return n
}

func TestFramebufferDrawLine(t *testing.T) {
	fb := NewFramebuffer(nil)

	fb.DrawLine(49, 6, 127, 6, true)

	assert.True(t, fb.Pixel(49, 6))
	assert.True(t, fb.Pixel(88, 6))
	assert.True(t, fb.Pixel(127, 6))
	assert.False(t, fb.Pixel(48, 6))
	assert.False(t, fb.Pixel(88, 5))
	assert.Equal(t, 79, litIn(fb, image.Rect(0, 0, displayWidth, displayHeight)))

	fb.DrawLine(127, 6, 49, 6, false)
	assert.Equal(t, 0, litIn(fb, image.Rect(0, 0, displayWidth, displayHeight)))
}

func TestFramebufferDrawLineDiagonalAndClipped(t *testing.T) {
	fb := NewFramebuffer(nil)

	fb.DrawLine(0, 0, 7, 7, true)
	for i := 0; i <= 7; i++ {
		assert.True(t, fb.Pixel(i, i))
	}

	fb.ClearDisplay()
	fb.DrawLine(-10, 63, 140, 63, true)
	assert.True(t, fb.Pixel(0, 63))
	assert.True(t, fb.Pixel(127, 63))
	assert.Equal(t, displayWidth, litIn(fb, image.Rect(0, 0, displayWidth, displayHeight)))
}

func TestFramebufferWriteString(t *testing.T) {
	fb := NewFramebuffer(nil)

	fb.SetCursor(18, 0)
	fb.WriteString("PERIPHERAL DRV.\n")

	x, y := fb.Cursor()
	assert.Equal(t, 0, x)
	assert.Equal(t, fontHeight, y)
	assert.Positive(t, litIn(fb, image.Rect(18, 0, displayWidth, fontHeight)))
	assert.Zero(t, litIn(fb, image.Rect(0, 0, 18, fontHeight)))

	fb.WriteString("AB")
	x, _ = fb.Cursor()
	assert.Equal(t, 2*fontWidth, x)
}

func TestFramebufferGlyphCell(t *testing.T) {
	fb := NewFramebuffer(nil)

	fb.WriteString("H")

	// H is a full-height bar in its first column and leaves the sixth
	// column and the eighth row blank.
	for y := 0; y < 7; y++ {
		assert.True(t, fb.Pixel(0, y), "row %d", y)
	}
	assert.Zero(t, litIn(fb, image.Rect(5, 0, 6, 8)))
	assert.Zero(t, litIn(fb, image.Rect(0, 7, 6, 8)))
	assert.Equal(t, 7+7+3, litIn(fb, fb.img.Bounds()))
}

func TestFramebufferSelectGlyph(t *testing.T) {
	a := NewFramebuffer(nil)
	a.WriteString(string(selectGlyph))
	b := NewFramebuffer(nil)
	b.WriteString(">")

	assert.NotEqual(t, b.img.Pix, a.img.Pix)
	// The arrow's first column is solid.
	for y := 0; y < 7; y++ {
		assert.True(t, a.Pixel(0, y), "row %d", y)
	}
	x, _ := a.Cursor()
	assert.Equal(t, fontWidth, x)
}

func TestFramebufferClearKeepsCursor(t *testing.T) {
	fb := NewFramebuffer(nil)
	fb.SetCursor(5, 20)
	fb.WriteString("X")
	require.Positive(t, litIn(fb, fb.img.Bounds()))

	fb.ClearDisplay()

	assert.Zero(t, litIn(fb, fb.img.Bounds()))
	x, y := fb.Cursor()
	assert.Equal(t, 5+fontWidth, x)
	assert.Equal(t, 20, y)
}

func TestFramebufferUpdateDrawsToPanel(t *testing.T) {
	p := &recordingPanel{}
	fb := NewFramebuffer(p)
	fb.DrawLine(0, 0, 9, 0, true)

	fb.UpdateDisplay()

	require.Len(t, p.frames, 1)
	assert.Equal(t, image.Rect(0, 0, 128, 64), p.frames[0])
	assert.Equal(t, 10, p.lit)
}

func TestTextPanel(t *testing.T) {
	var buf bytes.Buffer
	fb := NewFramebuffer(TextPanel{W: &buf})
	fb.DrawLine(0, 0, 3, 0, true)

	fb.UpdateDisplay()

	lines := strings.Split(buf.String(), "\n")
	// border, 64 rows, border, blank line, trailing empty element
	require.Len(t, lines, 64+4)
	assert.Equal(t, "+"+strings.Repeat("-", 128)+"+", lines[0])
	assert.Equal(t, "|####"+strings.Repeat(" ", 124)+"|", lines[1])
	assert.Equal(t, "|"+strings.Repeat(" ", 128)+"|", lines[2])
}

// screenHost runs the app against a real Framebuffer and records how many
// pixels each WriteString lit.
type screenHost struct {
	*fakeHost
	fb    *Framebuffer
	lines []screenLine
}

type screenLine struct {
	text string
	lit  int
}

func newScreenHost(h *fakeHost) *screenHost {
	return &screenHost{fakeHost: h, fb: NewFramebuffer(nil)}
}

func (h *screenHost) ClearDisplay()      { h.fb.ClearDisplay() }
func (h *screenHost) SetCursor(x, y int) { h.fb.SetCursor(x, y) }
func (h *screenHost) WriteString(s string) {
	before := litIn(h.fb, h.fb.img.Bounds())
	h.fb.WriteString(s)
	h.lines = append(h.lines, screenLine{text: s, lit: litIn(h.fb, h.fb.img.Bounds()) - before})
}
func (h *screenHost) DrawLine(x0, y0, x1, y1 int, on bool) { h.fb.DrawLine(x0, y0, x1, y1, on) }
func (h *screenHost) UpdateDisplay()                       { h.fb.UpdateDisplay() }

func (h *screenHost) assertAllLinesVisible(t *testing.T) {
	t.Helper()
	for _, l := range h.lines {
		assert.Positive(t, l.lit, "%q lit no pixels", l.text)
	}
	_, y := h.fb.Cursor()
	assert.LessOrEqual(t, y, displayHeight)
}

func TestStatusScreenFitsPanel(t *testing.T) {
	e := newTestEnv(t)
	e.ranger.readings = []float64{100.0}
	e.host.analog = [4]int{4095, 4095, 4095, 4095}
	h := newScreenHost(e.host)

	e.ctrl.Init(h)

	require.Len(t, h.lines, 6)
	assert.Equal(t, "A3: 4095/4095\n", h.lines[5].text)
	h.assertAllLinesVisible(t)
	// "DIST(HCSR04): 100.0cm" is 21 cells wide; its final 'm' ends at x=125.
	assert.Positive(t, litIn(h.fb, image.Rect(120, 16, 126, 24)))
	assert.Zero(t, litIn(h.fb, image.Rect(126, 16, displayWidth, 24)))
}

func TestMenuScreenFitsPanel(t *testing.T) {
	for _, index := range []MenuEntry{MenuSystem, MenuPWM2, MenuExit} {
		t.Run(index.String(), func(t *testing.T) {
			e := newTestEnv(t)
			h := newScreenHost(e.host)
			e.ctrl.inMenu = true
			e.ctrl.menuIndex = index

			e.ctrl.showMenu(h)

			require.Len(t, h.lines, 6)
			h.assertAllLinesVisible(t)
			assert.True(t, h.fb.Pixel(88, 6))
		})
	}
}
