package main

import (
	"bufio"
	"image"
	"image/color"
	"image/draw"
	"io"
	"log"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Size of the OLED the framework ships with.
const (
	displayWidth  = 128
	displayHeight = 64
)

// selectGlyph marks the highlighted menu entry; face6x8 draws it as an
// arrow.
const selectGlyph = rune(16)

// Panel receives the framebuffer on UpdateDisplay.  *ssd1306.Dev satisfies
// it.
type Panel interface {
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// Framebuffer implements Display on a 1-bit in-memory image and pushes it to
// a Panel on UpdateDisplay.  The panel may be nil.
type Framebuffer struct {
	img   *image1bit.VerticalLSB
	face  font.Face
	panel Panel

	x, y       int
	ascent     int
	lineHeight int
}

// NewFramebuffer returns a cleared 128x64 framebuffer drawing with the
// 6x8 font, eight text lines of 21 characters.
func NewFramebuffer(p Panel) *Framebuffer {
	return &Framebuffer{
		img:        image1bit.NewVerticalLSB(image.Rect(0, 0, displayWidth, displayHeight)),
		face:       face6x8,
		panel:      p,
		ascent:     face6x8.Ascent,
		lineHeight: fontHeight,
	}
}

// ClearDisplay turns every pixel off.  The cursor is left where it is.
func (fb *Framebuffer) ClearDisplay() {
	draw.Draw(fb.img, fb.img.Bounds(), image.NewUniform(image1bit.Off), image.Point{}, draw.Src)
}

// SetCursor moves the top left corner of the next glyph.
func (fb *Framebuffer) SetCursor(x, y int) {
	fb.x, fb.y = x, y
}

// Cursor returns the current cursor position.
func (fb *Framebuffer) Cursor() (int, int) {
	return fb.x, fb.y
}

// WriteString draws s at the cursor.  A newline returns to column 0 of the
// next text line.
func (fb *Framebuffer) WriteString(s string) {
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			fb.x = 0
			fb.y += fb.lineHeight
		}
		if line == "" {
			continue
		}
		d := font.Drawer{
			Dst:  fb.img,
			Src:  image.NewUniform(image1bit.On),
			Face: fb.face,
			Dot:  fixed.P(fb.x, fb.y+fb.ascent),
		}
		d.DrawString(line)
		fb.x = d.Dot.X.Round()
	}
}

// DrawLine draws a straight line with Bresenham's algorithm.  Pixels outside
// the display are dropped.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, on bool) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	bit := image1bit.Bit(on)
	e := dx + dy
	for {
		fb.setPixel(x0, y0, bit)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (fb *Framebuffer) setPixel(x, y int, b image1bit.Bit) {
	if !image.Pt(x, y).In(fb.img.Bounds()) {
		return
	}
	fb.img.SetBit(x, y, b)
}

// Pixel reports whether the pixel at (x, y) is lit.
func (fb *Framebuffer) Pixel(x, y int) bool {
	if !image.Pt(x, y).In(fb.img.Bounds()) {
		return false
	}
	return bool(fb.img.BitAt(x, y))
}

// UpdateDisplay sends the framebuffer to the panel.
func (fb *Framebuffer) UpdateDisplay() {
	if fb.panel == nil {
		return
	}
	if err := fb.panel.Draw(fb.img.Bounds(), fb.img, image.Point{}); err != nil {
		log.Printf("display update failed: %v", err)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// TextPanel renders frames as ASCII art, one character per pixel.  It stands
// in for the OLED on machines without one.
type TextPanel struct {
	W io.Writer
}

// Draw writes the frame followed by a blank line.
func (t TextPanel) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	w := bufio.NewWriter(t.W)
	border := "+" + strings.Repeat("-", r.Dx()) + "+\n"
	w.WriteString(border)
	for y := 0; y < r.Dy(); y++ {
		w.WriteByte('|')
		for x := 0; x < r.Dx(); x++ {
			g := color.GrayModel.Convert(src.At(sp.X+x, sp.Y+y)).(color.Gray)
			if g.Y >= 128 {
				w.WriteByte('#')
			} else {
				w.WriteByte(' ')
			}
		}
		w.WriteString("|\n")
	}
	w.WriteString(border)
	w.WriteByte('\n')
	return w.Flush()
}
