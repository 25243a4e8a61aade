package main

import "fmt"

// Layout metrics of the framework's 6x8 font; screen positions are given in
// these units.
const (
	fontWidth  = 6
	fontHeight = 8
)

// menuLine formats one entry, marking it when highlighted.
func (c *Controller) menuLine(entry MenuEntry) string {
	mark := ' '
	if c.menuIndex == entry {
		mark = selectGlyph
	}
	return fmt.Sprintf("%c %s\n", mark, entry)
}

// showMenu draws the menu.  "SPARK CORE APP" and "EXIT MENU" share the list
// slot: the former is listed while the index is below MenuExit, the latter
// once it reaches it.
func (c *Controller) showMenu(h Host) {
	h.ClearDisplay()

	h.SetCursor(0, 0)
	h.WriteString("PERI.DRV")
	h.DrawLine(49, 6, 127, 6, true)
	h.SetCursor(0, 16)

	if c.menuIndex < MenuExit {
		h.WriteString(c.menuLine(MenuNextApp))
	}
	for _, e := range []MenuEntry{MenuSystem, MenuUpdateInfo, MenuPWM1, MenuPWM2} {
		h.WriteString(c.menuLine(e))
	}
	if c.menuIndex >= MenuExit {
		h.WriteString(c.menuLine(MenuExit))
	}

	h.UpdateDisplay()
}
