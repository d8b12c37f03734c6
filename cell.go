package vtcore

import "image/color"

// CellFlags is a bitmask of cell rendering attributes.
type CellFlags uint16

const (
	CellFlagBold CellFlags = 1 << iota
	CellFlagDim
	CellFlagItalic
	CellFlagUnderline
	CellFlagDoubleUnderline
	CellFlagUndercurl
	CellFlagDottedUnderline
	CellFlagDashedUnderline
	CellFlagBlinkSlow
	CellFlagBlinkFast
	CellFlagInverse
	CellFlagHidden
	CellFlagStrikeout
	CellFlagWideChar
	CellFlagWideCharSpacer
	CellFlagLeadingWideCharSpacer
	CellFlagWrapline
	CellFlagDirty
)

// maxZeroWidthCombiners bounds how many combining marks can stack onto a
// single cell. Combiners past this are dropped, so a pathological input
// can't make one cell grow without bound.
const maxZeroWidthCombiners = 8

// Hyperlink associates a cell with a clickable link (OSC 8).
type Hyperlink struct {
	ID  string
	URI string
}

// Cell stores the character, colors, and formatting attributes for one grid
// position. Wide characters (2 columns) use a spacer cell in the second
// position; when a wide character doesn't fit in the last column of a line,
// that column gets a leading spacer and the glyph wraps to column 0 of the
// next line. Combining marks that follow a character attach to it via
// Zerowidth instead of occupying a column of their own.
type Cell struct {
	Char           rune
	Zerowidth      []rune
	Fg             color.Color
	Bg             color.Color
	UnderlineColor color.Color
	Flags          CellFlags
	Hyperlink      *Hyperlink
}

// NewCell creates a cell initialized with space character and default colors.
func NewCell() Cell {
	return Cell{
		Char: ' ',
		Fg:   &NamedColor{Name: NamedColorForeground},
		Bg:   &NamedColor{Name: NamedColorBackground},
	}
}

// Reset clears all attributes and sets the cell to default state (space character, default colors).
func (c *Cell) Reset() {
	c.Char = ' '
	c.Zerowidth = nil
	c.Fg = &NamedColor{Name: NamedColorForeground}
	c.Bg = &NamedColor{Name: NamedColorBackground}
	c.UnderlineColor = nil
	c.Flags = 0
	c.Hyperlink = nil
}

// ResetWithTemplate clears the cell to a space but keeps template's colors,
// underline color and SGR-style flags, the pattern used when an erase or
// scroll should paint with the cursor's current attributes rather than the
// hardcoded default.
func (c *Cell) ResetWithTemplate(template Cell) {
	c.Char = ' '
	c.Zerowidth = nil
	c.Fg = template.Fg
	c.Bg = template.Bg
	c.UnderlineColor = template.UnderlineColor
	c.Flags = template.Flags &^ (CellFlagWideChar | CellFlagWideCharSpacer | CellFlagLeadingWideCharSpacer | CellFlagWrapline | CellFlagDirty)
	c.Hyperlink = template.Hyperlink
}

// HasFlag returns true if the specified flag is set.
func (c *Cell) HasFlag(flag CellFlags) bool {
	return c.Flags&flag != 0
}

// SetFlag enables the specified flag without affecting others.
func (c *Cell) SetFlag(flag CellFlags) {
	c.Flags |= flag
}

// ClearFlag disables the specified flag without affecting others.
func (c *Cell) ClearFlag(flag CellFlags) {
	c.Flags &^= flag
}

// IsDirty returns true if the cell was modified since the last ClearDirty call.
func (c *Cell) IsDirty() bool {
	return c.HasFlag(CellFlagDirty)
}

// MarkDirty marks the cell as modified for dirty tracking.
func (c *Cell) MarkDirty() {
	c.SetFlag(CellFlagDirty)
}

// ClearDirty resets the dirty tracking flag.
func (c *Cell) ClearDirty() {
	c.ClearFlag(CellFlagDirty)
}

// IsWide returns true if this cell contains a wide character (CJK, emoji, etc.) that occupies 2 columns.
func (c *Cell) IsWide() bool {
	return c.HasFlag(CellFlagWideChar)
}

// IsWideSpacer returns true if this is the second cell of a wide character (should be skipped during rendering).
func (c *Cell) IsWideSpacer() bool {
	return c.HasFlag(CellFlagWideCharSpacer)
}

// IsLeadingWideCharSpacer returns true if a wide character didn't fit in the
// last column of a line and was pushed onto the next line, leaving this cell
// marking where the wrap happened.
func (c *Cell) IsLeadingWideCharSpacer() bool {
	return c.HasFlag(CellFlagLeadingWideCharSpacer)
}

// IsWrapline returns true if this is the last column of a line that
// soft-wraps into the following line, as opposed to one ended by a newline.
func (c *Cell) IsWrapline() bool {
	return c.HasFlag(CellFlagWrapline)
}

// PushZerowidth attaches a combining character to this cell's primary
// character. Combiners past maxZeroWidthCombiners are silently dropped.
func (c *Cell) PushZerowidth(r rune) {
	if len(c.Zerowidth) >= maxZeroWidthCombiners {
		return
	}
	c.Zerowidth = append(c.Zerowidth, r)
}

// Runes returns the primary character followed by any attached zero-width
// combiners, the full grapheme a renderer should draw for this cell.
func (c *Cell) Runes() []rune {
	if len(c.Zerowidth) == 0 {
		return []rune{c.Char}
	}
	out := make([]rune, 0, 1+len(c.Zerowidth))
	out = append(out, c.Char)
	return append(out, c.Zerowidth...)
}

// Copy returns a deep-enough copy of the cell: Zerowidth is copied since
// PushZerowidth appends into it, while Hyperlink is shared since it is never
// mutated in place once attached.
func (c *Cell) Copy() Cell {
	cp := *c
	if len(c.Zerowidth) > 0 {
		cp.Zerowidth = append([]rune(nil), c.Zerowidth...)
	}
	return cp
}
