package vtcore

import (
	"encoding/base64"
	"fmt"
	"image/color"

	"github.com/danielgatis/go-ansicode"
)

// ApplicationCommandReceived forwards an APC sequence's payload to the
// configured APC provider.
func (t *Terminal) ApplicationCommandReceived(data []byte) {
	if t.middleware != nil && t.middleware.ApplicationCommandReceived != nil {
		t.middleware.ApplicationCommandReceived(data, t.applicationCommandReceivedInternal)
		return
	}
	t.applicationCommandReceivedInternal(data)
}

func (t *Terminal) applicationCommandReceivedInternal(data []byte) {
	t.apcProvider.Receive(data)
}

// Backspace moves the cursor one column left, stopping at column 0.
func (t *Terminal) Backspace() {
	if t.middleware != nil && t.middleware.Backspace != nil {
		t.middleware.Backspace(t.backspaceInternal)
		return
	}
	t.backspaceInternal()
}

func (t *Terminal) backspaceInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := &t.activeGrid.cursor
	if cur.Point.Col > 0 {
		cur.Point.Col--
	}
	cur.PendingWrap = false
}

// Bell rings the configured bell provider.
func (t *Terminal) Bell() {
	if t.middleware != nil && t.middleware.Bell != nil {
		t.middleware.Bell(t.bellInternal)
		return
	}
	t.bellInternal()
}

func (t *Terminal) bellInternal() {
	t.bellProvider.Ring()
}

// CarriageReturn moves the cursor to column 0 of the current row.
func (t *Terminal) CarriageReturn() {
	if t.middleware != nil && t.middleware.CarriageReturn != nil {
		t.middleware.CarriageReturn(t.carriageReturnInternal)
		return
	}
	t.carriageReturnInternal()
}

func (t *Terminal) carriageReturnInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := &t.activeGrid.cursor
	cur.Point.Col = 0
	cur.PendingWrap = false
}

// ClearLine clears portions of the current line: right of cursor, left of
// cursor (inclusive), or the entire line.
func (t *Terminal) ClearLine(mode ansicode.LineClearMode) {
	if t.middleware != nil && t.middleware.ClearLine != nil {
		t.middleware.ClearLine(mode, t.clearLineInternal)
		return
	}
	t.clearLineInternal(mode)
}

func (t *Terminal) clearLineInternal(mode ansicode.LineClearMode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	grid := t.activeGrid
	line := grid.cursor.Point.Line
	col := int(grid.cursor.Point.Col)

	switch mode {
	case ansicode.LineClearModeRight:
		grid.ClearLineRange(line, col, grid.Cols())
		t.damage.MarkLine(line, col, grid.Cols()-1)
	case ansicode.LineClearModeLeft:
		grid.ClearLineRange(line, 0, col+1)
		t.damage.MarkLine(line, 0, col)
	case ansicode.LineClearModeAll:
		grid.ClearLine(line)
		t.damage.MarkLine(line, 0, grid.Cols()-1)
	}
}

// ClearScreen clears screen regions: below the cursor, above the cursor, the
// whole viewport, or (mode Saved) the scrollback history only.
func (t *Terminal) ClearScreen(mode ansicode.ClearMode) {
	if t.middleware != nil && t.middleware.ClearScreen != nil {
		t.middleware.ClearScreen(mode, t.clearScreenInternal)
		return
	}
	t.clearScreenInternal(mode)
}

func (t *Terminal) clearScreenInternal(mode ansicode.ClearMode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	grid := t.activeGrid
	line := grid.cursor.Point.Line
	col := int(grid.cursor.Point.Col)

	switch mode {
	case ansicode.ClearModeBelow:
		grid.ClearLineRange(line, col, grid.Cols())
		for l := int(line) + 1; l < grid.Lines(); l++ {
			grid.ClearLine(Line(l))
		}
	case ansicode.ClearModeAbove:
		for l := 0; l < int(line); l++ {
			grid.ClearLine(Line(l))
		}
		grid.ClearLineRange(line, 0, col+1)
	case ansicode.ClearModeAll:
		grid.ClearViewport()
	case ansicode.ClearModeSaved:
		grid.ClearScrollback()
	}
	t.damage.MarkFull()
}

// ClearTabs removes the tab stop at the current column, or every tab stop.
func (t *Terminal) ClearTabs(mode ansicode.TabulationClearMode) {
	if t.middleware != nil && t.middleware.ClearTabs != nil {
		t.middleware.ClearTabs(mode, t.clearTabsInternal)
		return
	}
	t.clearTabsInternal(mode)
}

func (t *Terminal) clearTabsInternal(mode ansicode.TabulationClearMode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	grid := t.activeGrid
	switch mode {
	case ansicode.TabulationClearModeCurrent:
		grid.ClearTabStop(int(grid.cursor.Point.Col))
	case ansicode.TabulationClearModeAll:
		grid.ClearAllTabStops()
	}
}

// ClipboardLoad reads from the clipboard provider and answers with an OSC 52
// response carrying the base64-encoded content.
func (t *Terminal) ClipboardLoad(clipboard byte, terminator string) {
	if t.middleware != nil && t.middleware.ClipboardLoad != nil {
		t.middleware.ClipboardLoad(clipboard, terminator, t.clipboardLoadInternal)
		return
	}
	t.clipboardLoadInternal(clipboard, terminator)
}

func (t *Terminal) clipboardLoadInternal(clipboard byte, terminator string) {
	content := t.clipboardProvider.Read(clipboard)
	if content == "" {
		return
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(content))
	t.writeResponseString("\x1b]52;" + string(clipboard) + ";" + encoded + terminator)
}

// ClipboardStore writes data to the clipboard provider (OSC 52).
func (t *Terminal) ClipboardStore(clipboard byte, data []byte) {
	if t.middleware != nil && t.middleware.ClipboardStore != nil {
		t.middleware.ClipboardStore(clipboard, data, t.clipboardStoreInternal)
		return
	}
	t.clipboardStoreInternal(clipboard, data)
}

func (t *Terminal) clipboardStoreInternal(clipboard byte, data []byte) {
	t.clipboardProvider.Write(clipboard, data)
}

// ConfigureCharset maps a charset onto one of the four G0-G3 slots of the
// active grid's cursor.
func (t *Terminal) ConfigureCharset(index ansicode.CharsetIndex, charset ansicode.Charset) {
	if t.middleware != nil && t.middleware.ConfigureCharset != nil {
		t.middleware.ConfigureCharset(index, charset, t.configureCharsetInternal)
		return
	}
	t.configureCharsetInternal(index, charset)
}

func (t *Terminal) configureCharsetInternal(index ansicode.CharsetIndex, charset ansicode.Charset) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := CharsetIndex(index)
	if idx >= 0 && idx <= CharsetIndexG3 {
		t.activeGrid.cursor.Charsets[idx] = Charset(charset)
	}
}

// Decaln fills the entire viewport with 'E' characters (DEC screen alignment
// test).
func (t *Terminal) Decaln() {
	if t.middleware != nil && t.middleware.Decaln != nil {
		t.middleware.Decaln(t.decalnInternal)
		return
	}
	t.decalnInternal()
}

func (t *Terminal) decalnInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	grid := t.activeGrid
	for l := 0; l < grid.Lines(); l++ {
		row := grid.Line(Line(l))
		if row == nil {
			continue
		}
		for c := 0; c < row.Len(); c++ {
			cell := row.Cell(c)
			cell.Char = 'E'
			cell.Zerowidth = nil
			cell.Flags = 0
		}
	}
	t.damage.MarkFull()
}

// DeleteChars removes n cells at the cursor, shifting the remainder of the
// line left.
func (t *Terminal) DeleteChars(n int) {
	if t.middleware != nil && t.middleware.DeleteChars != nil {
		t.middleware.DeleteChars(n, t.deleteCharsInternal)
		return
	}
	t.deleteCharsInternal(n)
}

func (t *Terminal) deleteCharsInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	grid := t.activeGrid
	grid.DeleteChars(grid.cursor.Point.Line, int(grid.cursor.Point.Col), n)
	t.damage.MarkLine(grid.cursor.Point.Line, int(grid.cursor.Point.Col), grid.Cols()-1)
}

// DeleteLines removes n lines at the cursor within the active scroll region,
// shifting the lines below it up.
func (t *Terminal) DeleteLines(n int) {
	if t.middleware != nil && t.middleware.DeleteLines != nil {
		t.middleware.DeleteLines(n, t.deleteLinesInternal)
		return
	}
	t.deleteLinesInternal(n)
}

func (t *Terminal) deleteLinesInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	grid := t.activeGrid
	grid.DeleteLines(grid.cursor.Point.Line, n)
	t.damage.MarkFull()
}

// DeviceStatus answers a device status request: ready (n=5) or cursor
// position report (n=6, 1-based).
func (t *Terminal) DeviceStatus(n int) {
	if t.middleware != nil && t.middleware.DeviceStatus != nil {
		t.middleware.DeviceStatus(n, t.deviceStatusInternal)
		return
	}
	t.deviceStatusInternal(n)
}

func (t *Terminal) deviceStatusInternal(n int) {
	t.mu.RLock()
	p := t.activeGrid.cursor.Point
	t.mu.RUnlock()

	var response string
	switch n {
	case 5:
		response = "\x1b[0n"
	case 6:
		response = fmt.Sprintf("\x1b[%d;%dR", int(p.Line)+1, int(p.Col)+1)
	}
	if response != "" {
		t.writeResponseString(response)
	}
}

// EraseChars resets n cells at the cursor to the cursor's current attributes
// without shifting the rest of the line.
func (t *Terminal) EraseChars(n int) {
	if t.middleware != nil && t.middleware.EraseChars != nil {
		t.middleware.EraseChars(n, t.eraseCharsInternal)
		return
	}
	t.eraseCharsInternal(n)
}

func (t *Terminal) eraseCharsInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	grid := t.activeGrid
	cur := &grid.cursor
	col := int(cur.Point.Col)
	for i := 0; i < n && col+i < grid.Cols(); i++ {
		if cell := grid.Cell(Point{Line: cur.Point.Line, Col: Column(col + i)}); cell != nil {
			cell.ResetWithTemplate(cur.Template)
		}
	}
	t.damage.MarkLine(cur.Point.Line, col, clampInt(col+n-1, col, grid.Cols()-1))
}

// Goto moves the cursor to (row, col), honoring origin mode for row.
func (t *Terminal) Goto(row, col int) {
	if t.middleware != nil && t.middleware.Goto != nil {
		t.middleware.Goto(row, col, t.gotoInternal)
		return
	}
	t.gotoInternal(row, col)
}

func (t *Terminal) gotoInternal(row, col int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := &t.activeGrid.cursor
	cur.Point.Line = t.effectiveRow(row)
	cur.Point.Col = Column(clamp(col, 0, t.activeGrid.Cols()-1))
	cur.PendingWrap = false
}

// GotoCol moves the cursor to the given column, keeping the current row.
func (t *Terminal) GotoCol(col int) {
	if t.middleware != nil && t.middleware.GotoCol != nil {
		t.middleware.GotoCol(col, t.gotoColInternal)
		return
	}
	t.gotoColInternal(col)
}

func (t *Terminal) gotoColInternal(col int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := &t.activeGrid.cursor
	cur.Point.Col = Column(clamp(col, 0, t.activeGrid.Cols()-1))
	cur.PendingWrap = false
}

// GotoLine moves the cursor to the given row, honoring origin mode.
func (t *Terminal) GotoLine(row int) {
	if t.middleware != nil && t.middleware.GotoLine != nil {
		t.middleware.GotoLine(row, t.gotoLineInternal)
		return
	}
	t.gotoLineInternal(row)
}

func (t *Terminal) gotoLineInternal(row int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := &t.activeGrid.cursor
	cur.Point.Line = t.effectiveRow(row)
	cur.PendingWrap = false
}

// HorizontalTabSet enables a tab stop at the current column.
func (t *Terminal) HorizontalTabSet() {
	if t.middleware != nil && t.middleware.HorizontalTabSet != nil {
		t.middleware.HorizontalTabSet(t.horizontalTabSetInternal)
		return
	}
	t.horizontalTabSetInternal()
}

func (t *Terminal) horizontalTabSetInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.activeGrid.SetTabStop(int(t.activeGrid.cursor.Point.Col))
}

// IdentifyTerminal answers a DA request, identifying as a VT220.
func (t *Terminal) IdentifyTerminal(b byte) {
	if t.middleware != nil && t.middleware.IdentifyTerminal != nil {
		t.middleware.IdentifyTerminal(b, t.identifyTerminalInternal)
		return
	}
	t.identifyTerminalInternal(b)
}

func (t *Terminal) identifyTerminalInternal(b byte) {
	t.writeResponseString("\x1b[?62;c")
}

// Input writes a character at the cursor, handling wide characters, zero
// width combiners, deferred line wrapping, insert mode, and charset
// translation.
func (t *Terminal) Input(r rune) {
	if t.middleware != nil && t.middleware.Input != nil {
		t.middleware.Input(r, t.inputInternal)
		return
	}
	t.inputInternal(r)
}

func (t *Terminal) inputInternal(r rune) {
	t.mu.Lock()
	defer t.mu.Unlock()

	grid := t.activeGrid
	cur := &grid.cursor

	if cur.CharsetIndex >= 0 && cur.CharsetIndex <= CharsetIndexG3 && cur.Charsets[cur.CharsetIndex] == CharsetLineDrawing {
		r = t.translateLineDrawing(r)
	}

	width := runeWidth(r)
	if width == 0 {
		col := int(cur.Point.Col) - 1
		if cur.PendingWrap || col < 0 {
			col = int(cur.Point.Col)
		}
		if spacer := grid.Cell(Point{Line: cur.Point.Line, Col: Column(col)}); spacer != nil && spacer.HasFlag(CellFlagWideCharSpacer) {
			col--
			if col < 0 {
				col = 0
			}
		}
		if cell := grid.Cell(Point{Line: cur.Point.Line, Col: Column(col)}); cell != nil && attachesAsCombiner(cell.Char, r) {
			cell.PushZerowidth(r)
		}
		return
	}

	if cur.PendingWrap {
		grid.Line(cur.Point.Line).SetWrapped(true)
		cur.Point.Col = 0
		cur.Point.Line++
		cur.PendingWrap = false
		t.scrollIfNeeded()
	}

	cols := grid.Cols()
	if int(cur.Point.Col)+width > cols {
		switch {
		case t.autoResize:
			grid.Resize(grid.Lines(), int(cur.Point.Col)+width)
			t.cols = grid.Cols()
			cols = t.cols
		case t.modes&ModeLineWrap != 0:
			if row := grid.Line(cur.Point.Line); row != nil && width == 2 {
				if c := row.Cell(int(cur.Point.Col)); c != nil {
					c.SetFlag(CellFlagLeadingWideCharSpacer)
				}
			}
			grid.Line(cur.Point.Line).SetWrapped(true)
			cur.Point.Col = 0
			cur.Point.Line++
			t.scrollIfNeeded()
		default:
			if width == 2 {
				return
			}
			cur.Point.Col = Column(cols - 1)
		}
	}

	if t.modes&ModeInsert != 0 {
		grid.InsertBlanks(cur.Point.Line, int(cur.Point.Col), width)
	}

	cell := grid.Cell(cur.Point)
	if cell != nil && cell.HasFlag(CellFlagWideChar|CellFlagWideCharSpacer) {
		clearWidePair(grid, cur.Point)
	}
	if cell != nil {
		cell.Char = r
		cell.Zerowidth = nil
		cell.Fg = cur.Template.Fg
		cell.Bg = cur.Template.Bg
		cell.UnderlineColor = cur.Template.UnderlineColor
		cell.Flags = cur.Template.Flags &^ (CellFlagWideChar | CellFlagWideCharSpacer | CellFlagLeadingWideCharSpacer | CellFlagWrapline)
		cell.Hyperlink = t.currentHyperlink
		if width == 2 {
			cell.SetFlag(CellFlagWideChar)
		}
		cell.MarkDirty()
	}

	line := cur.Point.Line
	startCol := int(cur.Point.Col)
	cols = grid.Cols()

	if width == 2 {
		if spacer := grid.Cell(Point{Line: cur.Point.Line, Col: cur.Point.Col + 1}); spacer != nil {
			spacer.ResetWithTemplate(cur.Template)
			spacer.SetFlag(CellFlagWideCharSpacer)
		}
		cur.Point.Col += 2
	} else {
		cur.Point.Col++
	}

	t.damage.MarkLine(line, startCol, clampInt(int(cur.Point.Col)-1, startCol, cols-1))

	if int(cur.Point.Col) >= cols && !t.autoResize {
		cur.Point.Col = Column(cols - 1)
		if t.modes&ModeLineWrap != 0 {
			cur.PendingWrap = true
		}
	}
}

// clearWidePair removes the flags of a wide character's partner cell before
// p is overwritten, so a glyph write never leaves a dangling spacer (or a
// dangling leading spacer on the row above) pointing at stale content.
func clearWidePair(grid *Grid, p Point) {
	cell := grid.Cell(p)
	if cell == nil {
		return
	}
	wide := cell.HasFlag(CellFlagWideChar)
	if wide && int(p.Col) < grid.Cols()-1 {
		if spacer := grid.Cell(Point{Line: p.Line, Col: p.Col + 1}); spacer != nil {
			spacer.ClearFlag(CellFlagWideCharSpacer)
		}
	} else if int(p.Col) > 0 {
		if partner := grid.Cell(Point{Line: p.Line, Col: p.Col - 1}); partner != nil {
			partner.ClearFlag(CellFlagWideChar)
			partner.Char = ' '
		}
	}

	if int(p.Col) <= 1 {
		if prev := grid.Line(p.Line - 1); prev != nil {
			if last := prev.Cell(grid.Cols() - 1); last != nil {
				last.ClearFlag(CellFlagLeadingWideCharSpacer)
			}
		}
	}
}

// translateLineDrawing maps ASCII letters to their DEC line-drawing glyphs.
func (t *Terminal) translateLineDrawing(r rune) rune {
	switch r {
	case 'j':
		return '┘'
	case 'k':
		return '┐'
	case 'l':
		return '┌'
	case 'm':
		return '└'
	case 'n':
		return '┼'
	case 'q':
		return '─'
	case 't':
		return '├'
	case 'u':
		return '┤'
	case 'v':
		return '┴'
	case 'w':
		return '┬'
	case 'x':
		return '│'
	default:
		return r
	}
}

// InsertBlank inserts n blank cells at the cursor, shifting the rest of the
// line right and discarding what falls off the end.
func (t *Terminal) InsertBlank(n int) {
	if t.middleware != nil && t.middleware.InsertBlank != nil {
		t.middleware.InsertBlank(n, t.insertBlankInternal)
		return
	}
	t.insertBlankInternal(n)
}

func (t *Terminal) insertBlankInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	grid := t.activeGrid
	grid.InsertBlanks(grid.cursor.Point.Line, int(grid.cursor.Point.Col), n)
	t.damage.MarkLine(grid.cursor.Point.Line, int(grid.cursor.Point.Col), grid.Cols()-1)
}

// InsertBlankLines inserts n blank lines at the cursor within the active
// scroll region, shifting the lines below it down.
func (t *Terminal) InsertBlankLines(n int) {
	if t.middleware != nil && t.middleware.InsertBlankLines != nil {
		t.middleware.InsertBlankLines(n, t.insertBlankLinesInternal)
		return
	}
	t.insertBlankLinesInternal(n)
}

func (t *Terminal) insertBlankLinesInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	grid := t.activeGrid
	grid.InsertLines(grid.cursor.Point.Line, n)
	t.damage.MarkFull()
}

// LineFeed moves the cursor down one row, honoring ModeLineFeedNewLine, and
// clears the current line's soft-wrap marker since this is an explicit
// newline rather than a wrap.
func (t *Terminal) LineFeed() {
	if t.middleware != nil && t.middleware.LineFeed != nil {
		t.middleware.LineFeed(t.lineFeedInternal)
		return
	}
	t.lineFeedInternal()
}

func (t *Terminal) lineFeedInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	grid := t.activeGrid
	cur := &grid.cursor
	if row := grid.Line(cur.Point.Line); row != nil {
		row.SetWrapped(false)
	}
	cur.PendingWrap = false
	if t.modes&ModeLineFeedNewLine != 0 {
		cur.Point.Col = 0
	}
	cur.Point.Line++
	t.scrollIfNeeded()
}

// MoveBackward moves the cursor left n columns, stopping at column 0.
func (t *Terminal) MoveBackward(n int) {
	if t.middleware != nil && t.middleware.MoveBackward != nil {
		t.middleware.MoveBackward(n, t.moveBackwardInternal)
		return
	}
	t.moveBackwardInternal(n)
}

func (t *Terminal) moveBackwardInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := &t.activeGrid.cursor
	cur.Point.Col = Column(clamp(int(cur.Point.Col)-n, 0, t.activeGrid.Cols()-1))
	cur.PendingWrap = false
}

// MoveBackwardTabs moves the cursor left to the previous n tab stops.
func (t *Terminal) MoveBackwardTabs(n int) {
	if t.middleware != nil && t.middleware.MoveBackwardTabs != nil {
		t.middleware.MoveBackwardTabs(n, t.moveBackwardTabsInternal)
		return
	}
	t.moveBackwardTabsInternal(n)
}

func (t *Terminal) moveBackwardTabsInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := &t.activeGrid.cursor
	for i := 0; i < n; i++ {
		cur.Point.Col = Column(t.activeGrid.PrevTabStop(int(cur.Point.Col)))
	}
	cur.PendingWrap = false
}

// MoveDown moves the cursor down n rows, stopping at the last row.
func (t *Terminal) MoveDown(n int) {
	if t.middleware != nil && t.middleware.MoveDown != nil {
		t.middleware.MoveDown(n, t.moveDownInternal)
		return
	}
	t.moveDownInternal(n)
}

func (t *Terminal) moveDownInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := &t.activeGrid.cursor
	cur.Point.Line = Line(clamp(int(cur.Point.Line)+n, 0, t.activeGrid.Lines()-1))
	cur.PendingWrap = false
}

// MoveDownCr moves the cursor down n rows and to column 0.
func (t *Terminal) MoveDownCr(n int) {
	if t.middleware != nil && t.middleware.MoveDownCr != nil {
		t.middleware.MoveDownCr(n, t.moveDownCrInternal)
		return
	}
	t.moveDownCrInternal(n)
}

func (t *Terminal) moveDownCrInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := &t.activeGrid.cursor
	cur.Point.Line = Line(clamp(int(cur.Point.Line)+n, 0, t.activeGrid.Lines()-1))
	cur.Point.Col = 0
	cur.PendingWrap = false
}

// MoveForward moves the cursor right n columns, stopping at the last column.
func (t *Terminal) MoveForward(n int) {
	if t.middleware != nil && t.middleware.MoveForward != nil {
		t.middleware.MoveForward(n, t.moveForwardInternal)
		return
	}
	t.moveForwardInternal(n)
}

func (t *Terminal) moveForwardInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := &t.activeGrid.cursor
	cur.Point.Col = Column(clamp(int(cur.Point.Col)+n, 0, t.activeGrid.Cols()-1))
	cur.PendingWrap = false
}

// MoveForwardTabs moves the cursor right to the next n tab stops.
func (t *Terminal) MoveForwardTabs(n int) {
	if t.middleware != nil && t.middleware.MoveForwardTabs != nil {
		t.middleware.MoveForwardTabs(n, t.moveForwardTabsInternal)
		return
	}
	t.moveForwardTabsInternal(n)
}

func (t *Terminal) moveForwardTabsInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := &t.activeGrid.cursor
	for i := 0; i < n; i++ {
		cur.Point.Col = Column(t.activeGrid.NextTabStop(int(cur.Point.Col)))
	}
	cur.PendingWrap = false
}

// MoveUp moves the cursor up n rows, stopping at row 0.
func (t *Terminal) MoveUp(n int) {
	if t.middleware != nil && t.middleware.MoveUp != nil {
		t.middleware.MoveUp(n, t.moveUpInternal)
		return
	}
	t.moveUpInternal(n)
}

func (t *Terminal) moveUpInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := &t.activeGrid.cursor
	cur.Point.Line = Line(clamp(int(cur.Point.Line)-n, 0, t.activeGrid.Lines()-1))
	cur.PendingWrap = false
}

// MoveUpCr moves the cursor up n rows and to column 0.
func (t *Terminal) MoveUpCr(n int) {
	if t.middleware != nil && t.middleware.MoveUpCr != nil {
		t.middleware.MoveUpCr(n, t.moveUpCrInternal)
		return
	}
	t.moveUpCrInternal(n)
}

func (t *Terminal) moveUpCrInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := &t.activeGrid.cursor
	cur.Point.Line = Line(clamp(int(cur.Point.Line)-n, 0, t.activeGrid.Lines()-1))
	cur.Point.Col = 0
	cur.PendingWrap = false
}

// PopKeyboardMode removes n entries from the keyboard mode stack.
func (t *Terminal) PopKeyboardMode(n int) {
	if t.middleware != nil && t.middleware.PopKeyboardMode != nil {
		t.middleware.PopKeyboardMode(n, t.popKeyboardModeInternal)
		return
	}
	t.popKeyboardModeInternal(n)
}

func (t *Terminal) popKeyboardModeInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := 0; i < n && len(t.keyboardModes) > 0; i++ {
		t.keyboardModes = t.keyboardModes[:len(t.keyboardModes)-1]
	}
}

// PopTitle restores the previous title from the stack.
func (t *Terminal) PopTitle() {
	if t.middleware != nil && t.middleware.PopTitle != nil {
		t.middleware.PopTitle(t.popTitleInternal)
		return
	}
	t.popTitleInternal()
}

func (t *Terminal) popTitleInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.titleStack) > 0 {
		t.title = t.titleStack[len(t.titleStack)-1]
		t.titleStack = t.titleStack[:len(t.titleStack)-1]
	}
	t.titleProvider.PopTitle()
}

// PrivacyMessageReceived forwards a PM sequence's payload to the configured
// provider.
func (t *Terminal) PrivacyMessageReceived(data []byte) {
	if t.middleware != nil && t.middleware.PrivacyMessageReceived != nil {
		t.middleware.PrivacyMessageReceived(data, t.privacyMessageReceivedInternal)
		return
	}
	t.privacyMessageReceivedInternal(data)
}

func (t *Terminal) privacyMessageReceivedInternal(data []byte) {
	t.pmProvider.Receive(data)
}

// PushKeyboardMode adds a keyboard mode to the stack.
func (t *Terminal) PushKeyboardMode(mode ansicode.KeyboardMode) {
	if t.middleware != nil && t.middleware.PushKeyboardMode != nil {
		t.middleware.PushKeyboardMode(mode, t.pushKeyboardModeInternal)
		return
	}
	t.pushKeyboardModeInternal(mode)
}

func (t *Terminal) pushKeyboardModeInternal(mode ansicode.KeyboardMode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.keyboardModes = append(t.keyboardModes, mode)
}

// PushTitle saves the current title onto the stack, capped at
// maxTitleStack so a misbehaving application can't grow it unbounded.
func (t *Terminal) PushTitle() {
	if t.middleware != nil && t.middleware.PushTitle != nil {
		t.middleware.PushTitle(t.pushTitleInternal)
		return
	}
	t.pushTitleInternal()
}

func (t *Terminal) pushTitleInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.titleStack) >= maxTitleStack {
		t.titleStack = t.titleStack[1:]
	}
	t.titleStack = append(t.titleStack, t.title)
	t.titleProvider.PushTitle()
}

// ReportKeyboardMode answers with the top of the keyboard mode stack.
func (t *Terminal) ReportKeyboardMode() {
	if t.middleware != nil && t.middleware.ReportKeyboardMode != nil {
		t.middleware.ReportKeyboardMode(t.reportKeyboardModeInternal)
		return
	}
	t.reportKeyboardModeInternal()
}

func (t *Terminal) reportKeyboardModeInternal() {
	t.mu.RLock()
	mode := ansicode.KeyboardModeNoMode
	if len(t.keyboardModes) > 0 {
		mode = t.keyboardModes[len(t.keyboardModes)-1]
	}
	t.mu.RUnlock()

	t.writeResponseString(fmt.Sprintf("\x1b[?%du", mode))
}

// ReportModifyOtherKeys answers with the current modify-other-keys mode.
func (t *Terminal) ReportModifyOtherKeys() {
	if t.middleware != nil && t.middleware.ReportModifyOtherKeys != nil {
		t.middleware.ReportModifyOtherKeys(t.reportModifyOtherKeysInternal)
		return
	}
	t.reportModifyOtherKeysInternal()
}

func (t *Terminal) reportModifyOtherKeysInternal() {
	t.mu.RLock()
	modify := t.modifyOtherKeys
	t.mu.RUnlock()

	t.writeResponseString(fmt.Sprintf("\x1b[>4;%dm", modify))
}

// ResetColor removes a custom palette entry, reverting index i to the
// default palette.
func (t *Terminal) ResetColor(i int) {
	if t.middleware != nil && t.middleware.ResetColor != nil {
		t.middleware.ResetColor(i, t.resetColorInternal)
		return
	}
	t.resetColorInternal(i)
}

func (t *Terminal) resetColorInternal(i int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.colors, i)
}

// ResetState (RIS) clears both screens, resets the cursor and modes, and
// drops custom colors, keyboard modes, and the active hyperlink.
func (t *Terminal) ResetState() {
	if t.middleware != nil && t.middleware.ResetState != nil {
		t.middleware.ResetState(t.resetStateInternal)
		return
	}
	t.resetStateInternal()
}

func (t *Terminal) resetStateInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, grid := range []*Grid{t.primaryGrid, t.alternateGrid} {
		grid.ClearAll()
		grid.ResetScrollRegion()
		grid.cursor = GridCursor{
			Template: NewCell(),
			Style:    t.defaultCursorStyle,
			Visible:  true,
		}
		grid.savedCursor = nil
	}
	t.activeGrid = t.primaryGrid
	t.savedOriginMode = false

	t.modes = ModeLineWrap | ModeShowCursor
	t.colors = make(map[int]color.Color)
	t.keyboardModes = make([]ansicode.KeyboardMode, 0)
	t.currentHyperlink = nil
	t.damage.MarkFull()
	t.logger.Debug().Msg("full reset (RIS)")
}

// RestoreCursorPosition restores cursor position, attributes, charset state,
// and origin mode from the last SaveCursorPosition (DECRC).
func (t *Terminal) RestoreCursorPosition() {
	if t.middleware != nil && t.middleware.RestoreCursorPosition != nil {
		t.middleware.RestoreCursorPosition(t.restoreCursorPositionInternal)
		return
	}
	t.restoreCursorPositionInternal()
}

func (t *Terminal) restoreCursorPositionInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.restoreCursorPositionLocked()
}

func (t *Terminal) restoreCursorPositionLocked() {
	t.activeGrid.RestoreCursor()
	if t.savedOriginMode {
		t.modes |= ModeOrigin
	} else {
		t.modes &^= ModeOrigin
	}
}

// ReverseIndex (RI) moves the cursor up one row, scrolling the scroll
// region down instead if the cursor sits at its top margin.
func (t *Terminal) ReverseIndex() {
	if t.middleware != nil && t.middleware.ReverseIndex != nil {
		t.middleware.ReverseIndex(t.reverseIndexInternal)
		return
	}
	t.reverseIndexInternal()
}

func (t *Terminal) reverseIndexInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	grid := t.activeGrid
	region := grid.ScrollRegion()
	cur := &grid.cursor
	if cur.Point.Line == region.Start {
		grid.ScrollDown(region, 1)
		t.damage.MarkFull()
	} else if cur.Point.Line > 0 {
		cur.Point.Line--
	}
}

// SaveCursorPosition saves cursor position, attributes, charset state, and
// origin mode for later restoration (DECSC).
func (t *Terminal) SaveCursorPosition() {
	if t.middleware != nil && t.middleware.SaveCursorPosition != nil {
		t.middleware.SaveCursorPosition(t.saveCursorPositionInternal)
		return
	}
	t.saveCursorPositionInternal()
}

func (t *Terminal) saveCursorPositionInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.saveCursorPositionLocked()
}

func (t *Terminal) saveCursorPositionLocked() {
	t.activeGrid.SaveCursor()
	t.savedOriginMode = t.modes&ModeOrigin != 0
}

// ScrollDown (CSI T) shifts n lines down within the scroll region, clearing
// the lines it exposes at the top.
func (t *Terminal) ScrollDown(n int) {
	if t.middleware != nil && t.middleware.ScrollDown != nil {
		t.middleware.ScrollDown(n, t.scrollDownInternal)
		return
	}
	t.scrollDownInternal(n)
}

func (t *Terminal) scrollDownInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	grid := t.activeGrid
	grid.ScrollDown(grid.ScrollRegion(), n)
	t.damage.MarkFull()
}

// ScrollUp (CSI S) shifts n lines up within the scroll region, retiring the
// top lines into scrollback when the region spans the whole viewport.
func (t *Terminal) ScrollUp(n int) {
	if t.middleware != nil && t.middleware.ScrollUp != nil {
		t.middleware.ScrollUp(n, t.scrollUpInternal)
		return
	}
	t.scrollUpInternal(n)
}

func (t *Terminal) scrollUpInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	grid := t.activeGrid
	grid.ScrollUp(grid.ScrollRegion(), n)
	t.damage.MarkFull()
}

// SetActiveCharset selects which charset slot (0-3, G0-G3) is currently
// active for character rendering.
func (t *Terminal) SetActiveCharset(n int) {
	if t.middleware != nil && t.middleware.SetActiveCharset != nil {
		t.middleware.SetActiveCharset(n, t.setActiveCharsetInternal)
		return
	}
	t.setActiveCharsetInternal(n)
}

func (t *Terminal) setActiveCharsetInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n >= 0 && n < 4 {
		t.activeGrid.cursor.CharsetIndex = CharsetIndex(n)
	}
}

// SetColor stores a custom color in the palette at the given index.
func (t *Terminal) SetColor(index int, c color.Color) {
	if t.middleware != nil && t.middleware.SetColor != nil {
		t.middleware.SetColor(index, c, t.setColorInternal)
		return
	}
	t.setColorInternal(index, c)
}

func (t *Terminal) setColorInternal(index int, c color.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.colors[index] = c
}

// SetCursorStyle changes the cursor rendering style (DECSCUSR).
func (t *Terminal) SetCursorStyle(style ansicode.CursorStyle) {
	if t.middleware != nil && t.middleware.SetCursorStyle != nil {
		t.middleware.SetCursorStyle(style, t.setCursorStyleInternal)
		return
	}
	t.setCursorStyleInternal(style)
}

func (t *Terminal) setCursorStyleInternal(style ansicode.CursorStyle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.activeGrid.cursor.Style = CursorStyle(style)
}

// SetDynamicColor answers a dynamic color query (OSC 10/11/12) with the
// current color value.
func (t *Terminal) SetDynamicColor(prefix string, index int, terminator string) {
	if t.middleware != nil && t.middleware.SetDynamicColor != nil {
		t.middleware.SetDynamicColor(prefix, index, terminator, t.setDynamicColorInternal)
		return
	}
	t.setDynamicColorInternal(prefix, index, terminator)
}

func (t *Terminal) setDynamicColorInternal(prefix string, index int, terminator string) {
	t.mu.RLock()
	c, ok := t.colors[index]
	t.mu.RUnlock()

	var rgba color.RGBA
	switch {
	case ok:
		rgba = resolveDefaultColor(c, true)
	case index >= 0 && index < 256:
		rgba = DefaultPalette[index]
	case index >= NamedColorForeground && index <= NamedColorDimForeground:
		rgba = resolveNamedColor(index, index != NamedColorBackground)
	default:
		return
	}
	t.writeResponseString(fmt.Sprintf("\x1b]%s;rgb:%02x/%02x/%02x%s", prefix, rgba.R, rgba.G, rgba.B, terminator))
}

// SetHyperlink sets the active hyperlink (OSC 8) for subsequently written
// characters, generating an id if the sender omitted one. Pass nil to clear
// the hyperlink.
func (t *Terminal) SetHyperlink(hyperlink *ansicode.Hyperlink) {
	if t.middleware != nil && t.middleware.SetHyperlink != nil {
		t.middleware.SetHyperlink(hyperlink, t.setHyperlinkInternal)
		return
	}
	t.setHyperlinkInternal(hyperlink)
}

func (t *Terminal) setHyperlinkInternal(hyperlink *ansicode.Hyperlink) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if hyperlink == nil {
		t.currentHyperlink = nil
		return
	}
	id := hyperlink.ID
	if id == "" {
		id = nextHyperlinkID()
	}
	t.currentHyperlink = &Hyperlink{ID: id, URI: hyperlink.URI}
}

// SetKeyboardMode modifies the top keyboard mode on the stack using the
// given behavior (replace, union, or difference).
func (t *Terminal) SetKeyboardMode(mode ansicode.KeyboardMode, behavior ansicode.KeyboardModeBehavior) {
	if t.middleware != nil && t.middleware.SetKeyboardMode != nil {
		t.middleware.SetKeyboardMode(mode, behavior, t.setKeyboardModeInternal)
		return
	}
	t.setKeyboardModeInternal(mode, behavior)
}

func (t *Terminal) setKeyboardModeInternal(mode ansicode.KeyboardMode, behavior ansicode.KeyboardModeBehavior) {
	t.mu.Lock()
	defer t.mu.Unlock()

	current := ansicode.KeyboardModeNoMode
	if len(t.keyboardModes) > 0 {
		current = t.keyboardModes[len(t.keyboardModes)-1]
	}

	var next ansicode.KeyboardMode
	switch behavior {
	case ansicode.KeyboardModeBehaviorReplace:
		next = mode
	case ansicode.KeyboardModeBehaviorUnion:
		next = current | mode
	case ansicode.KeyboardModeBehaviorDifference:
		next = current &^ mode
	}

	if len(t.keyboardModes) > 0 {
		t.keyboardModes[len(t.keyboardModes)-1] = next
	} else {
		t.keyboardModes = append(t.keyboardModes, next)
	}
}

// SetKeypadApplicationMode enables application keypad mode.
func (t *Terminal) SetKeypadApplicationMode() {
	if t.middleware != nil && t.middleware.SetKeypadApplicationMode != nil {
		t.middleware.SetKeypadApplicationMode(t.setKeypadApplicationModeInternal)
		return
	}
	t.setKeypadApplicationModeInternal()
}

func (t *Terminal) setKeypadApplicationModeInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.modes |= ModeKeypadApplication
}

// SetMode enables a terminal mode flag. Some modes carry side effects:
// ModeOrigin homes the cursor, ModeShowCursor toggles cursor visibility, and
// ModeSwapScreenAndSetRestoreCursor swaps the active grid to the alternate
// screen and saves the cursor.
func (t *Terminal) SetMode(mode ansicode.TerminalMode) {
	if t.middleware != nil && t.middleware.SetMode != nil {
		t.middleware.SetMode(mode, t.setModeInternal)
		return
	}
	t.setModeInternal(mode)
}

func (t *Terminal) setModeInternal(mode ansicode.TerminalMode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.setModeLocked(mode, true)
}

func (t *Terminal) setModeLocked(mode ansicode.TerminalMode, set bool) {
	var m TerminalMode

	switch mode {
	case ansicode.TerminalModeCursorKeys:
		m = ModeCursorKeys
	case ansicode.TerminalModeColumnMode:
		m = ModeColumnMode
	case ansicode.TerminalModeInsert:
		m = ModeInsert
	case ansicode.TerminalModeOrigin:
		m = ModeOrigin
		if set {
			region := t.activeGrid.ScrollRegion()
			t.activeGrid.cursor.Point = Point{Line: region.Start, Col: 0}
		}
	case ansicode.TerminalModeLineWrap:
		m = ModeLineWrap
	case ansicode.TerminalModeBlinkingCursor:
		m = ModeBlinkingCursor
	case ansicode.TerminalModeLineFeedNewLine:
		m = ModeLineFeedNewLine
	case ansicode.TerminalModeShowCursor:
		m = ModeShowCursor
		t.activeGrid.cursor.Visible = set
	case ansicode.TerminalModeReportMouseClicks:
		m = ModeReportMouseClicks
	case ansicode.TerminalModeReportCellMouseMotion:
		m = ModeReportCellMouseMotion
	case ansicode.TerminalModeReportAllMouseMotion:
		m = ModeReportAllMouseMotion
	case ansicode.TerminalModeReportFocusInOut:
		m = ModeReportFocusInOut
	case ansicode.TerminalModeUTF8Mouse:
		m = ModeUTF8Mouse
	case ansicode.TerminalModeSGRMouse:
		m = ModeSGRMouse
	case ansicode.TerminalModeAlternateScroll:
		m = ModeAlternateScroll
	case ansicode.TerminalModeUrgencyHints:
		m = ModeUrgencyHints
	case ansicode.TerminalModeSwapScreenAndSetRestoreCursor:
		m = ModeSwapScreenAndSetRestoreCursor
		if set {
			t.saveCursorPositionLocked()
			t.activeGrid = t.alternateGrid
			t.activeGrid.ClearAll()
		} else {
			t.activeGrid = t.primaryGrid
			t.restoreCursorPositionLocked()
		}
		t.damage.MarkFull()
	case ansicode.TerminalModeBracketedPaste:
		m = ModeBracketedPaste
	default:
		return
	}

	if set {
		if m&mouseReportMask != 0 {
			t.modes &^= mouseReportMask
		}
		if m&mouseEncodingMask != 0 {
			t.modes &^= mouseEncodingMask
		}
		t.modes |= m
	} else {
		t.modes &^= m
	}
}

// SetModifyOtherKeys sets how modifier keys are reported in keyboard input.
func (t *Terminal) SetModifyOtherKeys(modify ansicode.ModifyOtherKeys) {
	if t.middleware != nil && t.middleware.SetModifyOtherKeys != nil {
		t.middleware.SetModifyOtherKeys(modify, t.setModifyOtherKeysInternal)
		return
	}
	t.setModifyOtherKeysInternal(modify)
}

func (t *Terminal) setModifyOtherKeysInternal(modify ansicode.ModifyOtherKeys) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.modifyOtherKeys = modify
}

// SetScrollingRegion sets the scroll boundaries (1-based and inclusive on
// the wire, converted to the grid's 0-based inclusive Range). Moves the
// cursor to the region's home position.
func (t *Terminal) SetScrollingRegion(top, bottom int) {
	if t.middleware != nil && t.middleware.SetScrollingRegion != nil {
		t.middleware.SetScrollingRegion(top, bottom, t.setScrollingRegionInternal)
		return
	}
	t.setScrollingRegionInternal(top, bottom)
}

func (t *Terminal) setScrollingRegionInternal(top, bottom int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	grid := t.activeGrid
	top0 := top - 1
	bottom0 := bottom - 1
	if top0 < 0 {
		top0 = 0
	}
	if bottom <= 0 || bottom0 > grid.Lines()-1 {
		bottom0 = grid.Lines() - 1
	}
	if top0 >= bottom0 {
		return
	}

	grid.SetScrollRegion(Line(top0), Line(bottom0))

	if t.modes&ModeOrigin != 0 {
		grid.cursor.Point.Line = grid.ScrollRegion().Start
	} else {
		grid.cursor.Point.Line = 0
	}
	grid.cursor.Point.Col = 0
	grid.cursor.PendingWrap = false
	t.damage.MarkFull()
}

// StartOfStringReceived forwards a SOS sequence's payload to the configured
// provider.
func (t *Terminal) StartOfStringReceived(data []byte) {
	if t.middleware != nil && t.middleware.StartOfStringReceived != nil {
		t.middleware.StartOfStringReceived(data, t.startOfStringReceivedInternal)
		return
	}
	t.startOfStringReceivedInternal(data)
}

func (t *Terminal) startOfStringReceivedInternal(data []byte) {
	t.sosProvider.Receive(data)
}

// SetTerminalCharAttribute applies an SGR attribute to the active grid
// cursor's template, so subsequently written cells pick it up.
func (t *Terminal) SetTerminalCharAttribute(attr ansicode.TerminalCharAttribute) {
	if t.middleware != nil && t.middleware.SetTerminalCharAttribute != nil {
		t.middleware.SetTerminalCharAttribute(attr, t.setTerminalCharAttributeInternal)
		return
	}
	t.setTerminalCharAttributeInternal(attr)
}

func (t *Terminal) setTerminalCharAttributeInternal(attr ansicode.TerminalCharAttribute) {
	t.mu.Lock()
	defer t.mu.Unlock()

	template := &t.activeGrid.cursor.Template

	switch attr.Attr {
	case ansicode.CharAttributeReset:
		*template = NewCell()

	case ansicode.CharAttributeBold:
		template.SetFlag(CellFlagBold)

	case ansicode.CharAttributeDim:
		template.SetFlag(CellFlagDim)

	case ansicode.CharAttributeItalic:
		template.SetFlag(CellFlagItalic)

	case ansicode.CharAttributeUnderline:
		template.SetFlag(CellFlagUnderline)
		template.ClearFlag(CellFlagDoubleUnderline | CellFlagUndercurl | CellFlagDottedUnderline | CellFlagDashedUnderline)

	case ansicode.CharAttributeDoubleUnderline:
		template.SetFlag(CellFlagDoubleUnderline)
		template.ClearFlag(CellFlagUnderline | CellFlagUndercurl | CellFlagDottedUnderline | CellFlagDashedUnderline)

	case ansicode.CharAttributeCurlyUnderline:
		template.SetFlag(CellFlagUndercurl)
		template.ClearFlag(CellFlagUnderline | CellFlagDoubleUnderline | CellFlagDottedUnderline | CellFlagDashedUnderline)

	case ansicode.CharAttributeDottedUnderline:
		template.SetFlag(CellFlagDottedUnderline)
		template.ClearFlag(CellFlagUnderline | CellFlagDoubleUnderline | CellFlagUndercurl | CellFlagDashedUnderline)

	case ansicode.CharAttributeDashedUnderline:
		template.SetFlag(CellFlagDashedUnderline)
		template.ClearFlag(CellFlagUnderline | CellFlagDoubleUnderline | CellFlagUndercurl | CellFlagDottedUnderline)

	case ansicode.CharAttributeBlinkSlow:
		template.SetFlag(CellFlagBlinkSlow)

	case ansicode.CharAttributeBlinkFast:
		template.SetFlag(CellFlagBlinkFast)

	case ansicode.CharAttributeReverse:
		template.SetFlag(CellFlagInverse)

	case ansicode.CharAttributeHidden:
		template.SetFlag(CellFlagHidden)

	case ansicode.CharAttributeStrike:
		template.SetFlag(CellFlagStrikeout)

	case ansicode.CharAttributeCancelBold:
		template.ClearFlag(CellFlagBold)

	case ansicode.CharAttributeCancelBoldDim:
		template.ClearFlag(CellFlagBold | CellFlagDim)

	case ansicode.CharAttributeCancelItalic:
		template.ClearFlag(CellFlagItalic)

	case ansicode.CharAttributeCancelUnderline:
		template.ClearFlag(CellFlagUnderline | CellFlagDoubleUnderline | CellFlagUndercurl | CellFlagDottedUnderline | CellFlagDashedUnderline)

	case ansicode.CharAttributeCancelBlink:
		template.ClearFlag(CellFlagBlinkSlow | CellFlagBlinkFast)

	case ansicode.CharAttributeCancelReverse:
		template.ClearFlag(CellFlagInverse)

	case ansicode.CharAttributeCancelHidden:
		template.ClearFlag(CellFlagHidden)

	case ansicode.CharAttributeCancelStrike:
		template.ClearFlag(CellFlagStrikeout)

	case ansicode.CharAttributeForeground:
		template.Fg = t.resolveColor(attr)

	case ansicode.CharAttributeBackground:
		template.Bg = t.resolveColor(attr)

	case ansicode.CharAttributeUnderlineColor:
		if attr.RGBColor == nil && attr.IndexedColor == nil && attr.NamedColor == nil {
			template.UnderlineColor = nil
		} else {
			template.UnderlineColor = t.resolveColor(attr)
		}
	}
}

// resolveColor converts an SGR color attribute to a color.Color, falling
// back to a NamedColor default when no specific color was given.
func (t *Terminal) resolveColor(attr ansicode.TerminalCharAttribute) color.Color {
	if attr.RGBColor != nil {
		return color.RGBA{R: attr.RGBColor.R, G: attr.RGBColor.G, B: attr.RGBColor.B, A: 255}
	}
	if attr.IndexedColor != nil {
		return &IndexedColor{Index: int(attr.IndexedColor.Index)}
	}
	if attr.NamedColor != nil {
		return &NamedColor{Name: int(*attr.NamedColor)}
	}

	switch attr.Attr {
	case ansicode.CharAttributeBackground:
		return &NamedColor{Name: NamedColorBackground}
	default:
		return &NamedColor{Name: NamedColorForeground}
	}
}

// SetTitle updates the window title and notifies the title provider.
func (t *Terminal) SetTitle(title string) {
	if t.middleware != nil && t.middleware.SetTitle != nil {
		t.middleware.SetTitle(title, t.setTitleInternal)
		return
	}
	t.setTitleInternal(title)
}

func (t *Terminal) setTitleInternal(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.title = title
	t.titleProvider.SetTitle(title)
}

// Substitute replaces the character at the cursor with '?'.
func (t *Terminal) Substitute() {
	if t.middleware != nil && t.middleware.Substitute != nil {
		t.middleware.Substitute(t.substituteInternal)
		return
	}
	t.substituteInternal()
}

func (t *Terminal) substituteInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	grid := t.activeGrid
	if cell := grid.Cell(grid.cursor.Point); cell != nil {
		cell.Char = '?'
	}
	t.damage.MarkLine(grid.cursor.Point.Line, int(grid.cursor.Point.Col), int(grid.cursor.Point.Col))
}

// Tab moves the cursor right to the next n tab stops.
func (t *Terminal) Tab(n int) {
	if t.middleware != nil && t.middleware.Tab != nil {
		t.middleware.Tab(n, t.tabInternal)
		return
	}
	t.tabInternal(n)
}

func (t *Terminal) tabInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := &t.activeGrid.cursor
	for i := 0; i < n; i++ {
		cur.Point.Col = Column(t.activeGrid.NextTabStop(int(cur.Point.Col)))
	}
	cur.PendingWrap = false
}

// TextAreaSizeChars answers the viewport dimensions in characters.
func (t *Terminal) TextAreaSizeChars() {
	if t.middleware != nil && t.middleware.TextAreaSizeChars != nil {
		t.middleware.TextAreaSizeChars(t.textAreaSizeCharsInternal)
		return
	}
	t.textAreaSizeCharsInternal()
}

func (t *Terminal) textAreaSizeCharsInternal() {
	t.mu.RLock()
	rows, cols := t.rows, t.cols
	t.mu.RUnlock()

	t.writeResponseString(fmt.Sprintf("\x1b[8;%d;%dt", rows, cols))
}

// TextAreaSizePixels answers the viewport dimensions in pixels, using the
// size provider's cell dimensions.
func (t *Terminal) TextAreaSizePixels() {
	if t.middleware != nil && t.middleware.TextAreaSizePixels != nil {
		t.middleware.TextAreaSizePixels(t.textAreaSizePixelsInternal)
		return
	}
	t.textAreaSizePixelsInternal()
}

func (t *Terminal) textAreaSizePixelsInternal() {
	t.mu.RLock()
	rows, cols := t.rows, t.cols
	t.mu.RUnlock()

	cellW, cellH := t.getCellSizePixels()
	t.writeResponseString(fmt.Sprintf("\x1b[4;%d;%dt", rows*cellH, cols*cellW))
}

// UnsetKeypadApplicationMode disables application keypad mode.
func (t *Terminal) UnsetKeypadApplicationMode() {
	if t.middleware != nil && t.middleware.UnsetKeypadApplicationMode != nil {
		t.middleware.UnsetKeypadApplicationMode(t.unsetKeypadApplicationModeInternal)
		return
	}
	t.unsetKeypadApplicationModeInternal()
}

func (t *Terminal) unsetKeypadApplicationModeInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.modes &^= ModeKeypadApplication
}

// UnsetMode disables a terminal mode flag.
func (t *Terminal) UnsetMode(mode ansicode.TerminalMode) {
	if t.middleware != nil && t.middleware.UnsetMode != nil {
		t.middleware.UnsetMode(mode, t.unsetModeInternal)
		return
	}
	t.unsetModeInternal(mode)
}

func (t *Terminal) unsetModeInternal(mode ansicode.TerminalMode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.setModeLocked(mode, false)
}

// IndexedColor references a palette color by index (0-255); resolution to
// RGBA happens at render time via resolveDefaultColor.
type IndexedColor struct {
	Index int
}

// RGBA implements color.Color with a placeholder value; actual resolution
// happens via resolveDefaultColor, not this method.
func (c *IndexedColor) RGBA() (r, g, b, a uint32) {
	return 0, 0, 0, 0xffff
}

// NamedColor references a color by semantic slot (foreground, background,
// cursor, the ANSI 16, or a dim variant); resolution to RGBA happens at
// render time via resolveDefaultColor.
type NamedColor struct {
	Name int
}

// RGBA implements color.Color with a placeholder value; actual resolution
// happens via resolveDefaultColor, not this method.
func (c *NamedColor) RGBA() (r, g, b, a uint32) {
	return 0, 0, 0, 0xffff
}

// SetWorkingDirectory is a no-op: tracking the shell's working directory
// (OSC 7) is outside this module's scope, but the method stays to satisfy
// the decoder's dispatch interface.
func (t *Terminal) SetWorkingDirectory(uri string) {}

// CellSizePixels answers a cell-size-in-pixels query (CSI 16 t) using the
// installed SizeProvider.
func (t *Terminal) CellSizePixels() {
	if t.middleware != nil && t.middleware.CellSizePixels != nil {
		t.middleware.CellSizePixels(t.cellSizePixelsInternal)
		return
	}
	t.cellSizePixelsInternal()
}

func (t *Terminal) cellSizePixelsInternal() {
	cellWidth, cellHeight := t.getCellSizePixels()
	t.writeResponseString(fmt.Sprintf("\x1b[6;%d;%dt", cellHeight, cellWidth))
}

// getCellSizePixels returns the cell size in pixels, falling back to a
// plausible default when no SizeProvider reports anything sensible.
func (t *Terminal) getCellSizePixels() (width, height int) {
	t.mu.RLock()
	sp := t.sizeProvider
	t.mu.RUnlock()

	if sp != nil {
		if w, h := sp.CellSizePixels(); w > 0 && h > 0 {
			return w, h
		}
	}
	return 10, 20
}

// SixelReceived is a no-op: Sixel graphics rendering is outside this
// module's scope, but the method stays to satisfy the decoder's dispatch
// interface.
func (t *Terminal) SixelReceived(params [][]uint16, data []byte) {}
