package vtcore

// GridCursor is the cursor state owned by a Grid: position, the template
// cell new characters are stamped with, active charset slot, and the
// charset mapped into each of the four G0-G3 slots.
type GridCursor struct {
	Point        Point
	Template     Cell
	CharsetIndex CharsetIndex
	Charsets     [4]Charset
	Style        CursorStyle
	Visible      bool
	// PendingWrap records that the cursor sits one past the last column and
	// the next printable character should wrap before being written, the
	// "deferred wrap" behavior terminals use so that a line exactly filling
	// the last column doesn't immediately steal a blank row below it.
	PendingWrap bool
}

// Grid couples a Storage ring (viewport + scrollback) to a cursor and an
// active scroll region. One Grid backs the primary screen, another (with no
// scrollback) backs the alternate screen.
type Grid struct {
	storage       *Storage
	lines         int
	cols          int
	displayOffset int
	scrollTop     Line
	scrollBottom  Line
	cursor        GridCursor
	savedCursor   *GridCursor
	tabStops      []bool
	tabWidth      int
	maxScrollback int
}

// NewGrid builds a grid of lines x cols with up to maxScrollback retained
// history lines (0 disables scrollback, as on the alternate screen).
func NewGrid(lines, cols, maxScrollback int) *Grid {
	g := &Grid{
		storage:       NewStorage(lines, cols, maxScrollback),
		lines:         lines,
		cols:          cols,
		scrollTop:     Line(0),
		scrollBottom:  Line(lines - 1),
		maxScrollback: maxScrollback,
		tabWidth:      8,
	}
	g.cursor.Template = NewCell()
	g.cursor.Visible = true
	g.resetTabStops()
	return g
}

func (g *Grid) resetTabStops() {
	w := g.tabWidth
	if w <= 0 {
		w = 8
	}
	g.tabStops = make([]bool, g.cols)
	for i := 0; i < g.cols; i += w {
		g.tabStops[i] = true
	}
}

// SetTabWidth changes the spacing used when tab stops are reset (on
// construction or resize) and immediately re-lays the current tab stops.
func (g *Grid) SetTabWidth(w int) {
	if w <= 0 {
		w = 8
	}
	g.tabWidth = w
	g.resetTabStops()
}

// Lines returns the viewport height.
func (g *Grid) Lines() int { return g.lines }

// Cols returns the viewport width.
func (g *Grid) Cols() int { return g.cols }

// ScrollbackLen returns the number of history lines above the viewport.
func (g *Grid) ScrollbackLen() int { return g.storage.ScrollbackLen() }

// SetScrollbackSink installs a callback invoked with a row's cells right
// before a full-viewport scroll-up recycles that row out of the ring, the
// hook a ScrollbackProvider uses to persist history beyond the ring's own
// retention. Pass nil to stop forwarding evictions.
func (g *Grid) SetScrollbackSink(fn func(cells []Cell)) {
	g.storage.SetEvictHandler(fn)
}

// DisplayOffset returns how many lines the view is currently scrolled back
// into history; 0 means the live viewport is showing.
func (g *Grid) DisplayOffset() int { return g.displayOffset }

// bufIndex maps a viewport-relative Line (possibly negative, into
// scrollback) at the current display offset to an absolute Storage buffer
// index.
func (g *Grid) bufIndex(line Line) int {
	return g.storage.Len() - g.storage.Visible() - g.displayOffset + int(line)
}

// Line returns the row at the given viewport-relative line, honoring the
// current scrollback display offset. Returns nil if out of range.
func (g *Grid) Line(line Line) *Row {
	return g.storage.Row(g.bufIndex(line))
}

// Cell returns the cell at p, or nil if out of range.
func (g *Grid) Cell(p Point) *Cell {
	row := g.Line(p.Line)
	if row == nil {
		return nil
	}
	return row.Cell(int(p.Col))
}

// ScrollDisplay moves the scrollback viewing offset by delta lines (positive
// scrolls back into history, negative scrolls toward the live viewport),
// clamped to [0, ScrollbackLen()].
func (g *Grid) ScrollDisplay(delta int) {
	g.displayOffset = clampInt(g.displayOffset+delta, 0, g.storage.ScrollbackLen())
}

// ScrollDisplayToBottom resets the scrollback viewing offset to the live
// viewport.
func (g *Grid) ScrollDisplayToBottom() { g.displayOffset = 0 }

// ScrollRegion returns the active scroll region as an inclusive Line range.
func (g *Grid) ScrollRegion() Range { return Range{Start: g.scrollTop, End: g.scrollBottom} }

// SetScrollRegion sets the active scroll region, clamped to the viewport.
func (g *Grid) SetScrollRegion(top, bottom Line) {
	top = Line(clampInt(int(top), 0, g.lines-1))
	bottom = Line(clampInt(int(bottom), 0, g.lines-1))
	if top > bottom {
		top, bottom = bottom, top
	}
	g.scrollTop = top
	g.scrollBottom = bottom
}

// ResetScrollRegion restores the scroll region to the full viewport.
func (g *Grid) ResetScrollRegion() {
	g.scrollTop = 0
	g.scrollBottom = Line(g.lines - 1)
}

// ScrollUp scrolls n lines upward within region: lines at the top of region
// are retired (into scrollback if region spans the whole viewport and is
// anchored at the ring's true top), and n blank lines appear at the bottom
// of region. This is the hot path for LF at the bottom margin and for
// CSI S / IND, so the full-viewport case takes the O(1) ring-rotation path
// instead of touching every row in region.
func (g *Grid) ScrollUp(region Range, n int) {
	if n <= 0 {
		return
	}
	top, bottom := int(region.Start), int(region.End)
	if top < 0 {
		top = 0
	}
	if bottom > g.lines-1 {
		bottom = g.lines - 1
	}
	if top > bottom {
		return
	}
	span := bottom - top + 1
	if n > span {
		n = span
	}

	if top == 0 && bottom == g.lines-1 {
		for i := 0; i < n; i++ {
			g.storage.PushBottom(g.cursor.Template)
		}
		return
	}

	for i := 0; i < span-n; i++ {
		g.storage.Swap(g.bufIndex(Line(top+i)), g.bufIndex(Line(top+i+n)))
	}
	for i := bottom - n + 1; i <= bottom; i++ {
		g.Line(Line(i)).Reset(g.cursor.Template)
	}
}

// ScrollDown scrolls n lines downward within region: lines at the bottom of
// region are discarded and n blank lines appear at the top of region. Never
// touches scrollback, since scrollback only accumulates lines retired off
// the live top of the buffer.
func (g *Grid) ScrollDown(region Range, n int) {
	if n <= 0 {
		return
	}
	top, bottom := int(region.Start), int(region.End)
	if top < 0 {
		top = 0
	}
	if bottom > g.lines-1 {
		bottom = g.lines - 1
	}
	if top > bottom {
		return
	}
	span := bottom - top + 1
	if n > span {
		n = span
	}

	for i := span - 1; i >= n; i-- {
		g.storage.Swap(g.bufIndex(Line(top+i)), g.bufIndex(Line(top+i-n)))
	}
	for i := top; i < top+n; i++ {
		g.Line(Line(i)).Reset(g.cursor.Template)
	}
}

// ClearViewport resets every visible cell to the cursor template, without
// touching scrollback.
func (g *Grid) ClearViewport() {
	for i := 0; i < g.lines; i++ {
		g.Line(Line(i)).Reset(g.cursor.Template)
	}
}

// ClearAll resets the viewport and drops all scrollback history.
func (g *Grid) ClearAll() {
	g.storage.Clear(g.cursor.Template)
	g.displayOffset = 0
}

// ClearScrollback discards history rows above the viewport without touching
// the viewport itself, the behavior CSI 3 J (erase saved lines) wants as
// distinct from CSI 2 J (erase the screen).
func (g *Grid) ClearScrollback() {
	g.storage.ShrinkFront(g.storage.ScrollbackLen())
	g.displayOffset = 0
}

// ClearLine resets an entire visible line.
func (g *Grid) ClearLine(line Line) {
	row := g.Line(line)
	if row != nil {
		row.Reset(g.cursor.Template)
	}
}

// ClearLineRange resets columns [startCol, endCol) of a visible line.
func (g *Grid) ClearLineRange(line Line, startCol, endCol int) {
	row := g.Line(line)
	if row == nil {
		return
	}
	if startCol < 0 {
		startCol = 0
	}
	if endCol > row.Len() {
		endCol = row.Len()
	}
	for c := startCol; c < endCol; c++ {
		row.cells[c].ResetWithTemplate(g.cursor.Template)
	}
}

// InsertBlanks inserts n blank cells at (line, col), shifting cells right
// within the line and discarding what falls off the right edge.
func (g *Grid) InsertBlanks(line Line, col, n int) {
	row := g.Line(line)
	if row == nil || n <= 0 {
		return
	}
	cols := row.Len()
	if col < 0 || col >= cols {
		return
	}
	if n > cols-col {
		n = cols - col
	}
	for c := cols - 1; c >= col+n; c-- {
		row.cells[c] = row.cells[c-n]
	}
	for c := col; c < col+n; c++ {
		row.cells[c].ResetWithTemplate(g.cursor.Template)
	}
}

// DeleteChars removes n cells at (line, col), shifting remaining cells left
// and filling the vacated end of line with the cursor template.
func (g *Grid) DeleteChars(line Line, col, n int) {
	row := g.Line(line)
	if row == nil || n <= 0 {
		return
	}
	cols := row.Len()
	if col < 0 || col >= cols {
		return
	}
	if n > cols-col {
		n = cols - col
	}
	for c := col; c < cols-n; c++ {
		row.cells[c] = row.cells[c+n]
	}
	for c := cols - n; c < cols; c++ {
		row.cells[c].ResetWithTemplate(g.cursor.Template)
	}
}

// InsertLines inserts n blank lines at line within the active scroll
// region, shifting lines below it down and off the bottom of the region.
func (g *Grid) InsertLines(line Line, n int) {
	region := g.ScrollRegion()
	if !region.Contains(line) {
		return
	}
	g.ScrollDown(Range{Start: line, End: region.End}, n)
}

// DeleteLines removes n lines at line within the active scroll region,
// shifting lines below it up and bringing in blank lines at the region
// bottom.
func (g *Grid) DeleteLines(line Line, n int) {
	region := g.ScrollRegion()
	if !region.Contains(line) {
		return
	}
	g.ScrollUp(Range{Start: line, End: region.End}, n)
}

// Resize changes the viewport dimensions in place, preserving scrollback and
// reusing storage capacity rather than reallocating the whole ring. Shrinking
// drops rows below the cursor first; only rows that still do not fit move
// off the top into scrollback, and the cursor moves up with them.
func (g *Grid) Resize(lines, cols int) {
	if lines < 1 {
		lines = 1
	}
	if cols < 1 {
		cols = 1
	}
	if lines < g.lines {
		drop := clampInt(g.lines-lines, 0, g.lines-1-int(g.cursor.Point.Line))
		g.storage.length -= drop
		g.storage.visible -= drop
		g.cursor.Point.Line -= Line(g.lines - lines - drop)
	}
	g.storage.Resize(lines, cols, g.cursor.Template)
	g.lines = lines
	if cols != g.cols {
		g.cols = cols
		g.resetTabStops()
	}
	g.scrollTop = 0
	g.scrollBottom = Line(lines - 1)
	g.cursor.Point.Col = Column(clampInt(int(g.cursor.Point.Col), 0, cols-1))
	g.cursor.Point.Line = Line(clampInt(int(g.cursor.Point.Line), 0, lines-1))
	g.displayOffset = clampInt(g.displayOffset, 0, g.storage.ScrollbackLen())
}

// SaveCursor snapshots the cursor for later restoration (DECSC / alt-screen
// entry).
func (g *Grid) SaveCursor() {
	saved := g.cursor
	g.savedCursor = &saved
}

// RestoreCursor restores a previously saved cursor, if any.
func (g *Grid) RestoreCursor() {
	if g.savedCursor == nil {
		return
	}
	g.cursor = *g.savedCursor
}

// SetTabStop enables a tab stop at col.
func (g *Grid) SetTabStop(col int) {
	if col >= 0 && col < len(g.tabStops) {
		g.tabStops[col] = true
	}
}

// ClearTabStop disables the tab stop at col.
func (g *Grid) ClearTabStop(col int) {
	if col >= 0 && col < len(g.tabStops) {
		g.tabStops[col] = false
	}
}

// ClearAllTabStops disables every tab stop.
func (g *Grid) ClearAllTabStops() {
	for i := range g.tabStops {
		g.tabStops[i] = false
	}
}

// NextTabStop returns the next enabled tab stop after col, or the last
// column if none remain.
func (g *Grid) NextTabStop(col int) int {
	for c := col + 1; c < len(g.tabStops); c++ {
		if g.tabStops[c] {
			return c
		}
	}
	return len(g.tabStops) - 1
}

// PrevTabStop returns the previous enabled tab stop before col, or 0 if none.
func (g *Grid) PrevTabStop(col int) int {
	for c := col - 1; c >= 0; c-- {
		if g.tabStops[c] {
			return c
		}
	}
	return 0
}

// Iterator walks grid cells in reading order between two absolute Points,
// spanning scrollback and viewport uniformly, used by Selection and Search.
type Iterator struct {
	grid    *Grid
	current Point
	end     Point
	done    bool
	reverse bool
}

// Iter returns a forward iterator over [from, to].
func (g *Grid) Iter(from, to Point) *Iterator {
	return &Iterator{grid: g, current: from, end: to}
}

// IterReverse returns a reverse iterator over [to, from], yielding from
// first.
func (g *Grid) IterReverse(from, to Point) *Iterator {
	return &Iterator{grid: g, current: from, end: to, reverse: true}
}

// Next advances and returns the next point and its cell, or ok=false when
// iteration is exhausted.
func (it *Iterator) Next() (Point, *Cell, bool) {
	if it.done {
		return Point{}, nil, false
	}
	p := it.current
	cell := it.grid.Cell(p)

	if it.reverse {
		if p.Equal(it.end) {
			it.done = true
		} else if p.Col > 0 {
			it.current.Col--
		} else {
			it.current.Line--
			it.current.Col = Column(it.grid.Cols() - 1)
		}
	} else {
		if p.Equal(it.end) {
			it.done = true
		} else if int(p.Col) < it.grid.Cols()-1 {
			it.current.Col++
		} else {
			it.current.Line++
			it.current.Col = 0
		}
	}

	return p, cell, true
}
