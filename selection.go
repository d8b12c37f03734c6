package vtcore

import "strings"

// SelectionKind identifies the selection extension behavior: a plain
// character range, a word/semantic region, whole lines, or a rectangular
// block.
type SelectionKind int

const (
	SelectionSimple SelectionKind = iota
	SelectionSemantic
	SelectionLines
	SelectionBlock
)

// selectionAnchor is one endpoint of a selection: the point it was placed at,
// and which half of that cell (left glyph half or right spacer half) it
// anchors to, so a click on a wide character's spacer half still selects the
// whole glyph.
type selectionAnchor struct {
	Point Point
	Side  Side
}

// Selection tracks an in-progress or completed text selection over a Grid.
// It always has two anchors (the point the drag started at, the point it's
// currently at); ToRange normalizes them into an ordered inclusive range
// appropriate to Kind.
type Selection struct {
	Kind   SelectionKind
	Start  selectionAnchor
	End    selectionAnchor
	active bool
}

// NewSelection begins a selection of the given kind anchored at p. For
// Semantic and Lines kinds, the anchor is immediately widened to the
// enclosing word or line so a single click already selects something
// sensible.
func NewSelection(kind SelectionKind, p Point, side Side, term *Terminal) *Selection {
	s := &Selection{Kind: kind, Start: selectionAnchor{Point: p, Side: side}, active: true}
	s.End = s.Start
	if term != nil {
		switch kind {
		case SelectionSemantic:
			start, end := term.semanticRange(p)
			s.Start = selectionAnchor{Point: start, Side: SideLeft}
			s.End = selectionAnchor{Point: end, Side: SideRight}
		case SelectionLines:
			start, end := term.lineRange(p)
			s.Start = selectionAnchor{Point: start, Side: SideLeft}
			s.End = selectionAnchor{Point: end, Side: SideRight}
		}
	}
	return s
}

// Update extends the live end of the selection to a new point, re-widening
// to word/line boundaries for Semantic/Lines kinds.
func (s *Selection) Update(p Point, side Side, term *Terminal) {
	if s == nil {
		return
	}
	switch s.Kind {
	case SelectionSemantic:
		_, end := term.semanticRange(p)
		if p.Before(s.Start.Point) {
			start, _ := term.semanticRange(p)
			s.End = s.Start
			s.Start = selectionAnchor{Point: start, Side: SideLeft}
		} else {
			s.End = selectionAnchor{Point: end, Side: SideRight}
		}
	case SelectionLines:
		start, end := term.lineRange(p)
		if p.Before(s.Start.Point) {
			s.Start = selectionAnchor{Point: start, Side: SideLeft}
		} else {
			s.End = selectionAnchor{Point: end, Side: SideRight}
		}
	default:
		s.End = selectionAnchor{Point: p, Side: side}
	}
}

// IsEmpty reports whether the selection spans zero cells.
func (s *Selection) IsEmpty() bool {
	if s == nil {
		return true
	}
	a, b := s.Start.Point, s.End.Point
	return a.Equal(b) && s.Start.Side == s.End.Side && s.Kind == SelectionSimple
}

// ToRange normalizes the two anchors into an ordered (start, end) pair and
// reports whether the selection is non-empty. Wide-character spacers are
// absorbed into their owning glyph's column: a selection boundary landing on
// a WIDE_CHAR_SPACER extends to or from its WIDE_CHAR partner so highlighting
// never splits a double-width glyph.
func (s *Selection) ToRange(term *Terminal) (start, end Point, ok bool) {
	if s == nil {
		return Point{}, Point{}, false
	}
	a, b := s.Start, s.End
	if b.Point.Before(a.Point) {
		a, b = b, a
	}
	start, end = a.Point, b.Point

	switch s.Kind {
	case SelectionBlock:
		// Columns are independent per line; ensure left<=right ordering.
		if end.Col < start.Col {
			start.Col, end.Col = end.Col, start.Col
		}
	case SelectionLines:
		start.Col = 0
		end.Col = Column(term.Cols() - 1)
	default:
		if a.Side == SideRight {
			start.Col++
		}
		if b.Side == SideLeft && end.Col > 0 {
			end.Col--
		}
	}

	grid := term.activeGrid
	if cell := grid.Cell(start); cell != nil && cell.IsWideSpacer() {
		start.Col--
	}
	if cell := grid.Cell(end); cell != nil && cell.IsWide() {
		end.Col++
	}

	if end.Before(start) {
		return start, end, false
	}
	return start, end, true
}

// Contains reports whether p falls within the selection, honoring Block's
// per-line column range independent of other lines.
func (s *Selection) Contains(p Point, term *Terminal) bool {
	start, end, ok := s.ToRange(term)
	if !ok {
		return false
	}
	if s.Kind == SelectionBlock {
		if p.Line < start.Line || p.Line > end.Line {
			return false
		}
		return p.Col >= start.Col && p.Col <= end.Col
	}
	return !p.Before(start) && !end.Before(p)
}

// Rotate shifts both anchors by delta lines when region scrolls (e.g. new
// scrollback pushed in at the top retires old history, which would otherwise
// silently move what a stale selection's line numbers point at). Anchors
// that scroll off the retained range are dropped by clearing the selection.
func (s *Selection) Rotate(term *Terminal, region Range, delta int) {
	if s == nil {
		return
	}
	shift := func(a *selectionAnchor) bool {
		if !region.Contains(a.Point.Line) {
			return true
		}
		newLine := int(a.Point.Line) - delta
		if newLine < int(region.Start) || newLine > int(region.End) {
			return false
		}
		a.Point.Line = Line(newLine)
		return true
	}
	if !shift(&s.Start) || !shift(&s.End) {
		s.active = false
	}
}

// Active reports whether the selection is still live (hasn't been rotated
// out of existence or explicitly cleared).
func (s *Selection) Active() bool { return s != nil && s.active }

// Text extracts the selected text from term, joining block-selection rows
// with newlines and simple/semantic/line selections following wrap markers
// so a soft-wrapped paragraph round-trips as one unbroken line.
func (s *Selection) Text(term *Terminal) string {
	start, end, ok := s.ToRange(term)
	if !ok {
		return ""
	}
	var b strings.Builder
	grid := term.activeGrid

	if s.Kind == SelectionBlock {
		for line := start.Line; line <= end.Line; line++ {
			row := grid.Line(line)
			if row == nil {
				continue
			}
			lo, hi := int(start.Col), int(end.Col)
			if hi >= row.Len() {
				hi = row.Len() - 1
			}
			for c := lo; c <= hi; c++ {
				cell := row.Cell(c)
				if cell == nil || cell.IsWideSpacer() || cell.IsLeadingWideCharSpacer() {
					continue
				}
				b.WriteString(string(cell.Runes()))
			}
			if line != end.Line {
				b.WriteByte('\n')
			}
		}
		return b.String()
	}

	for line := start.Line; line <= end.Line; line++ {
		row := grid.Line(line)
		if row == nil {
			continue
		}
		lo := 0
		hi := row.Len() - 1
		if line == start.Line {
			lo = int(start.Col)
		}
		if line == end.Line {
			hi = int(end.Col)
			if hi >= row.Len() {
				hi = row.Len() - 1
			}
		}
		for c := lo; c <= hi; c++ {
			cell := row.Cell(c)
			if cell == nil || cell.IsWideSpacer() || cell.IsLeadingWideCharSpacer() {
				continue
			}
			b.WriteString(string(cell.Runes()))
		}
		if line != end.Line && !row.IsWrapped() {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
