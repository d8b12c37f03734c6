package vtcore

import (
	"regexp"
	"strings"
	"unicode"
)

// SearchDirection selects which way a regex search walks the grid.
type SearchDirection int

const (
	SearchForward SearchDirection = iota
	SearchBackward
)

// CompileSearch compiles pattern for use with Terminal.Search, applying
// smart-case: the match is case-sensitive if pattern contains any uppercase
// rune, case-insensitive otherwise. This mirrors the smart-case convention
// common to terminal/editor searches (vim, ripgrep) rather than forcing
// callers to pick a flag.
func CompileSearch(pattern string) (*regexp.Regexp, error) {
	if hasUpperRune(pattern) {
		return regexp.Compile(pattern)
	}
	return regexp.Compile("(?i)" + pattern)
}

func hasUpperRune(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// lineText renders a Grid line to a plain string, skipping spacer and
// leading-spacer cells so each wide glyph contributes its runes once; the
// result is therefore shorter than the row whenever it holds wide glyphs.
func lineText(row *Row) string {
	if row == nil {
		return ""
	}
	var b strings.Builder
	for i := 0; i < row.Len(); i++ {
		cell := row.Cell(i)
		if cell.IsWideSpacer() || cell.IsLeadingWideCharSpacer() {
			continue
		}
		b.WriteString(string(cell.Runes()))
	}
	return b.String()
}

// SearchMatch is one regex match location, expressed as an inclusive Point
// range on the grid.
type SearchMatch struct {
	Start Point
	End   Point
}

// joinedLine is one logical (possibly multi-row, soft-wrapped) line of text
// built by walking wrap markers, paired with a column lookup so a byte offset
// in the joined string maps back to a (Line, Column) on the grid.
type joinedLine struct {
	text    string
	offsets []Point // offsets[i] is the Point of the rune starting at rune-index i
}

// buildJoinedLines walks the grid from top to bottom, merging WRAPLINE-marked
// rows into single logical lines the way a paragraph of soft-wrapped text
// should be searched as one unit instead of being artificially cut at each
// physical row boundary.
func buildJoinedLines(grid *Grid, top, bottom Line) []joinedLine {
	var out []joinedLine
	var cur joinedLine
	for l := top; l <= bottom; l++ {
		row := grid.Line(l)
		if row == nil {
			continue
		}
		for c := 0; c < row.Len(); c++ {
			cell := row.Cell(c)
			if cell.IsWideSpacer() || cell.IsLeadingWideCharSpacer() {
				continue
			}
			runes := cell.Runes()
			if len(runes) == 0 {
				runes = []rune{' '}
			}
			cur.offsets = append(cur.offsets, Point{Line: l, Col: Column(c)})
			cur.text += string(runes[0])
			for _, r := range runes[1:] {
				cur.offsets = append(cur.offsets, Point{Line: l, Col: Column(c)})
				cur.text += string(r)
			}
		}
		if !row.IsWrapped() {
			out = append(out, cur)
			cur = joinedLine{}
		}
	}
	if len(cur.offsets) > 0 {
		out = append(out, cur)
	}
	return out
}

// Search finds matches for re across the grid between top and bottom
// (inclusive, viewport-relative Lines, negative values reaching into
// scrollback), in the given direction, soft-wrap-aware (a match may span a
// WRAPLINE boundary) and wide-character-aware (matches never split a glyph
// from its spacer since spacers are excluded from the searched text
// entirely).
func (t *Terminal) Search(re *regexp.Regexp, top, bottom Line, dir SearchDirection) []SearchMatch {
	t.mu.RLock()
	defer t.mu.RUnlock()
	joined := buildJoinedLines(t.activeGrid, top, bottom)
	var matches []SearchMatch
	for _, jl := range joined {
		if jl.text == "" {
			continue
		}
		locs := re.FindAllStringIndex(jl.text, -1)
		for _, loc := range locs {
			startRune := runeIndexAtByte(jl.text, loc[0])
			endRune := runeIndexAtByte(jl.text, loc[1]) - 1
			if startRune >= len(jl.offsets) || endRune < 0 || endRune >= len(jl.offsets) {
				continue
			}
			matches = append(matches, SearchMatch{Start: jl.offsets[startRune], End: jl.offsets[endRune]})
		}
	}
	if dir == SearchBackward {
		for i, j := 0, len(matches)-1; i < j; i, j = i+1, j-1 {
			matches[i], matches[j] = matches[j], matches[i]
		}
	}
	return matches
}

func runeIndexAtByte(s string, byteOff int) int {
	n := 0
	for i := range s {
		if i >= byteOff {
			return n
		}
		n++
	}
	return n
}

// SearchNext returns the first match strictly after from in reading order
// (wrapping to the top of the searched range if none is found), the
// "find next occurrence" operation an incremental search UI drives on Enter.
func (t *Terminal) SearchNext(re *regexp.Regexp, from Point, top, bottom Line) (SearchMatch, bool) {
	matches := t.Search(re, top, bottom, SearchForward)
	for _, m := range matches {
		if from.Before(m.Start) {
			return m, true
		}
	}
	if len(matches) > 0 {
		return matches[0], true
	}
	return SearchMatch{}, false
}

// SearchPrev returns the last match strictly before from in reading order,
// wrapping to the bottom of the searched range if none is found.
func (t *Terminal) SearchPrev(re *regexp.Regexp, from Point, top, bottom Line) (SearchMatch, bool) {
	matches := t.Search(re, top, bottom, SearchForward)
	var best *SearchMatch
	for i := range matches {
		if matches[i].End.Before(from) {
			best = &matches[i]
		}
	}
	if best != nil {
		return *best, true
	}
	if len(matches) > 0 {
		return matches[len(matches)-1], true
	}
	return SearchMatch{}, false
}

// bracketPairs are the bracket characters BracketSearch matches.
var bracketPairs = [4][2]rune{
	{'(', ')'},
	{'[', ']'},
	{'{', '}'},
	{'<', '>'},
}

// pointAfter and pointBefore step one cell in reading order, wrapping at
// row boundaries the same way Iterator does, so a caller can compute a
// valid bound to hand to Grid.Iter/IterReverse without duplicating its
// stepping logic.
func pointAfter(grid *Grid, p Point) Point {
	if int(p.Col) < grid.Cols()-1 {
		return Point{Line: p.Line, Col: p.Col + 1}
	}
	return Point{Line: p.Line + 1, Col: 0}
}

func pointBefore(grid *Grid, p Point) Point {
	if p.Col > 0 {
		return Point{Line: p.Line, Col: p.Col - 1}
	}
	return Point{Line: p.Line - 1, Col: Column(grid.Cols() - 1)}
}

// BracketSearch finds the bracket matching the one at from, honoring nested
// pairs of the same kind (a "(" nested inside the pair being searched counts
// against the next ")"), within [top, bottom] (inclusive, viewport-relative
// Lines, negative values reaching into scrollback). Returns ok=false if from
// isn't on a bracket or no match is found before the range is exhausted.
func (t *Terminal) BracketSearch(from Point, top, bottom Line) (Point, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	grid := t.activeGrid
	cell := grid.Cell(from)
	if cell == nil {
		return Point{}, false
	}

	var forward bool
	var startChar, endChar rune
	found := false
	for _, pair := range bracketPairs {
		switch cell.Char {
		case pair[0]:
			forward, startChar, endChar, found = true, pair[0], pair[1], true
		case pair[1]:
			forward, startChar, endChar, found = false, pair[1], pair[0], true
		}
		if found {
			break
		}
	}
	if !found {
		return Point{}, false
	}

	lastCol := Column(grid.Cols() - 1)
	var it *Iterator
	if forward {
		start := pointAfter(grid, from)
		if start.Line > bottom {
			return Point{}, false
		}
		it = grid.Iter(start, Point{Line: bottom, Col: lastCol})
	} else {
		start := pointBefore(grid, from)
		if start.Line < top {
			return Point{}, false
		}
		it = grid.IterReverse(start, Point{Line: top, Col: 0})
	}

	skipPairs := 0
	for {
		p, c, ok := it.Next()
		if !ok {
			break
		}
		if c == nil {
			continue
		}
		switch {
		case c.Char == endChar && skipPairs == 0:
			return p, true
		case c.Char == startChar:
			skipPairs++
		case c.Char == endChar:
			skipPairs--
		}
	}
	return Point{}, false
}

// semanticRange widens p to the boundaries of the word it falls within,
// using t.semanticEscapeChars as the set of runes that terminate a word
// (matching spec.md's semantic_escape_chars configuration input).
func (t *Terminal) semanticRange(p Point) (start, end Point) {
	grid := t.activeGrid
	isBoundary := func(r rune) bool {
		if r == ' ' || r == 0 {
			return true
		}
		return strings.ContainsRune(t.semanticEscapeChars, r)
	}
	cellRune := func(pt Point) rune {
		c := grid.Cell(pt)
		if c == nil {
			return 0
		}
		return c.Char
	}

	start, end = p, p
	if isBoundary(cellRune(p)) {
		return p, p
	}

	top := Line(-grid.ScrollbackLen())
	for {
		prev := Point{Line: start.Line, Col: start.Col - 1}
		if start.Col == 0 {
			if start.Line <= top {
				break
			}
			above := grid.Line(start.Line - 1)
			if above == nil || !above.IsWrapped() {
				break
			}
			prev = Point{Line: start.Line - 1, Col: Column(grid.Cols() - 1)}
		}
		if isBoundary(cellRune(prev)) {
			break
		}
		start = prev
	}

	bottom := Line(grid.Lines() - 1)
	for {
		row := grid.Line(end.Line)
		atRowEnd := row != nil && int(end.Col) >= row.Len()-1
		var next Point
		if atRowEnd {
			if !row.IsWrapped() || end.Line >= bottom {
				break
			}
			next = Point{Line: end.Line + 1, Col: 0}
		} else {
			next = Point{Line: end.Line, Col: end.Col + 1}
		}
		if isBoundary(cellRune(next)) {
			break
		}
		end = next
	}
	return start, end
}

// lineRange widens p to the full logical (wrap-joined) line it belongs to.
func (t *Terminal) lineRange(p Point) (start, end Point) {
	grid := t.activeGrid
	start, end = p, p
	start.Col = 0
	top := Line(-grid.ScrollbackLen())
	for start.Line > top {
		above := grid.Line(start.Line - 1)
		if above == nil || !above.IsWrapped() {
			break
		}
		start.Line--
	}

	bottom := Line(grid.Lines() - 1)
	for end.Line < bottom {
		row := grid.Line(end.Line)
		if row == nil || !row.IsWrapped() {
			break
		}
		end.Line++
	}
	if row := grid.Line(end.Line); row != nil {
		end.Col = Column(row.Len() - 1)
	}
	return start, end
}
