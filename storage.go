package vtcore

// Storage is a rotating ring of rows: visible rows plus scrollback history
// share one backing array, and scrolling the oldest history line out (or a
// new blank line in) never shifts more than an O(1) set of index fields.
//
// Buffer index 0 is always the oldest row currently retained; buffer index
// len-1 is the newest. The raw array position of buffer index i is
// (zero+i) mod cap. A full-screen scroll-up that would otherwise memmove
// every row instead advances zero by one and resets the row that index
// uncovers, turning an O(lines) operation into O(1).
type Storage struct {
	rows    []Row
	zero    int // raw index of buffer index 0
	length  int // number of populated buffer indices, <= cap(rows)
	visible int // number of buffer indices, counted from the end, that form the viewport
	cols    int

	// onEvict, if set, is called with the contents of a row just before it is
	// recycled to make room at the bottom of a full ring — the hand-off point
	// for persisting scrollback beyond the ring's own retention, e.g. to a
	// ScrollbackProvider.
	onEvict func(cells []Cell)
}

// SetEvictHandler installs (or clears, with nil) the callback invoked with a
// copy of a row's cells right before PushBottom recycles it at capacity.
func (s *Storage) SetEvictHandler(fn func(cells []Cell)) {
	s.onEvict = fn
}

// NewStorage builds a ring sized for `visible` viewport rows plus up to
// `maxScrollback` history rows, all `cols` wide.
func NewStorage(visible, cols, maxScrollback int) *Storage {
	if visible < 1 {
		visible = 1
	}
	if maxScrollback < 0 {
		maxScrollback = 0
	}
	capacity := visible + maxScrollback
	s := &Storage{
		rows:    make([]Row, capacity),
		visible: visible,
		length:  visible,
		cols:    cols,
	}
	for i := range s.rows {
		s.rows[i] = NewRow(cols, NewCell())
	}
	return s
}

// Cap returns the total number of rows the ring can hold.
func (s *Storage) Cap() int { return len(s.rows) }

// Len returns the number of buffer indices currently populated.
func (s *Storage) Len() int { return s.length }

// Visible returns how many of the populated buffer indices make up the
// live viewport (the rest, if any, is scrollback).
func (s *Storage) Visible() int { return s.visible }

// ScrollbackLen returns the number of history rows above the viewport.
func (s *Storage) ScrollbackLen() int {
	n := s.length - s.visible
	if n < 0 {
		return 0
	}
	return n
}

func (s *Storage) raw(bufIdx int) int {
	n := len(s.rows)
	r := (s.zero + bufIdx) % n
	if r < 0 {
		r += n
	}
	return r
}

// Row returns the row at buffer index bufIdx, or nil if out of range.
func (s *Storage) Row(bufIdx int) *Row {
	if bufIdx < 0 || bufIdx >= s.length {
		return nil
	}
	return &s.rows[s.raw(bufIdx)]
}

// Swap exchanges the rows at two buffer indices in O(1); used for
// scroll-region rotation that must not disturb scrollback.
func (s *Storage) Swap(i, j int) {
	if i == j {
		return
	}
	a := s.Row(i)
	b := s.Row(j)
	if a == nil || b == nil {
		return
	}
	a.Swap(b)
}

// PushBottom appends a fresh blank row (reset to template) at the logical
// bottom of the ring, growing history while under capacity and otherwise
// recycling the oldest row in O(1). When the ring is full and a row is about
// to be recycled, its prior contents are handed to onEvict (if set) first,
// so a ScrollbackProvider can persist history beyond the ring's own retention.
func (s *Storage) PushBottom(template Cell) {
	if s.length < len(s.rows) {
		idx := s.raw(s.length)
		s.rows[idx].Reset(template)
		s.length++
		return
	}
	// At capacity: the row currently at buffer index 0 is the oldest and
	// becomes the new bottom row after rotation.
	oldest := s.zero
	if s.onEvict != nil {
		s.onEvict(s.rows[oldest].Cells())
	}
	s.rows[oldest].Reset(template)
	s.zero = (s.zero + 1) % len(s.rows)
}

// PushTop inserts a fresh blank row (reset to template) at buffer index 0,
// the oldest end of the ring. While the ring is still growing, length grows
// by one; at capacity the newest row is recycled and length stays the same.
func (s *Storage) PushTop(template Cell) {
	if s.length < len(s.rows) {
		// Still growing: shift zero back to open a new slot at the front.
		s.zero = (s.zero - 1 + len(s.rows)) % len(s.rows)
		s.rows[s.zero].Reset(template)
		s.length++
		return
	}
	newest := s.raw(s.length - 1)
	s.rows[newest].Reset(template)
	s.zero = (s.zero - 1 + len(s.rows)) % len(s.rows)
}

// ShrinkFront advances past n rows at buffer index 0, discarding them. Used
// by Grid.ClearScrollback to drop history.
func (s *Storage) ShrinkFront(n int) {
	if n <= 0 {
		return
	}
	if n > s.length-s.visible {
		n = s.length - s.visible
	}
	if n <= 0 {
		return
	}
	s.zero = (s.zero + n) % len(s.rows)
	s.length -= n
}

// Resize changes the viewport row count and column width. Column width
// changes apply to every retained row (growing pads with template cells,
// shrinking truncates). Viewport row count changes grow by appending blank
// rows or shrink by handing rows from the top of the viewport into
// scrollback (never discarding content outright).
func (s *Storage) Resize(visible, cols int, template Cell) {
	if cols != s.cols {
		for i := 0; i < s.length; i++ {
			row := s.Row(i)
			if cols > row.Len() {
				row.Grow(cols, template)
			} else if cols < row.Len() {
				row.Shrink(cols)
			}
		}
		s.cols = cols
	}

	switch {
	case visible > s.visible:
		grow := visible - s.visible
		for i := 0; i < grow; i++ {
			if s.length < len(s.rows) {
				s.PushBottom(template)
			} else {
				// No scrollback slack left to borrow from; grow the ring itself.
				// appending to the end of rows invalidates the raw index
				// mapping for wrapped ranges, so normalize zero to 0 first.
				s.normalize()
				s.rows = append(s.rows, NewRow(cols, template))
				s.length++
			}
		}
		s.visible = visible
	case visible < s.visible:
		s.visible = visible
	}
}

// normalize rewrites the ring so buffer index 0 sits at raw index 0,
// amortized O(cap); only used by Resize when growing the backing array,
// which itself is already an O(cap) operation.
func (s *Storage) normalize() {
	if s.zero == 0 {
		return
	}
	rotated := make([]Row, len(s.rows))
	for i := 0; i < s.length; i++ {
		rotated[i] = s.rows[s.raw(i)]
	}
	for i := s.length; i < len(rotated); i++ {
		rotated[i] = NewRow(s.cols, NewCell())
	}
	s.rows = rotated
	s.zero = 0
}

// Clear resets every populated row to template and drops all scrollback,
// collapsing length back to just the viewport.
func (s *Storage) Clear(template Cell) {
	for i := 0; i < s.length; i++ {
		s.Row(i).Reset(template)
	}
	// Keep only the viewport's worth of rows; the rest becomes available
	// capacity again without needing to be physically removed.
	if s.length > s.visible {
		s.zero = s.raw(s.length - s.visible)
		s.length = s.visible
	}
}
