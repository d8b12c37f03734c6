package vtcore

// LineDamage records the inclusive column range touched on one visible line
// since the last damage reset. An empty (zero-width) range means the line is
// clean.
type LineDamage struct {
	Left  int
	Right int
}

func (d LineDamage) empty() bool { return d.Right < d.Left }

// expand grows the damaged range to include [left, right].
func (d *LineDamage) expand(left, right int) {
	if d.empty() {
		d.Left, d.Right = left, right
		return
	}
	if left < d.Left {
		d.Left = left
	}
	if right > d.Right {
		d.Right = right
	}
}

// Damage tracks which parts of a Grid's viewport changed since the renderer
// last consumed it. Mutating Grid methods are funneled through Terminal's
// write path and scroll/clear operations, each of which reports its own
// damage here immediately after performing the mutation it describes — damage
// is never back-computed by diffing snapshots.
type Damage struct {
	lines []LineDamage
	full  bool
}

// NewDamage allocates a clean damage tracker for a viewport of the given
// height.
func NewDamage(lines int) *Damage {
	d := &Damage{lines: make([]LineDamage, lines)}
	d.resetLocked()
	return d
}

func (d *Damage) resetLocked() {
	for i := range d.lines {
		d.lines[i] = LineDamage{Left: 1, Right: 0}
	}
}

// Resize grows or shrinks the tracker to match a new viewport height. The
// whole viewport is marked fully damaged, since a resize reflows every line.
func (d *Damage) Resize(lines int) {
	d.lines = make([]LineDamage, lines)
	d.resetLocked()
	d.full = true
}

// MarkLine records that columns [left, right] (inclusive) on line changed.
func (d *Damage) MarkLine(line Line, left, right int) {
	if d.full {
		return
	}
	i := int(line)
	if i < 0 || i >= len(d.lines) {
		return
	}
	d.lines[i].expand(left, right)
}

// MarkFull marks the entire viewport damaged — used for scroll, clear-all,
// alt-screen swap, and resize, where computing a precise per-line diff isn't
// worth it.
func (d *Damage) MarkFull() { d.full = true }

// Full reports whether the whole viewport is damaged.
func (d *Damage) Full() bool { return d.full }

// Lines returns the per-line damage ranges. Only meaningful when Full is
// false; callers should check Full first and redraw everything if so.
func (d *Damage) Lines() []LineDamage { return d.lines }

// Take returns the current damage state and resets the tracker to clean, the
// read-and-clear operation a renderer performs once per frame.
func (d *Damage) Take() (full bool, lines []LineDamage) {
	full = d.full
	lines = make([]LineDamage, len(d.lines))
	copy(lines, d.lines)
	d.full = false
	d.resetLocked()
	return full, lines
}
