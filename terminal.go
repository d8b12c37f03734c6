package vtcore

import (
	"image/color"
	"sync"

	"github.com/danielgatis/go-ansicode"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gridterm/vtcore/internal/logging"
)

// DefaultRows and DefaultCols are the viewport dimensions used when no
// WithSize option is given.
const (
	DefaultRows = 24
	DefaultCols = 80

	// maxTitleStack bounds the OSC 22/23 title stack so a misbehaving
	// application can't grow it without limit.
	maxTitleStack = 4096

	// defaultSemanticEscapeChars mirrors the common terminal default for
	// what counts as a word boundary during double-click selection.
	defaultSemanticEscapeChars = ",│`|:\"'()[]{}<>\t "
)

func clamp(v, lo, hi int) int {
	return clampInt(v, lo, hi)
}

// Terminal is the escape-sequence-driven core of a terminal emulator: it
// decodes a byte stream into cell mutations against a primary/alternate
// pair of Grids, and exposes the result through cursor, selection, search,
// and damage APIs a renderer or embedder can poll.
//
// All exported methods are safe for concurrent use; a single RWMutex guards
// the whole terminal rather than finer-grained locks, since ANSI sequences
// are processed one at a time off a single input stream.
type Terminal struct {
	mu sync.RWMutex

	rows, cols int

	primaryGrid   *Grid
	alternateGrid *Grid
	activeGrid    *Grid

	modes TerminalMode

	title      string
	titleStack []string

	colors           map[int]color.Color
	currentHyperlink *Hyperlink

	keyboardModes   []ansicode.KeyboardMode
	modifyOtherKeys ansicode.ModifyOtherKeys

	// savedOriginMode mirrors ModeOrigin at the time of the last DECSC (or
	// implicit save on alt-screen entry), since GridCursor's saved snapshot
	// covers cursor/charset/style state but not terminal-wide mode bits.
	savedOriginMode bool

	decoder *ansicode.Decoder

	selection           *Selection
	semanticEscapeChars string

	damage *Damage

	defaultCursorStyle    CursorStyle
	viModeCursorStyle     CursorStyle
	unfocusedHollowCursor bool
	focused               bool

	tabWidth int

	scrollbackStorage ScrollbackProvider
	maxScrollback     int

	middleware *Middleware

	responseProvider  ResponseProvider
	bellProvider      BellProvider
	titleProvider     TitleProvider
	apcProvider       APCProvider
	pmProvider        PMProvider
	sosProvider       SOSProvider
	clipboardProvider ClipboardProvider
	recordingProvider RecordingProvider
	sizeProvider      SizeProvider

	autoResize bool

	logger zerolog.Logger
}

// Option configures a Terminal at construction time.
type Option func(*Terminal)

// WithSize sets the initial viewport dimensions.
func WithSize(rows, cols int) Option {
	return func(t *Terminal) {
		if rows > 0 {
			t.rows = rows
		}
		if cols > 0 {
			t.cols = cols
		}
	}
}

// WithResponse installs the writer escape-sequence responses (DSR, DA, OSC
// queries) are written back to.
func WithResponse(w ResponseProvider) Option {
	return func(t *Terminal) { t.responseProvider = w }
}

// WithBell installs the bell provider.
func WithBell(p BellProvider) Option {
	return func(t *Terminal) { t.bellProvider = p }
}

// WithTitle installs the title provider.
func WithTitle(p TitleProvider) Option {
	return func(t *Terminal) { t.titleProvider = p }
}

// WithAPC installs the Application Program Command provider.
func WithAPC(p APCProvider) Option {
	return func(t *Terminal) { t.apcProvider = p }
}

// WithPM installs the Privacy Message provider.
func WithPM(p PMProvider) Option {
	return func(t *Terminal) { t.pmProvider = p }
}

// WithSOS installs the Start of String provider.
func WithSOS(p SOSProvider) Option {
	return func(t *Terminal) { t.sosProvider = p }
}

// WithClipboard installs the OSC 52 clipboard provider.
func WithClipboard(p ClipboardProvider) Option {
	return func(t *Terminal) { t.clipboardProvider = p }
}

// WithScrollback installs a ScrollbackProvider that receives lines retired
// off the top of the primary grid, and sets the ring's own retention to
// maxLines.
func WithScrollback(p ScrollbackProvider, maxLines int) Option {
	return func(t *Terminal) {
		t.scrollbackStorage = p
		if maxLines >= 0 {
			t.maxScrollback = maxLines
		}
		if p != nil {
			p.SetMaxLines(maxLines)
		}
	}
}

// WithMiddleware installs middleware hooks wrapping handler dispatch.
func WithMiddleware(m *Middleware) Option {
	return func(t *Terminal) {
		if t.middleware == nil {
			t.middleware = &Middleware{}
		}
		t.middleware.Merge(m)
	}
}

// WithAutoResize makes the grid grow downward to follow output that runs
// past the bottom margin instead of scrolling, the behavior an embedder
// wants when it owns an infinitely-tall viewport (e.g. a log pane).
func WithAutoResize(enabled bool) Option {
	return func(t *Terminal) { t.autoResize = enabled }
}

// WithRecording installs a provider that captures raw input bytes before
// ANSI decoding, for replay or debugging.
func WithRecording(p RecordingProvider) Option {
	return func(t *Terminal) { t.recordingProvider = p }
}

// WithSizeProvider installs the provider answering pixel-size queries
// (CSI 14/16/18 t).
func WithSizeProvider(p SizeProvider) Option {
	return func(t *Terminal) { t.sizeProvider = p }
}

// WithLogger installs a structured logger for internal diagnostics.
// Defaults to a disabled logger that drops everything.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Terminal) { t.logger = l }
}

// WithSemanticEscapeChars sets the set of runes (beyond plain space) that
// terminate a word for double-click / semantic selection and search-word
// widening.
func WithSemanticEscapeChars(chars string) Option {
	return func(t *Terminal) { t.semanticEscapeChars = chars }
}

// WithDefaultCursorStyle sets the cursor style used when no DECSCUSR has
// been issued and vi mode is inactive.
func WithDefaultCursorStyle(style CursorStyle) Option {
	return func(t *Terminal) { t.defaultCursorStyle = style }
}

// WithViModeCursorStyle sets the cursor style EffectiveCursorStyle reports
// while ModeVi is set, overriding the configured or DECSCUSR style.
func WithViModeCursorStyle(style CursorStyle) Option {
	return func(t *Terminal) { t.viModeCursorStyle = style }
}

// WithUnfocusedHollowCursor makes EffectiveCursorStyle report
// CursorStyleSteadyUnderline whenever the terminal has been told it lost
// focus (see SetFocused), regardless of the configured style. CursorStyle
// has no hollow-block value, so no hollow block is reported.
func WithUnfocusedHollowCursor(enabled bool) Option {
	return func(t *Terminal) { t.unfocusedHollowCursor = enabled }
}

// WithTabWidth sets the spacing of default tab stops (8 if unset or <= 0).
func WithTabWidth(width int) Option {
	return func(t *Terminal) { t.tabWidth = width }
}

// New constructs a Terminal, applying opts over sensible defaults: an
// 80x24 viewport, no scrollback retention, noop providers, and disabled
// logging.
func New(opts ...Option) *Terminal {
	t := &Terminal{
		rows:                DefaultRows,
		cols:                DefaultCols,
		colors:              make(map[int]color.Color),
		keyboardModes:       make([]ansicode.KeyboardMode, 0),
		bellProvider:        NoopBell{},
		titleProvider:       NoopTitle{},
		apcProvider:         NoopAPC{},
		pmProvider:          NoopPM{},
		sosProvider:         NoopSOS{},
		clipboardProvider:   NoopClipboard{},
		recordingProvider:   NoopRecording{},
		sizeProvider:        NoopSize{},
		responseProvider:    NoopResponse{},
		logger:              logging.Disabled(),
		semanticEscapeChars: defaultSemanticEscapeChars,
		defaultCursorStyle:  CursorStyleBlinkingBlock,
		viModeCursorStyle:   CursorStyleSteadyBlock,
		tabWidth:            8,
		focused:             true,
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.scrollbackStorage == nil {
		t.scrollbackStorage = NoopScrollback{}
	}
	if t.middleware == nil {
		t.middleware = &Middleware{}
	}

	t.primaryGrid = NewGrid(t.rows, t.cols, t.maxScrollback)
	t.primaryGrid.SetTabWidth(t.tabWidth)
	t.primaryGrid.SetScrollbackSink(func(cells []Cell) { t.scrollbackStorage.Push(cells) })
	t.alternateGrid = NewGrid(t.rows, t.cols, 0)
	t.alternateGrid.SetTabWidth(t.tabWidth)
	t.activeGrid = t.primaryGrid

	t.activeGrid.cursor.Visible = true
	t.activeGrid.cursor.Style = t.defaultCursorStyle
	t.alternateGrid.cursor.Visible = true
	t.alternateGrid.cursor.Style = t.defaultCursorStyle

	t.modes = ModeLineWrap | ModeShowCursor

	t.damage = NewDamage(t.rows)
	t.decoder = ansicode.NewDecoder(t)

	return t
}

// Rows returns the current viewport height.
func (t *Terminal) Rows() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rows
}

// Cols returns the current viewport width.
func (t *Terminal) Cols() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cols
}

// Cell returns a pointer to a copy of the cell at (row, col) in the active
// grid, or nil if out of range.
func (t *Terminal) Cell(row, col int) *Cell {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if c := t.activeGrid.Cell(Point{Line: Line(row), Col: Column(col)}); c != nil {
		cp := *c
		return &cp
	}
	return nil
}

// CursorPos returns the cursor's (row, col) in the active grid.
func (t *Terminal) CursorPos() (row, col int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p := t.activeGrid.cursor.Point
	return int(p.Line), int(p.Col)
}

// CursorVisible reports whether the cursor should be drawn.
func (t *Terminal) CursorVisible() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.activeGrid.cursor.Visible && t.modes&ModeShowCursor != 0
}

// CursorStyle returns the cursor style as last set by DECSCUSR (or the
// configured default), ignoring vi mode and focus. Most callers want
// EffectiveCursorStyle instead.
func (t *Terminal) CursorStyle() CursorStyle {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.activeGrid.cursor.Style
}

// EffectiveCursorStyle resolves the cursor style a renderer should draw,
// applying vi-mode and unfocused-hollow overrides on top of the raw
// DECSCUSR/default style: vi mode (if active) wins over an explicit style,
// and the unfocused override (CursorStyleSteadyUnderline) wins over
// everything when enabled and the terminal believes it isn't focused.
func (t *Terminal) EffectiveCursorStyle() CursorStyle {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.unfocusedHollowCursor && !t.focused {
		return CursorStyleSteadyUnderline
	}
	if t.modes&ModeVi != 0 {
		return t.viModeCursorStyle
	}
	return t.activeGrid.cursor.Style
}

// SetFocused records whether the terminal currently has input focus, for
// EffectiveCursorStyle's unfocused-hollow-cursor behavior.
func (t *Terminal) SetFocused(focused bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.focused = focused
}

// Title returns the current window title.
func (t *Terminal) Title() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.title
}

// HasMode reports whether the given mode bit is currently set.
func (t *Terminal) HasMode(m TerminalMode) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.modes&m != 0
}

// IsAlternateScreen reports whether the alternate screen is active.
func (t *Terminal) IsAlternateScreen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.activeGrid == t.alternateGrid
}

// ScrollRegion returns the active scroll region as an inclusive (top,
// bottom) row pair.
func (t *Terminal) ScrollRegion() (top, bottom int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r := t.activeGrid.ScrollRegion()
	return int(r.Start), int(r.End)
}

// IsWrapped reports whether row soft-wraps into the next row.
func (t *Terminal) IsWrapped(row int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r := t.activeGrid.Line(Line(row))
	return r != nil && r.IsWrapped()
}

// AutoResize reports whether the grid grows to follow output past the
// bottom margin instead of scrolling.
func (t *Terminal) AutoResize() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.autoResize
}

// SetAutoResize toggles auto-resize behavior at runtime.
func (t *Terminal) SetAutoResize(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.autoResize = enabled
}

// ScrollbackLen returns the number of history lines retained in the ring
// above the primary viewport (not counting anything handed off to the
// ScrollbackProvider).
func (t *Terminal) ScrollbackLen() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.primaryGrid.ScrollbackLen()
}

// ScrollDisplay moves the scrollback viewing offset of the active grid by
// delta lines; positive scrolls back into history.
func (t *Terminal) ScrollDisplay(delta int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.activeGrid.ScrollDisplay(delta)
	t.damage.MarkFull()
}

// ScrollDisplayToBottom resets the scrollback viewing offset to the live
// viewport.
func (t *Terminal) ScrollDisplayToBottom() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.activeGrid.ScrollDisplayToBottom()
	t.damage.MarkFull()
}

// DisplayOffset returns how far the active grid is currently scrolled back
// into history.
func (t *Terminal) DisplayOffset() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.activeGrid.DisplayOffset()
}

// SetMaxScrollback changes the primary grid's scrollback retention. This
// rebuilds the primary ring, copying only the visible rows, so every history
// row the ring held is dropped. Rows the ring had already evicted to the
// installed ScrollbackProvider stay there.
func (t *Terminal) SetMaxScrollback(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n < 0 {
		n = 0
	}
	t.maxScrollback = n

	rebuilt := NewGrid(t.primaryGrid.Lines(), t.primaryGrid.Cols(), n)
	rebuilt.SetTabWidth(t.tabWidth)
	for i := 0; i < t.primaryGrid.Lines(); i++ {
		src := t.primaryGrid.Line(Line(i))
		dst := rebuilt.Line(Line(i))
		if src == nil || dst == nil {
			continue
		}
		for c := 0; c < src.Len() && c < dst.Len(); c++ {
			*dst.Cell(c) = src.Cell(c).Copy()
		}
		dst.SetWrapped(src.IsWrapped())
	}
	rebuilt.cursor = t.primaryGrid.cursor
	rebuilt.scrollTop = t.primaryGrid.scrollTop
	rebuilt.scrollBottom = t.primaryGrid.scrollBottom
	rebuilt.SetScrollbackSink(func(cells []Cell) { t.scrollbackStorage.Push(cells) })

	wasActive := t.activeGrid == t.primaryGrid
	t.primaryGrid = rebuilt
	if wasActive {
		t.activeGrid = t.primaryGrid
	}
	t.damage.MarkFull()
}

// MaxScrollback returns the configured primary-grid scrollback capacity.
func (t *Terminal) MaxScrollback() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.maxScrollback
}

// ScrollbackProviderLen returns the number of lines held by the installed
// ScrollbackProvider (distinct from the ring's own ScrollbackLen).
func (t *Terminal) ScrollbackProviderLen() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.scrollbackStorage.Len()
}

// ScrollbackProviderLine returns line index (0 = oldest) from the installed
// ScrollbackProvider.
func (t *Terminal) ScrollbackProviderLine(index int) []Cell {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.scrollbackStorage.Line(index)
}

// LineContent returns the text content of one visible row, trimmed of
// trailing blanks.
func (t *Terminal) LineContent(row int) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r := t.activeGrid.Line(Line(row))
	if r == nil {
		return ""
	}
	return r.Content()
}

// String renders the full visible viewport as newline-joined row text, with
// trailing empty rows dropped.
func (t *Terminal) String() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	lines := make([]string, t.activeGrid.Lines())
	for i := range lines {
		if r := t.activeGrid.Line(Line(i)); r != nil {
			lines[i] = r.Content()
		}
	}
	for len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	out := lines[0]
	for _, l := range lines[1:] {
		out += "\n" + l
	}
	return out
}

// --- Selection ---

// StartSelection begins a new selection of kind anchored at (row, col),
// replacing any previous selection.
func (t *Terminal) StartSelection(kind SelectionKind, row, col int, side Side) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selection = NewSelection(kind, Point{Line: Line(row), Col: Column(col)}, side, t)
}

// UpdateSelection extends the live end of the in-progress selection.
func (t *Terminal) UpdateSelection(row, col int, side Side) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.selection == nil {
		return
	}
	t.selection.Update(Point{Line: Line(row), Col: Column(col)}, side, t)
}

// ClearSelection discards the current selection, if any.
func (t *Terminal) ClearSelection() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selection = nil
}

// HasSelection reports whether a non-empty selection is active.
func (t *Terminal) HasSelection() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.selection.Active() && !t.selection.IsEmpty()
}

// IsSelected reports whether (row, col) falls within the current selection.
func (t *Terminal) IsSelected(row, col int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.selection == nil {
		return false
	}
	return t.selection.Contains(Point{Line: Line(row), Col: Column(col)}, t)
}

// SelectedText returns the text spanned by the current selection, or "" if
// there is none.
func (t *Terminal) SelectedText() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.selection == nil {
		return ""
	}
	return t.selection.Text(t)
}

// --- Damage ---

// TakeDamage returns the damage accumulated since the last call and resets
// the tracker to clean, the read-and-clear a renderer performs once per
// frame.
func (t *Terminal) TakeDamage() (full bool, lines []LineDamage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.damage.Take()
}

// --- Recording ---

// RecordedData returns the raw bytes captured by the installed
// RecordingProvider since its last Clear.
func (t *Terminal) RecordedData() []byte {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.recordingProvider.Data()
}

// ClearRecording discards captured raw input bytes.
func (t *Terminal) ClearRecording() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recordingProvider.Clear()
}

// --- Resize ---

// Resize changes the viewport dimensions, preserving scrollback: shrinking
// rows first drops rows below the cursor, then moves any remaining excess
// off the top into scrollback (Grid's ring accounting makes this free) with
// the cursor following its line; growing rows pulls blank rows in at the
// bottom.
func (t *Terminal) Resize(rows, cols int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if rows < 1 || cols < 1 {
		t.logger.Warn().Int("rows", rows).Int("cols", cols).Msg("ignoring resize to non-positive dimension")
		return
	}
	t.primaryGrid.Resize(rows, cols)
	t.alternateGrid.Resize(rows, cols)
	t.rows = rows
	t.cols = cols
	t.damage.Resize(rows)
	t.selection = nil
	t.logger.Debug().Int("rows", rows).Int("cols", cols).Msg("resized")
}

// --- Write path ---

// Write feeds raw bytes through the ANSI decoder, driving Handler calls
// synchronously. It satisfies io.Writer.
func (t *Terminal) Write(p []byte) (int, error) {
	t.recordingProvider.Record(p)
	for _, b := range p {
		t.decoder.Advance(b)
	}
	return len(p), nil
}

// WriteString is a convenience wrapper around Write.
func (t *Terminal) WriteString(s string) (int, error) {
	return t.Write([]byte(s))
}

// effectiveRow translates a 0-based row into a grid Line, honoring origin
// mode (DECOM), under which row 0 is the top of the scroll region rather
// than the top of the viewport.
func (t *Terminal) effectiveRow(row int) Line {
	if t.modes&ModeOrigin != 0 {
		region := t.activeGrid.ScrollRegion()
		return Line(clamp(row+int(region.Start), int(region.Start), int(region.End)))
	}
	return Line(clamp(row, 0, t.activeGrid.Lines()-1))
}

// scrollIfNeeded scrolls (or, under auto-resize, grows) the active grid so
// the cursor ends up back inside its scroll region after a line feed or a
// line wrap walked it past the bottom margin, or when it sits above the top
// margin.
func (t *Terminal) scrollIfNeeded() {
	grid := t.activeGrid
	region := grid.ScrollRegion()
	line := grid.cursor.Point.Line

	if int(line) > int(region.End) {
		n := int(line) - int(region.End)
		if t.autoResize && region.End == Line(grid.Lines()-1) {
			grid.Resize(grid.Lines()+n, grid.Cols())
			t.rows = grid.Lines()
			t.damage.Resize(t.rows)
			return
		}
		grid.ScrollUp(region, n)
		t.damage.MarkFull()
		grid.cursor.Point.Line = region.End
	} else if int(line) < int(region.Start) {
		n := int(region.Start) - int(line)
		grid.ScrollDown(region, n)
		t.damage.MarkFull()
		grid.cursor.Point.Line = region.Start
	}
}

// nextHyperlinkID generates a fresh identifier for an OSC 8 hyperlink that
// didn't carry an explicit id= parameter, so cells belonging to the same
// link can still be grouped once the embedder assigns one on the first
// cell and reuses it for the rest.
func nextHyperlinkID() string {
	return uuid.NewString()
}

// --- Provider wiring (runtime swap) ---

// SetResponseProvider swaps the writer escape-sequence responses are sent to.
func (t *Terminal) SetResponseProvider(p ResponseProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p == nil {
		p = NoopResponse{}
	}
	t.responseProvider = p
}

// SetBellProvider swaps the bell provider.
func (t *Terminal) SetBellProvider(p BellProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p == nil {
		p = NoopBell{}
	}
	t.bellProvider = p
}

// SetTitleProvider swaps the title provider.
func (t *Terminal) SetTitleProvider(p TitleProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p == nil {
		p = NoopTitle{}
	}
	t.titleProvider = p
}

// SetClipboardProvider swaps the OSC 52 clipboard provider.
func (t *Terminal) SetClipboardProvider(p ClipboardProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p == nil {
		p = NoopClipboard{}
	}
	t.clipboardProvider = p
}

// SetSizeProvider swaps the pixel-size query provider.
func (t *Terminal) SetSizeProvider(p SizeProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p == nil {
		p = NoopSize{}
	}
	t.sizeProvider = p
}

// SetMiddleware replaces the installed middleware wholesale.
func (t *Terminal) SetMiddleware(m *Middleware) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if m == nil {
		m = &Middleware{}
	}
	t.middleware = m
}

// writeResponse writes raw bytes to the response provider, ignoring errors:
// a PTY write failure here has nowhere useful to propagate to since it
// happens deep inside escape-sequence handling.
func (t *Terminal) writeResponse(p []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = t.responseProvider.Write(p)
}

// writeResponseString writes a string to the response provider.
func (t *Terminal) writeResponseString(s string) {
	t.writeResponse([]byte(s))
}
