package vtcore

// TerminalMode is a bitset of terminal behavior flags. Multiple modes can be
// active simultaneously; mouse-report modes are mutually exclusive with each
// other by convention (the handler enforces this on set), as are the two
// mouse encodings UTF8Mouse/SGRMouse.
type TerminalMode uint32

const (
	// ModeCursorKeys enables cursor key mode (DECCKM).
	ModeCursorKeys TerminalMode = 1 << iota
	// ModeColumnMode enables 132-column mode (DECCOLM).
	ModeColumnMode
	// ModeInsert enables insert mode: characters shift right instead of overwrite.
	ModeInsert
	// ModeOrigin enables origin mode: cursor positioning relative to the scroll region.
	ModeOrigin
	// ModeLineWrap enables automatic line wrapping at column boundaries.
	ModeLineWrap
	// ModeBlinkingCursor enables a blinking cursor.
	ModeBlinkingCursor
	// ModeLineFeedNewLine makes line feed also move to column 0.
	ModeLineFeedNewLine
	// ModeShowCursor makes the cursor visible.
	ModeShowCursor
	// ModeReportMouseClicks enables mouse click reporting (X10/normal tracking).
	ModeReportMouseClicks
	// ModeReportCellMouseMotion enables mouse drag reporting (cell-based).
	ModeReportCellMouseMotion
	// ModeReportAllMouseMotion enables reporting of all mouse motion.
	ModeReportAllMouseMotion
	// ModeReportFocusInOut enables focus in/out event reporting.
	ModeReportFocusInOut
	// ModeUTF8Mouse enables UTF-8 mouse coordinate encoding.
	ModeUTF8Mouse
	// ModeSGRMouse enables SGR mouse coordinate encoding.
	ModeSGRMouse
	// ModeAlternateScroll translates scroll-wheel to cursor keys on the alt screen.
	ModeAlternateScroll
	// ModeUrgencyHints enables urgency hints (bell-triggered window attention).
	ModeUrgencyHints
	// ModeSwapScreenAndSetRestoreCursor swaps to the alternate screen and
	// saves the cursor. Unsetting restores the primary screen and cursor.
	ModeSwapScreenAndSetRestoreCursor
	// ModeBracketedPaste enables bracketed paste mode.
	ModeBracketedPaste
	// ModeKeypadApplication enables application keypad mode.
	ModeKeypadApplication
	// ModeVi tracks whether an embedder-driven vi-style navigation mode is
	// active; it changes only the effective cursor style (see
	// Terminal.EffectiveCursorStyle), since vi motions themselves are a
	// UI-layer concern outside this module.
	ModeVi
)

// mouseReportMask is the set of mutually exclusive mouse click/motion
// reporting modes.
const mouseReportMask = ModeReportMouseClicks | ModeReportCellMouseMotion | ModeReportAllMouseMotion

// mouseEncodingMask is the set of mutually exclusive mouse coordinate encodings.
const mouseEncodingMask = ModeUTF8Mouse | ModeSGRMouse
