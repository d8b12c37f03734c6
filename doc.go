// Package vtcore implements a terminal core: an ANSI/VT escape-sequence
// interpreter coupled to a scrollback-backed 2D cell grid. It has no display
// of its own, which makes it useful for:
//   - Driving a GUI/OpenGL terminal emulator's model layer
//   - Testing terminal applications without a GUI
//   - Building terminal multiplexers and recorders
//   - Screen scraping and automation
//
// # Quick Start
//
// Create a terminal and write ANSI sequences to it:
//
//	term := vtcore.New()
//	term.WriteString("\x1b[31mHello \x1b[32mWorld\x1b[0m!")
//	fmt.Println(term.String()) // "Hello World!"
//
// # Architecture
//
// The package is organized around these core types:
//
//   - [Terminal]: implements [ansicode.Handler] and drives everything else
//   - [Grid]: viewport + scrollback, cursor, scroll region, tab stops
//   - [Storage]: the O(1) ring buffer backing a Grid's rows
//   - [Cell]: a single character with colors, attributes, and zero-width combiners
//   - [Point], [Line], [Column]: typed grid coordinates
//
// # Terminal
//
// Terminal implements [io.Writer] so you can write raw bytes containing ANSI
// escape sequences:
//
//	term := vtcore.New(
//	    vtcore.WithSize(24, 80),          // 24 rows, 80 columns
//	    vtcore.WithScrollback(storage, 10000), // persist scrolled-off lines
//	    vtcore.WithResponse(ptyWriter),   // where replies go
//	)
//
//	cmd := exec.Command("ls", "-la", "--color")
//	cmd.Stdout = term
//	cmd.Run()
//
//	for row := 0; row < term.Rows(); row++ {
//	    fmt.Println(term.LineContent(row))
//	}
//
// # Primary and alternate screens
//
// Terminal holds two independent [Grid]s, swapped by CSI ?1049h/l (used by
// full-screen apps like vim, less, htop); only the primary grid keeps
// scrollback.
//
//	if term.IsAlternateScreen() {
//	    // a full-screen app is running
//	}
//
// # Cells and attributes
//
//	cell := term.Cell(row, col)
//	fmt.Printf("Char: %c\n", cell.Char)
//	fmt.Printf("Bold: %v\n", cell.HasFlag(vtcore.CellFlagBold))
//	fmt.Printf("FG: %v\n", cell.Fg)
//
// Cell flags include Bold, Dim, Italic, Underline (plus double/curly/dotted/
// dashed variants), BlinkSlow/Fast, Inverse, Hidden, Strikeout, and the wide-
// character markers WideChar/WideCharSpacer/LeadingWideCharSpacer.
//
// # Colors
//
// Colors are stored using Go's [image/color] interface: named colors
// ([NamedColor], indices 0-15 plus foreground/background/cursor slots),
// indexed ([IndexedColor], 0-255), or true color ([color.RGBA]). Cell's
// Fg/Bg/UnderlineColor always hold one of these three internally, resolved
// to a concrete color.RGBA at render or serialization time.
//
// # Scrollback
//
// Lines scrolled off the top of the primary grid are handed to a
// [ScrollbackProvider]; the default discards them, [NewOSClipboard] has an
// OS-clipboard counterpart for [ClipboardProvider], and
// [NewSQLiteScrollback] persists scrollback to disk:
//
//	storage, _ := vtcore.NewSQLiteScrollback("session.db", 10000)
//	term := vtcore.New(vtcore.WithScrollback(storage, 10000))
//
//	for i := 0; i < term.ScrollbackProviderLen(); i++ {
//	    line := term.ScrollbackProviderLine(i) // []Cell
//	}
//
// # Providers
//
// Providers handle terminal events and queries, all optional with no-op
// defaults: [BellProvider], [TitleProvider], [ClipboardProvider],
// [ScrollbackProvider], [RecordingProvider], [SizeProvider].
//
//	term := vtcore.New(
//	    vtcore.WithResponse(os.Stdout),
//	    vtcore.WithBell(&MyBellHandler{}),
//	    vtcore.WithTitle(&MyTitleHandler{}),
//	)
//
// # Middleware
//
// [Middleware] intercepts individual ANSI handler calls for custom behavior
// (logging, metrics, sandboxing a subset of sequences):
//
//	mw := &vtcore.Middleware{
//	    Bell: func(next func()) {
//	        log.Println("bell")
//	        // omit next() to suppress it
//	    },
//	}
//	term := vtcore.New(vtcore.WithMiddleware(mw))
//
// # Terminal modes
//
//	term.HasMode(vtcore.ModeLineWrap)       // auto line wrap enabled?
//	term.HasMode(vtcore.ModeShowCursor)     // cursor visible?
//	term.HasMode(vtcore.ModeBracketedPaste) // bracketed paste enabled?
//
// See [TerminalMode] for the full set.
//
// # Damage tracking
//
// [Terminal.TakeDamage] reports what changed since the last call, for a
// renderer to redraw incrementally instead of repainting every cell:
//
//	full, lines := term.TakeDamage()
//	if full {
//	    // redraw everything
//	} else {
//	    for _, d := range lines {
//	        // redraw that line's [d.Left, d.Right] columns
//	    }
//	}
//
// # Selection
//
//	term.StartSelection(vtcore.SelectionSimple, row, col, vtcore.SideLeft)
//	term.UpdateSelection(row2, col2, vtcore.SideRight)
//	text := term.SelectedText()
//	term.ClearSelection()
//
// # Search
//
// [Terminal.Search] runs a compiled regexp forward or backward across a
// line range (including scrollback, via negative/over-height rows):
//
//	matches := term.Search(regexp.MustCompile(`error`), 0, vtcore.Line(term.Rows()-1), vtcore.SearchForward)
//
// # Snapshots
//
// [Terminal.Snapshot] captures terminal state at one of three detail tiers:
//
//	snap := term.Snapshot(vtcore.SnapshotDetailText)   // smallest
//	snap := term.Snapshot(vtcore.SnapshotDetailStyled) // text + style runs
//	snap := term.Snapshot(vtcore.SnapshotDetailFull)   // full per-cell data
//	data, _ := json.Marshal(snap)
//
// # Auto-resize mode
//
// In auto-resize mode the grid grows instead of scrolling, so no output is
// ever lost to a fixed viewport:
//
//	term := vtcore.New(vtcore.WithAutoResize(true))
//	cmd.Stdout = term
//	cmd.Run()
//	fmt.Printf("total rows: %d\n", term.Rows())
//
// # Thread safety
//
// All Terminal methods are safe for concurrent use; Terminal guards its
// state with an internal [sync.RWMutex]. Callers needing several operations
// to happen atomically still need their own synchronization around the
// call sequence.
//
// # Out of scope
//
// This package is the terminal core only: no OpenGL/rendering, no PTY
// spawning, no window-system glue, no config file parsing, no CLI, no
// Sixel/Kitty inline images, no OSC 133 shell integration. Those are an
// embedder's responsibility; [ansicode.Handler] methods this package must
// implement for protocol compliance but that fall in those categories
// (SetWorkingDirectory, SixelReceived) are harmless no-ops.
//
// For the complete list of supported escape sequences, see the
// [go-ansicode] package documentation.
//
// [go-ansicode]: https://github.com/danielgatis/go-ansicode
package vtcore
