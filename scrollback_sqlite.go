package vtcore

import (
	"database/sql"
	"encoding/json"
	"image/color"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteScrollback is a ScrollbackProvider that persists scrolled-off rows
// to a SQLite database instead of keeping them only in memory, so
// scrollback survives an embedder restarting the process.
//
// Rows are appended in order and addressed by a monotonically increasing
// sequence number; Line(0) is always the oldest row still within maxLines.
type SQLiteScrollback struct {
	mu       sync.Mutex
	db       *sql.DB
	maxLines int
	nextSeq  int64
	oldest   int64
}

// NewSQLiteScrollback opens (creating if necessary) a scrollback table in
// the SQLite database at path.
func NewSQLiteScrollback(path string, maxLines int) (*SQLiteScrollback, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS scrollback (
		seq INTEGER PRIMARY KEY,
		cells TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteScrollback{db: db, maxLines: maxLines}
	row := db.QueryRow(`SELECT COALESCE(MIN(seq), 0), COALESCE(MAX(seq), -1) FROM scrollback`)
	var minSeq, maxSeq int64
	if err := row.Scan(&minSeq, &maxSeq); err != nil {
		db.Close()
		return nil, err
	}
	s.oldest = minSeq
	s.nextSeq = maxSeq + 1
	return s, nil
}

// Close releases the underlying database handle.
func (s *SQLiteScrollback) Close() error {
	return s.db.Close()
}

// scrollbackCellJSON is Cell's on-disk representation. Cell.Fg/Bg/
// UnderlineColor are the color.Color interface, which encoding/json cannot
// round-trip back into directly (it has no way to know which concrete type
// to allocate); colors are resolved to concrete RGBA before encoding
// instead, which is lossless for the cell's rendered appearance even though
// it discards the original IndexedColor/NamedColor identity.
type scrollbackCellJSON struct {
	Char           rune
	Zerowidth      []rune
	Fg             color.RGBA
	Bg             color.RGBA
	UnderlineColor *color.RGBA
	Flags          CellFlags
	Hyperlink      *Hyperlink
}

func encodeScrollbackLine(line []Cell) ([]byte, error) {
	out := make([]scrollbackCellJSON, len(line))
	for i, c := range line {
		out[i] = scrollbackCellJSON{
			Char:      c.Char,
			Zerowidth: c.Zerowidth,
			Fg:        resolveDefaultColor(c.Fg, true),
			Bg:        resolveDefaultColor(c.Bg, false),
			Flags:     c.Flags,
			Hyperlink: c.Hyperlink,
		}
		if c.UnderlineColor != nil {
			rgba := resolveDefaultColor(c.UnderlineColor, true)
			out[i].UnderlineColor = &rgba
		}
	}
	return json.Marshal(out)
}

func decodeScrollbackLine(data []byte) ([]Cell, error) {
	var in []scrollbackCellJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	out := make([]Cell, len(in))
	for i, c := range in {
		out[i] = Cell{
			Char:      c.Char,
			Zerowidth: c.Zerowidth,
			Fg:        c.Fg,
			Bg:        c.Bg,
			Flags:     c.Flags,
			Hyperlink: c.Hyperlink,
		}
		if c.UnderlineColor != nil {
			out[i].UnderlineColor = *c.UnderlineColor
		}
	}
	return out, nil
}

// Push appends a row, persisting it as JSON-encoded cells and evicting the
// oldest row once the table exceeds maxLines.
func (s *SQLiteScrollback) Push(line []Cell) {
	s.mu.Lock()
	defer s.mu.Unlock()

	encoded, err := encodeScrollbackLine(line)
	if err != nil {
		return
	}
	if _, err := s.db.Exec(`INSERT INTO scrollback (seq, cells) VALUES (?, ?)`, s.nextSeq, encoded); err != nil {
		return
	}
	s.nextSeq++

	if s.maxLines > 0 {
		for s.nextSeq-s.oldest > int64(s.maxLines) {
			s.db.Exec(`DELETE FROM scrollback WHERE seq = ?`, s.oldest)
			s.oldest++
		}
	}
}

// Len returns the number of rows currently stored.
func (s *SQLiteScrollback) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.nextSeq - s.oldest)
}

// Line returns the row at index (0 = oldest), or nil if out of range or on
// any storage error.
func (s *SQLiteScrollback) Line(index int) []Cell {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.oldest + int64(index)
	if index < 0 || seq >= s.nextSeq {
		return nil
	}

	var encoded string
	row := s.db.QueryRow(`SELECT cells FROM scrollback WHERE seq = ?`, seq)
	if err := row.Scan(&encoded); err != nil {
		return nil
	}
	cells, err := decodeScrollbackLine([]byte(encoded))
	if err != nil {
		return nil
	}
	return cells
}

// Clear removes every stored row.
func (s *SQLiteScrollback) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.db.Exec(`DELETE FROM scrollback`)
	s.oldest = s.nextSeq
}

// SetMaxLines changes the retention cap, trimming the oldest rows
// immediately if the new cap is smaller than the current row count.
func (s *SQLiteScrollback) SetMaxLines(max int) {
	s.mu.Lock()
	s.maxLines = max
	s.mu.Unlock()

	if max <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.nextSeq-s.oldest > int64(s.maxLines) {
		s.db.Exec(`DELETE FROM scrollback WHERE seq = ?`, s.oldest)
		s.oldest++
	}
}

// MaxLines returns the current retention cap.
func (s *SQLiteScrollback) MaxLines() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxLines
}

var _ ScrollbackProvider = (*SQLiteScrollback)(nil)
