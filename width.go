package vtcore

import (
	"github.com/rivo/uniseg"
	"github.com/unilibs/uniwidth"
)

// runeWidth returns the display width: 2 for wide characters (CJK, emoji), 1 for normal, 0 for zero-width (combining marks, control chars).
func runeWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

// isWideRune returns true if the rune occupies 2 columns (CJK ideographs, fullwidth forms, emoji).
func isWideRune(r rune) bool {
	return uniwidth.RuneWidth(r) == 2
}

// StringWidth returns the total display width of a string (sum of rune widths).
func StringWidth(s string) int {
	return uniwidth.StringWidth(s)
}

// attachesAsCombiner reports whether r, written immediately after prev, forms
// a single grapheme cluster with it rather than starting its own — the test
// that decides whether an incoming zero-width rune should attach to the cell
// holding prev (via Cell.PushZerowidth) instead of being dropped or occupying
// a column of its own.
func attachesAsCombiner(prev, r rune) bool {
	if prev == 0 {
		return false
	}
	s := string(prev) + string(r)
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return cluster == s
}
