package vtcore

import "github.com/atotto/clipboard"

// OSClipboard is a ClipboardProvider backed by the host OS clipboard via
// github.com/atotto/clipboard. It treats the clipboard ('c') and primary
// selection ('p') selections as the same backing store, since most
// platforms atotto/clipboard targets (macOS, Windows, Wayland-less X11
// setups) only expose one.
type OSClipboard struct{}

// NewOSClipboard returns a ClipboardProvider backed by the host clipboard.
func NewOSClipboard() *OSClipboard {
	return &OSClipboard{}
}

// Read returns the current OS clipboard content, or "" if it is unreadable
// (headless environment, unsupported platform).
func (c *OSClipboard) Read(selection byte) string {
	text, err := clipboard.ReadAll()
	if err != nil {
		return ""
	}
	return text
}

// Write stores data in the OS clipboard, silently discarding it if the
// platform clipboard is unavailable.
func (c *OSClipboard) Write(selection byte, data []byte) {
	_ = clipboard.WriteAll(string(data))
}

var _ ClipboardProvider = (*OSClipboard)(nil)
