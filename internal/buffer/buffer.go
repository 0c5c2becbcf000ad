package buffer

import (
	"strings"
	"unicode/utf8"
)

// Pos is a position in a TextBuffer, in bytes and in runes.
type Pos struct {
	Byte int
	Rune int
}

// TextBuffer accumulates the plain text of one block and tracks the current rune offset.
type TextBuffer struct {
	sb         strings.Builder
	runeOffset int
}

// New creates a new TextBuffer.
func New() *TextBuffer {
	return &TextBuffer{}
}

// Write appends text to the buffer.
func (tb *TextBuffer) Write(text string) {
	tb.sb.WriteString(text)
	tb.runeOffset += utf8.RuneCountInString(text)
}

// RuneOffset returns the current rune offset.
func (tb *TextBuffer) RuneOffset() int {
	return tb.runeOffset
}

// ByteOffset returns the current byte offset (total string length).
func (tb *TextBuffer) ByteOffset() int {
	return tb.sb.Len()
}

// Pos returns the current position.
func (tb *TextBuffer) Pos() Pos {
	return Pos{Byte: tb.sb.Len(), Rune: tb.runeOffset}
}

// Since returns the text written after p.
func (tb *TextBuffer) Since(p Pos) string {
	s := tb.sb.String()
	if p.Byte >= len(s) {
		return ""
	}
	return s[p.Byte:]
}

// String returns the accumulated text.
func (tb *TextBuffer) String() string {
	return tb.sb.String()
}

// Reset clears the buffer.
func (tb *TextBuffer) Reset() {
	tb.sb.Reset()
	tb.runeOffset = 0
}
