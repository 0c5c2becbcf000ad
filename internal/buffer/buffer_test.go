package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextBuffer(t *testing.T) {
	t.Parallel()

	tb := New()
	tb.Write("你好 ")
	p := tb.Pos()
	assert.Equal(t, Pos{Byte: 7, Rune: 3}, p)

	tb.Write("世界")
	assert.Equal(t, 5, tb.RuneOffset())
	assert.Equal(t, 13, tb.ByteOffset())
	assert.Equal(t, "世界", tb.Since(p))
	assert.Equal(t, "你好 世界", tb.String())
	assert.Empty(t, tb.Since(tb.Pos()))

	tb.Reset()
	assert.Zero(t, tb.RuneOffset())
	assert.Empty(t, tb.String())
}
