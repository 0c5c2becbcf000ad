package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverfjs/keyinfo-go/internal/types"
)

func item(typ types.Type, text, block string, sort, offset int) types.Item {
	return types.Item{ID: string(typ) + ":" + text, Type: typ, Text: text, BlockID: block, BlockSort: sort, Offset: offset}
}

func labels(items []types.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, string(it.Type)+":"+it.Text)
	}
	return out
}

func TestMerge_PreferredConfirmsMarkdown(t *testing.T) {
	t.Parallel()

	md := []types.Item{
		item(types.TypeBold, "A", "L0", 0, 0),
		item(types.TypeItalic, "B", "L2", 2, 4),
	}
	spans := []types.Item{item(types.TypeHighlight, "C", "p1", 1, 3)}
	dom := []types.Item{item(types.TypeBold, "A", "p0", 0, 0)}

	got := Merge(md, spans, dom)
	assert.Equal(t, []string{"bold:A", "highlight:C", "italic:B"}, labels(got))
	// bold:A 来自结构化来源
	assert.Equal(t, "p0", got[0].BlockID)
	for i, it := range got {
		assert.Equal(t, i, it.Order)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	t.Parallel()

	md := []types.Item{item(types.TypeTag, "x", "L3", 3, 0), item(types.TypeBold, "y", "L1", 1, 2)}
	spans := []types.Item{item(types.TypeTitle, "T", "h", 0, 0), item(types.TypeBold, "y", "p", 1, 1)}
	dom := []types.Item{item(types.TypeBold, "y", "p", 1, 1), item(types.TypeRemark, "r", "p", 1, 9)}

	first := Merge(md, spans, dom)
	second := Merge(md, spans, dom)
	require.Equal(t, first, second)
	assert.Equal(t, []string{"title:T", "bold:y", "remark:r", "tag:x"}, labels(first))
}

func TestMerge_ExactlyOnePerConfirmedPair(t *testing.T) {
	t.Parallel()

	md := []types.Item{item(types.TypeBold, "k", "L0", 0, 0)}
	spans := []types.Item{item(types.TypeBold, "k", "p", 0, 0)}
	dom := []types.Item{item(types.TypeBold, "k", "p", 0, 0)}

	got := Merge(md, spans, dom)
	require.Len(t, got, 1)
	assert.Equal(t, "p", got[0].BlockID)
}

func TestMerge_DOMMatchesAreConsumed(t *testing.T) {
	t.Parallel()

	// 两个 dom 片段只有一个能与 span 片段配对
	spans := []types.Item{item(types.TypeBold, "k", "p", 0, 0)}
	dom := []types.Item{
		item(types.TypeBold, "k", "p", 0, 0),
		item(types.TypeBold, "k", "p", 0, 7),
	}
	got := Merge(nil, spans, dom)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Offset)
	assert.Equal(t, 7, got[1].Offset)

	// 不同块的同名片段不是同一个
	got = Merge(nil, spans, []types.Item{item(types.TypeBold, "k", "q", 1, 0)})
	assert.Len(t, got, 2)
}

// Suppression compares (type, text) only: a markdown item elsewhere in the
// document with the same text as a structural item is dropped too.
func TestMerge_CollisionBoundary(t *testing.T) {
	t.Parallel()

	md := []types.Item{
		item(types.TypeBold, "same", "L0", 0, 0),
		item(types.TypeBold, "same", "L9", 9, 0),
	}
	spans := []types.Item{item(types.TypeBold, "same", "p", 0, 0)}

	got := Merge(md, spans, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "p", got[0].BlockID)
}

func TestMerge_Degenerate(t *testing.T) {
	t.Parallel()

	t.Run("no preferred items keeps markdown order", func(t *testing.T) {
		t.Parallel()

		md := []types.Item{item(types.TypeBold, "b", "L5", 5, 0), item(types.TypeBold, "a", "L1", 1, 0)}
		got := Merge(md, nil, nil)
		assert.Equal(t, []string{"bold:b", "bold:a"}, labels(got))
		assert.Equal(t, 0, got[0].Order)
		assert.Equal(t, 1, got[1].Order)
		// 输入不被修改
		assert.Zero(t, md[1].Order)
	})

	t.Run("no markdown items returns sorted preferred set", func(t *testing.T) {
		t.Parallel()

		spans := []types.Item{item(types.TypeBold, "z", "p2", 2, 0), item(types.TypeBold, "y", "p1", 1, 5)}
		dom := []types.Item{item(types.TypeItalic, "x", "p1", 1, 0)}
		assert.Equal(t, []string{"italic:x", "bold:y", "bold:z"}, labels(Merge(nil, spans, dom)))
	})

	t.Run("all empty", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, Merge(nil, nil, nil))
	})
}

func TestMerge_UnknownBlocksSortLastStably(t *testing.T) {
	t.Parallel()

	spans := []types.Item{
		item(types.TypeBold, "u1", "gone", types.UnknownBlockSort, 0),
		item(types.TypeBold, "k", "p", 3, 0),
		item(types.TypeBold, "u2", "gone2", types.UnknownBlockSort, 0),
	}
	assert.Equal(t, []string{"bold:k", "bold:u1", "bold:u2"}, labels(Merge(nil, spans, nil)))
}
