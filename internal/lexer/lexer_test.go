package lexer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverfjs/keyinfo-go/internal/lexer"
	"github.com/riverfjs/keyinfo-go/internal/types"
)

func labels(items []types.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, string(it.Type)+":"+it.Text)
	}
	return out
}

func TestScan_AllMarkers(t *testing.T) {
	t.Parallel()

	md := "# Title\n正文包含 **加粗**、*斜体*、==高亮==、%%备注%%、#标签。\n另一个 <mark>标记</mark>。"
	items := lexer.Collect(md)

	assert.Equal(t, []string{
		"title:Title",
		"bold:加粗",
		"italic:斜体",
		"highlight:高亮",
		"remark:备注",
		"tag:标签",
		"highlight:标记",
	}, labels(items))

	require.Len(t, items, 7)
	assert.Equal(t, "# Title", items[0].Raw)
	assert.Equal(t, "**加粗**", items[1].Raw)
	assert.Equal(t, "<mark>标记</mark>", items[6].Raw)

	// 行号作为默认排序键
	assert.Equal(t, 0, items[0].BlockSort)
	assert.Equal(t, 1, items[1].BlockSort)
	assert.Equal(t, 2, items[6].BlockSort)
	assert.Equal(t, types.LineBlockID(1), items[1].BlockID)
}

func TestScan_Offsets(t *testing.T) {
	t.Parallel()

	items := lexer.Collect("你好 **世界** and *x*")
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Offset)
	assert.Equal(t, 14, items[1].Offset)
}

func TestScan_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, lexer.Collect(""))
	assert.Empty(t, lexer.Collect("\n\n   \n"))
}

func TestScan_NoMarkers(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"plain text only",
		"a * b * c",
		"price is 5 * 3 = 15",
		"C# and F# are languages",
		"see page#section",
		"use `**not bold**` here",
		"x == y and 100%% sure",
		"#",
		"#   ",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			assert.Empty(t, lexer.Collect(in))
		})
	}
}

func TestScan_FencedCode(t *testing.T) {
	t.Parallel()

	t.Run("only fenced block", func(t *testing.T) {
		t.Parallel()

		md := "```\n**bold** *it* ==hl== %%memo%% #tag\n# not a title\n```"
		assert.Empty(t, lexer.Collect(md))
	})

	t.Run("fence with info string", func(t *testing.T) {
		t.Parallel()

		md := "before **a**\n```go\n**b**\n```\nafter **c**"
		assert.Equal(t, []string{"bold:a", "bold:c"}, labels(lexer.Collect(md)))
	})

	t.Run("tilde fence", func(t *testing.T) {
		t.Parallel()

		md := "~~~\n==x==\n~~~\n==y=="
		assert.Equal(t, []string{"highlight:y"}, labels(lexer.Collect(md)))
	})

	t.Run("unclosed fence runs to end", func(t *testing.T) {
		t.Parallel()

		md := "**a**\n```\n**b**\n**c**"
		assert.Equal(t, []string{"bold:a"}, labels(lexer.Collect(md)))
	})

	t.Run("shorter fence does not close", func(t *testing.T) {
		t.Parallel()

		md := "````\n```\n**b**\n````\n**c**"
		assert.Equal(t, []string{"bold:c"}, labels(lexer.Collect(md)))
	})
}

func TestScan_InlineCodeExcluded(t *testing.T) {
	t.Parallel()

	md := "`**x**` **y** ``a ` **z** `` ==w=="
	items := lexer.Collect(md)
	assert.Equal(t, []string{"bold:y", "highlight:w"}, labels(items))

	for _, it := range items {
		assert.NotContains(t, it.Text, "x")
		assert.NotContains(t, it.Raw, "`")
	}
}

func TestScan_MarkerCannotSpanCode(t *testing.T) {
	t.Parallel()

	assert.Empty(t, lexer.Collect("**use `x` here**"))
}

func TestScan_Overlap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		md   string
		want []string
	}{
		{
			name: "bold wins over italic at same start",
			md:   "**bold** text",
			want: []string{"bold:bold"},
		},
		{
			name: "nested markup is stripped and not reused",
			md:   "**bold *italic* bold**",
			want: []string{"bold:bold italic bold"},
		},
		{
			name: "earliest start wins",
			md:   "==a **b== c**",
			want: []string{"highlight:a **b"},
		},
		{
			name: "unterminated bold does not consume",
			md:   "**a *b*",
			want: []string{"italic:b"},
		},
		{
			name: "stray markers",
			md:   "** == %% <mark>",
			want: nil,
		},
		{
			name: "space flanked emphasis",
			md:   "** a ** and * b *",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := labels(lexer.Collect(tt.md))
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScan_Emphasis(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		md   string
		want []string
	}{
		{name: "italic around bold", md: "*a **b** c*", want: []string{"italic:a b c"}},
		{name: "bold around italic at end", md: "**a *b***", want: []string{"bold:a b"}},
		{name: "escaped stars", md: `plain \*not italic\* text`, want: nil},
		{name: "escaped closer", md: `*a\*`, want: nil},
		{name: "escaped highlight", md: `\==x==`, want: nil},
		{name: "escaped tag", md: `\#tag`, want: nil},
		{name: "escape inside bold", md: `**a\*b**`, want: []string{"bold:a*b"}},
		{name: "triple equals", md: "===x===", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := labels(lexer.Collect(tt.md))
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScan_RenderedText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		md   string
		want []string
		raw  string
	}{
		{name: "link label", md: "see **[a](http://x)** here", want: []string{"bold:a"}, raw: "**[a](http://x)**"},
		{name: "entity", md: "**&amp;**", want: []string{"bold:&"}, raw: "**&amp;**"},
		{name: "numeric reference", md: "==&#35;1==", want: []string{"highlight:#1"}},
		{name: "image alt skipped", md: "![**alt**](x.png) **b**", want: []string{"bold:b"}},
		{name: "link destination skipped", md: "[*x*](http://a/*b*)", want: []string{"italic:x"}},
		{name: "html tags stripped", md: "**a <sup>1</sup>**", want: []string{"bold:a 1"}},
		{name: "autolink skipped", md: "<http://a.b/**x**> **c**", want: []string{"bold:c"}},
		{name: "heading link and entity", md: "# [Docs](http://x) &amp; more", want: []string{"title:Docs & more"}},
		{name: "heading drops code", md: "# Use `foo` now", want: []string{"title:Use  now"}, raw: "# Use  now"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			items := lexer.Collect(tt.md)
			assert.Equal(t, tt.want, labels(items))
			if tt.raw != "" {
				require.NotEmpty(t, items)
				assert.Equal(t, tt.raw, items[0].Raw)
			}
		})
	}
}

func TestScan_Tags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		md   string
		want []string
	}{
		{md: "#tag", want: []string{"tag:tag"}},
		{md: "a #go-lang, b", want: []string{"tag:go-lang"}},
		{md: "#思源笔记#后文", want: []string{"tag:思源笔记"}},
		{md: "#a/b #c", want: []string{"tag:a/b", "tag:c"}},
		{md: "x&#39;s", want: nil},
		{md: "## #tag", want: []string{"title:tag", "tag:tag"}},
	}
	for _, tt := range tests {
		t.Run(tt.md, func(t *testing.T) {
			t.Parallel()

			got := labels(lexer.Collect(tt.md))
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScan_Headings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		md   string
		want []string
	}{
		{md: "### Section ###", want: []string{"title:Section"}},
		{md: "# Hello **World**", want: []string{"title:Hello World", "bold:World"}},
		{md: "# Use `code` here", want: []string{"title:Use  here"}},
		{md: "####### seven", want: nil},
		{md: "#nospace", want: []string{"tag:nospace"}},
		{md: "> ## Quoted", want: []string{"title:Quoted"}},
	}
	for _, tt := range tests {
		t.Run(tt.md, func(t *testing.T) {
			t.Parallel()

			got := labels(lexer.Collect(tt.md))
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScan_ListItems(t *testing.T) {
	t.Parallel()

	md := "- **first**\n3. ==third==\nplain **p**"
	items := lexer.Collect(md)
	require.Len(t, items, 3)

	assert.True(t, items[0].ListItem)
	assert.Equal(t, "- ", items[0].ListPrefix)
	assert.Equal(t, "- first", items[0].Label())

	assert.True(t, items[1].ListItem)
	assert.Equal(t, "3. ", items[1].ListPrefix)

	assert.False(t, items[2].ListItem)
	assert.Empty(t, items[2].ListPrefix)
}

func TestScan_WithBlocks(t *testing.T) {
	t.Parallel()

	md := "**a**\nsecond **b**\n\n**c**"
	lines := []types.LineRef{
		{BlockID: "p1", Base: 0},
		{BlockID: "p1", Base: 6},
		{},
		{BlockID: "p2", Base: 0},
	}
	order := types.BlockOrder{"root": 0, "p1": 1}

	items := lexer.Collect(md, lexer.WithBlocks(lines, order))
	require.Len(t, items, 3)

	assert.Equal(t, "p1", items[0].BlockID)
	assert.Equal(t, 1, items[0].BlockSort)
	assert.Equal(t, 0, items[0].Offset)

	assert.Equal(t, "p1", items[1].BlockID)
	assert.Equal(t, 6+7, items[1].Offset)

	// p2 不在排序索引中
	assert.Equal(t, "p2", items[2].BlockID)
	assert.Equal(t, types.UnknownBlockSort, items[2].BlockSort)
}

func TestScan_LazyAndRerunnable(t *testing.T) {
	t.Parallel()

	seq := lexer.Scan("**a** **b** **c**")

	var first []string
	for it := range seq {
		first = append(first, it.Text)
		if len(first) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, first)

	var second []string
	for it := range seq {
		second = append(second, it.Text)
	}
	assert.Equal(t, []string{"a", "b", "c"}, second)
}

func TestScan_DeterministicIDs(t *testing.T) {
	t.Parallel()

	md := "**a** and **a**\n==b=="
	first := lexer.Collect(md)
	second := lexer.Collect(md)
	require.Equal(t, first, second)

	ids := make(map[string]bool)
	for _, it := range first {
		assert.True(t, strings.HasPrefix(it.ID, "md-"))
		assert.False(t, ids[it.ID], "duplicate id %s", it.ID)
		ids[it.ID] = true
	}
}
