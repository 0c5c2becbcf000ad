package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/ast"

	"github.com/riverfjs/keyinfo-go/internal/types"
)

func TestParse_Outline(t *testing.T) {
	t.Parallel()

	md := "# T\n\npara\nline2 **x**\n\n- a\n- b\n"
	doc := Parse(md, "doc")
	o := doc.Outline

	require.Len(t, o.Blocks, 4)
	assert.Equal(t, Block{ID: "L0", Type: "NodeHeading", Line: 0}, o.Blocks[0])
	assert.Equal(t, Block{ID: "L2", Type: "NodeParagraph", Line: 2}, o.Blocks[1])
	assert.Equal(t, "L5", o.Blocks[2].ID)
	assert.Equal(t, "L6", o.Blocks[3].ID)

	assert.Equal(t, types.BlockOrder{"doc": 0, "L0": 1, "L2": 2, "L5": 3, "L6": 4}, o.Order)

	require.Len(t, o.Lines, 8)
	assert.Equal(t, types.LineRef{BlockID: "L0"}, o.Lines[0])
	assert.Equal(t, types.LineRef{}, o.Lines[1])
	assert.Equal(t, types.LineRef{BlockID: "L2", Base: 0}, o.Lines[2])
	assert.Equal(t, types.LineRef{BlockID: "L2", Base: 5}, o.Lines[3])
	assert.Equal(t, types.LineRef{BlockID: "L6"}, o.Lines[6])

	assert.Equal(t, "doc", NodeID(doc.Root))
}

func TestParse_DuplicateLineIDs(t *testing.T) {
	t.Parallel()

	md := "| a | b |\n|---|---|\n| c | d |"
	o := Parse(md, "root").Outline

	ids := make([]string, 0, len(o.Blocks))
	for _, b := range o.Blocks {
		ids = append(ids, b.ID)
		assert.Equal(t, "NodeTableCell", b.Type)
	}
	assert.Equal(t, []string{"L0", "L0-2", "L2", "L2-2"}, ids)
	// 一行归属该行第一个单元格
	assert.Equal(t, "L2", o.Lines[2].BlockID)
}

func TestParse_RootIDNotReused(t *testing.T) {
	t.Parallel()

	o := Parse("text", "L0").Outline
	require.Len(t, o.Blocks, 1)
	assert.Equal(t, "L0-2", o.Blocks[0].ID)
	assert.Equal(t, 0, o.Order["L0"])
	assert.Equal(t, 1, o.Order["L0-2"])
}

func TestListPrefix(t *testing.T) {
	t.Parallel()

	doc := Parse("3. a\n4. b\n\n* c\n", "root")

	var prefixes []string
	_ = ast.Walk(doc.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if item, ok := n.(*ast.ListItem); ok && entering {
			prefixes = append(prefixes, Marker(item))
		}
		return ast.WalkContinue, nil
	})
	assert.Equal(t, []string{"3. ", "4. ", "* "}, prefixes)
}

func TestParse_KeyInfoSyntax(t *testing.T) {
	t.Parallel()

	doc := Parse("==a== %%b%% #c", "root")

	var kinds []string
	_ = ast.Walk(doc.Root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Type() == ast.TypeInline {
			if _, ok := n.(*ast.Text); !ok {
				kinds = append(kinds, n.Kind().String())
			}
		}
		return ast.WalkContinue, nil
	})
	assert.Equal(t, []string{"Mark", "Remark", "Tag"}, kinds)
}
