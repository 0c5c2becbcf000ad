package extract

import "github.com/riverfjs/keyinfo-go/internal/types"

// Coalesce merges exactly nested wrappers into one span with a composite tag.
//
// A structural source lists an outer wrapper before the spans it contains.
// Two consecutive spans with the same block, offset and text wrap identical
// content, so <mark><sup>x</sup></mark> becomes a single "mark sup" span
// and MapTag decides the pair as a whole. Heading spans cover a block, not
// a wrapper, and are never merged.
func Coalesce(spans []types.Span) []types.Span {
	if len(spans) < 2 {
		return spans
	}
	out := make([]types.Span, 0, len(spans))
	for _, sp := range spans {
		if n := len(out); n > 0 {
			prev := &out[n-1]
			if sameContent(*prev, sp) && !isHeading(prev.Tag) && !isHeading(sp.Tag) {
				prev.Tag += " " + sp.Tag
				continue
			}
		}
		out = append(out, sp)
	}
	return out
}

func sameContent(a, b types.Span) bool {
	return a.BlockID == b.BlockID && a.Offset == b.Offset && a.Text == b.Text
}

func isHeading(tag string) bool {
	typ, ok := MapTag(tag)
	return ok && typ == types.TypeTitle
}
