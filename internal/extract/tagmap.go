package extract

import (
	"strings"

	"github.com/riverfjs/keyinfo-go/internal/types"
)

// tagTypes is the closed table of recognized format tags.
// Adding a span subtype is a one-line edit here.
var tagTypes = map[string]types.Type{
	"heading":     types.TypeTitle,
	"h1":          types.TypeTitle,
	"h2":          types.TypeTitle,
	"h3":          types.TypeTitle,
	"h4":          types.TypeTitle,
	"h5":          types.TypeTitle,
	"h6":          types.TypeTitle,
	"strong":      types.TypeBold,
	"b":           types.TypeBold,
	"em":          types.TypeItalic,
	"i":           types.TypeItalic,
	"mark":        types.TypeHighlight,
	"inline-memo": types.TypeRemark,
	"remark":      types.TypeRemark,
	"tag":         types.TypeTag,
}

// excludedTags disqualify a composite tag even when another token maps.
var excludedTags = map[string]bool{
	"sup": true,
	"sub": true,
}

// MapTag 将原始格式标签映射为关键信息类型
//
// tag 可以是空格分隔的组合标签（如 "mark sup"），取第一个可识别的 token。
// Coalesce 按外层在前拼接组合标签，所以结果取决于嵌套顺序：
// "mark b" 是高亮，"b mark" 是加粗。含 sup/sub 的组合一律返回 false。
func MapTag(tag string) (types.Type, bool) {
	tokens := strings.Fields(strings.ToLower(tag))
	for _, tok := range tokens {
		if excludedTags[tok] {
			return "", false
		}
	}
	for _, tok := range tokens {
		if t, ok := tagTypes[tok]; ok {
			return t, true
		}
	}
	return "", false
}
