package keyinfo

import (
	"strconv"
	"strings"

	"github.com/riverfjs/keyinfo-go/internal/types"
)

// CountTypes 按类型统计条目数
func CountTypes(items []Item) map[Type]int {
	counts := make(map[Type]int, len(types.Types))
	for _, it := range items {
		counts[it.Type]++
	}
	return counts
}

// Summary 返回形如 "title=1 bold=2" 的统计，按固定的类型顺序，省略为零的类型
func Summary(items []Item) string {
	counts := CountTypes(items)
	parts := make([]string, 0, len(types.Types))
	for _, t := range types.Types {
		if n := counts[t]; n > 0 {
			parts = append(parts, string(t)+"="+strconv.Itoa(n))
		}
	}
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, " ")
}
