package lexer

import (
	"strings"

	"github.com/riverfjs/keyinfo-go/internal/types"
	"github.com/riverfjs/keyinfo-go/internal/util"
)

type match struct {
	typ   types.Type
	start int
	stop  int    // exclusive end of the raw match
	inner [2]int // content range
}

// matcher tries to match a marker starting exactly at rs[i], never reading past end.
type matcher func(rs []rune, i, end int) (match, bool)

// Order matters only for ties on length.
var matchers = []matcher{
	delimited("**", types.TypeBold, true),
	matchItalic,
	delimited("==", types.TypeHighlight, true),
	delimited("%%", types.TypeRemark, false),
	matchMarkTag,
	matchTag,
}

// longestMatch 在位置 i 处选择最长的候选标记，被反斜杠转义的字符不能开启标记
func longestMatch(rs []rune, i, end int) (match, bool) {
	if escaped(rs, i) {
		return match{}, false
	}
	var best match
	found := false
	for _, m := range matchers {
		cand, ok := m(rs, i, end)
		if !ok {
			continue
		}
		if !found || cand.stop > best.stop {
			best = cand
			found = true
		}
	}
	return best, found
}

func hasPrefixAt(rs []rune, i, end int, prefix string) bool {
	for _, r := range prefix {
		if i >= end || rs[i] != r {
			return false
		}
		i++
	}
	return true
}

// escaped 报告 rs[i] 前是否有奇数个反斜杠
func escaped(rs []rune, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && rs[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// isASCIIPunct 可被反斜杠转义的字符
func isASCIIPunct(r rune) bool {
	return r < 0x80 && strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", r)
}

// indexAt 返回 [from, end) 内 s 首次未被转义出现的位置
func indexAt(rs []rune, from, end int, s string) int {
	n := util.RuneLen(s)
	for j := from; j+n <= end; j++ {
		if hasPrefixAt(rs, j, end, s) && !escaped(rs, j) {
			return j
		}
	}
	return -1
}

// flanked 内容非空且首尾不是空白
func flanked(rs []rune, from, to int) bool {
	return to > from && !util.IsSpace(rs[from]) && !util.IsSpace(rs[to-1])
}

// delimited 匹配 <delim>content<delim>，取第一个未转义的闭合标记
//
// ** 的闭合串更长时取最后两个字符，前面的留给内层斜体；
// == 与 %% 的开闭都必须恰好两个字符。
func delimited(delim string, typ types.Type, strict bool) matcher {
	n := util.RuneLen(delim)
	ch := []rune(delim)[0]
	return func(rs []rune, i, end int) (match, bool) {
		if !hasPrefixAt(rs, i, end, delim) {
			return match{}, false
		}
		var j int
		if ch == '*' {
			j = indexAt(rs, i+n, end, delim)
			if j < 0 {
				return match{}, false
			}
			j += min(runLen(rs, j, ch), end-j) - n
		} else {
			if (i > 0 && rs[i-1] == ch) || runLen(rs, i, ch) != n {
				return match{}, false
			}
			j = findRun(rs[:end], i+n, ch, n)
			for j >= 0 && escaped(rs, j) {
				j = findRun(rs[:end], j+n, ch, n)
			}
			if j < 0 {
				return match{}, false
			}
		}
		if strict && !flanked(rs, i+n, j) {
			return match{}, false
		}
		if !strict && strings.TrimFunc(string(rs[i+n:j]), util.IsSpace) == "" {
			return match{}, false
		}
		return match{typ: typ, start: i, stop: j + n, inner: [2]int{i + n, j}}, true
	}
}

// matchItalic 匹配 *x*，开启的 * 必须单独出现，内容不能以空白开头
//
// 闭合的 * 必须单独出现或位于奇数长度串的末尾，** 串属于内层加粗。
func matchItalic(rs []rune, i, end int) (match, bool) {
	if i+2 >= end || rs[i] != '*' || rs[i+1] == '*' || util.IsSpace(rs[i+1]) {
		return match{}, false
	}
	if i > 0 && rs[i-1] == '*' {
		return match{}, false
	}
	for j := i + 2; j < end; {
		if rs[j] != '*' || escaped(rs, j) {
			j++
			continue
		}
		n := min(runLen(rs, j, '*'), end-j)
		if closing := j + n - 1; n%2 == 1 && flanked(rs, i+1, closing) {
			return match{typ: types.TypeItalic, start: i, stop: closing + 1, inner: [2]int{i + 1, closing}}, true
		}
		j += n
	}
	return match{}, false
}

// matchMarkTag 匹配 <mark>x</mark>（不区分大小写）
func matchMarkTag(rs []rune, i, end int) (match, bool) {
	const open, closing = "<mark>", "</mark>"
	if i+len(open) > end || !strings.EqualFold(string(rs[i:i+len(open)]), open) {
		return match{}, false
	}
	for j := i + len(open); j+len(closing) <= end; j++ {
		if strings.EqualFold(string(rs[j:j+len(closing)]), closing) {
			if strings.TrimFunc(string(rs[i+len(open):j]), util.IsSpace) == "" {
				return match{}, false
			}
			return match{typ: types.TypeHighlight, start: i, stop: j + len(closing), inner: [2]int{i + len(open), j}}, true
		}
	}
	return match{}, false
}

// matchTag 匹配 #tag 或 #tag#，# 前必须是行首或非单词字符
func matchTag(rs []rune, i, end int) (match, bool) {
	if rs[i] != '#' {
		return match{}, false
	}
	if i > 0 {
		prev := rs[i-1]
		if util.IsWordRune(prev) || prev == '#' || prev == '&' {
			return match{}, false
		}
	}
	j := i + 1
	for j < end && util.IsWordRune(rs[j]) {
		j++
	}
	if j == i+1 {
		return match{}, false
	}
	stop := j
	if j < end && rs[j] == '#' {
		stop = j + 1
	}
	return match{typ: types.TypeTag, start: i, stop: stop, inner: [2]int{i + 1, j}}, true
}

// link 是 [label](dest) 或 ![alt](src)
type link struct {
	image bool
	label [2]int
	stop  int
}

// matchLink 匹配行内链接与图片，引用式链接不识别
func matchLink(rs []rune, i, end int) (link, bool) {
	if escaped(rs, i) {
		return link{}, false
	}
	var l link
	j := i
	if rs[j] == '!' {
		l.image = true
		j++
	}
	if j >= end || rs[j] != '[' {
		return link{}, false
	}
	closing := matchBracket(rs, j, end, '[', ']')
	if closing < 0 || closing+1 >= end || rs[closing+1] != '(' {
		return link{}, false
	}
	stop := matchBracket(rs, closing+1, end, '(', ')')
	if stop < 0 {
		return link{}, false
	}
	l.label = [2]int{j + 1, closing}
	l.stop = stop + 1
	return l, true
}

// matchBracket 返回与 rs[i] 配对的闭合括号位置，跳过转义字符
func matchBracket(rs []rune, i, end int, open, closing rune) int {
	depth := 0
	for j := i; j < end; j++ {
		switch rs[j] {
		case '\\':
			j++
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

func isASCIILetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

// matchAutolink 匹配 <scheme:rest>，返回链接文本范围与结束位置
func matchAutolink(rs []rune, i, end int) ([2]int, int, bool) {
	if rs[i] != '<' || escaped(rs, i) || i+1 >= end || !isASCIILetter(rs[i+1]) {
		return [2]int{}, 0, false
	}
	j := i + 2
	for j < end && (isASCIILetter(rs[j]) || ('0' <= rs[j] && rs[j] <= '9') || strings.ContainsRune("+.-", rs[j])) {
		j++
	}
	if n := j - i - 1; n < 2 || n > 32 || j >= end || rs[j] != ':' {
		return [2]int{}, 0, false
	}
	for k := j + 1; k < end; k++ {
		switch {
		case rs[k] == '>':
			return [2]int{i + 1, k}, k + 1, true
		case rs[k] == '<' || util.IsSpace(rs[k]):
			return [2]int{}, 0, false
		}
	}
	return [2]int{}, 0, false
}

// matchHTMLTag 匹配单个行内 HTML 开启或闭合标签，返回结束位置
func matchHTMLTag(rs []rune, i, end int) (int, bool) {
	if rs[i] != '<' || escaped(rs, i) {
		return 0, false
	}
	j := i + 1
	if j < end && rs[j] == '/' {
		j++
	}
	if j >= end || !isASCIILetter(rs[j]) {
		return 0, false
	}
	for k := j + 1; k < end; k++ {
		switch rs[k] {
		case '>':
			return k + 1, true
		case '<':
			return 0, false
		}
	}
	return 0, false
}
