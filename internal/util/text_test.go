package util

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "hello", want: "hello"},
		{name: "spaces", in: "  hello \t", want: "hello"},
		{name: "nbsp", in: "\u00a0加粗\u00a0", want: "加粗"},
		{name: "zero width", in: "\u200b\ufeffmark\u200b", want: "mark"},
		{name: "inner space kept", in: " a\u00a0b ", want: "a\u00a0b"},
		{name: "nfc", in: "e\u0301", want: "\u00e9"},
		{name: "only spaces", in: "\u200b \u00a0", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsWordRune(t *testing.T) {
	for _, r := range "a标9_-/" {
		if !IsWordRune(r) {
			t.Errorf("IsWordRune(%q) = false, want true", r)
		}
	}
	for _, r := range " 。,#*" {
		if IsWordRune(r) {
			t.Errorf("IsWordRune(%q) = true, want false", r)
		}
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: `\*x\*`, want: "*x*"},
		{in: "&amp;", want: "&"},
		{in: "&#35;1 &#x41;", want: "#1 A"},
		{in: `a\b`, want: `a\b`},
		{in: "&nosuch;", want: "&nosuch;"},
	}
	for _, tt := range tests {
		if got := Unescape(tt.in); got != tt.want {
			t.Errorf("Unescape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
