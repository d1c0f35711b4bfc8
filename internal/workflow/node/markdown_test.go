package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "json fence",
			in:   "```json\n[\"a\",\"b\"]\n```",
			want: `["a","b"]`,
		},
		{
			name: "html fence",
			in:   "```html\n<div>内容</div>\n```",
			want: "<div>内容</div>",
		},
		{
			name: "bare fence without language",
			in:   "```\nhello\n```",
			want: "hello",
		},
		{
			name: "no fence",
			in:   "  plain text  ",
			want: "plain text",
		},
		{
			name: "inner fence preserved",
			in:   "```html\n<pre>```css\nbody{}\n```</pre>\n```",
			want: "<pre>```css\nbody{}\n```</pre>",
		},
		{
			name: "single line fence",
			in:   "```[1]```",
			want: "[1]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}

func TestStripControlChars(t *testing.T) {
	assert.Equal(t, `["ab"]`, StripControlChars("[\"a\x00b\"]\x1f"))
	assert.Equal(t, "中文保留", StripControlChars("中文\x7f保留"))
	assert.Equal(t, "ab", StripControlChars("a\nb"))
}

func TestTruncateByRunes(t *testing.T) {
	assert.Equal(t, "", TruncateByRunes("abc", 0))
	assert.Equal(t, "abc", TruncateByRunes("abc", 5))
	assert.Equal(t, "ab", TruncateByRunes("abcd", 2))
	assert.Equal(t, "中文", TruncateByRunes("中文标题", 2))
}
