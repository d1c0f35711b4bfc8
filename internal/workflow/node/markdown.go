package node

import "strings"

// StripCodeFence 剥离模型输出首尾的 markdown 代码围栏。
// 只处理锚定在开头/结尾的围栏，正文中间合法出现的 ``` 保持原样。
func StripCodeFence(s string) string {
	out := strings.TrimSpace(s)

	if strings.HasPrefix(out, "```") {
		// 丢弃围栏行本身（含 ```json / ```html 之类的语言标记）
		if idx := strings.Index(out, "\n"); idx >= 0 {
			out = out[idx+1:]
		} else {
			out = strings.TrimPrefix(out, "```")
		}
	}

	out = strings.TrimSpace(out)
	if strings.HasSuffix(out, "```") {
		out = out[:len(out)-3]
	}

	return strings.TrimSpace(out)
}

// StripControlChars 去除原始控制字符 (0x00-0x1F, 0x7F)。
// 模型偶尔会在 JSON 字符串里混入非法控制字节，解析前必须清理。
func StripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return -1
		}
		return r
	}, s)
}
