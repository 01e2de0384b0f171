// Package notedoc 把笔记内容转换成可展示的 HTML。
package notedoc

import (
	"bytes"
	"html"
	"net/url"
	"regexp"

	"github.com/russross/blackfriday"

	"never-notes/internal/domain/model"
)

// InterlinkScheme 是笔记互链的 href 前缀：[[Todo]] -> internal:Todo。
const InterlinkScheme = "internal:"

var interlinkRe = regexp.MustCompile(`\[\[([^\[\]\n]+)\]\]`)

// 链接文字里需要反斜杠转义的 Markdown 字符，避免目标名里的 * _ 等被当成强调。
const linkTextSpecials = "\\`*_{}[]()#+-.!:|&<>~"

const extensions = blackfriday.EXTENSION_NO_INTRA_EMPHASIS |
	blackfriday.EXTENSION_TABLES |
	blackfriday.EXTENSION_FENCED_CODE |
	blackfriday.EXTENSION_AUTOLINK |
	blackfriday.EXTENSION_STRIKETHROUGH |
	blackfriday.EXTENSION_SPACE_HEADERS

// ToHTML 渲染 Markdown，并把 [[id]] 互链转换为 <a href="internal:id">id</a>。
// 代码块与行内代码里的 [[id]] 保持原样。
// 渲染器不开 HTML_SAFELINK：internal: 不在 blackfriday 的安全协议白名单里，开了会被降级为 <tt>。
func ToHTML(src []byte) []byte {
	renderer := blackfriday.HtmlRenderer(0, "", "")
	return blackfriday.Markdown(rewriteInterlinks(src), renderer, extensions)
}

// Render 按笔记类型输出 HTML：.md 走 Markdown，其余按纯文本放进 <pre>。
func Render(n model.Note) []byte {
	if n.IsMarkdown() {
		return ToHTML(n.Content)
	}
	return []byte("<pre>" + html.EscapeString(string(n.Content)) + "</pre>\n")
}

// rewriteInterlinks 逐行扫描：围栏代码块和缩进代码块原样输出，
// 其余文字按段落（空行分隔）交给 rewriteProse 处理行内代码和互链。
func rewriteInterlinks(src []byte) []byte {
	var out, prose bytes.Buffer
	flush := func() {
		out.Write(rewriteProse(prose.Bytes()))
		prose.Reset()
	}

	var fence []byte
	prevBlank, inIndented := true, false
	for _, line := range bytes.SplitAfter(src, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		blank := len(bytes.TrimSpace(line)) == 0

		switch {
		case fence != nil:
			out.Write(line)
			if m := fenceMarker(line); m != nil && bytes.Equal(m, fence) && isClosingFence(line, m) {
				fence = nil
			}
		case fenceMarker(line) != nil:
			flush()
			fence = fenceMarker(line)
			out.Write(line)
			inIndented = false
		case isIndentedCode(line) && (prevBlank || inIndented):
			flush()
			out.Write(line)
			inIndented = true
		case blank:
			flush()
			out.Write(line)
		default:
			prose.Write(line)
			inIndented = false
		}
		prevBlank = blank
	}
	flush()
	return out.Bytes()
}

// fenceMarker 返回行首（最多 3 个空格缩进）的 ``` / ~~~ 标记，不是围栏时返回 nil。
func fenceMarker(line []byte) []byte {
	i := 0
	for i < 3 && i < len(line) && line[i] == ' ' {
		i++
	}
	if i >= len(line) || (line[i] != '`' && line[i] != '~') {
		return nil
	}
	c := line[i]
	j := i
	for j < len(line) && line[j] == c {
		j++
	}
	if j-i < 3 {
		return nil
	}
	return line[i:j]
}

func isClosingFence(line, marker []byte) bool {
	rest := bytes.TrimLeft(line, " ")
	return len(bytes.TrimSpace(rest[len(marker):])) == 0
}

func isIndentedCode(line []byte) bool {
	return len(bytes.TrimSpace(line)) > 0 &&
		(bytes.HasPrefix(line, []byte("    ")) || bytes.HasPrefix(line, []byte("\t")))
}

// rewriteProse 跳过反引号包围的行内代码，只替换其余文字里的 [[id]]。
func rewriteProse(text []byte) []byte {
	var out bytes.Buffer
	start := 0
	for i := 0; i < len(text); {
		switch text[i] {
		case '\\':
			i += 2
			continue
		case '`':
		default:
			i++
			continue
		}

		n := 0
		for i+n < len(text) && text[i+n] == '`' {
			n++
		}
		end := closingBackticks(text, i+n, n)
		if end < 0 {
			i += n
			continue
		}
		out.Write(replaceInterlinks(text[start:i]))
		out.Write(text[i:end])
		start, i = end, end
	}
	if start < len(text) {
		out.Write(replaceInterlinks(text[start:]))
	}
	return out.Bytes()
}

// closingBackticks 从 from 开始找长度恰好为 n 的反引号串，返回其后一个位置；找不到返回 -1。
func closingBackticks(text []byte, from, n int) int {
	for i := from; i < len(text); {
		if text[i] != '`' {
			i++
			continue
		}
		j := i
		for j < len(text) && text[j] == '`' {
			j++
		}
		if j-i == n {
			return j
		}
		i = j
	}
	return -1
}

func replaceInterlinks(text []byte) []byte {
	return interlinkRe.ReplaceAllFunc(text, func(m []byte) []byte {
		target := interlinkRe.FindSubmatch(m)[1]
		var b bytes.Buffer
		b.WriteByte('[')
		for _, c := range target {
			if bytes.IndexByte([]byte(linkTextSpecials), c) >= 0 {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		}
		b.WriteString("](" + InterlinkScheme)
		b.WriteString(url.PathEscape(string(target)))
		b.WriteByte(')')
		return b.Bytes()
	})
}
