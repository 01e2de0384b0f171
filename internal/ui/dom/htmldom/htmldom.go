// Package htmldom 用 golang.org/x/net/html 的节点树实现 dom.Document，供原生构建使用。
package htmldom

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"never-notes/internal/ui/dom"
)

var (
	_ dom.Document = (*Document)(nil)
	_ dom.Element  = (*Element)(nil)
	_ dom.Node     = (*Fragment)(nil)
)

// Document 包装一棵 html.Node 文档树。
type Document struct {
	root *html.Node
}

// Parse 解析完整 HTML 文档。
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: root}, nil
}

func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Render 输出整棵文档。
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) GetElementByID(id string) dom.Element {
	n := findByID(d.root, id)
	if n == nil {
		// 必须返回无类型 nil，否则调用方的 == nil 判断会失效
		return nil
	}
	return &Element{n: n}
}

func (d *Document) CreateElement(tag string) dom.Element {
	tag = strings.ToLower(tag)
	return &Element{n: &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}}
}

func (d *Document) CreateDocumentFragment() dom.Node {
	return &Fragment{n: &html.Node{Type: html.DocumentNode}}
}

// Element 包装一个元素节点。
type Element struct {
	n *html.Node
}

func (e *Element) Node() *html.Node { return e.n }

func (e *Element) AppendChild(child dom.Node) error {
	return appendTo(e.n, child)
}

func (e *Element) SetTextContent(text string) {
	e.RemoveChildren()
	if text == "" {
		return
	}
	e.n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func (e *Element) SetTabIndex(i int) {
	setAttr(e.n, "tabindex", strconv.Itoa(i))
}

func (e *Element) RemoveChildren() {
	for c := e.n.FirstChild; c != nil; {
		next := c.NextSibling
		e.n.RemoveChild(c)
		c = next
	}
}

// OuterHTML 输出元素自身及其子树。
func (e *Element) OuterHTML() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, e.n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Fragment 对应 DocumentFragment：追加到元素时只移动其子节点，片段本身随即变空。
type Fragment struct {
	n *html.Node
}

func (f *Fragment) AppendChild(child dom.Node) error {
	return appendTo(f.n, child)
}

func appendTo(parent *html.Node, child dom.Node) error {
	switch c := child.(type) {
	case *Element:
		if c.n.Parent != nil {
			c.n.Parent.RemoveChild(c.n)
		}
		parent.AppendChild(c.n)
	case *Fragment:
		for n := c.n.FirstChild; n != nil; {
			next := n.NextSibling
			c.n.RemoveChild(n)
			parent.AppendChild(n)
			n = next
		}
	default:
		return fmt.Errorf("htmldom: cannot append foreign node %T", child)
	}
	return nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		if v, ok := Attr(n, "id"); ok && v == id {
			return n
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// Attr 读取无命名空间的属性。
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// ChildElements 返回 n 的直接子元素（忽略文本、注释节点）。
func ChildElements(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// TextContent 拼接子树中全部文本节点。
func TextContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
