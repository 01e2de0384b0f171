//go:build js && wasm

// Package jsdom 用 syscall/js 实现 dom.Document，运行在 webview 内的 wasm 页面中。
package jsdom

import (
	"fmt"
	"syscall/js"

	"never-notes/internal/ui/dom"
)

var (
	_ dom.Document = (*Document)(nil)
	_ dom.Element  = (*Element)(nil)
	_ dom.Node     = (*Fragment)(nil)
)

type jsNode interface {
	Value() js.Value
}

// Document 包装页面的 document 对象。
type Document struct {
	v js.Value
}

// Global 返回当前页面的 document。
func Global() *Document {
	return &Document{v: js.Global().Get("document")}
}

func (d *Document) GetElementByID(id string) dom.Element {
	el := d.v.Call("getElementById", id)
	if !el.Truthy() {
		return nil
	}
	return &Element{v: el}
}

func (d *Document) CreateElement(tag string) dom.Element {
	return &Element{v: d.v.Call("createElement", tag)}
}

func (d *Document) CreateDocumentFragment() dom.Node {
	return &Fragment{v: d.v.Call("createDocumentFragment")}
}

type Element struct {
	v js.Value
}

func (e *Element) Value() js.Value { return e.v }

func (e *Element) AppendChild(child dom.Node) error {
	return appendTo(e.v, child)
}

// SetTextContent 走 textContent，转义交给浏览器。
func (e *Element) SetTextContent(text string) {
	e.v.Set("textContent", text)
}

func (e *Element) SetTabIndex(i int) {
	e.v.Set("tabIndex", i)
}

func (e *Element) RemoveChildren() {
	e.v.Set("innerHTML", "")
}

type Fragment struct {
	v js.Value
}

func (f *Fragment) Value() js.Value { return f.v }

func (f *Fragment) AppendChild(child dom.Node) error {
	return appendTo(f.v, child)
}

func appendTo(parent js.Value, child dom.Node) (err error) {
	c, ok := child.(jsNode)
	if !ok {
		return fmt.Errorf("jsdom: cannot append foreign node %T", child)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("jsdom: appendChild: %v", r)
		}
	}()
	parent.Call("appendChild", c.Value())
	return nil
}
