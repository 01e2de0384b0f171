//go:build js && wasm

// notes-page 是运行在 webview 里的页面程序（GOOS=js GOARCH=wasm）。
//
// 加载后立即向宿主请求一次笔记列表；宿主通过全局函数 update_note_list(names) 把列表推回来。
package main

import (
	"syscall/js"

	"never-notes/internal/domain/model"
	"never-notes/internal/ui/bridge"
	"never-notes/internal/ui/dom/jsdom"
	"never-notes/internal/ui/notelist"
	"never-notes/internal/ui/page"
)

func main() {
	p := page.New(
		bridge.NewClient(bridge.NewJSHost(model.HostInvokeFunction)),
		notelist.New(jsdom.Global()),
	)

	// 先暴露渲染函数再发请求：宿主可能在 invoke 返回前就回调
	render := js.FuncOf(func(this js.Value, args []js.Value) any {
		var names []string
		if len(args) > 0 {
			names = toStrings(args[0])
		}
		if err := p.UpdateNoteList(names); err != nil {
			consoleError("update_note_list:", err.Error())
		}
		return nil
	})
	js.Global().Set(model.RenderFunction, render)

	if err := p.Start(); err != nil {
		consoleError("start:", err.Error())
	}

	select {}
}

// toStrings 按下标读取 JS 数组，元素按赋值给 textContent 时的规则转成字符串：
// null / undefined 为空串，其余交给 JS 的 String(v)（5 -> "5"）。
func toStrings(v js.Value) []string {
	if v.Type() != js.TypeObject {
		return nil
	}
	jsString := js.Global().Get("String")
	n := v.Length()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		item := v.Index(i)
		switch item.Type() {
		case js.TypeNull, js.TypeUndefined:
			out = append(out, "")
		case js.TypeString:
			out = append(out, item.String())
		default:
			out = append(out, jsString.Invoke(item).String())
		}
	}
	return out
}

func consoleError(args ...any) {
	js.Global().Get("console").Call("error", args...)
}
