//go:build js && wasm

package bridge

import (
	"fmt"
	"syscall/js"
)

// JSHost 调用宿主注入到页面全局的函数（webview Bind 出来的那个）。
type JSHost struct {
	name string
}

func NewJSHost(name string) *JSHost {
	return &JSHost{name: name}
}

// Invoke 每次调用时才查找全局函数：宿主可能晚于脚本加载才完成注入，此时返回 ErrHostUnavailable。
func (h *JSHost) Invoke(payload string) (err error) {
	fn := js.Global().Get(h.name)
	if fn.Type() != js.TypeFunction {
		return ErrHostUnavailable
	}
	defer func() {
		// js.Value.Call 会把 JS 异常转成 panic
		if r := recover(); r != nil {
			err = fmt.Errorf("call %s: %v", h.name, r)
		}
	}()
	fn.Invoke(payload)
	return nil
}
