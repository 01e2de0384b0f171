//go:build cgo

package main

import (
	"context"
	"fmt"
	"log/slog"

	webview "github.com/webview/webview_go"

	"never-notes/internal/app"
	"never-notes/internal/domain/model"
)

// webviewWindow 把 Eval 切回 UI 线程执行；webview 的 API 只能在 UI 线程调用。
type webviewWindow struct {
	w webview.WebView
}

func (ww webviewWindow) Eval(js string) {
	ww.w.Dispatch(func() { ww.w.Eval(js) })
}

// openWindow 创建内嵌 WebView 窗口并阻塞到窗口关闭（或 ctx 取消）。
// 需要在主 goroutine 上调用。
func openWindow(ctx context.Context, cfg app.WindowConfig, url string, onInvoke invokeFunc, logger *slog.Logger) error {
	if url == "" {
		return fmt.Errorf("webview url is empty")
	}
	w := webview.New(cfg.Debug)
	if w == nil {
		return fmt.Errorf("create webview window failed")
	}
	defer w.Destroy()

	w.SetTitle(cfg.Title)
	hint := webview.HintNone
	if !cfg.Resizable {
		hint = webview.HintFixed
	}
	w.SetSize(cfg.Width, cfg.Height, hint)

	win := webviewWindow{w: w}
	err := w.Bind(model.HostInvokeFunction, func(payload string) error {
		if err := onInvoke(win, payload); err != nil {
			logger.Error("host invoke failed", "err", err)
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("bind %s: %w", model.HostInvokeFunction, err)
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			w.Terminate()
		case <-stop:
		}
	}()

	logger.Info("opening window", "url", url, "title", cfg.Title)
	w.Navigate(url)
	w.Run()
	return nil
}
