//go:build !cgo

package main

import (
	"context"
	"errors"
	"log/slog"

	"never-notes/internal/app"
)

// webview 依赖系统 WebKit/WebView2，必须启用 CGO 构建。
var errWindowUnavailable = errors.New("webview window unavailable: built without cgo (rebuild with CGO_ENABLED=1 or pass -no-window)")

func openWindow(_ context.Context, _ app.WindowConfig, _ string, _ invokeFunc, _ *slog.Logger) error {
	return errWindowUnavailable
}
