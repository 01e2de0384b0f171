package webapp

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/afero"

	"never-notes/internal/adapters/notes"
	sqliteadapter "never-notes/internal/adapters/store/sqlite"
	"never-notes/internal/app"
)

// 注意：
// - go:embed 的路径必须相对当前包目录，且不能包含 ".."
// - wasm 页面（notes.wasm + wasm_exec.js）由 `make ui` 构建到 ui_dist/，这样二进制即可离线分发。
// - ui_dist/ 至少要有一个文件（index.html 常驻），否则 go:embed 会因“无匹配文件”而编译失败。
//
//go:embed ui_dist
var uiFS embed.FS

// Options 定义 Web UI + API 服务启动参数。
type Options struct {
	NotesDir   string
	DBPath     string
	ExportDir  string
	ListenAddr string
}

func (o *Options) applyDefaults() {
	defaults := app.DefaultConfig()
	if o.NotesDir == "" {
		o.NotesDir = defaults.NotesDir
	}
	if o.DBPath == "" {
		o.DBPath = defaults.DBPath
	}
	if o.ExportDir == "" {
		o.ExportDir = defaults.ExportDir
	}
	if o.ListenAddr == "" {
		o.ListenAddr = defaults.ListenAddr
	}
}

// UI 返回内嵌的页面资源（ui_dist 子树）。
func UI() (fs.FS, error) {
	sub, err := fs.Sub(uiFS, "ui_dist")
	if err != nil {
		return nil, fmt.Errorf("sub ui fs: %w", err)
	}
	return sub, nil
}

// Run 独立启动 UI 服务（不带桌面窗口），直到 ctx 取消。
func Run(ctx context.Context, opts Options, logger *slog.Logger) error {
	opts.applyDefaults()

	db, err := sqliteadapter.OpenDB(ctx, opts.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sqliteadapter.NewMigrator(db).Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	folder := notes.NewFolder(afero.NewOsFs(), opts.NotesDir, logger)
	s, err := NewServer(folder, sqliteadapter.NewStore(db), opts, logger)
	if err != nil {
		return err
	}
	return s.ListenAndServe(ctx)
}

// ListenAndServe 监听 opts.ListenAddr。
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.ListenAddr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve 在给定 listener 上提供服务；ctx 取消后优雅关闭（最多等 5 秒）。
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	fmt.Printf("webapp listening: http://%s\n", ln.Addr())
	err := httpServer.Serve(ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
