package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"never-notes/internal/adapters/notes"
	sqliteadapter "never-notes/internal/adapters/store/sqlite"
	"never-notes/internal/app"
	"never-notes/internal/services/notehost"
	"never-notes/internal/services/webapp"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	cfg      app.Config
	noWindow bool
}

// parseFlags 先读 -config 指向的 YAML，再用命令行上显式给出的参数覆盖。
func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("notes-desktop", flag.ContinueOnError)
	configPath := fs.String("config", "", "yaml config file")
	notesDir := fs.String("notes", "", "notes directory")
	dbPath := fs.String("db", "", "sqlite database path")
	listen := fs.String("listen", "", "listen address")
	noWindow := fs.Bool("no-window", false, "serve the ui without opening a window")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		return options{}, err
	}
	if *notesDir != "" {
		cfg.NotesDir = *notesDir
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *listen != "" {
		cfg.ListenAddr = *listen
	}
	return options{cfg: cfg, noWindow: *noWindow}, nil
}

// notes-desktop：
// - 启动内置 UI/API 服务（本地端口，页面是 wasm，需要走 HTTP 加载）
// - 打开 webview 窗口，把 hostInvoke 绑定到宿主消息处理器
// 关闭窗口或 Ctrl+C 都会让服务退出。
func run(ctx context.Context, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg := opts.cfg
	logger := cfg.NewLogger(os.Stderr)

	sigCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := sqliteadapter.OpenDB(sigCtx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := sqliteadapter.NewMigrator(db).Up(sigCtx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	folder := notes.NewFolder(afero.NewOsFs(), cfg.NotesDir, logger)
	store := sqliteadapter.NewStore(db)

	server, err := webapp.NewServer(folder, store, webapp.Options{
		NotesDir:   cfg.NotesDir,
		DBPath:     cfg.DBPath,
		ExportDir:  cfg.ExportDir,
		ListenAddr: cfg.ListenAddr,
	}, logger)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.ListenAddr, err)
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Serve(sigCtx, ln)
	}()

	if opts.noWindow {
		return <-serverErrCh
	}

	uiURL := server.URL()
	// 等服务起来再打开窗口（减少“空白页/加载失败”的概率）
	if err := waitForHTTP(sigCtx, uiURL+"/api/health", 12*time.Second); err != nil {
		cancel()
		<-serverErrCh
		return err
	}

	handler := notehost.NewHandler(folder, store, logger)
	winErr := openWindow(sigCtx, cfg.Window, uiURL, func(win notehost.Window, payload string) error {
		return handler.Handle(sigCtx, win, payload)
	}, logger)

	// 窗口关闭后停止服务
	cancel()
	serverErr := <-serverErrCh
	return errors.Join(winErr, serverErr)
}

func waitForHTTP(ctx context.Context, url string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := http.DefaultClient.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
	return fmt.Errorf("timeout waiting for %s", url)
}

// invokeFunc 是页面调用 hostInvoke 时宿主执行的回调。
type invokeFunc func(win notehost.Window, payload string) error
