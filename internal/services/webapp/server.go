package webapp

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"never-notes/internal/domain/model"
)

// NoteSource 是服务读取笔记的依赖（notes.Folder）。
type NoteSource interface {
	List(ctx context.Context) ([]model.Note, error)
	Get(ctx context.Context, name string) (model.Note, error)
}

// EventStore 是宿主事件流水的只读依赖；为 nil 时 /api/events 返回 503。
type EventStore interface {
	ListHostEvents(ctx context.Context, limit int) ([]model.HostEvent, error)
}

// Server 是内置 Web UI/API 的运行时对象。
type Server struct {
	opts   Options
	notes  NoteSource
	events EventStore
	logger *slog.Logger

	ui fs.FS
}

func NewServer(notes NoteSource, events EventStore, opts Options, logger *slog.Logger) (*Server, error) {
	opts.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	ui, err := UI()
	if err != nil {
		return nil, err
	}
	return &Server{opts: opts, notes: notes, events: events, logger: logger, ui: ui}, nil
}

// Handler 返回注册好全部路由的 handler。
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return mux
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	// API
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/notes", s.handleNotes)
	mux.HandleFunc("/api/notes/", s.handleNote)
	mux.HandleFunc("/api/events", s.handleEvents)
	mux.HandleFunc("/api/export/pdf", s.handleExportPDF)

	// UI（index.html + wasm 资源）
	uiFileServer := http.FileServer(http.FS(s.ui))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.handleUI(w, r, uiFileServer)
	})
}

func (s *Server) handleUI(w http.ResponseWriter, r *http.Request, uiFileServer http.Handler) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	// API 路由已在上方注册；这里再兜底一次，避免误把 /api/* 当静态资源处理。
	if strings.HasPrefix(r.URL.Path, "/api/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	// "/" 不要改写到 /index.html：FileServer 会把 "/index.html" 重定向到 "./"，造成 301 循环。
	if r.URL.Path == "/" || r.URL.Path == "" {
		uiFileServer.ServeHTTP(w, r)
		return
	}

	reqPath := strings.TrimPrefix(r.URL.Path, "/")
	info, err := fs.Stat(s.ui, reqPath)
	if err != nil || info.IsDir() {
		// 单页应用没有前端路由，缺失资源一律 404
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if strings.HasSuffix(reqPath, ".wasm") {
		// instantiateStreaming 要求正确的 Content-Type
		w.Header().Set("Content-Type", "application/wasm")
	}
	uiFileServer.ServeHTTP(w, r)
}

// URL 返回浏览器 / webview 可访问的地址。
func (s *Server) URL() string {
	return fmt.Sprintf("http://%s", NormalizeListenForBrowser(s.opts.ListenAddr))
}
