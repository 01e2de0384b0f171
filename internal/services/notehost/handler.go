// Package notehost 是宿主一侧的消息处理：解析页面发来的 JSON 请求，按类型分派，
// 对 update 请求读取笔记目录并在窗口里调用页面的渲染函数。
package notehost

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"never-notes/internal/domain/model"
)

// Window 是宿主窗口对页面执行脚本的能力（webview Eval）。
type Window interface {
	Eval(js string)
}

// NoteSource 提供当前笔记列表。
type NoteSource interface {
	List(ctx context.Context) ([]model.Note, error)
}

// Journal 记录宿主事件流水；可为 nil。
type Journal interface {
	AppendHostEvent(ctx context.Context, ev model.HostEvent) (model.HostEvent, error)
}

// Handler 处理页面请求。
type Handler struct {
	notes   NoteSource
	journal Journal
	logger  *slog.Logger
}

func NewHandler(notes NoteSource, journal Journal, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{notes: notes, journal: journal, logger: logger}
}

// Handle 处理一条页面请求。
//
// - 非法 JSON：返回错误
// - 缺少字符串 type：记日志后忽略
// - update：推送笔记名列表
// - 其他 type：记日志后忽略
func (h *Handler) Handle(ctx context.Context, win Window, payload string) error {
	var v any
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		h.record(ctx, model.HostEvent{Status: model.HostEventFailed}, map[string]any{"error": err.Error()})
		return fmt.Errorf("decode request: %w", err)
	}

	obj, _ := v.(map[string]any)
	t, ok := obj["type"].(string)
	if !ok {
		h.logger.Warn("request has no type", "payload", payload)
		h.record(ctx, model.HostEvent{Status: model.HostEventIgnored}, map[string]any{"reason": "missing type"})
		return nil
	}

	switch model.RequestType(t) {
	case model.RequestUpdate:
		return h.pushNoteList(ctx, win)
	default:
		h.logger.Warn("unrecognized request type", "type", t)
		h.record(ctx, model.HostEvent{RequestType: t, Status: model.HostEventIgnored}, map[string]any{"reason": "unrecognized type"})
		return nil
	}
}

func (h *Handler) pushNoteList(ctx context.Context, win Window) error {
	reqType := string(model.RequestUpdate)

	notes, err := h.notes.List(ctx)
	if err != nil {
		h.record(ctx, model.HostEvent{RequestType: reqType, Status: model.HostEventFailed}, map[string]any{"error": err.Error()})
		return fmt.Errorf("list notes: %w", err)
	}
	names := model.NoteNames(notes)

	script, err := RenderScript(names)
	if err != nil {
		h.record(ctx, model.HostEvent{RequestType: reqType, Status: model.HostEventFailed}, map[string]any{"error": err.Error()})
		return err
	}
	win.Eval(script)

	h.logger.Info("note list pushed", "count", len(names))
	h.record(ctx, model.HostEvent{RequestType: reqType, Status: model.HostEventHandled, NoteCount: len(names)}, nil)
	return nil
}

// RenderScript 生成在页面里执行的渲染调用，例如 update_note_list(["a.md","b.txt"])。
// encoding/json 会转义 <、>、& 以及 U+2028/U+2029，结果可以直接作为 JS 表达式执行。
func RenderScript(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	raw, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("encode note names: %w", err)
	}
	return fmt.Sprintf("%s(%s)", model.RenderFunction, raw), nil
}

// record 写流水失败只记日志，不影响页面请求的处理结果。
func (h *Handler) record(ctx context.Context, ev model.HostEvent, detail map[string]any) {
	if h.journal == nil {
		return
	}
	if detail != nil {
		raw, err := json.Marshal(detail)
		if err == nil {
			ev.DetailJSON = raw
		}
	}
	if _, err := h.journal.AppendHostEvent(ctx, ev); err != nil {
		h.logger.Error("append host event failed", "status", ev.Status, "err", err)
	}
}
