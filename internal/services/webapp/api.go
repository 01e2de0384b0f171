package webapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"never-notes/internal/adapters/notes"
	"never-notes/internal/services/auditverify"
	"never-notes/internal/services/notedoc"
	"never-notes/internal/services/noteexport"
)

type noteInfo struct {
	Name       string `json:"name"`
	SizeBytes  int64  `json:"size_bytes"`
	SHA256     string `json:"sha256"`
	ModifiedAt int64  `json:"modified_at"`
	Markdown   bool   `json:"markdown"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": "webapp",
		"time":    time.Now().Unix(),
	})
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	list, err := s.notes.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]noteInfo, 0, len(list))
	for _, n := range list {
		out = append(out, noteInfo{
			Name:       n.Name,
			SizeBytes:  n.SizeBytes,
			SHA256:     n.SHA256,
			ModifiedAt: n.ModifiedAt,
			Markdown:   n.IsMarkdown(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": out})
}

// handleNote: GET /api/notes/{name}，返回渲染后的 HTML 片段。
func (s *Server) handleNote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	name, err := url.PathUnescape(strings.TrimPrefix(r.URL.EscapedPath(), "/api/notes/"))
	if err != nil || name == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid note name"))
		return
	}

	n, err := s.notes.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, notes.ErrNoteNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(notedoc.Render(n))
}

// handleEvents: GET /api/events?limit=N，附带哈希链校验结果。
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.events == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("event journal not configured"))
		return
	}
	limit := parseInt(r.URL.Query().Get("limit"), 200)
	events, err := s.events.ListHostEvents(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	type eventView struct {
		EventID     string          `json:"event_id"`
		RequestType string          `json:"request_type"`
		Status      string          `json:"status"`
		NoteCount   int             `json:"note_count"`
		Detail      json.RawMessage `json:"detail"`
		OccurredAt  int64           `json:"occurred_at"`
		ChainHash   string          `json:"chain_hash"`
	}
	out := make([]eventView, 0, len(events))
	for _, ev := range events {
		out = append(out, eventView{
			EventID:     ev.EventID,
			RequestType: ev.RequestType,
			Status:      string(ev.Status),
			NoteCount:   ev.NoteCount,
			Detail:      json.RawMessage(ev.Detail()),
			OccurredAt:  ev.OccurredAt,
			ChainHash:   ev.ChainHash,
		})
	}

	resp := map[string]any{"events": out}
	// 只取了最近 N 条时，第一条的 prev 无法在窗口内校验，这里只对完整流水给出结论
	if limit <= 0 || len(events) < limit {
		resp["verify"] = auditverify.VerifyHostEvents(events)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleExportPDF: GET /api/export/pdf，生成笔记索引 PDF 并以附件下载。
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	list, err := s.notes.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	res, err := noteexport.ExportPDF(r.Context(), list, noteexport.Options{
		OutputDir: s.opts.ExportDir,
		NotesDir:  s.opts.NotesDir,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.logger.Info("note index exported", "path", res.PDFPath, "notes", res.NoteCount)
	w.Header().Set("X-Content-SHA256", res.PDFSHA256)
	serveFile(w, r, res.PDFPath, "note_index")
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{
		"error": err.Error(),
	})
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
