package notes

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"never-notes/internal/domain/model"
)

func newTestFolder(t *testing.T) (*Folder, *bytes.Buffer) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	files := map[string]string{
		"notes/Todo.md":         "# todo\n- [ ] milk\n",
		"notes/Groceries.txt":   "eggs\n",
		"notes/photo.png":       "\x89PNG",
		"notes/README.MD":       "upper-case extension is not a note",
		"notes/sub/nested.md":   "not listed",
		"notes/Cafe\u0301.md":   "nfd name",
		"elsewhere/outside.txt": "x",
	}
	for p, body := range files {
		if err := afero.WriteFile(fsys, p, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewFolder(fsys, "notes", logger), &logs
}

func TestList_FiltersAndSorts(t *testing.T) {
	f, logs := newTestFolder(t)

	got, err := f.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	names := model.NoteNames(got)
	want := []string{"Caf\u00e9.md", "Groceries.txt", "Todo.md"}
	if strings.Join(names, "|") != strings.Join(want, "|") {
		t.Fatalf("names = %q, want %q", names, want)
	}
	if !strings.Contains(logs.String(), "photo.png") || !strings.Contains(logs.String(), "README.MD") {
		t.Fatalf("expected skip log lines, got %q", logs.String())
	}
	if got[1].SizeBytes != 5 || got[1].SHA256 == "" || string(got[1].Content) != "eggs\n" {
		t.Fatalf("unexpected note: %+v", got[1])
	}
}

func TestList_MissingDir(t *testing.T) {
	f := NewFolder(afero.NewMemMapFs(), "nope", nil)
	if _, err := f.List(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestList_CancelledContext(t *testing.T) {
	f, _ := newTestFolder(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.List(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGet(t *testing.T) {
	f, _ := newTestFolder(t)
	ctx := context.Background()

	n, err := f.Get(ctx, "Todo.md")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !n.IsMarkdown() {
		t.Fatalf("Todo.md should be markdown")
	}

	// NFD 查询也能命中
	if _, err := f.Get(ctx, "Cafe\u0301.md"); err != nil {
		t.Fatalf("get nfd: %v", err)
	}

	for _, name := range []string{"", "photo.png", "../elsewhere/outside.txt", "sub/nested.md", "missing.md"} {
		if _, err := f.Get(ctx, name); !errors.Is(err, ErrNoteNotFound) {
			t.Fatalf("Get(%q) = %v, want ErrNoteNotFound", name, err)
		}
	}
}
