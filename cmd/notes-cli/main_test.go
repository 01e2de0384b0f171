package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"never-notes/internal/adapters/notes"
	sqliteadapter "never-notes/internal/adapters/store/sqlite"
	"never-notes/internal/domain/model"
)

func testFs(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	files := map[string]string{
		"notes/Groceries.md": "# Groceries\n\nsee [[Todo]]\n",
		"notes/Todo.txt":     "a < b",
		"notes/.DS_Store":    "\x00",
	}
	for name, body := range files {
		if err := afero.WriteFile(fsys, name, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return fsys
}

func execute(t *testing.T, fsys afero.Fs, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCommand(fsys)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--notes", "notes", "--log-level", "error"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustExecute(t *testing.T, fsys afero.Fs, args ...string) string {
	t.Helper()
	out, err := execute(t, fsys, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

func TestList_JSON(t *testing.T) {
	out := mustExecute(t, testFs(t), "list", "--json")

	var names []string
	if err := json.Unmarshal([]byte(out), &names); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if want := []string{"Groceries.md", "Todo.txt"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("got %q want %q", names, want)
	}
}

func TestList_Table(t *testing.T) {
	out := mustExecute(t, testFs(t), "list")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %q", lines)
	}
	for i, prefix := range []string{"NAME", "Groceries.md", "Todo.txt"} {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Fatalf("line %d: %q does not start with %q", i, lines[i], prefix)
		}
	}
}

func TestShow(t *testing.T) {
	fsys := testFs(t)

	if out := mustExecute(t, fsys, "show", "Todo.txt"); out != "a < b" {
		t.Fatalf("unexpected raw output: %q", out)
	}
	if out := mustExecute(t, fsys, "show", "--html", "Groceries.md"); !strings.Contains(out, `<a href="internal:Todo">Todo</a>`) {
		t.Fatalf("interlink not rendered: %q", out)
	}
	if _, err := execute(t, fsys, "show", "missing.md"); !errors.Is(err, notes.ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestRender_Snapshot(t *testing.T) {
	out := mustExecute(t, testFs(t), "render")

	want := `<ul id="note_list"><li tabindex="-1">Groceries.md</li><li tabindex="-1">Todo.txt</li></ul>`
	if !strings.Contains(out, want) {
		t.Fatalf("rendered list not found in %q", out)
	}
}

func TestRender_EmptyFolder(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("notes", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if out := mustExecute(t, fsys, "render"); !strings.Contains(out, `<ul id="note_list"></ul>`) {
		t.Fatalf("expected empty list in %q", out)
	}
}

func TestExportPDF(t *testing.T) {
	dir := t.TempDir()
	out := mustExecute(t, testFs(t), "export-pdf", "--out", dir)

	if !strings.Contains(out, `"note_count": 2`) || !strings.Contains(out, dir) {
		t.Fatalf("unexpected export result: %s", out)
	}
}

func TestJournal_MigrateEventsVerify(t *testing.T) {
	fsys := testFs(t)
	dbPath := filepath.Join(t.TempDir(), "never.db")

	if out := mustExecute(t, fsys, "--db", dbPath, "migrate"); !strings.Contains(out, "migrations applied successfully") {
		t.Fatalf("unexpected migrate output: %q", out)
	}

	ctx := context.Background()
	db, err := sqliteadapter.OpenDB(ctx, dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	store := sqliteadapter.NewStore(db)
	for _, st := range []model.HostEventStatus{model.HostEventHandled, model.HostEventIgnored} {
		if _, err := store.AppendHostEvent(ctx, model.HostEvent{RequestType: "update", Status: st}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	out := mustExecute(t, fsys, "--db", dbPath, "events")
	if !strings.Contains(out, `"status": "handled"`) || !strings.Contains(out, `"status": "ignored"`) {
		t.Fatalf("unexpected events output: %s", out)
	}

	if out := mustExecute(t, fsys, "--db", dbPath, "verify"); !strings.Contains(out, "total=2 failed=0") {
		t.Fatalf("unexpected verify output: %q", out)
	}

	if _, err := db.ExecContext(ctx, `UPDATE host_events SET note_count = 99 WHERE seq = 1`); err != nil {
		t.Fatalf("tamper: %v", err)
	}
	out, err = execute(t, fsys, "--db", dbPath, "verify")
	if err == nil {
		t.Fatalf("expected verify to fail after tampering")
	}
	if !strings.Contains(out, "FAIL index=0") {
		t.Fatalf("unexpected verify output: %q", out)
	}
}

func TestBadLogLevel(t *testing.T) {
	if _, err := execute(t, testFs(t), "--log-level", "loud", "list"); err == nil {
		t.Fatalf("expected error for unknown log level")
	}
}
