package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"never-notes/internal/domain/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	db, err := OpenDB(ctx, filepath.Join(t.TempDir(), "data", "never.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	m := NewMigrator(db)
	if err := m.Up(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// 重复执行应当是幂等的
	if err := m.Up(ctx); err != nil {
		t.Fatalf("migrate again: %v", err)
	}
	return NewStore(db)
}

func TestAppendHostEvent_Chain(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first, err := s.AppendHostEvent(ctx, model.HostEvent{
		RequestType: "update",
		Status:      model.HostEventHandled,
		NoteCount:   2,
		DetailJSON:  []byte(`{"names":2}`),
	})
	if err != nil {
		t.Fatalf("append first: %v", err)
	}
	if first.EventID == "" || first.OccurredAt == 0 || first.ChainPrevHash != "" {
		t.Fatalf("unexpected first event: %+v", first)
	}

	second, err := s.AppendHostEvent(ctx, model.HostEvent{
		RequestType: "open",
		Status:      model.HostEventIgnored,
	})
	if err != nil {
		t.Fatalf("append second: %v", err)
	}
	if second.ChainPrevHash != first.ChainHash {
		t.Fatalf("chain broken: prev=%s head=%s", second.ChainPrevHash, first.ChainHash)
	}

	all, err := s.ListHostEvents(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].EventID != first.EventID || all[1].EventID != second.EventID {
		t.Fatalf("unexpected list: %+v", all)
	}
	if string(all[1].DetailJSON) != "{}" {
		t.Fatalf("empty detail should be stored as {}: %q", all[1].DetailJSON)
	}
	if all[1].ChainHash != all[1].ComputeChainHash(all[1].ChainPrevHash) {
		t.Fatalf("stored hash does not verify")
	}

	last, err := s.ListHostEvents(ctx, 1)
	if err != nil {
		t.Fatalf("list last: %v", err)
	}
	if len(last) != 1 || last[0].EventID != second.EventID {
		t.Fatalf("unexpected tail: %+v", last)
	}
}

func TestAppendHostEvent_RequiresStatus(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.AppendHostEvent(context.Background(), model.HostEvent{RequestType: "update"}); err == nil {
		t.Fatalf("expected error")
	}
}
