package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"never-notes/internal/domain/model"
	"never-notes/internal/platform/id"
)

// Store 封装与 SQLite 的读写逻辑。
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// AppendHostEvent 追加一条宿主事件，并接上哈希链。
// EventID / OccurredAt 为空时自动补齐；返回实际落库的记录。
func (s *Store) AppendHostEvent(ctx context.Context, ev model.HostEvent) (model.HostEvent, error) {
	if ev.EventID == "" {
		ev.EventID = id.New("evt")
	}
	if ev.OccurredAt == 0 {
		ev.OccurredAt = time.Now().Unix()
	}
	if ev.Status == "" {
		return model.HostEvent{}, errors.New("append host event: status is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.HostEvent{}, fmt.Errorf("begin tx append host event: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var prev string
	err = tx.QueryRowContext(ctx, `SELECT chain_hash FROM host_events ORDER BY seq DESC LIMIT 1`).Scan(&prev)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return model.HostEvent{}, fmt.Errorf("query chain head: %w", err)
	}

	ev.ChainPrevHash = prev
	ev.ChainHash = ev.ComputeChainHash(prev)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO host_events(
			event_id, request_type, status, note_count, detail_json,
			occurred_at, chain_prev_hash, chain_hash
		)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, ev.EventID, ev.RequestType, string(ev.Status), ev.NoteCount, ev.Detail(),
		ev.OccurredAt, ev.ChainPrevHash, ev.ChainHash)
	if err != nil {
		return model.HostEvent{}, fmt.Errorf("insert host event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.HostEvent{}, fmt.Errorf("commit host event: %w", err)
	}
	return ev, nil
}

// ListHostEvents 返回最近 limit 条事件（按写入顺序从旧到新）；limit<=0 返回全部。
func (s *Store) ListHostEvents(ctx context.Context, limit int) ([]model.HostEvent, error) {
	query := `
		SELECT event_id, request_type, status, note_count, detail_json,
			occurred_at, chain_prev_hash, chain_hash
		FROM host_events
		ORDER BY seq ASC
	`
	args := []any{}
	if limit > 0 {
		query = `
			SELECT event_id, request_type, status, note_count, detail_json,
				occurred_at, chain_prev_hash, chain_hash
			FROM (
				SELECT * FROM host_events ORDER BY seq DESC LIMIT ?
			)
			ORDER BY seq ASC
		`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query host events: %w", err)
	}
	defer rows.Close()

	out := []model.HostEvent{}
	for rows.Next() {
		var ev model.HostEvent
		var status, detail string
		if err := rows.Scan(&ev.EventID, &ev.RequestType, &status, &ev.NoteCount, &detail,
			&ev.OccurredAt, &ev.ChainPrevHash, &ev.ChainHash); err != nil {
			return nil, fmt.Errorf("scan host event: %w", err)
		}
		ev.Status = model.HostEventStatus(status)
		ev.DetailJSON = []byte(detail)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate host events: %w", err)
	}
	return out, nil
}
