package auditverify

import (
	"testing"

	"never-notes/internal/domain/model"
)

func chain(events []model.HostEvent) []model.HostEvent {
	prev := ""
	for i := range events {
		events[i].ChainPrevHash = prev
		events[i].ChainHash = events[i].ComputeChainHash(prev)
		prev = events[i].ChainHash
	}
	return events
}

func TestVerifyHostEvents_OK(t *testing.T) {
	events := chain([]model.HostEvent{
		{EventID: "evt_1", RequestType: "update", Status: model.HostEventHandled, NoteCount: 2, DetailJSON: []byte(`{"k":"v"}`), OccurredAt: 1700000000},
		{EventID: "evt_2", RequestType: "", Status: model.HostEventIgnored, OccurredAt: 1700000001},
	})

	res := VerifyHostEvents(events)
	if !res.OK {
		t.Fatalf("expected OK, got %+v", res)
	}
	if res.Total != 2 || res.Failed != 0 || res.LastChainHash != events[1].ChainHash {
		t.Fatalf("unexpected counters: %+v", res)
	}
}

func TestVerifyHostEvents_PrettyDetailStillVerifies(t *testing.T) {
	events := chain([]model.HostEvent{
		{EventID: "evt_1", RequestType: "update", Status: model.HostEventHandled, DetailJSON: []byte(`{"k":"v"}`), OccurredAt: 1},
	})
	events[0].DetailJSON = []byte("{\n  \"k\": \"v\"\n}")

	if res := VerifyHostEvents(events); !res.OK {
		t.Fatalf("formatting-only change should verify: %+v", res)
	}
}

func TestVerifyHostEvents_Tampered(t *testing.T) {
	events := chain([]model.HostEvent{
		{EventID: "evt_1", RequestType: "update", Status: model.HostEventHandled, NoteCount: 1, OccurredAt: 1},
		{EventID: "evt_2", RequestType: "update", Status: model.HostEventHandled, NoteCount: 3, OccurredAt: 2},
		{EventID: "evt_3", RequestType: "update", Status: model.HostEventFailed, OccurredAt: 3},
	})
	// 篡改第二条的 note_count，不动哈希
	events[1].NoteCount = 99

	res := VerifyHostEvents(events)
	if res.OK {
		t.Fatalf("expected NOT OK")
	}
	if res.Failed != 1 || res.ChainHashFailed != 1 || res.PrevHashFailed != 0 {
		t.Fatalf("unexpected counters: %+v", res)
	}
	if res.Failures[0].EventID != "evt_2" || res.Failures[0].Message != "chain_hash mismatch" {
		t.Fatalf("unexpected failure: %+v", res.Failures[0])
	}
}

func TestVerifyHostEvents_Deleted(t *testing.T) {
	events := chain([]model.HostEvent{
		{EventID: "evt_1", Status: model.HostEventHandled, OccurredAt: 1},
		{EventID: "evt_2", Status: model.HostEventHandled, OccurredAt: 2},
		{EventID: "evt_3", Status: model.HostEventHandled, OccurredAt: 3},
	})
	// 删除中间一条：第三条的 prev 对不上，且重算的 chain_hash 也随之不同
	res := VerifyHostEvents([]model.HostEvent{events[0], events[2]})
	if res.OK || res.PrevHashFailed != 1 || res.ChainHashFailed != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}
