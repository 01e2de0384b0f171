package auditverify

import (
	"bytes"
	"encoding/json"
	"strings"

	"never-notes/internal/domain/model"
)

// FailureItem 表示一次事件链校验失败的明细项（用于 CLI / API 展示）。
type FailureItem struct {
	Index int `json:"index"`

	EventID     string `json:"event_id"`
	OccurredAt  int64  `json:"occurred_at"`
	RequestType string `json:"request_type"`
	Status      string `json:"status"`

	// PrevHashMismatch 表示当前记录的 chain_prev_hash 与上一条记录 chain_hash 不一致。
	PrevHashMismatch bool   `json:"prev_hash_mismatch"`
	ExpectedPrevHash string `json:"expected_prev_hash,omitempty"`
	ActualPrevHash   string `json:"actual_prev_hash,omitempty"`

	// ChainHashMismatch 表示当前记录 chain_hash 与按公式重算的值不一致。
	ChainHashMismatch bool   `json:"chain_hash_mismatch"`
	ExpectedChainHash string `json:"expected_chain_hash,omitempty"`
	ActualChainHash   string `json:"actual_chain_hash,omitempty"`

	Message string `json:"message,omitempty"`
}

// Result 是事件链校验结果。
type Result struct {
	OK bool `json:"ok"`

	Total int `json:"total"`

	Failed          int `json:"failed"`
	PrevHashFailed  int `json:"prev_hash_failed"`
	ChainHashFailed int `json:"chain_hash_failed"`

	LastChainHash string `json:"last_chain_hash,omitempty"`

	Failures []FailureItem `json:"failures,omitempty"`
}

// VerifyHostEvents 对 host_events 做强校验：
// 1) chain_prev_hash 连续性
// 2) 重算 chain_hash 并与存量字段对比
//
// 校验公式与 Store.AppendHostEvent 共用 model.HostEvent.ComputeChainHash。
func VerifyHostEvents(events []model.HostEvent) Result {
	res := Result{
		OK:       true,
		Total:    len(events),
		Failures: []FailureItem{},
	}

	prev := ""
	for i, ev := range events {
		expectedPrev := prev
		actualPrev := strings.TrimSpace(ev.ChainPrevHash)

		// detail 入库时是紧凑 JSON；导出/人工编辑后可能被美化，先 compact 再算。
		normalized := ev
		normalized.DetailJSON = []byte(compactJSON(ev.DetailJSON))
		expectedChain := normalized.ComputeChainHash(expectedPrev)
		actualChain := strings.TrimSpace(ev.ChainHash)

		prevMismatch := actualPrev != expectedPrev
		chainMismatch := actualChain != expectedChain

		if prevMismatch || chainMismatch {
			res.OK = false
			res.Failed++
			if prevMismatch {
				res.PrevHashFailed++
			}
			if chainMismatch {
				res.ChainHashFailed++
			}

			msg := ""
			switch {
			case prevMismatch && chainMismatch:
				msg = "chain_prev_hash and chain_hash mismatch"
			case prevMismatch:
				msg = "chain_prev_hash mismatch"
			case chainMismatch:
				msg = "chain_hash mismatch"
			}

			res.Failures = append(res.Failures, FailureItem{
				Index:       i,
				EventID:     ev.EventID,
				OccurredAt:  ev.OccurredAt,
				RequestType: ev.RequestType,
				Status:      string(ev.Status),

				PrevHashMismatch: prevMismatch,
				ExpectedPrevHash: expectedPrev,
				ActualPrevHash:   actualPrev,

				ChainHashMismatch: chainMismatch,
				ExpectedChainHash: expectedChain,
				ActualChainHash:   actualChain,

				Message: msg,
			})
		}

		// 以库里记录的 chain_hash 推进，这样一处篡改之后的记录仍能继续校验。
		prev = actualChain
		res.LastChainHash = actualChain
	}

	return res
}

func compactJSON(in []byte) string {
	if len(bytes.TrimSpace(in)) == 0 {
		return "{}"
	}
	var b bytes.Buffer
	if err := json.Compact(&b, in); err == nil {
		return b.String()
	}
	return strings.TrimSpace(string(in))
}
